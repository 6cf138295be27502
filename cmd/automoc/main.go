// Package main is the entry point for the automoc CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/automoc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
