// Package buildinfo holds version details injected at release time.
package buildinfo

// Set with -ldflags "-X github.com/aidanlsb/automoc/internal/buildinfo.Version=..."
// for release binaries. Empty for local builds.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
