// Package moc gathers the notes that mention an active note and builds the
// link block that adds the missing ones to it.
package moc

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aidanlsb/automoc/internal/config"
	"github.com/aidanlsb/automoc/internal/graph"
	"github.com/aidanlsb/automoc/internal/logging"
	"github.com/aidanlsb/automoc/internal/outline"
	"github.com/aidanlsb/automoc/internal/resolver"
)

// Kind selects how mentions of the active note are found.
type Kind string

const (
	KindLink  Kind = "link"
	KindTag   Kind = "tag"
	KindAlias Kind = "alias"
)

// ParseKind parses a kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindLink, KindTag, KindAlias:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

var (
	// ErrInvalidKind is returned for an unknown mention kind.
	ErrInvalidKind = errors.New("invalid item type")

	// ErrNotMarkdown is returned when the active note is not a .md file.
	ErrNotMarkdown = errors.New("file type is not a markdown file")

	// ErrMissingItem is returned when a tag or alias run has no item.
	ErrMissingItem = errors.New("tag or alias is required")
)

// Store reads notes and replaces the active note's content.
type Store interface {
	outline.Source
	ReplaceNote(path, previous, content string) error
}

// Engine finds missing mentions and formats links to them.
type Engine struct {
	Meta     graph.Metadata
	Store    Store
	Settings *config.VaultConfig
	Logger   *slog.Logger

	// Workers bounds concurrent note reads. 0 uses Settings.
	Workers int

	// Notifier receives status events. May be nil.
	Notifier Notifier

	// AfterWrite is called with the new content of the active note once it
	// has been written.
	AfterWrite func(path, content string) error

	resOnce sync.Once
	res     *resolver.Resolver
	resErr  error
}

func (e *Engine) settings() *config.VaultConfig {
	if e.Settings == nil {
		return config.DefaultVaultConfig()
	}
	return e.Settings
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return logging.Discard()
	}
	return e.Logger
}

func (e *Engine) workers() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return e.settings().WorkerCount()
}

func (e *Engine) headingResolver() *outline.Resolver {
	s := e.settings()
	return &outline.Resolver{
		Source:  e.Store,
		Enabled: s.LinkToHeading,
		Mode:    s.Mode(),
	}
}

// resolver returns a link resolver over every note in Meta, built once.
func (e *Engine) resolver() (*resolver.Resolver, error) {
	e.resOnce.Do(func() {
		notes, err := e.Meta.Notes()
		if err != nil {
			e.resErr = fmt.Errorf("list notes: %w", err)
			return
		}
		e.res = resolver.New(notes)
	})
	return e.res, e.resErr
}

func (e *Engine) notify(ev Event) {
	if e.Notifier == nil || !e.settings().Notices.Enabled(string(ev)) {
		return
	}
	e.Notifier.Notify(ev)
}
