// Package picker offers an interactive fuzzy selection over any list of
// candidates.
package picker

import (
	"errors"
	"fmt"
	"os"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/mattn/go-isatty"
)

var (
	// ErrAborted is returned when the user leaves the picker without choosing.
	ErrAborted = errors.New("selection aborted")

	// ErrNotInteractive is returned when stdin or stdout is not a terminal.
	ErrNotInteractive = errors.New("picker requires an interactive terminal")

	// ErrEmpty is returned when there is nothing to pick from.
	ErrEmpty = errors.New("nothing to pick from")
)

var (
	find             = fuzzyfinder.Find
	stdinIsTerminal  = func() bool { return isatty.IsTerminal(os.Stdin.Fd()) }
	stdoutIsTerminal = func() bool { return isatty.IsTerminal(os.Stdout.Fd()) }
)

// Options configures the picker.
type Options struct {
	Prompt string
	Header string

	// Preview, when set, renders the preview pane for the item at index i.
	Preview func(i, width, height int) string
}

// Interactive reports whether a picker can be shown.
func Interactive() bool {
	return stdinIsTerminal() && stdoutIsTerminal()
}

// Pick shows items in a fuzzy finder and returns the chosen one.
func Pick[T any](items []T, label func(T) string, opts Options) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrEmpty
	}
	if !Interactive() {
		return zero, ErrNotInteractive
	}

	var options []fuzzyfinder.Option
	if opts.Prompt != "" {
		options = append(options, fuzzyfinder.WithPromptString(opts.Prompt))
	}
	if opts.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(opts.Header))
	}
	if opts.Preview != nil {
		options = append(options, fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i < 0 {
				return ""
			}
			return opts.Preview(i, w, h)
		}))
	}

	idx, err := find(items, func(i int) string {
		return label(items[i])
	}, options...)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return zero, ErrAborted
		}
		return zero, fmt.Errorf("run picker: %w", err)
	}
	return items[idx], nil
}
