package moc

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aidanlsb/automoc/internal/parser"
)

// Request describes one run against an active note.
type Request struct {
	// Active is the vault-relative path of the note receiving links.
	Active string

	Kind Kind

	// Item is the tag or alias to match. Unused for KindLink.
	Item string

	// Line is the 0-indexed line the block is inserted before; -1 appends.
	Line int

	// DryRun builds the block without writing the note.
	DryRun bool
}

// Result reports what a run found and added.
type Result struct {
	Active   string    `json:"active"`
	Kind     Kind      `json:"kind"`
	Item     string    `json:"item,omitempty"`
	Mentions []Mention `json:"mentions"`
	Present  []string  `json:"present"`
	Added    []string  `json:"added"`
	Lines    []string  `json:"lines"`
	Skipped  []Skipped `json:"skipped,omitempty"`
	Written  bool      `json:"written"`
}

// Block returns the lines joined for insertion.
func (r *Result) Block() string {
	return strings.Join(r.Lines, "")
}

// Run finds the notes mentioning the active note that it does not yet link
// to and, unless DryRun is set, inserts a link line for each.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	if !strings.HasSuffix(strings.ToLower(req.Active), ".md") {
		return nil, fmt.Errorf("%w: %s", ErrNotMarkdown, req.Active)
	}
	if req.Kind == "" {
		req.Kind = KindLink
	}
	e.notify(EventLinking)

	text, err := e.Store.ReadNote(req.Active)
	if err != nil {
		return nil, fmt.Errorf("read active note: %w", err)
	}

	present, err := e.PresentLinks(req.Active, text)
	if err != nil {
		return nil, err
	}

	var (
		mentions []Mention
		skipped  []Skipped
	)
	switch req.Kind {
	case KindLink:
		mentions, skipped, err = e.LinkedMentions(ctx, req.Active)
	case KindTag:
		mentions, skipped, err = e.TaggedMentions(ctx, req.Active, req.Item)
	case KindAlias:
		mentions, skipped, err = e.AliasMentions(ctx, req.Active, req.Item)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, req.Kind)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		Active:   req.Active,
		Kind:     req.Kind,
		Item:     req.Item,
		Mentions: mentions,
		Present:  SortedPaths(present),
		Added:    []string{},
		Lines:    []string{},
		Skipped:  skipped,
	}

	entries, err := e.missing(req.Active, mentions, present)
	if err != nil {
		return nil, err
	}
	for _, en := range entries {
		result.Added = append(result.Added, en.Path)
	}

	res, err := e.resolver()
	if err != nil {
		return nil, err
	}
	f := &Formatter{Settings: e.settings(), Resolver: res, Active: req.Active}
	result.Lines = append(result.Lines, f.Format(entries)...)

	if len(entries) == 0 {
		e.notify(EventNone)
		return result, nil
	}

	if !req.DryRun {
		updated := Insert(text, req.Line, result.Block())
		if err := e.Store.ReplaceNote(req.Active, text, updated); err != nil {
			return nil, fmt.Errorf("write %s: %w", req.Active, err)
		}
		result.Written = true
		if e.AfterWrite != nil {
			if err := e.AfterWrite(req.Active, updated); err != nil {
				e.logger().Warn("post-write hook failed", "path", req.Active, "error", err)
			}
		}
	}
	e.notify(EventAdded)
	return result, nil
}

// missing returns an entry for each mention the active note does not link
// to yet, with its alias filled in.
func (e *Engine) missing(active string, mentions []Mention, present map[string]bool) ([]Entry, error) {
	withAlias := e.settings().LinkWithAlias
	var entries []Entry
	for _, m := range mentions {
		if m.Path == active || present[m.Path] {
			continue
		}
		en := Entry{Path: m.Path, Headings: m.Headings}
		if withAlias {
			fm, err := e.Meta.FrontmatterOf(m.Path)
			if err != nil {
				return nil, fmt.Errorf("frontmatter of %s: %w", m.Path, err)
			}
			if aliases := fm.AliasValues(); len(aliases) > 0 {
				en.Alias = aliases[0]
			}
		}
		entries = append(entries, en)
	}
	return entries, nil
}

// PresentLinks returns the notes active already links to: the resolved
// links recorded in Meta plus those in text, its current content.
func (e *Engine) PresentLinks(active, text string) (map[string]bool, error) {
	present := make(map[string]bool)

	links, err := e.Meta.ResolvedLinksOf(active)
	if err == nil {
		for p := range links {
			present[p] = true
		}
	} else {
		e.logger().Debug("active note not in metadata", "path", active, "error", err)
	}

	res, err := e.resolver()
	if err != nil {
		return nil, err
	}
	for _, link := range parser.ExtractLinks(text) {
		if r := res.Resolve(link.Target, active); r.Path != "" {
			present[r.Path] = true
		}
	}
	return present, nil
}

// SortedPaths returns the keys of present in order.
func SortedPaths(present map[string]bool) []string {
	out := make([]string, 0, len(present))
	for p := range present {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
