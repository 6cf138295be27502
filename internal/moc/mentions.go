package moc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aidanlsb/automoc/internal/graph"
	"github.com/aidanlsb/automoc/internal/outline"
	"github.com/aidanlsb/automoc/internal/paths"
)

// Mention is a note that mentions the active note, with the headings
// governing its mentions when heading links are on.
type Mention struct {
	Path     string   `json:"path"`
	Headings []string `json:"headings,omitempty"`

	// lines are the known mention lines (backlink positions). When nil
	// they are found by searching for token.
	lines []int
	token string
}

// Skipped is a candidate note left out because it could not be read.
type Skipped struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

// Reason returns the error text.
func (s Skipped) Reason() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// LinkedMentions returns the notes linking to active, sorted by path
// without regard to case. Notes in ignored folders are left out.
func (e *Engine) LinkedMentions(ctx context.Context, active string) ([]Mention, []Skipped, error) {
	ignored := e.settings().IgnoredFolderList()

	var mentions []Mention
	if bl, ok := e.Meta.(graph.Backlinker); ok {
		backlinks, err := bl.BacklinksFor(active)
		if err != nil {
			return nil, nil, fmt.Errorf("backlinks for %s: %w", active, err)
		}
		for _, b := range backlinks {
			if paths.IsIgnored(b.Source, ignored) {
				continue
			}
			mentions = append(mentions, Mention{Path: b.Source, lines: append([]int{}, b.Lines...)})
		}
	} else {
		notes, err := e.Meta.Notes()
		if err != nil {
			return nil, nil, fmt.Errorf("list notes: %w", err)
		}
		for _, p := range notes {
			if paths.IsIgnored(p, ignored) {
				continue
			}
			links, err := e.Meta.ResolvedLinksOf(p)
			if err != nil {
				return nil, nil, fmt.Errorf("links of %s: %w", p, err)
			}
			if _, ok := links[active]; ok {
				mentions = append(mentions, Mention{Path: p})
			}
		}
	}

	sort.SliceStable(mentions, func(i, j int) bool {
		a, b := strings.ToLower(mentions[i].Path), strings.ToLower(mentions[j].Path)
		if a != b {
			return a < b
		}
		return mentions[i].Path < mentions[j].Path
	})

	return e.resolveHeadings(ctx, active, mentions)
}

// TaggedMentions returns the notes carrying tag in their body or
// frontmatter. A leading '#' on tag is optional.
func (e *Engine) TaggedMentions(ctx context.Context, active, tag string) ([]Mention, []Skipped, error) {
	want := strings.Replace(strings.TrimSpace(tag), "#", "", 1)
	if want == "" {
		return nil, nil, ErrMissingItem
	}
	ignored := e.settings().IgnoredFolderList()

	notes, err := e.Meta.Notes()
	if err != nil {
		return nil, nil, fmt.Errorf("list notes: %w", err)
	}

	var mentions []Mention
	for _, p := range notes {
		if paths.IsIgnored(p, ignored) {
			continue
		}
		found, err := e.hasTag(p, want)
		if err != nil {
			return nil, nil, err
		}
		if found {
			mentions = append(mentions, Mention{Path: p, token: "#" + want})
		}
	}

	return e.resolveHeadings(ctx, active, mentions)
}

func (e *Engine) hasTag(p, want string) (bool, error) {
	tags, err := e.Meta.TagsOf(p)
	if err != nil {
		return false, fmt.Errorf("tags of %s: %w", p, err)
	}
	for _, t := range tags {
		if t.Name == want {
			return true, nil
		}
	}
	fm, err := e.Meta.FrontmatterOf(p)
	if err != nil {
		return false, fmt.Errorf("frontmatter of %s: %w", p, err)
	}
	for _, t := range fm.TagValues() {
		if t == want {
			return true, nil
		}
	}
	return false, nil
}

// AliasMentions returns the notes listing alias among their frontmatter
// aliases.
func (e *Engine) AliasMentions(ctx context.Context, active, alias string) ([]Mention, []Skipped, error) {
	if strings.TrimSpace(alias) == "" {
		return nil, nil, ErrMissingItem
	}
	ignored := e.settings().IgnoredFolderList()

	notes, err := e.Meta.Notes()
	if err != nil {
		return nil, nil, fmt.Errorf("list notes: %w", err)
	}

	var mentions []Mention
	for _, p := range notes {
		if paths.IsIgnored(p, ignored) {
			continue
		}
		fm, err := e.Meta.FrontmatterOf(p)
		if err != nil {
			return nil, nil, fmt.Errorf("frontmatter of %s: %w", p, err)
		}
		for _, a := range fm.AliasValues() {
			if a == alias {
				mentions = append(mentions, Mention{Path: p, token: alias})
				break
			}
		}
	}

	return e.resolveHeadings(ctx, active, mentions)
}

// resolveHeadings fills in the headings of every mention, reading the
// candidate notes concurrently. Notes that cannot be read are dropped and
// reported as skipped.
func (e *Engine) resolveHeadings(ctx context.Context, active string, mentions []Mention) ([]Mention, []Skipped, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	hr := e.headingResolver()
	if !hr.Enabled || len(mentions) == 0 {
		return mentions, nil, nil
	}
	log := e.logger()

	var (
		mu      sync.Mutex
		failed  = make(map[int]error)
		g, gctx = errgroup.WithContext(ctx)
	)
	g.SetLimit(e.workers())

	for i := range mentions {
		i := i
		m := &mentions[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			var (
				headings []string
				err      error
			)
			if m.lines != nil {
				headings, err = hr.HeadingsForFile(m.Path, m.lines)
			} else {
				headings, err = hr.HeadingsForToken(m.Path, m.token, active)
			}

			var readErr *outline.ReadError
			if errors.As(err, &readErr) {
				log.Warn("skipping unreadable note", "path", m.Path, "error", readErr.Err)
				mu.Lock()
				failed[i] = err
				mu.Unlock()
				return nil
			}
			if err != nil {
				return err
			}

			log.Debug("resolved headings", "path", m.Path, "headings", len(headings))
			m.Headings = headings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if len(failed) == 0 {
		return mentions, nil, nil
	}

	var skipped []Skipped
	kept := make([]Mention, 0, len(mentions)-len(failed))
	for i, m := range mentions {
		if err, ok := failed[i]; ok {
			skipped = append(skipped, Skipped{Path: m.Path, Err: err})
			continue
		}
		kept = append(kept, m)
	}
	return kept, skipped, nil
}
