// Package watcher keeps a vault's index fresh while notes change.
//
// Edited notes are reindexed one at a time. A removed note is dropped from
// the index and the notes linking to it are reindexed. A created note can
// change how links resolve across the vault, so it triggers a full resync.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aidanlsb/automoc/internal/index"
	"github.com/aidanlsb/automoc/internal/logging"
	"github.com/aidanlsb/automoc/internal/parser"
	"github.com/aidanlsb/automoc/internal/vault"
)

// Update reports one batch of index changes.
type Update struct {
	Paths   []string // Vault-relative, sorted
	Removed []string // Subset of Paths no longer on disk
	Full    bool     // The whole vault was resynced
	Err     error
}

// Config holds configuration options for the Watcher.
type Config struct {
	VaultPath     string
	Database      *index.Database
	DebounceDelay time.Duration // Default: 100ms
	Logger        *slog.Logger
	OnUpdate      func(Update) // Optional
}

// Watcher monitors a vault directory and updates its index.
type Watcher struct {
	vaultPath string
	db        *index.Database
	fs        vault.FS
	debounce  time.Duration
	logger    *slog.Logger
	onUpdate  func(Update)

	fsWatcher *fsnotify.Watcher

	mu       sync.Mutex
	pending  map[string]time.Time
	topology bool // a note or directory appeared since the last flush
}

// New creates a Watcher.
func New(cfg Config) (*Watcher, error) {
	if cfg.VaultPath == "" {
		return nil, fmt.Errorf("vault path is required")
	}
	if cfg.Database == nil {
		return nil, fmt.Errorf("database is required")
	}
	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = 100 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Watcher{
		vaultPath: cfg.VaultPath,
		db:        cfg.Database,
		fs:        vault.FS{Root: cfg.VaultPath},
		debounce:  debounce,
		logger:    logger.With("component", "watcher"),
		onUpdate:  cfg.OnUpdate,
		pending:   make(map[string]time.Time),
	}, nil
}

// Start watches the vault until ctx is canceled. It returns nil when ctx
// ends the watch.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	if err := w.addWatchRecursive(w.vaultPath); err != nil {
		return fmt.Errorf("watch vault: %w", err)
	}
	w.logger.Debug("watching vault", "path", w.vaultPath)

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case now := <-ticker.C:
			if u, ok := w.flush(now); ok && w.onUpdate != nil {
				w.onUpdate(u)
			}
		}
	}
}

// ReindexNote parses and indexes a single note.
func (w *Watcher) ReindexNote(rel string) error {
	content, err := w.fs.ReadNote(rel)
	if err != nil {
		return err
	}
	mtime, err := w.fs.Mtime(rel)
	if err != nil {
		return err
	}
	res, err := w.db.Resolver()
	if err != nil {
		return err
	}
	return w.db.IndexNote(parser.ParseNote(rel, content), mtime, res)
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if w.shouldIgnore(path) {
		return
	}
	if !strings.HasSuffix(path, ".md") {
		switch {
		case event.Has(fsnotify.Create):
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				_ = w.addWatchRecursive(path)
				// A directory moved in may already hold notes.
				w.markTopology()
			}
		case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
			// Possibly a directory of notes. Swap and temp files have an
			// extension.
			if filepath.Ext(path) == "" {
				w.markTopology()
			}
		}
		return
	}

	w.logger.Debug("event", "op", event.Op.String(), "path", path)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = time.Now()
	// A rename also emits Create for the new name.
	if event.Has(fsnotify.Create) {
		w.topology = true
	}
}

func (w *Watcher) markTopology() {
	w.mu.Lock()
	w.topology = true
	w.mu.Unlock()
}

// flush applies pending changes that have been quiet for the debounce
// delay.
func (w *Watcher) flush(now time.Time) (Update, bool) {
	w.mu.Lock()
	var ready []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, path)
		}
	}
	if len(ready) == 0 && !w.topology {
		w.mu.Unlock()
		return Update{}, false
	}
	if w.topology && len(ready) < len(w.pending) {
		// Wait for the whole burst before a full resync.
		w.mu.Unlock()
		return Update{}, false
	}
	for _, p := range ready {
		delete(w.pending, p)
	}
	full := w.topology
	w.topology = false
	w.mu.Unlock()

	rels := make([]string, len(ready))
	for i, p := range ready {
		rels[i] = filepath.ToSlash(mustRel(w.vaultPath, p))
	}
	sort.Strings(rels)

	u := Update{Paths: rels, Full: full}
	if full {
		if _, err := w.db.Resync(w.vaultPath); err != nil {
			u.Err = err
		}
	} else {
		u.Removed, u.Err = w.apply(rels)
	}

	if u.Err != nil {
		w.logger.Warn("index update failed", "paths", rels, "full", full, "error", u.Err)
	} else {
		w.logger.Debug("index updated", "paths", rels, "full", full)
	}
	return u, true
}

// apply reindexes edited notes and drops removed ones. Notes linking to a
// removed note are reindexed too so their links stop resolving to it.
func (w *Watcher) apply(rels []string) ([]string, error) {
	var (
		errs    []error
		removed []string
		edited  []string
	)
	for _, rel := range rels {
		if _, err := os.Stat(filepath.Join(w.vaultPath, filepath.FromSlash(rel))); errors.Is(err, fs.ErrNotExist) {
			removed = append(removed, rel)
		} else {
			edited = append(edited, rel)
		}
	}

	gone := make(map[string]bool, len(removed))
	for _, rel := range removed {
		gone[rel] = true
	}
	relink := make(map[string]bool)
	for _, rel := range removed {
		backlinks, err := w.db.BacklinksFor(rel)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", rel, err))
		}
		for _, bl := range backlinks {
			if !gone[bl.Source] {
				relink[bl.Source] = true
			}
		}
		if err := w.db.RemoveNote(rel); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", rel, err))
		}
	}
	for _, rel := range edited {
		relink[rel] = true
	}

	sources := make([]string, 0, len(relink))
	for rel := range relink {
		sources = append(sources, rel)
	}
	sort.Strings(sources)
	for _, rel := range sources {
		if err := w.ReindexNote(rel); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", rel, err))
		}
	}
	return removed, errors.Join(errs...)
}

func (w *Watcher) addWatchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.vaultPath && vault.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			w.logger.Warn("cannot watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(w.vaultPath, path)
	if err != nil {
		return true
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if vault.SkipDir(part) {
			return true
		}
	}
	return false
}

func mustRel(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return rel
}
