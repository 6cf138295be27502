package moc

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aidanlsb/automoc/internal/graph"
	"github.com/aidanlsb/automoc/internal/index"
	"github.com/aidanlsb/automoc/internal/parser"
	"github.com/aidanlsb/automoc/internal/vault"
)

// Backing names where metadata came from.
const (
	BackingIndex = "index"
	BackingScan  = "scan"
)

// OpenOptions controls OpenMetadata.
type OpenOptions struct {
	// NoIndex skips the sqlite index and always scans the vault.
	NoIndex bool
	Logger  *slog.Logger
}

// Metadata is an opened metadata backing.
type Metadata struct {
	// Meta is an index.Database or a graph.Memory.
	Meta graph.Metadata

	// Backing is BackingIndex or BackingScan.
	Backing string

	// Failed lists files the scan could not read. Empty for the index.
	Failed []vault.WalkResult

	db *index.Database
}

// OpenMetadata returns the vault's index when it exists and is up to date,
// and a fresh scan of the vault otherwise.
func OpenMetadata(vaultPath string, opts OpenOptions) (*Metadata, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	if !opts.NoIndex {
		db, err := openFreshIndex(vaultPath)
		switch {
		case err == nil:
			log.Debug("using index", "path", index.DBPath(vaultPath))
			return &Metadata{Meta: db, Backing: BackingIndex, db: db}, nil
		case errors.Is(err, index.ErrNoIndex):
			log.Debug("no index, scanning vault")
		default:
			log.Info("index unusable, scanning vault", "reason", err)
		}
	}

	mem, failed, err := graph.Scan(vaultPath)
	if err != nil {
		return nil, err
	}
	for _, f := range failed {
		log.Warn("could not read note", "path", f.RelativePath, "error", f.Error)
	}
	return &Metadata{Meta: mem, Backing: BackingScan, Failed: failed}, nil
}

var errStaleIndex = errors.New("index is stale")

func openFreshIndex(vaultPath string) (*index.Database, error) {
	db, err := index.OpenExisting(vaultPath)
	if err != nil {
		return nil, err
	}
	info, err := db.CheckStaleness(vaultPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("check index: %w", err)
	}
	if info.IsStale {
		db.Close()
		return nil, fmt.Errorf("%w: %d changed, %d new", errStaleIndex, len(info.StaleFiles), len(info.NewFiles))
	}
	return db, nil
}

// Refresh re-indexes the note at path after it was rewritten, keeping an
// index backing current. It does nothing for a scan backing.
func (m *Metadata) Refresh(fs vault.FS, path, content string) error {
	if m.db == nil {
		return nil
	}
	mtime, err := fs.Mtime(path)
	if err != nil {
		return err
	}
	res, err := m.db.Resolver()
	if err != nil {
		return err
	}
	return m.db.IndexNote(parser.ParseNote(path, content), mtime, res)
}

// Close releases the index, if any.
func (m *Metadata) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}
