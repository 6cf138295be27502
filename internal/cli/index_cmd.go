package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/automoc/internal/index"
	"github.com/aidanlsb/automoc/internal/ui"
	"github.com/aidanlsb/automoc/internal/watcher"
)

var (
	indexStatus bool
	indexWatch  bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the link index for faster, position-aware runs",
	Long: `Parses every note in the vault and rebuilds the SQLite index at
.automoc/index.db. While the index is up to date, link runs read backlink
positions from it instead of scanning the vault.

Examples:
  automoc index
  automoc index --status
  automoc index --watch`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case indexStatus && indexWatch:
			return handleErrorMsg(ErrInvalidInput, "--status and --watch cannot be combined", "")
		case indexStatus:
			return runIndexStatus()
		case indexWatch:
			if isJSONOutput() {
				return handleErrorMsg(ErrInvalidInput, "--watch does not support --json", "")
			}
			if err := runIndexRebuild(); err != nil {
				return err
			}
			return runIndexWatch(cmd.Context())
		}
		return runIndexRebuild()
	},
}

func runIndexWatch(ctx context.Context) error {
	vaultPath := getVaultPath()

	db, err := index.Open(vaultPath)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer db.Close()

	w, err := watcher.New(watcher.Config{
		VaultPath: vaultPath,
		Database:  db,
		Logger:    logger,
		OnUpdate: func(u watcher.Update) {
			stamp := time.Now().Format("15:04:05")
			switch {
			case u.Err != nil:
				fmt.Fprintln(os.Stderr, ui.Warningf("%s index update failed: %v", stamp, u.Err))
			case u.Full:
				fmt.Println(ui.Hint(stamp) + " " + ui.Success("resynced vault"))
			default:
				removed := make(map[string]bool, len(u.Removed))
				for _, p := range u.Removed {
					removed[p] = true
				}
				for _, p := range u.Paths {
					verb := "reindexed"
					if removed[p] {
						verb = "removed"
					}
					fmt.Println(ui.Hint(stamp) + " " + ui.Successf("%s %s", verb, ui.FilePath(p)))
				}
			}
		},
	})
	if err != nil {
		return handleError(ErrInternal, err, "")
	}

	fmt.Println(ui.Info("Watching for changes (Ctrl-C to stop)"))
	if err := w.Start(ctx); err != nil {
		return handleError(ErrInternal, err, "")
	}
	return nil
}

func runIndexRebuild() error {
	vaultPath := getVaultPath()

	var spinner *ui.Spinner
	if !isJSONOutput() {
		spinner = ui.NewSpinner("Indexing " + vaultPath)
		spinner.Start()
	}
	result, err := index.Rebuild(vaultPath)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		if errors.Is(err, index.ErrIndexLocked) {
			return reportError(err)
		}
		return handleError(ErrDatabaseError, err, "")
	}

	var warnings []Warning
	for _, f := range result.Failed {
		warnings = append(warnings, Warning{Code: WarnNoteSkipped, Message: f.Error.Error(), Path: f.RelativePath})
	}

	if isJSONOutput() {
		outputSuccessWithWarnings(map[string]interface{}{
			"indexed": result.Indexed,
			"failed":  len(result.Failed),
			"path":    index.DBPath(vaultPath),
		}, warnings, &Meta{Count: result.Indexed, TookMs: result.Duration.Milliseconds()})
		return nil
	}

	fmt.Println(ui.Successf("Indexed %s in %s", ui.Count(result.Indexed, "note"), result.Duration.Round(time.Millisecond)))
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, ui.Warningf("%s: %s", w.Path, w.Message))
	}
	return nil
}

func runIndexStatus() error {
	vaultPath := getVaultPath()

	db, err := index.OpenExisting(vaultPath)
	if errors.Is(err, index.ErrNoIndex) || errors.Is(err, index.ErrIncompatible) {
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"exists": false, "reason": err.Error()}, nil)
			return nil
		}
		fmt.Println(ui.Info(err.Error() + "; run 'automoc index' to build it"))
		return nil
	}
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer db.Close()

	stats, err := db.Stats()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	staleness, err := db.CheckStaleness(vaultPath)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"exists":    true,
			"stats":     stats,
			"staleness": staleness,
		}, &Meta{Count: stats.NoteCount})
		return nil
	}

	fmt.Printf("%s %s, %s, %s, %s\n", ui.Header("Index:"),
		ui.Count(stats.NoteCount, "note"), ui.Count(stats.LinkCount, "link"),
		ui.Count(stats.TagCount, "tag"), ui.Count(stats.AliasCount, "alias"))
	if !staleness.IsStale {
		fmt.Println(ui.Success("up to date"))
		return nil
	}
	fmt.Println(ui.Warningf("stale: %d changed, %d new (runs will scan the vault until you reindex)",
		len(staleness.StaleFiles), len(staleness.NewFiles)))
	for _, p := range append(staleness.StaleFiles, staleness.NewFiles...) {
		fmt.Printf("  %s\n", ui.FilePath(p))
	}
	return nil
}

func init() {
	indexCmd.Flags().BoolVar(&indexStatus, "status", false, "Report whether the index is up to date")
	indexCmd.Flags().BoolVar(&indexWatch, "watch", false, "Keep the index up to date as notes change")
	rootCmd.AddCommand(indexCmd)
}
