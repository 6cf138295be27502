package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/automoc/internal/config"
	"github.com/aidanlsb/automoc/internal/moc"
	"github.com/aidanlsb/automoc/internal/picker"
	"github.com/aidanlsb/automoc/internal/ui"
	"github.com/aidanlsb/automoc/internal/vault"
)

// mentionFlags are shared by link, tag and alias.
type mentionFlags struct {
	line      int
	dryRun    bool
	noIndex   bool
	heading   bool
	preceding bool
	open      bool
}

var mentionOpts mentionFlags

var linkCmd = &cobra.Command{
	Use:   "link <note>",
	Short: "Add links to every note that links to <note>",
	Long: `Finds every note linking to <note> that <note> does not link back to,
and inserts a link to each one.

Examples:
  automoc link Asgard
  automoc link maps/Norse.md --line 3 --heading
  automoc link Asgard --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMentions(cmd, moc.KindLink, args[0], "")
	},
}

var tagCmd = &cobra.Command{
	Use:   "tag <note> [tag]",
	Short: "Add links to every note carrying a tag",
	Long: `Finds every note with the tag (inline or in frontmatter) that <note> does
not link to yet, and inserts a link to each one. Without a tag, a picker
lists every tag in the vault.

Examples:
  automoc tag Asgard '#vanir'
  automoc tag Asgard aesir --list unordered`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMentions(cmd, moc.KindTag, args[0], optionalArg(args, 1))
	},
}

var aliasCmd = &cobra.Command{
	Use:   "alias <note> [alias]",
	Short: "Add links to every note with an alias",
	Long: `Finds every note listing the alias in its frontmatter that <note> does not
link to yet, and inserts a link to each one. Without an alias, a picker lists
every alias in the vault.

Examples:
  automoc alias Asgard Vanadis`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMentions(cmd, moc.KindAlias, args[0], optionalArg(args, 1))
	},
}

var listStyleFlag string

func optionalArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}

func runMentions(cmd *cobra.Command, kind moc.Kind, noteRef, item string) error {
	vaultPath := getVaultPath()
	start := time.Now()

	settings, err := loadSettings(vaultPath)
	if err != nil {
		return reportError(err)
	}

	active, err := vault.ResolveNote(vaultPath, noteRef)
	if err != nil {
		return reportError(err)
	}

	var spinner *ui.Spinner
	if !isJSONOutput() {
		spinner = ui.NewSpinner("Scanning vault")
		spinner.Start()
	}
	md, err := moc.OpenMetadata(vaultPath, moc.OpenOptions{NoIndex: mentionOpts.noIndex, Logger: logger})
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return reportError(err)
	}
	defer md.Close()

	if kind != moc.KindLink && strings.TrimSpace(item) == "" {
		item, err = pickItem(md, kind)
		if err != nil {
			return reportError(err)
		}
	}

	fs := vault.FS{Root: vaultPath}
	var warnings []Warning
	engine := &moc.Engine{
		Meta:     md.Meta,
		Store:    fs,
		Settings: settings,
		Logger:   logger,
		AfterWrite: func(path, content string) error {
			if err := md.Refresh(fs, path, content); err != nil {
				warnings = append(warnings, Warning{
					Code:    WarnIndexUpdateFailed,
					Message: fmt.Sprintf("index not updated: %v (run 'automoc index')", err),
					Path:    path,
				})
			}
			return nil
		},
	}
	if !isJSONOutput() {
		engine.Notifier = moc.NotifierFunc(func(ev moc.Event) {
			fmt.Fprintln(os.Stderr, ui.Info(ev.Message()))
		})
	}

	line := -1
	if mentionOpts.line > 0 {
		line = mentionOpts.line - 1
	}
	result, err := engine.Run(cmd.Context(), moc.Request{
		Active: active,
		Kind:   kind,
		Item:   item,
		Line:   line,
		DryRun: mentionOpts.dryRun,
	})
	if err != nil {
		return reportError(err)
	}

	for _, s := range result.Skipped {
		warnings = append(warnings, Warning{Code: WarnNoteSkipped, Message: s.Reason(), Path: s.Path})
	}
	for _, f := range md.Failed {
		warnings = append(warnings, Warning{Code: WarnNoteSkipped, Message: f.Error.Error(), Path: f.RelativePath})
	}

	if isJSONOutput() {
		outputSuccessWithWarnings(result, warnings, &Meta{
			Count:   len(result.Added),
			Backing: md.Backing,
			TookMs:  time.Since(start).Milliseconds(),
		})
		return nil
	}

	printMentionResult(result)
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, ui.Warningf("%s: %s", w.Path, w.Message))
	}

	if mentionOpts.open && result.Written {
		editor := vault.EditorCommand(cfg.Editor)
		if editor == "" {
			fmt.Fprintln(os.Stderr, ui.Warning("no editor configured; set editor in config.toml or $EDITOR"))
			return nil
		}
		return vault.OpenInEditor(editor, filepath.Join(vaultPath, filepath.FromSlash(active)))
	}
	return nil
}

// loadSettings reads automoc.yaml and applies command-line overrides.
func loadSettings(vaultPath string) (*config.VaultConfig, error) {
	settings, err := config.LoadVaultConfig(vaultPath)
	if err != nil {
		return nil, err
	}
	if mentionOpts.heading {
		settings.LinkToHeading = true
	}
	if mentionOpts.preceding {
		settings.LinkToHeading = true
		settings.HeadingMode = "preceding"
	}
	if listStyleFlag != "" {
		settings.ImportAsList = listStyleFlag
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// pickItem lets the user choose the tag or alias to match.
func pickItem(md *moc.Metadata, kind moc.Kind) (string, error) {
	if isJSONOutput() {
		return "", fmt.Errorf("%w: pass the %s as an argument with --json", moc.ErrMissingItem, kind)
	}

	var (
		items []string
		err   error
		opts  picker.Options
	)
	if kind == moc.KindTag {
		items, err = moc.TagCandidates(md.Meta)
		opts = picker.Options{Prompt: "tag> ", Header: "Import notes with tags matching..."}
	} else {
		items, err = moc.AliasCandidates(md.Meta)
		opts = picker.Options{Prompt: "alias> ", Header: "Import notes with alias matching..."}
	}
	if err != nil {
		return "", err
	}
	return picker.Pick(items, func(s string) string { return s }, opts)
}

func printMentionResult(result *moc.Result) {
	added := make(map[string]bool, len(result.Added))
	for _, p := range result.Added {
		added[p] = true
	}

	rows := make([]ui.MentionRow, 0, len(result.Mentions))
	for _, m := range result.Mentions {
		status := "linked"
		switch {
		case m.Path == result.Active:
			status = "self"
		case added[m.Path] && result.Written:
			status = "added"
		case added[m.Path]:
			status = "missing"
		}
		rows = append(rows, ui.MentionRow{Path: m.Path, Headings: m.Headings, Status: status})
	}

	display := ui.NewDisplayContext()
	if len(rows) > 0 {
		fmt.Print(ui.MentionTable(rows, display.AvailableWidth(0)))
		fmt.Println()
	}

	if len(result.Added) == 0 {
		return
	}
	if !result.Written {
		printBlock(result.Block(), display)
		return
	}
	fmt.Println(ui.Successf("Added %s to %s", ui.Count(len(result.Lines), "link"), ui.FilePath(result.Active)))
}

// printBlock shows the lines a dry run would insert, rendered when stdout
// is a terminal.
func printBlock(block string, display *ui.DisplayContext) {
	fmt.Println(ui.Header("Would insert:"))
	if display.IsTTY {
		if rendered, err := ui.RenderMarkdown(block, display.AvailableWidth(ui.MarkdownRenderMargin)); err == nil {
			fmt.Print(rendered)
			return
		}
	}
	fmt.Print(block)
}

func init() {
	for _, c := range []*cobra.Command{linkCmd, tagCmd, aliasCmd} {
		c.Flags().IntVar(&mentionOpts.line, "line", 0, "Insert before this line (1-indexed; default: end of note)")
		c.Flags().BoolVar(&mentionOpts.dryRun, "dry-run", false, "Show the links without writing the note")
		c.Flags().BoolVar(&mentionOpts.noIndex, "no-index", false, "Scan the vault even if an index exists")
		c.Flags().BoolVar(&mentionOpts.heading, "heading", false, "Link to the heading closest to each mention")
		c.Flags().BoolVar(&mentionOpts.preceding, "preceding", false, "Link to the closest heading above each mention")
		c.Flags().BoolVar(&mentionOpts.open, "open", false, "Open the note in your editor afterwards")
		c.Flags().StringVar(&listStyleFlag, "list", "", "List style: disabled, ordered, unordered, checkbox")
		_ = c.RegisterFlagCompletionFunc("list", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return []string{config.ListDisabled, config.ListOrdered, config.ListUnordered, config.ListCheckbox}, cobra.ShellCompDirectiveNoFileComp
		})
		rootCmd.AddCommand(c)
	}
}
