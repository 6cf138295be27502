package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/automoc/internal/config"
	"github.com/aidanlsb/automoc/internal/outline"
	"github.com/aidanlsb/automoc/internal/ui"
	"github.com/aidanlsb/automoc/internal/vault"
)

var (
	headingsMention   int
	headingsToken     string
	headingsPreceding bool
)

type headingJSON struct {
	Line  int    `json:"line"`
	Title string `json:"title"`
}

type mentionHeadingJSON struct {
	Line    int    `json:"line"`
	Heading string `json:"heading,omitempty"`
	Found   bool   `json:"found"`
}

var headingsCmd = &cobra.Command{
	Use:   "headings <note>",
	Short: "List a note's headings and resolve mentions to them",
	Long: `Lists the headings of <note> with their line numbers.

With --mention, shows which heading governs that line. With --token, finds
every line containing the text and shows the heading governing each.

Examples:
  automoc headings people/Freya
  automoc headings people/Freya --mention 8
  automoc headings people/Freya --token '[[Asgard]]' --preceding`,
	Args: cobra.ExactArgs(1),
	RunE: runHeadings,
}

func runHeadings(cmd *cobra.Command, args []string) error {
	vaultPath := getVaultPath()

	settings, err := config.LoadVaultConfig(vaultPath)
	if err != nil {
		return reportError(err)
	}
	mode := settings.Mode()
	if headingsPreceding {
		mode = outline.NearestPrecedingOnly
	}

	notePath, err := vault.ResolveNote(vaultPath, args[0])
	if err != nil {
		return reportError(err)
	}

	entries, text, err := outline.Load(vault.FS{Root: vaultPath}, notePath)
	if err != nil {
		return reportError(err)
	}

	var headings []headingJSON
	for i, e := range entries {
		if e.IsHeading {
			headings = append(headings, headingJSON{Line: i + 1, Title: e.Title})
		}
	}

	var mentions []mentionHeadingJSON
	switch {
	case headingsMention > 0:
		mentions = append(mentions, resolveMention(entries, headingsMention-1, mode))
	case headingsToken != "":
		for _, line := range outline.FindTokenLines(text, headingsToken, notePath) {
			mentions = append(mentions, resolveMention(entries, line, mode))
		}
	}

	if isJSONOutput() {
		data := map[string]interface{}{
			"path":     notePath,
			"mode":     mode.String(),
			"headings": headings,
		}
		if mentions != nil {
			data["mentions"] = mentions
		}
		outputSuccess(data, &Meta{Count: len(headings)})
		return nil
	}

	if len(headings) == 0 {
		fmt.Printf("No headings in %s\n", ui.FilePath(notePath))
	}
	width := len(strconv.Itoa(len(entries)))
	for _, h := range headings {
		fmt.Printf("%s  %s\n", ui.LineNum(h.Line, width), h.Title)
	}
	if mentions != nil {
		fmt.Println()
		fmt.Println(ui.Header(fmt.Sprintf("Mentions (%s)", mode)))
		if len(mentions) == 0 {
			fmt.Println(ui.Hint("no matching lines"))
		}
		for _, m := range mentions {
			heading := ui.Hint("no heading")
			if m.Found {
				heading = m.Heading
			}
			fmt.Printf("%s  %s\n", ui.LineNum(m.Line, width), heading)
		}
	}
	return nil
}

// resolveMention resolves a 0-indexed line and reports it 1-indexed.
func resolveMention(entries []outline.Entry, line int, mode outline.Mode) mentionHeadingJSON {
	title, ok := outline.ClosestHeading(entries, line, mode)
	return mentionHeadingJSON{Line: line + 1, Heading: title, Found: ok && title != ""}
}

func init() {
	headingsCmd.Flags().IntVar(&headingsMention, "mention", 0, "Resolve the heading governing this line (1-indexed)")
	headingsCmd.Flags().StringVar(&headingsToken, "token", "", "Resolve the heading for every line containing this text")
	headingsCmd.Flags().BoolVar(&headingsPreceding, "preceding", false, "Only consider headings above the mention")
	rootCmd.AddCommand(headingsCmd)
}
