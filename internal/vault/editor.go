package vault

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EditorCommand returns the editor to launch: the configured one, then
// $VISUAL, then $EDITOR. Empty when none is set.
func EditorCommand(configured string) string {
	for _, e := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if e = strings.TrimSpace(e); e != "" {
			return e
		}
	}
	return ""
}

// editorCmd builds the command that opens filePath in editor.
// If the editor contains spaces (e.g., "open -a Cursor"), it is executed
// via sh -c so its arguments survive.
func editorCmd(editor, filePath string) *exec.Cmd {
	if strings.Contains(editor, " ") {
		return exec.Command("sh", "-c", editor+" "+shellQuote(filePath))
	}
	return exec.Command(editor, filePath)
}

// OpenInEditor opens a file in editor and waits for it to exit, with the
// terminal attached so terminal editors work.
func OpenInEditor(editor, filePath string) error {
	if editor == "" {
		return fmt.Errorf("no editor configured")
	}
	cmd := editorCmd(editor, filePath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("open editor %q: %w", editor, err)
	}
	return nil
}

// shellQuote quotes a string for safe use in shell commands.
func shellQuote(s string) string {
	// Use single quotes and escape any single quotes in the string
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}
