package vault

import (
	"reflect"
	"testing"
)

func TestEditorCommand(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "nano")

	if got := EditorCommand("  hx  "); got != "hx" {
		t.Errorf("configured editor: got %q", got)
	}
	if got := EditorCommand(""); got != "nano" {
		t.Errorf("$EDITOR fallback: got %q", got)
	}

	t.Setenv("VISUAL", "code -w")
	if got := EditorCommand(""); got != "code -w" {
		t.Errorf("$VISUAL fallback: got %q", got)
	}
}

func TestEditorCmd(t *testing.T) {
	tests := []struct {
		name   string
		editor string
		want   []string
	}{
		{name: "simple", editor: "vim", want: []string{"vim", "/v/a b.md"}},
		{name: "with args", editor: "open -a Cursor", want: []string{"sh", "-c", "open -a Cursor '/v/a b.md'"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := editorCmd(tt.editor, "/v/a b.md")
			if !reflect.DeepEqual(cmd.Args, tt.want) {
				t.Errorf("args = %q, want %q", cmd.Args, tt.want)
			}
		})
	}
}

func TestShellQuote(t *testing.T) {
	if got := shellQuote("it's"); got != `'it'"'"'s'` {
		t.Errorf("shellQuote = %s", got)
	}
}
