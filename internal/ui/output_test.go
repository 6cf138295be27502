package ui

import "testing"

func TestCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 notes"},
		{1, "1 note"},
		{4, "4 notes"},
	}
	if got := Count(2, "alias"); got != "2 aliases" {
		t.Errorf("Count(2, alias) = %q", got)
	}
	for _, tt := range tests {
		if got := Count(tt.n, "note"); got != tt.want {
			t.Errorf("Count(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestStatusMessages(t *testing.T) {
	if got := Success("done"); got != "✓ done" {
		t.Errorf("Success() = %q", got)
	}
	if got := Warningf("%d skipped", 2); got != "⚠ 2 skipped" {
		t.Errorf("Warningf() = %q", got)
	}
}
