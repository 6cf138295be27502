package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// MentionRow is one note in a mention listing.
type MentionRow struct {
	Path     string
	Headings []string
	Status   string
}

// MentionTable renders mentions as a borderless table: number, note,
// headings and status.
func MentionTable(rows []MentionRow, width int) string {
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().PaddingRight(2)
			switch col {
			case 0:
				return base.Inherit(Muted).Align(lipgloss.Right)
			case 1:
				return base.Inherit(Accent)
			case 3:
				return base.Inherit(Muted)
			}
			return base
		})
	if width > 0 {
		t = t.Width(width)
	}

	for i, r := range rows {
		t.Row(strconv.Itoa(i+1), r.Path, strings.Join(r.Headings, ", "), r.Status)
	}
	return t.Render() + "\n"
}
