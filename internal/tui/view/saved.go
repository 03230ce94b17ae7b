package view

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/curio-cli/internal/content"
	"github.com/glabrego/curio-cli/internal/tui/i18n"
	tuitheme "github.com/glabrego/curio-cli/internal/tui/theme"
)

type SavedLineParams struct {
	Item       content.Item
	VisiblePos int
	Active     bool
	Width      int
	Strings    i18n.Strings
}

func RenderSavedLine(p SavedLineParams, th tuitheme.Theme) string {
	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}
	prefix := fmt.Sprintf("  %s%2d. ", cursorMarker, p.VisiblePos+1)
	tier := "[" + p.Strings.Tier(p.Item.EvidenceTier) + "]"
	available := p.Width - visibleLen(prefix) - 1 - visibleLen(tier)
	if available < 1 {
		available = 1
	}

	label := truncateRunes(SavedLabel(p.Item), available)
	gap := p.Width - visibleLen(prefix) - visibleLen(label) - visibleLen(tier)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(p.Active, prefix+th.CardTitle.Render(label)+strings.Repeat(" ", gap)+th.MetaLabel.Render(tier))
}

// SavedLabel is "Collection | Title", or just the title when the item has no
// collection.
func SavedLabel(item content.Item) string {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = "(untitled)"
	}
	if coll := strings.TrimSpace(item.Collection); coll != "" {
		return coll + " | " + title
	}
	return title
}

func SavedListLines(items []content.Item, cursor, start, end, width int, strs i18n.Strings, th tuitheme.Theme) []string {
	if len(items) == 0 {
		return []string{th.Subtext.Render(strs.NoSavedItems)}
	}
	lines := make([]string, 0, end-start)
	for i := start; i < end && i < len(items); i++ {
		lines = append(lines, RenderSavedLine(SavedLineParams{
			Item:       items[i],
			VisiblePos: i,
			Active:     i == cursor,
			Width:      width,
			Strings:    strs,
		}, th))
	}
	return lines
}

func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

func visibleLen(s string) int {
	return lipgloss.Width(s)
}
