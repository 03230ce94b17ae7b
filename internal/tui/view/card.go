package view

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/curio-cli/internal/commons"
	"github.com/glabrego/curio-cli/internal/content"
	"github.com/glabrego/curio-cli/internal/render/card"
	"github.com/glabrego/curio-cli/internal/resolve"
	"github.com/glabrego/curio-cli/internal/tui/i18n"
	tuitheme "github.com/glabrego/curio-cli/internal/tui/theme"
)

// ImageState is what the card knows about its image. A zero Phase means no
// attempt has started yet.
type ImageState struct {
	Phase resolve.Phase
	URL   string
}

func (s ImageState) Loading() bool {
	return s.Phase != "" && !s.Phase.Terminal()
}

func (s ImageState) Loaded() bool {
	return s.Phase == resolve.PhaseResolved && s.URL != ""
}

type CardParams struct {
	Item      content.Item
	Image     ImageState
	Saved     bool
	Position  int
	Total     int
	Width     int
	ImageRows int
	Strings   i18n.Strings
}

func CardLines(p CardParams, th tuitheme.Theme) []string {
	width := p.Width
	if width < 20 {
		width = 20
	}
	rows := p.ImageRows
	if rows < 3 {
		rows = 3
	}

	lines := make([]string, 0, rows+12)
	lines = append(lines, strings.Split(ImageArea(p.Item, p.Image, width, rows, th), "\n")...)
	lines = append(lines, "")

	left := th.RenderTier(p.Item.EvidenceTier, p.Strings.Tier(p.Item.EvidenceTier))
	if coll := strings.TrimSpace(p.Item.Collection); coll != "" {
		left += " " + th.Collection.Render(p.Strings.Collection(coll))
	}
	right := ""
	if p.Saved {
		right = th.SavedMark.Render("♥ " + p.Strings.Saved)
	}
	lines = append(lines, spread(left, right, width))
	lines = append(lines, "")

	for _, line := range card.Lines(p.Item.Title, width) {
		lines = append(lines, th.CardTitle.Render(line))
	}
	if sub := strings.TrimSpace(p.Item.Subtext); sub != "" {
		for _, line := range card.Lines(sub, width) {
			lines = append(lines, th.Subtext.Render(line))
		}
	}
	if badges := renderBadges(p.Item.Badges, width, th); badges != "" {
		lines = append(lines, "", badges)
	}
	if p.Total > 0 {
		lines = append(lines, "", th.MetaLabel.Render(fmt.Sprintf("%d / %d", p.Position+1, p.Total)))
	}
	return lines
}

// ImageArea renders the card's picture slot: a loading panel while an
// attempt runs, a frame naming the resolved file once it loads, and the
// id-derived gradient placeholder otherwise.
func ImageArea(item content.Item, img ImageState, width, height int, th tuitheme.Theme) string {
	switch {
	case img.Loaded():
		name := imageName(img.URL)
		inner := lipgloss.NewStyle().
			Width(width-2).
			Height(height-2).
			Align(lipgloss.Center, lipgloss.Center).
			Render(th.MetaValue.Render("▣ "+truncateRunes(name, width-6)) + "\n" + th.MetaLabel.Render("i preview · o open"))
		return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#585b70")).Render(inner)
	case img.Loading():
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Background(lipgloss.Color("#313244")).
			Foreground(lipgloss.Color("#fab387")).
			Render("Loading image…")
	default:
		return tuitheme.RenderPlaceholder(item.ID, placeholderLabel(item), width, height)
	}
}

func placeholderLabel(item content.Item) string {
	if coll := strings.TrimSpace(item.Collection); coll != "" {
		return coll
	}
	return "CURIO"
}

func imageName(raw string) string {
	if name := commons.ExtractFilename(raw); name != "" {
		return name
	}
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return u.Host
	}
	return raw
}

func renderBadges(badges []string, width int, th tuitheme.Theme) string {
	parts := make([]string, 0, len(badges))
	used := 0
	for _, b := range badges {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		rendered := th.Badge.Render(b)
		w := lipgloss.Width(rendered)
		if used > 0 && used+1+w > width {
			break
		}
		parts = append(parts, rendered)
		used += w + 1
	}
	return strings.Join(parts, " ")
}

func spread(left, right string, width int) string {
	if right == "" {
		return left
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
