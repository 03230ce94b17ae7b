package theme

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title      lipgloss.Style
	ModePill   lipgloss.Style
	Section    lipgloss.Style
	CardTitle  lipgloss.Style
	Subtext    lipgloss.Style
	Badge      lipgloss.Style
	Collection lipgloss.Style
	SavedMark  lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style

	Tiers map[string]lipgloss.Style
}

func Default() Theme {
	cpRosewater := lipgloss.Color("#f5e0dc")
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpBlue := lipgloss.Color("#89b4fa")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")
	cpBase := lipgloss.Color("#1e1e2e")

	pill := func(bg lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Bold(true).Foreground(cpBase).Background(bg).Padding(0, 1)
	}

	return Theme{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:   lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Section:    lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		CardTitle:  lipgloss.NewStyle().Bold(true).Foreground(cpText),
		Subtext:    lipgloss.NewStyle().Foreground(cpSubtext0),
		Badge:      lipgloss.NewStyle().Foreground(cpSubtext1).Background(cpSurface0).Padding(0, 1),
		Collection: lipgloss.NewStyle().Foreground(cpYellow),
		SavedMark:  lipgloss.NewStyle().Foreground(cpRed).Bold(true),
		ActiveLine: lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:  lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:  lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:  lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:  lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:  lipgloss.NewStyle().Foreground(cpPeach),
		Tiers: map[string]lipgloss.Style{
			"verified":    pill(cpGreen),
			"strong":      pill(cpBlue),
			"emerging":    pill(cpYellow),
			"debated":     pill(cpPeach),
			"theoretical": pill(cpRosewater),
		},
	}
}

// RenderTier styles a translated tier label by its tier key.
func (t Theme) RenderTier(tier, label string) string {
	style, ok := t.Tiers[tier]
	if !ok {
		style = t.Tiers["theoretical"]
	}
	return style.Render(label)
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
