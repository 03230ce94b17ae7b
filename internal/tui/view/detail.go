package view

import (
	"strings"

	"github.com/glabrego/curio-cli/internal/content"
	"github.com/glabrego/curio-cli/internal/render/card"
	"github.com/glabrego/curio-cli/internal/tui/i18n"
	tuitheme "github.com/glabrego/curio-cli/internal/tui/theme"
)

// DetailMetaLines is the title block of the detail panel.
func DetailMetaLines(item content.Item, width int, strs i18n.Strings, th tuitheme.Theme) []string {
	lines := make([]string, 0, 8)
	for _, line := range card.Lines(item.Title, width) {
		lines = append(lines, th.Title.Render(line))
	}
	lines = append(lines, strings.Repeat("=", max(1, min(width, visibleLen(item.Title)))))
	if coll := strings.TrimSpace(item.Collection); coll != "" {
		lines = append(lines, th.MetaLabel.Render(strs.Collections+": ")+th.Collection.Render(strs.Collection(coll)))
	}
	return lines
}

// DetailSectionLines renders the story sections in their fixed order,
// skipping the ones an item leaves empty.
func DetailSectionLines(item content.Item, width int, strs i18n.Strings, th tuitheme.Theme) []string {
	lines := make([]string, 0, 32)
	section := func(heading string, body []string) {
		if len(body) == 0 {
			return
		}
		lines = append(lines, "", th.Section.Render(heading))
		lines = append(lines, body...)
	}

	section(strs.TheRealStory, card.Lines(item.Summary, width))
	section(strs.WhyUnusual, card.Lines(item.Anomaly, width))
	section(strs.WhatWeKnow, card.Bullets(item.KnownFacts, width, "• "))
	section(strs.WhatWeDontKnow, card.Bullets(item.Unknowns, width, "? "))
	section(strs.CommonMisunderstandings, card.Bullets(item.Myths, width, "✗ "))

	lines = append(lines, "", th.Section.Render(strs.EvidenceLevel))
	lines = append(lines, th.RenderTier(item.EvidenceTier, strs.Tier(item.EvidenceTier)))
	for _, line := range card.Lines(strs.Disclaimer, width) {
		lines = append(lines, th.Subtext.Render(line))
	}
	return lines
}

func DetailMaxTop(linesLen, bodyHeight int) int {
	maxTop := linesLen - bodyHeight
	if maxTop < 0 {
		return 0
	}
	return maxTop
}

func RenderDetailLines(lines []string, top, maxLines int) string {
	if len(lines) == 0 {
		return ""
	}
	if top < 0 {
		top = 0
	}
	if top > len(lines)-1 {
		top = len(lines) - 1
	}
	end := len(lines)
	if maxLines > 0 && top+maxLines < end {
		end = top + maxLines
	}
	return strings.Join(lines[top:end], "\n") + "\n"
}
