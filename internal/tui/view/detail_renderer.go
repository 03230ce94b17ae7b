package view

import (
	"strings"

	"github.com/glabrego/curio-cli/internal/content"
	"github.com/glabrego/curio-cli/internal/tui/i18n"
	tuitheme "github.com/glabrego/curio-cli/internal/tui/theme"
)

type InlineImagePreviewState struct {
	Enabled bool
	Loading bool
	Raw     string
	Err     string
}

// DetailLines assembles the full detail panel: title block, chafa preview
// when one was requested, then the story sections.
func DetailLines(
	item content.Item,
	contentWidth int,
	horizontalMargin int,
	strs i18n.Strings,
	th tuitheme.Theme,
	preview InlineImagePreviewState,
) []string {
	lines := DetailMetaLines(item, contentWidth, strs, th)
	lines = appendInlineImagePreview(lines, preview, contentWidth)
	lines = append(lines, DetailSectionLines(item, contentWidth, strs, th)...)
	return leftPadLines(lines, horizontalMargin)
}

func appendInlineImagePreview(lines []string, preview InlineImagePreviewState, contentWidth int) []string {
	if !preview.Enabled {
		return lines
	}
	previewLines := make([]string, 0, 3)
	if preview.Loading {
		previewLines = append(previewLines, "Loading image preview...")
	}
	if len(previewLines) == 0 {
		if previewRaw := strings.TrimSpace(preview.Raw); previewRaw != "" {
			if ContainsKittyGraphicsEscape(preview.Raw) {
				previewLines = append(previewLines, strings.TrimRight(preview.Raw, "\r\n"))
			} else {
				previewSplit := strings.Split(strings.TrimRight(preview.Raw, "\r\n"), "\n")
				previewLines = centerLines(previewSplit, contentWidth)
			}
		}
	}
	if len(previewLines) == 0 {
		if errMsg := strings.TrimSpace(preview.Err); errMsg != "" {
			previewLines = append(previewLines, "Image preview unavailable: "+errMsg)
		}
	}
	if len(previewLines) == 0 {
		return lines
	}
	out := append(lines, "")
	return append(out, previewLines...)
}

func leftPadLines(lines []string, padding int) []string {
	if padding <= 0 || len(lines) == 0 {
		return lines
	}
	prefix := strings.Repeat(" ", padding)
	out := make([]string, len(lines))
	for i, line := range lines {
		if ContainsKittyGraphicsEscape(line) {
			out[i] = line
			continue
		}
		out[i] = prefix + line
	}
	return out
}

func centerLines(lines []string, width int) []string {
	if width <= 0 || len(lines) == 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		visible := visibleLen(line)
		if visible >= width {
			out[i] = line
			continue
		}
		pad := (width - visible) / 2
		out[i] = strings.Repeat(" ", pad) + line
	}
	return out
}
