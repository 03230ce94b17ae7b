package view

import (
	"strings"
	"testing"

	"github.com/glabrego/curio-cli/internal/content"
	"github.com/glabrego/curio-cli/internal/tui/i18n"
	tuitheme "github.com/glabrego/curio-cli/internal/tui/theme"
)

func TestCenterLines(t *testing.T) {
	lines := centerLines([]string{"abc"}, 9)
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	if lines[0] != "   abc" {
		t.Fatalf("expected centered line with padding, got %q", lines[0])
	}
}

func TestDetailLines_SectionsInOrder(t *testing.T) {
	item := content.Samples()[0]
	lines := DetailLines(item, 60, 2, i18n.For("en"), tuitheme.Default(), InlineImagePreviewState{})
	joined := stripANSI(strings.Join(lines, "\n"))

	last := -1
	for _, heading := range []string{"The Real Story", "Why This Is Unusual", "What We Know", "What We Don't Know", "Common Misunderstandings", "Evidence Level"} {
		idx := strings.Index(joined, "  "+heading)
		if idx < 0 {
			t.Fatalf("expected heading %q in detail, got:\n%s", heading, joined)
		}
		if idx < last {
			t.Fatalf("heading %q out of order", heading)
		}
		last = idx
	}
	if !strings.Contains(joined, "  • ") {
		t.Fatalf("expected bullet list for known facts, got:\n%s", joined)
	}
	for _, line := range lines {
		if w := visibleLen(line); w > 62 {
			t.Fatalf("line wider than content plus margin (%d): %q", w, stripANSI(line))
		}
	}
}

func TestDetailLines_SkipsEmptySections(t *testing.T) {
	item := content.Item{ID: "x", Title: "Only a title", EvidenceTier: content.TierDebated}
	lines := DetailLines(item, 40, 0, i18n.For("en"), tuitheme.Default(), InlineImagePreviewState{})
	joined := stripANSI(strings.Join(lines, "\n"))
	if strings.Contains(joined, "The Real Story") || strings.Contains(joined, "What We Know") {
		t.Fatalf("expected empty sections to be skipped, got:\n%s", joined)
	}
	if !strings.Contains(joined, "Debated") {
		t.Fatalf("expected evidence tier, got:\n%s", joined)
	}
}

func TestDetailLines_UsesMarginsAndPreview(t *testing.T) {
	item := content.Item{ID: "x", Title: "Entry", Collection: "Oceans"}
	lines := DetailLines(item, 60, 4, i18n.For("en"), tuitheme.Default(), InlineImagePreviewState{
		Enabled: true,
		Err:     "render failed",
	})
	joined := stripANSI(strings.Join(lines, "\n"))
	if !strings.Contains(joined, "    Collections: Oceans") {
		t.Fatalf("expected detail metadata with margin, got %q", joined)
	}
	if !strings.Contains(joined, "Image preview unavailable: render failed") {
		t.Fatalf("expected preview fallback error line, got %q", joined)
	}
}

func TestRenderDetailLines(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}
	if got := RenderDetailLines(lines, 1, 2); got != "b\nc\n" {
		t.Fatalf("unexpected window: %q", got)
	}
	if got := RenderDetailLines(lines, 10, 2); got != "d\n" {
		t.Fatalf("expected clamp to last line, got %q", got)
	}
	if DetailMaxTop(4, 10) != 0 || DetailMaxTop(30, 10) != 20 {
		t.Fatal("unexpected DetailMaxTop")
	}
}
