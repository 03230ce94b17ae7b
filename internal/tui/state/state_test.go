package state

import (
	"testing"

	"github.com/glabrego/curio-cli/internal/content"
)

func TestClampCursor(t *testing.T) {
	if got := ClampCursor(-1, 3); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	if got := ClampCursor(3, 3); got != 2 {
		t.Fatalf("expected clamp to 2, got %d", got)
	}
	if got := ClampCursor(1, 3); got != 1 {
		t.Fatalf("expected keep 1, got %d", got)
	}
	if got := ClampCursor(5, 0); got != 0 {
		t.Fatalf("expected 0 for empty list, got %d", got)
	}
}

func TestPageStep(t *testing.T) {
	if got := PageStep(0, false); got != 10 {
		t.Fatalf("expected default step 10, got %d", got)
	}
	if got := PageStep(12, false); got != 6 {
		t.Fatalf("expected step 6, got %d", got)
	}
	if got := PageStep(12, true); got != 4 {
		t.Fatalf("expected step 4 with status, got %d", got)
	}
}

func TestCenteredWindow(t *testing.T) {
	if start, end := CenteredWindow(3, 1, 10); start != 0 || end != 3 {
		t.Fatalf("expected full window, got %d..%d", start, end)
	}
	if start, end := CenteredWindow(20, 10, 5); start != 8 || end != 13 {
		t.Fatalf("expected centered window, got %d..%d", start, end)
	}
	if start, end := CenteredWindow(20, 19, 5); start != 15 || end != 20 {
		t.Fatalf("expected window pinned to end, got %d..%d", start, end)
	}
}

func TestCursorAfterReload(t *testing.T) {
	items := []content.Item{{ID: "new"}, {ID: "a"}, {ID: "b"}}
	if got := CursorAfterReload(items, "a", 0); got != 1 {
		t.Fatalf("expected cursor to follow id, got %d", got)
	}
	if got := CursorAfterReload(items, "gone", 7); got != 2 {
		t.Fatalf("expected clamp when id disappears, got %d", got)
	}
	if got := CursorAfterReload(nil, "a", 3); got != 0 {
		t.Fatalf("expected 0 for empty feed, got %d", got)
	}
}

func TestScrollTop(t *testing.T) {
	if got := ScrollTop(0, -1, 30, 10); got != 0 {
		t.Fatalf("expected top to stay at 0, got %d", got)
	}
	if got := ScrollTop(19, 5, 30, 10); got != 20 {
		t.Fatalf("expected top clamped to 20, got %d", got)
	}
	if got := ScrollTop(0, 3, 5, 10); got != 0 {
		t.Fatalf("expected no scroll when content fits, got %d", got)
	}
}
