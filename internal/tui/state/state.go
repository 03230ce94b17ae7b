package state

import "github.com/glabrego/curio-cli/internal/content"

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 6
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

// CursorAfterReload keeps the cursor on id when the reloaded items still
// contain it, otherwise clamps the old position.
func CursorAfterReload(items []content.Item, id string, cursor int) int {
	if id != "" {
		if idx := content.IndexOf(items, id); idx >= 0 {
			return idx
		}
	}
	return ClampCursor(cursor, len(items))
}

func ScrollTop(top, delta, linesLen, bodyHeight int) int {
	top += delta
	maxTop := linesLen - bodyHeight
	if maxTop < 0 {
		maxTop = 0
	}
	if top > maxTop {
		top = maxTop
	}
	if top < 0 {
		top = 0
	}
	return top
}
