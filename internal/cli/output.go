package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/glabrego/curio-cli/internal/app"
	"github.com/glabrego/curio-cli/internal/content"
	"github.com/glabrego/curio-cli/internal/resolve"
)

type feedSource interface {
	LoadPreferences(ctx context.Context) (app.Preferences, error)
	Feed(ctx context.Context, language, collection string) ([]content.Item, error)
	SavedIDs(ctx context.Context) ([]string, error)
	CachedImage(id string) (string, bool)
}

// printFeed writes the feed for the stored content language, one card per
// line, followed by the cached image URL when there is one.
func printFeed(ctx context.Context, w io.Writer, src feedSource) error {
	prefs, err := src.LoadPreferences(ctx)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	items, err := src.Feed(ctx, prefs.ContentLanguage, content.All)
	if err != nil {
		return fmt.Errorf("load feed: %w", err)
	}
	ids, err := src.SavedIDs(ctx)
	if err != nil {
		return fmt.Errorf("load saved: %w", err)
	}
	saved := make(map[string]bool, len(ids))
	for _, id := range ids {
		saved[id] = true
	}
	writeItems(w, items, saved, src.CachedImage)
	return nil
}

func writeItems(w io.Writer, items []content.Item, saved map[string]bool, cached func(string) (string, bool)) {
	if len(items) == 0 {
		fmt.Fprintln(w, "no cards")
		return
	}
	for i, it := range items {
		mark := " "
		if saved[it.ID] {
			mark = "♥"
		}
		fmt.Fprintf(w, "%s %2d. [%s] %s (%s) %s\n", mark, i+1, it.EvidenceTier, it.Title, it.Collection, it.ID)
		if cached == nil {
			continue
		}
		if u, ok := cached(it.ID); ok {
			fmt.Fprintf(w, "       image: %s\n", u)
		}
	}
}

// traceWriter prints each phase of a resolution as it happens. Observers may
// run on another goroutine.
type traceWriter struct {
	mu   sync.Mutex
	w    io.Writer
	last resolve.Phase
}

func (t *traceWriter) observe(r resolve.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r.Phase == t.last {
		return
	}
	t.last = r.Phase
	if r.Phase.Terminal() {
		return
	}
	fmt.Fprintf(t.w, "  %s\n", r.Phase)
}

func writeResult(w io.Writer, r resolve.Result) {
	if !r.Resolved() {
		fmt.Fprintf(w, "%s: failed\n", r.ContentID)
		return
	}
	fmt.Fprintf(w, "%s: resolved via %s\n  %s\n", r.ContentID, r.Source, r.URL)
}
