package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glabrego/curio-cli/internal/app"
	"github.com/glabrego/curio-cli/internal/content"
)

func init() {
	cmd := &cobra.Command{
		Use:   "preload",
		Short: "Warm the image cache for the first cards of the feed",
		Run:   runPreload,
	}

	cmd.Flags().IntP("count", "n", app.HeadPreloadCount, "Number of cards to warm")

	RootCmd.AddCommand(cmd)
}

func runPreload(cmd *cobra.Command, args []string) {
	count, _ := cmd.Flags().GetInt("count")

	rt := openCommand(cmd.Context())
	defer rt.Close()

	prefs, err := rt.service.LoadPreferences(cmd.Context())
	if err != nil {
		rt.fail("load preferences", err)
	}
	items, err := rt.service.Feed(cmd.Context(), prefs.ContentLanguage, content.All)
	if err != nil {
		rt.fail("load feed", err)
	}

	queued := rt.scheduler.ScheduleHead(app.Targets(items), count)
	rt.scheduler.Wait()
	stats := rt.scheduler.Stats()
	fmt.Printf("queued %d, resolved %d, failed %d, cached %d\n", queued, stats.Resolved, stats.Failed, rt.images.Len())
}
