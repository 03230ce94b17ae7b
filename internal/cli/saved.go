package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "List saved cards",
		Args:  cobra.NoArgs,
		Run:   runSaved,
	}

	RootCmd.AddCommand(cmd)
}

func runSaved(cmd *cobra.Command, args []string) {
	rt := openCommand(cmd.Context())
	defer rt.Close()

	items, err := rt.service.SavedItems(cmd.Context())
	if err != nil {
		rt.fail("load saved", err)
	}
	saved := make(map[string]bool, len(items))
	for _, it := range items {
		saved[it.ID] = true
	}
	writeItems(os.Stdout, items, saved, rt.service.CachedImage)
}
