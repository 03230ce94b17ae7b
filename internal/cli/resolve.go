package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glabrego/curio-cli/internal/content"
)

func init() {
	cmd := &cobra.Command{
		Use:   "resolve <content-id>",
		Short: "Resolve one card's image and print each phase",
		Args:  cobra.ExactArgs(1),
		Run:   runResolve,
	}

	RootCmd.AddCommand(cmd)
}

func runResolve(cmd *cobra.Command, args []string) {
	rt := openCommand(cmd.Context())
	defer rt.Close()

	items, err := rt.service.AllItems(cmd.Context())
	if err != nil {
		rt.fail("load items", err)
	}
	idx := content.IndexOf(items, args[0])
	if idx < 0 {
		rt.fail("resolve", fmt.Errorf("no card with id %q", args[0]))
	}

	trace := &traceWriter{w: os.Stdout}
	res, err := rt.service.ResolveImage(cmd.Context(), items[idx], trace.observe)
	if err != nil {
		rt.fail("resolve", err)
	}
	writeResult(os.Stdout, res)
	if !res.Resolved() {
		rt.exit(1)
	}
}
