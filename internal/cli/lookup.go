package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "lookup <filename-or-url>",
		Short: "Ask Commons for a file's thumbnail without loading it",
		Args:  cobra.ExactArgs(1),
		Run:   runLookup,
	}

	RootCmd.AddCommand(cmd)
}

func runLookup(cmd *cobra.Command, args []string) {
	rt := openCommand(cmd.Context())
	defer rt.Close()

	u, ok := rt.client.ResolveFromReference(cmd.Context(), args[0])
	if !ok {
		fmt.Fprintln(os.Stderr, "no match")
		rt.exit(1)
	}
	fmt.Println(u)
}
