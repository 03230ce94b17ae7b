package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove imported cards and the image cache",
		Args:  cobra.NoArgs,
		Run:   runClear,
	}

	RootCmd.AddCommand(cmd)
}

func runClear(cmd *cobra.Command, args []string) {
	rt := openCommand(cmd.Context())
	defer rt.Close()

	if err := rt.service.ClearImported(cmd.Context()); err != nil {
		rt.fail("clear", err)
	}
	fmt.Println("cleared imported cards and image cache")
}
