package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Import cards from a JSON file or stdin",
		Long:  "Import cards from JSON. Accepts an array of cards or a single card; id and title are required. Cards whose id already exists are skipped.",
		Args:  cobra.ExactArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	data, err := readInput(args[0], os.Stdin)
	if err != nil {
		exitErr("read input", err)
	}

	rt := openCommand(cmd.Context())
	defer rt.Close()

	added, err := rt.service.Import(cmd.Context(), data)
	if err != nil {
		rt.fail("import", err)
	}
	fmt.Printf("imported %d new cards\n", added)
}

func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}
