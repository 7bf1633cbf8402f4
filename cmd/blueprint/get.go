// Get command for the blueprint CLI.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/blueprints/internal/storage"
	"github.com/mesh-intelligence/blueprints/pkg/types"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <diagram-id>",
	Short: "Get a diagram with all children by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeAll, err := openService()
		if err != nil {
			fmt.Fprintln(os.Stderr, "get:", err)
			os.Exit(exitSysError)
		}
		defer closeAll()

		diagram, err := svc.GetDiagram(args[0], storage.LoadAll)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				fmt.Fprintf(os.Stderr, "diagram %q not found\n", args[0])
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "get diagram:", err)
			os.Exit(exitSysError)
		}

		output, err := json.MarshalIndent(diagram, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "marshal diagram:", err)
			os.Exit(exitSysError)
		}
		fmt.Println(string(output))
		return nil
	},
}
