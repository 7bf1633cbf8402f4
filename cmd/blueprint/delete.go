// Delete command for the blueprint CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteLocalOnly bool

var deleteCmd = &cobra.Command{
	Use:   "delete <diagram-id>",
	Short: "Delete a diagram and all of its children",
	Long: `Delete removes a diagram, its tables, relationships, and
dependencies from the local store. Authenticated users also delete the
remote copy unless --local-only is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeAll, err := openService()
		if err != nil {
			fmt.Fprintln(os.Stderr, "delete:", err)
			os.Exit(exitSysError)
		}
		defer closeAll()

		if err := svc.DeleteDiagram(args[0], true, deleteLocalOnly); err != nil {
			fmt.Fprintln(os.Stderr, "delete diagram:", err)
			os.Exit(exitSysError)
		}

		fmt.Println("Deleted diagram:", args[0])
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteLocalOnly, "local-only", false, "skip the remote delete for authenticated users")
}
