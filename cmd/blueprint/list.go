// List command for the blueprint CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mesh-intelligence/blueprints/internal/storage"
	"github.com/spf13/cobra"
)

var listTables bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List diagrams for the acting user",
	Long: `List prints the acting user's diagrams as JSON. Guests read the
local store; authenticated users read the sharing service.

Example:
  blueprint list
  blueprint list --tables
  blueprint list --user alice --user-type student`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeAll, err := openService()
		if err != nil {
			fmt.Fprintln(os.Stderr, "list:", err)
			os.Exit(exitSysError)
		}
		defer closeAll()

		diagrams, err := svc.ListDiagrams(storage.LoadOptions{IncludeTables: listTables})
		if err != nil {
			fmt.Fprintln(os.Stderr, "list diagrams:", err)
			os.Exit(exitSysError)
		}

		output, err := json.MarshalIndent(diagrams, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "marshal diagrams:", err)
			os.Exit(exitSysError)
		}
		fmt.Println(string(output))
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listTables, "tables", false, "include table rows (or counts, for remote lists)")
}
