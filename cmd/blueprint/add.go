// Add command for the blueprint CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mesh-intelligence/blueprints/internal/store"
	"github.com/mesh-intelligence/blueprints/pkg/types"
	"github.com/spf13/cobra"
)

var (
	addName   string
	addDBType string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new empty diagram",
	Long: `Add creates a new diagram in the local store and mirrors it into
the history database.

Example:
  blueprint add --name inventory --db-type postgresql`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addName == "" {
			fmt.Fprintln(os.Stderr, "add: --name is required")
			os.Exit(exitUserError)
		}

		svc, closeAll, err := openService()
		if err != nil {
			fmt.Fprintln(os.Stderr, "add:", err)
			os.Exit(exitSysError)
		}
		defer closeAll()

		now := time.Now().UTC()
		diagram := &types.Diagram{
			ID:           store.NewID(),
			Name:         addName,
			DatabaseType: types.DatabaseType(addDBType),
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := svc.AddDiagram(diagram, true); err != nil {
			fmt.Fprintln(os.Stderr, "add diagram:", err)
			os.Exit(exitSysError)
		}

		fmt.Println("Created diagram:", diagram.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addName, "name", "", "diagram name (required)")
	addCmd.Flags().StringVar(&addDBType, "db-type", string(types.DatabaseTypeGeneric), "target database type")
	addCmd.MarkFlagRequired("name")
}
