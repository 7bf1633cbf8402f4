// Config command for the blueprint CLI.
package main

import (
	"fmt"
	"os"

	"github.com/mesh-intelligence/blueprints/pkg/types"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config [default-diagram-id]",
	Short: "Show or set the default diagram",
	Long: `Config prints the store configuration. With an argument it sets
the default diagram id.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeAll, err := openService()
		if err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(exitSysError)
		}
		defer closeAll()

		if len(args) == 1 {
			id := args[0]
			if err := svc.UpdateConfig(types.ConfigPatch{DefaultDiagramID: &id}); err != nil {
				fmt.Fprintln(os.Stderr, "update config:", err)
				os.Exit(exitSysError)
			}
		}

		cfg, err := svc.GetConfig()
		if err != nil {
			fmt.Fprintln(os.Stderr, "read config:", err)
			os.Exit(exitSysError)
		}

		fmt.Println("default_diagram_id:", cfg.DefaultDiagramID)
		return nil
	},
}
