// Share and pull commands for the blueprint CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var shareCmd = &cobra.Command{
	Use:   "share <diagram-id>",
	Short: "Upload a diagram to the sharing service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeAll, err := openService()
		if err != nil {
			fmt.Fprintln(os.Stderr, "share:", err)
			os.Exit(exitSysError)
		}
		defer closeAll()

		remoteID, err := svc.ShareDiagram(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "share diagram:", err)
			os.Exit(exitSysError)
		}

		fmt.Println("Shared diagram:", remoteID)
		return nil
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull <remote-id>",
	Short: "Download a shared diagram into the local store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeAll, err := openService()
		if err != nil {
			fmt.Fprintln(os.Stderr, "pull:", err)
			os.Exit(exitSysError)
		}
		defer closeAll()

		d, err := svc.PullDiagram(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "pull diagram:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("Pulled diagram %s (%s)\n", d.ID, d.Name)
		return nil
	},
}
