// Restore command for the blueprint CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [user]",
	Short: "Restore a user's diagrams from the history mirror",
	Long: `Restore reloads every diagram the history mirror holds for a user
into the local store and makes the last restored diagram the default. With
no argument the acting user (--user) is restored.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user := flagUser
		if len(args) == 1 {
			user = args[0]
		}

		svc, closeAll, err := openService()
		if err != nil {
			fmt.Fprintln(os.Stderr, "restore:", err)
			os.Exit(exitSysError)
		}
		defer closeAll()

		if err := svc.LoadUserDiagrams(user); err != nil {
			fmt.Fprintln(os.Stderr, "restore diagrams:", err)
			os.Exit(exitSysError)
		}

		fmt.Println("Restored diagrams for", user)
		return nil
	},
}
