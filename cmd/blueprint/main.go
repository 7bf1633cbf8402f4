// Package main provides the blueprint CLI, a command-line surface over the
// diagram storage system: local store, history mirror, and the optional
// sharing service.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}
