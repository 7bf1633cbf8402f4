// Root command for the blueprint CLI.
package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagUser      string
	flagUserType  string
	flagShareURL  string
)

// Values loaded from config.yaml by PersistentPreRunE, used by all
// subcommands.
var (
	configDataDir  string
	configShareURL string
)

var rootCmd = &cobra.Command{
	Use:   "blueprint",
	Short: "Blueprint is a local-first database diagram store",
	Long: `Blueprint stores database diagrams (tables, relationships, view
dependencies) in a local SQLite database with a per-user history mirror.
Authenticated users can list and delete diagrams on a sharing service.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDataDir = cfg.GetString(cfgKeyDataDir)
		configShareURL = cfg.GetString(cfgKeyShareURL)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.blueprint)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.blueprint-db)")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "guest", "acting user identity")
	rootCmd.PersistentFlags().StringVar(&flagUserType, "user-type", "guest", "user type (guest, student, teacher, admin)")
	rootCmd.PersistentFlags().StringVar(&flagShareURL, "share-url", "", "sharing service base URL (overrides config)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(pullCmd)
}

// resolveConfigDir returns the configuration directory:
// --config-dir flag > BLUEPRINT_CONFIG_DIR env > $(CWD)/.blueprint.
func resolveConfigDir() (string, error) {
	if flagConfigDir != "" {
		return flagConfigDir, nil
	}
	if dir := os.Getenv("BLUEPRINT_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, ".blueprint"), nil
}

// resolveDataDir returns the data directory:
// --data-dir flag > config.yaml data_dir > BLUEPRINT_DATA_DIR env >
// $(CWD)/.blueprint-db.
func resolveDataDir() (string, error) {
	if flagDataDir != "" {
		return flagDataDir, nil
	}
	if configDataDir != "" {
		return configDataDir, nil
	}
	if dir := os.Getenv("BLUEPRINT_DATA_DIR"); dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, ".blueprint-db"), nil
}

// resolveShareURL returns the sharing service base URL, empty when the CLI
// runs purely locally: --share-url flag > config.yaml share_url.
func resolveShareURL() string {
	if flagShareURL != "" {
		return flagShareURL
	}
	return configShareURL
}
