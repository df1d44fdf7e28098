package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jtessler/userctl/internal/config"
	"github.com/jtessler/userctl/internal/style"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage userctl configuration",
	Long: `Manage the userctl configuration file.

The file lives at $USERCTL_CONFIG when set, otherwise at the default
location under your home directory.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a configuration file with the defaults (file backend, English
output) to the active location, ready to edit.

Examples:
  userctl config init
  USERCTL_CONFIG=./userctl.toml userctl config init --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// configInitForce overwrites an existing file.
var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false,
		"overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := activeConfigPath()

	if !configInitForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		}
	}

	if err := config.Save(path, config.Default()); err != nil {
		return err
	}

	fmt.Printf("%s wrote %s\n", style.SuccessPrefix, path)
	return nil
}

// activeConfigPath mirrors the lookup order config.Load uses.
func activeConfigPath() string {
	if env := os.Getenv(config.EnvConfig); env != "" {
		return env
	}
	return config.DefaultPath()
}
