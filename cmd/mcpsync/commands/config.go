package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/mcpsync/internal/config"
	syncerrors "github.com/thoreinstein/mcpsync/internal/errors"
)

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage mcpsync configuration",
	Long: `Show or initialize mcpsync's own configuration, stored in
$XDG_CONFIG_HOME/mcpsync/config.yaml.

Without a subcommand, prints the effective configuration after defaults
and environment variables are applied.`,
	Example: `  # Show the effective configuration
  mcpsync config

  # Create a starter config file
  mcpsync config init

See Also: mcpsync daemon`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file with the defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := config.WriteDefault(configFile)
		if err != nil {
			return syncerrors.NewUserError(err, "edit or remove the existing file first")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := configFile
		if path == "" {
			path = config.DefaultPath()
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "(file does not exist; defaults are in effect)")
		}
		return nil
	},
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return syncerrors.NewSystemError(err, "could not render configuration")
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
