package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/danobi/prr/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage prr configuration",
}

// configPath is the file config init and set write to.
func configPath() (string, error) {
	if flagConfig != "" {
		return flagConfig, nil
	}
	return config.ConfigPath()
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter configuration file",
	Args:  cobra.NoArgs,
	RunE: run(func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		created, err := config.Init(afero.NewOsFs(), path)
		if err != nil {
			return err
		}
		if !created {
			fmt.Fprintf(cmd.ErrOrStderr(), "Config file already exists at %s\n", path)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config file created at %s\n", path)
		return nil
	}),
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value. Keys: token, workdir, url, editor, cache.enabled, cache.dir, cache.ttl_seconds.",
	Args:  cobra.ExactArgs(2),
	RunE: run(func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		if err := config.Set(afero.NewOsFs(), path, args[0], args[1]); err != nil {
			return usageError{err}
		}
		value := args[1]
		if args[0] == "token" {
			value = config.Config{Token: value}.Redacted().Token
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], value)
		return nil
	}),
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Args:  cobra.NoArgs,
	RunE: run(func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(cfg.Redacted(), "", "  ")
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}),
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}
