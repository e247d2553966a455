package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dshills/revu/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage revu configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(os.Stderr, "Config file already exists at %s\n", path)
			return nil
		}

		cfg := config.Default()
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Config file created at %s\n", path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFile()
		if err != nil {
			return err
		}

		if err := config.SetField(&cfg, args[0], args[1]); err != nil {
			return err
		}

		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Set %s = %s\n", args[0], args[1])
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration and where each value comes from",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, sources, err := config.LoadWithSources(nil)
		if err != nil {
			return err
		}

		rows := []struct {
			key   string
			value any
		}{
			{"provider", cfg.Provider},
			{"model", cfg.Model},
			{"remote", cfg.Remote},
			{"baseBranch", cfg.BaseBranch},
			{"maxTokens", cfg.MaxTokens},
			{"maxDiffBytes", cfg.MaxDiffBytes},
			{"redactSecrets", cfg.RedactSecrets},
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, row := range rows {
			fmt.Fprintf(w, "%s\t%v\t(%s)\n", row.key, row.value, sources[row.key])
		}
		return w.Flush()
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}
