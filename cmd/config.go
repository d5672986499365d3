package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hubdeck/hubdeck/config"
)

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the merged configuration: defaults, the global config file, and
any .hubdeck.yaml in the current directory, in that order of precedence.

With --init, write a starter config file to the global location.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if write {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				if err := cfg.Save(); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", config.ConfigPath())
				return nil
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			out, err := cfg.ToYAML()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", config.ConfigPath(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "init", false, "Write the effective config to the global config file")

	return cmd
}
