package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCmdSync creates the sync command.
func NewCmdSync(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Ask the backend to refresh its GitHub data",
		Long: `Trigger a server-side sync. The backend pulls fresh data from GitHub
in the background; rows appear as the sync progresses.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(opts)
			if err != nil {
				return err
			}

			if err := rt.Client.Sync(cmd.Context()); err != nil {
				return fmt.Errorf("sync request failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sync started.")
			return nil
		},
	}
}
