package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hubdeck/hubdeck/internal/log"
)

// NewCmdDisconnect creates the disconnect command.
func NewCmdDisconnect(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Remove the GitHub integration and clear the local credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(opts)
			if err != nil {
				return err
			}

			if !rt.Session.HasToken() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not connected.")
				return nil
			}

			// Best-effort server-side removal; the local credential
			// is cleared either way.
			if err := rt.Client.Disconnect(cmd.Context()); err != nil {
				log.Warn("server-side disconnect failed", "error", err)
			}
			rt.Session.Disconnect()

			fmt.Fprintln(cmd.OutOrStdout(), "Disconnected.")
			return nil
		},
	}
}
