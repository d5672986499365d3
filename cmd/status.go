package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hubdeck/hubdeck/internal/format"
)

// NewCmdStatus creates the status command.
func NewCmdStatus(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connection status and integration details",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(opts)
			if err != nil {
				return err
			}
			return runStatus(cmd, rt)
		},
	}
}

func runStatus(cmd *cobra.Command, rt *Runtime) error {
	out := cmd.OutOrStdout()

	if !rt.Session.HasToken() {
		fmt.Fprintln(out, "Not connected. Run 'hubdeck connect' to get started.")
		return nil
	}

	payload, err := rt.Client.Verify(cmd.Context())
	if err != nil || !payload.IsAuthenticated {
		rt.Session.MarkUnauthenticated()
		red := color.New(color.FgRed)
		red.Fprintln(out, "Stored credential is no longer valid. Run 'hubdeck connect' again.")
		return nil
	}
	rt.Session.MarkVerified(payload.Profile())

	green := color.New(color.FgGreen, color.Bold)
	bold := color.New(color.Bold)

	green.Fprintln(out, "Connected")
	fmt.Fprintln(out)
	bold.Fprint(out, "  Account:   ")
	fmt.Fprintf(out, "%s (%s)\n", payload.Username, payload.Email)
	if payload.Name != "" {
		bold.Fprint(out, "  Name:      ")
		fmt.Fprintln(out, payload.Name)
	}
	bold.Fprint(out, "  Backend:   ")
	fmt.Fprintln(out, rt.Config.GetBackendURL())
	if !payload.IntegrationDate.IsZero() {
		bold.Fprint(out, "  Connected: ")
		fmt.Fprintln(out, format.Date(payload.IntegrationDate))
	}
	if !payload.LastSyncAt.IsZero() {
		bold.Fprint(out, "  Last sync: ")
		fmt.Fprintln(out, format.Date(payload.LastSyncAt))
	}
	return nil
}
