package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hubdeck/hubdeck/internal/tui"
)

// NewCmdBrowse creates the browse command.
func NewCmdBrowse(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive dashboard",
		Long: `Open the full-screen dashboard: paginated, sortable, searchable grids
over every collection, with per-repository drill-down into commits,
pull requests, and issues.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, opts)
		},
	}
}

func runBrowse(cmd *cobra.Command, opts *Options) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}

	if !tui.ShouldUseTUI() {
		return fmt.Errorf("interactive dashboard needs a terminal; use 'hubdeck list' for scripted output")
	}
	if !rt.Session.HasToken() {
		return fmt.Errorf("not connected; run 'hubdeck connect' first")
	}

	// Settle the session and warm the collections cache before the
	// screen takes over; both are independent round trips.
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		payload, err := rt.Client.Verify(ctx)
		if err != nil || !payload.IsAuthenticated {
			rt.Session.MarkUnauthenticated()
			return fmt.Errorf("stored credential is no longer valid; run 'hubdeck connect' again")
		}
		rt.Session.MarkVerified(payload.Profile())
		return nil
	})
	g.Go(func() error {
		_, err := rt.Client.Collections(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	return tui.Run(tui.Deps{
		Client:  rt.Client,
		Session: rt.Session,
		Config:  rt.Config,
	})
}
