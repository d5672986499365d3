package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "hubdeck",
		Short: "Terminal dashboard for synced GitHub data",
		Long: `Browse the GitHub data your dashboard backend has synced —
repositories, commits, pull requests, and issues — in paginated,
sortable, searchable tables with per-repository drill-down.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")

	// Register subcommands
	rootCmd.AddCommand(NewCmdBrowse(opts))
	rootCmd.AddCommand(NewCmdList(opts))
	rootCmd.AddCommand(NewCmdCollections(opts))
	rootCmd.AddCommand(NewCmdConnect(opts))
	rootCmd.AddCommand(NewCmdDisconnect(opts))
	rootCmd.AddCommand(NewCmdStatus(opts))
	rootCmd.AddCommand(NewCmdSync(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
