package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hubdeck/hubdeck/internal/grid"
	"github.com/hubdeck/hubdeck/internal/output"
)

// NewCmdCollections creates the collections command.
func NewCmdCollections(opts *Options) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "collections",
		Short: "List the datasets the backend exposes",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(opts)
			if err != nil {
				return err
			}

			cols, err := rt.Client.Collections(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch collections: %w", err)
			}

			if output.Format(outputFormat) == output.FormatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cols)
			}

			bold := color.New(color.Bold)
			for _, c := range cols {
				bold.Fprint(cmd.OutOrStdout(), c.Title)
				fmt.Fprintf(cmd.OutOrStdout(), "  (%s)\n", c.CollectionName)
				if _, err := grid.ParseDetailType(c.CollectionName); err == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "    scope: per-repository detail")
				}
				if len(c.Fields) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "    fields: %s\n", strings.Join(c.Fields, ", "))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json)")

	return cmd
}
