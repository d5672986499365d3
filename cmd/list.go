package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hubdeck/hubdeck/internal/api"
	"github.com/hubdeck/hubdeck/internal/duration"
	"github.com/hubdeck/hubdeck/internal/grid"
	"github.com/hubdeck/hubdeck/internal/output"
)

type listOptions struct {
	Start   int
	Limit   int
	Sorts   []string
	Filters []string
	Search  string
	Since   string
	Repo    string
	Output  string
}

// NewCmdList creates the list command.
func NewCmdList(opts *Options) *cobra.Command {
	lo := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "Print one window of rows from a collection",
		Long: `Fetch and print a window of rows from the named collection. Sorting,
filtering, and free-text search run server-side, the same way the
interactive browser asks for them.

Detail records are scoped to one repository with --repo:

  hubdeck list commits --repo 1042 --sort date:desc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(opts)
			if err != nil {
				return err
			}
			return runList(cmd, rt, args[0], lo)
		},
	}

	cmd.Flags().IntVar(&lo.Start, "start", 0, "First row index of the window")
	cmd.Flags().IntVar(&lo.Limit, "limit", 0, "Number of rows to fetch (defaults to the configured page size)")
	cmd.Flags().StringArrayVar(&lo.Sorts, "sort", nil, "Sort column as col:dir, repeatable (dir: asc, desc)")
	cmd.Flags().StringArrayVar(&lo.Filters, "filter", nil, "Filter as field=kind:op:value, repeatable (kind: text, number, date)")
	cmd.Flags().StringVar(&lo.Search, "search", "", "Free-text search across the collection")
	cmd.Flags().StringVar(&lo.Since, "since", "", "Only rows newer than a span like 1w, 30d, 6mo")
	cmd.Flags().StringVar(&lo.Repo, "repo", "", "Scope detail rows to one repository id")
	cmd.Flags().StringVarP(&lo.Output, "output", "o", "table", "Output format (table, json)")

	return cmd
}

func runList(cmd *cobra.Command, rt *Runtime, name string, lo *listOptions) error {
	ctx := cmd.Context()

	limit := lo.Limit
	if limit <= 0 {
		limit = rt.Config.PageSize
	}

	sort, err := parseSortFlags(lo.Sorts)
	if err != nil {
		return err
	}
	filter, err := parseFilterFlags(lo.Filters)
	if err != nil {
		return err
	}

	sourceOpts := []grid.SourceOption{
		grid.WithGate(rt.Session),
		grid.WithMaxAttempts(rt.Config.MaxAttempts),
		grid.WithRetryDelay(rt.Config.RetryDelay()),
	}

	cols, err := rt.Client.Collections(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch collections: %w", err)
	}
	decl, err := resolveCollection(cols, name)
	if err != nil {
		return err
	}

	if lo.Since != "" {
		cutoff, err := duration.Since(lo.Since)
		if err != nil {
			return err
		}
		field, ok := dateFieldFor(decl.Fields, rt.Config.DateFields)
		if !ok {
			return fmt.Errorf("collection %s has no date field for --since", decl.CollectionName)
		}
		if filter == nil {
			filter = grid.FilterModel{}
		}
		if _, taken := filter[field]; !taken {
			filter[field] = grid.Filter{
				FilterType: "date",
				Type:       "greaterThan",
				DateFrom:   cutoff.Format("2006-01-02"),
			}
		}
	}

	q := grid.Query{
		StartRow: lo.Start,
		EndRow:   lo.Start + limit,
		Sort:     sort,
		Filter:   filter,
		Search:   lo.Search,
	}

	dt, derr := grid.ParseDetailType(decl.CollectionName)
	if lo.Repo != "" && derr != nil {
		return fmt.Errorf("--repo scopes detail collections (commits, pullrequests, issues), not %s", decl.CollectionName)
	}

	var (
		source *grid.RemoteSource
		fields []string
	)
	switch {
	case derr == nil && lo.Repo != "":
		resolver := grid.NewResolver(rt.Client.CollectionSource(), sourceOpts...)
		source, err = resolver.ForDetail(lo.Repo, dt)
		if err != nil {
			return err
		}
		fields = decl.Fields
	case derr == nil:
		source = grid.NewRemoteSource(rt.Client.CollectionSource(), decl.CollectionName, sourceOpts...)
		fields = decl.Fields
	default:
		source = grid.NewRemoteSource(rt.Client.RepoSource(), decl.CollectionName, sourceOpts...)
		fields = grid.MasterFields(decl.Fields)
	}

	window, err := source.GetRows(ctx, q)
	if err != nil {
		return err
	}

	schema := grid.InitialSchema(fields)
	schema.Refine(window.Rows, grid.InferOptions{
		NumericFields: rt.Config.NumericFields,
		DateFields:    rt.Config.DateFields,
	})

	outFormat := lo.Output
	if !cmd.Flags().Changed("output") && rt.Config.DefaultFormat != "" {
		outFormat = rt.Config.DefaultFormat
	}
	formatter := output.NewFormatter(output.Format(outFormat))
	return formatter.FormatWindow(schema, window, cmd.OutOrStdout())
}

// resolveCollection matches a user-supplied name against the declared
// collections, accepting the wire name, the display title, or a detail
// type alias like "commits" or "prs", case-insensitively.
func resolveCollection(cols []api.Collection, name string) (api.Collection, error) {
	lower := strings.ToLower(name)
	for _, c := range cols {
		if strings.ToLower(c.CollectionName) == lower || strings.ToLower(c.Title) == lower {
			return c, nil
		}
	}
	if dt, err := grid.ParseDetailType(name); err == nil {
		for _, c := range cols {
			if c.CollectionName == dt.Collection() {
				return c, nil
			}
		}
	}
	known := make([]string, 0, len(cols))
	for _, c := range cols {
		known = append(known, c.CollectionName)
	}
	return api.Collection{}, fmt.Errorf("unknown collection %q (known: %s)", name, strings.Join(known, ", "))
}

// dateFieldFor picks the collection's date field for a --since cutoff:
// the first declared field that is date-hinted.
func dateFieldFor(declared, dateHints []string) (string, bool) {
	for _, f := range declared {
		for _, h := range dateHints {
			if f == h {
				return f, true
			}
		}
	}
	return "", false
}

// parseSortFlags turns repeated col:dir flags into a sort model, keeping
// flag order. Direction defaults to ascending when omitted.
func parseSortFlags(flags []string) ([]grid.SortItem, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	items := make([]grid.SortItem, 0, len(flags))
	for _, f := range flags {
		col, dir, found := strings.Cut(f, ":")
		if col == "" {
			return nil, fmt.Errorf("invalid sort %q: expected col:dir", f)
		}
		if !found || dir == "" {
			dir = "asc"
		}
		if dir != "asc" && dir != "desc" {
			return nil, fmt.Errorf("invalid sort direction %q: expected asc or desc", dir)
		}
		items = append(items, grid.SortItem{ColID: col, Sort: dir})
	}
	return items, nil
}

// parseFilterFlags turns repeated field=kind:op:value flags into a filter
// model. A later flag for the same field replaces the earlier one.
func parseFilterFlags(flags []string) (grid.FilterModel, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	model := make(grid.FilterModel, len(flags))
	for _, f := range flags {
		field, rest, found := strings.Cut(f, "=")
		if !found || field == "" {
			return nil, fmt.Errorf("invalid filter %q: expected field=kind:op:value", f)
		}
		parts := strings.SplitN(rest, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid filter %q: expected field=kind:op:value", f)
		}
		kind, op, value := parts[0], parts[1], parts[2]
		switch kind {
		case "text", "number":
			model[field] = grid.Filter{FilterType: kind, Type: op, Filter: value}
		case "date":
			model[field] = grid.Filter{FilterType: kind, Type: op, DateFrom: value}
		default:
			return nil, fmt.Errorf("invalid filter kind %q: expected text, number, or date", kind)
		}
	}
	return model, nil
}
