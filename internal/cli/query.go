package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/history"
	"github.com/aidanlsb/magpie/internal/orm"
	"github.com/aidanlsb/magpie/internal/types"
)

var (
	queryFilters    []string
	querySorts      []string
	queryLimit      uint64
	queryFormat     string
	querySQLOnly    bool
	queryNoDefaults bool
)

var queryCmd = &cobra.Command{
	Use:   "query <entity> <field>...",
	Short: "Run a query against the project database",
	Long: `Run a query: pick an entity, list the field paths to show, and
optionally filter, sort, and cap the result.

Field paths are dotted: a bare field name, a hop through a relation, an
aggregate on a value, or a calendar part of a date.

Examples:
  mgp query order id total status
  mgp query order customer.name total --filter paid=true
  mgp query order customer.country total.sum --sort total.sum:desc
  mgp query order created.year total.sum --filter "total=gte:100"
  mgp query order id total --sql`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openProject()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		q, err := buildQuery(env, args[0], args[1:])
		if err != nil {
			return handleError(ErrQueryInvalid, err, "Run 'mgp fields "+args[0]+"' to list queryable fields")
		}

		plan, err := orm.Build(cmd.Context(), env.Resolver, *q)
		if err != nil {
			return handleError(ErrQueryInvalid, err, "")
		}

		if querySQLOnly {
			return outputPlanSQL(plan)
		}

		stop := startSpinner("Running query")
		db, err := env.openDB(cmd.Context())
		if err != nil {
			stop()
			return handleError(ErrDatabaseError, err, "Check the connection section of magpie.yaml")
		}
		defer db.Close()

		start := time.Now()
		result, err := orm.Execute(cmd.Context(), db, env.Resolver, plan)
		elapsed := time.Since(start)
		stop()

		log := env.auditLogger()
		rows := 0
		if result != nil {
			rows = len(result.Rows)
		}
		_ = log.LogQuery(q.Model, fieldPaths(q), len(q.Filters), rows, elapsed, err)

		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		_ = history.Write(env.Project.StatePath(), &history.Entry{
			Model:   q.Model,
			Fields:  fieldPaths(q),
			Filters: queryFilters,
			Result:  result,
		})

		return outputResult(result, queryFormat, &Meta{
			Count:       len(result.Rows),
			QueryTimeMs: elapsed.Milliseconds(),
		})
	},
}

// buildQuery translates CLI arguments into an orm query: field paths with
// optional sort suffixes, filter flags, default filters, and the row cap.
func buildQuery(env *projectEnv, entity string, fieldArgs []string) (*orm.Query, error) {
	fields := make([]orm.QueryField, 0, len(fieldArgs))
	for _, arg := range fieldArgs {
		fields = append(fields, orm.QueryField{Path: arg})
	}
	for _, s := range querySorts {
		path, dir, err := parseSort(s)
		if err != nil {
			return nil, err
		}
		applied := false
		for i := range fields {
			if fields[i].Path == path {
				fields[i].Sort = dir
				applied = true
			}
		}
		if !applied {
			return nil, fmt.Errorf("sort path %q is not among the selected fields", path)
		}
	}

	filters := make([]orm.FilterSpec, 0, len(queryFilters))
	for _, f := range queryFilters {
		fs, err := parseFilterSpec(f)
		if err != nil {
			return nil, err
		}
		filters = append(filters, fs)
	}

	if !queryNoDefaults && len(filters) == 0 {
		model, ok := env.Resolver.Model(entity)
		if ok && model.Root() {
			var err error
			if filters, err = orm.WithDefaults(model, filters); err != nil {
				return nil, err
			}
		}
	}

	limit := queryLimit
	if limit == 0 {
		limit = env.Project.DefaultLimit
	}

	return &orm.Query{
		Model:   entity,
		Fields:  fields,
		Filters: filters,
		Limit:   limit,
	}, nil
}

// parseFilterSpec parses "path=value" or "path=lookup:value". The token
// before the colon is treated as a lookup only when it names one; a value
// like "https://..." filters on equality as written.
func parseFilterSpec(s string) (orm.FilterSpec, error) {
	path, rest, ok := strings.Cut(s, "=")
	if !ok || path == "" {
		return orm.FilterSpec{}, fmt.Errorf("invalid filter %q (expected path=value or path=lookup:value)", s)
	}
	if lookup, value, ok := strings.Cut(rest, ":"); ok && isLookupName(lookup) {
		return orm.FilterSpec{Path: path, Lookup: lookup, Value: value}, nil
	}
	return orm.FilterSpec{Path: path, Value: rest}, nil
}

func isLookupName(s string) bool {
	switch s {
	case types.LookupEquals, types.LookupNotEquals, types.LookupContains,
		types.LookupStartsWith, types.LookupEndsWith, types.LookupRegex,
		types.LookupLT, types.LookupLTE, types.LookupGT, types.LookupGTE,
		types.LookupIsNull:
		return true
	}
	return false
}

// parseSort parses "path", "path:asc", or "path:desc".
func parseSort(s string) (string, orm.SortDirection, error) {
	path, dir, ok := strings.Cut(s, ":")
	if path == "" {
		return "", orm.SortNone, fmt.Errorf("invalid sort %q", s)
	}
	if !ok {
		return path, orm.SortAsc, nil
	}
	switch dir {
	case "asc":
		return path, orm.SortAsc, nil
	case "desc":
		return path, orm.SortDesc, nil
	default:
		return "", orm.SortNone, fmt.Errorf("invalid sort direction %q in %q (use asc or desc)", dir, s)
	}
}

func fieldPaths(q *orm.Query) []string {
	paths := make([]string, len(q.Fields))
	for i, f := range q.Fields {
		paths[i] = f.Path
	}
	return paths
}

func outputPlanSQL(plan *orm.Plan) error {
	sql, args, err := plan.SQL()
	if err != nil {
		return handleError(ErrQueryInvalid, err, "")
	}
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"sql":  sql,
			"args": args,
		}, nil)
		return nil
	}
	fmt.Println(sql)
	if len(args) > 0 {
		fmt.Printf("-- args: %v\n", args)
	}
	return nil
}

func init() {
	queryCmd.Flags().StringArrayVarP(&queryFilters, "filter", "f", nil, "Filter: path=value or path=lookup:value (repeatable)")
	queryCmd.Flags().StringArrayVarP(&querySorts, "sort", "s", nil, "Sort: path, path:asc, or path:desc (repeatable)")
	queryCmd.Flags().Uint64VarP(&queryLimit, "limit", "n", 0, "Maximum rows (default from magpie.yaml)")
	queryCmd.Flags().StringVar(&queryFormat, "format", "table", "Output format: table, csv, json, md")
	queryCmd.Flags().BoolVar(&querySQLOnly, "sql", false, "Print the generated SQL instead of executing")
	queryCmd.Flags().BoolVar(&queryNoDefaults, "no-defaults", false, "Skip the entity's default filters")
	rootCmd.AddCommand(queryCmd)
}
