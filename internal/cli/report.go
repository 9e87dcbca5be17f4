package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/history"
	"github.com/aidanlsb/magpie/internal/orm"
	"github.com/aidanlsb/magpie/internal/report"
	"github.com/aidanlsb/magpie/internal/ui"
)

var (
	reportRunFormat string
	reportSaveBody  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Manage saved reports",
	Long: `Manage saved reports: markdown files in the project's reports
directory whose frontmatter describes a query. Reports are plain files,
so they diff, review, and version like everything else in the project.`,
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openProject()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		reports, err := report.List(env.Project.ReportsPath())
		if err != nil {
			return handleError(ErrReportInvalid, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"reports": reports}, &Meta{Count: len(reports)})
			return nil
		}

		if len(reports) == 0 {
			fmt.Println(ui.Hint("No reports saved yet. Run a query, then 'mgp report save <name>'."))
			return nil
		}

		fmt.Println(ui.Header("Reports"))
		tbl := ui.NewTable(3)
		for _, r := range reports {
			tbl.AddRow("  "+r.Name, r.Model, ui.TruncateWithEllipsis(r.Summary(), 60))
		}
		fmt.Print(tbl.String())
		return nil
	},
}

var reportShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a saved report's query and description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openProject()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		r, err := report.Find(env.Project.ReportsPath(), args[0])
		if err != nil {
			return handleError(ErrReportNotFound, err, "Run 'mgp report list' to see saved reports")
		}

		if isJSONOutput() {
			outputSuccess(r, nil)
			return nil
		}

		fmt.Println(ui.Header(r.Name))
		fmt.Printf("  model:   %s\n", r.Model)
		fmt.Printf("  fields:  %v\n", r.Fields)
		if len(r.Filters) > 0 {
			fmt.Printf("  filters: %v\n", r.Filters)
		}
		if len(r.Sort) > 0 {
			fmt.Printf("  sort:    %v\n", r.Sort)
		}
		if r.Limit > 0 {
			fmt.Printf("  limit:   %d\n", r.Limit)
		}
		if r.Body != "" {
			fmt.Println()
			display := ui.NewDisplayContext()
			if display.IsTTY {
				if rendered, err := ui.RenderMarkdown(r.Body, display.TermWidth); err == nil {
					fmt.Print(rendered)
					return nil
				}
			}
			fmt.Println(r.Body)
		}
		return nil
	},
}

var reportRunCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Run a saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openProject()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		r, err := report.Find(env.Project.ReportsPath(), args[0])
		if err != nil {
			return handleError(ErrReportNotFound, err, "Run 'mgp report list' to see saved reports")
		}

		q, err := reportQuery(env, r)
		if err != nil {
			return handleError(ErrQueryInvalid, err, "")
		}

		plan, err := orm.Build(cmd.Context(), env.Resolver, *q)
		if err != nil {
			return handleError(ErrQueryInvalid, err, "")
		}

		stop := startSpinner("Running report")
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
		_ = log.LogQuery(q.Model, r.Fields, len(q.Filters), rows, elapsed, err)

		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		_ = history.Write(env.Project.StatePath(), &history.Entry{
			Model:   q.Model,
			Fields:  r.Fields,
			Filters: r.Filters,
			Result:  result,
		})

		return outputResult(result, reportRunFormat, &Meta{
			Count:       len(result.Rows),
			QueryTimeMs: elapsed.Milliseconds(),
		})
	},
}

var reportSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the most recent query as a report",
	Long: `Save the most recent query as a report file. The query is taken from
the project's history; the optional --body becomes the report's markdown
description.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openProject()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		entry, err := history.Read(env.Project.StatePath())
		if err != nil {
			if errors.Is(err, history.ErrNoHistory) {
				return handleErrorMsg(ErrNoHistory, "no queries run yet", "Run 'mgp query <entity> <field>...' first")
			}
			return handleError(ErrFileReadError, err, "")
		}

		r := &report.Report{
			Name:    args[0],
			Model:   entry.Model,
			Fields:  entry.Fields,
			Filters: entry.Filters,
			Body:    reportSaveBody,
		}
		path, err := report.Save(env.Project.ReportsPath(), r)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"path": path, "name": r.Name}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Saved report %q to %s", r.Name, ui.FilePath(path)))
		return nil
	},
}

// reportQuery converts a report's frontmatter into an orm query, reusing
// the CLI filter and sort syntax.
func reportQuery(env *projectEnv, r *report.Report) (*orm.Query, error) {
	fields := make([]orm.QueryField, 0, len(r.Fields))
	for _, path := range r.Fields {
		fields = append(fields, orm.QueryField{Path: path})
	}
	for _, s := range r.Sort {
		path, dir, err := parseSort(s)
		if err != nil {
			return nil, fmt.Errorf("report %q: %w", r.Name, err)
		}
		applied := false
		for i := range fields {
			if fields[i].Path == path {
				fields[i].Sort = dir
				applied = true
			}
		}
		if !applied {
			return nil, fmt.Errorf("report %q: sort path %q is not among its fields", r.Name, path)
		}
	}

	filters := make([]orm.FilterSpec, 0, len(r.Filters))
	for _, f := range r.Filters {
		fs, err := parseFilterSpec(f)
		if err != nil {
			return nil, fmt.Errorf("report %q: %w", r.Name, err)
		}
		filters = append(filters, fs)
	}

	limit := r.Limit
	if limit == 0 {
		limit = env.Project.DefaultLimit
	}

	return &orm.Query{
		Model:   r.Model,
		Fields:  fields,
		Filters: filters,
		Limit:   limit,
	}, nil
}

func init() {
	reportRunCmd.Flags().StringVar(&reportRunFormat, "format", "table", "Output format: table, csv, json, md")
	reportSaveCmd.Flags().StringVar(&reportSaveBody, "body", "", "Markdown description for the report")

	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportShowCmd)
	reportCmd.AddCommand(reportRunCmd)
	reportCmd.AddCommand(reportSaveCmd)
	rootCmd.AddCommand(reportCmd)
}
