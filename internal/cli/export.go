package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/history"
	"github.com/aidanlsb/magpie/internal/ui"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the most recent query result to a file",
	Long: `Export the most recent query result as CSV, JSON, or a markdown
table, without re-running the query.

Examples:
  mgp export --format csv -o orders.csv
  mgp export --format md`,
	Args: cobra.NoArgs,
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

		out := os.Stdout
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return handleError(ErrFileWriteError, err, "")
			}
			defer f.Close()
			out = f
		}

		switch exportFormat {
		case "csv":
			if err := writeCSV(out, entry.Result); err != nil {
				return err
			}
		case "json":
			if err := writeResultJSON(out, entry.Result); err != nil {
				return handleError(ErrFileWriteError, err, "")
			}
		case "md", "markdown":
			if _, err := fmt.Fprint(out, markdownTable(entry.Result)); err != nil {
				return handleError(ErrFileWriteError, err, "")
			}
		default:
			return handleErrorMsg(ErrInvalidInput,
				fmt.Sprintf("unknown format %q", exportFormat),
				"Use csv, json, or md")
		}

		if exportOutput != "" && !isJSONOutput() {
			fmt.Println(ui.Successf("Wrote %d rows to %s", len(entry.Result.Rows), ui.FilePath(exportOutput)))
		}
		if exportOutput != "" && isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"path": exportOutput,
				"rows": len(entry.Result.Rows),
			}, nil)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format: csv, json, md")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
