package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/history"
)

var lastFormat string

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the most recent query result",
	Long: `Show the most recent query result without touching the database.
Results are kept in the project's state directory; very large result sets
are truncated on save.`,
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

		printHint(fmt.Sprintf("%s at %s (%d rows%s)",
			entry.Model,
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.RowCount,
			truncatedNote(entry)))
		return outputResult(entry.Result, lastFormat, &Meta{Count: entry.RowCount})
	},
}

func truncatedNote(entry *history.Entry) string {
	if entry.Truncated {
		return fmt.Sprintf(", showing first %d", len(entry.Result.Rows))
	}
	return ""
}

func init() {
	lastCmd.Flags().StringVar(&lastFormat, "format", "table", "Output format: table, csv, json, md")
	rootCmd.AddCommand(lastCmd)
}
