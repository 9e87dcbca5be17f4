package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/ui"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the query audit log",
	Long: `Show the project's query audit log: one entry per executed query
with its entity, field count, row count, duration, and outcome. Logging
is on by default and controlled by the audit setting in magpie.yaml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openProject()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		log := env.auditLogger()
		entries, err := log.Read()
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}
		if auditLimit > 0 && len(entries) > auditLimit {
			entries = entries[len(entries)-auditLimit:]
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"entries": entries}, &Meta{Count: len(entries)})
			return nil
		}

		if len(entries) == 0 {
			fmt.Println(ui.Hint("No queries logged yet."))
			return nil
		}

		tbl := ui.NewTable(5)
		for _, e := range entries {
			status := ui.SymbolSuccess
			if e.Status != "ok" {
				status = ui.SymbolError
			}
			tbl.AddRow(
				e.Timestamp.Format("2006-01-02 15:04:05"),
				e.Model,
				strings.Join(e.Fields, " "),
				fmt.Sprintf("%d rows", e.Rows),
				fmt.Sprintf("%s %dms", status, e.DurationMs),
			)
		}
		fmt.Print(tbl.String())
		return nil
	},
}

func init() {
	auditCmd.Flags().IntVarP(&auditLimit, "limit", "n", 20, "Show only the most recent N entries")
	rootCmd.AddCommand(auditCmd)
}
