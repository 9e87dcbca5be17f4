package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/check"
	"github.com/aidanlsb/magpie/internal/config"
	"github.com/aidanlsb/magpie/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the project against its database",
	Long: `Validate the project end to end: models.yaml parses, every relation
points at a declared entity, the database is reachable, and every entity
maps onto a real table with the declared columns.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := config.LoadProject(getProjectDir())
		if err != nil {
			return handleError(ErrProjectNotFound, err, "Run 'mgp init' to create a project")
		}

		var prog *ui.Progress
		report := check.RunWithProgress(cmd.Context(), proj, func(done, total int) {
			if isJSONOutput() || quietFlag {
				return
			}
			if prog == nil {
				prog = ui.NewProgress("Checking entities", total)
			}
			prog.Update(done)
		})
		if prog != nil {
			prog.Done()
		}

		if isJSONOutput() {
			outputSuccess(report, &Meta{Count: len(report.Issues)})
			return nil
		}

		for _, issue := range report.Issues {
			prefix := ui.Error("")
			if issue.Level == check.LevelWarning {
				prefix = ui.Warning("")
			}
			if issue.Entity != "" {
				fmt.Printf("%s%s: %s\n", prefix, issue.Entity, issue.Message)
			} else {
				fmt.Printf("%s%s\n", prefix, issue.Message)
			}
		}

		if report.OK() {
			fmt.Println(ui.Successf("%d entities checked", report.Entities))
			if report.Warnings() > 0 {
				printHint(ui.ErrorWarningCounts(0, report.Warnings()))
			}
			return nil
		}
		return fmt.Errorf("check failed %s", ui.ErrorWarningCounts(report.Errors(), report.Warnings()))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
