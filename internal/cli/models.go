package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/ui"
)

type modelView struct {
	Name    string `json:"name"`
	Table   string `json:"table"`
	Members int    `json:"members"`
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the entities declared in models.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openProject()
		if err != nil {
			return handleError(ErrModelsInvalid, err, "")
		}

		views := make([]modelView, 0, len(env.Schema.Entities))
		for _, name := range env.Schema.EntityNames() {
			e := env.Schema.Entities[name]
			views = append(views, modelView{
				Name:    name,
				Table:   e.Table,
				Members: len(e.MemberNames()),
			})
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"models": views}, &Meta{Count: len(views)})
			return nil
		}

		if len(views) == 0 {
			fmt.Println(ui.Hint("No entities declared. Edit models.yaml to add some."))
			return nil
		}

		fmt.Println(ui.Header("Entities"))
		tbl := ui.NewTable(3)
		for _, v := range views {
			tbl.AddRow("  "+v.Name, "table: "+v.Table, ui.Count(v.Members, "field", "fields"))
		}
		fmt.Print(tbl.String())
		fmt.Println()
		printHint("Run 'mgp fields <entity>' to see what each exposes.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
