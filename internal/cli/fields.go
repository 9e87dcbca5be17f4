package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/orm"
	"github.com/aidanlsb/magpie/internal/ui"
)

type fieldView struct {
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Type       string   `json:"type,omitempty"`
	Relation   string   `json:"relation,omitempty"`
	Lookups    []string `json:"lookups,omitempty"`
	Aggregates []string `json:"aggregates,omitempty"`
}

var fieldsCmd = &cobra.Command{
	Use:   "fields <entity>",
	Short: "List an entity's queryable fields",
	Long: `List the fields an entity exposes: stored columns, relation hops,
calculated and annotated fields, and the aggregates each value type
supports as path continuations.

Examples:
  mgp fields order
  mgp fields customer --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openProject()
		if err != nil {
			return handleError(ErrModelsInvalid, err, "")
		}

		model, ok := env.Resolver.Model(args[0])
		if !ok || !model.Root() {
			return handleErrorMsg(ErrEntityNotFound,
				fmt.Sprintf("unknown entity %q", args[0]),
				fmt.Sprintf("Available entities: %s", joinOr(env.Schema.EntityNames())))
		}

		views := make([]fieldView, 0, len(model.Fields))
		for _, name := range model.FieldNames() {
			views = append(views, describeField(env, name, model.Fields[name]))
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"entity": args[0],
				"fields": views,
			}, &Meta{Count: len(views)})
			return nil
		}

		fmt.Println(ui.Header(fmt.Sprintf("Fields of %s", args[0])))
		tbl := ui.NewTable(3)
		for _, v := range views {
			detail := v.Type
			if v.Relation != "" && v.Kind == "relation" {
				detail = "-> " + v.Relation
			}
			extra := ""
			if len(v.Aggregates) > 0 {
				extra = "aggregates: " + strings.Join(v.Aggregates, ", ")
			}
			tbl.AddRow("  "+v.Name, detail, extra)
		}
		fmt.Print(tbl.String())
		fmt.Println()
		printHint("Chain paths with dots: customer.name, total.sum, created.year.")
		return nil
	},
}

// describeField flattens one descriptor into its display form. Aggregates
// come from the type's continuation model, so what is listed is exactly
// what resolves.
func describeField(env *projectEnv, name string, f orm.Field) fieldView {
	meta := f.Meta()
	v := fieldView{Name: name}

	switch f.(type) {
	case *orm.FkField:
		v.Kind = "relation"
		v.Relation = meta.RelName
		return v
	case *orm.CalculatedField:
		v.Kind = "calculated"
	case *orm.AnnotatedField:
		v.Kind = "annotated"
	case *orm.FileField:
		v.Kind = "file"
	case *orm.RawField:
		v.Kind = "key"
	default:
		v.Kind = "field"
	}

	if meta.Type != nil {
		v.Type = meta.Type.Name()
		v.Lookups = meta.Type.Lookups()
		if cont, ok := env.Resolver.Model(meta.Type.Name()); ok {
			v.Aggregates = cont.FieldNames()
		}
	}
	return v
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}
