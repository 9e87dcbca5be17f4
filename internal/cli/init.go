package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/config"
	"github.com/aidanlsb/magpie/internal/schema"
	"github.com/aidanlsb/magpie/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Create a new magpie project",
	Long: `Create a new magpie project: a magpie.yaml with connection settings,
a starter models.yaml, and the state directory for query history.

Examples:
  mgp init            Create a project in the current directory
  mgp init ./shop     Create a project in ./shop`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		if err := config.CreateProject(abs); err != nil {
			return handleError(ErrProjectExists, err, "Edit the existing magpie.yaml instead")
		}
		if err := schema.CreateDefault(filepath.Join(abs, "models.yaml")); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		if err := os.MkdirAll(filepath.Join(abs, config.StateDirName), 0755); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"project": abs,
				"config":  filepath.Join(abs, config.ProjectFile),
				"models":  filepath.Join(abs, "models.yaml"),
			}, nil)
			return nil
		}

		fmt.Println(ui.Successf("Created magpie project in %s", ui.FilePath(abs)))
		fmt.Println()
		fmt.Println("Next steps:")
		fmt.Println("  1. Point the connection section of magpie.yaml at your database")
		fmt.Println("  2. Declare your entities in models.yaml")
		fmt.Println("  3. Run 'mgp check' to verify the declarations")
		fmt.Println("  4. Run 'mgp query <entity> <field>...' to browse")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
