// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/config"
	"github.com/aidanlsb/magpie/internal/ui"
)

var (
	// Global flags
	projectName    string // Named project from config
	projectDirFlag string // Explicit path (rare)
	configPath     string
	noLinksFlag    bool
	noColorFlag    bool
	quietFlag      bool

	// Resolved values
	resolvedProjectDir string
	cfg                *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mgp",
	Short: "Magpie - browse relational databases from the terminal",
	Long: `Magpie lets you browse a relational database the way you think about
it: entities, relations, and dotted field paths instead of handwritten SQL.

Declare your tables once in models.yaml, then query across joins and
aggregates with a single command. Like its namesake, it picks the shiny
rows out of whatever is lying around.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColorFlag {
			ui.DisableColors()
		}
		setHyperlinksDisabled(noLinksFlag)

		// Skip project resolution for commands that don't need one
		switch cmd.Name() {
		case "init", "completion", "help", "version", "docs":
			return nil
		}
		if cmd.Parent() != nil && (cmd.Parent().Name() == "completion" || cmd.Parent().Name() == "docs") {
			return nil
		}

		// Load config
		var err error
		cfg, err = loadGlobalConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !noColorFlag {
			ui.ConfigureTheme(cfg.UI.Accent)
		}
		ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

		// Resolve project dir: explicit path > named project > walk-up from cwd
		if projectDirFlag != "" {
			resolvedProjectDir = projectDirFlag
		} else if projectName != "" {
			resolvedProjectDir, err = cfg.GetProjectDir(projectName)
			if err != nil {
				return fmt.Errorf("project '%s' not found\n\nAdd it under [projects] in %s", projectName, config.DefaultPath())
			}
		} else if cfg.DefaultProject != "" {
			resolvedProjectDir, err = cfg.GetProjectDir("")
			if err != nil {
				return err
			}
		} else {
			cwd, cwdErr := os.Getwd()
			if cwdErr != nil {
				return cwdErr
			}
			resolvedProjectDir, err = config.FindProject(cwd)
			if err != nil {
				return fmt.Errorf(`no magpie project found

Either:
  1. Run from inside a project directory (one holding %s)
  2. Use --project <name> (from config)
  3. Use --dir /path/to/project
  4. Set default_project in %s
  5. Run 'mgp init /path/to/new/project' to create one`, config.ProjectFile, config.DefaultPath())
			}
		}

		if _, err := os.Stat(resolvedProjectDir); os.IsNotExist(err) {
			return fmt.Errorf("project directory not found: %s\n\nRun 'mgp init %s' to create it", resolvedProjectDir, resolvedProjectDir)
		}

		return nil
	},
}

// usageError marks flag and argument mistakes so main can exit 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }

// Execute runs the CLI.
func Execute() error {
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})
	return rootCmd.Execute()
}

// ExitCode maps an Execute error to the process exit code: 2 for usage
// mistakes, 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectName, "project", "p", "", "Named project from config")
	rootCmd.PersistentFlags().StringVar(&projectDirFlag, "dir", "", "Explicit path to project directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().BoolVar(&noLinksFlag, "no-links", false, "Disable terminal hyperlinks")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress hints and secondary output")
}

// printHint prints a muted hint line unless --quiet or --json asked for
// clean output.
func printHint(msg string) {
	if quietFlag || jsonOutput {
		return
	}
	fmt.Println(ui.Hint(msg))
}

// getProjectDir returns the resolved project directory.
func getProjectDir() string {
	return resolvedProjectDir
}

func loadGlobalConfig() (*config.Config, error) {
	var loadedCfg *config.Config
	var err error
	if configPath != "" {
		loadedCfg, err = config.LoadFrom(configPath)
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}
	return loadedCfg, nil
}
