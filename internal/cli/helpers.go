package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/aidanlsb/magpie/internal/admin"
	"github.com/aidanlsb/magpie/internal/audit"
	"github.com/aidanlsb/magpie/internal/config"
	"github.com/aidanlsb/magpie/internal/orm"
	"github.com/aidanlsb/magpie/internal/schema"
	"github.com/aidanlsb/magpie/internal/store"
	"github.com/aidanlsb/magpie/internal/ui"
)

// projectEnv bundles everything a command needs after the project is
// loaded: settings, parsed models, the registered admin site, and the
// resolver for dotted field paths.
type projectEnv struct {
	Project  *config.Project
	Schema   *schema.Schema
	Graph    *store.Graph
	Dialect  store.Dialect
	Site     *admin.Site
	Resolver *orm.Resolver
	Registry *orm.Registry
}

// openProject loads the resolved project and builds the query machinery
// on top of its models file. No database connection is opened.
func openProject() (*projectEnv, error) {
	proj, err := config.LoadProject(getProjectDir())
	if err != nil {
		return nil, err
	}

	s, err := schema.Load(proj.ModelsPath())
	if err != nil {
		return nil, err
	}

	graph, err := s.Graph()
	if err != nil {
		return nil, err
	}

	dialect, err := store.ParseDialect(proj.Connection.Driver)
	if err != nil {
		return nil, err
	}

	reg := orm.NewRegistry(dialect.SupportsArrayAgg())
	site, models, err := admin.FromSchema(s, graph, dialect, reg)
	if err != nil {
		return nil, err
	}

	return &projectEnv{
		Project:  proj,
		Schema:   s,
		Graph:    graph,
		Dialect:  dialect,
		Site:     site,
		Resolver: orm.NewResolver(models),
		Registry: reg,
	}, nil
}

// openDB connects to the project's database.
func (env *projectEnv) openDB(ctx context.Context) (*store.DB, error) {
	db, err := store.Open(ctx, env.Dialect, env.Project.Connection.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", env.Dialect, err)
	}
	return db, nil
}

// auditLogger returns the project's query audit logger.
func (env *projectEnv) auditLogger() *audit.Logger {
	return audit.New(env.Project.StatePath(), env.Project.AuditEnabled())
}

// startSpinner shows a spinner while the database works. Silent in JSON
// and quiet modes; the returned stop clears the line before anything
// else prints.
func startSpinner(message string) func() {
	if isJSONOutput() || quietFlag {
		return func() {}
	}
	sp := ui.NewSpinner(message)
	sp.Start()
	return sp.Stop
}

func joinOr(names []string) string {
	if len(names) == 0 {
		return "none declared"
	}
	return strings.Join(names, ", ")
}
