// Package check validates a project end to end: the models file parses,
// the relation graph is consistent, the database is reachable, and every
// declared entity maps onto a real table with the declared columns.
package check

import (
	"context"
	"errors"
	"fmt"

	"github.com/aidanlsb/magpie/internal/config"
	"github.com/aidanlsb/magpie/internal/schema"
	"github.com/aidanlsb/magpie/internal/store"
)

// Level classifies an issue.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Issue is one problem found during validation.
type Issue struct {
	Level   Level  `json:"level"`
	Entity  string `json:"entity,omitempty"`
	Message string `json:"message"`
}

// Report collects the outcome of a check run.
type Report struct {
	Issues   []Issue `json:"issues"`
	Entities int     `json:"entities"`
}

// Errors counts error-level issues.
func (r *Report) Errors() int { return r.count(LevelError) }

// Warnings counts warning-level issues.
func (r *Report) Warnings() int { return r.count(LevelWarning) }

// OK reports whether the project passed without errors.
func (r *Report) OK() bool { return r.Errors() == 0 }

func (r *Report) count(level Level) int {
	n := 0
	for _, i := range r.Issues {
		if i.Level == level {
			n++
		}
	}
	return n
}

func (r *Report) add(level Level, entity, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Level:   level,
		Entity:  entity,
		Message: fmt.Sprintf(format, args...),
	})
}

// Run validates the project. Configuration and schema problems become
// issues rather than hard failures, so one run reports everything it can
// find.
func Run(ctx context.Context, proj *config.Project) *Report {
	return RunWithProgress(ctx, proj, nil)
}

// RunWithProgress is Run with a callback invoked after each entity
// probe, for interactive progress display. A nil callback is allowed.
func RunWithProgress(ctx context.Context, proj *config.Project, progress func(done, total int)) *Report {
	r := &Report{}

	s, err := schema.Load(proj.ModelsPath())
	if err != nil {
		r.add(LevelError, "", "%v", err)
		return r
	}
	r.Entities = len(s.Entities)
	if r.Entities == 0 {
		r.add(LevelWarning, "", "no entities declared in %s", proj.Models)
	}

	graph, err := s.Graph()
	if err != nil {
		r.add(LevelError, "", "%v", err)
		return r
	}

	dialect, err := store.ParseDialect(proj.Connection.Driver)
	if err != nil {
		r.add(LevelError, "", "%v", err)
		return r
	}

	db, err := store.Open(ctx, dialect, proj.Connection.DSN)
	if err != nil {
		if errors.Is(err, store.ErrNoConnection) {
			r.add(LevelError, "", "no connection configured in %s", config.ProjectFile)
		} else {
			r.add(LevelError, "", "%v", err)
		}
		return r
	}
	defer db.Close()

	names := s.EntityNames()
	for i, name := range names {
		checkEntity(ctx, r, db, graph, s.Entities[name], name)
		if progress != nil {
			progress(i+1, len(names))
		}
	}
	return r
}

// checkEntity verifies the physical table exists and that every declared
// column answers a probe query.
func checkEntity(ctx context.Context, r *Report, db *store.DB, graph *store.Graph, e *schema.Entity, name string) {
	exists, err := db.TableExists(ctx, e.Table)
	if err != nil {
		r.add(LevelError, name, "failed to check table %q: %v", e.Table, err)
		return
	}
	if !exists {
		r.add(LevelError, name, "table %q does not exist", e.Table)
		return
	}

	qs, err := store.NewQuerySet(graph, db.Dialect(), name)
	if err != nil {
		r.add(LevelError, name, "%v", err)
		return
	}

	cols := []string{"id"}
	for fname, f := range e.Fields {
		if f != nil {
			cols = append(cols, fname)
		}
	}
	if _, _, err := db.Select(ctx, qs.Values(cols...).Limit(1)); err != nil {
		r.add(LevelError, name, "probe query failed (missing or misdeclared columns?): %v", err)
	}

	for rname, rel := range e.Relations {
		if rel == nil {
			continue
		}
		relQS, err := store.NewQuerySet(graph, db.Dialect(), name)
		if err != nil {
			continue
		}
		if _, _, err := db.Select(ctx, relQS.Values(rname+"__id").Limit(1)); err != nil {
			r.add(LevelError, name, "relation %q probe failed: %v", rname, err)
		}
	}
}
