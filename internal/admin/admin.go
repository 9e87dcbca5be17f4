// Package admin is the registry of root entities a project exposes for
// browsing. Each registered entity gets a ModelAdmin that builds its base
// queryset, carries its default filters, and holds the computed-column
// expressions its annotated fields need. The site is built once at startup
// and read-only afterward.
package admin

import (
	"context"
	"fmt"
	"sort"

	"github.com/aidanlsb/magpie/internal/orm"
	"github.com/aidanlsb/magpie/internal/store"
)

// QuerysetFunc overrides how an admin builds its base queryset. It exists
// for callers that gate access per request; an error here propagates out of
// any query that touches the entity.
type QuerysetFunc func(ctx context.Context, a *ModelAdmin, fields []string) (*store.QuerySet, error)

// Options configure one registered entity.
type Options struct {
	// Defaults are the filters applied when a query names none of its own.
	Defaults []orm.Default

	// Restrict filters apply to every queryset the admin builds. Rows
	// they exclude never appear, regardless of the client query.
	Restrict []store.Filter

	// Annotations map annotated-field names to the expressions that
	// compute them. They attach only when a queryset requests the field.
	Annotations map[string]store.Expr

	// GetQueryset, when set, replaces the default queryset construction.
	GetQueryset QuerysetFunc
}

// Site holds every registered entity for one project.
type Site struct {
	graph   *store.Graph
	dialect store.Dialect
	admins  map[string]*ModelAdmin
}

// NewSite creates an empty site over the project's relation graph.
func NewSite(graph *store.Graph, dialect store.Dialect) *Site {
	return &Site{
		graph:   graph,
		dialect: dialect,
		admins:  make(map[string]*ModelAdmin),
	}
}

// Register adds an entity to the site. The entity must exist in the
// relation graph and may be registered once.
func (s *Site) Register(model string, opts Options) (*ModelAdmin, error) {
	if _, ok := s.graph.Table(model); !ok {
		return nil, fmt.Errorf("cannot register unknown entity %q", model)
	}
	if _, dup := s.admins[model]; dup {
		return nil, fmt.Errorf("entity %q is already registered", model)
	}
	a := &ModelAdmin{site: s, model: model, opts: opts}
	s.admins[model] = a
	return a, nil
}

// Admin looks up a registered entity.
func (s *Site) Admin(model string) (*ModelAdmin, bool) {
	a, ok := s.admins[model]
	return a, ok
}

// Names returns the registered entity names in sorted order.
func (s *Site) Names() []string {
	names := make([]string, 0, len(s.admins))
	for name := range s.admins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dialect returns the engine the site's querysets target.
func (s *Site) Dialect() store.Dialect { return s.dialect }

// Graph returns the relation graph backing the site.
func (s *Site) Graph() *store.Graph { return s.graph }

// ModelAdmin is the administrative object for one root entity.
type ModelAdmin struct {
	site  *Site
	model string
	opts  Options
}

// Model returns the entity name.
func (a *ModelAdmin) Model() string { return a.model }

// Defaults returns the admin-declared default filter triples.
func (a *ModelAdmin) Defaults() []orm.Default {
	return a.opts.Defaults
}

// Annotation returns the expression computing the named annotated field.
func (a *ModelAdmin) Annotation(name string) (store.Expr, bool) {
	e, ok := a.opts.Annotations[name]
	return e, ok
}

// Queryset builds the entity's base queryset, attaching the computed
// columns for any requested annotated fields and the admin's restrict
// filters. A GetQueryset override replaces all of this; its failures
// propagate to the caller.
func (a *ModelAdmin) Queryset(ctx context.Context, fields []string) (*store.QuerySet, error) {
	if a.opts.GetQueryset != nil {
		return a.opts.GetQueryset(ctx, a, fields)
	}
	return a.BaseQueryset(fields)
}

// BaseQueryset is the default queryset construction, available to
// GetQueryset overrides that only decorate it.
func (a *ModelAdmin) BaseQueryset(fields []string) (*store.QuerySet, error) {
	qs, err := store.NewQuerySet(a.site.graph, a.site.dialect, a.model)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		if e, ok := a.opts.Annotations[f]; ok {
			qs = qs.Annotate(f, e)
		}
	}
	for _, r := range a.opts.Restrict {
		qs = qs.Filter(r.Path, r.Lookup, r.Value)
	}
	return qs, nil
}
