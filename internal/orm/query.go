package orm

import (
	"context"
	"fmt"
	"strings"

	"github.com/aidanlsb/magpie/internal/store"
	"github.com/aidanlsb/magpie/internal/types"
)

// SortDirection orders one output column.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

func (s SortDirection) String() string {
	switch s {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return ""
	}
}

// QueryField is one requested output column.
type QueryField struct {
	Path string
	Sort SortDirection
}

// Query is a client request: a root entity, the fields to show, filters,
// and a row cap.
type Query struct {
	Model   string
	Fields  []QueryField
	Filters []FilterSpec
	Limit   uint64
}

// BoundFilter pairs a resolved field with its parsed filter value.
type BoundFilter struct {
	Field  *BoundField
	Lookup string
	Value  any
}

// Plan is a resolved query, ready to execute or render as SQL.
type Plan struct {
	Model    string
	Fields   []*BoundField
	Where    []BoundFilter
	Having   []BoundFilter
	queryset *store.QuerySet
}

// Queryset exposes the assembled store queryset.
func (p *Plan) Queryset() *store.QuerySet { return p.queryset }

// SQL renders the plan for its target engine.
func (p *Plan) SQL() (string, []any, error) { return p.queryset.BuildSQL() }

// WithDefaults prepends the model's default filters to the client's.
func WithDefaults(model *Model, filters []FilterSpec) ([]FilterSpec, error) {
	defaults, err := model.DefaultFilters()
	if err != nil {
		return nil, err
	}
	return append(defaults, filters...), nil
}

// Build resolves every path in the query and assembles the store queryset:
// base queryset from the admin, chain annotations, aggregate clauses,
// selected values, grouping when aggregates are present, then filters,
// sorts, and the row cap.
func Build(ctx context.Context, r *Resolver, q Query) (*Plan, error) {
	model, ok := r.Model(q.Model)
	if !ok || !model.Root() {
		return nil, &ResolveError{
			Message:    fmt.Sprintf("unknown entity %q", q.Model),
			Suggestion: fmt.Sprintf("Available entities: %s", strings.Join(r.RootNames(), ", ")),
		}
	}
	if len(q.Fields) == 0 {
		return nil, &ResolveError{Message: "no fields requested"}
	}

	fields := make([]*BoundField, 0, len(q.Fields))
	for _, qf := range q.Fields {
		b, err := r.Resolve(q.Model, qf.Path)
		if err != nil {
			return nil, err
		}
		if b.Type() == nil {
			return nil, &ResolveError{
				Message:    fmt.Sprintf("%q is a relation, not a value", qf.Path),
				Suggestion: fmt.Sprintf("Select one of its fields, such as %s.id", qf.Path),
			}
		}
		fields = append(fields, b)
	}

	var where, having []BoundFilter
	for _, fs := range q.Filters {
		bf, isHaving, err := resolveFilter(r, q.Model, fs)
		if err != nil {
			return nil, err
		}
		if isHaving {
			having = append(having, bf)
		} else {
			where = append(where, bf)
		}
	}

	qs, err := model.Admin.Queryset(ctx, nil)
	if err != nil {
		return nil, err
	}

	for _, b := range fields {
		if qs, err = b.Annotate(ctx, qs); err != nil {
			return nil, err
		}
	}
	for _, bf := range where {
		if qs, err = bf.Field.Annotate(ctx, qs); err != nil {
			return nil, err
		}
	}
	for _, bf := range having {
		if qs, err = bf.Field.Annotate(ctx, qs); err != nil {
			return nil, err
		}
	}

	hasAggregate := false
	attach := func(b *BoundField) {
		if b.Aggregate() == nil {
			return
		}
		hasAggregate = true
		if !qs.HasAnnotation(b.QuerysetPathStr()) {
			qs = qs.Annotate(b.QuerysetPathStr(), b.Aggregate())
		}
	}
	for _, b := range fields {
		attach(b)
	}
	for _, bf := range having {
		attach(bf.Field)
	}

	seen := make(map[string]bool, len(fields))
	paths := make([]string, 0, len(fields))
	for _, b := range fields {
		p := b.QuerysetPathStr()
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	qs = qs.Values(paths...)

	if hasAggregate {
		groupSeen := make(map[string]bool)
		var keys []string
		for _, b := range fields {
			if b.Aggregate() != nil || !b.GroupBy() {
				continue
			}
			p := b.QuerysetPathStr()
			if !groupSeen[p] {
				groupSeen[p] = true
				keys = append(keys, p)
			}
		}
		if len(keys) > 0 {
			qs = qs.GroupBy(keys...)
		}
	}

	for _, bf := range where {
		qs = qs.Filter(bf.Field.QuerysetPathStr(), bf.Lookup, bf.Value)
	}
	for _, bf := range having {
		qs = qs.Having(bf.Field.QuerysetPathStr(), bf.Lookup, bf.Value)
	}

	var orders []store.Order
	for i, qf := range q.Fields {
		if qf.Sort == SortNone {
			continue
		}
		orders = append(orders, store.Order{
			Path: fields[i].QuerysetPathStr(),
			Desc: qf.Sort == SortDesc,
		})
	}
	if len(orders) > 0 {
		qs = qs.OrderBy(orders...)
	}

	if q.Limit > 0 {
		qs = qs.Limit(q.Limit)
	}

	return &Plan{
		Model:    q.Model,
		Fields:   fields,
		Where:    where,
		Having:   having,
		queryset: qs,
	}, nil
}

func resolveFilter(r *Resolver, root string, fs FilterSpec) (BoundFilter, bool, error) {
	b, err := r.Resolve(root, fs.Path)
	if err != nil {
		return BoundFilter{}, false, err
	}
	t := b.Type()
	if t == nil {
		return BoundFilter{}, false, &ResolveError{
			Message:    fmt.Sprintf("cannot filter on relation %q", fs.Path),
			Suggestion: fmt.Sprintf("Filter one of its fields, such as %s.id", fs.Path),
		}
	}
	if !b.Filterable() && !b.Having() {
		return BoundFilter{}, false, &ResolveError{
			Message:    fmt.Sprintf("%q is computed per row and cannot be filtered in the store", fs.Path),
			Suggestion: "Filter the fields it is derived from instead",
		}
	}
	lookup := fs.Lookup
	if lookup == "" {
		lookup = t.DefaultLookup()
	}
	if !types.HasLookup(t, lookup) {
		msg := fmt.Sprintf("%s values do not support the %q lookup", t.Name(), lookup)
		lookups := t.Lookups()
		if len(lookups) == 0 {
			return BoundFilter{}, false, &ResolveError{
				Message:    msg,
				Suggestion: fmt.Sprintf("%s values are display-only", t.Name()),
			}
		}
		return BoundFilter{}, false, &ResolveError{
			Message:    msg,
			Suggestion: fmt.Sprintf("Available lookups: %s", strings.Join(lookups, ", ")),
		}
	}
	v, err := types.ParseLookupValue(t, lookup, fs.Value)
	if err != nil {
		return BoundFilter{}, false, &ResolveError{
			Message: fmt.Sprintf("filter %s %s %q: %v", fs.Path, lookup, fs.Value, err),
		}
	}
	return BoundFilter{Field: b, Lookup: lookup, Value: v}, b.Having(), nil
}
