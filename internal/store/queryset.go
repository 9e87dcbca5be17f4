package store

import (
	"fmt"
)

// Filter is one (path, lookup, value) condition.
type Filter struct {
	Path   string
	Lookup string
	Value  any
}

// Order is one sort key.
type Order struct {
	Path string
	Desc bool
}

type annotation struct {
	name string
	expr Expr
}

// QuerySet is an immutable description of one query rooted at an entity.
// Builder methods return modified copies, so a base queryset can be shared
// and extended freely.
type QuerySet struct {
	graph   *Graph
	dialect Dialect
	root    string

	selects     []string
	annotations []annotation
	wheres      []Filter
	havings     []Filter
	groups      []string
	orders      []Order
	limit       uint64
	offset      uint64
	hasLimit    bool
}

// NewQuerySet starts a queryset over the given root entity.
func NewQuerySet(graph *Graph, dialect Dialect, root string) (*QuerySet, error) {
	if _, ok := graph.Table(root); !ok {
		return nil, fmt.Errorf("unknown entity %q", root)
	}
	return &QuerySet{graph: graph, dialect: dialect, root: root}, nil
}

// Root returns the root entity name.
func (qs *QuerySet) Root() string { return qs.root }

// Dialect returns the engine this queryset targets.
func (qs *QuerySet) Dialect() Dialect { return qs.dialect }

// Graph returns the relation graph backing the queryset.
func (qs *QuerySet) Graph() *Graph { return qs.graph }

func (qs *QuerySet) clone() *QuerySet {
	dup := *qs
	dup.selects = append([]string(nil), qs.selects...)
	dup.annotations = append([]annotation(nil), qs.annotations...)
	dup.wheres = append([]Filter(nil), qs.wheres...)
	dup.havings = append([]Filter(nil), qs.havings...)
	dup.groups = append([]string(nil), qs.groups...)
	dup.orders = append([]Order(nil), qs.orders...)
	return &dup
}

// Values sets the selected output columns, each named by its path.
func (qs *QuerySet) Values(paths ...string) *QuerySet {
	dup := qs.clone()
	dup.selects = append([]string(nil), paths...)
	return dup
}

// Annotate attaches a named computed column. Later paths may reference the
// annotation by name.
func (qs *QuerySet) Annotate(name string, e Expr) *QuerySet {
	dup := qs.clone()
	dup.annotations = append(dup.annotations, annotation{name: name, expr: e})
	return dup
}

// HasAnnotation reports whether an annotation with the name exists.
func (qs *QuerySet) HasAnnotation(name string) bool {
	return qs.annotation(name) != nil
}

func (qs *QuerySet) annotation(name string) Expr {
	for _, a := range qs.annotations {
		if a.name == name {
			return a.expr
		}
	}
	return nil
}

// Filter adds a where-clause condition.
func (qs *QuerySet) Filter(path, lookup string, value any) *QuerySet {
	dup := qs.clone()
	dup.wheres = append(dup.wheres, Filter{Path: path, Lookup: lookup, Value: value})
	return dup
}

// Having adds a post-grouping condition.
func (qs *QuerySet) Having(path, lookup string, value any) *QuerySet {
	dup := qs.clone()
	dup.havings = append(dup.havings, Filter{Path: path, Lookup: lookup, Value: value})
	return dup
}

// GroupBy sets the grouping keys. Keys must be selected columns.
func (qs *QuerySet) GroupBy(paths ...string) *QuerySet {
	dup := qs.clone()
	dup.groups = append([]string(nil), paths...)
	return dup
}

// OrderBy sets the sort order.
func (qs *QuerySet) OrderBy(orders ...Order) *QuerySet {
	dup := qs.clone()
	dup.orders = append([]Order(nil), orders...)
	return dup
}

// Limit caps the number of result rows.
func (qs *QuerySet) Limit(n uint64) *QuerySet {
	dup := qs.clone()
	dup.limit = n
	dup.hasLimit = true
	return dup
}

// Offset skips the first n result rows.
func (qs *QuerySet) Offset(n uint64) *QuerySet {
	dup := qs.clone()
	dup.offset = n
	return dup
}
