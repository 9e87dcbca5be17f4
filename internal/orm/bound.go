package orm

import (
	"context"
	"strings"

	"github.com/aidanlsb/magpie/internal/store"
	"github.com/aidanlsb/magpie/internal/types"
)

// BoundField is one realized link in a field chain. Each link holds the
// cumulative paths from the root and points back at the previous link, so a
// chain is a singly linked list ending in a blank sentinel. Bound fields
// are immutable once constructed.
type BoundField struct {
	field        Field
	previous     *BoundField
	fullPath     []string
	prettyPath   []string
	querysetPath []string
	aggregate    store.Expr
	filterable   bool
	having       bool
	rowModel     string
}

// blank returns the root sentinel: no descriptor, empty paths. A fresh
// sentinel is made per binding so chains never share mutable state.
func blank() *BoundField { return &BoundField{} }

// Field returns the descriptor this link was bound from.
func (b *BoundField) Field() Field { return b.field }

// Previous returns the preceding link, or the blank sentinel at the root.
func (b *BoundField) Previous() *BoundField { return b.previous }

// FullPath is the chain's programmatic path, one name per hop.
func (b *BoundField) FullPath() []string { return b.fullPath }

// PrettyPath is the chain's display path, same length as FullPath.
func (b *BoundField) PrettyPath() []string { return b.prettyPath }

// QuerysetPath is the store-addressable path the chain resolves to.
func (b *BoundField) QuerysetPath() []string { return b.querysetPath }

// PathStr renders the full path as a store-addressable identifier.
func (b *BoundField) PathStr() string { return store.JoinPath(b.fullPath) }

// DottedPath renders the full path in user-facing dotted form.
func (b *BoundField) DottedPath() string { return strings.Join(b.fullPath, ".") }

// QuerysetPathStr renders the queryset path for use in store queries.
func (b *BoundField) QuerysetPathStr() string { return store.JoinPath(b.querysetPath) }

// PrettyPathStr renders the display path.
func (b *BoundField) PrettyPathStr() string { return strings.Join(b.prettyPath, " ") }

// Aggregate is the aggregate clause this link contributes, or nil.
func (b *BoundField) Aggregate() store.Expr { return b.aggregate }

// Filterable reports whether the field can appear in a where clause.
func (b *BoundField) Filterable() bool { return b.filterable }

// Having reports whether conditions on this field belong after grouping.
func (b *BoundField) Having() bool { return b.having }

// RowModel names the entity whose materialized row the formatter needs, or
// "" when the store value is formatted directly.
func (b *BoundField) RowModel() string { return b.rowModel }

// GroupBy reports whether this field may serve as a grouping key.
func (b *BoundField) GroupBy() bool { return b.field.Meta().CanPivot }

// Type is the semantic type of the underlying descriptor, nil for hops.
func (b *BoundField) Type() types.Type {
	if b.field == nil {
		return nil
	}
	return b.field.Meta().Type
}

// Name is the underlying descriptor's programmatic name.
func (b *BoundField) Name() string { return b.field.Meta().Name }

// ModelName is the entity the underlying descriptor belongs to.
func (b *BoundField) ModelName() string { return b.field.Meta().ModelName }

// Concrete reports whether the underlying descriptor is stored directly.
func (b *BoundField) Concrete() bool { return b.field.Meta().Concrete }

// Choices are the underlying descriptor's value labels.
func (b *BoundField) Choices() []types.Choice { return b.field.Meta().Choices }

// Formatter returns the underlying descriptor's display formatter.
func (b *BoundField) Formatter() types.Formatter { return b.field.Formatter() }

// lineage returns the chain's links oldest first, excluding the sentinel.
func (b *BoundField) lineage() []*BoundField {
	var chain []*BoundField
	for cur := b; cur != nil && cur.field != nil; cur = cur.previous {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Annotate walks the chain root to leaf and lets each link attach the
// query-time computed columns it needs. Most links are no-ops; subquery
// fields do real work here.
func (b *BoundField) Annotate(ctx context.Context, qs *store.QuerySet) (*store.QuerySet, error) {
	for _, link := range b.lineage() {
		var err error
		qs, err = link.field.annotate(ctx, link, qs)
		if err != nil {
			return nil, err
		}
	}
	return qs, nil
}
