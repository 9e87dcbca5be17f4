// Package orm maps entity fields onto store queries. Field descriptors
// declare what an entity exposes; binding a dotted path chains descriptors
// into immutable BoundFields that know their display path, their
// store-addressable path, and any computed columns the query needs before
// the path becomes filterable or sortable.
package orm

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/aidanlsb/magpie/internal/store"
	"github.com/aidanlsb/magpie/internal/types"
)

// BaseField is the metadata every descriptor carries.
type BaseField struct {
	ModelName  string
	Name       string
	PrettyName string
	Type       types.Type // nil for pure relation hops
	Concrete   bool
	RelName    string // entity or type model reachable through this field
	CanPivot   bool
	Choices    []types.Choice
}

func newBase(b BaseField) *BaseField {
	if b.Type == nil && b.RelName == "" {
		panic(fmt.Sprintf("magpie internal error: field %s.%s needs a type or a related entity", b.ModelName, b.Name))
	}
	if (b.Concrete || b.CanPivot) && b.Type == nil {
		panic(fmt.Sprintf("magpie internal error: concrete field %s.%s has no type", b.ModelName, b.Name))
	}
	return &b
}

// Field is a descriptor for one addressable entity field. The variant
// decides how binding extends the store path and whether query-time
// annotation is needed. The set of variants is closed.
type Field interface {
	Meta() *BaseField
	Bind(previous *BoundField) *BoundField
	// Formatter renders result values for display. Nil means the field
	// produces no values of its own.
	Formatter() types.Formatter

	annotate(ctx context.Context, b *BoundField, qs *store.QuerySet) (*store.QuerySet, error)
}

// noAnnotate is embedded by every variant that needs no query-time
// computed column.
type noAnnotate struct{}

func (noAnnotate) annotate(_ context.Context, _ *BoundField, qs *store.QuerySet) (*store.QuerySet, error) {
	return qs, nil
}

func appendPath(base []string, parts ...string) []string {
	out := make([]string, 0, len(base)+len(parts))
	out = append(out, base...)
	return append(out, parts...)
}

func orBlank(previous *BoundField) *BoundField {
	if previous == nil {
		return blank()
	}
	return previous
}

// FkField is a hop to a related entity. It is never selected or filtered
// itself, it only extends the path.
type FkField struct {
	base *BaseField
	noAnnotate
}

func NewFkField(modelName, name, prettyName, relName string) *FkField {
	return &FkField{base: newBase(BaseField{
		ModelName:  modelName,
		Name:       name,
		PrettyName: prettyName,
		RelName:    relName,
	})}
}

func (f *FkField) Meta() *BaseField { return f.base }

func (f *FkField) Formatter() types.Formatter { return nil }

func (f *FkField) Bind(previous *BoundField) *BoundField {
	prev := orBlank(previous)
	return &BoundField{
		field:        f,
		previous:     prev,
		fullPath:     appendPath(prev.fullPath, f.base.Name),
		prettyPath:   appendPath(prev.prettyPath, f.base.PrettyName),
		querysetPath: appendPath(prev.querysetPath, f.base.Name),
	}
}

// ConcreteField is a stored scalar column.
type ConcreteField struct {
	base *BaseField
	noAnnotate
}

func NewConcreteField(modelName, name, prettyName string, t types.Type, choices []types.Choice) *ConcreteField {
	return &ConcreteField{base: newBase(BaseField{
		ModelName:  modelName,
		Name:       name,
		PrettyName: prettyName,
		Type:       t,
		Concrete:   true,
		RelName:    t.Name(),
		CanPivot:   true,
		Choices:    choices,
	})}
}

func (f *ConcreteField) Meta() *BaseField { return f.base }

func (f *ConcreteField) Formatter() types.Formatter {
	return f.base.Type.Formatter(f.base.Choices)
}

func (f *ConcreteField) Bind(previous *BoundField) *BoundField {
	prev := orBlank(previous)
	return &BoundField{
		field:        f,
		previous:     prev,
		fullPath:     appendPath(prev.fullPath, f.base.Name),
		prettyPath:   appendPath(prev.prettyPath, f.base.PrettyName),
		querysetPath: appendPath(prev.querysetPath, f.base.Name),
		filterable:   true,
	}
}

// RawField exposes a value the store already materializes at the previous
// path, so binding does not extend the store path. The related row's key is
// the canonical case: after a relation hop it reads the local key column
// without joining. Raw fields cannot start a chain.
type RawField struct {
	base *BaseField
	noAnnotate
}

func NewRawField(modelName, name, prettyName string, t types.Type) *RawField {
	return &RawField{base: newBase(BaseField{
		ModelName:  modelName,
		Name:       name,
		PrettyName: prettyName,
		Type:       t,
		Concrete:   true,
		RelName:    t.Name(),
		CanPivot:   true,
	})}
}

func (f *RawField) Meta() *BaseField { return f.base }

func (f *RawField) Formatter() types.Formatter {
	return f.base.Type.Formatter(f.base.Choices)
}

func (f *RawField) Bind(previous *BoundField) *BoundField {
	if previous == nil || previous.field == nil {
		panic(fmt.Sprintf("magpie internal error: raw field %s.%s bound at the root", f.base.ModelName, f.base.Name))
	}
	return &BoundField{
		field:        f,
		previous:     previous,
		fullPath:     appendPath(previous.fullPath, f.base.Name),
		prettyPath:   appendPath(previous.prettyPath, f.base.PrettyName),
		querysetPath: appendPath(previous.querysetPath),
		filterable:   true,
	}
}

// ComputeFunc evaluates a calculated field against one materialized row.
type ComputeFunc func(row store.Row) (any, error)

// CalculatedField is derived per row in application code rather than in
// the store. Binding selects the row identity; the value is computed after
// the query runs. Boolean-marked functions type as Boolean, everything
// else as HTML.
type CalculatedField struct {
	base *BaseField
	fn   ComputeFunc
	noAnnotate
}

func NewCalculatedField(modelName, name, prettyName string, fn ComputeFunc, boolean bool) *CalculatedField {
	t := types.Type(types.HTML)
	if boolean {
		t = types.Boolean
	}
	// No RelName: computed values terminate their path.
	return &CalculatedField{
		base: newBase(BaseField{
			ModelName:  modelName,
			Name:       name,
			PrettyName: prettyName,
			Type:       t,
			CanPivot:   true,
		}),
		fn: fn,
	}
}

func (f *CalculatedField) Meta() *BaseField { return f.base }

func (f *CalculatedField) Bind(previous *BoundField) *BoundField {
	prev := orBlank(previous)
	return &BoundField{
		field:        f,
		previous:     prev,
		fullPath:     appendPath(prev.fullPath, f.base.Name),
		prettyPath:   appendPath(prev.prettyPath, f.base.PrettyName),
		querysetPath: appendPath(prev.querysetPath, "id"),
		rowModel:     f.base.ModelName,
	}
}

// Formatter evaluates the function against the row and formats the result.
// A failing function degrades to its error text for that row instead of
// aborting the result set.
func (f *CalculatedField) Formatter() types.Formatter {
	base := f.base.Type.Formatter(f.base.Choices)
	return func(v any) any {
		if v == nil {
			return nil
		}
		row, ok := v.(store.Row)
		if !ok {
			return fmt.Sprintf("calculated field %q needs a row, got %T", f.base.Name, v)
		}
		out, err := f.fn(row)
		if err != nil {
			return err.Error()
		}
		return base(out)
	}
}

// Admin is the administrative surface of a root entity: it builds the
// entity's base queryset (attaching computed columns for any requested
// annotated fields) and carries the entity's default filters.
type Admin interface {
	Queryset(ctx context.Context, fields []string) (*store.QuerySet, error)
	Defaults() []Default
}

// Default is one admin-declared default filter triple.
type Default struct {
	Path   string
	Lookup string
	Value  any
}

// AnnotatedField is computed by a correlated subquery against its own
// entity's admin queryset. It must be annotated onto the active queryset
// before it can be selected, filtered, or sorted.
type AnnotatedField struct {
	base  *BaseField
	admin Admin
}

func NewAnnotatedField(modelName, name, prettyName string, t types.Type, admin Admin, choices []types.Choice) *AnnotatedField {
	return &AnnotatedField{
		base: newBase(BaseField{
			ModelName:  modelName,
			Name:       name,
			PrettyName: prettyName,
			Type:       t,
			Concrete:   true,
			RelName:    t.Name(),
			CanPivot:   true,
			Choices:    choices,
		}),
		admin: admin,
	}
}

func (f *AnnotatedField) Meta() *BaseField { return f.base }

func (f *AnnotatedField) Formatter() types.Formatter {
	return f.base.Type.Formatter(f.base.Choices)
}

func (f *AnnotatedField) Bind(previous *BoundField) *BoundField {
	prev := orBlank(previous)
	fullPath := appendPath(prev.fullPath, f.base.Name)
	return &BoundField{
		field:        f,
		previous:     prev,
		fullPath:     fullPath,
		prettyPath:   appendPath(prev.prettyPath, f.base.PrettyName),
		querysetPath: []string{store.AnnotationName(fullPath)},
		filterable:   true,
	}
}

// annotate attaches the correlated subquery: select this field from the
// entity's own queryset, matched on primary key to the previous path's
// identity, first row only. Admin queryset failures propagate.
func (f *AnnotatedField) annotate(ctx context.Context, b *BoundField, qs *store.QuerySet) (*store.QuerySet, error) {
	name := b.QuerysetPathStr()
	if qs.HasAnnotation(name) {
		return qs, nil
	}
	inner, err := f.admin.Queryset(ctx, []string{f.base.Name})
	if err != nil {
		return nil, err
	}
	outer := store.JoinPath(appendPath(b.previous.querysetPath, "id"))
	return qs.Annotate(name, store.CorrelatedSubquery(inner, f.base.Name, outer)), nil
}

// FileField stores a file name and renders as a hyperlink into the
// entity's file storage.
type FileField struct {
	base    *BaseField
	baseURL string
	noAnnotate
}

func NewFileField(modelName, name, prettyName, baseURL string) *FileField {
	return &FileField{
		base: newBase(BaseField{
			ModelName:  modelName,
			Name:       name,
			PrettyName: prettyName,
			Type:       types.HTML,
			Concrete:   true,
			RelName:    types.HTML.Name(),
			CanPivot:   true,
		}),
		baseURL: baseURL,
	}
}

func (f *FileField) Meta() *BaseField { return f.base }

func (f *FileField) Bind(previous *BoundField) *BoundField {
	prev := orBlank(previous)
	return &BoundField{
		field:        f,
		previous:     prev,
		fullPath:     appendPath(prev.fullPath, f.base.Name),
		prettyPath:   appendPath(prev.prettyPath, f.base.PrettyName),
		querysetPath: appendPath(prev.querysetPath, f.base.Name),
		filterable:   true,
	}
}

// Formatter renders a link to the stored file. Misconfigured storage
// degrades to the error text for that value rather than failing the whole
// result set.
func (f *FileField) Formatter() types.Formatter {
	return func(v any) any {
		if v == nil {
			return nil
		}
		name := fmt.Sprint(v)
		if name == "" {
			return nil
		}
		u, err := f.storageURL(name)
		if err != nil {
			return err.Error()
		}
		return fmt.Sprintf("<a href=%q>%s</a>", u, html.EscapeString(name))
	}
}

func (f *FileField) storageURL(name string) (string, error) {
	if f.baseURL == "" {
		return "", fmt.Errorf("no file storage configured for %s.%s", f.base.ModelName, f.base.Name)
	}
	u, err := url.Parse(f.baseURL)
	if err != nil {
		return "", fmt.Errorf("file storage for %s.%s: %w", f.base.ModelName, f.base.Name, err)
	}
	return u.JoinPath(name).String(), nil
}

// FuncField extracts a calendar component from a date or datetime field.
// The component is an integer, so the result pivots, filters, and
// aggregates like any number.
type FuncField struct {
	base *BaseField
	noAnnotate
}

func NewFuncField(baseType types.Type, name string) *FuncField {
	return &FuncField{base: newBase(BaseField{
		ModelName:  baseType.Name(),
		Name:       name,
		PrettyName: strings.ReplaceAll(name, "_", " "),
		Type:       types.Number,
		Concrete:   true,
		RelName:    types.Number.Name(),
		CanPivot:   true,
	})}
}

func (f *FuncField) Meta() *BaseField { return f.base }

func (f *FuncField) Formatter() types.Formatter {
	return f.base.Type.Formatter(nil)
}

func (f *FuncField) Bind(previous *BoundField) *BoundField {
	if previous == nil || previous.field == nil {
		panic(fmt.Sprintf("magpie internal error: date part %s bound at the root", f.base.Name))
	}
	return &BoundField{
		field:        f,
		previous:     previous,
		fullPath:     appendPath(previous.fullPath, f.base.Name),
		prettyPath:   appendPath(previous.prettyPath, f.base.PrettyName),
		querysetPath: appendPath(previous.querysetPath, f.base.Name),
		filterable:   true,
	}
}
