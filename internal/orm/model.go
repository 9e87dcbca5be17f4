package orm

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aidanlsb/magpie/internal/types"
)

// Model associates an entity's field descriptors with its administrative
// object. Entities with an admin are roots: queries can start from them.
// Type models (one per semantic type, holding that type's aggregates and
// calendar parts) have no admin and exist only as path continuations.
type Model struct {
	Name   string
	Fields map[string]Field
	Admin  Admin
}

// Root reports whether queries may start at this model.
func (m *Model) Root() bool { return m.Admin != nil }

// FieldNames returns the model's field names in sorted order.
func (m *Model) FieldNames() []string {
	names := make([]string, 0, len(m.Fields))
	for name := range m.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FilterSpec is one filter as it arrives from a client: string values,
// parsed later against the resolved field's type.
type FilterSpec struct {
	Path   string
	Lookup string
	Value  string
}

// DefaultFilters returns the admin's default filters with non-string
// values JSON-encoded, ready to merge into a client query.
func (m *Model) DefaultFilters() ([]FilterSpec, error) {
	if m.Admin == nil {
		return nil, nil
	}
	defaults := m.Admin.Defaults()
	out := make([]FilterSpec, 0, len(defaults))
	for _, d := range defaults {
		v, ok := d.Value.(string)
		if !ok {
			enc, err := json.Marshal(d.Value)
			if err != nil {
				return nil, fmt.Errorf("default filter %s__%s on %s: %w", d.Path, d.Lookup, m.Name, err)
			}
			v = string(enc)
		}
		out = append(out, FilterSpec{Path: d.Path, Lookup: d.Lookup, Value: v})
	}
	return out, nil
}

// TypeModels builds the per-type continuation models: each semantic type
// gets a model whose fields are its aggregates, and date-bearing types
// additionally expose calendar parts.
func TypeModels(reg *Registry) map[string]*Model {
	out := make(map[string]*Model, len(types.All()))
	for _, t := range types.All() {
		fields := make(map[string]Field)
		for name, agg := range reg.ForType(t) {
			fields[name] = agg
		}
		for _, part := range dateParts(t) {
			fields[part] = NewFuncField(t, part)
		}
		out[t.Name()] = &Model{Name: t.Name(), Fields: fields}
	}
	return out
}

func dateParts(t types.Type) []string {
	switch t {
	case types.Date:
		return []string{"year", "month", "day"}
	case types.DateTime:
		return []string{"year", "month", "day", "hour"}
	default:
		return nil
	}
}
