package orm

import (
	"context"
	"fmt"

	"github.com/aidanlsb/magpie/internal/store"
)

// ResultField describes one output column.
type ResultField struct {
	Path   string `json:"path"`
	Pretty string `json:"pretty"`
	Type   string `json:"type"`
}

// Result is an executed, display-formatted result set.
type Result struct {
	Fields []ResultField `json:"fields"`
	Rows   [][]any       `json:"rows"`
}

// Execute runs the plan and formats every value for display. Calculated
// fields are evaluated against their entity's materialized rows, fetched
// in one batch per entity.
func Execute(ctx context.Context, db *store.DB, r *Resolver, plan *Plan) (*Result, error) {
	_, rows, err := db.Select(ctx, plan.queryset)
	if err != nil {
		return nil, err
	}

	instances, err := fetchRowModels(ctx, db, r, plan, rows)
	if err != nil {
		return nil, err
	}

	out := &Result{
		Fields: make([]ResultField, 0, len(plan.Fields)),
		Rows:   make([][]any, 0, len(rows)),
	}
	for _, b := range plan.Fields {
		name := ""
		if t := b.Type(); t != nil {
			name = t.Name()
		}
		out.Fields = append(out.Fields, ResultField{
			Path:   b.DottedPath(),
			Pretty: b.PrettyPathStr(),
			Type:   name,
		})
	}

	for _, row := range rows {
		cells := make([]any, 0, len(plan.Fields))
		for _, b := range plan.Fields {
			var value any = row[b.QuerysetPathStr()]
			if m := b.RowModel(); m != "" {
				value = instanceFor(instances[m], value)
			}
			if f := b.Formatter(); f != nil {
				value = f(value)
			}
			cells = append(cells, value)
		}
		out.Rows = append(out.Rows, cells)
	}
	return out, nil
}

// pkKey normalizes primary key values for map lookups; some drivers hand
// back byte slices, which cannot key a map.
func pkKey(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func instanceFor(byPK map[any]store.Row, pk any) any {
	if pk == nil || byPK == nil {
		return nil
	}
	row, ok := byPK[pkKey(pk)]
	if !ok {
		return nil
	}
	return row
}

func fetchRowModels(ctx context.Context, db *store.DB, r *Resolver, plan *Plan, rows []store.Row) (map[string]map[any]store.Row, error) {
	needed := make(map[string]bool)
	for _, b := range plan.Fields {
		if b.RowModel() != "" {
			needed[b.RowModel()] = true
		}
	}
	if len(needed) == 0 {
		return nil, nil
	}

	out := make(map[string]map[any]store.Row, len(needed))
	for name := range needed {
		model, ok := r.Model(name)
		if !ok {
			return nil, fmt.Errorf("unknown entity %q", name)
		}

		seen := make(map[any]bool)
		var pks []any
		for _, b := range plan.Fields {
			if b.RowModel() != name {
				continue
			}
			key := b.QuerysetPathStr()
			for _, row := range rows {
				v := row[key]
				if v == nil {
					continue
				}
				k := pkKey(v)
				if seen[k] {
					continue
				}
				seen[k] = true
				pks = append(pks, v)
			}
		}
		byPK := make(map[any]store.Row, len(pks))
		out[name] = byPK
		if len(pks) == 0 {
			continue
		}

		qs, err := store.NewQuerySet(plan.queryset.Graph(), db.Dialect(), name)
		if err != nil {
			return nil, err
		}
		qs = qs.Values(instanceColumns(model)...).Filter("id", "in", pks)
		_, instRows, err := db.Select(ctx, qs)
		if err != nil {
			return nil, err
		}
		for _, ir := range instRows {
			byPK[pkKey(ir["id"])] = ir
		}
	}
	return out, nil
}

// instanceColumns lists the stored columns a materialized row carries:
// everything a calculated function may read.
func instanceColumns(model *Model) []string {
	var cols []string
	for _, name := range model.FieldNames() {
		switch model.Fields[name].(type) {
		case *ConcreteField, *FileField:
			cols = append(cols, name)
		}
	}
	return cols
}
