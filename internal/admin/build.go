package admin

import (
	"fmt"
	"sort"

	"github.com/aidanlsb/magpie/internal/orm"
	"github.com/aidanlsb/magpie/internal/schema"
	"github.com/aidanlsb/magpie/internal/store"
	"github.com/aidanlsb/magpie/internal/template"
	"github.com/aidanlsb/magpie/internal/types"
)

// FromSchema registers every declared entity and builds the model map
// queries resolve against: one root model per entity plus the per-type
// continuation models holding aggregates and calendar parts.
func FromSchema(s *schema.Schema, graph *store.Graph, dialect store.Dialect, reg *orm.Registry) (*Site, map[string]*orm.Model, error) {
	site := NewSite(graph, dialect)
	models := orm.TypeModels(reg)

	for _, name := range s.EntityNames() {
		e := s.Entities[name]

		opts, err := entityOptions(e, name)
		if err != nil {
			return nil, nil, err
		}
		a, err := site.Register(name, opts)
		if err != nil {
			return nil, nil, err
		}

		fields, err := entityFields(e, name, a)
		if err != nil {
			return nil, nil, err
		}
		models[name] = &orm.Model{Name: name, Fields: fields, Admin: a}
	}

	return site, models, nil
}

func entityOptions(e *schema.Entity, name string) (Options, error) {
	var opts Options

	for _, d := range e.Defaults {
		opts.Defaults = append(opts.Defaults, orm.Default{
			Path:   d.Field,
			Lookup: d.Lookup,
			Value:  d.Value,
		})
	}

	for _, d := range e.Restrict {
		lookup := d.Lookup
		if lookup == "" {
			var err error
			if lookup, err = restrictDefaultLookup(e, name, d.Field); err != nil {
				return Options{}, err
			}
		}
		opts.Restrict = append(opts.Restrict, store.Filter{
			Path:   d.Field,
			Lookup: lookup,
			Value:  d.Value,
		})
	}

	if len(e.Annotated) > 0 {
		opts.Annotations = make(map[string]store.Expr, len(e.Annotated))
		for aname, a := range e.Annotated {
			opts.Annotations[aname] = store.Raw(a.Expr)
		}
	}

	return opts, nil
}

// restrictDefaultLookup resolves the lookup a restrict filter omits.
// Restrict filters apply inside annotation subqueries too, so they may
// only name the entity's own columns.
func restrictDefaultLookup(e *schema.Entity, entity, field string) (string, error) {
	f := e.Fields[field]
	if f == nil {
		return "", fmt.Errorf("entity %q: restrict filter names unknown field %q", entity, field)
	}
	typeName := f.Type
	if typeName == schema.FieldTypeFile {
		return "", fmt.Errorf("entity %q: cannot restrict on file field %q", entity, field)
	}
	t, ok := types.ByName(typeName)
	if !ok {
		return "", fmt.Errorf("entity %q: restrict field %q has unknown type %q", entity, field, typeName)
	}
	lookup := t.DefaultLookup()
	if lookup == "" {
		return "", fmt.Errorf("entity %q: %s values cannot be filtered, so %q cannot restrict", entity, typeName, field)
	}
	return lookup, nil
}

func entityFields(e *schema.Entity, name string, a *ModelAdmin) (map[string]orm.Field, error) {
	fields := make(map[string]orm.Field)

	// Every entity exposes its row identity twice: "id" queries the
	// primary key directly, "pk" reads a related row's key join-free
	// after a relation hop.
	fields["id"] = orm.NewConcreteField(name, "id", "id", types.Number, nil)
	fields["pk"] = orm.NewRawField(name, "pk", "pk", types.Number)

	for fname, f := range e.Fields {
		if f == nil {
			continue
		}
		if f.Type == schema.FieldTypeFile {
			fields[fname] = orm.NewFileField(name, fname, f.Pretty, f.BaseURL)
			continue
		}
		t, ok := types.ByName(f.Type)
		if !ok {
			return nil, fmt.Errorf("entity %q: field %q has unknown type %q", name, fname, f.Type)
		}
		fields[fname] = orm.NewConcreteField(name, fname, f.Pretty, t, choiceList(f.Choices))
	}

	for rname, r := range e.Relations {
		if r == nil {
			continue
		}
		fields[rname] = orm.NewFkField(name, rname, r.Pretty, r.Entity)
	}

	for cname, c := range e.Calculated {
		if c == nil {
			continue
		}
		tmpl, err := template.Compile(name+"."+cname, c.Template)
		if err != nil {
			return nil, err
		}
		fields[cname] = orm.NewCalculatedField(name, cname, c.Pretty, computeFunc(tmpl, c.Boolean), c.Boolean)
	}

	for aname, ad := range e.Annotated {
		if ad == nil {
			continue
		}
		t, ok := types.ByName(ad.Type)
		if !ok {
			return nil, fmt.Errorf("entity %q: annotated field %q has unknown type %q", name, aname, ad.Type)
		}
		fields[aname] = orm.NewAnnotatedField(name, aname, ad.Pretty, t, a, choiceList(ad.Choices))
	}

	return fields, nil
}

func computeFunc(tmpl *template.Template, boolean bool) orm.ComputeFunc {
	if boolean {
		return func(row store.Row) (any, error) {
			return tmpl.RenderBool(row)
		}
	}
	return func(row store.Row) (any, error) {
		return tmpl.Render(row)
	}
}

// choiceList converts the schema's choice mapping into the deterministic
// ordered form descriptors carry.
func choiceList(m map[string]string) []types.Choice {
	if len(m) == 0 {
		return nil
	}
	values := make([]string, 0, len(m))
	for v := range m {
		values = append(values, v)
	}
	sort.Strings(values)
	out := make([]types.Choice, 0, len(values))
	for _, v := range values {
		out = append(out, types.Choice{Value: v, Label: m[v]})
	}
	return out
}
