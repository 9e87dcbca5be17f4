package schema

import (
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Schema is the parsed models file: the entities a project exposes for
// browsing, keyed by entity name.
type Schema struct {
	Entities map[string]*Entity `yaml:"entities"`
}

// Entity declares one queryable entity and how it maps onto a table.
type Entity struct {
	// Table is the physical table name. Defaults to the entity name.
	Table string `yaml:"table,omitempty"`

	// PrimaryKey is the physical primary key column. Defaults to "id".
	PrimaryKey string `yaml:"primary_key,omitempty"`

	// Fields maps field names to column-backed field declarations.
	Fields map[string]*FieldDef `yaml:"fields,omitempty"`

	// Relations maps field names to foreign-key hops.
	Relations map[string]*RelationDef `yaml:"relations,omitempty"`

	// Calculated maps field names to row-template fields evaluated
	// client-side after the query runs.
	Calculated map[string]*CalculatedDef `yaml:"calculated,omitempty"`

	// Annotated maps field names to SQL-expression fields computed by
	// the database per row.
	Annotated map[string]*AnnotatedDef `yaml:"annotated,omitempty"`

	// Defaults are the filters applied when a query names no filters of
	// its own.
	Defaults []*FilterDef `yaml:"defaults,omitempty"`

	// Restrict filters apply to every query against this entity,
	// visible or not. Rows they exclude never appear.
	Restrict []*FilterDef `yaml:"restrict,omitempty"`
}

// FieldDef declares a column-backed field. In YAML it accepts either a
// bare type name or a full mapping:
//
//	total: number
//	status:
//	  type: text
//	  choices:
//	    n: New
//	    s: Shipped
type FieldDef struct {
	// Type is a semantic type name ("text", "number", "date",
	// "datetime", "duration", "boolean", "html", "json", "textarray",
	// "numberarray") or "file" for a stored-file path column.
	Type string `yaml:"type"`

	// Column is the physical column. Defaults to the field name.
	Column string `yaml:"column,omitempty"`

	// Pretty overrides the display name. Defaults to the field name
	// with underscores replaced by spaces.
	Pretty string `yaml:"pretty,omitempty"`

	// Choices maps stored values to display labels.
	Choices map[string]string `yaml:"choices,omitempty"`

	// BaseURL is the URL prefix stored file paths resolve under. Only
	// meaningful for file fields. Defaults to "/media".
	BaseURL string `yaml:"base_url,omitempty"`
}

// UnmarshalYAML accepts the bare-type shorthand alongside the full form.
func (f *FieldDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.Type = node.Value
		return nil
	}

	type fieldDef FieldDef // break recursion
	var full fieldDef
	if err := node.Decode(&full); err != nil {
		return err
	}
	*f = FieldDef(full)
	return nil
}

// RelationDef declares a foreign-key hop to another entity. In YAML it
// accepts either a bare target entity name or a full mapping:
//
//	customer: customer
//	billing:
//	  entity: customer
//	  column: billing_customer_id
type RelationDef struct {
	// Entity is the target entity name.
	Entity string `yaml:"entity"`

	// Column is the local column holding the target's key. Defaults to
	// the relation name with "_id" appended.
	Column string `yaml:"column,omitempty"`

	// Pretty overrides the display name.
	Pretty string `yaml:"pretty,omitempty"`
}

// UnmarshalYAML accepts the bare-entity shorthand alongside the full form.
func (r *RelationDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		r.Entity = node.Value
		return nil
	}

	type relationDef RelationDef
	var full relationDef
	if err := node.Decode(&full); err != nil {
		return err
	}
	*r = RelationDef(full)
	return nil
}

// CalculatedDef declares a field computed client-side from a Go template
// over the entity's row. Templates see the entity's column-backed fields
// by name, e.g. "#{{.id}} {{.status}}".
type CalculatedDef struct {
	Template string `yaml:"template"`

	// Boolean marks the result as true/false rather than display text.
	Boolean bool `yaml:"boolean,omitempty"`

	Pretty string `yaml:"pretty,omitempty"`
}

// AnnotatedDef declares a field computed by the database from a SQL
// expression over the entity's own table.
type AnnotatedDef struct {
	// Type is the semantic type of the expression's result.
	Type string `yaml:"type"`

	// Expr is the SQL expression, evaluated in the entity table's scope.
	Expr string `yaml:"expr"`

	Pretty  string            `yaml:"pretty,omitempty"`
	Choices map[string]string `yaml:"choices,omitempty"`
}

// FilterDef is one declared filter: a field path, a lookup, and a value.
// An empty lookup means the field type's default lookup.
type FilterDef struct {
	Field  string `yaml:"field"`
	Lookup string `yaml:"lookup,omitempty"`
	Value  any    `yaml:"value"`
}

// NewSchema creates an empty schema.
func NewSchema() *Schema {
	return &Schema{Entities: make(map[string]*Entity)}
}

// EntityNames returns the declared entity names in sorted order.
func (s *Schema) EntityNames() []string {
	names := make([]string, 0, len(s.Entities))
	for name := range s.Entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// normalize fills in the defaults the YAML form may omit.
func (s *Schema) normalize() {
	if s.Entities == nil {
		s.Entities = make(map[string]*Entity)
	}
	for name, e := range s.Entities {
		if e == nil {
			e = &Entity{}
			s.Entities[name] = e
		}
		if e.Table == "" {
			e.Table = name
		}
		if e.PrimaryKey == "" {
			e.PrimaryKey = "id"
		}
		for fname, f := range e.Fields {
			if f == nil {
				continue
			}
			if f.Column == "" {
				f.Column = fname
			}
			if f.Pretty == "" {
				f.Pretty = prettify(fname)
			}
			if f.Type == FieldTypeFile && f.BaseURL == "" {
				f.BaseURL = "/media"
			}
		}
		for rname, r := range e.Relations {
			if r == nil {
				continue
			}
			if r.Column == "" {
				r.Column = rname + "_id"
			}
			if r.Pretty == "" {
				r.Pretty = prettify(rname)
			}
		}
		for cname, c := range e.Calculated {
			if c != nil && c.Pretty == "" {
				c.Pretty = prettify(cname)
			}
		}
		for aname, a := range e.Annotated {
			if a != nil && a.Pretty == "" {
				a.Pretty = prettify(aname)
			}
		}
	}
}

// FieldTypeFile marks a stored-file path column. It is the one field
// type that is not a semantic type name.
const FieldTypeFile = "file"

// prettify turns a field name into its default display name.
func prettify(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

// MemberNames returns every field-like member of the entity (fields,
// relations, calculated, annotated) in sorted order.
func (e *Entity) MemberNames() []string {
	names := make([]string, 0, len(e.Fields)+len(e.Relations)+len(e.Calculated)+len(e.Annotated))
	for n := range e.Fields {
		names = append(names, n)
	}
	for n := range e.Relations {
		names = append(names, n)
	}
	for n := range e.Calculated {
		names = append(names, n)
	}
	for n := range e.Annotated {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Member reports which section of the entity declares name.
func (e *Entity) Member(name string) (string, bool) {
	switch {
	case e.Fields[name] != nil:
		return "field", true
	case e.Relations[name] != nil:
		return "relation", true
	case e.Calculated[name] != nil:
		return "calculated", true
	case e.Annotated[name] != nil:
		return "annotated", true
	}
	return "", false
}
