package store

import (
	"fmt"
	"sort"
)

// Table describes the physical layout of one queryable entity.
type Table struct {
	Name       string            // entity name used in query paths
	SQLName    string            // physical table name
	PrimaryKey string            // physical primary key column
	Columns    map[string]string // field name -> physical column
	Relations  map[string]Relation
}

// Relation is a foreign-key hop from one entity to another.
type Relation struct {
	Name   string // field name used in query paths
	Target string // target entity name
	Column string // local physical column holding the key
}

// Column resolves a field name to its physical column. The "id" field
// always resolves to the primary key even when not declared.
func (t *Table) Column(name string) (string, bool) {
	if col, ok := t.Columns[name]; ok {
		return col, true
	}
	if name == "id" {
		return t.PrimaryKey, true
	}
	return "", false
}

// Graph is the relation graph a project exposes for querying. Built once
// from the schema file, read-only afterward.
type Graph struct {
	tables map[string]*Table
}

// NewGraph creates an empty relation graph.
func NewGraph() *Graph {
	return &Graph{tables: make(map[string]*Table)}
}

// Add registers a table. Entity names must be unique.
func (g *Graph) Add(t *Table) error {
	if _, exists := g.tables[t.Name]; exists {
		return fmt.Errorf("duplicate entity %q", t.Name)
	}
	if t.PrimaryKey == "" {
		return fmt.Errorf("entity %q has no primary key", t.Name)
	}
	g.tables[t.Name] = t
	return nil
}

// Table looks up an entity by name.
func (g *Graph) Table(name string) (*Table, bool) {
	t, ok := g.tables[name]
	return t, ok
}

// Names returns all entity names in sorted order.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.tables))
	for name := range g.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every relation points at a registered entity and
// that referenced columns exist.
func (g *Graph) Validate() error {
	for _, name := range g.Names() {
		t := g.tables[name]
		for _, rel := range t.Relations {
			if _, ok := g.tables[rel.Target]; !ok {
				return fmt.Errorf("entity %q: relation %q points at unknown entity %q", t.Name, rel.Name, rel.Target)
			}
			if rel.Column == "" {
				return fmt.Errorf("entity %q: relation %q has no column", t.Name, rel.Name)
			}
		}
	}
	return nil
}
