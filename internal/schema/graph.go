package schema

import (
	"github.com/aidanlsb/magpie/internal/store"
)

// Graph builds the store relation graph the schema describes. Concrete
// and file fields map to physical columns; calculated and annotated
// fields are computed and stay out of the graph.
func (s *Schema) Graph() (*store.Graph, error) {
	g := store.NewGraph()
	for _, name := range s.EntityNames() {
		e := s.Entities[name]

		columns := make(map[string]string, len(e.Fields))
		for fname, f := range e.Fields {
			if f == nil {
				continue
			}
			columns[fname] = f.Column
		}

		relations := make(map[string]store.Relation, len(e.Relations))
		for rname, r := range e.Relations {
			if r == nil {
				continue
			}
			relations[rname] = store.Relation{Name: rname, Target: r.Entity, Column: r.Column}
		}

		if err := g.Add(&store.Table{
			Name:       name,
			SQLName:    e.Table,
			PrimaryKey: e.PrimaryKey,
			Columns:    columns,
			Relations:  relations,
		}); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
