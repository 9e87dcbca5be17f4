package orm

import (
	"fmt"
	"sort"
	"strings"
)

// ResolveError is a client-facing path resolution failure.
type ResolveError struct {
	Message    string
	Suggestion string
}

func (e *ResolveError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Suggestion)
	}
	return e.Message
}

// Resolver binds dotted field paths against a model map. The walk is
// uniform: each segment looks up a descriptor on the current model, binds
// it onto the chain, and continues at whatever model the descriptor's
// RelName points to, whether that is another entity or a type model full
// of aggregates.
type Resolver struct {
	models map[string]*Model
}

func NewResolver(models map[string]*Model) *Resolver {
	return &Resolver{models: models}
}

// Model looks up a model by name.
func (r *Resolver) Model(name string) (*Model, bool) {
	m, ok := r.models[name]
	return m, ok
}

// RootNames returns the names of the models queries may start from.
func (r *Resolver) RootNames() []string {
	var names []string
	for name, m := range r.models {
		if m.Root() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Resolve binds the dotted path starting at the named root entity.
func (r *Resolver) Resolve(root, path string) (*BoundField, error) {
	model, ok := r.models[root]
	if !ok || !model.Root() {
		return nil, &ResolveError{
			Message:    fmt.Sprintf("unknown entity %q", root),
			Suggestion: fmt.Sprintf("Available entities: %s", strings.Join(r.RootNames(), ", ")),
		}
	}
	if path == "" {
		return nil, &ResolveError{Message: "empty field path"}
	}

	var bound *BoundField
	for _, seg := range strings.Split(path, ".") {
		if model == nil {
			return nil, &ResolveError{
				Message: fmt.Sprintf("path %q continues past %q, which has nothing more to offer", path, bound.DottedPath()),
			}
		}
		f, ok := model.Fields[seg]
		if !ok {
			return nil, &ResolveError{
				Message:    fmt.Sprintf("unknown field %q on %q in path %q", seg, model.Name, path),
				Suggestion: fmt.Sprintf("Available fields: %s", strings.Join(model.FieldNames(), ", ")),
			}
		}
		if bound == nil {
			if _, raw := f.(*RawField); raw {
				return nil, &ResolveError{
					Message:    fmt.Sprintf("field %q on %q is only addressable through a relation", seg, model.Name),
					Suggestion: fmt.Sprintf("Use %s.id at the root", root),
				}
			}
		}
		bound = f.Bind(bound)

		if rel := f.Meta().RelName; rel != "" {
			model = r.models[rel]
		} else {
			model = nil
		}
	}
	return bound, nil
}
