package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aidanlsb/magpie/internal/types"
)

// ValidationError describes one problem in a models file.
type ValidationError struct {
	Entity  string
	Member  string
	Message string
}

func (e ValidationError) Error() string {
	if e.Member != "" {
		return fmt.Sprintf("entity '%s', member '%s': %s", e.Entity, e.Member, e.Message)
	}
	if e.Entity != "" {
		return fmt.Sprintf("entity '%s': %s", e.Entity, e.Message)
	}
	return e.Message
}

var nameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Validate checks the schema for problems a query could not recover
// from: bad names, unknown types, dangling relations. It returns every
// problem found, not just the first.
func (s *Schema) Validate() []ValidationError {
	var errs []ValidationError

	add := func(entity, member, format string, args ...any) {
		errs = append(errs, ValidationError{
			Entity:  entity,
			Member:  member,
			Message: fmt.Sprintf(format, args...),
		})
	}

	for _, name := range s.EntityNames() {
		e := s.Entities[name]

		if !validName(name) {
			add(name, "", "entity names must be lowercase identifiers without '__'")
		}
		if _, taken := types.ByName(name); taken {
			add(name, "", "name collides with the value type '%s'; pick another entity name", name)
		}
		if e.Table == "" {
			add(name, "", "missing table name")
		}
		if e.PrimaryKey == "" {
			add(name, "", "missing primary key column")
		}

		seen := make(map[string]string) // member name -> section
		member := func(mname, section string) bool {
			if !validName(mname) {
				add(name, mname, "member names must be lowercase identifiers without '__'")
				return false
			}
			if mname == "id" || mname == "pk" {
				add(name, mname, "'%s' is reserved; every entity gets it automatically", mname)
				return false
			}
			if prev, dup := seen[mname]; dup {
				add(name, mname, "declared as both %s and %s", prev, section)
				return false
			}
			seen[mname] = section
			return true
		}

		for fname, f := range e.Fields {
			if !member(fname, "field") || f == nil {
				continue
			}
			if f.Type == "" {
				add(name, fname, "missing type")
				continue
			}
			if f.Type == FieldTypeFile {
				if len(f.Choices) > 0 {
					add(name, fname, "file fields cannot declare choices")
				}
				continue
			}
			if _, ok := types.ByName(f.Type); !ok {
				add(name, fname, "unknown type %q (available: %s, file)", f.Type, strings.Join(types.Names(), ", "))
			}
			if f.BaseURL != "" {
				add(name, fname, "base_url only applies to file fields")
			}
		}

		for rname, r := range e.Relations {
			if !member(rname, "relation") || r == nil {
				continue
			}
			if r.Entity == "" {
				add(name, rname, "missing target entity")
				continue
			}
			if _, ok := s.Entities[r.Entity]; !ok {
				add(name, rname, "points at unknown entity %q", r.Entity)
			}
		}

		for cname, c := range e.Calculated {
			if !member(cname, "calculated") || c == nil {
				continue
			}
			if c.Template == "" {
				add(name, cname, "missing template")
			}
		}

		for aname, a := range e.Annotated {
			if !member(aname, "annotated") || a == nil {
				continue
			}
			if a.Expr == "" {
				add(name, aname, "missing expr")
			}
			if a.Type == "" {
				add(name, aname, "missing type")
			} else if _, ok := types.ByName(a.Type); !ok {
				add(name, aname, "unknown type %q (available: %s)", a.Type, strings.Join(types.Names(), ", "))
			}
		}

		for i, d := range e.Defaults {
			if d == nil || d.Field == "" {
				add(name, "", "defaults[%d]: missing field", i)
			}
		}
		for i, d := range e.Restrict {
			if d == nil || d.Field == "" {
				add(name, "", "restrict[%d]: missing field", i)
			}
		}
	}

	return errs
}

func validName(name string) bool {
	return nameRe.MatchString(name) && !strings.Contains(name, "__")
}
