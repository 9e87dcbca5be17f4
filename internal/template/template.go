// Package template compiles the row templates that calculated fields
// declare in the models file. A template renders against one materialized
// entity row, so "#{{.id}} {{.status}}" becomes "#42 Shipped".
package template

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

// funcs are the helpers available inside row templates.
var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"trim":  strings.TrimSpace,
	"default": func(fallback, v any) any {
		if v == nil || v == "" {
			return fallback
		}
		return v
	},
}

// Template is one compiled row template.
type Template struct {
	name string
	tmpl *template.Template
}

// Compile parses a row template. Referencing a column the row does not
// carry is an evaluation error, not silent empty output.
func Compile(name, source string) (*Template, error) {
	t, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("invalid template for %s: %w", name, err)
	}
	return &Template{name: name, tmpl: t}, nil
}

// Render evaluates the template against one row.
func (t *Template) Render(row map[string]any) (string, error) {
	var b strings.Builder
	if err := t.tmpl.Execute(&b, row); err != nil {
		return "", fmt.Errorf("template %s: %w", t.name, err)
	}
	return b.String(), nil
}

// RenderBool evaluates a boolean-producing template. The rendered output
// must be a parseable boolean ("true", "false", "1", "0").
func (t *Template) RenderBool(row map[string]any) (bool, error) {
	out, err := t.Render(row)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(strings.TrimSpace(out))
	if err != nil {
		return false, fmt.Errorf("template %s produced %q, want a boolean", t.name, out)
	}
	return b, nil
}
