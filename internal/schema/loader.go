package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates the models file at path. A missing file is
// not an error: it loads as an empty schema so a fresh project can run
// informational commands before declaring anything.
func Load(path string) (*Schema, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewSchema(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read models file %s: %w", path, err)
	}

	var schema Schema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse models file %s: %w", path, err)
	}

	schema.normalize()

	if errs := schema.Validate(); len(errs) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "invalid models file %s:", path)
		for _, e := range errs {
			b.WriteString("\n  - ")
			b.WriteString(e.Error())
		}
		return nil, fmt.Errorf("%s", b.String())
	}

	return &schema, nil
}

// defaultModelsYAML is the starter models file written by CreateDefault.
// Everything is commented out so a fresh project loads as empty.
const defaultModelsYAML = `# magpie models file.
#
# Declare the entities magpie can browse and how each maps onto your
# database. Uncomment and adapt the example below.
#
# entities:
#   customer:
#     table: customers
#     fields:
#       name: text
#       country: text
#
#   order:
#     table: orders
#     fields:
#       total: number
#       created: {type: datetime, column: created_at}
#       paid: boolean
#       status:
#         type: text
#         choices:
#           n: New
#           s: Shipped
#     relations:
#       customer: customer
#     calculated:
#       badge:
#         template: "#{{.id}} {{.status}}"
#     annotated:
#       gross:
#         type: number
#         expr: "total * 1.2"
#     defaults:
#       - field: paid
#         value: true
`

// CreateDefault writes the starter models file at path. It refuses to
// overwrite an existing file.
func CreateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("models file already exists at %s", path)
	}
	if err := os.WriteFile(path, []byte(defaultModelsYAML), 0644); err != nil {
		return fmt.Errorf("failed to write models file %s: %w", path, err)
	}
	return nil
}
