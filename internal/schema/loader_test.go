package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeModels(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write models file: %v", err)
	}
	return path
}

func TestLoadMissingFileIsEmptySchema(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "models.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(s.Entities) != 0 {
		t.Fatalf("expected empty schema, got %d entities", len(s.Entities))
	}
}

func TestLoadShorthandAndDefaults(t *testing.T) {
	path := writeModels(t, `entities:
  order:
    fields:
      total: number
      created: {type: datetime, column: created_at}
      attachment: file
    relations:
      customer: customer
  customer:
    table: customers
    fields:
      display_name: text
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	order := s.Entities["order"]
	if order.Table != "order" {
		t.Errorf("table should default to entity name, got %q", order.Table)
	}
	if order.PrimaryKey != "id" {
		t.Errorf("primary key should default to id, got %q", order.PrimaryKey)
	}

	total := order.Fields["total"]
	if total.Type != "number" || total.Column != "total" {
		t.Errorf("bare-type shorthand parsed as %+v", total)
	}
	if created := order.Fields["created"]; created.Column != "created_at" {
		t.Errorf("explicit column lost: %+v", created)
	}
	if att := order.Fields["attachment"]; att.BaseURL != "/media" {
		t.Errorf("file base_url should default to /media, got %q", att.BaseURL)
	}

	rel := order.Relations["customer"]
	if rel.Entity != "customer" || rel.Column != "customer_id" {
		t.Errorf("bare-entity shorthand parsed as %+v", rel)
	}

	if name := s.Entities["customer"].Fields["display_name"]; name.Pretty != "display name" {
		t.Errorf("pretty should replace underscores, got %q", name.Pretty)
	}
}

func TestLoadRejectsInvalidModels(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name: "unknown type",
			content: `entities:
  order:
    fields:
      total: money
`,
			wantMsg: `unknown type "money"`,
		},
		{
			name: "dangling relation",
			content: `entities:
  order:
    relations:
      customer: customer
`,
			wantMsg: `points at unknown entity "customer"`,
		},
		{
			name: "reserved member",
			content: `entities:
  order:
    fields:
      id: number
`,
			wantMsg: "'id' is reserved",
		},
		{
			name: "duplicate member",
			content: `entities:
  order:
    fields:
      customer: text
    relations:
      customer: order
`,
			wantMsg: "declared as both",
		},
		{
			name: "double underscore name",
			content: `entities:
  order:
    fields:
      unit__price: number
`,
			wantMsg: "lowercase identifiers without '__'",
		},
		{
			name: "entity collides with value type",
			content: `entities:
  number:
    fields:
      value: text
`,
			wantMsg: "collides with the value type",
		},
		{
			name: "annotated without expr",
			content: `entities:
  order:
    annotated:
      gross:
        type: number
`,
			wantMsg: "missing expr",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			path := writeModels(t, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected Load() to fail")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestGraphMapsDeclarations(t *testing.T) {
	path := writeModels(t, `entities:
  order:
    table: orders
    fields:
      total: number
      created: {type: datetime, column: created_at}
    relations:
      customer: customer
  customer:
    table: customers
    fields:
      name: text
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	g, err := s.Graph()
	if err != nil {
		t.Fatalf("Graph() error = %v", err)
	}

	tbl, ok := g.Table("order")
	if !ok {
		t.Fatalf("expected order table in graph")
	}
	if tbl.SQLName != "orders" {
		t.Errorf("SQLName = %q", tbl.SQLName)
	}
	if tbl.Columns["created"] != "created_at" {
		t.Errorf("created column = %q", tbl.Columns["created"])
	}
	if rel := tbl.Relations["customer"]; rel.Target != "customer" || rel.Column != "customer_id" {
		t.Errorf("relation = %+v", rel)
	}
}

func TestCreateDefaultRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	if err := CreateDefault(path); err != nil {
		t.Fatalf("CreateDefault() error = %v", err)
	}

	// The starter file is fully commented out, so it loads empty.
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() on starter file error = %v", err)
	}
	if len(s.Entities) != 0 {
		t.Fatalf("starter file should declare nothing, got %d entities", len(s.Entities))
	}

	if err := CreateDefault(path); err == nil {
		t.Fatalf("expected CreateDefault() to refuse overwriting")
	}
}
