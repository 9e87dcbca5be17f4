package cli

import (
	"testing"

	"github.com/aidanlsb/magpie/internal/orm"
)

func TestParseFilterSpec(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		path    string
		lookup  string
		value   string
		wantErr bool
	}{
		{name: "plain equality", input: "status=shipped", path: "status", value: "shipped"},
		{name: "explicit lookup", input: "total=gte:100", path: "total", lookup: "gte", value: "100"},
		{name: "relation path", input: "customer.name=contains:smith", path: "customer.name", lookup: "contains", value: "smith"},
		{name: "colon value without lookup", input: "url=https://example.com", path: "url", value: "https://example.com"},
		{name: "colon value after lookup", input: "created=gte:2025-01-01T00:00:00Z", path: "created", lookup: "gte", value: "2025-01-01T00:00:00Z"},
		{name: "empty value", input: "status=", path: "status", value: ""},
		{name: "is_null", input: "email=is_null:true", path: "email", lookup: "is_null", value: "true"},
		{name: "missing equals", input: "status", wantErr: true},
		{name: "empty path", input: "=shipped", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFilterSpec(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseFilterSpec(%q) expected error, got %+v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFilterSpec(%q) error = %v", tt.input, err)
			}
			if got.Path != tt.path || got.Lookup != tt.lookup || got.Value != tt.value {
				t.Fatalf("parseFilterSpec(%q) = {%q %q %q}, want {%q %q %q}",
					tt.input, got.Path, got.Lookup, got.Value, tt.path, tt.lookup, tt.value)
			}
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		path    string
		dir     orm.SortDirection
		wantErr bool
	}{
		{name: "bare path ascends", input: "total", path: "total", dir: orm.SortAsc},
		{name: "explicit asc", input: "total:asc", path: "total", dir: orm.SortAsc},
		{name: "explicit desc", input: "total.sum:desc", path: "total.sum", dir: orm.SortDesc},
		{name: "bad direction", input: "total:down", wantErr: true},
		{name: "empty path", input: ":desc", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			path, dir, err := parseSort(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseSort(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSort(%q) error = %v", tt.input, err)
			}
			if path != tt.path || dir != tt.dir {
				t.Fatalf("parseSort(%q) = (%q, %v), want (%q, %v)", tt.input, path, dir, tt.path, tt.dir)
			}
		})
	}
}
