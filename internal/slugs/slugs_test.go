package slugs

import "testing"

func TestComponentSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"totals", "totals"},
		{"Monthly Revenue", "monthly-revenue"},
		{"TOP CUSTOMERS", "top-customers"},
		{"overdue-orders.md", "overdue-orders"},
		{"Q3: Revenue (net)", "q3-revenue-net"},
		{"Café Sales", "cafe-sales"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ComponentSlug(tt.in); got != tt.want {
				t.Fatalf("ComponentSlug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
