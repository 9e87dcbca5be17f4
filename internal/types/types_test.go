package types

import (
	"testing"
	"time"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"text", "number", "date", "datetime", "duration", "boolean", "html", "json", "textarray", "numberarray"} {
		typ, ok := ByName(name)
		if !ok {
			t.Fatalf("ByName(%q) not found", name)
		}
		if typ.Name() != name {
			t.Fatalf("ByName(%q).Name() = %q", name, typ.Name())
		}
	}

	if _, ok := ByName("decimal"); ok {
		t.Fatal("expected decimal to be unknown")
	}
}

func TestArraysAreStaticallyRegistered(t *testing.T) {
	arrays := Arrays()
	if len(arrays) != 2 {
		t.Fatalf("expected 2 array types, got %d", len(arrays))
	}
	if arrays[0].Element() != Text {
		t.Fatalf("textarray element = %v", arrays[0].Element())
	}
	if arrays[1].Element() != Number {
		t.Fatalf("numberarray element = %v", arrays[1].Element())
	}
}

func TestLookups(t *testing.T) {
	if !HasLookup(Text, LookupContains) {
		t.Fatal("text should support contains")
	}
	if HasLookup(Number, LookupContains) {
		t.Fatal("number should not support contains")
	}
	if HasLookup(Boolean, LookupGT) {
		t.Fatal("boolean should not support gt")
	}
	if len(HTML.Lookups()) != 0 {
		t.Fatalf("html should have no lookups, got %v", HTML.Lookups())
	}
	if Boolean.DefaultLookup() != LookupEquals {
		t.Fatalf("boolean default lookup = %q", Boolean.DefaultLookup())
	}
}

func TestTextFormatterChoices(t *testing.T) {
	choices := []Choice{{Value: "a", Label: "Alpha"}, {Value: "b", Label: "Beta"}}
	format := Text.Formatter(choices)

	if got := format("a"); got != "Alpha" {
		t.Fatalf("format(a) = %v, want Alpha", got)
	}
	if got := format("z"); got != "z" {
		t.Fatalf("unknown choice should pass through, got %v", got)
	}
	if got := format(nil); got != nil {
		t.Fatalf("nil should stay nil, got %v", got)
	}
}

func TestNumberFormatter(t *testing.T) {
	format := Number.Formatter(nil)

	if got := format(int64(42)); got != int64(42) {
		t.Fatalf("int64 = %v", got)
	}
	if got := format([]byte("3.5")); got != 3.5 {
		t.Fatalf("decimal bytes = %v", got)
	}
	if got := format(nil); got != nil {
		t.Fatalf("nil = %v", got)
	}
}

func TestDateFormatter(t *testing.T) {
	format := Date.Formatter(nil)

	when := time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC)
	if got := format(when); got != "2025-03-09" {
		t.Fatalf("time.Time = %v", got)
	}
	if got := format("2025-03-09"); got != "2025-03-09" {
		t.Fatalf("string date = %v", got)
	}
	if got := format("2025-03-09 14:30:00"); got != "2025-03-09" {
		t.Fatalf("datetime string should truncate to date, got %v", got)
	}
}

func TestDurationFormatter(t *testing.T) {
	format := Duration.Formatter(nil)

	tests := []struct {
		micros int64
		want   string
	}{
		{90 * 60 * 1000 * 1000, "1h30m00s"},
		{3723 * 1000 * 1000, "1h02m03s"},
		{95 * 1000 * 1000, "1m35s"},
		{42 * 1000 * 1000, "42s"},
		{0, "0s"},
		{-3723 * 1000 * 1000, "-1h02m03s"},
	}
	for _, tt := range tests {
		if got := format(tt.micros); got != tt.want {
			t.Fatalf("format(%d) = %v, want %s", tt.micros, got, tt.want)
		}
	}

	// Averages come back as floats of microseconds.
	if got := format(float64(1500000)); got != "1.5s" {
		t.Fatalf("1.5s micros = %v", got)
	}
	if got := format(nil); got != nil {
		t.Fatalf("nil = %v", got)
	}
}

func TestBooleanFormatter(t *testing.T) {
	format := Boolean.Formatter(nil)

	if got := format(int64(1)); got != true {
		t.Fatalf("1 = %v", got)
	}
	if got := format(int64(0)); got != false {
		t.Fatalf("0 = %v", got)
	}
	if got := format(true); got != true {
		t.Fatalf("true = %v", got)
	}
}

func TestJSONFormatterCompacts(t *testing.T) {
	format := JSON.Formatter(nil)
	if got := format(`{ "a" : 1 }`); got != `{"a":1}` {
		t.Fatalf("compact = %v", got)
	}
}

func TestArrayFormatter(t *testing.T) {
	format := NumberArray.Formatter(nil)
	got := format([]any{int64(1), []byte("2.5")})
	vals, ok := got.([]any)
	if !ok || len(vals) != 2 {
		t.Fatalf("array format = %#v", got)
	}
	if vals[0] != int64(1) || vals[1] != 2.5 {
		t.Fatalf("array elements = %#v", vals)
	}
}

func TestParse(t *testing.T) {
	if v, err := Number.Parse("3.5"); err != nil || v != 3.5 {
		t.Fatalf("number parse = %v err=%v", v, err)
	}
	if _, err := Number.Parse("three"); err == nil {
		t.Fatal("expected number parse error")
	}

	if v, err := Date.Parse("2025-01-15"); err != nil || v != "2025-01-15" {
		t.Fatalf("date parse = %v err=%v", v, err)
	}

	if v, err := DateTime.Parse("2025-01-15"); err != nil || v != "2025-01-15 00:00:00" {
		t.Fatalf("bare date should parse to midnight, got %v err=%v", v, err)
	}

	if v, err := Duration.Parse("1h30m"); err != nil || v != int64(5400000000) {
		t.Fatalf("duration parse = %v err=%v", v, err)
	}

	if v, err := Boolean.Parse("true"); err != nil || v != true {
		t.Fatalf("boolean parse = %v err=%v", v, err)
	}

	if _, err := HTML.Parse("x"); err == nil {
		t.Fatal("html parse should fail")
	}
	if _, err := TextArray.Parse("x"); err == nil {
		t.Fatal("array parse should fail")
	}
}

func TestParseLookupValue(t *testing.T) {
	v, err := ParseLookupValue(Number, LookupIsNull, "true")
	if err != nil || v != true {
		t.Fatalf("is_null parses a boolean, got %v err=%v", v, err)
	}

	v, err = ParseLookupValue(Text, LookupContains, "needle")
	if err != nil || v != "needle" {
		t.Fatalf("contains takes the raw string, got %v err=%v", v, err)
	}

	v, err = ParseLookupValue(Number, LookupGT, "10")
	if err != nil || v != 10.0 {
		t.Fatalf("gt parses with the field type, got %v err=%v", v, err)
	}
}
