// Package types defines the semantic value types magpie understands.
//
// A Type tags a field with a value kind (text, number, date, ...) and
// supplies the behavior that depends on that kind: how values format for
// display, how user-supplied filter input parses, and which filter lookups
// apply. The set of types is closed; the orm package builds its aggregate
// tables by iterating it rather than discovering types at runtime.
package types

// Choice pairs a stored value with its display label.
type Choice struct {
	Value string
	Label string
}

// Formatter renders one stored value for display. A nil result means the
// value is absent (rendered blank, no link, etc.).
type Formatter func(value any) any

// Type is one semantic value kind.
type Type interface {
	// Name is the stable lowercase identifier used in schema files,
	// saved reports, and the JSON envelope.
	Name() string

	// Lookups lists the filter operators valid for this type, in display
	// order. Empty means values of this type cannot be filtered on.
	Lookups() []string

	// DefaultLookup is the operator assumed when a filter omits one.
	// Empty when the type has no lookups.
	DefaultLookup() string

	// Formatter returns the display formatter, honoring choice labels
	// when the field declares choices.
	Formatter(choices []Choice) Formatter

	// Parse converts user filter input into a driver-bindable value.
	Parse(s string) (any, error)

	// sealedType marks the set of types as closed.
	sealedType()
}

// ArrayType is a Type whose values are ordered collections of an element type.
type ArrayType interface {
	Type
	Element() Type
}

// The semantic types. Compare with ==; each is a singleton.
var (
	Text     Type = textType{}
	Number   Type = numberType{}
	Date     Type = dateType{}
	DateTime Type = datetimeType{}
	Duration Type = durationType{}
	Boolean  Type = booleanType{}
	HTML     Type = htmlType{}
	JSON     Type = jsonType{}

	TextArray   Type = textArrayType{}
	NumberArray Type = numberArrayType{}
)

// all lists every type in stable order. Iteration order here fixes the
// order aggregate tables and docs are built in.
var all = []Type{
	Text, Number, Date, DateTime, Duration, Boolean, HTML, JSON,
	TextArray, NumberArray,
}

// arrayTypes is the static registration list of array-capable types.
var arrayTypes = []ArrayType{
	textArrayType{},
	numberArrayType{},
}

// All returns every semantic type in stable order.
func All() []Type {
	out := make([]Type, len(all))
	copy(out, all)
	return out
}

// Arrays returns the array-capable types in stable order.
func Arrays() []ArrayType {
	out := make([]ArrayType, len(arrayTypes))
	copy(out, arrayTypes)
	return out
}

// ByName resolves a type from its schema-file name.
func ByName(name string) (Type, bool) {
	for _, t := range all {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// Names returns every type name in stable order, for error suggestions.
func Names() []string {
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = t.Name()
	}
	return names
}

// Lookup operator identifiers shared across types.
const (
	LookupEquals     = "equals"
	LookupNotEquals  = "not_equals"
	LookupContains   = "contains"
	LookupStartsWith = "starts_with"
	LookupEndsWith   = "ends_with"
	LookupRegex      = "regex"
	LookupLT         = "lt"
	LookupLTE        = "lte"
	LookupGT         = "gt"
	LookupGTE        = "gte"
	LookupIsNull     = "is_null"
)

type textType struct{}

func (textType) Name() string { return "text" }
func (textType) Lookups() []string {
	return []string{
		LookupEquals, LookupNotEquals, LookupContains, LookupStartsWith,
		LookupEndsWith, LookupRegex, LookupLT, LookupLTE, LookupGT,
		LookupGTE, LookupIsNull,
	}
}
func (textType) DefaultLookup() string { return LookupEquals }
func (textType) sealedType()           {}

type numberType struct{}

func (numberType) Name() string { return "number" }
func (numberType) Lookups() []string {
	return []string{
		LookupEquals, LookupNotEquals, LookupLT, LookupLTE, LookupGT,
		LookupGTE, LookupIsNull,
	}
}
func (numberType) DefaultLookup() string { return LookupEquals }
func (numberType) sealedType()           {}

type dateType struct{}

func (dateType) Name() string { return "date" }
func (dateType) Lookups() []string {
	return []string{
		LookupEquals, LookupNotEquals, LookupLT, LookupLTE, LookupGT,
		LookupGTE, LookupIsNull,
	}
}
func (dateType) DefaultLookup() string { return LookupEquals }
func (dateType) sealedType()           {}

type datetimeType struct{}

func (datetimeType) Name() string { return "datetime" }
func (datetimeType) Lookups() []string {
	return []string{
		LookupEquals, LookupNotEquals, LookupLT, LookupLTE, LookupGT,
		LookupGTE, LookupIsNull,
	}
}
func (datetimeType) DefaultLookup() string { return LookupEquals }
func (datetimeType) sealedType()           {}

type durationType struct{}

func (durationType) Name() string { return "duration" }
func (durationType) Lookups() []string {
	return []string{
		LookupEquals, LookupNotEquals, LookupLT, LookupLTE, LookupGT,
		LookupGTE, LookupIsNull,
	}
}
func (durationType) DefaultLookup() string { return LookupEquals }
func (durationType) sealedType()           {}

type booleanType struct{}

func (booleanType) Name() string { return "boolean" }
func (booleanType) Lookups() []string {
	return []string{LookupEquals, LookupNotEquals, LookupIsNull}
}
func (booleanType) DefaultLookup() string { return LookupEquals }
func (booleanType) sealedType()           {}

type htmlType struct{}

func (htmlType) Name() string { return "html" }

// HTML values are display-only; there is nothing sensible to filter on.
func (htmlType) Lookups() []string     { return nil }
func (htmlType) DefaultLookup() string { return "" }
func (htmlType) sealedType()           {}

type jsonType struct{}

func (jsonType) Name() string { return "json" }
func (jsonType) Lookups() []string {
	return []string{LookupEquals, LookupNotEquals, LookupIsNull}
}
func (jsonType) DefaultLookup() string { return LookupEquals }
func (jsonType) sealedType()           {}

type textArrayType struct{}

func (textArrayType) Name() string          { return "textarray" }
func (textArrayType) Lookups() []string     { return nil }
func (textArrayType) DefaultLookup() string { return "" }
func (textArrayType) Element() Type         { return Text }
func (textArrayType) sealedType()           {}

type numberArrayType struct{}

func (numberArrayType) Name() string          { return "numberarray" }
func (numberArrayType) Lookups() []string     { return nil }
func (numberArrayType) DefaultLookup() string { return "" }
func (numberArrayType) Element() Type         { return Number }
func (numberArrayType) sealedType()           {}

// HasLookup reports whether the type supports the given filter operator.
func HasLookup(t Type, lookup string) bool {
	for _, l := range t.Lookups() {
		if l == lookup {
			return true
		}
	}
	return false
}
