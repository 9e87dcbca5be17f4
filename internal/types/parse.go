package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aidanlsb/magpie/internal/dates"
)

func (textType) Parse(s string) (any, error) {
	return s, nil
}

func (numberType) Parse(s string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number: %q", s)
	}
	return f, nil
}

func (dateType) Parse(s string) (any, error) {
	t, err := dates.ParseFilterDate(s, time.Now())
	if err != nil {
		return nil, err
	}
	return dates.FormatDate(t), nil
}

func (datetimeType) Parse(s string) (any, error) {
	s = strings.TrimSpace(s)
	if t, err := dates.ParseDatetime(s); err == nil {
		return dates.FormatDatetime(t), nil
	}
	// A bare date means midnight that day.
	t, err := dates.ParseFilterDate(s, time.Now())
	if err != nil {
		return nil, fmt.Errorf("invalid datetime: %q", s)
	}
	return dates.FormatDatetime(t), nil
}

// Durations parse in Go syntax ("1h30m", "45s") and bind as integer
// microseconds, matching how duration columns are stored.
func (durationType) Parse(s string) (any, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q, use forms like 1h30m or 45s", s)
	}
	return d.Microseconds(), nil
}

func (booleanType) Parse(s string) (any, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid boolean: %q", s)
	}
	return b, nil
}

func (htmlType) Parse(s string) (any, error) {
	return nil, fmt.Errorf("html values cannot be used in filters")
}

func (jsonType) Parse(s string) (any, error) {
	if !json.Valid([]byte(s)) {
		return nil, fmt.Errorf("invalid json: %q", s)
	}
	return s, nil
}

func (textArrayType) Parse(s string) (any, error) {
	return nil, fmt.Errorf("array values cannot be used in filters")
}

func (numberArrayType) Parse(s string) (any, error) {
	return nil, fmt.Errorf("array values cannot be used in filters")
}

// ParseLookupValue parses raw filter input for a specific lookup. Pattern
// lookups take the raw string regardless of the field type, and is_null
// takes a boolean.
func ParseLookupValue(t Type, lookup, raw string) (any, error) {
	switch lookup {
	case LookupIsNull:
		return Boolean.Parse(raw)
	case LookupContains, LookupStartsWith, LookupEndsWith, LookupRegex:
		return raw, nil
	default:
		return t.Parse(raw)
	}
}
