package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aidanlsb/magpie/internal/dates"
)

// applyChoices maps a stored value to its declared label. Values without a
// matching choice pass through unchanged.
func applyChoices(choices []Choice, v any) any {
	if len(choices) == 0 {
		return v
	}
	s := stringify(v)
	for _, c := range choices {
		if c.Value == s {
			return c.Label
		}
	}
	return v
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

func (textType) Formatter(choices []Choice) Formatter {
	return func(v any) any {
		if v == nil {
			return nil
		}
		return applyChoices(choices, stringify(v))
	}
}

func (numberType) Formatter(choices []Choice) Formatter {
	return func(v any) any {
		switch x := v.(type) {
		case nil:
			return nil
		case int64, float64, int, int32, uint64:
			return applyChoices(choices, x)
		case []byte:
			// MySQL hands decimals back as byte strings.
			if f, err := strconv.ParseFloat(string(x), 64); err == nil {
				return applyChoices(choices, f)
			}
			return applyChoices(choices, string(x))
		case string:
			if f, err := strconv.ParseFloat(x, 64); err == nil {
				return applyChoices(choices, f)
			}
			return applyChoices(choices, x)
		default:
			return applyChoices(choices, v)
		}
	}
}

func (dateType) Formatter(choices []Choice) Formatter {
	return func(v any) any {
		switch x := v.(type) {
		case nil:
			return nil
		case time.Time:
			return applyChoices(choices, dates.FormatDate(x))
		default:
			s := stringify(v)
			if t, err := dates.ParseDatetime(s); err == nil {
				return applyChoices(choices, dates.FormatDate(t))
			}
			if t, err := dates.ParseDate(s); err == nil {
				return applyChoices(choices, dates.FormatDate(t))
			}
			return applyChoices(choices, s)
		}
	}
}

func (datetimeType) Formatter(choices []Choice) Formatter {
	return func(v any) any {
		switch x := v.(type) {
		case nil:
			return nil
		case time.Time:
			return applyChoices(choices, dates.FormatDatetime(x))
		default:
			s := stringify(v)
			if t, err := dates.ParseDatetime(s); err == nil {
				return applyChoices(choices, dates.FormatDatetime(t))
			}
			return applyChoices(choices, s)
		}
	}
}

// Durations are stored as integer microseconds; averages come back as floats.
func (durationType) Formatter(choices []Choice) Formatter {
	return func(v any) any {
		micros, ok := asMicros(v)
		if !ok {
			if v == nil {
				return nil
			}
			return applyChoices(choices, v)
		}
		return applyChoices(choices, formatDuration(micros))
	}
}

// formatDuration renders microseconds in fixed h/m/s units ("1h30m00s",
// "45s"). Minutes and seconds under a larger unit are zero-padded so
// columns of durations line up.
func formatDuration(micros int64) string {
	sign := ""
	if micros < 0 {
		sign = "-"
		micros = -micros
	}
	secs := micros / 1_000_000
	frac := micros % 1_000_000
	h := secs / 3600
	m := secs % 3600 / 60
	s := secs % 60

	sec := strconv.FormatInt(s, 10)
	if frac > 0 {
		sec += "." + strings.TrimRight(fmt.Sprintf("%06d", frac), "0")
	}
	switch {
	case h > 0:
		if s < 10 {
			sec = "0" + sec
		}
		return fmt.Sprintf("%s%dh%02dm%ss", sign, h, m, sec)
	case m > 0:
		if s < 10 {
			sec = "0" + sec
		}
		return fmt.Sprintf("%s%dm%ss", sign, m, sec)
	default:
		return sign + sec + "s"
	}
}

func asMicros(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(math.Round(x)), true
	case []byte:
		if f, err := strconv.ParseFloat(string(x), 64); err == nil {
			return int64(math.Round(f)), true
		}
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return int64(math.Round(f)), true
		}
	}
	return 0, false
}

func (booleanType) Formatter(choices []Choice) Formatter {
	return func(v any) any {
		switch x := v.(type) {
		case nil:
			return nil
		case bool:
			return applyChoices(choices, x)
		case int64:
			return applyChoices(choices, x != 0)
		case float64:
			return applyChoices(choices, x != 0)
		case []byte:
			return applyChoices(choices, string(x) == "1" || string(x) == "true")
		case string:
			return applyChoices(choices, x == "1" || x == "true")
		default:
			return applyChoices(choices, v)
		}
	}
}

func (htmlType) Formatter(choices []Choice) Formatter {
	return func(v any) any {
		if v == nil {
			return nil
		}
		return applyChoices(choices, stringify(v))
	}
}

func (jsonType) Formatter(choices []Choice) Formatter {
	return func(v any) any {
		switch x := v.(type) {
		case nil:
			return nil
		case string:
			return applyChoices(choices, compactJSON([]byte(x)))
		case []byte:
			return applyChoices(choices, compactJSON(x))
		default:
			if b, err := json.Marshal(v); err == nil {
				return applyChoices(choices, string(b))
			}
			return applyChoices(choices, stringify(v))
		}
	}
}

func compactJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func (t textArrayType) Formatter(choices []Choice) Formatter {
	return arrayFormatter(t.Element(), choices)
}

func (t numberArrayType) Formatter(choices []Choice) Formatter {
	return arrayFormatter(t.Element(), choices)
}

// arrayFormatter formats each element with the element type's formatter.
// Drivers that hand arrays back in text form pass through untouched.
func arrayFormatter(elem Type, choices []Choice) Formatter {
	inner := elem.Formatter(choices)
	return func(v any) any {
		switch x := v.(type) {
		case nil:
			return nil
		case []any:
			out := make([]any, len(x))
			for i, e := range x {
				out[i] = inner(e)
			}
			return out
		default:
			return v
		}
	}
}
