package schema

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind tags the variant held by a Value.
type Kind uint8

// Value kinds.
const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// DateLayout is the rendering of Date values.
const DateLayout = "2006-01-02"

// Value is one attribute value: null, integer, float, text or civil date.
// The zero Value is Null.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Null returns the null value.
func Null() Value { return Value{} }

// Int returns an integer value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float returns a float value. NaN becomes Null.
func Float(v float64) Value {
	if math.IsNaN(v) {
		return Null()
	}
	return Value{kind: KindFloat, f: v}
}

// Text returns a text value.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// DateOf returns a civil date value, or Null when the date does not exist.
func DateOf(year, month, day int) Value {
	if month < 1 || month > 12 || day < 1 || year < 1 || year > 9999 {
		return Null()
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return Null()
	}
	return Value{kind: KindDate, s: t.Format(DateLayout)}
}

// ParseDate parses "YYYY-MM-DD", "YYYY/MM/DD" or "YYYYMMDD".
func ParseDate(s string) (Value, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, "2006/01/02", "20060102"} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t.Year(), int(t.Month()), t.Day()), true
		}
	}
	return Null(), false
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns the value as an integer. Floats are truncated toward zero.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if math.IsInf(v.f, 0) || v.f > math.MaxInt64 || v.f < math.MinInt64 {
			return 0, false
		}
		return int64(v.f), true
	default:
		return 0, false
	}
}

// Float returns the value as a float for numeric kinds.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Text returns the raw text of text and date values.
func (v Value) Text() (string, bool) {
	if v.kind == KindText || v.kind == KindDate {
		return v.s, true
	}
	return "", false
}

// IsNumeric reports whether v holds an int or a float.
func (v Value) IsNumeric() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// String renders the value for display. Null renders as "<null>".
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindText, KindDate:
		return v.s
	default:
		return "<null>"
	}
}

// Interface returns the plain Go value: nil, int64, float64 or string.
func (v Value) Interface() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindText, KindDate:
		return v.s
	default:
		return nil
	}
}

// MarshalJSON renders the plain value.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// MarshalYAML renders the plain value.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}

// FromAny converts a decoded scalar (JSON, YAML, DBF) into a Value.
// Unsupported types become Null.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case int:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint32:
		return Int(int64(t))
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case json.Number:
		return ParseNumber(t.String()).Value()
	case string:
		return Text(t)
	case bool:
		return Text(strconv.FormatBool(t))
	case time.Time:
		return DateOf(t.Year(), int(t.Month()), t.Day())
	default:
		return Null()
	}
}

// rank orders kinds for Compare: null, numbers, text, dates.
func (v Value) rank() int {
	switch v.kind {
	case KindNull:
		return 0
	case KindInt, KindFloat:
		return 1
	case KindText:
		return 2
	default:
		return 3
	}
}

// Compare orders values: Null first, then numbers by magnitude, then text,
// then dates. An Int sorts before a Float of equal magnitude.
func Compare(a, b Value) int {
	if c := cmp.Compare(a.rank(), b.rank()); c != 0 {
		return c
	}
	switch a.rank() {
	case 0:
		return 0
	case 1:
		af, _ := a.Float()
		bf, _ := b.Float()
		if c := cmp.Compare(af, bf); c != 0 {
			return c
		}
		return cmp.Compare(a.kind, b.kind)
	default:
		return strings.Compare(a.s, b.s)
	}
}

// Equal reports whether two values have the same kind and payload.
func Equal(a, b Value) bool {
	return a.kind == b.kind && Compare(a, b) == 0
}
