package translate

import (
	"strconv"
	"strings"

	"github.com/agentstation/parcelmerge/pkg/schema"
)

// Area conversion factors used by the county tables.
const (
	SquareMetersToAcres = 0.000247105
	SquareFeetToAcres   = 0.0000229568
)

// HomesteadCodes re-encodes free-text homestead status into the canonical
// single-letter flag.
var HomesteadCodes = map[string]string{
	"HOMESTEAD":     "Y",
	"NON-HOMESTEAD": "N",
}

// Rule produces the value of one canonical field from a foreign record.
// Apply must never panic; anything it cannot interpret becomes Null.
type Rule struct {
	Target string
	Apply  func(src *schema.Record) schema.Value
}

// Copy copies a source field verbatim.
func Copy(target, field string) Rule {
	return Rule{Target: target, Apply: func(src *schema.Record) schema.Value {
		return src.Get(field)
	}}
}

// Scale multiplies a numeric source field by factor. Null and non-numeric
// values stay Null; they never become zero.
func Scale(target, field string, factor float64) Rule {
	return Rule{Target: target, Apply: func(src *schema.Record) schema.Value {
		n := schema.NumberOf(src.Get(field))
		switch n.Kind {
		case schema.IntNumber:
			return schema.Float(float64(n.Int) * factor)
		case schema.FloatNumber:
			return schema.Float(n.Float * factor)
		default:
			return schema.Null()
		}
	}}
}

// Join builds a building number from a numeric house number and an optional
// fractional suffix ("123" and "1/2" give "123 1/2"). The house number is
// rendered as an integer to drop any decimal formatting. Absent parts are
// skipped and two absent parts give the empty string.
func Join(target, number, suffix string) Rule {
	return Rule{Target: target, Apply: func(src *schema.Record) schema.Value {
		parts := make([]string, 0, 2)
		if s := houseNumber(src.Get(number)); s != "" {
			parts = append(parts, s)
		}
		if s := text(src.Get(suffix)); s != "" {
			parts = append(parts, s)
		}
		return schema.Text(strings.Join(parts, " "))
	}}
}

func houseNumber(v schema.Value) string {
	if v.IsNull() {
		return ""
	}
	n := schema.NumberOf(v)
	switch n.Kind {
	case schema.IntNumber:
		return strconv.FormatInt(n.Int, 10)
	case schema.FloatNumber:
		if i, ok := schema.Float(n.Float).Int(); ok {
			return strconv.FormatInt(i, 10)
		}
	}
	// Non-numeric house numbers ("12A") are kept as written.
	return text(v)
}

func text(v schema.Value) string {
	if v.IsNull() {
		return ""
	}
	return strings.TrimSpace(v.String())
}

// Recode maps a categorical source value through table. Values not in the
// table, including Null, become Null.
func Recode(target, field string, table map[string]string) Rule {
	return Rule{Target: target, Apply: func(src *schema.Record) schema.Value {
		v := src.Get(field)
		if v.IsNull() {
			return schema.Null()
		}
		if out, ok := table[v.String()]; ok {
			return schema.Text(out)
		}
		return schema.Null()
	}}
}

// YearMonth rebuilds a date from a YYYYMMDD (or YYYYMM) digit string. Only
// year and month are trusted so the day is always the first. Null,
// non-numeric, non-positive and out-of-range values become Null.
func YearMonth(target, field string) Rule {
	return Rule{Target: target, Apply: func(src *schema.Record) schema.Value {
		return yearMonth(src.Get(field))
	}}
}

func yearMonth(v schema.Value) schema.Value {
	if v.Kind() == schema.KindDate {
		return firstOfMonth(v)
	}
	if !schema.NumberOf(v).Positive() {
		return schema.Null()
	}
	s := text(v)
	if len(s) != 8 && len(s) != 6 {
		return schema.Null()
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return schema.Null()
		}
	}
	year, _ := strconv.Atoi(s[0:4])
	month, _ := strconv.Atoi(s[4:6])
	return schema.DateOf(year, month, 1)
}

func firstOfMonth(d schema.Value) schema.Value {
	s, ok := d.Text()
	if !ok || len(s) < 7 {
		return schema.Null()
	}
	year, _ := strconv.Atoi(s[0:4])
	month, _ := strconv.Atoi(s[5:7])
	return schema.DateOf(year, month, 1)
}

// Float coerces a source field to a float.
func Float(target, field string) Rule {
	return Rule{Target: target, Apply: func(src *schema.Record) schema.Value {
		return schema.Coerce(schema.Real, src.Get(field))
	}}
}

// Int coerces a source field to an integer, truncating fractions.
func Int(target, field string) Rule {
	return Rule{Target: target, Apply: func(src *schema.Record) schema.Value {
		return schema.Coerce(schema.Integer, src.Get(field))
	}}
}
