package schema

import (
	"math"
	"strconv"
	"strings"
)

// NumberKind tags the outcome of ParseNumber.
type NumberKind uint8

// Parse outcomes, in the order they are attempted.
const (
	NotANumber NumberKind = iota
	IntNumber
	FloatNumber
)

// Number is the tagged result of a best-effort numeric parse.
type Number struct {
	Kind  NumberKind
	Int   int64
	Float float64
}

// Value converts the parse result into an attribute value.
func (n Number) Value() Value {
	switch n.Kind {
	case IntNumber:
		return Int(n.Int)
	case FloatNumber:
		return Float(n.Float)
	default:
		return Null()
	}
}

// Positive reports whether the parsed number is greater than zero.
func (n Number) Positive() bool {
	switch n.Kind {
	case IntNumber:
		return n.Int > 0
	case FloatNumber:
		return n.Float > 0
	default:
		return false
	}
}

// ParseNumber tries an integer parse, then a float parse, and otherwise
// reports NotANumber. Surrounding whitespace is ignored. It never fails.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Number{Kind: IntNumber, Int: i}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) {
		return Number{Kind: FloatNumber, Float: f}
	}
	return Number{}
}

// NumberOf applies ParseNumber semantics to an attribute value: numbers
// pass through, text is parsed, everything else is NotANumber.
func NumberOf(v Value) Number {
	switch v.kind {
	case KindInt:
		return Number{Kind: IntNumber, Int: v.i}
	case KindFloat:
		return Number{Kind: FloatNumber, Float: v.f}
	case KindText:
		return ParseNumber(v.s)
	default:
		return Number{}
	}
}
