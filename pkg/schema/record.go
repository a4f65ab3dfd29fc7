package schema

import (
	"math"

	"github.com/agentstation/parcelmerge/pkg/errors"
)

// Record holds one value per field of its schema. New records are all Null.
type Record struct {
	schema *Schema
	values []Value
}

// NewRecord returns an all-Null record for s.
func NewRecord(s *Schema) *Record {
	return &Record{schema: s, values: make([]Value, s.Len())}
}

// Schema returns the governing schema.
func (r *Record) Schema() *Schema { return r.schema }

// Get returns the named value. Unknown names yield Null.
func (r *Record) Get(name string) Value {
	i := r.schema.Index(name)
	if i < 0 {
		return Null()
	}
	return r.values[i]
}

// At returns the value at position i.
func (r *Record) At(i int) Value { return r.values[i] }

// Set stores v into the named field after coercing it to the field type.
// Writing to a field the schema does not declare is an error.
func (r *Record) Set(name string, v Value) error {
	i := r.schema.Index(name)
	if i < 0 {
		return errors.NewNotFoundError("field", name)
	}
	r.SetAt(i, v)
	return nil
}

// SetAt stores v at position i after coercion.
func (r *Record) SetAt(i int, v Value) {
	r.values[i] = Coerce(r.schema.fields[i].Type, v)
}

// Values returns a copy of the values in field order.
func (r *Record) Values() []Value {
	out := make([]Value, len(r.values))
	copy(out, r.values)
	return out
}

// Map returns the record as plain Go values keyed by field name.
func (r *Record) Map() map[string]any {
	out := make(map[string]any, len(r.values))
	for i, f := range r.schema.fields {
		out[f.Name] = r.values[i].Interface()
	}
	return out
}

// Coerce converts v to the representation of type t. Values that cannot be
// represented become Null; Coerce never fails.
func Coerce(t FieldType, v Value) Value {
	if v.IsNull() {
		return v
	}
	switch t {
	case Integer:
		n := NumberOf(v)
		switch n.Kind {
		case IntNumber:
			return Int(n.Int)
		case FloatNumber:
			if math.IsInf(n.Float, 0) || n.Float > math.MaxInt64 || n.Float < math.MinInt64 {
				return Null()
			}
			return Int(int64(n.Float))
		}
		return Null()
	case Real:
		n := NumberOf(v)
		switch n.Kind {
		case IntNumber:
			return Float(float64(n.Int))
		case FloatNumber:
			return Float(n.Float)
		}
		return Null()
	case String:
		if v.kind == KindText {
			return v
		}
		return Text(v.String())
	case Date:
		switch v.kind {
		case KindDate:
			return v
		case KindText, KindInt:
			d, _ := ParseDate(v.String())
			return d
		}
		return Null()
	default:
		return Null()
	}
}
