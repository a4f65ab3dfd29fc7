package schema

import (
	"slices"

	"github.com/agentstation/parcelmerge/pkg/errors"
)

// Schema is an ordered set of uniquely named fields. Order is significant:
// it defines output column order.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
}

// New builds a schema from field descriptors. Names must be non-empty and
// unique.
func New(name string, fields ...Field) (*Schema, error) {
	s := &Schema{
		name:   name,
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if f.Name == "" {
			return nil, errors.NewValidationError("fields", i, "field name cannot be empty")
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, errors.NewValidationError("fields", f.Name, "duplicate field name "+f.Name)
		}
		if _, ok := fieldTypeNames[f.Type]; !ok {
			return nil, errors.NewValidationError(f.Name, f.Type, "unknown field type")
		}
		s.fields[i] = f
		s.index[f.Name] = i
	}
	return s, nil
}

// MustNew is like New but panics on invalid input. Intended for fixed
// schemas declared in code and tests.
func MustNew(name string, fields ...Field) *Schema {
	s, err := New(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Rename returns a copy of the schema under a different layer name.
func (s *Schema) Rename(name string) *Schema {
	out, _ := New(name, s.fields...)
	return out
}

// Name returns the layer name.
func (s *Schema) Name() string { return s.name }

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Field returns the descriptor at position i.
func (s *Schema) Field(i int) Field { return s.fields[i] }

// Fields returns a copy of the descriptors in declaration order.
func (s *Schema) Fields() []Field { return slices.Clone(s.fields) }

// Names returns field names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Index returns the position of the named field, or -1.
func (s *Schema) Index(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Lookup returns the named descriptor.
func (s *Schema) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Has reports whether the schema declares the named field.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Equal reports whether both schemas declare the same fields in the same
// order. Layer names are ignored.
func (s *Schema) Equal(other *Schema) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	return slices.Equal(s.fields, other.fields)
}
