// Package schema models parcel attribute tables: field descriptors, ordered
// schemas, tagged attribute values and records bound to a schema.
//
// A Schema is built once and never mutated. Records always conform to the
// schema they were created from; values written into a record are coerced
// to the field's declared type, and anything that cannot be coerced becomes
// Null instead of failing.
package schema

import (
	"fmt"
	"strings"
)

// FieldType is the storage type of an attribute column.
type FieldType uint8

// Field types supported by parcel datasets.
const (
	Integer FieldType = iota + 1
	Real
	String
	Date
)

var fieldTypeNames = map[FieldType]string{
	Integer: "Integer",
	Real:    "Real",
	String:  "String",
	Date:    "Date",
}

// String returns the type name as printed in field dumps.
func (t FieldType) String() string {
	if name, ok := fieldTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("FieldType(%d)", uint8(t))
}

// IsNumeric reports whether values of this type are numbers.
func (t FieldType) IsNumeric() bool {
	return t == Integer || t == Real
}

// ParseFieldType parses a type name case-insensitively.
func ParseFieldType(s string) (FieldType, error) {
	for t, name := range fieldTypeNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown field type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t FieldType) MarshalText() ([]byte, error) {
	if _, ok := fieldTypeNames[t]; !ok {
		return nil, fmt.Errorf("unknown field type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *FieldType) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML renders the type by name.
func (t FieldType) MarshalYAML() (any, error) {
	return t.String(), nil
}

// UnmarshalYAML parses the type by name.
func (t *FieldType) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return t.UnmarshalText([]byte(s))
}

// Field describes one attribute column.
type Field struct {
	Name      string    `json:"name" yaml:"name"`
	Type      FieldType `json:"type" yaml:"type"`
	Width     int       `json:"width" yaml:"width"`
	Precision int       `json:"precision" yaml:"precision"`
}

// String renders the descriptor as "NAME (Type | width | precision)".
func (f Field) String() string {
	return fmt.Sprintf("%s (%s | %d | %d)", f.Name, f.Type, f.Width, f.Precision)
}
