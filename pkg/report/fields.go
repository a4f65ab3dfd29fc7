// Package report provides the read-only inspection queries over source and
// combined parcel datasets: field definitions, raw value samples, value
// histograms and value distributions with cartographic class breaks.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/schema"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// FieldDefinition is one row of a field-definition dump.
type FieldDefinition struct {
	Name      string `json:"name" yaml:"name"`
	Type      string `json:"type" yaml:"type"`
	Width     int    `json:"width" yaml:"width"`
	Precision int    `json:"precision" yaml:"precision"`
}

// String renders the definition as NAME (Type | width | precision).
func (d FieldDefinition) String() string {
	return fmt.Sprintf("%s (%s | %d | %d)", d.Name, d.Type, d.Width, d.Precision)
}

// FieldDefinitions lists the fields of s in declaration order.
func FieldDefinitions(s *schema.Schema) []FieldDefinition {
	fields := s.Fields()
	out := make([]FieldDefinition, len(fields))
	for i, f := range fields {
		out[i] = FieldDefinition{Name: f.Name, Type: f.Type.String(), Width: f.Width, Precision: f.Precision}
	}
	return out
}

// Sample returns the value of field for the first limit features in storage
// order.
func Sample(ds sources.Dataset, field string, limit int) ([]schema.Value, error) {
	if limit <= 0 {
		return nil, errors.NewValidationError("limit", limit, "must be positive")
	}
	idx := ds.Schema().Index(field)
	if idx < 0 {
		return nil, errors.NewNotFoundError("field", field)
	}
	n := min(limit, ds.Count())
	out := make([]schema.Value, 0, n)
	for i := 0; i < n; i++ {
		f, err := ds.Feature(i)
		if err != nil {
			return out, err
		}
		out = append(out, f.Record.At(idx))
	}
	return out, nil
}

// SampleSpec names a source field and how many values to sample from it.
type SampleSpec struct {
	Source sources.ID
	Field  string
	Limit  int
}

// ParseSampleSpec parses "source#field#limit", e.g. "ramsey#SiteCityPS#100".
func ParseSampleSpec(s string) (SampleSpec, error) {
	parts := strings.Split(s, "#")
	if len(parts) != 3 {
		return SampleSpec{}, errors.NewValidationError("sample", s, "expected source#field#limit")
	}
	id, err := sources.ParseID(parts[0])
	if err != nil {
		return SampleSpec{}, errors.WrapValidation("sample", err)
	}
	field := strings.TrimSpace(parts[1])
	if field == "" {
		return SampleSpec{}, errors.NewValidationError("sample", s, "field is empty")
	}
	limit, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || limit <= 0 {
		return SampleSpec{}, errors.NewValidationError("sample", s, "limit must be a positive integer")
	}
	return SampleSpec{Source: id, Field: field, Limit: limit}, nil
}
