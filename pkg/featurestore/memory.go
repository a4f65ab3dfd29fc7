package featurestore

import (
	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/schema"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// Memory is an in-memory dataset. It doubles as a Sink so a merge can be
// collected without touching disk.
type Memory struct {
	name     string
	schema   *schema.Schema
	features []sources.Feature
	flushed  int
}

// NewMemory returns a dataset holding features.
func NewMemory(name string, s *schema.Schema, features ...sources.Feature) *Memory {
	return &Memory{name: name, schema: s, features: features, flushed: len(features)}
}

// Name returns the dataset name.
func (m *Memory) Name() string { return m.name }

// Schema returns the dataset schema.
func (m *Memory) Schema() *schema.Schema { return m.schema }

// Count returns the number of features.
func (m *Memory) Count() int { return len(m.features) }

// Feature returns the feature at position i.
func (m *Memory) Feature(i int) (sources.Feature, error) {
	if i < 0 || i >= len(m.features) {
		return sources.Feature{}, errors.NewValidationError("index", i, "out of range")
	}
	return m.features[i], nil
}

// Features returns the stored features in order.
func (m *Memory) Features() []sources.Feature {
	out := make([]sources.Feature, len(m.features))
	copy(out, m.features)
	return out
}

// Flushed returns how many features had been flushed at the last Flush.
func (m *Memory) Flushed() int { return m.flushed }

// Append stores a feature.
func (m *Memory) Append(f sources.Feature) error {
	if f.Record == nil || !f.Record.Schema().Equal(m.schema) {
		return errors.NewValidationError("record", nil, "record does not match dataset schema")
	}
	m.features = append(m.features, f)
	return nil
}

// Flush marks every stored feature as flushed.
func (m *Memory) Flush() error {
	m.flushed = len(m.features)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
