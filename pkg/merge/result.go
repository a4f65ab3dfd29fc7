package merge

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/parcelmerge/pkg/constants"
	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/featurestore"
	"github.com/agentstation/parcelmerge/pkg/schema"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// SourceCount is the number of features one source contributed.
type SourceCount struct {
	Source sources.ID `json:"source" yaml:"source"`
	Path   string     `json:"path" yaml:"path"`
	Count  int        `json:"count" yaml:"count"`
}

// Result represents the outcome of a merge run.
type Result struct {
	RunID     string
	Output    string
	Reference sources.ID
	Schema    *schema.Schema
	Counts    []SourceCount
	Total     int
	Start     time.Time
	End       time.Time
}

// Duration returns how long the run took.
func (r *Result) Duration() time.Duration {
	if r.End.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}

// Count returns the number of features contributed by id.
func (r *Result) Count(id sources.ID) int {
	for _, c := range r.Counts {
		if c.Source == id {
			return c.Count
		}
	}
	return 0
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	parts := make([]string, len(r.Counts))
	for i, c := range r.Counts {
		parts[i] = fmt.Sprintf("%s=%d", c.Source, c.Count)
	}
	return fmt.Sprintf("Combined %d features (%s) into %s", r.Total, strings.Join(parts, ", "), r.Output)
}

// Manifest returns the persisted form of the result.
func (r *Result) Manifest() *Manifest {
	m := &Manifest{
		RunID:     r.RunID,
		Output:    r.Output,
		Reference: r.Reference,
		Started:   r.Start.UTC(),
		Finished:  r.End.UTC(),
		Total:     r.Total,
		Sources:   r.Counts,
	}
	if r.Schema != nil {
		m.Layer = r.Schema.Name()
		m.Fields = r.Schema.Len()
	}
	return m
}

// Manifest records which run produced a combined dataset. It is written
// only after the output is complete, so its presence marks a finished run.
type Manifest struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	Output    string        `json:"output" yaml:"output"`
	Layer     string        `json:"layer" yaml:"layer"`
	Fields    int           `json:"fields" yaml:"fields"`
	Reference sources.ID    `json:"reference" yaml:"reference"`
	Started   time.Time     `json:"started" yaml:"started"`
	Finished  time.Time     `json:"finished" yaml:"finished"`
	Total     int           `json:"total" yaml:"total"`
	Sources   []SourceCount `json:"sources" yaml:"sources"`
}

// ManifestPath returns the manifest location of an output dataset.
func ManifestPath(output string) string {
	return featurestore.Sidecar(output, constants.ManifestExt)
}

// WriteManifest writes m to path as YAML.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.MarshalWithOptions(m, yaml.Indent(2))
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("manifest", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &m, nil
}
