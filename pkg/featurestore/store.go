// Package featurestore reads and writes parcel feature datasets.
//
// Datasets are opened by file extension:
//
//   - .shp: ESRI shapefile with its .dbf attribute table (read-only)
//   - .geojsons, .geojsonl, .ndjson: GeoJSON text sequence, one Feature per
//     line, with the ordered field definitions in a .schema.yaml sidecar
//
// Only GeoJSON text sequences can be created. Geometry is carried as an
// orb.Geometry and is never validated or modified.
package featurestore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/schema"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// Format identifies a storage format.
type Format string

// Supported formats.
const (
	FormatShapefile  Format = "shapefile"
	FormatGeoJSONSeq Format = "geojsonseq"
)

// FormatOf returns the format implied by a path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return FormatShapefile, nil
	case ".geojsons", ".geojsonl", ".ndjson":
		return FormatGeoJSONSeq, nil
	default:
		return "", fmt.Errorf("dataset extension %q of %s: %w", filepath.Ext(path), path, errors.ErrUnsupported)
	}
}

// Open opens a dataset read-only.
func Open(path string) (sources.Dataset, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("dataset", path)
		}
		return nil, errors.WrapIO("stat", path, err)
	}
	var ds sources.Dataset
	switch format {
	case FormatShapefile:
		ds, err = OpenShapefile(path)
	default:
		ds, err = OpenGeoJSONSeq(path)
	}
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// Sink receives features in order. Each Append is complete on its own; Flush
// pushes written features to the operating system.
type Sink interface {
	Append(f sources.Feature) error
	Flush() error
	Close() error
}

// Option configures a sink.
type Option func(*options) error

type options struct {
	durable bool
}

// WithDurable fsyncs the output on every Flush.
func WithDurable(durable bool) Option {
	return func(o *options) error {
		o.durable = durable
		return nil
	}
}

// Create removes any existing dataset at path (and its sidecars) and
// creates an empty one with schema s.
func Create(path string, s *schema.Schema, opts ...Option) (Sink, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format != FormatGeoJSONSeq {
		return nil, fmt.Errorf("create %s: %w", format, errors.ErrReadOnly)
	}
	return createGeoJSONSeq(path, s, o)
}

// Remove deletes a dataset and its sidecars. Missing files are ignored.
func Remove(path string) error {
	for _, p := range []string{path, SchemaPath(path), ProjectionPath(path)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return errors.WrapIO("remove", p, err)
		}
	}
	return nil
}

// Sidecar returns the path of a file stored next to a dataset, formed by
// replacing the dataset's extension with ext.
func Sidecar(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
