package featurestore

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/paulmach/orb/geojson"

	"github.com/agentstation/parcelmerge/pkg/constants"
	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/schema"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// GeoJSONSeq is a GeoJSON text sequence opened for random access. An index of
// line offsets is built on open; features are decoded on demand.
type GeoJSONSeq struct {
	path    string
	file    *os.File
	schema  *schema.Schema
	offsets []int64
	lengths []int
}

// OpenGeoJSONSeq opens a GeoJSON text sequence and its schema sidecar.
// A final line without a terminating newline is an interrupted write and is
// not part of the dataset.
func OpenGeoJSONSeq(path string) (*GeoJSONSeq, error) {
	s, err := ReadSchema(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	ds := &GeoJSONSeq{path: path, file: f, schema: s}
	if err := ds.index(); err != nil {
		f.Close()
		return nil, err
	}
	return ds, nil
}

func (d *GeoJSONSeq) index() error {
	r := bufio.NewReaderSize(d.file, constants.WriteBufferSize)
	var offset int64
	for {
		line, err := r.ReadSlice('\n')
		n := len(line)
		if err == bufio.ErrBufferFull {
			// Long line: keep reading until the newline.
			for err == bufio.ErrBufferFull {
				var more []byte
				more, err = r.ReadSlice('\n')
				n += len(more)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.WrapIO("read", d.path, err)
		}
		if n > 1 {
			d.offsets = append(d.offsets, offset)
			d.lengths = append(d.lengths, n-1)
		}
		offset += int64(n)
	}
}

// Name returns the file path.
func (d *GeoJSONSeq) Name() string { return d.path }

// Schema returns the schema read from the sidecar.
func (d *GeoJSONSeq) Schema() *schema.Schema { return d.schema }

// Count returns the number of complete features.
func (d *GeoJSONSeq) Count() int { return len(d.offsets) }

// Feature decodes the feature at position i.
func (d *GeoJSONSeq) Feature(i int) (sources.Feature, error) {
	if d.file == nil {
		return sources.Feature{}, errors.ErrClosed
	}
	if i < 0 || i >= len(d.offsets) {
		return sources.Feature{}, errors.NewValidationError("index", i, "out of range")
	}
	buf := make([]byte, d.lengths[i])
	if _, err := d.file.ReadAt(buf, d.offsets[i]); err != nil {
		return sources.Feature{}, errors.WrapIO("read", d.path, err)
	}
	gf, err := geojson.UnmarshalFeature(buf)
	if err != nil {
		return sources.Feature{}, &errors.ParseError{Format: "geojson", File: d.path, Line: i + 1, Message: err.Error(), Err: err}
	}
	props, err := properties(buf)
	if err != nil {
		return sources.Feature{}, &errors.ParseError{Format: "geojson", File: d.path, Line: i + 1, Message: err.Error(), Err: err}
	}
	rec := schema.NewRecord(d.schema)
	for name, v := range props {
		if j := d.schema.Index(name); j >= 0 {
			rec.SetAt(j, schema.FromAny(v))
		}
	}
	return sources.Feature{Record: rec, Geometry: gf.Geometry}, nil
}

// properties decodes the feature properties with numbers kept as
// json.Number. geojson decodes them as float64, which rounds integers
// above 2^53.
func properties(data []byte) (map[string]any, error) {
	var f struct {
		Properties map[string]any `json:"properties"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	return f.Properties, nil
}

// Close releases the file handle.
func (d *GeoJSONSeq) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

// seqSink appends features as GeoJSON lines.
type seqSink struct {
	path    string
	file    *os.File
	w       *bufio.Writer
	schema  *schema.Schema
	durable bool
}

func createGeoJSONSeq(path string, s *schema.Schema, o *options) (*seqSink, error) {
	if err := Remove(path); err != nil {
		return nil, err
	}
	if err := WriteSchema(path, s); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return nil, errors.WrapIO("create", path, err)
	}
	return &seqSink{
		path:    path,
		file:    f,
		w:       bufio.NewWriterSize(f, constants.WriteBufferSize),
		schema:  s,
		durable: o.durable,
	}, nil
}

// Append writes one feature as a single line. The record must belong to the
// sink's schema.
func (s *seqSink) Append(f sources.Feature) error {
	if s.file == nil {
		return errors.ErrClosed
	}
	if f.Record == nil || !f.Record.Schema().Equal(s.schema) {
		return errors.NewValidationError("record", nil, "record does not match output schema")
	}
	gf := geojson.NewFeature(f.Geometry)
	gf.Properties = f.Record.Map()
	data, err := gf.MarshalJSON()
	if err != nil {
		return errors.WrapParse("geojson", s.path, err)
	}
	// A line is written whole or not at all from the reader's point of view:
	// the trailing newline marks it complete.
	if _, err := s.w.Write(data); err != nil {
		return errors.WrapIO("write", s.path, err)
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return errors.WrapIO("write", s.path, err)
	}
	return nil
}

// Flush writes buffered lines and, when durable, syncs the file.
func (s *seqSink) Flush() error {
	if s.file == nil {
		return errors.ErrClosed
	}
	if err := s.w.Flush(); err != nil {
		return errors.WrapIO("flush", s.path, err)
	}
	if s.durable {
		if err := s.file.Sync(); err != nil {
			return errors.WrapIO("sync", s.path, err)
		}
	}
	return nil
}

// Close flushes and closes the output.
func (s *seqSink) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.Flush()
	if cerr := s.file.Close(); err == nil && cerr != nil {
		err = errors.WrapIO("close", s.path, cerr)
	}
	s.file = nil
	return err
}
