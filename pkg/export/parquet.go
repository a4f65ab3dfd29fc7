// Package export writes parcel datasets to columnar formats for analysis
// tools. Geometry is stored as WKB in a "geometry" column with GeoParquet
// file metadata.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/paulmach/orb/encoding/wkb"

	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/schema"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// GeometryColumn is the name of the WKB geometry column.
const GeometryColumn = "geometry"

// DefaultBatchSize is the number of rows per written record batch.
const DefaultBatchSize = 8192

var codecs = map[string]compress.Compression{
	"snappy": compress.Codecs.Snappy,
	"zstd":   compress.Codecs.Zstd,
	"gzip":   compress.Codecs.Gzip,
	"none":   compress.Codecs.Uncompressed,
}

type options struct {
	batchSize   int
	compression compress.Compression
	alloc       memory.Allocator
}

// Option configures a Parquet export.
type Option func(*options) error

// WithBatchSize sets the rows per record batch.
func WithBatchSize(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return errors.NewValidationError("batch_size", n, "must be positive")
		}
		o.batchSize = n
		return nil
	}
}

// WithCompression selects snappy, zstd, gzip or none.
func WithCompression(name string) Option {
	return func(o *options) error {
		c, ok := codecs[name]
		if !ok {
			return errors.NewValidationError("compression", name, "expected snappy, zstd, gzip or none")
		}
		o.compression = c
		return nil
	}
}

// ArrowSchema maps a dataset schema to Arrow, with the geometry column last.
func ArrowSchema(s *schema.Schema) *arrow.Schema {
	fields := make([]arrow.Field, 0, s.Len()+1)
	for _, f := range s.Fields() {
		fields = append(fields, arrow.Field{Name: f.Name, Type: arrowType(f.Type), Nullable: true})
	}
	fields = append(fields, arrow.Field{Name: GeometryColumn, Type: arrow.BinaryTypes.Binary, Nullable: true})

	geo, _ := json.Marshal(map[string]any{
		"version":        "1.0.0",
		"primary_column": GeometryColumn,
		"columns": map[string]any{
			GeometryColumn: map[string]any{"encoding": "WKB", "geometry_types": []string{}},
		},
	})
	md := arrow.NewMetadata([]string{"geo"}, []string{string(geo)})
	return arrow.NewSchema(fields, &md)
}

func arrowType(t schema.FieldType) arrow.DataType {
	switch t {
	case schema.Integer:
		return arrow.PrimitiveTypes.Int64
	case schema.Real:
		return arrow.PrimitiveTypes.Float64
	case schema.Date:
		return arrow.FixedWidthTypes.Date32
	default:
		return arrow.BinaryTypes.String
	}
}

// Parquet writes every feature of ds to a Parquet file at path and returns
// the number of rows written.
func Parquet(ctx context.Context, ds sources.Dataset, path string, opts ...Option) (int, error) {
	o := &options{
		batchSize:   DefaultBatchSize,
		compression: compress.Codecs.Snappy,
		alloc:       memory.NewGoAllocator(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return 0, err
		}
	}

	as := ArrowSchema(ds.Schema())
	file, err := os.Create(path)
	if err != nil {
		return 0, errors.WrapIO("create", path, err)
	}
	defer file.Close()

	props := parquet.NewWriterProperties(parquet.WithCompression(o.compression))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	writer, err := pqarrow.NewFileWriter(as, file, props, arrowProps)
	if err != nil {
		return 0, fmt.Errorf("failed to create parquet writer: %w", err)
	}

	b := array.NewRecordBuilder(o.alloc, as)
	defer b.Release()

	rows, pending := 0, 0
	flush := func() error {
		if pending == 0 {
			return nil
		}
		rec := b.NewRecord()
		defer rec.Release()
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("failed to write record batch: %w", err)
		}
		pending = 0
		return nil
	}

	for i := 0; i < ds.Count(); i++ {
		if err := ctx.Err(); err != nil {
			_ = writer.Close()
			return rows, errors.Join(errors.ErrCanceled, err)
		}
		f, err := ds.Feature(i)
		if err != nil {
			_ = writer.Close()
			return rows, err
		}
		if err := appendRow(b, f); err != nil {
			_ = writer.Close()
			return rows, errors.NewMergeError(ds.Name(), i, err)
		}
		rows++
		pending++
		if pending >= o.batchSize {
			if err := flush(); err != nil {
				_ = writer.Close()
				return rows, err
			}
		}
	}
	if err := flush(); err != nil {
		_ = writer.Close()
		return rows, err
	}
	if err := writer.Close(); err != nil {
		return rows, fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return rows, nil
}

func appendRow(b *array.RecordBuilder, f sources.Feature) error {
	s := f.Record.Schema()
	for i := 0; i < s.Len(); i++ {
		v := f.Record.At(i)
		switch fb := b.Field(i).(type) {
		case *array.Int64Builder:
			if n, ok := v.Int(); ok {
				fb.Append(n)
			} else {
				fb.AppendNull()
			}
		case *array.Float64Builder:
			if x, ok := v.Float(); ok {
				fb.Append(x)
			} else {
				fb.AppendNull()
			}
		case *array.Date32Builder:
			txt, ok := v.Text()
			t, err := time.Parse(schema.DateLayout, txt)
			if !ok || err != nil {
				fb.AppendNull()
				continue
			}
			fb.Append(arrow.Date32FromTime(t))
		case *array.StringBuilder:
			if v.IsNull() {
				fb.AppendNull()
			} else {
				fb.Append(v.String())
			}
		default:
			return fmt.Errorf("column %d: unexpected builder %T", i, fb)
		}
	}

	gb := b.Field(s.Len()).(*array.BinaryBuilder)
	if f.Geometry == nil {
		gb.AppendNull()
		return nil
	}
	data, err := wkb.Marshal(f.Geometry)
	if err != nil {
		return err
	}
	gb.Append(data)
	return nil
}
