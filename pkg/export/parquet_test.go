package export

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/featurestore"
	"github.com/agentstation/parcelmerge/pkg/schema"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

func dataset(t *testing.T, n int) *featurestore.Memory {
	t.Helper()
	s := schema.MustNew("metro_parcels",
		schema.Field{Name: "COUNTY_ID", Type: schema.String, Width: 3},
		schema.Field{Name: "EMV_TOTAL", Type: schema.Real, Width: 11},
		schema.Field{Name: "YEAR_BUILT", Type: schema.Integer, Width: 4},
		schema.Field{Name: "SALE_DATE", Type: schema.Date, Width: 10},
	)
	ds := featurestore.NewMemory("combined", s)
	for i := 0; i < n; i++ {
		r := schema.NewRecord(s)
		require.NoError(t, r.Set("COUNTY_ID", schema.Text("27")))
		if i%2 == 0 {
			require.NoError(t, r.Set("EMV_TOTAL", schema.Float(float64(i)*1000)))
			require.NoError(t, r.Set("SALE_DATE", schema.DateOf(2015, 7, 1)))
		}
		require.NoError(t, r.Set("YEAR_BUILT", schema.Int(int64(1900+i))))
		var geom orb.Geometry
		if i != 1 {
			geom = orb.Point{float64(i), 45}
		}
		require.NoError(t, ds.Append(sources.Feature{Record: r, Geometry: geom}))
	}
	return ds
}

func TestArrowSchema(t *testing.T) {
	as := ArrowSchema(dataset(t, 0).Schema())
	require.Equal(t, 5, as.NumFields())
	assert.Equal(t, arrow.BinaryTypes.String, as.Field(0).Type)
	assert.Equal(t, arrow.PrimitiveTypes.Float64, as.Field(1).Type)
	assert.Equal(t, arrow.PrimitiveTypes.Int64, as.Field(2).Type)
	assert.Equal(t, arrow.FixedWidthTypes.Date32, as.Field(3).Type)
	assert.Equal(t, GeometryColumn, as.Field(4).Name)

	geo, ok := as.Metadata().GetValue("geo")
	require.True(t, ok)
	assert.Contains(t, geo, `"encoding":"WKB"`)
}

func TestParquet(t *testing.T) {
	ds := dataset(t, 5)
	path := filepath.Join(t.TempDir(), "metro.parquet")

	n, err := Parquet(context.Background(), ds, path, WithBatchSize(2), WithCompression("zstd"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	pf, err := file.OpenParquetFile(path, false)
	require.NoError(t, err)
	defer pf.Close()
	assert.Equal(t, int64(5), pf.NumRows())

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	require.NoError(t, err)
	table, err := fr.ReadTable(context.Background())
	require.NoError(t, err)
	defer table.Release()

	assert.Equal(t, int64(5), table.NumRows())
	names := make([]string, 0, table.NumCols())
	for _, f := range table.Schema().Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"COUNTY_ID", "EMV_TOTAL", "YEAR_BUILT", "SALE_DATE", GeometryColumn}, names)
	assert.Equal(t, 2, table.Column(1).NullN(), "odd rows have no value")
	assert.Equal(t, 1, table.Column(4).NullN(), "one row has no geometry")
}

func TestParquetOptions(t *testing.T) {
	ds := dataset(t, 1)
	path := filepath.Join(t.TempDir(), "metro.parquet")

	_, err := Parquet(context.Background(), ds, path, WithCompression("lz77"))
	assert.True(t, errors.IsValidationError(err))
	_, err = Parquet(context.Background(), ds, path, WithBatchSize(0))
	assert.True(t, errors.IsValidationError(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Parquet(ctx, ds, path)
	assert.True(t, errors.IsCanceled(err))
}
