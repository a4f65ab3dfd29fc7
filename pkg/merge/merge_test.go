package merge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/featurestore"
	"github.com/agentstation/parcelmerge/pkg/schema"
	"github.com/agentstation/parcelmerge/pkg/sources"
	"github.com/agentstation/parcelmerge/pkg/translate"
)

func anokaDataset(t *testing.T, pins ...string) *featurestore.Memory {
	t.Helper()
	s := translate.MetroSchema().Rename("anoka-parcels")
	ds := featurestore.NewMemory("anoka.shp", s)
	for i, pin := range pins {
		r := schema.NewRecord(s)
		require.NoError(t, r.Set("PIN", schema.Text(pin)))
		require.NoError(t, r.Set("COUNTY_ID", schema.Text("002")))
		require.NoError(t, r.Set("ZIP4", schema.Text("5501")))
		require.NoError(t, r.Set("EMV_TOTAL", schema.Float(float64(100000*(i+1)))))
		require.NoError(t, ds.Append(sources.Feature{Record: r, Geometry: orb.Point{float64(i), 0}}))
	}
	return ds
}

func hennepinDataset(t *testing.T, pins ...string) *featurestore.Memory {
	t.Helper()
	s := schema.MustNew("hennepin-parcels",
		schema.Field{Name: "PID", Type: schema.String, Width: 13},
		schema.Field{Name: "HOUSE_NO", Type: schema.Real, Width: 11},
		schema.Field{Name: "MKT_VAL_TO", Type: schema.String, Width: 12},
		schema.Field{Name: "SALE_DATE", Type: schema.String, Width: 8},
	)
	ds := featurestore.NewMemory("hennepin.shp", s)
	for i, pin := range pins {
		r := schema.NewRecord(s)
		require.NoError(t, r.Set("PID", schema.Text(pin)))
		require.NoError(t, r.Set("HOUSE_NO", schema.Float(3537)))
		require.NoError(t, r.Set("MKT_VAL_TO", schema.Text("285000")))
		require.NoError(t, r.Set("SALE_DATE", schema.Text("20150714")))
		require.NoError(t, ds.Append(sources.Feature{Record: r, Geometry: orb.Point{10 + float64(i), 0}}))
	}
	return ds
}

func memoryOpener(datasets map[string]sources.Dataset) Opener {
	return func(path string) (sources.Dataset, error) {
		ds, ok := datasets[path]
		if !ok {
			return nil, errors.NewNotFoundError("dataset", path)
		}
		return ds, nil
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			SourcePaths:     map[sources.ID]string{sources.Anoka: "a.shp", sources.Hennepin: "h.shp"},
			OutputPath:      "out.geojsons",
			ReferenceSource: sources.Anoka,
		}
	}
	require.NoError(t, valid().Validate())
	assert.Equal(t, []sources.ID{sources.Anoka, sources.Hennepin}, valid().order())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "no sources", mutate: func(c *Config) { c.SourcePaths = nil }},
		{name: "unknown source", mutate: func(c *Config) { c.SourcePaths["dakota"] = "d.shp" }},
		{name: "empty path", mutate: func(c *Config) { c.SourcePaths[sources.Hennepin] = "" }},
		{name: "no output", mutate: func(c *Config) { c.OutputPath = "" }},
		{name: "reference not configured", mutate: func(c *Config) { c.ReferenceSource = sources.Ramsey }},
		{name: "order misses a source", mutate: func(c *Config) { c.Order = []sources.ID{sources.Anoka} }},
		{name: "order duplicates", mutate: func(c *Config) { c.Order = []sources.ID{sources.Anoka, sources.Anoka} }},
		{name: "order unconfigured", mutate: func(c *Config) { c.Order = []sources.ID{sources.Anoka, sources.Ramsey} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "data/reprojected_4326-shps/hennepin-parcels.shp", cfg.SourcePaths[sources.Hennepin])
	assert.Equal(t, sources.DefaultOrder(), cfg.order())
}

func TestDeriveSchema(t *testing.T) {
	ds := anokaDataset(t)

	first, err := DeriveSchema(ds)
	require.NoError(t, err)
	second, err := DeriveSchema(ds)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.True(t, first.Equal(ds.Schema()))
	assert.Equal(t, ds.Schema().Names(), first.Names())
	assert.Equal(t, translate.MetroLayer, first.Name())

	_, err = DeriveSchema(nil)
	assert.True(t, errors.IsNotFound(err))
}

func TestCombine(t *testing.T) {
	src := hennepinDataset(t, "H0", "H1", "H2")
	canonical := translate.MetroSchema()
	tr, err := translate.For(sources.Hennepin, canonical)
	require.NoError(t, err)

	out := featurestore.NewMemory("out", canonical)
	var seen []Progress
	n, err := Combine(context.Background(), src, tr, out, func(p Progress) { seen = append(seen, p) })
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, 3, out.Flushed())
	require.Len(t, seen, 3)
	assert.Equal(t, Progress{Source: sources.Hennepin, Done: 3, Total: 3}, seen[2])

	for i, f := range out.Features() {
		assert.Equal(t, src.Features()[i].Record.Get("PID").String(), f.Record.Get("PIN").String())
		assert.Equal(t, src.Features()[i].Geometry, f.Geometry, "geometry is passed through")
		assert.Equal(t, "27", f.Record.Get("COUNTY_ID").String())
	}
}

func TestCombineCanceled(t *testing.T) {
	src := hennepinDataset(t, "H0", "H1", "H2")
	canonical := translate.MetroSchema()
	tr, err := translate.For(sources.Hennepin, canonical)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	out := featurestore.NewMemory("out", canonical)
	n, err := Combine(ctx, src, tr, out, func(p Progress) {
		if p.Done == 2 {
			cancel()
		}
	})

	require.Error(t, err)
	assert.True(t, errors.IsCanceled(err))
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, out.Count(), "a prefix is kept")
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "combined", "metro.geojsons")

	anoka := anokaDataset(t, "A0", "A1")
	hennepin := hennepinDataset(t, "B0")

	engine, err := New(Config{
		SourcePaths:     map[sources.ID]string{sources.Anoka: "anoka.shp", sources.Hennepin: "hennepin.shp"},
		OutputPath:      output,
		ReferenceSource: sources.Anoka,
		Order:           []sources.ID{sources.Anoka, sources.Hennepin},
	}, WithOpener(memoryOpener(map[string]sources.Dataset{
		"anoka.shp":    anoka,
		"hennepin.shp": hennepin,
	})))
	require.NoError(t, err)

	result, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, anoka.Count()+hennepin.Count(), result.Total)
	assert.Equal(t, 2, result.Count(sources.Anoka))
	assert.Equal(t, 1, result.Count(sources.Hennepin))
	assert.NotEmpty(t, result.RunID)
	assert.Contains(t, result.Summary(), "anoka=2")

	combined, err := featurestore.Open(output)
	require.NoError(t, err)
	defer combined.Close()
	require.Equal(t, result.Total, combined.Count())

	var pins, codes []string
	for i := 0; i < combined.Count(); i++ {
		f, err := combined.Feature(i)
		require.NoError(t, err)
		pins = append(pins, f.Record.Get("PIN").String())
		codes = append(codes, f.Record.Get("COUNTY_ID").String())
	}
	assert.Equal(t, []string{"A0", "A1", "B0"}, pins)
	assert.Equal(t, []string{"2", "2", "27"}, codes)

	a0, err := combined.Feature(0)
	require.NoError(t, err)
	assert.Equal(t, "5501", a0.Record.Get("ZIP4").String())

	b0, err := combined.Feature(2)
	require.NoError(t, err)
	assert.True(t, b0.Record.Get("ZIP4").IsNull(), "unmapped field is null")
	assert.Equal(t, "3537", b0.Record.Get("BLDG_NUM").String())
	assert.Equal(t, "2015-07-01", b0.Record.Get("SALE_DATE").String())
	assert.True(t, orb.Equal(orb.Point{10, 0}, b0.Geometry))

	wkt, err := featurestore.ReadProjection(output)
	require.NoError(t, err)
	assert.Equal(t, featurestore.WGS84, wkt)

	m, err := ReadManifest(ManifestPath(output))
	require.NoError(t, err)
	assert.Equal(t, result.RunID, m.RunID)
	assert.Equal(t, 3, m.Total)
	assert.Equal(t, translate.MetroLayer, m.Layer)
	require.Len(t, m.Sources, 2)
	assert.Equal(t, sources.Anoka, m.Sources[0].Source)
}

func TestRunMissingSourceLeavesOutputUntouched(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "metro.geojsons")
	require.NoError(t, os.WriteFile(output, []byte("previous\n"), 0o644))

	engine, err := New(Config{
		SourcePaths:     map[sources.ID]string{sources.Anoka: "anoka.shp", sources.Ramsey: "missing.shp"},
		OutputPath:      output,
		ReferenceSource: sources.Anoka,
	}, WithOpener(memoryOpener(map[string]sources.Dataset{
		"anoka.shp": anokaDataset(t, "A0"),
	})))
	require.NoError(t, err)

	_, err = engine.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))
	assert.Contains(t, err.Error(), "ramsey")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(data))
}

func TestNewRejectsBadOptions(t *testing.T) {
	cfg := Config{
		SourcePaths:     map[sources.ID]string{sources.Anoka: "a.shp"},
		OutputPath:      "out.geojsons",
		ReferenceSource: sources.Anoka,
	}
	_, err := New(cfg, WithProgress(nil))
	assert.True(t, errors.IsValidationError(err))
	_, err = New(cfg, WithOpener(nil))
	assert.True(t, errors.IsValidationError(err))
	_, err = New(cfg, WithProjection(""))
	assert.True(t, errors.IsValidationError(err))
}
