// Package cmdtest builds on-disk parcel datasets and application mocks for
// command tests.
package cmdtest

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/parcelmerge/internal/cmd/application"
	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/featurestore"
	"github.com/agentstation/parcelmerge/pkg/merge"
	"github.com/agentstation/parcelmerge/pkg/schema"
	"github.com/agentstation/parcelmerge/pkg/sources"
	"github.com/agentstation/parcelmerge/pkg/translate"
)

// HennepinSchema is a reduced Hennepin export layout.
var HennepinSchema = schema.MustNew("hennepin-parcels",
	schema.Field{Name: "PID", Type: schema.String, Width: 13},
	schema.Field{Name: "MUNIC_NM", Type: schema.String, Width: 30},
	schema.Field{Name: "MKT_VAL_TO", Type: schema.String, Width: 12},
	schema.Field{Name: "HMSTD_CD1_", Type: schema.String, Width: 20},
)

// Fixture is a temporary directory holding source datasets and the
// location of the combined output.
type Fixture struct {
	Dir    string
	Paths  map[sources.ID]string
	Output string
}

// NewFixture returns an empty fixture in a test temp dir.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	dir := t.TempDir()
	return &Fixture{
		Dir:    dir,
		Paths:  make(map[sources.ID]string),
		Output: filepath.Join(dir, "combined", "metro.geojsons"),
	}
}

// WriteAnoka writes one Anoka parcel per city, in the metro layout.
// Parcel i is valued at (i+1)*100000.
func (f *Fixture) WriteAnoka(t *testing.T, cities ...string) {
	t.Helper()
	s := translate.MetroSchema().Rename("anoka-parcels")
	features := make([]sources.Feature, len(cities))
	for i, city := range cities {
		r := schema.NewRecord(s)
		require.NoError(t, r.Set("PIN", schema.Text(fmt.Sprintf("A%d", i))))
		require.NoError(t, r.Set("CITY", schema.Text(city)))
		require.NoError(t, r.Set("EMV_TOTAL", schema.Float(float64(i+1)*100000)))
		features[i] = sources.Feature{Record: r, Geometry: orb.Point{-93.3 + float64(i)*0.01, 45.2}}
	}
	f.write(t, sources.Anoka, s, features)
}

// WriteHennepin writes one homestead Hennepin parcel per pin.
func (f *Fixture) WriteHennepin(t *testing.T, pins ...string) {
	t.Helper()
	features := make([]sources.Feature, len(pins))
	for i, pin := range pins {
		r := schema.NewRecord(HennepinSchema)
		require.NoError(t, r.Set("PID", schema.Text(pin)))
		require.NoError(t, r.Set("MUNIC_NM", schema.Text("MINNEAPOLIS")))
		require.NoError(t, r.Set("MKT_VAL_TO", schema.Text("285000")))
		require.NoError(t, r.Set("HMSTD_CD1_", schema.Text("HOMESTEAD")))
		features[i] = sources.Feature{Record: r, Geometry: orb.Point{-93.27, 44.98 + float64(i)*0.01}}
	}
	f.write(t, sources.Hennepin, HennepinSchema, features)
}

func (f *Fixture) write(t *testing.T, id sources.ID, s *schema.Schema, features []sources.Feature) {
	t.Helper()
	path := filepath.Join(f.Dir, id.String()+".geojsons")
	sink, err := featurestore.Create(path, s)
	require.NoError(t, err)
	for _, feat := range features {
		require.NoError(t, sink.Append(feat))
	}
	require.NoError(t, sink.Close())
	f.Paths[id] = path
}

// Config returns a merge configuration over the written sources with Anoka
// as the reference.
func (f *Fixture) Config() merge.Config {
	paths := make(map[sources.ID]string, len(f.Paths))
	for id, p := range f.Paths {
		paths[id] = p
	}
	return merge.Config{
		SourcePaths:     paths,
		OutputPath:      f.Output,
		ReferenceSource: sources.Anoka,
	}
}

// Open resolves dataset names the way the CLI does.
func (f *Fixture) Open(name string) (sources.Dataset, error) {
	path := name
	if id := sources.ID(name); id == sources.Combined {
		path = f.Output
	} else if p, ok := f.Paths[id]; ok {
		path = p
	}
	ds, err := featurestore.Open(path)
	if err != nil {
		return nil, errors.NewSourceUnavailableError(name, path, err)
	}
	return ds, nil
}

// Mock returns an application mock backed by the fixture.
func (f *Fixture) Mock(format string) *application.Mock {
	return &application.Mock{
		MergeConfigFunc:   f.Config,
		ProgressEveryFunc: func() int { return 1 },
		OpenFunc:          f.Open,
		OutputFormatFunc:  func() string { return format },
		LoggerFunc: func() *zerolog.Logger {
			logger := zerolog.Nop()
			return &logger
		},
	}
}
