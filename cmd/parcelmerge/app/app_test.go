package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/parcelmerge/internal/cmd/cmdtest"
	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/featurestore"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

func testApp(t *testing.T, fx *cmdtest.Fixture, out *bytes.Buffer) *App {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	config := &Config{
		Sources:   fx.Paths,
		Output:    fx.Output,
		Reference: sources.Anoka.String(),
		Format:    "json",
		LogOutput: "discard",
	}
	logger := zerolog.Nop()
	app, err := New("1.2.3", "abc123", "2026-01-01", WithConfig(config), WithLogger(&logger), WithOutput(out))
	require.NoError(t, err)
	return app
}

func TestNew(t *testing.T) {
	app := testApp(t, cmdtest.NewFixture(t), &bytes.Buffer{})
	assert.Equal(t, "1.2.3", app.Version())
	assert.Equal(t, "abc123", app.Commit())
	assert.Equal(t, "2026-01-01", app.Date())
	assert.NotNil(t, app.Logger())
	assert.Equal(t, "json", app.OutputFormat())
	assert.Equal(t, sources.Anoka, app.MergeConfig().ReferenceSource)

	_, err := New("dev", "", "", WithConfig(&Config{Reference: "dakota"}))
	assert.Error(t, err)
	_, err = New("dev", "", "", WithConfig(nil))
	assert.True(t, errors.IsValidationError(err))
}

func TestOpen(t *testing.T) {
	fx := cmdtest.NewFixture(t)
	fx.WriteAnoka(t, "ANOKA")
	app := testApp(t, fx, &bytes.Buffer{})

	ds, err := app.Open("anoka")
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Count())
	require.NoError(t, ds.Close())

	ds, err = app.Open(fx.Paths[sources.Anoka])
	require.NoError(t, err)
	require.NoError(t, ds.Close())

	_, err = app.Open("ramsey")
	assert.True(t, errors.IsNotFound(err), "ramsey has no configured path")

	_, err = app.Open("combined")
	assert.True(t, errors.IsSourceUnavailable(err))
}

func TestExecuteDefaultMerge(t *testing.T) {
	fx := cmdtest.NewFixture(t)
	fx.WriteAnoka(t, "ANOKA", "BLAINE")
	fx.WriteHennepin(t, "H0")

	var out bytes.Buffer
	app := testApp(t, fx, &out)
	require.NoError(t, app.Execute(context.Background(), []string{"--values", "CITY"}))
	assert.Contains(t, out.String(), `"total": 3`)
	assert.Contains(t, out.String(), `"value": "BLAINE"`)

	ds, err := featurestore.Open(fx.Output)
	require.NoError(t, err)
	defer ds.Close()
	assert.Equal(t, 3, ds.Count())
}

func TestExecuteInspection(t *testing.T) {
	fx := cmdtest.NewFixture(t)
	fx.WriteAnoka(t, "ANOKA", "BLAINE")

	var out bytes.Buffer
	app := testApp(t, fx, &out)
	require.NoError(t, app.Execute(context.Background(), []string{"merge", "-q"}))

	out.Reset()
	require.NoError(t, app.Execute(context.Background(), []string{"fields", "-o", "yaml"}))
	assert.Contains(t, out.String(), "name: COUNTY_ID")

	out.Reset()
	require.NoError(t, app.Execute(context.Background(), []string{"values", "COUNTY_ID"}))
	assert.Contains(t, out.String(), `"count": 2`)

	out.Reset()
	require.NoError(t, app.Execute(context.Background(), []string{"version"}))
	assert.Equal(t, "parcelmerge 1.2.3\n", out.String())
}

func TestExecuteErrors(t *testing.T) {
	fx := cmdtest.NewFixture(t)
	fx.WriteAnoka(t, "ANOKA")
	fx.Paths[sources.Hennepin] = fx.Dir + "/missing.geojsons"
	app := testApp(t, fx, &bytes.Buffer{})

	err := app.Execute(context.Background(), []string{})
	assert.True(t, errors.IsSourceUnavailable(err))

	err = app.Execute(context.Background(), []string{"fields", "-o", "xml"})
	assert.True(t, errors.IsValidationError(err))

	err = app.Execute(context.Background(), []string{"sample", "anoka#CITY"})
	assert.True(t, errors.IsValidationError(err))
}

func TestExecuteFlagsApplyToOneRun(t *testing.T) {
	fx := cmdtest.NewFixture(t)
	fx.WriteAnoka(t, "ANOKA")

	var out bytes.Buffer
	app := testApp(t, fx, &out)
	require.NoError(t, app.Execute(context.Background(), []string{"values", "CITY", "--dataset", "anoka", "-o", "yaml", "-v"}))
	assert.Contains(t, out.String(), "count: 1")

	assert.Equal(t, "json", app.OutputFormat())
	assert.False(t, app.Config().Verbose)

	out.Reset()
	require.NoError(t, app.Execute(context.Background(), []string{"values", "CITY", "--dataset", "anoka"}))
	assert.Contains(t, out.String(), `"count": 1`)

	out.Reset()
	require.NoError(t, app.Execute(context.Background(), []string{"version"}))
	assert.Equal(t, "parcelmerge 1.2.3\n", out.String(), "verbose from the first run is gone")
}
