package values

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/parcelmerge/internal/cmd/cmdtest"
	"github.com/agentstation/parcelmerge/pkg/errors"
)

func TestRun(t *testing.T) {
	fx := cmdtest.NewFixture(t)
	fx.WriteAnoka(t, "BLAINE", "ANOKA", "BLAINE")

	var buf bytes.Buffer
	require.NoError(t, Run(fx.Mock("table"), "anoka", "CITY", &buf))
	out := buf.String()
	assert.Contains(t, out, "ANOKA")
	assert.Contains(t, out, "BLAINE")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("ANOKA")), bytes.Index(buf.Bytes(), []byte("BLAINE")))
}

func TestRunUnknownField(t *testing.T) {
	fx := cmdtest.NewFixture(t)
	fx.WriteAnoka(t, "ANOKA")
	assert.True(t, errors.IsNotFound(Run(fx.Mock("json"), "anoka", "NOPE", &bytes.Buffer{})))
}
