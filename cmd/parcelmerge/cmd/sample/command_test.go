package sample

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
	fx.WriteAnoka(t, "ANOKA", "BLAINE", "RAMSEY")
	fx.WriteHennepin(t, "H0")

	var buf bytes.Buffer
	require.NoError(t, Run(fx.Mock("json"), []string{"anoka#CITY#2", "hennepin#PID#5"}, &buf))
	out := buf.String()
	assert.Contains(t, out, `"ANOKA"`)
	assert.Contains(t, out, `"BLAINE"`)
	assert.NotContains(t, out, `"RAMSEY"`)
	assert.Contains(t, out, `"H0"`)
}

func TestRunTable(t *testing.T) {
	fx := cmdtest.NewFixture(t)
	fx.WriteAnoka(t, "ANOKA")

	var buf bytes.Buffer
	require.NoError(t, Run(fx.Mock(""), []string{"anoka#CITY#10"}, &buf))
	assert.Contains(t, buf.String(), "anoka.CITY")
	assert.Contains(t, buf.String(), "ANOKA")
}

func TestRunErrors(t *testing.T) {
	fx := cmdtest.NewFixture(t)
	fx.WriteAnoka(t, "ANOKA")
	mock := fx.Mock("json")

	assert.True(t, errors.IsValidationError(Run(mock, []string{"anoka#CITY"}, &bytes.Buffer{})))
	assert.True(t, errors.IsNotFound(Run(mock, []string{"anoka#NOPE#1"}, &bytes.Buffer{})))
	assert.True(t, errors.IsSourceUnavailable(Run(mock, []string{"ramsey#CITY#1"}, &bytes.Buffer{})))
}
