package fields

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
	fx.WriteHennepin(t, "H0")

	var buf bytes.Buffer
	require.NoError(t, Run(fx.Mock("yaml"), "hennepin", &buf))
	assert.Contains(t, buf.String(), "name: PID")
	assert.Contains(t, buf.String(), "name: HMSTD_CD1_")
}

func TestRunMetro(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Run(cmdtest.NewFixture(t).Mock("table"), Metro, &buf))
	assert.Contains(t, buf.String(), "COUNTY_ID")
	assert.Contains(t, buf.String(), "PARC_CODE")
}

func TestRunMissing(t *testing.T) {
	err := Run(cmdtest.NewFixture(t).Mock("json"), "combined", &bytes.Buffer{})
	assert.True(t, errors.IsNotFound(err))
}

func TestCommandArgs(t *testing.T) {
	cmd := NewCommand(cmdtest.NewFixture(t).Mock("json"))
	cmd.SetArgs([]string{"a", "b"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
