package stats

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/parcelmerge/internal/cmd/cmdtest"
	"github.com/agentstation/parcelmerge/pkg/constants"
	"github.com/agentstation/parcelmerge/pkg/errors"
)

func flags(dataset string) *Flags {
	return &Flags{
		Dataset:   dataset,
		Field:     constants.DistributionField,
		Estimator: "linear",
		Intervals: constants.DistributionIntervals,
		Ceiling:   constants.DistributionCeiling,
	}
}

func TestRun(t *testing.T) {
	fx := cmdtest.NewFixture(t)
	fx.WriteAnoka(t, "A", "B", "C", "D")

	var buf bytes.Buffer
	require.NoError(t, Run(fx.Mock("table"), flags("anoka"), &buf))
	out := buf.String()
	assert.Contains(t, out, "250000")
	assert.Contains(t, out, "[EMV_TOTAL > 0] { polygon-fill: @level1; }")
	assert.Contains(t, out, "[EMV_TOTAL > 400000] { polygon-fill: @level8; }")

	buf.Reset()
	require.NoError(t, Run(fx.Mock("json"), flags("anoka"), &buf))
	assert.Contains(t, buf.String(), `"median": 250000`)
}

func TestRunEmpty(t *testing.T) {
	fx := cmdtest.NewFixture(t)
	fx.WriteAnoka(t, "A")

	f := flags("anoka")
	f.Ceiling = 10
	var buf bytes.Buffer
	require.NoError(t, Run(fx.Mock("table"), f, &buf))
	assert.Empty(t, buf.String())
}

func TestRunErrors(t *testing.T) {
	fx := cmdtest.NewFixture(t)
	fx.WriteAnoka(t, "A")

	f := flags("anoka")
	f.Estimator = "cubic"
	assert.True(t, errors.IsValidationError(Run(fx.Mock("json"), f, &bytes.Buffer{})))

	f = flags("anoka")
	f.Intervals = 0
	assert.True(t, errors.IsValidationError(Run(fx.Mock("json"), f, &bytes.Buffer{})))

	assert.True(t, errors.IsSourceUnavailable(Run(fx.Mock("json"), flags("combined"), &bytes.Buffer{})))
}
