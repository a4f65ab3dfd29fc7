// Package stats implements the stats command.
package stats

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/parcelmerge/internal/cmd/application"
	"github.com/agentstation/parcelmerge/internal/cmd/output"
	"github.com/agentstation/parcelmerge/pkg/constants"
	"github.com/agentstation/parcelmerge/pkg/report"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// Flags holds stats flag values.
type Flags struct {
	Dataset   string
	Field     string
	Estimator string
	Intervals int
	Floor     float64
	Ceiling   float64
}

// NewCommand creates the stats command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}
	cmd := &cobra.Command{
		Use:     "stats",
		GroupID: "inspect",
		Short:   "Print a value distribution and map class breaks",
		Long: `Stats collects the values of a numeric field that fall in (floor, ceiling],
prints min, max, median and mean, and splits the values into equal
percentile intervals. Each interval becomes a CartoCSS rule with a
polygon-fill level, ready to paste into a map style.`,
		Example: `  parcelmerge stats                             # EMV_TOTAL, 7 intervals
  parcelmerge stats --field ACRES_POLY --ceiling 640
  parcelmerge stats --estimator empirical -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(app, flags, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&flags.Dataset, "dataset", sources.Combined.String(), "dataset to read: combined, a source id or a path")
	cmd.Flags().StringVar(&flags.Field, "field", constants.DistributionField, "numeric field to summarize")
	cmd.Flags().StringVar(&flags.Estimator, "estimator", string(report.Linear), "quantile estimator: linear, lininterp, empirical")
	cmd.Flags().IntVar(&flags.Intervals, "intervals", constants.DistributionIntervals, "number of equal percentile intervals")
	cmd.Flags().Float64Var(&flags.Floor, "floor", 0, "exclusive lower bound of kept values")
	cmd.Flags().Float64Var(&flags.Ceiling, "ceiling", constants.DistributionCeiling, "inclusive upper bound of kept values")
	return cmd
}

// Run computes the distribution and prints it to w. Tables are followed by
// the CartoCSS rules as plain lines. An empty selection is reported as a
// warning, not an error.
func Run(app application.Application, flags *Flags, w io.Writer) error {
	estimator, err := report.ParseEstimator(flags.Estimator)
	if err != nil {
		return err
	}
	ds, err := app.Open(flags.Dataset)
	if err != nil {
		return err
	}
	defer ds.Close()

	d, err := report.ComputeDistribution(ds, flags.Field,
		report.WithRange(flags.Floor, flags.Ceiling),
		report.WithIntervals(flags.Intervals),
		report.WithEstimator(estimator),
	)
	if err != nil {
		return err
	}
	if d.Empty() {
		app.Logger().Warn().
			Str("field", flags.Field).
			Float64("floor", flags.Floor).
			Float64("ceiling", flags.Ceiling).
			Msg("No values in range")
		return nil
	}

	format := app.OutputFormat()
	if format != "" && format != string(output.FormatTable) {
		return output.Render(w, format, output.Data{}, d)
	}
	if err := output.Render(w, format, output.SummaryTable(d), nil); err != nil {
		return err
	}
	if err := output.Render(w, format, output.DistributionTable(d), nil); err != nil {
		return err
	}
	for _, rule := range d.Rules() {
		if _, err := fmt.Fprintln(w, rule); err != nil {
			return err
		}
	}
	return nil
}
