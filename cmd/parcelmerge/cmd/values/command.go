// Package values implements the values command.
package values

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/parcelmerge/internal/cmd/application"
	"github.com/agentstation/parcelmerge/internal/cmd/output"
	"github.com/agentstation/parcelmerge/pkg/report"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// NewCommand creates the values command.
func NewCommand(app application.Application) *cobra.Command {
	var dataset string
	cmd := &cobra.Command{
		Use:     "values <FIELD>",
		GroupID: "inspect",
		Short:   "Print a histogram of the values of a field",
		Long: `Values counts every distinct value of a field over all features of the
combined dataset and prints the counts sorted by value. Missing values are
counted as <null>.`,
		Example: `  parcelmerge values CITY
  parcelmerge values HOMESTEAD --dataset hennepin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(app, dataset, args[0], cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&dataset, "dataset", sources.Combined.String(), "dataset to read: combined, a source id or a path")
	return cmd
}

// Run prints the histogram of field in the named dataset to w.
func Run(app application.Application, dataset, field string, w io.Writer) error {
	ds, err := app.Open(dataset)
	if err != nil {
		return err
	}
	defer ds.Close()

	buckets, err := report.Histogram(ds, field)
	if err != nil {
		return err
	}
	return output.Render(w, app.OutputFormat(), output.HistogramTable(field, buckets), buckets)
}
