// Package sample implements the sample command.
package sample

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/parcelmerge/internal/cmd/application"
	"github.com/agentstation/parcelmerge/internal/cmd/output"
	"github.com/agentstation/parcelmerge/pkg/report"
	"github.com/agentstation/parcelmerge/pkg/schema"
)

// Result is the structured form of one sample.
type Result struct {
	Source string         `json:"source" yaml:"source"`
	Field  string         `json:"field" yaml:"field"`
	Values []schema.Value `json:"values" yaml:"values"`
}

// NewCommand creates the sample command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "sample <source#field#limit>...",
		GroupID: "inspect",
		Short:   "Print the first values of a source field",
		Long: `Sample prints the raw values of a field for the first features of a
source dataset, in storage order. Each argument names the source, the field
and how many values to print, separated by '#'.`,
		Example: `  parcelmerge sample ramsey#SiteCityPS#100
  parcelmerge sample hennepin#HMSTD_CD1#20 anoka#HOMESTEAD#20`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(app, args, cmd.OutOrStdout())
		},
	}
}

// Run parses every spec before sampling, then prints each sample to w.
func Run(app application.Application, args []string, w io.Writer) error {
	specs := make([]report.SampleSpec, len(args))
	for i, arg := range args {
		spec, err := report.ParseSampleSpec(arg)
		if err != nil {
			return err
		}
		specs[i] = spec
	}

	results := make([]Result, 0, len(specs))
	for _, spec := range specs {
		values, err := sample(app, spec)
		if err != nil {
			return err
		}
		if app.OutputFormat() == "" || app.OutputFormat() == string(output.FormatTable) {
			if err := output.Render(w, app.OutputFormat(), output.SampleTable(spec, values), nil); err != nil {
				return err
			}
			continue
		}
		results = append(results, Result{Source: spec.Source.String(), Field: spec.Field, Values: values})
	}
	if len(results) == 0 {
		return nil
	}
	return output.Render(w, app.OutputFormat(), output.Data{}, results)
}

func sample(app application.Application, spec report.SampleSpec) ([]schema.Value, error) {
	ds, err := app.Open(spec.Source.String())
	if err != nil {
		return nil, err
	}
	defer ds.Close()
	return report.Sample(ds, spec.Field, spec.Limit)
}
