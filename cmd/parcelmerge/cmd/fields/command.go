// Package fields implements the fields command.
package fields

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/parcelmerge/internal/cmd/application"
	"github.com/agentstation/parcelmerge/internal/cmd/output"
	"github.com/agentstation/parcelmerge/pkg/report"
	"github.com/agentstation/parcelmerge/pkg/schema"
	"github.com/agentstation/parcelmerge/pkg/sources"
	"github.com/agentstation/parcelmerge/pkg/translate"
)

// Metro names the built-in metro schema, available without any data.
const Metro = "metro"

// NewCommand creates the fields command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "fields [dataset]",
		GroupID: "inspect",
		Short:   "Print the field definitions of a dataset",
		Long: `Fields prints name, type, width and precision of every field of a
dataset in declaration order.

The dataset is a source id (anoka, hennepin, ramsey), "combined" for the
merge output, "metro" for the built-in canonical schema, or a file path.
It defaults to "combined".`,
		Example: `  parcelmerge fields ramsey          # Ramsey source schema
  parcelmerge fields metro           # Canonical schema without any data
  parcelmerge fields -o yaml         # Combined output schema as YAML`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := sources.Combined.String()
			if len(args) == 1 {
				name = args[0]
			}
			return Run(app, name, cmd.OutOrStdout())
		},
	}
}

// Run prints the field definitions of the named dataset to w.
func Run(app application.Application, name string, w io.Writer) error {
	s, err := lookup(app, name)
	if err != nil {
		return err
	}
	defs := report.FieldDefinitions(s)
	return output.Render(w, app.OutputFormat(), output.FieldsTable(defs), defs)
}

func lookup(app application.Application, name string) (*schema.Schema, error) {
	if name == Metro {
		return translate.MetroSchema(), nil
	}
	ds, err := app.Open(name)
	if err != nil {
		return nil, err
	}
	defer ds.Close()
	return ds.Schema(), nil
}
