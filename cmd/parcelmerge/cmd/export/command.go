// Package export implements the export command.
package export

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agentstation/parcelmerge/internal/cmd/application"
	"github.com/agentstation/parcelmerge/pkg/errors"
	exporter "github.com/agentstation/parcelmerge/pkg/export"
	"github.com/agentstation/parcelmerge/pkg/logging"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// Flags holds export flag values.
type Flags struct {
	Dataset     string
	Parquet     string
	Compression string
	BatchSize   int
}

// NewCommand creates the export command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}
	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "core",
		Short:   "Export the combined dataset to Parquet",
		Long: `Export writes every feature of the combined dataset to a Parquet file.
Attributes become typed columns and the geometry is stored as WKB in a
"geometry" column with GeoParquet metadata.`,
		Example: `  parcelmerge export --parquet data/combined/metro.parquet
  parcelmerge export --parquet ramsey.parquet --dataset ramsey --compression zstd`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd.Context(), app, flags)
		},
	}
	cmd.Flags().StringVar(&flags.Parquet, "parquet", "", "Parquet file to write (required)")
	cmd.Flags().StringVar(&flags.Dataset, "dataset", sources.Combined.String(), "dataset to read: combined, a source id or a path")
	cmd.Flags().StringVar(&flags.Compression, "compression", "snappy", "column compression: snappy, zstd, gzip, none")
	cmd.Flags().IntVar(&flags.BatchSize, "batch-size", exporter.DefaultBatchSize, "rows per record batch")
	return cmd
}

// Run exports the named dataset.
func Run(ctx context.Context, app application.Application, flags *Flags) error {
	if flags.Parquet == "" {
		return errors.NewValidationError("parquet", "", "an output path is required")
	}
	ds, err := app.Open(flags.Dataset)
	if err != nil {
		return err
	}
	defer ds.Close()

	n, err := exporter.Parquet(logging.WithOperation(ctx, "export"), ds, flags.Parquet,
		exporter.WithCompression(flags.Compression),
		exporter.WithBatchSize(flags.BatchSize),
	)
	if err != nil {
		return err
	}
	app.Logger().Info().Str("path", flags.Parquet).Int("rows", n).Msg("Exported Parquet")
	return nil
}
