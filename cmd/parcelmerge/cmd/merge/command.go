// Package merge implements the merge command, the default action of
// parcelmerge.
package merge

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/parcelmerge/internal/cmd/application"
	"github.com/agentstation/parcelmerge/internal/cmd/output"
	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/export"
	"github.com/agentstation/parcelmerge/pkg/logging"
	engine "github.com/agentstation/parcelmerge/pkg/merge"
	"github.com/agentstation/parcelmerge/pkg/report"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// Flags holds merge-specific flag values.
type Flags struct {
	Sources   map[string]string
	Reference string
	Order     []string
	Durable   bool
	Values    string
	Parquet   string
}

// AddFlags registers the merge flags on cmd.
func AddFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}
	cmd.Flags().StringToStringVar(&flags.Sources, "source", nil, "override a source path, e.g. --source ramsey=ramsey.shp")
	cmd.Flags().StringVar(&flags.Reference, "reference", "", "source whose schema becomes the canonical schema")
	cmd.Flags().StringSliceVar(&flags.Order, "order", nil, "processing order, e.g. ramsey,anoka,hennepin")
	cmd.Flags().BoolVar(&flags.Durable, "durable", false, "sync the output to disk after every feature")
	cmd.Flags().StringVar(&flags.Values, "values", "", "print a value histogram of FIELD after merging")
	cmd.Flags().StringVar(&flags.Parquet, "parquet", "", "also export the combined dataset to this Parquet file")
	return flags
}

// NewCommand creates the merge command.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags
	cmd := &cobra.Command{
		Use:     "merge",
		GroupID: "core",
		Short:   "Merge the county parcel datasets into one dataset",
		Long: `Merge reads every configured county parcel dataset, adopts the reference
source's schema as the canonical schema and writes each source's features,
translated into that schema, to a freshly created combined dataset.

Sources are opened before anything is written: a missing source fails the
run and leaves any previous output untouched.`,
		Example: `  parcelmerge merge                              # Full rebuild with configured paths
  parcelmerge merge --values CITY                # Merge, then print a CITY histogram
  parcelmerge merge --source anoka=a.shp --order anoka,hennepin
  parcelmerge merge --parquet metro.parquet      # Merge, then export to Parquet`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}
	flags = AddFlags(cmd)
	return cmd
}

// Run performs a merge with the app configuration overridden by flags and
// renders the result to w.
func Run(ctx context.Context, app application.Application, flags *Flags, w io.Writer) error {
	if flags == nil {
		flags = &Flags{}
	}
	cfg, err := flags.apply(app.MergeConfig())
	if err != nil {
		return err
	}

	logger := app.Logger()
	every := app.ProgressEvery()
	progress := func(p engine.Progress) {
		if every > 0 && (p.Done%every == 0 || p.Done == p.Total) {
			logger.Debug().
				Str("source", p.Source.String()).
				Int("done", p.Done).
				Int("total", p.Total).
				Msg("Progress")
		}
	}

	e, err := engine.New(cfg, engine.WithLogger(logger), engine.WithProgress(progress))
	if err != nil {
		return err
	}
	result, err := e.Run(logging.WithOperation(ctx, "merge"))
	if err != nil {
		return err
	}
	if err := output.Render(w, app.OutputFormat(), output.ResultTable(result), result.Manifest()); err != nil {
		return err
	}

	if flags.Values == "" && flags.Parquet == "" {
		return nil
	}
	ds, err := app.Open(sources.Combined.String())
	if err != nil {
		return err
	}
	defer ds.Close()

	if flags.Values != "" {
		buckets, err := report.Histogram(ds, flags.Values)
		if err != nil {
			return err
		}
		if err := output.Render(w, app.OutputFormat(), output.HistogramTable(flags.Values, buckets), buckets); err != nil {
			return err
		}
	}
	if flags.Parquet != "" {
		n, err := export.Parquet(ctx, ds, flags.Parquet)
		if err != nil {
			return err
		}
		logger.Info().Str("path", flags.Parquet).Int("rows", n).Msg("Exported Parquet")
	}
	return nil
}

func (f *Flags) apply(cfg engine.Config) (engine.Config, error) {
	if len(f.Sources) > 0 {
		paths := make(map[sources.ID]string, len(cfg.SourcePaths)+len(f.Sources))
		for id, path := range cfg.SourcePaths {
			paths[id] = path
		}
		for name, path := range f.Sources {
			id, err := sources.ParseID(name)
			if err != nil {
				return cfg, errors.WrapValidation("source", err)
			}
			paths[id] = path
		}
		cfg.SourcePaths = paths
	}
	if f.Reference != "" {
		id, err := sources.ParseID(f.Reference)
		if err != nil {
			return cfg, errors.WrapValidation("reference", err)
		}
		cfg.ReferenceSource = id
	}
	if len(f.Order) > 0 {
		order := make([]sources.ID, 0, len(f.Order))
		for _, name := range f.Order {
			id, err := sources.ParseID(name)
			if err != nil {
				return cfg, errors.WrapValidation("order", err)
			}
			order = append(order, id)
		}
		// An explicit order also selects which sources are merged.
		selected := make(map[sources.ID]string, len(order))
		for _, id := range order {
			path, ok := cfg.SourcePaths[id]
			if !ok {
				return cfg, errors.NewValidationError("order", id.String(), fmt.Sprintf("source %s has no path", id))
			}
			selected[id] = path
		}
		cfg.SourcePaths = selected
		cfg.Order = order
	}
	cfg.Durable = cfg.Durable || f.Durable
	return cfg, nil
}
