// Package merge combines the county parcel datasets into one canonical
// dataset.
//
// A run opens every configured source, adopts the reference source's schema
// as the canonical schema, and then translates each source's features in
// the configured order into a freshly created output. Counts and timings are
// returned in a Result; the engine keeps no state between runs.
package merge

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/parcelmerge/pkg/constants"
	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/featurestore"
	"github.com/agentstation/parcelmerge/pkg/logging"
	"github.com/agentstation/parcelmerge/pkg/schema"
	"github.com/agentstation/parcelmerge/pkg/sources"
	"github.com/agentstation/parcelmerge/pkg/translate"
)

// Engine runs merges for one configuration.
type Engine struct {
	cfg  Config
	opts *options
}

// New validates cfg and returns an Engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	cfg.Order = cfg.order()
	return &Engine{cfg: cfg, opts: o}, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Run performs a full merge. Sources are opened before anything on disk is
// touched; a source that cannot be opened fails the run with a
// SourceUnavailableError and leaves any previous output in place.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	logger := e.logger(ctx)
	result := &Result{
		RunID:     uuid.NewString(),
		Output:    e.cfg.OutputPath,
		Reference: e.cfg.ReferenceSource,
		Start:     time.Now(),
	}

	// Step 1: open every source
	datasets, err := e.openAll(logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := datasets.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("Failed to close source datasets")
		}
	}()

	// Step 2: canonical schema from the reference source
	reference, _ := datasets.Get(e.cfg.ReferenceSource)
	canonical, err := DeriveSchema(reference)
	if err != nil {
		return nil, err
	}
	result.Schema = canonical

	// Step 3: one translator per source
	translators := make(map[sources.ID]translate.Translator, len(e.cfg.Order))
	for _, id := range e.cfg.Order {
		tr, err := e.translator(id, canonical)
		if err != nil {
			return nil, errors.NewMergeError(id.String(), -1, err)
		}
		translators[id] = tr
	}

	// Step 4: fresh output
	if err := os.MkdirAll(filepath.Dir(e.cfg.OutputPath), constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", filepath.Dir(e.cfg.OutputPath), err)
	}
	if err := os.Remove(ManifestPath(e.cfg.OutputPath)); err != nil && !os.IsNotExist(err) {
		return nil, errors.WrapIO("remove", ManifestPath(e.cfg.OutputPath), err)
	}
	sink, err := featurestore.Create(e.cfg.OutputPath, canonical, featurestore.WithDurable(e.cfg.Durable))
	if err != nil {
		return nil, err
	}
	logger.Info().Str("output", e.cfg.OutputPath).Int("fields", canonical.Len()).Msg("Created combined dataset")

	// Step 5: combine in order
	for _, id := range e.cfg.Order {
		ds, _ := datasets.Get(id)
		logger.Info().Str("source", id.String()).Int("features", ds.Count()).Msg("Combining features")

		n, err := Combine(ctx, ds, translators[id], sink, e.opts.progress)
		result.Counts = append(result.Counts, SourceCount{Source: id, Path: ds.Name(), Count: n})
		result.Total += n
		if err != nil {
			if cerr := sink.Close(); cerr != nil {
				logger.Warn().Err(cerr).Msg("Failed to close combined dataset")
			}
			return result, err
		}
	}
	if err := sink.Close(); err != nil {
		return result, err
	}

	// Step 6: spatial reference
	if err := featurestore.WriteProjection(e.cfg.OutputPath, e.opts.projection); err != nil {
		return result, err
	}

	// Step 7: manifest
	result.End = time.Now()
	if err := WriteManifest(ManifestPath(e.cfg.OutputPath), result.Manifest()); err != nil {
		return result, err
	}

	logger.Info().
		Int("total", result.Total).
		Dur("duration", result.Duration()).
		Str("run_id", result.RunID).
		Msg("Merge complete")
	return result, nil
}

func (e *Engine) logger(ctx context.Context) *zerolog.Logger {
	if e.opts.logger != nil {
		return e.opts.logger
	}
	return logging.FromContext(ctx)
}

func (e *Engine) openAll(logger *zerolog.Logger) (sources.Datasets, error) {
	datasets := make(sources.Datasets, len(e.cfg.Order))
	for _, id := range e.cfg.Order {
		path := e.cfg.SourcePaths[id]
		ds, err := e.opts.open(path)
		if err != nil {
			_ = datasets.Close()
			return nil, errors.NewSourceUnavailableError(id.String(), path, err)
		}
		logger.Debug().Str("source", id.String()).Str("path", path).Int("features", ds.Count()).Msg("Opened source")
		datasets[id] = ds
	}
	return datasets, nil
}

func (e *Engine) translator(id sources.ID, canonical *schema.Schema) (translate.Translator, error) {
	if id == e.cfg.ReferenceSource {
		return translate.NewIdentity(id, canonical)
	}
	return translate.For(id, canonical)
}

// DeriveSchema returns the canonical schema: the reference dataset's fields
// verbatim, in order, under the combined layer name.
func DeriveSchema(reference sources.Dataset) (*schema.Schema, error) {
	if reference == nil || reference.Schema() == nil {
		return nil, errors.NewNotFoundError("reference dataset", "")
	}
	return reference.Schema().Rename(translate.MetroLayer), nil
}

// Combine translates every feature of ds in storage order and appends it,
// with the source geometry, to sink. Each feature is flushed before the
// next is read. It returns how many features were written; on error or
// cancellation the written features form a valid prefix.
func Combine(ctx context.Context, ds sources.Dataset, tr translate.Translator, sink featurestore.Sink, progress func(Progress)) (int, error) {
	total := ds.Count()
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return i, errors.NewMergeError(tr.Source().String(), i, errors.Join(errors.ErrCanceled, err))
		}
		f, err := ds.Feature(i)
		if err != nil {
			return i, errors.NewMergeError(tr.Source().String(), i, err)
		}
		out := sources.Feature{Record: tr.Translate(f.Record), Geometry: f.Geometry}
		if err := sink.Append(out); err != nil {
			return i, errors.NewMergeError(tr.Source().String(), i, err)
		}
		if err := sink.Flush(); err != nil {
			return i, errors.NewMergeError(tr.Source().String(), i, err)
		}
		if progress != nil {
			progress(Progress{Source: tr.Source(), Done: i + 1, Total: total})
		}
	}
	return total, nil
}
