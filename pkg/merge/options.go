package merge

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/featurestore"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// Progress reports how far the current source has been combined.
type Progress struct {
	Source sources.ID
	Done   int
	Total  int
}

// Opener opens a source dataset by path.
type Opener func(path string) (sources.Dataset, error)

// options configures an Engine.
type options struct {
	progress   func(Progress)
	open       Opener
	logger     *zerolog.Logger
	projection string
}

func defaultOptions() *options {
	return &options{
		progress:   func(Progress) {},
		open:       featurestore.Open,
		projection: featurestore.WGS84,
	}
}

// Option is a function that configures an Engine.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithProgress sets a hook called after every combined feature.
func WithProgress(fn func(Progress)) Option {
	return func(o *options) error {
		if fn == nil {
			return &errors.ValidationError{Field: "progress", Message: "cannot be nil"}
		}
		o.progress = fn
		return nil
	}
}

// WithOpener replaces how source datasets are opened.
func WithOpener(open Opener) Option {
	return func(o *options) error {
		if open == nil {
			return &errors.ValidationError{Field: "opener", Message: "cannot be nil"}
		}
		o.open = open
		return nil
	}
}

// WithLogger sets the logger. The context logger is used otherwise.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithProjection sets the WKT written to the output's .prj sidecar.
func WithProjection(wkt string) Option {
	return func(o *options) error {
		if wkt == "" {
			return &errors.ValidationError{Field: "projection", Message: "cannot be empty"}
		}
		o.projection = wkt
		return nil
	}
}
