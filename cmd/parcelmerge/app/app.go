// Package app provides the application context and dependency management
// for the parcelmerge CLI. It centralizes configuration, logging and
// dataset access so commands only depend on application.Application.
package app

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/agentstation/parcelmerge/internal/cmd/application"
	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/featurestore"
	"github.com/agentstation/parcelmerge/pkg/merge"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// App represents the parcelmerge application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	config *Config
	merge  merge.Config
	logger *zerolog.Logger

	open func(path string) (sources.Dataset, error)
	out  io.Writer
}

var _ application.Application = (*App)(nil)

// New creates a new App with configuration loaded from the default
// locations. Options may replace any dependency.
func New(version, commit, date string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		open:    featurestore.Open,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	if err := app.refresh(); err != nil {
		return nil, err
	}
	return app, nil
}

// refresh rebuilds the merge configuration after config changes.
func (a *App) refresh() error {
	mc, err := a.config.Merge()
	if err != nil {
		return err
	}
	a.merge = mc
	return nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// MergeConfig returns the merge configuration.
func (a *App) MergeConfig() merge.Config {
	return a.merge
}

// ProgressEvery returns how many features pass between progress logs.
func (a *App) ProgressEvery() int {
	return a.config.ProgressEvery
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Open opens a county source by id, the combined output by the name
// "combined", or any other name as a dataset path.
func (a *App) Open(name string) (sources.Dataset, error) {
	path := name
	switch id := sources.ID(name); {
	case id == sources.Combined:
		path = a.merge.OutputPath
	case id.IsValid():
		p, ok := a.merge.SourcePaths[id]
		if !ok {
			return nil, errors.NewNotFoundError("source", name)
		}
		path = p
	}
	ds, err := a.open(path)
	if err != nil {
		return nil, errors.NewSourceUnavailableError(name, path, err)
	}
	return ds, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "cannot be nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithOpener replaces how datasets are opened.
func WithOpener(open func(path string) (sources.Dataset, error)) Option {
	return func(a *App) error {
		if open == nil {
			return errors.NewValidationError("opener", nil, "cannot be nil")
		}
		a.open = open
		return nil
	}
}

// WithOutput sends command output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}
