package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/merge"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
type Mock struct {
	MergeConfigFunc   func() merge.Config
	ProgressEveryFunc func() int
	OpenFunc          func(name string) (sources.Dataset, error)
	LoggerFunc        func() *zerolog.Logger
	OutputFormatFunc  func() string
	VersionFunc       func() string
}

// MergeConfig returns the mock configuration or merge.DefaultConfig.
func (m *Mock) MergeConfig() merge.Config {
	if m.MergeConfigFunc != nil {
		return m.MergeConfigFunc()
	}
	return merge.DefaultConfig()
}

// ProgressEvery returns the mock interval or 0.
func (m *Mock) ProgressEvery() int {
	if m.ProgressEveryFunc != nil {
		return m.ProgressEveryFunc()
	}
	return 0
}

// Open returns the mock dataset or a not found error.
func (m *Mock) Open(name string) (sources.Dataset, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(name)
	}
	return nil, errors.NewNotFoundError("dataset", name)
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the mock format or "json".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// Version returns the mock version or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

var _ Application = (*Mock)(nil)
