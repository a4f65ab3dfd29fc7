// Package application provides the interface parcelmerge commands depend on.
//
// Commands accept this interface rather than the concrete App type so they
// can be tested with Mock:
//
//	mock := &application.Mock{
//	    OpenFunc: func(name string) (sources.Dataset, error) {
//	        return featurestore.NewMemory(name, s, features...), nil
//	    },
//	}
//	cmd := values.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/parcelmerge/pkg/merge"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// Application provides what commands need from the app.
type Application interface {
	// MergeConfig returns the merge configuration built from config file,
	// environment and flags.
	MergeConfig() merge.Config

	// ProgressEvery returns how many features pass between progress logs.
	ProgressEvery() int

	// Open opens a dataset by source id, "combined" for the merge output,
	// or a file path.
	Open(name string) (sources.Dataset, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string
}
