package merge

import (
	"fmt"
	"slices"

	"github.com/agentstation/parcelmerge/pkg/constants"
	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// Config is everything a merge run needs to know about its inputs and
// output.
type Config struct {
	// SourcePaths locates each county dataset.
	SourcePaths map[sources.ID]string

	// OutputPath is the combined dataset. Any existing dataset there is
	// replaced.
	OutputPath string

	// ReferenceSource provides the canonical schema.
	ReferenceSource sources.ID

	// Order is the processing order. Empty means sources.DefaultOrder
	// restricted to the configured sources.
	Order []sources.ID

	// Durable syncs the output to disk after every feature.
	Durable bool
}

// DefaultConfig returns the standard metro configuration.
func DefaultConfig() Config {
	paths := make(map[sources.ID]string, len(sources.IDs()))
	for _, id := range sources.IDs() {
		paths[id] = fmt.Sprintf(constants.DefaultSourcePattern, id)
	}
	return Config{
		SourcePaths:     paths,
		OutputPath:      constants.DefaultOutputPath,
		ReferenceSource: sources.DefaultReference,
		Order:           sources.DefaultOrder(),
	}
}

// order returns the effective processing order.
func (c Config) order() []sources.ID {
	if len(c.Order) > 0 {
		return c.Order
	}
	var out []sources.ID
	for _, id := range sources.DefaultOrder() {
		if _, ok := c.SourcePaths[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Validate checks that the configuration describes a runnable merge.
func (c Config) Validate() error {
	if len(c.SourcePaths) == 0 {
		return errors.NewConfigError("merge", "no sources configured", nil)
	}
	for id, path := range c.SourcePaths {
		if !id.IsValid() {
			return errors.NewConfigError("merge", fmt.Sprintf("unknown source %q", id), nil)
		}
		if path == "" {
			return errors.NewConfigError("merge", fmt.Sprintf("source %s has no path", id), nil)
		}
	}
	if c.OutputPath == "" {
		return errors.NewConfigError("merge", "output path is required", nil)
	}
	if _, ok := c.SourcePaths[c.ReferenceSource]; !ok {
		return errors.NewConfigError("merge",
			fmt.Sprintf("reference source %q is not configured", c.ReferenceSource), nil)
	}

	order := c.order()
	if len(order) != len(c.SourcePaths) {
		return errors.NewConfigError("merge",
			fmt.Sprintf("order %v must list each of the %d configured sources once", order, len(c.SourcePaths)), nil)
	}
	for i, id := range order {
		if _, ok := c.SourcePaths[id]; !ok {
			return errors.NewConfigError("merge", fmt.Sprintf("order names unconfigured source %q", id), nil)
		}
		if slices.Contains(order[:i], id) {
			return errors.NewConfigError("merge", fmt.Sprintf("order lists %q twice", id), nil)
		}
	}
	return nil
}
