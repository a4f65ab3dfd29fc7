package report

import (
	"fmt"
	"slices"

	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/schema"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// Bucket is one distinct value and how often it occurs.
type Bucket struct {
	Value schema.Value `json:"value" yaml:"value"`
	Count int          `json:"count" yaml:"count"`
}

// String renders the bucket as "value (count)".
func (b Bucket) String() string {
	return fmt.Sprintf("%s (%d)", b.Value, b.Count)
}

// Histogram counts every distinct value of field over all features and
// returns the buckets sorted by value. Null is a bucket like any other.
func Histogram(ds sources.Dataset, field string) ([]Bucket, error) {
	idx := ds.Schema().Index(field)
	if idx < 0 {
		return nil, errors.NewNotFoundError("field", field)
	}

	// Values are comparable structs, so they key the map directly.
	counts := make(map[schema.Value]int)
	for i := 0; i < ds.Count(); i++ {
		f, err := ds.Feature(i)
		if err != nil {
			return nil, err
		}
		counts[f.Record.At(idx)]++
	}

	out := make([]Bucket, 0, len(counts))
	for v, n := range counts {
		out = append(out, Bucket{Value: v, Count: n})
	}
	slices.SortFunc(out, func(a, b Bucket) int {
		return schema.Compare(a.Value, b.Value)
	})
	return out, nil
}
