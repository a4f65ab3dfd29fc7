package report

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/agentstation/parcelmerge/pkg/constants"
	"github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// Estimator selects how quantiles between two observations are computed.
type Estimator string

// Quantile estimators.
const (
	// Linear interpolates between the closest ranks (Hyndman and Fan type
	// 7), the common default of numeric libraries.
	Linear Estimator = "linear"

	// LinInterp is gonum's piecewise linear estimator (Hyndman and Fan
	// type 4).
	LinInterp Estimator = "lininterp"

	// Empirical returns an observed value, never an interpolation.
	Empirical Estimator = "empirical"
)

// ParseEstimator parses an estimator name.
func ParseEstimator(s string) (Estimator, error) {
	switch e := Estimator(s); e {
	case Linear, LinInterp, Empirical:
		return e, nil
	default:
		return "", errors.NewValidationError("estimator", s, "expected linear, lininterp or empirical")
	}
}

// quantile returns the p-quantile, p in [0,1], of sorted data.
func (e Estimator) quantile(p float64, sorted []float64) float64 {
	p = math.Max(0, math.Min(1, p))
	switch e {
	case LinInterp:
		return stat.Quantile(p, stat.LinInterp, sorted, nil)
	case Empirical:
		return stat.Quantile(p, stat.Empirical, sorted, nil)
	default:
		h := p * float64(len(sorted)-1)
		lo := math.Floor(h)
		i := int(lo)
		if i+1 >= len(sorted) {
			return sorted[len(sorted)-1]
		}
		return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
	}
}

// Quantile is one class break.
type Quantile struct {
	// Percent is the percentile rank, 0 to 100.
	Percent float64 `json:"percent" yaml:"percent"`

	// Value is the percentile of the filtered values.
	Value float64 `json:"value" yaml:"value"`

	// Threshold is the class lower bound. The first class starts at zero.
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// Level is the one-based style level of the class.
	Level int `json:"level" yaml:"level"`
}

// Distribution summarizes the values of a numeric field that fall inside
// (Floor, Ceiling].
type Distribution struct {
	Field     string     `json:"field" yaml:"field"`
	Floor     float64    `json:"floor" yaml:"floor"`
	Ceiling   float64    `json:"ceiling" yaml:"ceiling"`
	Count     int        `json:"count" yaml:"count"`
	Min       float64    `json:"min" yaml:"min"`
	Max       float64    `json:"max" yaml:"max"`
	Median    float64    `json:"median" yaml:"median"`
	Mean      float64    `json:"mean" yaml:"mean"`
	Quantiles []Quantile `json:"quantiles" yaml:"quantiles"`
}

// Empty reports whether no value fell inside the range.
func (d *Distribution) Empty() bool { return d.Count == 0 }

// Rules renders the class breaks as CartoCSS filters, one per quantile.
func (d *Distribution) Rules() []string {
	out := make([]string, len(d.Quantiles))
	for i, q := range d.Quantiles {
		out[i] = fmt.Sprintf("    [%s > %s] { polygon-fill: @level%d; }",
			d.Field, strconv.FormatFloat(q.Threshold, 'f', -1, 64), q.Level)
	}
	return out
}

type distOptions struct {
	floor     float64
	ceiling   float64
	intervals int
	estimator Estimator
}

// DistributionOption configures Distribution.
type DistributionOption func(*distOptions) error

// WithRange keeps values v with floor < v <= ceiling.
func WithRange(floor, ceiling float64) DistributionOption {
	return func(o *distOptions) error {
		if !(floor < ceiling) {
			return errors.NewValidationError("range", [2]float64{floor, ceiling}, "floor must be below ceiling")
		}
		o.floor, o.ceiling = floor, ceiling
		return nil
	}
}

// WithIntervals sets the number of equal percentile intervals.
func WithIntervals(n int) DistributionOption {
	return func(o *distOptions) error {
		if n < 1 {
			return errors.NewValidationError("intervals", n, "must be at least 1")
		}
		o.intervals = n
		return nil
	}
}

// WithEstimator sets the quantile estimator.
func WithEstimator(e Estimator) DistributionOption {
	return func(o *distOptions) error {
		if _, err := ParseEstimator(string(e)); err != nil {
			return err
		}
		o.estimator = e
		return nil
	}
}

// ComputeDistribution collects the numeric values of field within range
// (0, 1,000,000] by default and computes min, max, median and the
// intervals+1 class breaks at k*(100/intervals) percent. An empty selection
// is not an error; the result reports Empty.
func ComputeDistribution(ds sources.Dataset, field string, opts ...DistributionOption) (*Distribution, error) {
	o := &distOptions{
		floor:     0,
		ceiling:   constants.DistributionCeiling,
		intervals: constants.DistributionIntervals,
		estimator: Linear,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	idx := ds.Schema().Index(field)
	if idx < 0 {
		return nil, errors.NewNotFoundError("field", field)
	}

	var values []float64
	for i := 0; i < ds.Count(); i++ {
		f, err := ds.Feature(i)
		if err != nil {
			return nil, err
		}
		v, ok := f.Record.At(idx).Float()
		if !ok || v <= o.floor || v > o.ceiling {
			continue
		}
		values = append(values, v)
	}

	d := &Distribution{Field: field, Floor: o.floor, Ceiling: o.ceiling, Count: len(values)}
	if len(values) == 0 {
		return d, nil
	}
	sort.Float64s(values)

	d.Min = floats.Min(values)
	d.Max = floats.Max(values)
	d.Mean = stat.Mean(values, nil)
	d.Median = o.estimator.quantile(0.5, values)

	step := 100 / float64(o.intervals)
	for k := 0; k <= o.intervals; k++ {
		pct := step * float64(k)
		q := Quantile{Percent: pct, Value: o.estimator.quantile(pct/100, values), Level: k + 1}
		if k > 0 {
			q.Threshold = q.Value
		}
		d.Quantiles = append(d.Quantiles, q)
	}
	return d, nil
}
