package twominute

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/interp"
)

// Bootstrap window used for years the dither table does not cover.
const (
	bootstrapYearMin = 600
	bootstrapYearMax = 700
)

// DitherPoint is one control point: around Year, dates may be shifted by up
// to MaxJitter years.
type DitherPoint struct {
	Year      int     `yaml:"year"`
	MaxJitter float64 `yaml:"max_jitter"`
}

// DefaultDitherPoints is the historical dither schedule: early dates are
// uncertain by up to 150 years, modern ones not at all.
var DefaultDitherPoints = []DitherPoint{
	{500, 150}, {950, 100}, {1100, 70}, {1200, 50}, {1400, 20},
	{1500, 10}, {1700, 5}, {1800, 2}, {2010, 0},
}

// DitherTable is the dense per-year jitter bound. It is immutable once built.
type DitherTable struct {
	minYear int
	bounds  []int
}

// NewDitherTable interpolates points linearly at every integer year in
// [minYear, maxYear]. Outside the span of the control points the nearest
// end value applies. Points must be sorted by year; when several share a
// year the last of them sets the value there.
func NewDitherTable(points []DitherPoint, minYear, maxYear int) (*DitherTable, error) {
	if len(points) == 0 {
		return nil, &ConfigError{Source: "dither table", Err: ErrNoControlPoints}
	}
	if maxYear < minYear {
		return nil, &ConfigError{Source: "dither table", Err: fmt.Errorf("year range [%d, %d] is empty", minYear, maxYear)}
	}
	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	for i, p := range points {
		if p.MaxJitter < 0 {
			return nil, &ConfigError{Source: "dither table", Err: fmt.Errorf("year %d: negative jitter %v", p.Year, p.MaxJitter)}
		}
		if i > 0 && p.Year < points[i-1].Year {
			return nil, &ConfigError{Source: "dither table", Err: fmt.Errorf("control points out of order at year %d", p.Year)}
		}
		// PiecewiseLinear needs strictly increasing x.
		if i > 0 && p.Year == points[i-1].Year {
			ys[len(ys)-1] = p.MaxJitter
			continue
		}
		xs = append(xs, float64(p.Year))
		ys = append(ys, p.MaxJitter)
	}

	predict := func(float64) float64 { return ys[0] }
	if len(xs) > 1 {
		var pl interp.PiecewiseLinear
		if err := pl.Fit(xs, ys); err != nil {
			return nil, &ConfigError{Source: "dither table", Err: err}
		}
		predict = pl.Predict
	}

	t := &DitherTable{minYear: minYear, bounds: make([]int, maxYear-minYear+1)}
	for i := range t.bounds {
		t.bounds[i] = int(predict(float64(minYear + i)))
	}
	return t, nil
}

// MinYear and MaxYear give the covered range.
func (t *DitherTable) MinYear() int { return t.minYear }
func (t *DitherTable) MaxYear() int { return t.minYear + len(t.bounds) - 1 }

// Bound returns the maximum jitter for year, and false outside the table.
func (t *DitherTable) Bound(year int) (int, bool) {
	i := year - t.minYear
	if i < 0 || i >= len(t.bounds) {
		return 0, false
	}
	return t.bounds[i], true
}

// Jitter returns a dithered version of year. With a bound below 1 the year
// is returned unchanged; otherwise the year moves by a uniform offset in
// [-bound/2, bound-bound/2]. Years outside the table land somewhere in
// [600, 700], i.e. they are treated as very early.
func (t *DitherTable) Jitter(year int, rng *rand.Rand) int {
	bound, ok := t.Bound(year)
	if !ok {
		return bootstrapYearMin + rng.Intn(bootstrapYearMax-bootstrapYearMin+1)
	}
	if bound < 1 {
		return year
	}
	return year - bound/2 + rng.Intn(bound+1)
}
