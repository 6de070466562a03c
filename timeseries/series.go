// Package timeseries provides core time series data structures and operations.
package timeseries

import (
	"fmt"
	"math"
	"time"

	"github.com/montanaflynn/stats"
)

// Series represents a time series with timestamps and values.
// Undefined positions (rolling warm-up, for example) hold NaN.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

// epoch anchors the synthetic monthly index used by New.
var epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// New creates a new time series from values, stamped monthly from a fixed
// epoch so that results do not depend on the wall clock.
func New(values []float64) *Series {
	timestamps := make([]time.Time, len(values))
	for i := range timestamps {
		timestamps[i] = epoch.AddDate(0, i, 0)
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}
}

// NewWithTimestamps creates a time series with explicit timestamps.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, fmt.Errorf("%w: %d timestamps for %d values", ErrMalformedInput, len(timestamps), len(values))
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// NewProduction creates a validated production series. Dates must be
// strictly increasing and rates finite and non-negative.
func NewProduction(dates []time.Time, rates []float64) (*Series, error) {
	s, err := NewWithTimestamps(dates, rates)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.Name = "production"
	return s, nil
}

// Validate checks the production invariants: strictly increasing dates and
// finite, non-negative values.
func (s *Series) Validate() error {
	if len(s.Timestamps) != len(s.Values) {
		return fmt.Errorf("%w: %d timestamps for %d values", ErrMalformedInput, len(s.Timestamps), len(s.Values))
	}
	for i, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite rate at position %d", ErrMalformedInput, i)
		}
		if v < 0 {
			return fmt.Errorf("%w: negative rate %g at %s", ErrMalformedInput, v, s.Timestamps[i].Format(time.DateOnly))
		}
		if i > 0 && !s.Timestamps[i].After(s.Timestamps[i-1]) {
			return fmt.Errorf("%w: date %s does not follow %s", ErrMalformedInput,
				s.Timestamps[i].Format(time.DateOnly), s.Timestamps[i-1].Format(time.DateOnly))
		}
	}
	return nil
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	mean, err := stats.Mean(s.Values)
	if err != nil {
		return 0
	}
	return mean
}

// Variance calculates the sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	v, err := stats.SampleVariance(s.Values)
	if err != nil {
		return 0
	}
	return v
}

// Std calculates the sample standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	min, err := stats.Min(s.Values)
	if err != nil {
		return math.NaN()
	}
	return min
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	max, err := stats.Max(s.Values)
	if err != nil {
		return math.NaN()
	}
	return max
}

// Median returns the median value of the series.
func (s *Series) Median() float64 {
	median, err := stats.Median(s.Values)
	if err != nil {
		return math.NaN()
	}
	return median
}

// Summary holds descriptive statistics of a series.
type Summary struct {
	Count  int       `json:"count"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Mean   float64   `json:"mean"`
	Median float64   `json:"median"`
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	Std    float64   `json:"std"`
}

// Describe returns descriptive statistics of the series.
func (s *Series) Describe() Summary {
	sum := Summary{
		Count:  s.Len(),
		Mean:   s.Mean(),
		Median: s.Median(),
		Min:    s.Min(),
		Max:    s.Max(),
		Std:    s.Std(),
	}
	if len(s.Timestamps) > 0 {
		sum.Start = s.Timestamps[0]
		sum.End = s.Timestamps[len(s.Timestamps)-1]
	}
	return sum
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}, Timestamps: []time.Time{}, Name: s.Name}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	timestamps := make([]time.Time, len(values))
	if len(s.Timestamps) >= end {
		copy(timestamps, s.Timestamps[start:end])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Defined returns the number of positions holding a value other than NaN.
func (s *Series) Defined() int {
	n := 0
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// DropUndefined returns a copy of the series without NaN positions.
func (s *Series) DropUndefined() *Series {
	values := make([]float64, 0, len(s.Values))
	timestamps := make([]time.Time, 0, len(s.Values))
	for i, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		values = append(values, v)
		if i < len(s.Timestamps) {
			timestamps = append(timestamps, s.Timestamps[i])
		}
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// derive builds a series sharing s's timestamps with new values.
func (s *Series) derive(values []float64, suffix string) *Series {
	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)
	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name + suffix,
	}
}
