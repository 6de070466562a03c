package timeseries

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Diff calculates the first difference of the series (d=1).
// The result is one shorter and carries the timestamps of the later points.
func (s *Series) Diff() *Series {
	if len(s.Values) < 2 {
		return &Series{Values: []float64{}, Timestamps: []time.Time{}, Name: s.Name + "_diff"}
	}

	result := make([]float64, len(s.Values)-1)
	for i := 1; i < len(s.Values); i++ {
		result[i-1] = s.Values[i] - s.Values[i-1]
	}

	timestamps := make([]time.Time, len(result))
	if len(s.Timestamps) == len(s.Values) {
		copy(timestamps, s.Timestamps[1:])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     result,
		Name:       s.Name + "_diff",
	}
}

// DiffN applies first differencing d times. DiffN(0) returns a copy.
func (s *Series) DiffN(d int) *Series {
	out := s.Copy()
	for i := 0; i < d; i++ {
		out = out.Diff()
	}
	return out
}

// Integrate undoes a first difference: the result starts at anchor (stamped
// anchorTime) followed by anchor plus the running sum of the values.
func (s *Series) Integrate(anchorTime time.Time, anchor float64) *Series {
	values := make([]float64, len(s.Values)+1)
	values[0] = anchor
	if len(s.Values) > 0 {
		floats.CumSum(values[1:], s.Values)
		floats.AddConst(anchor, values[1:])
	}

	timestamps := make([]time.Time, 0, len(values))
	timestamps = append(timestamps, anchorTime)
	timestamps = append(timestamps, s.Timestamps...)

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name + "_integrated",
	}
}

// Log applies the natural logarithm. It fails with ErrDomain when any value
// is zero or negative.
func (s *Series) Log() (*Series, error) {
	result := make([]float64, len(s.Values))
	for i, v := range s.Values {
		if !(v > 0) {
			at := fmt.Sprintf("position %d", i)
			if i < len(s.Timestamps) {
				at = s.Timestamps[i].Format(time.DateOnly)
			}
			return nil, fmt.Errorf("%w: log of non-positive value %g at %s", ErrDomain, v, at)
		}
		result[i] = math.Log(v)
	}
	return s.derive(result, "_log"), nil
}

// Exp applies the exponential function, the inverse of Log.
func (s *Series) Exp() *Series {
	result := make([]float64, len(s.Values))
	for i, v := range s.Values {
		result[i] = math.Exp(v)
	}
	return s.derive(result, "_exp")
}

// Sub subtracts other position by position. Undefined positions in either
// operand stay undefined.
func (s *Series) Sub(other *Series) (*Series, error) {
	if other.Len() != s.Len() {
		return nil, fmt.Errorf("%w: cannot subtract series of length %d from length %d", ErrMalformedInput, other.Len(), s.Len())
	}
	result := make([]float64, len(s.Values))
	floats.SubTo(result, s.Values, other.Values)
	return s.derive(result, "_minus_"+other.Name), nil
}

// RollingMean calculates a trailing simple moving average with the given
// window. The result has the input's length; the first window-1 positions
// are undefined (NaN).
func (s *Series) RollingMean(window int) (*Series, error) {
	if err := s.checkWindow(window, 1); err != nil {
		return nil, err
	}

	result := make([]float64, len(s.Values))
	sum := 0.0

	for i := 0; i < window-1; i++ {
		sum += s.Values[i]
		result[i] = math.NaN()
	}

	for i := window - 1; i < len(s.Values); i++ {
		sum += s.Values[i]
		result[i] = sum / float64(window)
		sum -= s.Values[i-window+1]
	}

	return s.derive(result, "_rolling_mean"), nil
}

// RollingStd calculates the trailing sample standard deviation over window.
// Like RollingMean, the first window-1 positions are undefined.
func (s *Series) RollingStd(window int) (*Series, error) {
	if err := s.checkWindow(window, 2); err != nil {
		return nil, err
	}

	result := make([]float64, len(s.Values))
	for i := range result {
		if i < window-1 {
			result[i] = math.NaN()
			continue
		}
		result[i] = stat.StdDev(s.Values[i-window+1:i+1], nil)
	}

	return s.derive(result, "_rolling_std"), nil
}

func (s *Series) checkWindow(window, minWindow int) error {
	if window < minWindow {
		return fmt.Errorf("%w: window %d is below the minimum of %d", ErrDomain, window, minWindow)
	}
	if window > len(s.Values) {
		return fmt.Errorf("%w: window %d exceeds series length %d", ErrInsufficientData, window, len(s.Values))
	}
	return nil
}

// EWMA calculates an exponentially weighted moving average parameterised by
// half-life, using adjusted weights: the value at t is the weighted mean of
// all observations up to t with weights (1-alpha)^age, where
// alpha = 1 - exp(ln(0.5)/halflife). NaN inputs are skipped but still age
// the weights of earlier observations.
func (s *Series) EWMA(halflife float64) (*Series, error) {
	if !(halflife > 0) {
		return nil, fmt.Errorf("%w: half-life must be positive, got %g", ErrDomain, halflife)
	}

	decay := math.Exp(math.Log(0.5) / halflife) // 1 - alpha
	result := make([]float64, len(s.Values))
	num, den := 0.0, 0.0

	for i, v := range s.Values {
		num *= decay
		den *= decay
		if !math.IsNaN(v) {
			num += v
			den++
		}
		if den == 0 {
			result[i] = math.NaN()
			continue
		}
		result[i] = num / den
	}

	return s.derive(result, "_ewma"), nil
}
