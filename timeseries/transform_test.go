package timeseries

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffLinearLogGrowth(t *testing.T) {
	s := New([]float64{0.0, 0.1, 0.2, 0.3})

	diff := s.Diff()
	require.Equal(t, 3, diff.Len())
	for _, v := range diff.Values {
		assert.InDelta(t, 0.1, v, 1e-12)
	}
	assert.Equal(t, s.Timestamps[1:], diff.Timestamps)
}

func TestDiffN(t *testing.T) {
	s := New([]float64{1, 4, 9, 16, 25})

	assert.Equal(t, []float64{1, 4, 9, 16, 25}, s.DiffN(0).Values)
	assert.Equal(t, []float64{3, 5, 7, 9}, s.DiffN(1).Values)
	assert.Equal(t, []float64{2, 2, 2}, s.DiffN(2).Values)
	assert.Equal(t, 0, s.DiffN(5).Len())
}

func TestDiffIntegrateRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for trial := 0; trial < 20; trial++ {
		n := 2 + rng.IntN(60)
		values := make([]float64, n)
		for i := range values {
			values[i] = rng.NormFloat64() * 10
		}
		s := New(values)

		back := s.Diff().Integrate(s.Timestamps[0], s.Values[0])
		require.Equal(t, n, back.Len())
		assert.InDeltaSlice(t, values, back.Values, 1e-9)
		assert.Equal(t, s.Timestamps, back.Timestamps)
	}
}

func TestLogExpRoundTrip(t *testing.T) {
	values := []float64{1e-6, 0.5, 1, 2.5, 1234.5, 1e6}
	s := New(values)

	logged, err := s.Log()
	require.NoError(t, err)

	back := logged.Exp()
	for i, v := range values {
		assert.InEpsilon(t, v, back.Values[i], 1e-12)
	}
}

func TestLogRejectsNonPositive(t *testing.T) {
	for _, bad := range []float64{0, -1, math.NaN()} {
		s := New([]float64{10, bad, 5})
		_, err := s.Log()
		assert.ErrorIs(t, err, ErrDomain, "value %v", bad)
	}
}

func TestRollingDefinedPositions(t *testing.T) {
	values := make([]float64, 37)
	for i := range values {
		values[i] = float64(i%5) + float64(i)/3
	}
	s := New(values)

	for _, w := range []int{2, 3, 10, 37} {
		mean, err := s.RollingMean(w)
		require.NoError(t, err)
		std, err := s.RollingStd(w)
		require.NoError(t, err)

		assert.Equal(t, s.Len(), mean.Len())
		assert.Equal(t, s.Len()-w+1, mean.Defined(), "mean window %d", w)
		assert.Equal(t, s.Len()-w+1, std.Defined(), "std window %d", w)
		for i := 0; i < w-1; i++ {
			assert.True(t, math.IsNaN(mean.Values[i]))
			assert.True(t, math.IsNaN(std.Values[i]))
		}
	}
}

func TestRollingValues(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})

	mean, err := s.RollingMean(3)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 3, 4}, mean.Values[2:], 1e-12)

	std, err := s.RollingStd(3)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1, 1}, std.Values[2:], 1e-12)
}

func TestRollingWindowErrors(t *testing.T) {
	s := New([]float64{1, 2, 3})

	_, err := s.RollingMean(4)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = s.RollingMean(0)
	assert.ErrorIs(t, err, ErrDomain)

	_, err = s.RollingStd(1)
	assert.ErrorIs(t, err, ErrDomain)
}

func TestEWMA(t *testing.T) {
	// Half-life 1 gives decay 0.5: weights 1, 0.5, 0.25 for the newest first.
	s := New([]float64{1, 2, 3})

	ewma, err := s.EWMA(1)
	require.NoError(t, err)

	expected := []float64{
		1,
		(2 + 0.5*1) / 1.5,
		(3 + 0.5*2 + 0.25*1) / 1.75,
	}
	assert.InDeltaSlice(t, expected, ewma.Values, 1e-12)
	assert.Equal(t, s.Len(), ewma.Defined())

	_, err = s.EWMA(0)
	assert.ErrorIs(t, err, ErrDomain)
}

func TestSub(t *testing.T) {
	a := New([]float64{5, 6, 7})
	b := New([]float64{1, math.NaN(), 2})

	out, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, 4.0, out.Values[0])
	assert.True(t, math.IsNaN(out.Values[1]))
	assert.Equal(t, 5.0, out.Values[2])

	_, err = a.Sub(New([]float64{1}))
	assert.ErrorIs(t, err, ErrMalformedInput)
}
