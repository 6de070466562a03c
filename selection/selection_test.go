package selection

import (
	"context"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sartorproj/welldecline/arima"
	"github.com/sartorproj/welldecline/stats"
	"github.com/sartorproj/welldecline/timeseries"
)

func declineLog(seed uint64, n int) *timeseries.Series {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	values := make([]float64, n)
	level := math.Log(800)
	shock := 0.0
	for i := range values {
		e := 0.04 * rng.NormFloat64()
		level += -0.02 + e + 0.3*shock
		shock = e
		values[i] = level
	}
	return timeseries.New(values)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, []arima.Order{{P: 2, D: 1}, {D: 1, Q: 2}, {P: 2, D: 1, Q: 2}}, config.Candidates)
	assert.Equal(t, 1, config.Parallelism)
	assert.Equal(t, arima.DefaultMaxIterations, config.MaxIterations)

	config.Candidates[0] = arima.Order{}
	assert.Equal(t, arima.Order{P: 2, D: 1}, DefaultCandidates[0], "config must not alias the defaults")
}

func TestCompareSelectsMinimalRSS(t *testing.T) {
	series := declineLog(1, 120)

	result, err := Compare(context.Background(), series, nil)
	require.NoError(t, err)
	require.Len(t, result.Candidates, 3)
	assert.Equal(t, 3, result.ModelsEvaluated)

	for i, c := range result.Candidates {
		assert.Equal(t, DefaultCandidates[i], c.Order)
		require.NoError(t, c.Err())
		assert.Empty(t, c.Error)
		assert.GreaterOrEqual(t, c.RSS, result.BestRSS)
		require.NotNil(t, c.Summary)
	}

	assert.Equal(t, result.Candidates[result.BestIndex].Order, result.BestOrder)
	assert.Equal(t, result.BestOrder, result.Best.Order)
	assert.Equal(t, result.Best.RSS(), result.BestRSS)

	forecasts, err := result.Predict(6)
	require.NoError(t, err)
	assert.Len(t, forecasts, 6)
	assert.Len(t, result.Residuals(), series.Len()-1)
}

func TestCompareIsDeterministic(t *testing.T) {
	series := declineLog(2, 90)
	ctx := context.Background()

	first, err := Compare(ctx, series, DefaultConfig())
	require.NoError(t, err)

	for run := 0; run < 3; run++ {
		again, err := Compare(ctx, series, DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, first.BestOrder, again.BestOrder)
		assert.Equal(t, first.BestRSS, again.BestRSS)
	}

	parallel := DefaultConfig()
	parallel.Parallelism = 3
	concurrent, err := Compare(ctx, series, parallel)
	require.NoError(t, err)
	assert.Equal(t, first.BestOrder, concurrent.BestOrder)
	assert.Equal(t, first.BestIndex, concurrent.BestIndex)
	for i := range first.Candidates {
		assert.Equal(t, first.Candidates[i].RSS, concurrent.Candidates[i].RSS)
	}
}

func TestCompareTieGoesToEarliest(t *testing.T) {
	config := DefaultConfig()
	config.Candidates = []arima.Order{{D: 1}, {D: 1}}

	result, err := Compare(context.Background(), declineLog(3, 40), config)
	require.NoError(t, err)
	assert.Equal(t, 0, result.BestIndex)
	assert.Equal(t, result.Candidates[0].RSS, result.Candidates[1].RSS)
}

func TestCompareSkipsFailedCandidate(t *testing.T) {
	series := timeseries.New([]float64{6.9, 6.8, 6.75, 6.6, 6.58, 6.5})
	config := DefaultConfig()
	config.Candidates = []arima.Order{{P: 2, D: 1, Q: 2}, {D: 1}}

	result, err := Compare(context.Background(), series, config)
	require.NoError(t, err)
	assert.Equal(t, 1, result.BestIndex)
	assert.Equal(t, 1, result.ModelsEvaluated)

	failed := result.Candidates[0]
	assert.ErrorIs(t, failed.Err(), timeseries.ErrInsufficientData)
	assert.Contains(t, failed.Error, "ARIMA(2,1,2)")
	assert.Nil(t, failed.Model)
}

func TestCompareAllCandidatesFail(t *testing.T) {
	series := timeseries.New([]float64{6.9, 6.8, 6.75, 6.6})

	_, err := Compare(context.Background(), series, nil)
	assert.ErrorIs(t, err, arima.ErrFit)
	assert.ErrorIs(t, err, timeseries.ErrInsufficientData)
}

func TestCompareCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Compare(ctx, declineLog(4, 60), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompareLogsSelection(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	config := DefaultConfig()
	config.Logger = zap.New(core)

	result, err := Compare(context.Background(), declineLog(5, 80), config)
	require.NoError(t, err)

	assert.Equal(t, 3, logs.FilterMessage("candidate fitted").Len())
	selected := logs.FilterMessage("selected model").All()
	require.Len(t, selected, 1)
	assert.Equal(t, zapcore.InfoLevel, selected[0].Level)
	assert.Equal(t, result.BestOrder.String(), selected[0].ContextMap()["order"])
}

func TestResultWithoutModel(t *testing.T) {
	var r Result
	_, err := r.Predict(3)
	assert.ErrorIs(t, err, arima.ErrFit)
	assert.Nil(t, r.Residuals())
}

func TestSuggestOrder(t *testing.T) {
	tests := []struct {
		name     string
		pacf     []int
		acf      []int
		maxOrder int
		wantP    int
		wantQ    int
		orders   []arima.Order
	}{
		{
			name:   "ar and ma cut-offs",
			pacf:   []int{1, 2, 5},
			acf:    []int{1},
			wantP:  2,
			wantQ:  1,
			orders: []arima.Order{{P: 2, D: 1}, {D: 1, Q: 1}, {P: 2, D: 1, Q: 1}},
		},
		{
			name:   "white noise",
			orders: []arima.Order{{D: 1}},
		},
		{
			name:     "capped",
			pacf:     []int{1, 2, 3, 4, 5},
			maxOrder: 2,
			wantP:    2,
			orders:   []arima.Order{{P: 2, D: 1}, {D: 1}},
		},
		{
			name:   "no leading run",
			pacf:   []int{2, 3},
			acf:    []int{1, 2},
			wantQ:  2,
			orders: []arima.Order{{D: 1}, {D: 1, Q: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &stats.Profile{PACFSignif: tt.pacf, ACFSignif: tt.acf}
			s := SuggestOrder(profile, 1, tt.maxOrder)
			assert.Equal(t, tt.wantP, s.P)
			assert.Equal(t, tt.wantQ, s.Q)
			assert.Equal(t, tt.orders, s.Orders)
		})
	}
}
