package stats

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/welldecline/timeseries"
)

func whiteNoise(rng *rand.Rand, n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = rng.NormFloat64()
	}
	return values
}

func randomWalk(rng *rand.Rand, n int) []float64 {
	values := make([]float64, n)
	for i := 1; i < n; i++ {
		values[i] = values[i-1] + rng.NormFloat64()
	}
	return values
}

func ar1(rng *rand.Rand, n int, phi float64) []float64 {
	values := make([]float64, n)
	for i := 1; i < n; i++ {
		values[i] = phi*values[i-1] + rng.NormFloat64()
	}
	return values
}

func TestACF(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	series := timeseries.New(ar1(rng, 300, 0.8))

	acf, err := ACF(series, 10)
	require.NoError(t, err)
	require.Len(t, acf, 11)

	assert.Equal(t, 1.0, acf[0])
	for k, v := range acf {
		assert.LessOrEqual(t, math.Abs(v), 1.0, "lag %d", k)
	}
	assert.Greater(t, acf[1], 0.6)
	assert.Greater(t, acf[1], acf[5])
}

func TestACFErrors(t *testing.T) {
	_, err := ACF(timeseries.New([]float64{3, 3, 3, 3, 3, 3}), 2)
	assert.ErrorIs(t, err, timeseries.ErrDomain)

	_, err = ACF(timeseries.New([]float64{1, 2, 3}), 2)
	assert.ErrorIs(t, err, timeseries.ErrInsufficientData)

	_, err = ACF(timeseries.New([]float64{1, 2, 3, 4}), -1)
	assert.ErrorIs(t, err, timeseries.ErrDomain)
}

func TestPACFAR1(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	series := timeseries.New(ar1(rng, 500, 0.7))

	pacf, err := PACF(series, 5)
	require.NoError(t, err)
	require.Len(t, pacf, 6)

	assert.Equal(t, 1.0, pacf[0])
	assert.InDelta(t, 0.7, pacf[1], 0.1)
	for k := 2; k <= 5; k++ {
		assert.Less(t, math.Abs(pacf[k]), 0.2, "lag %d", k)
	}

	yw, err := PACFYuleWalker(series, 5)
	require.NoError(t, err)
	assert.InDelta(t, pacf[1], yw[1], 0.05)
}

func TestPACFCommonSample(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	x := ar1(rng, 40, 0.5)
	const maxLag = 3

	pacf, err := PACF(timeseries.New(x), maxLag)
	require.NoError(t, err)

	rows := make([][]float64, 0, len(x)-maxLag)
	for i := maxLag; i < len(x); i++ {
		rows = append(rows, []float64{1, x[i-1]})
	}
	fit, err := olsRegression(rows, x[maxLag:])
	require.NoError(t, err)
	assert.InDelta(t, fit.Coeffs[1], pacf[1], 1e-12)
}

func TestPACFConstantSeries(t *testing.T) {
	_, err := PACF(timeseries.New([]float64{2, 2, 2, 2, 2, 2, 2, 2}), 2)
	assert.Error(t, err)
}

func TestConfidenceBound(t *testing.T) {
	assert.InDelta(t, 0.196, ConfidenceBound(100), 1e-12)
}

func TestSignificantLags(t *testing.T) {
	values := []float64{1.0, 0.5, 0.3, 0.1, 0.05, -0.2, -0.5}

	assert.Equal(t, []int{1, 2, 5, 6}, SignificantLags(values, 0.15))
	assert.Empty(t, SignificantLags(values, 0.9))
}

func TestAutocorrelationProfile(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	series := timeseries.New(ar1(rng, 200, 0.6))

	profile, err := Autocorrelation(series, 5)
	require.NoError(t, err)

	assert.Equal(t, 5, profile.MaxLag)
	assert.Equal(t, 200, profile.NObs)
	assert.Len(t, profile.ACF, 6)
	assert.Len(t, profile.PACF, 6)
	assert.InDelta(t, 1.96/math.Sqrt(200), profile.ConfBound, 1e-12)
	assert.Contains(t, profile.ACFSignif, 1)
	assert.Contains(t, profile.PACFSignif, 1)
}

func TestADFWhiteNoise(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))

	rejected := 0
	trials := 50
	for trial := 0; trial < trials; trial++ {
		result, err := ADF(timeseries.New(whiteNoise(rng, 200)), DefaultADFOptions())
		require.NoError(t, err)
		if result.PValue < 0.05 {
			rejected++
		}
	}

	assert.GreaterOrEqual(t, rejected, trials*8/10)
}

func TestADFRandomWalk(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))

	rejected := 0
	trials := 40
	for trial := 0; trial < trials; trial++ {
		result, err := ADF(timeseries.New(randomWalk(rng, 200)), DefaultADFOptions())
		require.NoError(t, err)
		if result.Stationary(0.05) {
			rejected++
		}
	}

	assert.LessOrEqual(t, rejected, trials*3/10)
}

func TestADFResultFields(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 2))
	n := 120
	result, err := ADF(timeseries.New(whiteNoise(rng, n)), DefaultADFOptions())
	require.NoError(t, err)

	maxLag := int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	assert.LessOrEqual(t, result.Lags, maxLag)
	assert.Equal(t, n-1-result.Lags, result.NObs)
	assert.Equal(t, RegressionConstant, result.Regression)

	require.Contains(t, result.CriticalVals, "1%")
	require.Contains(t, result.CriticalVals, "5%")
	require.Contains(t, result.CriticalVals, "10%")
	assert.Less(t, result.CriticalVals["1%"], result.CriticalVals["5%"])
	assert.Less(t, result.CriticalVals["5%"], result.CriticalVals["10%"])
	assert.GreaterOrEqual(t, result.PValue, 0.0)
	assert.LessOrEqual(t, result.PValue, 1.0)
}

func TestADFFixedLag(t *testing.T) {
	rng := rand.New(rand.NewPCG(4, 5))
	opts := ADFOptions{MaxLag: 3, Regression: RegressionConstantTrend, Autolag: AutolagNone}

	result, err := ADF(timeseries.New(whiteNoise(rng, 100)), opts)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Lags)
	assert.Equal(t, 96, result.NObs)
	assert.Equal(t, RegressionConstantTrend, result.Regression)
}

func TestADFErrors(t *testing.T) {
	_, err := ADF(timeseries.New([]float64{1, 2, 3}), DefaultADFOptions())
	assert.ErrorIs(t, err, timeseries.ErrInsufficientData)

	opts := DefaultADFOptions()
	opts.Regression = "quadratic"
	_, err = ADF(timeseries.New(whiteNoise(rand.New(rand.NewPCG(1, 1)), 50)), opts)
	assert.ErrorIs(t, err, timeseries.ErrDomain)

	opts = DefaultADFOptions()
	opts.MaxLag = 40
	_, err = ADF(timeseries.New(whiteNoise(rand.New(rand.NewPCG(1, 1)), 50)), opts)
	assert.ErrorIs(t, err, timeseries.ErrInsufficientData)
}

func TestMackinnonPValue(t *testing.T) {
	// The 5% asymptotic critical value maps back to p close to 0.05.
	assert.InDelta(t, 0.05, mackinnonPValue(-2.86154, RegressionConstant), 0.005)
	assert.InDelta(t, 0.01, mackinnonPValue(-3.43035, RegressionConstant), 0.003)

	assert.Equal(t, 1.0, mackinnonPValue(5, RegressionConstant))
	assert.Equal(t, 0.0, mackinnonPValue(-25, RegressionConstant))

	prev := 0.0
	for stat := -6.0; stat <= 2.0; stat += 0.25 {
		p := mackinnonPValue(stat, RegressionConstant)
		assert.GreaterOrEqual(t, p, prev, "p-value must not decrease at %f", stat)
		prev = p
	}
}

func TestMackinnonCriticalValues(t *testing.T) {
	cv := mackinnonCriticalValues(RegressionConstant, 100000)
	assert.InDelta(t, -3.43, cv["1%"], 0.01)
	assert.InDelta(t, -2.86, cv["5%"], 0.01)
	assert.InDelta(t, -2.57, cv["10%"], 0.01)

	small := mackinnonCriticalValues(RegressionConstant, 50)
	assert.Less(t, small["5%"], cv["5%"])
}

func TestOLSRegression(t *testing.T) {
	rng := rand.New(rand.NewPCG(6, 6))
	n := 200
	rows := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i) / 10
		rows[i] = []float64{1, x}
		y[i] = 2 + 3*x + 0.1*rng.NormFloat64()
	}

	fit, err := olsRegression(rows, y)
	require.NoError(t, err)
	assert.InDelta(t, 2, fit.Coeffs[0], 0.1)
	assert.InDelta(t, 3, fit.Coeffs[1], 0.01)
	assert.Equal(t, n, fit.NObs)
	assert.Equal(t, 2, fit.K)
	assert.Greater(t, fit.TStat(1), 100.0)
	assert.Less(t, fit.AIC(), fit.BIC())
}

func TestKPSSLevelAndTrend(t *testing.T) {
	rng := rand.New(rand.NewPCG(8, 1))

	kept := 0
	for trial := 0; trial < 20; trial++ {
		result, err := KPSS(timeseries.New(whiteNoise(rng, 200)), RegressionConstant, 0)
		require.NoError(t, err)
		if result.Stationary(0.05) {
			kept++
		}
	}
	assert.GreaterOrEqual(t, kept, 15)

	trend := make([]float64, 200)
	for i := range trend {
		trend[i] = float64(i)*0.5 + rng.NormFloat64()
	}
	result, err := KPSS(timeseries.New(trend), RegressionConstant, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.01, result.PValue)
	assert.False(t, result.Stationary(0.05))

	detrended, err := KPSS(timeseries.New(trend), RegressionConstantTrend, 0)
	require.NoError(t, err)
	assert.Less(t, detrended.Statistic, result.Statistic)
}

func TestKPSSErrors(t *testing.T) {
	_, err := KPSS(timeseries.New([]float64{1, 2, 3}), RegressionConstant, 0)
	assert.ErrorIs(t, err, timeseries.ErrInsufficientData)

	_, err = KPSS(timeseries.New(whiteNoise(rand.New(rand.NewPCG(1, 1)), 30)), "n", 0)
	assert.ErrorIs(t, err, timeseries.ErrDomain)
}

func TestKPSSPValueInterpolation(t *testing.T) {
	table := kpssTable[RegressionConstant]
	assert.Equal(t, 0.10, kpssPValue(0.1, table))
	assert.Equal(t, 0.01, kpssPValue(2, table))
	assert.InDelta(t, 0.05, kpssPValue(table[1], table), 1e-12)
	assert.InDelta(t, 0.075, kpssPValue((table[0]+table[1])/2, table), 1e-12)
}

func TestLjungBox(t *testing.T) {
	rng := rand.New(rand.NewPCG(10, 20))

	kept := 0
	for trial := 0; trial < 20; trial++ {
		result, err := LjungBox(timeseries.New(whiteNoise(rng, 150)), 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 10, result.DOF)
		if result.WhiteNoise(0.05) {
			kept++
		}
	}
	assert.GreaterOrEqual(t, kept, 15)

	result, err := LjungBox(timeseries.New(ar1(rng, 200, 0.8)), 10, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, result.DOF)
	assert.Less(t, result.PValue, 0.01)
}

func TestLjungBoxErrors(t *testing.T) {
	_, err := LjungBox(timeseries.New([]float64{1, 2, 3}), 2, 0)
	assert.ErrorIs(t, err, timeseries.ErrInsufficientData)

	_, err = LjungBox(timeseries.New(whiteNoise(rand.New(rand.NewPCG(1, 1)), 30)), 0, 0)
	assert.ErrorIs(t, err, timeseries.ErrDomain)
}

func TestDurbinWatson(t *testing.T) {
	dw, err := DurbinWatson([]float64{1, -1, 1, -1})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, dw, 1e-12)

	dw, err = DurbinWatson([]float64{1, 1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, dw)

	_, err = DurbinWatson([]float64{0, 0, 0})
	assert.ErrorIs(t, err, timeseries.ErrDomain)

	_, err = DurbinWatson([]float64{1})
	assert.ErrorIs(t, err, timeseries.ErrInsufficientData)
}
