package arima

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/welldecline/timeseries"
)

// errNotFitted is returned by operations that need estimated parameters.
var errNotFitted = errors.New("arima: model must be fitted first")

// Forecast holds out-of-sample predictions on the scale of the fitted series.
type Forecast struct {
	Mean       []float64 `json:"mean"`
	Lower      []float64 `json:"lower"`
	Upper      []float64 `json:"upper"`
	StdErr     []float64 `json:"std_err"`
	Confidence float64   `json:"confidence"`
}

// Predict generates point forecasts for the specified number of steps ahead.
func (m *Model) Predict(steps int) ([]float64, error) {
	fc, err := m.Forecast(steps, 0.95)
	if err != nil {
		return nil, err
	}
	return fc.Mean, nil
}

// Forecast predicts steps values past the end of the fitted series with
// prediction intervals at the given confidence (for example 0.95). The
// differenced forecasts are integrated back to the undifferenced scale, and
// the interval widths come from the psi weights of the integrated model.
func (m *Model) Forecast(steps int, confidence float64) (*Forecast, error) {
	if !m.fitted {
		return nil, errNotFitted
	}
	if steps < 1 {
		return nil, fmt.Errorf("%w: steps must be at least 1, got %d", timeseries.ErrDomain, steps)
	}
	if confidence <= 0 || confidence >= 1 {
		return nil, fmt.Errorf("%w: confidence must be in (0, 1), got %g", timeseries.ErrDomain, confidence)
	}

	p := m.Order.P
	q := m.Order.Q

	// Get the differenced series and residuals
	y := m.diffData.Values
	n := len(y)

	// Extended arrays for forecasting
	extY := make([]float64, n+steps)
	copy(extY, y)

	extResiduals := make([]float64, n+steps)
	copy(extResiduals, m.residuals)

	for h := 0; h < steps; h++ {
		t := n + h
		pred := m.Intercept

		// AR component
		for i := 0; i < p && t-i-1 >= 0; i++ {
			pred += m.ARCoeffs[i] * (extY[t-i-1] - m.Intercept)
		}

		// MA component (future residuals are 0)
		for i := 0; i < q && t-i-1 >= 0; i++ {
			pred += m.MACoeffs[i] * extResiduals[t-i-1]
		}

		extY[t] = pred
	}

	mean := m.integrate(extY[n:])

	psi := psiWeights(m.integratedAR(), m.MACoeffs, steps)
	z := distuv.UnitNormal.Quantile(0.5 + confidence/2)

	fc := &Forecast{
		Mean:       mean,
		Lower:      make([]float64, steps),
		Upper:      make([]float64, steps),
		StdErr:     make([]float64, steps),
		Confidence: confidence,
	}
	cum := 0.0
	for h := 0; h < steps; h++ {
		cum += psi[h] * psi[h]
		se := math.Sqrt(m.Variance * cum)
		fc.StdErr[h] = se
		fc.Lower[h] = mean[h] - z*se
		fc.Upper[h] = mean[h] + z*se
	}

	return fc, nil
}

// integrate undoes d differences of forecasts using the last observation of
// each intermediate differencing level.
func (m *Model) integrate(forecasts []float64) []float64 {
	result := make([]float64, len(forecasts))
	copy(result, forecasts)

	for level := m.Order.D - 1; level >= 0; level-- {
		base := m.data.DiffN(level).Values
		last := base[len(base)-1]
		for j := range result {
			last += result[j]
			result[j] = last
		}
	}

	return result
}

// integratedAR returns the AR coefficients of phi(B)(1-B)^d written as
// 1 - a_1 B - ... - a_{p+d} B^{p+d}.
func (m *Model) integratedAR() []float64 {
	poly := make([]float64, 1+m.Order.P)
	poly[0] = 1
	for i, v := range m.ARCoeffs {
		poly[i+1] = -v
	}
	for k := 0; k < m.Order.D; k++ {
		next := make([]float64, len(poly)+1)
		for i, c := range poly {
			next[i] += c
			next[i+1] -= c
		}
		poly = next
	}

	out := make([]float64, len(poly)-1)
	for i := range out {
		out[i] = -poly[i+1]
	}
	return out
}

// psiWeights returns the first n coefficients of the MA(infinity)
// representation psi(B) = theta(B) / a(B).
func psiWeights(ar, ma []float64, n int) []float64 {
	psi := make([]float64, n)
	psi[0] = 1
	for j := 1; j < n; j++ {
		v := 0.0
		if j <= len(ma) {
			v = ma[j-1]
		}
		for i := 1; i <= min(j, len(ar)); i++ {
			v += ar[i-1] * psi[j-i]
		}
		psi[j] = v
	}
	return psi
}
