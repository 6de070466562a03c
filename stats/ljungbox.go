package stats

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/welldecline/timeseries"
)

// LjungBoxResult represents the result of a Ljung-Box test.
type LjungBoxResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Lags      int     `json:"lags"`
	DOF       int     `json:"dof"` // Degrees of freedom
}

// WhiteNoise reports whether the no-autocorrelation null survives at alpha.
func (r *LjungBoxResult) WhiteNoise(alpha float64) bool {
	return r.PValue >= alpha
}

// LjungBox performs the Ljung-Box test for autocorrelation in residuals.
// The null hypothesis is that there is no autocorrelation up to lag h.
// fitdf is the number of parameters estimated in the model (p + q for ARIMA).
// Lags are clipped to n-2.
func LjungBox(series *timeseries.Series, lags, fitdf int) (*LjungBoxResult, error) {
	n := series.Len()
	if n < 10 {
		return nil, fmt.Errorf("%w: Ljung-Box needs at least 10 observations, got %d", timeseries.ErrInsufficientData, n)
	}
	if lags < 1 {
		return nil, fmt.Errorf("%w: Ljung-Box lags must be positive, got %d", timeseries.ErrDomain, lags)
	}
	lags = min(lags, n-2)

	acf, err := ACF(series, lags)
	if err != nil {
		return nil, err
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += (acf[k] * acf[k]) / float64(n-k)
	}
	q *= float64(n * (n + 2))

	dof := max(lags-fitdf, 1)
	chi := distuv.ChiSquared{K: float64(dof)}

	return &LjungBoxResult{
		Statistic: q,
		PValue:    chi.Survival(q),
		Lags:      lags,
		DOF:       dof,
	}, nil
}

// DurbinWatson calculates the Durbin-Watson statistic for first-order
// autocorrelation. Values near 2 indicate none, below 2 positive and above
// 2 negative autocorrelation.
func DurbinWatson(residuals []float64) (float64, error) {
	n := len(residuals)
	if n < 2 {
		return 0, fmt.Errorf("%w: Durbin-Watson needs at least 2 residuals", timeseries.ErrInsufficientData)
	}

	numerator := 0.0
	denominator := 0.0

	for i := 1; i < n; i++ {
		diff := residuals[i] - residuals[i-1]
		numerator += diff * diff
	}

	for _, r := range residuals {
		denominator += r * r
	}

	if denominator == 0 {
		return 0, fmt.Errorf("%w: residuals are all zero", timeseries.ErrDomain)
	}

	return numerator / denominator, nil
}
