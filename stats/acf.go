package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/welldecline/timeseries"
)

// ACF calculates the Autocorrelation Function for the given series.
// Returns ACF values for lags 0 to maxLag using the biased autocovariance
// estimator, so the value at lag 0 is exactly 1.
func ACF(series *timeseries.Series, maxLag int) ([]float64, error) {
	n := series.Len()
	if err := checkLags(n, maxLag); err != nil {
		return nil, err
	}

	mean := stat.Mean(series.Values, nil)
	variance := 0.0
	for _, v := range series.Values {
		diff := v - mean
		variance += diff * diff
	}

	if variance == 0 {
		return nil, fmt.Errorf("%w: autocorrelation is undefined for a constant series", timeseries.ErrDomain)
	}

	acf := make([]float64, maxLag+1)
	acf[0] = 1
	for k := 1; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (series.Values[i] - mean) * (series.Values[i-k] - mean)
		}
		acf[k] = sum / variance
	}

	return acf, nil
}

// PACF calculates the Partial Autocorrelation Function by ordinary least
// squares: for each k the series is regressed on a constant and its first k
// lags over the sample shared by all lags, and the coefficient of lag k is
// the partial autocorrelation. Every regression uses the observations from
// maxLag onwards, so lag k's value depends on maxLag; a per-lag sample
// starting at k gives slightly different values on short series.
// Returns values for lags 0 to maxLag.
func PACF(series *timeseries.Series, maxLag int) ([]float64, error) {
	n := series.Len()
	if err := checkLags(n, maxLag); err != nil {
		return nil, err
	}

	x := series.Values
	pacf := make([]float64, maxLag+1)
	pacf[0] = 1

	nObs := n - maxLag
	y := x[maxLag:]

	for k := 1; k <= maxLag; k++ {
		rows := make([][]float64, nObs)
		for i := range rows {
			t := i + maxLag
			row := make([]float64, k+1)
			row[0] = 1
			for j := 1; j <= k; j++ {
				row[j] = x[t-j]
			}
			rows[i] = row
		}

		fit, err := olsRegression(rows, y)
		if err != nil {
			if errors.Is(err, errSingular) {
				return nil, fmt.Errorf("%w: PACF regression at lag %d is singular", timeseries.ErrDomain, k)
			}
			return nil, err
		}
		pacf[k] = fit.Coeffs[k]
	}

	return pacf, nil
}

// PACFYuleWalker calculates the PACF from the sample ACF using the
// Durbin-Levinson recursion. Returns values for lags 0 to maxLag.
func PACFYuleWalker(series *timeseries.Series, maxLag int) ([]float64, error) {
	acf, err := ACF(series, maxLag)
	if err != nil {
		return nil, err
	}

	pacf := make([]float64, maxLag+1)
	pacf[0] = 1.0
	if maxLag == 0 {
		return pacf, nil
	}

	phi := make([][]float64, maxLag+1)
	for i := range phi {
		phi[i] = make([]float64, maxLag+1)
	}

	phi[1][1] = acf[1]
	pacf[1] = acf[1]

	for k := 2; k <= maxLag; k++ {
		num := acf[k]
		den := 1.0
		for j := 1; j < k; j++ {
			num -= phi[k-1][j] * acf[k-j]
			den -= phi[k-1][j] * acf[j]
		}

		if den == 0 {
			pacf[k] = 0
			continue
		}

		phi[k][k] = num / den
		pacf[k] = phi[k][k]

		for j := 1; j < k; j++ {
			phi[k][j] = phi[k-1][j] - phi[k][k]*phi[k-1][k-j]
		}
	}

	return pacf, nil
}

func checkLags(n, maxLag int) error {
	if maxLag < 0 {
		return fmt.Errorf("%w: negative max lag %d", timeseries.ErrDomain, maxLag)
	}
	if maxLag >= n-1 {
		return fmt.Errorf("%w: max lag %d needs more than %d observations", timeseries.ErrInsufficientData, maxLag, n)
	}
	return nil
}

// ConfidenceBound returns the approximate 95% band 1.96/sqrt(n) for
// autocorrelations of a white-noise series of length n.
func ConfidenceBound(n int) float64 {
	return 1.96 / math.Sqrt(float64(n))
}

// SignificantLags returns the lags where ACF/PACF values exceed confidence bounds.
func SignificantLags(values []float64, confBound float64) []int {
	var significant []int
	for i := 1; i < len(values); i++ { // Skip lag 0
		if math.Abs(values[i]) > confBound {
			significant = append(significant, i)
		}
	}
	return significant
}

// Profile holds the ACF and PACF of a series together with the 95% band.
type Profile struct {
	MaxLag     int       `json:"max_lag"`
	NObs       int       `json:"observations"`
	ACF        []float64 `json:"acf"`
	PACF       []float64 `json:"pacf"`
	ConfBound  float64   `json:"confidence_bound"`
	ACFSignif  []int     `json:"acf_significant_lags"`
	PACFSignif []int     `json:"pacf_significant_lags"`
}

// Autocorrelation computes the ACF and OLS PACF of series up to maxLag,
// with the confidence band and the lags crossing it.
func Autocorrelation(series *timeseries.Series, maxLag int) (*Profile, error) {
	acf, err := ACF(series, maxLag)
	if err != nil {
		return nil, err
	}
	pacf, err := PACF(series, maxLag)
	if err != nil {
		return nil, err
	}

	bound := ConfidenceBound(series.Len())
	return &Profile{
		MaxLag:     maxLag,
		NObs:       series.Len(),
		ACF:        acf,
		PACF:       pacf,
		ConfBound:  bound,
		ACFSignif:  SignificantLags(acf, bound),
		PACFSignif: SignificantLags(pacf, bound),
	}, nil
}
