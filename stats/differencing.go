package stats

import (
	"fmt"
	"math"

	"github.com/sartorproj/welldecline/timeseries"
)

// Stationarity tests accepted by NDiffs.
const (
	TestADF  = "adf"
	TestKPSS = "kpss"
)

// NDiffs determines the number of first differences required for stationarity.
// maxD is the maximum number of differences to consider (default 2).
// testType is "adf" (default) or "kpss"; alpha is the significance level
// (default 0.05). Differencing stops early when the series becomes too short
// for the test, returning the order reached so far.
func NDiffs(series *timeseries.Series, maxD int, testType string, alpha float64) (int, error) {
	if maxD <= 0 {
		maxD = 2
	}
	if testType == "" {
		testType = TestADF
	}
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.05
	}

	current := series
	for d := 0; d < maxD; d++ {
		var stationary bool

		switch testType {
		case TestADF:
			result, err := ADF(current, DefaultADFOptions())
			if err != nil {
				return d, err
			}
			stationary = result.Stationary(alpha)
		case TestKPSS:
			result, err := KPSS(current, RegressionConstant, 0)
			if err != nil {
				return d, err
			}
			stationary = result.Stationary(alpha)
		default:
			return 0, fmt.Errorf("%w: unknown stationarity test %q", timeseries.ErrDomain, testType)
		}

		if stationary {
			return d, nil
		}

		current = current.Diff()
		if current.Len() < 10 {
			return d + 1, nil
		}
	}

	return maxD, nil
}

// AICc calculates the corrected Akaike Information Criterion.
// AICc = AIC + 2(k)(k+1)/(n-k-1) where k is number of parameters.
// This corrects for small sample sizes.
func AICc(aic float64, nObs int, nParams int) float64 {
	k := float64(nParams)
	n := float64(nObs)

	if n-k-1 <= 0 {
		return math.Inf(1)
	}

	correction := 2 * k * (k + 1) / (n - k - 1)
	return aic + correction
}

// InformationCriteria holds AIC, AICc, and BIC for a fitted model.
type InformationCriteria struct {
	AIC    float64 `json:"aic"`
	AICc   float64 `json:"aicc"`
	BIC    float64 `json:"bic"`
	LogLik float64 `json:"log_likelihood"`
}

// CalculateIC calculates all information criteria.
// logLik is the log-likelihood, nObs is the number of observations,
// nParams is the number of estimated parameters.
func CalculateIC(logLik float64, nObs int, nParams int) *InformationCriteria {
	k := float64(nParams)
	n := float64(nObs)

	aic := -2*logLik + 2*k
	bic := -2*logLik + k*math.Log(n)

	return &InformationCriteria{
		AIC:    aic,
		AICc:   AICc(aic, nObs, nParams),
		BIC:    bic,
		LogLik: logLik,
	}
}
