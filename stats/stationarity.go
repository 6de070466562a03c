package stats

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sartorproj/welldecline/timeseries"
)

// Lag selection criteria for ADF.
const (
	AutolagAIC  = "aic"
	AutolagBIC  = "bic"
	AutolagNone = ""
)

// ADFOptions configures the Augmented Dickey-Fuller test.
type ADFOptions struct {
	// MaxLag is the largest number of lagged differences considered.
	// A negative value selects ceil(12*(n/100)^(1/4)) capped at n/2-k-1,
	// where k is the number of deterministic terms.
	MaxLag int
	// Regression selects the deterministic terms: "c" (default), "ct" or "n".
	Regression string
	// Autolag picks the lag count minimising "aic" (default) or "bic" over
	// 0..MaxLag. With AutolagNone the test uses exactly MaxLag lags.
	Autolag string
}

// DefaultADFOptions returns constant-only regression with AIC lag selection.
func DefaultADFOptions() ADFOptions {
	return ADFOptions{
		MaxLag:     -1,
		Regression: RegressionConstant,
		Autolag:    AutolagAIC,
	}
}

// ADFResult represents the result of an Augmented Dickey-Fuller test.
type ADFResult struct {
	Statistic    float64            `json:"statistic"`
	PValue       float64            `json:"p_value"`
	Lags         int                `json:"lags_used"`
	NObs         int                `json:"observations_used"`
	CriticalVals map[string]float64 `json:"critical_values"` // Critical values at 1%, 5%, 10%
	ICBest       float64            `json:"ic_best,omitempty"`
	Regression   string             `json:"regression"`
}

// Stationary reports whether the unit-root null is rejected at alpha.
func (r *ADFResult) Stationary(alpha float64) bool {
	return r.PValue < alpha
}

// ADF performs the Augmented Dickey-Fuller test for unit root.
// The null hypothesis is that the series has a unit root (is non-stationary);
// a p-value below the chosen significance rejects it.
//
// The regression is
//
//	dy_t = [alpha + beta*t] + gamma*y_{t-1} + sum_{i=1..p} delta_i*dy_{t-i} + e_t
//
// and the statistic is the t ratio of gamma. With automatic lag selection
// every p in 0..MaxLag is fitted over the common sample and the best one is
// re-estimated on all available observations.
func ADF(series *timeseries.Series, opts ADFOptions) (*ADFResult, error) {
	regression := strings.ToLower(opts.Regression)
	if regression == "" {
		regression = RegressionConstant
	}
	if _, ok := mackinnon[regression]; !ok {
		return nil, fmt.Errorf("%w: unknown regression %q", timeseries.ErrDomain, opts.Regression)
	}

	x := series.Values
	n := len(x)
	nTrend := len(regression)
	if regression == RegressionNone {
		nTrend = 0
	}

	limit := n/2 - nTrend - 1
	maxLag := opts.MaxLag
	if maxLag < 0 {
		maxLag = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
		maxLag = min(maxLag, limit)
	} else if maxLag > limit {
		return nil, fmt.Errorf("%w: max lag %d exceeds %d for %d observations", timeseries.ErrInsufficientData, maxLag, limit, n)
	}
	if maxLag < 0 {
		return nil, fmt.Errorf("%w: %d observations are too few for the ADF regression", timeseries.ErrInsufficientData, n)
	}

	diff := series.Diff().Values

	usedLag := maxLag
	icBest := 0.0
	switch strings.ToLower(opts.Autolag) {
	case AutolagAIC, AutolagBIC:
		best, ic, err := selectADFLag(x, diff, maxLag, regression, strings.ToLower(opts.Autolag))
		if err != nil {
			return nil, err
		}
		usedLag, icBest = best, ic
	case AutolagNone:
	default:
		return nil, fmt.Errorf("%w: unknown autolag %q", timeseries.ErrDomain, opts.Autolag)
	}

	xRows, yRows := adfDesign(x, diff, usedLag, usedLag, regression)
	fit, err := olsRegression(xRows, yRows)
	if err != nil {
		return nil, adfError(err)
	}

	tStat := fit.TStat(levelColumn(regression))

	return &ADFResult{
		Statistic:    tStat,
		PValue:       mackinnonPValue(tStat, regression),
		Lags:         usedLag,
		NObs:         fit.NObs,
		CriticalVals: mackinnonCriticalValues(regression, fit.NObs),
		ICBest:       icBest,
		Regression:   regression,
	}, nil
}

// selectADFLag fits lags 0..maxLag on the sample trimmed by maxLag and
// returns the lag with the smallest criterion. Ties keep the shorter lag.
func selectADFLag(x, diff []float64, maxLag int, regression, criterion string) (int, float64, error) {
	bestLag := -1
	bestIC := math.Inf(1)

	for lag := 0; lag <= maxLag; lag++ {
		xRows, yRows := adfDesign(x, diff, lag, maxLag, regression)
		fit, err := olsRegression(xRows, yRows)
		if err != nil {
			return 0, 0, adfError(err)
		}
		ic := fit.AIC()
		if criterion == AutolagBIC {
			ic = fit.BIC()
		}
		if ic < bestIC || bestLag < 0 {
			bestLag, bestIC = lag, ic
		}
	}

	return bestLag, bestIC, nil
}

// adfDesign builds the ADF regression with lag lagged differences over the
// sample that starts after trim lagged differences.
// Column layout: [const] [trend] level lag_1 .. lag_lag.
func adfDesign(x, diff []float64, lag, trim int, regression string) ([][]float64, []float64) {
	nObs := len(diff) - trim
	y := make([]float64, nObs)
	rows := make([][]float64, nObs)

	for i := 0; i < nObs; i++ {
		t := i + trim // index into diff
		y[i] = diff[t]

		row := make([]float64, 0, 3+lag)
		switch regression {
		case RegressionConstant:
			row = append(row, 1)
		case RegressionConstantTrend:
			row = append(row, 1, float64(i+1))
		}
		row = append(row, x[t]) // y_{t-1} relative to diff[t] = x[t+1]-x[t]
		for j := 1; j <= lag; j++ {
			row = append(row, diff[t-j])
		}
		rows[i] = row
	}

	return rows, y
}

func levelColumn(regression string) int {
	switch regression {
	case RegressionConstant:
		return 1
	case RegressionConstantTrend:
		return 2
	}
	return 0
}

func adfError(err error) error {
	if errors.Is(err, errSingular) {
		return fmt.Errorf("%w: ADF regression is singular; the series may be constant", timeseries.ErrDomain)
	}
	return err
}

// KPSSResult represents the result of a KPSS test.
type KPSSResult struct {
	Statistic    float64            `json:"statistic"`
	PValue       float64            `json:"p_value"`
	Lags         int                `json:"lags"`
	CriticalVals map[string]float64 `json:"critical_values"`
}

// Stationary reports whether the stationarity null survives at alpha.
func (r *KPSSResult) Stationary(alpha float64) bool {
	return r.PValue >= alpha
}

// kpssTable holds KPSS critical values for p = 10%, 5%, 2.5%, 1%.
var kpssTable = map[string][4]float64{
	RegressionConstant:      {0.347, 0.463, 0.574, 0.739},
	RegressionConstantTrend: {0.119, 0.146, 0.176, 0.216},
}

var kpssPValues = [4]float64{0.10, 0.05, 0.025, 0.01}

// KPSS performs the Kwiatkowski-Phillips-Schmidt-Shin test for stationarity.
// The null hypothesis is that the series is level ("c") or trend ("ct")
// stationary; a p-value below the significance rejects it. The p-value is
// interpolated from the critical value table and clipped to [0.01, 0.10].
func KPSS(series *timeseries.Series, regression string, nlags int) (*KPSSResult, error) {
	n := series.Len()
	if n < 10 {
		return nil, fmt.Errorf("%w: KPSS needs at least 10 observations, got %d", timeseries.ErrInsufficientData, n)
	}
	if regression == "" {
		regression = RegressionConstant
	}
	table, ok := kpssTable[regression]
	if !ok {
		return nil, fmt.Errorf("%w: unknown KPSS regression %q", timeseries.ErrDomain, regression)
	}

	// Default lag selection
	if nlags <= 0 {
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}
	nlags = min(nlags, n-1)

	residuals := make([]float64, n)
	if regression == RegressionConstantTrend {
		// Simple linear detrending: y = a + b*t + residual
		sumT, sumY, sumTY, sumT2 := 0.0, 0.0, 0.0, 0.0
		for i, v := range series.Values {
			t := float64(i)
			sumT += t
			sumY += v
			sumTY += t * v
			sumT2 += t * t
		}
		nf := float64(n)
		b := (nf*sumTY - sumT*sumY) / (nf*sumT2 - sumT*sumT)
		a := (sumY - b*sumT) / nf

		for i, v := range series.Values {
			residuals[i] = v - a - b*float64(i)
		}
	} else {
		mean := series.Mean()
		for i, v := range series.Values {
			residuals[i] = v - mean
		}
	}

	// Partial sums
	cumSum := make([]float64, n)
	cumSum[0] = residuals[0]
	for i := 1; i < n; i++ {
		cumSum[i] = cumSum[i-1] + residuals[i]
	}

	// Long-run variance with Bartlett weights (Newey-West)
	s2 := 0.0
	for _, r := range residuals {
		s2 += r * r
	}
	s2 /= float64(n)

	for l := 1; l <= nlags; l++ {
		cov := 0.0
		for i := l; i < n; i++ {
			cov += residuals[i] * residuals[i-l]
		}
		cov /= float64(n)
		weight := 1.0 - float64(l)/float64(nlags+1)
		s2 += 2 * weight * cov
	}

	if s2 <= 0 {
		return nil, fmt.Errorf("%w: KPSS long-run variance is not positive; the series may be constant", timeseries.ErrDomain)
	}

	etaSq := 0.0
	for _, cs := range cumSum {
		etaSq += cs * cs
	}
	stat := etaSq / (float64(n) * float64(n) * s2)

	return &KPSSResult{
		Statistic: stat,
		PValue:    kpssPValue(stat, table),
		Lags:      nlags,
		CriticalVals: map[string]float64{
			"10%":  table[0],
			"5%":   table[1],
			"2.5%": table[2],
			"1%":   table[3],
		},
	}, nil
}

// kpssPValue linearly interpolates the p-value between table entries.
func kpssPValue(stat float64, table [4]float64) float64 {
	if stat <= table[0] {
		return kpssPValues[0]
	}
	if stat >= table[3] {
		return kpssPValues[3]
	}
	for i := 1; i < len(table); i++ {
		if stat <= table[i] {
			frac := (stat - table[i-1]) / (table[i] - table[i-1])
			return kpssPValues[i-1] + frac*(kpssPValues[i]-kpssPValues[i-1])
		}
	}
	return kpssPValues[3]
}
