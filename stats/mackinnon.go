package stats

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// Regression components for unit-root tests.
const (
	RegressionNone          = "n"  // no deterministic terms
	RegressionConstant      = "c"  // constant only
	RegressionConstantTrend = "ct" // constant and linear trend
)

// mackinnonSurface holds the single-series (N=1) coefficients of the
// MacKinnon (1994) p-value approximation and the MacKinnon (2010) finite
// sample critical value response surface.
type mackinnonSurface struct {
	tauMax, tauMin, tauStar float64
	smallP                  [3]float64
	largeP                  [4]float64
	crit                    [3][4]float64 // 1%, 5%, 10%
}

var mackinnon = map[string]mackinnonSurface{
	RegressionNone: {
		tauMax:  1.51,
		tauMin:  -19.04,
		tauStar: -1.04,
		smallP:  [3]float64{0.6344, 1.2378, 0.032496},
		largeP:  [4]float64{0.4797, 0.93557, -0.06999, 0.033066},
		crit: [3][4]float64{
			{-2.56574, -2.2358, -3.627, 0},
			{-1.94100, -0.2686, -3.365, 31.223},
			{-1.61682, 0.2656, -2.714, 25.364},
		},
	},
	RegressionConstant: {
		tauMax:  2.74,
		tauMin:  -18.83,
		tauStar: -1.61,
		smallP:  [3]float64{2.1659, 1.4412, 0.038269},
		largeP:  [4]float64{1.7339, 0.93202, -0.12745, -0.010368},
		crit: [3][4]float64{
			{-3.43035, -6.5393, -16.786, -79.433},
			{-2.86154, -2.8903, -4.234, -40.040},
			{-2.56677, -1.5384, -2.809, 0},
		},
	},
	RegressionConstantTrend: {
		tauMax:  0.7,
		tauMin:  -16.18,
		tauStar: -2.89,
		smallP:  [3]float64{3.2512, 1.6047, 0.049588},
		largeP:  [4]float64{2.5261, 0.61654, -0.37956, -0.060285},
		crit: [3][4]float64{
			{-3.95877, -9.0531, -28.428, -134.155},
			{-3.41049, -4.3904, -9.036, -45.374},
			{-3.12705, -2.5856, -3.925, -22.380},
		},
	},
}

// critLevels label the rows of mackinnonSurface.crit.
var critLevels = [3]string{"1%", "5%", "10%"}

// mackinnonPValue approximates the p-value of a Dickey-Fuller statistic.
func mackinnonPValue(stat float64, regression string) float64 {
	surface, ok := mackinnon[regression]
	if !ok {
		surface = mackinnon[RegressionConstant]
	}

	switch {
	case stat > surface.tauMax:
		return 1
	case stat < surface.tauMin:
		return 0
	}

	var z float64
	if stat <= surface.tauStar {
		z = polyval(surface.smallP[:], stat)
	} else {
		z = polyval(surface.largeP[:], stat)
	}
	return distuv.UnitNormal.CDF(z)
}

// mackinnonCriticalValues returns the 1%, 5% and 10% critical values for a
// regression with nobs observations.
func mackinnonCriticalValues(regression string, nobs int) map[string]float64 {
	surface, ok := mackinnon[regression]
	if !ok {
		surface = mackinnon[RegressionConstant]
	}

	inv := 1 / float64(nobs)
	out := make(map[string]float64, len(critLevels))
	for i, level := range critLevels {
		out[level] = polyval(surface.crit[i][:], inv)
	}
	return out
}

// polyval evaluates c[0] + c[1]*x + c[2]*x^2 + ...
func polyval(c []float64, x float64) float64 {
	v := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		v = v*x + c[i]
	}
	return v
}
