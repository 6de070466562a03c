// Package stats provides statistical tests and analysis functions for time series.
//
// This package includes stationarity tests, autocorrelation functions, and
// diagnostic tests for ARIMA model validation.
//
// # Stationarity Tests
//
// Test whether a time series is stationary:
//
//	// Augmented Dickey-Fuller test
//	// H0: Series has unit root (non-stationary)
//	adf, err := stats.ADF(series, stats.DefaultADFOptions())
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("ADF: stat=%.4f, p=%.4f, 5%%=%.4f\n",
//	    adf.Statistic, adf.PValue, adf.CriticalVals["5%"])
//
//	// KPSS test
//	// H0: Series is stationary
//	kpss, err := stats.KPSS(series, stats.RegressionConstant, 0)
//
// # Differencing Analysis
//
//	// Number of first differences needed
//	d, err := stats.NDiffs(series, 2, stats.TestADF, 0.05)
//
// # Autocorrelation Functions
//
//	acf, err := stats.ACF(series, 5)
//	pacf, err := stats.PACF(series, 5)
//
//	// Both, with the 1.96/sqrt(n) band
//	profile, err := stats.Autocorrelation(series, 5)
//
// # Residual Diagnostics
//
//	lb, err := stats.LjungBox(residuals, 10, p+q)
//	dw, err := stats.DurbinWatson(residuals.Values)
package stats
