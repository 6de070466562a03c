// Package timeseries provides the production series type and the
// transforms the decline pipeline applies to it.
//
// # Creating a Series
//
// A production series pairs strictly increasing monthly dates with
// non-negative rates:
//
//	series, err := timeseries.NewProduction(dates, rates)
//
// For synthetic data, New stamps values monthly from a fixed epoch:
//
//	series := timeseries.New([]float64{1200, 1150, 1090, 1010})
//
// # Loading Production Data
//
// Two-column month/rate files are read from CSV or XLSX:
//
//	series, err := timeseries.LoadProductionCSV("production.csv", nil)
//	series, err := timeseries.LoadProductionXLSX("production.xlsx", "Sheet1", nil)
//
// Headers are detected automatically. Rows with an empty or NA rate are
// treated as absent months; anything else that does not parse fails with
// ErrMalformedInput.
//
// # Transformations
//
// Every transform returns a new series:
//
//	logged, err := series.Log()        // ErrDomain on a rate <= 0
//	diff := logged.Diff()              // first difference, one shorter
//	back := diff.Integrate(t0, x0)     // inverse of Diff
//	ma, err := logged.RollingMean(10)  // first 9 positions undefined (NaN)
//	sd, err := logged.RollingStd(10)
//	ewma, err := logged.EWMA(2)        // half-life 2
//
// Undefined positions are removed with DropUndefined.
//
// # Errors
//
// ErrMalformedInput, ErrDomain and ErrInsufficientData classify every error
// returned by this package and the ones built on it.
package timeseries
