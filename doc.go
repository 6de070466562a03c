// Package welldecline provides decline-curve analysis of oil well production
// with ARIMA models.
//
// A monthly production series is checked for stationarity with the
// Augmented Dickey-Fuller test, log-transformed, detrended and differenced.
// The autocorrelation of the differenced log rates guides the choice of
// candidate models; ARIMA(2,1,0), ARIMA(0,1,2) and ARIMA(2,1,2) are fitted
// by default and the one with the smallest residual sum of squares is
// mapped back to production rates.
//
// # Quick Start
//
//	production, _ := timeseries.LoadProductionCSV("well.csv", nil)
//	report, err := decline.New(nil, logger).Run(ctx, production)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(report.Selection.BestOrder, report.Accuracy.MAPE)
//
// Fit a single model:
//
//	logRates, _ := production.Log()
//	model := arima.New(2, 1, 0) // ARIMA(2,1,0)
//	_ = model.Fit(ctx, logRates)
//	rates, _ := decline.Reconstruct(logRates, model)
//
// # Packages
//
//   - timeseries: Series type, transforms, CSV and XLSX loaders
//   - stats: ADF and KPSS tests, ACF/PACF, Ljung-Box, differencing order
//   - arima: Non-seasonal ARIMA fitting and forecasting
//   - selection: Candidate comparison by residual sum of squares
//   - decline: Analysis stages, rate reconstruction and the pipeline
//   - config: File and environment configuration
//
// The welldecline command in cmd/welldecline runs the analysis from the
// command line.
//
// # References
//
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
//   - Box, G. E. P., & Jenkins, G. M. (1976). Time Series Analysis: Forecasting and Control
//   - MacKinnon, J.G. (2010). Critical Values for Cointegration Tests
package welldecline
