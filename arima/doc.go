// Package arima implements AutoRegressive Integrated Moving Average (ARIMA) models.
//
// An ARIMA(p,d,q) model combines:
//   - AR(p): AutoRegressive component with p lags
//   - I(d): Integration (differencing) of order d
//   - MA(q): Moving Average component with q lags
//
// Models are estimated by conditional sum of squares, minimised with the
// Nelder-Mead simplex from gonum's optimize package. Parameters outside the
// stationary (AR) or invertible (MA) region are rejected by a penalty.
//
// # Basic Usage
//
//	model := arima.New(2, 1, 0)
//	if err := model.Fit(ctx, logRates); err != nil {
//	    // errors.Is(err, arima.ErrFit) when the optimizer did not converge
//	    return err
//	}
//
//	// In-sample fit on the differenced scale
//	fitted := model.FittedValues()
//	rss := model.RSS()
//
//	// Out-of-sample forecasts with a 95% interval
//	fc, err := model.Forecast(12, 0.95)
//
// # Residual Analysis
//
//	summary := model.Summary()
//	if summary.LjungBox != nil && summary.LjungBox.WhiteNoise(0.05) {
//	    // no residual autocorrelation left
//	}
//
// For comparing candidate orders, use the selection package.
package arima
