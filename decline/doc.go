// Package decline runs decline-curve analysis on monthly well production.
//
// A production series is checked for stationarity, log-transformed, detrended
// with a moving average and with an exponentially weighted moving average,
// and differenced. Each of these is tested with the Augmented Dickey-Fuller
// test. The autocorrelation profile of the differenced log rates suggests
// model orders, candidate ARIMA models are fitted to the log rates and the
// one with the smallest residual sum of squares is mapped back to rates.
//
// # Basic Usage
//
//	production, err := timeseries.LoadProductionCSV("well.csv", nil)
//	if err != nil {
//	    return err
//	}
//
//	report, err := decline.New(decline.DefaultConfig(), logger).Run(ctx, production)
//	if err != nil {
//	    return err
//	}
//
//	fmt.Println(report.Selection.BestOrder, report.Accuracy.RMSE)
//
// # Individual Stages
//
// Every stage is also available on its own:
//
//	logRates, _ := production.Log()
//	detrended, _ := decline.RemoveEWMA(logRates, 2)
//	check, _ := decline.TestStationarity(detrended, 10, 0.05)
//
//	model := arima.New(2, 1, 0)
//	_ = model.Fit(ctx, logRates)
//	rates, _ := decline.Reconstruct(logRates, model)
package decline
