// Package selection fits candidate ARIMA orders and picks one by residual
// sum of squares.
//
// The default candidates are ARIMA(2,1,0), ARIMA(0,1,2) and ARIMA(2,1,2).
// Each is fitted to the same series; the model whose in-sample fitted values
// are closest to the differenced series (smallest RSS) wins. Information
// criteria are reported for every candidate but never used to choose.
//
// # Basic Usage
//
//	config := selection.DefaultConfig()
//	result, err := selection.Compare(ctx, logRates, config)
//	if err != nil {
//	    return err // wraps arima.ErrFit when no candidate fits
//	}
//
//	fmt.Printf("Best model: %s, RSS %.4f\n", result.BestOrder, result.BestRSS)
//	for _, c := range result.Candidates {
//	    fmt.Println(c.Order, c.RSS, c.Error)
//	}
//
// # Order Suggestions
//
// Candidate orders can also be read off an autocorrelation profile:
//
//	profile, _ := stats.Autocorrelation(logRates.Diff(), 5)
//	suggestion := selection.SuggestOrder(profile, 1, 0)
//	config.Candidates = suggestion.Orders
package selection
