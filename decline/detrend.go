package decline

import (
	"github.com/sartorproj/welldecline/timeseries"
)

// RemoveMovingAverage subtracts the trailing moving average over window from
// a log series. The first window-1 positions have no average and are
// dropped, so the result holds n-window+1 values on the later dates.
func RemoveMovingAverage(logSeries *timeseries.Series, window int) (*timeseries.Series, error) {
	avg, err := logSeries.RollingMean(window)
	if err != nil {
		return nil, err
	}
	diff, err := logSeries.Sub(avg)
	if err != nil {
		return nil, err
	}
	out := diff.DropUndefined()
	out.Name = logSeries.Name + "_ma_removed"
	return out, nil
}

// RemoveEWMA subtracts the exponentially weighted moving average with the
// given half-life from a log series. The result keeps every position.
func RemoveEWMA(logSeries *timeseries.Series, halflife float64) (*timeseries.Series, error) {
	avg, err := logSeries.EWMA(halflife)
	if err != nil {
		return nil, err
	}
	out, err := logSeries.Sub(avg)
	if err != nil {
		return nil, err
	}
	out.Name = logSeries.Name + "_ewma_removed"
	return out, nil
}
