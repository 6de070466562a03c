package decline

import (
	"fmt"
	"math"

	"github.com/sartorproj/welldecline/timeseries"
)

// Accuracy measures how closely a reconstructed curve follows the observed
// rates.
type Accuracy struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	MAPE float64 `json:"mape"` // percent, over non-zero observations
}

// MeasureAccuracy compares predicted against actual position by position.
// NaN positions in either series are skipped.
func MeasureAccuracy(actual, predicted *timeseries.Series) (Accuracy, error) {
	if actual.Len() != predicted.Len() {
		return Accuracy{}, fmt.Errorf("%w: %d actual values for %d predicted",
			timeseries.ErrMalformedInput, actual.Len(), predicted.Len())
	}

	var acc Accuracy
	n, nPct := 0, 0
	for i, a := range actual.Values {
		p := predicted.Values[i]
		if math.IsNaN(a) || math.IsNaN(p) {
			continue
		}
		d := a - p
		acc.RMSE += d * d
		acc.MAE += math.Abs(d)
		if a != 0 {
			acc.MAPE += math.Abs(d) / math.Abs(a) * 100
			nPct++
		}
		n++
	}
	if n == 0 {
		return Accuracy{}, fmt.Errorf("%w: no comparable positions", timeseries.ErrInsufficientData)
	}

	acc.RMSE = math.Sqrt(acc.RMSE / float64(n))
	acc.MAE /= float64(n)
	if nPct > 0 {
		acc.MAPE /= float64(nPct)
	}
	return acc, nil
}
