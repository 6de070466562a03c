package decline

import (
	"fmt"

	"github.com/sartorproj/welldecline/stats"
	"github.com/sartorproj/welldecline/timeseries"
)

// StationarityReport is the outcome of one stationarity check: the rolling
// statistics of the series and its ADF test.
type StationarityReport struct {
	Series       string             `json:"series"`
	Window       int                `json:"window"`
	Significance float64            `json:"significance"`
	RollingMean  *timeseries.Series `json:"rolling_mean"`
	RollingStd   *timeseries.Series `json:"rolling_std"`
	ADF          *stats.ADFResult   `json:"adf"`
	Stationary   bool               `json:"stationary"`
}

// TestStationarity computes the trailing rolling mean and standard deviation
// of series over window and runs the ADF test with a constant and AIC lag
// selection. The series is stationary when the ADF p-value is below
// significance.
func TestStationarity(series *timeseries.Series, window int, significance float64) (*StationarityReport, error) {
	if significance <= 0 || significance >= 1 {
		return nil, fmt.Errorf("%w: significance must be in (0, 1), got %g", timeseries.ErrDomain, significance)
	}

	mean, err := series.RollingMean(window)
	if err != nil {
		return nil, err
	}
	std, err := series.RollingStd(window)
	if err != nil {
		return nil, err
	}

	adf, err := stats.ADF(series, stats.DefaultADFOptions())
	if err != nil {
		return nil, fmt.Errorf("adf on %q: %w", series.Name, err)
	}

	return &StationarityReport{
		Series:       series.Name,
		Window:       window,
		Significance: significance,
		RollingMean:  mean,
		RollingStd:   std,
		ADF:          adf,
		Stationary:   adf.Stationary(significance),
	}, nil
}
