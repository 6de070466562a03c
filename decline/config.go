package decline

import (
	"fmt"

	"github.com/sartorproj/welldecline/arima"
	"github.com/sartorproj/welldecline/selection"
	"github.com/sartorproj/welldecline/stats"
	"github.com/sartorproj/welldecline/timeseries"
)

// Config holds the stage parameters of a pipeline run.
type Config struct {
	StationarityWindow  int     // Rolling window for mean/std (default: 10)
	Significance        float64 // Test significance level (default: 0.05)
	MovingAverageWindow int     // Trailing window removed from the log series (default: 10)
	HalfLife            float64 // EWMA half-life in observations (default: 2)
	MaxLag              int     // ACF/PACF lags (default: 5)

	Candidates    []arima.Order // Orders compared by RSS
	MaxIterations int           // Optimizer iteration limit per fit
	Parallelism   int           // Concurrent candidate fits (default: 1)

	DifferencingTest string // "adf" or "kpss", for the suggested d
	MaxD             int    // Largest d considered (default: 2)

	Horizon    int     // Months forecast past the data; 0 disables
	Confidence float64 // Forecast interval level (default: 0.95)
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() *Config {
	return &Config{
		StationarityWindow:  10,
		Significance:        0.05,
		MovingAverageWindow: 10,
		HalfLife:            2,
		MaxLag:              5,
		Candidates:          selection.DefaultConfig().Candidates,
		MaxIterations:       arima.DefaultMaxIterations,
		Parallelism:         1,
		DifferencingTest:    stats.TestADF,
		MaxD:                2,
		Horizon:             12,
		Confidence:          0.95,
	}
}

// Validate checks that every parameter is usable.
func (c *Config) Validate() error {
	switch {
	case c.StationarityWindow < 2:
		return fmt.Errorf("%w: stationarity window must be at least 2, got %d", timeseries.ErrDomain, c.StationarityWindow)
	case c.Significance <= 0 || c.Significance >= 1:
		return fmt.Errorf("%w: significance must be in (0, 1), got %g", timeseries.ErrDomain, c.Significance)
	case c.MovingAverageWindow < 1:
		return fmt.Errorf("%w: moving average window must be positive, got %d", timeseries.ErrDomain, c.MovingAverageWindow)
	case !(c.HalfLife > 0):
		return fmt.Errorf("%w: half-life must be positive, got %g", timeseries.ErrDomain, c.HalfLife)
	case c.MaxLag < 1:
		return fmt.Errorf("%w: max lag must be positive, got %d", timeseries.ErrDomain, c.MaxLag)
	case len(c.Candidates) == 0:
		return fmt.Errorf("%w: at least one candidate order is required", timeseries.ErrDomain)
	case c.Parallelism < 1:
		return fmt.Errorf("%w: parallelism must be positive, got %d", timeseries.ErrDomain, c.Parallelism)
	case c.DifferencingTest != stats.TestADF && c.DifferencingTest != stats.TestKPSS:
		return fmt.Errorf("%w: unknown differencing test %q", timeseries.ErrDomain, c.DifferencingTest)
	case c.MaxD < 1:
		return fmt.Errorf("%w: max d must be positive, got %d", timeseries.ErrDomain, c.MaxD)
	case c.Horizon < 0:
		return fmt.Errorf("%w: horizon must not be negative, got %d", timeseries.ErrDomain, c.Horizon)
	case c.Horizon > 0 && (c.Confidence <= 0 || c.Confidence >= 1):
		return fmt.Errorf("%w: confidence must be in (0, 1), got %g", timeseries.ErrDomain, c.Confidence)
	}
	for _, o := range c.Candidates {
		if o.P < 0 || o.D < 0 || o.Q < 0 {
			return fmt.Errorf("%w: invalid candidate %s", timeseries.ErrDomain, o)
		}
	}
	return nil
}
