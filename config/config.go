// Package config loads welldecline settings from a YAML file, environment
// variables prefixed WELLDECLINE_ and built-in defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/sartorproj/welldecline/arima"
	"github.com/sartorproj/welldecline/decline"
	"github.com/sartorproj/welldecline/stats"
	"github.com/sartorproj/welldecline/timeseries"
)

// Config represents the complete application configuration
type Config struct {
	Input        InputConfig        `mapstructure:"input"`
	Stationarity StationarityConfig `mapstructure:"stationarity"`
	Detrend      DetrendConfig      `mapstructure:"detrend"`
	ACF          ACFConfig          `mapstructure:"acf"`
	ARIMA        ARIMAConfig        `mapstructure:"arima"`
	Differencing DifferencingConfig `mapstructure:"differencing"`
	Forecast     ForecastConfig     `mapstructure:"forecast"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// InputConfig describes the production file
type InputConfig struct {
	Path       string `mapstructure:"path"`        // CSV or XLSX file, "-" for stdin
	DateLayout string `mapstructure:"date_layout"` // Preferred date layout, Go reference time
	Sheet      string `mapstructure:"sheet"`       // XLSX sheet (default: first sheet)
}

// StationarityConfig configures the rolling statistics and ADF test
type StationarityConfig struct {
	Window       int     `mapstructure:"window"`
	Significance float64 `mapstructure:"significance"`
}

// DetrendConfig configures trend elimination
type DetrendConfig struct {
	Window   int     `mapstructure:"window"`   // Moving average window
	HalfLife float64 `mapstructure:"halflife"` // EWMA half-life
}

// ACFConfig configures the autocorrelation profile
type ACFConfig struct {
	MaxLag int `mapstructure:"max_lag"`
}

// ARIMAConfig configures candidate fitting
type ARIMAConfig struct {
	Candidates    []string `mapstructure:"candidates"` // "p,d,q" terms
	MaxIterations int      `mapstructure:"max_iterations"`
	Parallelism   int      `mapstructure:"parallelism"`
}

// DifferencingConfig configures the suggested differencing order
type DifferencingConfig struct {
	Test string `mapstructure:"test"` // "adf" or "kpss"
	MaxD int    `mapstructure:"max_d"`
}

// ForecastConfig configures the out-of-sample forecast
type ForecastConfig struct {
	Horizon    int     `mapstructure:"horizon"` // Months; 0 disables
	Confidence float64 `mapstructure:"confidence"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			DateLayout: "01/02/2006",
		},
		Stationarity: StationarityConfig{
			Window:       10,
			Significance: 0.05,
		},
		Detrend: DetrendConfig{
			Window:   10,
			HalfLife: 2,
		},
		ACF: ACFConfig{
			MaxLag: 5,
		},
		ARIMA: ARIMAConfig{
			Candidates:    []string{"2,1,0", "0,1,2", "2,1,2"},
			MaxIterations: arima.DefaultMaxIterations,
			Parallelism:   1,
		},
		Differencing: DifferencingConfig{
			Test: stats.TestADF,
			MaxD: 2,
		},
		Forecast: ForecastConfig{
			Horizon:    12,
			Confidence: 0.95,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: invalid logging level %q", timeseries.ErrDomain, c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("%w: invalid logging format %q (must be json or console)", timeseries.ErrDomain, c.Logging.Format)
	}

	pipeline, err := c.Pipeline()
	if err != nil {
		return err
	}
	return pipeline.Validate()
}

// Orders parses the configured candidate orders.
func (c *Config) Orders() ([]arima.Order, error) {
	orders := make([]arima.Order, 0, len(c.ARIMA.Candidates))
	for _, s := range c.ARIMA.Candidates {
		o, err := arima.ParseOrder(s)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// Pipeline converts the configuration into pipeline parameters.
func (c *Config) Pipeline() (*decline.Config, error) {
	orders, err := c.Orders()
	if err != nil {
		return nil, err
	}
	return &decline.Config{
		StationarityWindow:  c.Stationarity.Window,
		Significance:        c.Stationarity.Significance,
		MovingAverageWindow: c.Detrend.Window,
		HalfLife:            c.Detrend.HalfLife,
		MaxLag:              c.ACF.MaxLag,
		Candidates:          orders,
		MaxIterations:       c.ARIMA.MaxIterations,
		Parallelism:         c.ARIMA.Parallelism,
		DifferencingTest:    strings.ToLower(c.Differencing.Test),
		MaxD:                c.Differencing.MaxD,
		Horizon:             c.Forecast.Horizon,
		Confidence:          c.Forecast.Confidence,
	}, nil
}

// CSVOptions returns loader options using the configured date layout.
func (c *Config) CSVOptions() *timeseries.CSVOptions {
	opts := timeseries.DefaultCSVOptions()
	if c.Input.DateLayout != "" {
		opts.DateFormat = c.Input.DateLayout
	}
	return opts
}
