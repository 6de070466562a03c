package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("welldecline")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	setDefaults(v)

	// WELLDECLINE_FORECAST_HORIZON overrides forecast.horizon
	v.SetEnvPrefix("WELLDECLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("input.path", d.Input.Path)
	v.SetDefault("input.date_layout", d.Input.DateLayout)
	v.SetDefault("input.sheet", d.Input.Sheet)

	v.SetDefault("stationarity.window", d.Stationarity.Window)
	v.SetDefault("stationarity.significance", d.Stationarity.Significance)

	v.SetDefault("detrend.window", d.Detrend.Window)
	v.SetDefault("detrend.halflife", d.Detrend.HalfLife)

	v.SetDefault("acf.max_lag", d.ACF.MaxLag)

	v.SetDefault("arima.candidates", d.ARIMA.Candidates)
	v.SetDefault("arima.max_iterations", d.ARIMA.MaxIterations)
	v.SetDefault("arima.parallelism", d.ARIMA.Parallelism)

	v.SetDefault("differencing.test", d.Differencing.Test)
	v.SetDefault("differencing.max_d", d.Differencing.MaxD)

	v.SetDefault("forecast.horizon", d.Forecast.Horizon)
	v.SetDefault("forecast.confidence", d.Forecast.Confidence)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// Whitespace separated in the environment: "2,1,0 0,1,2"
	cfg.ARIMA.Candidates = v.GetStringSlice("arima.candidates")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
