package decline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sartorproj/welldecline/selection"
	"github.com/sartorproj/welldecline/stats"
	"github.com/sartorproj/welldecline/timeseries"
)

// profileD is the differencing order of the series whose ACF/PACF is
// profiled. Suggested orders carry it as their d.
const profileD = 1

// Report collects the output of every pipeline stage.
type Report struct {
	RunID   string             `json:"run_id"`
	Summary timeseries.Summary `json:"summary"`

	Raw           *StationarityReport `json:"raw"`
	MovingAverage *StationarityReport `json:"moving_average_removed"`
	EWMA          *StationarityReport `json:"ewma_removed"`
	Differenced   *StationarityReport `json:"differenced"`

	SuggestedD      int                  `json:"suggested_d"`
	Autocorrelation *stats.Profile       `json:"autocorrelation"`
	Suggestion      selection.Suggestion `json:"suggestion"`

	Selection *selection.Result `json:"selection"`
	Forecast  *Forecast         `json:"forecast"`
	Accuracy  Accuracy          `json:"accuracy"`
}

// Pipeline runs the decline-curve analysis stages in order.
type Pipeline struct {
	config *Config
	logger *zap.Logger
}

// New creates a pipeline. A nil config uses DefaultConfig and a nil logger
// disables logging.
func New(config *Config, logger *zap.Logger) *Pipeline {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{config: config, logger: logger}
}

// Run analyses a production series: stationarity of the raw rates, the log
// rates with moving-average and EWMA trends removed, and the first
// difference; the autocorrelation profile of the difference; the candidate
// comparison on the log rates; and the reconstructed rate curve of the
// selected model with an optional horizon forecast.
func (p *Pipeline) Run(ctx context.Context, production *timeseries.Series) (*Report, error) {
	cfg := p.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := production.Validate(); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:   uuid.NewString(),
		Summary: production.Describe(),
	}
	logger := p.logger.With(zap.String("run_id", report.RunID))
	logger.Debug("pipeline started", zap.Int("observations", production.Len()))

	var err error
	stage := func(name string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Debug("stage", zap.String("name", name))
		return nil
	}

	if err = stage("raw stationarity"); err != nil {
		return nil, err
	}
	if report.Raw, err = TestStationarity(production, cfg.StationarityWindow, cfg.Significance); err != nil {
		return nil, fmt.Errorf("raw stationarity: %w", err)
	}

	if err = stage("log transform"); err != nil {
		return nil, err
	}
	logRates, err := production.Log()
	if err != nil {
		return nil, err
	}

	if err = stage("moving average removal"); err != nil {
		return nil, err
	}
	maRemoved, err := RemoveMovingAverage(logRates, cfg.MovingAverageWindow)
	if err != nil {
		return nil, fmt.Errorf("moving average removal: %w", err)
	}
	if report.MovingAverage, err = TestStationarity(maRemoved, cfg.StationarityWindow, cfg.Significance); err != nil {
		return nil, fmt.Errorf("moving average removal: %w", err)
	}

	if err = stage("ewma removal"); err != nil {
		return nil, err
	}
	ewmaRemoved, err := RemoveEWMA(logRates, cfg.HalfLife)
	if err != nil {
		return nil, fmt.Errorf("ewma removal: %w", err)
	}
	if report.EWMA, err = TestStationarity(ewmaRemoved, cfg.StationarityWindow, cfg.Significance); err != nil {
		return nil, fmt.Errorf("ewma removal: %w", err)
	}

	if err = stage("differencing"); err != nil {
		return nil, err
	}
	diff := logRates.DiffN(profileD)
	if report.Differenced, err = TestStationarity(diff, cfg.StationarityWindow, cfg.Significance); err != nil {
		return nil, fmt.Errorf("differencing: %w", err)
	}
	if report.SuggestedD, err = stats.NDiffs(logRates, cfg.MaxD, cfg.DifferencingTest, cfg.Significance); err != nil {
		return nil, fmt.Errorf("differencing: %w", err)
	}

	if err = stage("autocorrelation"); err != nil {
		return nil, err
	}
	if report.Autocorrelation, err = stats.Autocorrelation(diff, cfg.MaxLag); err != nil {
		return nil, fmt.Errorf("autocorrelation: %w", err)
	}
	report.Suggestion = selection.SuggestOrder(report.Autocorrelation, profileD, 0)

	if err = stage("model selection"); err != nil {
		return nil, err
	}
	report.Selection, err = selection.Compare(ctx, logRates, &selection.Config{
		Candidates:    cfg.Candidates,
		MaxIterations: cfg.MaxIterations,
		Parallelism:   cfg.Parallelism,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}

	if err = stage("reconstruction"); err != nil {
		return nil, err
	}
	best := report.Selection.Best
	fitted, err := Reconstruct(logRates, best)
	if err != nil {
		return nil, err
	}
	report.Forecast = &Forecast{Order: best.Order, Fitted: fitted}
	if report.Accuracy, err = MeasureAccuracy(production, fitted); err != nil {
		return nil, err
	}

	if cfg.Horizon > 0 {
		ahead, err := ForecastRates(logRates, best, cfg.Horizon, cfg.Confidence)
		if err != nil {
			return nil, fmt.Errorf("forecast: %w", err)
		}
		ahead.Fitted = fitted
		report.Forecast = ahead
	}

	logger.Info("pipeline finished",
		zap.Stringer("order", best.Order),
		zap.Float64("rss", report.Selection.BestRSS),
		zap.Float64("rmse", report.Accuracy.RMSE),
		zap.Bool("differenced_stationary", report.Differenced.Stationary))

	return report, nil
}
