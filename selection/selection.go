package selection

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/welldecline/arima"
	"github.com/sartorproj/welldecline/timeseries"
)

// DefaultCandidates are the autoregressive-only, moving-average-only and
// combined orders compared on a log production series.
var DefaultCandidates = []arima.Order{
	{P: 2, D: 1, Q: 0},
	{P: 0, D: 1, Q: 2},
	{P: 2, D: 1, Q: 2},
}

// Config holds configuration for candidate comparison.
type Config struct {
	Candidates    []arima.Order // Orders to fit, in priority order for ties
	MaxIterations int           // Optimizer iteration limit per fit (0: arima default)
	Parallelism   int           // Concurrent fits (default: 1)
	Logger        *zap.Logger   // Optional; nil disables logging
}

// DefaultConfig returns the default comparison configuration.
func DefaultConfig() *Config {
	candidates := make([]arima.Order, len(DefaultCandidates))
	copy(candidates, DefaultCandidates)
	return &Config{
		Candidates:    candidates,
		MaxIterations: arima.DefaultMaxIterations,
		Parallelism:   1,
	}
}

// Candidate records the outcome of fitting one order.
type Candidate struct {
	Order      arima.Order    `json:"order"`
	RSS        float64        `json:"rss"`
	AIC        float64        `json:"aic"`
	BIC        float64        `json:"bic"`
	LogLik     float64        `json:"log_likelihood"`
	Iterations int            `json:"iterations"`
	Error      string         `json:"error,omitempty"`
	Model      *arima.Model   `json:"-"`
	Summary    *arima.Summary `json:"summary,omitempty"`

	err error
}

// Err returns the fit error, or nil if the candidate was fitted.
func (c *Candidate) Err() error {
	return c.err
}

// Result represents the result of a candidate comparison.
type Result struct {
	Best       *arima.Model `json:"-"`
	BestOrder  arima.Order  `json:"best_order"`
	BestIndex  int          `json:"best_index"`
	BestRSS    float64      `json:"best_rss"`
	Candidates []Candidate  `json:"candidates"`

	// ModelsEvaluated counts the candidates that fitted successfully.
	ModelsEvaluated int `json:"models_evaluated"`
}

// Compare fits every candidate order to series and selects the one with the
// smallest residual sum of squares against the differenced series. Ties go
// to the earliest candidate. A candidate that fails to fit is recorded and
// skipped; if none fits the error wraps arima.ErrFit.
func Compare(ctx context.Context, series *timeseries.Series, config *Config) (*Result, error) {
	if config == nil {
		config = DefaultConfig()
	}
	candidates := config.Candidates
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]Candidate, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(config.Parallelism, 1))
	for i, order := range candidates {
		g.Go(func() error {
			results[i] = fitCandidate(gctx, series, order, config.MaxIterations)
			if err := gctx.Err(); err != nil {
				return err
			}
			c := &results[i]
			if c.err != nil {
				logger.Debug("candidate failed",
					zap.Stringer("order", order),
					zap.Error(c.err))
			} else {
				logger.Debug("candidate fitted",
					zap.Stringer("order", order),
					zap.Float64("rss", c.RSS),
					zap.Int("iterations", c.Iterations))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		BestIndex:  -1,
		BestRSS:    math.Inf(1),
		Candidates: results,
	}

	var errs []error
	for i := range results {
		c := &results[i]
		if c.err != nil {
			errs = append(errs, c.err)
			continue
		}
		result.ModelsEvaluated++
		if c.RSS < result.BestRSS {
			result.BestRSS = c.RSS
			result.BestIndex = i
		}
	}

	if result.BestIndex < 0 {
		return nil, fmt.Errorf("%w: no candidate order could be fitted: %w", arima.ErrFit, errors.Join(errs...))
	}

	best := results[result.BestIndex]
	result.Best = best.Model
	result.BestOrder = best.Order

	logger.Info("selected model",
		zap.Stringer("order", best.Order),
		zap.Float64("rss", best.RSS),
		zap.Int("evaluated", result.ModelsEvaluated))

	return result, nil
}

// fitCandidate fits one order and records either its scores or its error.
func fitCandidate(ctx context.Context, series *timeseries.Series, order arima.Order, maxIter int) Candidate {
	c := Candidate{Order: order}

	model := arima.NewFromOrder(order)
	if maxIter > 0 {
		model.MaxIterations = maxIter
	}
	if err := model.Fit(ctx, series); err != nil {
		c.err = fmt.Errorf("%s: %w", order, err)
		c.Error = c.err.Error()
		return c
	}

	c.Model = model
	c.RSS = model.RSS()
	c.AIC = model.AIC
	c.BIC = model.BIC
	c.LogLik = model.LogLik
	c.Iterations = model.Iterations
	c.Summary = model.Summary()
	return c
}

// Predict generates forecasts using the selected model.
func (r *Result) Predict(steps int) ([]float64, error) {
	if r.Best == nil {
		return nil, fmt.Errorf("%w: no model selected", arima.ErrFit)
	}
	return r.Best.Predict(steps)
}

// Residuals returns the residuals of the selected model.
func (r *Result) Residuals() []float64 {
	if r.Best == nil {
		return nil
	}
	return r.Best.Residuals()
}
