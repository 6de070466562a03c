package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sartorproj/welldecline/arima"
	"github.com/sartorproj/welldecline/decline"
	"github.com/sartorproj/welldecline/selection"
	"github.com/sartorproj/welldecline/stats"
	"github.com/sartorproj/welldecline/timeseries"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var horizon int

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Run every analysis stage and print the full report",
		Long: `Run the complete decline-curve analysis: stationarity of the raw, detrended
and differenced series, the autocorrelation profile, candidate model
comparison and the reconstructed rate curve with a forecast horizon.

Example: welldecline analyze well-a12.csv --horizon 24`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			production, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			pipelineCfg, err := a.cfg.Pipeline()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("horizon") {
				pipelineCfg.Horizon = horizon
			}

			report, err := decline.New(pipelineCfg, a.logger).Run(cmd.Context(), production)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().IntVar(&horizon, "horizon", 0, "Months to forecast past the data (overrides forecast.horizon)")
	return cmd
}

// stationarityOutput lists the stationarity checks of each transform.
type stationarityOutput struct {
	Checks     []*decline.StationarityReport `json:"checks"`
	KPSS       *stats.KPSSResult             `json:"kpss_differenced,omitempty"`
	SuggestedD int                           `json:"suggested_d"`
}

func newStationarityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stationarity [file]",
		Short: "Test the raw, detrended and differenced series for stationarity",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			production, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			cfg, err := a.cfg.Pipeline()
			if err != nil {
				return err
			}

			logRates, err := production.Log()
			if err != nil {
				return err
			}
			maRemoved, err := decline.RemoveMovingAverage(logRates, cfg.MovingAverageWindow)
			if err != nil {
				return err
			}
			ewmaRemoved, err := decline.RemoveEWMA(logRates, cfg.HalfLife)
			if err != nil {
				return err
			}
			diff := logRates.Diff()

			var out stationarityOutput
			for _, s := range []*timeseries.Series{production, logRates, maRemoved, ewmaRemoved, diff} {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				check, err := decline.TestStationarity(s, cfg.StationarityWindow, cfg.Significance)
				if err != nil {
					return err
				}
				a.logger.Debug("stationarity checked",
					zap.String("series", s.Name),
					zap.Float64("p_value", check.ADF.PValue),
					zap.Bool("stationary", check.Stationary))
				out.Checks = append(out.Checks, check)
			}

			if out.KPSS, err = stats.KPSS(diff, stats.RegressionConstant, 0); err != nil {
				return err
			}
			if out.SuggestedD, err = stats.NDiffs(logRates, cfg.MaxD, cfg.DifferencingTest, cfg.Significance); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	return cmd
}

// acfOutput is the autocorrelation profile with the orders it suggests.
type acfOutput struct {
	D          int                  `json:"d"`
	Profile    *stats.Profile       `json:"profile"`
	Suggestion selection.Suggestion `json:"suggestion"`
}

func newACFCmd(a *app) *cobra.Command {
	var lags, d int

	cmd := &cobra.Command{
		Use:   "acf [file]",
		Short: "Print the ACF and PACF of the differenced log rates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			production, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("lags") {
				lags = a.cfg.ACF.MaxLag
			}

			logRates, err := production.Log()
			if err != nil {
				return err
			}
			profile, err := stats.Autocorrelation(logRates.DiffN(d), lags)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), acfOutput{
				D:          d,
				Profile:    profile,
				Suggestion: selection.SuggestOrder(profile, d, 0),
			})
		},
	}

	cmd.Flags().IntVar(&lags, "lags", 0, "Number of lags (overrides acf.max_lag)")
	cmd.Flags().IntVar(&d, "diff", 1, "Differencing order applied before the profile")
	return cmd
}

// fitOutput is the candidate comparison with the reconstructed curve.
type fitOutput struct {
	Selection *selection.Result `json:"selection"`
	Forecast  *decline.Forecast `json:"forecast"`
	Accuracy  decline.Accuracy  `json:"accuracy"`
}

func newFitCmd(a *app) *cobra.Command {
	var orders []string
	var output string

	cmd := &cobra.Command{
		Use:   "fit [file]",
		Short: "Fit candidate ARIMA models to the log rates and reconstruct the best",
		Long: `Fit candidate ARIMA models to the log rates, select the one with the smallest
residual sum of squares and reconstruct its rate curve.

Example: welldecline fit well-a12.csv --order 2,1,0 --order 1,1,1 --output fitted.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			production, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			cfg, err := a.cfg.Pipeline()
			if err != nil {
				return err
			}
			if len(orders) > 0 {
				cfg.Candidates = cfg.Candidates[:0]
				for _, s := range orders {
					o, err := arima.ParseOrder(s)
					if err != nil {
						return err
					}
					cfg.Candidates = append(cfg.Candidates, o)
				}
			}

			logRates, err := production.Log()
			if err != nil {
				return err
			}
			result, err := selection.Compare(cmd.Context(), logRates, &selection.Config{
				Candidates:    cfg.Candidates,
				MaxIterations: cfg.MaxIterations,
				Parallelism:   cfg.Parallelism,
				Logger:        a.logger,
			})
			if err != nil {
				return err
			}

			fitted, err := decline.Reconstruct(logRates, result.Best)
			if err != nil {
				return err
			}
			forecast := &decline.Forecast{Order: result.BestOrder, Fitted: fitted}
			if cfg.Horizon > 0 {
				if forecast, err = decline.ForecastRates(logRates, result.Best, cfg.Horizon, cfg.Confidence); err != nil {
					return err
				}
				forecast.Fitted = fitted
			}
			accuracy, err := decline.MeasureAccuracy(production, fitted)
			if err != nil {
				return err
			}

			if output != "" {
				if err := writeSeriesCSV(output, fitted); err != nil {
					return err
				}
				a.logger.Info("reconstructed curve written", zap.String("path", output))
			}

			return writeJSON(cmd.OutOrStdout(), fitOutput{
				Selection: result,
				Forecast:  forecast,
				Accuracy:  accuracy,
			})
		},
	}

	cmd.Flags().StringArrayVar(&orders, "order", nil, "Candidate order p,d,q (repeatable; overrides arima.candidates)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the reconstructed rate curve to this CSV file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// The version needs neither configuration nor a logger.
		PersistentPreRun: func(*cobra.Command, []string) {},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "welldecline %s\n", Version)
			return err
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeSeriesCSV(path string, series *timeseries.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := timeseries.WriteCSV(f, series, "rate"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
