// Command welldecline runs decline-curve analysis on a well's monthly
// production history and prints the results as JSON.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sartorproj/welldecline/config"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	if err != nil {
		if a.logger != nil {
			a.logger.Error("command failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err != nil {
		cancel()
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "welldecline",
		Short: "Decline-curve analysis of well production with ARIMA models",
		Long: `welldecline checks a monthly production series for stationarity, removes
its trend, inspects the autocorrelation of the differenced log rates, fits
candidate ARIMA models and reconstructs the rate curve of the best one.

Input is a CSV or XLSX file with a month column and a rate column, or "-" to
read CSV from stdin.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: ./welldecline.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level override: debug|info|warn|error")

	rootCmd.AddCommand(
		newAnalyzeCmd(a),
		newStationarityCmd(a),
		newACFCmd(a),
		newFitCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// setup loads .env, the configuration and the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}

	logger, err := cfg.Logging.NewLogger()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}
