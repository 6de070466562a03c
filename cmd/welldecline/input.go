package main

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sartorproj/welldecline/timeseries"
)

// zipMagic starts every XLSX workbook.
var zipMagic = []byte("PK\x03\x04")

// load reads the production series named by the first argument, or by
// input.path when no argument is given. "-" reads from stdin.
func (a *app) load(cmd *cobra.Command, args []string) (*timeseries.Series, error) {
	path := a.cfg.Input.Path
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return nil, fmt.Errorf("%w: no input file, pass a path or set input.path", timeseries.ErrMalformedInput)
	}

	series, err := loadProduction(path, cmd.InOrStdin(), a.cfg.Input.Sheet, a.cfg.CSVOptions())
	if err != nil {
		return nil, err
	}

	summary := series.Describe()
	a.logger.Info("production loaded",
		zap.String("path", path),
		zap.Int("months", summary.Count),
		zap.Time("start", summary.Start),
		zap.Time("end", summary.End))
	return series, nil
}

// loadProduction picks the CSV or XLSX loader by extension. Stdin is
// sniffed for the XLSX zip signature.
func loadProduction(path string, stdin io.Reader, sheet string, opts *timeseries.CSVOptions) (*timeseries.Series, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		if bytes.HasPrefix(data, zipMagic) {
			return timeseries.LoadProductionXLSXFromReader(bytes.NewReader(data), sheet, opts)
		}
		return timeseries.LoadProductionCSVFromReader(bytes.NewReader(data), opts)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return timeseries.LoadProductionXLSX(path, sheet, opts)
	default:
		return timeseries.LoadProductionCSV(path, opts)
	}
}
