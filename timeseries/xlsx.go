package timeseries

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// LoadProductionXLSX loads a production series from a worksheet of an XLSX
// workbook. An empty sheet name selects the first sheet. Column selection
// and header handling follow opts exactly as for CSV input.
func LoadProductionXLSX(filename, sheet string, opts *CSVOptions) (*Series, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	series, err := loadWorkbook(f, sheet, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return series, nil
}

// LoadProductionXLSXFromReader loads a production series from an XLSX
// workbook read from r.
func LoadProductionXLSXFromReader(r io.Reader, sheet string, opts *CSVOptions) (*Series, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	defer f.Close()

	return loadWorkbook(f, sheet, opts)
}

func loadWorkbook(f *excelize.File, sheet string, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrMalformedInput, sheet, err)
	}
	if opts.SkipRows > 0 {
		if opts.SkipRows >= len(rows) {
			return nil, fmt.Errorf("%w: no rows after skipping %d", ErrInsufficientData, opts.SkipRows)
		}
		rows = rows[opts.SkipRows:]
	}

	dateIdx := 0
	for i, row := range rows {
		if dateIdx >= len(row) {
			continue
		}
		rows[i][dateIdx] = normaliseSerialDate(row[dateIdx])
	}

	// Row numbers in errors are relative to the skipped block already.
	local := *opts
	local.SkipRows = 0
	return parseProductionRows(rows, &local)
}

// normaliseSerialDate converts an unformatted Excel date serial into an ISO
// date so the shared parser can read it. Other cells pass through.
func normaliseSerialDate(cell string) string {
	if _, err := parseDate(cell, ""); err == nil {
		return cell
	}
	serial, err := strconv.ParseFloat(cell, 64)
	if err != nil || serial < 1 {
		return cell
	}
	ts, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return cell
	}
	return ts.Format(time.DateOnly)
}
