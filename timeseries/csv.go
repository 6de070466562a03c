package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn   string // Column name for dates when the file has a header (default: first column)
	ValueColumn  string // Column name for rates when the file has a header (default: second column)
	DateFormat   string // Preferred date layout (default: "01/02/2006")
	HasHeader    bool   // Whether the first row is a header
	DetectHeader bool   // Treat the first row as a header when its rate cell is not numeric
	Delimiter    rune   // Field delimiter (default: ',')
	SkipRows     int    // Number of rows to skip at start
}

// DefaultCSVOptions returns default options for loading a two-column
// month/rate production file.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateFormat:   "01/02/2006",
		DetectHeader: true,
		Delimiter:    ',',
	}
}

// fallbackDateFormats are tried after CSVOptions.DateFormat.
var fallbackDateFormats = []string{
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"2006-01",
	"01/2006",
	"Jan-06",
	"Jan 2006",
	"January 2006",
	"02-Jan-2006",
	"01-02-06",
}

// LoadProductionCSV loads a production series from a CSV file.
func LoadProductionCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	series, err := LoadProductionCSVFromReader(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return series, nil
}

// LoadProductionCSVFromReader loads a production series from an io.Reader.
// Rows with an empty or NA rate are treated as absent months; any other
// unparsable cell fails with ErrMalformedInput. The loaded series is
// validated with NewProduction.
func LoadProductionCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("%w: skipping row %d: %v", ErrMalformedInput, i+1, err)
		}
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		rows = append(rows, record)
	}

	return parseProductionRows(rows, opts)
}

// parseProductionRows turns raw cells into a validated production series.
// It is shared by the CSV and XLSX loaders.
func parseProductionRows(rows [][]string, opts *CSVOptions) (*Series, error) {
	dateIdx, valueIdx := 0, 1
	start := 0

	if len(rows) > 0 {
		header := opts.HasHeader
		// A first row is a header only when neither cell parses; a bad
		// rate next to a valid month is a data error.
		if !header && opts.DetectHeader && len(rows[0]) > valueIdx {
			_, dateErr := parseDate(cleanCell(rows[0][dateIdx]), opts.DateFormat)
			_, rateErr := parseRate(rows[0][valueIdx])
			header = dateErr != nil && rateErr != nil
		}
		if header {
			for i, h := range rows[0] {
				h = cleanCell(h)
				switch {
				case opts.DateColumn != "" && strings.EqualFold(h, opts.DateColumn):
					dateIdx = i
				case opts.ValueColumn != "" && strings.EqualFold(h, opts.ValueColumn):
					valueIdx = i
				}
			}
			start = 1
		}
	}

	var dates []time.Time
	var rates []float64

	for i := start; i < len(rows); i++ {
		record := rows[i]
		line := i + 1 + opts.SkipRows
		if isBlank(record) {
			continue
		}
		if dateIdx >= len(record) || valueIdx >= len(record) {
			return nil, fmt.Errorf("%w: row %d has %d fields", ErrMalformedInput, line, len(record))
		}

		rateStr := cleanCell(record[valueIdx])
		if isMissing(rateStr) {
			continue
		}
		rate, err := parseRate(rateStr)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: rate %q: %v", ErrMalformedInput, line, rateStr, err)
		}

		ts, err := parseDate(cleanCell(record[dateIdx]), opts.DateFormat)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedInput, line, err)
		}

		dates = append(dates, ts)
		rates = append(rates, rate)
	}

	if len(rates) == 0 {
		return nil, fmt.Errorf("%w: no production rows found", ErrInsufficientData)
	}

	return NewProduction(dates, rates)
}

func parseRate(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(cleanCell(s), ",", ""), 64)
}

func parseDate(s, preferred string) (time.Time, error) {
	formats := fallbackDateFormats
	if preferred != "" {
		formats = append([]string{preferred}, fallbackDateFormats...)
	}
	for _, layout := range formats {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func cleanCell(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\""))
}

func isMissing(s string) bool {
	switch s {
	case "", "NA", "NaN", "nan", "null":
		return true
	}
	return false
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if cleanCell(cell) != "" {
			return false
		}
	}
	return true
}

// WriteCSV writes a series as date,value rows with a header. Undefined
// positions are written as empty cells.
func WriteCSV(w io.Writer, series *Series, valueHeader string) error {
	if valueHeader == "" {
		valueHeader = "value"
	}
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"date", valueHeader}); err != nil {
		return err
	}
	for i, v := range series.Values {
		date := strconv.Itoa(i + 1)
		if i < len(series.Timestamps) {
			date = series.Timestamps[i].Format(time.DateOnly)
		}
		cell := ""
		if v == v { // skip NaN
			cell = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := writer.Write([]string{date, cell}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
