package timeseries

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadProductionCSVHeaderless(t *testing.T) {
	csvData := `1/1/2010,1200.5
2/1/2010,1150
3/1/2010,1098.25
4/1/2010,1050`

	series, err := LoadProductionCSVFromReader(strings.NewReader(csvData), nil)
	require.NoError(t, err)

	assert.Equal(t, []float64{1200.5, 1150, 1098.25, 1050}, series.Values)
	assert.Equal(t, time.Date(2010, time.March, 1, 0, 0, 0, 0, time.UTC), series.Timestamps[2])
}

func TestLoadProductionCSVDetectsHeader(t *testing.T) {
	csvData := `Month,Production_rate
01/01/2010,1200
02/01/2010,1150`

	series, err := LoadProductionCSVFromReader(strings.NewReader(csvData), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, series.Len())
}

func TestLoadProductionCSVNamedColumns(t *testing.T) {
	csvData := `well,rate,month
A-1,500,2010-01-01
A-1,480,2010-02-01
A-1,455,2010-03-01`

	opts := DefaultCSVOptions()
	opts.HasHeader = true
	opts.DateColumn = "month"
	opts.ValueColumn = "rate"

	series, err := LoadProductionCSVFromReader(strings.NewReader(csvData), opts)
	require.NoError(t, err)
	assert.Equal(t, []float64{500, 480, 455}, series.Values)
}

func TestLoadProductionCSVSkipsMissingMonths(t *testing.T) {
	csvData := `Month,Rate
01/01/2010,100
02/01/2010,NA
03/01/2010,
04/01/2010,97`

	series, err := LoadProductionCSVFromReader(strings.NewReader(csvData), nil)
	require.NoError(t, err)

	assert.Equal(t, []float64{100, 97}, series.Values)
	assert.Equal(t, time.April, series.Timestamps[1].Month())
}

func TestLoadProductionCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		csvData string
		wantErr error
	}{
		{"bad rate", "01/01/2010,100\n02/01/2010,abc\n", ErrMalformedInput},
		{"bad rate in first row", "01/01/2012,abc\n02/01/2012,10\n03/01/2012,9\n", ErrMalformedInput},
		{"bad date", "01/01/2010,100\nsometime,90\n", ErrMalformedInput},
		{"non monotonic", "02/01/2010,100\n01/01/2010,90\n", ErrMalformedInput},
		{"duplicate month", "01/01/2010,100\n01/01/2010,90\n", ErrMalformedInput},
		{"negative rate", "01/01/2010,100\n02/01/2010,-5\n", ErrMalformedInput},
		{"short row", "01/01/2010,100\n02/01/2010\n", ErrMalformedInput},
		{"header only", "Month,Rate\n", ErrInsufficientData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadProductionCSVFromReader(strings.NewReader(tt.csvData), nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadProductionCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "production.csv")
	require.NoError(t, os.WriteFile(path, []byte("01/01/2010,10\n02/01/2010,9\n"), 0o644))

	series, err := LoadProductionCSV(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, series.Len())

	_, err = LoadProductionCSV(filepath.Join(t.TempDir(), "missing.csv"), nil)
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	s, err := NewProduction(monthly(2), []float64{12.5, 11})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, s, "rate"))

	assert.Equal(t, "date,rate\n2010-01-01,12.5\n2010-02-01,11\n", buf.String())

	back, err := LoadProductionCSVFromReader(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, s.Values, back.Values)
	assert.Equal(t, s.Timestamps, back.Timestamps)
}

func TestLoadProductionXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	require.NoError(t, f.SetCellValue(sheet, "A1", "Month"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "Production_rate"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "01/01/2010"))
	require.NoError(t, f.SetCellValue(sheet, "B2", 1200))
	require.NoError(t, f.SetCellValue(sheet, "A3", 40210)) // 2010-02-01 as an Excel serial
	require.NoError(t, f.SetCellValue(sheet, "B3", 1150.5))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	series, err := LoadProductionXLSXFromReader(buf, "", nil)
	require.NoError(t, err)

	assert.Equal(t, []float64{1200, 1150.5}, series.Values)
	assert.Equal(t, time.Date(2010, time.February, 1, 0, 0, 0, 0, time.UTC), series.Timestamps[1])
}

func TestLoadProductionXLSXMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = LoadProductionXLSXFromReader(buf, "Nope", nil)
	assert.ErrorIs(t, err, ErrMalformedInput)
}
