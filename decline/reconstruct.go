package decline

import (
	"fmt"
	"math"
	"time"

	"github.com/sartorproj/welldecline/arima"
	"github.com/sartorproj/welldecline/timeseries"
)

// Forecast holds a model's predictions on the rate scale.
type Forecast struct {
	Order arima.Order `json:"order"`

	// Fitted is the in-sample curve on the production dates.
	Fitted *timeseries.Series `json:"fitted"`

	// Horizon, Lower and Upper cover the months after the last observation.
	// They are nil when no horizon was requested.
	Horizon    *timeseries.Series `json:"horizon,omitempty"`
	Lower      *timeseries.Series `json:"lower,omitempty"`
	Upper      *timeseries.Series `json:"upper,omitempty"`
	Confidence float64            `json:"confidence,omitempty"`
}

// Reconstruct maps a model fitted to logSeries back to production rates. The
// fitted values of the d-th difference are cumulatively summed once per
// differencing level, each time anchored on the first value of that level,
// and then exponentiated. The result has the dates of logSeries and its
// first value equals the first observed rate.
func Reconstruct(logSeries *timeseries.Series, model *arima.Model) (*timeseries.Series, error) {
	if model == nil || !model.Fitted() {
		return nil, fmt.Errorf("%w: model is not fitted", arima.ErrFit)
	}
	d := model.Order.D
	if got, want := model.Differenced().Len(), logSeries.Len()-d; got != want {
		return nil, fmt.Errorf("%w: model was fitted to %d differenced values, series gives %d",
			timeseries.ErrMalformedInput, got, want)
	}

	out := model.FittedSeries()
	for k := d - 1; k >= 0; k-- {
		level := logSeries.DiffN(k)
		out = out.Integrate(level.Timestamps[0], level.Values[0])
	}

	rates := out.Exp()
	rates.Timestamps = append([]time.Time(nil), logSeries.Timestamps...)
	rates.Name = "reconstructed"
	return rates, nil
}

// ForecastRates extends a model fitted to logSeries by steps months. The log
// forecasts and their prediction bounds are exponentiated and stamped one
// calendar month apart after the last observation.
func ForecastRates(logSeries *timeseries.Series, model *arima.Model, steps int, confidence float64) (*Forecast, error) {
	if model == nil || !model.Fitted() {
		return nil, fmt.Errorf("%w: model is not fitted", arima.ErrFit)
	}
	if logSeries.Len() == 0 {
		return nil, fmt.Errorf("%w: empty series", timeseries.ErrInsufficientData)
	}

	fc, err := model.Forecast(steps, confidence)
	if err != nil {
		return nil, err
	}

	last := logSeries.Timestamps[len(logSeries.Timestamps)-1]
	dates := make([]time.Time, steps)
	for i := range dates {
		dates[i] = last.AddDate(0, i+1, 0)
	}

	return &Forecast{
		Order:      model.Order,
		Horizon:    rateSeries(dates, fc.Mean, "forecast"),
		Lower:      rateSeries(dates, fc.Lower, "forecast_lower"),
		Upper:      rateSeries(dates, fc.Upper, "forecast_upper"),
		Confidence: confidence,
	}, nil
}

func rateSeries(dates []time.Time, logs []float64, name string) *timeseries.Series {
	values := make([]float64, len(logs))
	for i, v := range logs {
		values[i] = math.Exp(v)
	}
	return &timeseries.Series{
		Timestamps: dates,
		Values:     values,
		Name:       name,
	}
}
