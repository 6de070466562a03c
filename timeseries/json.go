package timeseries

import (
	"encoding/json"
	"math"
	"time"
)

// Point is the JSON form of one observation. Undefined values encode as null.
type Point struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// Points returns the observations as JSON-friendly points, dates formatted
// as YYYY-MM-DD.
func (s *Series) Points() []Point {
	points := make([]Point, len(s.Values))
	for i, v := range s.Values {
		if i < len(s.Timestamps) {
			points[i].Date = s.Timestamps[i].Format(time.DateOnly)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		value := v
		points[i].Value = &value
	}
	return points
}

// MarshalJSON encodes the series as its name and points.
func (s *Series) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name   string  `json:"name,omitempty"`
		Points []Point `json:"points"`
	}{
		Name:   s.Name,
		Points: s.Points(),
	})
}
