package weather

import (
	"time"

	"github.com/pfrederiksen/travel-forecast/internal/travel"
)

// DataPoint is one observation or prediction in a forecast payload
type DataPoint struct {
	Time                    int64   `json:"time"`
	Summary                 string  `json:"summary"`
	Icon                    string  `json:"icon,omitempty"`
	PrecipProbability       float64 `json:"precipProbability"`
	Temperature             float64 `json:"temperature"`
	ApparentTemperature     float64 `json:"apparentTemperature"`
	TemperatureHigh         float64 `json:"temperatureHigh"`
	ApparentTemperatureHigh float64 `json:"apparentTemperatureHigh"`
	Humidity                float64 `json:"humidity"`
	WindSpeed               float64 `json:"windSpeed"`
}

// Block is a series of data points with an overall summary
type Block struct {
	Summary string      `json:"summary"`
	Data    []DataPoint `json:"data"`
}

// Forecast is the decoded forecast payload
type Forecast struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timezone  string    `json:"timezone"`
	Currently DataPoint `json:"currently"`
	Hourly    Block     `json:"hourly"`
	Daily     Block     `json:"daily"`

	// set by the API instead of the fields above when a request fails
	Code  int    `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

// Coordinate returns the location the payload describes
func (f *Forecast) Coordinate() travel.Coordinate {
	return travel.Coordinate{Latitude: f.Latitude, Longitude: f.Longitude}
}

// Record is one row of the Forecast table
type Record struct {
	Coordinates       string
	Time              time.Time
	Kind              travel.ForecastKind
	Summary           string
	PrecipProbability float64
	Temperature       float64
	FeelsLike         float64
	Humidity          float64
	WindSpeed         float64
}

// Records flattens the payload into one Current row, one row per hourly point and one
// row per daily point. Daily rows use the day's high temperatures.
func (f *Forecast) Records() []Record {
	key := f.Coordinate().Key()
	records := make([]Record, 0, 1+len(f.Hourly.Data)+len(f.Daily.Data))

	records = append(records, pointRecord(key, travel.KindCurrent, f.Currently, false))
	for _, p := range f.Hourly.Data {
		records = append(records, pointRecord(key, travel.KindHourly, p, false))
	}
	for _, p := range f.Daily.Data {
		records = append(records, pointRecord(key, travel.KindDaily, p, true))
	}

	return records
}

func pointRecord(key string, kind travel.ForecastKind, p DataPoint, daily bool) Record {
	r := Record{
		Coordinates:       key,
		Time:              EpochTime(p.Time),
		Kind:              kind,
		Summary:           p.Summary,
		PrecipProbability: p.PrecipProbability,
		Temperature:       p.Temperature,
		FeelsLike:         p.ApparentTemperature,
		Humidity:          p.Humidity,
		WindSpeed:         p.WindSpeed,
	}
	if daily {
		r.Temperature = p.TemperatureHigh
		r.FeelsLike = p.ApparentTemperatureHigh
	}
	return r
}

// EpochTime converts epoch seconds to a UTC time
func EpochTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
