package travel

import (
	"fmt"
	"strconv"
	"strings"
)

// Region is a top-level geographic grouping on the travel site (e.g. "europe")
type Region struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Destination is a country or area page nested under a Region
type Destination struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Attraction is a named point of interest listed on a Destination page
type Attraction struct {
	Name string `json:"name"`
}

// Coordinate is a decimal latitude/longitude pair
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Key renders the coordinate as "lat,long" using the shortest decimal form that
// parses back to the same float64.
func (c Coordinate) Key() string {
	return formatDegrees(c.Latitude) + "," + formatDegrees(c.Longitude)
}

// String implements fmt.Stringer
func (c Coordinate) String() string {
	return c.Key()
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseKey parses a "lat,long" key back into a Coordinate
func ParseKey(key string) (Coordinate, error) {
	lat, long, ok := strings.Cut(key, ",")
	if !ok {
		return Coordinate{}, fmt.Errorf("invalid coordinate key %q", key)
	}

	latitude, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("parsing latitude %q: %w", lat, err)
	}
	longitude, err := strconv.ParseFloat(strings.TrimSpace(long), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("parsing longitude %q: %w", long, err)
	}

	return Coordinate{Latitude: latitude, Longitude: longitude}, nil
}

// ForecastKind classifies a forecast row's time granularity
type ForecastKind string

const (
	KindCurrent ForecastKind = "Current"
	KindHourly  ForecastKind = "Hourly"
	KindDaily   ForecastKind = "Daily"
)

// Selection is what the user picked in the menu and where the forecast applies.
// When Fallback is set the attraction could not be located and Coordinate belongs
// to the destination instead.
type Selection struct {
	Region      Region
	Destination Destination
	Attraction  Attraction
	Coordinate  Coordinate
	Fallback    bool
}

// Location returns the name the forecast should be labelled with
func (s Selection) Location() string {
	if s.Fallback {
		return s.Destination.Name
	}
	return s.Attraction.Name
}

// Info returns a one-line description of the selection
func (s Selection) Info() string {
	return fmt.Sprintf("%s (%s): %s", s.Destination.Name, s.Region.Name, s.Location())
}
