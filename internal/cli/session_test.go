package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/pfrederiksen/travel-forecast/internal/geo"
	"github.com/pfrederiksen/travel-forecast/internal/scraper"
	"github.com/pfrederiksen/travel-forecast/internal/storage"
	"github.com/pfrederiksen/travel-forecast/internal/travel"
	"github.com/pfrederiksen/travel-forecast/internal/weather"
)

type fakeCatalog struct {
	regions         []travel.Region
	destinations    map[string][]travel.Destination
	attractions     map[string][]travel.Attraction
	destinationsErr error
}

func (c *fakeCatalog) Regions(ctx context.Context) (*scraper.Extraction[travel.Region], error) {
	return &scraper.Extraction[travel.Region]{Items: c.regions}, nil
}

func (c *fakeCatalog) Destinations(ctx context.Context, region travel.Region) (*scraper.Extraction[travel.Destination], error) {
	if c.destinationsErr != nil {
		return nil, c.destinationsErr
	}
	return &scraper.Extraction[travel.Destination]{Items: c.destinations[region.Name]}, nil
}

func (c *fakeCatalog) Attractions(ctx context.Context, dest travel.Destination) (*scraper.Extraction[travel.Attraction], error) {
	return &scraper.Extraction[travel.Attraction]{Items: c.attractions[dest.Name]}, nil
}

type fakeLocator struct {
	fallback bool
	err      error
}

func (l *fakeLocator) ResolveSelection(ctx context.Context, sel travel.Selection) (travel.Selection, error) {
	if l.err != nil {
		return sel, l.err
	}
	sel.Coordinate = travel.Coordinate{Latitude: 59.32777777777778, Longitude: 18.091388888888886}
	sel.Fallback = l.fallback
	return sel, nil
}

type fakeForecaster struct {
	forecast *weather.Forecast
	err      error
	calls    int
}

func (f *fakeForecaster) RequestForecast(ctx context.Context, coord travel.Coordinate) (*weather.Forecast, error) {
	f.calls++
	return f.forecast, f.err
}

type fakeRecorder struct {
	travels   []storage.Travel
	forecasts int
	travelErr error
}

func (r *fakeRecorder) RecordTravel(ctx context.Context, payload *weather.Forecast, region, destination, attraction string) error {
	if r.travelErr != nil {
		return r.travelErr
	}
	r.travels = append(r.travels, storage.Travel{
		Coordinates: payload.Coordinate().Key(),
		Region:      region,
		Destination: destination,
		Attraction:  attraction,
	})
	return nil
}

func (r *fakeRecorder) RecordForecast(ctx context.Context, payload *weather.Forecast) (int, error) {
	r.forecasts++
	return len(payload.Records()), nil
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{
		regions: []travel.Region{
			{Name: "europe", URL: "https://example.com/europe"},
			{Name: "asia", URL: "https://example.com/asia"},
		},
		destinations: map[string][]travel.Destination{
			"europe": {{Name: "Sweden", URL: "https://example.com/sweden"}},
		},
		attractions: map[string][]travel.Attraction{
			"Sweden": {{Name: "Vasa Museum"}, {Name: "Skansen"}},
		},
	}
}

func testForecast(t *testing.T) *weather.Forecast {
	t.Helper()
	data, err := os.ReadFile("../weather/testdata/forecast.json")
	if err != nil {
		t.Fatal(err)
	}
	forecast, err := weather.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	return forecast
}

func runScript(t *testing.T, s *Session, out *bytes.Buffer) string {
	t.Helper()
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v\noutput:\n%s", err, out.String())
	}
	return out.String()
}

func TestSession_FullFlow(t *testing.T) {
	var out bytes.Buffer
	forecaster := &fakeForecaster{forecast: testForecast(t)}
	recorder := &fakeRecorder{}
	input := strings.NewReader("1\n1\n1\n1\n3\nback\nback\nexit\n")

	s := NewSession(testCatalog(), &fakeLocator{}, forecaster, recorder, input, &out)
	got := runScript(t, s, &out)

	for _, want := range []string{
		"Regions",
		"Destinations in europe",
		"Attractions in Sweden",
		"Forecast for Vasa Museum",
		"Sweden (europe): Vasa Museum",
		"Partly Cloudy",
		"Daily high temperature",
		"Goodbye.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if len(recorder.travels) != 1 {
		t.Fatalf("recorded %d travels, want 1", len(recorder.travels))
	}
	want := storage.Travel{Coordinates: "59.32777777777778,18.091388888888886", Region: "europe", Destination: "Sweden", Attraction: "Vasa Museum"}
	if recorder.travels[0] != want {
		t.Errorf("travel = %+v, want %+v", recorder.travels[0], want)
	}
	if recorder.forecasts != 1 {
		t.Errorf("recorded %d forecasts, want 1", recorder.forecasts)
	}

	// two backs from the forecast menu land on the destination list again
	if strings.Count(got, "Destinations in europe") != 2 {
		t.Errorf("expected the destination menu twice:\n%s", got)
	}
}

func TestSession_FallbackLabelsDestination(t *testing.T) {
	var out bytes.Buffer
	recorder := &fakeRecorder{}
	input := strings.NewReader("1\n1\n2\n1\nexit\n")

	s := NewSession(testCatalog(), &fakeLocator{fallback: true}, &fakeForecaster{forecast: testForecast(t)}, recorder, input, &out)
	got := runScript(t, s, &out)

	if !strings.Contains(got, "No coordinates found for Skansen, showing the forecast for Sweden.") {
		t.Errorf("fallback notice missing:\n%s", got)
	}
	if !strings.Contains(got, "Forecast for Sweden") {
		t.Errorf("forecast menu not labelled with the destination:\n%s", got)
	}
	if len(recorder.travels) != 1 || recorder.travels[0].Attraction != "Sweden" {
		t.Errorf("travels = %+v, want one labelled Sweden", recorder.travels)
	}
}

func TestSession_ForecastErrorReturnsToDestinations(t *testing.T) {
	var out bytes.Buffer
	recorder := &fakeRecorder{}
	forecaster := &fakeForecaster{err: &weather.PayloadError{Err: errors.New("unexpected EOF")}}
	input := strings.NewReader("1\n1\n1\nexit\n")

	s := NewSession(testCatalog(), &fakeLocator{}, forecaster, recorder, input, &out)
	got := runScript(t, s, &out)

	failed := strings.Index(got, "Could not get a forecast for Vasa Museum")
	if failed < 0 {
		t.Fatalf("error message missing:\n%s", got)
	}
	if !strings.Contains(got[failed:], "Destinations in europe") {
		t.Errorf("destination menu not shown after the error:\n%s", got)
	}
	if strings.Contains(got, "Forecast for") {
		t.Errorf("forecast menu shown despite the error:\n%s", got)
	}
	if len(recorder.travels) != 0 || recorder.forecasts != 0 {
		t.Errorf("nothing should be recorded, got %d travels and %d forecasts", len(recorder.travels), recorder.forecasts)
	}
}

func TestSession_LocatorUnavailable(t *testing.T) {
	var out bytes.Buffer
	forecaster := &fakeForecaster{forecast: testForecast(t)}
	input := strings.NewReader("1\n1\n1\nexit\n")

	s := NewSession(testCatalog(), &fakeLocator{err: geo.ErrUnavailable}, forecaster, &fakeRecorder{}, input, &out)
	got := runScript(t, s, &out)

	if !strings.Contains(got, "Could not get a forecast for Vasa Museum") {
		t.Errorf("error message missing:\n%s", got)
	}
	if forecaster.calls != 0 {
		t.Errorf("forecaster called %d times without coordinates", forecaster.calls)
	}
}

func TestSession_TravelAlreadyRecorded(t *testing.T) {
	var out bytes.Buffer
	recorder := &fakeRecorder{travelErr: fmt.Errorf("%w: 59.3,18.1", storage.ErrTravelExists)}
	input := strings.NewReader("1\n1\n1\n1\nexit\n")

	s := NewSession(testCatalog(), &fakeLocator{}, &fakeForecaster{forecast: testForecast(t)}, recorder, input, &out)
	got := runScript(t, s, &out)

	if !strings.Contains(got, "You have looked up Vasa Museum before.") {
		t.Errorf("duplicate notice missing:\n%s", got)
	}
	if recorder.forecasts != 1 {
		t.Errorf("forecast rows should still be appended, got %d calls", recorder.forecasts)
	}
	if !strings.Contains(got, "Partly Cloudy") {
		t.Errorf("forecast not shown:\n%s", got)
	}
}

func TestSession_InvalidInput(t *testing.T) {
	var out bytes.Buffer
	input := strings.NewReader("9\nfoo\nback\nexit\n")

	s := NewSession(testCatalog(), &fakeLocator{}, &fakeForecaster{}, &fakeRecorder{}, input, &out)
	got := runScript(t, s, &out)

	if n := strings.Count(got, "Invalid choice"); n != 3 {
		t.Errorf("got %d invalid messages, want 3:\n%s", n, got)
	}
	if !strings.Contains(got, "choose a number between 1 and 2") {
		t.Errorf("range message missing:\n%s", got)
	}
}

func TestSession_DestinationsErrorReturnsToRegions(t *testing.T) {
	var out bytes.Buffer
	catalog := testCatalog()
	catalog.destinationsErr = errors.New("fetching destinations: connection refused")
	input := strings.NewReader("1\nexit\n")

	s := NewSession(catalog, &fakeLocator{}, &fakeForecaster{}, &fakeRecorder{}, input, &out)
	got := runScript(t, s, &out)

	if !strings.Contains(got, "Error: fetching destinations: connection refused") {
		t.Errorf("error missing:\n%s", got)
	}
	if n := strings.Count(got, "\nRegions\n"); n != 2 {
		t.Errorf("region menu shown %d times, want 2:\n%s", n, got)
	}
}

func TestSession_EndOfInput(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(testCatalog(), &fakeLocator{}, &fakeForecaster{}, &fakeRecorder{}, strings.NewReader("1\n"), &out)

	if err := s.Run(context.Background()); err != nil {
		t.Errorf("Run() error = %v, want nil at end of input", err)
	}
}

func TestSession_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	s := NewSession(testCatalog(), &fakeLocator{}, &fakeForecaster{}, &fakeRecorder{}, strings.NewReader("exit\n"), &out)

	if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestSession_BackHintOnlyBelowFirstMenu(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(testCatalog(), &fakeLocator{}, &fakeForecaster{}, &fakeRecorder{}, strings.NewReader("1\nexit\n"), &out)
	got := runScript(t, s, &out)

	regions := strings.Index(got, "Destinations in europe")
	if regions < 0 {
		t.Fatalf("destination menu missing:\n%s", got)
	}
	if !strings.Contains(got[:regions], "Enter a number or 'exit'.") || strings.Contains(got[:regions], "'back'") {
		t.Errorf("first menu should not offer back:\n%s", got[:regions])
	}
	if !strings.Contains(got[regions:], "Enter a number, 'back' or 'exit'.") {
		t.Errorf("destination menu should offer back:\n%s", got[regions:])
	}
}
