package weather

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/travel-forecast/internal/travel"
)

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/forecast.json")
	if err != nil {
		t.Fatalf("failed to load fixture: %v", err)
	}
	return string(data)
}

type fakeFetcher struct {
	body     string
	err      error
	urls     []string
	redacted []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return f.body, f.err
}

func (f *fakeFetcher) Redact(secret string) {
	f.redacted = append(f.redacted, secret)
}

func TestNewClient(t *testing.T) {
	f := &fakeFetcher{}

	if _, err := NewClient(f, "", "", ""); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("NewClient() without key error = %v, want ErrMissingAPIKey", err)
	}

	c, err := NewClient(f, "http://localhost/forecast", "k3y", "")
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	if c.baseURL != "http://localhost/forecast/" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
	if len(f.redacted) != 1 || f.redacted[0] != "k3y" {
		t.Errorf("API key not registered for redaction: %v", f.redacted)
	}
}

func TestRequestForecast(t *testing.T) {
	f := &fakeFetcher{body: loadFixture(t)}
	c, err := NewClient(f, "", "k3y", "")
	if err != nil {
		t.Fatal(err)
	}

	coord := travel.Coordinate{Latitude: 59.32777777777778, Longitude: 18.091388888888886}
	forecast, err := c.RequestForecast(context.Background(), coord)
	if err != nil {
		t.Fatalf("RequestForecast() error: %v", err)
	}

	wantURL := BaseURL + "k3y/59.32777777777778,18.091388888888886"
	if len(f.urls) != 1 || f.urls[0] != wantURL {
		t.Errorf("requested %v, want %s", f.urls, wantURL)
	}

	if forecast.Currently.Summary != "Partly Cloudy" {
		t.Errorf("Currently.Summary = %q", forecast.Currently.Summary)
	}
	if len(forecast.Hourly.Data) != 3 || len(forecast.Daily.Data) != 2 {
		t.Errorf("hourly/daily = %d/%d, want 3/2", len(forecast.Hourly.Data), len(forecast.Daily.Data))
	}
	if forecast.Coordinate().Key() != coord.Key() {
		t.Errorf("payload key %q != request key %q", forecast.Coordinate().Key(), coord.Key())
	}
}

func TestRequestForecast_WritesDebugFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	f := &fakeFetcher{body: loadFixture(t)}
	c, err := NewClient(f, "", "k3y", path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.RequestForecast(context.Background(), travel.Coordinate{Latitude: 1, Longitude: 2}); err != nil {
		t.Fatalf("RequestForecast() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("debug file not written: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("debug file is not JSON: %v", err)
	}
	if _, ok := decoded["flags"]; !ok {
		t.Error("debug file should keep fields the client does not use")
	}
	if !strings.Contains(string(data), "\n    ") {
		t.Error("debug file should be indented")
	}
}

func TestRequestForecast_DebugFileFailureIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "data.json")
	c, err := NewClient(&fakeFetcher{body: loadFixture(t)}, "", "k3y", path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.RequestForecast(context.Background(), travel.Coordinate{}); err != nil {
		t.Errorf("RequestForecast() error = %v, debug write failures must not fail the request", err)
	}
}

func TestRequestForecast_FetchError(t *testing.T) {
	c, err := NewClient(&fakeFetcher{err: errors.New("offline")}, "", "k3y", "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.RequestForecast(context.Background(), travel.Coordinate{}); err == nil {
		t.Error("expected error")
	}
}

func TestDecode_Malformed(t *testing.T) {
	bodies := map[string]string{
		"python literal": `{'latitude': 59.3, 'longitude': 18.1, 'currently': {'time': 1}}`,
		"truncated":      `{"latitude": 59.3, "currently": {"time": 1`,
		"html":           `<html>Service Unavailable</html>`,
		"trailing data":  `{"currently": {"time": 1}} {"x": 1}`,
		"no currently":   `{"latitude": 59.3, "longitude": 18.1}`,
		"wrong types":    `{"latitude": "north", "currently": {"time": 1}}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(body))
			var payloadErr *PayloadError
			if !errors.As(err, &payloadErr) {
				t.Errorf("Decode() error = %v, want *PayloadError", err)
			}
		})
	}
}

func TestDecode_APIError(t *testing.T) {
	_, err := Decode([]byte(`{"code": 403, "error": "permission denied"}`))

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Decode() error = %v, want *APIError", err)
	}
	if apiErr.Code != 403 || apiErr.Message != "permission denied" {
		t.Errorf("APIError = %+v", apiErr)
	}
}
