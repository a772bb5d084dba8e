package weather

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pfrederiksen/travel-forecast/internal/logger"
	"github.com/pfrederiksen/travel-forecast/internal/travel"
)

const BaseURL = "https://api.darksky.net/forecast/"

// ErrMissingAPIKey is returned when no forecast API key is configured
var ErrMissingAPIKey = errors.New("forecast API key missing")

// PayloadError means the forecast body could not be decoded
type PayloadError struct {
	Err error
}

func (e *PayloadError) Error() string {
	return "malformed forecast payload: " + e.Err.Error()
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

// APIError is a well-formed error payload returned by the forecast API
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("forecast API error %d: %s", e.Code, e.Message)
}

// Fetcher returns the body of a page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// redactor is implemented by fetchers that can hide secrets from their logs
type redactor interface {
	Redact(secret string)
}

// Client requests forecasts
type Client struct {
	fetcher   Fetcher
	baseURL   string
	apiKey    string
	debugFile string
}

// NewClient creates a forecast client. When debugFile is not empty every decoded
// payload is also written there.
func NewClient(f Fetcher, baseURL, apiKey, debugFile string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if baseURL == "" {
		baseURL = BaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if r, ok := f.(redactor); ok {
		r.Redact(apiKey)
	}

	return &Client{
		fetcher:   f,
		baseURL:   baseURL,
		apiKey:    apiKey,
		debugFile: debugFile,
	}, nil
}

// RequestForecast fetches and decodes the forecast for coord
func (c *Client) RequestForecast(ctx context.Context, coord travel.Coordinate) (*Forecast, error) {
	body, err := c.fetcher.Fetch(ctx, c.baseURL+c.apiKey+"/"+coord.Key())
	if err != nil {
		return nil, fmt.Errorf("requesting forecast for %s: %w", coord.Key(), err)
	}

	forecast, err := Decode([]byte(body))
	if err != nil {
		return nil, err
	}

	if c.debugFile != "" {
		if err := writeDebug(c.debugFile, []byte(body)); err != nil {
			logger.Warn("could not write forecast debug file", logger.Fields{
				"path":  c.debugFile,
				"error": err.Error(),
			})
		}
	}

	return forecast, nil
}

// Decode strictly decodes a forecast body
func Decode(body []byte) (*Forecast, error) {
	var forecast Forecast
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&forecast); err != nil {
		return nil, &PayloadError{Err: err}
	}
	if dec.More() {
		return nil, &PayloadError{Err: errors.New("trailing data after JSON object")}
	}
	if forecast.Error != "" {
		return nil, &APIError{Code: forecast.Code, Message: forecast.Error}
	}
	if forecast.Currently.Time == 0 {
		return nil, &PayloadError{Err: errors.New("no current conditions")}
	}

	return &forecast, nil
}

func writeDebug(path string, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "    "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	return os.WriteFile(path, buf.Bytes(), 0644)
}
