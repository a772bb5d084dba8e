package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/pfrederiksen/travel-forecast/internal/logger"
	"github.com/pfrederiksen/travel-forecast/internal/travel"
)

const BaseURL = "https://www.planetware.com"

// Fetcher returns the body of a page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Skip records one item dropped during extraction
type Skip struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Extraction is the result of parsing one page: the usable items plus what was skipped
type Extraction[T any] struct {
	Items   []T
	Skipped []Skip
}

func (e *Extraction[T]) skip(index int, reason string) {
	e.Skipped = append(e.Skipped, Skip{Index: index, Reason: reason})
}

// Scraper fetches and parses travel site pages
type Scraper struct {
	fetcher Fetcher
	baseURL string
	metrics *logger.Metrics
}

// New creates a Scraper that resolves relative links against baseURL
func New(fetcher Fetcher, baseURL string) *Scraper {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Scraper{
		fetcher: fetcher,
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: logger.DefaultMetrics(),
	}
}

// Regions fetches the landing page and extracts its region list
func (s *Scraper) Regions(ctx context.Context) (*Extraction[travel.Region], error) {
	body, err := s.fetcher.Fetch(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("fetching regions: %w", err)
	}

	result, err := ParseRegions(strings.NewReader(body), s.baseURL)
	if err != nil {
		return nil, err
	}
	s.report("regions", s.baseURL, len(result.Items), result.Skipped)
	return result, nil
}

// Destinations fetches a region page and extracts its destinations
func (s *Scraper) Destinations(ctx context.Context, region travel.Region) (*Extraction[travel.Destination], error) {
	body, err := s.fetcher.Fetch(ctx, region.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching destinations for %s: %w", region.Name, err)
	}

	result, err := ParseDestinations(strings.NewReader(body), s.baseURL)
	if err != nil {
		return nil, err
	}
	s.report("destinations", region.URL, len(result.Items), result.Skipped)
	return result, nil
}

// Attractions fetches a destination page and extracts its attractions
func (s *Scraper) Attractions(ctx context.Context, dest travel.Destination) (*Extraction[travel.Attraction], error) {
	body, err := s.fetcher.Fetch(ctx, dest.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching attractions for %s: %w", dest.Name, err)
	}

	result, err := ParseAttractions(strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	s.report("attractions", dest.URL, len(result.Items), result.Skipped)
	return result, nil
}

func (s *Scraper) report(kind, url string, items int, skipped []Skip) {
	if len(skipped) > 0 {
		s.metrics.AddCounter("extract.skipped", int64(len(skipped)))
	}
	logger.Debug("extracted "+kind, logger.Fields{
		"url":     url,
		"items":   items,
		"skipped": len(skipped),
	})
}
