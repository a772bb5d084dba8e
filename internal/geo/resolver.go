package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/travel-forecast/internal/fetcher"
	"github.com/pfrederiksen/travel-forecast/internal/logger"
	"github.com/pfrederiksen/travel-forecast/internal/travel"
)

const WikiBaseURL = "https://en.wikipedia.org/wiki/"

// destination labels on the travel site carry these suffixes; the encyclopedia page
// is titled with the bare place name
var destinationSuffixes = []string{
	" tourist attractions",
	" travel guide",
}

// Fetcher returns the body of a page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// WikiURL builds the encyclopedia URL for a place name: the text before the first
// comma, with spaces replaced by underscores
func WikiURL(base, name string) string {
	title, _, _ := strings.Cut(name, ",")
	return base + strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
}

// DestinationTitle strips the travel site's suffixes from a destination label
func DestinationTitle(name string) string {
	name = strings.TrimSpace(name)
	for _, suffix := range destinationSuffixes {
		cut := len(name) - len(suffix)
		if cut >= 0 && strings.EqualFold(name[cut:], suffix) {
			return strings.TrimSpace(name[:cut])
		}
	}
	return name
}

// Resolver looks up coordinates on encyclopedia pages
type Resolver struct {
	fetcher Fetcher
	base    string
}

// NewResolver creates a Resolver using base as the encyclopedia URL prefix
func NewResolver(f Fetcher, base string) *Resolver {
	if base == "" {
		base = WikiBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Resolver{fetcher: f, base: base}
}

// Resolve returns the coordinates published on the page for name. Pages that are
// missing, carry no coordinate markers or malformed ones yield ErrUnavailable.
func (r *Resolver) Resolve(ctx context.Context, name string) (travel.Coordinate, error) {
	pageURL := WikiURL(r.base, name)

	body, err := r.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		var statusErr *fetcher.StatusError
		if errors.As(err, &statusErr) {
			return travel.Coordinate{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return travel.Coordinate{}, fmt.Errorf("fetching %s: %w", pageURL, err)
	}

	return ExtractCoordinates(body)
}

// ExtractCoordinates reads the first latitude and longitude markers from a page
func ExtractCoordinates(page string) (travel.Coordinate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return travel.Coordinate{}, fmt.Errorf("%w: parsing HTML: %v", ErrUnavailable, err)
	}

	lat := doc.Find("span.latitude").First()
	long := doc.Find("span.longitude").First()
	if lat.Length() == 0 || long.Length() == 0 {
		return travel.Coordinate{}, fmt.Errorf("%w: no coordinate markers", ErrUnavailable)
	}

	latitude, err := ParseAxis(lat.Text(), Latitude)
	if err != nil {
		return travel.Coordinate{}, err
	}
	longitude, err := ParseAxis(long.Text(), Longitude)
	if err != nil {
		return travel.Coordinate{}, err
	}

	return travel.Coordinate{Latitude: latitude, Longitude: longitude}, nil
}

// ResolveSelection locates the selection's attraction, falling back to its destination.
// On fallback the returned selection is marked so the forecast is labelled with the
// destination rather than the attraction.
func (r *Resolver) ResolveSelection(ctx context.Context, sel travel.Selection) (travel.Selection, error) {
	coord, err := r.Resolve(ctx, sel.Attraction.Name)
	if err == nil {
		sel.Coordinate = coord
		sel.Fallback = false
		return sel, nil
	}
	if !errors.Is(err, ErrUnavailable) {
		return sel, err
	}

	logger.Info("attraction has no coordinates, using destination", logger.Fields{
		"attraction":  sel.Attraction.Name,
		"destination": sel.Destination.Name,
		"reason":      err.Error(),
	})

	coord, err = r.Resolve(ctx, DestinationTitle(sel.Destination.Name))
	if err != nil {
		return sel, err
	}

	sel.Coordinate = coord
	sel.Fallback = true
	return sel, nil
}
