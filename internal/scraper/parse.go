package scraper

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/travel-forecast/internal/travel"
)

// SentinelRegion is the landing page's "explore" toggle, listed among the regions
const SentinelRegion = "explore your world ×"

// pairPrefixLen is how many leading label characters the fallback pairing matches on
const pairPrefixLen = 5

// ParseRegions extracts the region list from the landing page
func ParseRegions(r io.Reader, baseURL string) (*Extraction[travel.Region], error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	result := &Extraction[travel.Region]{Items: make([]travel.Region, 0)}
	seen := make(map[string]bool)

	doc.Find("div.regions").First().Find("li").Each(func(i int, li *goquery.Selection) {
		a := li.Find("a").First()
		if a.Length() == 0 {
			result.skip(i, "no link")
			return
		}

		name := strings.ToLower(strings.Join(strings.Fields(a.Text()), " "))
		if name == SentinelRegion {
			return
		}
		if name == "" {
			result.skip(i, "empty label")
			return
		}

		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			result.skip(i, "no href")
			return
		}
		link, err := resolve(base, href)
		if err != nil {
			result.skip(i, err.Error())
			return
		}

		if seen[name] {
			result.skip(i, "duplicate name")
			return
		}
		seen[name] = true
		result.Items = append(result.Items, travel.Region{Name: name, URL: link})
	})

	return result, nil
}

// ParseDestinations extracts destinations from a region page.
//
// Labels come from div.dest and links from div.extra. When both lists have the same
// length they are paired by position. Otherwise each label is paired with the first
// link containing the label's first five lower-cased characters.
func ParseDestinations(r io.Reader, baseURL string) (*Extraction[travel.Destination], error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	labels := doc.Find("div.dest")
	extras := doc.Find("div.extra")

	// links[i] is "" when the i-th extra block has no usable href
	links := make([]string, extras.Length())
	extras.Each(func(i int, div *goquery.Selection) {
		href, ok := div.Find("a").First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		if link, err := resolve(base, href); err == nil {
			links[i] = link
		}
	})

	positional := labels.Length() == len(links)

	result := &Extraction[travel.Destination]{Items: make([]travel.Destination, 0)}
	seen := make(map[string]bool)

	labels.Each(func(i int, div *goquery.Selection) {
		a := div.Find("a").First()
		if a.Length() == 0 {
			result.skip(i, "no label link")
			return
		}
		name := strings.TrimSpace(a.Text())
		if name == "" {
			result.skip(i, "empty label")
			return
		}

		var link string
		if positional {
			link = links[i]
		} else {
			link = matchByPrefix(name, links)
		}
		if link == "" {
			result.skip(i, "no matching link")
			return
		}

		if seen[name] {
			result.skip(i, "duplicate name")
			return
		}
		seen[name] = true
		result.Items = append(result.Items, travel.Destination{Name: name, URL: link})
	})

	return result, nil
}

// matchByPrefix returns the first link containing the label's leading characters
func matchByPrefix(label string, links []string) string {
	prefix := []rune(strings.ToLower(label))
	if len(prefix) > pairPrefixLen {
		prefix = prefix[:pairPrefixLen]
	}
	needle := strings.ReplaceAll(string(prefix), " ", "-")

	for _, link := range links {
		if link != "" && strings.Contains(strings.ToLower(link), needle) {
			return link
		}
	}
	return ""
}

// ParseAttractions extracts attraction names from a destination page
func ParseAttractions(r io.Reader) (*Extraction[travel.Attraction], error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	result := &Extraction[travel.Attraction]{Items: make([]travel.Attraction, 0)}

	doc.Find("h2.sitename").Each(func(i int, h2 *goquery.Selection) {
		name := CleanAttractionName(h2.Text())
		if name == "" {
			result.skip(i, "empty name")
			return
		}
		result.Items = append(result.Items, travel.Attraction{Name: name})
	})

	return result, nil
}

// CleanAttractionName strips ranking digits and a leftover one-character ordinal
// marker, e.g. "1 Vasa Museum" and "1. Vasa Museum" both become "Vasa Museum".
func CleanAttractionName(text string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, text)
	name := strings.TrimSpace(stripped)

	runes := []rune(name)
	if len(runes) > 2 && runes[1] == ' ' {
		name = strings.TrimSpace(string(runes[2:]))
	}

	return name
}

func resolve(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("bad href %q", href)
	}
	return base.ResolveReference(ref).String(), nil
}
