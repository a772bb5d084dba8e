// Package scraper extracts regions, destinations and attractions from the travel site.
//
// Pages are fetched through the cache-first fetcher and parsed with goquery. Parsing is
// tolerant: an item whose markup is missing the expected element is dropped from the
// result and reported as a Skip, so callers can see how much of a page was usable.
package scraper
