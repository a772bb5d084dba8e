package cache

import (
	"context"
)

// Store maps a request URL to the raw response body fetched from it
type Store interface {
	// Get returns the cached body for url and whether it was present
	Get(ctx context.Context, url string) (string, bool, error)
	// Put stores body under url, replacing any previous entry
	Put(ctx context.Context, url, body string) error
	// Clear removes every entry
	Clear(ctx context.Context) error
	// Len returns the number of cached entries
	Len(ctx context.Context) (int, error)
}
