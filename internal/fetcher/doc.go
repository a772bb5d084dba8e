// Package fetcher performs cache-first HTTP GET requests.
//
// A cached URL is answered from the cache.Store with no network activity. An uncached
// URL is fetched after a fixed politeness delay with the tool's identifying headers, and
// the full body is stored verbatim before it is returned. Nothing is retried.
package fetcher
