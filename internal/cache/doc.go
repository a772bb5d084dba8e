// Package cache stores raw HTTP response bodies keyed by request URL.
//
// The default FileStore keeps the whole cache as one JSON object on disk, loaded once at
// session start and rewritten in full on every Put. RedisStore keeps the same mapping in
// a Redis hash for users who already run Redis. Entries never expire; the only way to
// invalidate them is to clear the whole cache.
package cache
