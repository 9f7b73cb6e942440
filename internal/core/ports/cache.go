package ports

import "time"

// CacheStats reports result cache counters for inspection callers.
type CacheStats struct {
	Hits     uint64 `json:"hits"`
	Misses   uint64 `json:"misses"`
	Entries  int    `json:"entries"`
	SizeHint int64  `json:"sizeHint"`
}

// ResultCache stores computed scan results keyed by request fingerprint.
// All operations are synchronous; an entry is never partially visible and
// writes to the same key are last-write-wins.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type ResultCache interface {
	// Get returns the live value for key. An expired entry is treated as
	// absent and removed.
	Get(key string) (any, bool)

	// Set stores value under key with the given time to live, replacing any
	// previous entry.
	Set(key string, value any, ttl time.Duration)

	// Invalidate removes the entry for key, reporting whether one existed.
	Invalidate(key string) bool

	// InvalidateAll removes every entry and returns the count removed.
	InvalidateAll() int

	// InvalidatePattern removes entries whose key matches the wildcard
	// pattern, where '*' matches any run of characters. The match is a
	// textual scan over the literal key strings. Returns the count removed.
	InvalidatePattern(pattern string) int

	// Prune removes all expired entries eagerly and returns the count removed.
	Prune() int

	// Stats returns current cache counters.
	Stats() CacheStats

	// Close stops the cache's background prune sweep.
	Close()
}
