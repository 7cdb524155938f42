// Package cache provides transliteration caching implementations.
package cache

// Cache is the interface for transliteration caching.
type Cache interface {
	// Get retrieves a cached result. Returns empty string and false if not found or expired.
	Get(key string) (string, bool)

	// Set stores a result in the cache.
	Set(key string, value string) error
}
