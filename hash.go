package translit

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of text. The input is hashed exactly
// as given; whitespace is significant.
func HashText(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// HashTrimmed computes the SHA-256 hash of the trimmed text. Content
// processors use it to identify text nodes independent of surrounding
// whitespace.
func HashTrimmed(text string) string {
	return HashText(strings.TrimSpace(text))
}

// CacheKey generates a cache key from a text hash and a resolved rule
// identifier. The hash has a fixed width, so distinct (text, rules) pairs
// never map to the same key.
func CacheKey(hash, rules string) string {
	return hash + ":" + rules
}
