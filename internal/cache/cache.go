package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching fetched pages and search responses
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// PageKey generates a cache key for fetched page text
func PageKey(url string) string {
	return key("page", url)
}

// SearchKey generates a cache key for a search query against one provider
func SearchKey(provider, query string) string {
	return key("search", provider+"\x00"+query)
}

func key(kind, input string) string {
	hash := sha256.Sum256([]byte(input))
	return "angler:v1:" + kind + ":" + hex.EncodeToString(hash[:])
}
