package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for memoization stores
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
}

// Key builds a cache key from a namespace (e.g., embedding model) and a text
func Key(namespace, text string) string {
	hash := sha256.Sum256([]byte(text))
	return "replyscore:v1:" + namespace + ":" + hex.EncodeToString(hash[:])
}
