package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache is the storage interface behind the analysis result cache.
// Implementations must tolerate concurrent writers on the same key; a
// duplicate in-flight request recomputes and overwrites, which is safe.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for one analysis request. Results are reusable
// only for the exact (product, locale, limit) triple.
func Key(productID, locale string, maxReviews int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%d", productID, locale, maxReviews)))
	return "reviewlens:v1:" + hex.EncodeToString(sum[:])
}
