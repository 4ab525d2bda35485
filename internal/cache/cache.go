// Package cache provides the cache-aside key/value contract used by the
// forecast engine. The engine never depends on a cache being present or
// healthy: a miss and a backend failure are treated identically.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when a key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

// Store is a key/value store with per-entry TTL expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ForecastKey builds the cache key for a scenario fingerprint.
func ForecastKey(fingerprint string) string {
	return fmt.Sprintf("forecast:%s", fingerprint)
}

// SeasonalKey builds the cache key for a historical-series content hash.
func SeasonalKey(dataHash string) string {
	return fmt.Sprintf("seasonal:%s", dataHash)
}
