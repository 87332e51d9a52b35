// Package cache provides the server-side cache used to keep per-owner task
// lists hot. A redis-backed implementation is used when redis is reachable,
// with an in-process fallback otherwise.
package cache

import (
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores JSON-serializable values with a TTL.
type Cache interface {
	Set(key string, value interface{}, ttl time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	DeletePattern(pattern string) error
	Exists(key string) (bool, error)
	Health() error
	Close() error
}
