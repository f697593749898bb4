// Package cache provides the optional memoization layer the engine uses for
// generated query sets and provider completions.  Values are JSON-encoded so
// the in-memory and Redis backends are interchangeable.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Cache stores JSON-serializable values under string keys with a TTL.
// A ttl of zero means no expiry.
type Cache interface {
	// Get unmarshals the cached value for key into dest.  It returns
	// ErrMiss when the key is absent or expired.
	Get(ctx context.Context, key string, dest interface{}) error

	// Set stores val under key.  Implementations marshal val to JSON.
	Set(ctx context.Context, key string, val interface{}, ttl time.Duration) error
}

// IsMiss reports whether err represents a cache miss.
func IsMiss(err error) bool {
	return errors.Is(err, ErrMiss)
}
