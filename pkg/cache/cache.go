// Package cache stores fetched data-source responses and rendered artifacts.
//
// Backends implement [Cache]: [FileCache] for CLI use (one JSON entry per key
// under the XDG cache directory), [RedisCache] for shared server deployments and
// [NullCache] when caching is disabled. Keys are produced by a [Keyer] so that
// servers can isolate tenants with [NewScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiration.
//
// Get reports a miss with (nil, false, nil); errors are reserved for backend
// failures. A ttl of 0 stores the entry without expiration.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys for the two kinds of cached content.
type Keyer interface {
	// ResponseKey identifies a data-source response by URL and request headers.
	ResponseKey(url string, headers map[string]string) string

	// ArtifactKey identifies a rendered chart for a given input hash.
	ArtifactKey(dataHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render settings that change a rendered artifact.
type ArtifactKeyOpts struct {
	ChartType string  `json:"chart_type"`
	Format    string  `json:"format"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResponseKey hashes the URL together with the headers that were sent.
func (DefaultKeyer) ResponseKey(url string, headers map[string]string) string {
	return hashKey("response", url, headers)
}

// ArtifactKey hashes the data hash with the render settings.
func (DefaultKeyer) ArtifactKey(dataHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", dataHash, opts)
}
