// Package cache stores serialized refinement results keyed by input
// morphology and pipeline options, so repeated runs over the same file
// skip the decompose/resample/assemble work entirely.
//
// Three backends share one interface: a file cache for CLI usage, a
// Redis cache for server deployments, and a null cache that disables
// caching altogether. Keys are derived from a SHA-256 hash of the
// input bytes plus the options that shaped the output, so any change
// to either produces a distinct entry.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the pipeline's cacheable products.
type Keyer interface {
	// RefineKey keys a full refinement run: input hash plus spacing,
	// level count and resampling method.
	RefineKey(inputHash string, opts RefineKeyOpts) string

	// MeshKey keys a generated tube mesh: input hash plus ring
	// resolution.
	MeshKey(inputHash string, segments int) string
}

// RefineKeyOpts are the pipeline options that affect refinement output.
type RefineKeyOpts struct {
	Delta  float64 `json:"delta"`
	Levels int     `json:"levels"`
	Method string  `json:"method"`
}

// DefaultKeyer is the standard key scheme: a type prefix followed by a
// hash of the identifying parts.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RefineKey generates a key for a refinement run.
func (k *DefaultKeyer) RefineKey(inputHash string, opts RefineKeyOpts) string {
	return hashKey("refine", inputHash, opts)
}

// MeshKey generates a key for a tube mesh.
func (k *DefaultKeyer) MeshKey(inputHash string, segments int) string {
	return hashKey("mesh", inputHash, segments)
}
