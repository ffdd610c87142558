package cache

// ScopedKeyer wraps a Keyer with a prefix so separate deployments or
// tenants sharing one Redis instance get isolated key namespaces.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
// A nil inner keyer defaults to the standard scheme.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// RefineKey generates a prefixed refinement key.
func (k *ScopedKeyer) RefineKey(inputHash string, opts RefineKeyOpts) string {
	return k.prefix + k.inner.RefineKey(inputHash, opts)
}

// MeshKey generates a prefixed mesh key.
func (k *ScopedKeyer) MeshKey(inputHash string, segments int) string {
	return k.prefix + k.inner.MeshKey(inputHash, segments)
}
