package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The HTTP server scopes keys per API token so that private data sources
// fetched with one set of headers are never served to another caller.
//
//	tenant := NewScopedKeyer(NewDefaultKeyer(), "tenant:abc123:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer falls back to DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ResponseKey generates a prefixed key for data-source responses.
func (k *ScopedKeyer) ResponseKey(url string, headers map[string]string) string {
	return k.prefix + k.inner.ResponseKey(url, headers)
}

// ArtifactKey generates a prefixed key for rendered charts.
func (k *ScopedKeyer) ArtifactKey(dataHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(dataHash, opts)
}
