package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several tools (or
// several versions of the generator) can share one cache directory.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "navgen:v1.2.0:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ManifestKey generates a prefixed manifest key.
func (k *ScopedKeyer) ManifestKey(outputDir string, opts ManifestKeyOpts) string {
	return k.prefix + k.inner.ManifestKey(outputDir, opts)
}
