package cache

// ScopedKeyer prefixes every key of an inner Keyer. Deployments sharing one
// Redis or MongoDB instance use it to keep their entries apart:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "gnparser:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ResultKey returns the prefixed inner key.
func (k *ScopedKeyer) ResultKey(name string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(name, opts)
}
