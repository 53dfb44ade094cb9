package cache

// ScopedKeyer prefixes every key of an inner [Keyer]. The server uses it to
// keep results of different model deployments apart in a shared Redis:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "penstroke:prod:")
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
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SynthesisKey returns the prefixed synthesis key.
func (k *ScopedKeyer) SynthesisKey(opts SynthesisKeyOpts) string {
	return k.prefix + k.inner.SynthesisKey(opts)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(synthesisHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(synthesisHash, opts)
}
