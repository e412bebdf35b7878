package cache

// ScopedKeyer prefixes every key of an inner keyer. The server uses it to
// keep API entries apart from CLI entries in a shared Redis.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, which defaults to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// FormatKey implements [Keyer].
func (k *ScopedKeyer) FormatKey(sourceHash string, opts FormatKeyOpts) string {
	return k.prefix + k.inner.FormatKey(sourceHash, opts)
}

// LintKey implements [Keyer].
func (k *ScopedKeyer) LintKey(sourceHash string, rules []string, version string) string {
	return k.prefix + k.inner.LintKey(sourceHash, rules, version)
}
