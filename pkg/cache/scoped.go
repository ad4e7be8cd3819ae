package cache

// ScopedKeyer wraps a Keyer with a prefix for isolation, so several
// servers or tenants can share one Redis without colliding.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "hoverfx:")
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

// FigureKey generates a prefixed figure key.
func (k *ScopedKeyer) FigureKey(figureID string) string {
	return k.prefix + k.inner.FigureKey(figureID)
}

// HoverKey generates a prefixed hover result key.
func (k *ScopedKeyer) HoverKey(figureID string, opts HoverKeyOpts) string {
	return k.prefix + k.inner.HoverKey(figureID, opts)
}
