package cache

// ArtifactKeyOpts holds the render options that change artifact bytes.
type ArtifactKeyOpts struct {
	Type       string  `json:"type"`
	Format     string  `json:"format"`
	DPI        float64 `json:"dpi,omitempty"`
	Trim       bool    `json:"trim,omitempty"`
	TrimMargin int     `json:"trim_margin,omitempty"`
	Font       string  `json:"font,omitempty"`
	Detailed   bool    `json:"detailed,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// ArtifactKey returns the key for one rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes layout and options into "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix. The CLI scopes keys by build
// version so artifacts drawn by an older renderer are never reused.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1.2.0:")
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

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
