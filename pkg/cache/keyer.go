package cache

import "github.com/shadowboard/shadowboard/pkg/dims"

// renderRevision changes whenever rendered output changes for the same
// inputs, so stale artifacts are never served.
const renderRevision = 1

// ArtifactKeyOpts are the inputs that determine an artifact.
type ArtifactKeyOpts struct {
	Dims    dims.Dimensions `json:"dims"`
	Profile string          `json:"profile"`
	Format  string          `json:"format"`
	// Logo is the resolved logo reference; a changed logo path yields a
	// new artifact.
	Logo string `json:"logo,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	ArtifactKey(opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the key inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<format>:<hash>".
func (DefaultKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, renderRevision, opts)
}

// ScopedKeyer prefixes every key of an inner keyer, giving callers such
// as different releases or deployments separate namespaces in a shared
// backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (the default keyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey returns the prefixed inner key.
func (k *ScopedKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(opts)
}
