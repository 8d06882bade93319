package cache

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey returns the key of an encoded pass.
	ArtifactKey(passHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the export options that change artifact bytes.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
	Guides bool    `json:"guides,omitempty"`
}

// DefaultKeyer builds plain prefix:hash keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey hashes the pass fingerprint together with the options.
func (DefaultKeyer) ArtifactKey(passHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", passHash, opts)
}
