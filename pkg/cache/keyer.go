package cache

// Keyer builds cache keys. Implementations must return equal keys for equal
// inputs and distinct keys for inputs that render differently.
type Keyer interface {
	// SynthesisKey identifies the layout produced for a set of lines.
	SynthesisKey(opts SynthesisKeyOpts) string

	// ArtifactKey identifies a rendered document derived from a synthesis.
	ArtifactKey(synthesisHash string, opts ArtifactKeyOpts) string
}

// SynthesisKeyOpts lists every input that affects a synthesis result.
type SynthesisKeyOpts struct {
	Lines      []string  `json:"lines"`
	Biases     []float64 `json:"biases"`
	Styles     []int     `json:"styles"`
	Colors     []string  `json:"colors"`
	Widths     []float64 `json:"widths"`
	Width      int       `json:"width"`
	LineHeight int       `json:"line_height"`
	Scale      float64   `json:"scale"`

	// Model names the sampler backend so results of different models never
	// collide.
	Model string `json:"model,omitempty"`
}

// ArtifactKeyOpts lists the render options of a document.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Background string `json:"background,omitempty"`
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SynthesisKey returns "synthesis:<sha256>".
func (DefaultKeyer) SynthesisKey(opts SynthesisKeyOpts) string {
	return hashKey("synthesis", opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(synthesisHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", synthesisHash, opts)
}

var _ Keyer = DefaultKeyer{}
