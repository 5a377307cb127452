package img2uni

// Embedder maps a patch to its embedding vector.
//
// The input is always imageutil.PatchSize samples in [0, 1], row-major
// 8 wide by 16 tall. The output must be unit normalized and have the
// dimension of the catalog it is matched against. Implementations used by
// a Converter with more than one worker must be safe for concurrent use.
type Embedder interface {
	Embed(patch []float32) ([]float32, error)
}

// EmbedderFunc adapts a function to the Embedder interface.
type EmbedderFunc func(patch []float32) ([]float32, error)

// Embed calls f(patch).
func (f EmbedderFunc) Embed(patch []float32) ([]float32, error) {
	return f(patch)
}
