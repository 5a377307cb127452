package img2uni

import (
	"errors"
	"math"
	"testing"

	"github.com/wbrown/img2uni/imageutil"
)

// brightnessEmbedder maps a patch to a unit vector whose angle grows with
// the patch mean: black is [1,0] and white is [0,1].
var brightnessEmbedder = EmbedderFunc(func(patch []float32) ([]float32, error) {
	theta := float64(imageutil.Mean(patch)) * math.Pi / 2
	return []float32{float32(math.Cos(theta)), float32(math.Sin(theta))}, nil
})

// constantEmbedder returns the same embedding for every patch.
func constantEmbedder(v ...float32) Embedder {
	return EmbedderFunc(func([]float32) ([]float32, error) {
		return append([]float32(nil), v...), nil
	})
}

var errModelFailed = errors.New("model failed")

// newDarkLightCatalog returns a two entry catalog: ' ' for dark cells and
// '#' for bright cells under brightnessEmbedder.
func newDarkLightCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := NewCatalog(
		[]rune{' ', '#'},
		2,
		[]float32{1, 0, 0, 1},
		[]float32{0, 1},
	)
	if err != nil {
		t.Fatalf("Failed to create catalog: %v", err)
	}
	return cat
}
