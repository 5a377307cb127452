package img2uni

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Matcher selects the catalog character that best fits a patch.
//
// Each entry is scored as
//
//	w*(cos+1)/2 + (1-w)*(1-|lum-entryLum|)
//
// where cos is the dot product of the (unit) embeddings and w is the edge
// weight. A Matcher is safe for concurrent use as long as SetEdgeWeight is
// not called while matching.
type Matcher struct {
	catalog    *Catalog
	edgeWeight float64
}

// NewMatcher creates a matcher over cat. The edge weight is clamped to
// [0, 1].
func NewMatcher(cat *Catalog, edgeWeight float64) *Matcher {
	m := &Matcher{catalog: cat}
	m.SetEdgeWeight(edgeWeight)
	return m
}

// SetEdgeWeight sets the blend between embedding similarity (1.0) and
// luminosity similarity (0.0). Values outside [0, 1] are clamped; NaN
// resets to 1.0.
func (m *Matcher) SetEdgeWeight(w float64) {
	switch {
	case math.IsNaN(w):
		w = 1.0
	case w < 0:
		w = 0
	case w > 1:
		w = 1
	}
	m.edgeWeight = w
}

// EdgeWeight returns the current edge weight.
func (m *Matcher) EdgeWeight() float64 { return m.edgeWeight }

// Catalog returns the catalog being matched against.
func (m *Matcher) Catalog() *Catalog { return m.catalog }

// FindBestMatch returns the character whose entry scores highest against
// embedding and lum. Exact ties go to the earliest entry in catalog order.
func (m *Matcher) FindBestMatch(embedding []float32, lum float64) (rune, error) {
	cat := m.catalog
	if cat == nil || cat.Len() == 0 {
		return 0, ErrEmptyCatalog
	}
	if len(embedding) != cat.dim {
		return 0, fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, cat.dim, len(embedding))
	}

	query := make([]float64, len(embedding))
	for i, v := range embedding {
		query[i] = float64(v)
	}
	var sims mat.VecDense
	sims.MulVec(cat.embeddings, mat.NewVecDense(len(query), query))

	w := m.edgeWeight
	bestIdx := 0
	bestScore := math.Inf(-1)
	for i := 0; i < cat.Len(); i++ {
		normEdge := (sims.AtVec(i) + 1) / 2
		lumSim := 1 - math.Abs(lum-cat.luminosities[i])
		score := w*normEdge + (1-w)*lumSim
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	return cat.chars[bestIdx], nil
}

// Match is the second phase of the two-phase API: it matches an embedding
// computed outside the converter against the catalog. It behaves exactly
// like FindBestMatch.
func (m *Matcher) Match(embedding []float32, lum float64) (rune, error) {
	return m.FindBestMatch(embedding, lum)
}
