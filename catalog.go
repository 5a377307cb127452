package img2uni

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DefaultLuminosity is assigned to every entry of a catalog whose
// descriptor carries no luminosities. With an edge weight of 1.0 it has no
// effect; below that it flattens the luminosity term for all characters.
const DefaultLuminosity = 0.5

// Entry is one candidate character with its embedding and mean luminosity.
type Entry struct {
	Char       rune
	Embedding  []float64
	Luminosity float64
}

// Catalog is an immutable, ordered table of candidate characters. Entry
// order is the tie-break order for matching. The rune, embedding and
// luminosity tables are always index-aligned. A Catalog is safe to share
// between goroutines.
type Catalog struct {
	chars        []rune
	dim          int
	embeddings   *mat.Dense // len(chars) x dim, nil when empty
	luminosities []float64
}

// NewCatalog builds a catalog from parallel tables: chars, a flat
// row-major embedding table of len(chars)*dim values (assumed to be unit
// normalized) and one luminosity per char. A nil luminosities slice gives
// every entry DefaultLuminosity.
func NewCatalog(chars []rune, dim int, embeddings []float32, luminosities []float32) (*Catalog, error) {
	if dim < 1 {
		return nil, fmt.Errorf("%w: embedding dimension must be positive, got %d", ErrCatalog, dim)
	}
	if len(embeddings) != len(chars)*dim {
		return nil, fmt.Errorf("%w: %d embedding values for %d chars of dimension %d (want %d)",
			ErrCatalog, len(embeddings), len(chars), dim, len(chars)*dim)
	}
	if luminosities != nil && len(luminosities) != len(chars) {
		return nil, fmt.Errorf("%w: luminosity count %d doesn't match char count %d",
			ErrCatalog, len(luminosities), len(chars))
	}

	c := &Catalog{
		chars:        append([]rune(nil), chars...),
		dim:          dim,
		luminosities: make([]float64, len(chars)),
	}
	for i := range c.luminosities {
		if luminosities == nil {
			c.luminosities[i] = DefaultLuminosity
		} else {
			c.luminosities[i] = float64(luminosities[i])
		}
	}
	if len(chars) > 0 {
		data := make([]float64, len(embeddings))
		for i, v := range embeddings {
			data[i] = float64(v)
		}
		c.embeddings = mat.NewDense(len(chars), dim, data)
	}
	return c, nil
}

// NewCatalogFromEntries builds a catalog from entries in order. All
// embeddings must share one dimension. An empty slice is rejected because
// the dimension cannot be inferred.
func NewCatalogFromEntries(entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries to infer dimension from", ErrCatalog)
	}
	dim := len(entries[0].Embedding)
	chars := make([]rune, len(entries))
	embeddings := make([]float32, 0, len(entries)*dim)
	luminosities := make([]float32, len(entries))
	for i, e := range entries {
		if len(e.Embedding) != dim {
			return nil, fmt.Errorf("%w: entry %d (%q) has dimension %d, expected %d",
				ErrCatalog, i, e.Char, len(e.Embedding), dim)
		}
		chars[i] = e.Char
		for _, v := range e.Embedding {
			embeddings = append(embeddings, float32(v))
		}
		luminosities[i] = float32(e.Luminosity)
	}
	return NewCatalog(chars, dim, embeddings, luminosities)
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.chars) }

// Dim returns the embedding dimension.
func (c *Catalog) Dim() int { return c.dim }

// Char returns the character of entry i.
func (c *Catalog) Char(i int) rune { return c.chars[i] }

// Chars returns a copy of the characters in catalog order.
func (c *Catalog) Chars() []rune { return append([]rune(nil), c.chars...) }

// Luminosity returns the mean luminosity of entry i.
func (c *Catalog) Luminosity(i int) float64 { return c.luminosities[i] }

// Embedding returns a copy of the embedding of entry i.
func (c *Catalog) Embedding(i int) []float64 {
	return mat.Row(nil, i, c.embeddings)
}

// Entries returns every entry in catalog order.
func (c *Catalog) Entries() []Entry {
	entries := make([]Entry, c.Len())
	for i := range entries {
		entries[i] = Entry{
			Char:       c.chars[i],
			Embedding:  c.Embedding(i),
			Luminosity: c.luminosities[i],
		}
	}
	return entries
}

// Filter returns a new catalog keeping only the entries whose character
// satisfies keep, in their original order. The receiver is not modified.
func (c *Catalog) Filter(keep func(rune) bool) *Catalog {
	var indices []int
	for i, ch := range c.chars {
		if keep(ch) {
			indices = append(indices, i)
		}
	}

	out := &Catalog{
		chars:        make([]rune, len(indices)),
		dim:          c.dim,
		luminosities: make([]float64, len(indices)),
	}
	if len(indices) == 0 {
		return out
	}

	data := make([]float64, 0, len(indices)*c.dim)
	for j, i := range indices {
		out.chars[j] = c.chars[i]
		out.luminosities[j] = c.luminosities[i]
		data = append(data, c.embeddings.RawRowView(i)...)
	}
	out.embeddings = mat.NewDense(len(indices), c.dim, data)
	return out
}

// IsASCII reports whether ch is printable ASCII (0x20-0x7E).
func IsASCII(ch rune) bool {
	return ch >= 0x20 && ch <= 0x7E
}

// IsMonochrome reports whether ch belongs to a block that renders as a
// plain single-color glyph in common terminal fonts: ASCII, Latin-1
// Supplement, Box Drawing, Block Elements and Geometric Shapes. Emoji and
// other multi-color symbols are excluded.
func IsMonochrome(ch rune) bool {
	switch {
	case IsASCII(ch):
		return true
	case ch >= 0xA0 && ch <= 0xFF: // Latin-1 Supplement
		return true
	case ch >= 0x2500 && ch <= 0x257F: // Box Drawing
		return true
	case ch >= 0x2580 && ch <= 0x259F: // Block Elements
		return true
	case ch >= 0x25A0 && ch <= 0x25FF: // Geometric Shapes
		return true
	}
	return false
}
