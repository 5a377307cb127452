// Package img2uni converts images into grids of Unicode characters.
//
// An image is reduced to grayscale, optionally Atkinson dithered, and cut
// into one 8x16 patch per output cell. Each patch is embedded by an
// external model (see Embedder) and matched against a Catalog of
// characters, scoring a blend of embedding cosine similarity and
// luminosity similarity.
//
// For hosts that run the model outside this package, ExtractPatches and
// Matcher.Match split a conversion into two phases.
package img2uni

import "image"

// Options configures the one-shot Convert function.
type Options struct {
	Dither         bool
	ASCIIOnly      bool
	MonochromeOnly bool
	EdgeWeight     float64
}

// DefaultOptions returns options with pure embedding matching and no
// filtering or dithering.
func DefaultOptions() Options {
	return Options{EdgeWeight: 1.0}
}

// Convert converts img to a string width characters wide. Rows are
// derived from the image aspect ratio. Note that the zero Options value
// has EdgeWeight 0, which matches on luminosity alone.
func Convert(img image.Image, width int, cat *Catalog, emb Embedder, opts Options) (string, error) {
	c, err := NewConverter(cat, emb,
		WithWidth(width),
		WithDither(opts.Dither),
		WithASCIIOnly(opts.ASCIIOnly),
		WithMonochromeOnly(opts.MonochromeOnly),
		WithEdgeWeight(opts.EdgeWeight),
	)
	if err != nil {
		return "", err
	}
	return c.Convert(img)
}
