package img2uni

import (
	"errors"
	"fmt"
	"image"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/wbrown/img2uni/imageutil"
)

// Converter turns images into character grids. It owns a filtered view
// of a shared catalog, a matcher and an optional patch cache, so several
// converters with different settings can share one loaded Catalog.
type Converter struct {
	// Configuration options
	Width          int
	Height         int
	Dither         bool
	EdgeWeight     float64
	ASCIIOnly      bool
	MonochromeOnly bool
	Invert         bool
	Workers        int
	UseCache       bool

	embedder Embedder
	matcher  *Matcher
	cache    *PatchCache

	cells         atomic.Int64
	substitutions atomic.Int64
}

// ConverterOption is a functional option for configuring a Converter.
type ConverterOption func(*Converter)

// Stats summarizes work done by a Converter since creation or the last
// ResetStats.
type Stats struct {
	Cells         int
	Substitutions int
	CacheHits     int
	CacheMisses   int
}

// NewConverter creates a converter matching against cat with embeddings
// from emb.
// Default values: Width=80, Height=0 (from aspect ratio), EdgeWeight=1.0,
// Workers=1, no dithering, no filtering, no cache.
func NewConverter(cat *Catalog, emb Embedder, opts ...ConverterOption) (*Converter, error) {
	c := &Converter{
		Width:      80,
		EdgeWeight: 1.0,
		Workers:    1,
	}
	for _, opt := range opts {
		opt(c)
	}

	if cat == nil {
		return nil, fmt.Errorf("%w: nil catalog", ErrCatalog)
	}
	if emb == nil {
		return nil, errors.New("converter requires an embedder")
	}
	if c.Width < 1 {
		return nil, fmt.Errorf("width must be at least 1, got %d", c.Width)
	}
	if c.Height < 0 {
		return nil, fmt.Errorf("height must not be negative, got %d", c.Height)
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}

	switch {
	case c.ASCIIOnly:
		cat = cat.Filter(IsASCII)
	case c.MonochromeOnly:
		cat = cat.Filter(IsMonochrome)
	}
	if cat.Len() == 0 {
		return nil, fmt.Errorf("%w: no characters left after filtering", ErrEmptyCatalog)
	}

	c.embedder = emb
	c.matcher = NewMatcher(cat, c.EdgeWeight)
	c.EdgeWeight = c.matcher.EdgeWeight()
	if c.UseCache {
		c.cache = NewPatchCache()
	}
	return c, nil
}

// WithWidth sets the output width in characters.
func WithWidth(width int) ConverterOption {
	return func(c *Converter) {
		c.Width = width
	}
}

// WithHeight fixes the output height in rows. Zero derives it from the
// image aspect ratio.
func WithHeight(height int) ConverterOption {
	return func(c *Converter) {
		c.Height = height
	}
}

// WithDither enables Atkinson dithering before resampling.
func WithDither(enabled bool) ConverterOption {
	return func(c *Converter) {
		c.Dither = enabled
	}
}

// WithEdgeWeight sets the blend between embedding similarity and
// luminosity similarity. See Matcher.
func WithEdgeWeight(w float64) ConverterOption {
	return func(c *Converter) {
		c.EdgeWeight = w
	}
}

// WithASCIIOnly restricts output to printable ASCII. Takes precedence over
// WithMonochromeOnly.
func WithASCIIOnly(enabled bool) ConverterOption {
	return func(c *Converter) {
		c.ASCIIOnly = enabled
	}
}

// WithMonochromeOnly restricts output to characters that render as plain
// monochrome glyphs.
func WithMonochromeOnly(enabled bool) ConverterOption {
	return func(c *Converter) {
		c.MonochromeOnly = enabled
	}
}

// WithInvert inverts luminance after grayscale conversion.
func WithInvert(enabled bool) ConverterOption {
	return func(c *Converter) {
		c.Invert = enabled
	}
}

// WithWorkers sets how many goroutines match cells. Zero or less uses
// GOMAXPROCS. The embedder must be safe for concurrent use when n > 1.
func WithWorkers(n int) ConverterOption {
	return func(c *Converter) {
		c.Workers = n
	}
}

// WithPatchCache enables the per-converter patch cache.
func WithPatchCache(enabled bool) ConverterOption {
	return func(c *Converter) {
		c.UseCache = enabled
	}
}

// Matcher returns the converter's matcher, whose catalog reflects the
// configured filters.
func (c *Converter) Matcher() *Matcher { return c.matcher }

// Dimensions returns the grid size for an image of width w and height h.
// Character cells are twice as tall as wide, hence the factor 0.5.
func (c *Converter) Dimensions(w, h int) (cols, rows int) {
	cols = c.Width
	if c.Height > 0 {
		return cols, c.Height
	}
	aspect := float64(w) / float64(h)
	rows = int(math.Round(float64(cols) / aspect * 0.5))
	return cols, max(rows, 1)
}

// Convert converts img and returns the grid as newline-terminated rows.
func (c *Converter) Convert(img image.Image) (string, error) {
	grid, err := c.ConvertGray(imageutil.ToGray(img, c.Invert))
	if err != nil {
		return "", err
	}
	return grid.String(), nil
}

// ConvertFile loads and converts the image at path.
func (c *Converter) ConvertFile(path string) (string, error) {
	img, err := imageutil.LoadImage(path)
	if err != nil {
		return "", err
	}
	return c.Convert(img)
}

// Extract runs the first phase of the two-phase API on img using the
// converter's width, height, invert and dither settings.
func (c *Converter) Extract(img image.Image) (*PatchSet, error) {
	gray := imageutil.ToGray(img, c.Invert)
	if gray.Width() == 0 || gray.Height() == 0 {
		return nil, fmt.Errorf("cannot convert empty image %dx%d", gray.Width(), gray.Height())
	}
	cols, rows := c.Dimensions(gray.Width(), gray.Height())
	return ExtractPatches(gray, cols, rows, c.Dither), nil
}

// ConvertGray converts an already grayscale image. Invert is not applied.
func (c *Converter) ConvertGray(gray *imageutil.GrayImage) (Grid, error) {
	if gray.Width() == 0 || gray.Height() == 0 {
		return nil, fmt.Errorf("cannot convert empty image %dx%d", gray.Width(), gray.Height())
	}
	cols, rows := c.Dimensions(gray.Width(), gray.Height())
	Logger().Debug("converting image",
		"width", gray.Width(), "height", gray.Height(),
		"cols", cols, "rows", rows,
		"dither", c.Dither, "workers", c.Workers)

	ps := ExtractPatches(gray, cols, rows, c.Dither)
	chars := make([]rune, ps.Len())

	workers := min(c.Workers, ps.Rows)
	if workers <= 1 {
		for row := 0; row < ps.Rows; row++ {
			c.matchRow(ps, row, chars)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for row := range jobs {
					c.matchRow(ps, row, chars)
				}
			}()
		}
		for row := 0; row < ps.Rows; row++ {
			jobs <- row
		}
		close(jobs)
		wg.Wait()
	}

	if c.cache != nil {
		hits, misses, rate := c.cache.Stats()
		Logger().Debug("patch cache", "hits", hits, "misses", misses, "hit_rate", rate)
	}
	return ps.Assemble(chars)
}

// matchRow fills chars for one row of ps. Rows write disjoint ranges.
func (c *Converter) matchRow(ps *PatchSet, row int, chars []rune) {
	for col := 0; col < ps.Cols; col++ {
		i := row*ps.Cols + col
		ch, err := c.matchPatch(ps.Patches[i], float64(ps.Luminosities[i]))
		if err != nil {
			Logger().Warn("substituting blank for cell", "col", col, "row", row, "err", err)
			c.substitutions.Add(1)
			ch = ' '
		}
		chars[i] = ch
		c.cells.Add(1)
	}
}

func (c *Converter) matchPatch(patch []float32, lum float64) (rune, error) {
	if c.cache != nil {
		if ch, ok := c.cache.Get(patch); ok {
			return ch, nil
		}
	}
	embedding, err := c.embedder.Embed(patch)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}
	ch, err := c.matcher.FindBestMatch(embedding, lum)
	if err != nil {
		return 0, err
	}
	if c.cache != nil {
		c.cache.Put(patch, ch)
	}
	return ch, nil
}

// Stats returns conversion statistics.
func (c *Converter) Stats() Stats {
	s := Stats{
		Cells:         int(c.cells.Load()),
		Substitutions: int(c.substitutions.Load()),
	}
	if c.cache != nil {
		s.CacheHits, s.CacheMisses, _ = c.cache.Stats()
	}
	return s
}

// ResetStats resets all statistics counters. Cached patches are kept.
func (c *Converter) ResetStats() {
	c.cells.Store(0)
	c.substitutions.Store(0)
	if c.cache != nil {
		c.cache.ResetStats()
	}
}
