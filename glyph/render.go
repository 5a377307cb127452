package glyph

import (
	"image"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/wbrown/img2uni/imageutil"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	// CellWidth and CellHeight define the character cell every catalog
	// glyph is rendered into.
	CellWidth  = imageutil.PatchWidth
	CellHeight = imageutil.PatchHeight

	// CellFontSize is the pixel size used for catalog cells.
	CellFontSize = 14.0

	// baselineRatio places the baseline three quarters down the canvas,
	// leaving room for descenders.
	baselineRatio = 0.75

	// textSizeRatio is the font size used for large text, relative to the
	// canvas height.
	textSizeRatio = 0.875
)

// Renderer draws glyphs of one font white-on-black into grayscale images.
// Faces are cached per size; a Renderer is safe for concurrent use.
type Renderer struct {
	font *truetype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewRenderer creates a Renderer for the given font. A nil font selects
// the embedded Go Mono font.
func NewRenderer(f *truetype.Font) *Renderer {
	if f == nil {
		f = DefaultFont()
	}
	return &Renderer{
		font:  f,
		faces: make(map[float64]font.Face),
	}
}

// Has reports whether the font has a glyph for ch.
func (r *Renderer) Has(ch rune) bool {
	return r.font.Index(ch) != 0
}

// RenderCell renders ch into an 8x16 cell using the catalog conventions.
func (r *Renderer) RenderCell(ch rune) *imageutil.GrayImage {
	return r.Render(ch, CellWidth, CellHeight, CellFontSize)
}

// RenderText renders ch into a width x height canvas sized for large text:
// the font size scales with the canvas height.
func (r *Renderer) RenderText(ch rune, width, height int) *imageutil.GrayImage {
	return r.Render(ch, width, height, float64(height)*textSizeRatio)
}

// Render draws ch horizontally centered on a width x height black canvas,
// with its baseline at 75% of the height. Glyph parts that fall outside
// the canvas are clipped.
func (r *Renderer) Render(ch rune, width, height int, size float64) *imageutil.GrayImage {
	img := imageutil.NewGrayImage(width, height)

	r.mu.Lock()
	defer r.mu.Unlock()

	face := r.face(size)
	bounds, _, ok := face.GlyphBounds(ch)
	if !ok || bounds.Max.X <= bounds.Min.X || bounds.Max.Y <= bounds.Min.Y {
		return img
	}

	glyphW := (bounds.Max.X - bounds.Min.X).Ceil()
	x := (width-glyphW)/2 - bounds.Min.X.Floor()
	baseline := int(float64(height) * baselineRatio)

	d := &font.Drawer{
		Dst:  img.Gray,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(string(ch))
	return img
}

func (r *Renderer) face(size float64) font.Face {
	if face, ok := r.faces[size]; ok {
		return face
	}
	face := truetype.NewFace(r.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	r.faces[size] = face
	return face
}

// Luminosity returns the mean intensity of img in [0, 1].
func Luminosity(img *imageutil.GrayImage) float64 {
	return imageutil.MeanIntensity(img) / 255
}
