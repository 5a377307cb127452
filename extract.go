package img2uni

import (
	"fmt"

	"github.com/wbrown/img2uni/imageutil"
)

// PatchSet holds every cell patch of an image, row-major, together with
// each patch's mean luminosity. It is the first phase of the two-phase
// API: a host that runs the embedding model elsewhere embeds Patches,
// matches each with Matcher.Match and rebuilds the grid with Assemble.
type PatchSet struct {
	Patches      [][]float32
	Luminosities []float32
	Cols, Rows   int
}

// ExtractPatches resamples gray into cols x rows patches, dithering first
// when dither is set. Cols and rows below 1 are treated as 1.
func ExtractPatches(gray *imageutil.GrayImage, cols, rows int, dither bool) *PatchSet {
	cols = max(cols, 1)
	rows = max(rows, 1)

	src := gray
	if dither {
		src = imageutil.DitherAtkinson(gray, max(1, gray.Width()/cols))
	}

	chunker := imageutil.NewChunker(src, cols, rows)
	ps := &PatchSet{
		Patches:      make([][]float32, 0, cols*rows),
		Luminosities: make([]float32, 0, cols*rows),
		Cols:         cols,
		Rows:         rows,
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			patch := chunker.Patch(col, row)
			ps.Patches = append(ps.Patches, patch)
			ps.Luminosities = append(ps.Luminosities, imageutil.Mean(patch))
		}
	}
	return ps
}

// Len returns the number of patches.
func (ps *PatchSet) Len() int { return len(ps.Patches) }

// Assemble builds a grid from one character per patch, in patch order.
func (ps *PatchSet) Assemble(chars []rune) (Grid, error) {
	if len(chars) != ps.Cols*ps.Rows {
		return nil, fmt.Errorf("expected %d characters for a %dx%d grid, got %d",
			ps.Cols*ps.Rows, ps.Cols, ps.Rows, len(chars))
	}
	g := make(Grid, ps.Rows)
	for y := range g {
		g[y] = append([]rune(nil), chars[y*ps.Cols:(y+1)*ps.Cols]...)
	}
	return g, nil
}
