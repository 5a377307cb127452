package img2uni

import (
	"fmt"

	"github.com/wbrown/img2uni/glyph"
	"github.com/wbrown/img2uni/imageutil"
)

// ConvertText renders text as large characters. Each rune of text is
// drawn by r onto a canvas of cols x rows cells, the canvas is cut into
// 8x16 blocks and every block is matched like an image cell. The
// per-rune grids are placed side by side, so the result has rows rows
// and cols*len(text) columns.
func (c *Converter) ConvertText(text string, r *glyph.Renderer, cols, rows int) (Grid, error) {
	if cols < 1 || rows < 1 {
		return nil, fmt.Errorf("text cells must be at least 1x1, got %dx%d", cols, rows)
	}

	grid := make(Grid, rows)
	for _, ch := range text {
		img := r.RenderText(ch, cols*imageutil.PatchWidth, rows*imageutil.PatchHeight)
		ps := ExtractPatches(img, cols, rows, false)
		chars := make([]rune, ps.Len())
		for row := 0; row < rows; row++ {
			c.matchRow(ps, row, chars)
		}
		for row := 0; row < rows; row++ {
			grid[row] = append(grid[row], chars[row*cols:(row+1)*cols]...)
		}
	}
	return grid, nil
}
