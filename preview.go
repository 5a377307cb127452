package img2uni

import (
	"image"

	"github.com/wbrown/img2uni/glyph"
	"github.com/wbrown/img2uni/imageutil"
	"golang.org/x/image/draw"
)

// RenderPreview draws grid with r, one 8x16 cell per character, white on
// black. A scale above 1 enlarges the result with nearest-neighbor
// sampling so glyph pixels stay crisp.
func RenderPreview(grid Grid, r *glyph.Renderer, scale int) *imageutil.GrayImage {
	cols := 0
	for _, row := range grid {
		cols = max(cols, len(row))
	}
	img := imageutil.NewGrayImage(cols*glyph.CellWidth, len(grid)*glyph.CellHeight)

	cells := make(map[rune]*imageutil.GrayImage)
	for y, row := range grid {
		for x, ch := range row {
			cell, ok := cells[ch]
			if !ok {
				cell = r.RenderCell(ch)
				cells[ch] = cell
			}
			dst := image.Rect(x*glyph.CellWidth, y*glyph.CellHeight,
				(x+1)*glyph.CellWidth, (y+1)*glyph.CellHeight)
			draw.Draw(img.Gray, dst, cell.Gray, image.Point{}, draw.Src)
		}
	}

	if scale > 1 {
		return imageutil.ScaleGray(img, scale, imageutil.InterpolationNearest)
	}
	return img
}

// SavePreview renders grid and writes it to path. The format follows the
// file extension, as in imageutil.SaveImage.
func SavePreview(grid Grid, r *glyph.Renderer, scale int, path string) error {
	return imageutil.SaveGrayImage(RenderPreview(grid, r, scale), path)
}
