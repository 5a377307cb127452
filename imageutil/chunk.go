package imageutil

import (
	"image"
	"math"
)

// Terminal character cells are roughly 1:2, so every output cell is
// resampled to an 8x16 patch.
const (
	PatchWidth  = 8
	PatchHeight = 16
	PatchSize   = PatchWidth * PatchHeight
)

// Chunker maps a grayscale image onto a grid of cols x rows cells and
// resamples each cell's source region to a normalized 8x16 patch. It only
// reads the image, so one Chunker may serve concurrent Patch calls.
type Chunker struct {
	img    *GrayImage
	cols   int
	rows   int
	chunkW float64
	chunkH float64
}

// NewChunker creates a Chunker for the given grid. cols and rows must be at
// least 1.
func NewChunker(img *GrayImage, cols, rows int) *Chunker {
	return &Chunker{
		img:    img,
		cols:   cols,
		rows:   rows,
		chunkW: float64(img.Width()) / float64(cols),
		chunkH: float64(img.Height()) / float64(rows),
	}
}

// Cols returns the number of grid columns.
func (c *Chunker) Cols() int { return c.cols }

// Rows returns the number of grid rows.
func (c *Chunker) Rows() int { return c.rows }

// Region returns the source rectangle sampled for cell (col, row). The
// rectangle never extends past the image and is at least 1x1.
func (c *Chunker) Region(col, row int) image.Rectangle {
	w, h := c.img.Width(), c.img.Height()

	x0 := int(math.Floor(float64(col) * c.chunkW))
	y0 := int(math.Floor(float64(row) * c.chunkH))
	x1 := min(int(math.Ceil(float64(col+1)*c.chunkW)), w)
	y1 := min(int(math.Ceil(float64(row+1)*c.chunkH)), h)

	return image.Rect(x0, y0, x0+max(x1-x0, 1), y0+max(y1-y0, 1))
}

// Patch returns the 8x16 row-major nearest-neighbor resample of cell
// (col, row), with each sample scaled to [0, 1]. Cells outside the grid
// are not supported.
func (c *Chunker) Patch(col, row int) []float32 {
	region := c.Region(col, row)
	rw, rh := float64(region.Dx()), float64(region.Dy())
	maxX, maxY := c.img.Width()-1, c.img.Height()-1

	patch := make([]float32, PatchSize)
	for ty := 0; ty < PatchHeight; ty++ {
		sy := min(region.Min.Y+int(float64(ty)/PatchHeight*rh), maxY)
		rowOff := sy * c.img.Stride
		for tx := 0; tx < PatchWidth; tx++ {
			sx := min(region.Min.X+int(float64(tx)/PatchWidth*rw), maxX)
			patch[ty*PatchWidth+tx] = float32(c.img.Pix[rowOff+sx]) / 255
		}
	}
	return patch
}

// Mean returns the arithmetic mean of a patch, used as its luminosity.
func Mean(patch []float32) float32 {
	if len(patch) == 0 {
		return 0
	}
	var sum float32
	for _, v := range patch {
		sum += v
	}
	return sum / float32(len(patch))
}
