package imageutil

import (
	"image"
	"testing"
)

func TestChunkerPatchShape(t *testing.T) {
	t.Parallel()

	sizes := []struct{ w, h, cols, rows int }{
		{16, 32, 2, 2},
		{100, 37, 7, 3},
		{3, 5, 10, 20}, // more cells than pixels
		{1, 1, 1, 1},
		{640, 480, 80, 30},
	}
	for _, s := range sizes {
		img := CreateGradientImage(s.w, s.h)
		c := NewChunker(img, s.cols, s.rows)
		for row := 0; row < s.rows; row++ {
			for col := 0; col < s.cols; col++ {
				p := c.Patch(col, row)
				if len(p) != PatchSize {
					t.Fatalf("%dx%d grid %dx%d: patch len %d", s.w, s.h, s.cols, s.rows, len(p))
				}
				for i, v := range p {
					if v < 0 || v > 1 {
						t.Fatalf("sample %d out of range: %f", i, v)
					}
				}
			}
		}
	}
}

func TestChunkerRegionsCoverImage(t *testing.T) {
	t.Parallel()

	for _, s := range []struct{ w, h, cols, rows int }{
		{100, 37, 7, 3},
		{64, 64, 8, 4},
		{10, 10, 3, 3},
		{5, 3, 8, 8},
	} {
		img := NewGrayImage(s.w, s.h)
		c := NewChunker(img, s.cols, s.rows)
		bounds := img.Bounds()
		covered := make([]bool, s.w*s.h)

		for row := 0; row < s.rows; row++ {
			for col := 0; col < s.cols; col++ {
				r := c.Region(col, row)
				if r.Dx() < 1 || r.Dy() < 1 {
					t.Fatalf("empty region for cell (%d,%d): %v", col, row, r)
				}
				if !r.In(bounds) {
					t.Fatalf("region %v for cell (%d,%d) exceeds %v", r, col, row, bounds)
				}
				for y := r.Min.Y; y < r.Max.Y; y++ {
					for x := r.Min.X; x < r.Max.X; x++ {
						covered[y*s.w+x] = true
					}
				}
			}
		}
		for i, ok := range covered {
			if !ok {
				t.Errorf("%dx%d into %dx%d: pixel (%d,%d) not covered",
					s.w, s.h, s.cols, s.rows, i%s.w, i/s.w)
			}
		}
	}
}

func TestChunkerExactCells(t *testing.T) {
	t.Parallel()

	// A 16x32 image split 2x2 maps every cell to exactly one 8x16 block.
	img := CreateCheckerboardImage(16, 32, 1)
	c := NewChunker(img, 2, 2)

	if r := c.Region(1, 1); r != image.Rect(8, 16, 16, 32) {
		t.Errorf("Expected region (8,16)-(16,32), got %v", r)
	}
	p := c.Patch(1, 1)
	for ty := 0; ty < PatchHeight; ty++ {
		for tx := 0; tx < PatchWidth; tx++ {
			want := float32(img.GetGray(8+tx, 16+ty)) / 255
			if p[ty*PatchWidth+tx] != want {
				t.Fatalf("sample (%d,%d): expected %f, got %f",
					tx, ty, want, p[ty*PatchWidth+tx])
			}
		}
	}
}

func TestChunkerUpsamplesSmallRegions(t *testing.T) {
	t.Parallel()

	img := NewGrayImage(2, 1)
	img.SetGrayValue(1, 0, 255)
	c := NewChunker(img, 1, 1)

	p := c.Patch(0, 0)
	for ty := 0; ty < PatchHeight; ty++ {
		for tx := 0; tx < PatchWidth; tx++ {
			want := float32(0)
			if tx >= PatchWidth/2 {
				want = 1
			}
			if p[ty*PatchWidth+tx] != want {
				t.Fatalf("sample (%d,%d): expected %f, got %f", tx, ty, want, p[ty*PatchWidth+tx])
			}
		}
	}
	if m := Mean(p); m != 0.5 {
		t.Errorf("Expected mean 0.5, got %f", m)
	}
}

func TestMean(t *testing.T) {
	if Mean(nil) != 0 {
		t.Error("Mean of empty patch should be 0")
	}
	p := make([]float32, PatchSize)
	for i := range p {
		p[i] = 1
	}
	if Mean(p) != 1 {
		t.Errorf("Expected 1, got %f", Mean(p))
	}
}
