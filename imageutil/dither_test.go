package imageutil

import "testing"

func TestDitherConstantImagesUnchanged(t *testing.T) {
	t.Parallel()

	for _, v := range []uint8{0, 255} {
		for _, scale := range []int{0, 1, 2, 3, 7, 64} {
			img := CreateSolidImage(37, 21, v)
			out := DitherAtkinson(img, scale)
			if out.Width() != 37 || out.Height() != 21 {
				t.Fatalf("scale %d: dimensions changed to %dx%d", scale, out.Width(), out.Height())
			}
			if mse := CalculateMSEGray(img, out); mse != 0 {
				t.Errorf("value %d scale %d: constant image changed (MSE %f)", v, scale, mse)
			}
		}
	}
}

func TestDitherOutputIsBilevel(t *testing.T) {
	t.Parallel()

	img := CreateGradientImage(50, 30)
	for _, scale := range []int{1, 4} {
		out := DitherAtkinson(img, scale)
		for y := 0; y < out.Height(); y++ {
			for x := 0; x < out.Width(); x++ {
				if v := out.GetGray(x, y); v != 0 && v != 255 {
					t.Fatalf("scale %d: pixel (%d,%d) = %d", scale, x, y, v)
				}
			}
		}
	}
	if img.GetGray(49, 0) != 255 {
		t.Error("DitherAtkinson must not modify its input")
	}
}

func TestDitherScaleReplicatesBlocks(t *testing.T) {
	t.Parallel()

	img := CreateGradientImage(23, 10)
	const scale = 4
	out := DitherAtkinson(img, scale)
	for y := 0; y < out.Height(); y++ {
		for x := 0; x < out.Width(); x++ {
			anchor := out.GetGray(x/scale*scale, y/scale*scale)
			if out.GetGray(x, y) != anchor {
				t.Fatalf("pixel (%d,%d) differs from its block anchor", x, y)
			}
		}
	}
}

func TestDitherBlockAveraging(t *testing.T) {
	t.Parallel()

	// Left 2x2 block averages to 191.25, right partial block to 0.
	img := NewGrayImage(3, 2)
	img.SetGrayValue(0, 0, 255)
	img.SetGrayValue(1, 0, 255)
	img.SetGrayValue(0, 1, 255)
	img.SetGrayValue(1, 1, 0)

	buf, w, h := downsampleBlocks(img, 2)
	if w != 2 || h != 1 {
		t.Fatalf("Expected 2x1 working buffer, got %dx%d", w, h)
	}
	if buf[0] != 191.25 || buf[1] != 0 {
		t.Errorf("Expected [191.25 0], got %v", buf)
	}

	out := DitherAtkinson(img, 2)
	for y := 0; y < 2; y++ {
		if out.GetGray(0, y) != 255 || out.GetGray(1, y) != 255 {
			t.Errorf("row %d: bright block should become white", y)
		}
		// 0 + (191.25-255)/8 clamps to 0.
		if out.GetGray(2, y) != 0 {
			t.Errorf("row %d: dark block should stay black", y)
		}
	}
}

func TestAtkinsonStepDiffusesSixEighths(t *testing.T) {
	t.Parallel()

	const w, h = 4, 3
	buf := make([]float32, w*h)
	buf[1] = 100 // (1,0) has all six neighbors in bounds

	newVal, diffused := atkinsonStep(buf, w, h, 1, 0)
	if newVal != 0 {
		t.Fatalf("100 should quantize to 0, got %f", newVal)
	}
	if diffused != 75 {
		t.Errorf("Expected 6/8 of 100 diffused, got %f", diffused)
	}

	neighbors := [][2]int{{2, 0}, {3, 0}, {0, 1}, {1, 1}, {2, 1}, {1, 2}}
	var sum float32
	for _, n := range neighbors {
		v := buf[n[1]*w+n[0]]
		if v != 12.5 {
			t.Errorf("neighbor %v: expected 12.5, got %f", n, v)
		}
		sum += v
	}
	if lost := 100 - sum; lost != 25 {
		t.Errorf("Expected 2/8 of the error to be discarded, lost %f", lost)
	}
	// Pixels that are not Atkinson neighbors receive nothing.
	for idx, v := range buf {
		if idx != 1 && !isNeighbor(idx, w, neighbors) && v != 0 {
			t.Errorf("index %d unexpectedly received error %f", idx, v)
		}
	}
}

func TestAtkinsonStepClipsAtEdges(t *testing.T) {
	t.Parallel()

	const w, h = 2, 2
	buf := []float32{200, 0, 0, 0}
	newVal, diffused := atkinsonStep(buf, w, h, 0, 0)
	if newVal != 255 {
		t.Fatalf("200 should quantize to 255, got %f", newVal)
	}
	// Only (1,0), (0,1) and (1,1) are in bounds.
	want := float32(3) * (200 - 255) / 8
	if diffused != want {
		t.Errorf("Expected %f diffused, got %f", want, diffused)
	}
}

func TestDitherPreservesTonalOrder(t *testing.T) {
	t.Parallel()

	dark := DitherAtkinson(CreateSolidImage(64, 64, 64), 1)
	light := DitherAtkinson(CreateSolidImage(64, 64, 191), 1)
	if MeanIntensity(dark) >= MeanIntensity(light) {
		t.Errorf("dark mean %f should be below light mean %f",
			MeanIntensity(dark), MeanIntensity(light))
	}
	if MeanIntensity(dark) > 128 || MeanIntensity(light) < 128 {
		t.Errorf("dithered means drifted across mid-gray: dark %f light %f",
			MeanIntensity(dark), MeanIntensity(light))
	}
}

func isNeighbor(idx, w int, neighbors [][2]int) bool {
	for _, n := range neighbors {
		if n[1]*w+n[0] == idx {
			return true
		}
	}
	return false
}
