package imageutil

// ditherThreshold splits working values into black and white.
const ditherThreshold = 127.5

// DitherAtkinson returns a new bilevel image (values 0 or 255 only) of the
// same size as img, produced by Atkinson error diffusion at a working
// resolution reduced by scale. Each working pixel averages the in-bounds
// pixels of its scale x scale block; the binarized result is upsampled back
// by pixel replication. A scale below 1 is treated as 1.
//
// The diffusion pass is inherently sequential: every pixel depends on the
// error pushed forward by the pixels before it in row-major order.
func DitherAtkinson(img *GrayImage, scale int) *GrayImage {
	scale = max(scale, 1)
	width, height := img.Width(), img.Height()

	work, workW, workH := downsampleBlocks(img, scale)
	bits := diffuseAtkinson(work, workW, workH)

	out := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		by := min(y/scale, workH-1)
		for x := 0; x < width; x++ {
			bx := min(x/scale, workW-1)
			out.Pix[y*out.Stride+x] = bits[by*workW+bx]
		}
	}
	return out
}

// downsampleBlocks builds the float working buffer. For scale 1 it is an
// exact copy of the source.
func downsampleBlocks(img *GrayImage, scale int) ([]float32, int, int) {
	width, height := img.Width(), img.Height()
	if scale == 1 {
		buf := make([]float32, width*height)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				buf[y*width+x] = float32(img.Pix[y*img.Stride+x])
			}
		}
		return buf, width, height
	}

	workW := (width + scale - 1) / scale
	workH := (height + scale - 1) / scale
	buf := make([]float32, workW*workH)
	for by := 0; by < workH; by++ {
		for bx := 0; bx < workW; bx++ {
			var sum float32
			count := 0
			for y := by * scale; y < min((by+1)*scale, height); y++ {
				for x := bx * scale; x < min((bx+1)*scale, width); x++ {
					sum += float32(img.Pix[y*img.Stride+x])
					count++
				}
			}
			buf[by*workW+bx] = sum / float32(count)
		}
	}
	return buf, workW, workH
}

// diffuseAtkinson binarizes buf in place order, returning the 0/255 result.
func diffuseAtkinson(buf []float32, width, height int) []uint8 {
	out := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			newVal, _ := atkinsonStep(buf, width, height, x, y)
			out[y*width+x] = uint8(newVal)
		}
	}
	return out
}

// atkinsonStep quantizes the pixel at (x, y) and pushes one eighth of the
// quantization error to each in-bounds Atkinson neighbor. It returns the
// quantized value and the total error actually diffused; the remaining
// quarter of the error is dropped.
func atkinsonStep(buf []float32, width, height, x, y int) (float32, float32) {
	idx := y*width + x
	old := min(max(buf[idx], 0), 255)
	var newVal float32
	if old > ditherThreshold {
		newVal = 255
	}
	e := (old - newVal) / 8

	var diffused float32
	spread := func(nx, ny int) {
		if nx >= 0 && nx < width && ny < height {
			buf[ny*width+nx] += e
			diffused += e
		}
	}
	spread(x+1, y)
	spread(x+2, y)
	spread(x-1, y+1)
	spread(x, y+1)
	spread(x+1, y+1)
	spread(x, y+2)

	return newVal, diffused
}
