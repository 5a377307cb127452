// Package imageutil provides the pixel-level stages of the conversion
// pipeline: decoding, grayscale preparation, Atkinson dithering and
// resampling of an image into 8x16 character cell patches.
package imageutil

import (
	"image"
	"image/color"
)

// GrayImage wraps image.Gray with convenience methods for pixel access.
// The wrapped image always has its origin at (0, 0).
type GrayImage struct {
	*image.Gray
}

// NewGrayImage creates a new GrayImage with the specified dimensions.
func NewGrayImage(width, height int) *GrayImage {
	return &GrayImage{
		Gray: image.NewGray(image.Rect(0, 0, width, height)),
	}
}

// GrayImageFromImage converts any image.Image to GrayImage, moving the
// origin to (0, 0). Gray sources are copied without color conversion.
func GrayImageFromImage(img image.Image) *GrayImage {
	bounds := img.Bounds()
	gray := NewGrayImage(bounds.Dx(), bounds.Dy())

	if src, ok := img.(*image.Gray); ok {
		for y := 0; y < bounds.Dy(); y++ {
			srcOff := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(gray.Pix[y*gray.Stride:y*gray.Stride+bounds.Dx()],
				src.Pix[srcOff:srcOff+bounds.Dx()])
		}
		return gray
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x-bounds.Min.X, y-bounds.Min.Y, img.At(x, y))
		}
	}
	return gray
}

// Width returns the image width.
func (img *GrayImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *GrayImage) Height() int {
	return img.Bounds().Dy()
}

// GetGray returns the grayscale value at (x, y).
func (img *GrayImage) GetGray(x, y int) uint8 {
	return img.Pix[y*img.Stride+x]
}

// SetGrayValue sets the grayscale value at (x, y).
func (img *GrayImage) SetGrayValue(x, y int, v uint8) {
	img.Gray.SetGray(x, y, color.Gray{Y: v})
}

// Clone creates a deep copy of the image.
func (img *GrayImage) Clone() *GrayImage {
	clone := NewGrayImage(img.Width(), img.Height())
	for y := 0; y < img.Height(); y++ {
		copy(clone.Pix[y*clone.Stride:y*clone.Stride+img.Width()],
			img.Pix[y*img.Stride:y*img.Stride+img.Width()])
	}
	return clone
}
