package imageutil

import (
	"image"

	"github.com/disintegration/gift"
)

// ToGray converts any image to an 8-bit grayscale GrayImage using the
// BT.601 luminance weights, optionally inverting intensities. The result is
// a new buffer; the source is never modified.
func ToGray(img image.Image, invert bool) *GrayImage {
	if g, ok := img.(*image.Gray); ok && !invert {
		return GrayImageFromImage(g)
	}

	filters := []gift.Filter{gift.Grayscale()}
	if invert {
		filters = append(filters, gift.Invert())
	}
	g := gift.New(filters...)

	dst := image.NewGray(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return GrayImageFromImage(dst)
}

// Invert returns a new image with every intensity v replaced by 255-v.
func Invert(img *GrayImage) *GrayImage {
	g := gift.New(gift.Invert())
	dst := image.NewGray(g.Bounds(img.Bounds()))
	g.Draw(dst, img.Gray)
	return &GrayImage{Gray: dst}
}
