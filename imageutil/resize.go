package imageutil

import (
	"image"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationArea uses Catmull-Rom for high-quality downscaling.
	InterpolationArea Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation. Pixel art
	// keeps its hard edges, and no colors outside the source are invented.
	InterpolationNearest
)

func (interp Interpolation) scaler() draw.Scaler {
	switch interp {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// Resize resizes an RGBA image to the specified dimensions using the
// given interpolation method.
func Resize(img *RGBAImage, width, height int, interp Interpolation) *RGBAImage {
	dst := NewRGBAImage(width, height)
	interp.scaler().Scale(dst.RGBA, dst.Bounds(), img.RGBA, img.Bounds(), draw.Over, nil)
	return dst
}

// ResizeToWidth resizes an image to the specified width while maintaining
// aspect ratio.
func ResizeToWidth(img *RGBAImage, width int, interp Interpolation) *RGBAImage {
	aspectRatio := float64(img.Width()) / float64(img.Height())
	height := max(int(float64(width)/aspectRatio), 1)
	return Resize(img, width, height, interp)
}

// Upscale enlarges an image by an integer factor with nearest-neighbor
// sampling, the usual way to preview pixel art.
func Upscale(img image.Image, factor int) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
