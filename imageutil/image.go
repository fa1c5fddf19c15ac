// Package imageutil provides the image side of palette work: loading and
// saving images, resizing, remapping pixels onto a palette and rendering
// palette swatches.
package imageutil

import (
	"image"
	"image/color"

	"github.com/wbrown/lospec"
)

// RGBAImage wraps image.RGBA with convenience methods for pixel access.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage creates a new RGBAImage with the specified dimensions.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// RGBAImageFromImage converts any image.Image to an RGBAImage whose
// bounds start at the origin.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return &RGBAImage{RGBA: rgba}
	}
	bounds := img.Bounds()
	rgba := NewRGBAImage(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.Set(x-bounds.Min.X, y-bounds.Min.Y, img.At(x, y))
		}
	}
	return rgba
}

// Width returns the image width.
func (img *RGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *RGBAImage) Height() int {
	return img.Bounds().Dy()
}

// ColorAt returns the pixel at (x, y) as a palette color.
func (img *RGBAImage) ColorAt(x, y int) lospec.Color {
	return lospec.FromColor(img.RGBAAt(x, y))
}

// SetColor sets the pixel at (x, y).
func (img *RGBAImage) SetColor(x, y int, c lospec.Color) {
	img.Set(x, y, c.NRGBA())
}

// Fill paints the rectangle r with c.
func (img *RGBAImage) Fill(r image.Rectangle, c lospec.Color) {
	n := c.NRGBA()
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, n)
		}
	}
}

// Clone creates a deep copy of the image.
func (img *RGBAImage) Clone() *RGBAImage {
	clone := NewRGBAImage(img.Width(), img.Height())
	copy(clone.Pix, img.Pix)
	return clone
}

// ColorPalette converts a palette into an image/color palette suitable for
// image.Paletted.
func ColorPalette(p lospec.Palette) color.Palette {
	pal := make(color.Palette, 0, p.Len())
	for c := range p.All() {
		pal = append(pal, c.NRGBA())
	}
	return pal
}
