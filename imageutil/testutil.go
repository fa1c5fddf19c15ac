package imageutil

import (
	"image"
	"math"

	"github.com/wbrown/lospec"
)

// CreateGradientImage creates a horizontal gray gradient test image.
func CreateGradientImage(width, height int) *RGBAImage {
	img := NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(255 * x / max(width-1, 1))
			img.SetColor(x, y, lospec.RGB8(v, v, v))
		}
	}
	return img
}

// CreateSolidImage creates a solid color image.
func CreateSolidImage(width, height int, c lospec.Color) *RGBAImage {
	img := NewRGBAImage(width, height)
	img.Fill(img.Bounds(), c)
	return img
}

// CreatePaletteBarsImage creates vertical bars, one per palette color,
// each barWidth pixels wide.
func CreatePaletteBarsImage(p lospec.Palette, barWidth, height int) *RGBAImage {
	img := NewRGBAImage(p.Len()*barWidth, height)
	for i, c := range p.Indexed() {
		img.Fill(image.Rect(i*barWidth, 0, (i+1)*barWidth, height), c)
	}
	return img
}

// CalculateMSE calculates the mean squared error between two images over
// the color channels. Images of different sizes return math.MaxFloat64.
func CalculateMSE(img1, img2 *RGBAImage) float64 {
	if img1.Width() != img2.Width() || img1.Height() != img2.Height() {
		return math.MaxFloat64
	}

	width, height := img1.Width(), img1.Height()
	var sumSq float64
	count := float64(width * height * 3)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c1 := img1.ColorAt(x, y).NRGBA()
			c2 := img2.ColorAt(x, y).NRGBA()
			dr := float64(c1.R) - float64(c2.R)
			dg := float64(c1.G) - float64(c2.G)
			db := float64(c1.B) - float64(c2.B)
			sumSq += dr*dr + dg*dg + db*db
		}
	}

	return sumSq / count
}
