package imageutil

import (
	"image/color"
	"math"
)

// Kernel is a convolution kernel.
type Kernel struct {
	Values [][]float64
	Width  int
	Height int
}

// NewKernel creates a kernel from rows of weights.
func NewKernel(values [][]float64) *Kernel {
	height := len(values)
	width := 0
	if height > 0 {
		width = len(values[0])
	}
	return &Kernel{
		Values: values,
		Width:  width,
		Height: height,
	}
}

// SharpeningKernel returns a mild sharpening kernel. Its weights sum to 1,
// so flat areas keep their color.
func SharpeningKernel() *Kernel {
	return NewKernel([][]float64{
		{0, -0.5, 0},
		{-0.5, 3, -0.5},
		{0, -0.5, 0},
	})
}

// GaussianKernel5x5 returns a 5x5 Gaussian blur kernel with sigma ~1.4.
func GaussianKernel5x5() *Kernel {
	return NewKernel([][]float64{
		{2.0 / 159, 4.0 / 159, 5.0 / 159, 4.0 / 159, 2.0 / 159},
		{4.0 / 159, 9.0 / 159, 12.0 / 159, 9.0 / 159, 4.0 / 159},
		{5.0 / 159, 12.0 / 159, 15.0 / 159, 12.0 / 159, 5.0 / 159},
		{4.0 / 159, 9.0 / 159, 12.0 / 159, 9.0 / 159, 4.0 / 159},
		{2.0 / 159, 4.0 / 159, 5.0 / 159, 4.0 / 159, 2.0 / 159},
	})
}

// Convolve applies kernel to the color channels of img. Border pixels are
// handled by replicating edge values; alpha is copied unchanged.
func Convolve(img *RGBAImage, kernel *Kernel) *RGBAImage {
	width, height := img.Width(), img.Height()
	dst := NewRGBAImage(width, height)
	b := img.Bounds()

	halfKW := kernel.Width / 2
	halfKH := kernel.Height / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sumR, sumG, sumB float64

			for ky := 0; ky < kernel.Height; ky++ {
				for kx := 0; kx < kernel.Width; kx++ {
					sx := clampInt(x+kx-halfKW, 0, width-1)
					sy := clampInt(y+ky-halfKH, 0, height-1)

					c := img.RGBAAt(b.Min.X+sx, b.Min.Y+sy)
					k := kernel.Values[ky][kx]

					sumR += float64(c.R) * k
					sumG += float64(c.G) * k
					sumB += float64(c.B) * k
				}
			}

			a := img.RGBAAt(b.Min.X+x, b.Min.Y+y).A
			// Channels are premultiplied, so they may not exceed alpha.
			dst.SetRGBA(x, y, color.RGBA{
				R: min(clampUint8(sumR), a),
				G: min(clampUint8(sumG), a),
				B: min(clampUint8(sumB), a),
				A: a,
			})
		}
	}

	return dst
}

// Sharpen applies a mild sharpening filter, useful before remapping a
// downscaled photo.
func Sharpen(img *RGBAImage) *RGBAImage {
	return Convolve(img, SharpeningKernel())
}

// GaussianBlur applies a Gaussian blur, which smooths noise that would
// otherwise dither into speckles.
func GaussianBlur(img *RGBAImage) *RGBAImage {
	return Convolve(img, GaussianKernel5x5())
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
