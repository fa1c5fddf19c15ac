package imageutil

import (
	"fmt"
	"image"
	"image/color"

	"github.com/wbrown/lospec"
	"golang.org/x/image/draw"
)

// RemapOption configures Remap.
type RemapOption func(*remapConfig)

type remapConfig struct {
	dither bool
	metric lospec.Metric
}

// WithDither enables Floyd-Steinberg error diffusion.
func WithDither(on bool) RemapOption {
	return func(c *remapConfig) {
		c.dither = on
	}
}

// WithMetric ranks palette colors with m instead of the palette's own
// Manhattan distance.
func WithMetric(m lospec.Metric) RemapOption {
	return func(c *remapConfig) {
		c.metric = m
	}
}

// Remap replaces every pixel of img with its closest palette color and
// returns the result as a paletted image whose palette is p in order.
// Alpha is ignored when matching: a pixel is matched on its
// non-premultiplied color. Palettes with more than 256 colors cannot be
// represented as image.Paletted and are rejected.
func Remap(img image.Image, p lospec.Palette, opts ...RemapOption) (*image.Paletted, error) {
	if p.Len() > 256 {
		return nil, fmt.Errorf("palette has %d colors, at most 256 can be remapped", p.Len())
	}
	cfg := remapConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	closest := closestFunc(p, cfg.metric)
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	src := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(src, src.Bounds(), img, b.Min, draw.Src)
	dst := image.NewPaletted(image.Rect(0, 0, width, height), ColorPalette(p))

	if !cfg.dither {
		// Pixel art reuses few colors, so remember each answer.
		cache := make(map[color.NRGBA]uint8)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				px := src.NRGBAAt(x, y)
				px.A = 0
				idx, ok := cache[px]
				if !ok {
					i, _ := closest(lospec.RGB8(px.R, px.G, px.B))
					idx = uint8(i)
					cache[px] = idx
				}
				dst.SetColorIndex(x, y, idx)
			}
		}
		return dst, nil
	}

	// Working copy in 0-255 floats so diffused error is not clipped early.
	work := make([][3]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px := src.NRGBAAt(x, y)
			work[y*width+x] = [3]float64{float64(px.R), float64(px.G), float64(px.B)}
		}
	}

	diffuseError := func(y, x int, e [3]float64, factor float64) {
		if y >= 0 && y < height && x >= 0 && x < width {
			w := &work[y*width+x]
			for ch := 0; ch < 3; ch++ {
				w[ch] += e[ch] * factor
			}
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			w := work[y*width+x]
			want := lospec.RGB8(clampUint8(w[0]), clampUint8(w[1]), clampUint8(w[2]))
			i, got := closest(want)
			dst.SetColorIndex(x, y, uint8(i))

			n := got.NRGBA()
			e := [3]float64{
				w[0] - float64(n.R),
				w[1] - float64(n.G),
				w[2] - float64(n.B),
			}
			diffuseError(y, x+1, e, 7.0/16.0)
			diffuseError(y+1, x-1, e, 3.0/16.0)
			diffuseError(y+1, x, e, 5.0/16.0)
			diffuseError(y+1, x+1, e, 1.0/16.0)
		}
	}
	return dst, nil
}

func closestFunc(p lospec.Palette, m lospec.Metric) func(lospec.Color) (int, lospec.Color) {
	if m == nil {
		return lospec.NewIndex(p).Closest
	}
	if _, ok := m.(lospec.ManhattanMetric); ok {
		return lospec.NewIndex(p).Closest
	}
	return func(c lospec.Color) (int, lospec.Color) {
		return p.ClosestBy(m, c)
	}
}
