package imageutil

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/wbrown/lospec"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// SwatchOptions controls RenderSwatch.
type SwatchOptions struct {
	// TileSize is the edge length of each color tile in pixels.
	TileSize int
	// Columns is the number of tiles per row; 0 puts every color in one
	// row, like a Lospec strip.
	Columns int
	// Labels draws each color's hex code on its tile.
	Labels bool
	// Font overrides the label font. Defaults to Go Mono.
	Font *truetype.Font
}

// DefaultSwatchOptions returns 40 pixel tiles in a single labelled row.
func DefaultSwatchOptions() SwatchOptions {
	return SwatchOptions{TileSize: 40, Labels: true}
}

var labelFont = sync.OnceValues(func() (*truetype.Font, error) {
	f, err := freetype.ParseFont(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse label font: %w", err)
	}
	return f, nil
})

// RenderSwatch draws the palette as a grid of square tiles in palette
// order. Labels are drawn in whichever of the palette's lightest or
// darkest color stands out more against the tile.
func RenderSwatch(p lospec.Palette, opts SwatchOptions) (*RGBAImage, error) {
	if opts.TileSize < 1 {
		return nil, fmt.Errorf("invalid tile size %d", opts.TileSize)
	}
	cols := opts.Columns
	if cols <= 0 || cols > p.Len() {
		cols = p.Len()
	}
	rows := (p.Len() + cols - 1) / cols

	img := NewRGBAImage(cols*opts.TileSize, rows*opts.TileSize)
	for i, c := range p.Indexed() {
		img.Fill(tileRect(i, cols, opts.TileSize), c)
	}
	if !opts.Labels {
		return img, nil
	}

	ttf := opts.Font
	if ttf == nil {
		var err error
		if ttf, err = labelFont(); err != nil {
			return nil, err
		}
	}
	// Six hex digits across roughly 80% of the tile.
	size := float64(opts.TileSize) / 5
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(size)
	ctx.SetDst(img.RGBA)
	ctx.SetHinting(font.HintingFull)

	light, dark := p.Lightest(), p.Darkest()
	descent := face.Metrics().Descent.Ceil()
	for i, c := range p.Indexed() {
		label := strings.TrimPrefix(c.Hex(), "#")
		ink := light
		if lospec.Distance(c, dark) > lospec.Distance(c, light) {
			ink = dark
		}

		r := tileRect(i, cols, opts.TileSize)
		width := font.MeasureString(face, label).Ceil()
		x := r.Min.X + (opts.TileSize-width)/2
		y := r.Max.Y - descent - opts.TileSize/10

		ctx.SetClip(r)
		ctx.SetSrc(image.NewUniform(ink.NRGBA()))
		if _, err := ctx.DrawString(label, freetype.Pt(x, y)); err != nil {
			return nil, fmt.Errorf("failed to draw label %s: %w", label, err)
		}
	}
	return img, nil
}

func tileRect(i, cols, size int) image.Rectangle {
	x, y := (i%cols)*size, (i/cols)*size
	return image.Rect(x, y, x+size, y+size)
}
