package lospec

import (
	"encoding/json"
	"iter"
	"strings"
)

// Palette is an ordered, non-empty, immutable list of colors. The zero
// value is the default palette.
type Palette struct {
	colors []Color
}

var defaultColors = []Color{Pink, Azure, Aquamarine, Gold, Black, White}

// Default returns the fallback palette used when no palette file is
// available: pink, azure, aquamarine, gold, black and white.
func Default() Palette {
	return Palette{}
}

// NewPalette returns a palette holding a copy of colors in the given
// order. It returns ErrEmptyPalette if colors is empty.
func NewPalette(colors []Color) (Palette, error) {
	if len(colors) == 0 {
		return Palette{}, ErrEmptyPalette
	}
	c := make([]Color, len(colors))
	copy(c, colors)
	return Palette{colors: c}, nil
}

func (p Palette) list() []Color {
	if len(p.colors) == 0 {
		return defaultColors
	}
	return p.colors
}

// Len returns the number of colors in the palette. It is never zero.
func (p Palette) Len() int {
	return len(p.list())
}

// At returns the i'th color. It panics if i is out of range, like a slice
// index.
func (p Palette) At(i int) Color {
	return p.list()[i]
}

// Colors returns a copy of the palette's colors.
func (p Palette) Colors() []Color {
	l := p.list()
	c := make([]Color, len(l))
	copy(c, l)
	return c
}

// All returns an iterator over the palette's colors in stored order.
func (p Palette) All() iter.Seq[Color] {
	return func(yield func(Color) bool) {
		for _, c := range p.list() {
			if !yield(c) {
				return
			}
		}
	}
}

// Indexed returns an iterator over the palette's colors and their
// positions in stored order.
func (p Palette) Indexed() iter.Seq2[int, Color] {
	return func(yield func(int, Color) bool) {
		for i, c := range p.list() {
			if !yield(i, c) {
				return
			}
		}
	}
}

// Lightest returns the color with the highest Lightness score. When
// several colors share the maximum, the first one in palette order wins.
func (p Palette) Lightest() Color {
	l := p.list()
	best, bestScore := l[0], Lightness(l[0])
	for _, c := range l[1:] {
		if s := Lightness(c); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best
}

// Darkest returns the color with the lowest Lightness score. When several
// colors share the minimum, the first one in palette order wins.
func (p Palette) Darkest() Color {
	l := p.list()
	best, bestScore := l[0], Lightness(l[0])
	for _, c := range l[1:] {
		if s := Lightness(c); s < bestScore {
			best, bestScore = c, s
		}
	}
	return best
}

// Closest returns the index and value of the palette color nearest to
// query by Distance. Ties go to the earliest color.
func (p Palette) Closest(query Color) (int, Color) {
	l := p.list()
	bestIdx, bestDist := 0, Distance(l[0], query)
	for i := 1; i < len(l) && bestDist > 0; i++ {
		if d := Distance(l[i], query); d < bestDist {
			bestIdx, bestDist = i, d
		}
	}
	return bestIdx, l[bestIdx]
}

// ClosestBy is like Closest but ranks colors with the given metric.
func (p Palette) ClosestBy(m Metric, query Color) (int, Color) {
	l := p.list()
	bestIdx, bestDist := 0, m.Distance(l[0], query)
	for i := 1; i < len(l); i++ {
		if d := m.Distance(l[i], query); d < bestDist {
			bestIdx, bestDist = i, d
		}
	}
	return bestIdx, l[bestIdx]
}

// Hex returns the palette's colors as hex strings without the leading
// '#', the form used by Lospec exports.
func (p Palette) Hex() []string {
	l := p.list()
	out := make([]string, len(l))
	for i, c := range l {
		out[i] = strings.TrimPrefix(c.Hex(), "#")
	}
	return out
}

// Equal reports whether both palettes hold the same colors in the same
// order.
func (p Palette) Equal(o Palette) bool {
	a, b := p.list(), o.list()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the palette in the Lospec JSON shape.
func (p Palette) MarshalJSON() ([]byte, error) {
	return json.Marshal(lospecJSON{Colors: p.Hex()})
}

// UnmarshalJSON decodes a palette from the Lospec JSON shape with the same
// rules as Loader.Load.
func (p *Palette) UnmarshalJSON(data []byte) error {
	loaded, err := Loader{}.Load(data)
	if err != nil {
		return err
	}
	*p = loaded
	return nil
}
