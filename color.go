package lospec

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a color value with normalized red, green and blue channels in
// [0, 1] and an alpha channel. Alpha is carried through loading but is
// ignored by every palette query.
type Color struct {
	colorful.Color
	A float64
}

// Named colors used by the default palette. They sit on 8-bit steps so
// the default palette survives a round trip through hex.
var (
	Pink       = RGB8(255, 20, 148)
	Azure      = RGB8(240, 255, 255)
	Aquamarine = RGB8(128, 255, 212)
	Gold       = RGB8(255, 214, 0)
	Black      = RGB8(0, 0, 0)
	White      = RGB8(255, 255, 255)
)

// RGB returns an opaque color from normalized channel values. Values
// outside [0, 1] are clamped.
func RGB(r, g, b float64) Color {
	return RGBA(r, g, b, 1)
}

// RGBA returns a color from normalized channel values. Values outside
// [0, 1] are clamped, so Lightness and Distance stay within their ranges.
func RGBA(r, g, b, a float64) Color {
	return Color{
		Color: colorful.Color{R: clamp01(r), G: clamp01(g), B: clamp01(b)},
		A:     clamp01(a),
	}
}

// RGB8 returns an opaque color from 8-bit channel values.
func RGB8(r, g, b uint8) Color {
	return RGBA8(r, g, b, 255)
}

// RGBA8 returns a color from 8-bit channel values. Each channel is mapped
// to v/255.
func RGBA8(r, g, b, a uint8) Color {
	return RGBA(
		float64(r)/255,
		float64(g)/255,
		float64(b)/255,
		float64(a)/255)
}

// FromColor converts any image/color value into a Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA8(n.R, n.G, n.B, n.A)
}

// NRGBA converts the color to an 8-bit non-premultiplied color, rounding
// each channel to the nearest step.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: channel8(c.R),
		G: channel8(c.G),
		B: channel8(c.B),
		A: channel8(c.A),
	}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// Hex formats the color as "#rrggbb", or "#rrggbbaa" when the color is
// not fully opaque.
func (c Color) Hex() string {
	n := c.NRGBA()
	if n.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

func channel8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// ParseHex parses a hexadecimal color string. The accepted grammar is an
// optional leading '#' followed by exactly 3, 4, 6 or 8 hex digits, case
// insensitive: RGB, RGBA, RRGGBB or RRGGBBAA. Short forms expand each
// digit x to xx. Colors without an alpha component are opaque.
func ParseHex(s string) (Color, error) {
	digits := strings.TrimPrefix(s, "#")

	var v [8]uint8
	for i := 0; i < len(digits); i++ {
		if i >= len(v) {
			return Color{}, &ColorGrammarError{Index: -1, Value: s}
		}
		n, ok := hexDigit(digits[i])
		if !ok {
			return Color{}, &ColorGrammarError{Index: -1, Value: s}
		}
		v[i] = n
	}

	switch len(digits) {
	case 3:
		return RGB8(v[0]*17, v[1]*17, v[2]*17), nil
	case 4:
		return RGBA8(v[0]*17, v[1]*17, v[2]*17, v[3]*17), nil
	case 6:
		return RGB8(v[0]<<4|v[1], v[2]<<4|v[3], v[4]<<4|v[5]), nil
	case 8:
		return RGBA8(v[0]<<4|v[1], v[2]<<4|v[3], v[4]<<4|v[5], v[6]<<4|v[7]), nil
	}
	return Color{}, &ColorGrammarError{Index: -1, Value: s}
}

// MustParseHex is like ParseHex but panics on malformed input. It is meant
// for package-level literals, never for loaded data.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func hexDigit(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

// Lightness returns the integer lightness score of a color: the sum of
// the red, green and blue channels scaled by 256 and truncated. Black
// scores 0 and white scores 768.
func Lightness(c Color) uint32 {
	return uint32((c.R + c.G + c.B) * 256)
}

// Distance returns the Manhattan distance between two colors over the
// red, green and blue channels, scaled by 256 and truncated. Alpha is
// ignored.
func Distance(a, b Color) uint32 {
	d := math.Abs(a.R-b.R) + math.Abs(a.G-b.G) + math.Abs(a.B-b.B)
	return uint32(d * 256)
}
