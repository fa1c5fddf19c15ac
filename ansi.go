package lospec

import (
	"fmt"
	"strings"
)

const (
	ESC = "\u001b"
)

// formatANSICode formats a 24-bit background color code followed by the
// given block repeated count times.
func formatANSICode(c Color, block string, count int) string {
	n := c.NRGBA()
	return fmt.Sprintf("%s[48;2;%d;%d;%dm%s", ESC, n.R, n.G, n.B,
		strings.Repeat(block, count))
}

// ANSI renders the palette as a row of truecolor terminal swatches, each
// width cells wide, followed by a reset sequence and a newline. A width
// below 1 is treated as 1.
func (p Palette) ANSI(width int) string {
	if width < 1 {
		width = 1
	}
	var sb strings.Builder
	for c := range p.All() {
		sb.WriteString(formatANSICode(c, " ", width))
	}
	sb.WriteString(fmt.Sprintf("%s[0m\n", ESC))
	return sb.String()
}

// ANSITable renders one line per color: a swatch, its index, hex value and
// lightness score.
func (p Palette) ANSITable() string {
	var sb strings.Builder
	for i, c := range p.Indexed() {
		sb.WriteString(formatANSICode(c, " ", 4))
		sb.WriteString(fmt.Sprintf("%s[0m %3d %s %4d\n", ESC, i, c.Hex(), Lightness(c)))
	}
	return sb.String()
}
