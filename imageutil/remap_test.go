package imageutil

import (
	"image"
	"testing"

	"github.com/wbrown/lospec"
)

func TestRemapExactColors(t *testing.T) {
	p := mustEmbedded(t, "pico-8")
	bars := CreatePaletteBarsImage(p, 3, 5)

	for _, opts := range [][]RemapOption{
		nil,
		{WithDither(true)},
		{WithMetric(lospec.LabMetric{})},
		{WithMetric(lospec.RedmeanMetric{}), WithDither(true)},
	} {
		out, err := Remap(bars, p, opts...)
		if err != nil {
			t.Fatalf("Remap failed: %v", err)
		}
		if len(out.Palette) != p.Len() {
			t.Fatalf("Expected %d palette entries, got %d", p.Len(), len(out.Palette))
		}
		for y := 0; y < 5; y++ {
			for x := 0; x < bars.Width(); x++ {
				if got := out.ColorIndexAt(x, y); int(got) != x/3 {
					t.Fatalf("Pixel (%d,%d) mapped to %d, expected %d", x, y, got, x/3)
				}
			}
		}
	}
}

func TestRemapTiesGoToFirstColor(t *testing.T) {
	p, err := lospec.Loader{}.Load([]byte(`{"colors":["ff0000","00ff00","0000ff"]}`))
	if err != nil {
		t.Fatal(err)
	}
	out, err := Remap(CreateSolidImage(4, 4, lospec.MustParseHex("808080")), p)
	if err != nil {
		t.Fatal(err)
	}
	for _, idx := range out.Pix {
		if idx != 0 {
			t.Fatalf("Mid-gray should map to red (0), got %d", idx)
		}
	}
}

func TestRemapDither(t *testing.T) {
	p := mustEmbedded(t, "1bit-monitor-glow")
	gradient := CreateGradientImage(64, 16)

	plain, err := Remap(gradient, p)
	if err != nil {
		t.Fatal(err)
	}
	dithered, err := Remap(gradient, p, WithDither(true))
	if err != nil {
		t.Fatal(err)
	}
	again, err := Remap(gradient, p, WithDither(true))
	if err != nil {
		t.Fatal(err)
	}

	for i := range dithered.Pix {
		if dithered.Pix[i] > 1 {
			t.Fatalf("Index %d out of palette range", dithered.Pix[i])
		}
		if dithered.Pix[i] != again.Pix[i] {
			t.Fatal("Dithering should be deterministic")
		}
	}

	// Without dithering every column is solid; with it the middle of the
	// gradient mixes both colors.
	light := func(img *image.Paletted, x0, x1 int) int {
		n := 0
		for y := 0; y < 16; y++ {
			for x := x0; x < x1; x++ {
				if img.ColorIndexAt(x, y) == 1 {
					n++
				}
			}
		}
		return n
	}
	if n := light(plain, 24, 25); n != 0 && n != 16 {
		t.Errorf("Undithered column should be solid, got %d light pixels", n)
	}
	mid := light(dithered, 24, 40)
	if mid == 0 || mid == 16*16 {
		t.Errorf("Dithered middle should mix colors, got %d light of %d", mid, 16*16)
	}
	if light(dithered, 0, 16) >= light(dithered, 48, 64) {
		t.Error("Dithered output should get lighter from left to right")
	}
}

func TestRemapRejectsLargePalettes(t *testing.T) {
	colors := make([]lospec.Color, 257)
	for i := range colors {
		colors[i] = lospec.RGB8(uint8(i), uint8(i/2), 0)
	}
	p, err := lospec.NewPalette(colors)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Remap(CreateSolidImage(2, 2, lospec.Black), p); err == nil {
		t.Error("Expected an error for a 257 color palette")
	}
}

func TestRemapSubImage(t *testing.T) {
	p := mustEmbedded(t, "nintendo-gameboy-bgb")
	bars := CreatePaletteBarsImage(p, 2, 2)
	sub := bars.SubImage(image.Rect(4, 0, 8, 2))
	out, err := Remap(sub, p)
	if err != nil {
		t.Fatal(err)
	}
	if out.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Fatalf("Unexpected bounds %v", out.Bounds())
	}
	if out.ColorIndexAt(0, 0) != 2 || out.ColorIndexAt(3, 1) != 3 {
		t.Errorf("Sub-image pixels mapped to %d and %d, expected 2 and 3",
			out.ColorIndexAt(0, 0), out.ColorIndexAt(3, 1))
	}
}
