package imageutil

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/wbrown/lospec"
)

func mustEmbedded(t *testing.T, name string) lospec.Palette {
	t.Helper()
	p, err := lospec.Embedded(name)
	if err != nil {
		t.Fatalf("Failed to load embedded palette %s: %v", name, err)
	}
	return p
}

func TestNewRGBAImage(t *testing.T) {
	img := NewRGBAImage(100, 50)
	if img.Width() != 100 {
		t.Errorf("Expected width 100, got %d", img.Width())
	}
	if img.Height() != 50 {
		t.Errorf("Expected height 50, got %d", img.Height())
	}
}

func TestRGBAImageColorAccess(t *testing.T) {
	img := NewRGBAImage(10, 10)
	c := lospec.RGB8(100, 150, 200)
	img.SetColor(5, 5, c)
	if got := img.ColorAt(5, 5); got != c {
		t.Errorf("Expected %v, got %v", c, got)
	}

	img.Fill(image.Rect(0, 0, 3, 3), lospec.White)
	if got := img.ColorAt(2, 2); got != lospec.White {
		t.Errorf("Fill should paint inside the rectangle, got %v", got)
	}
	if got := img.ColorAt(3, 3); got == lospec.White {
		t.Error("Fill should not paint outside the rectangle")
	}

	clone := img.Clone()
	clone.SetColor(5, 5, lospec.Black)
	if img.ColorAt(5, 5) != c {
		t.Error("Clone should not share pixels with the original")
	}
}

func TestRGBAImageFromImageOffset(t *testing.T) {
	src := CreateGradientImage(20, 4)
	sub := src.SubImage(image.Rect(10, 1, 20, 3))
	img := RGBAImageFromImage(sub)
	if img.Width() != 10 || img.Height() != 2 {
		t.Fatalf("Expected 10x2, got %dx%d", img.Width(), img.Height())
	}
	if img.ColorAt(0, 0) != src.ColorAt(10, 1) {
		t.Error("Converted image should start at the sub-image origin")
	}
}

func TestResize(t *testing.T) {
	img := CreateGradientImage(100, 50)

	for _, interp := range []Interpolation{InterpolationArea, InterpolationLinear, InterpolationNearest} {
		out := Resize(img, 40, 20, interp)
		if out.Width() != 40 || out.Height() != 20 {
			t.Errorf("Resize(%d) gave %dx%d, expected 40x20", interp, out.Width(), out.Height())
		}
	}

	out := ResizeToWidth(img, 50, InterpolationNearest)
	if out.Width() != 50 || out.Height() != 25 {
		t.Errorf("ResizeToWidth gave %dx%d, expected 50x25", out.Width(), out.Height())
	}

	up := Upscale(CreateSolidImage(3, 2, lospec.Gold), 4)
	if up.Bounds().Dx() != 12 || up.Bounds().Dy() != 8 {
		t.Errorf("Upscale gave %v, expected 12x8", up.Bounds())
	}
}

func TestSaveAndLoadImage(t *testing.T) {
	dir := t.TempDir()
	p := mustEmbedded(t, "nintendo-gameboy-bgb")
	bars := CreatePaletteBarsImage(p, 4, 4)

	paletted, err := Remap(bars, p)
	if err != nil {
		t.Fatal(err)
	}
	images := map[string]image.Image{
		"bars.png":  bars,
		"bars.tiff": bars,
		"bars.gif":  paletted,
	}

	for name, img := range images {
		path := filepath.Join(dir, name)
		if err := SaveImage(img, path); err != nil {
			t.Fatalf("SaveImage(%s) failed: %v", name, err)
		}
		loaded, err := LoadImage(path)
		if err != nil {
			t.Fatalf("LoadImage(%s) failed: %v", name, err)
		}
		for i, c := range p.Indexed() {
			if got := loaded.ColorAt(i*4+1, 1); got.NRGBA() != c.NRGBA() {
				t.Errorf("%s: bar %d = %v, expected %v", name, i, got, c)
			}
		}
	}

	if _, err := LoadImage(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Expected error loading a missing file")
	}
	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadImage(junk); err == nil {
		t.Error("Expected error decoding junk")
	}
}
