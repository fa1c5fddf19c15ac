package lospec

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoaderRoundTrip(t *testing.T) {
	t.Parallel()

	p, err := Loader{}.Load([]byte(`{"colors":["000000","ffffff"]}`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("Expected 2 colors, got %d", p.Len())
	}
	if p.Darkest() != Black {
		t.Errorf("Darkest() = %v, expected black", p.Darkest())
	}
	if p.Lightest() != White {
		t.Errorf("Lightest() = %v, expected white", p.Lightest())
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != `{"colors":["000000","ffffff"]}` {
		t.Errorf("Marshal = %s", out)
	}
}

func TestDefaultPaletteRoundTrip(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(Default())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var p Palette
	if err := json.Unmarshal(out, &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !p.Equal(Default()) {
		t.Errorf("Default palette changed through JSON: %s", out)
	}
	for i, c := range Default().Indexed() {
		if p.At(i) != c {
			t.Errorf("Color %d = %#v, expected %#v", i, p.At(i), c)
		}
	}

	for c := range Default().All() {
		back, err := ParseHex(c.Hex())
		if err != nil {
			t.Fatalf("ParseHex(%s) failed: %v", c.Hex(), err)
		}
		if back != c {
			t.Errorf("%s does not survive ParseHex(Hex())", c)
		}
	}
}

func TestLoaderPreservesOrder(t *testing.T) {
	t.Parallel()

	in := []string{"ff69b4", "f0ffff", "7fffd4", "ffd700", "000000", "ffffff"}
	data, _ := json.Marshal(map[string][]string{"colors": in})
	p, err := Loader{}.Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for i, h := range p.Hex() {
		if h != in[i] {
			t.Errorf("Color %d = %s, expected %s", i, h, in[i])
		}
	}
}

func TestLoaderColorGrammarError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		data  string
		index int
		value string
	}{
		{`{"colors":["zzzzzz"]}`, 0, "zzzzzz"},
		{`{"colors":["000000","12"]}`, 1, "12"},
		{`{"colors":["000000","ffffff","#abcd","nothex"]}`, 3, "nothex"},
		{`{"colors":[""]}`, 0, ""},
	}
	for _, tt := range tests {
		_, err := Loader{}.Load([]byte(tt.data))
		var ge *ColorGrammarError
		if !errors.As(err, &ge) {
			t.Errorf("Load(%s) error = %v, expected *ColorGrammarError", tt.data, err)
			continue
		}
		if ge.Index != tt.index || ge.Value != tt.value {
			t.Errorf("Load(%s) error = {%d %q}, expected {%d %q}",
				tt.data, ge.Index, ge.Value, tt.index, tt.value)
		}
		if !strings.Contains(err.Error(), tt.value) {
			t.Errorf("Error message %q should name %q", err.Error(), tt.value)
		}
	}
}

func TestLoaderJSONShapeError(t *testing.T) {
	t.Parallel()

	for _, data := range []string{
		``,
		`not json`,
		`["000000","ffffff"]`,
		`{}`,
		`{"colours":["000000"]}`,
		`{"colors":null}`,
		`{"colors":"000000"}`,
		`{"colors":[0]}`,
		`{"colors":["000000"]`,
		`{"colors":["000000"]} trailing`,
	} {
		_, err := Loader{}.Load([]byte(data))
		var se *JSONShapeError
		if !errors.As(err, &se) {
			t.Errorf("Load(%q) error = %v, expected *JSONShapeError", data, err)
		}
	}
}

func TestLoaderEmptyPalette(t *testing.T) {
	t.Parallel()

	_, err := Loader{}.Load([]byte(`{"colors":[]}`))
	if !errors.Is(err, ErrEmptyPalette) {
		t.Errorf("Expected ErrEmptyPalette, got %v", err)
	}
}

func TestLoaderExtensions(t *testing.T) {
	t.Parallel()

	var l AssetLoader = Loader{}
	ext := l.Extensions()
	if len(ext) != 1 || ext[0] != "json" {
		t.Errorf("Extensions() = %v, expected [json]", ext)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "rustic.json")
	if err := os.WriteFile(path, []byte(`{"colors":["2c2137","764462","a96868","edb4a1"]}`), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if p.Len() != 4 {
		t.Errorf("Expected 4 colors, got %d", p.Len())
	}

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("Expected *IOError for missing file, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("IOError should wrap os.ErrNotExist, got %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"colors":["12"]}`), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadFile(bad)
	var ge *ColorGrammarError
	if !errors.As(err, &ge) {
		t.Errorf("Expected *ColorGrammarError through LoadFile, got %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestLoadReader(t *testing.T) {
	t.Parallel()

	p, err := LoadReader(strings.NewReader(`{"colors":["081820","e0f8d0"]}`))
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}
	if p.Lightest() != MustParseHex("e0f8d0") {
		t.Errorf("Unexpected lightest color %v", p.Lightest())
	}

	_, err = LoadReader(failingReader{})
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("Expected *IOError, got %v", err)
	}
}

func TestEmbedded(t *testing.T) {
	t.Parallel()

	names := EmbeddedNames()
	if len(names) == 0 {
		t.Fatal("Expected embedded palettes")
	}
	for _, name := range names {
		p, err := Embedded(name)
		if err != nil {
			t.Errorf("Embedded(%q) failed: %v", name, err)
			continue
		}
		if p.Len() == 0 {
			t.Errorf("Embedded(%q) is empty", name)
		}
	}

	p, err := Open("pico-8")
	if err != nil {
		t.Fatalf("Open(pico-8) failed: %v", err)
	}
	if p.Len() != 16 {
		t.Errorf("Expected 16 pico-8 colors, got %d", p.Len())
	}
	if _, err := Embedded("no-such-palette"); err == nil {
		t.Error("Expected error for unknown embedded palette")
	}
}

func TestPaletteUnmarshalJSON(t *testing.T) {
	t.Parallel()

	var cfg struct {
		Name    string  `json:"name"`
		Palette Palette `json:"palette"`
	}
	err := json.Unmarshal([]byte(`{"name":"gb","palette":{"colors":["081820","346856","88c070","e0f8d0"]}}`), &cfg)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if cfg.Palette.Len() != 4 {
		t.Errorf("Expected 4 colors, got %d", cfg.Palette.Len())
	}

	err = json.Unmarshal([]byte(`{"palette":{"colors":["bogus"]}}`), &cfg)
	var ge *ColorGrammarError
	if !errors.As(err, &ge) {
		t.Errorf("Expected *ColorGrammarError, got %v", err)
	}
}

func TestHexLoader(t *testing.T) {
	t.Parallel()

	p, err := HexLoader{}.Load([]byte("081820\r\n346856\n\n88c070\ne0f8d0\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Len() != 4 {
		t.Fatalf("Expected 4 colors, got %d", p.Len())
	}
	if p.Darkest() != MustParseHex("081820") || p.Lightest() != MustParseHex("e0f8d0") {
		t.Errorf("Unexpected extremes %v %v", p.Darkest(), p.Lightest())
	}

	_, err = HexLoader{}.Load([]byte("081820\n\nxyz\n"))
	var ge *ColorGrammarError
	if !errors.As(err, &ge) || ge.Index != 1 || ge.Value != "xyz" {
		t.Errorf("Expected ColorGrammarError{1 xyz}, got %v", err)
	}

	if _, err := (HexLoader{}).Load([]byte("\n \n")); !errors.Is(err, ErrEmptyPalette) {
		t.Errorf("Expected ErrEmptyPalette, got %v", err)
	}
	if ext := (HexLoader{}).Extensions(); len(ext) != 1 || ext[0] != "hex" {
		t.Errorf("Extensions() = %v", ext)
	}
}

func TestLoaderFor(t *testing.T) {
	t.Parallel()

	if _, ok := LoaderFor("palettes/gb.hex").(HexLoader); !ok {
		t.Error("Expected HexLoader for .hex")
	}
	if _, ok := LoaderFor("gb.JSON").(Loader); !ok {
		t.Error("Expected Loader for .JSON")
	}
	if _, ok := LoaderFor("gb").(Loader); !ok {
		t.Error("Expected Loader for names without extension")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "gb.hex")
	if err := os.WriteFile(path, []byte("081820\n346856\n88c070\ne0f8d0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%s) failed: %v", path, err)
	}
	if p.Len() != 4 {
		t.Errorf("Expected 4 colors, got %d", p.Len())
	}
}
