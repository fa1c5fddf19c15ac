package lospec

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Embedded Lospec palettes, addressable by name (file name without the
// .json extension).
//
//go:embed colordata/*.json
var colordata embed.FS

// AssetLoader turns raw asset bytes into a palette. An asset pipeline
// dispatches to a loader by file extension; acquiring the bytes, caching
// and reloading are the pipeline's job.
type AssetLoader interface {
	Load(data []byte) (Palette, error)
	Extensions() []string
}

// lospecJSON is the shape of a Lospec palette export.
type lospecJSON struct {
	Colors []string `json:"colors"`
}

// Loader parses Lospec JSON palette exports. It has no state and is safe
// for concurrent use.
type Loader struct{}

var _ AssetLoader = Loader{}

// Extensions returns the file extensions the loader handles.
func (Loader) Extensions() []string {
	return []string{"json"}
}

// Load parses data as {"colors": ["rrggbb", ...]}. It returns a
// *JSONShapeError if data is not an object of that shape, a
// *ColorGrammarError naming the first color string that is not a valid hex
// color, or ErrEmptyPalette if the color list is empty.
func (Loader) Load(data []byte) (Palette, error) {
	var doc struct {
		Colors *[]string `json:"colors"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Palette{}, &JSONShapeError{Err: err}
	}
	if doc.Colors == nil {
		return Palette{}, &JSONShapeError{Err: fmt.Errorf("missing \"colors\" field")}
	}

	colors := make([]Color, 0, len(*doc.Colors))
	for i, s := range *doc.Colors {
		c, err := ParseHex(s)
		if err != nil {
			return Palette{}, &ColorGrammarError{Index: i, Value: s}
		}
		colors = append(colors, c)
	}
	return NewPalette(colors)
}

// HexLoader parses Lospec ".hex" exports: one hex color per line. Blank
// lines are skipped. Index in a *ColorGrammarError counts colors, not
// lines.
type HexLoader struct{}

var _ AssetLoader = HexLoader{}

// Extensions returns the file extensions the loader handles.
func (HexLoader) Extensions() []string {
	return []string{"hex"}
}

// Load parses data as newline-separated hex colors.
func (HexLoader) Load(data []byte) (Palette, error) {
	var colors []Color
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c, err := ParseHex(line)
		if err != nil {
			return Palette{}, &ColorGrammarError{Index: len(colors), Value: line}
		}
		colors = append(colors, c)
	}
	return NewPalette(colors)
}

// LoadReader reads all of r and parses it with Loader.Load. Read failures
// are reported as *IOError.
func LoadReader(r io.Reader) (Palette, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Palette{}, &IOError{Err: err}
	}
	return Loader{}.Load(data)
}

// Loaders lists the built-in asset loaders.
var Loaders = []AssetLoader{Loader{}, HexLoader{}}

// LoaderFor returns the built-in loader claiming the extension of name.
// Names without a known extension get the JSON loader.
func LoaderFor(name string) AssetLoader {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	for _, l := range Loaders {
		for _, e := range l.Extensions() {
			if e == ext {
				return l
			}
		}
	}
	return Loader{}
}

// LoadFile reads and parses the palette file at path with the loader for
// its extension.
func LoadFile(path string) (Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Palette{}, &IOError{Path: path, Err: err}
	}
	p, err := LoaderFor(path).Load(data)
	if err != nil {
		return Palette{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Embedded returns the embedded palette with the given name.
func Embedded(name string) (Palette, error) {
	data, err := colordata.ReadFile(path.Join("colordata", name+".json"))
	if err != nil {
		return Palette{}, &IOError{Path: name, Err: err}
	}
	return Loader{}.Load(data)
}

// EmbeddedNames returns the names of the embedded palettes, sorted.
func EmbeddedNames() []string {
	entries, err := fs.ReadDir(colordata, "colordata")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}

// Open resolves name the way the command line tools do: first as an
// embedded palette, then as a file on disk.
func Open(name string) (Palette, error) {
	if p, err := Embedded(name); err == nil {
		return p, nil
	}
	return LoadFile(name)
}
