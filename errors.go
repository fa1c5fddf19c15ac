package lospec

import (
	"errors"
	"fmt"
)

// ErrEmptyPalette is returned when a palette would contain no colors.
var ErrEmptyPalette = errors.New("palette has no colors")

// IOError reports that the bytes of a palette could not be acquired.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("error reading palette: %v", e.Err)
	}
	return fmt.Sprintf("error reading palette %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// JSONShapeError reports that the input was not a JSON object of the
// form {"colors": [string, ...]}.
type JSONShapeError struct {
	Err error
}

func (e *JSONShapeError) Error() string {
	return fmt.Sprintf("error unmarshalling palette JSON: %v", e.Err)
}

func (e *JSONShapeError) Unwrap() error { return e.Err }

// ColorGrammarError reports a color string that is not a valid hex color.
// Index is the position of the string in the palette's color list, or -1
// when the string was parsed on its own.
type ColorGrammarError struct {
	Index int
	Value string
}

func (e *ColorGrammarError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("error parsing color %q: want #RGB, #RGBA, #RRGGBB or #RRGGBBAA", e.Value)
	}
	return fmt.Sprintf("error parsing color %d %q: want #RGB, #RGBA, #RRGGBB or #RRGGBBAA",
		e.Index, e.Value)
}
