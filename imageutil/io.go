package imageutil

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// LoadImage loads an image from the specified path.
// Supports PNG, JPEG, GIF, and TIFF formats.
func LoadImage(path string) (*RGBAImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return DecodeImage(f)
}

// DecodeImage decodes an image in any registered format from r.
func DecodeImage(r io.Reader) (*RGBAImage, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return RGBAImageFromImage(img), nil
}

// SaveImage saves an image to the specified path. The format is chosen
// by extension: png, jpg/jpeg, gif or tif/tiff; anything else is written
// as PNG. Paletted images keep their palette in PNG and GIF output.
func SaveImage(img image.Image, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	return EncodeImage(f, img, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// EncodeImage writes img to w in the named format (png, jpg, jpeg, gif,
// tif or tiff). An unknown format is written as PNG.
func EncodeImage(w io.Writer, img image.Image, format string) error {
	switch format {
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case "gif":
		return gif.Encode(w, img, nil)
	case "tif", "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(w, img)
	}
}
