package render

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Save writes img to path, picking the encoder from the file extension.
// The extension is checked before the file is created, so a bad format
// never leaves a partial output behind. SVG output is vector and handled
// by the export package, not here.
func Save(path string, img image.Image) error {
	var encode func(io.Writer, image.Image) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		encode = png.Encode
	case ".jpg", ".jpeg":
		encode = func(w io.Writer, m image.Image) error {
			return jpeg.Encode(w, m, &jpeg.Options{Quality: 95})
		}
	default:
		return fmt.Errorf("render: unsupported image format %q (use .png, .jpg, .jpeg or .svg)", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
