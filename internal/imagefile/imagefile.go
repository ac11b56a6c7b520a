// Package imagefile loads the demo image from disk into RGBA pixels.
package imagefile

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// sniffLen is how many header bytes filetype needs to recognise every supported format
const sniffLen = 262

// ErrNotImage is returned for files whose content is not a supported image
type ErrNotImage struct {
	Path string
	Kind string
}

func (e *ErrNotImage) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("%q is not a recognised image file", e.Path)
	}
	return fmt.Sprintf("%q is %s, not an image", e.Path, e.Kind)
}

// Sniff inspects the file header and returns the image MIME subtype (e.g. "png")
func Sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read image header: %w", err)
	}
	head = head[:n]

	if !filetype.IsImage(head) {
		kind, _ := filetype.Match(head)
		if kind == filetype.Unknown {
			return "", &ErrNotImage{Path: path}
		}
		return "", &ErrNotImage{Path: path, Kind: kind.MIME.Value}
	}
	kind, err := filetype.Image(head)
	if err != nil {
		return "", fmt.Errorf("match image type: %w", err)
	}
	return kind.MIME.Subtype, nil
}

// Load sniffs and decodes path into an RGBA image with a (0,0) origin
func Load(path string) (*image.RGBA, error) {
	if _, err := Sniff(path); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %q: %w", path, err)
	}
	return ToRGBA(img), nil
}

// ToRGBA copies img into a new RGBA image whose bounds start at (0,0)
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Solid returns a w×h image filled with c
func Solid(w, h int, c color.Color) *image.RGBA {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return rgba
}
