package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// ErrFormat is returned for files no decoder recognises.
var ErrFormat = errors.New("texture: unknown image format")

type decoder struct {
	name  string
	match func(raw []byte) bool
	dec   func(r io.Reader) (image.Image, error)
}

func prefix(magic string) func([]byte) bool {
	return func(raw []byte) bool { return bytes.HasPrefix(raw, []byte(magic)) }
}

// The tga package registers itself with image.Decode under an empty magic
// that matches any input, so formats are sniffed here instead.
var decoders = []decoder{
	{"jpeg", prefix("\xff\xd8"), jpeg.Decode},
	{"png", prefix("\x89PNG\r\n\x1a\n"), png.Decode},
	{"bmp", prefix("BM"), bmp.Decode},
	{"webp", func(raw []byte) bool {
		return len(raw) >= 12 && string(raw[:4]) == "RIFF" && string(raw[8:12]) == "WEBP"
	}, webp.Decode},
}

func pick(path string, raw []byte) (decoder, bool) {
	for _, d := range decoders {
		if d.match(raw) {
			return d, true
		}
	}
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		return decoder{name: "tga", dec: tga.Decode}, true
	}
	return decoder{}, false
}

// LoadImage reads and decodes an image file (JPEG, PNG, TGA, BMP or WebP)
// into NRGBA.
func LoadImage(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("texture: empty file: %s", path)
	}

	d, ok := pick(path, raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFormat, path)
	}
	img, err := d.dec(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s %s: %w", d.name, path, err)
	}

	return ToNRGBA(img), nil
}

// ToNRGBA converts any image to NRGBA with its origin at (0,0).
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
