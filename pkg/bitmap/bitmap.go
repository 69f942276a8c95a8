// Package bitmap decodes the image a placement run draws.
//
// A Bitmap is an immutable grid of non-premultiplied RGBA samples. It can be
// decoded from the built-in logo ([Default]), from base64 text, or from a file
// in any format registered with the image package (PNG, GIF, JPEG, BMP, WebP).
package bitmap

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/placer/pkg/errors"
)

// Bitmap is a read-only grid of pixel samples with its origin at (0, 0).
type Bitmap struct {
	pix           []color.NRGBA
	width, height int
	format        string
}

// Decode reads an encoded image from r.
func Decode(r io.Reader) (*Bitmap, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode image")
	}
	return FromImage(img, format), nil
}

// DecodeBase64 decodes base64 text, ignoring any whitespace, then the image.
func DecodeBase64(s string) (*Bitmap, error) {
	data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode base64")
	}
	return Decode(bytes.NewReader(data))
}

// Load decodes the image file at path.
func Load(path string) (*Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f)
}

// Default decodes the built-in logo.
func Default() (*Bitmap, error) {
	return DecodeBase64(logo)
}

// FromImage copies img into a Bitmap, rebasing its bounds to (0, 0).
func FromImage(img image.Image, format string) *Bitmap {
	b := img.Bounds()
	bm := &Bitmap{
		pix:    make([]color.NRGBA, b.Dx()*b.Dy()),
		width:  b.Dx(),
		height: b.Dy(),
		format: format,
	}
	for y := range bm.height {
		for x := range bm.width {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			bm.pix[y*bm.width+x] = color.NRGBAModel.Convert(c).(color.NRGBA)
		}
	}
	return bm
}

// Width returns the number of columns.
func (b *Bitmap) Width() int { return b.width }

// Height returns the number of rows.
func (b *Bitmap) Height() int { return b.height }

// Format returns the name of the decoder that produced the bitmap, if any.
func (b *Bitmap) Format() string { return b.format }

// At returns the sample at (x, y). Out-of-range coordinates yield a fully
// transparent pixel.
func (b *Bitmap) At(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return color.NRGBA{}
	}
	return b.pix[y*b.width+x]
}

// Transparent reports whether the sample at (x, y) has zero alpha,
// which marks it as "do not draw".
func (b *Bitmap) Transparent(x, y int) bool {
	return b.At(x, y).A == 0
}

// Opaque returns the number of samples that will be drawn.
func (b *Bitmap) Opaque() int {
	n := 0
	for _, p := range b.pix {
		if p.A != 0 {
			n++
		}
	}
	return n
}
