package roundimg

import (
	"fmt"
	"image"
	"image/color"

	internalimage "github.com/gogpu/roundimg/internal/image"
)

// SourceImage is an immutable decoded raster with non-premultiplied RGBA
// pixels stored row-major. It is created once per loaded file and shared
// read-only by every export of that file.
type SourceImage struct {
	img *image.NRGBA
}

// NewSourceImage copies img into a new SourceImage. Later changes to img do
// not affect the SourceImage.
//
// Returns an error wrapping ErrInvalidInput if img is nil or has an empty
// bounds rectangle.
func NewSourceImage(img image.Image) (*SourceImage, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: source is %dx%d", ErrInvalidInput, b.Dx(), b.Dy())
	}
	return &SourceImage{img: internalimage.ToNRGBA(img)}, nil
}

// Width returns the width of the source in pixels.
func (s *SourceImage) Width() int {
	return s.img.Rect.Dx()
}

// Height returns the height of the source in pixels.
func (s *SourceImage) Height() int {
	return s.img.Rect.Dy()
}

// Bounds returns the source rectangle, always anchored at the origin.
func (s *SourceImage) Bounds() image.Rectangle {
	return s.img.Rect
}

// NRGBAAt returns the non-premultiplied color at (x, y).
// Returns transparent black for coordinates outside the source.
func (s *SourceImage) NRGBAAt(x, y int) color.NRGBA {
	return s.img.NRGBAAt(x, y)
}

// valid reports whether s holds a usable raster.
func (s *SourceImage) valid() bool {
	return s != nil && s.img != nil && !s.img.Rect.Empty()
}
