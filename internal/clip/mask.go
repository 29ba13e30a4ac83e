package clip

import (
	"errors"
	"image"
	"image/draw"

	"golang.org/x/image/vector"
)

// ErrEmptyMask is returned when the destination mask has no pixels.
var ErrEmptyMask = errors.New("clip: empty mask")

// Mode selects how fractional coverage along the outline is stored.
type Mode uint8

const (
	// ModeBinary keeps only pixels the outline covers completely.
	// Partially covered pixels get coverage 0, so any pixel touching a
	// rounded corner's exterior is dropped.
	ModeBinary Mode = iota

	// ModeAntiAlias stores exact area coverage (0-255) for every pixel.
	ModeAntiAlias
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeBinary:
		return "Binary"
	case ModeAntiAlias:
		return "AntiAlias"
	default:
		return "Unknown"
	}
}

// Rasterize overwrites dst with the coverage of the closed outline described
// by elements. Coordinates are relative to dst.Bounds().Min.
//
// dst may hold stale data from a pool: every pixel inside its bounds is
// written.
func Rasterize(dst *image.Alpha, elements []PathElement, mode Mode) error {
	b := dst.Bounds()
	if b.Empty() {
		return ErrEmptyMask
	}

	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Src

	for _, elem := range elements {
		switch e := elem.(type) {
		case MoveTo:
			z.MoveTo(float32(e.Point.X), float32(e.Point.Y))
		case LineTo:
			z.LineTo(float32(e.Point.X), float32(e.Point.Y))
		case QuadTo:
			z.QuadTo(
				float32(e.Control.X), float32(e.Control.Y),
				float32(e.Point.X), float32(e.Point.Y),
			)
		case Close:
			z.ClosePath()
		}
	}

	z.Draw(dst, b, image.Opaque, image.Point{})

	if mode == ModeBinary {
		threshold(dst)
	}
	return nil
}

// threshold drops every pixel that is not fully covered.
func threshold(m *image.Alpha) {
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := m.Pix[m.PixOffset(b.Min.X, y):m.PixOffset(b.Max.X, y)]
		for i, c := range row {
			if c != 0xff {
				row[i] = 0
			}
		}
	}
}

// ApplyCoverage modulates alpha by coverage.
// Returns the modulated alpha value (0-255).
func ApplyCoverage(alpha, coverage uint8) uint8 {
	switch coverage {
	case 0:
		return 0
	case 0xff:
		return alpha
	}

	// Modulate: result = alpha * coverage / 255, rounded.
	// Use 16-bit math to avoid overflow.
	return uint8((uint16(alpha)*uint16(coverage) + 127) / 255)
}
