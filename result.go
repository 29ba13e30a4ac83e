package roundimg

import "image"

// Result is the output of an export. The caller owns it: nothing else keeps
// a reference to the pixel buffer.
type Result struct {
	img    *image.NRGBA
	radius int
}

// Image returns the rounded raster. Pixels outside the rounded rectangle have
// alpha 0.
func (r *Result) Image() *image.NRGBA {
	return r.img
}

// Width returns the width of the result in pixels.
func (r *Result) Width() int {
	return r.img.Rect.Dx()
}

// Height returns the height of the result in pixels.
func (r *Result) Height() int {
	return r.img.Rect.Dy()
}

// Radius returns the effective (clamped) corner radius that produced r.
func (r *Result) Radius() int {
	return r.radius
}

// AlphaAt returns the alpha of the pixel at (x, y), or 0 outside the result.
func (r *Result) AlphaAt(x, y int) uint8 {
	return r.img.NRGBAAt(x, y).A
}

// OpaqueCount returns how many pixels have alpha 255.
func (r *Result) OpaqueCount() int {
	n := 0
	for i := 3; i < len(r.img.Pix); i += 4 {
		if r.img.Pix[i] == 0xff {
			n++
		}
	}
	return n
}
