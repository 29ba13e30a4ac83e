package image

import (
	"image"
	"image/draw"
)

// ToNRGBA returns a freshly allocated non-premultiplied copy of img whose
// bounds start at the origin. The result never aliases img.
func ToNRGBA(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))

	switch src := img.(type) {
	case *image.NRGBA:
		// Row-by-row copy; src may be a sub-image with a wider stride.
		for y := range height {
			srcStart := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:], src.Pix[srcStart:srcStart+width*4])
		}
	case *image.RGBA:
		Unpremultiply(dst, src)
	default:
		// Generic slow path for any image type.
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	}
	return dst
}

// Unpremultiply writes the non-premultiplied form of src into dst.
// Both images must have the same size; dst starts at the origin.
func Unpremultiply(dst *image.NRGBA, src *image.RGBA) {
	bounds := src.Bounds()
	for y := range bounds.Dy() {
		srcRow := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		dstRow := dst.Pix[y*dst.Stride:]
		for x := range bounds.Dx() {
			i := x * 4
			unpremulPixel(dstRow[i:i+4:i+4], srcRow[i:i+4:i+4])
		}
	}
}

// unpremulPixel converts a single premultiplied pixel.
func unpremulPixel(dst, src []byte) {
	a := uint32(src[3])
	switch a {
	case 0:
		dst[0], dst[1], dst[2], dst[3] = 0, 0, 0, 0
	case 0xff:
		copy(dst, src)
	default:
		// channel = channel * 255 / alpha, rounded. Kernels with negative
		// lobes can leave a channel above alpha, so clamp.
		for c := range 3 {
			v := (uint32(src[c])*0xff + a/2) / a
			if v > 0xff {
				v = 0xff
			}
			dst[c] = byte(v)
		}
		dst[3] = byte(a)
	}
}
