package codec

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/roundimg"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 8),
				G: uint8(y * 8),
				B: 90,
				A: 255,
			})
		}
	}
	return img
}

func testResult(t *testing.T, w, h, radius int) *roundimg.Result {
	t.Helper()
	src, err := roundimg.NewSourceImage(testImage(w, h))
	if err != nil {
		t.Fatalf("NewSourceImage() error = %v", err)
	}
	res, err := roundimg.Export(src, roundimg.FullRequest(src, radius))
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	return res
}

func encodeWith(t *testing.T, enc func(*bytes.Buffer) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := enc(&buf); err != nil {
		t.Fatalf("encode error = %v", err)
	}
	return buf.Bytes()
}
