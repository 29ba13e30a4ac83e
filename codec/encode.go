package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"

	"golang.org/x/image/tiff"

	"github.com/gogpu/roundimg"
)

// Encoder serializes an image in one output format.
type Encoder interface {
	Format() Format
	Encode(w io.Writer, img image.Image) error
}

// PNGEncoder writes PNG at best compression.
type PNGEncoder struct{}

// Format implements Encoder.
func (PNGEncoder) Format() Format { return FormatPNG }

// Encode implements Encoder.
func (PNGEncoder) Encode(w io.Writer, img image.Image) error {
	enc := png.Encoder{
		CompressionLevel: png.BestCompression,
		BufferPool:       pngBuffers,
	}
	return enc.Encode(w, img)
}

// TIFFEncoder writes deflate-compressed TIFF with a horizontal predictor.
// Like PNG it is lossless and keeps the alpha channel.
type TIFFEncoder struct{}

// Format implements Encoder.
func (TIFFEncoder) Format() Format { return FormatTIFF }

// Encode implements Encoder.
func (TIFFEncoder) Encode(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}

// EncoderFor returns the built-in encoder for f.
func EncoderFor(f Format) (Encoder, error) {
	switch f {
	case FormatPNG:
		return PNGEncoder{}, nil
	case FormatTIFF:
		return TIFFEncoder{}, nil
	default:
		return nil, fmt.Errorf("%w: no encoder for %v", roundimg.ErrInvalidInput, f)
	}
}

// Encoded is a serialized result.
type Encoded struct {
	Data   []byte
	Format Format
}

// Encode serializes res with primary. If primary fails or writes nothing,
// fallback runs once. A nil fallback disables the retry.
//
// Returns an error wrapping roundimg.ErrEncodingFailure when no encoder
// produced output.
func Encode(res *roundimg.Result, primary, fallback Encoder) (*Encoded, error) {
	if res == nil || res.Image() == nil {
		return nil, fmt.Errorf("%w: no result to encode", roundimg.ErrInvalidInput)
	}
	return EncodeImage(res.Image(), primary, fallback)
}

// EncodeImage is Encode for an arbitrary image, such as a result flattened
// onto a background.
func EncodeImage(img image.Image, primary, fallback Encoder) (*Encoded, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: no image to encode", roundimg.ErrInvalidInput)
	}
	if primary == nil {
		primary = PNGEncoder{}
	}

	data, err := encodeOnce(primary, img)
	if err == nil {
		return &Encoded{Data: data, Format: primary.Format()}, nil
	}
	if fallback == nil {
		return nil, errors.Join(roundimg.ErrEncodingFailure, err)
	}

	roundimg.Logger().Warn("primary encoder failed, using fallback",
		"primary", primary.Format(),
		"fallback", fallback.Format(),
		"error", err,
	)

	data, ferr := encodeOnce(fallback, img)
	if ferr != nil {
		return nil, errors.Join(roundimg.ErrEncodingFailure, err, ferr)
	}
	return &Encoded{Data: data, Format: fallback.Format()}, nil
}

func encodeOnce(enc Encoder, img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("codec: encode %v: %w", enc.Format(), err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("codec: encode %v: empty output", enc.Format())
	}
	return buf.Bytes(), nil
}

// bufferPool reuses png encoder state across exports.
type bufferPool struct {
	pool sync.Pool
}

func (p *bufferPool) Get() *png.EncoderBuffer {
	b, _ := p.pool.Get().(*png.EncoderBuffer)
	return b
}

func (p *bufferPool) Put(b *png.EncoderBuffer) {
	p.pool.Put(b)
}

var pngBuffers = &bufferPool{}
