package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	// Register decoders with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/roundimg"
)

const (
	// MaxUploadBytes is the default limit on encoded input size (10 MiB).
	MaxUploadBytes = 10 << 20

	// MaxPixels is the default limit on decoded width × height.
	MaxPixels = 64 << 20
)

// Decode errors. Each also matches roundimg.ErrInvalidInput.
var (
	// ErrEmptyData is returned for zero-length input.
	ErrEmptyData = fmt.Errorf("codec: empty data: %w", roundimg.ErrInvalidInput)

	// ErrTooLarge is returned when the input exceeds the byte limit.
	ErrTooLarge = fmt.Errorf("codec: file too large: %w", roundimg.ErrInvalidInput)

	// ErrNotImage is returned when the input is not a decodable image.
	ErrNotImage = fmt.Errorf("codec: not an image: %w", roundimg.ErrInvalidInput)

	// ErrTooManyPixels is returned when the image exceeds the pixel budget.
	ErrTooManyPixels = fmt.Errorf("codec: image too large: %w", roundimg.ErrInvalidInput)
)

// Info describes a decoded upload.
type Info struct {
	// Format is the decoder name: png, jpeg, gif, bmp, tiff or webp.
	Format string

	// MIME is the media type, image/<Format>.
	MIME string

	// Width and Height are the image dimensions in pixels.
	Width  int
	Height int

	// Size is the encoded size in bytes.
	Size int64
}

// Decoder turns encoded bytes into a SourceImage.
// The zero value uses MaxUploadBytes and MaxPixels.
type Decoder struct {
	// MaxBytes limits the encoded input size. Zero means MaxUploadBytes.
	MaxBytes int64

	// MaxPixels limits width × height. Zero means MaxPixels.
	MaxPixels int
}

func (d Decoder) maxBytes() int64 {
	if d.MaxBytes > 0 {
		return d.MaxBytes
	}
	return MaxUploadBytes
}

func (d Decoder) maxPixels() int {
	if d.MaxPixels > 0 {
		return d.MaxPixels
	}
	return MaxPixels
}

// Decode reads at most MaxBytes+1 bytes from r and decodes them.
func (d Decoder) Decode(r io.Reader) (*roundimg.SourceImage, Info, error) {
	limit := d.maxBytes()
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, Info{}, fmt.Errorf("codec: read: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, Info{}, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return d.DecodeBytes(data)
}

// DecodeBytes decodes an in-memory upload.
func (d Decoder) DecodeBytes(data []byte) (*roundimg.SourceImage, Info, error) {
	if len(data) == 0 {
		return nil, Info{}, ErrEmptyData
	}
	if limit := d.maxBytes(); int64(len(data)) > limit {
		return nil, Info{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(data), limit)
	}

	// Sniff the header before allocating pixels.
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, Info{}, fmt.Errorf("%w: %w", ErrNotImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, Info{}, fmt.Errorf("%w: %dx%d", ErrNotImage, cfg.Width, cfg.Height)
	}
	if limit := d.maxPixels(); cfg.Width > limit/cfg.Height {
		return nil, Info{}, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooManyPixels, cfg.Width, cfg.Height, limit)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Info{}, fmt.Errorf("%w: decode %s: %w", ErrNotImage, format, err)
	}

	src, err := roundimg.NewSourceImage(img)
	if err != nil {
		return nil, Info{}, err
	}

	info := Info{
		Format: format,
		MIME:   "image/" + format,
		Width:  src.Width(),
		Height: src.Height(),
		Size:   int64(len(data)),
	}

	roundimg.Logger().Debug("decoded upload",
		"format", info.Format,
		"width", info.Width,
		"height", info.Height,
		"bytes", info.Size,
	)

	return src, info, nil
}

// LoadFile decodes the image at path. The file size is checked before any
// bytes are read.
func (d Decoder) LoadFile(path string) (*roundimg.SourceImage, Info, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided by design
	if err != nil {
		return nil, Info{}, fmt.Errorf("codec: open: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, Info{}, fmt.Errorf("codec: stat: %w", err)
	}
	if st.IsDir() {
		return nil, Info{}, fmt.Errorf("%w: %s is a directory", ErrNotImage, path)
	}
	if limit := d.maxBytes(); st.Size() > limit {
		return nil, Info{}, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, path, st.Size())
	}

	src, info, err := d.Decode(f)
	if err != nil {
		return nil, Info{}, fmt.Errorf("%s: %w", path, err)
	}
	return src, info, nil
}

// Decode decodes r with the default limits.
func Decode(r io.Reader) (*roundimg.SourceImage, Info, error) {
	return Decoder{}.Decode(r)
}

// DecodeBytes decodes data with the default limits.
func DecodeBytes(data []byte) (*roundimg.SourceImage, Info, error) {
	return Decoder{}.DecodeBytes(data)
}

// LoadFile decodes the file at path with the default limits.
func LoadFile(path string) (*roundimg.SourceImage, Info, error) {
	return Decoder{}.LoadFile(path)
}

// IsLimitError reports whether err was caused by a size or pixel limit.
func IsLimitError(err error) bool {
	return errors.Is(err, ErrTooLarge) || errors.Is(err, ErrTooManyPixels)
}
