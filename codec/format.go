package codec

import (
	"fmt"
	"strings"

	"github.com/gogpu/roundimg"
)

// Format is an output encoding.
type Format uint8

const (
	// FormatPNG is lossless PNG, the primary output format.
	FormatPNG Format = iota

	// FormatTIFF is deflate-compressed TIFF, the fallback output format.
	FormatTIFF
)

// String returns the configuration name of the format.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatTIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

// Extension returns the file extension including the leading dot.
func (f Format) Extension() string {
	switch f {
	case FormatPNG:
		return ".png"
	case FormatTIFF:
		return ".tiff"
	default:
		return ""
	}
}

// MIMEType returns the media type of the format.
func (f Format) MIMEType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatTIFF:
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}

// ParseFormat returns the Format named by s ("png", "tiff" or "tif",
// case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FormatPNG, nil
	case "tiff", "tif":
		return FormatTIFF, nil
	default:
		return 0, fmt.Errorf("%w: unknown output format %q", roundimg.ErrInvalidInput, s)
	}
}

// imageExtensions lists the file extensions the decoders recognize.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsImageExt reports whether ext (with leading dot, any case) names a
// decodable image format.
func IsImageExt(ext string) bool {
	return imageExtensions[strings.ToLower(ext)]
}
