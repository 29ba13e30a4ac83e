package roundimg

import "errors"

// Common errors for export operations.
var (
	// ErrInvalidInput is returned for a nil or empty source image, for
	// non-positive target dimensions, and (wrapped) by the codec package for
	// uploads that cannot become a SourceImage.
	ErrInvalidInput = errors.New("roundimg: invalid input")

	// ErrEncodingFailure is returned when a result cannot be serialized to
	// bytes, even after the fallback encoder has been tried.
	ErrEncodingFailure = errors.New("roundimg: encoding failure")
)
