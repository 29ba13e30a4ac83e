package roundimg

import (
	"fmt"
	"math"
)

// DefaultPreviewSize is the longest preview side used when callers pass a
// non-positive maximum.
const DefaultPreviewSize = 400

// ExportRequest describes one export: a corner radius and the target size in
// pixels. Requests are plain values built fresh for every call.
type ExportRequest struct {
	// CornerRadius is the requested radius in target pixels. Values above
	// half the smaller target dimension are clamped; negative values act
	// as zero.
	CornerRadius int

	// Width and Height are the output dimensions; both must be positive.
	Width  int
	Height int
}

// Validate returns an error wrapping ErrInvalidInput if the target size is
// not positive.
func (r ExportRequest) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: target size %dx%d", ErrInvalidInput, r.Width, r.Height)
	}
	return nil
}

// EffectiveRadius returns the radius actually used for the export:
// CornerRadius clamped to [0, min(Width, Height)/2].
func (r ExportRequest) EffectiveRadius() int {
	if r.CornerRadius <= 0 || r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return min(r.CornerRadius, r.Width/2, r.Height/2)
}

// FullRequest returns a request that keeps the source's own dimensions.
func FullRequest(src *SourceImage, radius int) ExportRequest {
	if !src.valid() {
		return ExportRequest{CornerRadius: radius}
	}
	return ExportRequest{
		CornerRadius: radius,
		Width:        src.Width(),
		Height:       src.Height(),
	}
}

// PreviewRequest returns a request that fits the source inside a
// maxSize×maxSize box without upscaling. The radius is scaled by the same
// factor so the preview shows the same proportions as the full export.
func PreviewRequest(src *SourceImage, radius, maxSize int) ExportRequest {
	if !src.valid() {
		return ExportRequest{CornerRadius: radius}
	}
	if maxSize <= 0 {
		maxSize = DefaultPreviewSize
	}

	w, h := float64(src.Width()), float64(src.Height())
	scale := math.Min(math.Min(float64(maxSize)/w, float64(maxSize)/h), 1)

	return ExportRequest{
		CornerRadius: int(math.Round(float64(radius) * scale)),
		Width:        max(int(w*scale), 1),
		Height:       max(int(h*scale), 1),
	}
}
