package roundimg

import (
	"fmt"
	"image"
	"time"

	"github.com/gogpu/roundimg/internal/clip"
)

// Exporter produces rounded rasters. An Exporter holds only immutable
// configuration and is safe for concurrent use.
type Exporter struct {
	opts exportOptions
}

// New creates an Exporter with the given options.
func New(opts ...Option) *Exporter {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Exporter{opts: o}
}

// Export is a convenience wrapper around New(opts...).Export(src, req).
func Export(src *SourceImage, req ExportRequest, opts ...Option) (*Result, error) {
	return New(opts...).Export(src, req)
}

// Export produces a req.Width × req.Height copy of src. Pixels outside the
// rounded rectangle are transparent; pixels inside keep the resampled alpha.
//
// The mask is built at target resolution, so a preview and a full-size export
// with proportional radii show the same shape. Export is deterministic:
// identical inputs yield byte-identical results.
//
// Returns an error wrapping ErrInvalidInput if src is nil or empty or the
// target size is not positive.
func (e *Exporter) Export(src *SourceImage, req ExportRequest) (*Result, error) {
	if !src.valid() {
		return nil, fmt.Errorf("%w: no source image", ErrInvalidInput)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	w, h := req.Width, req.Height
	r := req.EffectiveRadius()
	e.report(StageSetup)

	// r == 0 is a plain rectangle: skip the mask so the output is exactly
	// the resampled source.
	var mask *image.Alpha
	if r > 0 {
		var err error
		if mask, err = e.mask(w, h, r); err != nil {
			return nil, fmt.Errorf("roundimg: rasterize mask: %w", err)
		}
		if e.opts.masks == nil {
			defer e.opts.pool.PutAlpha(mask)
		}
	}
	e.report(StageMask)

	out := e.opts.resampler.Resample(src.img, w, h)
	if out == nil || out.Rect != image.Rect(0, 0, w, h) {
		return nil, fmt.Errorf("roundimg: resampler returned %v, want %dx%d", boundsOf(out), w, h)
	}
	if mask != nil {
		composite(out, mask)
	}
	e.report(StageComposite)

	Logger().Debug("rounded export",
		"src", src.Bounds().Size(),
		"width", w,
		"height", h,
		"radius", r,
		"requested_radius", req.CornerRadius,
		"mask", e.opts.mode,
		"elapsed", time.Since(start),
	)

	return &Result{img: out, radius: r}, nil
}

// mask returns the coverage mask for a w×h target with radius r. Masks
// from the pool go back to it when the export finishes; cached masks are
// shared and left in the cache.
func (e *Exporter) mask(w, h, r int) (*image.Alpha, error) {
	if e.opts.masks != nil {
		return e.opts.masks.mask(maskKey{w: w, h: h, r: r, mode: e.opts.mode})
	}

	m := e.opts.pool.GetAlpha(w, h)
	outline := clip.RoundedRect(float64(w), float64(h), float64(r))
	if err := clip.Rasterize(m, outline, e.opts.mode); err != nil {
		e.opts.pool.PutAlpha(m)
		return nil, err
	}
	return m, nil
}

// report invokes the progress callback, if any.
func (e *Exporter) report(s Stage) {
	if e.opts.progress != nil {
		e.opts.progress(s)
	}
}

// composite multiplies each pixel's alpha in dst by the mask coverage.
// Color channels pass through unchanged.
func composite(dst *image.NRGBA, mask *image.Alpha) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	for y := range h {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		coverage := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x, c := range coverage {
			i := x*4 + 3
			row[i] = clip.ApplyCoverage(row[i], c)
		}
	}
}

func boundsOf(img *image.NRGBA) image.Rectangle {
	if img == nil {
		return image.Rectangle{}
	}
	return img.Rect
}
