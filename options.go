package roundimg

import (
	"github.com/gogpu/roundimg/internal/clip"
	internalimage "github.com/gogpu/roundimg/internal/image"
)

// Option configures an Exporter during creation.
// Use functional options to customize export behavior.
//
// Example:
//
//	// Default: Catmull-Rom resampling, hard-edged corners
//	e := roundimg.New()
//
//	// Lanczos resampling with anti-aliased corners and progress reporting
//	e := roundimg.New(
//	    roundimg.WithResampler(roundimg.Lanczos),
//	    roundimg.WithAntiAlias(true),
//	    roundimg.WithProgress(func(s roundimg.Stage) { fmt.Println(s.Percent(), s) }),
//	)
type Option func(*exportOptions)

// exportOptions holds optional configuration for an Exporter.
type exportOptions struct {
	resampler Resampler
	mode      clip.Mode
	progress  ProgressFunc
	pool      *internalimage.Pool
	masks     *MaskCache
}

// defaultOptions returns the default export options.
func defaultOptions() exportOptions {
	return exportOptions{
		resampler: CatmullRom,
		mode:      clip.ModeBinary,
		pool:      internalimage.Default(),
	}
}

// WithResampler sets the filter used to scale the source to the target size.
// A nil resampler keeps the default (CatmullRom).
func WithResampler(r Resampler) Option {
	return func(o *exportOptions) {
		if r != nil {
			o.resampler = r
		}
	}
}

// WithAntiAlias selects anti-aliased corners. By default the mask is
// binary: a pixel is kept only when the rounded outline covers it
// completely, so corner pixels are always fully transparent. With
// anti-aliasing enabled, pixels the outline crosses keep a fraction of
// their alpha.
func WithAntiAlias(enabled bool) Option {
	return func(o *exportOptions) {
		if enabled {
			o.mode = clip.ModeAntiAlias
		} else {
			o.mode = clip.ModeBinary
		}
	}
}

// WithProgress registers a callback invoked at each Stage checkpoint.
func WithProgress(fn ProgressFunc) Option {
	return func(o *exportOptions) {
		o.progress = fn
	}
}
