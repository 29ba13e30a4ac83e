// Package roundimg produces rounded-corner copies of raster images.
//
// # Overview
//
// roundimg takes a decoded image and a corner radius and returns a new raster
// of the requested size. Pixels outside a rounded rectangle are fully
// transparent. The same source can be exported at a small preview size and
// at its original size.
//
// # Quick Start
//
//	import "github.com/gogpu/roundimg"
//
//	src, err := roundimg.NewSourceImage(img)
//	if err != nil {
//	    return err
//	}
//
//	// Full resolution, 50px corners
//	res, err := roundimg.Export(src, roundimg.FullRequest(src, 50))
//
//	// 400px preview with the radius scaled to match
//	prev, err := roundimg.Export(src, roundimg.PreviewRequest(src, 50, 400))
//
// Decoding uploads and serializing results live in the codec sub-package.
//
// # Pipeline
//
// Export runs four steps:
//   - Clamp the radius to half the smaller target dimension.
//   - Rasterize the rounded outline into a coverage mask at target
//     resolution. Each corner is a quadratic curve whose control point is
//     the rectangle corner.
//   - Resample the source to the target size (Catmull-Rom by default).
//   - Multiply each pixel's alpha by its mask coverage.
//
// A radius of zero skips the mask, so the result is exactly the resampled
// source.
//
// # Concurrency
//
// A SourceImage is immutable and every Export allocates its own result, so
// previews and full-size exports of one source may run in parallel.
package roundimg

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
