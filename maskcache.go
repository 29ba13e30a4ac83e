package roundimg

import (
	"image"

	"github.com/gogpu/roundimg/internal/cache"
	"github.com/gogpu/roundimg/internal/clip"
)

// DefaultMaskCacheBytes is a reasonable budget for NewMaskCache.
const DefaultMaskCacheBytes = 64 << 20

// maskKey identifies a rasterized mask.
type maskKey struct {
	w, h, r int
	mode    clip.Mode
}

// MaskCache shares rasterized corner masks between exports. Exports of
// same-sized targets with the same radius reuse one mask. A MaskCache is
// safe for concurrent use.
type MaskCache struct {
	c *cache.Cache[maskKey, *image.Alpha]
}

// NewMaskCache creates a cache holding at most maxBytes of mask pixels.
func NewMaskCache(maxBytes int64) *MaskCache {
	return &MaskCache{
		c: cache.New[maskKey, *image.Alpha](maxBytes, func(m *image.Alpha) int64 {
			return int64(len(m.Pix))
		}),
	}
}

// Len returns the number of cached masks.
func (mc *MaskCache) Len() int {
	return mc.c.Len()
}

// Hits returns how many exports reused a cached mask.
func (mc *MaskCache) Hits() uint64 {
	return mc.c.Stats().Hits
}

// mask returns the cached mask for key, rasterizing it on a miss.
// The returned mask is shared and must not be modified.
func (mc *MaskCache) mask(key maskKey) (*image.Alpha, error) {
	return mc.c.GetOrCreate(key, func() (*image.Alpha, error) {
		m := image.NewAlpha(image.Rect(0, 0, key.w, key.h))
		outline := clip.RoundedRect(float64(key.w), float64(key.h), float64(key.r))
		if err := clip.Rasterize(m, outline, key.mode); err != nil {
			return nil, err
		}
		return m, nil
	})
}

// WithMaskCache makes the exporter take masks from mc instead of
// rasterizing them for every export. Nil disables caching.
func WithMaskCache(mc *MaskCache) Option {
	return func(o *exportOptions) {
		o.masks = mc
	}
}
