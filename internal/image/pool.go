// Package image manages the scratch rasters and pixel conversions used while
// producing rounded exports.
package image

import (
	"image"
	"sync"
)

// Pool is a thread-safe pool for reusing scratch rasters.
//
// Pool groups buffers by their dimensions, allowing efficient reuse of
// identically-sized coverage masks and premultiplied intermediates.
//
// Buffers handed to callers as results must never come from a Pool.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	alpha   map[poolKey][]*image.Alpha
	rgba    map[poolKey][]*image.RGBA
	maxSize int // max buffers per bucket
}

// poolKey identifies a bucket of identically sized buffers.
type poolKey struct {
	width  int
	height int
}

// NewPool creates a new scratch pool with the given maximum buffers per bucket.
// A maxPerBucket of 0 means unlimited (use with caution).
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		alpha:   make(map[poolKey][]*image.Alpha),
		rgba:    make(map[poolKey][]*image.RGBA),
		maxSize: maxPerBucket,
	}
}

// GetAlpha retrieves a w×h coverage buffer from the pool or creates a new one.
// Contents of a reused buffer are undefined; callers overwrite every pixel.
// Returns nil for non-positive dimensions.
func (p *Pool) GetAlpha(w, h int) *image.Alpha {
	if w <= 0 || h <= 0 {
		return nil
	}
	p.mu.Lock()
	m, ok := pop(p.alpha, poolKey{width: w, height: h})
	p.mu.Unlock()
	if ok {
		return m
	}
	return image.NewAlpha(image.Rect(0, 0, w, h))
}

// PutAlpha returns a coverage buffer to the pool for reuse.
// If m is nil or the bucket is at max capacity, the buffer is discarded.
func (p *Pool) PutAlpha(m *image.Alpha) {
	if m == nil {
		return
	}
	b := m.Bounds()
	p.mu.Lock()
	defer p.mu.Unlock()
	push(p.alpha, poolKey{width: b.Dx(), height: b.Dy()}, m, p.maxSize)
}

// GetRGBA retrieves a cleared w×h premultiplied buffer from the pool or
// creates a new one. Returns nil for non-positive dimensions.
func (p *Pool) GetRGBA(w, h int) *image.RGBA {
	if w <= 0 || h <= 0 {
		return nil
	}
	p.mu.Lock()
	m, ok := pop(p.rgba, poolKey{width: w, height: h})
	p.mu.Unlock()
	if ok {
		clear(m.Pix)
		return m
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// PutRGBA returns a premultiplied buffer to the pool for reuse.
// If m is nil or the bucket is at max capacity, the buffer is discarded.
func (p *Pool) PutRGBA(m *image.RGBA) {
	if m == nil {
		return
	}
	b := m.Bounds()
	p.mu.Lock()
	defer p.mu.Unlock()
	push(p.rgba, poolKey{width: b.Dx(), height: b.Dy()}, m, p.maxSize)
}

// Len reports how many buffers of each kind are currently retained.
func (p *Pool) Len() (alpha, rgba int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, bucket := range p.alpha {
		alpha += len(bucket)
	}
	for _, bucket := range p.rgba {
		rgba += len(bucket)
	}
	return alpha, rgba
}

// pop removes the most recently pushed buffer for key. Caller holds the lock.
func pop[T any](buckets map[poolKey][]T, key poolKey) (T, bool) {
	bucket := buckets[key]
	if len(bucket) == 0 {
		var zero T
		return zero, false
	}
	m := bucket[len(bucket)-1]
	buckets[key] = bucket[:len(bucket)-1]
	return m, true
}

// push stores m under key unless the bucket is full. Caller holds the lock.
func push[T any](buckets map[poolKey][]T, key poolKey, m T, maxSize int) {
	bucket := buckets[key]
	if maxSize > 0 && len(bucket) >= maxSize {
		// Bucket full, discard buffer (GC will clean up)
		return
	}
	buckets[key] = append(bucket, m)
}

// defaultPool is the package-level pool for convenient usage.
var defaultPool = NewPool(8)

// Default returns the package-level pool shared by all exporters.
func Default() *Pool {
	return defaultPool
}
