// Package clip builds the rounded-rectangle clip outline and rasterizes it
// into a per-pixel coverage mask.
package clip

import "math"

// Point represents a 2D point with float64 coordinates.
type Point struct {
	X, Y float64
}

// Pt creates a Point from x, y coordinates.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Lerp performs linear interpolation between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Rect represents a rectangle with float64 coordinates.
type Rect struct {
	X, Y float64 // Top-left corner
	W, H float64 // Width and height
}

// NewRect creates a Rect from position and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the right edge x-coordinate.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the bottom edge y-coordinate.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// IsEmpty returns true if the rectangle has zero area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// QuadSeg represents a quadratic Bezier segment.
type QuadSeg struct {
	P0, P1, P2 Point
}

// Eval evaluates the curve at parameter t in [0, 1].
func (q QuadSeg) Eval(t float64) Point {
	s := 1 - t
	return Point{
		X: s*s*q.P0.X + 2*s*t*q.P1.X + t*t*q.P2.X,
		Y: s*s*q.P0.Y + 2*s*t*q.P1.Y + t*t*q.P2.Y,
	}
}

// Bounds returns the bounding box of a quadratic Bezier.
func (q QuadSeg) Bounds() Rect {
	minX := math.Min(q.P0.X, math.Min(q.P1.X, q.P2.X))
	maxX := math.Max(q.P0.X, math.Max(q.P1.X, q.P2.X))
	minY := math.Min(q.P0.Y, math.Min(q.P1.Y, q.P2.Y))
	maxY := math.Max(q.P0.Y, math.Max(q.P1.Y, q.P2.Y))
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
