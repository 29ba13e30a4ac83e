package clip

import "math"

// PathElement represents a single element in a clip outline.
type PathElement interface {
	isPathElement()
}

// MoveTo moves to a point without drawing.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isPathElement() {}

// Close closes the current subpath.
type Close struct{}

func (Close) isPathElement() {}

// ClampRadius limits r to [0, min(w, h)/2]. Larger radii would make
// neighbouring corners overlap and fold the outline back on itself.
func ClampRadius(w, h, r float64) float64 {
	maxR := math.Min(w, h) / 2
	if r > maxR {
		r = maxR
	}
	if r < 0 || math.IsNaN(r) {
		r = 0
	}
	return r
}

// RoundedRect returns the closed outline of a w×h rectangle at the origin
// whose corners are replaced by quadratic curves. Each curve uses the
// rectangle corner as its control point and meets the adjacent edges at
// distance r from that corner.
//
// The outline runs clockwise in screen space starting at (r, 0).
func RoundedRect(w, h, r float64) []PathElement {
	r = ClampRadius(w, h, r)

	return []PathElement{
		MoveTo{Point: Pt(r, 0)},
		LineTo{Point: Pt(w-r, 0)},
		QuadTo{Control: Pt(w, 0), Point: Pt(w, r)},
		LineTo{Point: Pt(w, h-r)},
		QuadTo{Control: Pt(w, h), Point: Pt(w-r, h)},
		LineTo{Point: Pt(r, h)},
		QuadTo{Control: Pt(0, h), Point: Pt(0, h-r)},
		LineTo{Point: Pt(0, r)},
		QuadTo{Control: Pt(0, 0), Point: Pt(r, 0)},
		Close{},
	}
}

// Corners returns the four corner curves of the outline produced by
// RoundedRect, in outline order: top-right, bottom-right, bottom-left,
// top-left.
func Corners(elements []PathElement) []QuadSeg {
	var (
		segs    []QuadSeg
		current Point
	)
	for _, elem := range elements {
		switch e := elem.(type) {
		case MoveTo:
			current = e.Point
		case LineTo:
			current = e.Point
		case QuadTo:
			segs = append(segs, QuadSeg{P0: current, P1: e.Control, P2: e.Point})
			current = e.Point
		}
	}
	return segs
}
