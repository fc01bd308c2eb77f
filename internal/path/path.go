// Package path holds the path representation shared by the public builder
// and the flattening jobs, and converts curves into polygon contours.
package path

import "math"

// Point is a 2D point in user space.
type Point struct {
	X, Y float64
}

// Lerp interpolates between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Verb identifies the kind of an Element.
type Verb uint8

const (
	MoveTo Verb = iota
	LineTo
	QuadTo
	CubicTo
	Close
)

// String returns the verb name.
func (v Verb) String() string {
	switch v {
	case MoveTo:
		return "MoveTo"
	case LineTo:
		return "LineTo"
	case QuadTo:
		return "QuadTo"
	case CubicTo:
		return "CubicTo"
	case Close:
		return "Close"
	default:
		return "Verb(?)"
	}
}

// Element is one path command. Pts holds the control points followed by
// the end point; unused entries are zero.
//
//	MoveTo, LineTo: Pts[0] end
//	QuadTo:         Pts[0] control, Pts[1] end
//	CubicTo:        Pts[0], Pts[1] controls, Pts[2] end
type Element struct {
	Verb Verb
	Pts  [3]Point
}

// End returns the point the element leaves the pen at. Close has none.
func (e Element) End() (Point, bool) {
	switch e.Verb {
	case MoveTo, LineTo:
		return e.Pts[0], true
	case QuadTo:
		return e.Pts[1], true
	case CubicTo:
		return e.Pts[2], true
	}
	return Point{}, false
}

// count returns how many entries of Pts the verb uses.
func (e Element) count() int {
	switch e.Verb {
	case MoveTo, LineTo:
		return 1
	case QuadTo:
		return 2
	case CubicTo:
		return 3
	}
	return 0
}

// Translate returns e moved by (dx, dy).
func (e Element) Translate(dx, dy float64) Element {
	for i := range e.count() {
		e.Pts[i].X += dx
		e.Pts[i].Y += dy
	}
	return e
}

// Valid reports whether every coordinate of elements is finite.
func Valid(elements []Element) bool {
	for _, e := range elements {
		for _, p := range e.Pts[:e.count()] {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
				return false
			}
		}
	}
	return true
}
