package path

import "math"

// Tolerance is the default maximum distance between a curve and its
// flattened polyline, in pixels.
const Tolerance = 0.1

// maxDepth bounds curve subdivision (2^maxDepth segments per curve).
const maxDepth = 16

// Vec2 is a contour vertex in device space.
type Vec2 struct {
	X, Y float32
}

// Contour is a polygon; the last vertex connects back to the first.
type Contour []Vec2

// Flatten converts elements into closed contours, appending them to dst.
//
// Each subpath becomes one contour. Curves are subdivided until their
// control points lie within tolerance of the chord. Subpaths with fewer
// than two vertices are dropped. A non-positive tolerance selects
// Tolerance.
func Flatten(elements []Element, tolerance float64, dst []Contour) []Contour {
	if tolerance <= 0 {
		tolerance = Tolerance
	}

	f := flattener{tolerance: tolerance, dst: dst}
	for _, e := range elements {
		switch e.Verb {
		case MoveTo:
			f.finish()
			f.start = e.Pts[0]
			f.moveTo(e.Pts[0])
		case LineTo:
			f.lineTo(e.Pts[0])
		case QuadTo:
			f.quadTo(f.current, e.Pts[0], e.Pts[1], 0)
		case CubicTo:
			f.cubicTo(f.current, e.Pts[0], e.Pts[1], e.Pts[2], 0)
		case Close:
			f.finish()
			f.moveTo(f.start)
		}
	}
	f.finish()
	return f.dst
}

type flattener struct {
	tolerance float64
	dst       []Contour
	contour   Contour
	start     Point
	current   Point
	open      bool
}

func (f *flattener) moveTo(p Point) {
	f.contour = Contour{toVec2(p)}
	f.current = p
	f.open = true
}

func (f *flattener) lineTo(p Point) {
	if !f.open {
		// Drawing without MoveTo starts at the origin of the last subpath.
		f.moveTo(f.start)
	}
	f.contour = append(f.contour, toVec2(p))
	f.current = p
}

func (f *flattener) finish() {
	if f.open && len(f.contour) >= 2 {
		f.dst = append(f.dst, f.contour)
	}
	f.contour = nil
	f.open = false
}

func (f *flattener) quadTo(p0, p1, p2 Point, depth int) {
	if depth >= maxDepth || distanceToLine(p1, p0, p2) < f.tolerance {
		f.lineTo(p2)
		return
	}

	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	mid := q0.Lerp(q1, 0.5)

	f.quadTo(p0, q0, mid, depth+1)
	f.quadTo(mid, q1, p2, depth+1)
}

func (f *flattener) cubicTo(p0, p1, p2, p3 Point, depth int) {
	d := math.Max(distanceToLine(p1, p0, p3), distanceToLine(p2, p0, p3))
	if depth >= maxDepth || d < f.tolerance {
		f.lineTo(p3)
		return
	}

	// de Casteljau split at t = 0.5
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := p2.Lerp(p3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	mid := r0.Lerp(r1, 0.5)

	f.cubicTo(p0, q0, r0, mid, depth+1)
	f.cubicTo(mid, r1, q2, p3, depth+1)
}

// distanceToLine returns the distance from p to the segment a-b.
func distanceToLine(p, a, b Point) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	lenSq := abx*abx + aby*aby
	if lenSq < 1e-20 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}

	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+abx*t), p.Y-(a.Y+aby*t))
}

func toVec2(p Point) Vec2 {
	return Vec2{X: float32(p.X), Y: float32(p.Y)}
}

// Bounds returns the bounding box of contours. ok is false when there is
// no vertex.
func Bounds(contours []Contour) (minX, minY, maxX, maxY float32, ok bool) {
	for _, c := range contours {
		for _, v := range c {
			if !ok {
				minX, minY, maxX, maxY = v.X, v.Y, v.X, v.Y
				ok = true
				continue
			}
			minX = min(minX, v.X)
			minY = min(minY, v.Y)
			maxX = max(maxX, v.X)
			maxY = max(maxY, v.Y)
		}
	}
	return minX, minY, maxX, maxY, ok
}
