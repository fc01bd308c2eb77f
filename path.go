package tilework

import (
	"math"
	"slices"

	"github.com/gogpu/tilework/internal/path"
)

// Point is a 2D point in surface coordinates.
type Point = path.Point

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// PathElement is one recorded path command.
type PathElement = path.Element

// PathVerb identifies the kind of a PathElement.
type PathVerb = path.Verb

// Path verbs.
const (
	VerbMoveTo  = path.MoveTo
	VerbLineTo  = path.LineTo
	VerbQuadTo  = path.QuadTo
	VerbCubicTo = path.CubicTo
	VerbClose   = path.Close
)

// Path is a vector path made of subpaths. Every subpath is filled as if
// closed.
//
// A Path is not safe for concurrent mutation. FillPath copies the elements,
// so the path may be reused right after the call.
type Path struct {
	elements []path.Element
	start    Point
	current  Point
}

// NewPath creates an empty path.
func NewPath() *Path {
	return &Path{elements: make([]path.Element, 0, 16)}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, path.Element{Verb: path.MoveTo, Pts: [3]Point{pt}})
	p.start = pt
	p.current = pt
}

// LineTo adds a line to (x, y).
func (p *Path) LineTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, path.Element{Verb: path.LineTo, Pts: [3]Point{pt}})
	p.current = pt
}

// QuadraticTo adds a quadratic Bézier curve with control point (cx, cy).
func (p *Path) QuadraticTo(cx, cy, x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, path.Element{Verb: path.QuadTo, Pts: [3]Point{Pt(cx, cy), pt}})
	p.current = pt
}

// CubicTo adds a cubic Bézier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, path.Element{
		Verb: path.CubicTo,
		Pts:  [3]Point{Pt(c1x, c1y), Pt(c2x, c2y), pt},
	})
	p.current = pt
}

// Close ends the current subpath at its start point.
func (p *Path) Close() {
	p.elements = append(p.elements, path.Element{Verb: path.Close})
	p.current = p.start
}

// Clear removes all elements.
func (p *Path) Clear() {
	p.elements = p.elements[:0]
	p.start = Point{}
	p.current = Point{}
}

// Elements returns the recorded elements. The slice is owned by the path.
func (p *Path) Elements() []PathElement {
	return p.elements
}

// CurrentPoint returns the pen position.
func (p *Path) CurrentPoint() Point {
	return p.current
}

// Len returns the number of elements.
func (p *Path) Len() int {
	return len(p.elements)
}

// Clone returns a deep copy of the path.
func (p *Path) Clone() *Path {
	return &Path{
		elements: slices.Clone(p.elements),
		start:    p.start,
		current:  p.current,
	}
}

// Rectangle adds an axis-aligned rectangle.
func (p *Path) Rectangle(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// kappa places cubic control points for a quarter ellipse.
const kappa = 0.5522847498307936

// Circle adds a circle of radius r.
func (p *Path) Circle(cx, cy, r float64) {
	p.Ellipse(cx, cy, r, r)
}

// Ellipse adds an axis-aligned ellipse.
func (p *Path) Ellipse(cx, cy, rx, ry float64) {
	ox, oy := rx*kappa, ry*kappa

	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	p.CubicTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	p.CubicTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	p.CubicTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	p.Close()
}

// Arc adds a circular arc around (cx, cy) from angle a1 to a2 (radians,
// clockwise in y-down space). An empty path starts with a MoveTo to the arc
// start; otherwise a line joins the current point to it.
func (p *Path) Arc(cx, cy, r, a1, a2 float64) {
	for a2 < a1 {
		a2 += 2 * math.Pi
	}

	x0, y0 := cx+r*math.Cos(a1), cy+r*math.Sin(a1)
	if len(p.elements) == 0 {
		p.MoveTo(x0, y0)
	} else {
		p.LineTo(x0, y0)
	}

	// At most a quarter turn per cubic.
	n := max(1, int(math.Ceil((a2-a1)/(math.Pi/2))))
	step := (a2 - a1) / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4) * r

	for i := range n {
		s := a1 + float64(i)*step
		e := s + step
		cs, ss := math.Cos(s), math.Sin(s)
		ce, se := math.Cos(e), math.Sin(e)
		p.CubicTo(
			cx+r*cs-k*ss, cy+r*ss+k*cs,
			cx+r*ce+k*se, cy+r*se-k*ce,
			cx+r*ce, cy+r*se,
		)
	}
}

// RoundedRectangle adds a rectangle with corners of radius r, clamped to
// half the shorter side.
func (p *Path) RoundedRectangle(x, y, w, h, r float64) {
	r = math.Max(0, math.Min(r, math.Min(w, h)/2))
	if r == 0 {
		p.Rectangle(x, y, w, h)
		return
	}

	p.MoveTo(x+r, y)
	p.Arc(x+w-r, y+r, r, -math.Pi/2, 0)
	p.Arc(x+w-r, y+h-r, r, 0, math.Pi/2)
	p.Arc(x+r, y+h-r, r, math.Pi/2, math.Pi)
	p.Arc(x+r, y+r, r, math.Pi, 3*math.Pi/2)
	p.Close()
}
