package tilework

import (
	"math"
	"testing"

	"github.com/gogpu/tilework/internal/path"
)

func TestPath_Builder(t *testing.T) {
	p := NewPath()
	p.MoveTo(1, 2)
	p.LineTo(3, 4)
	p.QuadraticTo(5, 6, 7, 8)
	p.CubicTo(9, 10, 11, 12, 13, 14)
	p.Close()

	want := []PathVerb{VerbMoveTo, VerbLineTo, VerbQuadTo, VerbCubicTo, VerbClose}
	if p.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", p.Len(), len(want))
	}
	for i, e := range p.Elements() {
		if e.Verb != want[i] {
			t.Errorf("element %d verb = %v, want %v", i, e.Verb, want[i])
		}
	}
	if end, _ := p.Elements()[3].End(); end != Pt(13, 14) {
		t.Errorf("cubic end = %v, want (13, 14)", end)
	}
	if p.CurrentPoint() != Pt(1, 2) {
		t.Errorf("CurrentPoint() after Close = %v, want start", p.CurrentPoint())
	}

	p.Clear()
	if p.Len() != 0 || p.CurrentPoint() != (Point{}) {
		t.Error("Clear() left state behind")
	}
}

func TestPath_Clone(t *testing.T) {
	p := NewPath()
	p.Rectangle(0, 0, 10, 10)
	c := p.Clone()
	p.LineTo(50, 50)

	if c.Len() != 5 {
		t.Errorf("clone Len() = %d, want 5", c.Len())
	}
}

// maxRadiusError flattens p and returns the largest deviation of a vertex
// from radius r around (cx, cy).
func maxRadiusError(p *Path, cx, cy, r float64) float64 {
	var worst float64
	for _, c := range path.Flatten(p.Elements(), 0.01, nil) {
		for _, v := range c {
			d := math.Abs(math.Hypot(float64(v.X)-cx, float64(v.Y)-cy) - r)
			worst = math.Max(worst, d)
		}
	}
	return worst
}

func TestPath_CircleAndArc(t *testing.T) {
	c := NewPath()
	c.Circle(50, 50, 20)
	if e := maxRadiusError(c, 50, 50, 20); e > 0.05 {
		t.Errorf("Circle radius error = %v", e)
	}

	a := NewPath()
	a.Arc(0, 0, 100, 0, 3*math.Pi/2)
	if e := maxRadiusError(a, 0, 0, 100); e > 0.1 {
		t.Errorf("Arc radius error = %v", e)
	}
	end, _ := a.Elements()[a.Len()-1].End()
	if math.Abs(end.X) > 1e-9 || math.Abs(end.Y+100) > 1e-9 {
		t.Errorf("Arc end = %v, want (0, -100)", end)
	}
	// 270 degrees takes three cubics after the MoveTo.
	if a.Len() != 4 {
		t.Errorf("Arc Len() = %d, want 4", a.Len())
	}
}

func TestPath_RoundedRectangle(t *testing.T) {
	p := NewPath()
	p.RoundedRectangle(10, 20, 100, 50, 10)

	contours := path.Flatten(p.Elements(), 0.1, nil)
	minX, minY, maxX, maxY, ok := path.Bounds(contours)
	if !ok || minX != 10 || minY != 20 || maxX != 110 || maxY != 70 {
		t.Errorf("bounds = %v %v %v %v, want 10 20 110 70", minX, minY, maxX, maxY)
	}

	sq := NewPath()
	sq.RoundedRectangle(0, 0, 10, 10, 0)
	if sq.Len() != 5 {
		t.Errorf("zero radius Len() = %d, want plain rectangle", sq.Len())
	}
}
