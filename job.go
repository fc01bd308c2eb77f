package tilework

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/tilework/internal/path"
)

type jobKind uint8

const (
	// jobFlattenPath flattens a path into its state slot.
	jobFlattenPath jobKind = iota
	// jobGlyphRun loads glyph outlines of a text run and flattens them.
	jobGlyphRun
)

// job is setup work executed once, before any band is composited.
type job struct {
	kind     jobKind
	slot     uint32
	elements []path.Element
	run      *glyphRun
}

// geometry is the output of a job, read by the commands sharing its slot.
//
// Coverage is rasterized once over the whole box, so a pixel's value does
// not depend on which band or worker composites it.
type geometry struct {
	contours []path.Contour
	// box is the device-space bounding box clipped to the surface.
	box image.Rectangle
	// mask holds box.Dx() x box.Dy() coverage bytes.
	mask []byte
}

// coverage returns the coverage row of g at device row y, starting at
// device column x0.
func (g *geometry) coverage(x0, y int) []byte {
	stride := g.box.Dx()
	off := (y-g.box.Min.Y)*stride + x0 - g.box.Min.X
	return g.mask[off : (y-g.box.Min.Y+1)*stride]
}

// coordLimit keeps float to int conversion of far-off geometry in range.
const coordLimit = 1 << 24

func (w *worker) runJob(j job) ErrorFlags {
	g := &w.r.slots[j.slot]
	g.box = image.Rectangle{}

	var (
		elems []path.Element
		flags ErrorFlags
	)
	switch j.kind {
	case jobFlattenPath:
		elems = j.elements
	case jobGlyphRun:
		elems, flags = j.run.outline(&w.scratch.glyphs, w.scratch.elements[:0])
		w.scratch.elements = elems
	}

	if !path.Valid(elems) {
		g.contours = g.contours[:0]
		return flags | FlagInvalidGeometry
	}

	g.contours = path.Flatten(elems, w.r.opts.tolerance, g.contours[:0])
	minX, minY, maxX, maxY, ok := path.Bounds(g.contours)
	if !ok {
		return flags
	}

	g.box = image.Rect(
		floorCoord(minX), floorCoord(minY),
		ceilCoord(maxX), ceilCoord(maxY),
	).Intersect(w.r.dst.Bounds())
	if !g.box.Empty() {
		w.rasterize(g)
	}
	return flags
}

// rasterize renders the coverage of g.contours over g.box into g.mask.
func (w *worker) rasterize(g *geometry) {
	width, height := g.box.Dx(), g.box.Dy()
	z := &w.scratch.z
	z.Reset(width, height)
	z.DrawOp = draw.Src

	ox, oy := float32(g.box.Min.X), float32(g.box.Min.Y)
	for _, ct := range g.contours {
		z.MoveTo(ct[0].X-ox, ct[0].Y-oy)
		for _, v := range ct[1:] {
			z.LineTo(v.X-ox, v.Y-oy)
		}
		z.ClosePath()
	}

	n := width * height
	if cap(g.mask) < n {
		g.mask = make([]byte, n)
	}
	g.mask = g.mask[:n]
	mask := &image.Alpha{Pix: g.mask, Stride: width, Rect: image.Rect(0, 0, width, height)}
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
}

func floorCoord(v float32) int {
	return int(math.Floor(float64(max(-coordLimit, min(v, coordLimit)))))
}

func ceilCoord(v float32) int {
	return int(math.Ceil(float64(max(-coordLimit, min(v, coordLimit)))))
}
