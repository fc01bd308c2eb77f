package tilework

import (
	"image"

	"github.com/gogpu/tilework/internal/pixel"
)

type commandKind uint8

const (
	// cmdClear replaces every pixel of the band.
	cmdClear commandKind = iota
	// cmdFillRect composites a solid rectangle.
	cmdFillRect
	// cmdFillGeometry composites the coverage of a job's geometry.
	cmdFillGeometry
)

// command is pixel-producing work executed for every band it touches.
type command struct {
	kind  commandKind
	color pixel.P32
	rect  image.Rectangle
	slot  uint32
}

// execute runs c over band and reports whether any pixel was written.
func (w *worker) execute(c command, band image.Rectangle) (bool, ErrorFlags) {
	dst := w.r.dst
	if dst.io == nil {
		return false, FlagUnsupportedFormat
	}

	switch c.kind {
	case cmdClear:
		for y := band.Min.Y; y < band.Max.Y; y++ {
			dst.storeSpan(band.Min.X, band.Max.X, y, c.color)
		}
		return true, 0

	case cmdFillRect:
		r := c.rect.Intersect(band)
		if r.Empty() || c.color == 0 {
			return false, 0
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			if c.color.A() == 0xFF {
				dst.storeSpan(r.Min.X, r.Max.X, y, c.color)
			} else {
				dst.blendSpan(r.Min.X, r.Max.X, y, c.color)
			}
		}
		return true, 0

	case cmdFillGeometry:
		g := &w.r.slots[c.slot]
		r := g.box.Intersect(band)
		if r.Empty() {
			return false, 0
		}
		return w.fillGeometry(g, r, c.color), 0
	}
	return false, 0
}

// fillGeometry composites color over r through the coverage of g.
func (w *worker) fillGeometry(g *geometry, r image.Rectangle, color pixel.P32) bool {
	dst := w.r.dst
	bpp := dst.bpp()
	wrote := false
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := dst.data[y*dst.stride+r.Min.X*bpp:]
		cov := g.coverage(r.Min.X, y)[:r.Dx()]
		for x, a := range cov {
			if a == 0 {
				continue
			}
			wrote = true
			src := pixel.Scale(color, uint32(a))
			px := row[x*bpp:]
			if src.A() == 0xFF {
				dst.io.Store(px, src)
				continue
			}
			dst.io.Store(px, pixel.SrcOver(dst.io.Fetch(px), src))
		}
	}
	return wrote
}

// storeSpan writes c to pixels [x0, x1) of row y.
func (s *Surface) storeSpan(x0, x1, y int, c pixel.P32) {
	bpp := s.bpp()
	row := s.data[y*s.stride:]
	for x := x0; x < x1; x++ {
		s.io.Store(row[x*bpp:], c)
	}
}

// blendSpan composites c over pixels [x0, x1) of row y.
func (s *Surface) blendSpan(x0, x1, y int, c pixel.P32) {
	bpp := s.bpp()
	row := s.data[y*s.stride:]
	for x := x0; x < x1; x++ {
		px := row[x*bpp:]
		s.io.Store(px, pixel.SrcOver(s.io.Fetch(px), c))
	}
}
