package tilework

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/tilework/internal/cache"
	"github.com/gogpu/tilework/internal/path"
)

// glyphCacheSize bounds the number of outlines kept across all fonts.
const glyphCacheSize = 4096

type glyphKey struct {
	font  *sfnt.Font
	index sfnt.GlyphIndex
	ppem  fixed.Int26_6
}

// glyphs holds origin-relative outlines shared by every worker.
var glyphs = cache.New[glyphKey, []path.Element](glyphCacheSize)

// Font is a parsed TrueType or OpenType font.
//
// A Font is safe for concurrent use; glyph loading goes through a
// per-worker sfnt.Buffer.
type Font struct {
	f *sfnt.Font
}

// ParseFont parses TTF or OTF data.
func ParseFont(data []byte) (*Font, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFont, err)
	}
	return &Font{f: f}, nil
}

var defaultFont = sync.OnceValues(func() (*Font, error) {
	return ParseFont(goregular.TTF)
})

// DefaultFont returns Go Regular.
func DefaultFont() *Font {
	f, err := defaultFont()
	if err != nil {
		// The embedded font is known to parse.
		panic(err)
	}
	return f
}

// Name returns the full font name, or "" if the font has none.
func (f *Font) Name() string {
	var buf sfnt.Buffer
	name, err := f.f.Name(&buf, sfnt.NameIDFull)
	if err != nil {
		return ""
	}
	return name
}

// MeasureString returns the advance width of s at size pixels per em,
// including kerning.
func (f *Font) MeasureString(s string, size float64) float64 {
	var buf sfnt.Buffer
	ppem := toPPEM(size)

	var (
		adv  fixed.Int26_6
		prev sfnt.GlyphIndex
	)
	for i, r := range s {
		gi, err := f.f.GlyphIndex(&buf, r)
		if err != nil {
			continue
		}
		if i > 0 {
			if k, err := f.f.Kern(&buf, prev, gi, ppem, font.HintingNone); err == nil {
				adv += k
			}
		}
		if a, err := f.f.GlyphAdvance(&buf, gi, ppem, font.HintingNone); err == nil {
			adv += a
		}
		prev = gi
	}
	return fromFixed(adv)
}

func toPPEM(size float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(size * 64))
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// glyphRun is the payload of a text job.
type glyphRun struct {
	font *Font
	text string
	x, y float64
	size float64
}

// outline loads the run as path elements with the baseline origin at
// (x, y), appending to dst. sfnt segments are already y-down.
func (g *glyphRun) outline(buf *sfnt.Buffer, dst []path.Element) ([]path.Element, ErrorFlags) {
	var (
		flags ErrorFlags
		prev  sfnt.GlyphIndex
		pen   = g.x
	)
	ppem := toPPEM(g.size)
	f := g.font.f

	for i, r := range g.text {
		gi, err := f.GlyphIndex(buf, r)
		if err != nil {
			flags |= FlagGlyphLoad
			continue
		}
		if gi == 0 {
			flags |= FlagGlyphNotFound
		}
		if i > 0 {
			if k, err := f.Kern(buf, prev, gi, ppem, font.HintingNone); err == nil {
				pen += fromFixed(k)
			}
		}
		prev = gi

		elems, err := g.font.glyph(buf, gi, ppem)
		if err != nil {
			flags |= FlagGlyphLoad
		} else {
			for _, e := range elems {
				dst = append(dst, e.Translate(pen, g.y))
			}
		}

		if a, err := f.GlyphAdvance(buf, gi, ppem, font.HintingNone); err == nil {
			pen += fromFixed(a)
		}
	}
	return dst, flags
}

// glyph returns the outline of gi with the origin at (0, 0). Glyphs without
// an outline yield no elements and no error. The result is shared and must
// not be modified.
func (f *Font) glyph(buf *sfnt.Buffer, gi sfnt.GlyphIndex, ppem fixed.Int26_6) ([]path.Element, error) {
	key := glyphKey{font: f.f, index: gi, ppem: ppem}
	if elems, ok := glyphs.Get(key); ok {
		return elems, nil
	}

	segs, err := f.f.LoadGlyph(buf, gi, ppem, nil)
	if err != nil && !errors.Is(err, sfnt.ErrNotFound) {
		return nil, err
	}
	elems := appendSegments(nil, segs)
	glyphs.Put(key, elems)
	return elems, nil
}

func appendSegments(dst []path.Element, segs sfnt.Segments) []path.Element {
	pt := func(p fixed.Point26_6) path.Point {
		return path.Point{X: fromFixed(p.X), Y: fromFixed(p.Y)}
	}

	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			dst = append(dst, path.Element{Verb: path.MoveTo, Pts: [3]path.Point{pt(s.Args[0])}})
		case sfnt.SegmentOpLineTo:
			dst = append(dst, path.Element{Verb: path.LineTo, Pts: [3]path.Point{pt(s.Args[0])}})
		case sfnt.SegmentOpQuadTo:
			dst = append(dst, path.Element{Verb: path.QuadTo, Pts: [3]path.Point{pt(s.Args[0]), pt(s.Args[1])}})
		case sfnt.SegmentOpCubeTo:
			dst = append(dst, path.Element{Verb: path.CubicTo, Pts: [3]path.Point{pt(s.Args[0]), pt(s.Args[1]), pt(s.Args[2])}})
		}
	}
	return dst
}
