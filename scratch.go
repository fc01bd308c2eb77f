package tilework

import (
	"sync"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/vector"

	"github.com/gogpu/tilework/internal/path"
)

// scratch is the per-worker state reused across jobs.
type scratch struct {
	z        vector.Rasterizer
	glyphs   sfnt.Buffer
	elements []path.Element
}

// scratchPool reuses worker scratch between flushes and renderers so the
// rasterizer and glyph buffers keep their capacity.
var scratchPool = sync.Pool{
	New: func() any { return new(scratch) },
}

func getScratch() *scratch {
	return scratchPool.Get().(*scratch)
}

func putScratch(s *scratch) {
	if s == nil {
		return
	}
	clear(s.elements)
	s.elements = s.elements[:0]
	scratchPool.Put(s)
}
