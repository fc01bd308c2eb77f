package tilework

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/tilework/internal/arena"
	"github.com/gogpu/tilework/internal/pixel"
	"github.com/gogpu/tilework/threadpool"
)

func newTestRenderer(t *testing.T, w, h int, opts ...Option) (*Surface, *Renderer) {
	t.Helper()
	dst, err := NewSurface(w, h, FormatPRGB32)
	if err != nil {
		t.Fatalf("NewSurface() error = %v", err)
	}
	r, err := NewRenderer(dst, opts...)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	t.Cleanup(r.Close)
	return dst, r
}

func mustFlush(t *testing.T, r *Renderer) Result {
	t.Helper()
	res, err := r.Flush()
	if err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	return res
}

func packed(s *Surface, x, y int) uint32 {
	return uint32(s.fetch(x, y))
}

// drawScene records a scene touching every command kind.
func drawScene(t *testing.T, r *Renderer) {
	t.Helper()
	steps := []func() error{
		func() error { return r.Clear(White) },
		func() error { return r.FillRect(10, 10, 100, 40, Blue) },
		func() error { return r.FillRect(50, 30, 120, 90, RGBAf(1, 0, 0, 0.5)) },
		func() error {
			p := NewPath()
			p.Circle(100, 120, 60)
			return r.FillPath(p, RGBAf(0, 0.6, 0, 0.8))
		},
		func() error {
			p := NewPath()
			p.RoundedRectangle(20, 150, 160, 40, 12)
			p.Ellipse(150, 60, 30, 15)
			return r.FillPath(p, Magenta)
		},
		func() error { return r.FillText("Tilework", 12, 230, 28, Black) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: error = %v", i, err)
		}
	}
}

// =============================================================================
// Basic Rendering Tests
// =============================================================================

func TestRenderer_ClearAndFillRect(t *testing.T) {
	dst, r := newTestRenderer(t, 64, 64, WithBandHeight(8))

	_ = r.Clear(White)
	_ = r.FillRect(8, 8, 16, 16, Red)
	_ = r.FillRect(40, 40, 100, 100, RGBAf(1, 0, 0, 0.5))
	res := mustFlush(t, r)

	tests := []struct {
		x, y int
		want uint32
	}{
		{0, 0, 0xFFFFFFFF},
		{8, 8, 0xFFFF0000},
		{23, 23, 0xFFFF0000},
		{24, 24, 0xFFFFFFFF},
		{63, 63, 0xFFFF7F7F},
		{40, 39, 0xFFFFFFFF},
	}
	for _, tt := range tests {
		if got := packed(dst, tt.x, tt.y); got != tt.want {
			t.Errorf("pixel(%d, %d) = %#08x, want %#08x", tt.x, tt.y, got, tt.want)
		}
	}

	if res.Commands != 3 || res.Jobs != 0 || res.Bands != 8 {
		t.Errorf("Result = %+v, want 3 commands, 0 jobs, 8 bands", res)
	}
	if len(res.DirtyBands) != 8 {
		t.Errorf("DirtyBands = %v, want all 8", res.DirtyBands)
	}
	if err := res.Err(); err != nil {
		t.Errorf("Result.Err() = %v, want nil", err)
	}
}

func TestRenderer_FillPathCoverage(t *testing.T) {
	dst, r := newTestRenderer(t, 64, 64, WithBandHeight(16))

	p := NewPath()
	p.Rectangle(16, 16, 32, 32)
	_ = r.FillPath(p, Green)
	res := mustFlush(t, r)

	if got := packed(dst, 32, 32); got != 0xFF00FF00 {
		t.Errorf("inside pixel = %#08x, want 0xff00ff00", got)
	}
	if got := packed(dst, 8, 8); got != 0 {
		t.Errorf("outside pixel = %#08x, want 0", got)
	}
	if res.Jobs != 1 || res.Commands != 1 {
		t.Errorf("Result = %+v, want 1 job, 1 command", res)
	}
	// The square spans rows 16..47: bands 1 and 2.
	if len(res.DirtyBands) != 2 || res.DirtyBands[0] != 1 || res.DirtyBands[1] != 2 {
		t.Errorf("DirtyBands = %v, want [1 2]", res.DirtyBands)
	}
}

func TestRenderer_AntialiasedEdge(t *testing.T) {
	dst, r := newTestRenderer(t, 16, 16)

	p := NewPath()
	p.Rectangle(4.5, 0, 8, 16)
	_ = r.FillPath(p, Black)
	mustFlush(t, r)

	a := dst.fetch(4, 8).A()
	if a < 120 || a > 135 {
		t.Errorf("half-covered pixel alpha = %d, want ~128", a)
	}
	if dst.fetch(8, 8).A() != 255 {
		t.Errorf("covered pixel alpha = %d, want 255", dst.fetch(8, 8).A())
	}
}

func TestRenderer_FillText(t *testing.T) {
	dst, r := newTestRenderer(t, 200, 64, WithBandHeight(16))

	_ = r.FillText("Hello", 10, 40, 32, Black)
	res := mustFlush(t, r)

	if res.Flags != 0 {
		t.Errorf("Flags = %v, want none", res.Flags)
	}

	inked := 0
	for y := range dst.Height() {
		for x := range dst.Width() {
			if dst.fetch(x, y).A() != 0 {
				inked++
				if y > 48 {
					t.Fatalf("ink at (%d, %d) below the descender line", x, y)
				}
			}
		}
	}
	if inked < 100 {
		t.Errorf("inked pixels = %d, want a visible run", inked)
	}
}

func TestRenderer_EmptyFlush(t *testing.T) {
	_, r := newTestRenderer(t, 8, 8)

	res, err := r.Flush()
	if err != nil || res.Commands != 0 || res.Workers != 0 {
		t.Errorf("Flush() on empty batch = %+v, %v", res, err)
	}
}

func TestRenderer_ClipsToSurface(t *testing.T) {
	dst, r := newTestRenderer(t, 16, 16)

	_ = r.FillRect(-10, -10, 15, 15, Red)
	_ = r.FillRect(100, 100, 10, 10, Blue)
	_ = r.FillRect(0, 0, 0, 10, Blue)
	p := NewPath()
	p.Circle(16, 16, 40)
	_ = r.FillPath(p, RGBAf(0, 0, 1, 0.25))

	jobs, cmds := r.Pending()
	if jobs != 1 || cmds != 2 {
		t.Errorf("Pending() = %d, %d, want 1, 2 (off-surface rects dropped)", jobs, cmds)
	}
	mustFlush(t, r)

	if dst.fetch(4, 4).R() == 0 {
		t.Error("clipped rect did not reach (4, 4)")
	}
	if dst.fetch(15, 15).B() == 0 {
		t.Error("oversized circle did not cover the surface corner")
	}
}

// =============================================================================
// Parallel Tests
// =============================================================================

func TestRenderer_OutputIndependentOfWorkers(t *testing.T) {
	render := func(workers int) ([]byte, Result) {
		dst, r := newTestRenderer(t, 200, 256, WithWorkerCount(workers), WithBandHeight(8))
		drawScene(t, r)
		return dst.Data(), mustFlush(t, r)
	}

	want, _ := render(1)
	for _, workers := range []int{2, 4, 8} {
		got, res := render(workers)
		if !bytes.Equal(got, want) {
			t.Errorf("workers=%d: output differs from single-worker render", workers)
		}
		if res.Workers < 1 || res.Workers > workers {
			t.Errorf("workers=%d: Result.Workers = %d", workers, res.Workers)
		}
	}
}

func TestRenderer_OutputIndependentOfBandHeight(t *testing.T) {
	render := func(band int) []byte {
		dst, r := newTestRenderer(t, 200, 256, WithWorkerCount(1), WithBandHeight(band))
		drawScene(t, r)
		p := NewPath()
		p.Circle(32, 32, 20)
		_ = r.FillPath(p, RGBAf(0.2, 0.4, 0.8, 0.7))
		mustFlush(t, r)
		return dst.Data()
	}

	want := render(256)
	for _, band := range []int{1, 3, 8, 64} {
		got := render(band)
		if !bytes.Equal(got, want) {
			for i := range got {
				if got[i] != want[i] {
					t.Errorf("band=%d: first difference at byte %d: %d, want %d", band, i, got[i], want[i])
					break
				}
			}
		}
	}
}

func TestRenderer_ClaimsAreExact(t *testing.T) {
	_, r := newTestRenderer(t, 64, 512, WithWorkerCount(4), WithBandHeight(4))

	for i := range 100 {
		p := NewPath()
		p.Circle(float64(i%64), float64(i*5), 3)
		_ = r.FillPath(p, Red)
	}
	res := mustFlush(t, r)

	jobs, bands := 0, 0
	for _, w := range r.workers[:res.Workers] {
		jobs += w.jobs
		bands += w.bands
	}
	if jobs != 100 || bands != 128 {
		t.Errorf("claimed jobs, bands = %d, %d, want 100, 128", jobs, bands)
	}
}

func TestRenderer_RepeatedFlushes(t *testing.T) {
	dst, r := newTestRenderer(t, 32, 32, WithWorkerCount(4), WithBandHeight(4))

	for i := range 20 {
		c := RGB(float64(i)/20, 0, 0)
		_ = r.Clear(c)
		p := NewPath()
		p.Rectangle(0, 0, 16, 32)
		_ = r.FillPath(p, Blue)
		mustFlush(t, r)

		if got, want := dst.fetch(24, 8), c.pixel(); got != want {
			t.Fatalf("flush %d: pixel = %#08x, want %#08x", i, uint32(got), uint32(want))
		}
		if got := dst.fetch(4, 8); got != Blue.pixel() {
			t.Fatalf("flush %d: pixel = %#08x, want blue", i, uint32(got))
		}
	}
	if r.arena.BlockCount() != 0 {
		t.Errorf("arena BlockCount() = %d after flushes, want 0", r.arena.BlockCount())
	}
}

// =============================================================================
// Thread Pool Tests
// =============================================================================

func TestRenderer_WorkerCountClampedToPool(t *testing.T) {
	pool := threadpool.New(threadpool.Config{MaxThreads: 2})
	defer pool.Close()

	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))
	dst, r := newTestRenderer(t, 64, 64,
		WithThreadPool(pool), WithWorkerCount(8), WithBandHeight(4), WithLogger(l))

	for i := range 3 {
		_ = r.Clear(White)
		_ = r.FillRect(0, 0, 64, 64, Blue)
		res, err := r.Flush()
		if err != nil {
			t.Fatalf("Flush() #%d error = %v", i, err)
		}
		if res.Workers < 1 || res.Workers > 3 {
			t.Errorf("Workers = %d, want 1..3", res.Workers)
		}
		if got := packed(dst, 63, 63); got != 0xFF0000FF {
			t.Errorf("pixel(63, 63) = %#08x, want 0xff0000ff", got)
		}
	}

	if st := pool.Stats(); st.Acquired != 0 {
		t.Errorf("pool Acquired = %d, want 0", st.Acquired)
	}
	if !strings.Contains(buf.String(), "tilework: worker count clamped to pool ceiling") {
		t.Errorf("expected clamp record in log output, got: %s", buf.String())
	}
}

func TestRenderer_ProgressWithoutThreads(t *testing.T) {
	pool := threadpool.New(threadpool.Config{MaxThreads: 4})
	defer pool.Close()

	held := make([]*threadpool.Thread, 4)
	n, _ := pool.AcquireThreads(held, 4, threadpool.AcquireAllOrNothing)
	defer pool.ReleaseThreads(held[:n])

	for _, opts := range [][]Option{
		{WithThreadPool(pool), WithWorkerCount(5)},
		{WithThreadPool(pool), WithWorkerCount(5), WithAllOrNothing()},
	} {
		dst, r := newTestRenderer(t, 32, 32, append(opts, WithBandHeight(4))...)
		_ = r.Clear(Red)
		res := mustFlush(t, r)

		if res.Workers != 1 {
			t.Errorf("Workers = %d, want 1 (caller only)", res.Workers)
		}
		if dst.fetch(31, 31) != Red.pixel() {
			t.Error("batch did not complete on the calling goroutine")
		}
	}
}

func TestRenderer_ReleasesThreads(t *testing.T) {
	pool := threadpool.New(threadpool.Config{MaxThreads: 3})
	defer pool.Close()

	_, r := newTestRenderer(t, 32, 32, WithThreadPool(pool), WithWorkerCount(4), WithBandHeight(2))
	_ = r.Clear(Red)
	res := mustFlush(t, r)

	if res.Workers != 4 {
		t.Errorf("Workers = %d, want 4", res.Workers)
	}
	if st := pool.Stats(); st.Acquired != 0 || st.Idle != 3 {
		t.Errorf("pool Stats() = %+v, want 0 acquired, 3 idle", st)
	}

	r.Close()
	if !pool.IsRunning() {
		t.Error("Close() closed a shared pool")
	}
}

// =============================================================================
// Error Tests
// =============================================================================

func TestRenderer_AllocationFailure(t *testing.T) {
	_, r := newTestRenderer(t, 16, 16, WithArenaBlockSize(64), WithArenaLimit(2))

	var err error
	for i := 0; i < 1000 && err == nil; i++ {
		p := NewPath()
		p.Rectangle(0, 0, 4, 4)
		err = r.FillPath(p, Red)
	}
	if !errors.Is(err, ErrAllocationFailure) || !errors.Is(err, arena.ErrOutOfMemory) {
		t.Fatalf("error = %v, want ErrAllocationFailure wrapping arena.ErrOutOfMemory", err)
	}
	if jobs, cmds := r.Pending(); jobs != 0 || cmds != 0 {
		t.Errorf("Pending() after failure = %d, %d, want 0, 0", jobs, cmds)
	}

	// The renderer is usable again.
	if err := r.Clear(White); err != nil {
		t.Errorf("Clear() after abandon error = %v", err)
	}
	mustFlush(t, r)
}

func TestRenderer_InvalidGeometry(t *testing.T) {
	dst, r := newTestRenderer(t, 16, 16, WithWorkerCount(2))

	bad := NewPath()
	bad.MoveTo(0, 0)
	bad.LineTo(math.NaN(), 4)
	bad.LineTo(4, 4)

	_ = r.FillRect(0, 0, 16, 16, Blue)
	_ = r.FillPath(bad, Red)
	res := mustFlush(t, r)

	if !res.Flags.Has(FlagInvalidGeometry) {
		t.Errorf("Flags = %v, want InvalidGeometry", res.Flags)
	}
	if err := res.Err(); !errors.Is(err, ErrPartialRender) {
		t.Errorf("Result.Err() = %v, want ErrPartialRender", err)
	}
	if dst.fetch(2, 2) != Blue.pixel() {
		t.Error("valid command did not complete next to a failing one")
	}
}

func TestRenderer_GlyphNotFound(t *testing.T) {
	_, r := newTestRenderer(t, 64, 32)

	_ = r.FillText("a\U0001F600b", 2, 24, 16, Black)
	res := mustFlush(t, r)

	if !res.Flags.Has(FlagGlyphNotFound) {
		t.Errorf("Flags = %v, want GlyphNotFound", res.Flags)
	}
}

func TestRenderer_UnsupportedFormat(t *testing.T) {
	dst := &Surface{width: 4, height: 4, stride: 16, format: pixel.FormatNone, data: make([]byte, 64)}
	r, err := NewRenderer(dst, WithWorkerCount(1))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	_ = r.Clear(Red)
	res := mustFlush(t, r)
	if !res.Flags.Has(FlagUnsupportedFormat) {
		t.Errorf("Flags = %v, want UnsupportedFormat", res.Flags)
	}
}

func TestRenderer_Closed(t *testing.T) {
	_, r := newTestRenderer(t, 8, 8)
	r.Close()
	r.Close()

	if err := r.Clear(Red); !errors.Is(err, ErrRendererClosed) {
		t.Errorf("Clear() error = %v, want ErrRendererClosed", err)
	}
	if err := r.FillRect(0, 0, 0, 0, Red); !errors.Is(err, ErrRendererClosed) {
		t.Errorf("FillRect() error = %v, want ErrRendererClosed", err)
	}
	if _, err := r.Flush(); !errors.Is(err, ErrRendererClosed) {
		t.Errorf("Flush() error = %v, want ErrRendererClosed", err)
	}
	if r.pool.IsRunning() {
		t.Error("Close() did not close the owned pool")
	}
}

func TestNewRenderer_NilSurface(t *testing.T) {
	if _, err := NewRenderer(nil); !errors.Is(err, ErrNilSurface) {
		t.Errorf("NewRenderer(nil) error = %v, want ErrNilSurface", err)
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkRenderer_Scene(b *testing.B) {
	dst, _ := NewSurface(512, 512, FormatPRGB32)
	r, _ := NewRenderer(dst)
	defer r.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Clear(White)
		for j := range 32 {
			p := NewPath()
			p.Circle(float64(j*16), float64(j*16), 40)
			_ = r.FillPath(p, RGBAf(0, 0, 1, 0.5))
		}
		_, _ = r.Flush()
	}
}
