package tilework

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"slices"

	"github.com/gogpu/tilework/internal/arena"
	"github.com/gogpu/tilework/internal/batch"
	"github.com/gogpu/tilework/threadpool"
)

// Renderer records fill operations into a batch and renders the batch in
// parallel on Flush.
//
// Building operations (Clear, FillRect, FillPath, FillText) only append
// jobs and commands; nothing is drawn until Flush. Flush splits the surface
// into horizontal bands, lets the calling goroutine and up to
// WithWorkerCount-1 pool threads claim jobs and then bands, and returns
// once every band is composited.
//
// A Renderer is not safe for concurrent use.
type Renderer struct {
	dst    *Surface
	opts   options
	logger *slog.Logger

	pool     *threadpool.Pool
	ownsPool bool
	threads  []*threadpool.Thread
	workers  []*worker

	arena *arena.Arena
	batch *batch.RenderBatch[job, command]
	sync  *batch.Synchronization
	mask  *batch.BandMask
	slots []geometry

	closed bool
}

// NewRenderer creates a renderer drawing into dst.
func NewRenderer(dst *Surface, opts ...Option) (*Renderer, error) {
	if dst == nil {
		return nil, ErrNilSurface
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}

	r := &Renderer{
		dst:    dst,
		opts:   o,
		logger: o.logger,
		sync:   batch.NewSynchronization(),
		mask:   batch.NewBandMask(0),
	}

	r.pool = o.pool
	if r.pool == nil {
		r.pool = threadpool.New(threadpool.Config{
			MaxThreads: max(o.workers-1, 1),
			Logger:     o.logger,
		})
		r.ownsPool = true
	}

	// A request above the pool ceiling can never be granted.
	if limit := r.pool.MaxThreads() + 1; o.workers > limit {
		o.logger.Warn("tilework: worker count clamped to pool ceiling",
			"requested", o.workers, "workers", limit)
		o.workers = limit
		r.opts.workers = limit
	}

	r.threads = make([]*threadpool.Thread, o.workers-1)
	r.workers = make([]*worker, o.workers)
	for i := range r.workers {
		r.workers[i] = &worker{r: r, id: i}
	}

	r.arena = arena.New(o.blockSize, o.arenaLimit)
	r.batch = batch.New[job, command](r.arena)
	return r, nil
}

// Surface returns the destination surface.
func (r *Renderer) Surface() *Surface {
	return r.dst
}

// Pending returns the number of jobs and commands waiting for Flush.
func (r *Renderer) Pending() (jobs, commands int) {
	return r.batch.PendingJobs(), r.batch.PendingCommands()
}

// BandCount returns the number of bands the surface is split into.
func (r *Renderer) BandCount() int {
	return (r.dst.height + r.opts.bandHeight - 1) / r.opts.bandHeight
}

// Clear replaces every pixel with c.
func (r *Renderer) Clear(c RGBA) error {
	return r.addCommand(command{kind: cmdClear, color: c.pixel()})
}

// FillRect fills the pixel rectangle (x, y, w, h) with c. The rectangle
// is clipped to the surface.
func (r *Renderer) FillRect(x, y, w, h int, c RGBA) error {
	rect := image.Rect(x, y, x+w, y+h).Intersect(r.dst.Bounds())
	if w <= 0 || h <= 0 || rect.Empty() {
		return r.checkOpen()
	}
	return r.addCommand(command{kind: cmdFillRect, color: c.pixel(), rect: rect})
}

// FillPath fills p with c using the nonzero rule. The elements are copied.
func (r *Renderer) FillPath(p *Path, c RGBA) error {
	if p == nil || len(p.elements) == 0 {
		return r.checkOpen()
	}
	return r.addGeometry(job{
		kind:     jobFlattenPath,
		elements: slices.Clone(p.elements),
	}, c)
}

// FillText fills s with its baseline starting at (x, y), size pixels per
// em. Runes the font lacks are drawn as .notdef and reported through
// FlagGlyphNotFound.
func (r *Renderer) FillText(s string, x, y, size float64, c RGBA) error {
	if s == "" || size <= 0 {
		return r.checkOpen()
	}
	f := r.opts.font
	if f == nil {
		f = DefaultFont()
	}
	return r.addGeometry(job{
		kind: jobGlyphRun,
		run:  &glyphRun{font: f, text: s, x: x, y: y, size: size},
	}, c)
}

func (r *Renderer) checkOpen() error {
	if r.closed {
		return ErrRendererClosed
	}
	return nil
}

func (r *Renderer) addCommand(c command) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	if err := r.batch.AddCommand(c); err != nil {
		return r.abandon(err)
	}
	return nil
}

// addGeometry appends a job and the command consuming its state slot.
func (r *Renderer) addGeometry(j job, c RGBA) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	slot, err := r.batch.AddStateSlot()
	if err != nil {
		return r.abandon(err)
	}
	j.slot = slot
	if err := r.batch.AddJob(j); err != nil {
		return r.abandon(err)
	}
	if err := r.batch.AddCommand(command{kind: cmdFillGeometry, color: c.pixel(), slot: slot}); err != nil {
		return r.abandon(err)
	}
	return nil
}

// abandon drops the pending batch after a building failure.
func (r *Renderer) abandon(err error) error {
	jobs, cmds := r.Pending()
	r.batch.Release()
	r.logger.Warn("tilework: batch abandoned", "jobs", jobs, "commands", cmds, "err", err)
	if errors.Is(err, arena.ErrOutOfMemory) {
		return fmt.Errorf("%w: %w", ErrAllocationFailure, err)
	}
	return err
}

// Flush renders the pending batch and waits for it to complete.
//
// Per-unit failures do not stop the batch; they are reported in
// Result.Flags (see Result.Err). Flush itself fails only before any
// parallel work starts, and the batch is abandoned in that case. The
// worker count is clamped to the pool ceiling in NewRenderer, so a flush
// never asks for more threads than the pool can grant.
func (r *Renderer) Flush() (Result, error) {
	if err := r.checkOpen(); err != nil {
		return Result{}, err
	}

	b := r.batch
	jobs, cmds := b.PendingJobs(), b.PendingCommands()
	if cmds == 0 {
		b.Release()
		return Result{}, nil
	}
	bands := r.BandCount()

	want := min(len(r.workers), max(jobs, bands))
	n, err := r.acquire(want - 1)
	if err != nil {
		b.Release()
		return Result{}, fmt.Errorf("tilework: flush: %w", err)
	}
	workers := n + 1

	r.slots = resizeSlots(r.slots, int(b.StateSlotCount()))
	r.mask.Resize(bands)
	if err := b.Publish(uint32(workers), uint32(bands), r.sync); err != nil {
		r.pool.ReleaseThreads(r.threads[:n])
		b.Release()
		return Result{}, fmt.Errorf("tilework: flush: %w", err)
	}

	for i, t := range r.threads[:n] {
		w := r.workers[i+1]
		if err := t.Run(runWorker, w); err != nil {
			// The barrier counts this worker; run it anyway.
			r.logger.Warn("tilework: thread dispatch failed", "thread", t.ID(), "err", err)
			go w.run()
		}
	}

	r.sync.Start()
	r.workers[0].run()
	r.sync.WaitForPhase(batch.PhaseDone)

	res := Result{
		Flags:      ErrorFlags(b.ErrorFlags()),
		Workers:    workers,
		Jobs:       int(b.JobCount()),
		Commands:   int(b.CommandCount()),
		Bands:      int(b.BandCount()),
		DirtyBands: r.mask.Bands(),
	}

	r.pool.ReleaseThreads(r.threads[:n])
	b.Release()
	r.sync.Reset()
	for i := range r.slots {
		r.slots[i].contours = r.slots[i].contours[:0]
	}

	gs := glyphs.Stats()
	r.logger.Debug("tilework: flush",
		"workers", res.Workers,
		"jobs", res.Jobs,
		"commands", res.Commands,
		"bands", res.Bands,
		"dirty", len(res.DirtyBands),
		"flags", res.Flags,
		"glyph_cache_len", gs.Len,
		"glyph_cache_hits", gs.Hits,
		"glyph_cache_misses", gs.Misses)
	return res, nil
}

// acquire takes up to n pool threads into r.threads. Only a request the
// pool can never satisfy is an error; anything else degrades to fewer
// threads since the caller always works.
func (r *Renderer) acquire(n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}

	var flags threadpool.AcquireFlags
	if r.opts.allOrNothing {
		flags |= threadpool.AcquireAllOrNothing
	}

	got, err := r.pool.AcquireThreads(r.threads, n, flags)
	switch {
	case errors.Is(err, threadpool.ErrThreadPoolExhausted):
		return 0, err
	case err != nil:
		r.logger.Warn("tilework: running without pool threads", "requested", n, "err", err)
		return 0, nil
	case got < n:
		r.logger.Warn("tilework: running with fewer threads", "requested", n, "acquired", got)
	}
	return got, nil
}

func resizeSlots(s []geometry, n int) []geometry {
	if cap(s) < n {
		s = slices.Grow(s[:cap(s)], n-cap(s))
	}
	return s[:n]
}

// Close releases the renderer's pool if it owns one and drops any pending
// work. Close is safe to call multiple times.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.batch.Release()
	if r.ownsPool {
		r.pool.Close()
	}
}
