package tilework

import (
	"image"

	"github.com/gogpu/tilework/internal/batch"
	"github.com/gogpu/tilework/threadpool"
)

// worker runs the two-phase claim loop of a flush. Worker 0 is the
// goroutine that called Flush; the others run on pool threads.
type worker struct {
	r       *Renderer
	id      int
	scratch *scratch

	// claims made during the last flush
	jobs  int
	bands int
}

// runWorker is the threadpool entry point.
func runWorker(_ *threadpool.Thread, data any) {
	data.(*worker).run()
}

func (w *worker) run() {
	r := w.r
	b := r.batch
	s := b.Synchronization()

	w.jobs, w.bands = 0, 0

	s.WaitForPhase(batch.PhaseJobs)

	// Flags are merged locally and published once.
	var flags ErrorFlags
	w.scratch = getScratch()
	for {
		i := b.NextJobIndex()
		if i >= b.JobCount() {
			break
		}
		flags |= w.runJob(b.Job(i))
		w.jobs++
	}
	putScratch(w.scratch)
	w.scratch = nil
	if err := s.SignalPhaseComplete(batch.PhaseJobs); err != nil {
		r.logger.Warn("tilework: job phase signal rejected", "worker", w.id, "err", err)
	}

	s.WaitForPhase(batch.PhaseBands)
	for {
		i := b.NextBandIndex()
		if i >= b.BandCount() {
			break
		}
		flags |= w.runBand(int(i))
		w.bands++
	}

	if flags != 0 {
		b.AccumulateErrorFlags(uint32(flags))
	}

	// The coordinator may reuse w as soon as the last worker signals.
	id := w.id
	if err := s.SignalPhaseComplete(batch.PhaseBands); err != nil {
		r.logger.Warn("tilework: band phase signal rejected", "worker", id, "err", err)
	}
}

// runBand executes every command over band i in submission order.
func (w *worker) runBand(i int) ErrorFlags {
	r := w.r
	y0 := i * r.opts.bandHeight
	band := image.Rect(0, y0, r.dst.width, min(y0+r.opts.bandHeight, r.dst.height))

	var flags ErrorFlags
	wrote := false
	for _, c := range r.batch.Commands() {
		ok, f := w.execute(c, band)
		wrote = wrote || ok
		flags |= f
	}
	if wrote {
		r.mask.Mark(i)
	}
	return flags
}
