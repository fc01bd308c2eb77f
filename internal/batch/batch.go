// Package batch implements the unit of distributable work for a parallel
// tile rasterizer.
//
// A RenderBatch holds two arena queues: jobs (setup work such as path
// flattening) and commands (pixel-producing work). The coordinator fills
// both while the batch is in the Building state and then publishes it.
// Workers claim jobs through NextJobIndex until the index runs past the job
// count, wait on the Synchronization barrier, and claim horizontal bands
// through NextBandIndex the same way. Per-unit failures are merged into a
// shared error-flags word with a single atomic OR.
//
// The hot shared state (the two cursors and the flags word) is padded to
// separate cache lines.
package batch

import (
	"errors"
	"iter"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/gogpu/tilework/internal/arena"
)

// ErrPublished is returned when building operations are used after Publish.
var ErrPublished = errors.New("batch: already published")

// RenderBatch is a set of jobs and commands plus the cursors workers use to
// claim them. J is the job type and C the command type.
type RenderBatch[J, C any] struct {
	_          cpu.CacheLinePad
	jobIndex   atomic.Uint32
	_          cpu.CacheLinePad
	bandIndex  atomic.Uint32
	_          cpu.CacheLinePad
	errorFlags atomic.Uint32
	_          cpu.CacheLinePad

	published atomic.Bool

	arena     *arena.Arena
	pastBlock *arena.Block
	jobs      *arena.Queue[J]
	commands  *arena.Queue[C]

	workerCount    uint32
	jobCount       uint32
	commandCount   uint32
	bandCount      uint32
	stateSlotCount uint32

	sync *Synchronization
}

// New creates an empty batch allocating its queues from a. The arena's
// current last block is remembered so Release can rewind to it.
func New[J, C any](a *arena.Arena) *RenderBatch[J, C] {
	return &RenderBatch[J, C]{
		arena:     a,
		pastBlock: a.PastBlock(),
		jobs:      arena.NewQueue[J](a),
		commands:  arena.NewQueue[C](a),
	}
}

// AddJob appends a job. It returns arena.ErrOutOfMemory when the arena is
// full and ErrPublished after Publish.
func (b *RenderBatch[J, C]) AddJob(j J) error {
	if b.published.Load() {
		return ErrPublished
	}
	return b.jobs.Append(j)
}

// AddCommand appends a command.
func (b *RenderBatch[J, C]) AddCommand(c C) error {
	if b.published.Load() {
		return ErrPublished
	}
	return b.commands.Append(c)
}

// AddStateSlot reserves a per-command state slot and returns its index.
// Jobs write their output into a slot; commands read it after the barrier.
func (b *RenderBatch[J, C]) AddStateSlot() (uint32, error) {
	if b.published.Load() {
		return 0, ErrPublished
	}
	i := b.stateSlotCount
	b.stateSlotCount++
	return i, nil
}

// Publish fixes the counts, resets the cursors and the flags word and arms
// s for workers participants. Queue contents written before Publish are
// visible to every worker that observes the batch through s.
func (b *RenderBatch[J, C]) Publish(workers, bands uint32, s *Synchronization) error {
	if b.published.Load() {
		return ErrPublished
	}

	b.workerCount = max(workers, 1)
	b.jobCount = uint32(b.jobs.Len())
	b.commandCount = uint32(b.commands.Len())
	b.bandCount = bands
	b.jobIndex.Store(0)
	b.bandIndex.Store(0)
	b.errorFlags.Store(0)
	b.sync = s

	b.published.Store(true)
	s.Begin(int(b.workerCount))
	return nil
}

// IsPublished reports whether Publish was called since the last Release.
func (b *RenderBatch[J, C]) IsPublished() bool {
	return b.published.Load()
}

// NextJobIndex claims the next job and returns its index. The caller must
// stop once the result is >= JobCount.
func (b *RenderBatch[J, C]) NextJobIndex() uint32 {
	return b.jobIndex.Add(1) - 1
}

// NextBandIndex claims the next band and returns its index. The caller must
// stop once the result is >= BandCount.
func (b *RenderBatch[J, C]) NextBandIndex() uint32 {
	return b.bandIndex.Add(1) - 1
}

// AccumulateErrorFlags merges flags into the shared error word.
//
// Go has no relaxed atomics; Or is a single locked instruction on the
// common targets. Workers merge their local flags once per phase.
func (b *RenderBatch[J, C]) AccumulateErrorFlags(flags uint32) {
	b.errorFlags.Or(flags)
}

// ErrorFlags returns the accumulated flags. It is meaningful once the
// workers passed PhaseDone.
func (b *RenderBatch[J, C]) ErrorFlags() uint32 {
	return b.errorFlags.Load()
}

// Job returns the job at index i.
func (b *RenderBatch[J, C]) Job(i uint32) J {
	j, _ := b.jobs.At(int(i))
	return j
}

// Command returns the command at index i.
func (b *RenderBatch[J, C]) Command(i uint32) C {
	c, _ := b.commands.At(int(i))
	return c
}

// Commands iterates over the commands in insertion order.
func (b *RenderBatch[J, C]) Commands() iter.Seq2[int, C] {
	return b.commands.All()
}

// Jobs iterates over the jobs in insertion order.
func (b *RenderBatch[J, C]) Jobs() iter.Seq2[int, J] {
	return b.jobs.All()
}

func (b *RenderBatch[J, C]) WorkerCount() uint32    { return b.workerCount }
func (b *RenderBatch[J, C]) JobCount() uint32       { return b.jobCount }
func (b *RenderBatch[J, C]) CommandCount() uint32   { return b.commandCount }
func (b *RenderBatch[J, C]) BandCount() uint32      { return b.bandCount }
func (b *RenderBatch[J, C]) StateSlotCount() uint32 { return b.stateSlotCount }

// PendingJobs returns the number of jobs appended so far.
func (b *RenderBatch[J, C]) PendingJobs() int { return b.jobs.Len() }

// PendingCommands returns the number of commands appended so far.
func (b *RenderBatch[J, C]) PendingCommands() int { return b.commands.Len() }

// Synchronization returns the barrier the batch was published with.
func (b *RenderBatch[J, C]) Synchronization() *Synchronization {
	return b.sync
}

// PastBlock returns the arena block the batch rewinds to on Release.
func (b *RenderBatch[J, C]) PastBlock() *arena.Block {
	return b.pastBlock
}

// Release drops every job and command, rewinds the arena to the past block
// and returns the batch to the Building state. It must not be called while
// workers still hold the batch.
func (b *RenderBatch[J, C]) Release() {
	b.jobs.Reset()
	b.commands.Reset()
	b.arena.ResetTo(b.pastBlock)

	b.workerCount = 0
	b.jobCount = 0
	b.commandCount = 0
	b.bandCount = 0
	b.stateSlotCount = 0
	b.jobIndex.Store(0)
	b.bandIndex.Store(0)
	b.errorFlags.Store(0)
	b.sync = nil
	b.published.Store(false)
}
