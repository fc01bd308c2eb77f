package batch

import (
	"errors"
	"fmt"
	"sync"
)

// ErrPhaseMismatch is returned when a worker reports completion of a phase
// the batch is not in.
var ErrPhaseMismatch = errors.New("batch: phase mismatch")

// Phase is a step of the batch lifecycle.
type Phase uint32

const (
	// PhaseBuilding: queues are being populated by the coordinator.
	PhaseBuilding Phase = iota
	// PhasePublished: counts are fixed and workers have been dispatched but
	// may not claim yet.
	PhasePublished
	// PhaseJobs: workers claim jobs.
	PhaseJobs
	// PhaseBarrier: at least one worker ran out of jobs and waits for the rest.
	PhaseBarrier
	// PhaseBands: all job outputs are final; workers claim bands.
	PhaseBands
	// PhaseDone: every worker finished its band loop.
	PhaseDone
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseBuilding:
		return "Building"
	case PhasePublished:
		return "Published"
	case PhaseJobs:
		return "Jobs"
	case PhaseBarrier:
		return "Barrier"
	case PhaseBands:
		return "Bands"
	case PhaseDone:
		return "Done"
	default:
		return fmt.Sprintf("Phase(%d)", uint32(p))
	}
}

// Synchronization is the blocking barrier between the job and band phases.
//
// Workers sleep in WaitForPhase until the phase they need is reached. Each
// worker reports the end of its job loop and of its band loop exactly once;
// the last report of a phase advances the batch and wakes every sleeper.
//
// A Synchronization outlives the batches it coordinates and may be reused
// once it reached PhaseDone (or was never started).
type Synchronization struct {
	mu      sync.Mutex
	cond    sync.Cond
	phase   Phase
	workers int
	pending int
}

// NewSynchronization returns a synchronization in PhaseBuilding.
func NewSynchronization() *Synchronization {
	s := &Synchronization{}
	s.cond.L = &s.mu
	return s
}

// Begin arms the barrier for workers participants and moves to
// PhasePublished.
func (s *Synchronization) Begin(workers int) {
	s.mu.Lock()
	s.workers = max(workers, 1)
	s.pending = s.workers
	s.phase = PhasePublished
	s.mu.Unlock()
}

// Start releases the workers into the job phase.
func (s *Synchronization) Start() {
	s.mu.Lock()
	if s.phase == PhasePublished {
		s.phase = PhaseJobs
		s.cond.Broadcast()
	}
	s.mu.Unlock()
}

// SignalPhaseComplete reports that the calling worker finished phase p,
// which must be PhaseJobs or PhaseBands.
func (s *Synchronization) SignalPhaseComplete(p Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch p {
	case PhaseJobs:
		if s.phase != PhaseJobs && s.phase != PhaseBarrier {
			return fmt.Errorf("%w: job completion in %v", ErrPhaseMismatch, s.phase)
		}
		s.phase = PhaseBarrier
		s.pending--
		if s.pending == 0 {
			s.pending = s.workers
			s.phase = PhaseBands
			s.cond.Broadcast()
		}
	case PhaseBands:
		if s.phase != PhaseBands {
			return fmt.Errorf("%w: band completion in %v", ErrPhaseMismatch, s.phase)
		}
		s.pending--
		if s.pending == 0 {
			s.phase = PhaseDone
			s.cond.Broadcast()
		}
	default:
		return fmt.Errorf("%w: %v has no completion", ErrPhaseMismatch, p)
	}
	return nil
}

// WaitForPhase blocks until the batch reached phase p or a later one.
func (s *Synchronization) WaitForPhase(p Phase) {
	s.mu.Lock()
	for s.phase < p {
		s.cond.Wait()
	}
	s.mu.Unlock()
}

// Phase returns the current phase.
func (s *Synchronization) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Workers returns the participant count set by Begin.
func (s *Synchronization) Workers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workers
}

// Reset returns to PhaseBuilding.
func (s *Synchronization) Reset() {
	s.mu.Lock()
	s.phase = PhaseBuilding
	s.workers = 0
	s.pending = 0
	s.mu.Unlock()
}
