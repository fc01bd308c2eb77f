// Package threadpool provides a bounded pool of reusable OS-thread workers.
//
// Threads are acquired in bulk, handed one task each through Thread.Run and
// released back to the pool when the caller's own synchronization says they
// are done. Released threads stay alive in an idle set until Cleanup or
// Close tears them down.
//
// The pool has a hard ceiling on the number of concurrently acquired
// threads. A request larger than the ceiling always fails with
// ErrThreadPoolExhausted, independent of how many threads are idle.
//
// Thread safety: Pool is safe for concurrent use.
package threadpool

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// AcquireFlags modify AcquireThreads.
type AcquireFlags uint32

const (
	// AcquireAllOrNothing grants either every requested thread or none.
	AcquireAllOrNothing AcquireFlags = 1 << iota
)

// Config configures a Pool.
type Config struct {
	// MaxThreads is the ceiling on concurrently acquired threads.
	// If 0 or negative, GOMAXPROCS is used.
	MaxThreads int

	// Logger receives lifecycle diagnostics. Nil disables logging.
	Logger *slog.Logger
}

// Stats is a snapshot of the pool state.
type Stats struct {
	Max      int
	Idle     int
	Acquired int
}

// Pool owns a set of worker threads partitioned into idle and acquired.
type Pool struct {
	max    int
	logger *slog.Logger

	// slots counts acquired threads against max.
	slots *semaphore.Weighted

	mu       sync.Mutex
	idle     []*Thread
	acquired int
	nextID   int

	// running indicates whether the pool is accepting requests.
	running atomic.Bool
}

// New creates a pool. No thread is started until the first acquisition.
func New(cfg Config) *Pool {
	maxThreads := cfg.MaxThreads
	if maxThreads <= 0 {
		maxThreads = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		max:    maxThreads,
		logger: orNop(cfg.Logger),
		slots:  semaphore.NewWeighted(int64(maxThreads)),
	}
	p.running.Store(true)
	return p
}

// MaxThreads returns the acquisition ceiling.
func (p *Pool) MaxThreads() int {
	return p.max
}

// AcquireThreads acquires up to n threads into dst[:n] and returns how many
// were acquired.
//
// Requests above MaxThreads fail with ErrThreadPoolExhausted whatever the
// flags. With AcquireAllOrNothing the result is n or 0 (and
// ErrThreadsUnavailable); otherwise as many threads as are free right now
// are returned, possibly 0, without error. Idle threads are reused before
// new ones are spawned.
func (p *Pool) AcquireThreads(dst []*Thread, n int, flags AcquireFlags) (int, error) {
	if n > p.max {
		return 0, ErrThreadPoolExhausted
	}
	if !p.running.Load() {
		return 0, ErrPoolClosed
	}
	if n <= 0 {
		return 0, nil
	}
	if len(dst) < n {
		return 0, ErrShortBuffer
	}

	granted := 0
	if flags&AcquireAllOrNothing != 0 {
		if !p.slots.TryAcquire(int64(n)) {
			return 0, ErrThreadsUnavailable
		}
		granted = n
	} else {
		for granted < n && p.slots.TryAcquire(1) {
			granted++
		}
		if granted == 0 {
			return 0, nil
		}
	}

	p.mu.Lock()
	if !p.running.Load() {
		p.mu.Unlock()
		p.slots.Release(int64(granted))
		return 0, ErrPoolClosed
	}

	spawned := 0
	for i := range granted {
		var t *Thread
		if k := len(p.idle); k > 0 {
			t = p.idle[k-1]
			p.idle[k-1] = nil
			p.idle = p.idle[:k-1]
		} else {
			t = newThread(p, p.nextID)
			p.nextID++
			spawned++
		}
		t.acquired.Store(true)
		dst[i] = t
	}
	p.acquired += granted
	p.mu.Unlock()

	if spawned > 0 {
		p.logger.Debug("threadpool: spawned threads", "spawned", spawned, "granted", granted)
	}
	return granted, nil
}

// ReleaseThreads returns threads to the idle set. Threads that are not
// acquired from this pool are ignored. After Close, released threads are
// stopped instead.
func (p *Pool) ReleaseThreads(threads []*Thread) {
	var stopped []*Thread
	released := 0

	p.mu.Lock()
	for _, t := range threads {
		if t == nil || t.pool != p || !t.acquired.CompareAndSwap(true, false) {
			continue
		}
		released++
		if p.running.Load() {
			p.idle = append(p.idle, t)
		} else {
			stopped = append(stopped, t)
		}
	}
	p.acquired -= released
	p.mu.Unlock()

	if released > 0 {
		p.slots.Release(int64(released))
	}
	for _, t := range stopped {
		t.stop()
	}
}

// Cleanup stops every idle thread and returns how many were stopped.
// Acquired threads are not affected.
func (p *Pool) Cleanup() int {
	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()

	for _, t := range idle {
		t.stop()
	}
	if len(idle) > 0 {
		p.logger.Debug("threadpool: cleaned up idle threads", "count", len(idle))
	}
	return len(idle)
}

// Close stops accepting requests and stops all idle threads. Threads still
// acquired are stopped when they are released.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	p.Cleanup()
}

// IsRunning returns true if the pool still accepts requests.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}

// Stats returns a snapshot of the pool.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Max:      p.max,
		Idle:     len(p.idle),
		Acquired: p.acquired,
	}
}
