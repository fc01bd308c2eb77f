package threadpool

import "errors"

var (
	// ErrThreadPoolExhausted is returned when a single request asks for more
	// threads than the pool may ever hand out.
	ErrThreadPoolExhausted = errors.New("threadpool: thread pool exhausted")

	// ErrThreadsUnavailable is returned by an all-or-nothing request that
	// could not be satisfied right now.
	ErrThreadsUnavailable = errors.New("threadpool: threads unavailable")

	// ErrPoolClosed is returned when acquiring from a closed pool.
	ErrPoolClosed = errors.New("threadpool: pool closed")

	// ErrShortBuffer is returned when the handle slice is smaller than the
	// requested count.
	ErrShortBuffer = errors.New("threadpool: handle buffer too small")

	// ErrThreadNotAcquired is returned by Run on a thread the caller does
	// not hold.
	ErrThreadNotAcquired = errors.New("threadpool: thread not acquired")

	// ErrThreadBusy is returned by Run when a task is already queued.
	ErrThreadBusy = errors.New("threadpool: thread busy")
)
