package threadpool

import (
	"runtime"
	"sync/atomic"
)

// Entry is the function a thread executes for one task.
type Entry func(t *Thread, data any)

type task struct {
	entry Entry
	data  any
}

// Thread is a reusable worker bound to its own OS thread.
//
// A thread sleeps until Run hands it a task, executes the task exactly once
// and goes back to sleep. The pool never tracks task completion; callers
// synchronize with their own primitives before releasing the thread.
type Thread struct {
	pool  *Pool
	id    int
	tasks chan task
	done  chan struct{}

	// acquired is true while a caller holds the thread.
	acquired atomic.Bool
}

func newThread(p *Pool, id int) *Thread {
	t := &Thread{
		pool:  p,
		id:    id,
		tasks: make(chan task, 1),
		done:  make(chan struct{}),
	}
	go t.loop()
	return t
}

// loop is the body of the OS thread.
func (t *Thread) loop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(t.done)

	for tk := range t.tasks {
		tk.entry(t, tk.data)
	}
}

// ID returns the pool-unique identifier of the thread.
func (t *Thread) ID() int {
	return t.id
}

// Run schedules entry(t, data) on the thread.
//
// The thread must be acquired. A task handed to a thread that is still
// finishing its previous entry waits for it, so each entry runs exactly
// once and in order. Run returns ErrThreadBusy if a task is already queued.
func (t *Thread) Run(entry Entry, data any) error {
	if !t.acquired.Load() {
		return ErrThreadNotAcquired
	}

	select {
	case t.tasks <- task{entry: entry, data: data}:
		return nil
	default:
		return ErrThreadBusy
	}
}

// stop terminates the thread once its current task, if any, returns.
func (t *Thread) stop() {
	close(t.tasks)
	<-t.done
}
