package arena

import (
	"iter"
	"unsafe"
)

// Queue is an append-only list of T stored in arena blocks.
//
// Each block holds a contiguous run of values; when the tail block is full
// a new one is allocated from the arena and linked after it. Values are
// never removed: a queue is dropped as a whole and its blocks go back to
// the arena when the owner rewinds it.
type Queue[T any] struct {
	arena    *Arena
	blocks   [][]T
	perBlock int
	n        int
}

// NewQueue creates an empty queue allocating from a.
func NewQueue[T any](a *Arena) *Queue[T] {
	var zero T
	size := int(unsafe.Sizeof(zero))

	perBlock := 1
	if size > 0 && a.blockSize/size > 1 {
		perBlock = a.blockSize / size
	}

	return &Queue[T]{
		arena:    a,
		perBlock: perBlock,
	}
}

// Append adds v at the end of the queue.
// It returns ErrOutOfMemory if a new block was needed and the arena is full;
// the queue is unchanged in that case.
func (q *Queue[T]) Append(v T) error {
	slot := q.n % q.perBlock
	if slot == 0 {
		b, err := q.arena.AllocateBlock()
		if err != nil {
			return err
		}
		q.blocks = append(q.blocks, q.storage(b))
	}

	q.blocks[len(q.blocks)-1][slot] = v
	q.n++
	return nil
}

// storage returns the typed storage of b, reusing what a previous queue of
// the same element type left behind.
func (q *Queue[T]) storage(b *Block) []T {
	if s, ok := b.payload.([]T); ok && len(s) == q.perBlock {
		clear(s)
		return s
	}
	s := make([]T, q.perBlock)
	b.payload = s
	return s
}

// Len returns the number of values in the queue.
func (q *Queue[T]) Len() int {
	return q.n
}

// Blocks returns the number of blocks the queue spans.
func (q *Queue[T]) Blocks() int {
	return len(q.blocks)
}

// PerBlock returns the capacity of a single block.
func (q *Queue[T]) PerBlock() int {
	return q.perBlock
}

// At returns the value at index i.
func (q *Queue[T]) At(i int) (T, bool) {
	if i < 0 || i >= q.n {
		var zero T
		return zero, false
	}
	return q.blocks[i/q.perBlock][i%q.perBlock], true
}

// All returns an iterator over the queue in insertion order.
// The sequence may be restarted and ranged over by several goroutines at
// once as long as nobody appends concurrently.
func (q *Queue[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		i := 0
		for _, block := range q.blocks {
			for _, v := range block {
				if i == q.n {
					return
				}
				if !yield(i, v) {
					return
				}
				i++
			}
		}
	}
}

// Reset forgets all values. The blocks stay owned by the arena; the caller
// rewinds the arena to release them.
func (q *Queue[T]) Reset() {
	clear(q.blocks)
	q.blocks = q.blocks[:0]
	q.n = 0
}
