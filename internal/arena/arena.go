// Package arena provides a block arena and block-chained queues for batch
// building.
//
// An Arena hands out fixed-size blocks and takes them back in bulk. Blocks
// are never freed piecewise: a batch remembers the arena's last block before
// it starts allocating (its "past block") and rewinds to it once the batch is
// done, which moves every newer block to a free list for the next batch.
//
// Thread safety: Arena and Queue are NOT safe for concurrent mutation. A
// Queue may be read from many goroutines once appending has stopped.
package arena

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is the block size granularity in bytes.
const CacheLineSize = int(unsafe.Sizeof(cpu.CacheLinePad{}))

// DefaultBlockSize is the block size used when New receives a non-positive size.
const DefaultBlockSize = 16 << 10

// ErrOutOfMemory is returned when the arena reached its block limit.
var ErrOutOfMemory = errors.New("arena: out of memory")

// Block is a single arena block.
//
// The arena only tracks ownership; the typed storage living in a block is
// attached by the Queue that allocated it and kept for reuse.
type Block struct {
	prev    *Block
	index   int
	payload any
}

// Index returns the position of the block in the live chain (0-based).
func (b *Block) Index() int {
	return b.index
}

// Arena is a bump allocator of fixed-size blocks.
type Arena struct {
	blockSize int
	maxBlocks int

	// last is the newest live block; blocks are chained through prev.
	last  *Block
	count int

	free []*Block
}

// New creates an arena handing out blocks of blockSize bytes, rounded up to
// a multiple of CacheLineSize. maxBlocks limits the number of live blocks;
// 0 means unlimited.
func New(blockSize, maxBlocks int) *Arena {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	blockSize = (blockSize + CacheLineSize - 1) / CacheLineSize * CacheLineSize

	return &Arena{
		blockSize: blockSize,
		maxBlocks: max(maxBlocks, 0),
	}
}

// BlockSize returns the size of each block in bytes.
func (a *Arena) BlockSize() int {
	return a.blockSize
}

// BlockCount returns the number of live blocks.
func (a *Arena) BlockCount() int {
	return a.count
}

// FreeCount returns the number of released blocks waiting for reuse.
func (a *Arena) FreeCount() int {
	return len(a.free)
}

// AllocateBlock links a new block at the end of the chain.
// Released blocks are reused before new ones are created.
func (a *Arena) AllocateBlock() (*Block, error) {
	if a.maxBlocks > 0 && a.count >= a.maxBlocks {
		return nil, ErrOutOfMemory
	}

	var b *Block
	if n := len(a.free); n > 0 {
		b = a.free[n-1]
		a.free[n-1] = nil
		a.free = a.free[:n-1]
	} else {
		b = &Block{}
	}

	b.prev = a.last
	b.index = a.count
	a.last = b
	a.count++
	return b, nil
}

// PastBlock returns the newest live block, or nil if the arena is empty.
func (a *Arena) PastBlock() *Block {
	return a.last
}

// ResetTo releases every block allocated after past. A nil past releases
// all blocks. past must be a live block of this arena or nil.
func (a *Arena) ResetTo(past *Block) {
	for a.last != nil && a.last != past {
		b := a.last
		a.last = b.prev
		b.prev = nil
		a.count--
		a.free = append(a.free, b)
	}
}

// Reset releases all blocks.
func (a *Arena) Reset() {
	a.ResetTo(nil)
}
