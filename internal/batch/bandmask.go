package batch

import (
	"math/bits"
	"sync/atomic"
)

// BandMask records which bands received pixel writes during a batch.
//
// One bit per band, packed into uint64 words. Mark is lock-free so workers
// can record their band without coordination; readers look at the mask
// after PhaseDone.
type BandMask struct {
	words []atomic.Uint64
	n     int
}

// NewBandMask creates a mask for n bands with every band clear.
func NewBandMask(n int) *BandMask {
	n = max(n, 0)
	return &BandMask{
		words: make([]atomic.Uint64, (n+63)/64),
		n:     n,
	}
}

// Len returns the number of bands tracked.
func (m *BandMask) Len() int {
	return m.n
}

// Resize clears the mask and tracks n bands.
func (m *BandMask) Resize(n int) {
	n = max(n, 0)
	if need := (n + 63) / 64; need > len(m.words) {
		m.words = make([]atomic.Uint64, need)
	} else {
		m.words = m.words[:need]
		m.Clear()
	}
	m.n = n
}

// Mark sets band i. Out-of-range indices are ignored.
func (m *BandMask) Mark(i int) {
	if i < 0 || i >= m.n {
		return
	}
	m.words[i>>6].Or(1 << (i & 63))
}

// IsSet reports whether band i is marked.
func (m *BandMask) IsSet(i int) bool {
	if i < 0 || i >= m.n {
		return false
	}
	return m.words[i>>6].Load()&(1<<(i&63)) != 0
}

// Count returns the number of marked bands.
func (m *BandMask) Count() int {
	count := 0
	for i := range m.words {
		count += bits.OnesCount64(m.words[i].Load())
	}
	return count
}

// Bands returns the marked band indices in ascending order.
func (m *BandMask) Bands() []int {
	var out []int
	for wi := range m.words {
		word := m.words[wi].Load()
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			out = append(out, wi*64+bit)
			word &^= 1 << bit
		}
	}
	return out
}

// Clear unmarks every band.
func (m *BandMask) Clear() {
	for i := range m.words {
		m.words[i].Store(0)
	}
}
