package tilework

import (
	"log/slog"
	"runtime"

	"github.com/gogpu/tilework/threadpool"
)

// DefaultBandHeight is the height of a band in rows.
const DefaultBandHeight = 32

// Option configures a Renderer.
//
// Example:
//
//	pool := threadpool.New(threadpool.Config{MaxThreads: 8})
//	defer pool.Close()
//
//	r, err := tilework.NewRenderer(surface,
//	    tilework.WithThreadPool(pool),
//	    tilework.WithWorkerCount(9),
//	)
type Option func(*options)

type options struct {
	pool         *threadpool.Pool
	workers      int
	bandHeight   int
	blockSize    int
	arenaLimit   int
	allOrNothing bool
	tolerance    float64
	font         *Font
	logger       *slog.Logger
}

func defaultOptions() options {
	return options{
		workers:    runtime.GOMAXPROCS(0),
		bandHeight: DefaultBandHeight,
	}
}

// WithThreadPool shares pool between renderers. The renderer does not close
// a pool it did not create. Without this option each renderer owns a pool
// sized to its worker count.
func WithThreadPool(pool *threadpool.Pool) Option {
	return func(o *options) {
		o.pool = pool
	}
}

// WithWorkerCount sets the maximum number of workers per flush, including
// the calling goroutine. Values below 1 are treated as 1 (no pool threads).
func WithWorkerCount(n int) Option {
	return func(o *options) {
		o.workers = max(n, 1)
	}
}

// WithBandHeight sets the height of a band in rows.
func WithBandHeight(h int) Option {
	return func(o *options) {
		if h > 0 {
			o.bandHeight = h
		}
	}
}

// WithArenaBlockSize sets the batch arena block size in bytes.
func WithArenaBlockSize(n int) Option {
	return func(o *options) {
		o.blockSize = n
	}
}

// WithArenaLimit caps the number of arena blocks a batch may use; building
// past it fails with ErrAllocationFailure. 0 means unlimited.
func WithArenaLimit(blocks int) Option {
	return func(o *options) {
		o.arenaLimit = blocks
	}
}

// WithAllOrNothing makes Flush acquire either every requested thread or
// none. The default takes whatever is free.
func WithAllOrNothing() Option {
	return func(o *options) {
		o.allOrNothing = true
	}
}

// WithTolerance sets the curve flattening tolerance in pixels.
func WithTolerance(t float64) Option {
	return func(o *options) {
		o.tolerance = t
	}
}

// WithFont sets the font used by FillText. The default is Go Regular.
func WithFont(f *Font) Option {
	return func(o *options) {
		o.font = f
	}
}

// WithLogger sets the renderer logger. The default is Logger().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
