// Package tilework is a parallel band renderer for 2D fills.
//
// # Overview
//
// A Renderer records fill operations into a batch of jobs (setup work such
// as path flattening and glyph loading) and commands (pixel work such as
// span fills). Flush publishes the batch to the calling goroutine plus a
// set of threads acquired from a threadpool.Pool. Workers claim jobs
// through a shared atomic cursor until none remain, meet at a barrier, and
// then claim horizontal bands of the destination surface the same way.
// Each band is written by exactly one worker, so no pixel needs locking.
//
// # Quick Start
//
//	dst, _ := tilework.NewSurface(512, 512, tilework.FormatPRGB32)
//	r, _ := tilework.NewRenderer(dst)
//	defer r.Close()
//
//	r.Clear(tilework.White)
//	p := tilework.NewPath()
//	p.Circle(256, 256, 100)
//	r.FillPath(p, tilework.Red)
//	r.FillText("hello", 40, 480, 48, tilework.Black)
//
//	res, err := r.Flush()
//	if err == nil {
//	    err = res.Err()
//	}
//	dst.SavePNG("out.png")
//
// # Errors
//
// Building a batch fails only when the batch arena is exhausted
// (ErrAllocationFailure); the pending batch is dropped. A flush fails
// before any work starts when it needs more threads than the pool allows
// (threadpool.ErrThreadPoolExhausted). Everything else is a per-unit
// failure: the unit is skipped, the rest of the batch completes and
// Result.Flags says what went wrong.
//
// # Coordinate System
//
// Origin at the top-left, X right, Y down, angles in radians.
package tilework

// Version is the library version.
const Version = "0.1.0"
