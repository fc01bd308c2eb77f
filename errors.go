package tilework

import "errors"

var (
	// ErrInvalidSize is returned for non-positive surface dimensions.
	ErrInvalidSize = errors.New("tilework: invalid surface size")

	// ErrUnsupportedFormat is returned when a surface format has no pixel IO.
	ErrUnsupportedFormat = errors.New("tilework: unsupported pixel format")

	// ErrShortData is returned when a pixel buffer is too small for the
	// requested geometry.
	ErrShortData = errors.New("tilework: pixel buffer too small")

	// ErrNilSurface is returned by NewRenderer without a destination.
	ErrNilSurface = errors.New("tilework: nil surface")

	// ErrAllocationFailure is returned when the batch arena cannot grow.
	// The pending batch is abandoned.
	ErrAllocationFailure = errors.New("tilework: allocation failure")

	// ErrPartialRender is returned by Result.Err when some jobs or commands
	// failed while the rest of the batch completed.
	ErrPartialRender = errors.New("tilework: partial render")

	// ErrRendererClosed is returned by operations on a closed renderer.
	ErrRendererClosed = errors.New("tilework: renderer closed")

	// ErrInvalidFont is returned when font data cannot be parsed.
	ErrInvalidFont = errors.New("tilework: invalid font")
)
