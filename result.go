package tilework

import "fmt"

// Result describes a completed flush.
type Result struct {
	// Flags are the per-unit failures merged by all workers.
	Flags ErrorFlags
	// Workers is the number of workers that ran, the caller included.
	Workers int
	// Jobs, Commands and Bands are the batch counts.
	Jobs     int
	Commands int
	Bands    int
	// DirtyBands lists the bands that received pixel writes.
	DirtyBands []int
}

// Err returns nil when every unit succeeded, otherwise an error wrapping
// ErrPartialRender.
func (r Result) Err() error {
	if r.Flags == 0 {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrPartialRender, r.Flags)
}
