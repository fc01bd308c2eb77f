package tilework

import (
	"fmt"
	"strings"
)

// ErrorFlags collects per-unit failures of a batch. Workers record a flag
// and keep going; the flags are read once the batch is done.
type ErrorFlags uint32

const (
	// FlagInvalidGeometry: a path had non-finite coordinates.
	FlagInvalidGeometry ErrorFlags = 1 << iota
	// FlagUnsupportedFormat: a command could not read or write the surface format.
	FlagUnsupportedFormat
	// FlagGlyphNotFound: the font has no glyph for a rune; .notdef was drawn.
	FlagGlyphNotFound
	// FlagGlyphLoad: a glyph outline could not be loaded.
	FlagGlyphLoad
)

var flagNames = [...]string{
	"InvalidGeometry",
	"UnsupportedFormat",
	"GlyphNotFound",
	"GlyphLoad",
}

// Has reports whether all bits of f are set.
func (e ErrorFlags) Has(f ErrorFlags) bool {
	return e&f == f
}

// String returns the set flag names joined by "|".
func (e ErrorFlags) String() string {
	if e == 0 {
		return "None"
	}

	var names []string
	rest := e
	for i, name := range flagNames {
		bit := ErrorFlags(1) << i
		if e&bit != 0 {
			names = append(names, name)
			rest &^= bit
		}
	}
	if rest != 0 {
		names = append(names, fmt.Sprintf("%#x", uint32(rest)))
	}
	return strings.Join(names, "|")
}
