// Package pixel provides the per-pixel contract of the band compositor:
// packed and unpacked 32-bit pixels, the component layout of 8888 formats,
// and fetch/store for each supported surface format.
//
// Arithmetic follows the usual SWAR layout: an unpacked pixel keeps each
// 8-bit component in its own 16-bit lane of a uint64 so that multiplication
// by an 8-bit factor and the division by 255 or 256 never carry across lanes.
package pixel

// Component identifies a color component.
type Component uint32

const (
	ComponentR Component = 0
	ComponentG Component = 1
	ComponentB Component = 2
	ComponentA Component = 3
	// ComponentX is returned for shifts that do not map to a component.
	ComponentX Component = 0xFF
)

// String returns the component name.
func (c Component) String() string {
	switch c {
	case ComponentR:
		return "R"
	case ComponentG:
		return "G"
	case ComponentB:
		return "B"
	case ComponentA:
		return "A"
	default:
		return "X"
	}
}

// Components lists the four defined components.
var Components = [4]Component{ComponentR, ComponentG, ComponentB, ComponentA}

// InvalidShift is returned by ShiftFromComponent for ComponentX.
const InvalidShift = 0xFFFFFFFF

// Format8888 describes where each 8-bit component lives in a packed
// 32-bit pixel.
type Format8888 struct {
	RShift, GShift, BShift, AShift uint32
}

// FormatA8R8G8B8 is the native premultiplied layout: 0xAARRGGBB.
var FormatA8R8G8B8 = Format8888{RShift: 16, GShift: 8, BShift: 0, AShift: 24}

// ComponentFromShift returns the component stored at the given bit shift.
func (f Format8888) ComponentFromShift(shift uint32) Component {
	switch shift {
	case f.RShift:
		return ComponentR
	case f.GShift:
		return ComponentG
	case f.BShift:
		return ComponentB
	case f.AShift:
		return ComponentA
	default:
		return ComponentX
	}
}

// ComponentFromIndex returns the component stored in byte index (0-3).
func (f Format8888) ComponentFromIndex(index uint32) Component {
	return f.ComponentFromShift(index * 8)
}

// ShiftFromComponent returns the bit shift of c, or InvalidShift.
func (f Format8888) ShiftFromComponent(c Component) uint32 {
	switch c {
	case ComponentR:
		return f.RShift
	case ComponentG:
		return f.GShift
	case ComponentB:
		return f.BShift
	case ComponentA:
		return f.AShift
	default:
		return InvalidShift
	}
}
