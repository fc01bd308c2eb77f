package pixel

// P32 is a packed A8R8G8B8 pixel.
type P32 uint32

// FromValue wraps a raw 32-bit value.
func FromValue(v uint32) P32 {
	return P32(v)
}

// Value returns the raw 32-bit value.
func (p P32) Value() uint32 { return uint32(p) }

func (p P32) R() uint32 { return (uint32(p) >> FormatA8R8G8B8.RShift) & 0xFF }
func (p P32) G() uint32 { return (uint32(p) >> FormatA8R8G8B8.GShift) & 0xFF }
func (p P32) B() uint32 { return (uint32(p) >> FormatA8R8G8B8.BShift) & 0xFF }
func (p P32) A() uint32 { return (uint32(p) >> FormatA8R8G8B8.AShift) & 0xFF }

// Unpack spreads the four bytes into 16-bit lanes.
//
// Byte 0 goes to lane 0, byte 2 to lane 1, byte 1 to lane 2 and byte 3 to
// lane 3, so both even and odd bytes move with a single mask.
func (p P32) Unpack() U32 {
	v := uint64(p)
	return U32(v&0x00FF00FF | (v&0xFF00FF00)<<24)
}

// U32 is an unpacked pixel with components in 16-bit lanes [.3.1.2.0].
type U32 uint64

// repeat broadcasts v into all four lanes.
func repeat(v uint64) uint64 {
	v |= v << 16
	return v | v<<32
}

// ValueByShift returns the lane holding the byte at the given packed shift.
func (u U32) ValueByShift(shift uint32) uint32 {
	switch shift {
	case 0:
		return uint32(u & 0xFFFF)
	case 8:
		return uint32((u >> 32) & 0xFFFF)
	case 16:
		return uint32((u >> 16) & 0xFFFF)
	case 24:
		return uint32(u >> 48)
	default:
		return 0
	}
}

// ValueByIndex returns the lane holding packed byte index (0-3).
func (u U32) ValueByIndex(index uint32) uint32 {
	return u.ValueByShift(index * 8)
}

// ValueByComponent returns the lane holding component c.
func (u U32) ValueByComponent(c Component) uint32 {
	return u.ValueByShift(FormatA8R8G8B8.ShiftFromComponent(c))
}

func (u U32) R() uint32 { return u.ValueByComponent(ComponentR) }
func (u U32) G() uint32 { return u.ValueByComponent(ComponentG) }
func (u U32) B() uint32 { return u.ValueByComponent(ComponentB) }
func (u U32) A() uint32 { return u.ValueByComponent(ComponentA) }

// Pack folds the lanes back into a packed pixel. Every lane must be <= 0xFF.
func (u U32) Pack() P32 {
	v := uint64(u)
	return P32((v>>24 | v) & 0xFFFFFFFF)
}

// Add adds lane-wise without saturation.
func (u U32) Add(x U32) U32 {
	return u + x
}

// MulScalar multiplies every lane by s (s <= 0xFF).
func (u U32) MulScalar(s uint32) U32 {
	return U32(uint64(u) * uint64(s))
}

// Mul multiplies u and x component by component.
func (u U32) Mul(x U32) U32 {
	f := FormatA8R8G8B8
	u0 := uint64(u.ValueByIndex(0) * x.ValueByComponent(f.ComponentFromIndex(0)))
	u1 := uint64(u.ValueByIndex(1) * x.ValueByComponent(f.ComponentFromIndex(1)))
	u2 := uint64(u.ValueByIndex(2) * x.ValueByComponent(f.ComponentFromIndex(2)))
	u3 := uint64(u.ValueByIndex(3) * x.ValueByComponent(f.ComponentFromIndex(3)))
	return U32(u0 | u1<<32 | u2<<16 | u3<<48)
}

// Div255 divides every lane by 255 with rounding. Lanes must be <= 255*255.
func (u U32) Div255() U32 {
	v := uint64(u) + repeat(0x80)
	v = (v + ((v >> 8) & repeat(0xFF))) >> 8
	return U32(v & repeat(0xFF))
}

// Div256 divides every lane by 256.
func (u U32) Div256() U32 {
	return U32((uint64(u) >> 8) & repeat(0xFF))
}

// AddUS8 adds lane-wise and saturates each lane at 0xFF. Both inputs must
// have lanes <= 0xFF.
func (u U32) AddUS8(x U32) U32 {
	val := uint64(u) + uint64(x)
	msk := ((val >> 8) & repeat(0x1)) * 0xFF
	return U32((val | msk) & repeat(0xFF))
}

// SrcOver composites premultiplied src over dst.
func SrcOver(dst, src P32) P32 {
	ia := 255 - src.A()
	if ia == 0 {
		return src
	}
	d := dst.Unpack().MulScalar(ia).Div255()
	return src.Unpack().AddUS8(d).Pack()
}

// Scale multiplies every component of p by s/255 with rounding.
func Scale(p P32, s uint32) P32 {
	switch s {
	case 0:
		return 0
	case 255:
		return p
	}
	return p.Unpack().MulScalar(s).Div255().Pack()
}
