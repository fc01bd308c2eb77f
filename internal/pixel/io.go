package pixel

import "encoding/binary"

// Format identifies a surface pixel format.
type Format uint8

const (
	// FormatNone is the zero value; it has no IO.
	FormatNone Format = iota
	// FormatPRGB32 is 32-bit premultiplied ARGB.
	FormatPRGB32
	// FormatXRGB32 is 32-bit RGB with the alpha byte ignored (read as 0xFF).
	FormatXRGB32
	// FormatA8 is 8-bit alpha only.
	FormatA8
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatPRGB32:
		return "PRGB32"
	case FormatXRGB32:
		return "XRGB32"
	case FormatA8:
		return "A8"
	default:
		return "None"
	}
}

// Metadata describes the capabilities of a format.
type Metadata struct {
	HasAlpha      bool
	HasRGB        bool
	Premultiplied bool
	BytesPerPixel int
}

// IO reads and writes pixels of one surface format.
// Fetch and Store receive a slice starting at the pixel.
type IO interface {
	Make(r, g, b, a uint32) P32
	Fetch(src []byte) P32
	Store(dst []byte, p P32)
	BytesPerPixel() int
	Metadata() Metadata
}

// IOFor returns the IO for f, or nil if f is unsupported.
func IOFor(f Format) IO {
	switch f {
	case FormatPRGB32:
		return prgb32{}
	case FormatXRGB32:
		return xrgb32{}
	case FormatA8:
		return a8{}
	default:
		return nil
	}
}

type prgb32 struct{}

func (prgb32) Make(r, g, b, a uint32) P32 {
	return P32(a<<24 | r<<16 | g<<8 | b)
}

func (prgb32) Fetch(src []byte) P32 {
	return P32(binary.LittleEndian.Uint32(src))
}

func (prgb32) Store(dst []byte, p P32) {
	binary.LittleEndian.PutUint32(dst, uint32(p))
}

func (prgb32) BytesPerPixel() int { return 4 }

func (prgb32) Metadata() Metadata {
	return Metadata{HasAlpha: true, HasRGB: true, Premultiplied: true, BytesPerPixel: 4}
}

type xrgb32 struct{}

func (xrgb32) Make(r, g, b, _ uint32) P32 {
	return P32(0xFF<<24 | r<<16 | g<<8 | b)
}

func (xrgb32) Fetch(src []byte) P32 {
	return P32(binary.LittleEndian.Uint32(src) | 0xFF000000)
}

func (xrgb32) Store(dst []byte, p P32) {
	binary.LittleEndian.PutUint32(dst, uint32(p))
}

func (xrgb32) BytesPerPixel() int { return 4 }

func (xrgb32) Metadata() Metadata {
	return Metadata{HasRGB: true, BytesPerPixel: 4}
}

type a8 struct{}

func (a8) Make(_, _, _, a uint32) P32 {
	return P32(a * 0x01010101)
}

func (a8) Fetch(src []byte) P32 {
	return P32(uint32(src[0]) * 0x01010101)
}

func (a8) Store(dst []byte, p P32) {
	dst[0] = uint8(p.A())
}

func (a8) BytesPerPixel() int { return 1 }

func (a8) Metadata() Metadata {
	return Metadata{HasAlpha: true, BytesPerPixel: 1}
}
