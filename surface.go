package tilework

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/gogpu/tilework/internal/pixel"
)

// Format is a surface pixel format.
type Format = pixel.Format

// Supported surface formats.
const (
	// FormatPRGB32 stores premultiplied ARGB as little-endian 32-bit words
	// (bytes B, G, R, A in memory).
	FormatPRGB32 = pixel.FormatPRGB32
	// FormatXRGB32 is FormatPRGB32 with the alpha byte ignored.
	FormatXRGB32 = pixel.FormatXRGB32
	// FormatA8 stores one coverage byte per pixel.
	FormatA8 = pixel.FormatA8
)

// Surface is a rectangular pixel buffer a Renderer draws into.
//
// During a flush every band of rows is written by exactly one worker, so a
// surface must not be touched by anyone else until Flush returns.
type Surface struct {
	width  int
	height int
	stride int
	format Format
	io     pixel.IO
	data   []byte
}

// NewSurface allocates a zeroed surface.
func NewSurface(width, height int, f Format) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	io := pixel.IOFor(f)
	if io == nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}

	stride := width * io.BytesPerPixel()
	return &Surface{
		width:  width,
		height: height,
		stride: stride,
		format: f,
		io:     io,
		data:   make([]byte, stride*height),
	}, nil
}

// NewSurfaceFromData wraps an existing buffer. stride is the distance
// between rows in bytes.
func NewSurfaceFromData(data []byte, width, height, stride int, f Format) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	io := pixel.IOFor(f)
	if io == nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}

	row := width * io.BytesPerPixel()
	if stride < row {
		return nil, fmt.Errorf("%w: stride %d < row %d", ErrShortData, stride, row)
	}
	if need := stride*(height-1) + row; len(data) < need {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrShortData, len(data), need)
	}

	return &Surface{
		width:  width,
		height: height,
		stride: stride,
		format: f,
		io:     io,
		data:   data,
	}, nil
}

// Width returns the width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the height in pixels.
func (s *Surface) Height() int { return s.height }

// Stride returns the row pitch in bytes.
func (s *Surface) Stride() int { return s.stride }

// Format returns the pixel format.
func (s *Surface) Format() Format { return s.format }

// Data returns the raw pixel buffer.
func (s *Surface) Data() []byte { return s.data }

// bpp returns bytes per pixel, or 0 for a surface without IO.
func (s *Surface) bpp() int {
	if s.io == nil {
		return 0
	}
	return s.io.BytesPerPixel()
}

// fetch returns the packed pixel at (x, y); the caller checks bounds.
func (s *Surface) fetch(x, y int) pixel.P32 {
	return s.io.Fetch(s.data[y*s.stride+x*s.bpp():])
}

// Pixel returns the straight color at (x, y). Out-of-range coordinates
// return Transparent.
func (s *Surface) Pixel(x, y int) RGBA {
	if x < 0 || x >= s.width || y < 0 || y >= s.height || s.io == nil {
		return Transparent
	}
	p := s.fetch(x, y)
	if s.format == FormatA8 {
		return RGBA{A: float64(p.A()) / 255}
	}
	return RGBA{
		R: float64(p.R()) / 255,
		G: float64(p.G()) / 255,
		B: float64(p.B()) / 255,
		A: float64(p.A()) / 255,
	}.Unpremultiply()
}

// At implements image.Image.
func (s *Surface) At(x, y int) color.Color {
	if x < 0 || x >= s.width || y < 0 || y >= s.height || s.io == nil {
		return color.RGBA{}
	}
	p := s.fetch(x, y)
	if s.format == FormatA8 {
		return color.Alpha{A: uint8(p.A())}
	}
	return color.RGBA{R: uint8(p.R()), G: uint8(p.G()), B: uint8(p.B()), A: uint8(p.A())}
}

// Bounds implements image.Image.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

// ColorModel implements image.Image.
func (s *Surface) ColorModel() color.Model {
	if s.format == FormatA8 {
		return color.AlphaModel
	}
	return color.RGBAModel
}

// ToImage copies the surface into a new premultiplied RGBA image.
func (s *Surface) ToImage() *image.RGBA {
	img := image.NewRGBA(s.Bounds())
	draw.Copy(img, image.Point{}, s, s.Bounds(), draw.Src, nil)
	return img
}

// SavePNG writes the surface to a PNG file.
func (s *Surface) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, s.ToImage()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
