package tilework

import (
	"image/color"
	"testing"
)

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGBA
	}{
		{"#fff", White},
		{"F00", Red},
		{"00ff00", Green},
		{"#0000FF", Blue},
		{"#00000000", Transparent},
		{"ffff0080", RGBAf(1, 1, 0, 128.0/255)},
		{"f008", RGBAf(1, 0, 0, 136.0/255)},
		{"zzz", Black},
		{"12345", Black},
		{"", Black},
	}
	for _, tt := range tests {
		if got := Hex(tt.in); got != tt.want {
			t.Errorf("Hex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRGBA_Pixel(t *testing.T) {
	tests := []struct {
		c    RGBA
		want uint32
	}{
		{White, 0xFFFFFFFF},
		{Red, 0xFFFF0000},
		{Transparent, 0},
		{RGBAf(1, 1, 1, 0.5), 0x80808080},
		{RGBAf(2, -1, 0.5, 1), 0xFFFF0080},
	}
	for _, tt := range tests {
		if got := uint32(tt.c.pixel()); got != tt.want {
			t.Errorf("%v.pixel() = %#08x, want %#08x", tt.c, got, tt.want)
		}
	}
}

func TestRGBA_Premultiply(t *testing.T) {
	c := RGBAf(1, 0.5, 0, 0.5)
	p := c.Premultiply()
	if p != RGBAf(0.5, 0.25, 0, 0.5) {
		t.Errorf("Premultiply() = %v", p)
	}
	if p.Unpremultiply() != c {
		t.Errorf("Unpremultiply() = %v, want %v", p.Unpremultiply(), c)
	}
	if Transparent.Unpremultiply() != Transparent {
		t.Error("Unpremultiply() of transparent should stay transparent")
	}
}

func TestFromColor(t *testing.T) {
	got := FromColor(color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	if got != Red {
		t.Errorf("FromColor(red) = %v", got)
	}
	if c := Red.Color().(color.NRGBA); c != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("Red.Color() = %v", c)
	}
}
