// Package canvas provides the pixel buffer and rasterization primitives.
// This file implements the packed 24-bit color type and color parsing.
package canvas

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is a packed 24-bit color value in 0xRRGGBB form.
// Bits above the low 24 are ignored by every drawing operation.
type Color uint32

// Common colors.
const (
	Black Color = 0x000000
	White Color = 0xffffff
	Grey  Color = 0xd1d1d1
	Red   Color = 0xff0000
	Green Color = 0x008000
	Blue  Color = 0x4328ed
)

// NamedColors maps color names to packed values.
// The first block matches the palette used by the axis and example scenes.
var NamedColors = map[string]Color{
	"white": White,
	"grey":  Grey,
	"gray":  Grey,
	"red":   Red,
	"blue":  Blue,
	"green": Green,
	"black": Black,

	"yellow":    0xf9f034,
	"cyan":      0x00ffff,
	"magenta":   0xff00ff,
	"orange":    0xffa500,
	"purple":    0x800080,
	"lime":      0x1be81b,
	"navy":      0x000080,
	"teal":      0x008080,
	"maroon":    0x800000,
	"olive":     0x808000,
	"silver":    0xc0c0c0,
	"lightgrey": 0xf5f5f5,
	"lightgray": 0xf5f5f5,
	"darkgrey":  0xa9a9a9,
	"darkgray":  0xa9a9a9,
}

// RGB packs three 8-bit channels into a Color.
func RGB(r, g, b uint8) Color {
	return Color(r)<<16 | Color(g)<<8 | Color(b)
}

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c) }

// RGBA implements color.Color. The alpha channel is always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R())
	r |= r << 8
	g = uint32(c.G())
	g |= g << 8
	b = uint32(c.B())
	b |= b << 8
	return r, g, b, 0xffff
}

// ToRGBA converts the packed value to an opaque color.RGBA.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{R: c.R(), G: c.G(), B: c.B(), A: 0xff}
}

// String returns the color as #rrggbb.
func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

// FromColor packs any color.Color, dropping its alpha channel.
// Premultiplied channels are taken as-is, so a translucent color packs darker.
func FromColor(c color.Color) Color {
	if pc, ok := c.(Color); ok {
		return pc & 0xffffff
	}
	r, g, b, _ := c.RGBA()
	return RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// ParseColor parses a color string.
// Supported formats:
//   - Named colors: "red", "grey", ...
//   - Hex: "#RGB", "#RRGGBB", "RRGGBB", "0xRRGGBB"
//   - RGB function: "rgb(255, 0, 0)"
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty color string")
	}

	lower := strings.ToLower(s)
	if c, ok := NamedColors[lower]; ok {
		return c, nil
	}

	if strings.HasPrefix(lower, "rgb(") {
		return parseRGBFunc(lower)
	}

	hex := strings.TrimPrefix(lower, "#")
	hex = strings.TrimPrefix(hex, "0x")
	switch len(hex) {
	case 3:
		v, err := strconv.ParseUint(hex, 16, 16)
		if err != nil {
			return 0, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		r := uint8(v>>8&0xf) * 0x11
		g := uint8(v>>4&0xf) * 0x11
		b := uint8(v&0xf) * 0x11
		return RGB(r, g, b), nil
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		return Color(v), nil
	}

	return 0, fmt.Errorf("unrecognized color format: %q", s)
}

// MustParseColor parses a color string and panics if parsing fails.
// Use this only for known-good color values in initialization code.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// parseRGBFunc parses "rgb(r, g, b)" with 0-255 components.
func parseRGBFunc(s string) (Color, error) {
	if !strings.HasSuffix(s, ")") {
		return 0, fmt.Errorf("invalid rgb() format: %q", s)
	}
	parts := strings.Split(s[len("rgb("):len(s)-1], ",")
	if len(parts) != 3 {
		return 0, fmt.Errorf("rgb() requires 3 components, got %d", len(parts))
	}

	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, fmt.Errorf("invalid rgb() component %q: %w", p, err)
		}
		if v < 0 || v > 255 {
			return 0, fmt.Errorf("rgb() component %d out of range [0, 255]", v)
		}
		ch[i] = uint8(v)
	}
	return RGB(ch[0], ch[1], ch[2]), nil
}
