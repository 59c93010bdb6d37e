// Package color provides the RGBA color value passed through the terrain
// engine to its renderers.
package color

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned when a color string cannot be parsed.
var ErrInvalidFormat = errors.New("invalid color string format")

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Predefined colors.
var (
	Transparent = Color{0, 0, 0, 0}
	White       = Color{1, 1, 1, 1}
	Black       = Color{0, 0, 0, 1}
)

// RGBA creates a color from 8-bit RGBA values (0-255).
func RGBA(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: float32(a) / 255.0,
	}
}

// RGB creates a color from 8-bit RGB values with full alpha.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 255)
}

// Bytes returns the 8-bit channel values.
func (c Color) Bytes() (r, g, b, a uint8) {
	return toByte(c.R), toByte(c.G), toByte(c.B), toByte(c.A)
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, clamp01(a)}
}

// Add brightens (or darkens, for a negative delta) every channel by an
// 8-bit amount, clamping at the channel bounds.
func (c Color) Add(delta int) Color {
	r, g, b, a := c.Bytes()
	return RGBA(clampByte(int(r)+delta), clampByte(int(g)+delta), clampByte(int(b)+delta), a)
}

// Darken returns a darker version of the color.
func (c Color) Darken(factor float32) Color {
	return Color{
		R: c.R * (1 - factor),
		G: c.G * (1 - factor),
		B: c.B * (1 - factor),
		A: c.A,
	}
}

// Lighten returns a lighter version of the color.
func (c Color) Lighten(factor float32) Color {
	return Color{
		R: c.R + (1-c.R)*factor,
		G: c.G + (1-c.G)*factor,
		B: c.B + (1-c.B)*factor,
		A: c.A,
	}
}

// Hex returns the color as #rrggbb. Alpha is dropped.
func (c Color) Hex() string {
	r, g, b, _ := c.Bytes()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// CSS returns the color as an rgba() string.
func (c Color) CSS() string {
	r, g, b, _ := c.Bytes()
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(float64(c.A), 'f', -1, 32))
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// Parse reads #rgb, #rrggbb, rgb(r, g, b) or rgba(r, g, b, a).
func Parse(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}

	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "rgba"):
		return parseFunc(lower[len("rgba"):], 4, s)
	case strings.HasPrefix(lower, "rgb"):
		return parseFunc(lower[len("rgb"):], 3, s)
	}
	return Color{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
}

// MustParse is like Parse but panics on error. Intended for literals.
func MustParse(s string) Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// MarshalText encodes the color as #rrggbb, or rgba() when translucent.
func (c Color) MarshalText() ([]byte, error) {
	if toByte(c.A) == 255 {
		return []byte(c.Hex()), nil
	}
	return []byte(c.CSS()), nil
}

// UnmarshalText decodes any format accepted by Parse.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func parseHex(digits string) (Color, error) {
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	if len(digits) != 6 {
		return Color{}, fmt.Errorf("%w: #%s", ErrInvalidFormat, digits)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: #%s", ErrInvalidFormat, digits)
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

func parseFunc(rest string, n int, orig string) (Color, error) {
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidFormat, orig)
	}
	parts := strings.Split(rest[1:len(rest)-1], ",")
	if len(parts) != n {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidFormat, orig)
	}

	var channels [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidFormat, orig)
		}
		channels[i] = clampByte(v)
	}
	c := RGB(channels[0], channels[1], channels[2])

	if n == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 32)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidFormat, orig)
		}
		c.A = clamp01(float32(a))
	}
	return c, nil
}

func toByte(f float32) uint8 {
	return uint8(clamp01(f)*255 + 0.5)
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clamp01(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
