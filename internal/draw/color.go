package draw

import (
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a packed 24-bit RGB colour with a presence bit.
// The zero value means "nothing drawn here".
type Color uint32

const colorPresent Color = 1 << 24

// Background is the colour everything fades toward.
var Background = colorful.Color{R: 0.02, G: 0.03, B: 0.08}

// RGB builds a colour from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return colorPresent | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// Hex parses a "#rrggbb" colour tag. Unparseable tags fall back to white.
func Hex(s string) Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB(255, 255, 255)
	}
	return fromColorful(c)
}

// IsZero reports whether the colour is the empty pixel.
func (c Color) IsZero() bool {
	return c&colorPresent == 0
}

// Channels returns the 8-bit red, green and blue components.
func (c Color) Channels() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Fade blends the colour toward Background. alpha 1 keeps the colour,
// 0 returns the background.
func (c Color) Fade(alpha float64) Color {
	if c.IsZero() {
		return c
	}
	if alpha >= 1 {
		return c
	}
	if alpha < 0 {
		alpha = 0
	}
	return fromColorful(Background.BlendRgb(c.colorful(), alpha))
}

// Hex returns the colour as a "#rrggbb" tag.
func (c Color) Hex() string {
	if c.IsZero() {
		return ""
	}
	return c.colorful().Hex()
}

func (c Color) colorful() colorful.Color {
	r, g, b := c.Channels()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return RGB(r, g, b)
}

// appendSGR appends an SGR sequence selecting fg (and bg when set).
func appendSGR(buf []byte, fg, bg Color) []byte {
	buf = append(buf, "\033[0"...)
	if !fg.IsZero() {
		r, g, b := fg.Channels()
		buf = append(buf, ";38;2;"...)
		buf = appendRGB(buf, r, g, b)
	}
	if !bg.IsZero() {
		r, g, b := bg.Channels()
		buf = append(buf, ";48;2;"...)
		buf = appendRGB(buf, r, g, b)
	}
	return append(buf, 'm')
}

func appendRGB(buf []byte, r, g, b uint8) []byte {
	buf = strconv.AppendUint(buf, uint64(r), 10)
	buf = append(buf, ';')
	buf = strconv.AppendUint(buf, uint64(g), 10)
	buf = append(buf, ';')
	return strconv.AppendUint(buf, uint64(b), 10)
}

// ANSI colour escapes for text overlays.
const (
	ColorReset      = "\033[0m"
	ColorBold       = "\033[1m"
	ColorDim        = "\033[2m"
	ColorBrightCyan = "\033[96m"
	ColorRed        = "\033[91m"
	ColorYellow     = "\033[93m"
)

// Mix blends c toward other by t in [0, 1].
func (c Color) Mix(other Color, t float64) Color {
	if c.IsZero() || other.IsZero() {
		return c
	}
	return fromColorful(c.colorful().BlendRgb(other.colorful(), t))
}
