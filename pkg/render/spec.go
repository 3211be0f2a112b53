package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

const (
	// BaseFontSize is the pixel size of text drawn at Scale 1.
	BaseFontSize = 24.0

	// DefaultFont names the script-style face used when a spec omits one.
	DefaultFont = "script"
)

// Spec is the single compositing configuration of a run. It is passed by value
// and replaced as a whole; there is no per-field override path.
type Spec struct {
	// Anchor is the baseline origin (bottom-left) of the text in template
	// pixel coordinates.
	Anchor image.Point
	// Font names a face known to the compositor.
	Font string
	// Scale multiplies BaseFontSize.
	Scale float64
	// Color fills the glyphs.
	Color color.NRGBA
	// Thickness is the stroke width in pixels; values below 1 draw a single
	// pass.
	Thickness int
	// AntiAlias keeps fractional glyph coverage when true and thresholds it to
	// hard edges when false.
	AntiAlias bool
}

// DefaultSpec returns the compiled-in compositing defaults.
func DefaultSpec() Spec {
	return Spec{
		Anchor:    image.Pt(254, 770),
		Font:      DefaultFont,
		Scale:     2,
		Color:     color.NRGBA{R: 0x00, G: 0xff, B: 0x00, A: 0xff},
		Thickness: 2,
		AntiAlias: true,
	}
}

// Validate reports specs that cannot produce visible text.
func (s Spec) Validate() error {
	if s.Scale <= 0 {
		return fmt.Errorf("render: scale must be positive, got %v", s.Scale)
	}
	if s.Thickness < 0 {
		return fmt.Errorf("render: thickness must not be negative, got %d", s.Thickness)
	}
	return nil
}

// FontSize returns the pixel size of the face for this spec.
func (s Spec) FontSize() float64 {
	return BaseFontSize * s.Scale
}

// FontName returns the configured face name, falling back to DefaultFont.
func (s Spec) FontName() string {
	if name := strings.TrimSpace(s.Font); name != "" {
		return strings.ToLower(name)
	}
	return DefaultFont
}

// StrokeWidth clamps Thickness to at least one pass.
func (s Spec) StrokeWidth() int {
	if s.Thickness < 1 {
		return 1
	}
	return s.Thickness
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa" (leading # optional).
func ParseHexColor(raw string) (color.NRGBA, error) {
	value := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if len(value) == 3 {
		value = string([]byte{value[0], value[0], value[1], value[1], value[2], value[2]})
	}
	if len(value) == 6 {
		value += "ff"
	}
	if len(value) != 8 {
		return color.NRGBA{}, fmt.Errorf("render: invalid color %q", raw)
	}
	n, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return color.NRGBA{}, errors.Join(fmt.Errorf("render: invalid color %q", raw), err)
	}
	return color.NRGBA{
		R: uint8(n >> 24),
		G: uint8(n >> 16),
		B: uint8(n >> 8),
		A: uint8(n),
	}, nil
}

// HexColor formats c as "#rrggbb", appending alpha only when not opaque.
func HexColor(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
