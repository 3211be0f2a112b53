package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// DrawText rasterises text with face at spec.Anchor and composites it onto dst
// in spec.Color. Text is neither wrapped nor fitted; glyphs past the image
// edge are clipped.
func DrawText(dst draw.Image, face font.Face, text string, spec Spec) {
	mask := image.NewAlpha(dst.Bounds())
	StrokeText(mask, face, text, spec.Anchor, spec.StrokeWidth())
	if !spec.AntiAlias {
		Threshold(mask)
	}
	Composite(dst, mask, dst.Bounds().Min, spec.Color)
}

// StrokeText draws text into mask once per stroke offset, widening the glyphs
// by width-1 pixels.
func StrokeText(mask *image.Alpha, face font.Face, text string, origin image.Point, width int) {
	for _, offset := range strokeOffsets(width) {
		d := &font.Drawer{
			Dst:  mask,
			Src:  image.Opaque,
			Face: face,
			Dot:  fixed.P(origin.X+offset.X, origin.Y+offset.Y),
		}
		d.DrawString(text)
	}
}

// Threshold snaps partial coverage to fully on or off.
func Threshold(mask *image.Alpha) {
	for i, a := range mask.Pix {
		if a >= 0x80 {
			mask.Pix[i] = 0xff
		} else {
			mask.Pix[i] = 0
		}
	}
}

// Composite paints c through mask onto dst, placing the mask's top-left
// corner at at.
func Composite(dst draw.Image, mask image.Image, at image.Point, c color.Color) {
	mb := mask.Bounds()
	rect := mb.Sub(mb.Min).Add(at)
	draw.DrawMask(dst, rect, image.NewUniform(c), image.Point{}, mask, mb.Min, draw.Over)
}

func strokeOffsets(width int) []image.Point {
	if width <= 1 {
		return []image.Point{{}}
	}
	start := -(width - 1) / 2
	offsets := make([]image.Point, 0, width*width)
	for dy := 0; dy < width; dy++ {
		for dx := 0; dx < width; dx++ {
			offsets = append(offsets, image.Pt(start+dx, start+dy))
		}
	}
	return offsets
}
