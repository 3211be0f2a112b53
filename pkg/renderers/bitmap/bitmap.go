// Package bitmap provides a fallback compositor built on the fixed 7x13
// bitmap face. Glyphs are rasterised at native size and scaled up, which keeps
// output identical across platforms and needs no font parsing.
package bitmap

import (
	"context"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/goliatone/go-certgen/pkg/record"
	"github.com/goliatone/go-certgen/pkg/render"
	"github.com/goliatone/go-certgen/pkg/template"
)

// Name is the registry key of the bitmap compositor.
const Name = "bitmap"

// Compositor renders record text with basicfont.Face7x13.
type Compositor struct {
	face font.Face
}

var _ render.Compositor = (*Compositor)(nil)

// New constructs a bitmap compositor.
func New() *Compositor {
	return &Compositor{face: basicfont.Face7x13}
}

// Name implements render.Compositor.
func (c *Compositor) Name() string {
	return Name
}

// Render implements render.Compositor. The spec font name is ignored; only
// one face exists.
func (c *Compositor) Render(ctx context.Context, tpl template.Template, rec record.CanonicalRecord, spec render.Spec, outputPath string) (render.Artifact, error) {
	return render.Compose(ctx, tpl, rec, spec, outputPath, c.draw)
}

func (c *Compositor) draw(dst *image.NRGBA, text string, spec render.Spec) error {
	metrics := c.face.Metrics()
	ascent := metrics.Ascent.Ceil()
	lineHeight := ascent + metrics.Descent.Ceil()
	stroke := spec.StrokeWidth()
	pad := stroke

	width := font.MeasureString(c.face, text).Ceil() + 2*pad
	height := lineHeight + 2*pad
	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	render.StrokeText(mask, c.face, text, image.Pt(pad, ascent+pad), stroke)
	if !spec.AntiAlias {
		render.Threshold(mask)
	}

	factor := spec.FontSize() / float64(lineHeight)
	filter := imaging.NearestNeighbor
	if spec.AntiAlias {
		filter = imaging.Linear
	}
	scaled := imaging.Resize(mask, scale(width, factor), scale(height, factor), filter)

	at := spec.Anchor.Sub(image.Pt(scale(pad, factor), scale(ascent+pad, factor)))
	render.Composite(dst, scaled, at, spec.Color)
	return nil
}

func scale(v int, factor float64) int {
	return int(math.Round(float64(v) * factor))
}
