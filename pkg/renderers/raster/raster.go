package raster

import (
	"context"
	"image"

	"github.com/goliatone/go-certgen/pkg/record"
	"github.com/goliatone/go-certgen/pkg/render"
	"github.com/goliatone/go-certgen/pkg/template"
)

// Name is the registry key of the raster compositor.
const Name = "raster"

// Option customises the compositor.
type Option func(*Compositor) error

// WithFont registers an additional named face from a TrueType/OpenType
// payload.
func WithFont(name string, data []byte) Option {
	return func(c *Compositor) error {
		return c.fonts.Add(name, data)
	}
}

// WithFontSet replaces the font set, letting several compositors share one
// parsed cache.
func WithFontSet(fonts *FontSet) Option {
	return func(c *Compositor) error {
		if fonts != nil {
			c.fonts = fonts
		}
		return nil
	}
}

// Compositor renders record text with scalable fonts.
type Compositor struct {
	fonts *FontSet
}

var _ render.Compositor = (*Compositor)(nil)

// New constructs a raster compositor with the built-in faces.
func New(options ...Option) (*Compositor, error) {
	c := &Compositor{fonts: NewFontSet()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Name implements render.Compositor.
func (c *Compositor) Name() string {
	return Name
}

// Fonts exposes the compositor font set.
func (c *Compositor) Fonts() *FontSet {
	return c.fonts
}

// Render implements render.Compositor.
func (c *Compositor) Render(ctx context.Context, tpl template.Template, rec record.CanonicalRecord, spec render.Spec, outputPath string) (render.Artifact, error) {
	if err := spec.Validate(); err != nil {
		return render.Artifact{}, err
	}
	face, err := c.fonts.Face(spec.FontName(), spec.FontSize())
	if err != nil {
		return render.Artifact{}, err
	}
	defer face.Close()

	return render.Compose(ctx, tpl, rec, spec, outputPath, func(dst *image.NRGBA, text string, spec render.Spec) error {
		render.DrawText(dst, face, text, spec)
		return nil
	})
}
