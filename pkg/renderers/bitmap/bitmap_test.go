package bitmap_test

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/goliatone/go-certgen/pkg/record"
	"github.com/goliatone/go-certgen/pkg/render"
	"github.com/goliatone/go-certgen/pkg/renderers/bitmap"
	"github.com/goliatone/go-certgen/pkg/template"
	"github.com/goliatone/go-certgen/pkg/testsupport"
)

func TestRender_ScalesWithSpec(t *testing.T) {
	raw := testsupport.TemplateBytes(t, 600, 200, imaging.PNG)
	tpl := template.MustNew(template.SourceFromFile("template.png"), raw)
	c := bitmap.New()
	if c.Name() != bitmap.Name {
		t.Fatalf("unexpected name %q", c.Name())
	}

	dir := t.TempDir()
	rec := record.CanonicalRecord{DisplayName: "Jane Doe", DisplayID: "AB12CD"}

	spec := render.DefaultSpec()
	spec.Anchor = image.Pt(10, 100)
	spec.AntiAlias = false
	spec.Scale = 1
	small := filepath.Join(dir, "small.png")
	if _, err := c.Render(testsupport.Context(), tpl, rec, spec, small); err != nil {
		t.Fatalf("render small: %v", err)
	}

	spec.Scale = 2
	large := filepath.Join(dir, "large.png")
	if _, err := c.Render(testsupport.Context(), tpl, rec, spec, large); err != nil {
		t.Fatalf("render large: %v", err)
	}

	smallCount := testsupport.CountChanged(testsupport.OpenImage(t, small))
	largeCount := testsupport.CountChanged(testsupport.OpenImage(t, large))
	if smallCount == 0 {
		t.Fatalf("expected glyph pixels at scale 1")
	}
	if largeCount <= smallCount {
		t.Fatalf("expected larger text at scale 2: %d <= %d", largeCount, smallCount)
	}
}

func TestRender_InvalidSpec(t *testing.T) {
	raw := testsupport.TemplateBytes(t, 10, 10, imaging.PNG)
	tpl := template.MustNew(template.SourceFromFile("template.png"), raw)
	spec := render.DefaultSpec()
	spec.Scale = 0

	if _, err := bitmap.New().Render(testsupport.Context(), tpl, record.CanonicalRecord{DisplayName: "A"}, spec, filepath.Join(t.TempDir(), "a.png")); err == nil {
		t.Fatalf("expected spec validation error")
	}
}
