package render_test

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font/basicfont"

	"github.com/goliatone/go-certgen/pkg/record"
	"github.com/goliatone/go-certgen/pkg/render"
	"github.com/goliatone/go-certgen/pkg/template"
	"github.com/goliatone/go-certgen/pkg/testsupport"
)

func TestDrawText_PaintsNearAnchor(t *testing.T) {
	canvas := testsupport.TemplateImage(120, 40)
	spec := render.Spec{
		Anchor:    image.Pt(10, 25),
		Scale:     1,
		Color:     color.NRGBA{G: 0xff, A: 0xff},
		Thickness: 1,
		AntiAlias: false,
	}

	render.DrawText(canvas, basicfont.Face7x13, "Ada", spec)

	changed := testsupport.CountChanged(canvas)
	if changed == 0 {
		t.Fatalf("expected glyph pixels to be painted")
	}
	for y := 0; y < 40; y++ {
		for x := 0; x < 8; x++ {
			if canvas.NRGBAAt(x, y) != testsupport.Background {
				t.Fatalf("unexpected paint left of anchor at (%d,%d)", x, y)
			}
		}
	}
}

func TestDrawText_ThicknessWidensStroke(t *testing.T) {
	thin := testsupport.TemplateImage(120, 40)
	thick := testsupport.TemplateImage(120, 40)
	spec := render.Spec{Anchor: image.Pt(10, 25), Scale: 1, Color: color.NRGBA{A: 0xff}, Thickness: 1}

	render.DrawText(thin, basicfont.Face7x13, "Ada", spec)
	spec.Thickness = 3
	render.DrawText(thick, basicfont.Face7x13, "Ada", spec)

	if testsupport.CountChanged(thick) <= testsupport.CountChanged(thin) {
		t.Fatalf("expected thicker stroke to paint more pixels")
	}
}

func TestDrawText_OverflowIsClipped(t *testing.T) {
	canvas := testsupport.TemplateImage(20, 20)
	spec := render.Spec{Anchor: image.Pt(15, 15), Scale: 1, Color: color.NRGBA{A: 0xff}, Thickness: 1}

	render.DrawText(canvas, basicfont.Face7x13, "a very long name that overflows", spec)

	if canvas.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Fatalf("canvas bounds changed: %v", canvas.Bounds())
	}
}

func TestThreshold(t *testing.T) {
	mask := image.NewAlpha(image.Rect(0, 0, 3, 1))
	mask.Pix = []uint8{0x10, 0x80, 0xf0}
	render.Threshold(mask)
	if mask.Pix[0] != 0 || mask.Pix[1] != 0xff || mask.Pix[2] != 0xff {
		t.Fatalf("unexpected threshold result %v", mask.Pix)
	}
}

func TestWriteImage_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "Certificate_Ada.jpg")
	err := render.WriteImage(testsupport.TemplateImage(4, 4), path)
	if !render.IsEncodeWrite(err) {
		t.Fatalf("expected EncodeWriteError, got %v", err)
	}
	var writeErr *render.EncodeWriteError
	if !errors.As(err, &writeErr) || writeErr.Path != path {
		t.Fatalf("unexpected error payload %#v", err)
	}
}

func TestWriteImage_UnknownExtension(t *testing.T) {
	err := render.WriteImage(testsupport.TemplateImage(4, 4), filepath.Join(t.TempDir(), "out.xyz"))
	if !render.IsEncodeWrite(err) {
		t.Fatalf("expected EncodeWriteError, got %v", err)
	}
}

func TestCompose(t *testing.T) {
	raw := testsupport.TemplateBytes(t, 64, 32, imaging.PNG)
	tpl := template.MustNew(template.SourceFromFile("fixture.png"), raw)
	rec := record.CanonicalRecord{DisplayName: "Ada"}
	out := filepath.Join(t.TempDir(), "Certificate_Ada.png")

	var drawn string
	artifact, err := render.Compose(testsupport.Context(), tpl, rec, render.DefaultSpec(), out, func(dst *image.NRGBA, text string, spec render.Spec) error {
		drawn = text
		dst.SetNRGBA(1, 1, spec.Color)
		return nil
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if drawn != "Ada" {
		t.Fatalf("unexpected text %q", drawn)
	}
	if artifact.Path != out || artifact.Record != rec {
		t.Fatalf("unexpected artifact %#v", artifact)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if got := testsupport.OpenImage(t, out); testsupport.CountChanged(got) != 1 {
		t.Fatalf("expected exactly one painted pixel")
	}
}

func TestCompose_InvalidSpec(t *testing.T) {
	raw := testsupport.TemplateBytes(t, 8, 8, imaging.PNG)
	tpl := template.MustNew(template.SourceFromFile("fixture.png"), raw)
	spec := render.DefaultSpec()
	spec.Scale = -1

	_, err := render.Compose(testsupport.Context(), tpl, record.CanonicalRecord{DisplayName: "A"}, spec, filepath.Join(t.TempDir(), "a.png"), func(*image.NRGBA, string, render.Spec) error { return nil })
	if err == nil {
		t.Fatalf("expected invalid spec error")
	}
}

func TestCompose_ZeroTemplateIsDecodeError(t *testing.T) {
	_, err := render.Compose(testsupport.Context(), template.Template{}, record.CanonicalRecord{DisplayName: "A"}, render.DefaultSpec(), filepath.Join(t.TempDir(), "a.png"), func(*image.NRGBA, string, render.Spec) error { return nil })
	if !render.IsTemplateDecode(err) {
		t.Fatalf("expected template decode error, got %v", err)
	}
}
