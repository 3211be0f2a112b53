package template

import (
	"bytes"
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

// Template wraps the pristine template bytes and their origin. The payload is
// never mutated; every call to Decode starts from the original bytes so text
// drawn for one record cannot bleed into the next.
type Template struct {
	source Source
	raw    []byte
	format string
	bounds image.Rectangle
}

// New validates that raw decodes as an image and wraps it in a Template. Any
// decode failure is reported as a *DecodeError so callers can abort the batch
// before a single artifact is written.
func New(src Source, raw []byte) (Template, error) {
	if src == nil {
		return Template{}, errors.New("template: source is required")
	}
	if len(raw) == 0 {
		return Template{}, &DecodeError{Location: src.Location(), Err: errors.New("template: image is empty")}
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Template{}, &DecodeError{Location: src.Location(), Err: err}
	}

	clone := append([]byte(nil), raw...)
	tpl := Template{source: src, raw: clone, format: format}

	img, err := tpl.Decode()
	if err != nil {
		return Template{}, err
	}
	tpl.bounds = img.Bounds()
	return tpl, nil
}

// MustNew panics if the template cannot be created. Useful for tests.
func MustNew(src Source, raw []byte) Template {
	tpl, err := New(src, raw)
	if err != nil {
		panic(err)
	}
	return tpl
}

// Decode returns a fresh, drawable copy of the template image.
func (t Template) Decode() (*image.NRGBA, error) {
	if len(t.raw) == 0 {
		return nil, &DecodeError{Location: t.Location(), Err: errors.New("template: image is empty")}
	}
	img, err := imaging.Decode(bytes.NewReader(t.raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Location: t.Location(), Err: err}
	}
	return imaging.Clone(img), nil
}

// Source returns the origin metadata for the template.
func (t Template) Source() Source {
	return t.source
}

// Location returns the string identifier for the origin.
func (t Template) Location() string {
	if t.source == nil {
		return ""
	}
	return t.source.Location()
}

// Raw returns a defensive copy of the encoded template.
func (t Template) Raw() []byte {
	return append([]byte(nil), t.raw...)
}

// Format returns the decoder name reported by the image package ("jpeg",
// "png", ...).
func (t Template) Format() string {
	return t.format
}

// Bounds returns the decoded image bounds after orientation is applied.
func (t Template) Bounds() image.Rectangle {
	return t.bounds
}

// Ext returns a file extension matching the template encoding, used when the
// template copy is materialised on disk.
func (t Template) Ext() string {
	switch t.format {
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	case "bmp":
		return ".bmp"
	case "tiff":
		return ".tiff"
	default:
		return ".jpg"
	}
}
