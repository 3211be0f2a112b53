package render

import (
	"context"
	"errors"
	"image"
	"os"

	"github.com/disintegration/imaging"

	"github.com/goliatone/go-certgen/pkg/record"
	"github.com/goliatone/go-certgen/pkg/template"
)

// DefaultJPEGQuality is used for JPEG artifacts.
const DefaultJPEGQuality = 95

// DrawFunc paints the record text onto a freshly decoded template copy.
type DrawFunc func(dst *image.NRGBA, text string, spec Spec) error

// Compose runs the decode → draw → encode sequence shared by compositors.
// Decode failures surface as *TemplateDecodeError, write failures as
// *EncodeWriteError.
func Compose(_ context.Context, tpl template.Template, rec record.CanonicalRecord, spec Spec, outputPath string, drawFn DrawFunc) (Artifact, error) {
	if drawFn == nil {
		return Artifact{}, errors.New("render: draw function is required")
	}
	if err := spec.Validate(); err != nil {
		return Artifact{}, err
	}

	canvas, err := tpl.Decode()
	if err != nil {
		return Artifact{}, err
	}
	if err := drawFn(canvas, rec.Text(), spec); err != nil {
		return Artifact{}, err
	}
	if err := WriteImage(canvas, outputPath); err != nil {
		return Artifact{}, err
	}
	return Artifact{Record: rec, Path: outputPath}, nil
}

// WriteImage encodes img to path, picking the format from the extension. An
// existing file is truncated and overwritten.
func WriteImage(img image.Image, path string) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return &EncodeWriteError{Path: path, Err: err}
	}

	file, err := os.Create(path)
	if err != nil {
		return &EncodeWriteError{Path: path, Err: err}
	}

	encodeErr := imaging.Encode(file, img, format, imaging.JPEGQuality(DefaultJPEGQuality))
	closeErr := file.Close()
	if err := errors.Join(encodeErr, closeErr); err != nil {
		_ = os.Remove(path)
		return &EncodeWriteError{Path: path, Err: err}
	}
	return nil
}
