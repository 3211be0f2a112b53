package render

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-certgen/pkg/record"
	"github.com/goliatone/go-certgen/pkg/template"
)

// ErrUnknownFont is returned when a spec names a face the compositor does not
// provide.
var ErrUnknownFont = errors.New("render: unknown font")

// TemplateDecodeError is the fatal render failure: the template could not be
// read or decoded, so no record can be rendered.
type TemplateDecodeError = template.DecodeError

// EncodeWriteError reports a failure to create, encode, or write one artifact.
// It is isolated to the record being rendered.
type EncodeWriteError struct {
	Path string
	Err  error
}

func (e *EncodeWriteError) Error() string {
	return fmt.Sprintf("render: write %s: %v", e.Path, e.Err)
}

func (e *EncodeWriteError) Unwrap() error {
	return e.Err
}

// IsTemplateDecode reports whether err is a template decode failure.
func IsTemplateDecode(err error) bool {
	var target *TemplateDecodeError
	return errors.As(err, &target)
}

// IsEncodeWrite reports whether err is a per-artifact write failure.
func IsEncodeWrite(err error) bool {
	var target *EncodeWriteError
	return errors.As(err, &target)
}

// IsFatal reports whether err must abort the batch. Record validation and
// per-artifact write failures are isolated; everything else is fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if IsEncodeWrite(err) {
		return false
	}
	var invalid *record.ValidationError
	return !errors.As(err, &invalid)
}
