package template

import "fmt"

// DecodeError reports a template that is missing, unreadable, or not a valid
// image. Every record depends on the template, so this failure is fatal for the
// whole batch.
type DecodeError struct {
	Location string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("template: decode: %v", e.Err)
	}
	return fmt.Sprintf("template: decode %s: %v", e.Location, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
