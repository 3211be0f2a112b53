package record

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyName marks a record whose name is blank after trimming.
	ErrEmptyName = errors.New("record: name is empty")

	// ErrMissingRequiredColumn marks a header without the required name column.
	ErrMissingRequiredColumn = errors.New("record: missing required column")
)

// ValidationError reports a single record that cannot be normalised. The batch
// records it and moves on to the next row.
type ValidationError struct {
	Reason error
}

func (e *ValidationError) Error() string {
	if e == nil || e.Reason == nil {
		return "record: validation failed"
	}
	return e.Reason.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Reason
}

// MissingRequiredColumnError is returned before any rendering when the row
// header lacks a required column.
type MissingRequiredColumnError struct {
	Column string
	Header []string
}

func (e *MissingRequiredColumnError) Error() string {
	return fmt.Sprintf("record: missing required column %q (header: %v)", e.Column, e.Header)
}

func (e *MissingRequiredColumnError) Unwrap() error {
	return ErrMissingRequiredColumn
}
