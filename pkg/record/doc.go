// Package record turns raw recipient rows into canonical display records.
// Normalization is pure: it never touches the filesystem and never mutates its
// input, so callers can validate an entire batch before any rendering starts.
package record
