// Package raster provides the default compositor. It draws record text with
// TrueType faces from the Go font family, parsed once per process and sized
// from the render spec.
package raster
