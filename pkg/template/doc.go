// Package template exposes the public contracts for loading the base image
// every artifact is drawn on. Loader implementations live under
// internal/template so the transport details stay hidden from consumers.
package template
