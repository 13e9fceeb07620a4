// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (configuration,
// validation, rendering, etc.) and for carrying the underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// All error types implement the Unwrap() method to support errors.Is() and errors.As().
//
// The splash sequencer itself never returns errors: invariant violations at
// runtime are ignored. These types only appear at the edges (flag parsing,
// timeline validation, the renderers and the HTTP service).
package apperrors
