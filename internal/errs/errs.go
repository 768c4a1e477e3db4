// Package errs holds the error taxonomy shared by the generation pipeline.
// Packages wrap one of these sentinels so callers can classify a failure
// with errors.Is.
package errs

import "errors"

var (
	// Source rejected before anything is written.
	ErrValidation = errors.New("invalid source image")

	// Per-task failures during the image phase.
	ErrDecode = errors.New("decode failed")
	ErrPack   = errors.New("favicon packing failed")
	ErrTrace  = errors.New("vector trace failed")

	// Best-effort post-processing; logged, never fatal.
	ErrOptimization = errors.New("png optimization failed")

	// Filesystem failure writing a raster or a descriptor.
	ErrWrite = errors.New("write failed")
)
