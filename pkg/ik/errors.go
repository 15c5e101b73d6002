package ik

import "errors"

var (
	// ErrInvalidCamera is returned for a camera with a degenerate projection.
	ErrInvalidCamera = errors.New("invalid camera")

	// ErrUnknownControl is returned for an unrecognised axis toggle name.
	ErrUnknownControl = errors.New("unknown control")
)
