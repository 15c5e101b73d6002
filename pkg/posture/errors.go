package posture

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPosture is returned when posture data does not have the
	// shape the rig expects.
	ErrMalformedPosture = errors.New("malformed posture")

	// ErrIncompatibleBlend is returned when blending postures of different versions.
	ErrIncompatibleBlend = errors.New("incompatible posture blending")
)

// VersionMismatchError reports posture data of an unsupported version.
type VersionMismatchError struct {
	Version int
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("posture data version %d is incompatible with the currently supported version %d", e.Version, Version)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedPosture, fmt.Sprintf(format, args...))
}
