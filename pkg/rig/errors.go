package rig

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownJoint is returned when a joint name is not part of the rig.
	ErrUnknownJoint = errors.New("unknown joint")

	// ErrUnknownKind is returned for an unrecognised figure kind.
	ErrUnknownKind = errors.New("unknown figure kind")
)

// UnknownMotionError reports a motion name the joint's role does not define.
type UnknownMotionError struct {
	Joint  string
	Motion string
}

func (e *UnknownMotionError) Error() string {
	return fmt.Sprintf("joint %s has no motion %q", e.Joint, e.Motion)
}
