package scene

import "errors"

var (
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("scene closed")

	// ErrUnknownModel is returned for a model id that is not in the scene.
	ErrUnknownModel = errors.New("unknown model")

	// ErrNoModel is returned when an operation needs an active model and
	// the scene is empty.
	ErrNoModel = errors.New("no model in scene")

	// ErrTooManyModels is returned by AddModel once MaxModels is reached.
	ErrTooManyModels = errors.New("too many models")

	// ErrStaleFrame is returned for a landmark frame whose timestamp did
	// not advance.
	ErrStaleFrame = errors.New("stale landmark frame")
)
