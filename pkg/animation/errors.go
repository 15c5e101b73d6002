package animation

import "errors"

var (
	// ErrNotFound is returned when a clip is not registered.
	ErrNotFound = errors.New("clip not found")

	// ErrAlreadyPlaying is returned when trying to play while already playing.
	ErrAlreadyPlaying = errors.New("clip already playing")

	// ErrInvalidClip is returned when a clip file is malformed.
	ErrInvalidClip = errors.New("invalid clip data")

	// ErrNoCallback is returned when playing through a registry without a callback.
	ErrNoCallback = errors.New("no callback set; call SetCallback first")
)
