package scene

import (
	"github.com/teslashibe/go-mannequin/pkg/constraint"
	"github.com/teslashibe/go-mannequin/pkg/emotion"
	"github.com/teslashibe/go-mannequin/pkg/ik"
)

// Config holds the scene settings
type Config struct {
	TickRate  float64 // Solver frames per second while dragging
	MaxModels int     // Upper bound on mannequins in the scene
	Spacing   float64 // Horizontal distance between neighbouring models

	// Retarget drives the active model from incoming landmark frames
	Retarget bool

	Solver     ik.Config
	Options    ik.Options
	Camera     ik.Camera
	Constraint constraint.Config
	Emotion    emotion.Config
}

// DefaultConfig returns the editor defaults
func DefaultConfig() Config {
	return Config{
		TickRate:   60,
		MaxModels:  8,
		Spacing:    40,
		Retarget:   true,
		Solver:     ik.DefaultConfig(),
		Options:    ik.DefaultOptions(),
		Camera:     ik.DefaultCamera(),
		Constraint: constraint.DefaultConfig(),
		Emotion:    emotion.DefaultConfig(),
	}
}
