// Package animation plays keyframed posture clips on a rig.
//
// A clip is a list of timestamped postures. Playback blends neighbouring
// keyframes at a fixed frame rate and hands every blended posture to a
// callback, which usually applies it to a rig through the scene.
package animation

import (
	"time"

	"github.com/teslashibe/go-mannequin/pkg/posture"
)

// ClipData is the JSON form of a clip file. Keyframes are given either as
// complete postures or as motion sets ("r_arm.raise": 90) applied on top of
// the default pose of Kind.
type ClipData struct {
	// Description is a human-readable description of the clip.
	Description string `json:"description"`

	// Kind is the figure motion sets are resolved on (default "male").
	Kind string `json:"kind,omitempty"`

	// Time contains timestamps for each keyframe in seconds.
	Time []float64 `json:"time"`

	Postures []posture.Posture    `json:"postures,omitempty"`
	Motions  []map[string]float64 `json:"motions,omitempty"`
}

// Clip is a loaded, playable animation.
type Clip struct {
	Name        string
	Description string
	Duration    time.Duration

	// Keyframes holds one posture per timestamp.
	Keyframes  []posture.Posture
	Timestamps []float64
}

// PlaybackState represents the current state of clip playback.
type PlaybackState int

const (
	// StateStopped means no clip is playing.
	StateStopped PlaybackState = iota

	// StatePlaying means a clip is actively playing.
	StatePlaying

	// StatePaused means playback is temporarily paused.
	StatePaused
)

// String returns a human-readable state name.
func (s PlaybackState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// PlayerCallback is called for each blended posture during playback.
// Return false to stop playback early.
type PlayerCallback func(p posture.Posture, elapsed time.Duration) bool

// PlayerOptions configures clip playback.
type PlayerOptions struct {
	// FrameRate is the playback blend rate (default: 30 Hz).
	FrameRate float64

	// Loop causes the clip to repeat when finished.
	Loop bool

	// Speed multiplier (1.0 = normal, 2.0 = 2x speed).
	Speed float64
}

// DefaultPlayerOptions returns sensible defaults for playback.
func DefaultPlayerOptions() PlayerOptions {
	return PlayerOptions{
		FrameRate: 30.0,
		Speed:     1.0,
		Loop:      false,
	}
}
