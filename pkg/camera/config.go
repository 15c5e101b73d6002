// Package camera provides the webcam that feeds the landmark detector, with
// runtime-configurable capture settings.
package camera

import "fmt"

// Config holds the webcam capture parameters.
// These can be modified via the camera API at runtime.
type Config struct {
	// === Device ===
	// Device is a capture index ("0") or a video file/stream URL.
	Device string `json:"device"`

	// === Resolution ===
	Width     int `json:"width"`     // Frame width in pixels
	Height    int `json:"height"`    // Frame height in pixels
	Framerate int `json:"framerate"` // Target FPS
	Quality   int `json:"quality"`   // JPEG quality 1-100

	// Mirror flips frames horizontally before encoding.
	Mirror bool `json:"mirror"`

	// Brightness adjustment (-1.0 to +1.0), applied in software.
	Brightness float64 `json:"brightness"`
}

// Capture limits
const (
	MaxWidth     = 3840
	MaxHeight    = 2160
	MaxFramerate = 120
)

// DefaultConfig returns the 1280x720 capture the demos were tuned for.
func DefaultConfig() Config {
	return Config{
		Device:     "0",
		Width:      1280,
		Height:     720,
		Framerate:  30,
		Quality:    85,
		Mirror:     false,
		Brightness: 0.0,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Device == "" {
		errors = append(errors, "device must not be empty")
	}
	if c.Width < 160 || c.Width > MaxWidth {
		errors = append(errors, fmt.Sprintf("width must be between 160 and %d", MaxWidth))
	}
	if c.Height < 120 || c.Height > MaxHeight {
		errors = append(errors, fmt.Sprintf("height must be between 120 and %d", MaxHeight))
	}
	if c.Framerate < 1 || c.Framerate > MaxFramerate {
		errors = append(errors, fmt.Sprintf("framerate must be between 1 and %d", MaxFramerate))
	}
	if c.Quality < 1 || c.Quality > 100 {
		errors = append(errors, "quality must be between 1 and 100")
	}
	if c.Brightness < -1.0 || c.Brightness > 1.0 {
		errors = append(errors, "brightness must be between -1.0 and 1.0")
	}

	return errors
}

// Capabilities describes what the capture layer accepts.
func Capabilities() map[string]interface{} {
	return map[string]interface{}{
		"max_width":     MaxWidth,
		"max_height":    MaxHeight,
		"max_framerate": MaxFramerate,
		"presets":       PresetNames(),
	}
}
