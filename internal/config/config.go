// Package config provides configuration helpers for go-mannequin commands.
// Every setting comes from an environment variable with a default.
package config

import (
	"os"
)

// Defaults used when the environment does not say otherwise.
const (
	DefaultPort      = "8181"
	DefaultModelPath = "models/pose_landmark_full.onnx"
	DefaultDevice    = "0"
	DefaultLogLevel  = "info"
	DefaultStaticDir = "./web"
	DefaultServerURL = "ws://localhost:" + DefaultPort + "/ws/landmarks"
	DefaultLibrary   = "data/postures.json"
)

// Env returns the value of key, or def when it is unset or empty.
func Env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Port returns the HTTP port from MANNEQUIN_PORT.
func Port() string {
	return Env("MANNEQUIN_PORT", DefaultPort)
}

// ModelPath returns the pose landmark model from POSE_MODEL_PATH.
func ModelPath() string {
	return Env("POSE_MODEL_PATH", DefaultModelPath)
}

// CameraDevice returns the webcam device from CAMERA_DEVICE.
func CameraDevice() string {
	return Env("CAMERA_DEVICE", DefaultDevice)
}

// LogLevel returns the log level from LOG_LEVEL.
func LogLevel() string {
	return Env("LOG_LEVEL", DefaultLogLevel)
}

// ServerURL returns the landmark websocket endpoint from MANNEQUIN_SERVER.
func ServerURL() string {
	return Env("MANNEQUIN_SERVER", DefaultServerURL)
}

// StaticDir returns the directory of the browser client from
// MANNEQUIN_STATIC.
func StaticDir() string {
	return Env("MANNEQUIN_STATIC", DefaultStaticDir)
}

// ClipsDir returns an extra directory of animation clips from
// MANNEQUIN_CLIPS, empty when unset.
func ClipsDir() string {
	return os.Getenv("MANNEQUIN_CLIPS")
}

// LibraryPath returns the saved posture file from MANNEQUIN_LIBRARY.
func LibraryPath() string {
	return Env("MANNEQUIN_LIBRARY", DefaultLibrary)
}
