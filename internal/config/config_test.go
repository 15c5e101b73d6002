package config

import "testing"

func TestEnvDefaults(t *testing.T) {
	tests := []struct {
		name string
		key  string
		get  func() string
		def  string
	}{
		{"port", "MANNEQUIN_PORT", Port, DefaultPort},
		{"model", "POSE_MODEL_PATH", ModelPath, DefaultModelPath},
		{"device", "CAMERA_DEVICE", CameraDevice, DefaultDevice},
		{"log level", "LOG_LEVEL", LogLevel, DefaultLogLevel},
		{"server", "MANNEQUIN_SERVER", ServerURL, DefaultServerURL},
		{"static", "MANNEQUIN_STATIC", StaticDir, DefaultStaticDir},
		{"clips", "MANNEQUIN_CLIPS", ClipsDir, ""},
		{"library", "MANNEQUIN_LIBRARY", LibraryPath, DefaultLibrary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, "")
			if got := tt.get(); got != tt.def {
				t.Errorf("unset %s = %q, want %q", tt.key, got, tt.def)
			}

			t.Setenv(tt.key, "custom")
			if got := tt.get(); got != "custom" {
				t.Errorf("%s = %q, want custom", tt.key, got)
			}
		})
	}
}

func TestDefaultServerURL(t *testing.T) {
	if DefaultServerURL != "ws://localhost:8181/ws/landmarks" {
		t.Errorf("DefaultServerURL = %q", DefaultServerURL)
	}
}
