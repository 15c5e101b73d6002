package camera

import (
	"errors"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Fatalf("default config invalid: %v", errs)
	}
	if cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("default resolution = %dx%d, want 1280x720", cfg.Width, cfg.Height)
	}
}

func TestPresetsValid(t *testing.T) {
	for _, name := range PresetNames() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Errorf("preset %q missing", name)
			continue
		}
		if errs := cfg.Validate(); len(errs) != 0 {
			t.Errorf("preset %q invalid: %v", name, errs)
		}
	}
	if GetPreset("nope") != nil {
		t.Error("unknown preset should be nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errs   int
	}{
		{"ok", func(c *Config) {}, 0},
		{"no device", func(c *Config) { c.Device = "" }, 1},
		{"tiny width", func(c *Config) { c.Width = 10 }, 1},
		{"huge height", func(c *Config) { c.Height = 9999 }, 1},
		{"zero fps", func(c *Config) { c.Framerate = 0 }, 1},
		{"quality and brightness", func(c *Config) { c.Quality = 0; c.Brightness = 2 }, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if got := len(cfg.Validate()); got != tc.errs {
				t.Errorf("got %d errors, want %d", got, tc.errs)
			}
		})
	}
}

func TestManagerApply(t *testing.T) {
	m := NewManager()
	var applied Config
	m.OnConfigChange = func(cfg Config) error {
		applied = cfg
		return nil
	}

	p, err := DecodePatch([]byte(`{"preset":"vga","quality":60,"mirror":true}`))
	if err != nil {
		t.Fatalf("DecodePatch: %v", err)
	}
	got, err := m.Apply(p)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got.Width != 640 || got.Quality != 60 || !got.Mirror {
		t.Errorf("config = %+v", got)
	}
	if applied != got || m.GetConfig() != got {
		t.Errorf("callback saw %+v, want %+v", applied, got)
	}
	if m.Revision() != 1 {
		t.Errorf("revision = %d", m.Revision())
	}

	// Re-applying the same values is not a change.
	if _, err := m.Apply(p); err != nil {
		t.Fatal(err)
	}
	if m.Revision() != 1 {
		t.Errorf("no-op apply bumped revision to %d", m.Revision())
	}
}

func TestManagerRejectsInvalid(t *testing.T) {
	m := NewManager()
	before := m.GetConfig()

	width := 5
	if _, err := m.Apply(Patch{Width: &width}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("width: got %v", err)
	}
	preset := "nope"
	if _, err := m.Apply(Patch{Preset: &preset}); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("preset: got %v", err)
	}
	if _, err := DecodePatch([]byte(`{"zoom":2}`)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("unknown field: got %v", err)
	}
	if m.GetConfig() != before {
		t.Error("rejected update changed config")
	}
}

func TestManagerKeepsConfigWhenReopenFails(t *testing.T) {
	m := NewManager()
	m.OnConfigChange = func(Config) error { return errors.New("device busy") }
	before := m.GetConfig()

	mirror := true
	if _, err := m.Apply(Patch{Mirror: &mirror}); !errors.Is(err, ErrApply) {
		t.Fatalf("got %v", err)
	}
	if m.GetConfig() != before || m.Revision() != 0 {
		t.Error("failed reopen committed the config")
	}
}
