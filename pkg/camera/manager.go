package camera

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrUnknownPreset is returned for a patch naming a preset that does not exist.
	ErrUnknownPreset = errors.New("unknown camera preset")
	// ErrInvalidConfig wraps the validation problems of a rejected config.
	ErrInvalidConfig = errors.New("invalid camera config")
	// ErrApply is returned when the capture could not be reopened.
	ErrApply = errors.New("camera reconfiguration failed")
)

// Patch is a partial update to a Config. Preset, when set, replaces the
// whole config before the other fields are applied on top.
type Patch struct {
	Preset     *string  `json:"preset,omitempty"`
	Device     *string  `json:"device,omitempty"`
	Width      *int     `json:"width,omitempty"`
	Height     *int     `json:"height,omitempty"`
	Framerate  *int     `json:"framerate,omitempty"`
	Quality    *int     `json:"quality,omitempty"`
	Mirror     *bool    `json:"mirror,omitempty"`
	Brightness *float64 `json:"brightness,omitempty"`
}

// DecodePatch parses a JSON patch. Unknown fields are rejected.
func DecodePatch(data []byte) (Patch, error) {
	var p Patch
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Patch{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return p, nil
}

// On returns base with the patch applied.
func (p Patch) On(base Config) (Config, error) {
	cfg := base
	if p.Preset != nil {
		preset := GetPreset(*p.Preset)
		if preset == nil {
			return base, fmt.Errorf("%w: %s", ErrUnknownPreset, *p.Preset)
		}
		cfg = *preset
	}
	set(&cfg.Device, p.Device)
	set(&cfg.Width, p.Width)
	set(&cfg.Height, p.Height)
	set(&cfg.Framerate, p.Framerate)
	set(&cfg.Quality, p.Quality)
	set(&cfg.Mirror, p.Mirror)
	set(&cfg.Brightness, p.Brightness)
	return cfg, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Manager owns the live webcam config. Changes are validated, handed to
// OnConfigChange and only then committed, so a capture that fails to reopen
// leaves the previous config in place.
type Manager struct {
	mu       sync.Mutex
	config   Config
	revision uint64

	// OnConfigChange reopens the capture with the new config.
	OnConfigChange func(cfg Config) error
}

// NewManager starts from DefaultConfig.
func NewManager() *Manager {
	return &Manager{config: DefaultConfig()}
}

// GetConfig returns the current config.
func (m *Manager) GetConfig() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// Revision counts committed changes.
func (m *Manager) Revision() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revision
}

// SetConfig replaces the whole config.
func (m *Manager) SetConfig(cfg Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commit(cfg)
}

// Apply patches the current config and returns the result.
func (m *Manager) Apply(p Patch) (Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg, err := p.On(m.config)
	if err != nil {
		return m.config, err
	}
	if err := m.commit(cfg); err != nil {
		return m.config, err
	}
	return cfg, nil
}

// commit is called with mu held. The callback runs under the lock so that
// two updates cannot reopen the capture concurrently.
func (m *Manager) commit(cfg Config) error {
	if problems := cfg.Validate(); len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	if cfg == m.config {
		return nil
	}
	if m.OnConfigChange != nil {
		if err := m.OnConfigChange(cfg); err != nil {
			return fmt.Errorf("%w: %v", ErrApply, err)
		}
	}
	m.config = cfg
	m.revision++
	return nil
}
