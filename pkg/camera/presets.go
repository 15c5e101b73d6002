package camera

// Preset names accepted by GetPreset and the camera API.
const (
	PresetDefault = "default"
	PresetVGA     = "vga"
	Preset720p    = "720p"
	Preset1080p   = "1080p"
	PresetMirror  = "mirror"
	PresetLive    = "live"
)

// presets are applied to DefaultConfig in listing order.
var presets = []struct {
	name  string
	apply func(*Config)
}{
	{PresetDefault, func(*Config) {}},
	// The detector input is 256x256, so VGA loses nothing but latency.
	{PresetVGA, func(c *Config) { c.Width, c.Height = 640, 480 }},
	{Preset720p, func(*Config) {}},
	{Preset1080p, func(c *Config) { c.Width, c.Height = 1920, 1080 }},
	{PresetMirror, func(c *Config) { c.Mirror = true }},
	// Mirrored VGA at a lower JPEG quality for driving the figure live.
	{PresetLive, func(c *Config) {
		c.Width, c.Height = 640, 480
		c.Quality = 70
		c.Mirror = true
	}},
}

// PresetNames lists the presets in a stable order.
func PresetNames() []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.name
	}
	return names
}

// GetPreset returns the named preset, or nil if there is none.
func GetPreset(name string) *Config {
	for _, p := range presets {
		if p.name == name {
			cfg := DefaultConfig()
			p.apply(&cfg)
			return &cfg
		}
	}
	return nil
}
