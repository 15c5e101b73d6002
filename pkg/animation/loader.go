package animation

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-mannequin/pkg/posture"
	"github.com/teslashibe/go-mannequin/pkg/rig"
)

//go:embed data/*.json
var embeddedClips embed.FS

// LoadEmbedded loads a built-in clip.
func LoadEmbedded(name string) (*Clip, error) {
	data, err := embeddedClips.ReadFile("data/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return Parse(name, data)
}

// clipExts are the file extensions clips are loaded from.
var clipExts = []string{".json", ".yaml", ".yml"}

// LoadFromFile loads a clip from a JSON or YAML file on disk. The clip is
// named after the file.
func LoadFromFile(path string) (*Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clip file: %w", err)
	}
	ext := filepath.Ext(path)
	name := strings.TrimSuffix(filepath.Base(path), ext)
	if ext == ".yaml" || ext == ".yml" {
		return ParseYAML(name, data)
	}
	return Parse(name, data)
}

// LoadFromDirectory loads all clips from a directory.
func LoadFromDirectory(dir string) ([]*Clip, error) {
	var files []string
	for _, ext := range clipExts {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, fmt.Errorf("failed to list clip files: %w", err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	var clips []*Clip
	for _, file := range files {
		clip, err := LoadFromFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

// ListEmbedded returns the names of all built-in clips.
func ListEmbedded() ([]string, error) {
	entries, err := embeddedClips.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded clips: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	return names, nil
}

// Parse decodes and checks a clip file.
func Parse(name string, data []byte) (*Clip, error) {
	var raw ClipData
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidClip, name, err)
	}
	return Compile(name, raw)
}

// ParseYAML decodes a clip written as YAML. The document has the same
// shape as the JSON form.
func ParseYAML(name string, data []byte) (*Clip, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidClip, name, err)
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidClip, name, err)
	}
	return Parse(name, js)
}

// Compile turns clip data into a playable clip, resolving motion sets into
// postures.
func Compile(name string, raw ClipData) (*Clip, error) {
	n := len(raw.Time)
	if n == 0 {
		return nil, fmt.Errorf("%w: %s has no keyframes", ErrInvalidClip, name)
	}
	if !sort.Float64sAreSorted(raw.Time) {
		return nil, fmt.Errorf("%w: %s timestamps are not increasing", ErrInvalidClip, name)
	}

	var keys []posture.Posture
	switch {
	case len(raw.Postures) > 0 && len(raw.Motions) > 0:
		return nil, fmt.Errorf("%w: %s mixes postures and motions", ErrInvalidClip, name)
	case len(raw.Postures) > 0:
		for i, p := range raw.Postures {
			up, err := posture.Upgrade(p)
			if err == nil {
				err = posture.Validate(up)
			}
			if err != nil {
				return nil, fmt.Errorf("%w: %s keyframe %d: %v", ErrInvalidClip, name, i, err)
			}
			keys = append(keys, up)
		}
	default:
		var err error
		if keys, err = resolveMotions(raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidClip, name, err)
		}
	}

	if len(keys) != n {
		return nil, fmt.Errorf("%w: %s has %d timestamps and %d keyframes", ErrInvalidClip, name, n, len(keys))
	}

	return &Clip{
		Name:        name,
		Description: raw.Description,
		Duration:    time.Duration((raw.Time[n-1] - raw.Time[0]) * float64(time.Second)),
		Keyframes:   keys,
		Timestamps:  raw.Time,
	}, nil
}

// resolveMotions poses a fresh figure per keyframe and captures it.
func resolveMotions(raw ClipData) ([]posture.Posture, error) {
	kind := rig.Male
	if raw.Kind != "" {
		var err error
		if kind, err = rig.ParseKind(raw.Kind); err != nil {
			return nil, err
		}
	}

	keys := make([]posture.Posture, 0, len(raw.Motions))
	for i, set := range raw.Motions {
		r := rig.New(kind)
		for key, v := range set {
			dot := strings.LastIndexByte(key, '.')
			if dot <= 0 {
				return nil, fmt.Errorf("keyframe %d: motion %q is not joint.motion", i, key)
			}
			j, err := r.Lookup(key[:dot])
			if err != nil {
				return nil, fmt.Errorf("keyframe %d: %w", i, err)
			}
			if err := j.SetMotion(key[dot+1:], v); err != nil {
				return nil, fmt.Errorf("keyframe %d: %w", i, err)
			}
		}
		keys = append(keys, posture.Capture(r))
	}
	return keys, nil
}
