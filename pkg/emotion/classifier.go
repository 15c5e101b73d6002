package emotion

import (
	"sync"

	"github.com/teslashibe/go-mannequin/pkg/debug"
	"github.com/teslashibe/go-mannequin/pkg/landmark"
)

// Config holds classifier configuration.
type Config struct {
	Width  float64 // Frame width in pixels
	Height float64 // Frame height in pixels
}

// DefaultConfig matches the 1280x720 webcam capture.
func DefaultConfig() Config {
	return Config{Width: 1280, Height: 720}
}

// Result is the classification of one pose.
type Result struct {
	// Label is empty when no rule matched
	Label   string  `json:"label"`
	Variant int     `json:"variant,omitempty"`
	Color   Color   `json:"color"`
	Polygon []Point `json:"polygon,omitempty"`
	// Points are the projected landmarks keyed by index
	Points map[int]Point `json:"points,omitempty"`
	// Hull is the active-joint overlay
	Hull []Point `json:"hull,omitempty"`
}

// Matched reports whether a rule fired.
func (r Result) Matched() bool { return r.Label != "" }

// Classify runs the rule table over one skeleton.
func Classify(s *Skeleton) Result {
	res := Result{Points: s.Points(), Hull: ActiveHull(s)}
	for _, rule := range Rules {
		if !rule.Match(s) {
			continue
		}
		res.Label = rule.Label
		res.Variant = rule.Variant
		res.Color = rule.Color
		res.Polygon = make([]Point, len(rule.Highlight))
		for i, idx := range rule.Highlight {
			res.Polygon[i] = s.At(idx)
		}
		return res
	}
	return res
}

// Classifier classifies landmark frames and remembers the latest result.
// With several people in view the last pose decides, and a frame without
// poses keeps the previous result.
type Classifier struct {
	cfg  Config
	mu   sync.RWMutex
	last Result
}

// NewClassifier creates a classifier for frames of the configured size.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// ClassifyFrame classifies every pose of f and returns one result per pose.
// Frame dimensions override the configured ones when set.
func (c *Classifier) ClassifyFrame(f landmark.Frame) ([]Result, error) {
	w, h := c.cfg.Width, c.cfg.Height
	if f.Width > 0 && f.Height > 0 {
		w, h = float64(f.Width), float64(f.Height)
	}

	results := make([]Result, 0, len(f.Poses))
	for _, p := range f.Poses {
		s, err := NewSkeleton(p, w, h)
		if err != nil {
			return nil, err
		}
		results = append(results, Classify(s))
	}

	if n := len(results); n > 0 {
		c.mu.Lock()
		c.last = results[n-1]
		c.mu.Unlock()
		debug.Trace(debug.Landmarks, "emotion", "poses", n, "label", results[n-1].Label)
	}
	return results, nil
}

// Last returns the most recent result.
func (c *Classifier) Last() Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}
