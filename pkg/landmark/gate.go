package landmark

import "sync"

// FrameGate lets a frame through only when its timestamp differs from the
// last one let through, so a detector runs at most once per video frame.
type FrameGate struct {
	mu   sync.Mutex
	last int64
	seen bool
}

// Admit reports whether a frame with the given timestamp should be processed
// and records it when it is.
func (g *FrameGate) Admit(ts int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seen && ts == g.last {
		return false
	}
	g.last = ts
	g.seen = true
	return true
}

// Reset forgets the last timestamp.
func (g *FrameGate) Reset() {
	g.mu.Lock()
	g.seen = false
	g.mu.Unlock()
}
