package ik

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-mannequin/pkg/rig"
)

// State is the gesture state of a Session.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Pointer is a pointer event in normalized device coordinates.
type Pointer struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Buttons int     `json:"buttons"`
}

// NDC returns the pointer position as a vector.
func (p Pointer) NDC() mgl64.Vec2 {
	return mgl64.Vec2{p.X, p.Y}
}

// Session tracks one pointer gesture: Idle until a pointer press lands on a
// joint, Dragging until release. A session is driven from a single goroutine.
type Session struct {
	solver *Solver
	camera *Camera

	state State
	drag  *Drag
	gauge *Gauge
}

// NewSession creates an idle session using camera for projection.
func NewSession(solver *Solver, camera *Camera) *Session {
	return &Session{solver: solver, camera: camera}
}

// State returns the current gesture state.
func (s *Session) State() State { return s.state }

// Drag returns the active drag, nil when idle.
func (s *Session) Drag() *Drag { return s.drag }

// Gauge returns the gauge of the selected joint, nil when idle.
func (s *Session) Gauge() *Gauge { return s.gauge }

// Solver returns the solver driving the session.
func (s *Session) Solver() *Solver { return s.solver }

// PointerDown hit-tests the rigs and, on a hit, selects the joint and starts
// dragging. It returns the rig that was hit.
func (s *Session) PointerDown(rigs []*rig.Rig, p Pointer) (*rig.Rig, bool) {
	s.release()

	ray := s.camera.Ray(p.NDC())
	var (
		best    rig.Hit
		bestRig *rig.Rig
	)
	for _, r := range rigs {
		hit, ok := r.HitTest(ray)
		if ok && (bestRig == nil || hit.Distance < best.Distance) {
			best, bestRig = hit, r
		}
	}
	if bestRig == nil {
		return nil, false
	}

	bestRig.Select(best.Joint)
	s.drag = &Drag{
		Rig:     bestRig,
		Joint:   best.Joint,
		Anchor:  best.Joint.LocalPoint(best.Point),
		Pointer: p.NDC(),
		Buttons: buttons(p.Buttons),
		Camera:  *s.camera,
	}
	s.gauge = NewGauge(best.Joint, s.solver.Options)
	s.state = Dragging
	return bestRig, true
}

// PointerMove updates the pointer while dragging.
func (s *Session) PointerMove(p Pointer) {
	if s.drag == nil {
		return
	}
	s.drag.Pointer = p.NDC()
	s.drag.Buttons = buttons(p.Buttons)
}

// PointerUp ends the gesture and clears the selection.
func (s *Session) PointerUp() {
	s.release()
}

// Tick runs one solver frame. It reports whether the solver ran.
func (s *Session) Tick() bool {
	if s.state != Dragging || s.drag == nil {
		return false
	}
	s.drag.Camera = *s.camera
	if s.gauge != nil {
		s.gauge.Orient(s.drag.Joint, s.solver.Options, s.drag.Buttons)
	}
	s.solver.Tick(s.drag)
	return true
}

// Forget ends the gesture if it is manipulating r.
func (s *Session) Forget(r *rig.Rig) {
	if s.drag != nil && s.drag.Rig == r {
		s.release()
	}
}

func (s *Session) release() {
	if s.drag != nil && s.drag.Rig != nil {
		s.drag.Rig.Deselect()
	}
	s.drag = nil
	s.gauge = nil
	s.state = Idle
}

// buttons treats an event without a button mask as a primary press.
func buttons(b int) int {
	if b == 0 {
		return ButtonPrimary
	}
	return b
}
