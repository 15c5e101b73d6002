// Package ik drags rig joints towards a pointer with a greedy per-axis
// hill climb, honouring joint limits and plausibility constraints.
package ik

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-mannequin/pkg/constraint"
	"github.com/teslashibe/go-mannequin/pkg/debug"
	"github.com/teslashibe/go-mannequin/pkg/rig"
)

// Drag is the state of one manipulation gesture.
type Drag struct {
	Rig *rig.Rig

	// Joint is the selected joint the anchor belongs to.
	Joint *rig.Joint

	// Anchor is the grabbed point in Joint's local frame.
	Anchor mgl64.Vec3

	// Pointer is the current pointer position in normalized device coordinates.
	Pointer mgl64.Vec2

	// Buttons is the held mouse button mask.
	Buttons int

	Camera Camera
}

// Distance returns the screen distance between the projected anchor and the pointer.
func (d *Drag) Distance() float64 {
	p := d.Camera.Project(d.Joint.WorldPoint(d.Anchor.X(), d.Anchor.Y(), d.Anchor.Z()))
	return d.Pointer.Sub(p).Len()
}

// Solver runs the hill climb.
type Solver struct {
	cfg     Config
	Options Options
}

// NewSolver creates a solver.
func NewSolver(cfg Config, opts Options) *Solver {
	return &Solver{cfg: cfg, Options: opts}
}

// Config returns the solver configuration.
func (s *Solver) Config() Config {
	return s.cfg
}

// Tick runs one frame of the solver: a descending sequence of steps over each
// enabled channel of the active joint, then, when chaining, of each ancestor
// up to the trunk.
func (s *Solver) Tick(d *Drag) {
	if d == nil || d.Joint == nil || d.Buttons == 0 {
		return
	}
	channels := s.Options.Channels(d.Buttons)
	if len(channels) == 0 {
		return
	}

	joint := d.Joint
	if s.Options.Moving() && d.Rig != nil {
		joint = d.Rig.Root()
	}

	for {
		for step := s.cfg.StartStep; step > s.cfg.MinStep; step *= s.cfg.Decay {
			for _, ch := range channels {
				s.Step(d, joint, ch, step)
			}
		}

		joint = joint.Parent()
		if joint == nil || !s.Options.Chain || joint.Role == rig.RolePelvis || joint.Role == rig.RoleTorso {
			break
		}
	}
}

// Step probes both directions of a channel and, if either shortens the
// distance, applies step in the better direction when that also shortens it.
func (s *Solver) Step(d *Drag, joint *rig.Joint, ch Channel, step float64) {
	pos := s.evaluate(d, joint, ch, s.cfg.Probe, false)
	neg := s.evaluate(d, joint, ch, -s.cfg.Probe, false)
	if pos <= 0 && neg <= 0 {
		return
	}
	if pos < neg {
		step = -step
	}
	gain := s.evaluate(d, joint, ch, step, true)
	debug.Trace(debug.Solver, "ik step", "joint", joint.Name, "channel", ch, "step", step, "gain", gain)
}

// evaluate applies delta to a channel and returns how much closer the anchor
// got to the pointer. The change is kept only when keep is set and the
// distance shrank; otherwise the joint is restored.
func (s *Solver) evaluate(d *Drag, joint *rig.Joint, ch Channel, delta float64, keep bool) float64 {
	if joint.Role == rig.RoleWrist && !ch.Move {
		switch ch.Axis {
		case rig.AxisX:
			ch.Axis = rig.AxisZ
		case rig.AxisZ:
			ch.Axis = rig.AxisX
		}
	}

	before := d.Distance()

	shared := joint.Role.Spec().SharesParent && joint.Parent() != nil
	saved := saveJoint(joint)
	var savedParent jointState
	if shared {
		savedParent = saveJoint(joint.Parent())
		s.Turn(joint, ch, delta/2)
		s.Turn(joint.Parent(), ch, delta/2)
	} else {
		s.Turn(joint, ch, delta)
	}

	gain := before - d.Distance()
	if keep && gain > 0 {
		return gain
	}

	saved.restore(joint)
	if shared {
		savedParent.restore(joint.Parent())
	}
	return gain
}

// Turn applies delta to one channel of a joint, subject to its limits.
//
// Translation is never limited. A joint with a plausibility constraint is
// checked with the greedy accept test when constraints are on and otherwise
// moves freely. Every other joint is checked against its per-axis range
// when constraints are on; rigid axes never move.
func (s *Solver) Turn(joint *rig.Joint, ch Channel, delta float64) {
	if ch.Move {
		joint.Position[ch.Axis] += delta
		return
	}

	if joint.Constraint != nil {
		if !s.Options.Constraints {
			joint.ApplyDelta(ch.Axis, delta)
			return
		}
		saved := saveJoint(joint)
		before := joint.Implausibility()
		joint.ApplyDelta(ch.Axis, delta)
		if !constraint.Accept(before, joint.Implausibility(), s.cfg.Epsilon) {
			saved.restore(joint)
		}
		return
	}

	val := joint.Angle(ch.Axis) + delta
	min, max := joint.Limits(ch.Axis)
	if s.Options.Constraints || min == max {
		if val < min-s.cfg.Epsilon && delta < 0 {
			return
		}
		if val > max+s.cfg.Epsilon && delta > 0 {
			return
		}
		if min == max {
			return
		}
	}
	joint.SetAngle(ch.Axis, val)
}

type jointState struct {
	position mgl64.Vec3
	rotation rig.Euler
}

func saveJoint(j *rig.Joint) jointState {
	return jointState{position: j.Position, rotation: j.Rotation}
}

func (s jointState) restore(j *rig.Joint) {
	j.Position = s.position
	j.Rotation = s.rotation
}
