// Package constraint scores joint configurations that cannot be described by
// independent per-axis limits: the hip, the shoulder and the wrist relative
// to the forearm.
package constraint

import (
	"github.com/teslashibe/go-mannequin/pkg/rig"
)

// Hip keeps the thigh out of the pelvis and limits its turn.
type Hip struct {
	cfg Config
}

// Implausibility implements rig.Constraint.
func (h Hip) Implausibility(leg *rig.Joint) float64 {
	result := 0.0

	p := leg.Bumper(h.cfg.HipBumper, 0, 0)
	if p.X() < 0 {
		result += -p.X()
	}

	return result + excess(leg.Angle(rig.AxisY), h.cfg.HipTurnLimit)
}

// Shoulder keeps the upper arm from crossing the torso or reaching behind the
// back, and limits its turn.
type Shoulder struct {
	cfg Config
}

// Implausibility implements rig.Constraint.
func (s Shoulder) Implausibility(arm *rig.Joint) float64 {
	result := 0.0
	side := float64(arm.Side)

	p := arm.Bumper(0, s.cfg.ShoulderReach, 0)
	if p.Z()*side < -s.cfg.ShoulderClearance {
		result += -s.cfg.ShoulderClearance - p.Z()*side
	}
	if p.X() < s.cfg.ShoulderBack && p.Y() > 0 {
		result = p.Y()
	}

	return result + excess(arm.Angle(rig.AxisY), s.cfg.ShoulderTurnLimit)
}

// Wrist keeps the hand roughly aligned with the forearm.
type Wrist struct{}

// Implausibility implements rig.Constraint.
func (Wrist) Implausibility(wrist *rig.Joint) float64 {
	elbow := wrist.Parent()
	if elbow == nil {
		return 0
	}
	result := 0.0

	_, wy, wz := wrist.Basis()
	_, ey, ez := elbow.Basis()

	if d := wy.Dot(ey); d < 0 {
		result += -d
	}
	if d := wz.Dot(ez); d < 0 {
		result += -d
	}
	return result
}

// excess returns how far angle lies outside ±limit.
func excess(angle, limit float64) float64 {
	switch {
	case angle > limit:
		return angle - limit
	case angle < -limit:
		return -limit - angle
	}
	return 0
}

// Attach installs the evaluators on every hip, shoulder and wrist of r.
func Attach(r *rig.Rig, cfg Config) {
	for _, j := range r.Joints() {
		if c := For(j.Role, cfg); c != nil {
			j.Constraint = c
		}
	}
}

// For returns the evaluator for a role, nil when the role uses box limits.
func For(role rig.Role, cfg Config) rig.Constraint {
	switch role {
	case rig.RoleLeg:
		return Hip{cfg: cfg}
	case rig.RoleArm:
		return Shoulder{cfg: cfg}
	case rig.RoleWrist:
		return Wrist{}
	}
	return nil
}

// Accept reports whether a change moving the score from before to after
// should be kept: it must land inside the plausible region or strictly
// improve on the previous score.
func Accept(before, after, eps float64) bool {
	return after <= eps || after < before-eps
}
