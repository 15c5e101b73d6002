package constraint

import (
	"math"
	"testing"

	"github.com/teslashibe/go-mannequin/pkg/rig"
)

func newRig(kind rig.Kind) *rig.Rig {
	r := rig.New(kind)
	Attach(r, DefaultConfig())
	return r
}

func TestAttach(t *testing.T) {
	r := newRig(rig.Male)

	count := 0
	for _, j := range r.Joints() {
		if j.Constraint != nil {
			count++
		}
	}
	if count != 6 {
		t.Errorf("constrained joints = %d, want 6", count)
	}
	if r.Get("l_knee").Constraint != nil {
		t.Error("knee should use box limits")
	}
}

func TestDefaultPoseIsPlausible(t *testing.T) {
	for _, kind := range []rig.Kind{rig.Male, rig.Female, rig.Child} {
		r := newRig(kind)
		for _, name := range []string{"l_leg", "r_leg", "l_arm", "r_arm", "l_wrist", "r_wrist"} {
			if got := r.Get(name).Implausibility(); got != 0 {
				t.Errorf("%s %s implausibility = %v, want 0", kind, name, got)
			}
		}
	}
}

func TestHip(t *testing.T) {
	tests := []struct {
		name    string
		axis    rig.Axis
		angle   float64
		wantPos bool
	}{
		{"forward raise", rig.AxisZ, 45, false},
		{"backward raise", rig.AxisZ, -90, true},
		{"small turn", rig.AxisY, 30, false},
		{"over turn", rig.AxisY, 70, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(rig.Male)
			leg := r.Get("r_leg")
			leg.SetAngle(tt.axis, tt.angle)

			got := leg.Implausibility()
			if (got > 0) != tt.wantPos {
				t.Errorf("implausibility = %v, want positive=%v", got, tt.wantPos)
			}
		})
	}
}

func TestHipTurnExcess(t *testing.T) {
	r := newRig(rig.Male)
	leg := r.Get("l_leg")
	leg.SetAngle(rig.AxisY, 70)

	if got := leg.Implausibility(); math.Abs(got-10) > 1e-6 {
		t.Errorf("implausibility = %v, want 10", got)
	}
}

func TestShoulderAcrossChest(t *testing.T) {
	for _, name := range []string{"l_arm", "r_arm"} {
		r := newRig(rig.Male)
		arm := r.Get(name)
		if err := arm.SetMotion("straddle", -40); err != nil {
			t.Fatal(err)
		}
		if got := arm.Implausibility(); got <= 0 {
			t.Errorf("%s implausibility = %v, want > 0", name, got)
		}
	}
}

func TestShoulderTurnExcess(t *testing.T) {
	r := newRig(rig.Male)
	arm := r.Get("r_arm")
	arm.ResetPose()
	arm.SetAngle(rig.AxisY, 100)

	if got := arm.Implausibility(); got < 10-1e-6 {
		t.Errorf("implausibility = %v, want >= 10", got)
	}
}

func TestWristTwist(t *testing.T) {
	r := newRig(rig.Male)
	wrist := r.Get("l_wrist")
	wrist.ResetPose()
	wrist.SetAngle(rig.AxisY, 120)

	if got := wrist.Implausibility(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("implausibility = %v, want 0.5", got)
	}
}

func TestAccept(t *testing.T) {
	eps := DefaultConfig().Epsilon

	tests := []struct {
		name          string
		before, after float64
		want          bool
	}{
		{"stays plausible", 0, 0, true},
		{"becomes implausible", 0, 1, false},
		{"improves", 5, 4, true},
		{"worsens", 4, 5, false},
		{"no change while violated", 3, 3, false},
		{"improvement within epsilon", 3, 3 - eps/2, false},
		{"fixed", 3, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Accept(tt.before, tt.after, eps); got != tt.want {
				t.Errorf("Accept(%v, %v) = %v, want %v", tt.before, tt.after, got, tt.want)
			}
		})
	}
}
