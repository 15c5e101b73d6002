package ik

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-mannequin/pkg/constraint"
	"github.com/teslashibe/go-mannequin/pkg/rig"
)

func newRig() *rig.Rig {
	r := rig.New(rig.Male)
	constraint.Attach(r, constraint.DefaultConfig())
	return r
}

func newDrag(r *rig.Rig, joint string, anchor mgl64.Vec3) *Drag {
	return &Drag{
		Rig:     r,
		Joint:   r.Get(joint),
		Anchor:  anchor,
		Buttons: ButtonPrimary,
		Camera:  DefaultCamera(),
	}
}

// pointerAfter returns where the anchor of d would appear after mutate is
// applied to a fresh copy of the rig.
func pointerAfter(d *Drag, mutate func(r *rig.Rig)) mgl64.Vec2 {
	r := newRig()
	r.Restore(d.Rig.Snapshot())
	mutate(r)
	a := d.Anchor
	return d.Camera.Project(r.Get(d.Joint.Name).WorldPoint(a.X(), a.Y(), a.Z()))
}

func TestCameraProjectsTargetToCentre(t *testing.T) {
	c := DefaultCamera()
	got := c.Project(c.Target)
	if math.Abs(got.X()) > 1e-9 || math.Abs(got.Y()) > 1e-9 {
		t.Errorf("Project(target) = %v, want origin", got)
	}
}

func TestCameraRay(t *testing.T) {
	c := DefaultCamera()
	ray := c.Ray(mgl64.Vec2{0, 0})
	if !ray.Direction.ApproxEqualThreshold(mgl64.Vec3{0, 0, -1}, 1e-9) {
		t.Errorf("direction = %v, want -z", ray.Direction)
	}

	p := mgl64.Vec3{10, -20, 5}
	back := c.Ray(c.Project(p))
	toP := p.Sub(back.Origin).Normalize()
	if !toP.ApproxEqualThreshold(back.Direction, 1e-6) {
		t.Errorf("ray through projection misses the point: %v vs %v", toP, back.Direction)
	}
}

func TestCameraValidate(t *testing.T) {
	c := DefaultCamera()
	if err := c.Validate(); err != nil {
		t.Errorf("default camera invalid: %v", err)
	}
	c.Near = 0
	if err := c.Validate(); err == nil {
		t.Error("expected error for zero near plane")
	}
}

func TestChannels(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		buttons int
		want    []string
	}{
		{"primary button", Options{}, ButtonPrimary, []string{"z"}},
		{"secondary button", Options{}, ButtonSecondary, []string{"x"}},
		{"all buttons", Options{}, 0x7, []string{"z", "x", "y"}},
		{"toggle wins", Options{RotY: true}, ButtonPrimary, []string{"y"}},
		{"move", Options{MovZ: true}, ButtonPrimary, []string{"position.z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.opts.Channels(tt.buttons)
			if len(got) != len(tt.want) {
				t.Fatalf("channels = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i].String() != tt.want[i] {
					t.Errorf("channel %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSetControlExclusive(t *testing.T) {
	o := DefaultOptions()
	if err := o.SetControl("rot_x", true); err != nil {
		t.Fatal(err)
	}
	if err := o.SetControl("mov_y", true); err != nil {
		t.Fatal(err)
	}
	if o.RotX || !o.MovY {
		t.Errorf("options = %+v, want only mov_y", o)
	}
	if err := o.SetControl("chain", false); err != nil || o.Chain || !o.MovY {
		t.Errorf("chain toggle affected axes: %+v", o)
	}
	if err := o.SetControl("spin", true); err == nil {
		t.Error("expected error for unknown control")
	}
}

func TestTurnRigidAxis(t *testing.T) {
	for _, constraints := range []bool{true, false} {
		s := NewSolver(DefaultConfig(), Options{Constraints: constraints})
		r := newRig()
		knee := r.Get("l_knee")

		before := knee.EulerXYZ()
		s.Turn(knee, Channel{Axis: rig.AxisX}, 10)
		s.Turn(knee, Channel{Axis: rig.AxisX}, -10)

		if after := knee.EulerXYZ(); !after.ApproxEqualThreshold(before, 1e-9) {
			t.Errorf("constraints=%v: rigid axis moved from %v to %v", constraints, before, after)
		}
	}
}

func TestTurnBoxLimit(t *testing.T) {
	s := NewSolver(DefaultConfig(), DefaultOptions())
	r := newRig()
	torso := r.Get("torso")
	torso.ResetPose()
	torso.SetAngle(rig.AxisZ, 25)

	s.Turn(torso, Channel{Axis: rig.AxisZ}, 1)
	if got := torso.Angle(rig.AxisZ); math.Abs(got-25) > 1e-9 {
		t.Errorf("pushed past max: z = %v", got)
	}

	s.Turn(torso, Channel{Axis: rig.AxisZ}, -1)
	if got := torso.Angle(rig.AxisZ); math.Abs(got-24) > 1e-9 {
		t.Errorf("move back inside rejected: z = %v", got)
	}
}

func TestTurnBoxLimitDisabled(t *testing.T) {
	s := NewSolver(DefaultConfig(), Options{})
	r := newRig()
	torso := r.Get("torso")
	torso.ResetPose()
	torso.SetAngle(rig.AxisZ, 25)

	s.Turn(torso, Channel{Axis: rig.AxisZ}, 10)
	if got := torso.Angle(rig.AxisZ); math.Abs(got-35) > 1e-9 {
		t.Errorf("z = %v, want 35 with constraints off", got)
	}
}

func TestTurnConstraintSupersedesBox(t *testing.T) {
	r := newRig()
	leg := r.Get("r_leg")

	on := NewSolver(DefaultConfig(), DefaultOptions())
	on.Turn(leg, Channel{Axis: rig.AxisZ}, -90)
	if leg.Implausibility() != 0 {
		t.Errorf("implausible change accepted: %v", leg.Implausibility())
	}

	// leg limits are a zero box, but the constraint allows a forward raise
	on.Turn(leg, Channel{Axis: rig.AxisZ}, 30)
	if got := leg.Angle(rig.AxisZ); math.Abs(got-30) > 1e-6 {
		t.Errorf("plausible raise rejected: z = %v", got)
	}

	off := NewSolver(DefaultConfig(), Options{})
	off.Turn(leg, Channel{Axis: rig.AxisZ}, -120)
	if leg.Implausibility() == 0 {
		t.Error("constraints off should allow any change")
	}
}

func TestTurnMove(t *testing.T) {
	s := NewSolver(DefaultConfig(), DefaultOptions())
	r := newRig()
	body := r.Root()
	y := body.Position.Y()

	s.Turn(body, Channel{Axis: rig.AxisY, Move: true}, 2.5)
	if got := body.Position.Y(); got != y+2.5 {
		t.Errorf("y = %v, want %v", got, y+2.5)
	}
}

func TestTickWithoutSelectionIsNoop(t *testing.T) {
	s := NewSolver(DefaultConfig(), DefaultOptions())
	r := newRig()
	before := r.Snapshot()

	s.Tick(nil)
	s.Tick(&Drag{Rig: r, Buttons: ButtonPrimary, Camera: DefaultCamera()})

	if !before.Equal(r.Snapshot(), 0) {
		t.Error("rig changed without a selection")
	}
}

func TestTickImprovesDistance(t *testing.T) {
	for _, chain := range []bool{false, true} {
		r := newRig()
		d := newDrag(r, "r_elbow", mgl64.Vec3{0, 11, 0})
		d.Pointer = pointerAfter(d, func(r *rig.Rig) {
			r.Get("r_elbow").ApplyDelta(rig.AxisZ, 20)
		})

		s := NewSolver(DefaultConfig(), Options{Constraints: true, Chain: chain})
		d0 := d.Distance()
		s.Tick(d)
		d1 := d.Distance()

		if d1 >= d0 {
			t.Errorf("chain=%v: distance %v -> %v, want decrease", chain, d0, d1)
		}
	}
}

func TestTickNeverIncreasesDistance(t *testing.T) {
	pointers := []mgl64.Vec2{{0.5, 0.5}, {-0.8, 0.1}, {0, -0.9}, {0.05, 0.02}}
	joints := []string{"l_arm", "r_wrist", "head", "l_knee", "l_finger_1_tip", "torso"}

	for _, name := range joints {
		for _, p := range pointers {
			r := newRig()
			d := newDrag(r, name, mgl64.Vec3{0.5, 1, 0.2})
			d.Pointer = p
			d.Buttons = 0x7

			s := NewSolver(DefaultConfig(), DefaultOptions())
			d0 := d.Distance()
			s.Tick(d)
			if d1 := d.Distance(); d1 > d0+1e-12 {
				t.Errorf("%s pointer %v: distance %v -> %v", name, p, d0, d1)
			}
		}
	}
}

func TestHeadDeltaSplitWithNeck(t *testing.T) {
	r := newRig()
	head, neck := r.Get("head"), r.Get("neck")
	d := newDrag(r, "head", mgl64.Vec3{2, 2, 0})
	d.Pointer = pointerAfter(d, func(r *rig.Rig) {
		r.Get("head").ApplyDelta(rig.AxisZ, 5)
		r.Get("neck").ApplyDelta(rig.AxisZ, 5)
	})

	s := NewSolver(DefaultConfig(), Options{})
	h0, n0 := head.Angle(rig.AxisZ), neck.Angle(rig.AxisZ)
	gain := s.evaluate(d, head, Channel{Axis: rig.AxisZ}, 10, true)
	if gain <= 0 {
		t.Fatalf("gain = %v, want positive", gain)
	}

	dh, dn := head.Angle(rig.AxisZ)-h0, neck.Angle(rig.AxisZ)-n0
	if math.Abs(dh-5) > 1e-9 || math.Abs(dn-5) > 1e-9 {
		t.Errorf("head moved %v, neck moved %v, want 5 each", dh, dn)
	}
}

func TestHeadRevertRestoresNeck(t *testing.T) {
	r := newRig()
	head, neck := r.Get("head"), r.Get("neck")
	d := newDrag(r, "head", mgl64.Vec3{2, 2, 0})
	d.Pointer = d.Camera.Project(head.WorldPoint(2, 2, 0))

	s := NewSolver(DefaultConfig(), Options{})
	h0, n0 := head.Rotation, neck.Rotation
	if gain := s.evaluate(d, head, Channel{Axis: rig.AxisZ}, 10, true); gain > 0 {
		t.Fatalf("gain = %v, moving away from the pointer cannot improve", gain)
	}
	if head.Rotation != h0 || neck.Rotation != n0 {
		t.Error("revert did not restore both head and neck")
	}
}

func TestWristAxesSwapped(t *testing.T) {
	r := newRig()
	wrist := r.Get("l_wrist")
	wrist.ResetPose()
	d := newDrag(r, "l_wrist", mgl64.Vec3{0, 2.5, 0})
	d.Pointer = pointerAfter(d, func(r *rig.Rig) {
		r.Get("l_wrist").ApplyDelta(rig.AxisZ, 10)
	})

	s := NewSolver(DefaultConfig(), Options{})
	if gain := s.evaluate(d, wrist, Channel{Axis: rig.AxisX}, 10, true); gain <= 0 {
		t.Fatalf("gain = %v, want positive", gain)
	}
	if got := wrist.Angle(rig.AxisZ); math.Abs(got-10) > 1e-9 {
		t.Errorf("wrist z = %v, want 10", got)
	}
	if got := wrist.Angle(rig.AxisX); math.Abs(got) > 1e-9 {
		t.Errorf("wrist x = %v, want 0", got)
	}
}

func TestTickMovesRootWhenTranslating(t *testing.T) {
	r := newRig()
	d := newDrag(r, "l_arm", mgl64.Vec3{0, 5, 0})
	d.Pointer = pointerAfter(d, func(r *rig.Rig) {
		r.Root().Position[0] += 4
	})

	s := NewSolver(DefaultConfig(), Options{MovX: true, Constraints: true})
	x0 := r.Root().Position.X()
	arm := r.Get("l_arm").Rotation
	s.Tick(d)

	if r.Root().Position.X() <= x0 {
		t.Errorf("root x = %v, want > %v", r.Root().Position.X(), x0)
	}
	if r.Get("l_arm").Rotation != arm {
		t.Error("selected joint rotated while translating")
	}
}

func TestSessionLifecycle(t *testing.T) {
	r := newRig()
	cam := DefaultCamera()
	sess := NewSession(NewSolver(DefaultConfig(), DefaultOptions()), &cam)

	if sess.State() != Idle || sess.Tick() {
		t.Fatal("new session should be idle")
	}

	center := mgl64.TransformCoordinate(mgl64.Vec3{}, r.Get("head").ImageWorld())
	p := cam.Project(center)

	hit, ok := sess.PointerDown([]*rig.Rig{r}, Pointer{X: p.X(), Y: p.Y(), Buttons: ButtonPrimary})
	if !ok || hit != r {
		t.Fatal("expected pointer down to hit the rig")
	}
	if sess.State() != Dragging {
		t.Errorf("state = %s, want dragging", sess.State())
	}
	if r.Selected() == nil || r.Selected().Name != "head" {
		t.Errorf("selected = %v, want head", r.Selected())
	}
	if g := sess.Gauge(); g == nil || !g.Visible {
		t.Error("expected a visible gauge")
	}

	sess.PointerMove(Pointer{X: p.X() + 0.05, Y: p.Y(), Buttons: ButtonPrimary})
	if !sess.Tick() {
		t.Error("tick should run while dragging")
	}

	sess.PointerUp()
	if sess.State() != Idle || r.Selected() != nil || sess.Gauge() != nil {
		t.Error("pointer up should return to idle and clear the selection")
	}
}

func TestSessionMiss(t *testing.T) {
	r := newRig()
	cam := DefaultCamera()
	sess := NewSession(NewSolver(DefaultConfig(), DefaultOptions()), &cam)

	if _, ok := sess.PointerDown([]*rig.Rig{r}, Pointer{X: 0.99, Y: 0.99}); ok {
		t.Error("expected miss in the corner")
	}
	if sess.State() != Idle {
		t.Error("miss should stay idle")
	}
}

func TestGaugeOrientation(t *testing.T) {
	r := newRig()
	ankle := r.Get("l_ankle")

	g := NewGauge(ankle, Options{})
	if g.OffsetY != 2 {
		t.Errorf("ankle gauge offset = %v, want 2", g.OffsetY)
	}
	g.Orient(ankle, Options{}, ButtonSecondary)
	if g.Rotation[1] != math.Pi/2 || g.Rotation[2] != math.Pi {
		t.Errorf("rotation = %v", g.Rotation)
	}

	if NewGauge(ankle, Options{MovX: true}).Visible {
		t.Error("gauge should hide while translating")
	}
}
