package rig

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Figure placement in the scene frame.
const (
	standingHeight = 6.0
)

var unbounded = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}

// Per-finger proportions, thumb first.
var (
	fingerLength = [5]float64{1.2, 0.95, 1, 0.95, 0.8}
	fingerWidth  = [5]float64{1, 0.95, 1, 0.95, 0.8}
	fingerDepth  = [5]float64{1.5, 1, 1, 1, 1}
	fingerMinX   = [5]float64{0, -20, -15, -25, -35}
	fingerMaxX   = [5]float64{50, 35, 15, 15, 20}
	fingerPosX   = [5]float64{-0.3, 0, 0.15, 0.15, 0.03}
	fingerPosY   = [5]float64{0.5, 2.2, 2.3, 2.2, 2.1}
	fingerPosZ   = [5]float64{0.8, 0.7, 0.225, -0.25, -0.7}
)

// New builds a figure of the given kind at its default height and pose.
func New(kind Kind) *Rig {
	return NewWithHeight(kind, kind.DefaultHeight())
}

// NewWithHeight builds a figure of the given kind scaled to height.
func NewWithHeight(kind Kind, height float64) *Rig {
	r := &Rig{
		Kind:     kind,
		Height:   height,
		Feminine: kind == Female,
		Origin:   mgl64.Vec3{0, standingHeight, 0},
		byName:   make(map[string]*Joint),
	}
	r.build()
	r.applyDefaultPose()
	r.applyKind()
	return r
}

// joint creates a joint attached to parent at the default offset, the tip
// of the parent.
func (r *Rig) joint(parent *Joint, name string, role Role, side Side, length float64, extent mgl64.Vec3) *Joint {
	j := &Joint{
		Name:        name,
		Role:        role,
		Side:        side,
		Index:       -1,
		Length:      length,
		imageOffset: mgl64.Vec3{0, length / 2, 0},
	}
	if extent != (mgl64.Vec3{}) {
		j.Shape = &Shape{Radii: extent.Mul(0.5)}
	}
	if parent != nil {
		j.Position = mgl64.Vec3{0, parent.Length, 0}
	}
	return r.add(j, parent)
}

func (r *Rig) build() {
	body := r.joint(nil, "body", RoleBody, Centre, 1, mgl64.Vec3{})
	body.MinRot, body.MaxRot = unbounded.Mul(-1), unbounded
	body.Controls = [3]string{"tilt", "turn", "bend"}

	hipDepth := 5.2
	if r.Feminine {
		hipDepth = 5.7
	}
	pelvis := r.joint(body, "pelvis", RolePelvis, Centre, 4, mgl64.Vec3{})
	pelvis.imageOffset = mgl64.Vec3{}
	pelvis.Shape = &Shape{Center: mgl64.Vec3{-1.5, 0, 0}, Radii: mgl64.Vec3{3, 4, hipDepth}}
	pelvis.MinRot, pelvis.MaxRot = unbounded.Mul(-1), unbounded
	pelvis.Controls = [3]string{"tilt", "turn", "bend"}

	torso := r.joint(pelvis, "torso", RoleTorso, Centre, 16, mgl64.Vec3{})
	torso.Position = mgl64.Vec3{-2, 4, 0}
	torso.Shape = &Shape{Radii: mgl64.Vec3{3.9, 8, 6}}
	torso.MinRot, torso.MaxRot = mgl64.Vec3{-25, -50, -60}, mgl64.Vec3{25, 50, 25}
	torso.Controls = [3]string{"tilt", "turn", "bend"}

	neckLength := 4.0
	if r.Feminine {
		neckLength = 5
	}
	neck := r.joint(torso, "neck", RoleNeck, Centre, neckLength, mgl64.Vec3{2.3, neckLength, 2.3})
	neck.Position = mgl64.Vec3{-1, 15, 0}
	neck.MinRot, neck.MaxRot = mgl64.Vec3{-22.5, -45, -60}, mgl64.Vec3{22.5, 45, 25}
	neck.Controls = [3]string{"tilt", "turn", "nod"}

	head := r.joint(neck, "head", RoleHead, Centre, 4, mgl64.Vec3{})
	head.Position = mgl64.Vec3{1, 3, 0}
	head.Shape = &Shape{Radii: mgl64.Vec3{3, 4, 2.5}}
	head.Scale = 1.5 / (0.5 + r.Height)
	head.MinRot, head.MaxRot = mgl64.Vec3{-22.5, -45, -30}, mgl64.Vec3{22.5, 45, 25}
	head.Controls = [3]string{"tilt", "turn", "nod"}

	for _, side := range []Side{Left, Right} {
		r.buildLeg(pelvis, side)
	}
	for _, side := range []Side{Left, Right} {
		r.buildArm(torso, side)
	}
}

func (r *Rig) buildLeg(pelvis *Joint, side Side) {
	p := sidePrefix(side)
	s := float64(side)

	leg := r.joint(pelvis, p+"leg", RoleLeg, side, 16.4, mgl64.Vec3{4.5, 16.4, 4.5})
	leg.Position = mgl64.Vec3{-1, -3, 4 * s}
	leg.wrapper = Euler{X: math.Pi}
	leg.Controls = [3]string{"straddle", "turn", "raise"}

	knee := r.joint(leg, p+"knee", RoleKnee, side, 14.3, mgl64.Vec3{4.2, 14.3, 4.2})
	knee.MaxRot = mgl64.Vec3{0, 0, 150}
	knee.Controls = [3]string{"", "", "bend"}

	ankle := r.joint(knee, p+"ankle", RoleAnkle, side, 4, mgl64.Vec3{})
	ankle.imageOffset = mgl64.Vec3{}
	ankle.imageRoll = -math.Pi / 2
	ankle.Shape = &Shape{Center: mgl64.Vec3{-2, 2, 0}, Radii: mgl64.Vec3{1.5, 4, 2}}
	ankle.MinRot, ankle.MaxRot = mgl64.Vec3{-25, -30, -70}, mgl64.Vec3{25, 30, 80}
	ankle.Controls = [3]string{"tilt", "turn", "bend"}
}

func (r *Rig) buildArm(torso *Joint, side Side) {
	p := sidePrefix(side)
	s := float64(side)

	shoulder := 7.0
	if r.Feminine {
		shoulder = 6
	}
	arm := r.joint(torso, p+"arm", RoleArm, side, 11, mgl64.Vec3{4, 11, 3})
	arm.Position = mgl64.Vec3{0, 13, s * shoulder}
	arm.wrapper = Euler{X: math.Pi, Y: math.Pi}
	arm.Controls = [3]string{"straddle", "turn", "raise"}

	elbow := r.joint(arm, p+"elbow", RoleElbow, side, 11, mgl64.Vec3{3, 11, 2.5})
	elbow.MaxRot = mgl64.Vec3{0, 0, 150}
	elbow.Controls = [3]string{"", "", "bend"}

	wrist := r.joint(elbow, p+"wrist", RoleWrist, side, 2.5, mgl64.Vec3{1.5, 2.5, 2.5})
	wrist.wrapper = Euler{Y: -s * math.Pi / 2}
	if side == Left {
		wrist.MinRot, wrist.MaxRot = mgl64.Vec3{-20, -90, -90}, mgl64.Vec3{35, 90, 90}
	} else {
		wrist.MinRot, wrist.MaxRot = mgl64.Vec3{-35, -90, -90}, mgl64.Vec3{20, 90, 90}
	}
	wrist.Controls = [3]string{"tilt", "turn", "bend"}

	for n := 0; n < 5; n++ {
		r.buildFinger(wrist, side, n)
	}
}

func (r *Rig) buildFinger(wrist *Joint, side Side, n int) {
	p := sidePrefix(side)
	s := float64(side)
	thumb := n == 0

	stretch, curl := 1.0, 1.0
	if thumb {
		stretch, curl = 1.4, 1.1
	}
	name := fmt.Sprintf("%sfinger_%d", p, n)

	length := 0.8 * fingerLength[n] * stretch
	finger := r.joint(wrist, name, RoleFinger, side, length,
		mgl64.Vec3{0.8 * fingerWidth[n], length, 0.8 * fingerDepth[n]})
	finger.Index = n
	finger.Position = mgl64.Vec3{fingerPosX[n], fingerPosY[n], fingerPosZ[n] * s}

	midLength := 0.7 * fingerLength[n] * curl
	mid := r.joint(finger, name+"_mid", RolePhalange, side, midLength,
		mgl64.Vec3{0.6 * fingerWidth[n], midLength, 0.6 * fingerDepth[n]})
	mid.Index = n

	tipLength := 0.6 * fingerLength[n] * curl
	tip := r.joint(mid, name+"_tip", RolePhalange, side, tipLength,
		mgl64.Vec3{0.5 * fingerWidth[n], tipLength, 0.5 * fingerDepth[n]})
	tip.Index = n

	turn := 0.0
	if thumb {
		turn = -s * 90
	}
	finger.SetAngle(AxisY, turn)

	minX, maxX := fingerMinX[n]*s, fingerMaxX[n]*s
	finger.MinRot = mgl64.Vec3{math.Min(minX, maxX), math.Min(turn, 2*turn), -10}
	finger.MaxRot = mgl64.Vec3{math.Max(minX, maxX), math.Max(turn, 2*turn), 120}
	if thumb {
		finger.MinRot[2], finger.MaxRot[2] = -90, 45
		finger.Controls = [3]string{"straddle", "turn", "bend"}
	} else {
		finger.Controls = [3]string{"straddle", "", "bend"}
	}

	bendMax := 120.0
	if thumb {
		bendMax = 90
	}
	for _, ph := range []*Joint{mid, tip} {
		ph.MaxRot = mgl64.Vec3{0, 0, bendMax}
		ph.Controls = [3]string{"", "", "bend"}
	}
}

// applyDefaultPose sets the relaxed standing pose shared by every figure.
func (r *Rig) applyDefaultPose() {
	set := func(name, motion string, v float64) {
		if err := r.byName[name].SetMotion(motion, v); err != nil {
			panic(err)
		}
	}

	set("body", "turn", -90)
	set("torso", "bend", 2)
	set("head", "nod", -10)

	for _, p := range []string{"l_", "r_"} {
		set(p+"arm", "raise", -5)
		set(p+"arm", "straddle", 7)
		set(p+"elbow", "bend", 15)
		set(p+"wrist", "bend", 5)
		set(p+"finger_0", "straddle", -20)
	}
	for _, p := range []string{"l_", "r_"} {
		for n := 0; n < 5; n++ {
			name := fmt.Sprintf("%sfinger_%d", p, n)
			if n == 0 {
				set(name, "bend", -15)
			} else {
				set(name, "bend", 10)
			}
		}
		for n := 0; n < 5; n++ {
			set(fmt.Sprintf("%sfinger_%d_mid", p, n), "bend", 10)
		}
		for n := 0; n < 5; n++ {
			set(fmt.Sprintf("%sfinger_%d_tip", p, n), "bend", 10)
		}
	}
}

// applyKind applies the per-figure stance on top of the default pose.
func (r *Rig) applyKind() {
	add := func(name, motion string, v float64) {
		if err := r.byName[name].AddMotion(motion, v); err != nil {
			panic(err)
		}
	}
	body := r.Root()

	switch r.Kind {
	case Female:
		body.Position[1] = 2.2
		for _, p := range []string{"l_", "r_"} {
			add(p+"leg", "straddle", -4)
		}
		for _, p := range []string{"l_", "r_"} {
			add(p+"ankle", "tilt", -4)
		}
	case Child:
		body.Position[1] = -12
		for _, p := range []string{"l_", "r_"} {
			add(p+"arm", "straddle", -2)
		}
	default:
		body.Position[1] = 3.8
		for _, p := range []string{"l_", "r_"} {
			add(p+"leg", "straddle", 6)
		}
		for _, p := range []string{"l_", "r_"} {
			add(p+"ankle", "turn", 6)
		}
		for _, p := range []string{"l_", "r_"} {
			add(p+"ankle", "tilt", 6)
		}
	}
}
