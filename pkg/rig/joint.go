package rig

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Side is the signed body side a joint belongs to.
type Side int

const (
	Left   Side = -1
	Centre Side = 0
	Right  Side = 1
)

// String returns "left", "right" or "centre".
func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "centre"
	}
}

// Constraint scores how far a joint is from an anatomically valid
// configuration. Zero means plausible.
type Constraint interface {
	Implausibility(j *Joint) float64
}

// Joint is one node of the rig hierarchy.
//
// The world transform of a joint is parentWrapper * T(Position) * R(Rotation) * S(Scale).
// Children hang off the wrapper frame, which adds a fixed rotation on top of
// the joint frame. The visual image sits inside the wrapper.
type Joint struct {
	Name  string
	Role  Role
	Side  Side
	Index int // finger number, -1 for non-finger joints

	Position mgl64.Vec3
	Rotation Euler
	Scale    float64

	// MinRot and MaxRot are per-axis limits in degrees. Equal values
	// make the axis rigid.
	MinRot mgl64.Vec3
	MaxRot mgl64.Vec3

	// Length is the distance from this joint to where its children attach.
	Length float64

	Shape      *Shape
	Constraint Constraint

	// Controls holds the UI motion name per axis, empty when the axis is
	// not exposed.
	Controls [3]string

	wrapper     Euler
	imageOffset mgl64.Vec3
	imageRoll   float64

	rig      *Rig
	parent   *Joint
	children []*Joint
	selected bool
}

// Parent returns the parent joint, nil for the root.
func (j *Joint) Parent() *Joint { return j.parent }

// Children returns the direct children in construction order.
func (j *Joint) Children() []*Joint { return j.children }

// Rig returns the rig the joint belongs to.
func (j *Joint) Rig() *Rig { return j.rig }

// Local returns the joint transform relative to the parent's wrapper frame.
func (j *Joint) Local() mgl64.Mat4 {
	s := j.Scale
	if s == 0 {
		s = 1
	}
	return mgl64.Translate3D(j.Position.X(), j.Position.Y(), j.Position.Z()).
		Mul4(j.Rotation.Matrix().Mat4()).
		Mul4(mgl64.Scale3D(s, s, s))
}

// World returns the joint transform in the scene frame.
func (j *Joint) World() mgl64.Mat4 {
	if j.parent == nil {
		base := mgl64.Ident4()
		if j.rig != nil {
			base = j.rig.Transform()
		}
		return base.Mul4(j.Local())
	}
	return j.parent.WrapperWorld().Mul4(j.Local())
}

// WrapperWorld returns the frame children attach to.
func (j *Joint) WrapperWorld() mgl64.Mat4 {
	return j.World().Mul4(j.wrapper.Matrix().Mat4())
}

// ImageWorld returns the frame of the joint's visual shape.
func (j *Joint) ImageWorld() mgl64.Mat4 {
	m := j.WrapperWorld().Mul4(mgl64.Translate3D(j.imageOffset.X(), j.imageOffset.Y(), j.imageOffset.Z()))
	if j.imageRoll != 0 {
		m = m.Mul4(mgl64.HomogRotate3DZ(j.imageRoll))
	}
	return m
}

// WorldPoint maps a point from the joint's local frame to the scene frame.
func (j *Joint) WorldPoint(x, y, z float64) mgl64.Vec3 {
	return mgl64.TransformCoordinate(mgl64.Vec3{x, y, z}, j.World())
}

// LocalPoint maps a scene-frame point into the joint's local frame.
func (j *Joint) LocalPoint(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, j.World().Inv())
}

// Bumper maps a point of this joint's image into the image frame of the
// parent joint. Root joints return the point in the scene frame.
func (j *Joint) Bumper(x, y, z float64) mgl64.Vec3 {
	p := mgl64.TransformCoordinate(mgl64.Vec3{x, y, z}, j.ImageWorld())
	if j.parent == nil {
		return p
	}
	return mgl64.TransformCoordinate(p, j.parent.ImageWorld().Inv())
}

// Basis returns the world-space directions of the joint's local axes.
func (j *Joint) Basis() (x, y, z mgl64.Vec3) {
	m := j.World()
	return m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
}

// Angle reorders the rotation to the canonical order for the axis and
// returns that axis angle in degrees.
func (j *Joint) Angle(a Axis) float64 {
	j.Rotation = j.Rotation.Reorder(canonicalOrder(a))
	return Degrees(j.Rotation.Get(a))
}

// SetAngle reorders the rotation to the canonical order for the axis and
// writes that axis angle in degrees.
func (j *Joint) SetAngle(a Axis, deg float64) {
	j.Rotation = j.Rotation.Reorder(canonicalOrder(a))
	j.Rotation.Set(a, Radians(deg))
}

// ApplyDelta adds deg to the axis angle. Limits are not enforced.
func (j *Joint) ApplyDelta(a Axis, deg float64) {
	j.SetAngle(a, j.Angle(a)+deg)
}

// ResetPose zeroes the local rotation.
func (j *Joint) ResetPose() {
	j.Rotation = Euler{}
}

// EulerXYZ returns the rotation as XYZ-order angles in degrees.
func (j *Joint) EulerXYZ() mgl64.Vec3 {
	j.Rotation = j.Rotation.Reorder(OrderXYZ)
	return mgl64.Vec3{Degrees(j.Rotation.X), Degrees(j.Rotation.Y), Degrees(j.Rotation.Z)}
}

// SetEulerXYZ replaces the rotation with XYZ-order angles in degrees.
func (j *Joint) SetEulerXYZ(deg mgl64.Vec3) {
	j.Rotation = Euler{X: Radians(deg[0]), Y: Radians(deg[1]), Z: Radians(deg[2]), Order: OrderXYZ}
}

// Limits returns the allowed range of an axis in degrees.
func (j *Joint) Limits(a Axis) (min, max float64) {
	return j.MinRot[a], j.MaxRot[a]
}

// Rigid reports whether the axis cannot rotate.
func (j *Joint) Rigid(a Axis) bool {
	return j.MinRot[a] == j.MaxRot[a]
}

// Unbounded reports whether the joint has no limits on any axis.
func (j *Joint) Unbounded() bool {
	for a := AxisX; a <= AxisZ; a++ {
		if !math.IsInf(j.MinRot[a], -1) || !math.IsInf(j.MaxRot[a], 1) {
			return false
		}
	}
	return true
}

// Implausibility returns the constraint score, zero when no constraint is attached.
func (j *Joint) Implausibility() float64 {
	if j.Constraint == nil {
		return 0
	}
	return j.Constraint.Implausibility(j)
}

// Select toggles the joint highlight and updates the rig selection.
func (j *Joint) Select(on bool) {
	if j.rig == nil {
		j.selected = on
		return
	}
	if on {
		j.rig.Select(j)
	} else if j.rig.selected == j {
		j.rig.Deselect()
	}
}

// Selected reports whether the joint is the current selection.
func (j *Joint) Selected() bool { return j.selected }

// Motion reads a named motion such as "bend" or "raise".
func (j *Joint) Motion(name string) (float64, error) {
	m, err := j.motion(name)
	if err != nil {
		return 0, err
	}
	return m.factor(j.Side) * j.Angle(m.Axis), nil
}

// SetMotion writes a named motion. Motions shared with the parent, such as
// the head nod, write the same angle to both joints.
func (j *Joint) SetMotion(name string, v float64) error {
	m, err := j.motion(name)
	if err != nil {
		return err
	}
	deg := v / m.factor(j.Side)
	j.SetAngle(m.Axis, deg)
	if j.Role.Spec().SharesParent && j.parent != nil {
		j.parent.SetAngle(m.Axis, deg)
	}
	return nil
}

// AddMotion adds v to a named motion.
func (j *Joint) AddMotion(name string, v float64) error {
	cur, err := j.Motion(name)
	if err != nil {
		return err
	}
	return j.SetMotion(name, cur+v)
}

func (j *Joint) motion(name string) (Motion, error) {
	m, ok := j.Role.Spec().Motions[name]
	if !ok {
		return Motion{}, &UnknownMotionError{Joint: j.Name, Motion: name}
	}
	return m, nil
}

// state is the mutable part of a joint.
type state struct {
	Position mgl64.Vec3
	Rotation Euler
}

func (j *Joint) save() state { return state{Position: j.Position, Rotation: j.Rotation} }

func (j *Joint) load(s state) {
	j.Position = s.Position
	j.Rotation = s.Rotation
}
