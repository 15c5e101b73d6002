package rig

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind selects one of the predefined figures.
type Kind int

const (
	Male Kind = iota
	Female
	Child
)

func (k Kind) String() string {
	switch k {
	case Male:
		return "male"
	case Female:
		return "female"
	case Child:
		return "child"
	default:
		return "unknown"
	}
}

// ParseKind converts "male", "female" or "child" into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "male", "Male":
		return Male, nil
	case "female", "Female":
		return Female, nil
	case "child", "Child":
		return Child, nil
	}
	return Male, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// DefaultHeight returns the figure height used by New.
func (k Kind) DefaultHeight() float64 {
	switch k {
	case Female:
		return 0.95
	case Child:
		return 0.65
	default:
		return 1
	}
}

// Rig is an articulated figure. A rig is not safe for concurrent use; callers
// serialize access.
type Rig struct {
	Kind     Kind
	Height   float64
	Feminine bool

	// Origin is where the figure stands in the scene frame.
	Origin mgl64.Vec3

	joints   []*Joint
	byName   map[string]*Joint
	selected *Joint
}

// Transform returns the figure transform applied above the root joint.
func (r *Rig) Transform() mgl64.Mat4 {
	return mgl64.Translate3D(r.Origin.X(), r.Origin.Y(), r.Origin.Z()).
		Mul4(mgl64.Scale3D(r.Height, r.Height, r.Height))
}

// Root returns the body joint.
func (r *Rig) Root() *Joint {
	return r.joints[0]
}

// Joints returns every joint in construction order.
func (r *Rig) Joints() []*Joint {
	return r.joints
}

// Get returns the named joint or nil.
func (r *Rig) Get(name string) *Joint {
	return r.byName[name]
}

// Lookup returns the named joint or ErrUnknownJoint.
func (r *Rig) Lookup(name string) (*Joint, error) {
	j, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownJoint, name)
	}
	return j, nil
}

// Selected returns the selected joint or nil.
func (r *Rig) Selected() *Joint {
	return r.selected
}

// Select makes j the only selected joint.
func (r *Rig) Select(j *Joint) {
	if r.selected == j {
		return
	}
	if r.selected != nil {
		r.selected.selected = false
	}
	r.selected = j
	if j != nil {
		j.selected = true
	}
}

// Deselect clears the selection.
func (r *Rig) Deselect() {
	r.Select(nil)
}

// HitTest casts a ray against every joint shape and returns the nearest hit.
// The returned joint is the one interaction should manipulate, which for the
// pelvis is the body and for the neck is the head.
func (r *Rig) HitTest(ray Ray) (Hit, bool) {
	best := Hit{Distance: math.Inf(1)}
	for _, j := range r.joints {
		if j.Shape == nil {
			continue
		}
		t, ok := j.Shape.intersect(j.ImageWorld(), ray)
		if ok && t < best.Distance {
			best = Hit{Joint: j, Distance: t}
		}
	}
	if best.Joint == nil {
		return Hit{}, false
	}
	best.Point = ray.At(best.Distance)

	spec := best.Joint.Role.Spec()
	switch {
	case spec.SelectParent && best.Joint.parent != nil:
		best.Joint = best.Joint.parent
	case spec.SelectChild && len(best.Joint.children) > 0:
		best.Joint = best.Joint.children[0]
	}
	return best, true
}

// Fingers returns the five finger joints of one hand, thumb first.
func (r *Rig) Fingers(side Side) []*Joint {
	prefix := sidePrefix(side)
	out := make([]*Joint, 0, 5)
	for n := 0; n < 5; n++ {
		if j := r.byName[fmt.Sprintf("%sfinger_%d", prefix, n)]; j != nil {
			out = append(out, j)
		}
	}
	return out
}

// SetFingersBend curls a whole hand. The thumb bends half as far.
func (r *Rig) SetFingersBend(side Side, angle float64) {
	for _, f := range r.Fingers(side) {
		a := angle
		if f.Index == 0 {
			a = angle / 2
		}
		for j := f; j != nil; j = firstChild(j) {
			_ = j.SetMotion("bend", a)
		}
	}
}

func firstChild(j *Joint) *Joint {
	if len(j.children) == 0 {
		return nil
	}
	return j.children[0]
}

// Snapshot is a saved copy of every joint position and rotation.
type Snapshot struct {
	states []state
}

// Snapshot captures the current pose.
func (r *Rig) Snapshot() Snapshot {
	s := Snapshot{states: make([]state, len(r.joints))}
	for i, j := range r.joints {
		s.states[i] = j.save()
	}
	return s
}

// Restore returns the rig to a captured pose. Snapshots of another rig
// layout are ignored.
func (r *Rig) Restore(s Snapshot) {
	if len(s.states) != len(r.joints) {
		return
	}
	for i, j := range r.joints {
		j.load(s.states[i])
	}
}

// Equal reports whether two snapshots hold the same pose within tol degrees.
func (s Snapshot) Equal(o Snapshot, tol float64) bool {
	if len(s.states) != len(o.states) {
		return false
	}
	for i := range s.states {
		a, b := s.states[i], o.states[i]
		if !a.Position.ApproxEqualThreshold(b.Position, tol) {
			return false
		}
		ma, mb := a.Rotation.Matrix(), b.Rotation.Matrix()
		if !ma.ApproxEqualThreshold(mb, Radians(tol)) {
			return false
		}
	}
	return true
}

func (r *Rig) add(j *Joint, parent *Joint) *Joint {
	j.rig = r
	j.parent = parent
	if j.Scale == 0 {
		j.Scale = 1
	}
	if parent != nil {
		parent.children = append(parent.children, j)
	}
	r.joints = append(r.joints, j)
	r.byName[j.Name] = j
	return j
}

func sidePrefix(s Side) string {
	switch s {
	case Left:
		return "l_"
	case Right:
		return "r_"
	default:
		return ""
	}
}
