package rig

// Role classifies a joint by its anatomical function.
type Role int

const (
	RoleBody Role = iota
	RolePelvis
	RoleTorso
	RoleNeck
	RoleHead
	RoleLeg
	RoleKnee
	RoleAnkle
	RoleArm
	RoleElbow
	RoleWrist
	RoleFinger
	RolePhalange
)

var roleNames = [...]string{
	"body", "pelvis", "torso", "neck", "head", "leg", "knee", "ankle",
	"arm", "elbow", "wrist", "finger", "phalange",
}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return "unknown"
	}
	return roleNames[r]
}

// Motion maps a semantic motion name onto a joint axis. The stored angle is
// value / factor, where factor is Factor, multiplied by the joint side when
// Sided is set.
type Motion struct {
	Axis   Axis
	Factor float64
	Sided  bool
}

func (m Motion) factor(s Side) float64 {
	if m.Sided {
		return m.Factor * float64(s)
	}
	return m.Factor
}

// RoleSpec is the per-role configuration shared by all joints of a role.
type RoleSpec struct {
	Motions map[string]Motion

	// SharesParent marks joints whose rotation is mirrored onto the parent,
	// the head and neck pair.
	SharesParent bool

	// SelectParent redirects selection to the parent when the joint's
	// shape is hit.
	SelectParent bool

	// SelectChild redirects selection to the first child.
	SelectChild bool
}

var (
	trunkMotions = map[string]Motion{
		"bend": {Axis: AxisZ, Factor: -1},
		"tilt": {Axis: AxisX, Factor: -1},
		"turn": {Axis: AxisY, Factor: 1},
	}
	limbMotions = map[string]Motion{
		"raise":    {Axis: AxisZ, Factor: 1},
		"straddle": {Axis: AxisX, Factor: -1, Sided: true},
		"turn":     {Axis: AxisY, Factor: -1, Sided: true},
	}
	hingeMotions = map[string]Motion{
		"bend": {Axis: AxisZ, Factor: 1},
	}
)

var roleSpecs = map[Role]RoleSpec{
	RoleBody:   {Motions: trunkMotions},
	RolePelvis: {Motions: map[string]Motion{}, SelectParent: true},
	RoleTorso:  {Motions: trunkMotions},
	RoleNeck:   {Motions: map[string]Motion{}, SelectChild: true},
	RoleHead: {
		Motions: map[string]Motion{
			"nod":  {Axis: AxisZ, Factor: -2},
			"tilt": {Axis: AxisX, Factor: -2},
			"turn": {Axis: AxisY, Factor: 2},
		},
		SharesParent: true,
	},
	RoleLeg:  {Motions: limbMotions},
	RoleKnee: {Motions: hingeMotions},
	RoleAnkle: {Motions: map[string]Motion{
		"bend": {Axis: AxisZ, Factor: -1},
		"tilt": {Axis: AxisX, Factor: 1, Sided: true},
		"turn": {Axis: AxisY, Factor: 1, Sided: true},
	}},
	RoleArm:   {Motions: limbMotions},
	RoleElbow: {Motions: hingeMotions},
	RoleWrist: {Motions: map[string]Motion{
		"bend": {Axis: AxisX, Factor: -1, Sided: true},
		"tilt": {Axis: AxisZ, Factor: 1, Sided: true},
		"turn": {Axis: AxisY, Factor: 1, Sided: true},
	}},
	RoleFinger: {Motions: map[string]Motion{
		"bend":     {Axis: AxisZ, Factor: 1},
		"straddle": {Axis: AxisX, Factor: -1, Sided: true},
		"turn":     {Axis: AxisY, Factor: -1, Sided: true},
	}},
	RolePhalange: {Motions: hingeMotions},
}

// Spec returns the configuration of the role.
func (r Role) Spec() RoleSpec {
	return roleSpecs[r]
}

// Motions returns the motion names of the role.
func (r Role) Motions() []string {
	out := make([]string, 0, len(roleSpecs[r].Motions))
	for _, name := range []string{"bend", "nod", "raise", "straddle", "tilt", "turn"} {
		if _, ok := roleSpecs[r].Motions[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// PostureWidth is the number of values a joint of this role contributes to a
// serialized posture.
func (r Role) PostureWidth() int {
	switch r {
	case RoleKnee, RoleElbow:
		return 1
	case RoleFinger:
		return 7
	default:
		return 3
	}
}
