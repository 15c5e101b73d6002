package landmark

import (
	"fmt"
	"math"

	"github.com/teslashibe/go-mannequin/pkg/rig"
)

// Elevation is the angle in radians between the segment a→b and the
// horizontal plane.
func Elevation(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z
	return math.Atan2(dy, math.Sqrt(dx*dx+dz*dz))
}

type binding struct {
	joint  string
	motion string
	from   int
	to     int
}

var bindings = []binding{
	{"l_arm", "raise", LeftShoulder, LeftElbow},
	{"l_elbow", "bend", LeftElbow, LeftWrist},
	{"r_arm", "raise", RightShoulder, RightElbow},
	{"r_elbow", "bend", RightElbow, RightWrist},
	{"l_leg", "raise", LeftHip, LeftKnee},
	{"l_knee", "bend", LeftKnee, LeftAnkle},
	{"r_leg", "raise", RightHip, RightKnee},
	{"r_knee", "bend", RightKnee, RightAnkle},
}

// Retarget poses the limbs of r after the landmarks: arm and leg raise and
// elbow and knee bend are set to the elevation of the matching segments in
// degrees. Other joints are left alone.
func Retarget(r *rig.Rig, p Pose) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for _, b := range bindings {
		j, err := r.Lookup(b.joint)
		if err != nil {
			return err
		}
		deg := rig.Degrees(Elevation(p[b.from], p[b.to]))
		if err := j.SetMotion(b.motion, deg); err != nil {
			return fmt.Errorf("retarget %s: %w", b.joint, err)
		}
	}
	return nil
}
