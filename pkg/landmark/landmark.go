// Package landmark carries body landmark frames from a pose model into the
// rest of the system: the 33-point pose convention, frame gating, model
// inference through gocv, and retargeting of landmarks onto a rig.
package landmark

import (
	"errors"
	"fmt"
	"math"
)

// Indices of the 33-point body landmark convention used by the pose models.
const (
	Nose          = 0
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14
	LeftWrist     = 15
	RightWrist    = 16
	LeftHip       = 23
	RightHip      = 24
	LeftKnee      = 25
	RightKnee     = 26
	LeftAnkle     = 27
	RightAnkle    = 28

	// Count is the number of landmarks a pose model reports.
	Count = 33
)

// ErrShortPose is returned for poses with fewer than Count landmarks.
var ErrShortPose = errors.New("pose has too few landmarks")

// Point is one landmark. X and Y are normalized to the image (0..1, origin
// top left), Z is depth at roughly the same scale as X.
type Point struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility,omitempty"`
}

// Pose is the landmark set of one detected person.
type Pose []Point

// Validate checks that the pose has every landmark and finite coordinates.
func (p Pose) Validate() error {
	if len(p) < Count {
		return fmt.Errorf("%w: got %d, want %d", ErrShortPose, len(p), Count)
	}
	for i, pt := range p {
		for _, v := range []float64{pt.X, pt.Y, pt.Z} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("landmark %d: non-finite coordinate", i)
			}
		}
	}
	return nil
}

// Frame is the detection result for one video frame.
type Frame struct {
	// Timestamp of the video frame in milliseconds
	Timestamp int64  `json:"ts"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Poses     []Pose `json:"poses"`
}
