// Package emotion classifies a body pose into an emotion label by testing an
// ordered table of geometric rules against its landmarks.
package emotion

import (
	"fmt"
	"math"

	"github.com/teslashibe/go-mannequin/pkg/landmark"
)

// Neck is the index of the synthetic neck point derived from the shoulders.
const Neck = 33

// Tracked lists the landmarks projected into the frame, in drawing order.
var Tracked = []int{
	landmark.Nose,
	landmark.LeftShoulder, landmark.RightShoulder,
	landmark.LeftElbow, landmark.LeftWrist,
	landmark.RightElbow, landmark.RightWrist,
	landmark.LeftHip, landmark.RightHip,
	landmark.LeftKnee, landmark.RightKnee,
	landmark.LeftAnkle, landmark.RightAnkle,
}

// Point is a position in frame pixels, origin top left, y down.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist is the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Skeleton is a pose projected into a mirrored frame of the given size.
type Skeleton struct {
	points [Neck + 1]Point
	known  [Neck + 1]bool

	// Rate is the shoulder width, the unit every rule measures in
	Rate float64
	// D is the rule tolerance, a quarter of Rate
	D float64
}

// NewSkeleton projects the tracked landmarks of p into a width x height frame,
// mirrored horizontally like a selfie view, and derives the neck point.
func NewSkeleton(p landmark.Pose, width, height float64) (*Skeleton, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("frame size %gx%g must be positive", width, height)
	}

	s := &Skeleton{}
	for _, i := range Tracked {
		s.points[i] = Point{X: width * (1 - p[i].X), Y: p[i].Y * height}
		s.known[i] = true
	}

	l := s.points[landmark.LeftShoulder]
	r := s.points[landmark.RightShoulder]
	s.Rate = l.Dist(r)
	s.D = s.Rate / 4
	s.points[Neck] = Point{
		X: (r.X-l.X)/2 + l.X,
		Y: (r.Y-l.Y)/2 + l.Y - s.Rate/5,
	}
	s.known[Neck] = true
	return s, nil
}

// At returns the projected point with landmark index i.
func (s *Skeleton) At(i int) Point {
	if i < 0 || i > Neck || !s.known[i] {
		panic(fmt.Sprintf("emotion: landmark %d is not tracked", i))
	}
	return s.points[i]
}

// Dist is the distance between landmarks a and b.
func (s *Skeleton) Dist(a, b int) float64 {
	return s.At(a).Dist(s.At(b))
}

// Points returns the tracked points followed by the neck.
func (s *Skeleton) Points() map[int]Point {
	out := make(map[int]Point, len(Tracked)+1)
	for _, i := range Tracked {
		out[i] = s.points[i]
	}
	out[Neck] = s.points[Neck]
	return out
}
