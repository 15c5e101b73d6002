package emotion

import (
	"fmt"
	"math"
)

// Color is an RGB display colour.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// CSS renders the colour as an rgb() expression.
func (c Color) CSS() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Rule is one row of the classification table.
type Rule struct {
	Label string
	// Variant numbers rules sharing a label, starting at 1
	Variant   int
	Highlight []int
	Color     Color
	Match     func(s *Skeleton) bool
}

func (s *Skeleton) x(i int) float64 { return s.At(i).X }
func (s *Skeleton) y(i int) float64 { return s.At(i).Y }

// raised reports a chain whose y strictly decreases from a to c, an arm held
// above its shoulder in image coordinates.
func (s *Skeleton) raised(a, b, c int) bool {
	return s.y(a) < s.y(b) && s.y(b) < s.y(c)
}

// fists reports elbows flared outside the wrists.
func fists(s *Skeleton) bool {
	return s.x(13) < s.x(15)-s.D && s.x(14) > s.x(16)+s.D
}

// handsLow reports both wrists held near and above the hips.
func handsLow(s *Skeleton) bool {
	return s.y(23) > s.y(15)+s.D && s.y(24) > s.y(16)+s.D &&
		s.Dist(15, 23) < s.Rate && s.Dist(16, 24) < s.Rate
}

// standing reports shoulders well above the knees.
func standing(s *Skeleton) bool {
	return s.Dist(11, 25) > 2*s.Rate && s.Dist(12, 26) > 2*s.Rate
}

var (
	red        = Color{208, 12, 15}
	disgust    = Color{226, 106, 106}
	orange     = Color{255, 169, 0}
	anticipate = []int{15, 14, 28, 27, 25, 23}
)

// Rules is the classification table. Order matters: the first rule that
// matches decides the label.
var Rules = []Rule{
	{
		Label: "Angry", Variant: 1,
		Highlight: []int{11, 12, 14, 16, 24, 23, 15, 13},
		Color:     red,
		Match: func(s *Skeleton) bool {
			return fists(s) && handsLow(s) &&
				s.x(23) > s.x(15) && s.x(24) < s.x(16) &&
				standing(s)
		},
	},
	{
		Label: "Angry", Variant: 2,
		Highlight: []int{11, 12, 14, 13},
		Color:     red,
		Match: func(s *Skeleton) bool {
			return fists(s) &&
				s.Dist(15, 11) < s.Rate/2 && s.Dist(16, 12) < s.Rate/2 &&
				standing(s)
		},
	},
	{
		Label: "Bored", Variant: 1,
		Highlight: []int{11, 12, 14, 13},
		Color:     Color{241, 169, 161},
		Match: func(s *Skeleton) bool {
			return s.Dist(15, Neck) < s.Rate/2 && s.Dist(16, Neck) < s.Rate/2 &&
				s.Dist(13, 25) < s.Rate/2 && s.Dist(14, 26) < s.Rate/2 &&
				s.Dist(11, 25) < 1.5*s.Rate && s.Dist(12, 26) < 1.5*s.Rate
		},
	},
	{
		Label: "Hopeless", Variant: 1,
		Highlight: []int{11, 12, 14, 16, 15, 13},
		Color:     Color{30, 138, 194},
		Match: func(s *Skeleton) bool {
			return fists(s) && handsLow(s) &&
				s.x(23) < s.x(15) && s.x(24) > s.x(16) &&
				standing(s)
		},
	},
	{
		Label: "Shame", Variant: 1,
		Highlight: []int{0, 16, 15, 13, 11},
		Color:     Color{95, 52, 135},
		Match: func(s *Skeleton) bool {
			return s.Dist(16, 0) < s.Rate &&
				s.x(15) > s.x(23) && s.y(15) < s.y(23)
		},
	},
	{
		Label: "Fear", Variant: 1,
		Highlight: []int{0, 16, 14, 12, 11, 13, 15},
		Color:     Color{30, 58, 146},
		Match: func(s *Skeleton) bool {
			return s.y(15) < s.y(11) && s.y(16) < s.y(12) &&
				s.Dist(15, 11) < s.Rate && s.Dist(16, 12) < s.Rate
		},
	},
	{
		Label: "Shock", Variant: 1,
		Highlight: []int{15, 16, 14, 24, 23, 13},
		Color:     Color{88, 171, 227},
		Match: func(s *Skeleton) bool {
			// Left wrist height is compared with the elbow's x coordinate.
			return s.x(15) < s.x(13) && s.x(16) > s.x(14) &&
				s.y(15) < s.x(13) && s.y(16) < s.y(14)
		},
	},
	{
		Label: "Disgust", Variant: 1,
		Highlight: []int{Neck, 12, 14, 13, 11},
		Color:     disgust,
		Match: func(s *Skeleton) bool {
			return s.x(16) < s.x(15)
		},
	},
	{
		Label: "Disgust", Variant: 2,
		Highlight: []int{16, 28, 24},
		Color:     disgust,
		Match: func(s *Skeleton) bool {
			return s.y(28) < s.y(25) && s.x(16) < s.x(23)
		},
	},
	{
		Label: "Joy", Variant: 1,
		Highlight: []int{16, 12, 24, 26, 28},
		Color:     orange,
		Match: func(s *Skeleton) bool {
			return s.y(28) < s.y(25)-s.D
		},
	},
	{
		Label: "Joy", Variant: 2,
		Highlight: []int{15, 13, 11, 24, 26, 28, 16},
		Color:     Color{255, 223, 13},
		Match: func(s *Skeleton) bool {
			return s.raised(15, 13, 11) && s.raised(16, 14, 12) &&
				s.y(28) < s.y(27)-s.D
		},
	},
	{
		Label: "Joy", Variant: 3,
		Highlight: []int{15, 16, 14, 12, 11, 13},
		Color:     orange,
		Match: func(s *Skeleton) bool {
			return s.raised(15, 13, 11) && s.raised(16, 14, 12)
		},
	},
	{
		Label: "Anticipation", Variant: 1,
		Highlight: anticipate,
		Color:     Color{255, 113, 13},
		Match: func(s *Skeleton) bool {
			return s.raised(15, 13, 11)
		},
	},
	{
		Label: "Anticipation", Variant: 2,
		Highlight: anticipate,
		Color:     orange,
		Match: func(s *Skeleton) bool {
			return s.raised(16, 14, 12)
		},
	},
	{
		Label: "Grateful", Variant: 1,
		Highlight: []int{11, 12, 14, 16, 15, 13},
		Color:     Color{42, 187, 154},
		Match: func(s *Skeleton) bool {
			return s.x(15) < s.x(13) && s.y(15) > s.y(13) &&
				s.y(13) > s.y(11) && s.x(13) < s.x(11) &&
				s.x(16) < s.x(14) && s.y(16) > s.y(14) &&
				s.y(14) > s.y(12) && s.x(14) < s.x(12)
		},
	},
	{
		Label: "Grateful", Variant: 2,
		Highlight: []int{15, 16, 24, 23},
		Color:     Color{33, 152, 117},
		Match: func(s *Skeleton) bool {
			return level(s, 11, 13) && level(s, 11, 15) &&
				level(s, 12, 14) && level(s, 12, 16)
		},
	},
	{
		Label: "Trust", Variant: 1,
		Highlight: []int{15, 13, 11, 12, 14, 16},
		Color:     Color{54, 215, 183},
		Match: func(s *Skeleton) bool {
			return level(s, 11, 13) && s.y(15) < s.y(13) &&
				level(s, 12, 14) && s.y(16) < s.y(14)
		},
	},
}

// level reports landmarks a and b at the same height within D.
func level(s *Skeleton, a, b int) bool {
	return math.Abs(s.y(a)-s.y(b)) < s.D
}
