package emotion

import (
	"math/rand"
	"sort"
)

// Palette holds the overlay colours for the active-joint hull.
var Palette = []Color{
	{227, 118, 113}, {67, 79, 130}, {229, 127, 77}, {237, 169, 80},
	{66, 114, 155}, {79, 174, 146}, {245, 219, 85}, {120, 194, 192},
	{76, 164, 210}, {144, 90, 134}, {237, 171, 163},
}

// PaletteColor picks a random overlay colour.
func PaletteColor() Color {
	return Palette[rand.Intn(len(Palette))]
}

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// ConvexHull returns the convex hull of pts with Andrew's monotone chain,
// counter-clockwise in a y-up frame. Collinear points are dropped. Inputs of
// fewer than three points are returned sorted.
func ConvexHull(pts []Point) []Point {
	sorted := make([]Point, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})
	if len(sorted) < 3 {
		return sorted
	}

	var lower []Point
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []Point
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// ActiveHull collects every pair of tracked joints closer than Rate/2.5 (but
// not coincident) and returns the hull around them, or nil when fewer than
// three points qualify.
func ActiveHull(s *Skeleton) []Point {
	var active []Point
	limit := s.Rate / 2.5
	for _, a := range Tracked {
		for _, b := range Tracked {
			if a == b {
				continue
			}
			d := s.Dist(a, b)
			if d > 0 && d <= limit {
				active = append(active, s.At(a), s.At(b))
			}
		}
	}
	if len(active) < 3 {
		return nil
	}
	return ConvexHull(active)
}
