// Package rig provides the articulated mannequin: a fixed tree of joints with
// Euler rotations, per-axis limits and visual shapes used for hit testing.
package rig

import "math"

// Axis identifies one of the three local axes of a joint.
type Axis int

const (
	// AxisX is the joint's local X axis.
	AxisX Axis = iota
	// AxisY is the joint's local Y axis.
	AxisY
	// AxisZ is the joint's local Z axis.
	AxisZ
)

// String returns the lowercase axis letter.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "unknown"
	}
}

// ParseAxis converts "x", "y" or "z" into an Axis.
func ParseAxis(s string) (Axis, bool) {
	switch s {
	case "x", "X":
		return AxisX, true
	case "y", "Y":
		return AxisY, true
	case "z", "Z":
		return AxisZ, true
	}
	return AxisX, false
}

// Degrees converts radians to degrees.
func Degrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// Round1 rounds to one decimal place, the precision postures are stored at.
func Round1(v float64) float64 {
	r := math.Round(v*10) / 10
	if r == 0 {
		return 0 // avoid -0 in serialized output
	}
	return r
}
