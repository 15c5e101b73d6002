package rig

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Shape is the hit volume of a joint's visual: an ellipsoid in the image frame.
type Shape struct {
	Center mgl64.Vec3
	Radii  mgl64.Vec3
}

// Ray is a half-line in the scene frame.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Hit is the result of a successful ray cast against the rig.
type Hit struct {
	Joint    *Joint
	Distance float64    // ray parameter of the hit
	Point    mgl64.Vec3 // scene frame
}

// intersect returns the smallest positive ray parameter at which the ray
// enters the ellipsoid placed by the given image transform.
func (s *Shape) intersect(image mgl64.Mat4, ray Ray) (float64, bool) {
	m := image.
		Mul4(mgl64.Translate3D(s.Center.X(), s.Center.Y(), s.Center.Z())).
		Mul4(mgl64.Scale3D(s.Radii.X(), s.Radii.Y(), s.Radii.Z()))
	inv := m.Inv()

	o := mgl64.TransformCoordinate(ray.Origin, inv)
	d := inv.Mul4x1(ray.Direction.Vec4(0)).Vec3()

	a := d.Dot(d)
	b := 2 * o.Dot(d)
	c := o.Dot(o) - 1
	disc := b*b - 4*a*c
	if a == 0 || disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)
	if t0 > 0 {
		return t0, true
	}
	if t1 > 0 {
		return t1, true
	}
	return 0, false
}
