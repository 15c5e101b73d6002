package ik

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-mannequin/pkg/rig"
)

// Camera is a perspective view onto the scene. Screen positions are
// normalized device coordinates: x and y in [-1, 1], y up.
type Camera struct {
	Position mgl64.Vec3 `json:"position"`
	Target   mgl64.Vec3 `json:"target"`
	Up       mgl64.Vec3 `json:"up"`
	FOV      float64    `json:"fov"` // vertical, degrees
	Aspect   float64    `json:"aspect"`
	Near     float64    `json:"near"`
	Far      float64    `json:"far"`
}

// DefaultCamera returns the editor camera, looking at the origin from 180
// units down the z axis.
func DefaultCamera() Camera {
	return Camera{
		Position: mgl64.Vec3{0, 0, 180},
		Target:   mgl64.Vec3{0, 0, 0},
		Up:       mgl64.Vec3{0, 1, 0},
		FOV:      30,
		Aspect:   16.0 / 9.0,
		Near:     0.1,
		Far:      2000,
	}
}

// View returns the world-to-camera matrix.
func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

// Projection returns the camera-to-clip matrix.
func (c Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// Project maps a scene point to normalized device coordinates.
func (c Camera) Project(p mgl64.Vec3) mgl64.Vec2 {
	ndc := mgl64.TransformCoordinate(p, c.Projection().Mul4(c.View()))
	return mgl64.Vec2{ndc.X(), ndc.Y()}
}

// Ray returns the ray from the camera through a screen position.
func (c Camera) Ray(ndc mgl64.Vec2) rig.Ray {
	inv := c.Projection().Mul4(c.View()).Inv()
	near := mgl64.TransformCoordinate(mgl64.Vec3{ndc.X(), ndc.Y(), -1}, inv)
	far := mgl64.TransformCoordinate(mgl64.Vec3{ndc.X(), ndc.Y(), 1}, inv)
	return rig.Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// Validate checks that the projection is well defined.
func (c Camera) Validate() error {
	switch {
	case c.FOV <= 0 || c.FOV >= 180:
		return ErrInvalidCamera
	case c.Aspect <= 0:
		return ErrInvalidCamera
	case c.Near <= 0 || c.Far <= c.Near:
		return ErrInvalidCamera
	case c.Position.Sub(c.Target).Len() == 0:
		return ErrInvalidCamera
	}
	return nil
}
