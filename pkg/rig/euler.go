package rig

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Order is the sequence in which the three axis rotations are composed.
// XYZ means the rotation matrix is Rx * Ry * Rz.
type Order int

const (
	OrderXYZ Order = iota
	OrderYZX
	OrderZXY
	OrderXZY
	OrderYXZ
	OrderZYX
)

var orderNames = [...]string{"XYZ", "YZX", "ZXY", "XZY", "YXZ", "ZYX"}

// String returns the order as three axis letters.
func (o Order) String() string {
	if o < 0 || int(o) >= len(orderNames) {
		return "unknown"
	}
	return orderNames[o]
}

// canonicalOrder is the order an axis accessor reorders to before reading or
// writing that axis, so the accessed angle is the innermost rotation.
func canonicalOrder(a Axis) Order {
	switch a {
	case AxisX:
		return OrderYZX
	case AxisY:
		return OrderZXY
	default:
		return OrderYXZ
	}
}

// Euler holds three rotation angles in radians and their composition order.
type Euler struct {
	X, Y, Z float64
	Order   Order
}

// Get returns the angle for an axis in radians.
func (e Euler) Get(a Axis) float64 {
	switch a {
	case AxisX:
		return e.X
	case AxisY:
		return e.Y
	default:
		return e.Z
	}
}

// Set assigns the angle for an axis in radians.
func (e *Euler) Set(a Axis, v float64) {
	switch a {
	case AxisX:
		e.X = v
	case AxisY:
		e.Y = v
	default:
		e.Z = v
	}
}

// Matrix returns the 3x3 rotation matrix described by e.
func (e Euler) Matrix() mgl64.Mat3 {
	rx := mgl64.Rotate3DX(e.X)
	ry := mgl64.Rotate3DY(e.Y)
	rz := mgl64.Rotate3DZ(e.Z)

	switch e.Order {
	case OrderYZX:
		return ry.Mul3(rz).Mul3(rx)
	case OrderZXY:
		return rz.Mul3(rx).Mul3(ry)
	case OrderXZY:
		return rx.Mul3(rz).Mul3(ry)
	case OrderYXZ:
		return ry.Mul3(rx).Mul3(rz)
	case OrderZYX:
		return rz.Mul3(ry).Mul3(rx)
	default:
		return rx.Mul3(ry).Mul3(rz)
	}
}

// Reorder returns the same orientation expressed in another order.
func (e Euler) Reorder(order Order) Euler {
	if e.Order == order {
		return e
	}
	return EulerFromMatrix(e.Matrix(), order)
}

// EulerFromMatrix decomposes a pure rotation matrix into angles of the
// requested order. Near gimbal lock the outer angle is set to zero.
func EulerFromMatrix(m mgl64.Mat3, order Order) Euler {
	const lock = 0.9999999

	m11, m12, m13 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m21, m22, m23 := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	m31, m32, m33 := m.At(2, 0), m.At(2, 1), m.At(2, 2)

	e := Euler{Order: order}
	switch order {
	case OrderXYZ:
		e.Y = math.Asin(mgl64.Clamp(m13, -1, 1))
		if math.Abs(m13) < lock {
			e.X = math.Atan2(-m23, m33)
			e.Z = math.Atan2(-m12, m11)
		} else {
			e.X = math.Atan2(m32, m22)
		}
	case OrderYXZ:
		e.X = math.Asin(-mgl64.Clamp(m23, -1, 1))
		if math.Abs(m23) < lock {
			e.Y = math.Atan2(m13, m33)
			e.Z = math.Atan2(m21, m22)
		} else {
			e.Y = math.Atan2(-m31, m11)
		}
	case OrderZXY:
		e.X = math.Asin(mgl64.Clamp(m32, -1, 1))
		if math.Abs(m32) < lock {
			e.Y = math.Atan2(-m31, m33)
			e.Z = math.Atan2(-m12, m22)
		} else {
			e.Z = math.Atan2(m21, m11)
		}
	case OrderZYX:
		e.Y = math.Asin(-mgl64.Clamp(m31, -1, 1))
		if math.Abs(m31) < lock {
			e.X = math.Atan2(m32, m33)
			e.Z = math.Atan2(m21, m11)
		} else {
			e.Z = math.Atan2(-m12, m22)
		}
	case OrderYZX:
		e.Z = math.Asin(mgl64.Clamp(m21, -1, 1))
		if math.Abs(m21) < lock {
			e.X = math.Atan2(-m23, m22)
			e.Y = math.Atan2(-m31, m11)
		} else {
			e.Y = math.Atan2(m13, m33)
		}
	case OrderXZY:
		e.Z = math.Asin(-mgl64.Clamp(m12, -1, 1))
		if math.Abs(m12) < lock {
			e.X = math.Atan2(m32, m22)
			e.Y = math.Atan2(m13, m11)
		} else {
			e.X = math.Atan2(-m23, m33)
		}
	}
	return e
}
