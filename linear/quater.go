// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import "github.com/chewxy/math32"

// Q is a quaternion of float32.
type Q struct {
	V V3
	R float32
}

// QI returns the identity quaternion (no rotation).
func QI() Q { return Q{R: 1} }

// QFromAxisAngle returns the unit quaternion representing a rotation
// of angle radians about axis (axis need not be normalized).
func QFromAxisAngle(axis *V3, angle float32) Q {
	var unit V3
	unit.Norm(axis)
	s, c := math32.Sincos(angle * 0.5)
	unit.Scale(s, &unit)
	return Q{V: unit, R: c}
}

// Mul sets q to contain l ⋅ r.
func (q *Q) Mul(l, r *Q) {
	var v, w V3
	v.Scale(r.R, &l.V)
	w.Scale(l.R, &r.V)
	v.Add(&v, &w)
	w.Cross(&l.V, &r.V)
	d := l.V.Dot(&r.V)
	q.V.Add(&v, &w)
	q.R = l.R*r.R - d
}

// Norm normalizes q in place against r.
func (q *Q) Norm(r *Q) {
	l := math32.Sqrt(r.V.Dot(&r.V) + r.R*r.R)
	q.V.Scale(1/l, &r.V)
	q.R = r.R / l
}

// Mat sets m to the 4x4 rotation matrix equivalent to the unit
// quaternion q (upper-left 3x3 block; translation/scale column and row
// left as identity). Used by Transform.updateLocal to build the TRS
// composition (spec.md §3.5/§4.2).
func (q *Q) Mat(m *M4) {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.R
	x2, y2, z2 := x+x, y+y, z+z
	xx, yy, zz := x*x2, y*y2, z*z2
	xy, xz, yz := x*y2, x*z2, y*z2
	wx, wy, wz := w*x2, w*y2, w*z2

	m.I()
	m[0][0] = 1 - (yy + zz)
	m[0][1] = xy + wz
	m[0][2] = xz - wy
	m[1][0] = xy - wz
	m[1][1] = 1 - (xx + zz)
	m[1][2] = yz + wx
	m[2][0] = xz + wy
	m[2][1] = yz - wx
	m[2][2] = 1 - (xx + yy)
}
