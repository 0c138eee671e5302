// Copyright 2024 The Vesper Authors. All rights reserved.

package linear

// Plane is a plane in Hessian normal form: n·p + d = 0, stored as
// (n.x, n.y, n.z, d) so that it matches the vec4 layout
// RenderCamera.FrustumPlanes[6] must have in a std140/std430 UBO
// (original_source's render_backend.hpp doc comment; spec.md §4.6).
type Plane V4

// Normal returns the plane's unit normal.
func (p *Plane) Normal() V3 { return V3{p[0], p[1], p[2]} }

// DistanceToPoint returns the signed distance from q to the plane
// (positive on the side the normal points to).
func (p *Plane) DistanceToPoint(q *V3) float32 {
	n := p.Normal()
	return n.Dot(q) + p[3]
}

// Frustum holds the six clipping planes of a camera, in the order
// left, right, bottom, top, near, far.
type Frustum struct {
	Planes [6]Plane
}

// FrustumFromMatrix extracts the six frustum planes from a combined
// view-projection matrix m, using the standard Gribb/Hartmann
// row-extraction method. Each returned plane is normalized so that its
// normal has unit length.
func FrustumFromMatrix(m *M4) Frustum {
	// m is column-major (m[col][row]); build row accessors.
	row := func(r int) V4 { return V4{m[0][r], m[1][r], m[2][r], m[3][r]} }
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	add := func(a, b V4) V4 { var v V4; v.Add(&a, &b); return v }
	sub := func(a, b V4) V4 { var v V4; v.Sub(&a, &b); return v }

	var f Frustum
	f.Planes[0] = Plane(add(r3, r0)) // left
	f.Planes[1] = Plane(sub(r3, r0)) // right
	f.Planes[2] = Plane(add(r3, r1)) // bottom
	f.Planes[3] = Plane(sub(r3, r1)) // top
	f.Planes[4] = Plane(add(r3, r2)) // near
	f.Planes[5] = Plane(sub(r3, r2)) // far
	f.normalize()
	return f
}

func (f *Frustum) normalize() {
	for i := range f.Planes {
		n := f.Planes[i].Normal()
		l := n.Len()
		if l == 0 {
			continue
		}
		for j := 0; j < 4; j++ {
			f.Planes[i][j] /= l
		}
	}
}

// IntersectsAABB reports whether box, after being transformed by
// worldFromLocal, intersects (or is inside) the frustum. It implements
// the positive-vertex test described in spec.md §4.6 step 2 and
// exercised by Scenario S6: for each plane, if the positive vertex lies
// entirely on the outside, the box is culled.
func (f *Frustum) IntersectsAABB(box *AABB, worldFromLocal *M4) bool {
	var world AABB
	box.Transform(worldFromLocal, &world)
	for i := range f.Planes {
		n := f.Planes[i].Normal()
		pv := world.PositiveVertex(&n)
		if f.Planes[i].DistanceToPoint(&pv) < 0 {
			return false
		}
	}
	return true
}
