// Copyright 2024 The Vesper Authors. All rights reserved.

package linear

// AABB is an axis-aligned bounding box, grounded on the
// RenderGeometry/geometry_cache AABB field in original_source (spec.md
// §3.2, §4.6: update_render_geometry_aabb).
type AABB struct {
	Min, Max V3
}

// Extend grows a to contain point p.
func (a *AABB) Extend(p *V3) {
	for i := 0; i < 3; i++ {
		if p[i] < a.Min[i] {
			a.Min[i] = p[i]
		}
		if p[i] > a.Max[i] {
			a.Max[i] = p[i]
		}
	}
}

// FromPoints computes the AABB enclosing every point in pts. For empty
// input it returns the zero AABB; it never panics.
func FromPoints(pts []V3) AABB {
	if len(pts) == 0 {
		return AABB{}
	}
	a := AABB{Min: pts[0], Max: pts[0]}
	for i := 1; i < len(pts); i++ {
		a.Extend(&pts[i])
	}
	return a
}

// Transform sets out to the AABB enclosing a transformed by m (used by
// the draw-list builder to test a geometry's bounds against the view
// frustum, spec.md §4.6).
func (a *AABB) Transform(m *M4, out *AABB) {
	corners := [8]V3{
		{a.Min[0], a.Min[1], a.Min[2]},
		{a.Max[0], a.Min[1], a.Min[2]},
		{a.Min[0], a.Max[1], a.Min[2]},
		{a.Max[0], a.Max[1], a.Min[2]},
		{a.Min[0], a.Min[1], a.Max[2]},
		{a.Max[0], a.Min[1], a.Max[2]},
		{a.Min[0], a.Max[1], a.Max[2]},
		{a.Max[0], a.Max[1], a.Max[2]},
	}
	var v4 V4
	first := true
	var res AABB
	for _, c := range corners {
		v4.Mul(m, &V4{c[0], c[1], c[2], 1})
		p := V3{v4[0], v4[1], v4[2]}
		if first {
			res = AABB{Min: p, Max: p}
			first = false
			continue
		}
		res.Extend(&p)
	}
	*out = res
}

// PositiveVertex returns the corner of a that is furthest along
// direction n — the "positive vertex" the draw-list builder's
// per-plane test transforms and dots against each frustum plane
// (original_source's compute culling pass; spec.md §4.6).
func (a *AABB) PositiveVertex(n *V3) V3 {
	var p V3
	for i := 0; i < 3; i++ {
		if n[i] >= 0 {
			p[i] = a.Max[i]
		} else {
			p[i] = a.Min[i]
		}
	}
	return p
}
