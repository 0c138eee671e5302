// Copyright 2024 The Vesper Authors. All rights reserved.

package linear

import "testing"

func TestComposeTRSIdentity(t *testing.T) {
	tr := V3{}
	q := QI()
	sc := V3{1, 1, 1}
	m := ComposeTRS(&tr, &q, &sc)
	var want M4
	want.I()
	if m != want {
		t.Fatalf("ComposeTRS identity\nhave %v\nwant %v", m, want)
	}
}

func TestComposeTRSTranslation(t *testing.T) {
	tr := V3{1, 2, 3}
	q := QI()
	sc := V3{1, 1, 1}
	m := ComposeTRS(&tr, &q, &sc)
	if m[3] != (V4{1, 2, 3, 1}) {
		t.Fatalf("ComposeTRS translation\nhave %v\nwant %v", m[3], V4{1, 2, 3, 1})
	}
}

func TestAABBTransformIdentity(t *testing.T) {
	box := AABB{Min: V3{-1, -1, -1}, Max: V3{1, 1, 1}}
	var id M4
	id.I()
	var out AABB
	box.Transform(&id, &out)
	if out != box {
		t.Fatalf("AABB.Transform identity\nhave %v\nwant %v", out, box)
	}
}

func TestFrustumCullsBehindNear(t *testing.T) {
	proj := Perspective(45*3.14159265/180, 16.0/9.0, 0.01, 100)
	var view M4
	view.I()
	var vp M4
	vp.Mul(&proj, &view)
	f := FrustumFromMatrix(&vp)

	// A box entirely behind the camera (negative Z in front convention
	// used by Perspective, i.e. further than -far or closer than -near
	// on the wrong side) must be culled (Scenario S6).
	box := AABB{Min: V3{-1, -1, 1000}, Max: V3{1, 1, 1001}}
	var id M4
	id.I()
	if f.IntersectsAABB(&box, &id) {
		t.Fatal("IntersectsAABB: box far behind near plane should be culled")
	}
}

func TestFrustumKeepsVisibleBox(t *testing.T) {
	proj := Perspective(45*3.14159265/180, 16.0/9.0, 0.01, 100)
	var view M4
	view.I()
	var vp M4
	vp.Mul(&proj, &view)
	f := FrustumFromMatrix(&vp)

	box := AABB{Min: V3{-0.1, -0.1, -5.1}, Max: V3{0.1, 0.1, -4.9}}
	var id M4
	id.I()
	if !f.IntersectsAABB(&box, &id) {
		t.Fatal("IntersectsAABB: box in front of camera should be visible")
	}
}
