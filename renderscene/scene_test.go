// Copyright 2024 The Vesper Authors. All rights reserved.

package renderscene

import (
	"context"
	"testing"

	"github.com/vesper3d/vesper/cache"
	"github.com/vesper3d/vesper/linear"
	"github.com/vesper3d/vesper/resdata"
	"github.com/vesper3d/vesper/scenegraph"
)

type nopGeomUploader struct{}

func (nopGeomUploader) UploadGeometry(*resdata.Geometry, cache.GeometryPayload) {}
func (nopGeomUploader) DeleteGeometry(*resdata.Geometry)                       {}

type nopMatUploader struct{}

func (nopMatUploader) UploadMaterial(*resdata.Material, cache.MaterialPayload) {}
func (nopMatUploader) DeleteMaterial(*resdata.Material)                        {}

type nopTexUploader struct{}

func (nopTexUploader) UploadTexture(*resdata.Texture, cache.TexturePayload) {}
func (nopTexUploader) DeleteTexture(*resdata.Texture)                       {}

func newTestGeometry() *resdata.Geometry {
	l := resdata.Layout{Key: resdata.Position}
	return resdata.NewGeometry(l, []float32{0, 0, 0, 1, 1, 1, 0, 1, 0}, []uint32{0, 1, 2})
}

func newTestScene(t *testing.T) (*RenderScene, *scenegraph.SceneGraph) {
	t.Helper()
	textures := cache.NewTextureCache(nopTexUploader{})
	geom := cache.NewGeometryCache(nopGeomUploader{})
	mat := cache.NewMaterialCache(nopMatUploader{}, textures)
	sentinel := resdata.NewMaterial(resdata.NewMaterialShader("sentinel", 0, nil, nil))
	rs := New(geom, mat, sentinel)
	g := scenegraph.New()
	rs.SetSceneGraph(g)
	return rs, g
}

func TestStage1RebuildThenStage2PopulatesBundle(t *testing.T) {
	rs, g := newTestScene(t)
	n := scenegraph.NewNode("mesh")
	g.Attach(n, g.Root())
	geom := newTestGeometry()
	scenegraph.AddComponent(n, Mesh{Geometry: geom})
	g.DrainPatches() // bind the graph fresh; rebuild will replay everything anyway

	rs.Stage1()
	if err := rs.Stage2(context.Background(), cache.NewTextureCache(nopTexUploader{})); err != nil {
		t.Fatal(err)
	}

	bundles := rs.Bundles()
	var total int
	for _, items := range bundles {
		total += len(items)
	}
	if total != 1 {
		t.Fatalf("expected exactly 1 bundle item after rebuild, got %d", total)
	}
}

func TestMeshRemovalSwapRemovesBundleItem(t *testing.T) {
	rs, g := newTestScene(t)
	n1 := scenegraph.NewNode("a")
	n2 := scenegraph.NewNode("b")
	g.Attach(n1, g.Root())
	g.Attach(n2, g.Root())
	scenegraph.AddComponent(n1, Mesh{Geometry: newTestGeometry()})
	scenegraph.AddComponent(n2, Mesh{Geometry: newTestGeometry()})

	rs.Stage1()
	tex := cache.NewTextureCache(nopTexUploader{})
	if err := rs.Stage2(context.Background(), tex); err != nil {
		t.Fatal(err)
	}

	scenegraph.RemoveComponent[Mesh](n1)
	rs.Stage1()
	if err := rs.Stage2(context.Background(), tex); err != nil {
		t.Fatal(err)
	}

	var total int
	for _, items := range rs.Bundles() {
		total += len(items)
	}
	if total != 1 {
		t.Fatalf("expected 1 remaining bundle item after removal, got %d", total)
	}
}

func TestTransformChangedUpdatesBundleItem(t *testing.T) {
	rs, g := newTestScene(t)
	n := scenegraph.NewNode("mesh")
	g.Attach(n, g.Root())
	scenegraph.AddComponent(n, Mesh{Geometry: newTestGeometry()})

	rs.Stage1()
	tex := cache.NewTextureCache(nopTexUploader{})
	if err := rs.Stage2(context.Background(), tex); err != nil {
		t.Fatal(err)
	}

	n.SetTranslation(linear.V3{3, 0, 0})
	g.UpdateTransforms()
	rs.Stage1()
	if err := rs.Stage2(context.Background(), tex); err != nil {
		t.Fatal(err)
	}

	for _, items := range rs.Bundles() {
		for _, it := range items {
			if it.LocalToWorld[3][0] != 3 {
				t.Fatalf("expected updated world translation, got %v", it.LocalToWorld[3])
			}
		}
	}
}

func TestSelectCameraPanicsWithNoCamera(t *testing.T) {
	rs, _ := newTestScene(t)
	defer func() {
		if recover() == nil {
			t.Fatal("SelectCamera: expected panic with no camera entity")
		}
	}()
	rs.SelectCamera()
}

func TestSelectCameraReturnsFirstCameraEntity(t *testing.T) {
	rs, g := newTestScene(t)
	n := scenegraph.NewNode("cam")
	g.Attach(n, g.Root())
	var proj linear.M4
	proj.I()
	scenegraph.AddComponent(n, Camera{Projection: proj})

	rs.Stage1()
	fc := rs.SelectCamera()
	if fc.Projection != proj {
		t.Fatalf("SelectCamera projection\nhave %v\nwant %v", fc.Projection, proj)
	}
}
