// Copyright 2024 The Vesper Authors. All rights reserved.

package cache

import (
	"context"
	"testing"

	"github.com/vesper3d/vesper/resdata"
)

type fakeGeomUploader struct {
	uploaded []*resdata.Geometry
	deleted  []*resdata.Geometry
}

func (f *fakeGeomUploader) UploadGeometry(g *resdata.Geometry, payload GeometryPayload) {
	f.uploaded = append(f.uploaded, g)
}

func (f *fakeGeomUploader) DeleteGeometry(g *resdata.Geometry) {
	f.deleted = append(f.deleted, g)
}

func newTestGeometry() *resdata.Geometry {
	l := resdata.Layout{Key: resdata.Position}
	return resdata.NewGeometry(l, []float32{0, 0, 0, 1, 1, 1}, nil)
}

func TestAcquireReleaseTracksUsedSet(t *testing.T) {
	up := &fakeGeomUploader{}
	c := NewGeometryCache(up)
	g := newTestGeometry()

	c.Acquire(g)
	if c.UsedLen() != 1 {
		t.Fatalf("UsedLen after Acquire\nhave %d\nwant 1", c.UsedLen())
	}
	c.Acquire(g)
	if c.UsedLen() != 1 {
		t.Fatal("second Acquire must not re-insert into used set")
	}
	c.Release(g)
	if c.UsedLen() != 1 {
		t.Fatal("Release: ref count should still be 1")
	}
	c.Release(g)
	if c.UsedLen() != 0 {
		t.Fatal("Release: ref count should now be 0, used set empty")
	}
}

func TestReleaseUnderflowPanics(t *testing.T) {
	up := &fakeGeomUploader{}
	c := NewGeometryCache(up)
	g := newTestGeometry()
	defer func() {
		if recover() == nil {
			t.Fatal("Release: expected panic on ref-count underflow")
		}
	}()
	c.Release(g)
}

func TestQueueAndProcessUploadsDirtyResources(t *testing.T) {
	up := &fakeGeomUploader{}
	c := NewGeometryCache(up)
	g := newTestGeometry()
	c.Acquire(g)

	c.QueueTasks()
	if err := c.ProcessQueued(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(up.uploaded) != 1 {
		t.Fatalf("expected 1 upload on first queue, got %d", len(up.uploaded))
	}

	// No change: re-queueing should not re-upload.
	c.QueueTasks()
	if err := c.ProcessQueued(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(up.uploaded) != 1 {
		t.Fatalf("expected no re-upload without a version change, got %d total", len(up.uploaded))
	}

	g.SetVertices([]float32{2, 2, 2})
	c.QueueTasks()
	if err := c.ProcessQueued(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(up.uploaded) != 2 {
		t.Fatalf("expected re-upload after SetVertices, got %d total", len(up.uploaded))
	}
}

func TestDestructSchedulesDeleteOnNextFrame(t *testing.T) {
	up := &fakeGeomUploader{}
	c := NewGeometryCache(up)
	g := newTestGeometry()
	c.Acquire(g)
	c.QueueTasks() // rotates empty next-frame list into this-frame
	g.Destruct()   // pushes a delete task into (new) next-frame list

	// This-frame's delete list is still the old (empty) one.
	if err := c.ProcessQueued(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(up.deleted) != 0 {
		t.Fatalf("delete must not apply before its frame rotates in, got %d", len(up.deleted))
	}

	// Next QueueTasks rotates the destruct's delete task into this-frame.
	c.QueueTasks()
	if err := c.ProcessQueued(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(up.deleted) != 1 || up.deleted[0] != g {
		t.Fatalf("expected exactly one delete of g, got %v", up.deleted)
	}
}
