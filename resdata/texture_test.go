// Copyright 2024 The Vesper Authors. All rights reserved.

package resdata

import "testing"

func TestNew2DAcceptsKnownFormatTriple(t *testing.T) {
	tex := New2D(4, 4, RGBA8, U8, SRGB, make([]byte, 4*4*4))
	if tex.Width() != 4 || tex.Height() != 4 || tex.IsCube() {
		t.Fatalf("New2D: unexpected dimensions/cube flag: %+v", tex)
	}
	if len(tex.Faces) != 1 {
		t.Fatalf("New2D: expected 1 face, got %d", len(tex.Faces))
	}
}

func TestNewCubeRejectsUnknownFormatTriple(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewCube: expected panic for unknown format triple")
		}
	}()
	var faces [6][]byte
	NewCube(4, RGBA16F, U8, Linear, faces)
}

func TestSetDataOnCubePanics(t *testing.T) {
	var faces [6][]byte
	for i := range faces {
		faces[i] = make([]byte, 4*4*4)
	}
	tex := NewCube(4, RGBA8, U8, Linear, faces)
	defer func() {
		if recover() == nil {
			t.Fatal("SetData: expected panic on cube texture")
		}
	}()
	tex.SetData(make([]byte, 4*4*4))
}

func TestSetDataMarksDirty(t *testing.T) {
	tex := New2D(2, 2, RGBA8, U8, Linear, make([]byte, 2*2*4))
	v0 := tex.CurrentVersion()
	tex.SetData(make([]byte, 2*2*4))
	if tex.CurrentVersion() == v0 {
		t.Fatal("SetData: expected version to change")
	}
}
