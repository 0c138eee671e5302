// Copyright 2024 The Vesper Authors. All rights reserved.

package resdata

import (
	"testing"

	"github.com/vesper3d/vesper/linear"
)

func TestNewSkinTopologicalOrder(t *testing.T) {
	// hip(root) -> spine -> shoulder, listed out of order on purpose.
	joints := []Joint{
		{Name: "shoulder", Parent: 1},
		{Name: "spine", Parent: 2},
		{Name: "hip", Parent: -1},
	}
	s := NewSkin(joints)
	if s.Len() != 3 {
		t.Fatalf("Len\nhave %d\nwant 3", s.Len())
	}
	pos := make(map[string]int, 3)
	for i := 0; i < s.Len(); i++ {
		pos[s.Name(i)] = i
	}
	if pos["hip"] >= pos["spine"] || pos["spine"] >= pos["shoulder"] {
		t.Fatalf("expected hip before spine before shoulder, got order %v", pos)
	}
	if s.OriginalIndex(pos["hip"]) != 2 {
		t.Fatalf("OriginalIndex(hip)\nhave %d\nwant 2", s.OriginalIndex(pos["hip"]))
	}
}

func TestNewSkinRejectsSelfParent(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewSkin: expected panic for self-referencing parent")
		}
	}()
	NewSkin([]Joint{{Name: "a", Parent: 0}})
}

func TestNewSkinRejectsOutOfBoundsParent(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewSkin: expected panic for out-of-bounds parent")
		}
	}()
	NewSkin([]Joint{{Name: "a", Parent: 5}})
}

func TestNewSkinRejectsEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewSkin: expected panic for empty joint list")
		}
	}()
	NewSkin(nil)
}

func TestNewSkinCompactsInverseBindMatrices(t *testing.T) {
	var id linear.M4
	id.I()
	var custom linear.M4
	custom.I()
	custom[3][0] = 5 // translate x by 5, distinct from identity

	joints := []Joint{
		{Name: "root", Parent: -1, IBM: id},
		{Name: "child", Parent: 0, IBM: custom},
	}
	s := NewSkin(joints)
	rootIdx, childIdx := 0, 1
	if s.Name(0) != "root" {
		rootIdx, childIdx = 1, 0
	}
	gotRoot := s.InverseBindMatrix(rootIdx)
	if gotRoot != id {
		t.Fatalf("root IBM\nhave %v\nwant identity", gotRoot)
	}
	gotChild := s.InverseBindMatrix(childIdx)
	if gotChild != custom {
		t.Fatalf("child IBM\nhave %v\nwant %v", gotChild, custom)
	}
}
