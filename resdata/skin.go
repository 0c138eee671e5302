// Copyright 2024 The Vesper Authors. All rights reserved.

package resdata

import (
	"github.com/vesper3d/vesper/linear"
	"github.com/vesper3d/vesper/panicx"
	"github.com/vesper3d/vesper/resource"
)

// Joint describes a single joint of a skin's input hierarchy. A joint
// hierarchy is defined by setting Parent to another Joint's index
// within the slice passed to NewSkin; Parent <= -1 indicates a root
// joint (spec.md §3: supplemented skinning feature, adapted from
// gviegas-neo3/engine/skin/skin.go).
type Joint struct {
	Name   string
	JM     linear.M4 // joint (local bind) matrix
	IBM    linear.M4 // inverse bind matrix
	Parent int
}

// joint is a Skin's internal, topologically ordered joint record.
type joint struct {
	name   string
	jm     linear.M4
	ibm    int // index into Skin.ibm, or -1 if identity
	parent int // original index of the parent, unchanged from Joint.Parent
	orig   int // original index, i.e. what mesh Joints* semantics refer to
}

// Skin is a CPU-side joint hierarchy plus compacted inverse-bind
// matrices (spec.md §3: skinning). Joints are sorted so that every
// parent precedes all of its descendants; Skin.OriginalIndex lets
// callers map back to the indices a mesh's joint-index attribute
// refers to.
type Skin struct {
	resource.Resource

	joints []joint
	ibm    []linear.M4 // only non-identity inverse bind matrices are stored
}

// NewSkin builds a skin from a joint hierarchy, validating Parent
// bounds and topologically sorting joints so ancestors precede
// descendants (spec.md §7: malformed joint hierarchy is a
// ContractViolation).
func NewSkin(joints []Joint) *Skin {
	n := len(joints)
	if n == 0 {
		panicx.Panic(panicx.ContractViolation, "resdata: skin has no joints")
	}

	parent := make([]int, n)
	children := make([][]int, n)
	for i := range joints {
		p := joints[i].Parent
		switch {
		case p >= n:
			panicx.Panic(panicx.ContractViolation, "resdata: joint %d Parent %d out of bounds", i, p)
		case p == i:
			panicx.Panic(panicx.ContractViolation, "resdata: joint %d Parent refers to itself", i)
		case p < 0:
			p = -1
		}
		parent[i] = p
		if p >= 0 {
			children[p] = append(children[p], i)
		}
	}

	var ident linear.M4
	ident.I()
	var zero linear.M4

	s := &Skin{joints: make([]joint, 0, n)}
	var visit func(i int)
	visit = func(i int) {
		iibm := -1
		switch joints[i].IBM {
		case zero, ident:
		default:
			iibm = len(s.ibm)
			s.ibm = append(s.ibm, joints[i].IBM)
		}
		s.joints = append(s.joints, joint{
			name:   joints[i].Name,
			jm:     joints[i].JM,
			ibm:    iibm,
			parent: parent[i],
			orig:   i,
		})
		for _, c := range children[i] {
			visit(c)
		}
	}
	for i := range joints {
		if parent[i] < 0 {
			visit(i)
		}
	}
	if len(s.joints) != n {
		panicx.Panic(panicx.ContractViolation, "resdata: skin joint hierarchy contains a cycle")
	}
	return s
}

// Len returns the number of joints.
func (s *Skin) Len() int { return len(s.joints) }

// Name returns the name of the joint at sorted position i.
func (s *Skin) Name(i int) string { return s.joints[i].name }

// JointMatrix returns the local bind matrix of the joint at sorted
// position i.
func (s *Skin) JointMatrix(i int) linear.M4 { return s.joints[i].jm }

// InverseBindMatrix returns the inverse bind matrix of the joint at
// sorted position i, or the identity matrix if none was supplied.
func (s *Skin) InverseBindMatrix(i int) linear.M4 {
	if idx := s.joints[i].ibm; idx >= 0 {
		return s.ibm[idx]
	}
	var m linear.M4
	m.I()
	return m
}

// ParentIndex returns the original index of joint i's parent, or -1 if
// i is a root joint.
func (s *Skin) ParentIndex(i int) int { return s.joints[i].parent }

// OriginalIndex returns the index a mesh's joint-index attribute uses
// to refer to the joint now at sorted position i.
func (s *Skin) OriginalIndex(i int) int { return s.joints[i].orig }
