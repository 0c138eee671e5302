// Copyright 2024 The Vesper Authors. All rights reserved.

package panicx

import (
	"strings"
	"testing"
)

func TestPanicRecover(t *testing.T) {
	defer SetHandler(nil)
	var gotFile string
	var gotLine int
	var gotKind Kind
	var gotMsg string
	SetHandler(func(file string, line int, kind Kind, message string) {
		gotFile, gotLine, gotKind, gotMsg = file, line, kind, message
	})

	func() {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("Panic: did not panic")
			}
			e, ok := r.(*Error)
			if !ok {
				t.Fatalf("Panic: recovered value has wrong type: %T", r)
			}
			if e.Kind != Invariant {
				t.Fatalf("Panic: Kind\nhave %v\nwant %v", e.Kind, Invariant)
			}
			if e.Message != "bad count: 3" {
				t.Fatalf("Panic: Message\nhave %q\nwant %q", e.Message, "bad count: 3")
			}
		}()
		Panic(Invariant, "bad count: %d", 3)
	}()

	if gotKind != Invariant {
		t.Fatalf("handler: Kind\nhave %v\nwant %v", gotKind, Invariant)
	}
	if gotMsg != "bad count: 3" {
		t.Fatalf("handler: message\nhave %q\nwant %q", gotMsg, "bad count: 3")
	}
	if !strings.HasSuffix(gotFile, "panicx_test.go") {
		t.Fatalf("handler: file\nhave %q\nwant suffix %q", gotFile, "panicx_test.go")
	}
	if gotLine == 0 {
		t.Fatal("handler: line must not be zero")
	}
}

func TestUnreachable(t *testing.T) {
	defer SetHandler(nil)
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Unreachable: did not panic")
		}
		e := r.(*Error)
		if e.Kind != Invariant {
			t.Fatalf("Unreachable: Kind\nhave %v\nwant %v", e.Kind, Invariant)
		}
	}()
	Unreachable()
}

func TestKindString(t *testing.T) {
	cases := []struct {
		k    Kind
		want string
	}{
		{ContractViolation, "contract violation"},
		{Invariant, "invariant violation"},
		{Resource, "resource failure"},
		{Protocol, "protocol violation"},
		{Overflow, "overflow"},
	}
	for _, c := range cases {
		if s := c.k.String(); s != c.want {
			t.Fatalf("Kind.String\nhave %q\nwant %q", s, c.want)
		}
	}
}
