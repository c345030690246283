// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

import "testing"

func mkPlace(id string, elems ...PlaceElem) Place {
	return Place{Local: Local{ID: id, Ty: UnknownType{}}, Elems: elems}
}

func idx(i int) PlaceElem { return PlaceElem{Kind: IndexElem, Index: i} }
func deref() PlaceElem    { return PlaceElem{Kind: DerefElem} }

func TestPlacePrefix(t *testing.T) {
	cases := []struct {
		p, q   Place
		prefix bool
	}{
		{mkPlace("x"), mkPlace("x"), true},
		{mkPlace("x"), mkPlace("x", idx(0)), true},
		{mkPlace("x", idx(0)), mkPlace("x"), false},
		{mkPlace("x", idx(0)), mkPlace("x", idx(0), deref()), true},
		{mkPlace("x", idx(0)), mkPlace("x", idx(1)), false},
		{mkPlace("x"), mkPlace("y"), false},
		{mkPlace("x", deref()), mkPlace("x", idx(0)), false},
	}
	for _, c := range cases {
		if got := c.p.IsPrefixOf(c.q); got != c.prefix {
			t.Errorf("%s.IsPrefixOf(%s) = %v, want %v", c.p, c.q, got, c.prefix)
		}
	}
}

func TestPlaceDisjoint(t *testing.T) {
	// Sibling projections are disjoint; a tuple and its components are not.
	if !mkPlace("x", idx(0)).Disjoint(mkPlace("x", idx(1))) {
		t.Error("x.0 and x.1 should be disjoint")
	}
	if mkPlace("x").Disjoint(mkPlace("x", idx(1))) {
		t.Error("x and x.1 overlap")
	}
	if !mkPlace("x").Disjoint(mkPlace("y")) {
		t.Error("distinct locals are disjoint")
	}
}

func TestCopyVsMove(t *testing.T) {
	cases := []struct {
		ty   Type
		copy bool
	}{
		{IntType{}, true},
		{BoolType{}, true},
		{UnitType{}, true},
		{StringType{}, false},
		{UnknownType{}, false},
		{RefType{Elem: StringType{}}, true},
		{RefType{Mut: true, Elem: StringType{}}, false},
		{TupleType{Elems: []Type{IntType{}, BoolType{}}}, true},
		{TupleType{Elems: []Type{IntType{}, StringType{}}}, false},
		{TupleType{Elems: []Type{IntType{}, RefType{Elem: IntType{}}}}, true},
		{TupleType{Elems: []Type{RefType{Mut: true, Elem: IntType{}}}}, false},
	}
	for _, c := range cases {
		if got := c.ty.IsCopy(); got != c.copy {
			t.Errorf("%s.IsCopy() = %v, want %v", c.ty, got, c.copy)
		}
	}
}

func TestPlaceTy(t *testing.T) {
	tup := TupleType{Elems: []Type{StringType{}, RefType{Elem: IntType{}}}}
	p := Place{Local: Local{ID: "x", Ty: tup}, Elems: []PlaceElem{idx(1), deref()}}
	if !p.Ty().Equal(IntType{}) {
		t.Errorf("x.1.deref type = %s, want i32", p.Ty())
	}
}

func TestPlaceString(t *testing.T) {
	p := mkPlace("_2", idx(0), deref())
	if got := p.String(); got != "_2.0.deref" {
		t.Errorf("place renders as %q", got)
	}
}
