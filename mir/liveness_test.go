// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mir

import (
	"testing"

	"github.com/ownlang/ownc/ast"
)

// expectLive asserts the live-in set of one statement, identified by block
// and statement index, as a sorted list of place strings.
func expectLive(t *testing.T, f *Function, block BlockID, stmt int, want ...string) {
	t.Helper()
	got := placeStrings(&f.Blocks[block].Stmts[stmt].LiveIn)
	if !sameStrings(got, want) {
		t.Errorf("bb%d stmt %d live-in = %v, want %v", block, stmt, got, want)
	}
}

func placeStrings(s *PlaceSet) []string {
	var out []string
	for _, p := range s.Places() {
		out = append(out, p.String())
	}
	return out
}

func sameStrings(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for _, w := range want {
		found := false
		for _, g := range got {
			if g == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func TestLivenessStraightLine(t *testing.T) {
	f := lowerFn(t, "fn f(x: i32) -> i32 { let y = x; y }")
	f.ComputeLiveness()

	// bb0: StorageLive(_1); _1 = copy x; _0 = copy _1; StorageDead(_1)
	expectLive(t, f, 0, 0, "x")
	expectLive(t, f, 0, 1, "x")
	expectLive(t, f, 0, 2, "_1")
	expectLive(t, f, 0, 3)

	if got := placeStrings(&f.Blocks[0].LiveOut); len(got) != 0 {
		t.Errorf("block live-out = %v, want empty (return contributes nothing)", got)
	}
	if got := placeStrings(&f.Blocks[0].LiveIn); !sameStrings(got, []string{"x", "_1"}) {
		t.Errorf("block live-in = %v, want [x _1]", got)
	}
}

func TestLivenessAcrossBranches(t *testing.T) {
	f := lowerFn(t, "fn f(c: bool, a: i32, b: i32) -> i32 { if c { a } else { b } }")
	f.ComputeLiveness()

	// bb0 ends in the conditional branch; its live-out is the union of the
	// arms' needs.  The branch condition itself is not part of statement
	// liveness: loans never attach to boolean temporaries.
	if got := placeStrings(&f.Blocks[0].LiveOut); !sameStrings(got, []string{"a", "b"}) {
		t.Errorf("bb0 live-out = %v, want [a b]", got)
	}
	// Each arm needs only its own parameter.
	expectLive(t, f, 1, 0, "a")
	expectLive(t, f, 2, 0, "b")
	// The join block reads the arm temporary.
	expectLive(t, f, 3, 0, "_1")
}

func TestLivenessMoveKills(t *testing.T) {
	f := lowerFn(t, `fn f() -> String { let x = "a"; let y = x; y }`)
	f.ComputeLiveness()

	// bb0: SL(_1); _1 = const "a"; SL(_2); _2 = move _1; _0 = move _2; ...
	// The move of _1 reads it, so _1 is live into the move, but the move
	// consumes it, so _1 is not live after it.
	expectLive(t, f, 0, 3, "_1")
	expectLive(t, f, 0, 4, "_2")
	for _, s := range f.Blocks[0].Stmts[4:] {
		if s.LiveIn.Contains(placeOf(t, f, "_1")) {
			t.Errorf("_1 live after being moved")
		}
	}
}

func TestLivenessLoanKeepsPlaceAlive(t *testing.T) {
	f := lowerFn(t, `fn f() -> () { let x = "a"; let a = &x; let b = &a.deref; print(a) }`)
	f.ComputeLiveness()

	// Taking &a.deref uses a.deref and, through the loan on a's type, x
	// itself; find the reborrow statement and check both.
	for _, b := range f.Blocks {
		for _, s := range b.Stmts {
			if op, ok := s.Op.(Assign); ok {
				if ref, ok := op.Rvalue.(Ref); ok && len(ref.Place.Elems) == 1 {
					if !s.LiveIn.Contains(placeOf(t, f, "_1")) {
						t.Errorf("reborrow does not keep the loaned place alive: %v",
							placeStrings(&s.LiveIn))
					}
					return
				}
			}
		}
	}
	t.Fatal("no reborrow statement found")
}

// placeOf returns the projection-free place for the named local.
func placeOf(t *testing.T, f *Function, id string) ast.Place {
	t.Helper()
	for _, l := range f.Locals {
		if l.ID == id {
			return ast.PlaceFor(l)
		}
	}
	t.Fatalf("no local %s", id)
	return ast.Place{}
}
