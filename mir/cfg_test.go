// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mir

import (
	"reflect"
	"testing"
)

func TestGraphOrders(t *testing.T) {
	f := lowerFn(t, "fn f() -> i32 { if true { 1 } else { 2 }; 3 }")
	f.ComputePredecessors()
	f.ComputeSuccessors()
	f.ComputePostorder()
	f.ComputePreorder()
	f.ComputeRPONum()

	wantSuccs := [][]BlockID{{1, 2}, {3}, {3}, nil}
	if !reflect.DeepEqual(f.Successors, wantSuccs) {
		t.Errorf("successors = %v, want %v", f.Successors, wantSuccs)
	}
	wantPreds := [][]BlockID{nil, {0}, {0}, {1, 2}}
	if !reflect.DeepEqual(f.Predecessors, wantPreds) {
		t.Errorf("predecessors = %v, want %v", f.Predecessors, wantPreds)
	}
	if want := []BlockID{3, 1, 2, 0}; !reflect.DeepEqual(f.Postorder, want) {
		t.Errorf("postorder = %v, want %v", f.Postorder, want)
	}
	if want := []BlockID{0, 1, 3, 2}; !reflect.DeepEqual(f.Preorder, want) {
		t.Errorf("preorder = %v, want %v", f.Preorder, want)
	}
	if want := []int{0, 2, 1, 3}; !reflect.DeepEqual(f.RPONum, want) {
		t.Errorf("rpo numbers = %v, want %v", f.RPONum, want)
	}
}

func TestDominatorsDiamond(t *testing.T) {
	f := lowerFn(t, "fn f() -> i32 { if true { 1 } else { 2 }; 3 }")
	f.ComputePredecessors()
	f.ComputeDominators()

	wantDoms := [][]BlockID{{0}, {0, 1}, {0, 2}, {0, 3}}
	for b := range f.Blocks {
		if got := f.DomSet(b); !reflect.DeepEqual(got, wantDoms[b]) {
			t.Errorf("dom(%d) = %v, want %v", b, got, wantDoms[b])
		}
	}
	// All three exit blocks are immediately dominated by the entry.
	wantTree := [][]BlockID{{1, 2, 3}, nil, nil, nil}
	if !reflect.DeepEqual(f.DomTree, wantTree) {
		t.Errorf("domtree = %v, want %v", f.DomTree, wantTree)
	}
}

func TestDominatorsLoop(t *testing.T) {
	f := lowerFn(t, "fn f(x: bool) -> () { while x { () } }")
	f.ComputePredecessors()
	f.ComputeSuccessors()
	f.ComputePostorder()
	f.ComputeRPONum()
	f.ComputeDominators()

	// bb0 -> header bb1 -> {body bb2, after bb3}; body -> header.
	for _, b := range f.Blocks {
		if !f.Blocks[b.ID].Dom.Test(0) {
			t.Errorf("entry does not dominate bb%d", b.ID)
		}
		if !f.Blocks[b.ID].Dom.Test(uint(b.ID)) {
			t.Errorf("bb%d does not dominate itself", b.ID)
		}
	}
	wantTree := [][]BlockID{{1}, {2, 3}, nil, nil}
	if !reflect.DeepEqual(f.DomTree, wantTree) {
		t.Errorf("domtree = %v, want %v", f.DomTree, wantTree)
	}
	// The body -> header edge is the loop's back edge.
	if !(f.RPONum[1] <= f.RPONum[2]) {
		t.Errorf("edge bb2->bb1 should be a back edge; rpo = %v", f.RPONum)
	}
}
