// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"testing"

	"github.com/ownlang/ownc/infer"
	"github.com/ownlang/ownc/mir"
	"github.com/ownlang/ownc/syntax"
)

func lowerFn(t *testing.T, src string) *mir.Function {
	t.Helper()
	parsed, err := syntax.ParseFunction(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	typed, err := infer.Function(parsed)
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	return mir.Lower(typed)
}

func expectMIR(t *testing.T, f *mir.Function, want string) {
	t.Helper()
	if got := f.String(); got != want {
		t.Errorf("wrong MIR\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestConstantPropagation(t *testing.T) {
	f := lowerFn(t, "fn f() -> i32 { let x = 1; let y = 2; y }")
	ConstantPropagation(f)
	expectMIR(t, f, `fn f() -> i32 {
    let _0: i32;
    let _1: i32;
    let _2: i32;
    bb0: {
        StorageLive(_1);
        _1 = const 1;
        StorageLive(_2);
        _2 = const 2;
        _0 = const 2;
        StorageDead(_2);
        StorageDead(_1);
        return;
    }
}`)
}

func TestConstantPropagationStopsAtWrites(t *testing.T) {
	f := lowerFn(t, `fn f() -> i32 { let mut x = 1; assign(x, 2); x }`)
	ConstantPropagation(f)
	// After the second write x holds 2; the final read must not see 1.
	found := false
	for _, s := range f.Blocks[0].Stmts {
		op, ok := s.Op.(mir.Assign)
		if !ok || op.Place.String() != "_0" {
			continue
		}
		if use, ok := op.Rvalue.(mir.Use); ok {
			if c, ok := use.X.(mir.Const); ok && c.Kind == mir.ConstInt && c.Int == 2 {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("constant 2 did not reach the return slot:\n%s", f)
	}
}

func TestRemoveUnusedVariables(t *testing.T) {
	f := lowerFn(t, "fn f() -> i32 { let x = 1; let y = 2; y }")
	ConstantPropagation(f)
	RemoveUnusedVariables(f)
	expectMIR(t, f, `fn f() -> i32 {
    let _0: i32;
    bb0: {
        _0 = const 2;
        return;
    }
}`)
}

func TestFoldBranchAndRemoveUnreachable(t *testing.T) {
	f := lowerFn(t, "fn f() -> i32 { let c = true; if c { 1 } else { 2 } }")
	ConstantPropagation(f)
	RemoveUnreachable(f)

	if len(f.Blocks) != 3 {
		t.Fatalf("got %d blocks, want 3 (entry, then-arm, join):\n%s", len(f.Blocks), f)
	}
	for i, b := range f.Blocks {
		if b.ID != i {
			t.Errorf("block %d has id %d after renumbering", i, b.ID)
		}
		if b.Term == nil {
			t.Errorf("bb%d lost its terminator", i)
		}
		for _, target := range mir.TermTargets(b.Term) {
			if target >= len(f.Blocks) {
				t.Errorf("bb%d jumps to deleted block %d", i, target)
			}
		}
	}
	if _, ok := f.Blocks[0].Term.(mir.Goto); !ok {
		t.Errorf("folded branch should be a goto, got %T", f.Blocks[0].Term)
	}
}

func TestMergeBlocks(t *testing.T) {
	f := lowerFn(t, "fn f() -> i32 { let c = true; if c { 1 } else { 2 } }")
	ConstantPropagation(f)
	RemoveUnusedVariables(f)
	RemoveUnreachable(f)
	f.ComputePredecessors()
	MergeBlocks(f)
	RemoveUnreachable(f)

	expectMIR(t, f, `fn f() -> i32 {
    let _0: i32;
    let _2: i32;
    bb0: {
        StorageLive(_2);
        _2 = const 1;
        _0 = copy _2;
        StorageDead(_2);
        return;
    }
}`)
}

func TestMergeKeepsConditionalBoundaries(t *testing.T) {
	f := lowerFn(t, "fn f(x: bool) -> i32 { if x { 1 } else { 2 } }")
	f.ComputePredecessors()
	MergeBlocks(f)
	// There is no goto chain here: the entry ends in the conditional and
	// both arms jump to a join with two predecessors.  The conditional and
	// its join must survive.
	condBlocks := 0
	for _, b := range f.Blocks {
		if _, ok := b.Term.(mir.CondGoto); ok {
			condBlocks++
		}
	}
	if condBlocks != 1 {
		t.Errorf("conditional was merged away; got %d CondGoto blocks", condBlocks)
	}
}
