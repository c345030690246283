// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file computes live places per statement and per block by a backward
// may-dataflow fixpoint:
//
//	live_in(s)  = used(s) ∪ (live_out(s) \ {p | some d in def∪move is a prefix of p})
//	live_out(s) = live_in of the next statement, else the block's live-out
//
// A block's live-out is the union over its successors of the live-in of the
// successor's first statement; Return contributes nothing.  The fixpoint
// terminates because the sets grow monotonically within a finite place
// universe.
//
// Based on the iterative live-variable algorithm of ch 9.2, p.610
// Dragonbook, v2.2.
package mir

import "github.com/ownlang/ownc/ast"

// Effects returns the place-sets a single operation reads (used), consumes
// (moved, a subset of used), and writes (defs).  Taking a reference counts
// as a use of the referenced place and of every loan place carried on its
// local's type, which is what keeps a reborrowed-from place alive.
func Effects(op Operation) (used, moved, defs []ast.Place) {
	operand := func(o Operand) {
		p, ok := OperandPlace(o)
		if !ok {
			return
		}
		used = append(used, p)
		if _, isMove := o.(Move); isMove {
			moved = append(moved, p)
		}
	}
	switch op := op.(type) {
	case Assign:
		defs = append(defs, op.Place)
		switch rv := op.Rvalue.(type) {
		case Use:
			operand(rv.X)
		case Ref:
			used = append(used, rv.Place)
			for _, loan := range ast.TypeLoans(rv.Place.Local.Ty) {
				used = append(used, loan.Place)
			}
		}
	case Call:
		defs = append(defs, op.Dest)
		for _, a := range op.Args {
			operand(a)
		}
	}
	return used, moved, defs
}

// ComputeLiveness fills the per-statement and per-block live sets.  It
// needs only terminators; no other analysis is a prerequisite.
func (f *Function) ComputeLiveness() {
	for changed := true; changed; {
		changed = false
		for i := len(f.Blocks) - 1; i >= 0; i-- {
			if f.updateBlockLiveness(f.Blocks[i]) {
				changed = true
			}
		}
	}
}

func (f *Function) updateBlockLiveness(b *BasicBlock) bool {
	changed := false

	var liveOut PlaceSet
	if b.Term != nil {
		for _, t := range TermTargets(b.Term) {
			liveOut.Extend(f.entryLive(t))
		}
	}
	if !b.LiveOut.Equal(liveOut) {
		changed = true
	}
	b.LiveOut = liveOut

	live := liveOut.Clone()
	for j := len(b.Stmts) - 1; j >= 0; j-- {
		s := b.Stmts[j]
		if !s.LiveOut.Equal(live) {
			changed = true
		}
		s.LiveOut = live.Clone()

		used, moved, defs := Effects(s.Op)
		kills := append(append([]ast.Place(nil), defs...), moved...)

		var in PlaceSet
		for _, p := range used {
			in.Add(p)
		}
	surviving:
		for _, p := range live.Places() {
			for _, d := range kills {
				if d.IsPrefixOf(p) {
					continue surviving
				}
			}
			in.Add(p)
		}
		if !s.LiveIn.Equal(in) {
			changed = true
		}
		s.LiveIn = in
		live = in.Clone()
	}

	var blockIn PlaceSet
	for _, s := range b.Stmts {
		blockIn.Extend(s.LiveIn)
	}
	if !b.LiveIn.Equal(blockIn) {
		changed = true
	}
	b.LiveIn = blockIn
	return changed
}

// entryLive is what an edge into b keeps alive: the live-in of b's first
// statement, or b's own live-out when b has no statements.
func (f *Function) entryLive(b BlockID) PlaceSet {
	blk := f.Blocks[b]
	if len(blk.Stmts) > 0 {
		return blk.Stmts[0].LiveIn
	}
	return blk.LiveOut
}
