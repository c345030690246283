// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file computes dominator sets by the classical iterative intersection
// fixpoint and derives the immediate-dominator tree from them.  Dominator
// sets are bitsets indexed by block id; the fixpoint terminates because the
// sets shrink monotonically.
package mir

import "github.com/bits-and-blooms/bitset"

// ComputeDominators fills each block's Dom set and the function's DomTree.
//
//	Dom(0) = {0}
//	Dom(b) = {b} ∪ ⋂{Dom(p) | p ∈ preds(b)}
//
// Requires Predecessors.  Only reachable blocks get meaningful sets; a block
// with no predecessors converges to {b}.
func (f *Function) ComputeDominators() {
	n := uint(len(f.Blocks))
	dom := make([]*bitset.BitSet, n)
	dom[0] = bitset.New(n)
	dom[0].Set(0)
	for b := 1; b < len(f.Blocks); b++ {
		dom[b] = bitset.New(n).Complement()
	}

	for changed := true; changed; {
		changed = false
		for b := 1; b < len(f.Blocks); b++ {
			next := bitset.New(n)
			for i, p := range f.Predecessors[b] {
				if i == 0 {
					next = dom[p].Clone()
				} else {
					next.InPlaceIntersection(dom[p])
				}
			}
			next.Set(uint(b))
			if !next.Equal(dom[b]) {
				dom[b] = next
				changed = true
			}
		}
	}

	for b, d := range dom {
		f.Blocks[b].Dom = d
	}
	f.computeDomTree()
}

// computeDomTree derives the immediate dominator of every block b > 0: the
// strict dominator of b that dominates no other strict dominator of b, i.e.
// the deepest one.  The tree is stored as child lists indexed by parent.
func (f *Function) computeDomTree() {
	n := len(f.Blocks)
	tree := make([][]BlockID, n)
	for b := 1; b < n; b++ {
		idom, ok := f.immediateDominator(b)
		if ok {
			tree[idom] = append(tree[idom], b)
		}
	}
	f.DomTree = tree
}

func (f *Function) immediateDominator(b BlockID) (BlockID, bool) {
	strict := f.strictDominators(b)
	for _, d := range strict {
		deepest := true
		for _, other := range strict {
			if other != d && f.Blocks[other].Dom.Test(uint(d)) {
				deepest = false
				break
			}
		}
		if deepest {
			return d, true
		}
	}
	return 0, false
}

func (f *Function) strictDominators(b BlockID) []BlockID {
	var out []BlockID
	for d, ok := f.Blocks[b].Dom.NextSet(0); ok; d, ok = f.Blocks[b].Dom.NextSet(d + 1) {
		if int(d) != b {
			out = append(out, int(d))
		}
	}
	return out
}

// DomSet returns a block's dominator set as a sorted id list, for display
// and tests.
func (f *Function) DomSet(b BlockID) []BlockID {
	var out []BlockID
	for d, ok := f.Blocks[b].Dom.NextSet(0); ok; d, ok = f.Blocks[b].Dom.NextSet(d + 1) {
		out = append(out, int(d))
	}
	return out
}
