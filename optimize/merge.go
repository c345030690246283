// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/ownlang/ownc/mir"
)

// MergeBlocks collapses straight-line chains b0 -> b1 -> ... -> bn, where
// every interior edge is an unconditional goto and every link's target has
// that link as its only predecessor, into b0.  The head block inherits the
// tail's terminator; the other blocks of the chain are left empty and
// unreachable, to be collected by RemoveUnreachable.  The tail loses its
// terminator; the blocks between head and tail keep their gotos.
//
// Requires Predecessors.  The visited set grows strictly, so every block is
// considered for at most one chain.
func MergeBlocks(f *mir.Function) {
	visited := bitset.New(uint(len(f.Blocks)))

	for i := range f.Blocks {
		if visited.Test(uint(i)) {
			continue
		}

		var chain []mir.BlockID
		pred := i
		for {
			g, ok := f.Blocks[pred].Term.(mir.Goto)
			if !ok {
				break
			}
			succ := g.Target
			if succ == pred || len(f.Predecessors[succ]) != 1 || visited.Test(uint(succ)) {
				break
			}
			chain = append(chain, pred)
			visited.Set(uint(pred))
			pred = succ
		}
		if len(chain) == 0 {
			continue
		}
		chain = append(chain, pred)
		visited.Set(uint(pred))

		head := f.Blocks[chain[0]]
		tail := f.Blocks[chain[len(chain)-1]]
		head.Term = tail.Term
		tail.Term = nil
		for _, id := range chain[1:] {
			b := f.Blocks[id]
			head.Stmts = append(head.Stmts, b.Stmts...)
			b.Stmts = nil
		}
	}

	// The edges just changed; preds/succs describe the old graph.
	f.Predecessors = nil
	f.Successors = nil
}
