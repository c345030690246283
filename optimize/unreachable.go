// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/ownlang/ownc/mir"
)

// RemoveUnreachable deletes blocks not reachable from the entry block,
// renumbers the survivors so that every block's ID equals its index again,
// and rewrites terminator targets accordingly.  The function-level derived
// data (predecessors, successors, DFS orders, RPO numbers, dominator tree) is
// cleared: it described the old topology.  Per-block Dom and live sets are
// left as they were.
func RemoveUnreachable(f *mir.Function) {
	visited := bitset.New(uint(len(f.Blocks)))
	var dfs func(b mir.BlockID)
	dfs = func(b mir.BlockID) {
		if visited.Test(uint(b)) {
			return
		}
		visited.Set(uint(b))
		if f.Blocks[b].Term != nil {
			for _, t := range mir.TermTargets(f.Blocks[b].Term) {
				dfs(t)
			}
		}
	}
	dfs(0)

	blockMap := make([]mir.BlockID, len(f.Blocks))
	kept := make([]*mir.BasicBlock, 0, visited.Count())
	for _, b := range f.Blocks {
		if visited.Test(uint(b.ID)) {
			blockMap[b.ID] = len(kept)
			kept = append(kept, b)
		}
	}
	f.Blocks = kept

	for _, b := range f.Blocks {
		b.ID = blockMap[b.ID]
		switch t := b.Term.(type) {
		case mir.Goto:
			b.Term = mir.Goto{Target: blockMap[t.Target]}
		case mir.CondGoto:
			b.Term = mir.CondGoto{
				Cond: t.Cond,
				Then: blockMap[t.Then],
				Else: blockMap[t.Else],
			}
		}
	}

	clearDerived(f)
}

func clearDerived(f *mir.Function) {
	f.Predecessors = nil
	f.Successors = nil
	f.Postorder = nil
	f.Preorder = nil
	f.RPONum = nil
	f.DomTree = nil
}
