// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file derives the block graph from terminators: predecessor and
// successor lists, depth-first orders, and reverse-postorder numbering.
package mir

import "github.com/bits-and-blooms/bitset"

// TermTargets returns the blocks a terminator may jump to.
func TermTargets(t Terminator) []BlockID {
	switch t := t.(type) {
	case Goto:
		return []BlockID{t.Target}
	case CondGoto:
		return []BlockID{t.Then, t.Else}
	}
	return nil
}

// ComputePredecessors fills Predecessors: b maps to every block whose
// terminator jumps to b.
func (f *Function) ComputePredecessors() {
	preds := make([][]BlockID, len(f.Blocks))
	for _, b := range f.Blocks {
		if b.Term == nil {
			continue
		}
		for _, t := range TermTargets(b.Term) {
			preds[t] = append(preds[t], b.ID)
		}
	}
	f.Predecessors = preds
}

// ComputeSuccessors fills Successors: b maps to its terminator's targets.
func (f *Function) ComputeSuccessors() {
	succs := make([][]BlockID, len(f.Blocks))
	for _, b := range f.Blocks {
		if b.Term != nil {
			succs[b.ID] = TermTargets(b.Term)
		}
	}
	f.Successors = succs
}

// ComputePostorder records blocks in depth-first exit order starting from
// the entry block.  Requires Successors.
func (f *Function) ComputePostorder() {
	visited := bitset.New(uint(len(f.Blocks)))
	order := make([]BlockID, 0, len(f.Blocks))
	var dfs func(b BlockID)
	dfs = func(b BlockID) {
		visited.Set(uint(b))
		for _, s := range f.Successors[b] {
			if !visited.Test(uint(s)) {
				dfs(s)
			}
		}
		order = append(order, b)
	}
	dfs(0)
	f.Postorder = order
}

// ComputePreorder records blocks in depth-first entry order starting from
// the entry block.  Requires Successors.
func (f *Function) ComputePreorder() {
	visited := bitset.New(uint(len(f.Blocks)))
	order := make([]BlockID, 0, len(f.Blocks))
	var dfs func(b BlockID)
	dfs = func(b BlockID) {
		visited.Set(uint(b))
		order = append(order, b)
		for _, s := range f.Successors[b] {
			if !visited.Test(uint(s)) {
				dfs(s)
			}
		}
	}
	dfs(0)
	f.Preorder = order
}

// ComputeRPONum numbers each reachable block with its 0-based position in
// reverse postorder.  Requires Postorder.
func (f *Function) ComputeRPONum() {
	nums := make([]int, len(f.Blocks))
	for i, b := range f.Postorder {
		nums[b] = len(f.Postorder) - 1 - i
	}
	f.RPONum = nums
}

// Analyse runs the full analysis stack in dependency order: predecessors,
// successors, DFS orders, reverse-postorder numbering, dominators, and
// liveness.
func (f *Function) Analyse() *Function {
	f.ComputePredecessors()
	f.ComputeSuccessors()
	f.ComputePostorder()
	f.ComputePreorder()
	f.ComputeRPONum()
	f.ComputeDominators()
	f.ComputeLiveness()
	return f
}
