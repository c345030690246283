// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package optimize contains the MIR rewrites: constant propagation,
// unused-variable elimination, unreachable-block removal, and straight-line
// block merging.  The passes mutate the function in place; any pass that
// changes topology leaves the function's derived analyses stale, and the
// caller must recompute them before the next consumer runs.
package optimize

import "github.com/ownlang/ownc/mir"

// ConstantPropagation folds copies of known constants within each block.
// The known-constant map does not survive block boundaries.  A conditional
// branch on a place known to hold a boolean collapses to an unconditional
// one; the unreachable arm is left for RemoveUnreachable.
func ConstantPropagation(f *mir.Function) {
	for _, b := range f.Blocks {
		consts := make(map[string]mir.Const)
		for _, s := range b.Stmts {
			switch op := s.Op.(type) {
			case mir.Assign:
				key := op.Place.String()
				if use, ok := op.Rvalue.(mir.Use); ok {
					if c, ok := use.X.(mir.Const); ok {
						consts[key] = c
						continue
					}
					if cp, ok := use.X.(mir.Copy); ok {
						if c, ok := consts[cp.Place.String()]; ok {
							s.Op = mir.Assign{Place: op.Place, Rvalue: mir.Use{X: c}}
							consts[key] = c
							continue
						}
					}
				}
				delete(consts, key)
			case mir.Call:
				delete(consts, op.Dest.String())
			}
		}
		if cg, ok := b.Term.(mir.CondGoto); ok {
			if cp, ok := cg.Cond.(mir.Copy); ok {
				if c, ok := consts[cp.Place.String()]; ok && c.Kind == mir.ConstBool {
					if c.Bool {
						b.Term = mir.Goto{Target: cg.Then}
					} else {
						b.Term = mir.Goto{Target: cg.Else}
					}
				}
			}
		}
	}
}
