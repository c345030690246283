// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"github.com/ownlang/ownc/ast"
	"github.com/ownlang/ownc/mir"
)

// RemoveUnusedVariables drops locals, and the statements that define them,
// whose values cannot reach the return slot or a call.  The used-set is a
// fixpoint seeded with _0 and every terminator condition: an assignment's
// operands become used when its destination is, and a call's destination
// and arguments are always used (calls have effects).
//
// Membership is overlap-based: a write to _2.0 is live when _2 is consumed
// whole, and vice versa.
func RemoveUnusedVariables(f *mir.Function) {
	used := &useSet{}
	used.add(ast.PlaceFor(f.ReturnLocal()))
	for _, b := range f.Blocks {
		if cg, ok := b.Term.(mir.CondGoto); ok {
			if p, ok := mir.OperandPlace(cg.Cond); ok {
				used.add(p)
			}
		}
	}

	for changed := true; changed; {
		changed = false
		for _, b := range f.Blocks {
			for _, s := range b.Stmts {
				switch op := s.Op.(type) {
				case mir.Assign:
					if !used.overlaps(op.Place) {
						continue
					}
					switch rv := op.Rvalue.(type) {
					case mir.Use:
						if p, ok := mir.OperandPlace(rv.X); ok {
							changed = used.add(p) || changed
						}
					case mir.Ref:
						changed = used.add(rv.Place) || changed
					}
				case mir.Call:
					changed = used.add(op.Dest) || changed
					for _, a := range op.Args {
						if p, ok := mir.OperandPlace(a); ok {
							changed = used.add(p) || changed
						}
					}
				}
			}
		}
	}

	kept := f.Locals[:0]
	for _, l := range f.Locals {
		if used.overlaps(ast.PlaceFor(l)) {
			kept = append(kept, l)
		}
	}
	f.Locals = kept

	for _, b := range f.Blocks {
		stmts := b.Stmts[:0]
		for _, s := range b.Stmts {
			switch op := s.Op.(type) {
			case mir.Assign:
				if !used.overlaps(op.Place) {
					continue
				}
			case mir.StorageLive:
				if !used.overlaps(ast.PlaceFor(op.Local)) {
					continue
				}
			case mir.StorageDead:
				if !used.overlaps(ast.PlaceFor(op.Local)) {
					continue
				}
			}
			stmts = append(stmts, s)
		}
		b.Stmts = stmts
	}
}

// A useSet is a deduplicated vector of places with overlap queries.
type useSet struct {
	places []ast.Place
}

func (u *useSet) add(p ast.Place) bool {
	for _, q := range u.places {
		if q.Equal(p) {
			return false
		}
	}
	u.places = append(u.places, p)
	return true
}

// overlaps reports whether p shares storage with any used place.
func (u *useSet) overlaps(p ast.Place) bool {
	for _, q := range u.places {
		if !q.Disjoint(p) {
			return true
		}
	}
	return false
}
