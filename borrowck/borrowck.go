// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package borrowck enforces the aliasing rules over analysed MIR.  It
// consumes the per-statement live sets and the loan annotations carried on
// reference types: a statement is legal iff the loan it would create is
// compatible with every loan held by a live reference, where two loans are
// compatible iff both are shared or their places are disjoint.
//
// Assignment writes check against the statement's live-out, call-destination
// writes and reference-taking against its live-in, and moves against its
// live-out; a move additionally consumes
// its place, so any overlapping place still live afterwards is an error.
package borrowck

import (
	"fmt"

	"github.com/ownlang/ownc/ast"
	"github.com/ownlang/ownc/mir"
)

// An Error is a borrow error: the loan a statement would create, the live
// loan it conflicts with, and where.
type Error struct {
	// Loan is what the offending statement tried to create.
	Loan ast.Loan
	// Conflict is the live loan it is incompatible with.  For a
	// use-after-move error, Conflict.Place is the live place that overlaps
	// the moved one and Conflict.Mutable is false.
	Conflict ast.Loan
	// Moved reports a use-after-move rather than a loan conflict.
	Moved bool
	Block mir.BlockID
	Stmt  int
}

func (e *Error) Error() string {
	if e.Moved {
		return fmt.Sprintf("bb%d: cannot move out of %s: %s is still live",
			e.Block, e.Loan.Place, e.Conflict.Place)
	}
	return fmt.Sprintf("bb%d: loan %s conflicts with live loan %s",
		e.Block, e.Loan, e.Conflict)
}

// Check verifies the whole function.  ComputeLiveness must have run; the
// first violation found is returned.
func Check(f *mir.Function) error {
	for _, b := range f.Blocks {
		for i, s := range b.Stmts {
			if err := checkStmt(b, i, s); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkStmt(b *mir.BasicBlock, i int, s *mir.Stmt) error {
	at := func(loan, conflict ast.Loan, moved bool) error {
		return &Error{Loan: loan, Conflict: conflict, Moved: moved, Block: b.ID, Stmt: i}
	}

	switch op := s.Op.(type) {
	case mir.Assign:
		write := ast.Loan{Place: op.Place, Mutable: true}
		if conflict, ok := permits(&s.LiveOut, write); !ok {
			return at(write, conflict, false)
		}
		if ref, isRef := op.Rvalue.(mir.Ref); isRef {
			loan := ast.Loan{Place: ref.Place, Mutable: ref.Mutable}
			if conflict, ok := permits(&s.LiveIn, loan); !ok {
				return at(loan, conflict, false)
			}
		}
	case mir.Call:
		write := ast.Loan{Place: op.Dest, Mutable: true}
		if conflict, ok := permits(&s.LiveIn, write); !ok {
			return at(write, conflict, false)
		}
	}

	// A move consumes its place: the moved-from place must be compatible
	// with every live loan, and nothing overlapping it may be live after
	// the statement.
	_, moved, _ := mir.Effects(s.Op)
	for _, p := range moved {
		loan := ast.Loan{Place: p, Mutable: false}
		if conflict, ok := permits(&s.LiveOut, loan); !ok {
			return at(loan, conflict, false)
		}
		for _, q := range s.LiveOut.Places() {
			if !p.Disjoint(q) {
				return at(loan, ast.Loan{Place: q}, true)
			}
		}
	}
	return nil
}

// permits reports whether creating loan l1 is compatible with every loan
// carried by the type of a live place's local.  On failure it returns the
// conflicting loan.
func permits(live *mir.PlaceSet, l1 ast.Loan) (ast.Loan, bool) {
	for _, q := range live.Places() {
		for _, l2 := range ast.TypeLoans(q.Local.Ty) {
			if !compatible(l1, l2) {
				return l2, false
			}
		}
	}
	return ast.Loan{}, true
}

// compatible: two loans may coexist iff both are shared or their places are
// disjoint.
func compatible(l1, l2 ast.Loan) bool {
	if !l1.Mutable && !l2.Mutable {
		return true
	}
	return l1.Place.Disjoint(l2.Place)
}
