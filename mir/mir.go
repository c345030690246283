// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mir defines the middle intermediate representation: a function as
// a vector of basic blocks holding three-address statements and explicit
// storage markers, plus the dataflow artefacts computed over the block graph
// (predecessors, successors, DFS orders, dominators, liveness) and the
// structural restructurer that recovers an AST from it.
//
// A block's ID always equals its index in the function's block vector; every
// transformation in this package and in package optimize preserves that
// invariant.  The derived fields (Predecessors, Successors, Postorder,
// Preorder, RPONum, DomTree, per-block Dom sets, live sets) are functions of
// the block graph alone; any pass that mutates terminators or the block
// vector leaves them stale, and recomputing them before the next consumer
// runs is the caller's obligation.
package mir

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/ownlang/ownc/ast"
)

// A BlockID indexes a basic block in its function's block vector.
type BlockID = int

// A Function is a lowered function together with its analysis artefacts.
type Function struct {
	Name   string
	Params []ast.Local
	Locals []ast.Local // Locals[0] is the return slot _0
	Ty     ast.Type
	Blocks []*BasicBlock

	// Derived data; see the package comment for staleness rules.
	DomTree      [][]BlockID
	Successors   [][]BlockID
	Predecessors [][]BlockID
	Postorder    []BlockID
	Preorder     []BlockID
	// RPONum[b] is b's 0-based position in reverse postorder.  An edge
	// u->v with RPONum[v] <= RPONum[u] is a back edge.
	RPONum []int
}

// ReturnLocal returns the function's return slot _0.
func (f *Function) ReturnLocal() ast.Local {
	return f.Locals[0]
}

// A BasicBlock is a straight-line statement sequence ended by a terminator.
type BasicBlock struct {
	ID    BlockID
	Stmts []*Stmt
	Term  Terminator // nil while the block is still open during lowering

	LiveIn  PlaceSet
	LiveOut PlaceSet
	Dom     *bitset.BitSet // blocks dominating this one
}

// SetTerm installs a terminator if the block does not already have one.
// Terminator writes are first-write-wins: once return, break, or continue
// has transferred control, the statements a later sibling would append are
// dead and its terminator must not clobber the real one.
func (b *BasicBlock) SetTerm(t Terminator) {
	if b.Term == nil {
		b.Term = t
	}
}

// A Stmt is one operation with its per-statement live sets.
type Stmt struct {
	Op      Operation
	LiveIn  PlaceSet
	LiveOut PlaceSet
}

// NewStmt wraps an operation in a statement with empty live sets.
func NewStmt(op Operation) *Stmt {
	return &Stmt{Op: op}
}

// An Operation is the payload of a statement.
type Operation interface{ opNode() }

type (
	// Assign writes an rvalue to a place.
	Assign struct {
		Place  ast.Place
		Rvalue Rvalue
	}
	// StorageLive marks the start of a local's storage.  It is distinct
	// from the first assignment: locals may be mutable, and the MIR must
	// distinguish initialisation from mutation.
	StorageLive struct{ Local ast.Local }
	// StorageDead marks the end of a local's storage scope.
	StorageDead struct{ Local ast.Local }
	// Call invokes a built-in and assigns its result to Dest.
	Call struct {
		Dest ast.Place
		Func Operand
		Args []Operand
	}
	// Noop does nothing.
	Noop struct{}
)

func (Assign) opNode()      {}
func (StorageLive) opNode() {}
func (StorageDead) opNode() {}
func (Call) opNode()        {}
func (Noop) opNode()        {}

// A Terminator transfers control out of a block.
type Terminator interface{ termNode() }

type (
	// Return leaves the function; the return value is in _0.
	Return struct{}
	// Goto jumps unconditionally.
	Goto struct{ Target BlockID }
	// CondGoto jumps to Then if Cond is true, else to Else.
	CondGoto struct {
		Cond       Operand
		Then, Else BlockID
	}
)

func (Return) termNode()   {}
func (Goto) termNode()     {}
func (CondGoto) termNode() {}

// An Rvalue is the right-hand side of an assignment.
type Rvalue interface{ rvalueNode() }

type (
	// Use produces an operand's value.
	Use struct{ X Operand }
	// Ref takes a reference to a place; references may be taken only of
	// currently live places.
	Ref struct {
		Mutable bool
		Place   ast.Place
	}
)

func (Use) rvalueNode() {}
func (Ref) rvalueNode() {}

// An Operand is an argument position value.
type Operand interface{ operandNode() }

type (
	// Copy reads a copy-typed place, leaving it valid.
	Copy struct{ Place ast.Place }
	// Move reads a move-typed place and consumes it: any subsequent live
	// use of the place is rejected by the borrow checker.
	Move struct{ Place ast.Place }
	// FuncRef names a built-in function.
	FuncRef struct{ Name string }
	// Const is a literal value.
	Const struct {
		Kind ConstKind
		Int  int
		Bool bool
		Str  string
	}
)

func (Copy) operandNode()    {}
func (Move) operandNode()    {}
func (FuncRef) operandNode() {}
func (Const) operandNode()   {}

// A ConstKind discriminates constant values.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstBool
	ConstString
	ConstUnit
)

// IntConst returns an integer constant operand.
func IntConst(v int) Const { return Const{Kind: ConstInt, Int: v} }

// BoolConst returns a boolean constant operand.
func BoolConst(v bool) Const { return Const{Kind: ConstBool, Bool: v} }

// StringConst returns a string constant operand.
func StringConst(v string) Const { return Const{Kind: ConstString, Str: v} }

// UnitConst returns the unit constant operand.
func UnitConst() Const { return Const{Kind: ConstUnit} }

// OperandPlace returns the place an operand reads, if any.
func OperandPlace(op Operand) (ast.Place, bool) {
	switch op := op.(type) {
	case Copy:
		return op.Place, true
	case Move:
		return op.Place, true
	}
	return ast.Place{}, false
}

// OperandForPlace reads a place as an operand: copy-typed places copy, all
// others move.
func OperandForPlace(p ast.Place) Operand {
	if p.Ty().IsCopy() {
		return Copy{Place: p}
	}
	return Move{Place: p}
}
