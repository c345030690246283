// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file recovers a structured AST from the block graph.  The recursion
// walks the dominator tree; reverse-postorder numbering classifies each edge
// as a back edge (continue), an edge to a merge node (break, or a fall-
// through into code emitted after the current block), or a forward edge into
// strictly dominated code, which is inlined.  Loop headers wrap their
// subtree in a labelled loop.
//
// The restructurer presumes the reducible CFGs the lowerer produces: every
// cycle is a natural loop entered through its header, and every forward
// reconvergence goes through a strictly dominated merge node.  A merge node
// that is also the target of a back edge from outside its own dominator
// subtree signals irreducibility, which is a compiler bug here.
package mir

import (
	"fmt"
	"strconv"

	"github.com/ownlang/ownc/ast"
)

// IntoAST rebuilds structured source from the MIR.  Requires Predecessors,
// DomTree, and RPONum, all current.  Loop labels in the result are the
// header block ids.
func (f *Function) IntoAST() *ast.Function {
	ret := f.ReturnLocal()
	body := &ast.Block{Stmts: []ast.Stmt{&ast.LetStmt{Local: ret}}}
	var loops []BlockID
	body.Stmts = append(body.Stmts, f.doTree(0, &loops).Stmts...)
	return &ast.Function{Name: f.Name, Params: f.Params, Ty: f.Ty, Body: body}
}

func (f *Function) isBackEdge(source, target BlockID) bool {
	return f.RPONum[target] <= f.RPONum[source]
}

func (f *Function) isLoopHeader(b BlockID) bool {
	for _, p := range f.Predecessors[b] {
		if f.isBackEdge(p, b) {
			return true
		}
	}
	return false
}

func (f *Function) isMergeNode(b BlockID) bool {
	return len(f.Predecessors[b]) > 1
}

func (f *Function) doTree(b BlockID, loops *[]BlockID) *ast.Block {
	var merges []BlockID
	for _, c := range f.DomTree[b] {
		if f.isMergeNode(c) {
			merges = append(merges, c)
		}
	}

	if !f.isLoopHeader(b) {
		return f.nodeWithin(b, merges, loops)
	}

	for _, p := range f.Predecessors[b] {
		if f.isBackEdge(p, b) && !f.Blocks[p].Dom.Test(uint(b)) {
			panic(fmt.Sprintf("mir: irreducible control flow: back edge bb%d->bb%d from outside the header's subtree", p, b))
		}
	}
	*loops = append(*loops, b)
	inner := f.nodeWithin(b, merges, loops)
	*loops = (*loops)[:len(*loops)-1]
	loop := &ast.LoopExpr{Type: ast.UnitType{}, Label: strconv.Itoa(b), Body: inner}
	return &ast.Block{Stmts: []ast.Stmt{&ast.ExprStmt{X: loop}}}
}

// nodeWithin emits b's own statements and terminator, then the restructured
// code of each merge node b dominates, concatenated into the same enclosing
// block in LIFO order.
func (f *Function) nodeWithin(b BlockID, merges []BlockID, loops *[]BlockID) *ast.Block {
	blk := &ast.Block{}
	for _, s := range f.Blocks[b].Stmts {
		if stmt := f.stmtToAST(s.Op); stmt != nil {
			blk.Stmts = append(blk.Stmts, stmt)
		}
	}

	switch t := f.Blocks[b].Term.(type) {
	case Return:
		ret := f.ReturnLocal()
		value := &ast.PlaceExpr{Type: ret.Ty, Place: ast.PlaceFor(ret)}
		blk.Stmts = append(blk.Stmts, &ast.ExprStmt{X: &ast.ReturnExpr{Type: ast.UnitType{}, Value: value}})
	case Goto:
		blk.Stmts = append(blk.Stmts, f.doBranch(b, t.Target, loops).Stmts...)
	case CondGoto:
		cond := operandToExpr(t.Cond)
		then := f.doBranch(b, t.Then, loops)
		els := f.doBranch(b, t.Else, loops)
		ife := &ast.IfElseExpr{Type: then.Ty(), Cond: cond, Then: then, Else: els}
		blk.Stmts = append(blk.Stmts, &ast.ExprStmt{X: ife})
	case nil:
		panic(fmt.Sprintf("mir: bb%d has no terminator", b))
	}

	for i := len(merges) - 1; i >= 0; i-- {
		blk.Stmts = append(blk.Stmts, f.doTree(merges[i], loops).Stmts...)
	}
	return blk
}

// doBranch resolves one outgoing edge.  Back edges become continue; edges
// to a merge node become break when the target is an enclosing loop header
// and otherwise fall through to the code the dominating block emits after
// itself; any other forward edge is inlined.
func (f *Function) doBranch(source, target BlockID, loops *[]BlockID) *ast.Block {
	switch {
	case f.isBackEdge(source, target):
		c := &ast.ContinueExpr{Type: ast.UnitType{}, Label: strconv.Itoa(target)}
		return &ast.Block{Stmts: []ast.Stmt{&ast.ExprStmt{X: c}}}
	case f.isMergeNode(target):
		for _, h := range *loops {
			if h == target {
				br := &ast.BreakExpr{Type: ast.UnitType{}, Label: strconv.Itoa(target)}
				return &ast.Block{Stmts: []ast.Stmt{&ast.ExprStmt{X: br}}}
			}
		}
		return &ast.Block{}
	default:
		return f.doTree(target, loops)
	}
}

func (f *Function) stmtToAST(op Operation) ast.Stmt {
	switch op := op.(type) {
	case Assign:
		var rhs ast.Expr
		switch rv := op.Rvalue.(type) {
		case Use:
			rhs = operandToExpr(rv.X)
		case Ref:
			ty := ast.RefType{
				Loans: []ast.Loan{{Place: rv.Place, Mutable: rv.Mutable}},
				Mut:   rv.Mutable,
				Elem:  rv.Place.Ty(),
			}
			rhs = &ast.RefExpr{Type: ty, Mut: rv.Mutable, Place: rv.Place}
		}
		return &ast.ExprStmt{X: &ast.AssignExpr{Type: ast.UnitType{}, Place: op.Place, Value: rhs}}
	case StorageLive:
		return &ast.LetStmt{Local: op.Local}
	case StorageDead, Noop:
		return nil
	case Call:
		fn, ok := op.Func.(FuncRef)
		if !ok {
			panic("mir: call through a non-function operand")
		}
		var call ast.Expr
		switch fn.Name {
		case "print":
			call = &ast.PrintExpr{Type: ast.UnitType{}, X: operandToExpr(op.Args[0])}
		case "add":
			call = &ast.AddExpr{
				Type: ast.IntType{},
				X:    operandToExpr(op.Args[0]),
				Y:    operandToExpr(op.Args[1]),
			}
		default:
			panic(fmt.Sprintf("mir: unknown built-in %q", fn.Name))
		}
		return &ast.ExprStmt{X: &ast.AssignExpr{Type: ast.UnitType{}, Place: op.Dest, Value: call}}
	}
	panic(fmt.Sprintf("mir: unknown operation %T", op))
}

func operandToExpr(op Operand) ast.Expr {
	switch op := op.(type) {
	case Const:
		switch op.Kind {
		case ConstInt:
			return &ast.IntLit{Type: ast.IntType{}, Value: op.Int}
		case ConstBool:
			return &ast.BoolLit{Type: ast.BoolType{}, Value: op.Bool}
		case ConstString:
			return &ast.StringLit{Type: ast.StringType{}, Value: op.Str}
		case ConstUnit:
			return &ast.UnitLit{Type: ast.UnitType{}}
		}
	case Copy:
		return &ast.PlaceExpr{Type: op.Place.Ty(), Place: op.Place}
	case Move:
		return &ast.PlaceExpr{Type: op.Place.Ty(), Place: op.Place}
	}
	panic(fmt.Sprintf("mir: operand %T has no expression form", op))
}
