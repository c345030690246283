// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file lowers a typed AST into MIR.  Lowering an expression in a
// current block yields the block in which its value is materialised and the
// operand denoting that value; control-flow expressions grow the block graph
// and install terminators as they go.  Source names are renamed to fresh _n
// temporaries through a stack of scopes, and scope exit emits StorageDead
// markers in reverse creation order.
package mir

import (
	"fmt"

	"github.com/ownlang/ownc/ast"
)

// Lower transforms a typed AST function into MIR.  The input must be the
// inferencer's output: an unresolved expression form here is a compiler bug
// and panics.
func Lower(f *ast.Function) *Function {
	fn := &Function{
		Name:   f.Name,
		Params: f.Params,
		Ty:     f.Ty,
		Blocks: []*BasicBlock{{ID: 0}},
	}
	l := &lowerer{fn: fn}
	ret := l.newLocal(f.Ty) // _0, the return slot
	l.scoped(func() (BlockID, Operand) {
		b, op := l.lowerBlock(f.Body, 0)
		l.emit(b, Assign{Place: ast.PlaceFor(ret), Rvalue: Use{X: op}})
		fn.Blocks[b].SetTerm(Return{})
		return b, op
	})
	return fn
}

type lowerer struct {
	fn        *Function
	tempCount int
	scopes    []*lowerScope
	loops     []loopFrame
}

// A lowerScope records the locals created within a lexical scope, so that
// their storage can be released on exit, and the name substitutions the
// scope introduced.
type lowerScope struct {
	locals []ast.Local
	subst  []subst
}

type subst struct {
	from string
	to   ast.Local
}

// A loopFrame holds the jump targets of continue and break for the
// innermost enclosing loop.
type loopFrame struct {
	continueTo BlockID
	breakTo    BlockID
}

func (l *lowerer) pushScope() {
	l.scopes = append(l.scopes, &lowerScope{})
}

// popScope emits StorageDead for the scope's locals, in reverse creation
// order, into the block that is current at scope exit.
func (l *lowerer) popScope(b BlockID) {
	s := l.scopes[len(l.scopes)-1]
	l.scopes = l.scopes[:len(l.scopes)-1]
	for i := len(s.locals) - 1; i >= 0; i-- {
		l.emit(b, StorageDead{Local: s.locals[i]})
	}
}

func (l *lowerer) scoped(f func() (BlockID, Operand)) (BlockID, Operand) {
	l.pushScope()
	b, op := f()
	l.popScope(b)
	return b, op
}

func (l *lowerer) pushLoop(continueTo, breakTo BlockID) {
	l.loops = append(l.loops, loopFrame{continueTo, breakTo})
}

func (l *lowerer) popLoop() {
	l.loops = l.loops[:len(l.loops)-1]
}

func (l *lowerer) currentLoop() loopFrame {
	if len(l.loops) == 0 {
		panic("mir: break or continue outside a loop survived inference")
	}
	return l.loops[len(l.loops)-1]
}

func (l *lowerer) rename(from ast.Local, to ast.Local) {
	s := l.scopes[len(l.scopes)-1]
	s.subst = append(s.subst, subst{from: from.ID, to: to})
}

// lookup resolves a source name to its MIR local, innermost scope first and
// last-wins within a scope.
func (l *lowerer) lookup(id string) (ast.Local, bool) {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		ss := l.scopes[i].subst
		for j := len(ss) - 1; j >= 0; j-- {
			if ss[j].from == id {
				return ss[j].to, true
			}
		}
	}
	return ast.Local{}, false
}

// resolvePlace rewrites a source-level place to its MIR local.  Unresolved
// names pass through unchanged: they are parameters.
func (l *lowerer) resolvePlace(p ast.Place) ast.Place {
	if to, ok := l.lookup(p.Local.ID); ok {
		return ast.Place{Local: to, Elems: p.Elems}
	}
	return p
}

// resolveType rewrites the loan places embedded in reference types.
func (l *lowerer) resolveType(t ast.Type) ast.Type {
	switch t := t.(type) {
	case ast.TupleType:
		elems := make([]ast.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = l.resolveType(e)
		}
		return ast.TupleType{Elems: elems}
	case ast.RefType:
		loans := make([]ast.Loan, len(t.Loans))
		for i, loan := range t.Loans {
			loans[i] = ast.Loan{Place: l.resolvePlace(loan.Place), Mutable: loan.Mutable}
		}
		return ast.RefType{Loans: loans, Mut: t.Mut, Elem: l.resolveType(t.Elem)}
	}
	return t
}

func (l *lowerer) newLocal(ty ast.Type) ast.Local {
	loc := ast.Local{
		ID: fmt.Sprintf("_%d", l.tempCount),
		Ty: l.resolveType(ty),
	}
	l.tempCount++
	l.fn.Locals = append(l.fn.Locals, loc)
	if len(l.scopes) > 0 {
		s := l.scopes[len(l.scopes)-1]
		s.locals = append(s.locals, loc)
	}
	return loc
}

func (l *lowerer) newStorageLocal(ty ast.Type, b BlockID) ast.Local {
	loc := l.newLocal(ty)
	l.emit(b, StorageLive{Local: loc})
	return loc
}

func (l *lowerer) newBlock() BlockID {
	id := len(l.fn.Blocks)
	l.fn.Blocks = append(l.fn.Blocks, &BasicBlock{ID: id})
	return id
}

func (l *lowerer) emit(b BlockID, op Operation) {
	blk := l.fn.Blocks[b]
	blk.Stmts = append(blk.Stmts, NewStmt(op))
}

func (l *lowerer) lowerBlock(b *ast.Block, b0 BlockID) (BlockID, Operand) {
	cur := b0
	for _, s := range b.Stmts {
		switch s := s.(type) {
		case *ast.LetStmt:
			b1, op := l.lowerExpr(s.Init, cur)
			tmp := l.newStorageLocal(s.Local.Ty, b1)
			l.rename(s.Local, tmp)
			l.emit(b1, Assign{Place: ast.PlaceFor(tmp), Rvalue: Use{X: op}})
			cur = b1
		case *ast.ExprStmt:
			cur, _ = l.lowerExpr(s.X, cur)
		}
	}
	if b.Expr != nil {
		return l.lowerExpr(b.Expr, cur)
	}
	return cur, UnitConst()
}

// lowerExpr lowers e with current block b0 and returns the block in which
// the value is materialised and the operand that denotes it.
func (l *lowerer) lowerExpr(e ast.Expr, b0 BlockID) (BlockID, Operand) {
	switch e := e.(type) {
	case *ast.IntLit:
		return b0, IntConst(e.Value)
	case *ast.BoolLit:
		return b0, BoolConst(e.Value)
	case *ast.StringLit:
		return b0, StringConst(e.Value)
	case *ast.UnitLit:
		return b0, UnitConst()
	case *ast.PlaceExpr:
		return b0, OperandForPlace(l.resolvePlace(e.Place))
	case *ast.AddExpr:
		b1, a0 := l.lowerExpr(e.X, b0)
		b2, a1 := l.lowerExpr(e.Y, b1)
		dest := l.newStorageLocal(e.Type, b2)
		l.emit(b2, Call{
			Dest: ast.PlaceFor(dest),
			Func: FuncRef{Name: "add"},
			Args: []Operand{a0, a1},
		})
		return b2, OperandForPlace(ast.PlaceFor(dest))
	case *ast.PrintExpr:
		b1, arg := l.lowerExpr(e.X, b0)
		dest := l.newStorageLocal(e.Type, b1)
		l.emit(b1, Call{
			Dest: ast.PlaceFor(dest),
			Func: FuncRef{Name: "print"},
			Args: []Operand{arg},
		})
		return b1, UnitConst()
	case *ast.TupleExpr:
		tup := l.newStorageLocal(e.Type, b0)
		cur := b0
		for i, el := range e.Elems {
			b1, op := l.lowerExpr(el, cur)
			elem := ast.Place{
				Local: tup,
				Elems: []ast.PlaceElem{{Kind: ast.IndexElem, Index: i}},
			}
			l.emit(b1, Assign{Place: elem, Rvalue: Use{X: op}})
			cur = b1
		}
		return cur, OperandForPlace(ast.PlaceFor(tup))
	case *ast.RefExpr:
		dest := l.newStorageLocal(e.Type, b0)
		place := l.resolvePlace(e.Place)
		l.emit(b0, Assign{
			Place:  ast.PlaceFor(dest),
			Rvalue: Ref{Mutable: e.Mut, Place: place},
		})
		return b0, OperandForPlace(ast.PlaceFor(dest))
	case *ast.IfElseExpr:
		b1, cond := l.lowerExpr(e.Cond, b0)
		bThen := l.newBlock()
		bElse := l.newBlock()
		bJoin := l.newBlock()
		join := l.newStorageLocal(e.Type, b1)

		l.fn.Blocks[b1].SetTerm(CondGoto{Cond: cond, Then: bThen, Else: bElse})

		l.scoped(func() (BlockID, Operand) {
			b2, op := l.lowerBlock(e.Then, bThen)
			l.emit(b2, Assign{Place: ast.PlaceFor(join), Rvalue: Use{X: op}})
			l.fn.Blocks[b2].SetTerm(Goto{Target: bJoin})
			return b2, op
		})
		l.scoped(func() (BlockID, Operand) {
			b2, op := l.lowerBlock(e.Else, bElse)
			l.emit(b2, Assign{Place: ast.PlaceFor(join), Rvalue: Use{X: op}})
			l.fn.Blocks[b2].SetTerm(Goto{Target: bJoin})
			return b2, op
		})
		return bJoin, OperandForPlace(ast.PlaceFor(join))
	case *ast.WhileExpr:
		bHeader := l.newBlock()
		bBody := l.newBlock()
		bAfter := l.newBlock()

		l.pushLoop(bHeader, bAfter)
		l.fn.Blocks[b0].SetTerm(Goto{Target: bHeader})

		b1, cond := l.lowerExpr(e.Cond, bHeader)
		l.fn.Blocks[b1].SetTerm(CondGoto{Cond: cond, Then: bBody, Else: bAfter})

		l.scoped(func() (BlockID, Operand) {
			b2, op := l.lowerBlock(e.Body, bBody)
			l.fn.Blocks[b2].SetTerm(Goto{Target: bHeader})
			return b2, op
		})

		l.popLoop()
		return bAfter, UnitConst()
	case *ast.LoopExpr:
		bBody := l.newBlock()
		bAfter := l.newBlock()

		l.pushLoop(bBody, bAfter)
		l.fn.Blocks[b0].SetTerm(Goto{Target: bBody})

		l.scoped(func() (BlockID, Operand) {
			b1, op := l.lowerBlock(e.Body, bBody)
			l.fn.Blocks[b1].SetTerm(Goto{Target: bBody})
			return b1, op
		})

		l.popLoop()
		return bAfter, UnitConst()
	case *ast.BreakExpr:
		l.fn.Blocks[b0].SetTerm(Goto{Target: l.currentLoop().breakTo})
		return b0, UnitConst()
	case *ast.ContinueExpr:
		l.fn.Blocks[b0].SetTerm(Goto{Target: l.currentLoop().continueTo})
		return b0, UnitConst()
	case *ast.SeqExpr:
		b1, _ := l.lowerExpr(e.First, b0)
		return l.lowerExpr(e.Second, b1)
	case *ast.AssignExpr:
		place := l.resolvePlace(e.Place)
		b1, op := l.lowerExpr(e.Value, b0)
		l.emit(b1, Assign{Place: place, Rvalue: Use{X: op}})
		return b1, UnitConst()
	case *ast.BlockExpr:
		return l.scoped(func() (BlockID, Operand) {
			return l.lowerBlock(e.Block, b0)
		})
	case *ast.ReturnExpr:
		b1, op := l.lowerExpr(e.Value, b0)
		l.emit(b1, Assign{Place: ast.PlaceFor(l.fn.ReturnLocal()), Rvalue: Use{X: op}})
		l.fn.Blocks[b1].SetTerm(Return{})
		return b1, UnitConst()
	}
	panic(fmt.Sprintf("mir: cannot lower expression %T", e))
}
