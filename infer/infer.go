// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package infer assigns a concrete type to every expression and local of a
// parsed function.  Inference is syntax-directed over a stack of lexical
// scopes; its output contract is that no node of the returned tree has
// UnknownType.  Reference expressions receive a fresh single-loan reference
// type; if/else joins of two reference arms concatenate the arms' loan sets.
package infer

import (
	"fmt"

	"github.com/ownlang/ownc/ast"
)

// Function infers types for f and returns a fully typed copy.  The input is
// not modified.  The returned error is a type error in the user's program.
func Function(f *ast.Function) (*ast.Function, error) {
	c := &context{ret: f.Ty}
	c.push()
	for _, l := range f.Params {
		c.bind(l)
	}
	body, err := c.block(f.Body)
	if err != nil {
		return nil, err
	}
	c.pop()
	return &ast.Function{Name: f.Name, Params: f.Params, Ty: f.Ty, Body: body}, nil
}

type context struct {
	scopes []scope
	ret    ast.Type
	loops  int
}

type scope struct {
	bindings []ast.Local
}

func (c *context) push() { c.scopes = append(c.scopes, scope{}) }
func (c *context) pop()  { c.scopes = c.scopes[:len(c.scopes)-1] }

func (c *context) bind(l ast.Local) {
	s := &c.scopes[len(c.scopes)-1]
	s.bindings = append(s.bindings, l)
}

// lookup resolves a name to its most recent binding, innermost scope first.
func (c *context) lookup(id string) (ast.Local, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		bs := c.scopes[i].bindings
		for j := len(bs) - 1; j >= 0; j-- {
			if bs[j].ID == id {
				return bs[j], true
			}
		}
	}
	return ast.Local{}, false
}

func (c *context) block(b *ast.Block) (*ast.Block, error) {
	c.push()
	defer c.pop()
	out := &ast.Block{}
	for _, s := range b.Stmts {
		switch s := s.(type) {
		case *ast.LetStmt:
			if s.Init == nil {
				return nil, fmt.Errorf("let binding %s requires an initialiser", s.Local.ID)
			}
			init, err := c.expr(s.Init)
			if err != nil {
				return nil, err
			}
			l := ast.Local{ID: s.Local.ID, Ty: init.Ty(), Mutable: s.Local.Mutable}
			c.bind(l)
			out.Stmts = append(out.Stmts, &ast.LetStmt{Local: l, Init: init})
		case *ast.ExprStmt:
			e, err := c.expr(s.X)
			if err != nil {
				return nil, err
			}
			out.Stmts = append(out.Stmts, &ast.ExprStmt{X: e})
		}
	}
	if b.Expr != nil {
		e, err := c.expr(b.Expr)
		if err != nil {
			return nil, err
		}
		out.Expr = e
	}
	return out, nil
}

// place resolves a place's local against the scope stack and returns the
// place with its binding's type and mutability filled in.  The projection
// path is validated against the binding's type here, so later Ty walks
// cannot fail.
func (c *context) place(p ast.Place) (ast.Place, error) {
	l, ok := c.lookup(p.Local.ID)
	if !ok {
		return ast.Place{}, fmt.Errorf("unresolved name %q", p.Local.ID)
	}
	t := l.Ty
	for _, e := range p.Elems {
		switch e.Kind {
		case ast.IndexElem:
			tup, ok := t.(ast.TupleType)
			if !ok {
				return ast.Place{}, fmt.Errorf("cannot project .%d out of %s", e.Index, t)
			}
			if e.Index >= len(tup.Elems) {
				return ast.Place{}, fmt.Errorf("tuple index %d out of range for %s", e.Index, t)
			}
			t = tup.Elems[e.Index]
		case ast.DerefElem:
			ref, ok := t.(ast.RefType)
			if !ok {
				return ast.Place{}, fmt.Errorf("cannot dereference %s", t)
			}
			t = ref.Elem
		}
	}
	return ast.Place{Local: l, Elems: p.Elems}, nil
}

// placeMutable reports whether a resolved place may be written: the
// binding's own mutability, overridden at each dereference by the
// reference's uniqueness.
func placeMutable(p ast.Place) bool {
	m := p.Local.Mutable
	t := p.Local.Ty
	for _, e := range p.Elems {
		switch e.Kind {
		case ast.IndexElem:
			t = t.(ast.TupleType).Elems[e.Index]
		case ast.DerefElem:
			ref := t.(ast.RefType)
			m = ref.Mut
			t = ref.Elem
		}
	}
	return m
}

func (c *context) expr(e ast.Expr) (ast.Expr, error) {
	switch e := e.(type) {
	case *ast.IntLit:
		return &ast.IntLit{Type: ast.IntType{}, Value: e.Value}, nil
	case *ast.BoolLit:
		return &ast.BoolLit{Type: ast.BoolType{}, Value: e.Value}, nil
	case *ast.StringLit:
		return &ast.StringLit{Type: ast.StringType{}, Value: e.Value}, nil
	case *ast.UnitLit:
		return &ast.UnitLit{Type: ast.UnitType{}}, nil
	case *ast.PlaceExpr:
		p, err := c.place(e.Place)
		if err != nil {
			return nil, err
		}
		return &ast.PlaceExpr{Type: p.Ty(), Place: p}, nil
	case *ast.AddExpr:
		x, err := c.expr(e.X)
		if err != nil {
			return nil, err
		}
		y, err := c.expr(e.Y)
		if err != nil {
			return nil, err
		}
		if !x.Ty().Equal(ast.IntType{}) || !y.Ty().Equal(ast.IntType{}) {
			return nil, fmt.Errorf("add expects i32 operands, found %s and %s", x.Ty(), y.Ty())
		}
		return &ast.AddExpr{Type: ast.IntType{}, X: x, Y: y}, nil
	case *ast.PrintExpr:
		x, err := c.expr(e.X)
		if err != nil {
			return nil, err
		}
		ref, ok := x.Ty().(ast.RefType)
		if !ok || !ref.Elem.Equal(ast.StringType{}) {
			return nil, fmt.Errorf("print expects a reference to a String, found %s", x.Ty())
		}
		return &ast.PrintExpr{Type: ast.UnitType{}, X: x}, nil
	case *ast.TupleExpr:
		elems := make([]ast.Expr, len(e.Elems))
		tys := make([]ast.Type, len(e.Elems))
		for i, el := range e.Elems {
			t, err := c.expr(el)
			if err != nil {
				return nil, err
			}
			elems[i] = t
			tys[i] = t.Ty()
		}
		return &ast.TupleExpr{Type: ast.TupleType{Elems: tys}, Elems: elems}, nil
	case *ast.RefExpr:
		p, err := c.place(e.Place)
		if err != nil {
			return nil, err
		}
		loan := ast.Loan{Place: p, Mutable: e.Mut}
		ty := ast.RefType{Loans: []ast.Loan{loan}, Mut: e.Mut, Elem: p.Ty()}
		return &ast.RefExpr{Type: ty, Mut: e.Mut, Place: p}, nil
	case *ast.IfElseExpr:
		cond, err := c.expr(e.Cond)
		if err != nil {
			return nil, err
		}
		if !cond.Ty().Equal(ast.BoolType{}) {
			return nil, fmt.Errorf("if condition must be bool, found %s", cond.Ty())
		}
		then, err := c.block(e.Then)
		if err != nil {
			return nil, err
		}
		els, err := c.block(e.Else)
		if err != nil {
			return nil, err
		}
		ty, err := joinBranches(then.Ty(), els.Ty())
		if err != nil {
			return nil, err
		}
		return &ast.IfElseExpr{Type: ty, Cond: cond, Then: then, Else: els}, nil
	case *ast.WhileExpr:
		cond, err := c.expr(e.Cond)
		if err != nil {
			return nil, err
		}
		if !cond.Ty().Equal(ast.BoolType{}) {
			return nil, fmt.Errorf("while condition must be bool, found %s", cond.Ty())
		}
		c.loops++
		body, err := c.block(e.Body)
		c.loops--
		if err != nil {
			return nil, err
		}
		return &ast.WhileExpr{Type: ast.UnitType{}, Cond: cond, Body: body}, nil
	case *ast.LoopExpr:
		c.loops++
		body, err := c.block(e.Body)
		c.loops--
		if err != nil {
			return nil, err
		}
		return &ast.LoopExpr{Type: ast.UnitType{}, Label: e.Label, Body: body}, nil
	case *ast.BreakExpr:
		if c.loops == 0 {
			return nil, fmt.Errorf("break outside of a loop")
		}
		return &ast.BreakExpr{Type: ast.UnitType{}, Label: e.Label}, nil
	case *ast.ContinueExpr:
		if c.loops == 0 {
			return nil, fmt.Errorf("continue outside of a loop")
		}
		return &ast.ContinueExpr{Type: ast.UnitType{}, Label: e.Label}, nil
	case *ast.SeqExpr:
		first, err := c.expr(e.First)
		if err != nil {
			return nil, err
		}
		second, err := c.expr(e.Second)
		if err != nil {
			return nil, err
		}
		return &ast.SeqExpr{Type: second.Ty(), First: first, Second: second}, nil
	case *ast.AssignExpr:
		p, err := c.place(e.Place)
		if err != nil {
			return nil, err
		}
		if !placeMutable(p) {
			return nil, fmt.Errorf("cannot assign to immutable place %s", p)
		}
		v, err := c.expr(e.Value)
		if err != nil {
			return nil, err
		}
		if !p.Ty().Equal(v.Ty()) {
			return nil, fmt.Errorf("mismatched types in assignment: %s != %s", p.Ty(), v.Ty())
		}
		return &ast.AssignExpr{Type: ast.UnitType{}, Place: p, Value: v}, nil
	case *ast.BlockExpr:
		blk, err := c.block(e.Block)
		if err != nil {
			return nil, err
		}
		return &ast.BlockExpr{Type: blk.Ty(), Block: blk}, nil
	case *ast.ReturnExpr:
		v, err := c.expr(e.Value)
		if err != nil {
			return nil, err
		}
		if !v.Ty().Equal(c.ret) {
			return nil, fmt.Errorf("mismatched return type: %s != %s", v.Ty(), c.ret)
		}
		return &ast.ReturnExpr{Type: ast.UnitType{}, Value: v}, nil
	}
	panic(fmt.Sprintf("infer: unknown expression %T", e))
}

// joinBranches computes the type of an if/else from its arm types.  Two
// reference arms of the same uniqueness join by concatenating their loan
// sets; any other pair of arms must be equal.
func joinBranches(t1, t2 ast.Type) (ast.Type, error) {
	r1, ok1 := t1.(ast.RefType)
	r2, ok2 := t2.(ast.RefType)
	if ok1 && ok2 && r1.Mut == r2.Mut {
		if !r1.Elem.Equal(r2.Elem) {
			return nil, fmt.Errorf("mismatched types in if/else arms: %s != %s", r1.Elem, r2.Elem)
		}
		loans := append(append([]ast.Loan{}, r1.Loans...), r2.Loans...)
		return ast.RefType{Loans: loans, Mut: r1.Mut, Elem: r1.Elem}, nil
	}
	if !t1.Equal(t2) {
		return nil, fmt.Errorf("mismatched types in if/else arms: %s != %s", t1, t2)
	}
	return t1, nil
}
