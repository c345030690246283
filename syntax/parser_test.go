// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"strings"
	"testing"

	"github.com/ownlang/ownc/ast"
)

func parse(t *testing.T, src string) *ast.Function {
	t.Helper()
	f, err := ParseFunction(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return f
}

func TestParseSignature(t *testing.T) {
	f := parse(t, "fn f(mut x: i32, y: i32) -> i32 { 1 }")
	if f.Name != "f" {
		t.Errorf("name = %q", f.Name)
	}
	if len(f.Params) != 2 {
		t.Fatalf("got %d params", len(f.Params))
	}
	if !f.Params[0].Mutable || f.Params[0].ID != "x" {
		t.Errorf("param 0 = %v", f.Params[0])
	}
	if f.Params[1].Mutable {
		t.Errorf("param 1 should be immutable")
	}
	if !f.Ty.Equal(ast.IntType{}) {
		t.Errorf("return type = %s", f.Ty)
	}
	lit, ok := f.Body.Expr.(*ast.IntLit)
	if !ok || lit.Value != 1 {
		t.Errorf("body expr = %#v", f.Body.Expr)
	}
}

func TestParseDefaultsToUnitReturn(t *testing.T) {
	f := parse(t, "fn f() { () }")
	if !f.Ty.Equal(ast.UnitType{}) {
		t.Errorf("return type = %s, want ()", f.Ty)
	}
}

func TestParsePlaces(t *testing.T) {
	f := parse(t, "fn f(x: (i32, i32)) -> i32 { x.index(1) }")
	pe, ok := f.Body.Expr.(*ast.PlaceExpr)
	if !ok {
		t.Fatalf("body expr = %#v", f.Body.Expr)
	}
	if got := pe.Place.String(); got != "x.1" {
		t.Errorf("place = %q, want x.1", got)
	}

	f = parse(t, "fn f(x: &mut i32) -> i32 { x.deref }")
	pe = f.Body.Expr.(*ast.PlaceExpr)
	if got := pe.Place.String(); got != "x.deref" {
		t.Errorf("place = %q, want x.deref", got)
	}
}

func TestParseReferenceTypes(t *testing.T) {
	f := parse(t, "fn f(x: &{shared(y), mut(z.deref)} mut String) -> () { () }")
	ref, ok := f.Params[0].Ty.(ast.RefType)
	if !ok || !ref.Mut {
		t.Fatalf("param type = %s", f.Params[0].Ty)
	}
	if len(ref.Loans) != 2 {
		t.Fatalf("got %d loans", len(ref.Loans))
	}
	if ref.Loans[0].Mutable || ref.Loans[0].Place.String() != "y" {
		t.Errorf("loan 0 = %s", ref.Loans[0])
	}
	if !ref.Loans[1].Mutable || ref.Loans[1].Place.String() != "z.deref" {
		t.Errorf("loan 1 = %s", ref.Loans[1])
	}
}

func TestParseEmptyLoanSet(t *testing.T) {
	f := parse(t, "fn f(x: &{} mut i32) -> i32 { x.deref }")
	ref := f.Params[0].Ty.(ast.RefType)
	if !ref.Mut || len(ref.Loans) != 0 {
		t.Errorf("param type = %s", f.Params[0].Ty)
	}
}

func TestParseLoops(t *testing.T) {
	f := parse(t, "fn f() { loop 'outer { break 'outer; continue; } }")
	lp, ok := f.Body.Expr.(*ast.LoopExpr)
	if !ok || lp.Label != "outer" {
		t.Fatalf("loop = %#v", f.Body.Expr)
	}
	br := lp.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.BreakExpr)
	if br.Label != "outer" {
		t.Errorf("break label = %q", br.Label)
	}
}

func TestParseBuiltins(t *testing.T) {
	f := parse(t, `fn f(x: i32) -> i32 { seq(print(&x), add(x, 1)) }`)
	seq, ok := f.Body.Expr.(*ast.SeqExpr)
	if !ok {
		t.Fatalf("body expr = %#v", f.Body.Expr)
	}
	if _, ok := seq.First.(*ast.PrintExpr); !ok {
		t.Errorf("first = %#v", seq.First)
	}
	if _, ok := seq.Second.(*ast.AddExpr); !ok {
		t.Errorf("second = %#v", seq.Second)
	}
}

func TestParseTupleAndUnit(t *testing.T) {
	f := parse(t, `fn f() -> (i32, String) { (1, "a") }`)
	tup, ok := f.Body.Expr.(*ast.TupleExpr)
	if !ok || len(tup.Elems) != 2 {
		t.Fatalf("body expr = %#v", f.Body.Expr)
	}
	ty, ok := f.Ty.(ast.TupleType)
	if !ok || len(ty.Elems) != 2 {
		t.Fatalf("return type = %s", f.Ty)
	}

	f = parse(t, "fn f() { (42) }")
	if _, ok := f.Body.Expr.(*ast.IntLit); !ok {
		t.Errorf("parenthesised literal is not a tuple: %#v", f.Body.Expr)
	}
}

func TestParseComments(t *testing.T) {
	parse(t, `fn f() -> i32 {
		// line comment
		/* block
		   comment */
		1
	}`)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"fn f() -> i32 { if true { 1 } }", "expected 'else'"},
		{"fn f() -> wibble { 1 }", `unknown type "wibble"`},
		{"fn f() -> i32 { 1 } extra", "unexpected identifier"},
		{"fn f() -> i32 { let x 1; x }", "expected '='"},
	}
	for _, c := range cases {
		_, err := ParseFunction(c.src)
		if err == nil {
			t.Errorf("%q: expected error", c.src)
			continue
		}
		if !strings.Contains(err.Error(), c.want) {
			t.Errorf("%q: error %q does not mention %q", c.src, err, c.want)
		}
	}
}

func TestParseErrorHasPosition(t *testing.T) {
	_, err := ParseFunction("fn f() -> i32 {\n  let x = ;\n}")
	serr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error is %T, want *Error", err)
	}
	if serr.Pos.Offset <= 0 {
		t.Errorf("error carries no position: %+v", serr)
	}
}
