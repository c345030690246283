// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"fmt"
	"strconv"

	"github.com/ownlang/ownc/ast"
)

// ParseFunction parses a single function declaration and returns its untyped
// AST.  Any trailing input after the closing brace is an error.
func ParseFunction(src string) (*ast.Function, error) {
	p := &parser{lex: NewLexer(src)}
	p.next()
	f, err := p.function()
	if err != nil {
		return nil, err
	}
	if p.tok.Tok != EOF {
		return nil, p.errorf("unexpected %s after function body", p.tok.Tok)
	}
	return f, nil
}

type parser struct {
	lex *Lexer
	tok Lexeme // one-token lookahead
}

func (p *parser) next() { p.tok = p.lex.Next() }

func (p *parser) errorf(format string, args ...interface{}) error {
	return &Error{Msg: fmt.Sprintf(format, args...), Pos: p.tok.Pos}
}

// expect consumes a token of the given class or fails.
func (p *parser) expect(tok Token) (Lexeme, error) {
	if p.tok.Tok != tok {
		return Lexeme{}, p.errorf("expected %s, found %s", tok, p.tok.Tok)
	}
	lx := p.tok
	p.next()
	return lx, nil
}

// accept consumes a token of the given class if it is next.
func (p *parser) accept(tok Token) bool {
	if p.tok.Tok == tok {
		p.next()
		return true
	}
	return false
}

func (p *parser) function() (*ast.Function, error) {
	if _, err := p.expect(FN); err != nil {
		return nil, err
	}
	name, err := p.expect(IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	var params []ast.Local
	for p.tok.Tok != RPAREN {
		mutable := p.accept(MUT)
		id, err := p.expect(IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(COLON); err != nil {
			return nil, err
		}
		ty, err := p.typ()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Local{ID: id.Text, Ty: ty, Mutable: mutable})
		if !p.accept(COMMA) {
			break
		}
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	retTy := ast.Type(ast.UnitType{})
	if p.accept(ARROW) {
		if retTy, err = p.typ(); err != nil {
			return nil, err
		}
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Name: name.Text, Params: params, Ty: retTy, Body: body}, nil
}

func (p *parser) block() (*ast.Block, error) {
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	blk := &ast.Block{}
	for p.tok.Tok != RBRACE {
		if p.tok.Tok == EOF {
			return nil, p.errorf("unexpected end of input in block")
		}
		if p.tok.Tok == LET {
			s, err := p.letStmt()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(SEMI); err != nil {
				return nil, err
			}
			blk.Stmts = append(blk.Stmts, s)
			continue
		}
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.tok.Tok == RBRACE {
			blk.Expr = e
			break
		}
		if _, err := p.expect(SEMI); err != nil {
			return nil, err
		}
		blk.Stmts = append(blk.Stmts, &ast.ExprStmt{X: e})
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	return blk, nil
}

func (p *parser) letStmt() (ast.Stmt, error) {
	if _, err := p.expect(LET); err != nil {
		return nil, err
	}
	mutable := p.accept(MUT)
	id, err := p.expect(IDENT)
	if err != nil {
		return nil, err
	}
	ty := ast.Type(ast.UnknownType{})
	if p.accept(COLON) {
		if ty, err = p.typ(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(EQUAL); err != nil {
		return nil, err
	}
	init, err := p.expr()
	if err != nil {
		return nil, err
	}
	local := ast.Local{ID: id.Text, Ty: ty, Mutable: mutable}
	return &ast.LetStmt{Local: local, Init: init}, nil
}

func (p *parser) expr() (ast.Expr, error) {
	switch p.tok.Tok {
	case NUMBER:
		v, err := strconv.Atoi(p.tok.Text)
		if err != nil {
			return nil, p.errorf("invalid integer literal %q", p.tok.Text)
		}
		p.next()
		return &ast.IntLit{Type: ast.IntType{}, Value: v}, nil
	case TRUE, FALSE:
		v := p.tok.Tok == TRUE
		p.next()
		return &ast.BoolLit{Type: ast.BoolType{}, Value: v}, nil
	case STRING:
		v := p.tok.Text
		p.next()
		return &ast.StringLit{Type: ast.UnknownType{}, Value: v}, nil
	case LPAREN:
		return p.parenOrTuple()
	case AMP:
		p.next()
		mut := p.accept(MUT)
		pl, err := p.place()
		if err != nil {
			return nil, err
		}
		return &ast.RefExpr{Type: ast.UnknownType{}, Mut: mut, Place: pl}, nil
	case IF:
		p.next()
		cond, err := p.expr()
		if err != nil {
			return nil, err
		}
		then, err := p.block()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(ELSE); err != nil {
			return nil, err
		}
		els, err := p.block()
		if err != nil {
			return nil, err
		}
		return &ast.IfElseExpr{Type: ast.UnknownType{}, Cond: cond, Then: then, Else: els}, nil
	case WHILE:
		p.next()
		cond, err := p.expr()
		if err != nil {
			return nil, err
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return &ast.WhileExpr{Type: ast.UnknownType{}, Cond: cond, Body: body}, nil
	case LOOP:
		p.next()
		label := ""
		if p.tok.Tok == LABEL {
			label = p.tok.Text
			p.next()
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return &ast.LoopExpr{Type: ast.UnknownType{}, Label: label, Body: body}, nil
	case BREAK:
		p.next()
		label := ""
		if p.tok.Tok == LABEL {
			label = p.tok.Text
			p.next()
		}
		return &ast.BreakExpr{Type: ast.UnknownType{}, Label: label}, nil
	case CONTINUE:
		p.next()
		label := ""
		if p.tok.Tok == LABEL {
			label = p.tok.Text
			p.next()
		}
		return &ast.ContinueExpr{Type: ast.UnknownType{}, Label: label}, nil
	case RETURN:
		p.next()
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		return &ast.ReturnExpr{Type: ast.UnknownType{}, Value: v}, nil
	case LBRACE:
		blk, err := p.block()
		if err != nil {
			return nil, err
		}
		return &ast.BlockExpr{Type: ast.UnknownType{}, Block: blk}, nil
	case IDENT:
		return p.identExpr()
	}
	return nil, p.errorf("expected expression, found %s", p.tok.Tok)
}

// identExpr parses an expression beginning with an identifier: one of the
// built-in call forms, or a place.
func (p *parser) identExpr() (ast.Expr, error) {
	name := p.tok.Text
	switch name {
	case "add", "print", "assign", "seq":
		// Built-ins are contextual: they are only call forms when
		// followed by an argument list.
		save := *p.lex
		tok := p.tok
		p.next()
		if p.tok.Tok == LPAREN {
			return p.builtin(name)
		}
		*p.lex, p.tok = save, tok
	}
	pl, err := p.place()
	if err != nil {
		return nil, err
	}
	return &ast.PlaceExpr{Type: ast.UnknownType{}, Place: pl}, nil
}

func (p *parser) builtin(name string) (ast.Expr, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	switch name {
	case "print":
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return &ast.PrintExpr{Type: ast.UnknownType{}, X: arg}, nil
	case "assign":
		pl, err := p.place()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(COMMA); err != nil {
			return nil, err
		}
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Type: ast.UnknownType{}, Place: pl, Value: v}, nil
	}
	// add and seq take two expressions.
	x, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(COMMA); err != nil {
		return nil, err
	}
	y, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	if name == "add" {
		return &ast.AddExpr{Type: ast.UnknownType{}, X: x, Y: y}, nil
	}
	return &ast.SeqExpr{Type: ast.UnknownType{}, First: x, Second: y}, nil
}

func (p *parser) parenOrTuple() (ast.Expr, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	if p.accept(RPAREN) {
		return &ast.UnitLit{Type: ast.UnitType{}}, nil
	}
	first, err := p.expr()
	if err != nil {
		return nil, err
	}
	elems := []ast.Expr{first}
	for p.accept(COMMA) {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	if len(elems) == 1 {
		// Parentheses, not a one-tuple.
		return first, nil
	}
	return &ast.TupleExpr{Type: ast.UnknownType{}, Elems: elems}, nil
}

// place parses name(.deref | .index(n))*.
func (p *parser) place() (ast.Place, error) {
	id, err := p.expect(IDENT)
	if err != nil {
		return ast.Place{}, err
	}
	pl := ast.Place{Local: ast.Local{ID: id.Text, Ty: ast.UnknownType{}}}
	for p.tok.Tok == DOT {
		p.next()
		sel, err := p.expect(IDENT)
		if err != nil {
			return ast.Place{}, err
		}
		switch sel.Text {
		case "deref":
			pl.Elems = append(pl.Elems, ast.PlaceElem{Kind: ast.DerefElem})
		case "index":
			if _, err := p.expect(LPAREN); err != nil {
				return ast.Place{}, err
			}
			num, err := p.expect(NUMBER)
			if err != nil {
				return ast.Place{}, err
			}
			n, convErr := strconv.Atoi(num.Text)
			if convErr != nil {
				return ast.Place{}, p.errorf("invalid tuple index %q", num.Text)
			}
			if _, err := p.expect(RPAREN); err != nil {
				return ast.Place{}, err
			}
			pl.Elems = append(pl.Elems, ast.PlaceElem{Kind: ast.IndexElem, Index: n})
		default:
			return ast.Place{}, p.errorf("expected 'deref' or 'index' after '.', found %q", sel.Text)
		}
	}
	return pl, nil
}

func (p *parser) typ() (ast.Type, error) {
	switch p.tok.Tok {
	case AMP:
		p.next()
		var loans []ast.Loan
		if p.accept(LBRACE) {
			for p.tok.Tok != RBRACE {
				loan, err := p.loan()
				if err != nil {
					return nil, err
				}
				loans = append(loans, loan)
				if !p.accept(COMMA) {
					break
				}
			}
			if _, err := p.expect(RBRACE); err != nil {
				return nil, err
			}
		}
		mut := p.accept(MUT)
		elem, err := p.typ()
		if err != nil {
			return nil, err
		}
		return ast.RefType{Loans: loans, Mut: mut, Elem: elem}, nil
	case LPAREN:
		p.next()
		if p.accept(RPAREN) {
			return ast.UnitType{}, nil
		}
		first, err := p.typ()
		if err != nil {
			return nil, err
		}
		elems := []ast.Type{first}
		for p.accept(COMMA) {
			t, err := p.typ()
			if err != nil {
				return nil, err
			}
			elems = append(elems, t)
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		if len(elems) == 1 {
			return first, nil
		}
		return ast.TupleType{Elems: elems}, nil
	case IDENT:
		name := p.tok.Text
		p.next()
		switch name {
		case "i32":
			return ast.IntType{}, nil
		case "bool":
			return ast.BoolType{}, nil
		case "String":
			return ast.StringType{}, nil
		}
		return nil, p.errorf("unknown type %q", name)
	}
	return nil, p.errorf("expected type, found %s", p.tok.Tok)
}

func (p *parser) loan() (ast.Loan, error) {
	mutable := false
	switch {
	case p.accept(MUT):
		mutable = true
	case p.tok.Tok == IDENT && p.tok.Text == "shared":
		p.next()
	default:
		return ast.Loan{}, p.errorf("expected 'shared' or 'mut' loan, found %s", p.tok.Tok)
	}
	if _, err := p.expect(LPAREN); err != nil {
		return ast.Loan{}, err
	}
	pl, err := p.place()
	if err != nil {
		return ast.Loan{}, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return ast.Loan{}, err
	}
	return ast.Loan{Place: pl, Mutable: mutable}, nil
}
