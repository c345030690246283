// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file renders types, places, and ASTs in the stable diagnostic format
// shared with the MIR printer: four-space indents, one statement per line,
// places as _n with .i and .deref suffixes, references as &{loans} T.

package ast

import (
	"fmt"
	"strconv"
	"strings"
)

func (IntType) String() string     { return "i32" }
func (BoolType) String() string    { return "bool" }
func (UnitType) String() string    { return "()" }
func (StringType) String() string  { return "String" }
func (UnknownType) String() string { return "?" }

func (t TupleType) String() string {
	var b strings.Builder
	b.WriteString("(")
	for i, e := range t.Elems {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteString(")")
	return b.String()
}

func (t RefType) String() string {
	var b strings.Builder
	b.WriteString("&{")
	for i, l := range t.Loans {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(l.String())
	}
	b.WriteString("} ")
	if t.Mut {
		b.WriteString("mut ")
	}
	b.WriteString(t.Elem.String())
	return b.String()
}

func (l Loan) String() string {
	mode := "shared"
	if l.Mutable {
		mode = "mut"
	}
	return mode + "(" + l.Place.String() + ")"
}

func (p Place) String() string {
	var b strings.Builder
	b.WriteString(p.Local.ID)
	for _, e := range p.Elems {
		switch e.Kind {
		case IndexElem:
			b.WriteString("." + strconv.Itoa(e.Index))
		case DerefElem:
			b.WriteString(".deref")
		}
	}
	return b.String()
}

func (l Local) String() string {
	if l.Mutable {
		return "mut " + l.ID + ": " + l.Ty.String()
	}
	return l.ID + ": " + l.Ty.String()
}

// A Printer renders AST nodes.  Verbose mode parenthesises every expression
// and annotates it with its type.
type Printer struct {
	b       strings.Builder
	indent  int
	Verbose bool
}

func (p *Printer) lit(s string) { p.b.WriteString(s) }

func (p *Printer) newline() {
	p.b.WriteString("\n")
	for i := 0; i < p.indent; i++ {
		p.b.WriteString("    ")
	}
}

// Function renders a complete function and returns the accumulated text.
func (p *Printer) Function(f *Function) string {
	p.lit("fn " + f.Name + "(")
	for i, l := range f.Params {
		if i > 0 {
			p.lit(", ")
		}
		p.lit(l.String())
	}
	p.lit(") -> " + f.Ty.String() + " ")
	p.block(f.Body)
	return p.b.String()
}

func (p *Printer) block(b *Block) {
	p.lit("{")
	p.indent++
	for _, s := range b.Stmts {
		p.newline()
		p.stmt(s)
		p.lit(";")
	}
	if b.Expr != nil {
		p.newline()
		p.expr(b.Expr)
	}
	p.indent--
	p.newline()
	p.lit("}")
}

func (p *Printer) stmt(s Stmt) {
	switch s := s.(type) {
	case *LetStmt:
		p.lit("let " + s.Local.String())
		if s.Init != nil {
			p.lit(" = ")
			p.expr(s.Init)
		}
	case *ExprStmt:
		p.expr(s.X)
	default:
		panic(fmt.Sprintf("ast: unknown statement %T", s))
	}
}

func (p *Printer) expr(e Expr) {
	if p.Verbose {
		p.lit("(")
	}
	switch e := e.(type) {
	case *IntLit:
		p.lit(strconv.Itoa(e.Value))
	case *BoolLit:
		p.lit(strconv.FormatBool(e.Value))
	case *StringLit:
		p.lit(strconv.Quote(e.Value))
	case *UnitLit:
		p.lit("()")
	case *PlaceExpr:
		p.lit(e.Place.String())
	case *AddExpr:
		p.lit("add(")
		p.expr(e.X)
		p.lit(", ")
		p.expr(e.Y)
		p.lit(")")
	case *PrintExpr:
		p.lit("print(")
		p.expr(e.X)
		p.lit(")")
	case *TupleExpr:
		p.lit("(")
		for i, el := range e.Elems {
			if i > 0 {
				p.lit(", ")
			}
			p.expr(el)
		}
		p.lit(")")
	case *RefExpr:
		p.lit("&")
		if e.Mut {
			p.lit("mut ")
		}
		p.lit(e.Place.String())
	case *IfElseExpr:
		p.lit("if ")
		p.expr(e.Cond)
		p.lit(" ")
		p.block(e.Then)
		p.lit(" else ")
		p.block(e.Else)
	case *WhileExpr:
		p.lit("while ")
		p.expr(e.Cond)
		p.lit(" ")
		p.block(e.Body)
	case *LoopExpr:
		p.lit("loop")
		if e.Label != "" {
			p.lit(" '" + e.Label)
		}
		p.lit(" ")
		p.block(e.Body)
	case *BreakExpr:
		p.lit("break")
		if e.Label != "" {
			p.lit(" '" + e.Label)
		}
	case *ContinueExpr:
		p.lit("continue")
		if e.Label != "" {
			p.lit(" '" + e.Label)
		}
	case *SeqExpr:
		p.lit("seq(")
		p.expr(e.First)
		p.lit(", ")
		p.expr(e.Second)
		p.lit(")")
	case *AssignExpr:
		p.lit(e.Place.String() + " = ")
		p.expr(e.Value)
	case *BlockExpr:
		p.block(e.Block)
	case *ReturnExpr:
		p.lit("return ")
		p.expr(e.Value)
	default:
		panic(fmt.Sprintf("ast: unknown expression %T", e))
	}
	if p.Verbose {
		p.lit("):" + e.Ty().String())
	}
}

// String renders the function in the stable diagnostic format.
func (f *Function) String() string {
	return new(Printer).Function(f)
}

// VerboseString renders the function with every expression annotated with
// its type.
func (f *Function) VerboseString() string {
	p := &Printer{Verbose: true}
	return p.Function(f)
}
