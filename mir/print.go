// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file renders MIR in the stable diagnostic format:
//
//	fn f(x: i32) -> i32 {
//	    let _0: i32;
//	    bb0: {
//	        _0 = copy x;
//	        return;
//	    }
//	}
//
// Verbose mode additionally prints per-statement live-out sets and
// per-block dominator sets as comments.
package mir

import (
	"fmt"
	"strconv"
	"strings"
)

type printer struct {
	b       strings.Builder
	indent  int
	verbose bool
}

func (p *printer) lit(s string) { p.b.WriteString(s) }

func (p *printer) newline() {
	p.b.WriteString("\n")
	for i := 0; i < p.indent; i++ {
		p.b.WriteString("    ")
	}
}

func (p *printer) function(f *Function) {
	p.lit("fn " + f.Name + "(")
	for i, l := range f.Params {
		if i > 0 {
			p.lit(", ")
		}
		p.lit(l.String())
	}
	p.lit(") -> " + f.Ty.String() + " {")
	p.indent++
	for _, l := range f.Locals {
		p.newline()
		p.lit("let " + l.String() + ";")
	}
	p.newline()
	for i, b := range f.Blocks {
		if i > 0 {
			p.newline()
		}
		p.block(b)
	}
	p.indent--
	p.newline()
	p.lit("}")
}

func (p *printer) block(b *BasicBlock) {
	if p.verbose && b.Dom != nil {
		p.lit("// dom(")
		for i, d := range domList(b) {
			if i > 0 {
				p.lit(", ")
			}
			p.lit(strconv.Itoa(d))
		}
		p.lit(")")
		p.newline()
	}
	p.lit("bb" + strconv.Itoa(b.ID) + ": {")
	p.indent++
	for _, s := range b.Stmts {
		p.newline()
		p.stmt(s)
	}
	if b.Term != nil {
		p.newline()
		p.terminator(b.Term)
		p.lit(";")
	}
	p.indent--
	p.newline()
	p.lit("}")
}

func domList(b *BasicBlock) []int {
	var out []int
	for d, ok := b.Dom.NextSet(0); ok; d, ok = b.Dom.NextSet(d + 1) {
		out = append(out, int(d))
	}
	return out
}

func (p *printer) stmt(s *Stmt) {
	switch op := s.Op.(type) {
	case Assign:
		p.lit(op.Place.String() + " = ")
		p.rvalue(op.Rvalue)
	case StorageLive:
		p.lit("StorageLive(" + op.Local.ID + ")")
	case StorageDead:
		p.lit("StorageDead(" + op.Local.ID + ")")
	case Call:
		p.lit(op.Dest.String() + " = ")
		p.operand(op.Func)
		p.lit("(")
		for i, a := range op.Args {
			if i > 0 {
				p.lit(", ")
			}
			p.operand(a)
		}
		p.lit(")")
	case Noop:
	default:
		panic(fmt.Sprintf("mir: unknown operation %T", op))
	}
	p.lit(";")
	if p.verbose {
		p.lit(" // live_out = [")
		for i, pl := range s.LiveOut.Places() {
			if i > 0 {
				p.lit(", ")
			}
			p.lit(pl.String())
		}
		p.lit("]")
	}
}

func (p *printer) terminator(t Terminator) {
	switch t := t.(type) {
	case Return:
		p.lit("return")
	case Goto:
		p.lit("goto bb" + strconv.Itoa(t.Target))
	case CondGoto:
		p.lit("if ")
		p.operand(t.Cond)
		p.lit(" goto bb" + strconv.Itoa(t.Then) + " else goto bb" + strconv.Itoa(t.Else))
	default:
		panic(fmt.Sprintf("mir: unknown terminator %T", t))
	}
}

func (p *printer) rvalue(rv Rvalue) {
	switch rv := rv.(type) {
	case Use:
		p.operand(rv.X)
	case Ref:
		p.lit("&")
		if rv.Mutable {
			p.lit("mut ")
		}
		p.lit(rv.Place.String())
	default:
		panic(fmt.Sprintf("mir: unknown rvalue %T", rv))
	}
}

func (p *printer) operand(op Operand) {
	switch op := op.(type) {
	case Const:
		p.lit("const ")
		p.constant(op)
	case Copy:
		p.lit("copy " + op.Place.String())
	case Move:
		p.lit("move " + op.Place.String())
	case FuncRef:
		p.lit(op.Name)
	default:
		panic(fmt.Sprintf("mir: unknown operand %T", op))
	}
}

func (p *printer) constant(c Const) {
	switch c.Kind {
	case ConstInt:
		p.lit(strconv.Itoa(c.Int))
	case ConstBool:
		p.lit(strconv.FormatBool(c.Bool))
	case ConstString:
		p.lit(strconv.Quote(c.Str))
	case ConstUnit:
		p.lit("()")
	}
}

// String renders the function in the stable diagnostic format.
func (f *Function) String() string {
	p := &printer{}
	p.function(f)
	return p.b.String()
}

// VerboseString renders the function with live-out and dominator comments.
func (f *Function) VerboseString() string {
	p := &printer{verbose: true}
	p.function(f)
	return p.b.String()
}
