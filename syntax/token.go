// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax lexes and parses the surface language: a single function
// declaration of the form
//
//	fn name(p: T, ...) -> T { block }
//
// with let-bindings, tuples, references, if/while/loop control flow, and the
// built-ins add, print, assign, and seq.  The parser produces an untyped AST
// (UnknownType wherever the source carries no annotation); type inference is
// a separate pass.
package syntax

import (
	"fmt"

	"github.com/ownlang/ownc/text"
)

// A Token identifies a lexical token class.
type Token int

const (
	EOF Token = iota
	ERR

	IDENT  // x
	NUMBER // 123
	STRING // "..."
	LABEL  // 'name

	LPAREN // (
	RPAREN // )
	LBRACE // {
	RBRACE // }
	COMMA  // ,
	SEMI   // ;
	COLON  // :
	DOT    // .
	EQUAL  // =
	AMP    // &
	ARROW  // ->

	FN
	LET
	MUT
	IF
	ELSE
	WHILE
	LOOP
	BREAK
	CONTINUE
	RETURN
	TRUE
	FALSE
)

var tokenNames = map[Token]string{
	EOF:      "end of input",
	ERR:      "invalid token",
	IDENT:    "identifier",
	NUMBER:   "number",
	STRING:   "string",
	LABEL:    "label",
	LPAREN:   "'('",
	RPAREN:   "')'",
	LBRACE:   "'{'",
	RBRACE:   "'}'",
	COMMA:    "','",
	SEMI:     "';'",
	COLON:    "':'",
	DOT:      "'.'",
	EQUAL:    "'='",
	AMP:      "'&'",
	ARROW:    "'->'",
	FN:       "'fn'",
	LET:      "'let'",
	MUT:      "'mut'",
	IF:       "'if'",
	ELSE:     "'else'",
	WHILE:    "'while'",
	LOOP:     "'loop'",
	BREAK:    "'break'",
	CONTINUE: "'continue'",
	RETURN:   "'return'",
	TRUE:     "'true'",
	FALSE:    "'false'",
}

func (t Token) String() string { return tokenNames[t] }

var keywords = map[string]Token{
	"fn":       FN,
	"let":      LET,
	"mut":      MUT,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"loop":     LOOP,
	"break":    BREAK,
	"continue": CONTINUE,
	"return":   RETURN,
	"true":     TRUE,
	"false":    FALSE,
}

// A Lexeme is one token together with its source extent and, for identifier,
// number, string, and label tokens, its text.  String lexemes carry the
// unquoted contents; label lexemes carry the name without the leading quote.
type Lexeme struct {
	Tok  Token
	Pos  text.Extent
	Text string
}

// An Error is a syntax error at a source position.
type Error struct {
	Msg string
	Pos text.Extent
}

func (e *Error) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Pos.String(), e.Msg)
}
