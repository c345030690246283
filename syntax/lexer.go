// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "github.com/ownlang/ownc/text"

// A Lexer turns source text into a stream of Lexemes.  It never fails: an
// unrecognised byte or an unterminated string or comment yields an ERR
// lexeme, which the parser reports as a syntax error.
type Lexer struct {
	src string
	pos int
}

// NewLexer returns a lexer over the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peek2() byte {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9')
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// skipTrivia consumes whitespace and // and /* */ comments.  It reports
// false if a block comment is unterminated.
func (l *Lexer) skipTrivia() bool {
	for l.pos < len(l.src) {
		switch c := l.peek(); {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.pos++
		case c == '/' && l.peek2() == '/':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.pos++
			}
		case c == '/' && l.peek2() == '*':
			l.pos += 2
			for {
				if l.pos >= len(l.src) {
					return false
				}
				if l.peek() == '*' && l.peek2() == '/' {
					l.pos += 2
					break
				}
				l.pos++
			}
		default:
			return true
		}
	}
	return true
}

// Next returns the next lexeme.  At the end of input it returns EOF forever.
func (l *Lexer) Next() Lexeme {
	if !l.skipTrivia() {
		return Lexeme{Tok: ERR, Pos: text.Extent{Offset: l.pos, Length: 0}}
	}
	start := l.pos
	if l.pos >= len(l.src) {
		return Lexeme{Tok: EOF, Pos: text.Extent{Offset: start}}
	}

	extent := func() text.Extent {
		return text.Extent{Offset: start, Length: l.pos - start}
	}

	c := l.peek()
	switch {
	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentPart(l.peek()) {
			l.pos++
		}
		word := l.src[start:l.pos]
		if tok, ok := keywords[word]; ok {
			return Lexeme{Tok: tok, Pos: extent(), Text: word}
		}
		return Lexeme{Tok: IDENT, Pos: extent(), Text: word}
	case isDigit(c):
		for l.pos < len(l.src) && isDigit(l.peek()) {
			l.pos++
		}
		return Lexeme{Tok: NUMBER, Pos: extent(), Text: l.src[start:l.pos]}
	case c == '"':
		l.pos++
		for l.pos < len(l.src) && l.peek() != '"' {
			l.pos++
		}
		if l.pos >= len(l.src) {
			return Lexeme{Tok: ERR, Pos: extent()}
		}
		l.pos++ // closing quote
		return Lexeme{Tok: STRING, Pos: extent(), Text: l.src[start+1 : l.pos-1]}
	case c == '\'':
		l.pos++
		if l.pos >= len(l.src) || !isIdentPart(l.peek()) {
			return Lexeme{Tok: ERR, Pos: extent()}
		}
		for l.pos < len(l.src) && isIdentPart(l.peek()) {
			l.pos++
		}
		return Lexeme{Tok: LABEL, Pos: extent(), Text: l.src[start+1 : l.pos]}
	case c == '-' && l.peek2() == '>':
		l.pos += 2
		return Lexeme{Tok: ARROW, Pos: extent()}
	}

	l.pos++
	switch c {
	case '(':
		return Lexeme{Tok: LPAREN, Pos: extent()}
	case ')':
		return Lexeme{Tok: RPAREN, Pos: extent()}
	case '{':
		return Lexeme{Tok: LBRACE, Pos: extent()}
	case '}':
		return Lexeme{Tok: RBRACE, Pos: extent()}
	case ',':
		return Lexeme{Tok: COMMA, Pos: extent()}
	case ';':
		return Lexeme{Tok: SEMI, Pos: extent()}
	case ':':
		return Lexeme{Tok: COLON, Pos: extent()}
	case '.':
		return Lexeme{Tok: DOT, Pos: extent()}
	case '=':
		return Lexeme{Tok: EQUAL, Pos: extent()}
	case '&':
		return Lexeme{Tok: AMP, Pos: extent()}
	}
	return Lexeme{Tok: ERR, Pos: extent()}
}
