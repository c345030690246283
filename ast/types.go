// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file defines the type model for the source language: primitive types,
// tuples, and loan-carrying reference types.  Reference types record the set
// of loans they may originate from; this is the compiler's provenance
// information and is what the borrow checker consumes.

package ast

// A Type is the type of an expression or local.  Types are immutable values;
// they are compared structurally, including the loan sets carried by
// reference types.
type Type interface {
	typeNode()
	// IsCopy reports whether values of this type are duplicated on read
	// rather than moved.  Integers, booleans, unit, shared references, and
	// tuples of copy types are copy; strings, unique references, and
	// anything unknown are move.
	IsCopy() bool
	// Equal reports structural equality with another type.
	Equal(Type) bool
	String() string
}

type (
	// IntType is the type of 32-bit integers (spelled i32).
	IntType struct{}
	// BoolType is the type of booleans.
	BoolType struct{}
	// UnitType is the type of the unit value ().
	UnitType struct{}
	// StringType is the type of string values.  Strings are move types.
	StringType struct{}
	// UnknownType is the parser's placeholder before inference.  A concrete
	// AST (the inferencer's output) contains no UnknownType nodes.
	UnknownType struct{}
	// TupleType is a fixed-arity product of types.
	TupleType struct{ Elems []Type }
	// RefType is a reference.  Mut distinguishes unique (&mut) from shared
	// (&) references.  Loans is the set of loans the reference may have
	// originated from.
	RefType struct {
		Loans []Loan
		Mut   bool
		Elem  Type
	}
)

func (IntType) typeNode()     {}
func (BoolType) typeNode()    {}
func (UnitType) typeNode()    {}
func (StringType) typeNode()  {}
func (UnknownType) typeNode() {}
func (TupleType) typeNode()   {}
func (RefType) typeNode()     {}

func (IntType) IsCopy() bool     { return true }
func (BoolType) IsCopy() bool    { return true }
func (UnitType) IsCopy() bool    { return true }
func (StringType) IsCopy() bool  { return false }
func (UnknownType) IsCopy() bool { return false }

func (t TupleType) IsCopy() bool {
	for _, e := range t.Elems {
		if !e.IsCopy() {
			return false
		}
	}
	return true
}

func (t RefType) IsCopy() bool { return !t.Mut }

func (IntType) Equal(o Type) bool     { _, ok := o.(IntType); return ok }
func (BoolType) Equal(o Type) bool    { _, ok := o.(BoolType); return ok }
func (UnitType) Equal(o Type) bool    { _, ok := o.(UnitType); return ok }
func (StringType) Equal(o Type) bool  { _, ok := o.(StringType); return ok }
func (UnknownType) Equal(o Type) bool { _, ok := o.(UnknownType); return ok }

func (t TupleType) Equal(o Type) bool {
	u, ok := o.(TupleType)
	if !ok || len(t.Elems) != len(u.Elems) {
		return false
	}
	for i := range t.Elems {
		if !t.Elems[i].Equal(u.Elems[i]) {
			return false
		}
	}
	return true
}

func (t RefType) Equal(o Type) bool {
	u, ok := o.(RefType)
	if !ok || t.Mut != u.Mut || len(t.Loans) != len(u.Loans) {
		return false
	}
	for i := range t.Loans {
		if !t.Loans[i].Equal(u.Loans[i]) {
			return false
		}
	}
	return t.Elem.Equal(u.Elem)
}

// TypeLoans returns the loans carried by a reference type, or nil for any
// other type.
func TypeLoans(t Type) []Loan {
	if r, ok := t.(RefType); ok {
		return r.Loans
	}
	return nil
}

// A Loan records that some reference was created from Place in the given
// mode.  Mutable loans come from &mut, shared loans from &.
type Loan struct {
	Place   Place
	Mutable bool
}

// Equal reports whether two loans name the same place in the same mode.
func (l Loan) Equal(o Loan) bool {
	return l.Mutable == o.Mutable && l.Place.Equal(o.Place)
}
