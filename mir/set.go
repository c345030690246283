// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mir

import "github.com/ownlang/ownc/ast"

// A PlaceSet is an unordered, deduplicated collection of places.  It is
// backed by a slice: the place universe of a single function is small, so
// linear membership tests are cheap, and keeping insertion order makes the
// verbose printer's output stable.
type PlaceSet struct {
	places []ast.Place
}

// Contains reports set membership.
func (s *PlaceSet) Contains(p ast.Place) bool {
	for _, q := range s.places {
		if q.Equal(p) {
			return true
		}
	}
	return false
}

// Add inserts a place and reports whether the set grew.
func (s *PlaceSet) Add(p ast.Place) bool {
	if s.Contains(p) {
		return false
	}
	s.places = append(s.places, p)
	return true
}

// Extend inserts every place of another set.
func (s *PlaceSet) Extend(o PlaceSet) {
	for _, p := range o.places {
		s.Add(p)
	}
}

// Places returns the underlying elements.  The caller must not mutate them.
func (s *PlaceSet) Places() []ast.Place {
	return s.places
}

// Len returns the number of elements.
func (s *PlaceSet) Len() int { return len(s.places) }

// Equal reports set equality, ignoring order.
func (s *PlaceSet) Equal(o PlaceSet) bool {
	if len(s.places) != len(o.places) {
		return false
	}
	for _, p := range s.places {
		if !o.Contains(p) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (s *PlaceSet) Clone() PlaceSet {
	return PlaceSet{places: append([]ast.Place(nil), s.places...)}
}
