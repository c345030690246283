// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package text

import "testing"

func TestOffsetPastEnd(t *testing.T) {
	ol := Extent{Offset: 2, Length: 3}
	if ol.OffsetPastEnd() != 5 {
		t.Errorf("OffsetPastEnd = %d, want 5", ol.OffsetPastEnd())
	}
}

func TestIntersect(t *testing.T) {
	a := Extent{Offset: 2, Length: 3}
	b := Extent{Offset: 4, Length: 4}
	got := a.Intersect(b)
	if got == nil || got.Offset != 4 || got.Length != 1 {
		t.Errorf("Intersect = %v, want offset 4 length 1", got)
	}
	c := Extent{Offset: 5, Length: 1}
	if a.Intersect(c) != nil {
		t.Errorf("adjacent extents should not intersect")
	}
}

func TestLineCol(t *testing.T) {
	src := "ab\ncd\nef"
	cases := []struct {
		offset, line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{4, 2, 2},
		{6, 3, 1},
		{8, 3, 3},
	}
	for _, c := range cases {
		line, col := (Extent{Offset: c.offset}).LineCol(src)
		if line != c.line || col != c.col {
			t.Errorf("offset %d = %d:%d, want %d:%d", c.offset, line, col, c.line, c.col)
		}
	}
}
