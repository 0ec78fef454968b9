// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clustfmt

// A Levels is the set of distinct values observed for a categorical
// column, in observation order. The set is unordered in the statistical
// sense: observation order is recorded only so that level enumeration is
// deterministic.
//
// Levels also interns its values so that every cell of a categorical
// column shares one string instance per level, which keeps grouping on
// these columns cheap.
type Levels struct {
	vals []string
	idx  map[string]int
}

// Intern records s as a level if it is new and returns the canonical
// instance of s.
func (l *Levels) Intern(s string) string {
	if i, ok := l.idx[s]; ok {
		return l.vals[i]
	}
	if l.idx == nil {
		l.idx = make(map[string]int)
	}
	l.idx[s] = len(l.vals)
	l.vals = append(l.vals, s)
	return s
}

// Has reports whether s is a level.
func (l *Levels) Has(s string) bool {
	if l == nil {
		return false
	}
	_, ok := l.idx[s]
	return ok
}

// Len returns the number of distinct levels.
func (l *Levels) Len() int {
	if l == nil {
		return 0
	}
	return len(l.vals)
}

// Values returns the levels in observation order. The caller must not
// modify the returned slice.
func (l *Levels) Values() []string {
	if l == nil {
		return nil
	}
	return l.vals
}
