// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clustana analyzes clustering-benchmark measurement tables.
//
// It provides the four analyses of the suite: collapsing repeated
// measurements onto canonical keys (Aggregate), pairwise backend
// comparison (BackendPairs), repetition-consistency checking (Consistency,
// BackendConsistency), and seed-variability ranking (SeedVariability).
//
// Every function is pure: it takes immutable input tables plus parameters
// and produces new tables or an error. Callers may invoke the same
// analysis repeatedly and concurrently on the same inputs without
// synchronization. Missing numeric measurements (NaN cells) are excluded
// from all statistics and never raise; insufficient parameters (too few
// backends, no seed data) surface as *ConfigError.
package clustana

import (
	"math"
	"sort"
	"strings"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
)

// keyCol is the synthesized canonical-key column used for joining and
// distinct-key counting. The name can't collide with schema columns, like
// the ".file" key in Go benchmark tooling.
const keyCol = ".key"

// keySep separates canonical-key fields within the synthesized column.
const keySep = "\x1f"

// withKey returns t extended with a keyCol column holding the canonical
// key of each row, formed from keyCols.
func withKey(t *table.Table, keyCols []string) *table.Table {
	vals := make([][]string, len(keyCols))
	for i, col := range keyCols {
		vals[i] = t.MustColumn(col).([]string)
	}
	keys := make([]string, t.Len())
	var b strings.Builder
	for i := range keys {
		b.Reset()
		for j := range vals {
			if j > 0 {
				b.WriteString(keySep)
			}
			b.WriteString(vals[j][i])
		}
		keys[i] = b.String()
	}
	return table.NewBuilder(t).Add(keyCol, keys).Done()
}

// sortByDesc returns t with rows sorted descending by float64 column col.
// NaN values sort last. The sort is stable, so equal values keep their
// input order.
func sortByDesc(t *table.Table, col string) *table.Table {
	xs := t.MustColumn(col).([]float64)
	perm := make([]int, len(xs))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		a, b := xs[perm[i]], xs[perm[j]]
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		if math.IsNaN(a) {
			return false
		}
		return a > b
	})
	var nt table.Builder
	for _, c := range t.Columns() {
		nt.Add(c, slice.Select(t.Column(c), perm))
	}
	return nt.Done()
}

// distinctStrings returns the distinct values of a string column in
// sorted order.
func distinctStrings(vals []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
