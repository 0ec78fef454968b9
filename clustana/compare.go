// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clustana

import (
	"sort"

	"github.com/aclements/go-gg/table"

	"github.com/clustbench/clustperf/clustfmt"
)

// A Pair holds the aggregated measurements of two backends inner-joined
// on the canonical key, ready for scatter comparison.
type Pair struct {
	// A and B are the backend identifiers, with A < B.
	A, B string

	// Table has the canonical key columns of the source kind plus the
	// two paired measure columns named by ACol and BCol. Canonical
	// keys present under only one of the two backends are absent.
	Table *table.Table

	// ACol and BCol name the paired measure columns,
	// "<measure>/<backend>".
	ACol, BCol string
}

// Backends returns the distinct backend identifiers observed in t, in
// lexicographic order.
func Backends(t *table.Table) []string {
	if t.Len() == 0 {
		return nil
	}
	return distinctStrings(t.MustColumn(clustfmt.ColBackend).([]string))
}

// BackendPairs compares backends pairwise over an aggregated table
// produced by Aggregate. backends selects which backends to compare; nil
// means all backends observed in agg. It returns one Pair per unordered
// backend pair {b1, b2} with b1 < b2, each inner-joined on the canonical
// key of kind.
//
// Fewer than two requested backends, or the same backend requested
// twice, is a *ConfigError. A backend with no rows in agg simply yields
// empty pair tables.
func BackendPairs(agg *table.Table, kind clustfmt.Kind, backends []string) ([]Pair, error) {
	if backends == nil {
		backends = Backends(agg)
	}
	if len(backends) < 2 {
		return nil, ConfigError("at least two backends required")
	}
	backends = append([]string(nil), backends...)
	sort.Strings(backends)
	for i := 1; i < len(backends); i++ {
		if backends[i] == backends[i-1] {
			return nil, ConfigError("duplicate backend " + backends[i])
		}
	}

	measure := "mean " + kind.MeasureCol()
	var pairs []Pair
	for i := 0; i < len(backends); i++ {
		for j := i + 1; j < len(backends); j++ {
			pairs = append(pairs, joinPair(agg, kind.KeyCols(), measure, backends[i], backends[j]))
		}
	}
	return pairs, nil
}

// joinPair inner-joins the b1 and b2 subsets of agg on the canonical key.
// All pairwise comparisons go through this one helper so that every pair
// gets identical join semantics.
func joinPair(agg *table.Table, keyCols []string, measure, b1, b2 string) Pair {
	aCol := measure + "/" + b1
	bCol := measure + "/" + b2

	left := backendSubset(agg, keyCols, measure, b1, aCol, true)
	right := backendSubset(agg, keyCols, measure, b2, bCol, false)

	j := table.Join(left, keyCol, right, keyCol)
	t := table.Flatten(table.Remove(j, keyCol))
	return Pair{A: b1, B: b2, Table: t, ACol: aCol, BCol: bCol}
}

// backendSubset extracts the rows of agg for one backend as a table keyed
// by keyCol, renaming the measure column to renamed. If keepKeys is set
// the canonical key columns are carried along so the joined output can
// still identify workloads.
func backendSubset(agg *table.Table, keyCols []string, measure, backend, renamed string, keepKeys bool) *table.Table {
	sub := emptySubset(keyCols, measure)
	if agg.Len() > 0 {
		sub = table.Flatten(table.FilterEq(agg, clustfmt.ColBackend, backend))
	}
	sub = withKey(sub, keyCols)

	var nt table.Builder
	nt.Add(keyCol, sub.MustColumn(keyCol))
	if keepKeys {
		for _, col := range keyCols {
			nt.Add(col, sub.MustColumn(col))
		}
	}
	nt.Add(renamed, sub.MustColumn(measure))
	return nt.Done()
}

// emptySubset builds a zero-row table with the subset schema, so that
// pairing over an empty aggregated table produces empty pair tables
// rather than a panic. Note a Table with columns but no rows is not the
// empty Table.
func emptySubset(keyCols []string, measure string) *table.Table {
	var nt table.Builder
	for _, col := range keyCols {
		nt.Add(col, []string{})
	}
	nt.Add(measure, []float64{})
	return nt.Done()
}
