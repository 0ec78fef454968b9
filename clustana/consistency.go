// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clustana

import (
	"math"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"

	"github.com/clustbench/clustperf/clustfmt"
)

// Consistency measures the spread of scores across repeated runs of each
// canonical key, over raw (non-aggregated) metric-level rows. The output
// has one row per canonical key with columns n_repetitions (distinct run
// timestamps), "mean score", "min score", "max score", "sd score",
// score_range (max−min), and is_consistent (score_range == 0).
//
// Rows are sorted descending by score_range: the most inconsistent keys
// come first. This ordering is part of the function's contract.
//
// A key with a single repetition has score_range 0 and is trivially
// consistent; its "sd score" is NaN because the spread of one measurement
// is undefined.
func Consistency(rt *clustfmt.ResultTable) (*table.Table, error) {
	if rt.Kind() != clustfmt.MetricLevel {
		return nil, ConfigError("consistency analysis requires metric-level results")
	}
	if rt.Len() == 0 {
		return new(table.Table), nil
	}

	g := ggstat.Agg(rt.Kind().KeyCols()...)(
		aggDistinct(clustfmt.ColRunTimestamp, "n_repetitions"),
		AggValidMean(clustfmt.ColScore),
		AggValidMin(clustfmt.ColScore),
		AggValidMax(clustfmt.ColScore),
		AggValidStdDev(clustfmt.ColScore),
	).F(rt.Table())
	t := table.Flatten(g)

	mins := t.MustColumn("min score").([]float64)
	maxs := t.MustColumn("max score").([]float64)
	ranges := make([]float64, len(mins))
	consistent := make([]bool, len(mins))
	for i := range mins {
		if math.IsNaN(mins[i]) {
			// All scores missing; no spread to speak of.
			ranges[i] = math.NaN()
			continue
		}
		ranges[i] = maxs[i] - mins[i]
		consistent[i] = ranges[i] == 0
	}
	t = table.NewBuilder(t).
		Add("score_range", ranges).
		Add("is_consistent", consistent).
		Done()
	return sortByDesc(t, "score_range"), nil
}

// BackendConsistency summarizes Consistency per backend. Each consistency
// record is joined back to the backends that contributed repetitions to
// its canonical key (one backend may contribute many repetitions to the
// same key). The output has one row per backend with columns backend,
// n_combinations, n_consistent, and percent_consistent
// (100 × consistent/total, rounded to 2 decimal places), sorted
// descending by percent_consistent.
func BackendConsistency(rt *clustfmt.ResultTable) (*table.Table, error) {
	cons, err := Consistency(rt)
	if err != nil {
		return nil, err
	}
	if cons.Len() == 0 {
		return new(table.Table), nil
	}
	keyCols := rt.Kind().KeyCols()

	// One row per (backend, canonical key) combination.
	combos := table.Flatten(ggstat.Agg(append([]string{clustfmt.ColBackend}, keyCols...)...)(
		ggstat.AggCount("n"),
	).F(rt.Table()))
	combos = withKey(combos, keyCols)

	// Index per-key consistency and count per backend.
	keyed := withKey(cons, keyCols)
	byKey := make(map[string]bool)
	keys := keyed.MustColumn(keyCol).([]string)
	flags := keyed.MustColumn("is_consistent").([]bool)
	for i, k := range keys {
		byKey[k] = flags[i]
	}

	backends := combos.MustColumn(clustfmt.ColBackend).([]string)
	comboKeys := combos.MustColumn(keyCol).([]string)
	total := make(map[string]int)
	good := make(map[string]int)
	for i, b := range backends {
		total[b]++
		if byKey[comboKeys[i]] {
			good[b]++
		}
	}

	names := distinctStrings(backends)
	nTotal := make([]int, len(names))
	nGood := make([]int, len(names))
	pct := make([]float64, len(names))
	for i, b := range names {
		nTotal[i] = total[b]
		nGood[i] = good[b]
		pct[i] = math.Round(10000*float64(good[b])/float64(total[b])) / 100
	}
	t := new(table.Builder).
		Add(clustfmt.ColBackend, names).
		Add("n_combinations", nTotal).
		Add("n_consistent", nGood).
		Add("percent_consistent", pct).
		Done()
	return sortByDesc(t, "percent_consistent"), nil
}
