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

// cvEpsilon guards the coefficient-of-variation division against a zero
// mean.
const cvEpsilon = 1e-10

// HasSeedData reports whether rt carries usable seed information: a seed
// column with at least one non-missing value and at least two distinct
// non-missing values overall. Callers probing a whole dataset should use
// this and treat false as "no seed data" rather than an error.
func HasSeedData(rt *clustfmt.ResultTable) bool {
	col, ok := rt.Table().Column(clustfmt.ColSeed).([]float64)
	if !ok {
		return false
	}
	seen := make(map[float64]bool)
	for _, v := range col {
		if !math.IsNaN(v) {
			seen[v] = true
			if len(seen) >= 2 {
				return true
			}
		}
	}
	return false
}

// SeedVariability quantifies the stochastic sensitivity of each canonical
// key (and backend, if byBackend is set) as the coefficient of variation
// of the kind's measure across distinct random seeds: cv = sd/(|mean|+ε).
//
// Rows with a missing seed are excluded, and only groups with more than
// one distinct seed appear in the output. The output has columns n_seeds,
// "mean <measure>", "sd <measure>", and cv, sorted descending by cv so
// the most seed-sensitive combinations come first.
//
// It is a *ConfigError if rt has no usable seed data at all; use
// HasSeedData first to treat that case as a warning instead.
func SeedVariability(rt *clustfmt.ResultTable, byBackend bool) (*table.Table, error) {
	if !HasSeedData(rt) {
		return nil, ConfigError("no seed data available")
	}
	measure := rt.Kind().MeasureCol()
	groupCols := rt.Kind().KeyCols()
	if byBackend {
		groupCols = append([]string{clustfmt.ColBackend}, groupCols...)
	}

	seeded := table.Filter(rt.Table(), func(s float64) bool { return !math.IsNaN(s) }, clustfmt.ColSeed)
	g := ggstat.Agg(groupCols...)(
		aggDistinct(clustfmt.ColSeed, "n_seeds"),
		AggValidMean(measure),
		AggValidStdDev(measure),
	).F(seeded)
	t := table.Flatten(table.Filter(g, func(n int) bool { return n > 1 }, "n_seeds"))
	if t.Len() == 0 {
		return new(table.Table), nil
	}

	means := t.MustColumn("mean " + measure).([]float64)
	sds := t.MustColumn("sd " + measure).([]float64)
	cv := make([]float64, len(means))
	for i := range cv {
		cv[i] = sds[i] / (math.Abs(means[i]) + cvEpsilon)
	}
	t = table.NewBuilder(t).Add("cv", cv).Done()
	return sortByDesc(t, "cv"), nil
}

// SeedCVMatrix cross-tabulates a SeedVariability result into a method ×
// dataset matrix of coefficients of variation, suitable for heatmap
// rendering. Each row is one method; each dataset
// ("<generator>/<name>") becomes a column. Combinations absent from sv
// are zero.
//
// When sv was computed per backend the matrix averages over backends,
// since a method/dataset cell must hold a single value.
func SeedCVMatrix(sv *table.Table) *table.Table {
	if sv.Len() == 0 {
		return new(table.Table)
	}
	gens := sv.MustColumn(clustfmt.ColGenerator).([]string)
	names := sv.MustColumn(clustfmt.ColDataset).([]string)
	datasets := make([]string, len(gens))
	for i := range gens {
		datasets[i] = gens[i] + "/" + names[i]
	}
	cells := new(table.Builder).
		Add(clustfmt.ColMethod, sv.MustColumn(clustfmt.ColMethod)).
		Add("dataset", datasets).
		Add("cv", sv.MustColumn("cv")).
		Done()
	avg := table.Flatten(ggstat.Agg(clustfmt.ColMethod, "dataset")(AggValidMean("cv")).F(cells))
	avg = table.Flatten(table.Rename(avg, "mean cv", "cv"))
	return table.Flatten(table.Pivot(avg, "dataset", "cv"))
}
