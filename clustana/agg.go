// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clustana

import (
	"math"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"

	"github.com/clustbench/clustperf/clustfmt"
)

// Aggregate collapses repeated measurements to one row per (backend,
// canonical key) combination, averaging the kind's measure column over
// all repetitions and seeds that share the combination. Backends are
// never mixed within one average.
//
// The output has exactly one row per distinct (backend, canonical key)
// pair present in rt, with the mean in a "mean <measure>" column. Missing
// measurements are ignored; a combination whose measurements are all
// missing yields NaN, not an error.
func Aggregate(rt *clustfmt.ResultTable) *table.Table {
	if rt.Len() == 0 {
		return new(table.Table)
	}
	kind := rt.Kind()
	groupCols := append([]string{clustfmt.ColBackend}, kind.KeyCols()...)
	g := ggstat.Agg(groupCols...)(AggValidMean(kind.MeasureCol())).F(rt.Table())
	return table.Flatten(g)
}

// AggValidMean returns an aggregate function that computes the arithmetic
// mean of each of cols over the non-NaN cells of each group. A group with
// no valid cells yields NaN. The resulting columns are named "mean <col>".
func AggValidMean(cols ...string) ggstat.Aggregator {
	return aggValid(stats.Mean, "mean ", cols...)
}

// AggValidMin and AggValidMax are the NaN-ignoring bounds analogues of
// AggValidMean, producing "min <col>" and "max <col>" columns.
func AggValidMin(cols ...string) ggstat.Aggregator {
	return aggValid(func(xs []float64) float64 {
		lo, _ := stats.Bounds(xs)
		return lo
	}, "min ", cols...)
}

func AggValidMax(cols ...string) ggstat.Aggregator {
	return aggValid(func(xs []float64) float64 {
		_, hi := stats.Bounds(xs)
		return hi
	}, "max ", cols...)
}

// AggValidStdDev returns an aggregate function that computes the sample
// standard deviation of the non-NaN cells of each of cols, named
// "sd <col>". A group with fewer than two valid cells yields NaN: the
// spread of a single measurement is undefined and is reported as missing
// rather than coerced to zero.
func AggValidStdDev(cols ...string) ggstat.Aggregator {
	return aggValid(func(xs []float64) float64 {
		if len(xs) < 2 {
			return math.NaN()
		}
		return stats.Sample{Xs: xs}.StdDev()
	}, "sd ", cols...)
}

// aggValid lifts a statistic over valid (non-NaN) float64 cells into a
// ggstat.Aggregator that emits one "<prefix><col>" column per col.
func aggValid(f func([]float64) float64, prefix string, cols ...string) ggstat.Aggregator {
	return func(input table.Grouping, b *table.Builder) {
		for _, col := range cols {
			out := make([]float64, 0, len(input.Tables()))
			var buf []float64
			for _, gid := range input.Tables() {
				xs := input.Table(gid).MustColumn(col).([]float64)
				buf = buf[:0]
				for _, x := range xs {
					if !math.IsNaN(x) {
						buf = append(buf, x)
					}
				}
				if len(buf) == 0 {
					out = append(out, math.NaN())
					continue
				}
				out = append(out, f(buf))
			}
			b.Add(prefix+col, out)
		}
	}
}

// aggDistinct returns an aggregate function that counts the distinct
// values of col within each group, emitting an int column named label.
// col may be a string or float64 column; NaN cells are not counted.
func aggDistinct(col, label string) ggstat.Aggregator {
	return func(input table.Grouping, b *table.Builder) {
		out := make([]int, 0, len(input.Tables()))
		for _, gid := range input.Tables() {
			switch vals := input.Table(gid).MustColumn(col).(type) {
			case []string:
				seen := make(map[string]bool)
				for _, v := range vals {
					seen[v] = true
				}
				out = append(out, len(seen))
			case []float64:
				seen := make(map[float64]bool)
				for _, v := range vals {
					if !math.IsNaN(v) {
						seen[v] = true
					}
				}
				out = append(out, len(seen))
			}
		}
		b.Add(label, out)
	}
}
