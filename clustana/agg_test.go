// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clustana

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clustbench/clustperf/clustfmt"
)

func TestAggregateMean(t *testing.T) {
	rt := metricTable(t, metricHeader+
		"py,g,d,m,ari,1,100,1\n"+
		"py,g,d,m,ari,2,100,2\n"+
		"py,g,d,m,ari,1,101,3\n"+
		"py,g,d,m,ari,2,101,4\n")
	agg := Aggregate(rt)
	require.Equal(t, 1, agg.Len())
	require.Equal(t, 2.5, agg.MustColumn("mean score").([]float64)[0])
}

// Aggregation yields one row per distinct (backend, canonical key) pair
// and never averages across backends.
func TestAggregateKeepsBackendsApart(t *testing.T) {
	rt := metricTable(t, metricHeader+
		"py,g,d,m,ari,,100,0.2\n"+
		"py,g,d,m,ari,,101,0.4\n"+
		"rs,g,d,m,ari,,100,0.8\n"+
		"rs,g,e,m,ari,,100,0.6\n")
	agg := Aggregate(rt)
	require.Equal(t, 3, agg.Len())

	backends := agg.MustColumn(clustfmt.ColBackend).([]string)
	names := agg.MustColumn(clustfmt.ColDataset).([]string)
	means := agg.MustColumn("mean score").([]float64)
	byKey := make(map[string]float64)
	for i := range backends {
		byKey[backends[i]+"/"+names[i]] = means[i]
	}
	require.InDelta(t, 0.3, byKey["py/d"], 1e-12)
	require.InDelta(t, 0.8, byKey["rs/d"], 1e-12)
	require.InDelta(t, 0.6, byKey["rs/e"], 1e-12)
}

// Missing scores are excluded from the mean; a key with no valid score
// at all aggregates to NaN rather than failing.
func TestAggregateMissingScores(t *testing.T) {
	rt := metricTable(t, metricHeader+
		"py,g,d,m,ari,,100,0.5\n"+
		"py,g,d,m,ari,,101,\n"+
		"py,g,e,m,ari,,100,\n"+
		"py,g,e,m,ari,,101,NaN\n")
	agg := Aggregate(rt)
	require.Equal(t, 2, agg.Len())

	names := agg.MustColumn(clustfmt.ColDataset).([]string)
	means := agg.MustColumn("mean score").([]float64)
	for i, name := range names {
		switch name {
		case "d":
			require.Equal(t, 0.5, means[i])
		case "e":
			require.True(t, math.IsNaN(means[i]), "all-missing key should aggregate to NaN")
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	rt := metricTable(t, metricHeader)
	require.Equal(t, 0, Aggregate(rt).Len())
}
