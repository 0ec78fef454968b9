// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clustana

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clustbench/clustperf/clustfmt"
)

// metricTable parses CSV text into a metric-level results table.
func metricTable(t *testing.T, data string) *clustfmt.ResultTable {
	t.Helper()
	rt, err := clustfmt.ReadCSV(strings.NewReader(data), "test.csv", clustfmt.MetricLevel)
	require.NoError(t, err)
	return rt
}

func methodTable(t *testing.T, data string) *clustfmt.ResultTable {
	t.Helper()
	rt, err := clustfmt.ReadCSV(strings.NewReader(data), "test.csv", clustfmt.MethodLevel)
	require.NoError(t, err)
	return rt
}

const metricHeader = "backend,dataset_generator,dataset_name,method,metric,seed,run_timestamp,score\n"

func TestDistinctStrings(t *testing.T) {
	got := distinctStrings([]string{"b", "a", "b", "c", "a"})
	require.Equal(t, []string{"a", "b", "c"}, got)
}

func TestSortByDescStable(t *testing.T) {
	rt := metricTable(t, metricHeader+
		"py,g,d1,m,ari,,1,0.1\n"+
		"py,g,d2,m,ari,,1,0.9\n"+
		"py,g,d3,m,ari,,1,\n"+
		"py,g,d4,m,ari,,1,0.9\n")
	sorted := sortByDesc(rt.Table(), clustfmt.ColScore)
	names := sorted.MustColumn(clustfmt.ColDataset).([]string)
	// Descending, ties in input order, NaN last.
	require.Equal(t, []string{"d2", "d4", "d1", "d3"}, names)
}
