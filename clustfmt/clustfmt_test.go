// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clustfmt

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"
)

const metricCSV = `backend,dataset_generator,dataset_name,method,metric,seed,run_timestamp,score,empty_file
python,fcps,atom,kmeans,ari,42,100,0.75,False
python,fcps,atom,kmeans,ari,43,100,,False
matlab,fcps,atom,kmeans,ari,42,100,0.7,True
matlab,graves,dense,birch,nmi,,101,NaN,False
`

func readMetric(t *testing.T, data string) *ResultTable {
	t.Helper()
	rt, err := ReadCSV(strings.NewReader(data), "test.csv", MetricLevel)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	return rt
}

func TestReadCSV(t *testing.T) {
	rt := readMetric(t, metricCSV)
	if rt.Len() != 4 {
		t.Fatalf("got %d rows, want 4", rt.Len())
	}

	scores := rt.Table().Column(ColScore).([]float64)
	if scores[0] != 0.75 {
		t.Errorf("row 0 score = %v, want 0.75", scores[0])
	}
	for _, i := range []int{1, 3} {
		if !math.IsNaN(scores[i]) {
			t.Errorf("row %d score = %v, want NaN", i, scores[i])
		}
	}

	seeds := rt.Table().Column(ColSeed).([]float64)
	if seeds[0] != 42 || !math.IsNaN(seeds[3]) {
		t.Errorf("seeds = %v, want [42 43 42 NaN]", seeds)
	}

	// Python-style booleans parse.
	empty := rt.Table().Column(ColEmptyFile).([]bool)
	if want := []bool{false, false, true, false}; !reflect.DeepEqual(empty, want) {
		t.Errorf("empty_file = %v, want %v", empty, want)
	}
}

func TestReadCSVLevels(t *testing.T) {
	rt := readMetric(t, metricCSV)
	for col, want := range map[string][]string{
		ColBackend: {"python", "matlab"},
		ColMethod:  {"kmeans", "birch"},
		ColMetric:  {"ari", "nmi"},
	} {
		if got := rt.Levels(col).Values(); !reflect.DeepEqual(got, want) {
			t.Errorf("%s levels = %v, want %v", col, got, want)
		}
	}
}

func TestReadCSVMissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("backend,method\npython,kmeans\n"), "bad.csv", MetricLevel)
	if _, ok := err.(*SyntaxError); !ok {
		t.Fatalf("got error %v, want *SyntaxError", err)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), "empty.csv", MetricLevel)
	if _, ok := err.(*SyntaxError); !ok {
		t.Fatalf("got error %v, want *SyntaxError", err)
	}
}

// TestRoundTrip checks that writing a table and reading it back
// preserves rows, columns, and level sets. NaN cells survive as NaN.
func TestRoundTrip(t *testing.T) {
	rt := readMetric(t, metricCSV)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rt); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rt2 := readMetric(t, buf.String())

	if rt2.Len() != rt.Len() {
		t.Fatalf("round trip: got %d rows, want %d", rt2.Len(), rt.Len())
	}
	if !reflect.DeepEqual(rt2.Columns(), rt.Columns()) {
		t.Fatalf("round trip: columns %v, want %v", rt2.Columns(), rt.Columns())
	}
	for _, col := range rt.Columns() {
		a, b := rt.Table().Column(col), rt2.Table().Column(col)
		if av, ok := a.([]float64); ok {
			bv := b.([]float64)
			for i := range av {
				same := av[i] == bv[i] || (math.IsNaN(av[i]) && math.IsNaN(bv[i]))
				if !same {
					t.Errorf("column %q row %d: got %v, want %v", col, i, bv[i], av[i])
				}
			}
			continue
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("column %q: got %v, want %v", col, b, a)
		}
		if _, ok := a.([]string); ok {
			if !reflect.DeepEqual(rt2.Levels(col).Values(), rt.Levels(col).Values()) {
				t.Errorf("column %q levels: got %v, want %v", col, rt2.Levels(col).Values(), rt.Levels(col).Values())
			}
		}
	}
}

func TestKindColumns(t *testing.T) {
	if got := MetricLevel.MeasureCol(); got != ColScore {
		t.Errorf("MetricLevel measure = %q, want %q", got, ColScore)
	}
	if got := MethodLevel.MeasureCol(); got != ColTime {
		t.Errorf("MethodLevel measure = %q, want %q", got, ColTime)
	}
	if got := MetricLevel.KeyCols(); !reflect.DeepEqual(got, []string{ColGenerator, ColDataset, ColMethod, ColMetric}) {
		t.Errorf("MetricLevel keys = %v", got)
	}
	if got := MethodLevel.KeyCols(); !reflect.DeepEqual(got, []string{ColGenerator, ColDataset, ColMethod}) {
		t.Errorf("MethodLevel keys = %v", got)
	}
}
