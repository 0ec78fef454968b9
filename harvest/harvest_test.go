// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package harvest

import (
	"compress/gzip"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/clustbench/clustperf/clustfmt"
)

func TestExtractBackendTimestamp(t *testing.T) {
	tests := []struct {
		dir                string
		backend, timestamp string
		ok                 bool
	}{
		{"out_python-1748012233", "python", "1748012233", true},
		{"/results/out_matlab-42", "matlab", "42", true},
		{"out_python", "", "", false},
		{"results", "", "", false},
		{"out_py-thon-17", "", "", false},
	}
	for _, test := range tests {
		b, ts, ok := ExtractBackendTimestamp(test.dir)
		if b != test.backend || ts != test.timestamp || ok != test.ok {
			t.Errorf("ExtractBackendTimestamp(%q) = %q, %q, %v, want %q, %q, %v",
				test.dir, b, ts, ok, test.backend, test.timestamp, test.ok)
		}
	}
}

func TestMethodInfo(t *testing.T) {
	method, seed := methodInfo("/x/method-kmeans_seed-123/metric-ari/clustbench.scores.gz")
	if method != "kmeans" || seed != 123 {
		t.Errorf("got %q, %v, want kmeans, 123", method, seed)
	}

	method, seed = methodInfo("/x/method-genieclust/metric-ari/clustbench.scores.gz")
	if method != "genieclust" || !math.IsNaN(seed) {
		t.Errorf("got %q, %v, want genieclust, NaN", method, seed)
	}

	method, _ = methodInfo("/x/fastcluster/linkage-ward/metric-ari/clustbench.scores.gz")
	if method != "fastcluster_linkage-ward" {
		t.Errorf("got %q, want fastcluster_linkage-ward", method)
	}
}

func TestDatasetInfoFromPath(t *testing.T) {
	gen, name := datasetInfo("/x/dataset_generator-fcps_dataset_name-atom/method-kmeans/clustbench.scores.gz")
	if gen != "fcps" || name != "atom" {
		t.Errorf("got %q, %q, want fcps, atom", gen, name)
	}
}

func TestDatasetInfoFromParams(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "run", "deep")
	mustMkdir(t, sub)
	mustWrite(t, filepath.Join(dir, "run", "parameters.json"),
		`{"dataset_generator": "graves", "dataset_name": "dense"}`)

	gen, name := datasetInfo(filepath.Join(sub, "clustbench.scores.gz"))
	if gen != "graves" || name != "dense" {
		t.Errorf("got %q, %q, want graves, dense", gen, name)
	}
}

func TestReadScores(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clustbench.scores.gz")

	writeGzip(t, path, "k=2,k=3,k=4\n0.5,0.7,0.6\n")
	scores, empty, dup, err := readScores(path)
	if err != nil || empty || dup {
		t.Fatalf("readScores = %v, empty=%v, dup=%v", err, empty, dup)
	}
	if scores["k=3"] != 0.7 {
		t.Errorf("k=3 score = %v, want 0.7", scores["k=3"])
	}

	writeGzip(t, path, "k=2,k=3\n")
	_, empty, _, err = readScores(path)
	if err != nil || !empty {
		t.Errorf("header-only file: empty=%v, err=%v", empty, err)
	}

	// Repeated k with nearly equal values is tolerated.
	writeGzip(t, path, "k=2,k=2\n0.5,0.5004\n")
	_, _, dup, err = readScores(path)
	if err != nil || dup {
		t.Errorf("near-equal duplicate flagged: dup=%v, err=%v", dup, err)
	}

	// Repeated k with conflicting values is an anomaly.
	writeGzip(t, path, "k=2,k=2\n0.5,0.9\n")
	_, _, dup, err = readScores(path)
	if err != nil || !dup {
		t.Errorf("conflicting duplicate not flagged: dup=%v, err=%v", dup, err)
	}
}

func TestReadPerformanceTxt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clustbench_performance.txt")
	mustWrite(t, path, "h:m:s\ts\tmax_rss\n0:0:12\t12.34\t20480\n")
	secs, ok := readPerformanceTxt(path)
	if !ok || secs != 12.34 {
		t.Errorf("got %v, %v, want 12.34, true", secs, ok)
	}
}

// TestRun builds a small but complete run tree and checks both harvested
// tables.
func TestRun(t *testing.T) {
	root := t.TempDir()
	run := filepath.Join(root, "out_python-1748012233")
	ds := filepath.Join(run, "dataset_generator-fcps_dataset_name-atom")
	methodDir := filepath.Join(ds, "method-kmeans_seed-42")
	metricDir := filepath.Join(methodDir, "metrics", "partition_metrics", "metric-ari")
	mustMkdir(t, metricDir)

	// Labels: clusters 1 and 2 plus a noise point.
	writeGzip(t, filepath.Join(ds, "clustbench.labels.gz"), "1\n2\n1\n2\n0\n")
	writeGzip(t, filepath.Join(metricDir, "clustbench.scores.gz"), "k=2,k=3\n0.51,0.72\n")
	mustWrite(t, filepath.Join(methodDir, "clustbench_performance.txt"),
		"h:m:s\ts\tmax_rss\n0:0:1\t1.5\t1024\n")
	mustWrite(t, filepath.Join(methodDir, "perf.json"),
		`{"total_time_secs": 1.75, "max_threads": 4, "peak_mem_rss_kb": 2048}`)

	h, err := Run(root)
	if err != nil {
		t.Fatal(err)
	}

	if h.Metrics.Len() != 1 {
		t.Fatalf("got %d metric rows, want 1", h.Metrics.Len())
	}
	mt := h.Metrics.Table()
	if got := mt.Column(clustfmt.ColBackend).([]string)[0]; got != "python" {
		t.Errorf("backend = %q, want python", got)
	}
	if got := mt.Column(clustfmt.ColMethod).([]string)[0]; got != "kmeans" {
		t.Errorf("method = %q, want kmeans", got)
	}
	if got := mt.Column(clustfmt.ColMetric).([]string)[0]; got != "ari" {
		t.Errorf("metric = %q, want ari", got)
	}
	if got := mt.Column(clustfmt.ColSeed).([]float64)[0]; got != 42 {
		t.Errorf("seed = %v, want 42", got)
	}
	// true_k is 2, so the kept score is the k=2 column.
	if got := mt.Column(clustfmt.ColScore).([]float64)[0]; got != 0.51 {
		t.Errorf("score = %v, want 0.51", got)
	}
	if got := mt.Column(clustfmt.ColTrueK).([]float64)[0]; got != 2 {
		t.Errorf("true_k = %v, want 2", got)
	}
	if got := mt.Column(clustfmt.ColHasNoise).([]bool)[0]; !got {
		t.Errorf("has_noise = false, want true")
	}

	if h.Methods.Len() != 1 {
		t.Fatalf("got %d method rows, want 1", h.Methods.Len())
	}
	mm := h.Methods.Table()
	// perf.json seconds override the text table.
	if got := mm.Column(clustfmt.ColTime).([]float64)[0]; got != 1.75 {
		t.Errorf("execution time = %v, want 1.75", got)
	}
	if got := mm.Column(clustfmt.ColThreads).([]float64)[0]; got != 4 {
		t.Errorf("threads = %v, want 4", got)
	}
	if got := mm.Column(clustfmt.ColPeakRSS).([]float64)[0]; got != 2048 {
		t.Errorf("peak rss = %v, want 2048", got)
	}
	if got := mm.Column(clustfmt.ColDiskRead).([]float64)[0]; !math.IsNaN(got) {
		t.Errorf("disk read = %v, want NaN", got)
	}
}

// One method run scored with two metrics yields two metric rows but a
// single method row.
func TestRunDedupsMethodRows(t *testing.T) {
	root := t.TempDir()
	run := filepath.Join(root, "out_python-1")
	ds := filepath.Join(run, "dataset_generator-fcps_dataset_name-atom")
	methodDir := filepath.Join(ds, "method-kmeans")
	mustMkdir(t, methodDir)
	writeGzip(t, filepath.Join(ds, "clustbench.labels.gz"), "1\n2\n")
	for _, metric := range []string{"ari", "nmi"} {
		dir := filepath.Join(methodDir, "metric-"+metric)
		mustMkdir(t, dir)
		writeGzip(t, filepath.Join(dir, "clustbench.scores.gz"), "k=2\n0.5\n")
	}

	h, err := Run(run)
	if err != nil {
		t.Fatal(err)
	}
	if h.Metrics.Len() != 2 {
		t.Errorf("got %d metric rows, want 2", h.Metrics.Len())
	}
	if h.Methods.Len() != 1 {
		t.Errorf("got %d method rows, want 1", h.Methods.Len())
	}
}

// A scores file without the true_k column is flagged, as is an empty
// one.
func TestRunAnomalies(t *testing.T) {
	root := t.TempDir()
	run := filepath.Join(root, "out_python-1")
	ds := filepath.Join(run, "dataset_generator-fcps_dataset_name-atom")
	mustMkdir(t, ds)
	writeGzip(t, filepath.Join(ds, "clustbench.labels.gz"), "1\n2\n3\n")

	missing := filepath.Join(ds, "method-a", "metric-ari")
	mustMkdir(t, missing)
	writeGzip(t, filepath.Join(missing, "clustbench.scores.gz"), "k=2\n0.5\n")

	empty := filepath.Join(ds, "method-b", "metric-ari")
	mustMkdir(t, empty)
	writeGzip(t, filepath.Join(empty, "clustbench.scores.gz"), "k=2\n")

	h, err := Run(run)
	if err != nil {
		t.Fatal(err)
	}
	if h.Metrics.Len() != 2 {
		t.Fatalf("got %d metric rows, want 2", h.Metrics.Len())
	}
	mt := h.Metrics.Table()
	methods := mt.Column(clustfmt.ColMethod).([]string)
	missingFlags := mt.Column(clustfmt.ColMissingTrueK).([]bool)
	emptyFlags := mt.Column(clustfmt.ColEmptyFile).([]bool)
	scores := mt.Column(clustfmt.ColScore).([]float64)
	for i, m := range methods {
		if !math.IsNaN(scores[i]) {
			t.Errorf("method %s: score = %v, want NaN", m, scores[i])
		}
		switch m {
		case "a":
			if !missingFlags[i] || emptyFlags[i] {
				t.Errorf("method a: missing=%v empty=%v, want true false",
					missingFlags[i], emptyFlags[i])
			}
		case "b":
			// Empty files report only empty_file; the flags are
			// mutually exclusive.
			if !emptyFlags[i] || missingFlags[i] {
				t.Errorf("method b: empty=%v missing=%v, want true false",
					emptyFlags[i], missingFlags[i])
			}
		}
	}
}

func mustMkdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0777); err != nil {
		t.Fatal(err)
	}
}

func mustWrite(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0666); err != nil {
		t.Fatal(err)
	}
}

func writeGzip(t *testing.T, path, data string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(data)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}
