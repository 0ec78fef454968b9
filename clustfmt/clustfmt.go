// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clustfmt provides a reader and writer for clustering-benchmark
// result files.
//
// A result file is a columnar (CSV, optionally gzipped) dump of
// measurements produced by a clustering-benchmark run tree. There are two
// kinds of files: method-level files carry one execution-time measurement
// per clustering invocation, and metric-level files carry one quality
// score per (invocation, metric) pair. Both kinds identify a workload by
// its canonical key: the dataset generator, dataset name, and method, plus
// the metric for metric-level rows. The backend, seed, and run timestamp
// distinguish repeated measurements of the same workload.
//
// Tables are represented with the go-gg table package so that the
// higher-level clustana package can group, join, and pivot them directly.
// Categorical columns are interned into Levels, the ordered set of
// distinct values observed at load time.
package clustfmt

import "github.com/aclements/go-gg/table"

// Column names of the measurement-row schema.
const (
	ColBackend      = "backend"
	ColGenerator    = "dataset_generator"
	ColDataset      = "dataset_name"
	ColMethod       = "method"
	ColMetric       = "metric"
	ColSeed         = "seed"
	ColRunTimestamp = "run_timestamp"

	ColScore = "score"
	ColTime  = "execution_time_seconds"

	// Secondary resource measures. These are carried through
	// loading and writing but are not used by aggregation.
	ColThreads   = "threads"
	ColPeakRSS   = "peak_rss_kb"
	ColDiskRead  = "disk_read_bytes"
	ColDiskWrite = "disk_write_bytes"
	ColAvgCPU    = "avg_cpu"

	ColTrueK    = "true_k"
	ColHasNoise = "has_noise"

	// Anomaly flags recorded by the harvester for metric-level rows.
	ColDuplicateK   = "duplicate_k_anomaly"
	ColEmptyFile    = "empty_file"
	ColMissingTrueK = "missing_true_k_score"
)

// A Kind identifies which of the two result schemas a table uses.
type Kind int

const (
	// MethodLevel tables have one row per clustering invocation,
	// measuring execution time.
	MethodLevel Kind = iota

	// MetricLevel tables have one row per (invocation, metric) pair,
	// measuring a clustering quality score.
	MetricLevel
)

// String returns the name used for k in file names and logs.
func (k Kind) String() string {
	switch k {
	case MethodLevel:
		return "method_performance"
	case MetricLevel:
		return "metric_performance"
	}
	return "unknown"
}

// KeyCols returns the canonical key columns for kind k, excluding the
// backend. The canonical key identifies one workload independent of
// backend, seed, and repetition.
func (k Kind) KeyCols() []string {
	if k == MetricLevel {
		return []string{ColGenerator, ColDataset, ColMethod, ColMetric}
	}
	return []string{ColGenerator, ColDataset, ColMethod}
}

// MeasureCol returns the primary numeric measure column for kind k.
func (k Kind) MeasureCol() string {
	if k == MetricLevel {
		return ColScore
	}
	return ColTime
}

// colType describes how a schema column is parsed and written.
type colType int

const (
	catCol  colType = iota // categorical string, interned into Levels
	numCol                 // float64; empty cell is NaN
	boolCol                // bool; empty cell is false
)

// schema maps the known columns of each kind to their types. Key and
// measure columns are required; the rest are optional and a file may omit
// them. Unknown columns are read as categorical.
func (k Kind) schema() (types map[string]colType, required []string) {
	types = map[string]colType{
		ColBackend:      catCol,
		ColGenerator:    catCol,
		ColDataset:      catCol,
		ColMethod:       catCol,
		ColSeed:         numCol,
		ColRunTimestamp: catCol,
		ColThreads:      numCol,
		ColPeakRSS:      numCol,
		ColDiskRead:     numCol,
		ColDiskWrite:    numCol,
		ColAvgCPU:       numCol,
		ColTrueK:        numCol,
		ColHasNoise:     boolCol,
	}
	required = []string{ColBackend, ColGenerator, ColDataset, ColMethod, ColRunTimestamp}
	switch k {
	case MethodLevel:
		types[ColTime] = numCol
		required = append(required, ColTime)
	case MetricLevel:
		types[ColMetric] = catCol
		types[ColScore] = numCol
		types[ColDuplicateK] = boolCol
		types[ColEmptyFile] = boolCol
		types[ColMissingTrueK] = boolCol
		required = append(required, ColMetric, ColScore)
	}
	return
}

// A ResultTable is an immutable table of measurement rows of one Kind,
// together with the level sets of its categorical columns.
type ResultTable struct {
	kind   Kind
	tab    *table.Table
	levels map[string]*Levels
}

// NewResultTable constructs a ResultTable from an already-built table.
// Levels for the categorical columns present in tab are discovered in row
// order. This is the constructor used by the harvester and by tests; files
// are read with ReadCSV or Load.
func NewResultTable(kind Kind, tab *table.Table) *ResultTable {
	levels := make(map[string]*Levels)
	for _, col := range tab.Columns() {
		vals, ok := tab.Column(col).([]string)
		if !ok {
			continue
		}
		l := new(Levels)
		for _, v := range vals {
			l.Intern(v)
		}
		levels[col] = l
	}
	return &ResultTable{kind, tab, levels}
}

// Kind returns the schema kind of the table.
func (rt *ResultTable) Kind() Kind { return rt.kind }

// Table returns the underlying go-gg table.
func (rt *ResultTable) Table() *table.Table { return rt.tab }

// Len returns the number of measurement rows.
func (rt *ResultTable) Len() int { return rt.tab.Len() }

// Columns returns the column names in schema order.
func (rt *ResultTable) Columns() []string { return rt.tab.Columns() }

// Levels returns the level set of categorical column col, or nil if col is
// not a categorical column of this table.
func (rt *ResultTable) Levels(col string) *Levels { return rt.levels[col] }
