// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package harvest reconstructs measurement tables from the raw output
// tree of a clustering benchmark run.
//
// A benchmark invocation writes its outputs under a directory named
// out_<backend>-<timestamp>. Inside it, each (dataset, method, metric)
// combination has a clustbench.scores.gz file with one score per
// candidate partition size k, and each method directory carries its
// resource measurements. Run walks one or more such trees and produces
// the method-level and metric-level result tables that the analysis
// packages consume.
package harvest

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/clustbench/clustperf/clustfmt"
	"github.com/rs/zerolog/log"
)

// duplicateKEpsilon is the tolerance under which repeated scores for
// the same k are considered equal rather than an anomaly.
const duplicateKEpsilon = 1e-3

// A Harvest holds the two result tables built from a benchmark output
// tree.
type Harvest struct {
	Methods *clustfmt.ResultTable
	Metrics *clustfmt.ResultTable
}

// Run harvests the benchmark output tree rooted at root. Root may be a
// single out_<backend>-<timestamp> run directory or a directory
// containing several of them.
func Run(root string) (*Harvest, error) {
	runs, err := runDirs(root)
	if err != nil {
		return nil, err
	}
	c := &collector{
		seenMethod: make(map[string]bool),
		labels:     make(map[string]labelsInfo),
		perf:       make(map[string]perfData),
	}
	for _, run := range runs {
		if err := c.collectRun(run); err != nil {
			return nil, err
		}
	}
	log.Info().Int("runs", len(runs)).
		Int("method_rows", len(c.methods)).
		Int("metric_rows", len(c.metrics)).
		Msg("harvest complete")
	return c.tables(), nil
}

// runDirs resolves root to the list of run directories it covers.
func runDirs(root string) ([]string, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", root)
	}
	if _, _, ok := ExtractBackendTimestamp(root); ok {
		return []string{root}, nil
	}
	ents, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var runs []string
	for _, ent := range ents {
		if !ent.IsDir() {
			continue
		}
		if _, _, ok := ExtractBackendTimestamp(ent.Name()); ok {
			runs = append(runs, filepath.Join(root, ent.Name()))
		}
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%s: no out_<backend>-<timestamp> run directories", root)
	}
	sort.Strings(runs)
	return runs, nil
}

type methodRow struct {
	backend, timestamp string
	gen, name, method  string
	seed               float64
	perf               perfData
	trueK              float64
	hasNoise           bool
}

type metricRow struct {
	backend, timestamp string
	gen, name, method  string
	metric             string
	seed               float64
	score              float64
	trueK              float64
	hasNoise           bool
	duplicateK         bool
	emptyFile          bool
	missingTrueK       bool
}

type collector struct {
	methods []methodRow
	metrics []metricRow

	// seenMethod dedups method rows: one scores file exists per
	// metric but the method it measures ran once.
	seenMethod map[string]bool
	labels     map[string]labelsInfo
	perf       map[string]perfData
}

// collectRun walks one run directory and records a metric row per
// scores file plus a method row per distinct method invocation.
func (c *collector) collectRun(run string) error {
	backend, timestamp, ok := ExtractBackendTimestamp(run)
	if !ok {
		return fmt.Errorf("%s: not a run directory", run)
	}
	log.Info().Str("backend", backend).Str("timestamp", timestamp).Msg("harvesting run")

	return filepath.WalkDir(run, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != "clustbench.scores.gz" {
			return nil
		}
		c.collectScores(path, backend, timestamp)
		return nil
	})
}

// collectScores records the rows for one clustbench.scores.gz file.
// Files whose dataset, method, or metric cannot be identified are
// skipped with a warning.
func (c *collector) collectScores(path, backend, timestamp string) {
	gen, name := datasetInfo(path)
	method, seed := methodInfo(path)
	metric := metricInfo(path)
	if gen == "" || name == "" || method == "" || metric == "" {
		log.Warn().Str("file", path).Msg("skipping scores file with unidentifiable run")
		return
	}

	dsKey := gen + "/" + name
	labels, ok := c.labels[dsKey]
	if !ok {
		labels = datasetLabels(path)
		c.labels[dsKey] = labels
	}

	scores, empty, dup, err := readScores(path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("skipping unreadable scores file")
		return
	}

	// An empty file is reported as empty only; missing_true_k_score
	// means a non-empty file lacked the k=true_k column.
	score := math.NaN()
	missingTrueK := false
	if !math.IsNaN(labels.trueK) {
		v, found := scores[scoreKey(labels.trueK)]
		if found {
			score = v
		} else if !empty {
			missingTrueK = true
		}
	}

	c.metrics = append(c.metrics, metricRow{
		backend: backend, timestamp: timestamp,
		gen: gen, name: name, method: method, metric: metric,
		seed: seed, score: score,
		trueK: labels.trueK, hasNoise: labels.hasNoise,
		duplicateK: dup, emptyFile: empty, missingTrueK: missingTrueK,
	})

	mKey := strings.Join([]string{backend, timestamp, gen, name, method, fmt.Sprint(seed)}, "\x1f")
	if c.seenMethod[mKey] {
		return
	}
	c.seenMethod[mKey] = true

	methodDir := findMethodDir(path)
	perf, ok := c.perf[methodDir]
	if !ok {
		perf = readPerformance(methodDir)
		c.perf[methodDir] = perf
	}
	c.methods = append(c.methods, methodRow{
		backend: backend, timestamp: timestamp,
		gen: gen, name: name, method: method,
		seed: seed, perf: perf,
		trueK: labels.trueK, hasNoise: labels.hasNoise,
	})
}

func scoreKey(trueK float64) string {
	return "k=" + strconv.Itoa(int(trueK))
}

// readScores parses a gzipped scores CSV. The header names candidate
// partition sizes as k=<n>; the single data row carries one score per
// k. A header repeating a k with values that differ by more than
// duplicateKEpsilon marks the file as anomalous.
func readScores(path string) (scores map[string]float64, empty, duplicateK bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, false, err
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, false, false, fmt.Errorf("%s: %v", path, err)
	}
	defer zr.Close()

	cr := csv.NewReader(zr)
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, false, false, fmt.Errorf("%s: %v", path, err)
	}
	if len(recs) < 2 || len(recs[1]) == 0 {
		return map[string]float64{}, true, false, nil
	}

	header, row := recs[0], recs[1]
	scores = make(map[string]float64)
	for i, k := range header {
		if i >= len(row) {
			break
		}
		k = strings.TrimSpace(k)
		if !strings.HasPrefix(k, "k=") {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			continue
		}
		if prev, ok := scores[k]; ok {
			if math.Abs(prev-v) > duplicateKEpsilon {
				duplicateK = true
			}
			continue
		}
		scores[k] = v
	}
	return scores, false, duplicateK, nil
}

// tables assembles the collected rows into result tables.
func (c *collector) tables() *Harvest {
	return &Harvest{
		Methods: clustfmt.NewResultTable(clustfmt.MethodLevel, c.methodTable()),
		Metrics: clustfmt.NewResultTable(clustfmt.MetricLevel, c.metricTable()),
	}
}

func (c *collector) methodTable() *table.Table {
	n := len(c.methods)
	cols := map[string]interface{}{
		clustfmt.ColBackend:      make([]string, n),
		clustfmt.ColGenerator:    make([]string, n),
		clustfmt.ColDataset:      make([]string, n),
		clustfmt.ColMethod:       make([]string, n),
		clustfmt.ColSeed:         make([]float64, n),
		clustfmt.ColRunTimestamp: make([]string, n),
		clustfmt.ColTime:         make([]float64, n),
		clustfmt.ColThreads:      make([]float64, n),
		clustfmt.ColPeakRSS:      make([]float64, n),
		clustfmt.ColDiskRead:     make([]float64, n),
		clustfmt.ColDiskWrite:    make([]float64, n),
		clustfmt.ColAvgCPU:       make([]float64, n),
		clustfmt.ColTrueK:        make([]float64, n),
		clustfmt.ColHasNoise:     make([]bool, n),
	}
	for i, r := range c.methods {
		cols[clustfmt.ColBackend].([]string)[i] = r.backend
		cols[clustfmt.ColGenerator].([]string)[i] = r.gen
		cols[clustfmt.ColDataset].([]string)[i] = r.name
		cols[clustfmt.ColMethod].([]string)[i] = r.method
		cols[clustfmt.ColSeed].([]float64)[i] = r.seed
		cols[clustfmt.ColRunTimestamp].([]string)[i] = r.timestamp
		cols[clustfmt.ColTime].([]float64)[i] = r.perf.execTime
		cols[clustfmt.ColThreads].([]float64)[i] = r.perf.threads
		cols[clustfmt.ColPeakRSS].([]float64)[i] = r.perf.peakRSS
		cols[clustfmt.ColDiskRead].([]float64)[i] = r.perf.diskRead
		cols[clustfmt.ColDiskWrite].([]float64)[i] = r.perf.diskWrite
		cols[clustfmt.ColAvgCPU].([]float64)[i] = r.perf.avgCPU
		cols[clustfmt.ColTrueK].([]float64)[i] = r.trueK
		cols[clustfmt.ColHasNoise].([]bool)[i] = r.hasNoise
	}
	return buildTable(methodColOrder, cols)
}

func (c *collector) metricTable() *table.Table {
	n := len(c.metrics)
	cols := map[string]interface{}{
		clustfmt.ColBackend:      make([]string, n),
		clustfmt.ColGenerator:    make([]string, n),
		clustfmt.ColDataset:      make([]string, n),
		clustfmt.ColMethod:       make([]string, n),
		clustfmt.ColMetric:       make([]string, n),
		clustfmt.ColSeed:         make([]float64, n),
		clustfmt.ColRunTimestamp: make([]string, n),
		clustfmt.ColScore:        make([]float64, n),
		clustfmt.ColTrueK:        make([]float64, n),
		clustfmt.ColHasNoise:     make([]bool, n),
		clustfmt.ColDuplicateK:   make([]bool, n),
		clustfmt.ColEmptyFile:    make([]bool, n),
		clustfmt.ColMissingTrueK: make([]bool, n),
	}
	for i, r := range c.metrics {
		cols[clustfmt.ColBackend].([]string)[i] = r.backend
		cols[clustfmt.ColGenerator].([]string)[i] = r.gen
		cols[clustfmt.ColDataset].([]string)[i] = r.name
		cols[clustfmt.ColMethod].([]string)[i] = r.method
		cols[clustfmt.ColMetric].([]string)[i] = r.metric
		cols[clustfmt.ColSeed].([]float64)[i] = r.seed
		cols[clustfmt.ColRunTimestamp].([]string)[i] = r.timestamp
		cols[clustfmt.ColScore].([]float64)[i] = r.score
		cols[clustfmt.ColTrueK].([]float64)[i] = r.trueK
		cols[clustfmt.ColHasNoise].([]bool)[i] = r.hasNoise
		cols[clustfmt.ColDuplicateK].([]bool)[i] = r.duplicateK
		cols[clustfmt.ColEmptyFile].([]bool)[i] = r.emptyFile
		cols[clustfmt.ColMissingTrueK].([]bool)[i] = r.missingTrueK
	}
	return buildTable(metricColOrder, cols)
}

var methodColOrder = []string{
	clustfmt.ColBackend, clustfmt.ColGenerator, clustfmt.ColDataset,
	clustfmt.ColMethod, clustfmt.ColSeed, clustfmt.ColRunTimestamp,
	clustfmt.ColTime, clustfmt.ColThreads, clustfmt.ColPeakRSS,
	clustfmt.ColDiskRead, clustfmt.ColDiskWrite, clustfmt.ColAvgCPU,
	clustfmt.ColTrueK, clustfmt.ColHasNoise,
}

var metricColOrder = []string{
	clustfmt.ColBackend, clustfmt.ColGenerator, clustfmt.ColDataset,
	clustfmt.ColMethod, clustfmt.ColMetric, clustfmt.ColSeed,
	clustfmt.ColRunTimestamp, clustfmt.ColScore,
	clustfmt.ColTrueK, clustfmt.ColHasNoise,
	clustfmt.ColDuplicateK, clustfmt.ColEmptyFile, clustfmt.ColMissingTrueK,
}

func buildTable(order []string, cols map[string]interface{}) *table.Table {
	var b table.Builder
	for _, name := range order {
		b.Add(name, cols[name])
	}
	return b.Done()
}
