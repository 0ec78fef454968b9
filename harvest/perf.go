// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package harvest

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// perfData holds the resource measurements of one method run. Fields
// not reported by the run are NaN.
type perfData struct {
	execTime  float64
	threads   float64
	peakRSS   float64
	diskRead  float64
	diskWrite float64
	avgCPU    float64
}

func newPerfData() perfData {
	nan := math.NaN()
	return perfData{nan, nan, nan, nan, nan, nan}
}

// findMethodDir locates the method directory for a scores file by
// walking up from filepath.Dir(path) to the nearest method- or
// linkage- segment. It falls back to three directories up, which is
// where the method directory sits relative to a
// metrics/partition_metrics/metric-<m> subtree.
func findMethodDir(path string) string {
	dir := filepath.Dir(path)
	for d, n := dir, 0; n < 10; n++ {
		base := filepath.Base(d)
		if strings.HasPrefix(base, "method-") || strings.HasPrefix(base, "linkage-") {
			return d
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	return filepath.Dir(filepath.Dir(filepath.Dir(dir)))
}

// readPerformance collects the resource measurements recorded in a
// method directory: the wall-clock seconds from
// clustbench_performance.txt and, when present, the extended counters
// from perf.json.
func readPerformance(methodDir string) perfData {
	p := newPerfData()
	if secs, ok := readPerformanceTxt(filepath.Join(methodDir, "clustbench_performance.txt")); ok {
		p.execTime = secs
	}
	readPerfJSON(filepath.Join(methodDir, "perf.json"), &p)
	return p
}

// readPerformanceTxt parses the tab-separated performance table and
// returns the value of its "s" (seconds) column.
func readPerformanceTxt(path string) (float64, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return 0, false
	}
	sCol := -1
	for i, name := range strings.Split(sc.Text(), "\t") {
		if strings.TrimSpace(name) == "s" {
			sCol = i
			break
		}
	}
	if sCol < 0 || !sc.Scan() {
		return 0, false
	}
	fields := strings.Split(sc.Text(), "\t")
	if sCol >= len(fields) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(fields[sCol]), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// readPerfJSON merges the counters from a perf.json profile into p.
// The seconds recorded there take precedence over the text table.
func readPerfJSON(path string, p *perfData) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var j struct {
		TotalTimeSecs      *float64 `json:"total_time_secs"`
		MaxThreads         *float64 `json:"max_threads"`
		TotalDiskReadBytes *float64 `json:"total_disk_read_bytes"`
		TotalDiskWrite     *float64 `json:"total_disk_write_bytes"`
		AvgCPUUsage        *float64 `json:"avg_cpu_usage"`
		PeakMemRSSKB       *float64 `json:"peak_mem_rss_kb"`
	}
	if err := json.Unmarshal(data, &j); err != nil {
		return
	}
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.execTime, j.TotalTimeSecs)
	set(&p.threads, j.MaxThreads)
	set(&p.diskRead, j.TotalDiskReadBytes)
	set(&p.diskWrite, j.TotalDiskWrite)
	set(&p.avgCPU, j.AvgCPUUsage)
	set(&p.peakRSS, j.PeakMemRSSKB)
}

// labelsInfo describes the ground-truth labeling of a dataset: the
// number of distinct nonzero labels and whether a noise label (0)
// appears. trueK is NaN when no labels file was found.
type labelsInfo struct {
	trueK    float64
	hasNoise bool
}

// readLabels reads a clustbench.labels.gz file, one integer label per
// line.
func readLabels(path string) (labelsInfo, bool) {
	info := labelsInfo{trueK: math.NaN()}
	f, err := os.Open(path)
	if err != nil {
		return info, false
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		return info, false
	}
	defer zr.Close()

	seen := make(map[int]bool)
	sc := bufio.NewScanner(zr)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		v, err := strconv.Atoi(line)
		if err != nil {
			continue
		}
		if v == 0 {
			info.hasNoise = true
		} else {
			seen[v] = true
		}
	}
	if sc.Err() != nil || len(seen) == 0 {
		return info, false
	}
	info.trueK = float64(len(seen))
	return info, true
}

// datasetLabels locates and reads the labels for the dataset a scores
// file belongs to. It walks up from the scores file to the
// dataset_generator-X_dataset_name-Y directory and reads the
// clustbench.labels.gz stored there.
func datasetLabels(path string) labelsInfo {
	for d := filepath.Dir(path); ; {
		if datasetRe.MatchString(filepath.Base(d)) {
			if info, ok := readLabels(filepath.Join(d, "clustbench.labels.gz")); ok {
				return info
			}
			return labelsInfo{trueK: math.NaN()}
		}
		parent := filepath.Dir(d)
		if parent == d {
			return labelsInfo{trueK: math.NaN()}
		}
		d = parent
	}
}
