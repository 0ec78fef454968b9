// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package harvest

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	runDirRe  = regexp.MustCompile(`^out_([^-]+)-(\d+)$`)
	datasetRe = regexp.MustCompile(`dataset_generator-(\w+)_dataset_name-(\w+)`)
	methodRe  = regexp.MustCompile(`method-([A-Za-z0-9]+)(?:_seed-(\d+))?`)
	metricRe  = regexp.MustCompile(`metric-(\w+)`)
)

// linkageParents are the clustering libraries whose runs are laid out as
// <library>/linkage-<l> instead of a method- directory. Such runs get the
// combined method name "<library>_linkage-<l>".
var linkageParents = map[string]bool{
	"agglomerative": true,
	"fastcluster":   true,
	"sklearn":       true,
}

// ExtractBackendTimestamp parses a run directory name of the form
// out_<backend>-<timestamp>. ok is false if dir is not a run directory.
func ExtractBackendTimestamp(dir string) (backend, timestamp string, ok bool) {
	m := runDirRe.FindStringSubmatch(filepath.Base(filepath.Clean(dir)))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// params mirrors the parameters.json files the benchmark writes next to
// its outputs. Fields it doesn't carry unmarshal to zero values.
type params struct {
	DatasetGenerator string  `json:"dataset_generator"`
	DatasetName      string  `json:"dataset_name"`
	Method           string  `json:"method"`
	Metric           string  `json:"metric"`
	Seed             *int    `json:"seed"`
	Linkage          string  `json:"linkage"`
	TrueK            float64 `json:"true_k"`
}

// readParams reads dir/parameters.json, returning nil if the file is
// absent or malformed. Malformed parameter files are tolerated because
// the same information is usually recoverable from the path.
func readParams(dir string) *params {
	data, err := os.ReadFile(filepath.Join(dir, "parameters.json"))
	if err != nil {
		return nil
	}
	var p params
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	return &p
}

// datasetInfo extracts the dataset generator and name for a scores file,
// first from the dataset_generator-X_dataset_name-Y path segment, then
// from parameters.json files walking up the tree.
func datasetInfo(path string) (gen, name string) {
	if m := datasetRe.FindStringSubmatch(path); m != nil {
		return m[1], m[2]
	}
	for dir := filepath.Dir(path); ; {
		if p := readParams(dir); p != nil && (p.DatasetGenerator != "" || p.DatasetName != "") {
			return p.DatasetGenerator, p.DatasetName
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ""
		}
		dir = parent
	}
}

// methodInfo extracts the method name and seed for a scores file. The
// seed is NaN if the run was unseeded. Methods appear in the path as
// method-<name>[_seed-<seed>], or as <library>/linkage-<l> for linkage
// clustering, or in a parameters.json on the way up.
func methodInfo(path string) (method string, seed float64) {
	seed = math.NaN()
	if m := methodRe.FindStringSubmatch(path); m != nil {
		if m[2] != "" {
			if v, err := strconv.Atoi(m[2]); err == nil {
				seed = float64(v)
			}
		}
		return m[1], seed
	}

	parts := strings.Split(filepath.Clean(path), string(filepath.Separator))
	for i, part := range parts {
		if strings.HasPrefix(part, "linkage-") && i > 0 && linkageParents[parts[i-1]] {
			return parts[i-1] + "_" + part, seed
		}
	}

	for dir := filepath.Dir(path); ; {
		if p := readParams(dir); p != nil && p.Method != "" {
			if p.Seed != nil {
				seed = float64(*p.Seed)
			}
			return p.Method, seed
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", seed
		}
		dir = parent
	}
}

// metricInfo extracts the metric name for a scores file from the
// metric-<m> path segment or an adjacent parameters.json.
func metricInfo(path string) string {
	if m := metricRe.FindStringSubmatch(path); m != nil {
		return m[1]
	}
	if p := readParams(filepath.Dir(path)); p != nil {
		return p.Metric
	}
	return ""
}
