// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clustfmt

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"
)

// A NotFoundError reports that no usable results file exists at a path or
// within a searched directory.
type NotFoundError struct {
	// Path is the file or directory that was searched.
	Path string

	// Pattern is the file naming pattern that had no match. It is ""
	// when Path itself does not exist.
	Pattern string
}

func (e *NotFoundError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("no file matching %s in %s", e.Pattern, e.Path)
	}
	return fmt.Sprintf("results file %s does not exist", e.Path)
}

var filePatterns = map[Kind]*regexp.Regexp{
	MethodLevel: regexp.MustCompile(`^clustbench_method_performance.*\.csv(\.gz)?$`),
	MetricLevel: regexp.MustCompile(`^clustbench_metric_performance.*\.csv(\.gz)?$`),
}

// FindLatest returns the path of the most recently modified file in dir
// that matches kind's naming pattern. When several files share the newest
// modification time the choice among them is arbitrary. It returns a
// *NotFoundError if no file matches.
func FindLatest(dir string, kind Kind) (string, error) {
	pat := filePatterns[kind]
	ents, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var (
		best     string
		bestTime time.Time
	)
	for _, ent := range ents {
		if ent.IsDir() || !pat.MatchString(ent.Name()) {
			continue
		}
		info, err := ent.Info()
		if err != nil {
			return "", err
		}
		if best == "" || info.ModTime().After(bestTime) {
			best, bestTime = ent.Name(), info.ModTime()
		}
	}
	if best == "" {
		return "", &NotFoundError{dir, pat.String()}
	}
	return filepath.Join(dir, best), nil
}

// Load reads a results table of the given kind from path. If path is a
// directory, the most recent matching file in it is chosen with
// FindLatest; otherwise path names the file directly. It returns a
// *NotFoundError if path does not exist or a directory holds no matching
// file.
func Load(path string, kind Kind) (*ResultTable, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{Path: path}
	}
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		path, err = FindLatest(path, kind)
		if err != nil {
			return nil, err
		}
	}
	log.Info().Str("file", path).Stringer("kind", kind).Msg("reading results file")
	return readPath(path, kind)
}

// ReadFile reads a results file, inferring its kind from the file name.
func ReadFile(path string) (*ResultTable, error) {
	for kind, pat := range filePatterns {
		if pat.MatchString(filepath.Base(path)) {
			return Load(path, kind)
		}
	}
	return nil, fmt.Errorf("%s: cannot infer result kind from file name", path)
}

func readPath(path string, kind Kind) (*ResultTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, err
	}
	defer f.Close()
	r, closez, err := maybeGzip(f, path)
	if err != nil {
		return nil, err
	}
	rt, err := ReadCSV(r, path, kind)
	if cerr := closez(); err == nil && cerr != nil {
		return nil, cerr
	}
	return rt, err
}
