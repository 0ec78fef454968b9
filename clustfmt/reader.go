// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clustfmt

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
)

// A SyntaxError represents a malformed header or cell in a results file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// ReadCSV reads a results table of the given kind from r. name is used
// for error messages only.
//
// The first record is the header. Key and measure columns of the kind's
// schema must be present; other schema columns may be omitted. Columns not
// in the schema are read as categorical. Empty numeric cells (and "NaN")
// become NaN, so missing measurements never fail the read; empty boolean
// cells become false.
func ReadCSV(r io.Reader, name string, kind Kind) (*ResultTable, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, &SyntaxError{name, 1, "empty results file"}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	types, required := kind.schema()
	have := make(map[string]bool, len(header))
	for _, col := range header {
		have[col] = true
	}
	for _, col := range required {
		if !have[col] {
			return nil, &SyntaxError{name, 1, fmt.Sprintf("missing required column %q", col)}
		}
	}

	// One buffer per column, typed by the schema.
	bufs := make([]colBuf, len(header))
	for i, col := range header {
		typ, ok := types[col]
		if !ok {
			typ = catCol
		}
		bufs[i] = colBuf{name: col, typ: typ}
		if typ == catCol {
			bufs[i].levels = new(Levels)
		}
	}

	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		line++
		for i := range bufs {
			if err := bufs[i].append(rec[i]); err != nil {
				return nil, &SyntaxError{name, line, fmt.Sprintf("column %q: %s", bufs[i].name, err)}
			}
		}
	}

	b := new(table.Builder)
	levels := make(map[string]*Levels)
	for i := range bufs {
		buf := &bufs[i]
		switch buf.typ {
		case catCol:
			b.Add(buf.name, buf.strs)
			levels[buf.name] = buf.levels
		case numCol:
			b.Add(buf.name, buf.nums)
		case boolCol:
			b.Add(buf.name, buf.bools)
		}
	}
	return &ResultTable{kind, b.Done(), levels}, nil
}

// A colBuf accumulates one column of a results file.
type colBuf struct {
	name   string
	typ    colType
	strs   []string
	nums   []float64
	bools  []bool
	levels *Levels
}

func (b *colBuf) append(cell string) error {
	switch b.typ {
	case catCol:
		b.strs = append(b.strs, b.levels.Intern(cell))
	case numCol:
		v, err := parseNum(cell)
		if err != nil {
			return err
		}
		b.nums = append(b.nums, v)
	case boolCol:
		v, err := parseBool(cell)
		if err != nil {
			return err
		}
		b.bools = append(b.bools, v)
	}
	return nil
}

func parseNum(cell string) (float64, error) {
	if cell == "" || strings.EqualFold(cell, "nan") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

func parseBool(cell string) (bool, error) {
	if cell == "" {
		return false, nil
	}
	// The collector that produced historical files wrote Python-style
	// True/False, so parse case-insensitively.
	return strconv.ParseBool(strings.ToLower(cell))
}

// maybeGzip wraps r in a gzip reader if path names a gzipped file.
func maybeGzip(r io.Reader, path string) (io.Reader, func() error, error) {
	if !strings.HasSuffix(path, ".gz") {
		return r, func() error { return nil }, nil
	}
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return zr, zr.Close, nil
}
