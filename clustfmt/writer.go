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
	"os"
	"strconv"
	"strings"
)

// WriteCSV writes rt to w in the results CSV schema. NaN numeric cells
// are written as empty so that a round trip through ReadCSV preserves
// missing-value semantics.
func WriteCSV(w io.Writer, rt *ResultTable) error {
	cw := csv.NewWriter(w)
	cols := rt.Columns()
	if err := cw.Write(cols); err != nil {
		return err
	}
	rec := make([]string, len(cols))
	for i := 0; i < rt.Len(); i++ {
		for j, col := range cols {
			switch vals := rt.Table().Column(col).(type) {
			case []string:
				rec[j] = vals[i]
			case []float64:
				if math.IsNaN(vals[i]) {
					rec[j] = ""
				} else {
					rec[j] = strconv.FormatFloat(vals[i], 'g', -1, 64)
				}
			case []bool:
				rec[j] = strconv.FormatBool(vals[i])
			case []int:
				rec[j] = strconv.Itoa(vals[i])
			default:
				return fmt.Errorf("column %q has unsupported type %T", col, vals)
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes rt to path, gzipping if path ends in ".gz".
func WriteFile(path string, rt *ResultTable) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	var w io.Writer = f
	if strings.HasSuffix(path, ".gz") {
		zw := gzip.NewWriter(f)
		defer func() {
			if cerr := zw.Close(); err == nil {
				err = cerr
			}
		}()
		w = zw
	}
	return WriteCSV(w, rt)
}
