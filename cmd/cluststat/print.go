// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/aclements/go-gg/table"
)

// printTable writes one analysis table in the format selected by
// -csv. NaN cells print empty.
func printTable(w io.Writer, title string, t *table.Table) {
	if *flagCSV {
		printCSV(w, t)
		return
	}
	fmt.Fprintf(w, "%s\n", title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	cols := t.Columns()
	for i, name := range cols {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, name)
	}
	fmt.Fprint(tw, "\n")
	for i := 0; i < t.Len(); i++ {
		for j, name := range cols {
			if j > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, formatCell(t.Column(name), i, false))
		}
		fmt.Fprint(tw, "\n")
	}
	tw.Flush()
	fmt.Fprint(w, "\n")
}

func printCSV(w io.Writer, t *table.Table) {
	cw := csv.NewWriter(w)
	cols := t.Columns()
	cw.Write(cols)
	row := make([]string, len(cols))
	for i := 0; i < t.Len(); i++ {
		for j, name := range cols {
			row[j] = formatCell(t.Column(name), i, true)
		}
		cw.Write(row)
	}
	cw.Flush()
	fmt.Fprint(w, "\n")
}

// formatCell formats one cell. Exact float formatting is used for CSV
// so the output parses back to the same value; text output rounds for
// alignment.
func formatCell(col table.Slice, i int, exact bool) string {
	switch col := col.(type) {
	case []string:
		return col[i]
	case []float64:
		if math.IsNaN(col[i]) {
			return ""
		}
		if exact {
			return strconv.FormatFloat(col[i], 'g', -1, 64)
		}
		return strconv.FormatFloat(col[i], 'g', 6, 64)
	case []int:
		return strconv.Itoa(col[i])
	case []bool:
		return strconv.FormatBool(col[i])
	}
	return ""
}
