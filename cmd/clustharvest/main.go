// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Clustharvest rebuilds results tables from a raw benchmark output
// tree.
//
// Usage:
//
//	clustharvest [-o dir] tree
//
// Tree is either a single out_<backend>-<timestamp> run directory or a
// directory containing several of them. Clustharvest walks the tree,
// collects the score of every (dataset, method, metric) combination at
// the dataset's true cluster count along with the resource
// measurements of every method run, and writes
// clustbench_method_performance_<timestamp>.csv.gz and
// clustbench_metric_performance_<timestamp>.csv.gz into the output
// directory.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/clustbench/clustperf/clustfmt"
	"github.com/clustbench/clustperf/harvest"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: clustharvest [options] tree\n")
	fmt.Fprintf(os.Stderr, "options:\n")
	flag.PrintDefaults()
	os.Exit(2)
}

var (
	flagOut   = flag.String("o", ".", "write results files into `dir`")
	flagQuiet = flag.Bool("q", false, "log warnings only")
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}
	if *flagQuiet {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	h, err := harvest.Run(flag.Arg(0))
	if err != nil {
		fatalf("%v", err)
	}

	stamp := time.Now().Format("20060102_150405")
	for _, rt := range []*clustfmt.ResultTable{h.Methods, h.Metrics} {
		name := fmt.Sprintf("clustbench_%s_%s.csv.gz", rt.Kind(), stamp)
		path := filepath.Join(*flagOut, name)
		if err := clustfmt.WriteFile(path, rt); err != nil {
			fatalf("%v", err)
		}
		log.Info().Str("file", path).Int("rows", rt.Len()).Msg("wrote results file")
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "clustharvest: %s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
