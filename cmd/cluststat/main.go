// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Cluststat analyzes clustering-benchmark results tables.
//
// Usage:
//
//	cluststat [-kind kind] [-a backend -b backend] [-csv] [-png dir] [-seeds] [-consistency] path
//
// Path names a results CSV file (optionally gzipped) or a directory;
// given a directory, the most recently modified
// clustbench_<kind>_performance file in it is used.
//
// By default cluststat prints, for every pair of backends, a table of
// the per-configuration mean measure of both backends side by side.
// The -a and -b options restrict the comparison to one backend pair.
//
// The -consistency option adds tables of the score spread across
// repeated runs of identical configurations and of the per-backend
// consistency rate. It requires metric-level results.
//
// The -seeds option adds tables of the measure's variability across
// random seeds for configurations run with more than one seed.
//
// The -png option additionally renders one scatter chart per backend
// pair into the given directory.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/clustbench/clustperf/clustana"
	"github.com/clustbench/clustperf/clustfmt"
	"github.com/clustbench/clustperf/clustplot"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: cluststat [options] path\n")
	fmt.Fprintf(os.Stderr, "options:\n")
	flag.PrintDefaults()
	os.Exit(2)
}

var (
	flagKind        = flag.String("kind", "metric", "analyze `kind` results: metric or method")
	flagA           = flag.String("a", "", "compare only `backend` against -b")
	flagB           = flag.String("b", "", "compare only -a against `backend`")
	flagCSV         = flag.Bool("csv", false, "print tables in CSV form")
	flagPNG         = flag.String("png", "", "write scatter charts into `dir`")
	flagSeeds       = flag.Bool("seeds", false, "analyze variability across random seeds")
	flagConsistency = flag.Bool("consistency", false, "analyze score consistency across repeated runs")
	flagVerbose     = flag.Bool("v", false, "log progress")
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}
	if *flagVerbose {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var kind clustfmt.Kind
	switch *flagKind {
	case "metric":
		kind = clustfmt.MetricLevel
	case "method":
		kind = clustfmt.MethodLevel
	default:
		fmt.Fprintf(os.Stderr, "cluststat: unknown kind %q\n", *flagKind)
		os.Exit(2)
	}

	rt, err := clustfmt.Load(flag.Arg(0), kind)
	if err != nil {
		fatalf("%v", err)
	}

	var backends []string
	if *flagA != "" || *flagB != "" {
		backends = []string{*flagA, *flagB}
	}
	agg := clustana.Aggregate(rt)
	pairs, err := clustana.BackendPairs(agg, kind, backends)
	if err != nil {
		fatalf("%v", err)
	}

	measure := kind.MeasureCol()
	for _, p := range pairs {
		printTable(os.Stdout, fmt.Sprintf("%s: %s vs %s", measure, p.A, p.B), p.Table)
	}

	if *flagConsistency {
		cons, err := clustana.Consistency(rt)
		if err != nil {
			fatalf("%v", err)
		}
		printTable(os.Stdout, "score spread across repeated runs", cons)
		byBackend, err := clustana.BackendConsistency(rt)
		if err != nil {
			fatalf("%v", err)
		}
		printTable(os.Stdout, "per-backend consistency", byBackend)
	}

	if *flagSeeds {
		sv, err := clustana.SeedVariability(rt, false)
		if err != nil {
			fatalf("%v", err)
		}
		printTable(os.Stdout, "variability across seeds", sv)
		printTable(os.Stdout, "method x dataset mean cv", clustana.SeedCVMatrix(sv))
	}

	if *flagPNG != "" {
		if err := clustplot.WritePNGs(pairs, *flagPNG, measure); err != nil {
			fatalf("%v", err)
		}
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "cluststat: %s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
