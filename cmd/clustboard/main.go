// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Clustboard runs an HTTP server for browsing clustering-benchmark
// results.
//
// Usage:
//
//	clustboard [-addr address] [-input dir]
//
// The input directory is searched for the most recent
// clustbench_method_performance and clustbench_metric_performance
// files; each kind is optional, and pages that need a missing kind say
// so instead of rendering.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/clustbench/clustperf/app"
	"github.com/clustbench/clustperf/clustfmt"
)

var (
	addr  = flag.String("addr", "localhost:8080", "serve HTTP on `address`")
	input = flag.String("input", ".", "read results files from `dir`")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage of clustboard:
	clustboard [flags]
`)
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 0 {
		flag.Usage()
	}

	a := &app.App{
		Methods: loadOptional(*input, clustfmt.MethodLevel),
		Metrics: loadOptional(*input, clustfmt.MetricLevel),
	}
	if a.Methods == nil && a.Metrics == nil {
		fmt.Fprintf(os.Stderr, "clustboard: no results files in %s\n", *input)
		os.Exit(1)
	}
	a.RegisterOnMux(http.DefaultServeMux)

	log.Info().Str("addr", *addr).Msg("listening")
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// loadOptional loads the latest results file of the given kind,
// returning nil if the directory holds none.
func loadOptional(dir string, kind clustfmt.Kind) *clustfmt.ResultTable {
	rt, err := clustfmt.Load(dir, kind)
	if err != nil {
		var nf *clustfmt.NotFoundError
		if errors.As(err, &nf) {
			log.Warn().Stringer("kind", kind).Str("dir", dir).Msg("no results file")
			return nil
		}
		log.Fatal().Err(err).Msg("loading results")
	}
	return rt
}
