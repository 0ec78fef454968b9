// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app implements the clustering-benchmark results dashboard.
// Construct an App with loaded result tables and call RegisterOnMux to
// connect it with an HTTP server.
package app

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/context"

	"github.com/clustbench/clustperf/clustfmt"
)

// App manages the dashboard logic. Either table may be nil when the
// corresponding results file was not loaded; pages needing it report
// that instead of rendering.
type App struct {
	Methods *clustfmt.ResultTable
	Metrics *clustfmt.ResultTable
}

// RegisterOnMux registers the app's URLs on mux.
func (a *App) RegisterOnMux(mux *http.ServeMux) {
	mux.HandleFunc("/", a.index)
	mux.HandleFunc("/compare", a.compare)
	mux.HandleFunc("/consistency", a.consistency)
	mux.HandleFunc("/seeds", a.seeds)
	mux.HandleFunc("/scatter.png", a.scatter)
}

func requestContext(r *http.Request) context.Context {
	return r.Context()
}

func errorf(_ context.Context, format string, args ...interface{}) {
	log.Error().Msgf(format, args...)
}

// resultTable returns the loaded table for the kind named by the
// "kind" query parameter, defaulting to metric-level results when
// present.
func (a *App) resultTable(r *http.Request) *clustfmt.ResultTable {
	switch r.Form.Get("kind") {
	case "method", clustfmt.MethodLevel.String():
		return a.Methods
	case "metric", clustfmt.MetricLevel.String():
		return a.Metrics
	}
	if a.Metrics != nil {
		return a.Metrics
	}
	return a.Methods
}

// index handles /. It summarizes what was loaded and links to the
// analysis pages.
func (a *App) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	d := &indexData{}
	if a.Methods != nil {
		d.Kinds = append(d.Kinds, kindInfo{
			Name:     clustfmt.MethodLevel.String(),
			Rows:     a.Methods.Len(),
			Backends: a.Methods.Levels(clustfmt.ColBackend).Values(),
		})
	}
	if a.Metrics != nil {
		d.Kinds = append(d.Kinds, kindInfo{
			Name:     clustfmt.MetricLevel.String(),
			Rows:     a.Metrics.Len(),
			Backends: a.Metrics.Levels(clustfmt.ColBackend).Values(),
		})
	}
	renderPage(w, indexTemplate, d)
}

type indexData struct {
	Kinds []kindInfo
}

type kindInfo struct {
	Name     string
	Rows     int
	Backends []string
}
