// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/clustbench/clustperf/clustana"
	"github.com/clustbench/clustperf/clustfmt"
	"github.com/clustbench/clustperf/clustplot"
)

// compare handles /compare. With no query it shows every backend pair;
// ?a=X&b=Y restricts it to one pair. ?kind=method switches to
// execution-time comparison.
func (a *App) compare(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	rt := a.resultTable(r)
	d := &pageData{Title: "backend comparison"}
	if rt == nil {
		d.Error = "no results loaded"
		renderPage(w, pageTemplate, d)
		return
	}

	pairs, err := a.backendPairs(r, rt)
	if err != nil {
		errorf(ctx, "comparison failed: %v", err)
		d.Error = err.Error()
		renderPage(w, pageTemplate, d)
		return
	}

	measure := rt.Kind().MeasureCol()
	kind := rt.Kind().String()
	for _, p := range pairs {
		ht := toHTMLTable(fmt.Sprintf("%s: %s vs %s", measure, p.A, p.B), p.Table)
		ht.Img = fmt.Sprintf("/scatter.png?kind=%s&a=%s&b=%s",
			url.QueryEscape(kind), url.QueryEscape(p.A), url.QueryEscape(p.B))
		d.Tables = append(d.Tables, ht)
	}
	renderPage(w, pageTemplate, d)
}

// backendPairs computes the per-key mean comparison tables requested
// by r's a and b parameters, or for all backend pairs if both are
// unset. Supplying only one of the two is an error.
func (a *App) backendPairs(r *http.Request, rt *clustfmt.ResultTable) ([]clustana.Pair, error) {
	var backends []string
	if b1, b2 := r.Form.Get("a"), r.Form.Get("b"); b1 != "" || b2 != "" {
		if b1 == "" || b2 == "" {
			return nil, fmt.Errorf("both a and b backends must be given")
		}
		backends = []string{b1, b2}
	}
	agg := clustana.Aggregate(rt)
	return clustana.BackendPairs(agg, rt.Kind(), backends)
}

// scatter handles /scatter.png, rendering the scatter chart for one
// backend pair.
func (a *App) scatter(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	rt := a.resultTable(r)
	if rt == nil {
		http.Error(w, "no results loaded", 404)
		return
	}
	b1, b2 := r.Form.Get("a"), r.Form.Get("b")
	if b1 == "" || b2 == "" {
		http.Error(w, "missing a or b parameter", 400)
		return
	}

	agg := clustana.Aggregate(rt)
	pairs, err := clustana.BackendPairs(agg, rt.Kind(), []string{b1, b2})
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	measure := rt.Kind().MeasureCol()
	pl, err := clustplot.PairScatter(pairs[0], fmt.Sprintf("%s: %s vs %s", measure, b1, b2))
	if err != nil {
		errorf(ctx, "chart failed: %v", err)
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := clustplot.WritePNG(pl, w); err != nil {
		errorf(ctx, "writing chart: %v", err)
	}
}
