// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"net/http"

	"github.com/clustbench/clustperf/clustana"
)

// seeds handles /seeds: variability of the measure across random
// seeds, highest coefficient of variation first.
// ?by_backend=1 keeps backends separate instead of pooling them.
func (a *App) seeds(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	rt := a.resultTable(r)
	d := &pageData{Title: "seed variability"}
	if rt == nil {
		d.Error = "no results loaded"
		renderPage(w, pageTemplate, d)
		return
	}

	byBackend := r.Form.Get("by_backend") != ""
	sv, err := clustana.SeedVariability(rt, byBackend)
	if err != nil {
		errorf(ctx, "seed variability failed: %v", err)
		d.Error = err.Error()
		renderPage(w, pageTemplate, d)
		return
	}
	d.Tables = append(d.Tables, toHTMLTable("per-configuration seed variability", sv))
	d.Tables = append(d.Tables, toHTMLTable("method x dataset mean cv", clustana.SeedCVMatrix(sv)))
	renderPage(w, pageTemplate, d)
}
