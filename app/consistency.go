// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"net/http"

	"github.com/clustbench/clustperf/clustana"
)

// consistency handles /consistency: score spread across repeated runs
// of identical configurations, worst first, plus the per-backend
// consistency rates.
func (a *App) consistency(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	d := &pageData{Title: "score consistency"}
	if a.Metrics == nil {
		d.Error = "no metric-level results loaded"
		renderPage(w, pageTemplate, d)
		return
	}

	cons, err := clustana.Consistency(a.Metrics)
	if err != nil {
		errorf(ctx, "consistency failed: %v", err)
		d.Error = err.Error()
		renderPage(w, pageTemplate, d)
		return
	}
	d.Tables = append(d.Tables, toHTMLTable("per-configuration score spread", cons))

	byBackend, err := clustana.BackendConsistency(a.Metrics)
	if err != nil {
		errorf(ctx, "backend consistency failed: %v", err)
		d.Error = err.Error()
	} else {
		d.Tables = append(d.Tables, toHTMLTable("per-backend consistency", byBackend))
	}
	renderPage(w, pageTemplate, d)
}
