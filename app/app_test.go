// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clustbench/clustperf/clustfmt"
)

const testCSV = "backend,dataset_generator,dataset_name,method,metric,seed,run_timestamp,score\n" +
	"py,fcps,atom,kmeans,ari,1,100,0.5\n" +
	"py,fcps,atom,kmeans,ari,2,100,0.7\n" +
	"rs,fcps,atom,kmeans,ari,1,100,0.6\n" +
	"rs,fcps,atom,kmeans,ari,2,100,0.6\n"

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	rt, err := clustfmt.ReadCSV(strings.NewReader(testCSV), "test.csv", clustfmt.MetricLevel)
	if err != nil {
		t.Fatal(err)
	}
	mux := http.NewServeMux()
	(&App{Metrics: rt}).RegisterOnMux(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func TestIndex(t *testing.T) {
	ts := testServer(t)
	body := get(t, ts.URL+"/")
	for _, want := range []string{"metric_performance", "py", "rs"} {
		if !strings.Contains(body, want) {
			t.Errorf("index page missing %q", want)
		}
	}
}

func TestCompare(t *testing.T) {
	ts := testServer(t)
	body := get(t, ts.URL+"/compare")
	if !strings.Contains(body, "py vs rs") {
		t.Errorf("compare page missing pair heading")
	}
	if !strings.Contains(body, "scatter.png") {
		t.Errorf("compare page missing chart link")
	}
}

func TestCompareHalfPair(t *testing.T) {
	ts := testServer(t)
	body := get(t, ts.URL+"/compare?a=py")
	if !strings.Contains(body, "both a and b backends must be given") {
		t.Errorf("half-specified pair not rejected")
	}
	if strings.Contains(body, "vs") {
		t.Errorf("half-specified pair still rendered comparison tables")
	}
}

func TestCompareSelfPair(t *testing.T) {
	ts := testServer(t)
	body := get(t, ts.URL+"/compare?a=py&b=py")
	if !strings.Contains(body, "duplicate backend") {
		t.Errorf("self-pair not rejected")
	}
}

func TestConsistency(t *testing.T) {
	ts := testServer(t)
	body := get(t, ts.URL+"/consistency")
	if !strings.Contains(body, "score_range") {
		t.Errorf("consistency page missing score_range column")
	}
}

func TestSeeds(t *testing.T) {
	ts := testServer(t)
	body := get(t, ts.URL+"/seeds")
	if !strings.Contains(body, "cv") {
		t.Errorf("seeds page missing cv column")
	}
}

func TestScatterPNG(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/scatter.png?a=py&b=rs")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if len(body) < 8 || string(body[1:4]) != "PNG" {
		t.Errorf("response is not a PNG")
	}
}

func TestMissingKind(t *testing.T) {
	mux := http.NewServeMux()
	(&App{}).RegisterOnMux(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	body := get(t, ts.URL+"/consistency")
	if !strings.Contains(body, "no metric-level results") {
		t.Errorf("missing-results page lacks explanation")
	}
}
