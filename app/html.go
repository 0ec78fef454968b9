// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"html/template"
	"math"
	"net/http"
	"strconv"

	"github.com/aclements/go-gg/table"
)

// An htmlTable is a rendered analysis table passed to the page
// templates.
type htmlTable struct {
	Title   string
	Columns []string
	Rows    [][]string
	// Img, if nonempty, is the URL of a chart shown under the table.
	Img string
}

// toHTMLTable formats t for display. NaN cells render empty, matching
// the CSV writer.
func toHTMLTable(title string, t *table.Table) htmlTable {
	ht := htmlTable{Title: title, Columns: t.Columns()}
	for i := 0; i < t.Len(); i++ {
		row := make([]string, 0, len(ht.Columns))
		for _, name := range ht.Columns {
			row = append(row, formatCell(t.Column(name), i))
		}
		ht.Rows = append(ht.Rows, row)
	}
	return ht
}

func formatCell(col table.Slice, i int) string {
	switch col := col.(type) {
	case []string:
		return col[i]
	case []float64:
		if math.IsNaN(col[i]) {
			return ""
		}
		return strconv.FormatFloat(col[i], 'g', 6, 64)
	case []int:
		return strconv.Itoa(col[i])
	case []bool:
		return strconv.FormatBool(col[i])
	}
	return ""
}

// pageData is the struct passed to the analysis page templates.
type pageData struct {
	Title  string
	Error  string
	Tables []htmlTable
}

func renderPage(w http.ResponseWriter, t *template.Template, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.Execute(w, data); err != nil {
		http.Error(w, err.Error(), 500)
	}
}

const pageBody = `
{{define "head"}}<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 1em 2em; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #ccc; padding: 2px 8px; text-align: right; }
th { background: #eee; }
td:first-child, th:first-child { text-align: left; }
.error { color: #a00; }
</style>
</head>
<body>
<p><a href="/">results</a> | <a href="/compare">compare</a> | <a href="/consistency">consistency</a> | <a href="/seeds">seeds</a></p>
<h1>{{.Title}}</h1>{{end}}
{{define "foot"}}</body></html>{{end}}`

var pageTemplate = template.Must(template.New("page").Parse(pageBody + `
{{template "head" .}}
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{range .Tables}}
<h2>{{.Title}}</h2>
<table>
<tr>{{range .Columns}}<th>{{.}}{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}{{end}}</tr>
{{end}}</table>
{{if .Img}}<p><img src="{{.Img}}" width="480"></p>{{end}}
{{end}}
{{template "foot" .}}`))

var indexTemplate = template.Must(template.New("index").Parse(pageBody + `
{{template "head" $}}
{{if not .Kinds}}<p class="error">no results loaded</p>{{end}}
{{range .Kinds}}
<h2>{{.Name}}</h2>
<p>{{.Rows}} rows; backends: {{range $i, $b := .Backends}}{{if $i}}, {{end}}{{$b}}{{end}}</p>
{{end}}
{{template "foot" $}}`))

// Title satisfies the "head" template for indexData.
func (*indexData) Title() string { return "clustering benchmark results" }
