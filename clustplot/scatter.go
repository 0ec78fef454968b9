// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clustplot renders backend-comparison charts from clustana
// tables. It draws with gonum.org/v1/plot; styling is deliberately
// minimal.
package clustplot

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/clustbench/clustperf/clustana"
)

// PairScatter builds a scatter plot of the paired measurements of one
// backend pair, with a y=x reference line. Pairs where either
// measurement is missing are not plotted.
func PairScatter(p clustana.Pair, title string) (*plot.Plot, error) {
	xs := p.Table.MustColumn(p.ACol).([]float64)
	ys := p.Table.MustColumn(p.BCol).([]float64)

	pts := make(plotter.XYs, 0, len(xs))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
		lo = math.Min(lo, math.Min(xs[i], ys[i]))
		hi = math.Max(hi, math.Max(xs[i], ys[i]))
	}

	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = p.A
	pl.Y.Label.Text = p.B

	grid := plotter.NewGrid()
	grid.Vertical.Color = color.Gray{0xdd}
	grid.Horizontal.Color = color.Gray{0xdd}
	pl.Add(grid)

	if len(pts) > 0 {
		ident, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
		if err != nil {
			return nil, err
		}
		ident.Color = color.Gray{0x99}
		ident.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		pl.Add(ident)

		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Radius = vg.Points(2)
		pl.Add(sc)
	}
	return pl, nil
}

// WritePNGs renders one scatter per pair into dir, one PNG per backend
// pair, named "<measure>-<A>-vs-<B>.png".
func WritePNGs(pairs []clustana.Pair, dir, measure string) error {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}
	for _, p := range pairs {
		pl, err := PairScatter(p, fmt.Sprintf("%s: %s vs %s", measure, p.A, p.B))
		if err != nil {
			return err
		}
		name := fmt.Sprintf("%s-%s-vs-%s.png", sanitize(measure), sanitize(p.A), sanitize(p.B))
		if err := writePNG(pl, filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// WritePNG renders pl as a 16x16cm PNG to w.
func WritePNG(pl *plot.Plot, w io.Writer) error {
	can := vgimg.PngCanvas{Canvas: vgimg.NewWith(
		vgimg.UseWH(16*vg.Centimeter, 16*vg.Centimeter),
		vgimg.UseBackgroundColor(color.White),
	)}
	pl.Draw(draw.New(can))
	_, err := can.WriteTo(w)
	return err
}

func writePNG(pl *plot.Plot, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WritePNG(pl, f)
}

func sanitize(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "/", "-per-"), " ", "_")
}
