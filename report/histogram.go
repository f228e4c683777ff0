// SPDX-License-Identifier: MIT

package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/katalvlaran/syntenyqc/core"
	"github.com/katalvlaran/syntenyqc/similarity"
)

const (
	histWidth  = 900
	histHeight = 480
	histMargin = 60
)

type histogramPage struct {
	Nodes   int
	Edges   int
	Summary similarity.Summary
	Bins    []similarity.Bin
	Image   template.URL
}

func buildHistogramPage(g *core.Graph, binWidth float64) (*histogramPage, error) {
	if g == nil {
		return nil, ErrNilInput
	}
	if binWidth == 0 {
		binWidth = similarity.DefaultBinWidth
	}
	bins, err := similarity.Histogram(g, binWidth)
	if err != nil {
		return nil, fmt.Errorf("report: histogram: %w", err)
	}
	png, err := drawHistogram(bins)
	if err != nil {
		return nil, err
	}
	sum := similarity.Summarize(g)

	return &histogramPage{
		Nodes:   sum.Nodes,
		Edges:   sum.Edges,
		Summary: sum,
		Bins:    bins,
		Image:   template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
	}, nil
}

// drawHistogram renders bins as a bar chart PNG.
func drawHistogram(bins []similarity.Bin) ([]byte, error) {
	dc := gg.NewContext(histWidth, histHeight)
	dc.SetColor(color.White)
	dc.Clear()

	maxCount := 0
	for _, b := range bins {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	plotW := float64(histWidth - 2*histMargin)
	plotH := float64(histHeight - 2*histMargin)
	x0, y0 := float64(histMargin), float64(histHeight-histMargin)

	// bars
	barW := plotW / float64(len(bins))
	dc.SetRGB255(31, 119, 180)
	for i, b := range bins {
		if b.Count == 0 {
			continue
		}
		h := plotH * float64(b.Count) / float64(maxCount)
		dc.DrawRectangle(x0+float64(i)*barW+1, y0-h, barW-2, h)
		dc.Fill()
	}

	// axes
	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.DrawLine(x0, y0, x0+plotW, y0)
	dc.DrawLine(x0, y0, x0, y0-plotH)
	dc.Stroke()

	for _, pct := range []float64{0, 25, 50, 75, 100} {
		x := x0 + plotW*pct/100
		dc.DrawLine(x, y0, x, y0+5)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%.0f", pct), x, y0+18, 0.5, 0.5)
	}
	if maxCount > 0 {
		dc.DrawStringAnchored(fmt.Sprintf("%d", maxCount), x0-8, y0-plotH, 1, 0.5)
	} else {
		dc.DrawStringAnchored("no RBH edges", x0+plotW/2, y0-plotH/2, 0.5, 0.5)
	}
	dc.DrawStringAnchored("0", x0-8, y0, 1, 0.5)
	dc.DrawStringAnchored("RBH similarity (%)", x0+plotW/2, y0+40, 0.5, 0.5)
	dc.DrawStringAnchored("neighbourhood pairs", x0, y0-plotH-20, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("report: encode histogram: %w", err)
	}

	return buf.Bytes(), nil
}

var histTmpl = template.Must(template.New("histogram").Funcs(template.FuncMap{
	"f1": func(v float64) string { return fmt.Sprintf("%.1f", v) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>RBH histogram</title>
<style>body { font-family: sans-serif; margin: 2em; } td, th { padding: 2px 8px; text-align: left; }</style>
</head>
<body>
<h1>Distribution of RBH similarities between all {{.Nodes}} neighbourhoods</h1>
<img alt="RBH similarity histogram" src="{{.Image}}">
<table>
<tr><th>RBH edges</th><td>{{.Edges}}</td></tr>
<tr><th>Isolated neighbourhoods</th><td>{{.Summary.Isolated}}</td></tr>
{{- if .Edges}}
<tr><th>Min / mean / max</th><td>{{f1 .Summary.Min}} / {{f1 .Summary.Mean}} / {{f1 .Summary.Max}}</td></tr>
{{- end}}
</table>
<table>
<tr><th>Bin (%)</th><th>Pairs</th></tr>
{{- range .Bins}}
<tr><td>{{f1 .Low}}–{{f1 .High}}</td><td>{{.Count}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))
