// SPDX-License-Identifier: MIT

package report

import (
	"errors"
	"fmt"
	"html/template"
	"math"

	"github.com/katalvlaran/syntenyqc/bfs"
	"github.com/katalvlaran/syntenyqc/core"
	"github.com/katalvlaran/syntenyqc/prune"
)

// ErrNilInput is returned when the graph or the pruning result is nil.
var ErrNilInput = errors.New("report: nil graph or pruning result")

type graphNode struct {
	ID      string
	X, Y    float64
	LX, LY  float64
	Anchor  string
	Removed bool
	// Step is the 1-based removal step, 0 for survivors.
	Step int
}

type graphEdge struct {
	A, B           string
	X1, Y1, X2, Y2 float64
	Weight         float64
	Width          float64
	Violation      bool
}

type graphPage struct {
	Size        int
	Filter      float64
	MinEdgeView float64
	Nodes       []graphNode
	Edges       []graphEdge
	Hidden      int
	Total       int
	Kept        []string
	Removed     []string
	// Clusters are components of two or more records joined by violation edges.
	Clusters [][]string
}

// buildGraphPage lays nodes out on a circle in sorted ID order.
func buildGraphPage(g *core.Graph, pruned *prune.PrunedGraph, filter, minEdgeView float64, size int) (*graphPage, error) {
	if g == nil || pruned == nil {
		return nil, ErrNilInput
	}
	ids := g.Vertices()
	step := make(map[string]int, len(pruned.Removed))
	for i, id := range pruned.Removed {
		step[id] = i + 1
	}

	c := float64(size) / 2
	r := c - 90
	pos := make(map[string][2]float64, len(ids))
	page := &graphPage{
		Size:        size,
		Filter:      filter,
		MinEdgeView: minEdgeView,
		Total:       len(ids),
		Kept:        pruned.Nodes,
		Removed:     pruned.Removed,
	}
	for i, id := range ids {
		x, y := c, c
		theta := 2*math.Pi*float64(i)/float64(len(ids)) - math.Pi/2
		if len(ids) > 1 {
			x, y = c+r*math.Cos(theta), c+r*math.Sin(theta)
		}
		pos[id] = [2]float64{x, y}
		anchor := "start"
		if math.Cos(theta) < -1e-9 {
			anchor = "end"
		}
		page.Nodes = append(page.Nodes, graphNode{
			ID:      id,
			X:       x,
			Y:       y,
			LX:      c + (r+18)*math.Cos(theta),
			LY:      c + (r+18)*math.Sin(theta) + 4,
			Anchor:  anchor,
			Removed: step[id] > 0,
			Step:    step[id],
		})
	}

	for _, e := range g.Edges() {
		if e.From == e.To {
			continue
		}
		if e.Weight < minEdgeView {
			page.Hidden++
			continue
		}
		a, b := pos[e.From], pos[e.To]
		page.Edges = append(page.Edges, graphEdge{
			A: e.From, B: e.To,
			X1: a[0], Y1: a[1], X2: b[0], Y2: b[1],
			Weight:    e.Weight,
			Width:     0.5 + 3.5*e.Weight/100,
			Violation: e.Weight >= filter,
		})
	}

	clusters, err := bfs.Clusters(g, filter)
	if err != nil {
		return nil, fmt.Errorf("report: clusters: %w", err)
	}
	page.Clusters = clusters

	return page, nil
}

var graphTmpl = template.Must(template.New("graph").Funcs(template.FuncMap{
	"f1": func(v float64) string { return fmt.Sprintf("%.1f", v) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>RBH graph</title>
<style>
body { font-family: sans-serif; margin: 2em; }
line.edge { stroke: #9a9a9a; }
line.violation { stroke: #d62728; }
circle.kept { fill: #2ca02c; }
circle.removed { fill: #bbbbbb; stroke: #555555; }
text { font-size: 11px; }
table { border-collapse: collapse; }
td, th { padding: 2px 8px; text-align: left; }
</style>
</head>
<body>
<h1>RBH graph of {{.Total}} neighbourhoods</h1>
<table>
<tr><th>Similarity filter</th><td>{{f1 .Filter}}%</td></tr>
<tr><th>Minimum edge shown</th><td>{{f1 .MinEdgeView}}%</td></tr>
<tr><th>Kept</th><td>{{len .Kept}}</td></tr>
<tr><th>Removed</th><td>{{len .Removed}}</td></tr>
<tr><th>Near-duplicate clusters</th><td>{{len .Clusters}}</td></tr>
<tr><th>Hidden edges</th><td>{{.Hidden}}</td></tr>
</table>
<svg xmlns="http://www.w3.org/2000/svg" width="{{.Size}}" height="{{.Size}}" viewBox="0 0 {{.Size}} {{.Size}}">
{{- range .Edges}}
<line class="edge{{if .Violation}} violation{{end}}" x1="{{f1 .X1}}" y1="{{f1 .Y1}}" x2="{{f1 .X2}}" y2="{{f1 .Y2}}" stroke-width="{{f1 .Width}}"><title>{{.A}} – {{.B}}: {{f1 .Weight}}%</title></line>
{{- end}}
{{- range .Nodes}}
<circle class="{{if .Removed}}removed{{else}}kept{{end}}" cx="{{f1 .X}}" cy="{{f1 .Y}}" r="7"><title>{{.ID}}{{if .Removed}} (removed at step {{.Step}}){{end}}</title></circle>
<text x="{{f1 .LX}}" y="{{f1 .LY}}" text-anchor="{{.Anchor}}">{{.ID}}</text>
{{- end}}
</svg>
{{- if .Removed}}
<h2>Removal order</h2>
<ol>{{range .Removed}}<li>{{.}}</li>{{end}}</ol>
{{- end}}
{{- if .Clusters}}
<h2>Clusters at or above the filter</h2>
<ul>{{range .Clusters}}<li>{{range $i, $id := .}}{{if $i}}, {{end}}{{$id}}{{end}}</li>{{end}}</ul>
{{- end}}
</body>
</html>
`))
