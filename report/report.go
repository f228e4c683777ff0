// SPDX-License-Identifier: MIT

// Package report renders the sieve outputs: an HTML view of the RBH graph, an
// HTML page embedding the similarity histogram, and the dense similarity
// matrix as TSV. Pages are self-contained; they load no external assets.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/katalvlaran/syntenyqc/core"
	"github.com/katalvlaran/syntenyqc/matrix"
	"github.com/katalvlaran/syntenyqc/prune"
)

// Output file names inside the results directory.
const (
	GraphFile     = "RBH_graph.html"
	HistogramFile = "RBH_histogram.html"
	MatrixFile    = "RBH_matrix.tsv"
)

// Writer emits report files. The zero value uses the default bin width and
// canvas size.
type Writer struct {
	// BinWidth is the histogram bucket width in percent.
	BinWidth float64
	// Size is the edge length of the square graph canvas in pixels.
	Size int
}

func (w Writer) size() int {
	if w.Size <= 0 {
		return 800
	}

	return w.Size
}

// WriteMatrix writes the symmetric similarity matrix of g as TSV, with 100 on
// the diagonal and 0 for pairs without an RBH edge.
func (w Writer) WriteMatrix(g *core.Graph, path string) error {
	adj, err := matrix.NewAdjacency(g, 100)
	if err != nil {
		return fmt.Errorf("report: matrix: %w", err)
	}
	var buf bytes.Buffer
	if err = adj.WriteTSV(&buf); err != nil {
		return fmt.Errorf("report: matrix: %w", err)
	}

	return writeFile(path, buf.Bytes())
}

// WriteGraph renders g with pruned's survivors and removals marked.
// Edges below minEdgeView are hidden; edges at or above filter are drawn as
// violations.
func (w Writer) WriteGraph(g *core.Graph, pruned *prune.PrunedGraph, path string, filter, minEdgeView float64) error {
	page, err := buildGraphPage(g, pruned, filter, minEdgeView, w.size())
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err = graphTmpl.Execute(&buf, page); err != nil {
		return fmt.Errorf("report: graph template: %w", err)
	}

	return writeFile(path, buf.Bytes())
}

// WriteHistogram renders the distribution of edge weights in g.
func (w Writer) WriteHistogram(g *core.Graph, path string) error {
	page, err := buildHistogramPage(g, w.BinWidth)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err = histTmpl.Execute(&buf, page); err != nil {
		return fmt.Errorf("report: histogram template: %w", err)
	}

	return writeFile(path, buf.Bytes())
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	return nil
}
