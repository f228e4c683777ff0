// SPDX-License-Identifier: MIT

package similarity

import (
	"errors"
	"math"

	"github.com/katalvlaran/syntenyqc/core"
)

// ErrBinWidth is returned for a bin width that does not divide (0,100] sensibly.
var ErrBinWidth = errors.New("similarity: bin width must be in (0,100]")

// DefaultBinWidth is the histogram bucket width in percent.
const DefaultBinWidth = 5.0

// Bin counts edges whose weight w satisfies Low < w <= High.
// The first bin also includes w == Low (0).
type Bin struct {
	Low   float64
	High  float64
	Count int
}

// Histogram buckets the edge weights of g into equal-width bins covering [0,100].
// Bins are right-closed so a 100% similarity lands in the last bin.
//
// Complexity: O(E + 100/binWidth).
func Histogram(g *core.Graph, binWidth float64) ([]Bin, error) {
	if math.IsNaN(binWidth) || binWidth <= 0 || binWidth > 100 {
		return nil, ErrBinWidth
	}
	n := int(math.Ceil(100 / binWidth))
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Low = float64(i) * binWidth
		bins[i].High = math.Min(float64(i+1)*binWidth, 100)
	}
	for _, e := range g.Edges() {
		i := int(math.Ceil(e.Weight/binWidth)) - 1
		if i < 0 {
			i = 0
		}
		if i >= n {
			i = n - 1
		}
		bins[i].Count++
	}

	return bins, nil
}

// Summary is a compact description of a similarity graph.
type Summary struct {
	Nodes    int
	Edges    int
	Isolated int
	Min      float64
	Max      float64
	Mean     float64
}

// Summarize computes node/edge counts and weight statistics of g.
// Min/Max/Mean are zero when g has no edges.
func Summarize(g *core.Graph) Summary {
	s := Summary{Nodes: g.VertexCount()}
	edges := g.Edges()
	s.Edges = len(edges)

	for _, id := range g.Vertices() {
		if d, err := g.Degree(id); err == nil && d == 0 {
			s.Isolated++
		}
	}
	if len(edges) == 0 {
		return s
	}
	s.Min, s.Max = math.Inf(1), math.Inf(-1)
	var sum float64
	for _, e := range edges {
		sum += e.Weight
		s.Min = math.Min(s.Min, e.Weight)
		s.Max = math.Max(s.Max, e.Weight)
	}
	s.Mean = sum / float64(len(edges))

	return s
}
