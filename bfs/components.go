// SPDX-License-Identifier: MIT

package bfs

import (
	"sort"

	"github.com/katalvlaran/syntenyqc/core"
)

// Components partitions the vertices of g into connected components over the
// edges accepted by keep (nil keeps every edge). Each component is sorted and
// components are ordered by their smallest member.
//
// Complexity: O(V + E).
func Components(g *core.Graph, keep EdgeFilter) ([][]string, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	seen := make(map[string]bool, g.VertexCount())
	var out [][]string
	// Vertices are sorted, so each component is discovered from its smallest ID.
	for _, id := range g.Vertices() {
		if seen[id] {
			continue
		}
		res, err := BFS(g, id, WithEdgeFilter(keep))
		if err != nil {
			return nil, err
		}
		comp := append([]string(nil), res.Order...)
		for _, v := range comp {
			seen[v] = true
		}
		sort.Strings(comp)
		out = append(out, comp)
	}

	return out, nil
}

// Clusters returns the components with two or more members joined by edges
// of weight >= min: groups of mutually redundant neighbourhoods.
func Clusters(g *core.Graph, min float64) ([][]string, error) {
	comps, err := Components(g, AtLeast(g, min))
	if err != nil {
		return nil, err
	}
	out := comps[:0]
	for _, c := range comps {
		if len(c) > 1 {
			out = append(out, c)
		}
	}

	return out, nil
}

// AtLeast accepts edges whose weight is >= min.
func AtLeast(g *core.Graph, min float64) EdgeFilter {
	return func(u, v string) bool {
		w, err := g.Weight(u, v)
		return err == nil && w >= min
	}
}
