// SPDX-License-Identifier: MIT

package prune

import (
	"math"
	"sort"

	"github.com/katalvlaran/syntenyqc/core"
	"github.com/katalvlaran/syntenyqc/qcerr"
)

// violations is the working copy of the violation subgraph.
// Only nodes with at least one violation edge are present.
type violations map[string]map[string]float64

// Prune returns the nodes of g that survive greedy removal of violation edges.
//
// Implementation:
//   - Stage 1: Validate filter, collect edges with weight >= filter into a
//     private adjacency map (loops ignored, parallel edges collapse to max).
//   - Stage 2: Compute each node's degree over that map.
//   - Stage 3: Remove the node with the highest degree (ties per TieBreak),
//     recompute its former neighbours' degrees, repeat until the map is empty.
//
// Errors:
//   - ErrGraphNil for a nil graph.
//   - *qcerr.ConfigurationError if filter is NaN or outside (0,100].
//
// Determinism:
//   - Degrees are recomputed from sorted neighbour lists, so float sums never
//     depend on map iteration order.
//
// Complexity:
//   - Time O(R·V + E log E) for R removals, Space O(V + E). g is never mutated.
func Prune(g *core.Graph, filter float64, opts ...Option) (*PrunedGraph, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	if math.IsNaN(filter) || filter <= 0 || filter > 100 {
		return nil, qcerr.NewConfigurationError("--similarity_filter must be between >0 and <=100.")
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	viol := collect(g, filter)
	deg := make(map[string]float64, len(viol))
	for id := range viol {
		deg[id] = degree(viol, id, o.Degree)
	}

	removed := make([]string, 0)
	for len(viol) > 0 {
		victim := pick(deg, o.TieBreak)
		neighbours := sortedKeys(viol[victim])
		for _, n := range neighbours {
			delete(viol[n], victim)
			if len(viol[n]) == 0 {
				delete(viol, n)
				delete(deg, n)
			}
		}
		delete(viol, victim)
		delete(deg, victim)
		for _, n := range neighbours {
			if _, ok := viol[n]; ok {
				deg[n] = degree(viol, n, o.Degree)
			}
		}
		removed = append(removed, victim)
	}

	gone := make(map[string]bool, len(removed))
	for _, id := range removed {
		gone[id] = true
	}
	nodes := make([]string, 0, g.VertexCount()-len(removed))
	for _, id := range g.Vertices() {
		if !gone[id] {
			nodes = append(nodes, id)
		}
	}

	return &PrunedGraph{Raw: g, Nodes: nodes, Removed: removed, Filter: filter}, nil
}

func collect(g *core.Graph, filter float64) violations {
	viol := make(violations)
	add := func(u, v string, w float64) {
		m, ok := viol[u]
		if !ok {
			m = make(map[string]float64)
			viol[u] = m
		}
		if cur, ok := m[v]; !ok || w > cur {
			m[v] = w
		}
	}
	for _, e := range g.Edges() {
		if e.From == e.To || e.Weight < filter {
			continue
		}
		add(e.From, e.To, e.Weight)
		add(e.To, e.From, e.Weight)
	}

	return viol
}

func degree(viol violations, id string, mode DegreeMode) float64 {
	if mode == DegreeCount {
		return float64(len(viol[id]))
	}
	var sum float64
	for _, n := range sortedKeys(viol[id]) {
		sum += viol[id][n]
	}

	return sum
}

// pick returns the node to remove next. deg must be non-empty.
func pick(deg map[string]float64, tb TieBreak) string {
	var best string
	bestDeg := math.Inf(-1)
	first := true
	for id, d := range deg {
		switch {
		case first, d > bestDeg:
			best, bestDeg, first = id, d, false
		case d == bestDeg:
			if (tb == RemoveSmallestID && id < best) || (tb == RemoveLargestID && id > best) {
				best = id
			}
		}
	}

	return best
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
