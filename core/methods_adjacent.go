// SPDX-License-Identifier: MIT

// File: methods_adjacent.go
// Role: Neighborhood queries.
//
// Determinism:
//   - NeighborIDs sorted ascending; Neighbors sorted by (other endpoint, edge ID).
package core

import "sort"

// NeighborIDs returns the unique IDs adjacent to id, sorted ascending.
// A self-loop lists id itself once.
//
// Errors:
//   - ErrEmptyVertexID, ErrVertexNotFound.
//
// Complexity: O(d log d).
func (g *Graph) NeighborIDs(id string) ([]string, error) {
	if id == "" {
		return nil, ErrEmptyVertexID
	}
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	if _, ok := g.vertices[id]; !ok {
		return nil, ErrVertexNotFound
	}

	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	out := make([]string, 0, len(g.adjacency[id]))
	var nbr string
	for nbr = range g.adjacency[id] {
		out = append(out, nbr)
	}
	sort.Strings(out)

	return out, nil
}

// Neighbors returns copies of the edges incident to id, sorted by the
// opposite endpoint and then by edge ID. A loop appears once.
//
// Errors:
//   - ErrEmptyVertexID, ErrVertexNotFound.
func (g *Graph) Neighbors(id string) ([]*Edge, error) {
	if id == "" {
		return nil, ErrEmptyVertexID
	}
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	if _, ok := g.vertices[id]; !ok {
		return nil, ErrVertexNotFound
	}

	g.muEdgeAdj.RLock()
	out := make([]*Edge, 0, len(g.adjacency[id]))
	var eid string
	var bucket map[string]struct{}
	for _, bucket = range g.adjacency[id] {
		for eid = range bucket {
			cp := *g.edges[eid]
			out = append(out, &cp)
		}
	}
	g.muEdgeAdj.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		oi, oj := out[i].Other(id), out[j].Other(id)
		if oi != oj {
			return oi < oj
		}

		return edgeSeq(out[i].ID) < edgeSeq(out[j].ID)
	})

	return out, nil
}
