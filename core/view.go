// SPDX-License-Identifier: MIT

// File: view.go
// Role: Non-mutating graph views (cloning topology, induced subgraphs).
// Determinism:
//   - Preserves vertex and edge IDs; views continue the source edge counter.
// Concurrency:
//   - Read locks on source; result is a fresh graph instance.

package core

import "sync/atomic"

// CloneEmpty returns a graph with the same options and vertices but no edges.
// Vertex Metadata maps are shared, not copied.
// Complexity: O(V).
func (g *Graph) CloneEmpty() *Graph {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	out := NewGraph(g.options()...)
	var id string
	var v *Vertex
	for id, v = range g.vertices {
		out.vertices[id] = &Vertex{ID: v.ID, Metadata: v.Metadata}
		out.adjacency[id] = make(map[string]map[string]struct{})
	}

	return out
}

// Clone returns a deep copy of the topology (vertices, edges, adjacency)
// with the same options and edge IDs. The source is not mutated.
// Complexity: O(V + E).
func (g *Graph) Clone() *Graph {
	return InducedSubgraph(g, nil)
}

// InducedSubgraph returns a new Graph induced by the set keep of vertex IDs:
// the result contains only vertices v where keep[v] is true, and all edges
// whose endpoints are both kept. A nil keep keeps everything.
// The input graph is not mutated.
//
// Complexity: O(V + E). Concurrency: read locks only on source.
func InducedSubgraph(g *Graph, keep map[string]bool) *Graph {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	out := NewGraph(g.options()...)
	kept := func(id string) bool { return keep == nil || keep[id] }

	var id string
	var v *Vertex
	for id, v = range g.vertices {
		if !kept(id) {
			continue
		}
		out.vertices[id] = &Vertex{ID: v.ID, Metadata: v.Metadata}
		out.adjacency[id] = make(map[string]map[string]struct{})
	}

	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	srcNextEdgeID := atomic.LoadUint64(&g.nextEdgeID)
	var eid string
	var e *Edge
	for eid, e = range g.edges {
		if !kept(e.From) || !kept(e.To) {
			continue
		}
		out.edges[eid] = &Edge{ID: eid, From: e.From, To: e.To, Weight: e.Weight}
		link(out, e.From, e.To, eid)
	}
	// Carry over the edge ID counter so future AddEdge() calls cannot collide with copied IDs.
	atomic.StoreUint64(&out.nextEdgeID, srcNextEdgeID)

	return out
}
