// SPDX-License-Identifier: MIT

// File: methods_edges.go
// Role: Edge lifecycle & queries.
//
// Determinism:
//   - Edges() sorted by (From, To, ID); endpoints are canonical (From <= To).
//   - Edge IDs are "e1", "e2", … in insertion order.
//
// Concurrency:
//   - Edge catalog and adjacency protected by muEdgeAdj; vertex
//     auto-creation takes muVert first.
package core

import (
	"math"
	"sort"
	"strconv"
	"sync/atomic"
)

const edgeIDPrefix = "e"

// AddEdge creates an undirected edge u–v with the given weight and returns its ID.
// Missing endpoints are created.
//
// Implementation:
//   - Stage 1: Validate IDs, weight policy and loop policy.
//   - Stage 2: Under muVert, auto-create missing endpoints.
//   - Stage 3: Under muEdgeAdj, enforce the multi-edge policy, allocate an ID,
//     register the edge and mirror it in adjacency.
//
// Errors:
//   - ErrEmptyVertexID, ErrBadWeight, ErrLoopNotAllowed, ErrMultiEdgeNotAllowed.
//
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(u, v string, weight float64) (string, error) {
	if u == "" || v == "" {
		return "", ErrEmptyVertexID
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return "", ErrBadWeight
	}

	g.muVert.Lock()
	defer g.muVert.Unlock()

	if !g.weighted && weight != 0 {
		return "", ErrBadWeight
	}
	if u == v && !g.allowLoops {
		return "", ErrLoopNotAllowed
	}

	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	var id string
	for _, id = range [2]string{u, v} {
		if _, ok := g.vertices[id]; !ok {
			g.vertices[id] = &Vertex{ID: id, Metadata: make(map[string]interface{})}
		}
		ensureAdjacency(g, id)
	}

	if !g.allowMulti && len(g.adjacency[u][v]) > 0 {
		return "", ErrMultiEdgeNotAllowed
	}

	eid := edgeIDPrefix + strconv.FormatUint(atomic.AddUint64(&g.nextEdgeID, 1), 10)
	k := Key(u, v)
	g.edges[eid] = &Edge{ID: eid, From: k.A, To: k.B, Weight: weight}
	link(g, u, v, eid)

	return eid, nil
}

// RemoveEdge deletes the edge with the given ID.
// Errors: ErrEdgeNotFound.
// Complexity: O(1).
func (g *Graph) RemoveEdge(eid string) error {
	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	e, ok := g.edges[eid]
	if !ok {
		return ErrEdgeNotFound
	}
	unlink(g, e.From, e.To, eid)
	delete(g.edges, eid)

	return nil
}

// HasEdge reports whether at least one edge joins u and v (in either order).
// Complexity: O(1).
func (g *Graph) HasEdge(u, v string) bool {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return len(g.adjacency[u][v]) > 0
}

// Weight returns the weight of the edge u–v.
// With parallel edges the largest weight wins.
//
// Errors:
//   - ErrEdgeNotFound if u and v are not adjacent.
func (g *Graph) Weight(u, v string) (float64, error) {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	bucket := g.adjacency[u][v]
	if len(bucket) == 0 {
		return 0, ErrEdgeNotFound
	}
	best := math.Inf(-1)
	var eid string
	for eid = range bucket {
		if w := g.edges[eid].Weight; w > best {
			best = w
		}
	}

	return best, nil
}

// Edges returns copies of all edges sorted by (From, To, ID).
// Complexity: O(E log E).
func (g *Graph) Edges() []*Edge {
	g.muEdgeAdj.RLock()
	out := make([]*Edge, 0, len(g.edges))
	var e *Edge
	for _, e = range g.edges {
		cp := *e
		out = append(out, &cp)
	}
	g.muEdgeAdj.RUnlock()

	sortEdges(out)

	return out
}

// EdgeSet returns the edge set keyed by canonical endpoint pair.
// Parallel edges collapse onto one key.
func (g *Graph) EdgeSet() map[EdgeKey]struct{} {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	set := make(map[EdgeKey]struct{}, len(g.edges))
	var e *Edge
	for _, e = range g.edges {
		set[e.Key()] = struct{}{}
	}

	return set
}

// EdgeCount returns the number of edges in the catalog.
func (g *Graph) EdgeCount() int {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return len(g.edges)
}

// FilterEdges removes every edge for which keep returns false.
// Complexity: O(E).
func (g *Graph) FilterEdges(keep func(*Edge) bool) {
	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	var eid string
	var e *Edge
	for eid, e = range g.edges {
		if !keep(e) {
			unlink(g, e.From, e.To, eid)
			delete(g.edges, eid)
		}
	}
}

// link registers eid in both adjacency directions. Caller holds muEdgeAdj.
func link(g *Graph, u, v, eid string) {
	if g.adjacency[u][v] == nil {
		g.adjacency[u][v] = make(map[string]struct{})
	}
	g.adjacency[u][v][eid] = struct{}{}
	if u == v {
		return
	}
	if g.adjacency[v][u] == nil {
		g.adjacency[v][u] = make(map[string]struct{})
	}
	g.adjacency[v][u][eid] = struct{}{}
}

// unlink removes eid from both adjacency directions, dropping empty buckets.
// Caller holds muEdgeAdj.
func unlink(g *Graph, u, v, eid string) {
	delete(g.adjacency[u][v], eid)
	if len(g.adjacency[u][v]) == 0 {
		delete(g.adjacency[u], v)
	}
	if u == v {
		return
	}
	delete(g.adjacency[v][u], eid)
	if len(g.adjacency[v][u]) == 0 {
		delete(g.adjacency[v], u)
	}
}

// sortEdges orders edges by (From, To, ID) with numeric ID comparison.
func sortEdges(es []*Edge) {
	sort.Slice(es, func(i, j int) bool {
		if es[i].From != es[j].From {
			return es[i].From < es[j].From
		}
		if es[i].To != es[j].To {
			return es[i].To < es[j].To
		}

		return edgeSeq(es[i].ID) < edgeSeq(es[j].ID)
	})
}

// edgeSeq extracts the numeric part of an edge ID ("e12" → 12).
func edgeSeq(id string) uint64 {
	n, _ := strconv.ParseUint(id[len(edgeIDPrefix):], 10, 64)

	return n
}
