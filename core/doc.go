// SPDX-License-Identifier: MIT

// Package core provides the thread-safe, in-memory similarity graph that every
// other syntenyqc package builds on.
//
// The Graph G = (V,E) is undirected. Each edge carries a float64 weight, which
// for RBH graphs is the percent similarity (0..100] between two neighbourhoods.
//
//   - Weighted vs. unweighted edges (WithWeighted)
//   - Parallel edges / multi-graphs (WithMultiEdges)
//   - Self-loops (WithLoops)
//   - Constant-time edge operations via nested maps:
//     adjacency[u][v][edgeID] = struct{}{}, mirrored for v→u
//   - Collision-free atomic Edge.ID generation ("e1", "e2", …)
//   - Separate sync.RWMutex for vertices (muVert) and edges+adjacency (muEdgeAdj)
//
// The zero-option graph is simple: no loops, no parallel edges. RBH graphs are
// always built that way, so "len(graph)" is VertexCount(), the node set is
// VertexSet() and the edge set is EdgeSet(); the set forms are order-free and
// the slice forms (Vertices, Edges, NeighborIDs) are always sorted.
//
// Core Methods:
//
//	// Vertex lifecycle
//	AddVertex(id string) error          // O(1)
//	HasVertex(id string) bool           // O(1)
//	RemoveVertex(id string) error       // O(E)
//
//	// Edge lifecycle
//	AddEdge(u, v string, w float64) (edgeID string, err error) // O(1)†
//	RemoveEdge(edgeID string) error    // O(1)
//	HasEdge(u, v string) bool          // O(1)
//	Weight(u, v string) (float64, error)
//
//	// Query
//	Vertices() []string                // O(V log V), sorted
//	Edges() []*Edge                    // O(E log E), sorted by (From, To, ID)
//	NeighborIDs(id string) ([]string, error)
//	Degree(id string) (int, error)
//
//	// Views (never mutate the source)
//	Clone() *Graph
//	InducedSubgraph(g, keep) *Graph
//
// † amortized; the multi-edge check is a map lookup.
//
// Lock order is always muVert → muEdgeAdj.
package core
