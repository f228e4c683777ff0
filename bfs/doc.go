// SPDX-License-Identifier: MIT

// Package bfs walks a core.Graph breadth-first and groups its vertices into
// connected components.
//
// Edge weights are ignored by the walk; callers restrict traversal to the
// edges they care about with WithEdgeFilter. Clusters is what the sieve uses:
// components of the subgraph made of edges at or above the similarity
// filter, i.e. groups of near-duplicate neighbourhoods.
//
// Determinism
//
//	core.NeighborIDs returns neighbours sorted by ID and BFS enqueues them in
//	that order, so visit order and component membership are reproducible.
//
// Errors
//
//   - ErrGraphNil             if the graph pointer is nil.
//   - ErrStartVertexNotFound  if the start vertex does not exist.
//   - ErrOptionViolation      if an Option is invalid (e.g. negative MaxDepth).
//   - Wrapped OnVisit hook errors and context errors.
//
// Complexity: O(V + E) time, O(V) memory.
package bfs
