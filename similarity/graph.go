// SPDX-License-Identifier: MIT

// Package similarity turns an RBH matrix into the undirected weighted
// similarity graph the pruner works on, and summarizes its edge weights.
//
// Every record ID supplied to FromMatrix becomes a node, so neighbourhoods
// without any reciprocal hit still appear as singletons instead of being
// silently dropped. Edges carry the matrix score (percent, (0,100]).
package similarity

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/syntenyqc/core"
	"github.com/katalvlaran/syntenyqc/rbh"
)

// Sentinel errors for graph construction.
var (
	// ErrMatrixNil is returned when a nil matrix is passed.
	ErrMatrixNil = errors.New("similarity: matrix is nil")

	// ErrUnknownRecord is returned when a matrix entry names a record that is
	// not part of the record set.
	ErrUnknownRecord = errors.New("similarity: matrix names unknown record")
)

// FromMatrix builds a simple, undirected, weighted graph whose node set is
// allRecordIDs and whose edges are the matrix entries.
//
// Implementation:
//   - Stage 1: Add every record ID as a vertex.
//   - Stage 2: Add one edge per matrix entry, in sorted pair order so edge IDs
//     are reproducible.
//
// Errors:
//   - ErrMatrixNil, ErrUnknownRecord, core.ErrEmptyVertexID.
//
// Complexity: O(V + E log E).
func FromMatrix(m *rbh.Matrix, allRecordIDs []string) (*core.Graph, error) {
	if m == nil {
		return nil, ErrMatrixNil
	}
	g := core.NewGraph(core.WithWeighted())
	for _, id := range allRecordIDs {
		if err := g.AddVertex(id); err != nil {
			return nil, fmt.Errorf("similarity: add record %q: %w", id, err)
		}
	}
	for _, e := range m.Pairs() {
		if !g.HasVertex(e.A) || !g.HasVertex(e.B) {
			return nil, fmt.Errorf("%w: %s–%s", ErrUnknownRecord, e.A, e.B)
		}
		if _, err := g.AddEdge(e.A, e.B, e.Score); err != nil {
			return nil, fmt.Errorf("similarity: add edge %s–%s: %w", e.A, e.B, err)
		}
	}

	return g, nil
}
