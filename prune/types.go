// SPDX-License-Identifier: MIT

// Package prune removes near-duplicate neighbourhoods from a similarity graph.
//
// An edge is a violation when its weight reaches the similarity filter.
// Prune greedily deletes the node carrying the largest violation degree until
// no violation edge remains, so every surviving pair is either unconnected or
// strictly less similar than the filter.
//
// Options follow the functional-options idiom used across the module:
//
//	res, err := prune.Prune(g, 50,
//	    prune.WithDegreeMode(prune.DegreeCount),
//	    prune.WithTieBreak(prune.RemoveLargestID))
package prune

import (
	"errors"
	"sort"

	"github.com/katalvlaran/syntenyqc/core"
	"github.com/katalvlaran/syntenyqc/qcerr"
)

// ErrGraphNil is returned if a nil graph pointer is passed.
var ErrGraphNil = errors.New("prune: graph is nil")

// DegreeMode selects how a node's violation degree is measured.
type DegreeMode int

const (
	// DegreeWeighted sums the weights of a node's violation edges.
	DegreeWeighted DegreeMode = iota
	// DegreeCount counts a node's violation edges.
	DegreeCount
)

func (m DegreeMode) String() string {
	switch m {
	case DegreeWeighted:
		return "weighted"
	case DegreeCount:
		return "count"
	default:
		return "unknown"
	}
}

// TieBreak selects which node goes when several share the maximum degree.
type TieBreak int

const (
	// RemoveSmallestID removes the lexicographically smallest ID.
	RemoveSmallestID TieBreak = iota
	// RemoveLargestID removes the lexicographically largest ID.
	RemoveLargestID
)

func (t TieBreak) String() string {
	switch t {
	case RemoveSmallestID:
		return "smallest-id"
	case RemoveLargestID:
		return "largest-id"
	default:
		return "unknown"
	}
}

// Options holds the pruning policy.
type Options struct {
	Degree   DegreeMode
	TieBreak TieBreak
}

// Option configures Prune.
type Option func(*Options)

// DefaultOptions returns weighted degree with smallest-ID tie break.
func DefaultOptions() Options {
	return Options{Degree: DegreeWeighted, TieBreak: RemoveSmallestID}
}

// WithDegreeMode sets the degree measure.
func WithDegreeMode(m DegreeMode) Option {
	return func(o *Options) { o.Degree = m }
}

// WithTieBreak sets the tie-break rule.
func WithTieBreak(t TieBreak) Option {
	return func(o *Options) { o.TieBreak = t }
}

// PrunedGraph is the outcome of Prune. It is read-only once returned.
type PrunedGraph struct {
	// Raw is the unpruned input graph.
	Raw *core.Graph
	// Nodes are the surviving node IDs, sorted.
	Nodes []string
	// Removed lists deleted node IDs in removal order.
	Removed []string
	// Filter is the similarity filter the graph was pruned with.
	Filter float64
}

// Graph returns the subgraph of Raw induced by Nodes.
func (p *PrunedGraph) Graph() *core.Graph {
	keep := make(map[string]bool, len(p.Nodes))
	for _, id := range p.Nodes {
		keep[id] = true
	}

	return core.InducedSubgraph(p.Raw, keep)
}

// IsRemoved reports whether id was pruned away.
func (p *PrunedGraph) IsRemoved(id string) bool {
	for _, r := range p.Removed {
		if r == id {
			return true
		}
	}

	return false
}

// Verify checks that the node IDs actually persisted match Nodes, ignoring
// order. A mismatch yields *qcerr.InvariantViolationError.
func (p *PrunedGraph) Verify(written []string) error {
	got := append([]string(nil), written...)
	sort.Strings(got)
	if len(got) == len(p.Nodes) {
		same := true
		for i := range got {
			if got[i] != p.Nodes[i] {
				same = false
				break
			}
		}
		if same {
			return nil
		}
	}

	return qcerr.NewInvariantViolationError(p.Nodes, written)
}
