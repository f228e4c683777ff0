// SPDX-License-Identifier: MIT

package bfs

import (
	"fmt"

	"github.com/katalvlaran/syntenyqc/core"
)

// BFS walks g breadth-first from start. Edge weights are ignored: every
// followed edge is one hop.
//
// Implementation:
//   - Stage 1: Validate graph, options and start vertex.
//   - Stage 2: Pop vertices from a FIFO (head index over a slice), visit them,
//     and push unseen neighbours accepted by the filter and the depth limit.
//
// Errors: ErrGraphNil, ErrOptionViolation, ErrStartVertexNotFound, context
// errors, and OnVisit errors wrapped with the vertex ID.
//
// Complexity: O(V + E) time, O(V) memory.
func BFS(g *core.Graph, start string, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if !g.HasVertex(start) {
		return nil, fmt.Errorf("%w: %q", ErrStartVertexNotFound, start)
	}

	n := g.VertexCount()
	res := &Result{
		Order:  make([]string, 0, n),
		Depth:  make(map[string]int, n),
		Parent: make(map[string]string, n),
	}
	queue := make([]string, 0, n)
	push := func(id, parent string, depth int) {
		res.Depth[id] = depth
		if parent != "" {
			res.Parent[id] = parent
		}
		if o.OnEnqueue != nil {
			o.OnEnqueue(id, depth)
		}
		queue = append(queue, id)
	}

	push(start, "", 0)
	for head := 0; head < len(queue); head++ {
		if err := o.Ctx.Err(); err != nil {
			return res, err
		}
		id := queue[head]
		depth := res.Depth[id]
		if o.OnDequeue != nil {
			o.OnDequeue(id, depth)
		}
		res.Order = append(res.Order, id)
		if o.OnVisit != nil {
			if err := o.OnVisit(id, depth); err != nil {
				return res, fmt.Errorf("bfs: visit %q: %w", id, err)
			}
		}
		if o.MaxDepth > 0 && depth >= o.MaxDepth {
			continue
		}

		nbrs, err := g.NeighborIDs(id)
		if err != nil {
			return res, fmt.Errorf("bfs: neighbours of %q: %w", id, err)
		}
		for _, nb := range nbrs {
			if _, seen := res.Depth[nb]; seen {
				continue
			}
			if o.Filter != nil && !o.Filter(id, nb) {
				continue
			}
			push(nb, id, depth+1)
		}
	}

	return res, nil
}
