// SPDX-License-Identifier: MIT

package bfs

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrGraphNil is returned if a nil graph pointer is passed.
	ErrGraphNil = errors.New("bfs: graph is nil")

	// ErrStartVertexNotFound is returned when the start ID is absent.
	ErrStartVertexNotFound = errors.New("bfs: start vertex not found")

	// ErrOptionViolation is returned when an Option was given an invalid value.
	ErrOptionViolation = errors.New("bfs: invalid option")
)

// EdgeFilter decides whether the walk may cross the edge u–v.
type EdgeFilter func(u, v string) bool

// Options configures a walk. Hooks are optional; nil hooks are skipped.
type Options struct {
	Ctx context.Context

	// OnEnqueue runs when a vertex is first reached.
	OnEnqueue func(id string, depth int)
	// OnDequeue runs right before a vertex is visited.
	OnDequeue func(id string, depth int)
	// OnVisit runs on every visited vertex; an error aborts the walk.
	OnVisit func(id string, depth int) error

	// MaxDepth > 0 stops expansion past that many hops; 0 means unlimited.
	MaxDepth int

	// Filter restricts which edges are followed; nil follows all of them.
	Filter EdgeFilter

	err error
}

// Option mutates Options. Invalid values are reported by BFS as
// ErrOptionViolation.
type Option func(*Options)

// DefaultOptions returns a background context, no depth limit, no filter.
func DefaultOptions() Options {
	return Options{Ctx: context.Background()}
}

// WithContext sets the context checked once per dequeued vertex.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnEnqueue registers the enqueue hook.
func WithOnEnqueue(fn func(id string, depth int)) Option {
	return func(o *Options) { o.OnEnqueue = fn }
}

// WithOnDequeue registers the dequeue hook.
func WithOnDequeue(fn func(id string, depth int)) Option {
	return func(o *Options) { o.OnDequeue = fn }
}

// WithOnVisit registers the visit hook.
func WithOnVisit(fn func(id string, depth int) error) Option {
	return func(o *Options) { o.OnVisit = fn }
}

// WithMaxDepth limits the walk to d hops; d < 0 is invalid.
func WithMaxDepth(d int) Option {
	return func(o *Options) {
		if d < 0 {
			o.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, d)
			return
		}
		o.MaxDepth = d
	}
}

// WithEdgeFilter follows only edges accepted by keep.
func WithEdgeFilter(keep EdgeFilter) Option {
	return func(o *Options) { o.Filter = keep }
}

// Result is the outcome of one walk.
type Result struct {
	// Order lists vertices in visit order, start first.
	Order []string
	// Depth is the hop count from the start.
	Depth map[string]int
	// Parent is the predecessor in the BFS tree; the start has none.
	Parent map[string]string
}

// PathTo returns the tree path start → dest, or an error if dest was not reached.
func (r *Result) PathTo(dest string) ([]string, error) {
	d, ok := r.Depth[dest]
	if !ok {
		return nil, fmt.Errorf("bfs: %q not reached", dest)
	}
	path := make([]string, d+1)
	for i, cur := d, dest; i >= 0; i-- {
		path[i] = cur
		cur = r.Parent[cur]
	}

	return path, nil
}
