// SPDX-License-Identifier: MIT
package bfs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/syntenyqc/bfs"
	"github.com/katalvlaran/syntenyqc/core"
)

// similarityGraph: two near-duplicate clusters {a,b,c} and {d,e} joined by a
// weak a–d link, plus an isolated f.
func similarityGraph(t *testing.T) *core.Graph {
	t.Helper()
	g := core.NewGraph(core.WithWeighted())
	for _, e := range []struct {
		u, v string
		w    float64
	}{
		{"a", "b", 90}, {"b", "c", 75}, {"d", "e", 60}, {"a", "d", 10},
	} {
		_, err := g.AddEdge(e.u, e.v, e.w)
		require.NoError(t, err)
	}
	require.NoError(t, g.AddVertex("f"))

	return g
}

func TestBFS_Errors(t *testing.T) {
	_, err := bfs.BFS(nil, "A")
	assert.ErrorIs(t, err, bfs.ErrGraphNil)

	g := core.NewGraph()
	_, err = bfs.BFS(g, "missing")
	assert.ErrorIs(t, err, bfs.ErrStartVertexNotFound)

	require.NoError(t, g.AddVertex("A"))
	_, err = bfs.BFS(g, "A", bfs.WithMaxDepth(-1))
	assert.ErrorIs(t, err, bfs.ErrOptionViolation)
}

func TestBFS_WeightedOrderAndDepth(t *testing.T) {
	res, err := bfs.BFS(similarityGraph(t), "a")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "d", "c", "e"}, res.Order)
	assert.Equal(t, map[string]int{"a": 0, "b": 1, "d": 1, "c": 2, "e": 2}, res.Depth)

	path, err := res.PathTo("e")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "d", "e"}, path)

	_, err = res.PathTo("f")
	assert.Error(t, err)
}

func TestBFS_MaxDepthAndFilter(t *testing.T) {
	g := similarityGraph(t)

	res, err := bfs.BFS(g, "a", bfs.WithMaxDepth(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "d"}, res.Order)

	res, err = bfs.BFS(g, "a", bfs.WithEdgeFilter(bfs.AtLeast(g, 50)))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, res.Order)
}

func TestBFS_Hooks(t *testing.T) {
	var enq, deq []string
	stop := errors.New("stop")
	_, err := bfs.BFS(similarityGraph(t), "a",
		bfs.WithOnEnqueue(func(id string, _ int) { enq = append(enq, id) }),
		bfs.WithOnDequeue(func(id string, _ int) { deq = append(deq, id) }),
		bfs.WithOnVisit(func(id string, _ int) error {
			if id == "d" {
				return stop
			}
			return nil
		}),
	)
	require.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"a", "b", "d", "c"}, enq)
	assert.Equal(t, []string{"a", "b", "d"}, deq)
}

func TestBFS_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := bfs.BFS(similarityGraph(t), "a", bfs.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComponents(t *testing.T) {
	g := similarityGraph(t)

	all, err := bfs.Components(g, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b", "c", "d", "e"}, {"f"}}, all)

	strong, err := bfs.Components(g, bfs.AtLeast(g, 50))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"d", "e"}, {"f"}}, strong)

	_, err = bfs.Components(nil, nil)
	assert.ErrorIs(t, err, bfs.ErrGraphNil)

	empty, err := bfs.Components(core.NewGraph(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestClusters(t *testing.T) {
	g := similarityGraph(t)

	got, err := bfs.Clusters(g, 50)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"d", "e"}}, got)

	got, err = bfs.Clusters(g, 80)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}}, got)

	got, err = bfs.Clusters(g, 100)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResult_PathToStart(t *testing.T) {
	res, err := bfs.BFS(similarityGraph(t), "c")
	require.NoError(t, err)

	path, err := res.PathTo("c")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, path)

	path, err = res.PathTo("e")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a", "d", "e"}, path)
}
