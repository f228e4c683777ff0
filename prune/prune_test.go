// SPDX-License-Identifier: MIT
package prune_test

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/syntenyqc/core"
	"github.com/katalvlaran/syntenyqc/prune"
	"github.com/katalvlaran/syntenyqc/qcerr"
)

type wedge struct {
	u, v string
	w    float64
}

func build(t *testing.T, nodes []string, edges []wedge) *core.Graph {
	t.Helper()
	g := core.NewGraph(core.WithWeighted())
	for _, id := range nodes {
		require.NoError(t, g.AddVertex(id))
	}
	for _, e := range edges {
		_, err := g.AddEdge(e.u, e.v, e.w)
		require.NoError(t, err)
	}

	return g
}

func TestPrune_Triangle(t *testing.T) {
	g := build(t, []string{"A", "B", "C"}, []wedge{{"A", "B", 95}, {"B", "C", 40}, {"A", "C", 30}})

	res, err := prune.Prune(g, 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, res.Nodes)
	assert.Equal(t, []string{"A"}, res.Removed)
	assert.True(t, res.IsRemoved("A"))
	assert.False(t, res.IsRemoved("C"))

	res, err = prune.Prune(g, 50, prune.WithTieBreak(prune.RemoveLargestID))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, res.Nodes)
	assert.NotContains(t, res.Removed, "C", "B–C never triggers removal")
}

func TestPrune_NeighbourhoodFixture(t *testing.T) {
	g := build(t, []string{"file1", "file2", "file3", "file4"}, []wedge{
		{"file1", "file2", 50}, {"file1", "file3", 100}, {"file1", "file4", 50},
		{"file2", "file3", 50}, {"file2", "file4", 50},
	})

	for _, mode := range []prune.DegreeMode{prune.DegreeWeighted, prune.DegreeCount} {
		t.Run(mode.String(), func(t *testing.T) {
			res, err := prune.Prune(g, 50, prune.WithDegreeMode(mode))
			require.NoError(t, err)
			assert.Equal(t, []string{"file3", "file4"}, res.Nodes)
			assert.Equal(t, []string{"file1", "file2"}, res.Removed)
			assert.Zero(t, res.Graph().EdgeCount())
		})
	}
}

func TestPrune_DegreeModesDiffer(t *testing.T) {
	// A has two strong edges (198), H has three weak ones (153).
	g := build(t, []string{"A", "B", "C", "H", "P", "Q", "R"}, []wedge{
		{"A", "B", 99}, {"A", "C", 99},
		{"H", "P", 51}, {"H", "Q", 51}, {"H", "R", 51},
	})

	res, err := prune.Prune(g, 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "H"}, res.Removed)

	res, err = prune.Prune(g, 50, prune.WithDegreeMode(prune.DegreeCount))
	require.NoError(t, err)
	assert.Equal(t, []string{"H", "A"}, res.Removed)
	assert.Equal(t, []string{"B", "C", "P", "Q", "R"}, res.Nodes)
}

func TestPrune_NoViolations(t *testing.T) {
	g := build(t, []string{"A", "B", "C"}, []wedge{{"A", "B", 10}})
	res, err := prune.Prune(g, 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, res.Nodes)
	assert.Empty(t, res.Removed)
	assert.Equal(t, 1, res.Graph().EdgeCount())
}

func TestPrune_EmptyGraph(t *testing.T) {
	res, err := prune.Prune(core.NewGraph(core.WithWeighted()), 50)
	require.NoError(t, err)
	assert.Empty(t, res.Nodes)
	assert.Empty(t, res.Removed)
	assert.NoError(t, res.Verify(nil))
}

func TestPrune_Errors(t *testing.T) {
	_, err := prune.Prune(nil, 50)
	require.ErrorIs(t, err, prune.ErrGraphNil)

	g := build(t, []string{"A"}, nil)
	for _, f := range []float64{0, -3, 100.01, math.NaN()} {
		_, err := prune.Prune(g, f)
		var ce *qcerr.ConfigurationError
		require.True(t, errors.As(err, &ce), "filter=%v", f)
		assert.Equal(t, []string{"--similarity_filter must be between >0 and <=100."}, ce.Problems)
	}
	_, err = prune.Prune(g, 100)
	assert.NoError(t, err)
}

func TestPrune_DoesNotMutate(t *testing.T) {
	g := build(t, []string{"A", "B", "C"}, []wedge{{"A", "B", 95}, {"B", "C", 40}, {"A", "C", 30}})
	before := g.Edges()
	verts := g.Vertices()

	res, err := prune.Prune(g, 35)
	require.NoError(t, err)
	assert.Same(t, g, res.Raw)
	assert.Equal(t, verts, g.Vertices())
	if diff := cmp.Diff(before, g.Edges()); diff != "" {
		t.Fatalf("input graph mutated (-before +after):\n%s", diff)
	}
}

func TestPrune_Verify(t *testing.T) {
	g := build(t, []string{"A", "B", "C"}, nil)
	res, err := prune.Prune(g, 50)
	require.NoError(t, err)

	assert.NoError(t, res.Verify([]string{"C", "A", "B"}))

	err = res.Verify([]string{"A", "C"})
	require.ErrorIs(t, err, qcerr.ErrInvariantViolation)
	var iv *qcerr.InvariantViolationError
	require.True(t, errors.As(err, &iv))
	assert.Equal(t, []string{"A", "B", "C"}, iv.Pruned)
	assert.Equal(t, []string{"A", "C"}, iv.Written)

	assert.Error(t, res.Verify([]string{"A", "B", "D"}))
}

// randomGraph returns a reproducible graph with n nodes and edge density p.
func randomGraph(t *testing.T, seed int64, n int, p float64) *core.Graph {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	g := core.NewGraph(core.WithWeighted())
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("n%02d", i)
		require.NoError(t, g.AddVertex(ids[i]))
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if r.Float64() < p {
				_, err := g.AddEdge(ids[i], ids[j], math.Round(r.Float64()*999)/10+0.1)
				require.NoError(t, err)
			}
		}
	}

	return g
}

func TestPrune_Properties(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		g := randomGraph(t, seed, 18, 0.35)
		filter := float64(20 + seed*3)
		for _, mode := range []prune.DegreeMode{prune.DegreeWeighted, prune.DegreeCount} {
			res, err := prune.Prune(g, filter, prune.WithDegreeMode(mode))
			require.NoError(t, err)

			// No surviving pair reaches the filter.
			for _, e := range res.Graph().Edges() {
				require.Less(t, e.Weight, filter, "seed %d: %s–%s survived", seed, e.From, e.To)
			}
			// Survivors and removed partition the node set.
			assert.Equal(t, g.VertexCount(), len(res.Nodes)+len(res.Removed))

			// Idempotent.
			again, err := prune.Prune(res.Graph(), filter, prune.WithDegreeMode(mode))
			require.NoError(t, err)
			assert.Equal(t, res.Nodes, again.Nodes)
			assert.Empty(t, again.Removed)

			// Deterministic across runs and clones.
			twin, err := prune.Prune(g.Clone(), filter, prune.WithDegreeMode(mode))
			require.NoError(t, err)
			assert.Equal(t, res.Removed, twin.Removed)
		}
	}
}

func TestPrune_InsertionOrderIndependent(t *testing.T) {
	edges := []wedge{
		{"a", "b", 70}, {"b", "c", 70}, {"c", "d", 70}, {"d", "a", 70},
		{"a", "c", 55.5}, {"e", "a", 12},
	}
	ref, err := prune.Prune(build(t, []string{"a", "b", "c", "d", "e"}, edges), 50)
	require.NoError(t, err)

	r := rand.New(rand.NewSource(3))
	for i := 0; i < 10; i++ {
		shuffled := append([]wedge(nil), edges...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, err := prune.Prune(build(t, []string{"e", "d", "c", "b", "a"}, shuffled), 50)
		require.NoError(t, err)
		assert.Equal(t, ref.Removed, got.Removed)
		assert.Equal(t, ref.Nodes, got.Nodes)
	}
}
