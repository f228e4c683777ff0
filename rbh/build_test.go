// SPDX-License-Identifier: MIT
package rbh_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/syntenyqc/qcerr"
	"github.com/katalvlaran/syntenyqc/rbh"
)

// hit is a compact constructor: q and t are "record|protein" strings.
func hit(q, t string, pid, e float64) rbh.Hit {
	return rbh.Hit{Query: rbh.ParseSeqID(q), Target: rbh.ParseSeqID(t), PercentIdentity: pid, EValue: e}
}

// both returns the hit in both directions with identical statistics.
func both(a, b string, pid, e float64) []rbh.Hit {
	return []rbh.Hit{hit(a, b, pid, e), hit(b, a, pid, e)}
}

// neighbourhoodHits reproduces a four-neighbourhood fixture:
//
//	protein 0 is shared by every pair except file3–file4,
//	protein 1 is shared by file1 and file3 only,
//	file3|0 hits file4|0 but file4|0 prefers file3|2 (non-reciprocal).
func neighbourhoodHits() ([]rbh.Hit, map[string]int) {
	var hits []rbh.Hit
	for _, p := range [][2]string{
		{"file1|0", "file2|0"}, {"file1|0", "file3|0"}, {"file1|0", "file4|0"},
		{"file2|0", "file3|0"}, {"file2|0", "file4|0"},
		{"file1|1", "file3|1"},
	} {
		hits = append(hits, both(p[0], p[1], 80, 1e-50)...)
	}
	hits = append(hits,
		hit("file3|0", "file4|0", 70, 1e-30),
		hit("file4|0", "file3|2", 75, 1e-40),
		hit("file3|2", "file4|1", 75, 1e-40),
		// self hits are ignored
		hit("file1|0", "file1|0", 100, 0),
	)
	sizes := map[string]int{"file1": 2, "file2": 2, "file3": 3, "file4": 2}

	return hits, sizes
}

func TestBuild_NeighbourhoodScores(t *testing.T) {
	hits, sizes := neighbourhoodHits()
	m, err := rbh.Build(hits, 50, rbh.WithRecordSizes(sizes))
	require.NoError(t, err)

	want := []rbh.Entry{
		{A: "file1", B: "file2", Score: 50},
		{A: "file1", B: "file3", Score: 100},
		{A: "file1", B: "file4", Score: 50},
		{A: "file2", B: "file3", Score: 50},
		{A: "file2", B: "file4", Score: 50},
	}
	if diff := cmp.Diff(want, m.Pairs()); diff != "" {
		t.Fatalf("Pairs() mismatch (-want +got):\n%s", diff)
	}

	links := m.Links("file3", "file1")
	require.Len(t, links, 2)
	assert.Equal(t, rbh.SeqID{Record: "file1", Protein: "0"}, links[0].A)
	assert.Equal(t, rbh.SeqID{Record: "file3", Protein: "1"}, links[1].B)
	assert.Equal(t, []string{"file1", "file2", "file3", "file4"}, m.Records())
}

func TestBuild_SymmetryAndNoSelfPairs(t *testing.T) {
	hits, sizes := neighbourhoodHits()
	m, err := rbh.Build(hits, 50, rbh.WithRecordSizes(sizes))
	require.NoError(t, err)

	for _, e := range m.Pairs() {
		assert.NotEqual(t, e.A, e.B)
		ab, ok := m.Score(e.A, e.B)
		require.True(t, ok)
		ba, ok := m.Score(e.B, e.A)
		require.True(t, ok)
		assert.Equal(t, ab, ba)
	}
	_, ok := m.Score("file1", "file1")
	assert.False(t, ok)
}

func TestBuild_OrderIndependent(t *testing.T) {
	hits, sizes := neighbourhoodHits()
	ref, err := rbh.Build(hits, 50, rbh.WithRecordSizes(sizes))
	require.NoError(t, err)

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := append([]rbh.Hit(nil), hits...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, err := rbh.Build(shuffled, 50, rbh.WithRecordSizes(sizes))
		require.NoError(t, err)
		if diff := cmp.Diff(ref.Pairs(), got.Pairs()); diff != "" {
			t.Fatalf("shuffle %d changed the matrix (-want +got):\n%s", i, diff)
		}
	}
}

func TestBuild_SingleSequenceRecords(t *testing.T) {
	// Record-level RBH: with one sequence per record, a pair is reciprocal
	// whenever both directions have a hit.
	hits := []rbh.Hit{
		hit("A", "B", 90, 1e-80), hit("B", "A", 90, 1e-80),
		hit("C", "A", 60, 1e-20), hit("A", "C", 60, 1e-20),
	}
	m, err := rbh.Build(hits, 50)
	require.NoError(t, err)

	s, ok := m.Score("A", "B")
	require.True(t, ok)
	assert.Equal(t, 100.0, s)
	_, ok = m.Score("A", "C")
	assert.True(t, ok)
	_, ok = m.Score("B", "C")
	assert.False(t, ok, "no hits between B and C")
}

func TestBuild_IdentityThresholdInclusive(t *testing.T) {
	m, err := rbh.Build(both("A", "B", 50, 1e-10), 50)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len(), "identity equal to threshold is accepted")

	m, err = rbh.Build(both("A", "B", 49.99, 1e-10), 50)
	require.NoError(t, err)
	assert.Zero(t, m.Len())

	// One direction below threshold breaks the pair.
	m, err = rbh.Build([]rbh.Hit{hit("A", "B", 90, 1e-10), hit("B", "A", 40, 1e-10)}, 50)
	require.NoError(t, err)
	assert.Zero(t, m.Len())
}

func TestBuild_TieBreak(t *testing.T) {
	// A|0 has two equally good hits into B; the smaller target ID wins,
	// so only B|0 can be reciprocal.
	hits := []rbh.Hit{
		hit("A|0", "B|1", 80, 1e-10),
		hit("A|0", "B|0", 80, 1e-10),
		hit("B|0", "A|0", 80, 1e-10),
		hit("B|1", "A|0", 80, 1e-10),
	}
	m, err := rbh.Build(hits, 50, rbh.WithRecordSizes(map[string]int{"A": 1, "B": 2}))
	require.NoError(t, err)
	links := m.Links("A", "B")
	require.Len(t, links, 1)
	assert.Equal(t, "B|0", links[0].B.String())

	// Lower e-value beats higher identity.
	hits = []rbh.Hit{
		hit("A|0", "B|0", 99, 1e-5),
		hit("A|0", "B|1", 60, 1e-50),
		hit("B|1", "A|0", 60, 1e-50),
	}
	m, err = rbh.Build(hits, 50)
	require.NoError(t, err)
	links = m.Links("A", "B")
	require.Len(t, links, 1)
	assert.Equal(t, "B|1", links[0].B.String())
}

func TestBuild_MaxEValue(t *testing.T) {
	m, err := rbh.Build(both("A", "B", 90, 0.5), 50, rbh.WithMaxEValue(1e-5))
	require.NoError(t, err)
	assert.Zero(t, m.Len())
}

func TestBuild_Errors(t *testing.T) {
	for _, pid := range []float64{0, -1, 100.5, math.NaN()} {
		_, err := rbh.Build(nil, pid)
		assert.True(t, errors.Is(err, qcerr.ErrConfiguration), "pid=%v", pid)
	}

	_, err := rbh.Build([]rbh.Hit{hit("A", "B", 90, -1)}, 50)
	assert.ErrorIs(t, err, rbh.ErrBadHit)
	_, err = rbh.Build([]rbh.Hit{hit("A", "B", 101, 0)}, 50)
	assert.ErrorIs(t, err, rbh.ErrBadHit)
	_, err = rbh.Build([]rbh.Hit{{Query: rbh.SeqID{}, Target: rbh.SeqID{Record: "B"}}}, 50)
	assert.ErrorIs(t, err, rbh.ErrBadHit)

	_, err = rbh.Build([]rbh.Hit{hit("A|0", "B|0", 90, 0), hit("A|1", "B|0", 90, 0)}, 50,
		rbh.WithRecordSizes(map[string]int{"A": 1}))
	assert.ErrorIs(t, err, rbh.ErrSizeMismatch)
}

func TestBuild_EmptyInput(t *testing.T) {
	m, err := rbh.Build(nil, 50)
	require.NoError(t, err)
	assert.Zero(t, m.Len())
	assert.Empty(t, m.Pairs())
}

func TestMatrix_Set(t *testing.T) {
	m := rbh.NewMatrix()
	require.NoError(t, m.Set("B", "A", 95))
	s, ok := m.Score("A", "B")
	require.True(t, ok)
	assert.Equal(t, 95.0, s)

	assert.ErrorIs(t, m.Set("A", "A", 10), rbh.ErrSelfPair)
	assert.ErrorIs(t, m.Set("A", "C", 0), rbh.ErrScoreRange)
	assert.ErrorIs(t, m.Set("A", "C", 100.1), rbh.ErrScoreRange)
	assert.ErrorIs(t, m.Set("", "C", 10), rbh.ErrBadHit)
	assert.Empty(t, m.Links("A", "B"))
}

func TestMatrix_SetDropsBuiltLinks(t *testing.T) {
	hits, sizes := neighbourhoodHits()
	m, err := rbh.Build(hits, 50, rbh.WithRecordSizes(sizes))
	require.NoError(t, err)
	require.Len(t, m.Links("file1", "file3"), 2)

	require.NoError(t, m.Set("file3", "file1", 40))
	s, ok := m.Score("file1", "file3")
	require.True(t, ok)
	assert.Equal(t, 40.0, s)
	assert.Empty(t, m.Links("file1", "file3"))
	// other pairs keep their links
	assert.Len(t, m.Links("file1", "file2"), 1)
}

func TestParseSeqID(t *testing.T) {
	assert.Equal(t, rbh.SeqID{Record: "file1", Protein: "0"}, rbh.ParseSeqID("file1|0"))
	assert.Equal(t, rbh.SeqID{Record: "a|b", Protein: "3"}, rbh.ParseSeqID("a|b|3"))
	assert.Equal(t, rbh.SeqID{Record: "whole"}, rbh.ParseSeqID("whole"))
	assert.Equal(t, "file1|0", rbh.SeqID{Record: "file1", Protein: "0"}.String())
}
