// SPDX-License-Identifier: MIT
package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/syntenyqc/config"
	"github.com/katalvlaran/syntenyqc/qcerr"
)

func valid(t *testing.T) config.Sieve {
	t.Helper()
	s := config.Default()
	s.GenbankFolder = t.TempDir()
	s.SimilarityFilter = 50

	return s
}

func problems(t *testing.T, err error) []string {
	t.Helper()
	var ce *qcerr.ConfigurationError
	require.True(t, errors.As(err, &ce), "want ConfigurationError, got %v", err)
	require.ErrorIs(t, err, qcerr.ErrConfiguration)

	return ce.Problems
}

func TestDefault(t *testing.T) {
	s := config.Default()
	assert.Equal(t, 1e-5, s.EValue)
	assert.Equal(t, 50.0, s.MinPercentIdentity)
	assert.Equal(t, 200, s.MaxTargetSeqs)
	assert.Equal(t, "info", s.LogLevel)
	assert.Len(t, s.PruneOptions(), 2)
}

func TestValidate_OK(t *testing.T) {
	s := valid(t)
	require.NoError(t, s.Validate())
	assert.Equal(t, 50.0, s.EdgeView(), "edge view defaults to the filter")

	s.MinEdgeView = 10
	s.SimilarityFilter = 100
	s.EValue = 1
	s.MinPercentIdentity = 100
	s.DegreeMode = "count"
	s.TieBreak = "LARGEST"
	require.NoError(t, s.Validate())
	assert.Equal(t, 10.0, s.EdgeView())
}

func TestValidate_Messages(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Sieve)
		want   string
	}{
		{"filter zero", func(s *config.Sieve) { s.SimilarityFilter = 0 }, "--similarity_filter must be between >0 and <=100."},
		{"filter high", func(s *config.Sieve) { s.SimilarityFilter = 100.5 }, "--similarity_filter must be between >0 and <=100."},
		{"edge view above filter", func(s *config.Sieve) { s.MinEdgeView = 60 }, "--min_edge_view must be <= similarity_filter."},
		{"edge view negative", func(s *config.Sieve) { s.MinEdgeView = -2 }, "--min_edge_view must be between >0 and <=100."},
		{"edge view high", func(s *config.Sieve) { s.MinEdgeView = 120 }, "--min_edge_view must be between >0 and <=100."},
		{"evalue zero", func(s *config.Sieve) { s.EValue = 0 }, "--e_value must be between >0 and <=1."},
		{"evalue high", func(s *config.Sieve) { s.EValue = 1.1 }, "--e_value must be between >0 and <=1."},
		{"identity zero", func(s *config.Sieve) { s.MinPercentIdentity = 0 }, "--min_percent_identity must be between >0 and <=100."},
		{"identity high", func(s *config.Sieve) { s.MinPercentIdentity = 101 }, "--min_percent_identity must be between >0 and <=100."},
		{"target seqs", func(s *config.Sieve) { s.MaxTargetSeqs = -1 }, "--max_target_seqs must be between >0."},
		{"missing folder", func(s *config.Sieve) { s.GenbankFolder = filepath.Join(s.GenbankFolder, "nope") }, "--genbank_folder dir does not exist."},
		{"mixed slashes", func(s *config.Sieve) { s.GenbankFolder = `a/mixed\path` }, "--genbank_folder path cannot contain forward and backward slashes."},
		{"empty folder", func(s *config.Sieve) { s.GenbankFolder = "" }, "--genbank_folder is required."},
		{"threads", func(s *config.Sieve) { s.Threads = 0 }, "--threads must be >0."},
		{"degree", func(s *config.Sieve) { s.DegreeMode = "max" }, "--degree_mode must be weighted or count."},
		{"tie", func(s *config.Sieve) { s.TieBreak = "random" }, "--tie_break must be smallest or largest."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := valid(t)
			tc.mutate(&s)
			assert.Equal(t, []string{tc.want}, problems(t, s.Validate()))
		})
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	s := valid(t)
	s.SimilarityFilter = -1
	s.EValue = 2
	got := problems(t, s.Validate())
	assert.Equal(t, []string{
		"--similarity_filter must be between >0 and <=100.",
		"--e_value must be between >0 and <=1.",
	}, got)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sieve.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"genbank_folder: "+dir+"\nsimilarity_filter: 70\nmin_edge_view: 30\ndegree_mode: count\n"), 0o644))

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, s.GenbankFolder)
	assert.Equal(t, 70.0, s.SimilarityFilter)
	assert.Equal(t, 30.0, s.EdgeView())
	assert.Equal(t, "count", s.DegreeMode)
	assert.Equal(t, 200, s.MaxTargetSeqs, "unset keys keep defaults")
	require.NoError(t, s.Validate())

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	s, err = config.Load(empty)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), s)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := config.Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("similarity_filtr: 50\n"), 0o644))
	_, err = config.Load(unknown)
	assert.Error(t, err)
}
