// SPDX-License-Identifier: MIT

// Package config holds the sieve run parameters, their YAML form and their
// validation rules.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/syntenyqc/prune"
	"github.com/katalvlaran/syntenyqc/qcerr"
)

// Defaults for optional parameters.
const (
	DefaultEValue             = 1e-5
	DefaultMinPercentIdentity = 50.0
	DefaultMaxTargetSeqs      = 200
	DefaultLogLevel           = "info"
	DefaultDegreeMode         = "weighted"
	DefaultTieBreak           = "smallest"
	// DefaultResultsBase is the results folder created inside the GenBank
	// folder when no results_dir is given.
	DefaultResultsBase = "ClusterSieve"
)

// Sieve is the complete parameter set for one sieve run.
// Percent-valued fields use the 0..100 scale.
type Sieve struct {
	GenbankFolder      string  `yaml:"genbank_folder"`
	ResultsDir         string  `yaml:"results_dir"`
	EValue             float64 `yaml:"e_value"`
	MinPercentIdentity float64 `yaml:"min_percent_identity"`
	MaxTargetSeqs      int     `yaml:"max_target_seqs"`
	SimilarityFilter   float64 `yaml:"similarity_filter"`
	// MinEdgeView hides report edges below it; 0 means SimilarityFilter.
	MinEdgeView float64 `yaml:"min_edge_view"`

	DegreeMode string `yaml:"degree_mode"` // weighted | count
	TieBreak   string `yaml:"tie_break"`   // smallest | largest

	Threads  int    `yaml:"threads"`
	Database string `yaml:"database"`
	Trace    bool   `yaml:"trace"`
	LogLevel string `yaml:"log_level"`
}

// Default returns a Sieve with every optional field at its default.
// GenbankFolder and SimilarityFilter have no default.
func Default() Sieve {
	return Sieve{
		EValue:             DefaultEValue,
		MinPercentIdentity: DefaultMinPercentIdentity,
		MaxTargetSeqs:      DefaultMaxTargetSeqs,
		DegreeMode:         DefaultDegreeMode,
		TieBreak:           DefaultTieBreak,
		Threads:            1,
		LogLevel:           DefaultLogLevel,
	}
}

// Load reads a YAML file over Default(). Unknown keys are rejected.
func Load(path string) (Sieve, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// EdgeView returns MinEdgeView, falling back to SimilarityFilter.
func (s Sieve) EdgeView() float64 {
	if s.MinEdgeView == 0 {
		return s.SimilarityFilter
	}

	return s.MinEdgeView
}

// Validate returns a *qcerr.ConfigurationError listing every invalid field,
// or nil.
func (s Sieve) Validate() error {
	ce := &qcerr.ConfigurationError{}
	outside := func(v, lo, hi float64) bool { return math.IsNaN(v) || v <= lo || v > hi }

	switch {
	case s.GenbankFolder == "":
		ce.Add("--genbank_folder is required.")
	case strings.Contains(s.GenbankFolder, "/") && strings.Contains(s.GenbankFolder, `\`):
		ce.Add("--genbank_folder path cannot contain forward and backward slashes.")
	default:
		if info, err := os.Stat(s.GenbankFolder); err != nil || !info.IsDir() {
			ce.Add("--genbank_folder dir does not exist.")
		}
	}
	if outside(s.SimilarityFilter, 0, 100) {
		ce.Add("--similarity_filter must be between >0 and <=100.")
	}
	if s.MinEdgeView != 0 {
		if outside(s.MinEdgeView, 0, 100) {
			ce.Add("--min_edge_view must be between >0 and <=100.")
		} else if s.MinEdgeView > s.SimilarityFilter {
			ce.Add("--min_edge_view must be <= similarity_filter.")
		}
	}
	if outside(s.EValue, 0, 1) {
		ce.Add("--e_value must be between >0 and <=1.")
	}
	if outside(s.MinPercentIdentity, 0, 100) {
		ce.Add("--min_percent_identity must be between >0 and <=100.")
	}
	if s.MaxTargetSeqs <= 0 {
		ce.Add("--max_target_seqs must be between >0.")
	}
	if s.Threads < 1 {
		ce.Add("--threads must be >0.")
	}
	if _, err := s.pruneOptions(); err != nil {
		ce.Add("%s", err.Error())
	}

	return ce.OrNil()
}

// PruneOptions maps DegreeMode and TieBreak onto prune options.
// Call Validate first; unknown values fall back to the defaults.
func (s Sieve) PruneOptions() []prune.Option {
	opts, _ := s.pruneOptions()

	return opts
}

func (s Sieve) pruneOptions() ([]prune.Option, error) {
	var opts []prune.Option
	switch strings.ToLower(s.DegreeMode) {
	case "", "weighted":
		opts = append(opts, prune.WithDegreeMode(prune.DegreeWeighted))
	case "count":
		opts = append(opts, prune.WithDegreeMode(prune.DegreeCount))
	default:
		return nil, errors.New("--degree_mode must be weighted or count.")
	}
	switch strings.ToLower(s.TieBreak) {
	case "", "smallest":
		opts = append(opts, prune.WithTieBreak(prune.RemoveSmallestID))
	case "largest":
		opts = append(opts, prune.WithTieBreak(prune.RemoveLargestID))
	default:
		return nil, errors.New("--tie_break must be smallest or largest.")
	}

	return opts, nil
}
