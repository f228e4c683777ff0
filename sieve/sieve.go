// SPDX-License-Identifier: MIT

package sieve

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/katalvlaran/syntenyqc/blast"
	"github.com/katalvlaran/syntenyqc/core"
	"github.com/katalvlaran/syntenyqc/genbank"
	"github.com/katalvlaran/syntenyqc/prune"
	"github.com/katalvlaran/syntenyqc/rbh"
	"github.com/katalvlaran/syntenyqc/report"
	"github.com/katalvlaran/syntenyqc/store"
	"github.com/katalvlaran/syntenyqc/telemetry"
)

// State is a pipeline stage marker.
type State string

// Pipeline states in order of progression.
const (
	StateLoaded   State = "LOADED"
	StateScored   State = "SCORED"
	StateMatrixed State = "MATRIXED"
	StateGraphed  State = "GRAPHED"
	StatePruned   State = "PRUNED"
	StateVerified State = "VERIFIED"
	StateFailed   State = "FAILED"
)

// Loader reads the neighbourhood records of a folder.
type Loader interface {
	Load(ctx context.Context, dir string) ([]*genbank.Record, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, dir string) ([]*genbank.Record, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, dir string) ([]*genbank.Record, error) {
	return f(ctx, dir)
}

// NodeWriter persists the surviving records and reports which record IDs it
// actually wrote.
type NodeWriter interface {
	WriteNodes(ctx context.Context, nodes []string, records map[string]*genbank.Record, resultsDir string) ([]string, error)
}

// Reporter emits the run artefacts.
type Reporter interface {
	WriteGraph(g *core.Graph, pruned *prune.PrunedGraph, path string, filter, minEdgeView float64) error
	WriteHistogram(g *core.Graph, path string) error
	WriteMatrix(g *core.Graph, path string) error
}

// RunStore records finished runs.
type RunStore interface {
	SaveRun(ctx context.Context, r store.Run) (string, error)
}

// Result is the outcome of a verified run.
type Result struct {
	RunID      string
	State      State
	ResultsDir string
	// Records are all loaded record IDs, sorted.
	Records []string
	Hits    int
	Matrix  *rbh.Matrix
	Graph   *core.Graph
	Pruned  *prune.PrunedGraph
	Written []string
	// Clusters counts groups of two or more records joined by violation edges.
	Clusters      int
	GraphPath     string
	HistogramPath string
	MatrixPath    string
}

// Sieve wires the pipeline collaborators.
type Sieve struct {
	logger   *zap.Logger
	loader   Loader
	scorer   blast.Scorer
	writer   NodeWriter
	reporter Reporter
	store    RunStore
	tracer   trace.Tracer
	now      func() time.Time
}

// Option configures a Sieve.
type Option func(*Sieve)

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sieve) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLoader replaces the GenBank folder loader. Without it each run parses
// the folder with genbank.LoadFolder using the run's thread count.
func WithLoader(l Loader) Option {
	return func(s *Sieve) { s.loader = l }
}

// WithScorer replaces the BLAST+ scorer.
func WithScorer(sc blast.Scorer) Option {
	return func(s *Sieve) { s.scorer = sc }
}

// WithNodeWriter replaces the writer that copies surviving records.
func WithNodeWriter(w NodeWriter) Option {
	return func(s *Sieve) { s.writer = w }
}

// WithReporter replaces the report writer.
func WithReporter(r Reporter) Option {
	return func(s *Sieve) { s.reporter = r }
}

// WithStore records every finished run, verified or failed.
func WithStore(st RunStore) Option {
	return func(s *Sieve) { s.store = st }
}

// WithTracer sets the tracer used for stage spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Sieve) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithClock overrides the time source used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Sieve) { s.now = now }
}

// New returns a Sieve backed by the GenBank folder loader, BLAST+ from PATH,
// a copying node writer and the HTML reporter.
func New(opts ...Option) *Sieve {
	s := &Sieve{
		logger:   zap.NewNop(),
		reporter: report.Writer{},
		writer:   CopyWriter{},
		tracer:   telemetry.Tracer(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.scorer == nil {
		s.scorer = blast.NewBLASTP(s.logger)
	}

	return s
}
