// SPDX-License-Identifier: MIT

package sieve

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/katalvlaran/syntenyqc/bfs"
	"github.com/katalvlaran/syntenyqc/blast"
	"github.com/katalvlaran/syntenyqc/config"
	"github.com/katalvlaran/syntenyqc/genbank"
	"github.com/katalvlaran/syntenyqc/prune"
	"github.com/katalvlaran/syntenyqc/rbh"
	"github.com/katalvlaran/syntenyqc/report"
	"github.com/katalvlaran/syntenyqc/similarity"
	"github.com/katalvlaran/syntenyqc/store"
)

// FASTAFile is the all-proteins FASTA handed to the scorer.
const FASTAFile = "all_proteins.fasta"

// Run executes the pipeline for p.
//
// Implementation:
//   - Stage 1: Validate p and resolve the results directory (default
//     <genbank_folder>/ClusterSieve, suffixed (n) when taken).
//   - Stage 2: Load records, score all proteins, build the RBH matrix and the
//     similarity graph.
//   - Stage 3: Prune, write the survivors and verify the written set equals
//     the pruned set.
//   - Stage 4: Write the graph, histogram and matrix reports.
//   - Stage 5: Persist the run when a store is configured, including failed
//     runs that got past validation.
//
// Errors:
//   - *qcerr.ConfigurationError for invalid parameters (nothing is written).
//   - *qcerr.InvariantViolationError when written and pruned sets differ; no
//     report is produced.
//   - Stage errors wrapped as "sieve: <stage>: ...".
func (s *Sieve) Run(ctx context.Context, p config.Sieve) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	started := s.now()
	if p.ResultsDir == "" {
		dir, err := MakeDirname(p.GenbankFolder, config.DefaultResultsBase)
		if err != nil {
			return nil, fmt.Errorf("sieve: results dir: %w", err)
		}
		p.ResultsDir = dir
	}
	if err := os.MkdirAll(p.ResultsDir, 0o755); err != nil {
		return nil, fmt.Errorf("sieve: results dir: %w", err)
	}
	s.logger.Info(parameterBlock(p))
	s.logger.Debug("sieve options",
		zap.Int("max_target_seqs", p.MaxTargetSeqs),
		zap.Int("threads", p.Threads),
		zap.String("degree_mode", p.DegreeMode),
		zap.String("tie_break", p.TieBreak),
	)

	res := &Result{ResultsDir: p.ResultsDir}
	err := s.run(ctx, p, res)
	if err != nil {
		res.State = StateFailed
	}
	if s.store != nil {
		id, serr := s.store.SaveRun(ctx, runRecord(p, res, started, s.now(), err))
		switch {
		case serr != nil && err == nil:
			return nil, fmt.Errorf("sieve: store: %w", serr)
		case serr != nil:
			s.logger.Warn("could not record failed run", zap.Error(serr))
		default:
			res.RunID = id
		}
	}
	if err != nil {
		return nil, err
	}

	return res, nil
}

func (s *Sieve) run(ctx context.Context, p config.Sieve, res *Result) error {
	ctx, span := s.tracer.Start(ctx, "sieve.run",
		trace.WithAttributes(
			attribute.String("genbank_folder", p.GenbankFolder),
			attribute.Float64("similarity_filter", p.SimilarityFilter),
		))
	defer span.End()

	var records []*genbank.Record
	err := s.stage(ctx, "load", func(ctx context.Context, span trace.Span) error {
		var err error
		if records, err = s.load(ctx, p); err != nil {
			return err
		}
		span.SetAttributes(attribute.Int("records", len(records)))
		return nil
	})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		s.logger.Warn(fmt.Sprintf("No genbank (.gbk, .gb) files in %s", p.GenbankFolder))
	}
	byID := make(map[string]*genbank.Record, len(records))
	for _, r := range records {
		if _, dup := byID[r.ID]; dup {
			return fmt.Errorf("sieve: load: %w: %q", genbank.ErrDuplicateRecord, r.ID)
		}
		byID[r.ID] = r
	}
	res.Records = genbank.IDs(records)
	sort.Strings(res.Records)
	res.State = StateLoaded

	var hits []rbh.Hit
	err = s.stage(ctx, "score", func(ctx context.Context, span trace.Span) error {
		var err error
		if hits, err = s.score(ctx, p, records); err != nil {
			return err
		}
		span.SetAttributes(attribute.Int("hits", len(hits)))
		return nil
	})
	if err != nil {
		return err
	}
	res.Hits = len(hits)
	res.State = StateScored

	err = s.stage(ctx, "matrix", func(ctx context.Context, span trace.Span) error {
		m, err := rbh.Build(hits, p.MinPercentIdentity,
			rbh.WithRecordSizes(genbank.SizeMap(records)),
			rbh.WithMaxEValue(p.EValue),
		)
		if err != nil {
			return err
		}
		span.SetAttributes(attribute.Int("pairs", m.Len()))
		res.Matrix = m
		return nil
	})
	if err != nil {
		return err
	}
	res.State = StateMatrixed

	err = s.stage(ctx, "graph", func(ctx context.Context, _ trace.Span) error {
		g, err := similarity.FromMatrix(res.Matrix, res.Records)
		if err != nil {
			return err
		}
		res.Graph = g
		return nil
	})
	if err != nil {
		return err
	}
	res.State = StateGraphed
	s.logger.Debug("similarity graph built",
		zap.Int("nodes", res.Graph.VertexCount()),
		zap.Int("edges", res.Graph.EdgeCount()))

	err = s.stage(ctx, "prune", func(ctx context.Context, span trace.Span) error {
		pg, err := prune.Prune(res.Graph, p.SimilarityFilter, p.PruneOptions()...)
		if err != nil {
			return err
		}
		span.SetAttributes(
			attribute.Int("kept", len(pg.Nodes)),
			attribute.StringSlice("removed", pg.Removed),
		)
		res.Pruned = pg
		return nil
	})
	if err != nil {
		return err
	}
	res.State = StatePruned

	err = s.stage(ctx, "verify", func(ctx context.Context, _ trace.Span) error {
		written, err := s.writer.WriteNodes(ctx, res.Pruned.Nodes, byID, res.ResultsDir)
		if err != nil {
			return err
		}
		if verr := res.Pruned.Verify(written); verr != nil {
			s.logger.Error(verr.Error())
			return verr
		}
		res.Written = written
		return nil
	})
	if err != nil {
		return err
	}
	res.State = StateVerified
	s.logger.Info(fmt.Sprintf("Pruned graph - written %d out of %d initial neighbourhoods to %s",
		len(res.Written), res.Graph.VertexCount(), res.ResultsDir))

	return s.stage(ctx, "report", func(ctx context.Context, _ trace.Span) error {
		return s.report(p, res)
	})
}

// stage runs fn inside a child span named sieve.<name>.
func (s *Sieve) stage(ctx context.Context, name string, fn func(context.Context, trace.Span) error) error {
	ctx, span := s.tracer.Start(ctx, "sieve."+name)
	defer span.End()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("sieve: %s: %w", name, err)
	}
	if err := fn(ctx, span); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("sieve: %s: %w", name, err)
	}

	return nil
}

func (s *Sieve) load(ctx context.Context, p config.Sieve) ([]*genbank.Record, error) {
	if s.loader != nil {
		return s.loader.Load(ctx, p.GenbankFolder)
	}

	return genbank.LoadFolder(ctx, p.GenbankFolder, genbank.WithWorkers(p.Threads))
}

// score writes every protein to a scratch FASTA inside the results directory,
// runs the scorer on it and maps the aliased sequence IDs back to records.
// Fewer than two records with proteins cannot produce a cross-record hit, so
// the scorer is skipped.
func (s *Sieve) score(ctx context.Context, p config.Sieve, records []*genbank.Record) ([]rbh.Hit, error) {
	withProteins := 0
	for _, r := range records {
		if r.Size() > 0 {
			withProteins++
		}
	}
	if withProteins < 2 {
		s.logger.Debug("skipping all-vs-all search", zap.Int("records_with_proteins", withProteins))
		return nil, nil
	}

	work, err := os.MkdirTemp(p.ResultsDir, ".blast-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(work)

	fasta := filepath.Join(work, FASTAFile)
	f, err := os.Create(fasta)
	if err != nil {
		return nil, err
	}
	aliases, err := genbank.WriteFASTA(f, records)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err = f.Close(); err != nil {
		return nil, err
	}

	hits, err := s.scorer.Score(ctx, fasta, blast.Params{
		EValue:        p.EValue,
		MaxTargetSeqs: p.MaxTargetSeqs,
		Threads:       p.Threads,
		WorkDir:       work,
	})
	if err != nil {
		return nil, err
	}

	return unalias(hits, aliases)
}

// unalias rewrites the FASTA aliases in hits back to record IDs.
func unalias(hits []rbh.Hit, aliases *genbank.Aliases) ([]rbh.Hit, error) {
	out := make([]rbh.Hit, len(hits))
	for i, h := range hits {
		q, ok := aliases.Record(h.Query.Record)
		if !ok {
			return nil, fmt.Errorf("%w: query %s", genbank.ErrUnknownAlias, h.Query)
		}
		t, ok := aliases.Record(h.Target.Record)
		if !ok {
			return nil, fmt.Errorf("%w: target %s", genbank.ErrUnknownAlias, h.Target)
		}
		h.Query.Record, h.Target.Record = q, t
		out[i] = h
	}

	return out, nil
}

func (s *Sieve) report(p config.Sieve, res *Result) error {
	total := res.Graph.VertexCount()

	res.GraphPath = filepath.Join(res.ResultsDir, report.GraphFile)
	if err := s.reporter.WriteGraph(res.Graph, res.Pruned, res.GraphPath, p.SimilarityFilter, p.EdgeView()); err != nil {
		return err
	}
	s.logger.Info(fmt.Sprintf("Made RBH graph of %d unpruned neighbourhoods - written to %s", total, res.GraphPath))

	res.HistogramPath = filepath.Join(res.ResultsDir, report.HistogramFile)
	if err := s.reporter.WriteHistogram(res.Graph, res.HistogramPath); err != nil {
		return err
	}
	s.logger.Info(fmt.Sprintf("Made histogram showing the distribution of RBH similarities between all %d neighbourhoods - written to %s",
		total, res.HistogramPath))

	res.MatrixPath = filepath.Join(res.ResultsDir, report.MatrixFile)
	if err := s.reporter.WriteMatrix(res.Graph, res.MatrixPath); err != nil {
		return err
	}
	s.logger.Debug("similarity matrix written", zap.String("path", res.MatrixPath))

	clusters, err := bfs.Clusters(res.Graph, p.SimilarityFilter)
	if err != nil {
		return err
	}
	res.Clusters = len(clusters)
	s.logger.Debug("redundant clusters", zap.Int("clusters", res.Clusters))

	return nil
}

// parameterBlock renders the run parameters as the log header.
func parameterBlock(p config.Sieve) string {
	var sb strings.Builder
	sb.WriteString("---PARAMETERS---\nCommand: sieve\n")
	for _, kv := range [][2]string{
		{"genbank_folder", p.GenbankFolder},
		{"e_value", formatFloat(p.EValue)},
		{"min_percent_identity", formatFloat(p.MinPercentIdentity)},
		{"similarity_filter", formatFloat(p.SimilarityFilter)},
		{"results_dir", p.ResultsDir},
		{"min_edge_view", formatFloat(p.EdgeView())},
	} {
		sb.WriteString(kv[0])
		sb.WriteString(": ")
		sb.WriteString(kv[1])
		sb.WriteByte('\n')
	}
	sb.WriteString("\n\n")

	return sb.String()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// runRecord converts a (possibly partial) result into a store row.
func runRecord(p config.Sieve, res *Result, started, finished time.Time, err error) store.Run {
	r := store.Run{
		StartedAt:          started,
		FinishedAt:         finished,
		Status:             store.StatusVerified,
		GenbankFolder:      p.GenbankFolder,
		ResultsDir:         res.ResultsDir,
		SimilarityFilter:   p.SimilarityFilter,
		EValue:             p.EValue,
		MinPercentIdentity: p.MinPercentIdentity,
		Total:              len(res.Records),
	}
	if err != nil {
		r.Status = store.StatusFailed
		r.Error = err.Error()
	}
	if res.Pruned != nil {
		r.Kept = len(res.Pruned.Nodes)
		step := make(map[string]int, len(res.Pruned.Removed))
		for i, id := range res.Pruned.Removed {
			step[id] = i + 1
		}
		for _, id := range res.Records {
			r.Nodes = append(r.Nodes, store.Node{ID: id, Kept: step[id] == 0, Step: step[id]})
		}
	}
	if res.Matrix != nil {
		for _, e := range res.Matrix.Pairs() {
			r.Edges = append(r.Edges, store.Edge{A: e.A, B: e.B, Score: e.Score})
		}
	}

	return r
}
