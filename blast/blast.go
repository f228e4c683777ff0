// SPDX-License-Identifier: MIT

// Package blast produces the all-vs-all protein hits the RBH builder reduces.
//
// BLASTP drives the NCBI BLAST+ binaries (makeblastdb, blastp) through a
// Runner so tests can substitute the external processes. Hits are read from
// tabular output with the columns "qseqid sseqid pident evalue".
package blast

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/katalvlaran/syntenyqc/rbh"
)

// OutFormat is the blastp -outfmt value ParseTabular understands.
const OutFormat = "6 qseqid sseqid pident evalue"

// ErrTool is returned when an external BLAST+ command fails.
var ErrTool = errors.New("blast: external command failed")

// Params controls one all-vs-all search.
type Params struct {
	EValue        float64
	MaxTargetSeqs int
	Threads       int
	// WorkDir receives the BLAST database; it must exist.
	WorkDir string
}

// Scorer computes pairwise hits between every protein in a FASTA file.
type Scorer interface {
	Score(ctx context.Context, fastaPath string, p Params) ([]rbh.Hit, error)
}

// Runner executes an external command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args; stderr is folded into the error on failure.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v: %s", ErrTool, name, err, bytes.TrimSpace(stderr.Bytes()))
	}

	return stdout.Bytes(), nil
}

// BLASTP scores proteins with makeblastdb + blastp.
type BLASTP struct {
	Runner Runner
	// MakeDBPath and SearchPath name the BLAST+ binaries.
	MakeDBPath  string
	SearchPath  string
	Logger      *zap.Logger
	DatabaseTag string
}

// NewBLASTP returns a BLASTP using binaries from PATH.
func NewBLASTP(logger *zap.Logger) *BLASTP {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &BLASTP{
		Runner:      ExecRunner{},
		MakeDBPath:  "makeblastdb",
		SearchPath:  "blastp",
		Logger:      logger,
		DatabaseTag: "all_proteins",
	}
}

// Score builds a protein database from fastaPath and searches it with itself.
// Failures propagate; nothing is retried.
func (b *BLASTP) Score(ctx context.Context, fastaPath string, p Params) ([]rbh.Hit, error) {
	if p.Threads < 1 {
		p.Threads = 1
	}
	db := filepath.Join(p.WorkDir, b.DatabaseTag)
	mkArgs := []string{"-in", fastaPath, "-dbtype", "prot", "-out", db}
	b.Logger.Debug("building blast database", zap.String("cmd", b.MakeDBPath), zap.Strings("args", mkArgs))
	if _, err := b.Runner.Run(ctx, b.MakeDBPath, mkArgs...); err != nil {
		return nil, err
	}

	args := []string{
		"-query", fastaPath,
		"-db", db,
		"-evalue", strconv.FormatFloat(p.EValue, 'g', -1, 64),
		"-max_target_seqs", strconv.Itoa(p.MaxTargetSeqs),
		"-num_threads", strconv.Itoa(p.Threads),
		"-outfmt", OutFormat,
	}
	b.Logger.Debug("running all-vs-all search", zap.String("cmd", b.SearchPath), zap.Strings("args", args))
	out, err := b.Runner.Run(ctx, b.SearchPath, args...)
	if err != nil {
		return nil, err
	}
	hits, err := ParseTabular(bytes.NewReader(out))
	if err != nil {
		return nil, err
	}
	b.Logger.Debug("parsed hits", zap.Int("hits", len(hits)))

	return hits, nil
}
