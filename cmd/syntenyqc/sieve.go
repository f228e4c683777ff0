// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/syntenyqc/config"
	"github.com/katalvlaran/syntenyqc/logging"
	"github.com/katalvlaran/syntenyqc/sieve"
	"github.com/katalvlaran/syntenyqc/store"
	"github.com/katalvlaran/syntenyqc/telemetry"
)

// Files written next to the sieve results.
const (
	logFile   = "log.txt"
	traceFile = "trace.json"
)

// overrides copies a flag's value from src into dst when the flag was set.
var overrides = map[string]func(dst *config.Sieve, src config.Sieve){
	"genbank_folder":       func(d *config.Sieve, s config.Sieve) { d.GenbankFolder = s.GenbankFolder },
	"results_dir":          func(d *config.Sieve, s config.Sieve) { d.ResultsDir = s.ResultsDir },
	"e_value":              func(d *config.Sieve, s config.Sieve) { d.EValue = s.EValue },
	"min_percent_identity": func(d *config.Sieve, s config.Sieve) { d.MinPercentIdentity = s.MinPercentIdentity },
	"max_target_seqs":      func(d *config.Sieve, s config.Sieve) { d.MaxTargetSeqs = s.MaxTargetSeqs },
	"similarity_filter":    func(d *config.Sieve, s config.Sieve) { d.SimilarityFilter = s.SimilarityFilter },
	"min_edge_view":        func(d *config.Sieve, s config.Sieve) { d.MinEdgeView = s.MinEdgeView },
	"degree_mode":          func(d *config.Sieve, s config.Sieve) { d.DegreeMode = s.DegreeMode },
	"tie_break":            func(d *config.Sieve, s config.Sieve) { d.TieBreak = s.TieBreak },
	"threads":              func(d *config.Sieve, s config.Sieve) { d.Threads = s.Threads },
	"db":                   func(d *config.Sieve, s config.Sieve) { d.Database = s.Database },
	"trace":                func(d *config.Sieve, s config.Sieve) { d.Trace = s.Trace },
	"log_level":            func(d *config.Sieve, s config.Sieve) { d.LogLevel = s.LogLevel },
}

func newSieveCmd(extra ...sieve.Option) *cobra.Command {
	var configPath string
	flags := config.Default()

	cmd := &cobra.Command{
		Use:   "sieve",
		Short: "Prune redundant neighbourhoods from a GenBank folder",
		Long: `Run an all-vs-all BLASTP search over every protein in the GenBank folder,
score neighbourhood pairs by reciprocal best hits, and greedily remove the most
connected neighbourhood until no pair reaches --similarity_filter (percent).
Survivors are copied to the results directory with an HTML graph, a histogram
and the similarity matrix.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := flags
			if configPath != "" {
				fromFile, err := config.Load(configPath)
				if err != nil {
					return err
				}
				p = fromFile
				for name, apply := range overrides {
					if cmd.Flags().Changed(name) {
						apply(&p, flags)
					}
				}
			}

			return runSieve(cmd, p, extra)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML file with sieve parameters; flags override it")
	f.StringVarP(&flags.GenbankFolder, "genbank_folder", "g", "", "folder of .gbk/.gb neighbourhood files")
	f.StringVarP(&flags.ResultsDir, "results_dir", "o", "", "output folder (default <genbank_folder>/ClusterSieve)")
	f.Float64VarP(&flags.EValue, "e_value", "e", flags.EValue, "maximum BLASTP e-value")
	f.Float64VarP(&flags.MinPercentIdentity, "min_percent_identity", "i", flags.MinPercentIdentity,
		"minimum percent identity of a reciprocal best hit")
	f.IntVarP(&flags.MaxTargetSeqs, "max_target_seqs", "t", flags.MaxTargetSeqs, "BLASTP -max_target_seqs")
	f.Float64VarP(&flags.SimilarityFilter, "similarity_filter", "s", 0,
		"neighbourhood pairs scoring at or above this percent are redundant")
	f.Float64VarP(&flags.MinEdgeView, "min_edge_view", "m", 0,
		"hide graph edges below this percent (default similarity_filter)")
	f.StringVar(&flags.DegreeMode, "degree_mode", flags.DegreeMode, "node ranking while pruning: weighted or count")
	f.StringVar(&flags.TieBreak, "tie_break", flags.TieBreak, "which ID to remove on equal degree: smallest or largest")
	f.IntVar(&flags.Threads, "threads", flags.Threads, "BLASTP threads and parallel GenBank parsers")
	f.StringVar(&flags.Database, "db", "", "SQLite file that records runs")
	f.BoolVar(&flags.Trace, "trace", false, "write OpenTelemetry spans to trace.json in the results dir")
	f.StringVar(&flags.LogLevel, "log_level", flags.LogLevel, "debug, info, warn or error")

	return cmd
}

func runSieve(cmd *cobra.Command, p config.Sieve, extra []sieve.Option) (err error) {
	ctx := cmd.Context()
	if err = p.Validate(); err != nil {
		return err
	}
	if p.ResultsDir == "" {
		if p.ResultsDir, err = sieve.MakeDirname(p.GenbankFolder, config.DefaultResultsBase); err != nil {
			return err
		}
	}
	if err = os.MkdirAll(p.ResultsDir, 0o755); err != nil {
		return err
	}

	logger, closeLog, err := logging.New(p.LogLevel, filepath.Join(p.ResultsDir, logFile), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	opts := []sieve.Option{sieve.WithLogger(logger)}
	if p.Trace {
		shutdown, err := startTrace(filepath.Join(p.ResultsDir, traceFile))
		if err != nil {
			return err
		}
		defer func() {
			if serr := shutdown(context.WithoutCancel(ctx)); serr != nil {
				logger.Warn("trace shutdown", zap.Error(serr))
			}
		}()
		opts = append(opts, sieve.WithTracer(telemetry.Tracer()))
	}
	if p.Database != "" {
		st, err := store.Open(ctx, p.Database)
		if err != nil {
			return err
		}
		defer st.Close()
		opts = append(opts, sieve.WithStore(st))
	}

	res, err := sieve.New(append(opts, extra...)...).Run(ctx, p)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "kept %d of %d neighbourhoods in %s\n", len(res.Written), len(res.Records), res.ResultsDir)
	if res.RunID != "" {
		fmt.Fprintf(out, "run %s\n", res.RunID)
	}

	return nil
}

// startTrace installs the stdout exporter writing to path and returns a
// func that flushes the provider and closes the file.
func startTrace(path string) (func(context.Context) error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	shutdown, err := telemetry.Init(f, version)
	if err != nil {
		f.Close()
		return nil, err
	}

	return func(ctx context.Context) error {
		serr := shutdown(ctx)
		if cerr := f.Close(); serr == nil {
			serr = cerr
		}
		return serr
	}, nil
}
