// SPDX-License-Identifier: MIT
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/syntenyqc/blast"
	"github.com/katalvlaran/syntenyqc/genbank"
	"github.com/katalvlaran/syntenyqc/qcerr"
	"github.com/katalvlaran/syntenyqc/rbh"
	"github.com/katalvlaran/syntenyqc/sieve"
)

// cannedScorer holds hits written with record IDs and reports them under the
// aliases of the FASTA it is given.
type cannedScorer []rbh.Hit

func (c cannedScorer) Score(_ context.Context, fastaPath string, _ blast.Params) ([]rbh.Hit, error) {
	f, err := os.Open(fastaPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	aliases, err := genbank.ReadAliases(f)
	if err != nil {
		return nil, err
	}

	out := make([]rbh.Hit, len(c))
	for i, h := range c {
		h.Query.Record, _ = aliases.Alias(h.Query.Record)
		h.Target.Record, _ = aliases.Alias(h.Target.Record)
		out[i] = h
	}

	return out, nil
}

// neighbourhoods writes file1..file4 and returns hits that make file1 and
// file2 redundant at a 50% filter.
func neighbourhoods(t *testing.T) (string, cannedScorer) {
	t.Helper()
	dir := t.TempDir()
	for name, n := range map[string]int{"file1": 2, "file2": 2, "file3": 3, "file4": 2} {
		var sb strings.Builder
		fmt.Fprintf(&sb, "LOCUS       %s    900 bp    DNA     linear   BCT 01-JAN-2000\n", name)
		sb.WriteString("FEATURES             Location/Qualifiers\n")
		for i := 0; i < n; i++ {
			fmt.Fprintf(&sb, "     CDS             %d..%d\n", i*300+1, i*300+300)
			fmt.Fprintf(&sb, "                     /translation=\"MKV%d\"\n", i)
		}
		sb.WriteString("//\n")
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".gbk"), []byte(sb.String()), 0o644))
	}

	var hits cannedScorer
	for _, p := range [][2]string{
		{"file1|0", "file2|0"}, {"file1|0", "file3|0"}, {"file1|0", "file4|0"},
		{"file2|0", "file3|0"}, {"file2|0", "file4|0"}, {"file1|1", "file3|1"},
	} {
		for _, d := range [][2]string{p, {p[1], p[0]}} {
			hits = append(hits, rbh.Hit{
				Query: rbh.ParseSeqID(d[0]), Target: rbh.ParseSeqID(d[1]),
				PercentIdentity: 80, EValue: 1e-50,
			})
		}
	}

	return dir, hits
}

func execute(t *testing.T, args []string, extra ...sieve.Option) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(extra...)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func TestSieveCmd_InvalidParameters(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, []string{"sieve", "-g", dir, "-e", "5"})
	require.ErrorIs(t, err, qcerr.ErrConfiguration)
	assert.Contains(t, err.Error(), "--similarity_filter must be between >0 and <=100.")
	assert.Contains(t, err.Error(), "--e_value must be between >0 and <=1.")
	assert.NoDirExists(t, filepath.Join(dir, "ClusterSieve"))
}

func TestSieveCmd_RunRecordsAndTraces(t *testing.T) {
	dir, hits := neighbourhoods(t)
	db := filepath.Join(t.TempDir(), "runs.db")

	out, stderr, err := execute(t,
		[]string{"sieve", "-g", dir, "-s", "50", "-e", "0.1", "--db", db, "--trace"},
		sieve.WithScorer(hits))
	require.NoError(t, err)

	results := filepath.Join(dir, "ClusterSieve")
	assert.Contains(t, out, "kept 2 of 4 neighbourhoods in "+results)
	assert.Contains(t, stderr, "---PARAMETERS---")

	logText, err := os.ReadFile(filepath.Join(results, logFile))
	require.NoError(t, err)
	assert.Contains(t, string(logText), "Pruned graph - written 2 out of 4 initial neighbourhoods to "+results)

	traceText, err := os.ReadFile(filepath.Join(results, traceFile))
	require.NoError(t, err)
	assert.Contains(t, string(traceText), `"Name": "sieve.prune"`)

	id := regexp.MustCompile(`run ([0-9a-f-]{36})`).FindStringSubmatch(out)
	require.Len(t, id, 2)

	listing, _, err := execute(t, []string{"runs", "--db", db})
	require.NoError(t, err)
	assert.Contains(t, listing, id[1])
	assert.Contains(t, listing, "VERIFIED")
	assert.Contains(t, listing, "2/4")

	detail, _, err := execute(t, []string{"runs", "--db", db, "--run", id[1]})
	require.NoError(t, err)
	assert.Regexp(t, `file1\s+false\s+1`, detail)
	assert.Regexp(t, `file3\s+true\s+-`, detail)

	_, _, err = execute(t, []string{"runs", "--db", db, "--run", "missing"})
	assert.Error(t, err)
}

func TestSieveCmd_ConfigFileWithFlagOverride(t *testing.T) {
	dir, hits := neighbourhoods(t)
	results := filepath.Join(t.TempDir(), "out")
	cfg := filepath.Join(t.TempDir(), "sieve.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(
		"genbank_folder: "+dir+"\nsimilarity_filter: 100\ne_value: 0.1\nlog_level: warn\n"), 0o644))

	// file1–file3 scores 100, so the file alone removes one record
	out, _, err := execute(t, []string{"sieve", "-c", cfg, "-o", results}, sieve.WithScorer(hits))
	require.NoError(t, err)
	assert.Contains(t, out, "kept 3 of 4 neighbourhoods in "+results)

	out, _, err = execute(t, []string{"sieve", "-c", cfg, "-o", results + "2", "-s", "50"}, sieve.WithScorer(hits))
	require.NoError(t, err)
	assert.Contains(t, out, "kept 2 of 4 neighbourhoods")
}

func TestRunsCmd_RequiresDB(t *testing.T) {
	_, _, err := execute(t, []string{"runs"})
	assert.ErrorIs(t, err, qcerr.ErrConfiguration)
}
