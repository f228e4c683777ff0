// SPDX-License-Identifier: MIT

package genbank

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// LoadOptions configures LoadFolder.
type LoadOptions struct {
	// Workers bounds concurrent parses; values < 1 mean runtime.NumCPU().
	Workers int
}

// LoadOption configures LoadFolder.
type LoadOption func(*LoadOptions)

// WithWorkers bounds the number of files parsed concurrently.
func WithWorkers(n int) LoadOption {
	return func(o *LoadOptions) { o.Workers = n }
}

// IsGenBank reports whether name carries a .gbk or .gb extension.
func IsGenBank(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gbk", ".gb":
		return true
	}

	return false
}

// Files lists the GenBank files directly inside dir, sorted by name.
// Subdirectories are not descended into.
func Files(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDir, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("genbank: read dir %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !IsGenBank(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)

	return out, nil
}

// LoadFolder parses every GenBank file in dir.
//
// Implementation:
//   - Stage 1: List files and reject duplicate stems (a.gb next to a.gbk).
//   - Stage 2: Parse files in a bounded errgroup; the first failure cancels
//     the rest.
//   - Stage 3: Return records sorted by ID.
//
// An empty folder yields an empty slice and no error.
func LoadFolder(ctx context.Context, dir string, opts ...LoadOption) ([]*Record, error) {
	o := LoadOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Workers < 1 {
		o.Workers = runtime.NumCPU()
	}

	paths, err := Files(dir)
	if err != nil {
		return nil, err
	}
	owner := make(map[string]string, len(paths))
	for _, p := range paths {
		stem := Stem(p)
		if prev, ok := owner[stem]; ok {
			return nil, fmt.Errorf("%w: %q from %s and %s", ErrDuplicateRecord, stem, filepath.Base(prev), filepath.Base(p))
		}
		owner[stem] = p
	}

	records := make([]*Record, len(paths))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(o.Workers)
	for i, p := range paths {
		i, p := i, p
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			rec, err := ParseFile(p)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err = eg.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	return records, nil
}
