// SPDX-License-Identifier: MIT

package sieve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/katalvlaran/syntenyqc/genbank"
)

var (
	// ErrUnknownNode is returned when a node has no loaded record.
	ErrUnknownNode = errors.New("sieve: node has no record")

	// ErrNoSourcePath is returned when a record to copy has no file path.
	ErrNoSourcePath = errors.New("sieve: record has no source file")

	// ErrParentNotDir is returned by MakeDirname when parent is not a directory.
	ErrParentNotDir = errors.New("sieve: parent is not a directory")
)

// CopyWriter copies each surviving record's GenBank file into the results
// directory, then reports the record stems actually present there. Stray
// GenBank files already in the directory therefore show up as written.
type CopyWriter struct{}

// WriteNodes implements NodeWriter.
func (CopyWriter) WriteNodes(ctx context.Context, nodes []string, records map[string]*genbank.Record, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	for _, id := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, ok := records[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, id)
		}
		if rec.Path == "" {
			return nil, fmt.Errorf("%w: %q", ErrNoSourcePath, id)
		}
		if err := copyFile(rec.Path, filepath.Join(dir, filepath.Base(rec.Path))); err != nil {
			return nil, err
		}
	}

	files, err := genbank.Files(dir)
	if err != nil {
		return nil, err
	}
	written := make([]string, len(files))
	for i, f := range files {
		written[i] = genbank.Stem(f)
	}

	return written, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}

	return out.Close()
}
