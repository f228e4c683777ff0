// SPDX-License-Identifier: MIT

package blast

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/syntenyqc/rbh"
)

// ErrMalformedRow is returned for a tabular row that cannot be parsed.
var ErrMalformedRow = errors.New("blast: malformed tabular row")

// ParseTabular reads rows of "qseqid sseqid pident evalue" separated by tabs.
// Blank lines and '#' comments are skipped; extra columns are ignored.
func ParseTabular(r io.Reader) ([]rbh.Hit, error) {
	var hits []rbh.Hit
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		cols := strings.Split(text, "\t")
		if len(cols) < 4 {
			return nil, fmt.Errorf("%w: line %d: want 4 columns, got %d", ErrMalformedRow, line, len(cols))
		}
		pid, err := strconv.ParseFloat(strings.TrimSpace(cols[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: pident %q", ErrMalformedRow, line, cols[2])
		}
		ev, err := strconv.ParseFloat(strings.TrimSpace(cols[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: evalue %q", ErrMalformedRow, line, cols[3])
		}
		hits = append(hits, rbh.Hit{
			Query:           rbh.ParseSeqID(strings.TrimSpace(cols[0])),
			Target:          rbh.ParseSeqID(strings.TrimSpace(cols[1])),
			PercentIdentity: pid,
			EValue:          ev,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("blast: read: %w", err)
	}

	return hits, nil
}
