// SPDX-License-Identifier: MIT

package rbh

import (
	"math"
	"sort"

	"github.com/katalvlaran/syntenyqc/core"
)

// Matrix maps unordered record pairs to a similarity score in (0,100].
// score(a,b) == score(b,a) always holds because the key is canonical;
// self pairs cannot be stored.
type Matrix struct {
	scores map[core.EdgeKey]float64
	links  map[core.EdgeKey][]Link
}

// NewMatrix returns an empty matrix.
func NewMatrix() *Matrix {
	return &Matrix{
		scores: make(map[core.EdgeKey]float64),
		links:  make(map[core.EdgeKey][]Link),
	}
}

// Set stores score for {a,b}, replacing any previous value. Links recorded
// by Build for the pair are dropped, since they no longer back the score.
//
// Errors:
//   - ErrSelfPair if a == b; ErrBadHit if either ID is empty.
//   - ErrScoreRange if score is NaN or outside (0,100].
func (m *Matrix) Set(a, b string, score float64) error {
	if a == "" || b == "" {
		return ErrBadHit
	}
	if a == b {
		return ErrSelfPair
	}
	if math.IsNaN(score) || score <= 0 || score > 100 {
		return ErrScoreRange
	}
	key := core.Key(a, b)
	m.scores[key] = score
	delete(m.links, key)

	return nil
}

// Score returns the score for {a,b} and whether an entry exists.
func (m *Matrix) Score(a, b string) (float64, bool) {
	s, ok := m.scores[core.Key(a, b)]

	return s, ok
}

// Len returns the number of stored pairs.
func (m *Matrix) Len() int { return len(m.scores) }

// Pairs returns every entry sorted by (A, B).
func (m *Matrix) Pairs() []Entry {
	out := make([]Entry, 0, len(m.scores))
	for k, s := range m.scores {
		out = append(out, Entry{A: k.A, B: k.B, Score: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}

		return out[i].B < out[j].B
	})

	return out
}

// Links returns the reciprocal sequence pairs behind {a,b}, sorted by A.
// Hand-built entries (Set) have no links.
func (m *Matrix) Links(a, b string) []Link {
	return append([]Link(nil), m.links[core.Key(a, b)]...)
}

// Records returns every record named by at least one entry, sorted.
func (m *Matrix) Records() []string {
	seen := make(map[string]struct{}, 2*len(m.scores))
	for k := range m.scores {
		seen[k.A] = struct{}{}
		seen[k.B] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)

	return out
}
