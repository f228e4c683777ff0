// SPDX-License-Identifier: MIT

package rbh

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/syntenyqc/core"
	"github.com/katalvlaran/syntenyqc/qcerr"
)

// bestKey addresses "the best hit of query sequence q into record r".
type bestKey struct {
	query  SeqID
	record string
}

// Build reduces hits to an RBH matrix.
//
// Implementation:
//   - Stage 1: Validate minPercentIdentity and every hit; drop self-record hits
//     and hits above the optional e-value cutoff.
//   - Stage 2: Keep the best hit per (query sequence, target record).
//   - Stage 3: Walk best hits in sorted order, keep reciprocal pairs whose
//     identities both reach minPercentIdentity, and group them by record pair.
//   - Stage 4: Score each record pair by RBH count over the smaller record size.
//
// Errors:
//   - *qcerr.ConfigurationError if minPercentIdentity is outside (0,100].
//   - ErrBadHit for malformed hits, ErrSizeMismatch for inconsistent sizes.
//
// Determinism:
//   - Output is independent of hit order (ties broken by target ID).
//
// Complexity:
//   - Time O(H + B log B) for H hits and B best hits, Space O(B).
func Build(hits []Hit, minPercentIdentity float64, opts ...Option) (*Matrix, error) {
	if math.IsNaN(minPercentIdentity) || minPercentIdentity <= 0 || minPercentIdentity > 100 {
		return nil, qcerr.NewConfigurationError("--min_percent_identity must be between >0 and <=100.")
	}
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	best := make(map[bestKey]Hit)
	observed := make(map[string]map[SeqID]struct{})
	for i, h := range hits {
		if err := validateHit(h); err != nil {
			return nil, fmt.Errorf("hit %d (%s→%s): %w", i, h.Query, h.Target, err)
		}
		observe(observed, h.Query)
		observe(observed, h.Target)
		if h.Query.Record == h.Target.Record {
			continue
		}
		if o.maxEValue > 0 && h.EValue > o.maxEValue {
			continue
		}
		k := bestKey{query: h.Query, record: h.Target.Record}
		if cur, ok := best[k]; !ok || better(h, cur) {
			best[k] = h
		}
	}

	sizes, err := recordSizes(o.sizes, observed)
	if err != nil {
		return nil, err
	}

	keys := make([]bestKey, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].query != keys[j].query {
			return keys[i].query.String() < keys[j].query.String()
		}

		return keys[i].record < keys[j].record
	})

	m := NewMatrix()
	for _, k := range keys {
		fwd := best[k]
		// Each reciprocal pair is seen from both sides; handle it once.
		if fwd.Query.Record > fwd.Target.Record {
			continue
		}
		rev, ok := best[bestKey{query: fwd.Target, record: fwd.Query.Record}]
		if !ok || rev.Target != fwd.Query {
			continue
		}
		if fwd.PercentIdentity < minPercentIdentity || rev.PercentIdentity < minPercentIdentity {
			continue
		}
		pair := core.Key(fwd.Query.Record, fwd.Target.Record)
		m.links[pair] = append(m.links[pair], Link{
			A:               fwd.Query,
			B:               fwd.Target,
			PercentIdentity: (fwd.PercentIdentity + rev.PercentIdentity) / 2,
		})
	}

	for pair, links := range m.links {
		smaller := sizes[pair.A]
		if sizes[pair.B] < smaller {
			smaller = sizes[pair.B]
		}
		m.scores[pair] = 100 * float64(len(links)) / float64(smaller)
	}

	return m, nil
}

// better reports whether a outranks b as the best hit into one record.
func better(a, b Hit) bool {
	if a.EValue != b.EValue {
		return a.EValue < b.EValue
	}
	if a.PercentIdentity != b.PercentIdentity {
		return a.PercentIdentity > b.PercentIdentity
	}

	return a.Target.String() < b.Target.String()
}

func validateHit(h Hit) error {
	switch {
	case h.Query.Record == "" || h.Target.Record == "":
		return fmt.Errorf("%w: empty record id", ErrBadHit)
	case math.IsNaN(h.EValue) || h.EValue < 0:
		return fmt.Errorf("%w: e-value %v", ErrBadHit, h.EValue)
	case math.IsNaN(h.PercentIdentity) || h.PercentIdentity < 0 || h.PercentIdentity > 100:
		return fmt.Errorf("%w: percent identity %v", ErrBadHit, h.PercentIdentity)
	}

	return nil
}

func observe(observed map[string]map[SeqID]struct{}, id SeqID) {
	set, ok := observed[id.Record]
	if !ok {
		set = make(map[SeqID]struct{})
		observed[id.Record] = set
	}
	set[id] = struct{}{}
}

// recordSizes merges supplied sizes with observed sequence counts.
func recordSizes(given map[string]int, observed map[string]map[SeqID]struct{}) (map[string]int, error) {
	sizes := make(map[string]int, len(observed))
	for rec, seqs := range observed {
		n, ok := given[rec]
		if !ok {
			sizes[rec] = len(seqs)
			continue
		}
		if n < len(seqs) {
			return nil, fmt.Errorf("%w: %s has size %d but %d sequences in hits", ErrSizeMismatch, rec, n, len(seqs))
		}
		sizes[rec] = n
	}

	return sizes, nil
}
