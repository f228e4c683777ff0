// SPDX-License-Identifier: MIT

package rbh

import (
	"errors"
	"strings"
)

// Sentinel errors for RBH construction.
var (
	// ErrBadHit is returned for hits with empty IDs, NaN values, negative
	// e-values or identities outside [0,100].
	ErrBadHit = errors.New("rbh: malformed hit")

	// ErrSelfPair is returned when a matrix entry pairs a record with itself.
	ErrSelfPair = errors.New("rbh: self pair")

	// ErrScoreRange is returned when a score falls outside (0,100].
	ErrScoreRange = errors.New("rbh: score out of range")

	// ErrSizeMismatch is returned when a supplied record size is smaller
	// than the number of distinct sequences observed for that record.
	ErrSizeMismatch = errors.New("rbh: record size smaller than observed sequences")
)

// idSeparator joins record and protein in FASTA headers ("file1|0").
const idSeparator = "|"

// SeqID identifies one sequence: the record (neighbourhood) it belongs to and
// its protein key inside that record. Protein is empty for single-sequence records.
type SeqID struct {
	Record  string
	Protein string
}

// ParseSeqID splits "record|protein" at the last separator.
// An ID without separator is a whole-record sequence.
func ParseSeqID(s string) SeqID {
	i := strings.LastIndex(s, idSeparator)
	if i < 0 {
		return SeqID{Record: s}
	}

	return SeqID{Record: s[:i], Protein: s[i+1:]}
}

// String renders the ID as "record|protein", or "record" when Protein is empty.
func (s SeqID) String() string {
	if s.Protein == "" {
		return s.Record
	}

	return s.Record + idSeparator + s.Protein
}

// Hit is one aligned query→target pair as reported by the aligner.
type Hit struct {
	Query           SeqID
	Target          SeqID
	PercentIdentity float64
	EValue          float64
}

// Link is one reciprocal sequence pair backing a matrix entry.
// A belongs to the lexicographically smaller record.
type Link struct {
	A               SeqID
	B               SeqID
	PercentIdentity float64 // mean of both directions
}

// Entry is one matrix cell for the unordered pair {A,B}, A < B.
type Entry struct {
	A     string
	B     string
	Score float64
}

// Options configures Build.
type Options struct {
	sizes     map[string]int
	maxEValue float64 // 0 disables the cutoff
}

// Option mutates Options.
type Option func(*Options)

// WithRecordSizes supplies the protein count of each record. Records missing
// from sizes fall back to the number of distinct sequences seen in the hits.
func WithRecordSizes(sizes map[string]int) Option {
	return func(o *Options) { o.sizes = sizes }
}

// WithMaxEValue drops hits whose e-value exceeds e before best-hit selection.
// e <= 0 disables the cutoff.
func WithMaxEValue(e float64) Option {
	return func(o *Options) { o.maxEValue = e }
}
