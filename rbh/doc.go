// SPDX-License-Identifier: MIT

// Package rbh reduces raw all-vs-all alignment hits to a symmetric
// reciprocal-best-hit (RBH) matrix between records (neighbourhoods).
//
// A Hit links two sequences, each identified by a SeqID{Record, Protein}.
// Build proceeds in three steps:
//
//  1. Best hits. For every query sequence and every *other* record, keep the
//     single best hit into that record: lowest e-value, then highest percent
//     identity, then lexicographically smallest target ID.
//  2. Reciprocity. Sequences p (record A) and q (record B) form an RBH pair
//     iff best(p→B) == q and best(q→A) == p, and both directions reach
//     minPercentIdentity (inclusive).
//  3. Scoring. score(A,B) = 100 × |RBH pairs between A and B| / min(|A|, |B|)
//     where |X| is the protein count of record X.
//
// When every record holds a single sequence, step 3 yields 100 for every
// reciprocal pair, i.e. plain record-level RBH.
//
// The Matrix is symmetric by construction: entries are keyed by the
// unordered pair {A,B} and self pairs are rejected.
package rbh
