// SPDX-License-Identifier: MIT

// Package sieve runs the neighbourhood de-duplication pipeline:
//
//	load GenBank records → all-vs-all scoring → RBH matrix → similarity graph
//	→ prune → write surviving records → verify → report
//
// Each stage consumes the immutable output of the previous one. The run
// moves through the states LOADED, SCORED, MATRIXED, GRAPHED and PRUNED,
// and ends VERIFIED, or FAILED when the records written to disk do not
// match the pruned node set. A failed verification is fatal: no report is
// written.
//
// Collaborators (loader, scorer, node writer, reporter, run store, logger,
// tracer) are injected with functional options so tests can replace the
// external BLAST+ binaries and the filesystem.
package sieve
