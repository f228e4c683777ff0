// SPDX-License-Identifier: MIT

// Package syntenyqc de-duplicates collections of gene neighbourhoods.
//
// What is syntenyqc?
//
//	A pipeline that reads a folder of GenBank neighbourhoods, compares every
//	pair by reciprocal best BLASTP hits, and prunes the collection until no
//	two survivors are more similar than a chosen threshold:
//		• GenBank loading: CDS translations per record, parsed in parallel
//		• Scoring: all-vs-all BLASTP through the BLAST+ binaries
//		• RBH matrix: reciprocal best hits scored over the smaller record
//		• Similarity graph: one weighted edge per scored record pair
//		• Pruning: greedy removal of the most connected record
//		• Reports: HTML graph, similarity histogram, TSV matrix
//
// Layout:
//
//	core/       : thread-safe weighted Graph, vertices and edges
//	bfs/        : breadth-first traversal and connected components
//	matrix/     : dense matrices and the adjacency view of a graph
//	genbank/    : GenBank parsing, folder loading, FASTA export
//	blast/      : BLAST+ runner and tabular output parsing
//	rbh/        : reciprocal best hit matrix
//	similarity/ : similarity graph, histogram and summary
//	prune/      : greedy pruning and written-set verification
//	report/     : HTML and TSV outputs
//	store/      : SQLite history of runs
//	sieve/      : the pipeline that ties the stages together
//	config/, logging/, telemetry/, qcerr/ : ambient plumbing
//	cmd/syntenyqc : the command line
//
// Quick example (edges in percent, filter 50):
//
//	file1–file3 100, file1–file2 50, file1–file4 50,
//	file2–file3 50,  file2–file4 50
//
//	step 1: remove file1 (weighted degree 200)
//	step 2: remove file2 (weighted degree 100)
//	kept:   file3, file4
//
//	go install github.com/katalvlaran/syntenyqc/cmd/syntenyqc@latest
package syntenyqc
