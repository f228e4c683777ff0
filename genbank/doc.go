// SPDX-License-Identifier: MIT

// Package genbank loads neighbourhood records from GenBank flat files.
//
// A neighbourhood is one .gbk/.gb file; its record ID is the file stem and
// its proteins are the CDS /translation qualifiers in file order. Only the
// header fields and CDS qualifiers the sieve needs are parsed: LOCUS name,
// ACCESSION, and per-CDS /locus_tag, /protein_id and /translation.
//
// LoadFolder parses a folder concurrently with a bounded errgroup; results
// are sorted by record ID regardless of completion order.
package genbank
