// SPDX-License-Identifier: MIT

package genbank

import "errors"

// Sentinel errors for parsing and loading.
var (
	// ErrNoLocus is returned when input contains no LOCUS line.
	ErrNoLocus = errors.New("genbank: no LOCUS line")

	// ErrUnterminated is returned when a quoted qualifier never closes.
	ErrUnterminated = errors.New("genbank: unterminated qualifier value")

	// ErrDuplicateRecord is returned when two files share a stem.
	ErrDuplicateRecord = errors.New("genbank: duplicate record id")

	// ErrNotDir is returned when the folder does not exist or is a file.
	ErrNotDir = errors.New("genbank: not a directory")

	// ErrAliasConflict is returned when one FASTA alias names two records.
	ErrAliasConflict = errors.New("genbank: FASTA alias names two records")

	// ErrUnknownAlias is returned when a hit names a sequence that was not
	// written to the FASTA.
	ErrUnknownAlias = errors.New("genbank: unknown FASTA alias")
)

// Protein is one translated CDS feature.
type Protein struct {
	LocusTag    string
	ProteinID   string
	Translation string
}

// Record is one neighbourhood: a GenBank file and its proteins.
type Record struct {
	// ID is the file stem; it names the node in the similarity graph.
	ID string
	// Path is the source file.
	Path      string
	Locus     string
	Accession string
	Proteins  []Protein
}

// Size returns the protein count.
func (r *Record) Size() int { return len(r.Proteins) }

// SizeMap returns record ID → protein count.
func SizeMap(records []*Record) map[string]int {
	out := make(map[string]int, len(records))
	for _, r := range records {
		out[r.ID] = r.Size()
	}

	return out
}

// IDs returns the record IDs in slice order.
func IDs(records []*Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}

	return out
}
