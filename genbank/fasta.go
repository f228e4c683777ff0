// SPDX-License-Identifier: MIT

package genbank

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// fastaWidth is the residue count per sequence line.
const fastaWidth = 60

// Aliases maps the whitespace-free record names used in FASTA headers back to
// record IDs. Aligners cut sequence IDs at the first whitespace, and record IDs
// are file stems that may contain spaces, so IDs never go into the FASTA
// sequence ID directly.
type Aliases struct {
	toRecord map[string]string
	toAlias  map[string]string
}

func newAliases(n int) *Aliases {
	return &Aliases{toRecord: make(map[string]string, n), toAlias: make(map[string]string, n)}
}

func (a *Aliases) add(alias, id string) error {
	if prev, ok := a.toRecord[alias]; ok && prev != id {
		return fmt.Errorf("%w: %q names %q and %q", ErrAliasConflict, alias, prev, id)
	}
	a.toRecord[alias] = id
	a.toAlias[id] = alias

	return nil
}

// Record returns the record ID behind alias.
func (a *Aliases) Record(alias string) (string, bool) {
	id, ok := a.toRecord[alias]

	return id, ok
}

// Alias returns the FASTA name of record id.
func (a *Aliases) Alias(id string) (string, bool) {
	alias, ok := a.toAlias[id]

	return alias, ok
}

// Len returns the number of aliased records.
func (a *Aliases) Len() int { return len(a.toRecord) }

// WriteFASTA writes every protein as ">r<k>|<index> <record ID>" followed by
// its translation, wrapped at 60 residues. k is the record's position in
// records and index the protein's position in its record, so the sequence ID
// parses with rbh.ParseSeqID into an alias that Aliases resolves.
// Records without proteins get no alias.
func WriteFASTA(w io.Writer, records []*Record) (*Aliases, error) {
	aliases := newAliases(len(records))
	bw := bufio.NewWriter(w)
	for k, r := range records {
		if len(r.Proteins) == 0 {
			continue
		}
		alias := "r" + strconv.Itoa(k)
		if err := aliases.add(alias, r.ID); err != nil {
			return nil, err
		}
		for i, p := range r.Proteins {
			bw.WriteByte('>')
			bw.WriteString(alias)
			bw.WriteByte('|')
			bw.WriteString(strconv.Itoa(i))
			bw.WriteByte(' ')
			bw.WriteString(r.ID)
			bw.WriteByte('\n')
			seq := p.Translation
			for len(seq) > fastaWidth {
				bw.WriteString(seq[:fastaWidth])
				bw.WriteByte('\n')
				seq = seq[fastaWidth:]
			}
			bw.WriteString(seq)
			bw.WriteByte('\n')
		}
	}
	if err := bw.Flush(); err != nil {
		return nil, err
	}

	return aliases, nil
}

// ReadAliases recovers the alias table from FASTA written by WriteFASTA.
//
// Errors: ErrAliasConflict if one alias names two records, or a read error.
func ReadAliases(r io.Reader) (*Aliases, error) {
	aliases := newAliases(0)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if !strings.HasPrefix(line, ">") {
			continue
		}
		seqID, id, _ := strings.Cut(line[1:], " ")
		alias := seqID
		if i := strings.LastIndexByte(seqID, '|'); i >= 0 {
			alias = seqID[:i]
		}
		if err := aliases.add(alias, id); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("genbank: read fasta: %w", err)
	}

	return aliases, nil
}
