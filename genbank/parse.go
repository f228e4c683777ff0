// SPDX-License-Identifier: MIT

package genbank

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	featureIndent   = 5
	qualifierIndent = 21
	maxLine         = 4 << 20
)

type section int

const (
	inHeader section = iota
	inFeatures
	inSequence
)

// parser holds the state of one Parse call.
type parser struct {
	rec     *Record
	sec     section
	feature string
	cur     *Protein
	// pending is the qualifier whose quoted value spans several lines.
	pendingKey string
	pendingVal strings.Builder
	pending    bool
}

// Parse reads a GenBank flat file. Multi-record files are merged into one
// Record whose Locus and Accession come from the first entry.
//
// Errors: ErrNoLocus, ErrUnterminated, or a read error.
// Complexity: O(n) in input size.
func Parse(r io.Reader) (*Record, error) {
	p := &parser{rec: &Record{}}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	seenLocus := false
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, "LOCUS") {
			if !seenLocus {
				if f := strings.Fields(line); len(f) > 1 {
					p.rec.Locus = f[1]
				}
			}
			seenLocus = true
		}
		if err := p.line(line); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("genbank: read: %w", err)
	}
	if p.pending {
		return nil, fmt.Errorf("%w: /%s", ErrUnterminated, p.pendingKey)
	}
	p.flush()
	if !seenLocus {
		return nil, ErrNoLocus
	}

	return p.rec, nil
}

func (p *parser) line(line string) error {
	if p.pending {
		p.continueQualifier(strings.TrimSpace(line))
		return nil
	}
	switch {
	case strings.HasPrefix(line, "//"):
		p.flush()
		p.sec = inHeader
		return nil
	case strings.HasPrefix(line, "ACCESSION") && p.sec == inHeader:
		if f := strings.Fields(line); len(f) > 1 && p.rec.Accession == "" {
			p.rec.Accession = f[1]
		}
		return nil
	case strings.HasPrefix(line, "FEATURES"):
		p.sec = inFeatures
		return nil
	case strings.HasPrefix(line, "ORIGIN"), strings.HasPrefix(line, "CONTIG"):
		p.flush()
		p.sec = inSequence
		return nil
	}
	if p.sec != inFeatures || len(line) <= featureIndent {
		return nil
	}
	if line[featureIndent] != ' ' {
		p.flush()
		p.feature = strings.Fields(line)[0]
		if p.feature == "CDS" {
			p.cur = &Protein{}
		}
		return nil
	}
	if len(line) > qualifierIndent && strings.HasPrefix(strings.TrimSpace(line), "/") {
		return p.qualifier(strings.TrimSpace(line)[1:])
	}

	return nil
}

func (p *parser) qualifier(q string) error {
	key, val, hasVal := strings.Cut(q, "=")
	if !hasVal {
		return nil
	}
	if strings.HasPrefix(val, `"`) {
		val = val[1:]
		if !closesQuote(val) {
			p.pending = true
			p.pendingKey = key
			p.pendingVal.Reset()
			p.pendingVal.WriteString(val)
			return nil
		}
		val = strings.TrimSuffix(val, `"`)
	}
	p.set(key, val)

	return nil
}

func (p *parser) continueQualifier(s string) {
	if closesQuote(s) {
		p.pendingVal.WriteString(" ")
		p.pendingVal.WriteString(strings.TrimSuffix(s, `"`))
		p.pending = false
		p.set(p.pendingKey, p.pendingVal.String())
		return
	}
	p.pendingVal.WriteString(" ")
	p.pendingVal.WriteString(s)
}

// closesQuote reports whether s ends with an odd run of quotes; "" is an
// escaped quote inside GenBank values.
func closesQuote(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '"'; i-- {
		n++
	}

	return n%2 == 1
}

func (p *parser) set(key, val string) {
	if p.cur == nil {
		return
	}
	switch key {
	case "translation":
		p.cur.Translation = strings.Join(strings.Fields(val), "")
	case "locus_tag":
		p.cur.LocusTag = strings.TrimSpace(val)
	case "protein_id":
		p.cur.ProteinID = strings.TrimSpace(val)
	}
}

// flush closes the current feature, keeping CDS entries that carry a translation.
func (p *parser) flush() {
	if p.cur != nil && p.cur.Translation != "" {
		p.rec.Proteins = append(p.rec.Proteins, *p.cur)
	}
	p.cur = nil
	p.feature = ""
}

// ParseFile parses path and sets ID to its stem and Path to path.
func ParseFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("genbank: open %s: %w", path, err)
	}
	defer f.Close()

	rec, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("genbank: %s: %w", filepath.Base(path), err)
	}
	rec.ID = Stem(path)
	rec.Path = path

	return rec, nil
}

// Stem returns the file name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}
