// SPDX-License-Identifier: MIT

package matrix

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/katalvlaran/syntenyqc/core"
)

// Adjacency is the symmetric dense view of an undirected weighted graph.
// Rows and columns follow the sorted vertex order; absent edges are 0 and
// the diagonal is diag (100 for similarity matrices).
type Adjacency struct {
	Mat   *Dense
	index map[string]int
	ids   []string
}

// NewAdjacency builds the adjacency view of g with the given diagonal value.
//
// Implementation:
//   - Stage 1: Index sorted vertices.
//   - Stage 2: Write each edge weight at (u,v) and (v,u); parallel edges keep
//     the largest weight, loops are skipped.
//
// Errors: ErrGraphNil, ErrNaNInf (diag or weight).
// Complexity: O(V² + E).
func NewAdjacency(g *core.Graph, diag float64) (*Adjacency, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	ids := g.Vertices()
	n := len(ids)
	mat, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, n)
	for i, id := range ids {
		index[id] = i
		if err = mat.Set(i, i, diag); err != nil {
			return nil, err
		}
	}
	for _, e := range g.Edges() {
		if e.From == e.To {
			continue
		}
		i, j := index[e.From], index[e.To]
		if cur, _ := mat.At(i, j); cur > e.Weight {
			continue
		}
		if err = mat.Set(i, j, e.Weight); err != nil {
			return nil, err
		}
		if err = mat.Set(j, i, e.Weight); err != nil {
			return nil, err
		}
	}

	return &Adjacency{Mat: mat, index: index, ids: ids}, nil
}

// Index returns the row/column of id.
func (a *Adjacency) Index(id string) (int, error) {
	i, ok := a.index[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownVertex, id)
	}

	return i, nil
}

// IDs returns the vertex IDs in row order.
func (a *Adjacency) IDs() []string {
	return append([]string(nil), a.ids...)
}

// Similarity returns the entry for the (u,v) pair.
func (a *Adjacency) Similarity(u, v string) (float64, error) {
	i, err := a.Index(u)
	if err != nil {
		return 0, err
	}
	j, err := a.Index(v)
	if err != nil {
		return 0, err
	}

	return a.Mat.At(i, j)
}

// WriteTSV writes the matrix with a header row and a leading ID column:
//
//	\tA\tB
//	A\t100\t95
//	B\t95\t100
func (a *Adjacency) WriteTSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, id := range a.ids {
		bw.WriteByte('\t')
		bw.WriteString(id)
	}
	bw.WriteByte('\n')
	for i, id := range a.ids {
		bw.WriteString(id)
		for j := range a.ids {
			v, _ := a.Mat.At(i, j)
			bw.WriteByte('\t')
			bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}
