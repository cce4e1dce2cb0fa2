package graph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// tokenReader yields whitespace-separated integers.
type tokenReader struct {
	sc  *bufio.Scanner
	pos int
}

func newTokenReader(r io.Reader) *tokenReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)
	return &tokenReader{sc: sc}
}

// next returns the next integer. ok is false at end of input.
func (t *tokenReader) next(what string) (v int, ok bool, err error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return 0, false, fmt.Errorf("reading %s: %w", what, err)
		}
		return 0, false, nil
	}
	t.pos++
	tok := t.sc.Text()
	v, err = strconv.Atoi(tok)
	if err != nil {
		return 0, false, fmt.Errorf("%w: token %d (%s): %q is not an integer", ErrParse, t.pos, what, tok)
	}
	return v, true, nil
}

// must is next with end of input reported as a parse error.
func (t *tokenReader) must(what string) (int, error) {
	v, ok, err := t.next(what)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: unexpected end of input reading %s", ErrParse, what)
	}
	return v, nil
}

// Header limits for the text format. Storage grows as tokens arrive, so
// these only bound what a header may claim.
const (
	MaxVertices = 1 << 24
	MaxEdges    = 1 << 26
)

// ReadText parses the whitespace format "N M", M triples "u v w" with 1-based
// vertex numbers, then N durations in vertex order.
func ReadText(r io.Reader) (*Project, error) {
	tr := newTokenReader(r)

	n, err := tr.must("vertex count")
	if err != nil {
		return nil, err
	}
	m, err := tr.must("edge count")
	if err != nil {
		return nil, err
	}
	if n < 0 || m < 0 {
		return nil, fmt.Errorf("%w: negative header n=%d m=%d", ErrParse, n, m)
	}
	if n > MaxVertices {
		return nil, fmt.Errorf("%w: vertex count %d exceeds limit %d", ErrParse, n, MaxVertices)
	}
	if m > MaxEdges {
		return nil, fmt.Errorf("%w: edge count %d exceeds limit %d", ErrParse, m, MaxEdges)
	}

	// Edges are range-checked now but only added once the whole input is
	// read, so a truncated file never allocates the full vertex set.
	var edges []Edge
	for i := 0; i < m; i++ {
		what := fmt.Sprintf("edge %d", i+1)
		u, err := tr.must(what)
		if err != nil {
			return nil, err
		}
		v, err := tr.must(what)
		if err != nil {
			return nil, err
		}
		w, err := tr.must(what)
		if err != nil {
			return nil, err
		}
		if u < 1 || u > n || v < 1 || v > n {
			return nil, fmt.Errorf("%w: %s (%d %d): vertex out of range [1,%d]", ErrParse, what, u, v, n)
		}
		edges = append(edges, Edge{From: u - 1, To: v - 1, Weight: w})
	}

	var durations []int
	for i := 0; i < n; i++ {
		d, ok, err := tr.next(fmt.Sprintf("duration of vertex %d", i+1))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: got %d durations for %d vertices", ErrDurationMismatch, i, n)
		}
		durations = append(durations, d)
	}

	g := New(n)
	for _, e := range edges {
		if _, err := g.AddEdge(e.From, e.To, e.Weight); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
	}

	return &Project{
		Graph:     g,
		Durations: durations,
		Labels:    numericLabels(n),
	}, nil
}
