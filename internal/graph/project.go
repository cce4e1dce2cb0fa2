package graph

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrParse is wrapped by every reader error caused by malformed input.
	ErrParse = errors.New("parse error")
	// ErrDurationMismatch is returned when the input holds fewer durations than vertices.
	ErrDurationMismatch = errors.New("duration array size mismatch")
)

// Input formats accepted by LoadFile.
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatHCL  = "hcl"
)

// BuiltinExample is the 10-task plan analysed when no input file is given.
const BuiltinExample = "10 13   1 2 1   2 4 1   2 5 1   3 5 1   3 6 1   4 7 1   5 7 1   5 8 1   6 8 1   6 9 1   7 10 1   8 10 1   9 10 1      0 3 2 3 2 1 3 2 4 1"

// Project is a parsed plan: the precedence graph, one duration per vertex,
// and a display label per vertex.
type Project struct {
	Name      string
	Graph     *Graph
	Durations []int
	Labels    []string
}

// Label returns the display label of u.
func (p *Project) Label(u int) string {
	if u >= 0 && u < len(p.Labels) && p.Labels[u] != "" {
		return p.Labels[u]
	}
	return strconv.Itoa(u + 1)
}

// LabelAll maps vertex indices to labels.
func (p *Project) LabelAll(vertices []int) []string {
	labels := make([]string, len(vertices))
	for i, u := range vertices {
		labels[i] = p.Label(u)
	}
	return labels
}

// numericLabels returns "1".."n".
func numericLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	return labels
}

// LoadFile reads a project from path. With FormatAuto, files ending in .hcl
// are parsed as HCL and everything else as the whitespace text format.
func LoadFile(path, format string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if format == "" || format == FormatAuto {
		format = FormatText
		if strings.EqualFold(filepath.Ext(path), ".hcl") {
			format = FormatHCL
		}
	}

	var p *Project
	switch format {
	case FormatText:
		p, err = ReadText(strings.NewReader(string(data)))
	case FormatHCL:
		p, err = ReadHCL(path, data)
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return p, nil
}
