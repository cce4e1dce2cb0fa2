// Package report renders PERT analyses for terminals and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aristath/pert/internal/graph"
	"github.com/aristath/pert/internal/scheduler"
)

// Output formats.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
)

// RejectedMessage is printed when the graph is not a DAG.
const RejectedMessage = "Invalid graph: not a DAG"

// Write renders res for p in format.
func Write(w io.Writer, format string, p *graph.Project, res scheduler.Result) error {
	switch format {
	case FormatText, "":
		return WriteText(w, p, res)
	case FormatTable:
		return WriteTable(w, p, res)
	case FormatJSON:
		return WriteJSON(w, p, res)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteText prints the tab-separated report:
//
//	Number of critical vertices: 5
//	u	EC	LC	Slack	Critical
//	1	0	0	0	true
//	...
//	Critical Path Length: 10
func WriteText(w io.Writer, p *graph.Project, res scheduler.Result) error {
	a, ok := res.Analysis()
	if !ok {
		_, err := fmt.Fprintln(w, RejectedMessage)
		return err
	}

	ew := &errWriter{w: w}
	ew.printf("Number of critical vertices: %d\n", a.NumCritical())
	ew.printf("u\tEC\tLC\tSlack\tCritical\n")
	for u := 0; u < a.Size(); u++ {
		ew.printf("%s\t%d\t%d\t%d\t%t\n", p.Label(u), a.EC(u), a.LC(u), a.Slack(u), a.Critical(u))
	}
	ew.printf("Critical Path Length: %d\n", a.CriticalPath())
	return ew.err
}

// WriteTable prints every ES/EF/LS/LF value in an aligned table with
// critical rows highlighted, followed by a summary line.
func WriteTable(w io.Writer, p *graph.Project, res scheduler.Result) error {
	a, ok := res.Analysis()
	if !ok {
		_, err := fmt.Fprintln(w, StyleCritical.Render(RejectedMessage))
		return err
	}

	headers := []string{"TASK", "DUR", "ES", "EF", "LS", "LF", "SLACK", "CRITICAL"}
	rows := make([][]string, a.Size())
	for u := range rows {
		t := a.Task(u)
		row := []string{
			p.Label(u),
			strconv.Itoa(t.Duration),
			strconv.Itoa(t.ES),
			strconv.Itoa(t.EF),
			strconv.Itoa(t.LS),
			strconv.Itoa(t.LF),
			strconv.Itoa(t.Slack),
			"",
		}
		if t.Critical() {
			for i := range row[:len(row)-1] {
				row[i] = StyleCritical.Render(row[i])
			}
			row[len(row)-1] = StyleCritical.Render("●")
		}
		rows[u] = row
	}

	ew := &errWriter{w: w}
	ew.printf("%s", RenderTable(headers, rows))
	ew.printf("\nCritical path length %s, %d of %d tasks critical %s\n",
		StyleHeader.Render(strconv.Itoa(a.CriticalPath())),
		a.NumCritical(), a.Size(),
		RenderShare(a.NumCritical(), a.Size(), 20))
	if chain := a.CriticalChain(); len(chain) > 0 {
		ew.printf("Critical chain: %s\n", joinLabels(p, chain))
	}
	return ew.err
}

func joinLabels(p *graph.Project, vertices []int) string {
	return strings.Join(p.LabelAll(vertices), " → ")
}

type jsonTask struct {
	U        int    `json:"u"`
	Label    string `json:"label"`
	Duration int    `json:"duration"`
	ES       int    `json:"es"`
	EF       int    `json:"ef"`
	LS       int    `json:"ls"`
	LF       int    `json:"lf"`
	Slack    int    `json:"slack"`
	Critical bool   `json:"critical"`
}

type jsonReport struct {
	Name          string     `json:"name,omitempty"`
	DAG           bool       `json:"dag"`
	Cycle         []int      `json:"cycle,omitempty"`
	CriticalPath  *int       `json:"critical_path,omitempty"`
	NumCritical   *int       `json:"num_critical,omitempty"`
	CriticalChain []int      `json:"critical_chain,omitempty"`
	Tasks         []jsonTask `json:"tasks,omitempty"`
}

// WriteJSON prints the analysis as an indented JSON document. Vertex numbers
// are 1-based like the text formats.
func WriteJSON(w io.Writer, p *graph.Project, res scheduler.Result) error {
	doc := jsonReport{Name: p.Name}

	a, ok := res.Analysis()
	if !ok {
		doc.Cycle = oneBased(res.Cycle())
	} else {
		cp, nc := a.CriticalPath(), a.NumCritical()
		doc.DAG = true
		doc.CriticalPath = &cp
		doc.NumCritical = &nc
		doc.CriticalChain = oneBased(a.CriticalChain())
		doc.Tasks = make([]jsonTask, a.Size())
		for u := range doc.Tasks {
			t := a.Task(u)
			doc.Tasks[u] = jsonTask{
				U:        u + 1,
				Label:    p.Label(u),
				Duration: t.Duration,
				ES:       t.ES,
				EF:       t.EF,
				LS:       t.LS,
				LF:       t.LF,
				Slack:    t.Slack,
				Critical: t.Critical(),
			}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

func oneBased(vertices []int) []int {
	if vertices == nil {
		return nil
	}
	out := make([]int, len(vertices))
	for i, u := range vertices {
		out[i] = u + 1
	}
	return out
}

// errWriter remembers the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
