package graph

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclProjectFile is the top-level layout of a .hcl project.
type hclProjectFile struct {
	Locals []*hclLocalsBlock `hcl:"locals,block"`
	Tasks  []*hclTask        `hcl:"task,block"`
}

type hclLocalsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// hclTask keeps duration as a raw expression so it can reference locals.
type hclTask struct {
	Name      string         `hcl:"name,label"`
	Duration  hcl.Expression `hcl:"duration"`
	DependsOn []string       `hcl:"depends_on,optional"`
}

// ReadHCL parses an HCL project. Tasks become vertices in declaration order and
// depends_on entries become edges from the named task.
func ReadHCL(filename string, src []byte) (*Project, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrParse, diags.Error())
	}

	var parsed hclProjectFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrParse, diags.Error())
	}

	locals, err := evalLocals(parsed.Locals)
	if err != nil {
		return nil, err
	}
	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{"local": cty.ObjectVal(locals)},
	}

	index := make(map[string]int, len(parsed.Tasks))
	labels := make([]string, 0, len(parsed.Tasks))
	for _, t := range parsed.Tasks {
		if _, dup := index[t.Name]; dup {
			return nil, fmt.Errorf("%w: task %q declared more than once", ErrParse, t.Name)
		}
		index[t.Name] = len(labels)
		labels = append(labels, t.Name)
	}

	g := New(len(parsed.Tasks))
	durations := make([]int, len(parsed.Tasks))
	for i, t := range parsed.Tasks {
		d, err := evalDuration(t, ctx)
		if err != nil {
			return nil, err
		}
		durations[i] = d

		for _, dep := range t.DependsOn {
			from, ok := index[dep]
			if !ok {
				return nil, fmt.Errorf("%w: task %q depends on unknown task %q", ErrParse, t.Name, dep)
			}
			if _, err := g.AddEdge(from, i, 1); err != nil {
				return nil, fmt.Errorf("%w: task %q: %v", ErrParse, t.Name, err)
			}
		}
	}

	return &Project{
		Graph:     g,
		Durations: durations,
		Labels:    labels,
	}, nil
}

// evalLocals evaluates every locals attribute. Locals may reference each other;
// evaluation repeats until a round makes no progress.
func evalLocals(blocks []*hclLocalsBlock) (map[string]cty.Value, error) {
	pending := make(map[string]*hcl.Attribute)
	for _, b := range blocks {
		attrs, diags := b.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("%w: %s", ErrParse, diags.Error())
		}
		for name, attr := range attrs {
			if _, dup := pending[name]; dup {
				return nil, fmt.Errorf("%w: local %q defined more than once", ErrParse, name)
			}
			pending[name] = attr
		}
	}

	values := make(map[string]cty.Value, len(pending))
	for len(pending) > 0 {
		names := make([]string, 0, len(pending))
		for name := range pending {
			names = append(names, name)
		}
		sort.Strings(names)

		ctx := &hcl.EvalContext{
			Variables: map[string]cty.Value{"local": cty.ObjectVal(values)},
		}
		var lastDiags hcl.Diagnostics
		progressed := false
		for _, name := range names {
			v, diags := pending[name].Expr.Value(ctx)
			if diags.HasErrors() {
				lastDiags = diags
				continue
			}
			values[name] = v
			delete(pending, name)
			progressed = true
		}
		if !progressed {
			return nil, fmt.Errorf("%w: evaluating locals: %s", ErrParse, lastDiags.Error())
		}
	}
	return values, nil
}

func evalDuration(t *hclTask, ctx *hcl.EvalContext) (int, error) {
	val, diags := t.Duration.Value(ctx)
	if diags.HasErrors() {
		return 0, fmt.Errorf("%w: task %q duration: %s", ErrParse, t.Name, diags.Error())
	}
	if val.IsNull() || !val.IsKnown() {
		return 0, fmt.Errorf("%w: task %q duration has no value", ErrParse, t.Name)
	}

	var d int
	if err := gocty.FromCtyValue(val, &d); err != nil {
		return 0, fmt.Errorf("%w: task %q duration: %v", ErrParse, t.Name, err)
	}
	return d, nil
}
