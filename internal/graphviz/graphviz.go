// Package graphviz renders a compiled Project as a Graphviz dot source
// (spec §6). It depends only on internal/compile and the standard library:
// this is a faithful tree-walk over an already-finished Project, not a
// general-purpose dot-writing library, so nothing in the example pack has
// a closer-fitting home for it than plain text building.
package graphviz

import (
	"fmt"
	"strings"

	"nbstateflow/internal/compile"
)

// Node is one dot node: a state, a junction, or an initial-state pseudonode.
type Node struct {
	ID     string
	Label  string
	Shape  string
	Width  string
	Filled bool
}

// Edge is one dot edge.
type Edge struct {
	From, To, Label string
}

// Subgraph groups one state machine's nodes and edges.
type Subgraph struct {
	Name  string
	Nodes []Node
	Edges []Edge
}

// Tree is the renderable dot document; Build produces one from a Project
// and Render turns it into dot source text.
type Tree struct {
	ProjectName string
	Subgraphs   []Subgraph
}

// Build walks proj into a Tree (spec §6's GraphvizTree).
func Build(proj *compile.Project) *Tree {
	t := &Tree{ProjectName: proj.Name}
	for _, name := range proj.SortedNames() {
		t.Subgraphs = append(t.Subgraphs, buildSubgraph(proj.StateMachines[name]))
	}
	return t
}

func buildSubgraph(m *compile.StateMachine) Subgraph {
	sg := Subgraph{Name: m.Name}

	for _, name := range m.SortedNames() {
		s := m.States[name]
		id := nodeID(m.Name, s.Name)
		n := Node{ID: id, Label: s.Name}
		if s.IsJunction {
			n.Label = ""
			n.Shape = "circle"
			n.Width = "0.1"
		}
		if !s.IsJunction && m.CurrentState == s.Name {
			n.Filled = true
		}
		sg.Nodes = append(sg.Nodes, n)

		n2 := len(s.Transitions)
		for i, tr := range s.Transitions {
			label := transitionLabel(tr, i, n2)
			sg.Edges = append(sg.Edges, Edge{
				From:  id,
				To:    nodeID(m.Name, tr.NewState),
				Label: label,
			})
		}
	}

	if m.InitialState != "" {
		pseudo := Node{ID: m.Name, Shape: "point", Width: "0.1"}
		sg.Nodes = append(sg.Nodes, pseudo)
		sg.Edges = append(sg.Edges, Edge{From: m.Name, To: nodeID(m.Name, m.InitialState)})
	}

	return sg
}

func nodeID(machine, state string) string {
	return machine + " " + state
}

// transitionLabel formats one transition's edge label per spec §6: a bare
// guard/action text when the state has only its single catch-all
// transition, otherwise a 1-based index (":" + text, except the final
// catch-all which is the index alone).
func transitionLabel(t compile.Transition, i, total int) string {
	text := transitionText(t)
	if total == 1 {
		return text
	}
	if i == total-1 {
		return fmt.Sprintf("%d", i+1)
	}
	return fmt.Sprintf("%d: %s", i+1, text)
}

func transitionText(t compile.Transition) string {
	var parts []string
	if !t.OrderedCondition.IsTrue() {
		parts = append(parts, t.OrderedCondition.String())
	}
	if len(t.Actions) > 0 {
		parts = append(parts, strings.Join(t.Actions, ", "))
	}
	return strings.Join(parts, " / ")
}

// Render produces the dot source for t.
func (t *Tree) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", t.ProjectName)
	for _, sg := range t.Subgraphs {
		fmt.Fprintf(&b, "  subgraph %q {\n", sg.Name)
		for _, n := range sg.Nodes {
			b.WriteString("    ")
			b.WriteString(renderNode(n))
			b.WriteString("\n")
		}
		for _, e := range sg.Edges {
			fmt.Fprintf(&b, "    %q -> %q [label=%q]\n", e.From, e.To, e.Label)
		}
		b.WriteString("  }\n")
	}
	b.WriteString("}")
	return b.String()
}

func renderNode(n Node) string {
	var attrs []string
	if n.Shape != "" {
		attrs = append(attrs, "shape="+n.Shape)
	}
	if n.Width != "" {
		attrs = append(attrs, "width="+n.Width)
	}
	if n.Shape == "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", n.Label))
	}
	if n.Filled {
		attrs = append(attrs, "style=filled")
	}
	return fmt.Sprintf("%q[%s]", n.ID, strings.Join(attrs, ","))
}
