// Package stateflow renders a compiled Project as a deterministic MATLAB
// Stateflow-construction script (spec §6). Like internal/graphviz, this is
// a pure tree-walk over an already-finished Project and needs nothing
// beyond the standard library.
package stateflow

import (
	"fmt"
	"strings"

	"nbstateflow/internal/compile"
)

// Render produces the MATLAB script for proj.
func Render(proj *compile.Project) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "sfnew %s\n", sanitize(proj.Name))

	for i, name := range proj.SortedNames() {
		renderMachine(&b, i+1, proj.StateMachines[name])
	}
	return b.String(), nil
}

// renderMachine emits one chart per state machine: chart%d = Stateflow.Chart(rt);
// followed by its states, junctions, transitions, and data, each numbered
// from 1 within the machine's own chart variable namespace.
func renderMachine(b *strings.Builder, idx int, m *compile.StateMachine) {
	chart := fmt.Sprintf("chart%d", idx)
	fmt.Fprintf(b, "%s = Stateflow.Chart(rt);\n", chart)
	fmt.Fprintf(b, "%s.Name = %s;\n", chart, quote(m.Name))

	varName := map[string]string{}
	stateCount, junctionCount := 0, 0

	names := m.SortedNames()
	for _, name := range names {
		s := m.States[name]
		var v string
		x := 200 * len(varName)
		if s.IsJunction {
			junctionCount++
			v = fmt.Sprintf("j%d", junctionCount)
			fmt.Fprintf(b, "%s = Stateflow.Junction(%s);\n", v, chart)
			fmt.Fprintf(b, "%s.Position = [%d 0 100 100];\n", v, x)
		} else {
			stateCount++
			v = fmt.Sprintf("s%d", stateCount)
			fmt.Fprintf(b, "%s = Stateflow.State(%s);\n", v, chart)
			fmt.Fprintf(b, "%s.Name = %s;\n", v, quote(s.Name))
			fmt.Fprintf(b, "%s.Position = [%d 0 100 100];\n", v, x)
		}
		varName[name] = v
	}

	transitionCount := 0
	for _, name := range names {
		s := m.States[name]
		for _, tr := range s.Transitions {
			transitionCount++
			t := fmt.Sprintf("t%d", transitionCount)
			fmt.Fprintf(b, "%s = Stateflow.Transition(%s);\n", t, chart)
			fmt.Fprintf(b, "%s.Source = %s;\n", t, varName[name])
			fmt.Fprintf(b, "%s.Destination = %s;\n", t, varName[tr.NewState])
			fmt.Fprintf(b, "%s.LabelString = %s;\n", t, quote(label(tr)))
		}
	}

	if m.InitialState != "" {
		if v, ok := varName[m.InitialState]; ok {
			fmt.Fprintf(b, "t0 = Stateflow.Transition(%s);\n", chart)
			fmt.Fprintf(b, "t0.Destination = %s;\n", v)
			fmt.Fprintf(b, "t0.DestinationOClock = 0;\n")
			fmt.Fprintf(b, "t0.SourceEndpoint = [%d -25];\n", 200*stateIndex(names, m.InitialState))
			fmt.Fprintf(b, "t0.MidPoint = [%d -10];\n", 200*stateIndex(names, m.InitialState))
		}
	}

	dataCount := 0
	for _, v := range m.Variables {
		dataCount++
		d := fmt.Sprintf("d%d", dataCount)
		fmt.Fprintf(b, "%s = Stateflow.Data(%s);\n", d, chart)
		fmt.Fprintf(b, "%s.Name = %s;\n", d, quote(v))
		fmt.Fprintf(b, "%s.Props.InitialValue = %s;\n", d, quote(""))
	}
}

func stateIndex(names []string, target string) int {
	for i, n := range names {
		if n == target {
			return i
		}
	}
	return 0
}

// label formats a transition's LabelString: "[<unordered guard>]{<actions>}",
// an empty guard when the unordered condition is trivially true.
func label(t compile.Transition) string {
	guard := ""
	if !t.UnorderedCondition.IsTrue() {
		guard = t.UnorderedCondition.String()
	}
	return fmt.Sprintf("[%s]{%s}", guard, strings.Join(t.Actions, ";"))
}

func sanitize(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
