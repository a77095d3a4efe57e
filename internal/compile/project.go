// Package compile implements the Assembler: it turns a parsed Program into
// a complete Project of state machines, driving the Lowerer over every
// handler script and resolving the cross-handler concerns the Lowerer
// itself does not see (role selection, variable ownership, transition
// completion) (spec §4.4).
package compile

import (
	"sort"

	"nbstateflow/internal/cond"
)

// Project is the compiler's top-level output.
type Project struct {
	Name          string
	Role          string
	StateMachines map[string]*StateMachine
}

// StateMachine is one compiled flat state machine: the variable that holds
// its current state, the states discovered while lowering its handlers,
// and the inferred initial/current state (if any).
type StateMachine struct {
	Name         string // also the program variable naming this machine's state
	Variables    []string
	States       map[string]*State
	InitialState string
	CurrentState string
}

// State is a single node, or a synthesized junction when IsJunction is set
// (spec §4.3's junction synthesis; rendered specially per spec §6).
type State struct {
	Name        string
	IsJunction  bool
	Parent      string
	Transitions []Transition
}

// Transition is one outgoing edge. OrderedCondition is what the Lowerer
// produced; UnorderedCondition is the Assembler-derived, mutually
// exclusive guard (spec §4.4.8).
type Transition struct {
	OrderedCondition   cond.Cond
	UnorderedCondition cond.Cond
	Actions            []string
	NewState           string
}

// SortedNames returns a state machine's names in sorted order, used by
// every renderer that needs deterministic iteration.
func (p *Project) SortedNames() []string {
	names := make([]string, 0, len(p.StateMachines))
	for name := range p.StateMachines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SortedNames returns a machine's state names in sorted order.
func (m *StateMachine) SortedNames() []string {
	names := make([]string, 0, len(m.States))
	for name := range m.States {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *StateMachine) state(name string) *State {
	if s, ok := m.States[name]; ok {
		return s
	}
	s := &State{Name: name}
	m.States[name] = s
	return s
}
