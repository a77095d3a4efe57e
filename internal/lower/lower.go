// Package lower turns a handler's statement sequence into the actions,
// transitions and junction states a single state contributes to its state
// machine (spec §4.3). It knows nothing about roles, scripts or variable
// ownership; that is the Assembler's job (internal/compile).
package lower

import (
	"fmt"

	"nbstateflow/internal/ast"
	"nbstateflow/internal/cond"
	"nbstateflow/internal/errors"
	"nbstateflow/internal/exprxlat"
	"nbstateflow/internal/settings"
)

// Transition is one guarded edge out of a state, or out of a junction.
// OrderedCondition is the guard as it falls out of source-order control
// flow; the Assembler derives the mutually-exclusive UnorderedCondition
// from the full per-state list (spec §4.4.8).
type Transition struct {
	OrderedCondition cond.Cond
	Actions          []string
	NewState         string
}

// Junction is a synthesized `::junction-N::` pseudo-state: its own
// Transitions are the branches that were hoisted behind a shared action
// prefix (spec §4.3 "Junction synthesis").
type Junction struct {
	Name        string
	Parent      string
	Transitions []Transition
}

// Result is what Lower produces for one statement sequence: leftover
// actions (when the sequence never reaches a transition), the transitions
// it does produce, and any junctions synthesized along the way.
type Result struct {
	Actions     []string
	Transitions []Transition
	Junctions   []Junction
}

// Machine holds what the Lowerer needs to know about the enclosing state
// machine: its name (for error messages), the program variable that names
// its current state, the active Settings, and a machine-scoped ascending
// junction counter (spec §4.3: "Junction indices are fresh, machine-scoped,
// ascending").
type Machine struct {
	Name        string
	StateVar    string
	Settings    settings.Settings
	junctionSeq int
}

// NewMachine creates a Lowerer context for one state machine. Call Lower
// once per handler, reusing the same Machine so junction names stay unique
// across the whole machine.
func NewMachine(name, stateVar string, st settings.Settings) *Machine {
	return &Machine{Name: name, StateVar: stateVar, Settings: st}
}

func (m *Machine) nextJunction() string {
	name := fmt.Sprintf("::junction-%d::", m.junctionSeq)
	m.junctionSeq++
	return name
}

// Lower scans stmts from tail to head per spec §4.3. terminal is true at the
// top of a handler (and whenever a caller has already established that
// control reaches this point expecting a transition).
func (m *Machine) Lower(state string, stmts []ast.Stmt, terminal bool) (Result, error) {
	i := len(stmts) - 1

	// Phase 1: trailing-return skip.
	for i >= 0 {
		if _, ok := stmts[i].(*ast.ReturnStmt); !ok {
			break
		}
		terminal = true
		i--
	}

	var transitions []Transition
	var junctions []Junction

	// Phase 2: transition suffix.
phase2:
	for terminal && i >= 0 {
		switch s := stmts[i].(type) {
		case *ast.AssignStmt:
			if s.Var != m.StateVar {
				break phase2
			}
			lit, ok := literalState(s.Value)
			if !ok {
				break phase2
			}
			transitions = append([]Transition{{
				OrderedCondition: cond.Constant(true),
				NewState:         lit,
			}}, transitions...)
			i--

		case *ast.IfStmt:
			inner, err := m.Lower(state, s.Then, true)
			if err != nil {
				return Result{}, err
			}
			if len(inner.Transitions) == 0 {
				break phase2
			}
			guard, err := exprxlat.Cond(m.Name, state, s.Cond, m.Settings)
			if err != nil {
				return Result{}, err
			}
			absorbed := absorb(inner, guard)
			elseGuard := cond.Constant(true)
			for _, t := range absorbed {
				elseGuard = elseGuard.And(t.OrderedCondition.Not())
			}
			conjoinAll(transitions, elseGuard)
			transitions = append(absorbed, transitions...)
			junctions = append(junctions, inner.Junctions...)
			i--

		case *ast.IfElseStmt:
			thenResult, err := m.Lower(state, s.Then, true)
			if err != nil {
				return Result{}, err
			}
			elseResult, err := m.Lower(state, s.Else, true)
			if err != nil {
				return Result{}, err
			}
			if len(thenResult.Transitions) == 0 || len(elseResult.Transitions) == 0 {
				break phase2
			}
			guard, err := exprxlat.Cond(m.Name, state, s.Cond, m.Settings)
			if err != nil {
				return Result{}, err
			}
			thenAbsorbed := absorb(thenResult, guard)
			elseAbsorbed := absorb(elseResult, guard.Not())
			conjoinAll(transitions, cond.Constant(false))
			transitions = append(append(thenAbsorbed, elseAbsorbed...), transitions...)
			junctions = append(junctions, thenResult.Junctions...)
			junctions = append(junctions, elseResult.Junctions...)
			i--

		default:
			break phase2
		}
	}

	// Phase 3: action prefix.
	leading := stmts[:i+1]
	actions, err := m.lowerActions(state, leading)
	if err != nil {
		return Result{}, err
	}

	if len(actions) == 0 {
		return Result{Actions: nil, Transitions: transitions, Junctions: junctions}, nil
	}

	switch len(transitions) {
	case 0:
		return Result{Actions: actions, Junctions: junctions}, nil
	case 1:
		t := transitions[0]
		t.Actions = append(append([]string{}, actions...), t.Actions...)
		return Result{Transitions: []Transition{t}, Junctions: junctions}, nil
	default:
		name := m.nextJunction()
		junctions = append(junctions, Junction{Name: name, Parent: state, Transitions: transitions})
		return Result{
			Transitions: []Transition{{
				OrderedCondition: cond.Constant(true),
				Actions:          actions,
				NewState:         name,
			}},
			Junctions: junctions,
		}, nil
	}
}

// absorb conjoins guard onto the left of every transition in r and prefixes
// r's own leading actions onto each transition's actions.
func absorb(r Result, guard cond.Cond) []Transition {
	out := make([]Transition, len(r.Transitions))
	for i, t := range r.Transitions {
		out[i] = Transition{
			OrderedCondition: guard.And(t.OrderedCondition),
			Actions:          append(append([]string{}, r.Actions...), t.Actions...),
			NewState:         t.NewState,
		}
	}
	return out
}

func conjoinAll(transitions []Transition, guard cond.Cond) {
	for i := range transitions {
		transitions[i].OrderedCondition = guard.And(transitions[i].OrderedCondition)
	}
}

func literalState(e ast.Expr) (string, bool) {
	v, ok := e.(*ast.ValueExpr)
	if !ok || v.Kind != ast.ValueString {
		return "", false
	}
	return v.Str, true
}

// lowerActions converts a run of plain statements (no control flow allowed)
// into action text, in source order. A transition-shaped or control-flow
// statement found here means a transition escaped tail position.
func (m *Machine) lowerActions(state string, stmts []ast.Stmt) ([]string, error) {
	var out []string
	for _, s := range stmts {
		switch x := s.(type) {
		case *ast.AssignStmt:
			if x.Var == m.StateVar {
				if _, ok := literalState(x.Value); ok {
					return nil, &errors.NonTerminalTransitionError{StateMachine: m.Name, State: state, Pos: x.Pos}
				}
			}
			rhs, err := exprxlat.Text(m.Name, state, x.Value, m.Settings)
			if err != nil {
				return nil, err
			}
			out = append(out, fmt.Sprintf("%s = %s", x.Var, rhs))

		case *ast.ResetTimerStmt:
			out = append(out, "t = 0")

		case *ast.EffectStmt:
			txt, err := m.effectText(state, x)
			if err != nil {
				return nil, err
			}
			out = append(out, txt)

		case *ast.ReturnStmt:
			// A return that is not part of the trailing-return skip (i.e.
			// buried among actions) terminates the handler with no
			// transition; spec §4.3 treats only the tail run as
			// significant, so an interior one is inert.

		case *ast.IfStmt:
			return nil, &errors.ActionsOutsideTransitionError{StateMachine: m.Name, State: state, Pos: x.Pos}

		case *ast.IfElseStmt:
			return nil, &errors.ActionsOutsideTransitionError{StateMachine: m.Name, State: state, Pos: x.Pos}

		default:
			return nil, &errors.ActionsOutsideTransitionError{StateMachine: m.Name, State: state, Pos: s.StmtPos()}
		}
	}
	return out, nil
}

// actionVocab is the fixed set of effectful block names the Lowerer
// recognizes in action position (spec §4.3's "recognized vocabulary").
var actionVocab = map[string]bool{
	"say": true, "think": true,
	"move": true, "turnLeft": true, "turnRight": true, "pointInDirection": true, "pointTowards": true,
	"goToXY": true, "glide": true, "changeXBy": true, "changeYBy": true,
	"wait": true, "playSound": true, "playSoundUntilDone": true, "stopSounds": true,
	"show": true, "hide": true,
	"broadcast": true, "broadcastAndWait": true,
	"changeVarBy": true, "setVarTo": true,
}

func (m *Machine) effectText(state string, e *ast.EffectStmt) (string, error) {
	if !actionVocab[e.Name] {
		if m.Settings.OmitUnknownBlocks {
			return "?", nil
		}
		return "", &errors.UnsupportedBlockError{StateMachine: m.Name, State: state, Info: e.Name, Pos: e.Pos}
	}
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		s, err := exprxlat.Text(m.Name, state, a, m.Settings)
		if err != nil {
			return "", err
		}
		args[i] = s
	}
	return fmt.Sprintf("%s(%s)", e.Name, joinArgs(args)), nil
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}
