package compile

import (
	"sort"

	"nbstateflow/internal/ast"
	"nbstateflow/internal/cond"
	"nbstateflow/internal/errors"
	"nbstateflow/internal/lower"
	"nbstateflow/internal/settings"
)

// Compile assembles a Project from prog, per spec §4.4. role disambiguates
// a multi-role program; pass "" when the program has exactly one role.
func Compile(prog *ast.Program, role string, st settings.Settings) (*Project, error) {
	selected, err := selectRole(prog, role)
	if err != nil {
		return nil, err
	}

	asm := &assembler{
		project: &Project{
			Name:          prog.Name,
			Role:          selected.Name,
			StateMachines: map[string]*StateMachine{},
		},
		machines: map[string]*lower.Machine{},
		owners:   map[string]string{},
		settings: st,
	}

	if err := asm.collectHandlers(selected); err != nil {
		return nil, err
	}
	if err := asm.lowerHandlers(); err != nil {
		return nil, err
	}
	asm.inferInitialStates(selected)

	for _, m := range asm.project.StateMachines {
		completeStates(m)
	}

	return asm.project, nil
}

func selectRole(prog *ast.Program, role string) (*ast.Role, error) {
	if role != "" {
		for _, r := range prog.Roles {
			if r.Name == role {
				return r, nil
			}
		}
		return nil, &errors.UnknownRoleError{Name: role}
	}
	if len(prog.Roles) != 1 {
		return nil, &errors.RoleCountError{Count: len(prog.Roles)}
	}
	return prog.Roles[0], nil
}

type handler struct {
	machineVar string
	stateName  string
	entity     string
	stmts      []ast.Stmt
	pos        ast.Position
}

type assembler struct {
	project  *Project
	machines map[string]*lower.Machine
	owners   map[string]string // variable name -> owning machine
	settings settings.Settings
	handlers []handler
}

// collectHandlers classifies every script, detects duplicate handlers and
// variable overlap, and records each recognized handler for later lowering
// (spec §4.4, steps 2-4).
func (a *assembler) collectHandlers(role *ast.Role) error {
	seen := map[[2]string]bool{}

	for _, entity := range role.Entities {
		for _, script := range entity.Scripts {
			machineVar, stateName, isHandler, malformed := classifyHat(script.Hat)
			if malformed {
				return &errors.ComplexTransitionNameError{StateMachine: entity.Name, Pos: script.Pos}
			}
			if !isHandler {
				continue
			}

			key := [2]string{machineVar, stateName}
			if seen[key] {
				return &errors.MultipleHandlersError{StateMachine: machineVar, State: stateName, Pos: script.Pos}
			}
			seen[key] = true

			if _, ok := a.project.StateMachines[machineVar]; !ok {
				a.project.StateMachines[machineVar] = &StateMachine{
					Name:   machineVar,
					States: map[string]*State{},
				}
				a.machines[machineVar] = lower.NewMachine(machineVar, machineVar, a.settings)
				if err := a.claim(machineVar, machineVar, script.Pos); err != nil {
					return err
				}
			}

			if err := a.claimVariables(machineVar, script.Stmts, script.Pos); err != nil {
				return err
			}

			a.handlers = append(a.handlers, handler{
				machineVar: machineVar,
				stateName:  stateName,
				entity:     entity.Name,
				stmts:      script.Stmts,
				pos:        script.Pos,
			})
		}
	}
	return nil
}

// claim records that variable belongs to machine, failing with
// VariableOverlap if a different machine already owns it.
func (a *assembler) claim(machine, variable string, pos ast.Position) error {
	if owner, ok := a.owners[variable]; ok {
		if owner != machine {
			return &errors.VariableOverlapError{StateMachines: [2]string{owner, machine}, Variable: variable, Pos: pos}
		}
		return nil
	}
	a.owners[variable] = machine
	a.project.StateMachines[machine].Variables = append(a.project.StateMachines[machine].Variables, variable)
	return nil
}

func (a *assembler) claimVariables(machine string, stmts []ast.Stmt, pos ast.Position) error {
	vars := map[string]bool{}
	for _, s := range stmts {
		collectVars(s, vars)
	}
	names := make([]string, 0, len(vars))
	for v := range vars {
		names = append(names, v)
	}
	sort.Strings(names)
	for _, v := range names {
		if err := a.claim(machine, v, pos); err != nil {
			return err
		}
	}
	return nil
}

func collectVars(s ast.Stmt, out map[string]bool) {
	switch x := s.(type) {
	case *ast.AssignStmt:
		out[x.Var] = true
		collectExprVars(x.Value, out)
	case *ast.IfStmt:
		collectExprVars(x.Cond, out)
		for _, inner := range x.Then {
			collectVars(inner, out)
		}
	case *ast.IfElseStmt:
		collectExprVars(x.Cond, out)
		for _, inner := range x.Then {
			collectVars(inner, out)
		}
		for _, inner := range x.Else {
			collectVars(inner, out)
		}
	case *ast.ReturnStmt:
		if x.Value != nil {
			collectExprVars(x.Value, out)
		}
	case *ast.EffectStmt:
		for _, a := range x.Args {
			collectExprVars(a, out)
		}
	}
}

func collectExprVars(e ast.Expr, out map[string]bool) {
	switch x := e.(type) {
	case *ast.VariableExpr:
		out[x.Name] = true
	case *ast.BinaryExpr:
		collectExprVars(x.Left, out)
		collectExprVars(x.Right, out)
	case *ast.AfterExpr:
		collectExprVars(x.Amount, out)
	case *ast.RandIExpr:
		collectExprVars(x.Low, out)
		collectExprVars(x.High, out)
	case *ast.CallExpr:
		for _, a := range x.Args {
			collectExprVars(a, out)
		}
	}
}

// classifyHat recognizes `<var> == "<state>"` and its reverse. isHandler is
// false with malformed=false when Hat simply isn't an equality comparison
// (a non-handler script); malformed is true when Hat looks like an attempt
// at one but doesn't resolve to var/literal.
func classifyHat(hat ast.Expr) (machineVar, stateName string, isHandler, malformed bool) {
	if hat == nil {
		return "", "", false, false
	}
	b, ok := hat.(*ast.BinaryExpr)
	if !ok || b.Op != ast.OpEQ {
		return "", "", false, false
	}
	if v, ok := b.Left.(*ast.VariableExpr); ok {
		if lit, ok := b.Right.(*ast.ValueExpr); ok && lit.Kind == ast.ValueString {
			return v.Name, lit.Str, true, false
		}
	}
	if v, ok := b.Right.(*ast.VariableExpr); ok {
		if lit, ok := b.Left.(*ast.ValueExpr); ok && lit.Kind == ast.ValueString {
			return v.Name, lit.Str, true, false
		}
	}
	return "", "", false, true
}

// lowerHandlers runs the Lowerer over every collected handler and
// registers the resulting transitions and junctions (spec §4.4 step 6).
func (a *assembler) lowerHandlers() error {
	for _, h := range a.handlers {
		m := a.machines[h.machineVar]
		result, err := m.Lower(h.stateName, h.stmts, true)
		if err != nil {
			return err
		}

		sm := a.project.StateMachines[h.machineVar]
		src := sm.state(h.stateName)
		for _, t := range result.Transitions {
			src.Transitions = append(src.Transitions, Transition{
				OrderedCondition: t.OrderedCondition,
				Actions:          t.Actions,
				NewState:         t.NewState,
			})
			sm.state(t.NewState) // auto-create target if new
		}

		for _, j := range result.Junctions {
			js := sm.state(j.Name)
			js.IsJunction = true
			js.Parent = j.Parent
			for _, t := range j.Transitions {
				js.Transitions = append(js.Transitions, Transition{
					OrderedCondition: t.OrderedCondition,
					Actions:          t.Actions,
					NewState:         t.NewState,
				})
				sm.state(t.NewState)
			}
		}
	}
	return nil
}

// inferInitialStates resolves spec §4.4 step 5: a project-scope variable
// initializer naming one of the machine's states becomes InitialState; a
// handler whose body opens with a self-referential assignment marks
// CurrentState.
func (a *assembler) inferInitialStates(role *ast.Role) {
	for _, v := range role.Variables {
		sm, ok := a.project.StateMachines[v.Name]
		if !ok {
			continue
		}
		if lit, ok := v.Value.(*ast.ValueExpr); ok && lit.Kind == ast.ValueString {
			if _, exists := sm.States[lit.Str]; exists {
				sm.InitialState = lit.Str
			}
		}
	}

	for _, h := range a.handlers {
		if len(h.stmts) == 0 {
			continue
		}
		assign, ok := h.stmts[0].(*ast.AssignStmt)
		if !ok || assign.Var != h.machineVar {
			continue
		}
		lit, ok := assign.Value.(*ast.ValueExpr)
		if !ok || lit.Kind != ast.ValueString || lit.Str != h.stateName {
			continue
		}
		a.project.StateMachines[h.machineVar].CurrentState = h.stateName
	}
}

// completeStates runs spec §4.4 steps 7-9 over every state of m: transition
// completion, unordered-condition derivation, and pruning of transitions
// that can never fire.
func completeStates(m *StateMachine) {
	for _, name := range m.SortedNames() {
		s := m.States[name]

		if len(s.Transitions) == 0 {
			s.Transitions = append(s.Transitions, Transition{
				OrderedCondition: cond.Constant(true),
				NewState:         s.Name,
			})
		} else if last := s.Transitions[len(s.Transitions)-1]; !last.OrderedCondition.IsTrue() {
			s.Transitions = append(s.Transitions, Transition{
				OrderedCondition: cond.Constant(true),
				NewState:         s.Name,
			})
		}

		neg := cond.Constant(true)
		for i := range s.Transitions {
			t := &s.Transitions[i]
			if i == len(s.Transitions)-1 {
				t.UnorderedCondition = neg
			} else {
				t.UnorderedCondition = neg.And(t.OrderedCondition)
			}
			neg = neg.And(t.OrderedCondition.Not())
		}

		kept := s.Transitions[:0]
		for _, t := range s.Transitions {
			if !t.UnorderedCondition.IsFalse() {
				kept = append(kept, t)
			}
		}
		s.Transitions = kept
	}

	sort.Strings(m.Variables)
}
