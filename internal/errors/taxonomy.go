package errors

import (
	"fmt"

	"nbstateflow/internal/ast"
)

// CompileError is implemented by every variant in this package's taxonomy
// (spec §7). Callers that need to branch on the specific failure use
// errors.As; callers that just need something to print use Error() or pass
// the value to Reporter.Format.
type CompileError interface {
	error
	Code() string
	Position() ast.Position
}

// RoleCountError: the project has zero or more than one role and the
// caller did not name one.
type RoleCountError struct {
	Count int
}

func (e *RoleCountError) Error() string {
	return fmt.Sprintf("project has %d roles; a role name is required to disambiguate", e.Count)
}
func (e *RoleCountError) Code() string          { return ErrorRoleCount }
func (e *RoleCountError) Position() ast.Position { return ast.Position{} }

// UnknownRoleError: the named role does not exist in the project.
type UnknownRoleError struct {
	Name string
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("no role named %q in project", e.Name)
}
func (e *UnknownRoleError) Code() string          { return ErrorUnknownRole }
func (e *UnknownRoleError) Position() ast.Position { return ast.Position{} }

// UnsupportedBlockError: an AST node in expression or action position has
// no recognized translation, and Settings.OmitUnknownBlocks is off.
type UnsupportedBlockError struct {
	StateMachine string
	State        string
	Info         string
	Pos          ast.Position
}

func (e *UnsupportedBlockError) Error() string {
	return fmt.Sprintf("%s :: %s: unsupported block: %s", e.StateMachine, e.State, e.Info)
}
func (e *UnsupportedBlockError) Code() string          { return ErrorUnsupportedBlock }
func (e *UnsupportedBlockError) Position() ast.Position { return e.Pos }

// NonTerminalTransitionError: a transition-producing statement appears in a
// position where control could continue past it (e.g. followed by more
// statements that are not its else-branch).
type NonTerminalTransitionError struct {
	StateMachine string
	State        string
	Pos          ast.Position
}

func (e *NonTerminalTransitionError) Error() string {
	return fmt.Sprintf("%s :: %s: transition statement is not in tail position", e.StateMachine, e.State)
}
func (e *NonTerminalTransitionError) Code() string          { return ErrorNonTerminalTransition }
func (e *NonTerminalTransitionError) Position() ast.Position { return e.Pos }

// ActionsOutsideTransitionError: effectful statements occur between
// branching transitions in a way that cannot be safely lifted into a
// junction (spec §4.3, §9 open question: kept distinct from
// NonTerminalTransitionError per the taxonomy resolution in SPEC_FULL §7).
type ActionsOutsideTransitionError struct {
	StateMachine string
	State        string
	Pos          ast.Position
}

func (e *ActionsOutsideTransitionError) Error() string {
	return fmt.Sprintf("%s :: %s: action has no legal place between branching transitions", e.StateMachine, e.State)
}
func (e *ActionsOutsideTransitionError) Code() string          { return ErrorActionsOutsideTransition }
func (e *ActionsOutsideTransitionError) Position() ast.Position { return e.Pos }

// ComplexTransitionNameError: a handler hat is not `<var> == "<state>"` (or
// reversed).
type ComplexTransitionNameError struct {
	StateMachine string
	State        string
	Pos          ast.Position
}

func (e *ComplexTransitionNameError) Error() string {
	return fmt.Sprintf("%s :: %s: handler hat is not of the form <var> == \"<state>\"", e.StateMachine, e.State)
}
func (e *ComplexTransitionNameError) Code() string          { return ErrorComplexTransitionName }
func (e *ComplexTransitionNameError) Position() ast.Position { return e.Pos }

// MultipleHandlersError: two scripts both handle the same
// (state machine, state) pair.
type MultipleHandlersError struct {
	StateMachine string
	State        string
	Pos          ast.Position
}

func (e *MultipleHandlersError) Error() string {
	return fmt.Sprintf("%s :: %s: duplicate handler", e.StateMachine, e.State)
}
func (e *MultipleHandlersError) Code() string          { return ErrorMultipleHandlers }
func (e *MultipleHandlersError) Position() ast.Position { return e.Pos }

// VariableOverlapError: a variable is touched by two machines, or collides
// with a machine's own name.
type VariableOverlapError struct {
	StateMachines [2]string
	Variable      string
	Pos           ast.Position
}

func (e *VariableOverlapError) Error() string {
	return fmt.Sprintf("variable %q is shared between state machines %q and %q", e.Variable, e.StateMachines[0], e.StateMachines[1])
}
func (e *VariableOverlapError) Code() string          { return ErrorVariableOverlap }
func (e *VariableOverlapError) Position() ast.Position { return e.Pos }

// ParseError wraps a failure from the upstream AST producer (spec §6: an
// opaque collaborator; see internal/script for this repo's DSL-backed one).
type ParseError struct {
	Inner error
}

func (e *ParseError) Error() string            { return fmt.Sprintf("parse error: %s", e.Inner) }
func (e *ParseError) Unwrap() error             { return e.Inner }
func (e *ParseError) Code() string              { return ErrorParse }
func (e *ParseError) Position() ast.Position    { return ast.Position{} }

var (
	_ CompileError = (*RoleCountError)(nil)
	_ CompileError = (*UnknownRoleError)(nil)
	_ CompileError = (*UnsupportedBlockError)(nil)
	_ CompileError = (*NonTerminalTransitionError)(nil)
	_ CompileError = (*ActionsOutsideTransitionError)(nil)
	_ CompileError = (*ComplexTransitionNameError)(nil)
	_ CompileError = (*MultipleHandlersError)(nil)
	_ CompileError = (*VariableOverlapError)(nil)
	_ CompileError = (*ParseError)(nil)
)
