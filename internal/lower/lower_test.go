package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbstateflow/internal/ast"
	"nbstateflow/internal/errors"
	"nbstateflow/internal/settings"
)

func lit(s string) *ast.ValueExpr { return &ast.ValueExpr{Kind: ast.ValueString, Str: s} }

func assign(v string, e ast.Expr) *ast.AssignStmt { return &ast.AssignStmt{Var: v, Value: e} }

func variable(name string) *ast.VariableExpr { return &ast.VariableExpr{Name: name} }

func TestLowerUnconditionalTransition(t *testing.T) {
	m := NewMachine("Light", "state", settings.Settings{})
	stmts := []ast.Stmt{assign("state", lit("Green"))}

	r, err := m.Lower("Red", stmts, true)
	require.NoError(t, err)
	require.Len(t, r.Transitions, 1)
	assert.True(t, r.Transitions[0].OrderedCondition.IsTrue())
	assert.Equal(t, "Green", r.Transitions[0].NewState)
	assert.Empty(t, r.Junctions)
}

func TestLowerGuardedWithImplicitElse(t *testing.T) {
	m := NewMachine("Light", "state", settings.Settings{})
	stmts := []ast.Stmt{
		&ast.IfStmt{
			Cond: &ast.BinaryExpr{Op: ast.OpGT, Left: &ast.TimerExpr{}, Right: &ast.ValueExpr{Kind: ast.ValueNumber, Num: "10"}},
			Then: []ast.Stmt{assign("state", lit("Yellow"))},
		},
		assign("state", lit("Red")),
	}

	r, err := m.Lower("Green", stmts, true)
	require.NoError(t, err)
	require.Len(t, r.Transitions, 2)

	assert.Equal(t, "Yellow", r.Transitions[0].NewState)
	assert.Equal(t, "t > 10", r.Transitions[0].OrderedCondition.String())

	assert.Equal(t, "Red", r.Transitions[1].NewState)
	assert.Equal(t, "~(t > 10)", r.Transitions[1].OrderedCondition.String())
}

func TestLowerIfElseBothTerminal(t *testing.T) {
	m := NewMachine("Door", "state", settings.Settings{})
	stmts := []ast.Stmt{
		&ast.IfElseStmt{
			Cond: &ast.BinaryExpr{Op: ast.OpEQ, Left: variable("key"), Right: lit("valid")},
			Then: []ast.Stmt{assign("state", lit("Open"))},
			Else: []ast.Stmt{assign("state", lit("Locked"))},
		},
	}

	r, err := m.Lower("Closed", stmts, true)
	require.NoError(t, err)
	require.Len(t, r.Transitions, 2)
	assert.Equal(t, "Open", r.Transitions[0].NewState)
	assert.Equal(t, "Locked", r.Transitions[1].NewState)
}

func TestLowerJunctionSynthesis(t *testing.T) {
	m := NewMachine("Door", "state", settings.Settings{})
	stmts := []ast.Stmt{
		&ast.EffectStmt{Name: "say", Args: []ast.Expr{lit("checking")}},
		&ast.IfElseStmt{
			Cond: &ast.BinaryExpr{Op: ast.OpEQ, Left: variable("key"), Right: lit("valid")},
			Then: []ast.Stmt{assign("state", lit("Open"))},
			Else: []ast.Stmt{assign("state", lit("Locked"))},
		},
	}

	r, err := m.Lower("Closed", stmts, true)
	require.NoError(t, err)
	require.Len(t, r.Transitions, 1)
	require.Len(t, r.Junctions, 1)

	entry := r.Transitions[0]
	assert.True(t, entry.OrderedCondition.IsTrue())
	assert.Equal(t, []string{`say(checking)`}, entry.Actions)
	assert.Equal(t, r.Junctions[0].Name, entry.NewState)

	junction := r.Junctions[0]
	assert.Equal(t, "::junction-0::", junction.Name)
	assert.Equal(t, "Closed", junction.Parent)
	require.Len(t, junction.Transitions, 2)
}

func TestLowerNestedIfElseGuardIsConjunctionOfFullConditions(t *testing.T) {
	m := NewMachine("Light", "state", settings.Settings{})
	gt := func(n string) *ast.BinaryExpr {
		return &ast.BinaryExpr{Op: ast.OpGT, Left: &ast.TimerExpr{}, Right: &ast.ValueExpr{Kind: ast.ValueNumber, Num: n}}
	}
	stmts := []ast.Stmt{
		&ast.IfStmt{
			Cond: gt("10"),
			Then: []ast.Stmt{
				&ast.IfStmt{
					Cond: gt("9"),
					Then: []ast.Stmt{assign("state", lit("C"))},
				},
			},
		},
		assign("state", lit("D")),
	}

	r, err := m.Lower("A", stmts, true)
	require.NoError(t, err)
	require.Len(t, r.Transitions, 2)

	assert.Equal(t, "C", r.Transitions[0].NewState)
	assert.Equal(t, "t > 10 & t > 9", r.Transitions[0].OrderedCondition.String())

	assert.Equal(t, "D", r.Transitions[1].NewState)
	assert.Equal(t, "~(t > 10 & t > 9)", r.Transitions[1].OrderedCondition.String())
}

func TestLowerSingleTransitionNoJunction(t *testing.T) {
	m := NewMachine("Light", "state", settings.Settings{})
	stmts := []ast.Stmt{
		&ast.ResetTimerStmt{},
		assign("state", lit("Green")),
	}

	r, err := m.Lower("Red", stmts, true)
	require.NoError(t, err)
	require.Len(t, r.Transitions, 1)
	assert.Equal(t, []string{"t = 0"}, r.Transitions[0].Actions)
	assert.Empty(t, r.Junctions)
}

func TestLowerActionsOutsideTransitionError(t *testing.T) {
	m := NewMachine("Light", "state", settings.Settings{})
	stmts := []ast.Stmt{
		&ast.IfStmt{
			Cond: variable("ready"),
			Then: []ast.Stmt{assign("state", lit("Green"))},
		},
		&ast.EffectStmt{Name: "say", Args: []ast.Expr{lit("hi")}},
	}

	_, err := m.Lower("Red", stmts, true)
	require.Error(t, err)
	var aot *errors.ActionsOutsideTransitionError
	require.ErrorAs(t, err, &aot)
}

func TestLowerUnsupportedEffectBlock(t *testing.T) {
	m := NewMachine("Light", "state", settings.Settings{})
	stmts := []ast.Stmt{&ast.EffectStmt{Name: "doBackflip"}}

	_, err := m.Lower("Red", stmts, true)
	require.Error(t, err)
	var ub *errors.UnsupportedBlockError
	require.ErrorAs(t, err, &ub)

	m2 := NewMachine("Light", "state", settings.Settings{OmitUnknownBlocks: true})
	r, err := m2.Lower("Red", stmts, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"?"}, r.Actions)
}

func TestLowerNoTransitionsYieldsBareActions(t *testing.T) {
	m := NewMachine("Light", "state", settings.Settings{})
	stmts := []ast.Stmt{&ast.EffectStmt{Name: "say", Args: []ast.Expr{lit("idle")}}}

	r, err := m.Lower("Red", stmts, true)
	require.NoError(t, err)
	assert.Empty(t, r.Transitions)
	assert.Equal(t, []string{"say(idle)"}, r.Actions)
}
