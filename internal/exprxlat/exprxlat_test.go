package exprxlat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbstateflow/internal/ast"
	"nbstateflow/internal/errors"
	"nbstateflow/internal/settings"
)

func str(s string) *ast.ValueExpr  { return &ast.ValueExpr{Kind: ast.ValueString, Str: s} }
func num(n string) *ast.ValueExpr  { return &ast.ValueExpr{Kind: ast.ValueNumber, Num: n} }
func boolean(b bool) *ast.ValueExpr { return &ast.ValueExpr{Kind: ast.ValueBool, Bool: b} }
func variable(name string) *ast.VariableExpr { return &ast.VariableExpr{Name: name} }

func TestTextLiteralsAndVariables(t *testing.T) {
	s := settings.Settings{}

	got, err := Text("M", "A", str("Idle"), s)
	require.NoError(t, err)
	assert.Equal(t, "Idle", got)

	got, err = Text("M", "A", num("42"), s)
	require.NoError(t, err)
	assert.Equal(t, "42", got)

	got, err = Text("M", "A", variable("score"), s)
	require.NoError(t, err)
	assert.Equal(t, "score", got)

	got, err = Text("M", "A", &ast.TimerExpr{}, s)
	require.NoError(t, err)
	assert.Equal(t, "t", got)
}

func TestTextRelationalAndArithmetic(t *testing.T) {
	s := settings.Settings{}
	e := &ast.BinaryExpr{Op: ast.OpGT, Left: variable("t"), Right: num("10")}
	got, err := Text("M", "A", e, s)
	require.NoError(t, err)
	assert.Equal(t, "t > 10", got)

	e2 := &ast.BinaryExpr{Op: ast.OpAdd, Left: variable("x"), Right: num("10")}
	got, err = Text("M", "A", e2, s)
	require.NoError(t, err)
	assert.Equal(t, "x + 10", got)
}

func TestTextAfterAndRandI(t *testing.T) {
	s := settings.Settings{}
	after := &ast.AfterExpr{Amount: num("5")}
	got, err := Text("M", "A", after, s)
	require.NoError(t, err)
	assert.Equal(t, "after(5, sec)", got)

	r := &ast.RandIExpr{Low: num("1"), High: num("10")}
	got, err = Text("M", "A", r, s)
	require.NoError(t, err)
	assert.Equal(t, "randi(1, 10)", got)
}

func TestTextMathFunction(t *testing.T) {
	s := settings.Settings{}
	e := &ast.CallExpr{Func: "sqrt", Args: []ast.Expr{num("9")}}
	got, err := Text("M", "A", e, s)
	require.NoError(t, err)
	assert.Equal(t, "sqrt(9)", got)
}

func TestTextUnsupportedBlock(t *testing.T) {
	s := settings.Settings{}
	e := &ast.CallExpr{Func: "frobnicate", Args: nil}

	_, err := Text("M", "A", e, s)
	require.Error(t, err)
	var ub *errors.UnsupportedBlockError
	require.ErrorAs(t, err, &ub)
	assert.Equal(t, "M", ub.StateMachine)

	s.OmitUnknownBlocks = true
	got, err := Text("M", "A", e, s)
	require.NoError(t, err)
	assert.Equal(t, "?", got)
}

func TestCondBooleanLiteralMapsToConstant(t *testing.T) {
	s := settings.Settings{}
	c, err := Cond("M", "A", boolean(true), s)
	require.NoError(t, err)
	assert.True(t, c.IsTrue())

	c2, err := Cond("M", "A", &ast.BinaryExpr{Op: ast.OpGT, Left: variable("t"), Right: num("10")}, s)
	require.NoError(t, err)
	assert.Equal(t, "t > 10", c2.String())
}
