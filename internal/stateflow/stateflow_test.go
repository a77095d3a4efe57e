package stateflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbstateflow/internal/ast"
	"nbstateflow/internal/compile"
	"nbstateflow/internal/settings"
)

func lit(s string) *ast.ValueExpr      { return &ast.ValueExpr{Kind: ast.ValueString, Str: s} }
func vr(name string) *ast.VariableExpr { return &ast.VariableExpr{Name: name} }
func hat(v, s string) *ast.BinaryExpr  { return &ast.BinaryExpr{Op: ast.OpEQ, Left: vr(v), Right: lit(s)} }
func assign(v string, e ast.Expr) *ast.AssignStmt { return &ast.AssignStmt{Var: v, Value: e} }

func trafficProject(t *testing.T) *compile.Project {
	t.Helper()
	prog := &ast.Program{
		Name: "my project",
		Roles: []*ast.Role{{
			Name:      "myRole",
			Variables: []*ast.VarDecl{{Name: "state", Value: lit("Red")}},
			Entities: []*ast.Entity{{
				Name: "Light",
				Scripts: []*ast.Script{
					{Hat: hat("state", "Red"), Stmts: []ast.Stmt{assign("state", lit("Green"))}},
					{Hat: hat("state", "Green"), Stmts: []ast.Stmt{
						&ast.IfStmt{
							Cond: &ast.BinaryExpr{Op: ast.OpGT, Left: &ast.TimerExpr{}, Right: &ast.ValueExpr{Kind: ast.ValueNumber, Num: "10"}},
							Then: []ast.Stmt{assign("state", lit("Yellow"))},
						},
					}},
					{Hat: hat("state", "Yellow"), Stmts: []ast.Stmt{assign("state", lit("Red"))}},
				},
			}},
		}},
	}
	proj, err := compile.Compile(prog, "", settings.Settings{})
	require.NoError(t, err)
	return proj
}

func TestRenderTrafficLight(t *testing.T) {
	proj := trafficProject(t)
	out, err := Render(proj)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "sfnew my_project\n"))
	assert.Contains(t, out, "chart1 = Stateflow.Chart(rt);")
	assert.Contains(t, out, "chart1.Name = 'state';")
	assert.Contains(t, out, "s1.Name = 'Green';")
	assert.Contains(t, out, "t0.Destination =")
	assert.Contains(t, out, "t0.DestinationOClock = 0;")

	var sawGuarded, sawUnguarded bool
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "LabelString") && strings.Contains(line, "t > 10") {
			sawGuarded = true
		}
		if strings.Contains(line, "LabelString") && strings.Contains(line, "[]{}") {
			sawUnguarded = true
		}
	}
	assert.True(t, sawGuarded, "expected a guarded transition label mentioning t > 10")
	assert.True(t, sawUnguarded, "expected at least one unguarded transition label")

	assert.Contains(t, out, "d1 = Stateflow.Data(chart1);")
	assert.Contains(t, out, "d1.Name = 'state';")
}

func TestSanitizeReplacesSpaces(t *testing.T) {
	assert.Equal(t, "my_project", sanitize("my project"))
}

func TestQuoteEscapesSingleQuotes(t *testing.T) {
	assert.Equal(t, "'it''s'", quote("it's"))
}
