package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbstateflow/internal/ast"
	"nbstateflow/internal/compile"
	"nbstateflow/internal/settings"
)

const trafficLight = `
project "traffic" {
  role myRole {
    var state = "Red";

    entity Light {
      on state == "Red" {
        resetTimer;
        state = "Green";
      }
      on state == "Green" {
        if (timer > 10) {
          state = "Yellow";
        }
      }
      on state == "Yellow" {
        state = "Red";
      }
    }
  }
}
`

func TestParseTrafficLight(t *testing.T) {
	prog, err := Parse("traffic.nb", trafficLight)
	require.NoError(t, err)
	assert.Equal(t, "traffic", prog.Name)
	require.Len(t, prog.Roles, 1)

	role := prog.Roles[0]
	assert.Equal(t, "myRole", role.Name)
	require.Len(t, role.Variables, 1)
	assert.Equal(t, "state", role.Variables[0].Name)

	require.Len(t, role.Entities, 1)
	require.Len(t, role.Entities[0].Scripts, 3)

	redScript := role.Entities[0].Scripts[0]
	hat, ok := redScript.Hat.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpEQ, hat.Op)
	require.Len(t, redScript.Stmts, 2)
	_, isReset := redScript.Stmts[0].(*ast.ResetTimerStmt)
	assert.True(t, isReset)
}

func TestParseAndCompileTrafficLight(t *testing.T) {
	prog, err := Parse("traffic.nb", trafficLight)
	require.NoError(t, err)

	proj, err := compile.Compile(prog, "", settings.Settings{})
	require.NoError(t, err)

	sm := proj.StateMachines["state"]
	require.NotNil(t, sm)
	assert.Equal(t, "Red", sm.InitialState)

	require.Contains(t, sm.States, "Red")
	require.Contains(t, sm.States, "Green")
	require.Contains(t, sm.States, "Yellow")

	red := sm.States["Red"]
	require.Len(t, red.Transitions, 1)
	assert.Equal(t, []string{"t = 0"}, red.Transitions[0].Actions)
	assert.Equal(t, "Green", red.Transitions[0].NewState)

	green := sm.States["Green"]
	require.Len(t, green.Transitions, 2)
	assert.Equal(t, "Yellow", green.Transitions[0].NewState)
	assert.Equal(t, "Green", green.Transitions[1].NewState)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse("bad.nb", `project "x" { role r { entity E { on } } }`)
	require.Error(t, err)
}
