// Package exprxlat translates AST value/operator expressions into opaque
// textual atoms used inside conditions and as the right-hand side of
// actions (spec §4.2).
package exprxlat

import (
	"fmt"

	"nbstateflow/internal/ast"
	"nbstateflow/internal/cond"
	"nbstateflow/internal/errors"
	"nbstateflow/internal/settings"
)

// mathFuncs is the fixed vocabulary of trig/transcendental functions
// ExprXlat recognizes as pure expressions.
var mathFuncs = map[string]bool{
	"sin": true, "cos": true, "tan": true,
	"asin": true, "acos": true, "atan": true,
	"sqrt": true, "abs": true, "ln": true, "log": true,
	"floor": true, "ceiling": true, "round": true,
	"e^": true, "10^": true,
}

// Text translates e into its atom/action text. Boolean constants still
// come back as the literal "true"/"false" text here; callers that need
// Cond::constant semantics for a boolean literal in source position should
// use Cond instead.
func Text(stateMachine, state string, e ast.Expr, st settings.Settings) (string, error) {
	switch x := e.(type) {
	case *ast.ValueExpr:
		switch x.Kind {
		case ast.ValueString:
			return x.Str, nil
		case ast.ValueNumber:
			return x.Num, nil
		case ast.ValueBool:
			if x.Bool {
				return "true", nil
			}
			return "false", nil
		}
	case *ast.VariableExpr:
		return x.Name, nil
	case *ast.TimerExpr:
		return "t", nil
	case *ast.AfterExpr:
		amount, err := Text(stateMachine, state, x.Amount, st)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("after(%s, sec)", amount), nil
	case *ast.RandIExpr:
		low, err := Text(stateMachine, state, x.Low, st)
		if err != nil {
			return "", err
		}
		high, err := Text(stateMachine, state, x.High, st)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("randi(%s, %s)", low, high), nil
	case *ast.BinaryExpr:
		left, err := Text(stateMachine, state, x.Left, st)
		if err != nil {
			return "", err
		}
		right, err := Text(stateMachine, state, x.Right, st)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", left, x.Op, right), nil
	case *ast.CallExpr:
		if mathFuncs[x.Func] {
			args := make([]string, len(x.Args))
			for i, a := range x.Args {
				s, err := Text(stateMachine, state, a, st)
				if err != nil {
					return "", err
				}
				args[i] = s
			}
			return fmt.Sprintf("%s(%s)", x.Func, joinArgs(args)), nil
		}
	}

	if st.OmitUnknownBlocks {
		return "?", nil
	}
	return "", &errors.UnsupportedBlockError{
		StateMachine: stateMachine,
		State:        state,
		Info:         fmt.Sprintf("%T", e),
		Pos:          e.ExprPos(),
	}
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

// Cond translates e into a Cond, used for guard positions. A bare boolean
// literal maps to Cond::constant; everything else becomes Cond::atom of
// the translated text.
func Cond(stateMachine, state string, e ast.Expr, st settings.Settings) (cond.Cond, error) {
	if v, ok := e.(*ast.ValueExpr); ok && v.Kind == ast.ValueBool {
		return cond.Constant(v.Bool), nil
	}
	text, err := Text(stateMachine, state, e, st)
	if err != nil {
		return cond.Cond{}, err
	}
	if text == "true" {
		return cond.Constant(true), nil
	}
	if text == "false" {
		return cond.Constant(false), nil
	}
	return cond.Atom(text), nil
}
