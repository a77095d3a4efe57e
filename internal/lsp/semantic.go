package lsp

import "nbstateflow/internal/ast"

// SemanticTokenTypes is this server's semantic token legend (spec: a
// reduced set of kanso's legend — this DSL has no structs, generics, or
// imports to report tokens for).
var SemanticTokenTypes = []string{
	"namespace",
	"variable",
	"parameter",
	"keyword",
	"number",
	"function",
}

// SemanticTokenModifiers mirrors kanso's declaration/readonly modifier set.
var SemanticTokenModifiers = []string{
	"declaration",
	"readonly",
}

// SemanticToken is one LSP semantic token entry; Line/StartChar are
// 0-based, matching the protocol's delta encoding.
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

func collectSemanticTokens(prog *ast.Program) []SemanticToken {
	if prog == nil {
		return nil
	}
	var tokens []SemanticToken
	for _, role := range prog.Roles {
		tokens = append(tokens, makeToken(role.Pos, role.Name, "namespace", 1))
		for _, v := range role.Variables {
			tokens = append(tokens, makeToken(v.Pos, v.Name, "variable", 1))
			tokens = append(tokens, walkExpr(v.Value)...)
		}
		for _, e := range role.Entities {
			for _, s := range e.Scripts {
				tokens = append(tokens, walkExpr(s.Hat)...)
				tokens = append(tokens, walkStmts(s.Stmts)...)
			}
		}
	}
	return tokens
}

func walkStmts(stmts []ast.Stmt) []SemanticToken {
	var tokens []SemanticToken
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.AssignStmt:
			tokens = append(tokens, makeToken(s.Pos, s.Var, "variable", 0))
			tokens = append(tokens, walkExpr(s.Value)...)
		case *ast.IfStmt:
			tokens = append(tokens, walkExpr(s.Cond)...)
			tokens = append(tokens, walkStmts(s.Then)...)
		case *ast.IfElseStmt:
			tokens = append(tokens, walkExpr(s.Cond)...)
			tokens = append(tokens, walkStmts(s.Then)...)
			tokens = append(tokens, walkStmts(s.Else)...)
		case *ast.ResetTimerStmt:
			tokens = append(tokens, makeToken(s.Pos, "resetTimer", "function", 0))
		case *ast.EffectStmt:
			tokens = append(tokens, makeToken(s.Pos, s.Name, "function", 0))
			for _, a := range s.Args {
				tokens = append(tokens, walkExpr(a)...)
			}
		case *ast.ReturnStmt:
			if s.Value != nil {
				tokens = append(tokens, walkExpr(s.Value)...)
			}
		}
	}
	return tokens
}

func walkExpr(e ast.Expr) []SemanticToken {
	if e == nil {
		return nil
	}
	switch x := e.(type) {
	case *ast.VariableExpr:
		return []SemanticToken{makeToken(x.Pos, x.Name, "variable", 0)}
	case *ast.ValueExpr:
		switch x.Kind {
		case ast.ValueNumber:
			return []SemanticToken{makeToken(x.Pos, x.Num, "number", 0)}
		default:
			return nil
		}
	case *ast.BinaryExpr:
		var tokens []SemanticToken
		tokens = append(tokens, walkExpr(x.Left)...)
		tokens = append(tokens, walkExpr(x.Right)...)
		return tokens
	case *ast.CallExpr:
		tokens := []SemanticToken{makeToken(x.Pos, x.Func, "function", 0)}
		for _, a := range x.Args {
			tokens = append(tokens, walkExpr(a)...)
		}
		return tokens
	case *ast.AfterExpr:
		return walkExpr(x.Amount)
	case *ast.RandIExpr:
		return append(walkExpr(x.Low), walkExpr(x.High)...)
	default:
		return nil
	}
}

// makeToken builds a token spanning len(text) columns from pos; this AST
// carries only start positions, so token length is always derived from the
// token's own text.
func makeToken(pos ast.Position, text, tokenType string, decl int) SemanticToken {
	return SemanticToken{
		Line:           uint32(max0(pos.Line - 1)),
		StartChar:      uint32(max0(pos.Column - 1)),
		Length:         uint32(len(text)),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: decl << indexOf("declaration", SemanticTokenModifiers),
	}
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return -1
}
