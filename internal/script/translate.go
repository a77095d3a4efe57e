package script

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"nbstateflow/internal/ast"
)

func pos(p lexer.Position) ast.Position {
	return ast.Position{Filename: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func translate(p *Program) *ast.Program {
	out := &ast.Program{Name: unquote(p.Name)}
	for _, r := range p.Roles {
		out.Roles = append(out.Roles, translateRole(r))
	}
	return out
}

func translateRole(r *Role) *ast.Role {
	out := &ast.Role{Name: r.Name, Pos: pos(r.Pos)}
	for _, v := range r.Variables {
		out.Variables = append(out.Variables, &ast.VarDecl{
			Name:  v.Name,
			Value: translateExpr(v.Value),
			Pos:   pos(v.Pos),
		})
	}
	for _, e := range r.Entities {
		out.Entities = append(out.Entities, translateEntity(e))
	}
	return out
}

func translateEntity(e *Entity) *ast.Entity {
	out := &ast.Entity{Name: e.Name}
	for _, s := range e.Scripts {
		out.Scripts = append(out.Scripts, &ast.Script{
			Hat:   translateExpr(s.Hat),
			Stmts: translateStmts(s.Stmts),
			Pos:   pos(s.Pos),
		})
	}
	return out
}

func translateStmts(stmts []*Stmt) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, translateStmt(s))
	}
	return out
}

func translateStmt(s *Stmt) ast.Stmt {
	switch {
	case s.Reset != nil:
		return &ast.ResetTimerStmt{Pos: pos(s.Reset.Pos)}
	case s.Return != nil:
		var v ast.Expr
		if s.Return.Value != nil {
			v = translateExpr(s.Return.Value)
		}
		return &ast.ReturnStmt{Value: v, Pos: pos(s.Return.Pos)}
	case s.IfElse != nil:
		ie := s.IfElse
		cond := translateExpr(ie.Cond)
		then := translateStmts(ie.Then)
		if ie.Else == nil {
			return &ast.IfStmt{Cond: cond, Then: then, Pos: pos(ie.Pos)}
		}
		return &ast.IfElseStmt{Cond: cond, Then: then, Else: translateStmts(ie.Else), Pos: pos(ie.Pos)}
	case s.Assign != nil:
		return &ast.AssignStmt{Var: s.Assign.Var, Value: translateExpr(s.Assign.Value), Pos: pos(s.Assign.Pos)}
	case s.Effect != nil:
		args := make([]ast.Expr, 0, len(s.Effect.Args))
		for _, a := range s.Effect.Args {
			args = append(args, translateExpr(a))
		}
		return &ast.EffectStmt{Name: s.Effect.Name, Args: args, Pos: pos(s.Effect.Pos)}
	}
	panic("script: empty Stmt alternative")
}

var relOps = map[string]ast.BinOp{
	"==": ast.OpEQ, "~=": ast.OpNE,
	"<=": ast.OpLE, ">=": ast.OpGE, "<": ast.OpLT, ">": ast.OpGT,
}

var sumOps = map[string]ast.BinOp{"+": ast.OpAdd, "-": ast.OpSub}
var productOps = map[string]ast.BinOp{"*": ast.OpMul, "/": ast.OpDiv, "^": ast.OpPow}

func translateExpr(e *Expr) ast.Expr {
	left := translateSum(e.Left)
	if e.RelOp == nil {
		return left
	}
	right := translateSum(e.Right)
	return &ast.BinaryExpr{Op: relOps[*e.RelOp], Left: left, Right: right, Pos: pos(e.Pos)}
}

func translateSum(s *Sum) ast.Expr {
	acc := translateProduct(s.Left)
	for _, op := range s.Ops {
		acc = &ast.BinaryExpr{Op: sumOps[op.Op], Left: acc, Right: translateProduct(op.Right), Pos: pos(s.Pos)}
	}
	return acc
}

func translateProduct(p *Product) ast.Expr {
	acc := translateUnary(p.Left)
	for _, op := range p.Ops {
		acc = &ast.BinaryExpr{Op: productOps[op.Op], Left: acc, Right: translateUnary(op.Right), Pos: pos(p.Pos)}
	}
	return acc
}

func translateUnary(u *Unary) ast.Expr {
	return translatePrimary(u.Primary)
}

func translatePrimary(p *Primary) ast.Expr {
	position := pos(p.Pos)
	switch {
	case p.After != nil:
		return &ast.AfterExpr{Amount: translateExpr(p.After.Amount), Pos: pos(p.After.Pos)}
	case p.RandI != nil:
		return &ast.RandIExpr{Low: translateExpr(p.RandI.Low), High: translateExpr(p.RandI.High), Pos: pos(p.RandI.Pos)}
	case p.Timer:
		return &ast.TimerExpr{Pos: position}
	case p.Bool != nil:
		return &ast.ValueExpr{Kind: ast.ValueBool, Bool: *p.Bool == "true", Pos: position}
	case p.Number != nil:
		return &ast.ValueExpr{Kind: ast.ValueNumber, Num: *p.Number, Pos: position}
	case p.String != nil:
		return &ast.ValueExpr{Kind: ast.ValueString, Str: unquote(*p.String), Pos: position}
	case p.Call != nil:
		args := make([]ast.Expr, 0, len(p.Call.Args))
		for _, a := range p.Call.Args {
			args = append(args, translateExpr(a))
		}
		return &ast.CallExpr{Func: p.Call.Func, Args: args, Pos: pos(p.Call.Pos)}
	case p.Ident != nil:
		return &ast.VariableExpr{Name: *p.Ident, Pos: position}
	case p.Paren != nil:
		return translateExpr(p.Paren)
	}
	panic("script: empty Primary alternative")
}

func unquote(s string) string {
	if v, err := strconv.Unquote(s); err == nil {
		return v
	}
	return strings.Trim(s, `"`)
}
