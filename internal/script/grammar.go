package script

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// This file defines the DSL's own parse tree, independent of internal/ast;
// translate.go lowers it into ast.Program. Grammar shape follows the
// teacher's grammar package (tagged struct fields driven by participle,
// one type per production, a Pos field participle fills in automatically).

type Program struct {
	Name  string  `"project" @String "{"`
	Roles []*Role `@@* "}"`
}

type Role struct {
	Pos       lexer.Position
	Name      string     `"role" @Ident "{"`
	Variables []*VarDecl `@@*`
	Entities  []*Entity  `@@* "}"`
}

type VarDecl struct {
	Pos   lexer.Position
	Name  string `"var" @Ident "="`
	Value *Expr  `@@ ";"`
}

type Entity struct {
	Name    string    `"entity" @Ident "{"`
	Scripts []*Script `@@* "}"`
}

type Script struct {
	Pos   lexer.Position
	Hat   *Expr   `"on" @@ "{"`
	Stmts []*Stmt `@@* "}"`
}

type Stmt struct {
	Reset  *ResetTimerStmt `  @@`
	Return *ReturnStmt     `| @@`
	IfElse *IfElseStmt     `| @@`
	Assign *AssignStmt     `| @@`
	Effect *EffectStmt     `| @@`
}

type ResetTimerStmt struct {
	Pos    lexer.Position
	Marker string `"resetTimer" ";"`
}

type ReturnStmt struct {
	Pos   lexer.Position
	Value *Expr `"return" [ @@ ] ";"`
}

type IfElseStmt struct {
	Pos  lexer.Position
	Cond *Expr   `"if" "(" @@ ")" "{"`
	Then []*Stmt `@@* "}"`
	Else []*Stmt `[ "else" "{" @@* "}" ]`
}

type AssignStmt struct {
	Pos   lexer.Position
	Var   string `@Ident "="`
	Value *Expr  `@@ ";"`
}

type EffectStmt struct {
	Pos  lexer.Position
	Name string  `@Ident "("`
	Args []*Expr `[ @@ { "," @@ } ] ")" ";"`
}

// Expr is a relational comparison over arithmetic sums, which is all this
// DSL's hats and guards ever need.
type Expr struct {
	Pos   lexer.Position
	Left  *Sum    `@@`
	RelOp *string `[ @("==" | "~=" | "<=" | ">=" | "<" | ">")`
	Right *Sum    `  @@ ]`
}

type Sum struct {
	Pos  lexer.Position
	Left *Product `@@`
	Ops  []*SumOp `{ @@ }`
}

type SumOp struct {
	Op    string   `@("+" | "-")`
	Right *Product `@@`
}

type Product struct {
	Pos  lexer.Position
	Left *Unary       `@@`
	Ops  []*ProductOp `{ @@ }`
}

type ProductOp struct {
	Op    string `@("*" | "/" | "^")`
	Right *Unary `@@`
}

type Unary struct {
	Primary *Primary `@@`
}

type Primary struct {
	Pos    lexer.Position
	After  *AfterExpr `  @@`
	RandI  *RandIExpr `| @@`
	Timer  bool       `| @"timer"`
	Bool   *string    `| @("true" | "false")`
	Number *string    `| @Number`
	String *string    `| @String`
	Call   *CallExpr  `| @@`
	Ident  *string    `| @Ident`
	Paren  *Expr      `| "(" @@ ")"`
}

type AfterExpr struct {
	Pos    lexer.Position
	Amount *Expr `"after" "(" @@ "," "sec" ")"`
}

type RandIExpr struct {
	Pos  lexer.Position
	Low  *Expr `"randi" "(" @@`
	High *Expr `"," @@ ")"`
}

type CallExpr struct {
	Pos  lexer.Position
	Func string  `@Ident "("`
	Args []*Expr `[ @@ { "," @@ } ] ")"`
}
