package script

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes the textual DSL this package parses: a stand-in for the
// real NetsBlox XML project format (out of CORE scope; see spec §1), used
// by the CLI and by this repository's own tests to get real ast.Program
// values without writing an XML parser.
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"String", `"(\\.|[^"\\])*"`, nil},
		{"Number", `[0-9]+(\.[0-9]+)?`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Operator", `(==|~=|<=|>=|=|[<>+\-*/^])`, nil},
		{"Punctuation", `[{}()\[\],;.]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
