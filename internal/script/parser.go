package script

import (
	"fmt"

	"github.com/alecthomas/participle/v2"

	"nbstateflow/internal/ast"
	"nbstateflow/internal/errors"
)

var parser = participle.MustBuild[Program](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(4),
)

// Parse parses source (in this repository's stand-in DSL; see package doc)
// into an ast.Program, wrapping any failure as errors.ParseError.
func Parse(filename, source string) (*ast.Program, error) {
	tree, err := parser.ParseString(filename, source)
	if err != nil {
		return nil, &errors.ParseError{Inner: fmt.Errorf("%s: %w", filename, err)}
	}
	return translate(tree), nil
}
