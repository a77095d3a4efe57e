package lsp

import (
	stderrors "errors"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"nbstateflow/internal/errors"
)

// diagnosticsFor converts a compile failure into LSP diagnostics. A
// ParseError wraps an arbitrary participle error with no reliable
// position, so it is reported at the top of the document; anything else
// satisfying CompileError carries its own Position.
func diagnosticsFor(err error) []protocol.Diagnostic {
	if err == nil {
		return nil
	}

	var ce errors.CompileError
	if !stderrors.As(err, &ce) {
		return []protocol.Diagnostic{{
			Range:    zeroRange(),
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("nbstateflow"),
			Message:  err.Error(),
		}}
	}

	pos := ce.Position()
	rng := zeroRange()
	if pos.Line > 0 {
		rng = protocol.Range{
			Start: protocol.Position{
				Line:      uint32(pos.Line - 1),
				Character: uint32(max0(pos.Column - 1)),
			},
			End: protocol.Position{
				Line:      uint32(pos.Line - 1),
				Character: uint32(max0(pos.Column-1) + 1),
			},
		}
	}

	return []protocol.Diagnostic{{
		Range:    rng,
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("nbstateflow[" + ce.Code() + "]"),
		Message:  ce.Error(),
	}}
}

func zeroRange() protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 0, Character: 1},
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

func ptrString(s string) *string { return &s }
