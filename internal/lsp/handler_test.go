package lsp_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"nbstateflow/internal/lsp"
)

const trafficSource = `
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
    }
  }
}
`

func writeTrafficFile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "traffic.nb")
	require.NoError(t, os.WriteFile(path, []byte(trafficSource), 0o644))
	return path
}

func TestDidOpenPublishesNoDiagnosticsForValidSource(t *testing.T) {
	path := writeTrafficFile(t)
	uri := "file://" + filepath.ToSlash(path)

	handler := lsp.NewHandler()
	var notified []protocol.Diagnostic
	ctx := &glsp.Context{Notify: func(method string, params any) {
		if p, ok := params.(*protocol.PublishDiagnosticsParams); ok {
			notified = p.Diagnostics
		}
	}}

	err := handler.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri},
	})
	require.NoError(t, err)
	require.Empty(t, notified)
}

func TestTextDocumentSemanticTokensFull(t *testing.T) {
	path := writeTrafficFile(t)
	uri := "file://" + filepath.ToSlash(path)

	handler := lsp.NewHandler()
	ctx := &glsp.Context{Notify: func(string, any) {}}

	require.NoError(t, handler.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri},
	}))

	tokens, err := handler.TextDocumentSemanticTokensFull(ctx, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.NotNil(t, tokens)
	require.NotEmpty(t, tokens.Data)

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)
	require.NotEmpty(t, decoded)

	counts := make(map[string]int)
	for _, tok := range decoded {
		counts[tok.Type]++
	}
	require.Greater(t, counts["namespace"], 0, "expected a namespace token for the role name")
	require.Greater(t, counts["variable"], 0, "expected variable tokens for state references")
	require.Greater(t, counts["function"], 0, "expected a function token for the resetTimer statement")
}

type DecodedToken struct {
	Index     int
	Line      uint32
	Char      uint32
	Length    uint32
	Type      string
	Modifiers []string
}

func decodeSemanticTokens(raw []uint32) ([]DecodedToken, error) {
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("raw token data length %d is not a multiple of 5", len(raw))
	}

	var (
		decoded []DecodedToken
		line    uint32
		char    uint32
	)

	for i := 0; i < len(raw); i += 5 {
		deltaLine := raw[i]
		deltaStart := raw[i+1]
		length := raw[i+2]
		tokenTypeIdx := raw[i+3]
		tokenModMask := raw[i+4]

		if deltaLine == 0 {
			char += deltaStart
		} else {
			line += deltaLine
			char = deltaStart
		}

		var modifiers []string
		for j, name := range lsp.SemanticTokenModifiers {
			if tokenModMask&(1<<j) != 0 {
				modifiers = append(modifiers, name)
			}
		}

		decoded = append(decoded, DecodedToken{
			Index:     i / 5,
			Line:      line,
			Char:      char,
			Length:    length,
			Type:      lsp.SemanticTokenTypes[tokenTypeIdx],
			Modifiers: modifiers,
		})
	}

	return decoded, nil
}
