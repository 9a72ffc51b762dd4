package lsp_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"flint/internal/ast"
	"flint/internal/config"
	"flint/internal/errors"
	"flint/internal/lsp"
	"flint/internal/verifier"
)

const vaultSource = `contract Vault {
  var total: Int = 0
}

Vault :: (any) {
  public init() {}

  public func check(x: Int) {
    assert(x > 0)
  }
}
`

// boogie fails the assertion generated for source line 9 when failAssert is set.
type boogie struct {
	mu         sync.Mutex
	failAssert bool
}

func (b *boogie) Run(_ context.Context, _ string, args ...string) (verifier.Output, error) {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return verifier.Output{}, err
	}

	text := "Boogie program verifier version 2.4.1.10503, Copyright (c) 2003-2014, Microsoft.\n"
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failAssert {
		lines := strings.Split(string(data), "\n")
		for i := 0; i+1 < len(lines); i++ {
			if strings.Contains(lines[i], "#MARKER# 9 ") && strings.HasPrefix(strings.TrimSpace(lines[i+1]), "assert") {
				text += fmt.Sprintf("prog.bpl(%d,5): Error BP5001: This assertion might not hold.\n", i+2)
				break
			}
		}
	}
	return verifier.Output{Text: text + "Boogie program verifier finished\n"}, nil
}

type published struct {
	mu     sync.Mutex
	params []*protocol.PublishDiagnosticsParams
}

func (p *published) context() *glsp.Context {
	return &glsp.Context{Notify: func(method string, params any) {
		if method != protocol.ServerTextDocumentPublishDiagnostics {
			return
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		p.params = append(p.params, params.(*protocol.PublishDiagnosticsParams))
	}}
}

func (p *published) last(t *testing.T) *protocol.PublishDiagnosticsParams {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.params, "no diagnostics were published")
	return p.params[len(p.params)-1]
}

func newHandler(runner verifier.Runner) *lsp.FlintHandler {
	cfg := config.Default()
	cfg.CheckInconsistency = false
	cfg.CheckUnreachable = false
	return lsp.NewFlintHandler(cfg, runner)
}

func documentURI(t *testing.T) (string, protocol.DocumentUri) {
	path := filepath.Join(t.TempDir(), "vault.flint")
	return path, "file://" + filepath.ToSlash(path)
}

func open(t *testing.T, h *lsp.FlintHandler, ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	t.Helper()
	err := h.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "flint", Version: 1, Text: text},
	})
	require.NoError(t, err)
}

func TestDidOpenPublishesFailedAssertions(t *testing.T) {
	_, uri := documentURI(t)
	handler := newHandler(&boogie{failAssert: true})
	notes := &published{}

	open(t, handler, notes.context(), uri, vaultSource)

	params := notes.last(t)
	assert.Equal(t, uri, params.URI)
	require.Len(t, params.Diagnostics, 1)
	d := params.Diagnostics[0]
	assert.Equal(t, uint32(8), d.Range.Start.Line)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.Equal(t, errors.ErrorAssertionFailure, d.Code.Value)
	assert.Equal(t, "flint-verify", *d.Source)
}

func TestDidSaveClearsFixedFailures(t *testing.T) {
	_, uri := documentURI(t)
	runner := &boogie{failAssert: true}
	handler := newHandler(runner)
	notes := &published{}
	ctx := notes.context()

	open(t, handler, ctx, uri, vaultSource)
	require.Len(t, notes.last(t).Diagnostics, 1)

	runner.mu.Lock()
	runner.failAssert = false
	runner.mu.Unlock()

	fixed := strings.Replace(vaultSource, "x > 0", "x > 0 || x <= 0", 1)
	err := handler.TextDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Text:         &fixed,
	})
	require.NoError(t, err)

	assert.Empty(t, notes.last(t).Diagnostics)
	assert.NotNil(t, notes.last(t).Diagnostics, "an empty list clears the editor")
}

func TestDidChangePublishesSyntaxErrors(t *testing.T) {
	_, uri := documentURI(t)
	handler := newHandler(&boogie{})
	notes := &published{}
	ctx := notes.context()
	open(t, handler, ctx, uri, vaultSource)

	err := handler.TextDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "contract Vault {\n  var total: = 0\n}\n"}},
	})
	require.NoError(t, err)

	params := notes.last(t)
	require.NotEmpty(t, params.Diagnostics)
	assert.Equal(t, errors.ErrorSyntax, params.Diagnostics[0].Code.Value)
	assert.Equal(t, "flint-parser", *params.Diagnostics[0].Source)

	// Highlighting keeps the last document that parsed.
	tokens, err := handler.TextDocumentSemanticTokensFull(ctx, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.Data)
}

func TestDidCloseClearsDiagnostics(t *testing.T) {
	_, uri := documentURI(t)
	handler := newHandler(&boogie{failAssert: true})
	notes := &published{}
	ctx := notes.context()
	open(t, handler, ctx, uri, vaultSource)

	err := handler.TextDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	assert.Empty(t, notes.last(t).Diagnostics)

	err = handler.TextDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	assert.Error(t, err, "closed documents are not verified")
}

func TestConvertDiagnostics(t *testing.T) {
	path := "/work/vault.flint"
	at := func(file string, line, column int) ast.Position {
		return ast.Position{Filename: file, Line: line, Column: column}
	}

	found := []errors.Diagnostic{
		{
			Severity: errors.Error,
			Code:     errors.ErrorPreconditionFailure,
			Location: at(path, 12, 5),
			Length:   8,
			Message:  "Could not verify precondition holds",
			Notes: []errors.Diagnostic{
				{Severity: errors.Note, Location: at(path, 3, 7), Length: 5, Message: "Precondition declared here"},
				{Severity: errors.Note, Message: "Trigger: deposit"},
				{Severity: errors.Note, Location: at("stdlib/Wei.flint", 4, 3), Message: "Inside the standard library"},
			},
		},
		{Severity: errors.Warning, Code: errors.WarningUnreachableCode, Location: at(path, 20, 9), Message: "This branch is never taken"},
		{Severity: errors.Error, Code: errors.ErrorAssertionFailure, Location: at("/work/other.flint", 2, 1), Message: "elsewhere"},
		{Severity: errors.Error, Code: errors.ErrorHolisticFailure, Message: "Could not verify holistic specification"},
	}

	diagnostics := lsp.ConvertDiagnostics(path, found)
	require.Len(t, diagnostics, 3)

	pre := diagnostics[0]
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 11, Character: 4},
		End:   protocol.Position{Line: 11, Character: 12},
	}, pre.Range)
	assert.Equal(t, "Could not verify precondition holds\nTrigger: deposit\nInside the standard library", pre.Message)
	require.Len(t, pre.RelatedInformation, 1)
	assert.Equal(t, "file:///work/vault.flint", pre.RelatedInformation[0].Location.URI)
	assert.Equal(t, uint32(2), pre.RelatedInformation[0].Location.Range.Start.Line)
	assert.Equal(t, "Precondition declared here", pre.RelatedInformation[0].Message)

	assert.Equal(t, protocol.DiagnosticSeverityWarning, *diagnostics[1].Severity)
	assert.Equal(t, uint32(1), diagnostics[1].Range.End.Character-diagnostics[1].Range.Start.Character)

	holistic := diagnostics[2]
	assert.Equal(t, protocol.Range{}, holistic.Range)
	assert.Equal(t, errors.ErrorHolisticFailure, holistic.Code.Value)
}

func TestTextDocumentSemanticTokensFull(t *testing.T) {
	_, uri := documentURI(t)
	handler := newHandler(&boogie{})
	ctx := (&published{}).context()
	open(t, handler, ctx, uri, vaultSource)

	tokens, err := handler.TextDocumentSemanticTokensFull(ctx, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err, "TextDocumentSemanticTokensFull returned error")
	require.NotNil(t, tokens, "Returned tokens should not be nil")

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err, "Failed to decode semantic tokens")
	require.Len(t, decoded, 12)

	assertToken(t, &decoded[0], 1, 10, 5, "type", []string{"declaration"})
	assertToken(t, &decoded[1], 2, 7, 5, "property", []string{"declaration"})
	assertToken(t, &decoded[2], 2, 14, 3, "type", nil)
	assertToken(t, &decoded[3], 2, 20, 1, "number", nil)
	assertToken(t, &decoded[4], 5, 1, 5, "type", nil)
	assertToken(t, &decoded[5], 5, 11, 3, "keyword", nil)
	assertToken(t, &decoded[6], 8, 15, 5, "function", []string{"declaration"})
	assertToken(t, &decoded[7], 8, 21, 1, "parameter", []string{"declaration"})
	assertToken(t, &decoded[8], 8, 24, 3, "type", nil)
	assertToken(t, &decoded[9], 9, 5, 6, "function", nil)
	assertToken(t, &decoded[10], 9, 12, 1, "variable", nil)
	assertToken(t, &decoded[11], 9, 16, 1, "number", nil)
}

func TestSemanticTokensOfTraits(t *testing.T) {
	_, uri := documentURI(t)
	handler := newHandler(&boogie{})
	ctx := (&published{}).context()
	open(t, handler, ctx, uri, `struct trait Named {
  func name() -> Int
}

struct Tag: Named {
  init() {}
  func name() -> Int { return 1 }
}
`)

	tokens, err := handler.TextDocumentSemanticTokensFull(ctx, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)

	var traits []DecodedToken
	for _, token := range decoded {
		if token.Type == "interface" {
			traits = append(traits, token)
		}
	}
	require.Len(t, traits, 2)
	assertToken(t, &traits[0], 1, 14, 5, "interface", []string{"declaration"})
	assertToken(t, &traits[1], 5, 13, 5, "interface", nil)

	require.NotEmpty(t, decoded)
	assertToken(t, &decoded[1], 2, 8, 4, "function", []string{"declaration"})
}

func TestSemanticTokensOfUnknownDocument(t *testing.T) {
	handler := newHandler(&boogie{})
	tokens, err := handler.TextDocumentSemanticTokensFull(&glsp.Context{}, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///nowhere.flint"},
	})
	require.NoError(t, err)
	assert.Empty(t, tokens.Data)
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
			Line:      line + 1, // LSP uses 0-based indexing
			Char:      char + 1, // LSP uses 0-based indexing
			Length:    length,
			Type:      lsp.SemanticTokenTypes[tokenTypeIdx],
			Modifiers: modifiers,
		})
	}

	return decoded, nil
}

func assertToken(t *testing.T, token *DecodedToken, expectedLine, expectedChar, expectedLength uint32, expectedType string, expectedModifiers []string) {
	require.Equal(t, expectedLine, token.Line, "line mismatch (expected line %d)", expectedLine)
	require.Equal(t, expectedChar, token.Char, "char mismatch (expected char %d)", expectedChar)
	require.Equal(t, expectedLength, token.Length, "length mismatch")
	require.Equal(t, expectedType, token.Type, "type mismatch")
	require.ElementsMatch(t, expectedModifiers, token.Modifiers, "modifiers mismatch")
}
