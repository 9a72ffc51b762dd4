package lsp

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"flint/internal/ast"
	"flint/internal/config"
	"flint/internal/parser"
	"flint/internal/pipeline"
	"flint/internal/verifier"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var log = commonlog.GetLogger("flint.lsp")

// Define the set of supported semantic token types (as required by the LSP spec)
var SemanticTokenTypes = []string{
	"namespace",
	"type",
	"interface",
	"function",
	"variable",
	"parameter",
	"property",
	"keyword",
	"number",
	"operator",
	"enumMember",
	"event",
}

// Define the set of supported semantic token modifiers
var SemanticTokenModifiers = []string{
	"declaration",
	"definition",
	"readonly",
}

// FlintHandler implements the LSP server handlers for Flint. Documents are parsed
// as they change and verified when they are opened or saved.
type FlintHandler struct {
	mu       sync.RWMutex
	content  map[string]string
	modules  map[string]*ast.Module
	pipeline *pipeline.Pipeline
}

// NewFlintHandler creates a handler verifying with cfg. A nil runner runs the
// verifiers as subprocesses.
func NewFlintHandler(cfg *config.Config, runner verifier.Runner) *FlintHandler {
	p := pipeline.New(cfg, runner)
	// Standard output carries the protocol.
	p.Output = io.Discard

	return &FlintHandler{
		content:  make(map[string]string),
		modules:  make(map[string]*ast.Module),
		pipeline: p,
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *FlintHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
				Save:      &protocol.SaveOptions{IncludeText: ptrBool(true)},
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

func (h *FlintHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

func (h *FlintHandler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	return nil
}

func (h *FlintHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen verifies the opened document.
func (h *FlintHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Infof("opened %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	h.update(path, params.TextDocument.Text)

	return h.verify(ctx, params.TextDocument.URI, path)
}

// TextDocumentDidChange re-parses the document. Verification waits for a save.
func (h *FlintHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	text, ok := wholeText(params.ContentChanges)
	if !ok {
		return nil
	}
	parseErrors := h.update(path, text)
	sendDiagnosticNotification(ctx, params.TextDocument.URI, ConvertParseErrors(parseErrors))

	return nil
}

// TextDocumentDidSave verifies the saved document.
func (h *FlintHandler) TextDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	log.Infof("saved %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	if params.Text != nil {
		h.update(path, *params.Text)
	}

	return h.verify(ctx, params.TextDocument.URI, path)
}

// TextDocumentDidClose forgets the document and clears its diagnostics.
func (h *FlintHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	h.mu.Lock()
	delete(h.content, path)
	delete(h.modules, path)
	h.mu.Unlock()

	sendDiagnosticNotification(ctx, params.TextDocument.URI, []protocol.Diagnostic{})
	return nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *FlintHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	h.mu.RLock()
	module := h.modules[path]
	h.mu.RUnlock()

	return &protocol.SemanticTokens{
		Data: encodeSemanticTokens(collectSemanticTokens(module)),
	}, nil
}

// update stores the text of a document. The last module that parsed is kept for
// highlighting while the text has syntax errors.
func (h *FlintHandler) update(path, text string) []parser.ParseError {
	module, parseErrors := parser.ParseSource(path, text)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.content[path] = text
	if len(parseErrors) == 0 {
		h.modules[path] = module
	}
	return parseErrors
}

func (h *FlintHandler) verify(ctx *glsp.Context, uri protocol.DocumentUri, path string) error {
	h.mu.RLock()
	text, ok := h.content[path]
	h.mu.RUnlock()
	if !ok {
		return fmt.Errorf("document %s is not open", uri)
	}

	result, err := h.pipeline.Verify(context.Background(), []pipeline.Source{{Path: path, Text: text}})
	if err != nil {
		log.Errorf("verification of %s failed: %s", path, err)
		return fmt.Errorf("verification of %s failed: %w", path, err)
	}

	log.Infof("%s: verified=%t, %d diagnostics", path, result.Verified, len(result.Diagnostics))
	sendDiagnosticNotification(ctx, uri, ConvertDiagnostics(path, result.Diagnostics))
	return nil
}

// wholeText returns the last full-document change.
func wholeText(changes []any) (string, bool) {
	for i := len(changes) - 1; i >= 0; i-- {
		if change, ok := changes[i].(protocol.TextDocumentContentChangeEventWhole); ok {
			return change.Text, true
		}
	}
	return "", false
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) to get C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	log.Debugf("publishing %d diagnostics for %s", len(diagnostics), uri)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
