package lsp

import (
	"strings"

	"flint/internal/ast"
	"flint/internal/errors"
	"flint/internal/parser"
	"flint/internal/stdlib"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

const diagnosticSource = "flint-verify"

// ConvertParseErrors transforms parser errors into LSP diagnostics. They are
// published while the user types, before the document is verified on save.
func ConvertParseErrors(parseErrors []parser.ParseError) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}

	for _, parseErr := range parseErrors {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    toRange(parseErr.Position, 1),
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Code:     &protocol.IntegerOrString{Value: errors.ErrorSyntax},
			Source:   ptrString("flint-parser"),
			Message:  parseErr.Message,
		})
	}

	return diagnostics
}

// ConvertDiagnostics transforms the verifier's findings for the document at path.
// Findings located in other files are dropped; findings without a location are
// shown at the top of the document. Located notes become related information and
// the rest are appended to the message.
func ConvertDiagnostics(path string, found []errors.Diagnostic) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}

	for _, d := range found {
		if d.Location.IsValid() && d.Location.Filename != path {
			continue
		}

		message := d.Message
		var related []protocol.DiagnosticRelatedInformation
		for _, note := range d.Notes {
			if !note.Location.IsValid() || stdlib.IsStdlibPosition(note.Location) {
				message += "\n" + note.Message
				continue
			}
			related = append(related, protocol.DiagnosticRelatedInformation{
				Location: protocol.Location{
					URI:   pathToURI(note.Location.Filename),
					Range: toRange(note.Location, note.Length),
				},
				Message: note.Message,
			})
		}

		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:              toRange(d.Location, d.Length),
			Severity:           ptrSeverity(severity(d.Severity)),
			Code:               &protocol.IntegerOrString{Value: d.Code},
			Source:             ptrString(diagnosticSource),
			Message:            message,
			RelatedInformation: related,
		})
	}

	return diagnostics
}

func severity(s errors.Severity) protocol.DiagnosticSeverity {
	switch s {
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Note:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityError
	}
}

// toRange converts a 1-based position into a 0-based range of length characters.
func toRange(pos ast.Position, length int) protocol.Range {
	if !pos.IsValid() {
		return protocol.Range{}
	}
	if length < 1 {
		length = 1
	}

	line := uint32(pos.Line - 1)
	start := uint32(max(pos.Column-1, 0))
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: start},
		End:   protocol.Position{Line: line, Character: start + uint32(length)},
	}
}

func pathToURI(path string) protocol.DocumentUri {
	path = strings.ReplaceAll(path, "\\", "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return protocol.DocumentUri("file://" + path)
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
