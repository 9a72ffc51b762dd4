package parser

import (
	"fmt"
	"os"

	"flint/grammar"
	"flint/internal/ast"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ParseError is a syntax or lowering error with its source position.
type ParseError struct {
	Message  string
	Position ast.Position
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Position, e.Message)
}

func ParseFile(path string) (*ast.Module, []ParseError, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	module, errs := ParseSource(path, string(source))
	return module, errs, nil
}

// ParseSource parses Flint source text and lowers it to the AST.
func ParseSource(path string, source string) (*ast.Module, []ParseError) {
	file, err := grammar.ParseString(path, source)
	if err != nil {
		return nil, []ParseError{syntaxError(path, err)}
	}

	l := &lowerer{}
	module := l.file(file)
	return module, l.errors
}

func syntaxError(path string, err error) ParseError {
	if pe, ok := err.(participle.Error); ok {
		return ParseError{Message: pe.Message(), Position: toPos(pe.Position())}
	}
	return ParseError{Message: err.Error(), Position: ast.Position{Filename: path}}
}

// Merge concatenates the declarations of several modules, in order.
func Merge(modules ...*ast.Module) *ast.Module {
	merged := &ast.Module{}
	for _, m := range modules {
		if m == nil {
			continue
		}
		merged.Declarations = append(merged.Declarations, m.Declarations...)
	}
	return merged
}

type lowerer struct {
	errors []ParseError
}

func (l *lowerer) errorAt(pos lexer.Position, format string, args ...any) {
	l.errors = append(l.errors, ParseError{
		Message:  fmt.Sprintf(format, args...),
		Position: toPos(pos),
	})
}

func toPos(p lexer.Position) ast.Position {
	return ast.Position{
		Filename: p.Filename,
		Offset:   p.Offset,
		Line:     p.Line,
		Column:   p.Column,
	}
}

func ident(n *grammar.Name) ast.Ident {
	if n == nil {
		return ast.Ident{}
	}
	return ast.Ident{Pos: toPos(n.Pos), EndPos: toPos(n.EndPos), Name: n.Value}
}

func idents(names []*grammar.Name) []ast.Ident {
	out := make([]ast.Ident, 0, len(names))
	for _, n := range names {
		out = append(out, ident(n))
	}
	return out
}
