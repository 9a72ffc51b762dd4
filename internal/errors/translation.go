package errors

import (
	"fmt"

	"flint/internal/ast"
)

// TranslationError is a construct the translator cannot encode. It signals a gap in
// the front-end checks rather than a defect of the contract being verified.
type TranslationError struct {
	Code     string
	Message  string
	Position ast.Position
}

func (e *TranslationError) Error() string {
	if e.Position.IsValid() {
		return fmt.Sprintf("%s: %s [%s]", e.Position, e.Message, e.Code)
	}
	return fmt.Sprintf("%s [%s]", e.Message, e.Code)
}

// Diagnostic converts the failure into a reportable error.
func (e *TranslationError) Diagnostic() Diagnostic {
	return NewError(e.Code, e.Message, e.Position).Build()
}

func NewTranslationError(code string, pos ast.Position, format string, args ...interface{}) *TranslationError {
	return &TranslationError{Code: code, Message: fmt.Sprintf(format, args...), Position: pos}
}
