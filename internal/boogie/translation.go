package boogie

import (
	"fmt"

	"flint/internal/ast"
)

// TranslationInformation links a generated construct back to the Flint source it was
// produced from. Values are shared by pointer and never modified after creation.
type TranslationInformation struct {
	Location ast.Position

	// IsInvariant marks pre- and postconditions that originate from an invariant.
	IsInvariant    bool
	IsExternalCall bool

	// IsUserDirectCause is false for checks synthesised by the translator, such as
	// bounds and division checks.
	IsUserDirectCause bool

	FailingMsg  string
	TriggerName string
	Related     *TranslationInformation
}

// NewTI returns information for user code at pos.
func NewTI(pos ast.Position) *TranslationInformation {
	return &TranslationInformation{Location: pos, IsUserDirectCause: true}
}

// Marker is the comment written in front of every assertable line.
func (ti *TranslationInformation) Marker() string {
	return fmt.Sprintf("// #MARKER# %d %d %s", ti.Location.Line, ti.Location.Column, ti.Location.Filename)
}

// SameOrigin reports whether both values point at the same source location through
// the same chain of related information.
func (ti *TranslationInformation) SameOrigin(o *TranslationInformation) bool {
	for ti != nil && o != nil {
		if ti.Location != o.Location {
			return false
		}
		ti, o = ti.Related, o.Related
	}
	return ti == nil && o == nil
}

// LineMap maps a line of rendered program text to the information of the construct on
// that line. Lines are 1-based as reported by the verifier.
type LineMap map[int]*TranslationInformation
