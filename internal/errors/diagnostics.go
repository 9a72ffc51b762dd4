package errors

import (
	"fmt"

	"flint/internal/ast"
)

// DiagnosticBuilder provides a fluent interface for creating diagnostics with notes
type DiagnosticBuilder struct {
	d Diagnostic
}

// NewError creates a new error builder
func NewError(code, message string, pos ast.Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{d: Diagnostic{Severity: Error, Code: code, Message: message, Location: pos, Length: 1}}
}

// NewWarning creates a new warning builder
func NewWarning(code, message string, pos ast.Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{d: Diagnostic{Severity: Warning, Code: code, Message: message, Location: pos, Length: 1}}
}

// WithLength sets the length of the highlighted span
func (b *DiagnosticBuilder) WithLength(length int) *DiagnosticBuilder {
	b.d.Length = length
	return b
}

// WithNote attaches a nested diagnostic
func (b *DiagnosticBuilder) WithNote(severity Severity, message string, pos ast.Position) *DiagnosticBuilder {
	b.d.Notes = append(b.d.Notes, Diagnostic{Severity: severity, Message: message, Location: pos, Length: 1})
	return b
}

// Build returns the completed diagnostic
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.d
}

// Common verification diagnostics

// AssertionFailure reports a failing assertion. related locates the property an
// assertion was generated for, such as the invariant checked before an external call.
func AssertionFailure(message string, pos ast.Position, related *ast.Position) Diagnostic {
	code := ErrorAssertionFailure
	if related != nil {
		code = ErrorExternalCallSafety
	}
	b := NewError(code, message, pos)
	if related != nil {
		b.WithNote(Warning, "This is the failing property", *related)
	}
	return b.Build()
}

// PreconditionFailure reports a call site whose callee precondition might not hold.
func PreconditionFailure(call, clause ast.Position, isInvariant bool, trigger string) Diagnostic {
	item := "pre-condition"
	if isInvariant {
		item = "invariant"
	}
	return NewError(ErrorPreconditionFailure, fmt.Sprintf("Could not verify %s holds on function call", item), call).
		WithNote(Warning, fmt.Sprintf("This is the failing %s\n%s", item, triggerNote(trigger)), clause).
		Build()
}

// PostconditionFailure reports a function whose postcondition might not hold.
func PostconditionFailure(function, clause ast.Position, isInvariant bool, trigger string) Diagnostic {
	item := "post-condition"
	if isInvariant {
		item = "invariant"
	}
	return NewError(ErrorPostconditionFailure, fmt.Sprintf("Could not verify %s holds by end of function", item), function).
		WithNote(Warning, fmt.Sprintf("This is the failing %s.\n%s", item, triggerNote(trigger)), clause).
		Build()
}

func triggerNote(trigger string) string {
	if trigger == "" {
		return ""
	}
	return "Caused by " + trigger + " trigger"
}

// LoopInvariantEntry reports a loop whose invariant might not hold on entry.
func LoopInvariantEntry(message string, pos ast.Position) Diagnostic {
	if message == "" {
		message = "Could not verify entry to the loop"
	}
	return NewError(ErrorLoopInvariantEntry, message, pos).Build()
}

// InconsistentPreconditions warns about a function that verifies trivially.
func InconsistentPreconditions(function ast.Position, preconditions []ast.Position) Diagnostic {
	b := NewWarning(WarningInconsistentPreconditions,
		"This function has inconsistent pre-conditions. It will trivially verify.", function)
	for _, pos := range preconditions {
		b.WithNote(Note, "Caused by", pos)
	}
	return b.Build()
}

// UnreachableCode warns about a branch condition with a constant value.
func UnreachableCode(pos ast.Position, alwaysTrue bool) Diagnostic {
	msg := "The condition is always false"
	if alwaysTrue {
		msg = "The condition is always true"
	}
	return NewWarning(WarningUnreachableCode, "This statement has unreachable code. "+msg, pos).Build()
}

// HolisticFailure reports a violated holistic specification, optionally with the
// statistics of the symbolic execution.
func HolisticFailure(spec ast.Position, stats *HolisticStatistics) Diagnostic {
	b := NewError(ErrorHolisticFailure, "This holistic spec could not be verified", spec)
	if stats != nil {
		b.WithNote(Warning, stats.String(), ast.Position{})
	}
	return b.Build()
}

// HolisticStatistics summarises the runs of one symbolic execution.
type HolisticStatistics struct {
	TotalRuns      int
	SuccessfulRuns int
}

func (s HolisticStatistics) FailedRuns() int { return s.TotalRuns - s.SuccessfulRuns }

// Verified reports whether at least one run happened and every run ended without error.
func (s HolisticStatistics) Verified() bool {
	return s.TotalRuns > 0 && s.TotalRuns == s.SuccessfulRuns
}

func (s HolisticStatistics) String() string {
	return fmt.Sprintf("Number of runs: %d\nNumber of successes: %d\nNumber of failures: %d",
		s.TotalRuns, s.SuccessfulRuns, s.FailedRuns())
}

// ToolFailure surfaces an error the verifier reported against the generated program.
func ToolFailure(line string, modifies bool) Diagnostic {
	if modifies {
		return NewError(ErrorModifiesClause, "Missing modifies clause: "+line, ast.Position{}).Build()
	}
	return NewError(ErrorVerifierGeneric, "Boogie error: "+line, ast.Position{}).Build()
}
