package errors

import (
	"testing"

	"flint/internal/ast"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestReporterQuotesSource(t *testing.T) {
	source := `contract Bank {
  var total: Int = 0
}

Bank :: (any) {
  public func check() {
    assert(total > 0)
  }
}`

	reporter := NewReporter()
	reporter.AddSource("bank.flint", source)

	d := AssertionFailure("Could not verify assertion holds", ast.Position{Filename: "bank.flint", Line: 7, Column: 5}, nil)
	formatted := reporter.Format(d)

	assert.Contains(t, formatted, "error["+ErrorAssertionFailure+"]")
	assert.Contains(t, formatted, "Could not verify assertion holds")
	assert.Contains(t, formatted, "bank.flint:7:5")
	assert.Contains(t, formatted, "assert(total > 0)")
	assert.Contains(t, formatted, "    ^")
}

func TestReporterWithoutLocation(t *testing.T) {
	formatted := NewReporter().Format(ToolFailure("out.bpl(3,1): Error: bad", false))

	assert.Contains(t, formatted, "error["+ErrorVerifierGeneric+"]")
	assert.NotContains(t, formatted, "-->")
}

func TestReporterRendersNotes(t *testing.T) {
	call := ast.Position{Filename: "a.flint", Line: 4, Column: 3}
	pre := ast.Position{Filename: "a.flint", Line: 1, Column: 7}

	formatted := NewReporter().Format(PreconditionFailure(call, pre, false, ""))

	assert.Contains(t, formatted, "Could not verify pre-condition holds on function call")
	assert.Contains(t, formatted, "warning: This is the failing pre-condition")
	assert.Contains(t, formatted, "a.flint:1:7")
}

func TestPreconditionFailureNamesInvariantAndTrigger(t *testing.T) {
	d := PreconditionFailure(ast.Position{Line: 1}, ast.Position{Line: 2}, true, "WeiAccounting")

	assert.Equal(t, ErrorPreconditionFailure, d.Code)
	assert.Equal(t, "Could not verify invariant holds on function call", d.Message)
	assert.Len(t, d.Notes, 1)
	assert.Contains(t, d.Notes[0].Message, "Caused by WeiAccounting trigger")
}

func TestPostconditionFailure(t *testing.T) {
	d := PostconditionFailure(ast.Position{Line: 3}, ast.Position{Line: 5}, false, "")

	assert.Equal(t, ErrorPostconditionFailure, d.Code)
	assert.Equal(t, "Could not verify post-condition holds by end of function", d.Message)
	assert.Equal(t, 5, d.Notes[0].Location.Line)
}

func TestExternalCallAssertionCarriesProperty(t *testing.T) {
	inv := ast.Position{Line: 2, Column: 3}
	d := AssertionFailure("Could not verify safe call to external function", ast.Position{Line: 9}, &inv)

	assert.Equal(t, ErrorExternalCallSafety, d.Code)
	assert.Equal(t, "This is the failing property", d.Notes[0].Message)
	assert.Equal(t, inv, d.Notes[0].Location)
}

func TestInconsistentPreconditions(t *testing.T) {
	d := InconsistentPreconditions(ast.Position{Line: 1}, []ast.Position{{Line: 2}, {Line: 3}})

	assert.Equal(t, Warning, d.Severity)
	assert.Len(t, d.Notes, 2)
	assert.Equal(t, Note, d.Notes[1].Severity)
	assert.Equal(t, "Caused by", d.Notes[1].Message)
}

func TestUnreachableCode(t *testing.T) {
	assert.Equal(t, "This statement has unreachable code. The condition is always true",
		UnreachableCode(ast.Position{Line: 1}, true).Message)
	assert.Equal(t, "This statement has unreachable code. The condition is always false",
		UnreachableCode(ast.Position{Line: 1}, false).Message)
}

func TestHolisticFailureStatistics(t *testing.T) {
	d := HolisticFailure(ast.Position{Line: 4}, &HolisticStatistics{TotalRuns: 10, SuccessfulRuns: 7})

	assert.Equal(t, ErrorHolisticFailure, d.Code)
	assert.Contains(t, d.Notes[0].Message, "Number of failures: 3")
	assert.Empty(t, HolisticFailure(ast.Position{Line: 4}, nil).Notes)
}

func TestTranslationError(t *testing.T) {
	err := NewTranslationError(ErrorUnmatchedCall, ast.Position{Filename: "a.flint", Line: 2, Column: 4}, "no function matches %s", "foo")

	assert.Equal(t, "a.flint:2:4: no function matches foo [V0910]", err.Error())
	assert.Equal(t, ErrorUnmatchedCall, err.Diagnostic().Code)
}

func TestCodes(t *testing.T) {
	assert.True(t, IsToolError(ErrorModifiesClause))
	assert.False(t, IsToolError(ErrorAssertionFailure))
	assert.Equal(t, "Unknown code", GetErrorDescription("X"))
}
