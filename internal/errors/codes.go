package errors

// Diagnostic codes for the Flint verifier
// These codes are used in diagnostics and documentation
// to provide consistent identification across the toolchain.
//
// Code ranges:
// V0001-V0099: Verification failures
// V0100-V0199: Analysis warnings
// V0200-V0299: Holistic specification results
// V0300-V0399: Front-end errors
// V0900-V0999: Tool and translation errors

const (
	// Verification failures (V0001-V0099)

	// V0001: An assertion, bounds check or division check might not hold
	ErrorAssertionFailure = "V0001"

	// V0002: A precondition or invariant might not hold at a call site
	ErrorPreconditionFailure = "V0002"

	// V0003: A postcondition or invariant might not hold at the end of a function
	ErrorPostconditionFailure = "V0003"

	// V0004: A loop invariant might not hold on entry
	ErrorLoopInvariantEntry = "V0004"

	// V0005: An invariant might not hold before an external call
	ErrorExternalCallSafety = "V0005"

	// Analysis warnings (V0100-V0199)

	// V0100: Preconditions are contradictory so the function verifies trivially
	WarningInconsistentPreconditions = "V0100"

	// V0101: A branch condition is constant so one branch is unreachable
	WarningUnreachableCode = "V0101"

	// V0102: The installed verifier is older than the configured minimum
	WarningVerifierVersion = "V0102"

	// Holistic specification results (V0200-V0299)

	// V0200: A holistic specification could not be verified
	ErrorHolisticFailure = "V0200"

	// V0201: Statistics of the symbolic execution runs
	NoteHolisticStatistics = "V0201"

	// Front-end errors (V0300-V0399)

	// V0300: The source does not parse
	ErrorSyntax = "V0300"

	// V0301: The declarations are inconsistent, such as a type declared twice
	ErrorDeclaration = "V0301"

	// Tool and translation errors (V0900-V0999)

	// V0900: The generated program assigns a global missing from a modifies clause
	ErrorModifiesClause = "V0900"

	// V0901: The verifier rejected the generated program
	ErrorVerifierGeneric = "V0901"

	// V0910: A call matches no function or initialiser
	ErrorUnmatchedCall = "V0910"

	// V0911: A type has no verification encoding
	ErrorUnsupportedType = "V0911"

	// V0912: An expression has no verification encoding
	ErrorUnsupportedExpression = "V0912"

	// V0913: A caller protection cannot be checked
	ErrorUnsupportedCallerProtection = "V0913"

	// V0914: A contract declares more than one initialiser for a holistic check
	ErrorHolisticInitializer = "V0914"
)

// GetErrorDescription returns a human-readable description of the code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorAssertionFailure:
		return "An assertion might not hold"
	case ErrorPreconditionFailure:
		return "A pre-condition or invariant might not hold when a function is called"
	case ErrorPostconditionFailure:
		return "A post-condition or invariant might not hold when a function returns"
	case ErrorLoopInvariantEntry:
		return "A loop invariant might not hold on entry to the loop"
	case ErrorExternalCallSafety:
		return "An invariant might not hold when control leaves the contract"
	case WarningInconsistentPreconditions:
		return "Function pre-conditions contradict each other"
	case WarningUnreachableCode:
		return "A branch condition is always true or always false"
	case WarningVerifierVersion:
		return "The verifier is older than the minimum supported version"
	case ErrorHolisticFailure:
		return "A holistic specification was violated by some sequence of calls"
	case NoteHolisticStatistics:
		return "Symbolic execution statistics"
	case ErrorSyntax:
		return "Syntax error"
	case ErrorDeclaration:
		return "Inconsistent declarations"
	case ErrorModifiesClause:
		return "The generated program is missing a modifies clause entry"
	case ErrorVerifierGeneric:
		return "The verifier rejected the generated program"
	case ErrorUnmatchedCall:
		return "Function call does not match any declaration"
	case ErrorUnsupportedType:
		return "Type cannot be encoded for verification"
	case ErrorUnsupportedExpression:
		return "Expression cannot be encoded for verification"
	case ErrorUnsupportedCallerProtection:
		return "Caller protection cannot be encoded for verification"
	case ErrorHolisticInitializer:
		return "Holistic specifications need exactly one initialiser"
	default:
		return "Unknown code"
	}
}

// IsToolError reports whether code indicates a defect in the toolchain rather than
// in the verified contract.
func IsToolError(code string) bool {
	return len(code) == 5 && code[:3] == "V09"
}
