package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOutput = `Boogie program verifier version 2.3.0.61016, Copyright (c) 2003-2014, Microsoft.
test.bpl(472,3): Error BP5002: A precondition for this call might not hold.
test.bpl(461,3): Related location: This is the precondition that might not hold.
Execution trace:
    test.bpl(472,3): anon0
test.bpl(482,1): Error BP5003: A postcondition might not hold on this return path.
test.bpl(477,3): Related location: This is the postcondition that might not hold.
Execution trace:
    test.bpl(481,5): anon0
test.bpl(498,3): Error BP5001: This assertion might not hold.
Execution trace:
    test.bpl(498,3): anon0

test.bpl(364,1): Error BP5004: This loop invariant might not hold on entry.
Execution trace:
    test.bpl(313,23): anon0
    test.bpl(351,1): anon17_LoopHead

Boogie program verifier finished with 13 verified, 4 errors
`

func TestParseOutput(t *testing.T) {
	failures, err := ParseOutput(sampleOutput)
	require.NoError(t, err)

	assert.Equal(t, []Failure{
		{Kind: PreconditionFailure, Line: 472, Related: 461},
		{Kind: PostconditionFailure, Line: 482, Related: 477},
		{Kind: AssertionFailure, Line: 498},
		{Kind: LoopInvariantEntryFailure, Line: 364},
	}, failures)
}

func TestParseOutputWithoutFailures(t *testing.T) {
	failures, err := ParseOutput("Boogie program verifier version 2.3.0.61016\n\nBoogie program verifier finished with 3 verified, 0 errors\n")
	require.NoError(t, err)
	assert.Empty(t, failures)
}

func TestToolErrorsShortCircuit(t *testing.T) {
	output := `Boogie program verifier version 2.3.0.61016, Copyright (c) 2003-2014, Microsoft.
test.bpl(498,3): Error BP5001: This assertion might not hold.
prog.bpl(209,0): Error: command assigns to a global variable that is not in the enclosing procedure's modifies clause: nextInstance_Wei
prog.bpl(12,4): error: undeclared identifier: x

Boogie program verifier finished with 10 verified, 1 error
`
	failures, err := ParseOutput(output)
	require.NoError(t, err)
	require.Len(t, failures, 2)

	assert.Equal(t, ModifiesFailure, failures[0].Kind)
	assert.Equal(t, 209, failures[0].Line)
	assert.Contains(t, failures[0].Text, "nextInstance_Wei")
	assert.Equal(t, GenericFailure, failures[1].Kind)
	assert.Equal(t, 12, failures[1].Line)
}

func TestModifiesClauseOnFollowingLine(t *testing.T) {
	output := `Boogie program verifier version 2.4.1.10503, Copyright (c) 2003-2014, Microsoft.
prog.bpl(88,2): Error: command assigns to a global variable that is not in the enclosing procedure's
  modifies clause: balance_Bank
prog.bpl(90,2): Error: undeclared identifier: y
  while resolving the body of transfer_Bank

Boogie program verifier finished with 0 verified, 2 errors
`
	failures, err := ParseOutput(output)
	require.NoError(t, err)
	require.Len(t, failures, 2)

	assert.Equal(t, ModifiesFailure, failures[0].Kind)
	assert.Equal(t, 88, failures[0].Line)
	assert.Contains(t, failures[0].Text, "balance_Bank")
	assert.Equal(t, GenericFailure, failures[1].Kind)
	assert.Equal(t, 90, failures[1].Line)
	assert.NotContains(t, failures[1].Text, "transfer_Bank")
}

func TestParseOutputRejectsUnknownCodes(t *testing.T) {
	_, err := ParseOutput("banner\nprog.bpl(3,1): Error BP5005: This loop invariant might not be maintained by the loop.\n")
	assert.ErrorIs(t, err, ErrMalformedOutput)
}

func TestParseOutputNeedsRelatedLocation(t *testing.T) {
	_, err := ParseOutput("banner\nprog.bpl(3,1): Error BP5002: A precondition for this call might not hold.\n")
	assert.ErrorIs(t, err, ErrMalformedOutput)
}

func TestBannerVersion(t *testing.T) {
	v, ok := BannerVersion(sampleOutput)
	require.True(t, ok)
	assert.Equal(t, "2.3.0", v.String())

	v, ok = BannerVersion("Boogie program verifier version 3.1, Copyright")
	require.True(t, ok)
	assert.Equal(t, "3.1.0", v.String())

	_, ok = BannerVersion("prog.bpl(1,1): error: parse error")
	assert.False(t, ok)
}
