package stdlib

import (
	"testing"

	"flint/internal/ast"

	"github.com/stretchr/testify/assert"
)

func TestGlobalFunctions(t *testing.T) {
	functions := GlobalFunctions()

	assertFn, ok := functions["assert"]
	assert.True(t, ok, "assert should be a built-in")
	assert.Nil(t, assertFn.ReturnType)
	assert.Len(t, assertFn.Parameters, 1)

	send := functions["send"]
	assert.Equal(t, "$inoutWei", send.Parameters[1].Type.String())

	prev := functions["prev"]
	assert.True(t, prev.IsGeneric)

	forall := functions["forall"]
	assert.Equal(t, ast.BoolName, forall.ReturnType.Name)
	assert.Len(t, forall.Parameters, 3)
}

func TestLookupGlobal(t *testing.T) {
	_, ok := LookupGlobal("fatalError")
	assert.True(t, ok)

	_, ok = LookupGlobal("transfer")
	assert.False(t, ok)
}

func TestIsStdlibPosition(t *testing.T) {
	assert.True(t, IsStdlibPosition(ast.Position{Filename: PreludeFilename, Line: 3}))
	assert.True(t, IsStdlibPosition(ast.Position{Filename: AccountingFilename, Line: 2}))
	assert.False(t, IsStdlibPosition(ast.Position{Filename: "bank.flint", Line: 3}))
	assert.False(t, IsStdlibPosition(ast.Position{}))
}
