package stdlib_test

import (
	"testing"

	"flint/internal/ast"
	"flint/internal/parser"
	"flint/internal/stdlib"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreludeParses(t *testing.T) {
	module, errs := parser.ParseSource(stdlib.PreludeFilename, stdlib.Prelude)
	require.Empty(t, errs)
	require.Len(t, module.Declarations, 1)

	wei, ok := module.Declarations[0].(*ast.StructDeclaration)
	require.True(t, ok)
	assert.Equal(t, "Wei", wei.Identifier.Name)
	assert.Len(t, wei.Initializers, 2)
	assert.Len(t, wei.Functions, 3)
	assert.Equal(t, stdlib.PreludeFilename, wei.Pos.Filename)
}
