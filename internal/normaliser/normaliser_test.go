package normaliser

import (
	"testing"

	"flint/internal/ast"

	"github.com/stretchr/testify/assert"
)

func TestGlobalNames(t *testing.T) {
	assert.Equal(t, "balance_Bank", GlobalName("balance", "Bank"))
	assert.Equal(t, "stateVariable_Bank", StateVariableName("Bank"))
	assert.Equal(t, "nextInstance_Wei", StructInstanceVariableName("Wei"))
	assert.Equal(t, "caller_Bank", CallerVariableName("Bank"))
	assert.Equal(t, "amount_depositInt_Bank", LocalName("amount", "depositInt_Bank"))
	assert.Equal(t, "size_0_", ShadowSizePrefix(0))
	assert.Equal(t, "keys_2_", ShadowKeysPrefix(2))
}

func TestFunctionNameFlattensTypes(t *testing.T) {
	tests := []struct {
		params   []*ast.Type
		expected string
	}{
		{nil, "get_Bank"},
		{[]*ast.Type{ast.IntType()}, "getInt_Bank"},
		{[]*ast.Type{ast.ArrayType(ast.IntType())}, "get$Int$_Bank"},
		{[]*ast.Type{ast.DictionaryType(ast.AddressType(), ast.IntType())}, "get@Address@$@Int@_Bank"},
		{[]*ast.Type{ast.ArrayType(ast.IntType()), ast.BoolType()}, "get$Int$Bool_Bank"},
		{[]*ast.Type{ast.InoutType(ast.UserDefinedType("Wei"))}, "get$inoutWei_Bank"},
		{[]*ast.Type{ast.FixedArrayType(ast.IntType(), 3)}, "get$Int$3_Bank"},
		{[]*ast.Type{ast.ArrayType(ast.FixedArrayType(ast.AddressType(), 2))}, "get$$Address$2$_Bank"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FunctionName("get", tt.params, "Bank"))
	}
}

func TestFixedArrayNamesAreIdentifiers(t *testing.T) {
	fixed := FunctionName("first", []*ast.Type{ast.FixedArrayType(ast.IntType(), 3)}, "F")
	assert.Equal(t, "first$Int$3_F", fixed)
	assert.Regexp(t, `^[A-Za-z_$@][A-Za-z0-9_$@]*$`, fixed)

	assert.NotEqual(t, fixed, FunctionName("first", []*ast.Type{ast.FixedArrayType(ast.IntType(), 4)}, "F"))
	assert.NotEqual(t, fixed, FunctionName("first", []*ast.Type{ast.ArrayType(ast.IntType())}, "F"))
}

func TestFunctionNameIsStableAndDistinguishesOverloads(t *testing.T) {
	a := FunctionName("transfer", []*ast.Type{ast.IntType()}, "Wei")
	b := FunctionName("transfer", []*ast.Type{ast.IntType()}, "Wei")
	c := FunctionName("transfer", []*ast.Type{ast.IntType(), ast.IntType()}, "Wei")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestNameGeneratorIsSeedable(t *testing.T) {
	a := NewNameGenerator(42)
	b := NewNameGenerator(42)

	first := a.Fresh("v_", nil)
	assert.Equal(t, first, b.Fresh("v_", nil))
	assert.Len(t, first, len("v_")+10)
	assert.Regexp(t, `^v_[a-zA-Z0-9]{10}$`, first)
}

func TestNameGeneratorRetriesOnCollision(t *testing.T) {
	g := NewNameGenerator(7)
	calls := 0
	name := g.Fresh("tmp_", func(string) bool {
		calls++
		return calls < 3
	})

	assert.Equal(t, 3, calls)
	assert.Regexp(t, `^tmp_`, name)
}
