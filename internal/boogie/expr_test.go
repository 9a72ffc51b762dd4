package boogie

import (
	"math/big"
	"testing"

	"flint/internal/ast"

	"github.com/stretchr/testify/assert"
)

func TestExprString(t *testing.T) {
	twoTo256 := new(big.Int).Exp(big.NewInt(2), big.NewInt(256), nil)

	tests := []struct {
		expr     Expr
		expected string
	}{
		{Equivalent(Bool(true), Bool(false)), "(true <==> false)"},
		{Implies(Ident("a"), Ident("b")), "(a ==> b)"},
		{Divide(Ident("a"), Int(2)), "(a div 2)"},
		{Modulo(Add(Ident("a"), Ident("b")), BigInt(twoTo256)), "((a + b) mod " + twoTo256.String() + ")"},
		{Not(Equals(Ident("x"), Int(0))), "(!(x == 0))"},
		{Negate(Ident("x")), "(-x)"},
		{Read(Read(Ident("m"), Int(1)), Ident("k")), "m[1][k]"},
		{Old(Ident("total")), "old(total)"},
		{&RealLiteral{Whole: 3, Fraction: 25}, "3.25"},
		{Apply("Map_int.Empty"), "Map_int.Empty()"},
		{Quantify(Exists, []*Parameter{{Name: "i", Type: IntType()}, {Name: "j", Type: BoolType()}}, Ident("j")),
			"(exists i: int, j: bool :: j)"},
		{&Nop{}, "// nop"},
		{Conjunction(nil), "true"},
		{Disjunction([]Expr{Ident("a"), Ident("b"), Ident("c")}), "((a || b) || c)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.expr.String())
	}
}

func TestTypeRendering(t *testing.T) {
	nested := MapType(IntType(), MapType(BoolType(), UserDefinedType("Address")))

	assert.Equal(t, "[int][bool]Address", nested.String())
	assert.Equal(t, "int_bool_Address", nested.NameSafe())
	assert.True(t, nested.Equal(MapType(IntType(), MapType(BoolType(), UserDefinedType("Address")))))
	assert.False(t, nested.Equal(MapType(IntType(), IntType())))
	assert.Equal(t, "real", RealType().String())
}

func TestAddModifiesMergesEntries(t *testing.T) {
	proc := &Procedure{Name: "f"}
	proc.AddModifies("size_0_a_C", false)
	proc.AddModifies("a_C", true)
	proc.AddModifies("size_0_a_C", true)
	proc.AddModifies("a_C", false)

	assert.Equal(t, []ModifiesEntry{
		{Variable: "size_0_a_C", UserDefined: true},
		{Variable: "a_C", UserDefined: true},
	}, proc.Modifies)
}

func TestSameOrigin(t *testing.T) {
	pos := ast.Position{Filename: "a.flint", Line: 4, Column: 2}
	other := ast.Position{Filename: "a.flint", Line: 5, Column: 2}

	a := &TranslationInformation{Location: pos, Related: NewTI(other)}
	b := &TranslationInformation{Location: pos, Related: NewTI(other), FailingMsg: "different"}
	c := &TranslationInformation{Location: pos}

	assert.True(t, a.SameOrigin(b))
	assert.False(t, a.SameOrigin(c))
	assert.Equal(t, "// #MARKER# 4 2 a.flint", c.Marker())
}

func TestWithStatementsCopies(t *testing.T) {
	proc := &ResolvedProcedure{Name: "f", Statements: []Statement{&BreakStatement{}}}
	replaced := proc.WithStatements([]Statement{Assert(Bool(false), nil)}, nil)

	assert.Len(t, proc.Statements, 1)
	assert.IsType(t, &BreakStatement{}, proc.Statements[0])
	assert.IsType(t, &AssertStatement{}, replaced.Statements[0])
	assert.Equal(t, "f", replaced.Name)
}

func TestRename(t *testing.T) {
	e := And(
		GreaterThan(Ident("amount"), Int(0)),
		Quantify(Forall, []*Parameter{{Name: "amount", Type: IntType()}}, Equals(Ident("amount"), Apply("f", Ident("owner")))),
	)

	renamed := Rename(e, map[string]string{"amount": "amount_x", "owner": "owner_x", "f": "g"})

	assert.Equal(t, "((amount_x > 0) && (forall amount: int :: (amount == g(owner_x))))", renamed.String())
	assert.Equal(t, "((amount > 0) && (forall amount: int :: (amount == f(owner))))", e.String())
}

func TestUsesOld(t *testing.T) {
	assert.True(t, UsesOld(Equals(Ident("a"), Add(Old(Ident("a")), Int(1)))))
	assert.True(t, UsesOld(Read(Ident("m"), Old(Ident("k")))))
	assert.False(t, UsesOld(Apply("power", Ident("n"), Int(2))))
}
