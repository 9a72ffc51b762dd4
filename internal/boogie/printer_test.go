package boogie

import (
	"testing"

	"flint/internal/ast"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(line, column int) *TranslationInformation {
	return NewTI(ast.Position{Filename: "bank.flint", Line: line, Column: column})
}

func TestPrintProcedureGolden(t *testing.T) {
	amount := Ident("amount_deposit_Bank")
	i := Ident("i_deposit")

	procTI := at(2, 3)
	preTI := at(3, 5)
	postTI := at(4, 5)
	ifTI := at(6, 5)
	assertTI := at(7, 7)
	callTI := at(9, 7)
	whileTI := at(11, 5)
	invariantTI := at(11, 5)

	proc := &ResolvedProcedure{
		Name:        "deposit_Bank",
		ReturnTypes: []*Type{IntType()},
		ReturnNames: []string{"result_variable"},
		Parameters:  []*Parameter{{Name: "amount_deposit_Bank", RawName: "amount", Type: IntType()}},
		Pre:         []*ProofObligation{{Expr: GreaterThan(amount, Int(0)), TI: preTI}},
		Post:        []*ProofObligation{{Expr: Equals(Ident("result_variable"), amount), TI: postTI}},
		Modifies:    []string{"total_Bank", "balance_Bank"},
		Variables: []*VariableDeclaration{
			{Name: "i_deposit", RawName: "i", Type: IntType()},
			{Name: "i_deposit", RawName: "i", Type: IntType()},
			{Name: "a_deposit", RawName: "a", Type: BoolType()},
		},
		Statements: []Statement{
			Assign(Read(Ident("balance_Bank"), amount), amount, nil),
			&IfStatement{
				Condition: GreaterThan(amount, Int(10)),
				Then:      []Statement{Assert(GreaterThan(amount, Int(10)), assertTI)},
				Else:      []Statement{Call(nil, "helper_Bank", []Expr{amount}, callTI)},
				TI:        ifTI,
			},
			&WhileStatement{
				Condition:  LessThan(i, Int(10)),
				Invariants: []*ProofObligation{{Expr: LessOrEqual(i, Int(10)), TI: invariantTI}},
				Body:       []Statement{Assign(i, Add(i, Int(1)), nil), &BreakStatement{}},
				TI:         whileTI,
			},
			Havoc("a_deposit", nil),
			Assume(Ident("a_deposit"), nil),
			Assign(Ident("result_variable"), amount, nil),
			&ReturnStatement{TI: procTI},
		},
		TI: procTI,
	}

	decls := []Declaration{
		&TypeDeclaration{Name: "Address", Alias: IntType()},
		&VariableDeclaration{Name: "balance_Bank", RawName: "balance", Type: MapType(IntType(), IntType())},
		&ConstDeclaration{Name: "red_Colour", RawName: "red", Type: UserDefinedType("Colour"), Unique: true},
		&FunctionDeclaration{
			Name:       "power",
			Parameters: []*Parameter{{Name: "n", Type: IntType()}, {Name: "e", Type: IntType()}},
			ReturnName: "i",
			ReturnType: IntType(),
		},
		&AxiomDeclaration{Proposition: Quantify(Forall, []*Parameter{{Name: "n", Type: IntType()}},
			Equals(Apply("power", Ident("n"), Int(0)), Int(1)))},
		proc,
	}

	text, lines := Print(decls)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "procedure", []byte(text))

	expected := map[int]*TranslationInformation{
		12: procTI,
		14: preTI,
		16: postTI,
		25: ifTI,
		27: assertTI,
		30: callTI,
		33: whileTI,
		35: invariantTI,
		44: procTI,
		46: procTI,
	}
	require.Len(t, lines, len(expected))
	for line, ti := range expected {
		assert.Same(t, ti, lines[line], "line %d", line)
	}
}

func TestPrintRefusesUnresolvedProcedure(t *testing.T) {
	assert.Panics(t, func() {
		Print([]Declaration{&Procedure{Name: "f"}})
	})
}

func TestPrintSkipsMarkersWithoutInformation(t *testing.T) {
	text, lines := Print([]Declaration{&ResolvedProcedure{
		Name:       "f",
		Statements: []Statement{Assert(Bool(false), nil)},
	}})

	assert.Equal(t, "procedure f()\n{\n  assert (false);\n}\n", text)
	assert.Empty(t, lines)
}
