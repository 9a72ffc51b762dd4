package parser

import (
	"testing"

	"flint/internal/ast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.Module {
	t.Helper()
	module, errs := ParseSource("test.flint", src)
	require.Empty(t, errs)
	require.NotNil(t, module)
	return module
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		src      string
		expected string
	}{
		{"x = a + b * c", "x = a + b * c"},
		{"x = a * b + c", "x = a * b + c"},
		{"x = a ==> b ==> c", "x = a ==> b ==> c"},
	}

	for _, tt := range tests {
		module := mustParse(t, "C :: (any) { func f() { "+tt.src+" } }")
		fn := module.Declarations[0].(*ast.ContractBehaviourDeclaration).Members[0]
		stmt := fn.Body[0].(*ast.ExprStmt)
		assert.Equal(t, tt.expected, stmt.String())
	}
}

func TestPrecedenceTreeShape(t *testing.T) {
	module := mustParse(t, "C :: (any) { func f() { x = a + b * c - d } }")
	fn := module.Declarations[0].(*ast.ContractBehaviourDeclaration).Members[0]

	assign := fn.Body[0].(*ast.ExprStmt).Expr.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpAssign, assign.Op)

	minus := assign.Rhs.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpMinus, minus.Op)

	plus := minus.Lhs.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpPlus, plus.Op)
	assert.Equal(t, ast.OpTimes, plus.Rhs.(*ast.BinaryExpr).Op)
}

func TestImplicationIsRightAssociative(t *testing.T) {
	module := mustParse(t, "C :: (any) { func f() { a ==> b ==> c } }")
	fn := module.Declarations[0].(*ast.ContractBehaviourDeclaration).Members[0]

	top := fn.Body[0].(*ast.ExprStmt).Expr.(*ast.BinaryExpr)
	assert.Equal(t, "a", top.Lhs.(*ast.Identifier).Name)
	assert.Equal(t, ast.OpImplies, top.Rhs.(*ast.BinaryExpr).Op)
}

func TestPostfixFoldsLeft(t *testing.T) {
	module := mustParse(t, "C :: (any) { func f() { self.accounts[caller].balance = 0 } }")
	fn := module.Declarations[0].(*ast.ContractBehaviourDeclaration).Members[0]

	assign := fn.Body[0].(*ast.ExprStmt).Expr.(*ast.BinaryExpr)
	field := assign.Lhs.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpDot, field.Op)
	assert.Equal(t, "balance", field.Rhs.(*ast.Identifier).Name)

	sub := field.Lhs.(*ast.SubscriptExpr)
	base := sub.Base.(*ast.BinaryExpr)
	assert.True(t, base.IsExplicitPropertyAccess())
}

func TestDeclarations(t *testing.T) {
	module := mustParse(t, `
contract Bank (Open) {
  var owner: Address
  var balances: [Address: Int] = [:]
  var history: Int[4]
  invariant (owner != 0x0)
  will (balances[owner] == 0)
}

Bank @(Open) :: caller <- (owner) {
  public func deposit(implicit value: Wei, from: inout Wei) -> Int
    mutates (balances)
    pre (value.rawValue > 0)
    post (returning (r, r == 1))
  {
    return 1
  }
}

struct Counter {
  var count: Int = 0
  init() {}
  func get() -> Int { return count }
}

enum Colour { case red case green }

external trait Oracle {
  func price() -> Int
}
`)
	require.Len(t, module.Declarations, 5)

	bank := module.Declarations[0].(*ast.ContractDeclaration)
	assert.Equal(t, "Bank", bank.Identifier.Name)
	assert.Len(t, bank.Variables, 3)
	assert.Equal(t, "[Address: Int]", bank.Variables[1].Type.String())
	assert.IsType(t, &ast.DictionaryLiteral{}, bank.Variables[1].Assigned)
	assert.Equal(t, "Int[4]", bank.Variables[2].Type.String())
	assert.Len(t, bank.Invariants, 1)
	assert.Len(t, bank.Holistic, 1)

	behaviour := module.Declarations[1].(*ast.ContractBehaviourDeclaration)
	require.NotNil(t, behaviour.CallerBinding)
	assert.Equal(t, "caller", behaviour.CallerBinding.Name)
	assert.Equal(t, "Open", behaviour.States[0].Name)

	deposit := behaviour.Members[0]
	assert.True(t, deposit.IsPublic)
	assert.True(t, deposit.Parameters[0].IsImplicit)
	assert.True(t, deposit.Parameters[1].Type.IsInout())
	assert.Equal(t, "Int", deposit.Result().String())
	assert.Len(t, deposit.Pre, 1)
	assert.Len(t, deposit.Post, 1)
	assert.Len(t, deposit.Body, 1)

	counter := module.Declarations[2].(*ast.StructDeclaration)
	assert.Len(t, counter.Initializers, 1)
	assert.Len(t, counter.Functions, 1)

	colour := module.Declarations[3].(*ast.EnumDeclaration)
	assert.Len(t, colour.Cases, 2)

	oracle := module.Declarations[4].(*ast.ExternalTraitDeclaration)
	assert.Equal(t, "price", oracle.Functions[0].Name())
}

func TestTraitDeclarations(t *testing.T) {
	module := mustParse(t, `
contract trait Owned {
  public func owner() -> Address
}

struct trait Account {
  func deposit(amount: Int) mutates (balance)

  func topUp() mutates (balance) {
    deposit(1)
  }
}

struct Wallet: Account {
  var balance: Int = 0
}
`)
	require.Len(t, module.Declarations, 3)

	owned := module.Declarations[0].(*ast.TraitDeclaration)
	assert.Equal(t, ast.ContractTrait, owned.Kind)
	require.Len(t, owned.Requirements, 1)
	assert.True(t, owned.Requirements[0].IsPublic)
	assert.Empty(t, owned.Functions)

	account := module.Declarations[1].(*ast.TraitDeclaration)
	assert.Equal(t, ast.StructTrait, account.Kind)
	require.Len(t, account.Requirements, 1)
	assert.Equal(t, "deposit", account.Requirements[0].Name())
	assert.Equal(t, "balance", account.Requirements[0].Mutates[0].Name)
	require.Len(t, account.Functions, 1)
	assert.Len(t, account.Functions[0].Body, 1)

	wallet := module.Declarations[2].(*ast.StructDeclaration)
	require.Len(t, wallet.Conformances, 1)
	assert.Equal(t, "Account", wallet.Conformances[0].Name)
	assert.Contains(t, wallet.String(), "struct Wallet: Account {")
}

func TestLiteralsAndRanges(t *testing.T) {
	module := mustParse(t, `
C :: (any) {
  func f() {
    let xs: [Int] = [1, 2, 3]
    let d: [Int: Bool] = [1: true]
    for let i: Int in (0...10) {}
  }
}
`)
	fn := module.Declarations[0].(*ast.ContractBehaviourDeclaration).Members[0]
	require.Len(t, fn.Body, 3)

	xs := fn.Body[0].(*ast.ExprStmt).Expr.(*ast.VariableDeclaration)
	assert.True(t, xs.IsConstant)
	assert.Len(t, xs.Assigned.(*ast.ArrayLiteral).Elements, 3)

	d := fn.Body[1].(*ast.ExprStmt).Expr.(*ast.VariableDeclaration)
	assert.Len(t, d.Assigned.(*ast.DictionaryLiteral).Entries, 1)

	loop := fn.Body[2].(*ast.ForStmt)
	assert.True(t, loop.Iterable.(*ast.RangeExpr).Inclusive)
}

func TestExternalCall(t *testing.T) {
	module := mustParse(t, `
C :: (any) {
  func f() {
    do {
      call oracle.update(1)
    } catch is Error {}
  }
}
`)
	fn := module.Declarations[0].(*ast.ContractBehaviourDeclaration).Members[0]
	doCatch := fn.Body[0].(*ast.DoCatchStmt)
	ext := doCatch.Do[0].(*ast.ExprStmt).Expr.(*ast.ExternalCall)
	assert.Equal(t, ast.ExternalCallNormal, ext.Mode)
	assert.Equal(t, "update", ext.Call.Rhs.(*ast.FunctionCall).Identifier.Name)
}

func TestSyntaxErrorHasPosition(t *testing.T) {
	_, errs := ParseSource("bad.flint", "contract Bank {\n  var : Int\n}")
	require.Len(t, errs, 1)
	assert.Equal(t, "bad.flint", errs[0].Position.Filename)
	assert.Positive(t, errs[0].Position.Line)
}

func TestMerge(t *testing.T) {
	a := mustParse(t, "contract A {}")
	b := mustParse(t, "contract B {}")
	merged := Merge(a, nil, b)
	assert.Len(t, merged.Declarations, 2)
}
