package semantic_test

import (
	"testing"

	"flint/internal/ast"
	"flint/internal/parser"
	"flint/internal/semantic"
	"flint/internal/stdlib"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bankSource = `
struct Account {
  var balance: Int = 0
  var deposits: [Int] = []

  init() {}

  mutating func credit(amount: Int) mutates (balance) {
    balance += amount
  }
}

enum Tier { case basic case gold }

contract Bank (Open, Closed) {
  var owner: Address
  var accounts: [Address: Account] = [:]
  var primary: Account = Account()
  var tier: Tier = Tier.basic
}

Bank @(Open) :: caller <- (any) {
  public init(owner: Address) {
    self.owner = owner
  }

  public func open() mutates (accounts) {
    accounts[caller] = Account()
  }

  public func credit(amount: Int) mutates (primary) {
    primary.credit(amount: amount)
  }

  func isOwner(addr: Address) -> Bool {
    return addr == owner
  }
}
`

func newEnv(t *testing.T, src string) *semantic.Environment {
	t.Helper()
	user, errs := parser.ParseSource("bank.flint", src)
	require.Empty(t, errs)
	prelude, errs := parser.ParseSource(stdlib.PreludeFilename, stdlib.Prelude)
	require.Empty(t, errs)

	env, err := semantic.NewEnvironment(parser.Merge(prelude, user))
	require.NoError(t, err)
	return env
}

func TestRegistersDeclarations(t *testing.T) {
	env := newEnv(t, bankSource)

	assert.True(t, env.IsContract("Bank"))
	assert.True(t, env.IsStruct("Account"))
	assert.True(t, env.IsStruct("Wei"))
	assert.True(t, env.IsEnum("Tier"))
	assert.False(t, env.IsStruct("Bank"))

	bank := env.Type("Bank")
	assert.Equal(t, []string{"Open", "Closed"}, bank.States)
	assert.Equal(t, 1, bank.StateIndex("Closed"))
	assert.Len(t, bank.Initializers, 1)
	assert.Len(t, bank.Functions, 3)
	assert.NotNil(t, env.Function("open_Bank"))
	assert.NotNil(t, env.Function("initAddress_Bank"))
}

func TestTypeOf(t *testing.T) {
	env := newEnv(t, bankSource)
	scope := semantic.NewSymbolTable(nil)
	scope.Define("amount", semantic.SymbolParameter, ast.IntType(), ast.Position{})
	ctx := semantic.Context{EnclosingType: "Bank", Scope: scope}

	tests := []struct {
		expr     ast.Expr
		expected string
	}{
		{&ast.Identifier{Name: "amount"}, "Int"},
		{&ast.Identifier{Name: "owner"}, "Address"},
		{&ast.SubscriptExpr{Base: &ast.Identifier{Name: "accounts"}, Index: &ast.Identifier{Name: "owner"}}, "Account"},
		{&ast.BinaryExpr{Op: ast.OpDot, Lhs: &ast.Identifier{Name: "accounts"}, Rhs: &ast.Identifier{Name: "size"}}, "Int"},
		{&ast.BinaryExpr{Op: ast.OpDot, Lhs: &ast.Identifier{Name: "accounts"}, Rhs: &ast.Identifier{Name: "keys"}}, "[Address]"},
		{&ast.BinaryExpr{Op: ast.OpDot, Lhs: &ast.Identifier{Name: "primary"}, Rhs: &ast.Identifier{Name: "balance"}}, "Int"},
		{&ast.BinaryExpr{Op: ast.OpDot, Lhs: &ast.Identifier{Name: "Tier"}, Rhs: &ast.Identifier{Name: "gold"}}, "Tier"},
		{&ast.BinaryExpr{Op: ast.OpDot, Lhs: &ast.SelfExpr{}, Rhs: &ast.Identifier{Name: "owner"}}, "Address"},
		{&ast.BinaryExpr{Op: ast.OpLess, Lhs: &ast.Identifier{Name: "amount"}, Rhs: &ast.LiteralExpr{Kind: ast.LiteralInt, Value: "1"}}, "Bool"},
		{&ast.FunctionCall{Identifier: ast.Ident{Name: "Account"}}, "Account"},
		{&ast.FunctionCall{Identifier: ast.Ident{Name: "isOwner"}, Arguments: []*ast.CallArgument{
			{Expr: &ast.Identifier{Name: "owner"}},
		}}, "Bool"},
		{&ast.FunctionCall{Identifier: ast.Ident{Name: "prev"}, Arguments: []*ast.CallArgument{
			{Expr: &ast.Identifier{Name: "amount"}},
		}}, "Int"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, env.TypeOf(tt.expr, ctx).String(), tt.expr.String())
	}
}

func TestMatchFunctionCallPicksOverload(t *testing.T) {
	env := newEnv(t, bankSource)
	scope := semantic.NewSymbolTable(nil)
	scope.Define("source", semantic.SymbolParameter, ast.InoutType(ast.UserDefinedType("Wei")), ast.Position{})
	ctx := semantic.Context{EnclosingType: "Wei", Scope: scope}

	one := &ast.FunctionCall{Identifier: ast.Ident{Name: "transfer"}, Arguments: []*ast.CallArgument{
		{Expr: &ast.InoutExpr{Expr: &ast.Identifier{Name: "source"}}},
	}}
	two := &ast.FunctionCall{Identifier: ast.Ident{Name: "transfer"}, Arguments: []*ast.CallArgument{
		{Expr: &ast.InoutExpr{Expr: &ast.Identifier{Name: "source"}}},
		{Expr: &ast.LiteralExpr{Kind: ast.LiteralInt, Value: "1"}},
	}}

	m1 := env.MatchFunctionCall(one, "Wei", ctx)
	m2 := env.MatchFunctionCall(two, "Wei", ctx)
	require.Equal(t, semantic.MatchFunction, m1.Kind)
	require.Equal(t, semantic.MatchFunction, m2.Kind)
	assert.Equal(t, "transfer$inoutWei_Wei", m1.Function.NormalisedName())
	assert.Equal(t, "transfer$inoutWeiInt_Wei", m2.Function.NormalisedName())

	init := &ast.FunctionCall{Identifier: ast.Ident{Name: "Wei"}, Arguments: []*ast.CallArgument{
		{Expr: &ast.LiteralExpr{Kind: ast.LiteralInt, Value: "5"}},
	}}
	m3 := env.MatchFunctionCall(init, "Bank", ctx)
	require.Equal(t, semantic.MatchInitializer, m3.Kind)
	assert.Equal(t, "initInt_Wei", m3.Function.NormalisedName())

	missing := &ast.FunctionCall{Identifier: ast.Ident{Name: "nothing"}}
	assert.Equal(t, semantic.MatchNone, env.MatchFunctionCall(missing, "Bank", ctx).Kind)
}

func TestCallGraphAndConstructors(t *testing.T) {
	env := newEnv(t, bankSource)

	graph := env.CallGraph()
	assert.Equal(t, []string{"creditInt_Account"}, graph["creditInt_Bank"])
	assert.Equal(t, []string{"init_Account"}, graph["open_Bank"])
	assert.Equal(t, []string{"Account"}, env.CalledConstructors("open_Bank"))
	assert.Equal(t, []string{"getRawValue_Wei", "transfer$inoutWeiInt_Wei"}, graph["transfer$inoutWei_Wei"])
	assert.Contains(t, env.Reachable("transfer$inoutWei_Wei"), "transfer$inoutWeiInt_Wei")
}

func TestMutatesExpansion(t *testing.T) {
	env := newEnv(t, bankSource)

	names := func(fn string) []string {
		var out []string
		for _, m := range env.Function(fn).Mutates {
			out = append(out, m.Name+"_"+m.Owner)
		}
		return out
	}

	// open constructs an Account and mutates a dictionary of accounts
	assert.Equal(t, []string{"accounts_Bank", "balance_Account", "deposits_Account"}, names("open_Bank"))
	// credit mutates a struct typed property
	assert.Equal(t, []string{"primary_Bank", "balance_Account", "deposits_Account"}, names("creditInt_Bank"))
}

func TestCallerCapabilityType(t *testing.T) {
	env := newEnv(t, bankSource)

	assert.Equal(t, "Address", env.CallerCapabilityType("owner", "Bank").String())
	assert.Equal(t, "(Address) -> Bool", env.CallerCapabilityType("isOwner", "Bank").String())
	assert.Nil(t, env.CallerCapabilityType("nobody", "Bank"))
}

func TestUnknownBehaviourContract(t *testing.T) {
	module, errs := parser.ParseSource("x.flint", "Missing :: (any) {}")
	require.Empty(t, errs)

	_, err := semantic.NewEnvironment(module)
	assert.Error(t, err)
}

const walletSource = `
struct trait Account {
  func deposit(amount: Int) mutates (balance)

  func topUp() mutates (balance) {
    deposit(1)
  }
}

struct Wallet: Account {
  var balance: Int = 0

  init() {}

  func deposit(amount: Int) {
    balance += amount
  }

  func refill() {
    topUp()
  }
}
`

func TestTraitConformance(t *testing.T) {
	env := newEnv(t, walletSource)

	assert.True(t, env.IsTrait("Account"))
	assert.Nil(t, env.Function("topUp_Account"))

	deposit := env.Function("depositInt_Wallet")
	require.NotNil(t, deposit)
	assert.Equal(t, "Account", deposit.Trait)
	require.Len(t, deposit.Mutates, 1)
	assert.Equal(t, "balance", deposit.Mutates[0].Name)
	assert.Equal(t, "Wallet", deposit.Mutates[0].Owner)

	topUp := env.Function("topUp_Wallet")
	require.NotNil(t, topUp)
	assert.Equal(t, "Wallet", topUp.Owner)
	assert.Equal(t, []string{"depositInt_Wallet"}, env.CallGraph()["topUp_Wallet"])
	assert.Equal(t, []string{"topUp_Wallet"}, env.CallGraph()["refill_Wallet"])
	assert.Empty(t, env.Function("refill_Wallet").Mutates)
}

func TestTraitConformanceErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown trait", "struct S: Missing {}"},
		{"missing requirement", "struct trait T { func f() }\nstruct S: T {}"},
		{"wrong kind", "contract trait T {}\nstruct S: T {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			module, errs := parser.ParseSource("x.flint", tt.src)
			require.Empty(t, errs)

			_, err := semantic.NewEnvironment(module)
			assert.Error(t, err)
		})
	}
}
