package grammar_test

import (
	"bytes"
	"testing"

	"flint/grammar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bank = `
contract Bank (Open, Closed) {
  var owner: Address
  var balances: [Address: Int] = [:]
  var total: Int = 0

  invariant (total >= 0)
  will (total == 0)

  event Deposit(to: Address, amount: Int)
}

Bank @(Open) :: caller <- (any) {
  public init(owner: Address) {
    self.owner = owner
    become Open
  }

  public func deposit(amount: Int) mutates (balances, total)
    pre (amount > 0)
    post (total == prev(total) + amount)
  {
    balances[caller] += amount
    total += amount
  }
}

Bank :: (owner) {
  public func close() mutates (total) {
    if total == 0 {
      become Closed
    } else {
      total = 0
    }
  }
}
`

func TestParseContract(t *testing.T) {
	file, err := grammar.ParseString("bank.flint", bank)
	require.NoError(t, err)
	require.Len(t, file.Declarations, 3)

	contract := file.Declarations[0].Contract
	require.NotNil(t, contract)
	assert.Equal(t, "Bank", contract.Name.Value)
	assert.Len(t, contract.States, 2)
	assert.Len(t, contract.Members, 6)
	assert.Equal(t, "var", contract.Members[0].Variable.Keyword)
	assert.NotNil(t, contract.Members[1].Variable.Type.Bracketed.Value)
	assert.True(t, contract.Members[1].Variable.Value.Left.Value.Primary.Bracket.EmptyDict)
	assert.NotNil(t, contract.Members[3].Invariant)
	assert.NotNil(t, contract.Members[4].Will)
	assert.Equal(t, "Deposit", contract.Members[5].Event.Name.Value)

	behaviour := file.Declarations[1].Behaviour
	require.NotNil(t, behaviour)
	assert.Equal(t, "caller", behaviour.Binding.Value)
	assert.Equal(t, "any", behaviour.Callers[0].Value)
	require.Len(t, behaviour.Members, 2)
	assert.True(t, behaviour.Members[0].Head.Init)

	deposit := behaviour.Members[1]
	assert.Equal(t, "deposit", deposit.Head.Name.Value)
	assert.Len(t, deposit.Mutates, 2)
	assert.Len(t, deposit.Conditions, 2)
	assert.Len(t, deposit.Body.Statements, 2)
	assert.Equal(t, "+=", deposit.Body.Statements[0].Expr.Ops[0].Operator)
}

func TestParseElseBranch(t *testing.T) {
	file, err := grammar.ParseString("bank.flint", bank)
	require.NoError(t, err)

	closeFn := file.Declarations[2].Behaviour.Members[0]
	stmt := closeFn.Body.Statements[0].If
	require.NotNil(t, stmt)
	assert.NotNil(t, stmt.Else)
	assert.Equal(t, "Closed", stmt.Body.Statements[0].Become.State.Value)
}

func TestParseStructAndEnum(t *testing.T) {
	src := `
struct Counter {
  var count: Int = 0
  invariant (count >= 0)

  init() {}

  mutating func increment() mutates (count) {
    count += 1
  }
}

enum Colour: Int {
  case red
  case green = 2
}

external trait Oracle {
  func price() -> Int
}
`
	file, err := grammar.ParseString("counter.flint", src)
	require.NoError(t, err)
	require.Len(t, file.Declarations, 3)

	counter := file.Declarations[0].Struct
	require.NotNil(t, counter)
	assert.Len(t, counter.Members, 4)
	assert.True(t, counter.Members[3].Function.Mutating)

	enum := file.Declarations[1].Enum
	require.NotNil(t, enum)
	assert.Len(t, enum.Cases, 2)
	assert.NotNil(t, enum.Cases[1].Value)

	oracle := file.Declarations[2].External
	require.NotNil(t, oracle)
	assert.Equal(t, "price", oracle.Functions[0].Name.Value)
	assert.Equal(t, "Int", oracle.Functions[0].Result.Name.Value)
}

func TestParseTraitsAndConformance(t *testing.T) {
	src := `
struct trait Account {
  func deposit(amount: Int) mutates (balance)

  func topUp() mutates (balance) {
    deposit(1)
  }
}

struct Wallet: Account {
  var balance: Int = 0
}

contract Bank: Ledger, Audited (Open) {}
`
	file, err := grammar.ParseString("traits.flint", src)
	require.NoError(t, err)
	require.Len(t, file.Declarations, 3)

	account := file.Declarations[0].Trait
	require.NotNil(t, account)
	assert.Equal(t, "struct", account.Kind)
	require.Len(t, account.Members, 2)
	assert.Nil(t, account.Members[0].Body)
	assert.Equal(t, "balance", account.Members[0].Mutates[0].Value)
	assert.NotNil(t, account.Members[1].Body)

	wallet := file.Declarations[1].Struct
	require.NotNil(t, wallet)
	require.Len(t, wallet.Conformance, 1)
	assert.Equal(t, "Account", wallet.Conformance[0].Value)

	bank := file.Declarations[2].Contract
	require.NotNil(t, bank)
	require.Len(t, bank.Conformance, 2)
	assert.Equal(t, "Audited", bank.Conformance[1].Value)
	assert.Equal(t, "Open", bank.States[0].Value)
}

func TestParseRangeAndExternalCall(t *testing.T) {
	src := `
C :: (any) {
  func f() {
    for let i: Int in (0..<10) {
      do {
        let p: Int = call oracle.price()
      } catch is Error {
        fatalError()
      }
    }
  }
}
`
	file, err := grammar.ParseString("loop.flint", src)
	require.NoError(t, err)

	loop := file.Declarations[0].Behaviour.Members[0].Body.Statements[0].For
	require.NotNil(t, loop)
	assert.Equal(t, "..<", loop.Iterable.Left.Value.Primary.Paren.RangeOp)

	block := loop.Body.Statements[0].DoCatch
	require.NotNil(t, block)
	decl := block.Do.Statements[0].VarDecl
	require.NotNil(t, decl)
	assert.NotNil(t, decl.Value.Left.Value.Primary.External)
}

func TestReportParseError(t *testing.T) {
	src := "contract {"
	_, err := grammar.ParseString("bad.flint", src)
	require.Error(t, err)

	var buf bytes.Buffer
	grammar.ReportParseError(&buf, src, err)
	assert.Contains(t, buf.String(), "Syntax error in bad.flint at line 1")
	assert.Contains(t, buf.String(), "^")
}
