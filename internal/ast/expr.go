package ast

// Expr is any expression.
type Expr interface {
	Node
	isExpr()
}

func (*Identifier) isExpr()          {}
func (*BinaryExpr) isExpr()          {}
func (*UnaryExpr) isExpr()           {}
func (*FunctionCall) isExpr()        {}
func (*ExternalCall) isExpr()        {}
func (*SubscriptExpr) isExpr()       {}
func (*LiteralExpr) isExpr()         {}
func (*ArrayLiteral) isExpr()        {}
func (*DictionaryLiteral) isExpr()   {}
func (*RangeExpr) isExpr()           {}
func (*SelfExpr) isExpr()            {}
func (*InoutExpr) isExpr()           {}
func (*VariableDeclaration) isExpr() {}

// BinaryOp is the operator of a binary expression.
type BinaryOp string

const (
	OpAssign         BinaryOp = "="
	OpPlusAssign     BinaryOp = "+="
	OpMinusAssign    BinaryOp = "-="
	OpTimesAssign    BinaryOp = "*="
	OpDivideAssign   BinaryOp = "/="
	OpPlus           BinaryOp = "+"
	OpMinus          BinaryOp = "-"
	OpTimes          BinaryOp = "*"
	OpDivide         BinaryOp = "/"
	OpPercent        BinaryOp = "%"
	OpPower          BinaryOp = "**"
	OpOverflowPlus   BinaryOp = "&+"
	OpOverflowMinus  BinaryOp = "&-"
	OpOverflowTimes  BinaryOp = "&*"
	OpEqual          BinaryOp = "=="
	OpNotEqual       BinaryOp = "!="
	OpLess           BinaryOp = "<"
	OpLessOrEqual    BinaryOp = "<="
	OpGreater        BinaryOp = ">"
	OpGreaterOrEqual BinaryOp = ">="
	OpAnd            BinaryOp = "&&"
	OpOr             BinaryOp = "||"
	OpImplies        BinaryOp = "==>"
	OpDot            BinaryOp = "."
)

// IsAssignment reports whether the operator writes to its left operand.
func (op BinaryOp) IsAssignment() bool {
	switch op {
	case OpAssign, OpPlusAssign, OpMinusAssign, OpTimesAssign, OpDivideAssign:
		return true
	}
	return false
}

// Identifier represents a reference to a variable, property, state or type.
// Example: "balance"
type Identifier struct {
	Pos    Position
	EndPos Position
	Name   string
}

// BinaryExpr represents an infix operation, including assignments and property access.
// Example: "a + b", "self.balance", "account.deposit(5)"
type BinaryExpr struct {
	Pos    Position
	EndPos Position
	Op     BinaryOp
	Lhs    Expr
	Rhs    Expr
}

// IsExplicitPropertyAccess reports whether the expression is "self.x".
func (b *BinaryExpr) IsExplicitPropertyAccess() bool {
	if b.Op != OpDot {
		return false
	}
	_, ok := b.Lhs.(*SelfExpr)
	return ok
}

// UnaryOp is the operator of a prefix expression.
type UnaryOp string

const (
	OpNot    UnaryOp = "!"
	OpNegate UnaryOp = "-"
)

// UnaryExpr represents a prefix operation.
// Example: "!done", "-x"
type UnaryExpr struct {
	Pos     Position
	EndPos  Position
	Op      UnaryOp
	Operand Expr
}

// FunctionCall represents a call of a function, initialiser or built-in.
// Example: "transfer(to: owner, amount: 5)"
type FunctionCall struct {
	Pos        Position
	EndPos     Position
	Identifier Ident
	Arguments  []*CallArgument
}

// CallArgument is a possibly labelled argument.
type CallArgument struct {
	Pos    Position
	EndPos Position
	Label  *Ident
	Expr   Expr
}

// ExternalCallMode selects how failure of an external call is handled.
type ExternalCallMode int

const (
	ExternalCallNormal ExternalCallMode = iota
	ExternalCallOptional
	ExternalCallForced
)

// ExternalCall represents a call into a contract outside the trust boundary.
// Example: "call oracle.price()"
type ExternalCall struct {
	Pos    Position
	EndPos Position
	Mode   ExternalCallMode
	Call   *BinaryExpr
}

// SubscriptExpr represents an array or dictionary access.
// Example: "balances[owner]"
type SubscriptExpr struct {
	Pos    Position
	EndPos Position
	Base   Expr
	Index  Expr
}

// LiteralKind is the kind of a literal token.
type LiteralKind int

const (
	LiteralInt LiteralKind = iota
	LiteralBool
	LiteralAddress
	LiteralString
)

// LiteralExpr represents an integer, boolean, address or string literal.
// Example: "42", "true", "0x0000000000000000000000000000000000000001"
type LiteralExpr struct {
	Pos    Position
	EndPos Position
	Kind   LiteralKind
	Value  string
}

// ArrayLiteral represents an array literal.
// Example: "[1, 2, 3]"
type ArrayLiteral struct {
	Pos      Position
	EndPos   Position
	Elements []Expr
}

// DictionaryLiteral represents a dictionary literal.
// Example: "[1: true, 2: false]", "[:]"
type DictionaryLiteral struct {
	Pos     Position
	EndPos  Position
	Entries []*DictionaryEntry
}

// DictionaryEntry is one key/value pair of a dictionary literal.
type DictionaryEntry struct {
	Key   Expr
	Value Expr
}

// RangeExpr represents a half-open or closed integer range.
// Example: "(0..<10)", "(1...n)"
type RangeExpr struct {
	Pos       Position
	EndPos    Position
	Start     Expr
	End       Expr
	Inclusive bool
}

// SelfExpr represents the receiver "self".
type SelfExpr struct {
	Pos    Position
	EndPos Position
}

// InoutExpr represents passing a value by reference.
// Example: "&source"
type InoutExpr struct {
	Pos    Position
	EndPos Position
	Expr   Expr
}

// VariableDeclaration represents a property or local declaration, optionally initialised.
// Example: "var balance: Int = 0", "let owner: Address"
type VariableDeclaration struct {
	Pos        Position
	EndPos     Position
	Identifier Ident
	Type       *Type
	IsConstant bool
	Assigned   Expr
}
