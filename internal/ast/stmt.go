package ast

// Statement is any statement allowed in a function body.
type Statement interface {
	Node
	isStatement()
}

func (*ExprStmt) isStatement()    {}
func (*ReturnStmt) isStatement()  {}
func (*BecomeStmt) isStatement()  {}
func (*EmitStmt) isStatement()    {}
func (*IfStmt) isStatement()      {}
func (*ForStmt) isStatement()     {}
func (*DoCatchStmt) isStatement() {}

// ExprStmt represents an expression evaluated for its effects, including assignments.
// Example: "balance += amount", "let x: Int = 5"
type ExprStmt struct {
	Pos    Position
	EndPos Position
	Expr   Expr
}

// ReturnStmt represents a return with an optional value.
// Example: "return balance"
type ReturnStmt struct {
	Pos    Position
	EndPos Position
	Value  Expr
}

// BecomeStmt represents a type state transition.
// Example: "become Closed"
type BecomeStmt struct {
	Pos    Position
	EndPos Position
	State  Ident
}

// EmitStmt represents an event emission.
// Example: "emit Deposit(to: owner, amount: 5)"
type EmitStmt struct {
	Pos    Position
	EndPos Position
	Call   *FunctionCall
}

// IfStmt represents a conditional with an optional else branch.
// Example: "if x > 0 { ... } else { ... }"
type IfStmt struct {
	Pos       Position
	EndPos    Position
	Condition Expr
	Body      []Statement
	Else      []Statement
}

// ForStmt represents iteration over a range, array or dictionary.
// Example: "for let i: Int in (0..<10) { ... }"
type ForStmt struct {
	Pos      Position
	EndPos   Position
	Variable *VariableDeclaration
	Iterable Expr
	Body     []Statement
}

// DoCatchStmt represents a block whose external calls may fail into the catch block.
// Example: "do { let x: Int = call oracle.price() } catch is Error { ... }"
type DoCatchStmt struct {
	Pos    Position
	EndPos Position
	Do     []Statement
	Catch  []Statement
}
