package boogie

// Statement is a command of a procedure body.
type Statement interface {
	isStatement()
}

func (*ExpressionStatement) isStatement() {}
func (*IfStatement) isStatement()         {}
func (*WhileStatement) isStatement()      {}
func (*AssertStatement) isStatement()     {}
func (*AssumeStatement) isStatement()     {}
func (*HavocStatement) isStatement()      {}
func (*AssignmentStatement) isStatement() {}
func (*CallStatement) isStatement()       {}
func (*BreakStatement) isStatement()      {}
func (*ReturnStatement) isStatement()     {}
func (*CommentStatement) isStatement()    {}

type ExpressionStatement struct {
	Expr Expr
	TI   *TranslationInformation
}

type IfStatement struct {
	Condition Expr
	Then      []Statement
	Else      []Statement
	TI        *TranslationInformation
}

// ProofObligation is an assertion, precondition, postcondition or loop invariant
// together with the information needed to report its failure. TwoState marks
// invariants that compare against the pre-state and so cannot be assumed on entry.
type ProofObligation struct {
	Expr     Expr
	TI       *TranslationInformation
	TwoState bool
}

type WhileStatement struct {
	Condition  Expr
	Body       []Statement
	Invariants []*ProofObligation
	TI         *TranslationInformation
}

type AssertStatement struct {
	Expr Expr
	TI   *TranslationInformation
}

type AssumeStatement struct {
	Expr Expr
	TI   *TranslationInformation
}

type HavocStatement struct {
	Name string
	TI   *TranslationInformation
}

type AssignmentStatement struct {
	Lhs Expr
	Rhs Expr
	TI  *TranslationInformation
}

// CallStatement calls a procedure, assigning its results to Returns.
type CallStatement struct {
	Returns   []string
	Name      string
	Arguments []Expr
	TI        *TranslationInformation
}

type BreakStatement struct{}

// ReturnStatement leaves the procedure. TI locates the enclosing procedure: the
// verifier reports unsatisfied postconditions at the return path.
type ReturnStatement struct {
	TI *TranslationInformation
}

type CommentStatement struct {
	Text string
}

// Convenience constructors.

func Assert(e Expr, ti *TranslationInformation) *AssertStatement {
	return &AssertStatement{Expr: e, TI: ti}
}

func Assume(e Expr, ti *TranslationInformation) *AssumeStatement {
	return &AssumeStatement{Expr: e, TI: ti}
}

func Havoc(name string, ti *TranslationInformation) *HavocStatement {
	return &HavocStatement{Name: name, TI: ti}
}

func Assign(lhs, rhs Expr, ti *TranslationInformation) *AssignmentStatement {
	return &AssignmentStatement{Lhs: lhs, Rhs: rhs, TI: ti}
}

func Call(returns []string, name string, args []Expr, ti *TranslationInformation) *CallStatement {
	return &CallStatement{Returns: returns, Name: name, Arguments: args, TI: ti}
}
