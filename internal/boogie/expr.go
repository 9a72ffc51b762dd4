package boogie

import (
	"fmt"
	"math/big"
	"strings"
)

// Expr is a side effect free verification expression. String renders it in the
// concrete syntax of the verifier.
type Expr interface {
	String() string
	isExpr()
}

func (*BinaryExpr) isExpr()          {}
func (*NotExpr) isExpr()             {}
func (*NegateExpr) isExpr()          {}
func (*MapRead) isExpr()             {}
func (*BooleanLiteral) isExpr()      {}
func (*IntegerLiteral) isExpr()      {}
func (*RealLiteral) isExpr()         {}
func (*Identifier) isExpr()          {}
func (*OldExpr) isExpr()             {}
func (*QuantifiedExpr) isExpr()      {}
func (*FunctionApplication) isExpr() {}
func (*Nop) isExpr()                 {}

type BinaryOp string

const (
	OpEquivalent     BinaryOp = "<==>"
	OpImplies        BinaryOp = "==>"
	OpOr             BinaryOp = "||"
	OpAnd            BinaryOp = "&&"
	OpEquals         BinaryOp = "=="
	OpLessThan       BinaryOp = "<"
	OpGreaterThan    BinaryOp = ">"
	OpLessOrEqual    BinaryOp = "<="
	OpGreaterOrEqual BinaryOp = ">="
	OpConcat         BinaryOp = "++"
	OpAdd            BinaryOp = "+"
	OpSubtract       BinaryOp = "-"
	OpMultiply       BinaryOp = "*"
	OpDivide         BinaryOp = "div"
	OpModulo         BinaryOp = "mod"
)

// BinaryExpr is always rendered fully parenthesised.
type BinaryExpr struct {
	Op  BinaryOp
	Lhs Expr
	Rhs Expr
}

func (b *BinaryExpr) String() string {
	return "(" + b.Lhs.String() + " " + string(b.Op) + " " + b.Rhs.String() + ")"
}

type NotExpr struct{ Operand Expr }

func (n *NotExpr) String() string { return "(!" + n.Operand.String() + ")" }

type NegateExpr struct{ Operand Expr }

func (n *NegateExpr) String() string { return "(-" + n.Operand.String() + ")" }

// MapRead indexes a map typed expression.
type MapRead struct {
	Map Expr
	Key Expr
}

func (m *MapRead) String() string { return m.Map.String() + "[" + m.Key.String() + "]" }

type BooleanLiteral struct{ Value bool }

func (b *BooleanLiteral) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// IntegerLiteral holds arbitrary precision values, wrapping arithmetic needs 2^256.
type IntegerLiteral struct{ Value *big.Int }

func (i *IntegerLiteral) String() string { return i.Value.String() }

type RealLiteral struct {
	Whole    int64
	Fraction int64
}

func (r *RealLiteral) String() string { return fmt.Sprintf("%d.%d", r.Whole, r.Fraction) }

type Identifier struct{ Name string }

func (i *Identifier) String() string { return i.Name }

// OldExpr refers to the value of its operand on procedure entry.
type OldExpr struct{ Operand Expr }

func (o *OldExpr) String() string { return "old(" + o.Operand.String() + ")" }

type Quantifier string

const (
	Forall Quantifier = "forall"
	Exists Quantifier = "exists"
)

type QuantifiedExpr struct {
	Quantifier Quantifier
	Bound      []*Parameter
	Body       Expr
}

func (q *QuantifiedExpr) String() string {
	return "(" + string(q.Quantifier) + " " + joinParameters(q.Bound) + " :: " + q.Body.String() + ")"
}

type FunctionApplication struct {
	Name      string
	Arguments []Expr
}

func (f *FunctionApplication) String() string {
	return f.Name + "(" + joinExprs(f.Arguments) + ")"
}

// Nop is the value of expressions that only contribute statements, such as a call to
// assert.
type Nop struct{}

func (*Nop) String() string { return "// nop" }

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// Constructors used throughout the translator.

func Ident(name string) *Identifier        { return &Identifier{Name: name} }
func Bool(v bool) *BooleanLiteral          { return &BooleanLiteral{Value: v} }
func Int(v int64) *IntegerLiteral          { return &IntegerLiteral{Value: big.NewInt(v)} }
func BigInt(v *big.Int) *IntegerLiteral    { return &IntegerLiteral{Value: new(big.Int).Set(v)} }
func Not(e Expr) *NotExpr                  { return &NotExpr{Operand: e} }
func Negate(e Expr) *NegateExpr            { return &NegateExpr{Operand: e} }
func Old(e Expr) *OldExpr                  { return &OldExpr{Operand: e} }
func Read(m, key Expr) *MapRead            { return &MapRead{Map: m, Key: key} }
func Binary(op BinaryOp, l, r Expr) Expr   { return &BinaryExpr{Op: op, Lhs: l, Rhs: r} }
func Equivalent(l, r Expr) Expr            { return Binary(OpEquivalent, l, r) }
func Implies(l, r Expr) Expr               { return Binary(OpImplies, l, r) }
func Or(l, r Expr) Expr                    { return Binary(OpOr, l, r) }
func And(l, r Expr) Expr                   { return Binary(OpAnd, l, r) }
func Equals(l, r Expr) Expr                { return Binary(OpEquals, l, r) }
func LessThan(l, r Expr) Expr              { return Binary(OpLessThan, l, r) }
func GreaterThan(l, r Expr) Expr           { return Binary(OpGreaterThan, l, r) }
func LessOrEqual(l, r Expr) Expr           { return Binary(OpLessOrEqual, l, r) }
func GreaterOrEqual(l, r Expr) Expr        { return Binary(OpGreaterOrEqual, l, r) }
func Add(l, r Expr) Expr                   { return Binary(OpAdd, l, r) }
func Subtract(l, r Expr) Expr              { return Binary(OpSubtract, l, r) }
func Multiply(l, r Expr) Expr              { return Binary(OpMultiply, l, r) }
func Divide(l, r Expr) Expr                { return Binary(OpDivide, l, r) }
func Modulo(l, r Expr) Expr                { return Binary(OpModulo, l, r) }
func Apply(name string, args ...Expr) Expr { return &FunctionApplication{Name: name, Arguments: args} }

// Quantify binds params over body.
func Quantify(q Quantifier, params []*Parameter, body Expr) Expr {
	return &QuantifiedExpr{Quantifier: q, Bound: params, Body: body}
}

// Conjunction folds exprs with &&, true when empty.
func Conjunction(exprs []Expr) Expr {
	if len(exprs) == 0 {
		return Bool(true)
	}
	result := exprs[0]
	for _, e := range exprs[1:] {
		result = And(result, e)
	}
	return result
}

// Disjunction folds exprs with ||, false when empty.
func Disjunction(exprs []Expr) Expr {
	if len(exprs) == 0 {
		return Bool(false)
	}
	result := exprs[0]
	for _, e := range exprs[1:] {
		result = Or(result, e)
	}
	return result
}

// Rename returns a copy of e with every identifier, and every applied function,
// whose name is a key of names replaced by the mapped name. Quantifier bound names
// shadow the mapping inside their body.
func Rename(e Expr, names map[string]string) Expr {
	switch e := e.(type) {
	case *BinaryExpr:
		return Binary(e.Op, Rename(e.Lhs, names), Rename(e.Rhs, names))
	case *NotExpr:
		return Not(Rename(e.Operand, names))
	case *NegateExpr:
		return Negate(Rename(e.Operand, names))
	case *MapRead:
		return Read(Rename(e.Map, names), Rename(e.Key, names))
	case *OldExpr:
		return Old(Rename(e.Operand, names))
	case *Identifier:
		if renamed, ok := names[e.Name]; ok {
			return Ident(renamed)
		}
		return e
	case *QuantifiedExpr:
		inner := names
		for _, p := range e.Bound {
			if _, ok := names[p.Name]; ok {
				inner = make(map[string]string, len(names))
				for k, v := range names {
					inner[k] = v
				}
				break
			}
		}
		for _, p := range e.Bound {
			delete(inner, p.Name)
		}
		return Quantify(e.Quantifier, e.Bound, Rename(e.Body, inner))
	case *FunctionApplication:
		args := make([]Expr, len(e.Arguments))
		for i, a := range e.Arguments {
			args[i] = Rename(a, names)
		}
		name := e.Name
		if renamed, ok := names[name]; ok {
			name = renamed
		}
		return &FunctionApplication{Name: name, Arguments: args}
	}
	return e
}

// UsesOld reports whether e refers to the pre-state of a procedure.
func UsesOld(e Expr) bool {
	switch e := e.(type) {
	case *OldExpr:
		return true
	case *BinaryExpr:
		return UsesOld(e.Lhs) || UsesOld(e.Rhs)
	case *NotExpr:
		return UsesOld(e.Operand)
	case *NegateExpr:
		return UsesOld(e.Operand)
	case *MapRead:
		return UsesOld(e.Map) || UsesOld(e.Key)
	case *QuantifiedExpr:
		return UsesOld(e.Body)
	case *FunctionApplication:
		for _, a := range e.Arguments {
			if UsesOld(a) {
				return true
			}
		}
	}
	return false
}
