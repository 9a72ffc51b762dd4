package ast

import "fmt"

// Position tracks location information for error reporting and tooling
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// IsValid reports whether the position points at real source text.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Ident represents any identifier like variable names, type names, etc.
// Example: "Bank", "balances", "owner", "amount"
type Ident struct {
	Pos    Position
	EndPos Position
	Name   string
}

// Module represents a Flint source file after the standard library has been merged in.
// Example: "contract Bank { var owner: Address } Bank :: (any) { ... }"
type Module struct {
	Pos          Position
	EndPos       Position
	Declarations []TopLevelDeclaration
}

// TopLevelDeclaration is any declaration allowed at file scope.
type TopLevelDeclaration interface {
	Node
	isTopLevelDeclaration()
}

func (*ContractDeclaration) isTopLevelDeclaration()          {}
func (*ContractBehaviourDeclaration) isTopLevelDeclaration() {}
func (*StructDeclaration) isTopLevelDeclaration()            {}
func (*EnumDeclaration) isTopLevelDeclaration()              {}
func (*ExternalTraitDeclaration) isTopLevelDeclaration()     {}
func (*TraitDeclaration) isTopLevelDeclaration()             {}

// ContractDeclaration represents the state of a contract: its properties, type states,
// invariants and holistic specifications.
// Example: "contract Bank (Open, Closed) { var owner: Address invariant (owner != 0x0) }"
type ContractDeclaration struct {
	Pos          Position
	EndPos       Position
	Identifier   Ident
	Conformances []Ident
	States       []Ident
	Variables    []*VariableDeclaration
	Invariants   []Expr
	Holistic     []*HolisticSpec
	Events       []*EventDeclaration
}

// HolisticSpec represents a property that must hold over any sequence of public calls.
// Example: "will (balance == 0)"
type HolisticSpec struct {
	Pos    Position
	EndPos Position
	Expr   Expr
}

// EventDeclaration represents an event a contract may emit. Events carry no verification
// meaning.
// Example: "event Deposit(to: Address, amount: Int)"
type EventDeclaration struct {
	Pos        Position
	EndPos     Position
	Identifier Ident
	Parameters []*Parameter
}

// ContractBehaviourDeclaration groups functions that share caller and type state restrictions.
// Example: "Bank @(Open) :: caller <- (owner) { func close() { become Closed } }"
type ContractBehaviourDeclaration struct {
	Pos               Position
	EndPos            Position
	ContractName      Ident
	States            []Ident
	CallerBinding     *Ident
	CallerProtections []Ident
	Members           []*FunctionDeclaration
}

// StructDeclaration represents a struct type with fields, invariants, initialisers and methods.
// Example: "struct Account { var balance: Int = 0 init() {} func deposit(amount: Int) { ... } }"
type StructDeclaration struct {
	Pos          Position
	EndPos       Position
	Identifier   Ident
	Conformances []Ident
	Variables    []*VariableDeclaration
	Invariants   []Expr
	Functions    []*FunctionDeclaration
	Initializers []*FunctionDeclaration
}

// EnumDeclaration represents an enumeration with integer backed cases.
// Example: "enum Colour: Int { case red case green }"
type EnumDeclaration struct {
	Pos        Position
	EndPos     Position
	Identifier Ident
	RawType    *Type
	Cases      []*EnumCase
}

// EnumCase is one case of an enumeration, optionally with an explicit raw value.
type EnumCase struct {
	Pos        Position
	EndPos     Position
	Identifier Ident
	Value      Expr
}

// TraitKind tells whether structs or contracts conform to a trait.
type TraitKind int

const (
	StructTrait TraitKind = iota
	ContractTrait
)

// TraitDeclaration lists the functions its conforming types share. Requirements are
// signatures every conforming type implements; Functions are default
// implementations copied into each conforming type.
// Example: "struct trait Account { func deposit(amount: Int) mutates (balance) }"
type TraitDeclaration struct {
	Pos          Position
	EndPos       Position
	Kind         TraitKind
	Identifier   Ident
	Requirements []*FunctionDeclaration
	Functions    []*FunctionDeclaration
}

// ExternalTraitDeclaration describes the interface of a contract outside the trust boundary.
// Example: "external trait Oracle { func price() -> Int }"
type ExternalTraitDeclaration struct {
	Pos        Position
	EndPos     Position
	Identifier Ident
	Functions  []*FunctionDeclaration
}

// IsAny reports whether the identifier is the wildcard caller or state.
func (i Ident) IsAny() bool {
	return i.Name == "any"
}
