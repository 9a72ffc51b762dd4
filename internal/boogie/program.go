package boogie

import (
	"sort"

	"flint/internal/ast"
)

// Declaration is any top level declaration of a verification program.
type Declaration interface {
	isDeclaration()
}

func (*FunctionDeclaration) isDeclaration() {}
func (*AxiomDeclaration) isDeclaration()    {}
func (*VariableDeclaration) isDeclaration() {}
func (*ConstDeclaration) isDeclaration()    {}
func (*TypeDeclaration) isDeclaration()     {}
func (*Procedure) isDeclaration()           {}
func (*ResolvedProcedure) isDeclaration()   {}

// FunctionDeclaration declares an uninterpreted function, constrained by axioms.
type FunctionDeclaration struct {
	Name       string
	Parameters []*Parameter
	ReturnName string
	ReturnType *Type
}

type AxiomDeclaration struct {
	Proposition Expr
}

// VariableDeclaration declares a global or local variable. RawName is the Flint name
// before normalisation.
type VariableDeclaration struct {
	Name    string
	RawName string
	Type    *Type
}

type ConstDeclaration struct {
	Name    string
	RawName string
	Type    *Type
	Unique  bool
}

// TypeDeclaration declares a type, optionally as an alias of another.
type TypeDeclaration struct {
	Name  string
	Alias *Type
}

type Parameter struct {
	Name    string
	RawName string
	Type    *Type
}

func (p *Parameter) String() string { return p.Name + ": " + p.Type.String() }

// ModifiesEntry is one global a procedure writes. UserDefined entries come from the
// program text, the rest are introduced by the translator for its own bookkeeping.
type ModifiesEntry struct {
	Variable    string
	UserDefined bool
}

// Procedure is a procedure before modifies resolution. Invariants are kept apart from
// the pre- and postconditions until the resolver decides where they apply.
type Procedure struct {
	Name        string
	ReturnTypes []*Type
	ReturnNames []string
	Parameters  []*Parameter

	Pre                []*ProofObligation
	Post               []*ProofObligation
	StructInvariants   []*ProofObligation
	ContractInvariants []*ProofObligation
	GlobalInvariants   []*ProofObligation

	Modifies   []ModifiesEntry
	Statements []Statement
	Variables  []*VariableDeclaration

	Inline bool
	TI     *TranslationInformation

	IsHolistic     bool
	IsStructInit   bool
	IsContractInit bool
}

// AddModifies records that the procedure writes variable. A variable that is
// modified both by user code and by the translator counts as user defined.
func (p *Procedure) AddModifies(variable string, userDefined bool) {
	for i, m := range p.Modifies {
		if m.Variable == variable {
			p.Modifies[i].UserDefined = m.UserDefined || userDefined
			return
		}
	}
	p.Modifies = append(p.Modifies, ModifiesEntry{Variable: variable, UserDefined: userDefined})
}

// ResolvedProcedure is a procedure whose modifies clause is final and whose
// invariants have been folded into its pre- and postconditions.
type ResolvedProcedure struct {
	Name        string
	ReturnTypes []*Type
	ReturnNames []string
	Parameters  []*Parameter
	Pre         []*ProofObligation
	Post        []*ProofObligation
	Modifies    []string
	Statements  []Statement
	Variables   []*VariableDeclaration
	Inline      bool
	TI          *TranslationInformation
}

// WithStatements returns a copy of the procedure with a different body.
func (p *ResolvedProcedure) WithStatements(statements []Statement, variables []*VariableDeclaration) *ResolvedProcedure {
	clone := *p
	clone.Statements = statements
	clone.Variables = variables
	return &clone
}

// HolisticTest is the entry procedure, and its helpers, checking one holistic
// specification.
type HolisticTest struct {
	Spec         ast.Position
	Declarations []Declaration
}

// Program is the output of translation.
type Program struct {
	Declarations []Declaration
	Holistic     []*HolisticTest
	EntryPoints  []string

	// CallGraph maps a procedure name to the procedures it calls.
	CallGraph map[string][]string
}

// Procedures returns every procedure of the program, holistic ones included.
func (p *Program) Procedures() []*Procedure {
	var out []*Procedure
	collect := func(decls []Declaration) {
		for _, d := range decls {
			if proc, ok := d.(*Procedure); ok {
				out = append(out, proc)
			}
		}
	}
	collect(p.Declarations)
	for _, h := range p.Holistic {
		collect(h.Declarations)
	}
	return out
}

// ResolvedProgram is a program ready to be printed.
type ResolvedProgram struct {
	Declarations []Declaration
	Holistic     []*HolisticTest
	EntryPoints  []string
}

// Functional returns the declarations verified by the prover.
func (p *ResolvedProgram) Functional() []Declaration {
	return p.Declarations
}

// HolisticProgram returns the declarations checked by symbolic execution for test.
func (p *ResolvedProgram) HolisticProgram(test *HolisticTest) []Declaration {
	out := make([]Declaration, 0, len(p.Declarations)+len(test.Declarations))
	out = append(out, p.Declarations...)
	return append(out, test.Declarations...)
}

// ResolvedProcedures lists the procedures among decls.
func ResolvedProcedures(decls []Declaration) []*ResolvedProcedure {
	var out []*ResolvedProcedure
	for _, d := range decls {
		if proc, ok := d.(*ResolvedProcedure); ok {
			out = append(out, proc)
		}
	}
	return out
}

// uniqueVariables drops repeated declarations of the same name and sorts the rest.
func uniqueVariables(vars []*VariableDeclaration) []*VariableDeclaration {
	seen := make(map[string]bool)
	var out []*VariableDeclaration
	for _, v := range vars {
		if seen[v.Name] {
			continue
		}
		seen[v.Name] = true
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
