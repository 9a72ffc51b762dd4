package ast

// FunctionKind distinguishes ordinary functions from initialisers.
type FunctionKind int

const (
	FunctionKindFunc FunctionKind = iota
	FunctionKindInit
)

// FunctionDeclaration represents a function or initialiser with its specification clauses.
// Example: "public func deposit(implicit value: Wei) mutates (balance) pre (value.rawValue > 0) { ... }"
type FunctionDeclaration struct {
	Pos        Position
	EndPos     Position
	Kind       FunctionKind
	Identifier Ident
	IsPublic   bool
	IsMutating bool
	Parameters []*Parameter
	ResultType *Type
	Mutates    []Ident
	Pre        []Expr
	Post       []Expr
	Body       []Statement
}

// Name returns the declared name, "init" for initialisers.
func (f *FunctionDeclaration) Name() string {
	if f.Kind == FunctionKindInit {
		return "init"
	}
	return f.Identifier.Name
}

// IsInit reports whether the declaration is an initialiser.
func (f *FunctionDeclaration) IsInit() bool {
	return f.Kind == FunctionKindInit
}

// ParameterTypes returns the declared parameter types in order.
func (f *FunctionDeclaration) ParameterTypes() []*Type {
	types := make([]*Type, 0, len(f.Parameters))
	for _, p := range f.Parameters {
		types = append(types, p.Type)
	}
	return types
}

// ExplicitParameters returns the parameters that callers pass explicitly.
func (f *FunctionDeclaration) ExplicitParameters() []*Parameter {
	var params []*Parameter
	for _, p := range f.Parameters {
		if !p.IsImplicit {
			params = append(params, p)
		}
	}
	return params
}

// Result returns the declared result type, Void when none is declared.
func (f *FunctionDeclaration) Result() *Type {
	if f.ResultType == nil {
		return VoidType()
	}
	return f.ResultType
}

// Parameter represents a function parameter.
// Example: "implicit value: Wei", "source: inout Wei"
type Parameter struct {
	Pos        Position
	EndPos     Position
	Identifier Ident
	Type       *Type
	IsImplicit bool
}

// AsVariableDeclaration views the parameter as a local variable declaration.
func (p *Parameter) AsVariableDeclaration() *VariableDeclaration {
	return &VariableDeclaration{
		Pos:        p.Pos,
		EndPos:     p.EndPos,
		Identifier: p.Identifier,
		Type:       p.Type,
	}
}
