package semantic

import (
	"flint/internal/ast"
)

type SymbolKind int

const (
	SymbolParameter SymbolKind = iota
	SymbolVariable
	SymbolCaller
)

// Symbol is a name visible inside a function body.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Type     *ast.Type
	Position ast.Position
}

// SymbolTable is one lexical scope of a function body; lookups fall back to the parent.
type SymbolTable struct {
	symbols map[string]*Symbol
	order   []*Symbol
	parent  *SymbolTable
}

func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{
		symbols: make(map[string]*Symbol),
		parent:  parent,
	}
}

func (st *SymbolTable) Define(name string, kind SymbolKind, typ *ast.Type, pos ast.Position) *Symbol {
	symbol := &Symbol{
		Name:     name,
		Kind:     kind,
		Type:     typ,
		Position: pos,
	}
	if _, exists := st.symbols[name]; !exists {
		st.order = append(st.order, symbol)
	}
	st.symbols[name] = symbol
	return symbol
}

// DefineParameters opens the parameters of fn in this scope.
func (st *SymbolTable) DefineParameters(fn *ast.FunctionDeclaration) {
	for _, p := range fn.Parameters {
		st.Define(p.Identifier.Name, SymbolParameter, p.Type, p.Pos)
	}
}

func (st *SymbolTable) Lookup(name string) *Symbol {
	if st == nil {
		return nil
	}
	if symbol, exists := st.symbols[name]; exists {
		return symbol
	}
	if st.parent != nil {
		return st.parent.Lookup(name)
	}
	return nil
}

func (st *SymbolTable) LookupLocal(name string) *Symbol {
	if symbol, exists := st.symbols[name]; exists {
		return symbol
	}
	return nil
}

// Symbols returns the symbols of this scope in definition order.
func (st *SymbolTable) Symbols() []*Symbol {
	return st.order
}
