package semantic

import (
	"sort"

	"flint/internal/ast"
	"flint/internal/stdlib"
)

// callWalker records, for one function, the functions it calls and the structs it
// constructs.
type callWalker struct {
	env     *Environment
	owner   string
	scope   *SymbolTable
	callees map[string]bool
	structs map[string]bool
}

func (env *Environment) buildCallGraph() {
	for _, name := range env.order {
		info := env.types[name]
		if info.Kind == TypeTrait {
			continue
		}
		for _, f := range append(append([]*FunctionInfo{}, info.Initializers...), info.Functions...) {
			w := &callWalker{
				env:     env,
				owner:   f.Owner,
				scope:   NewSymbolTable(nil),
				callees: make(map[string]bool),
				structs: make(map[string]bool),
			}
			w.scope.DefineParameters(f.Declaration)
			if binding := f.CallerBinding(); binding != nil {
				w.scope.Define(binding.Name, SymbolCaller, ast.AddressType(), binding.Pos)
			}
			w.statements(f.Declaration.Body)

			fn := f.NormalisedName()
			env.callGraph[fn] = sortedKeys(w.callees)
			env.calledConstructors[fn] = sortedKeys(w.structs)
		}
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (w *callWalker) ctx() Context {
	return Context{EnclosingType: w.owner, Scope: w.scope}
}

func (w *callWalker) statements(stmts []ast.Statement) {
	for _, s := range stmts {
		w.statement(s)
	}
}

func (w *callWalker) nested(stmts []ast.Statement) {
	outer := w.scope
	w.scope = NewSymbolTable(outer)
	w.statements(stmts)
	w.scope = outer
}

func (w *callWalker) statement(s ast.Statement) {
	switch s := s.(type) {
	case *ast.ExprStmt:
		w.expr(s.Expr)
	case *ast.ReturnStmt:
		if s.Value != nil {
			w.expr(s.Value)
		}
	case *ast.EmitStmt:
		for _, a := range s.Call.Arguments {
			w.expr(a.Expr)
		}
	case *ast.IfStmt:
		w.expr(s.Condition)
		w.nested(s.Body)
		w.nested(s.Else)
	case *ast.ForStmt:
		w.expr(s.Iterable)
		outer := w.scope
		w.scope = NewSymbolTable(outer)
		w.scope.Define(s.Variable.Identifier.Name, SymbolVariable, s.Variable.Type, s.Variable.Pos)
		w.statements(s.Body)
		w.scope = outer
	case *ast.DoCatchStmt:
		w.nested(s.Do)
		w.nested(s.Catch)
	}
}

func (w *callWalker) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.BinaryExpr:
		if e.Op == ast.OpDot {
			w.expr(e.Lhs)
			if call, ok := e.Rhs.(*ast.FunctionCall); ok {
				receiver := w.owner
				if _, self := e.Lhs.(*ast.SelfExpr); !self {
					receiver = w.env.TypeOf(e.Lhs, w.ctx()).Underlying().Name
				}
				w.call(call, receiver)
			}
			return
		}
		w.expr(e.Lhs)
		w.expr(e.Rhs)
	case *ast.UnaryExpr:
		w.expr(e.Operand)
	case *ast.FunctionCall:
		w.call(e, w.owner)
	case *ast.ExternalCall:
		if call, ok := e.Call.Rhs.(*ast.FunctionCall); ok {
			for _, a := range call.Arguments {
				w.expr(a.Expr)
			}
		}
	case *ast.SubscriptExpr:
		w.expr(e.Base)
		w.expr(e.Index)
	case *ast.ArrayLiteral:
		for _, el := range e.Elements {
			w.expr(el)
		}
	case *ast.DictionaryLiteral:
		for _, entry := range e.Entries {
			w.expr(entry.Key)
			w.expr(entry.Value)
		}
	case *ast.RangeExpr:
		w.expr(e.Start)
		w.expr(e.End)
	case *ast.InoutExpr:
		w.expr(e.Expr)
	case *ast.VariableDeclaration:
		if e.Assigned != nil {
			w.expr(e.Assigned)
		}
		w.scope.Define(e.Identifier.Name, SymbolVariable, e.Type, e.Pos)
	}
}

func (w *callWalker) call(call *ast.FunctionCall, receiver string) {
	for _, a := range call.Arguments {
		w.expr(a.Expr)
	}
	if _, builtin := stdlib.LookupGlobal(call.Identifier.Name); builtin {
		return
	}

	match := w.env.MatchFunctionCall(call, receiver, w.ctx())
	switch match.Kind {
	case MatchFunction:
		w.callees[match.Function.NormalisedName()] = true
	case MatchInitializer:
		w.callees[match.Function.NormalisedName()] = true
		w.structs[match.Function.Owner] = true
	}
}

// allConstructors follows the call graph to every struct fn constructs, directly or
// through its callees.
func (env *Environment) allConstructors(fn string, visited map[string]bool) []string {
	if visited[fn] {
		return nil
	}
	visited[fn] = true

	structs := append([]string{}, env.calledConstructors[fn]...)
	for _, callee := range env.callGraph[fn] {
		structs = append(structs, env.allConstructors(callee, visited)...)
	}
	return structs
}

func (env *Environment) expandMutates() {
	for _, name := range env.order {
		info := env.types[name]
		if info.Kind == TypeTrait {
			continue
		}
		for _, f := range append(append([]*FunctionInfo{}, info.Initializers...), info.Functions...) {
			var mutates []MutatedProperty
			for _, id := range append(append([]ast.Ident{}, f.Declaration.Mutates...), f.TraitMutates...) {
				mutates = append(mutates, MutatedProperty{
					Name:     id.Name,
					Owner:    f.Owner,
					Type:     env.PropertyType(f.Owner, id.Name),
					Position: id.Pos,
				})
			}
			for _, structName := range env.allConstructors(f.NormalisedName(), make(map[string]bool)) {
				for _, p := range env.types[structName].Properties {
					mutates = append(mutates, MutatedProperty{Name: p.Name(), Owner: structName, Type: p.Type(), Position: p.Declaration.Pos})
				}
			}

			var expanded []MutatedProperty
			for _, m := range mutates {
				expanded = append(expanded, m)
				expanded = append(expanded, env.nestedProperties(m.Type, make(map[string]bool))...)
			}
			f.Mutates = dedupe(expanded)
		}
	}
}

// nestedProperties lists every property reachable through struct typed fields of t.
func (env *Environment) nestedProperties(t *ast.Type, visited map[string]bool) []MutatedProperty {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case ast.KindUserDefined:
		info := env.types[t.Name]
		if info == nil || info.Kind != TypeStruct || visited[t.Name] {
			return nil
		}
		visited[t.Name] = true
		var out []MutatedProperty
		for _, p := range info.Properties {
			out = append(out, MutatedProperty{Name: p.Name(), Owner: info.Name, Type: p.Type(), Position: p.Declaration.Pos})
			out = append(out, env.nestedProperties(p.Type(), visited)...)
		}
		return out
	case ast.KindDictionary:
		return append(env.nestedProperties(t.Key, visited), env.nestedProperties(t.Value, visited)...)
	case ast.KindArray, ast.KindFixedArray, ast.KindInout:
		return env.nestedProperties(t.Elem, visited)
	}
	return nil
}

func dedupe(mutates []MutatedProperty) []MutatedProperty {
	seen := make(map[string]bool)
	var out []MutatedProperty
	for _, m := range mutates {
		key := m.Name + "_" + m.Owner
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}
