package semantic

import (
	"flint/internal/ast"
)

type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchFunction
	MatchInitializer
)

// Match is the result of resolving a call to a declaration.
type Match struct {
	Kind     MatchKind
	Function *FunctionInfo
}

// MatchFunctionCall resolves call against the functions of receiver, or against the
// initialisers of the struct it names. Argument types are computed in ctx, the
// context of the caller.
func (env *Environment) MatchFunctionCall(call *ast.FunctionCall, receiver string, ctx Context) Match {
	name := call.Identifier.Name
	if info := env.types[name]; info != nil && info.Kind == TypeStruct {
		if f := env.pickOverload(info.Initializers, call, ctx); f != nil {
			return Match{Kind: MatchInitializer, Function: f}
		}
		return Match{Kind: MatchNone}
	}

	info := env.types[receiver]
	if info == nil {
		return Match{Kind: MatchNone}
	}
	if f := env.pickOverload(info.FunctionsNamed(name), call, ctx); f != nil {
		return Match{Kind: MatchFunction, Function: f}
	}
	return Match{Kind: MatchNone}
}

// pickOverload prefers a candidate whose parameter types all match; a single
// candidate of the right arity is accepted when argument types cannot be decided.
func (env *Environment) pickOverload(candidates []*FunctionInfo, call *ast.FunctionCall, ctx Context) *FunctionInfo {
	var sameArity []*FunctionInfo
	for _, f := range candidates {
		params := f.Declaration.ExplicitParameters()
		if len(params) != len(call.Arguments) {
			continue
		}
		sameArity = append(sameArity, f)

		matches := true
		for i, arg := range call.Arguments {
			if !compatible(env.TypeOf(arg.Expr, ctx), params[i].Type) {
				matches = false
				break
			}
		}
		if matches {
			return f
		}
	}
	if len(sameArity) == 1 {
		return sameArity[0]
	}
	return nil
}

func compatible(arg, param *ast.Type) bool {
	arg, param = arg.Underlying(), param.Underlying()
	if arg == nil || param == nil {
		return arg == param
	}
	if arg.Kind == ast.KindAny || arg.Kind == ast.KindError || param.Kind == ast.KindAny {
		return true
	}
	if arg.Kind != param.Kind {
		return false
	}
	switch arg.Kind {
	case ast.KindArray, ast.KindFixedArray:
		return compatible(arg.Elem, param.Elem)
	case ast.KindDictionary:
		return compatible(arg.Key, param.Key) && compatible(arg.Value, param.Value)
	}
	return arg.Equal(param)
}
