package semantic

import (
	"flint/internal/ast"
	"flint/internal/stdlib"
)

// Context locates an expression: the type whose member is being analysed and the
// innermost lexical scope of the enclosing function.
type Context struct {
	EnclosingType string
	Scope         *SymbolTable
}

// WithType returns a copy of ctx evaluating members of another type.
func (ctx Context) WithType(name string) Context {
	ctx.EnclosingType = name
	return ctx
}

// TypeOf computes the type of e. Expressions the environment cannot type yield the
// error type rather than failing.
func (env *Environment) TypeOf(e ast.Expr, ctx Context) *ast.Type {
	switch e := e.(type) {
	case *ast.Identifier:
		return env.typeOfIdentifier(e.Name, ctx)
	case *ast.LiteralExpr:
		switch e.Kind {
		case ast.LiteralBool:
			return ast.BoolType()
		case ast.LiteralAddress:
			return ast.AddressType()
		case ast.LiteralString:
			return ast.StringType()
		}
		return ast.IntType()
	case *ast.BinaryExpr:
		return env.typeOfBinary(e, ctx)
	case *ast.UnaryExpr:
		if e.Op == ast.OpNot {
			return ast.BoolType()
		}
		return env.TypeOf(e.Operand, ctx)
	case *ast.SubscriptExpr:
		base := env.TypeOf(e.Base, ctx).Underlying()
		if base.IsIterable() {
			return base.ElementType()
		}
		return ast.ErrorType()
	case *ast.FunctionCall:
		return env.typeOfCall(e, ctx.EnclosingType, ctx)
	case *ast.ExternalCall:
		return env.TypeOf(e.Call, ctx)
	case *ast.ArrayLiteral:
		if len(e.Elements) == 0 {
			return ast.ArrayType(ast.AnyType())
		}
		return ast.ArrayType(env.TypeOf(e.Elements[0], ctx))
	case *ast.DictionaryLiteral:
		if len(e.Entries) == 0 {
			return ast.DictionaryType(ast.AnyType(), ast.AnyType())
		}
		return ast.DictionaryType(env.TypeOf(e.Entries[0].Key, ctx), env.TypeOf(e.Entries[0].Value, ctx))
	case *ast.RangeExpr:
		return ast.ArrayType(ast.IntType())
	case *ast.SelfExpr:
		return ast.UserDefinedType(ctx.EnclosingType)
	case *ast.InoutExpr:
		return ast.InoutType(env.TypeOf(e.Expr, ctx).Underlying())
	case *ast.VariableDeclaration:
		return e.Type
	}
	return ast.ErrorType()
}

func (env *Environment) typeOfIdentifier(name string, ctx Context) *ast.Type {
	if symbol := ctx.Scope.Lookup(name); symbol != nil {
		return symbol.Type
	}
	if t := env.PropertyType(ctx.EnclosingType, name); t != nil {
		return t
	}
	if _, ok := env.types[name]; ok {
		return ast.UserDefinedType(name)
	}
	return ast.ErrorType()
}

func (env *Environment) typeOfBinary(e *ast.BinaryExpr, ctx Context) *ast.Type {
	switch e.Op {
	case ast.OpDot:
		return env.typeOfDot(e, ctx)
	case ast.OpEqual, ast.OpNotEqual, ast.OpLess, ast.OpLessOrEqual, ast.OpGreater,
		ast.OpGreaterOrEqual, ast.OpAnd, ast.OpOr, ast.OpImplies:
		return ast.BoolType()
	case ast.OpAssign, ast.OpPlusAssign, ast.OpMinusAssign, ast.OpTimesAssign, ast.OpDivideAssign:
		return env.TypeOf(e.Lhs, ctx)
	}
	return env.TypeOf(e.Lhs, ctx)
}

func (env *Environment) typeOfDot(e *ast.BinaryExpr, ctx Context) *ast.Type {
	if e.IsExplicitPropertyAccess() {
		if _, ok := e.Rhs.(*ast.Identifier); ok {
			return env.TypeOf(e.Rhs, Context{EnclosingType: ctx.EnclosingType})
		}
		return env.TypeOf(e.Rhs, ctx)
	}

	receiver := env.TypeOf(e.Lhs, ctx).Underlying()
	switch rhs := e.Rhs.(type) {
	case *ast.Identifier:
		if receiver.IsIterable() {
			switch rhs.Name {
			case "size":
				return ast.IntType()
			case "keys":
				if receiver.Kind == ast.KindDictionary {
					return ast.ArrayType(receiver.Key)
				}
			}
		}
		if receiver.IsUserDefined() {
			if env.IsEnum(receiver.Name) && env.types[receiver.Name].HasCase(rhs.Name) {
				return receiver
			}
			if t := env.PropertyType(receiver.Name, rhs.Name); t != nil {
				return t
			}
		}
	case *ast.FunctionCall:
		if receiver.IsUserDefined() {
			return env.typeOfCall(rhs, receiver.Name, ctx)
		}
	}
	return ast.ErrorType()
}

func (env *Environment) typeOfCall(call *ast.FunctionCall, receiver string, ctx Context) *ast.Type {
	if builtin, ok := stdlib.LookupGlobal(call.Identifier.Name); ok {
		if builtin.ReturnType != nil {
			return builtin.ReturnType
		}
		if builtin.IsGeneric && len(call.Arguments) > 0 {
			return env.TypeOf(call.Arguments[0].Expr, ctx)
		}
		return ast.VoidType()
	}

	match := env.MatchFunctionCall(call, receiver, ctx)
	switch match.Kind {
	case MatchInitializer:
		return ast.UserDefinedType(match.Function.Owner)
	case MatchFunction:
		return match.Function.Declaration.Result()
	}
	return ast.ErrorType()
}
