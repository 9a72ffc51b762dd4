package translator

import (
	"flint/internal/ast"
	"flint/internal/boogie"
	"flint/internal/errors"
	"flint/internal/normaliser"
	"flint/internal/semantic"
	"flint/internal/stdlib"
)

// call translates a call of a built-in, of a function of receiver or of a struct
// initialiser. instance is the struct value a member function is called on.
func (t *Translator) call(call *ast.FunctionCall, ctx Context, receiver string, instance boogie.Expr, b *block) boogie.Expr {
	if instance == nil && receiver == ctx.Type {
		if _, ok := stdlib.LookupGlobal(call.Identifier.Name); ok {
			return t.builtin(call, ctx, b)
		}
	}

	match := t.env.MatchFunctionCall(call, receiver, ctx.semantic())
	if match.Kind == semantic.MatchNone {
		panic(errors.NewTranslationError(errors.ErrorUnmatchedCall, call.Pos,
			"no function of %s matches call of %s", receiver, call.Identifier.Name))
	}
	fn := match.Function
	params := fn.Declaration.ExplicitParameters()
	if len(params) != len(fn.Declaration.Parameters) {
		panic(errors.NewTranslationError(errors.ErrorUnmatchedCall, call.Pos,
			"%s receives implicit parameters and can only be called externally", call.Identifier.Name))
	}

	var args []boogie.Expr
	if match.Kind == semantic.MatchFunction && t.env.IsStruct(fn.Owner) {
		if instance == nil {
			instance = ctx.Instance
		}
		if instance == nil {
			panic(errors.NewTranslationError(errors.ErrorUnmatchedCall, call.Pos,
				"%s is a member of %s and needs a receiver", call.Identifier.Name, fn.Owner))
		}
		args = append(args, instance)
	}
	for i, arg := range call.Arguments {
		args = append(args, t.arguments(arg.Expr, params[i].Type, ctx, b)...)
	}

	name := fn.NormalisedName()
	t.addCall(ctx.proc.proc.Name, name)

	var resultType *boogie.Type
	if match.Kind == semantic.MatchInitializer {
		resultType = boogie.IntType()
	} else if result := fn.Declaration.Result(); !result.IsBasic(ast.VoidName) {
		resultType = t.convertType(result)
	}
	if resultType == nil {
		b.pre = append(b.pre, boogie.Call(nil, name, args, ti(call.Pos)))
		return &boogie.Nop{}
	}

	v := t.fresh("v_")
	ctx.addLocal(v, v, resultType)
	b.pre = append(b.pre, boogie.Call([]string{v}, name, args, ti(call.Pos)))
	return boogie.Ident(v)
}

// arguments passes an argument together with the shadows of iterable parameters.
func (t *Translator) arguments(e ast.Expr, typ *ast.Type, ctx Context, b *block) []boogie.Expr {
	typ = typ.Underlying()
	if !typ.IsIterable() {
		return []boogie.Expr{t.expr(e, ctx, access{}, b)}
	}
	value, shadowOf := t.iterableValue(e, typ, ctx, b)
	out := []boogie.Expr{value}
	for _, s := range t.shadowsOf(typ) {
		v := shadowOf(s)
		if v == nil {
			panic(unsupported(e, "argument of type %s carries no size information", typ))
		}
		out = append(out, v)
	}
	return out
}

func boundName(e ast.Expr) string {
	id, ok := e.(*ast.Identifier)
	if !ok {
		panic(unsupported(e, "expected an identifier"))
	}
	return id.Name
}

func (t *Translator) builtin(call *ast.FunctionCall, ctx Context, b *block) boogie.Expr {
	def, _ := stdlib.LookupGlobal(call.Identifier.Name)
	if len(call.Arguments) != len(def.Parameters) {
		panic(unsupported(call, "%s expects %d arguments", def.Name, len(def.Parameters)))
	}
	arg := func(i int) ast.Expr { return call.Arguments[i].Expr }

	switch def.Name {
	case "assert":
		condition := t.expr(arg(0), ctx, access{}, b)
		b.pre = append(b.pre, boogie.Assert(condition, ti(call.Pos)))
		return &boogie.Nop{}

	case "fatalError":
		b.pre = append(b.pre, boogie.Assume(boogie.Bool(false), ti(call.Pos)))
		return &boogie.Nop{}

	case "send":
		return t.send(call, ctx, b)

	case "prev":
		return boogie.Old(t.expr(arg(0), ctx, access{}, b))

	case "returning":
		inner := ctx.bind(boundName(arg(0)), boogie.Ident(ctx.proc.returnName))
		return t.expr(arg(1), inner, access{}, b)

	case "STATE":
		state := boundName(arg(0))
		index := t.env.Type(ctx.Type).StateIndex(state)
		if index < 0 {
			panic(unsupported(call, "%s has no type state %s", ctx.Type, state))
		}
		return boogie.Equals(boogie.Ident(normaliser.StateVariableName(ctx.Type)), boogie.Int(int64(index)))

	case "arrayContains", "dictContains":
		i := t.fresh("i_")
		index := boogie.Ident(i)
		prefix := func(int) string { return "" }
		if def.Name == "dictContains" {
			prefix = keysPrefix(0)
		}
		elements := t.expr(arg(0), ctx, access{prefix: prefix}, b)
		size := t.expr(arg(0), ctx, access{prefix: sizePrefix(0)}, b)
		value := t.expr(arg(1), ctx, access{}, b)
		return boogie.Quantify(boogie.Exists, []*boogie.Parameter{{Name: i, Type: boogie.IntType()}},
			boogie.And(
				boogie.Equals(boogie.Read(elements, index), value),
				boogie.And(boogie.GreaterOrEqual(index, boogie.Int(0)), boogie.GreaterThan(size, index))))

	case "arrayEach":
		i := t.fresh("i_")
		index := boogie.Ident(i)
		elements := t.expr(arg(1), ctx, access{}, b)
		size := t.expr(arg(1), ctx, access{prefix: sizePrefix(0)}, b)
		inner := ctx.bind(boundName(arg(0)), boogie.Read(elements, index))
		property := t.expr(arg(2), inner, access{}, b)
		return boogie.Quantify(boogie.Forall, []*boogie.Parameter{{Name: i, Type: boogie.IntType()}},
			boogie.Implies(
				boogie.And(boogie.GreaterOrEqual(index, boogie.Int(0)), boogie.GreaterThan(size, index)),
				property))

	case "forall", "exists":
		name := boundName(arg(0))
		variable := t.fresh(name + "_")
		inner := ctx.bind(name, boogie.Ident(variable))
		property := t.expr(arg(2), inner, access{}, b)
		quantifier := boogie.Forall
		if def.Name == "exists" {
			quantifier = boogie.Exists
		}
		return boogie.Quantify(quantifier, []*boogie.Parameter{{Name: variable, Type: t.boundType(arg(1))}}, property)
	}
	panic(unsupported(call, "built-in %s cannot be translated", def.Name))
}

// send transfers Wei out of the contract. The recipient may re-enter, so the
// invariants must hold before the transfer and the contract state is unknown after it.
func (t *Translator) send(call *ast.FunctionCall, ctx Context, b *block) boogie.Expr {
	address := t.expr(call.Arguments[0].Expr, ctx, access{}, b)
	wei := t.expr(call.Arguments[1].Expr, ctx, access{}, b)

	b.pre = append(b.pre, t.assertInvariants(ctx, call.Pos)...)
	b.pre = append(b.pre, boogie.Call(nil, SendProcedure, []boogie.Expr{address, wei}, ti(call.Pos)))
	b.pre = append(b.pre, t.havocGlobals(ctx)...)
	b.pre = append(b.pre, t.assumeInvariants(ctx)...)
	t.addCall(ctx.proc.proc.Name, SendProcedure)
	return &boogie.Nop{}
}

// externalBranch is the control flow following an external call: the success
// branch runs the remaining statements of the enclosing do block, the failure
// branch its catch block.
type externalBranch struct {
	mode    ast.ExternalCallMode
	success string
	then    []boogie.Statement
	do      *doBlock
	ti      *boogie.TranslationInformation
}

// externalCall models a call into an untrusted contract. Its result and success
// are unknown, and on success every property of the caller may have changed.
func (t *Translator) externalCall(e *ast.ExternalCall, ctx Context, b *block) boogie.Expr {
	if call, ok := e.Call.Rhs.(*ast.FunctionCall); ok {
		for _, arg := range call.Arguments {
			t.expr(arg.Expr, ctx, access{}, b)
		}
	}
	b.pre = append(b.pre, t.assertInvariants(ctx, e.Pos)...)

	resultType := boogie.IntType()
	if result := t.env.TypeOf(e, ctx.semantic()); result.Kind != ast.KindError && !result.IsBasic(ast.VoidName) {
		resultType = t.convertType(result)
	}
	value := t.fresh("extern_value_")
	success := t.fresh("extern_success_")
	ctx.addLocal(value, value, resultType)
	ctx.addLocal(success, success, boogie.BoolType())
	b.pre = append(b.pre, boogie.Havoc(value, nil), boogie.Havoc(success, nil))

	then := append(t.havocGlobals(ctx), t.assumeInvariants(ctx)...)
	ctx.proc.external = append(ctx.proc.external, &externalBranch{
		mode:    e.Mode,
		success: success,
		then:    then,
		do:      ctx.do,
		ti:      ti(e.Pos),
	})
	return boogie.Ident(value)
}

func (t *Translator) assertInvariants(ctx Context, pos ast.Position) []boogie.Statement {
	var out []boogie.Statement
	for _, inv := range t.typeInvariants(ctx.Type) {
		if inv.TwoState {
			continue
		}
		out = append(out, boogie.Assert(inv.Expr, &boogie.TranslationInformation{
			Location:          pos,
			IsExternalCall:    true,
			IsUserDirectCause: true,
			Related:           inv.TI,
		}))
	}
	return out
}

func (t *Translator) assumeInvariants(ctx Context) []boogie.Statement {
	var out []boogie.Statement
	for _, inv := range t.typeInvariants(ctx.Type) {
		if !inv.TwoState {
			out = append(out, boogie.Assume(inv.Expr, nil))
		}
	}
	return out
}

func (t *Translator) havocGlobals(ctx Context) []boogie.Statement {
	var out []boogie.Statement
	for _, g := range t.globals[ctx.Type] {
		out = append(out, boogie.Havoc(g, nil))
		ctx.modifies(g, false)
	}
	return out
}
