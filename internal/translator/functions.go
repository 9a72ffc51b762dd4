package translator

import (
	"flint/internal/ast"
	"flint/internal/boogie"
	"flint/internal/errors"
	"flint/internal/normaliser"
	"flint/internal/semantic"
)

// structReceiver is the parameter carrying the instance a struct method runs on.
const structReceiver = "instance"

// function assembles the procedure of a function or initialiser.
func (t *Translator) function(f *semantic.FunctionInfo) *boogie.Procedure {
	decl := f.Declaration
	isStruct := t.env.IsStruct(f.Owner)
	log.Debugf("translating %s", f.NormalisedName())
	if f.Trait != "" {
		log.Debugf("%s conforms to trait %s", f.NormalisedName(), f.Trait)
	}

	proc := &boogie.Procedure{
		Name:             f.NormalisedName(),
		TI:               ti(decl.Pos),
		StructInvariants: t.structInvariants,
		GlobalInvariants: t.globalInvariants,
		IsStructInit:     isStruct && f.IsInit(),
		IsContractInit:   !isStruct && f.IsInit(),
	}
	if !isStruct {
		proc.ContractInvariants = t.invariantsOf(f.Owner)
	}
	t.procedures[proc.Name] = proc
	if _, ok := t.callGraph[proc.Name]; !ok {
		t.callGraph[proc.Name] = nil
	}

	scope := semantic.NewSymbolTable(nil)
	scope.DefineParameters(decl)
	if binding := f.CallerBinding(); binding != nil {
		scope.Define(binding.Name, semantic.SymbolCaller, ast.AddressType(), binding.Pos)
	}
	ctx := Context{Type: f.Owner, Function: f, Scope: scope, proc: newProcedureState(proc)}

	var entry []boogie.Statement
	entry = append(entry, t.sizeAssumptions...)

	// receiver and result
	switch {
	case proc.IsStructInit:
		result := t.fresh("new_instance_")
		next := boogie.Ident(normaliser.StructInstanceVariableName(f.Owner))
		proc.ReturnNames = []string{result}
		proc.ReturnTypes = []*boogie.Type{boogie.IntType()}
		proc.Post = append(proc.Post, &boogie.ProofObligation{
			Expr: boogie.Equals(next, boogie.Add(boogie.Old(next), boogie.Int(1))),
			TI:   synthesised(decl.Pos, ""),
		})
		entry = append(entry,
			boogie.Assign(boogie.Ident(result), next, nil),
			boogie.Assign(next, boogie.Add(next, boogie.Int(1)), nil))
		ctx.Instance = boogie.Ident(result)
		ctx.proc.returnName = result

	case isStruct:
		proc.Parameters = append(proc.Parameters, &boogie.Parameter{Name: structReceiver, RawName: "self", Type: boogie.IntType()})
		ctx.Instance = boogie.Ident(structReceiver)
		proc.Pre = append(proc.Pre, &boogie.ProofObligation{
			Expr: t.rangeProperty(ctx.Instance, ast.UserDefinedType(f.Owner), nil),
			TI:   synthesised(decl.Pos, ""),
		})
	}
	if result := decl.Result(); !proc.IsStructInit && !result.IsBasic(ast.VoidName) {
		name := t.fresh("result_")
		proc.ReturnNames = []string{name}
		proc.ReturnTypes = []*boogie.Type{t.convertType(result)}
		ctx.proc.returnName = name
	}

	for _, p := range decl.Parameters {
		name := ctx.localName(p.Identifier.Name)
		proc.Parameters = append(proc.Parameters, t.parameters(name, p.Identifier.Name, p.Type)...)
		entry = append(entry, t.sizeAssumptionsFor(name, p.Type, false)...)

		value := boogie.Ident(name)
		pre, statements := t.parameterEntry(p, value, ctx)
		entry = append(entry, statements...)
		for _, e := range pre {
			proc.Pre = append(proc.Pre, &boogie.ProofObligation{Expr: e, TI: synthesised(p.Pos, "")})
		}
		if p.IsImplicit {
			continue
		}
		property := t.rangeProperty(value, p.Type, func(prefix string) boogie.Expr { return boogie.Ident(prefix + name) })
		if property != nil {
			proc.Pre = append(proc.Pre, &boogie.ProofObligation{Expr: property, TI: synthesised(p.Pos, "")})
		}
	}

	entry = append(entry, t.functionEntry(ctx)...)
	entry = append(entry, t.callerProtections(f, ctx)...)
	if pre := t.typeStates(f); pre != nil {
		proc.Pre = append(proc.Pre, pre)
	}

	for _, e := range decl.Pre {
		var b block
		proc.Pre = append(proc.Pre, &boogie.ProofObligation{Expr: t.expr(e, ctx, access{}, &b), TI: ti(e.NodePos())})
	}
	for _, e := range decl.Post {
		var b block
		proc.Post = append(proc.Post, &boogie.ProofObligation{Expr: t.expr(e, ctx, access{}, &b), TI: ti(e.NodePos())})
	}

	if f.IsInit() {
		entry = append(entry, t.propertyDefaults(f, ctx)...)
		for _, g := range t.globals[f.Owner] {
			proc.AddModifies(g, true)
		}
		if isStruct {
			proc.AddModifies(normaliser.StructInstanceVariableName(f.Owner), true)
		}
	}
	for _, m := range f.Mutates {
		name := normaliser.GlobalName(m.Name, m.Owner)
		proc.AddModifies(name, true)
		for _, s := range t.shadowsOf(m.Type) {
			proc.AddModifies(s.name(name), true)
		}
	}

	body := t.statements(decl.Body, ctx.withScope())
	proc.Statements = append(entry, body...)
	return proc
}

// propertyDefaults assigns the declared initial values of the properties of the
// type an initialiser constructs.
func (t *Translator) propertyDefaults(f *semantic.FunctionInfo, ctx Context) []boogie.Statement {
	var b block
	for _, p := range t.env.Type(f.Owner).Properties {
		v := p.Declaration
		if v.Assigned == nil {
			continue
		}
		lhs := &ast.BinaryExpr{
			Pos:    v.Pos,
			EndPos: v.EndPos,
			Op:     ast.OpDot,
			Lhs:    &ast.SelfExpr{Pos: v.Pos, EndPos: v.Pos},
			Rhs:    &ast.Identifier{Pos: v.Identifier.Pos, EndPos: v.Identifier.EndPos, Name: v.Identifier.Name},
		}
		t.assign(&ast.BinaryExpr{Pos: v.Pos, EndPos: v.EndPos, Op: ast.OpAssign, Lhs: lhs, Rhs: v.Assigned}, ctx, &b)
	}
	return b.statements()
}

// callerProtections restricts the callers of a contract function. Address
// properties and address collections become a precondition; predicate functions
// are called on entry and an unauthorised caller reverts.
func (t *Translator) callerProtections(f *semantic.FunctionInfo, ctx Context) []boogie.Statement {
	protections := f.CallerProtections()
	if len(protections) == 0 {
		return nil
	}
	for _, p := range protections {
		if p.IsAny() {
			return nil
		}
	}

	caller := boogie.Ident(normaliser.CallerVariableName(f.Owner))
	var checks []boogie.Expr
	var calls []boogie.Statement
	for _, p := range protections {
		typ := t.env.CallerCapabilityType(p.Name, f.Owner)
		if typ == nil {
			panic(errors.NewTranslationError(errors.ErrorUnsupportedCallerProtection, p.Pos,
				"caller protection %s names no property or function of %s", p.Name, f.Owner))
		}
		property := normaliser.GlobalName(p.Name, f.Owner)

		switch typ = typ.Underlying(); {
		case typ.IsBasic(ast.AddressName):
			checks = append(checks, boogie.Equals(caller, boogie.Ident(property)))

		case typ.IsArrayLike() && typ.Elem.Underlying().IsBasic(ast.AddressName):
			j := t.fresh("j_")
			index := boogie.Ident(j)
			size := boogie.Ident(normaliser.ShadowSizePrefix(0) + property)
			checks = append(checks, boogie.Quantify(boogie.Exists, []*boogie.Parameter{{Name: j, Type: boogie.IntType()}},
				boogie.And(
					boogie.And(boogie.GreaterOrEqual(index, boogie.Int(0)), boogie.LessThan(index, size)),
					boogie.Equals(boogie.Read(boogie.Ident(property), index), caller))))

		case typ.Kind == ast.KindFunction && typ.Result.IsBasic(ast.BoolName):
			predicate := t.env.Type(f.Owner).FunctionsNamed(p.Name)[0]
			var args []boogie.Expr
			if len(typ.Params) == 1 {
				args = append(args, caller)
			}
			result := t.fresh("caller_check_")
			ctx.addLocal(result, result, boogie.BoolType())
			calls = append(calls, boogie.Call([]string{result}, predicate.NormalisedName(), args, synthesised(p.Pos, "")))
			t.addCall(ctx.proc.proc.Name, predicate.NormalisedName())
			checks = append(checks, boogie.Ident(result))

		default:
			panic(errors.NewTranslationError(errors.ErrorUnsupportedCallerProtection, p.Pos,
				"caller protection %s of type %s cannot be checked", p.Name, typ))
		}
	}

	allowed := boogie.Disjunction(checks)
	if len(calls) == 0 {
		ctx.proc.proc.Pre = append(ctx.proc.proc.Pre, &boogie.ProofObligation{Expr: allowed, TI: synthesised(protections[0].Pos, "")})
		return nil
	}
	return append(calls, &boogie.IfStatement{
		Condition: boogie.Not(allowed),
		Then:      []boogie.Statement{boogie.Assume(boogie.Bool(false), nil)},
		TI:        synthesised(protections[0].Pos, ""),
	})
}

// typeStates requires the contract to be in one of the states a behaviour is
// restricted to.
func (t *Translator) typeStates(f *semantic.FunctionInfo) *boogie.ProofObligation {
	states := f.TypeStates()
	if len(states) == 0 {
		return nil
	}
	info := t.env.Type(f.Owner)
	state := boogie.Ident(normaliser.StateVariableName(f.Owner))
	var allowed []boogie.Expr
	for _, s := range states {
		if s.IsAny() {
			return nil
		}
		index := info.StateIndex(s.Name)
		if index < 0 {
			panic(errors.NewTranslationError(errors.ErrorUnsupportedExpression, s.Pos, "%s has no type state %s", f.Owner, s.Name))
		}
		allowed = append(allowed, boogie.Equals(state, boogie.Int(int64(index))))
	}
	return &boogie.ProofObligation{Expr: boogie.Disjunction(allowed), TI: synthesised(states[0].Pos, "")}
}
