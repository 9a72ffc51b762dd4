package translator

import (
	"fmt"

	"flint/internal/ast"
	"flint/internal/boogie"
	"flint/internal/normaliser"
	"flint/internal/semantic"
)

// structInstance is the variable quantifying over the allocated instances of a struct.
const structInstance = "i"

// structVariables declares the allocation counter of a struct and, for every field,
// a map from instance to value.
func (t *Translator) structVariables(s *semantic.TypeInfo) []boogie.Declaration {
	next := normaliser.StructInstanceVariableName(s.Name)
	decls := []boogie.Declaration{&boogie.VariableDeclaration{Name: next, RawName: next, Type: boogie.IntType()}}
	for _, p := range s.Properties {
		name := normaliser.GlobalName(p.Name(), s.Name)
		for _, v := range t.variableDeclarations(name, p.Name(), p.Type(), boogie.IntType()) {
			decls = append(decls, v)
			t.globals[s.Name] = append(t.globals[s.Name], v.Name)
		}
		t.sizeAssumptions = append(t.sizeAssumptions, t.sizeAssumptionsFor(name, p.Type(), true)...)
	}
	return decls
}

func (t *Translator) contractVariables(c *semantic.TypeInfo) []boogie.Declaration {
	caller := normaliser.CallerVariableName(c.Name)
	decls := []boogie.Declaration{&boogie.VariableDeclaration{Name: caller, RawName: "caller", Type: boogie.UserDefinedType(AddressTypeName)}}
	for _, p := range c.Properties {
		name := normaliser.GlobalName(p.Name(), c.Name)
		for _, v := range t.variableDeclarations(name, p.Name(), p.Type()) {
			decls = append(decls, v)
			t.globals[c.Name] = append(t.globals[c.Name], v.Name)
		}
		t.sizeAssumptions = append(t.sizeAssumptions, t.sizeAssumptionsFor(name, p.Type(), false)...)
	}

	state := normaliser.StateVariableName(c.Name)
	t.globals[c.Name] = append(t.globals[c.Name], state)
	return append(decls, &boogie.VariableDeclaration{Name: state, RawName: state, Type: boogie.IntType()})
}

// enumDeclarations encodes an enum as an integer alias with one distinct constant
// per case.
func (t *Translator) enumDeclarations(e *semantic.TypeInfo) []boogie.Declaration {
	decls := []boogie.Declaration{&boogie.TypeDeclaration{Name: e.Name, Alias: boogie.IntType()}}
	for _, c := range e.Cases {
		decls = append(decls, &boogie.ConstDeclaration{
			Name:    normaliser.GlobalName(c, e.Name),
			RawName: c,
			Type:    boogie.UserDefinedType(e.Name),
			Unique:  true,
		})
	}
	return decls
}

// sizeAssumptionsFor states that every size of an iterable variable is
// non-negative, and fixed for fixed size arrays.
func (t *Translator) sizeAssumptionsFor(name string, typ *ast.Type, perInstance bool) []boogie.Statement {
	var out []boogie.Statement
	var bound []*boogie.Parameter
	if perInstance {
		bound = append(bound, &boogie.Parameter{Name: structInstance, Type: boogie.IntType()})
	}

	cur := typ.Underlying()
	for depth := 0; cur.IsIterable(); depth++ {
		var size boogie.Expr = boogie.Ident(normaliser.ShadowSizePrefix(depth) + name)
		for _, b := range bound {
			size = boogie.Read(size, boogie.Ident(b.Name))
		}
		fact := boogie.GreaterOrEqual(size, boogie.Int(0))
		if cur.Kind == ast.KindFixedArray {
			fact = boogie.Equals(size, boogie.Int(int64(cur.Size)))
		}
		if len(bound) > 0 {
			fact = boogie.Quantify(boogie.Forall, append([]*boogie.Parameter{}, bound...), fact)
		}
		out = append(out, boogie.Assume(fact, nil))

		key := boogie.IntType()
		if cur.Kind == ast.KindDictionary {
			key = t.convertType(cur.Key)
		}
		bound = append(bound, &boogie.Parameter{Name: fmt.Sprintf("k%d", depth), Type: key})
		cur = cur.ElementType().Underlying()
	}
	return out
}

// rangeProperty constrains a struct value, or the struct elements of a collection,
// to allocated instances. It returns nil for types holding no struct values.
// shadowOf resolves a shadow of value given its prefix.
func (t *Translator) rangeProperty(value boogie.Expr, typ *ast.Type, shadowOf func(prefix string) boogie.Expr) boogie.Expr {
	typ = typ.Underlying()
	switch {
	case typ.IsUserDefined():
		if !t.env.IsStruct(typ.Name) {
			return nil
		}
		return boogie.And(
			boogie.GreaterOrEqual(value, boogie.Int(0)),
			boogie.LessThan(value, boogie.Ident(normaliser.StructInstanceVariableName(typ.Name))))
	case typ.IsIterable():
		elem := typ.ElementType().Underlying()
		if !elem.IsUserDefined() || !t.env.IsStruct(elem.Name) {
			return nil
		}
		j := boogie.Ident("j")
		inBounds := boogie.And(
			boogie.GreaterOrEqual(j, boogie.Int(0)),
			boogie.LessThan(j, shadowOf(normaliser.ShadowSizePrefix(0))))
		element := boogie.Read(value, j)
		if typ.Kind == ast.KindDictionary {
			element = boogie.Read(value, boogie.Read(shadowOf(normaliser.ShadowKeysPrefix(0)), j))
		}
		return boogie.Quantify(boogie.Forall, []*boogie.Parameter{{Name: "j", Type: boogie.IntType()}},
			boogie.Implies(inBounds, t.rangeProperty(element, elem, nil)))
	}
	return nil
}

// structInvariantObligations quantifies the invariants of a struct over its
// allocated instances.
func (t *Translator) structInvariantObligations(s *semantic.TypeInfo) []*boogie.ProofObligation {
	next := boogie.Ident(normaliser.StructInstanceVariableName(s.Name))
	i := boogie.Ident(structInstance)
	allocated := boogie.And(boogie.LessThan(i, next), boogie.GreaterOrEqual(i, boogie.Int(0)))
	forEach := func(e boogie.Expr) boogie.Expr {
		return boogie.Quantify(boogie.Forall, []*boogie.Parameter{{Name: structInstance, Type: boogie.IntType()}},
			boogie.Implies(allocated, e))
	}

	ctx := Context{Type: s.Name, Instance: i, proc: scratchState()}
	var out []*boogie.ProofObligation
	for _, inv := range s.Invariants {
		var b block
		e := t.expr(inv, ctx, access{}, &b)
		out = append(out, &boogie.ProofObligation{Expr: forEach(e), TI: ti(inv.NodePos()), TwoState: boogie.UsesOld(e)})
	}

	pos := s.Declaration.NodePos()
	out = append(out, &boogie.ProofObligation{
		Expr: boogie.GreaterOrEqual(next, boogie.Int(0)),
		TI:   synthesised(pos, ""),
	})
	for _, p := range s.Properties {
		name := normaliser.GlobalName(p.Name(), s.Name)
		property := t.rangeProperty(boogie.Read(boogie.Ident(name), i), p.Type(), func(prefix string) boogie.Expr {
			return boogie.Read(boogie.Ident(prefix+name), i)
		})
		if property != nil {
			out = append(out, &boogie.ProofObligation{Expr: forEach(property), TI: synthesised(p.Declaration.Pos, "")})
		}
	}
	return out
}

func (t *Translator) contractInvariantObligations(c *semantic.TypeInfo) []*boogie.ProofObligation {
	ctx := Context{Type: c.Name, proc: scratchState()}
	var out []*boogie.ProofObligation
	for _, inv := range c.Invariants {
		var b block
		e := t.expr(inv, ctx, access{}, &b)
		out = append(out, &boogie.ProofObligation{Expr: e, TI: ti(inv.NodePos()), TwoState: boogie.UsesOld(e)})
	}
	for _, p := range c.Properties {
		name := normaliser.GlobalName(p.Name(), c.Name)
		property := t.rangeProperty(boogie.Ident(name), p.Type(), func(prefix string) boogie.Expr {
			return boogie.Ident(prefix + name)
		})
		if property != nil {
			out = append(out, &boogie.ProofObligation{Expr: property, TI: synthesised(p.Declaration.Pos, "")})
		}
	}
	return out
}

// invariantsOf returns the contract invariants that apply while executing members
// of typeName.
func (t *Translator) invariantsOf(typeName string) []*boogie.ProofObligation {
	return t.contractInvariants[typeName]
}

// typeInvariants lists every invariant assumed to hold whenever control enters or
// leaves members of typeName.
func (t *Translator) typeInvariants(typeName string) []*boogie.ProofObligation {
	var out []*boogie.ProofObligation
	out = append(out, t.invariantsOf(typeName)...)
	out = append(out, t.globalInvariants...)
	return append(out, t.structInvariants...)
}
