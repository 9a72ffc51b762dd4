package translator

import (
	"sort"

	"flint/internal/ast"
	"flint/internal/boogie"
	"flint/internal/errors"
	"flint/internal/normaliser"
)

// AddressTypeName is the verification alias of Flint addresses.
const AddressTypeName = "Address"

// convertType encodes a Flint type. Structs, contracts and enums are represented by
// integers: struct values index the per-field maps of their type.
func (t *Translator) convertType(typ *ast.Type) *boogie.Type {
	switch typ.Kind {
	case ast.KindBasic:
		switch typ.Name {
		case ast.AddressName:
			return boogie.UserDefinedType(AddressTypeName)
		case ast.IntName:
			return boogie.IntType()
		case ast.BoolName:
			return boogie.BoolType()
		}
	case ast.KindUserDefined:
		return boogie.IntType()
	case ast.KindArray, ast.KindFixedArray:
		return boogie.MapType(boogie.IntType(), t.convertType(typ.Elem))
	case ast.KindDictionary:
		return boogie.MapType(t.convertType(typ.Key), t.convertType(typ.Value))
	case ast.KindInout:
		return t.convertType(typ.Elem)
	}
	panic(errors.NewTranslationError(errors.ErrorUnsupportedType, typ.Pos,
		"type %s has no verification encoding", typ))
}

// shadow is a size or keys companion of an iterable variable. Layer k of a nested
// iterable is indexed by the keys of its k enclosing layers.
type shadow struct {
	depth int
	keys  bool
	typ   *boogie.Type
}

func (s shadow) name(variable string) string {
	if s.keys {
		return normaliser.ShadowKeysPrefix(s.depth) + variable
	}
	return normaliser.ShadowSizePrefix(s.depth) + variable
}

// prefix resolves the companion through an expression of the variable.
func (s shadow) prefix() func(int) string {
	if s.keys {
		return keysPrefix(s.depth)
	}
	return sizePrefix(s.depth)
}

func (t *Translator) shadowsOf(typ *ast.Type) []shadow {
	var out []shadow
	var outer []*boogie.Type
	cur := typ.Underlying()
	for depth := 0; cur.IsIterable(); depth++ {
		out = append(out, shadow{depth: depth, typ: wrapMaps(outer, boogie.IntType())})
		key := boogie.IntType()
		if cur.Kind == ast.KindDictionary {
			key = t.convertType(cur.Key)
			out = append(out, shadow{depth: depth, keys: true, typ: wrapMaps(outer, boogie.MapType(boogie.IntType(), key))})
		}
		outer = append(outer, key)
		cur = cur.ElementType().Underlying()
	}
	return out
}

func wrapMaps(keys []*boogie.Type, value *boogie.Type) *boogie.Type {
	for i := len(keys) - 1; i >= 0; i-- {
		value = boogie.MapType(keys[i], value)
	}
	return value
}

// variableDeclarations declares a variable and its shadows, shadows first. outer
// wraps every type, as the instance index does for struct fields.
func (t *Translator) variableDeclarations(name, raw string, typ *ast.Type, outer ...*boogie.Type) []*boogie.VariableDeclaration {
	var out []*boogie.VariableDeclaration
	for _, s := range t.shadowsOf(typ) {
		out = append(out, &boogie.VariableDeclaration{Name: s.name(name), RawName: raw, Type: wrapMaps(outer, s.typ)})
	}
	return append(out, &boogie.VariableDeclaration{Name: name, RawName: raw, Type: wrapMaps(outer, t.convertType(typ))})
}

func (t *Translator) parameters(name, raw string, typ *ast.Type) []*boogie.Parameter {
	var out []*boogie.Parameter
	for _, v := range t.variableDeclarations(name, raw, typ) {
		out = append(out, &boogie.Parameter{Name: v.Name, RawName: v.RawName, Type: v.Type})
	}
	// the value itself comes first, then its shadows
	return append(out[len(out)-1:], out[:len(out)-1]...)
}

func (t *Translator) defaultValue(typ *boogie.Type) boogie.Expr {
	switch typ.Kind {
	case boogie.KindBool:
		return boogie.Bool(false)
	case boogie.KindReal:
		return &boogie.RealLiteral{}
	case boogie.KindMap:
		return t.emptyMap(typ)
	}
	return boogie.Int(0)
}

func emptyMapName(typ *boogie.Type) string {
	return "Map_" + typ.NameSafe() + ".Empty"
}

// emptyMap returns the constant map whose every entry is the default value.
func (t *Translator) emptyMap(typ *boogie.Type) boogie.Expr {
	name := emptyMapName(typ)
	if _, ok := t.emptyMaps[name]; !ok {
		t.emptyMaps[name] = typ
		t.defaultValue(typ.Value)
	}
	return boogie.Apply(name)
}

func (t *Translator) emptyMapDeclarations() []boogie.Declaration {
	names := make([]string, 0, len(t.emptyMaps))
	for name := range t.emptyMaps {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []boogie.Declaration
	for _, name := range names {
		typ := t.emptyMaps[name]
		out = append(out, &boogie.FunctionDeclaration{Name: name, ReturnName: "result", ReturnType: typ})
		i := &boogie.Parameter{Name: "i", Type: typ.Key}
		out = append(out, &boogie.AxiomDeclaration{Proposition: boogie.Quantify(boogie.Forall, []*boogie.Parameter{i},
			boogie.Equals(boogie.Read(boogie.Apply(name), boogie.Ident("i")), t.defaultValue(typ.Value)))})
	}
	return out
}

// boundType encodes the type named by the second argument of forall and exists.
func (t *Translator) boundType(e ast.Expr) *boogie.Type {
	if id, ok := e.(*ast.Identifier); ok {
		switch id.Name {
		case ast.IntName, ast.BoolName, ast.AddressName:
			return t.convertType(ast.BasicType(id.Name))
		}
		if t.env.Type(id.Name) != nil {
			return boogie.IntType()
		}
	}
	panic(errors.NewTranslationError(errors.ErrorUnsupportedType, e.NodePos(), "quantified variables need a type name"))
}
