package translator

import (
	"math/big"
	"strings"

	"flint/internal/ast"
	"flint/internal/boogie"
	"flint/internal/errors"
	"flint/internal/normaliser"
	"flint/internal/semantic"
)

// Failure messages of checks the translator adds on its own.
const (
	outOfBoundsMessage  = "Potential out-of-bounds error: Could not verify that array access is within array bounds"
	divideByZeroMessage = "Potential divide-by-zero error: Could not verify that the divisor is non-zero"
)

// wordModulus is the modulus of wrapping arithmetic on 256 bit words.
var wordModulus = new(big.Int).Lsh(big.NewInt(1), 256)

func unsupported(e ast.Node, format string, args ...interface{}) *errors.TranslationError {
	return errors.NewTranslationError(errors.ErrorUnsupportedExpression, e.NodePos(), format, args...)
}

// expr translates e. Statements the expression depends on are added to b.
func (t *Translator) expr(e ast.Expr, ctx Context, a access, b *block) boogie.Expr {
	switch e := e.(type) {
	case *ast.Identifier:
		return t.identifier(e.Name, ctx, a)
	case *ast.LiteralExpr:
		return literal(e)
	case *ast.SelfExpr:
		if ctx.Instance == nil {
			panic(unsupported(e, "self cannot be used as a value in contract %s", ctx.Type))
		}
		return ctx.Instance
	case *ast.InoutExpr:
		return t.expr(e.Expr, ctx, a, b)
	case *ast.UnaryExpr:
		operand := t.expr(e.Operand, ctx, access{}, b)
		if e.Op == ast.OpNot {
			return boogie.Not(operand)
		}
		return boogie.Negate(operand)
	case *ast.BinaryExpr:
		return t.binary(e, ctx, a, b)
	case *ast.SubscriptExpr:
		return t.subscript(e, ctx, a, b)
	case *ast.FunctionCall:
		return t.call(e, ctx, ctx.Type, nil, b)
	case *ast.ExternalCall:
		return t.externalCall(e, ctx, b)
	case *ast.VariableDeclaration:
		if e.Assigned != nil {
			declared := *e
			declared.Assigned = nil
			return t.assign(&ast.BinaryExpr{Pos: e.Pos, EndPos: e.EndPos, Op: ast.OpAssign, Lhs: &declared, Rhs: e.Assigned}, ctx, b)
		}
		return t.declareLocal(e, ctx, a)
	case *ast.ArrayLiteral, *ast.DictionaryLiteral:
		return boogie.Ident(t.materialise(e, t.env.TypeOf(e, ctx.semantic()), ctx, b))
	}
	panic(unsupported(e, "expression cannot be translated here"))
}

// identifier resolves a name to a bound placeholder, a local variable or a property.
func (t *Translator) identifier(name string, ctx Context, a access) boogie.Expr {
	if a.owner == "" && !a.property {
		if value, ok := ctx.bound[name]; ok {
			return value
		}
		if symbol := ctx.Scope.Lookup(name); symbol != nil {
			if symbol.Kind == semantic.SymbolCaller {
				return boogie.Ident(normaliser.CallerVariableName(ctx.Type))
			}
			return boogie.Ident(a.prefixed(ctx.localName(name)))
		}
	}

	owner, instance := a.owner, a.instance
	if owner == "" {
		owner, instance = ctx.Type, ctx.Instance
	}
	property := boogie.Ident(a.prefixed(normaliser.GlobalName(name, owner)))
	if instance != nil {
		return boogie.Read(property, instance)
	}
	return property
}

func literal(e *ast.LiteralExpr) boogie.Expr {
	switch e.Kind {
	case ast.LiteralBool:
		return boogie.Bool(e.Value == "true")
	case ast.LiteralInt, ast.LiteralAddress:
		text, base := strings.ReplaceAll(e.Value, "_", ""), 10
		if strings.HasPrefix(text, "0x") {
			text, base = text[2:], 16
		}
		if v, ok := new(big.Int).SetString(text, base); ok {
			return boogie.BigInt(v)
		}
	}
	panic(unsupported(e, "literal %s cannot be translated", e.Value))
}

func (t *Translator) declareLocal(v *ast.VariableDeclaration, ctx Context, a access) boogie.Expr {
	name := ctx.localName(v.Identifier.Name)
	if ctx.Scope.LookupLocal(v.Identifier.Name) == nil {
		ctx.Scope.Define(v.Identifier.Name, semantic.SymbolVariable, v.Type, v.Pos)
	}
	for _, d := range t.variableDeclarations(name, v.Identifier.Name, v.Type) {
		ctx.addLocal(d.Name, d.RawName, d.Type)
	}
	return boogie.Ident(a.prefixed(name))
}

// typeOf types e in the context a resolves it in.
func (t *Translator) typeOf(e ast.Expr, ctx Context, a access) *ast.Type {
	sc := ctx.semantic()
	if a.owner != "" {
		sc = semantic.Context{EnclosingType: a.owner}
	} else if a.property {
		sc.Scope = nil
	}
	return t.env.TypeOf(e, sc).Underlying()
}

func (t *Translator) binary(e *ast.BinaryExpr, ctx Context, a access, b *block) boogie.Expr {
	switch e.Op {
	case ast.OpDot:
		return t.dot(e, ctx, a, b)
	case ast.OpAssign:
		return t.assign(e, ctx, b)
	case ast.OpPlusAssign, ast.OpMinusAssign, ast.OpTimesAssign, ast.OpDivideAssign:
		return t.compoundAssign(e, ctx, b)
	}

	var lb, rb block
	rhs := t.expr(e.Rhs, ctx, access{}, &rb)
	lhs := t.expr(e.Lhs, ctx, access{}, &lb)
	b.add(lb)
	b.add(rb)

	switch e.Op {
	case ast.OpPlus:
		return boogie.Add(lhs, rhs)
	case ast.OpMinus:
		return boogie.Subtract(lhs, rhs)
	case ast.OpTimes:
		return boogie.Multiply(lhs, rhs)
	case ast.OpDivide:
		b.pre = append(b.pre, divisionCheck(rhs, e.Pos))
		return boogie.Divide(lhs, rhs)
	case ast.OpPercent:
		return boogie.Modulo(lhs, rhs)
	case ast.OpPower:
		return boogie.Apply(PowerFunction, lhs, rhs)
	case ast.OpOverflowPlus:
		return boogie.Modulo(boogie.Add(lhs, rhs), boogie.BigInt(wordModulus))
	case ast.OpOverflowMinus:
		return boogie.Modulo(boogie.Subtract(lhs, rhs), boogie.BigInt(wordModulus))
	case ast.OpOverflowTimes:
		return boogie.Modulo(boogie.Multiply(lhs, rhs), boogie.BigInt(wordModulus))
	case ast.OpEqual:
		return boogie.Equals(lhs, rhs)
	case ast.OpNotEqual:
		return boogie.Not(boogie.Equals(lhs, rhs))
	case ast.OpLess:
		return boogie.LessThan(lhs, rhs)
	case ast.OpGreater:
		return boogie.GreaterThan(lhs, rhs)
	case ast.OpLessOrEqual:
		return boogie.Or(boogie.LessThan(lhs, rhs), boogie.Equals(lhs, rhs))
	case ast.OpGreaterOrEqual:
		return boogie.Not(boogie.LessThan(lhs, rhs))
	case ast.OpAnd:
		return boogie.And(lhs, rhs)
	case ast.OpOr:
		return boogie.Or(lhs, rhs)
	case ast.OpImplies:
		return boogie.Implies(lhs, rhs)
	}
	panic(unsupported(e, "operator %s cannot be translated", e.Op))
}

func divisionCheck(divisor boogie.Expr, pos ast.Position) boogie.Statement {
	return boogie.Assert(boogie.Not(boogie.Equals(divisor, boogie.Int(0))), synthesised(pos, divideByZeroMessage))
}

// assign translates "lhs = rhs". Iterables copy their shadows along with the value.
func (t *Translator) assign(e *ast.BinaryExpr, ctx Context, b *block) boogie.Expr {
	lhsType := t.env.TypeOf(e.Lhs, ctx.semantic()).Underlying()

	var lb, rb block
	if lhsType.IsIterable() {
		rhs, rhsShadow := t.iterableValue(e.Rhs, lhsType, ctx, &rb)
		lhs := t.expr(e.Lhs, ctx, access{assigned: true}, &lb)
		b.add(lb)
		b.add(rb)
		b.pre = append(b.pre, boogie.Assign(lhs, rhs, ti(e.Lhs.NodePos())))
		for _, s := range t.shadowsOf(lhsType) {
			value := rhsShadow(s)
			if value == nil {
				continue
			}
			var scratch block
			target := t.expr(e.Lhs, ctx, access{prefix: s.prefix()}, &scratch)
			b.pre = append(b.pre, boogie.Assign(target, value, nil))
		}
		return &boogie.Nop{}
	}

	rhs := t.expr(e.Rhs, ctx, access{}, &rb)
	lhs := t.expr(e.Lhs, ctx, access{assigned: true}, &lb)
	b.add(lb)
	b.add(rb)
	b.pre = append(b.pre, t.assignmentTriggers(e, lhs, lhsType, ctx)...)
	b.pre = append(b.pre, boogie.Assign(lhs, rhs, ti(e.Lhs.NodePos())))
	return &boogie.Nop{}
}

func (t *Translator) compoundAssign(e *ast.BinaryExpr, ctx Context, b *block) boogie.Expr {
	var lb, rb block
	rhs := t.expr(e.Rhs, ctx, access{}, &rb)
	lhs := t.expr(e.Lhs, ctx, access{assigned: true}, &lb)
	b.add(lb)
	b.add(rb)

	var value boogie.Expr
	switch e.Op {
	case ast.OpPlusAssign:
		value = boogie.Add(lhs, rhs)
	case ast.OpMinusAssign:
		value = boogie.Subtract(lhs, rhs)
	case ast.OpTimesAssign:
		value = boogie.Multiply(lhs, rhs)
	case ast.OpDivideAssign:
		b.pre = append(b.pre, divisionCheck(rhs, e.Pos))
		value = boogie.Divide(lhs, rhs)
	}
	b.pre = append(b.pre, boogie.Assign(lhs, value, ti(e.Lhs.NodePos())))
	return &boogie.Nop{}
}

// iterableValue evaluates an iterable together with a resolver for its shadows.
// The resolver returns nil for values that carry no shadows, such as call results.
func (t *Translator) iterableValue(e ast.Expr, typ *ast.Type, ctx Context, b *block) (boogie.Expr, func(shadow) boogie.Expr) {
	if isCollectionLiteral(e) {
		name := t.materialise(e, typ, ctx, b)
		return boogie.Ident(name), func(s shadow) boogie.Expr { return boogie.Ident(s.name(name)) }
	}

	value := t.expr(e, ctx, access{}, b)
	if !hasShadows(e) {
		return value, func(shadow) boogie.Expr { return nil }
	}
	return value, func(s shadow) boogie.Expr {
		var scratch block
		return t.expr(e, ctx, access{prefix: s.prefix()}, &scratch)
	}
}

func isCollectionLiteral(e ast.Expr) bool {
	switch e.(type) {
	case *ast.ArrayLiteral, *ast.DictionaryLiteral:
		return true
	}
	return false
}

func hasShadows(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Identifier, *ast.SubscriptExpr, *ast.VariableDeclaration:
		return true
	case *ast.InoutExpr:
		return hasShadows(e.Expr)
	case *ast.BinaryExpr:
		if e.Op != ast.OpDot {
			return false
		}
		_, call := e.Rhs.(*ast.FunctionCall)
		return !call
	}
	return false
}

// materialise stores a collection literal in a fresh local and returns its name.
// Entries not written by the literal hold the default value.
func (t *Translator) materialise(e ast.Expr, typ *ast.Type, ctx Context, b *block) string {
	typ = typ.Underlying()
	if !typ.IsIterable() {
		panic(unsupported(e, "collection literal of type %s", typ))
	}
	name := t.fresh("lit_")
	for _, v := range t.variableDeclarations(name, name, typ) {
		ctx.addLocal(v.Name, v.RawName, v.Type)
	}
	collection := boogie.Ident(name)
	b.pre = append(b.pre, boogie.Assign(collection, t.emptyMap(t.convertType(typ)), nil))

	elemType := typ.ElementType()
	store := func(key boogie.Expr, value ast.Expr) {
		if !elemType.Underlying().IsIterable() {
			b.pre = append(b.pre, boogie.Assign(boogie.Read(collection, key), t.expr(value, ctx, access{}, b), nil))
			return
		}
		inner, innerShadow := t.iterableValue(value, elemType, ctx, b)
		b.pre = append(b.pre, boogie.Assign(boogie.Read(collection, key), inner, nil))
		for _, s := range t.shadowsOf(elemType) {
			if v := innerShadow(s); v != nil {
				outer := shadow{depth: s.depth + 1, keys: s.keys}
				b.pre = append(b.pre, boogie.Assign(boogie.Read(boogie.Ident(outer.name(name)), key), v, nil))
			}
		}
	}

	size := boogie.Ident(normaliser.ShadowSizePrefix(0) + name)
	switch lit := e.(type) {
	case *ast.ArrayLiteral:
		for k, element := range lit.Elements {
			store(boogie.Int(int64(k)), element)
		}
		b.pre = append(b.pre, boogie.Assign(size, boogie.Int(int64(len(lit.Elements))), nil))
	case *ast.DictionaryLiteral:
		keys := boogie.Ident(normaliser.ShadowKeysPrefix(0) + name)
		for k, entry := range lit.Entries {
			key := t.expr(entry.Key, ctx, access{}, b)
			store(key, entry.Value)
			b.pre = append(b.pre, boogie.Assign(boogie.Read(keys, boogie.Int(int64(k))), key, nil))
		}
		b.pre = append(b.pre, boogie.Assign(size, boogie.Int(int64(len(lit.Entries))), nil))
	}
	return name
}

// dot translates property access, struct member calls, enum cases and the size and
// keys of iterables.
func (t *Translator) dot(e *ast.BinaryExpr, ctx Context, a access, b *block) boogie.Expr {
	if e.IsExplicitPropertyAccess() {
		pa := a
		pa.property = true
		switch rhs := e.Rhs.(type) {
		case *ast.Identifier:
			return t.identifier(rhs.Name, ctx, pa)
		case *ast.SubscriptExpr:
			return t.subscript(rhs, ctx, pa, b)
		case *ast.FunctionCall:
			return t.call(rhs, ctx, ctx.Type, nil, b)
		}
		panic(unsupported(e, "unsupported access through self"))
	}

	lhsType := t.env.TypeOf(e.Lhs, ctx.semantic()).Underlying()
	switch rhs := e.Rhs.(type) {
	case *ast.Identifier:
		if lhsType.IsIterable() {
			switch rhs.Name {
			case "size":
				return t.expr(e.Lhs, ctx, access{prefix: sizePrefix(0)}, b)
			case "keys":
				if a.prefix != nil {
					return t.expr(e.Lhs, ctx, a, b)
				}
				return t.expr(e.Lhs, ctx, access{prefix: keysPrefix(0)}, b)
			}
		}
		if lhsType.IsUserDefined() && t.env.IsEnum(lhsType.Name) {
			if id, ok := e.Lhs.(*ast.Identifier); ok && id.Name == lhsType.Name && t.env.Type(lhsType.Name).HasCase(rhs.Name) {
				return boogie.Ident(normaliser.GlobalName(rhs.Name, lhsType.Name))
			}
		}
		if lhsType.IsUserDefined() && t.env.IsStruct(lhsType.Name) {
			return t.identifier(rhs.Name, ctx, t.fieldAccess(e.Lhs, lhsType.Name, ctx, a, b))
		}
	case *ast.FunctionCall:
		if lhsType.IsUserDefined() && t.env.IsStruct(lhsType.Name) {
			instance := t.expr(e.Lhs, ctx, access{}, b)
			return t.call(rhs, ctx, lhsType.Name, instance, b)
		}
	case *ast.SubscriptExpr:
		if lhsType.IsUserDefined() && t.env.IsStruct(lhsType.Name) {
			return t.subscript(rhs, ctx, t.fieldAccess(e.Lhs, lhsType.Name, ctx, a, b), b)
		}
	}
	panic(unsupported(e, "member access on %s cannot be translated", lhsType))
}

// fieldAccess resolves subsequent names as fields of the struct value receiver.
func (t *Translator) fieldAccess(receiver ast.Expr, structName string, ctx Context, a access, b *block) access {
	fa := a
	fa.owner = structName
	fa.instance = t.expr(receiver, ctx, access{}, b)
	fa.property = true
	return fa
}

// subscript translates an array or dictionary access. Array reads are bounds
// checked; writes grow arrays by one and record new dictionary keys.
func (t *Translator) subscript(e *ast.SubscriptExpr, ctx Context, a access, b *block) boogie.Expr {
	baseAccess := a.deeper()
	baseAccess.assigned = false
	base := t.expr(e.Base, ctx, baseAccess, b)
	index := t.expr(e.Index, ctx, access{}, b)
	if a.prefix != nil {
		return boogie.Read(base, index)
	}

	shadowOf := func(prefix func(int) string) boogie.Expr {
		var scratch block
		sa := access{prefix: prefix, owner: a.owner, instance: a.instance, property: a.property}
		return t.expr(e.Base, ctx, sa, &scratch)
	}

	baseType := t.typeOf(e.Base, ctx, a)
	switch {
	case baseType.IsArrayLike():
		size := shadowOf(sizePrefix(0))
		inBounds := boogie.LessThan(index, size)
		growable := a.assigned && baseType.Kind == ast.KindArray
		if growable {
			inBounds = boogie.LessOrEqual(index, size)
		}
		b.pre = append(b.pre, boogie.Assert(inBounds, synthesised(e.Pos, outOfBoundsMessage)))
		if growable {
			b.post = append(b.post, &boogie.IfStatement{
				Condition: boogie.Not(boogie.LessThan(index, size)),
				Then:      []boogie.Statement{boogie.Assign(size, boogie.Add(size, boogie.Int(1)), nil)},
				TI:        synthesised(e.Pos, ""),
			})
		}
	case baseType.Kind == ast.KindDictionary && a.assigned:
		b.post = append(b.post, t.recordKey(index, shadowOf(sizePrefix(0)), shadowOf(keysPrefix(0)), e.Pos, ctx)...)
	}
	return boogie.Read(base, index)
}

// recordKey appends key to the keys of a dictionary unless already present.
func (t *Translator) recordKey(key, size, keys boogie.Expr, pos ast.Position, ctx Context) []boogie.Statement {
	counter := t.fresh("lit_")
	contains := t.fresh("lit_")
	ctx.addLocal(counter, counter, boogie.IntType())
	ctx.addLocal(contains, contains, boogie.BoolType())
	c, found := boogie.Ident(counter), boogie.Ident(contains)

	return []boogie.Statement{
		boogie.Assign(c, boogie.Int(0), nil),
		boogie.Assign(found, boogie.Bool(false), nil),
		&boogie.WhileStatement{
			Condition: boogie.And(boogie.LessThan(c, size), boogie.Not(found)),
			Body: []boogie.Statement{
				&boogie.IfStatement{
					Condition: boogie.Equals(boogie.Read(keys, c), key),
					Then:      []boogie.Statement{boogie.Assign(found, boogie.Bool(true), nil)},
					TI:        synthesised(pos, ""),
				},
				boogie.Assign(c, boogie.Add(c, boogie.Int(1)), nil),
			},
			TI: synthesised(pos, ""),
		},
		&boogie.IfStatement{
			Condition: boogie.Not(found),
			Then: []boogie.Statement{
				boogie.Assign(boogie.Read(keys, size), key, nil),
				boogie.Assign(size, boogie.Add(size, boogie.Int(1)), nil),
			},
			TI: synthesised(pos, ""),
		},
	}
}
