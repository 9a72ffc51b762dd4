package translator

import (
	"flint/internal/ast"
	"flint/internal/boogie"
	"flint/internal/normaliser"
)

// statements translates a statement list. External calls leave branches pending;
// they are closed after the statement that made them, and inside a do block the
// remaining statements only run on the success branch.
func (t *Translator) statements(stmts []ast.Statement, ctx Context) []boogie.Statement {
	var out []boogie.Statement
	for i, s := range stmts {
		out = append(out, t.statement(s, ctx)...)
		if len(ctx.proc.external) == 0 {
			continue
		}

		pending := ctx.proc.external
		ctx.proc.external = nil
		if ctx.do == nil {
			for _, branch := range pending {
				out = append(out, t.closeBranch(branch, nil))
			}
			continue
		}

		rest := t.statements(stmts[i+1:], ctx)
		for j := len(pending) - 1; j >= 0; j-- {
			closed := t.closeBranch(pending[j], rest)
			rest = []boogie.Statement{closed}
		}
		return append(out, rest...)
	}
	return out
}

// closeBranch builds the conditional following an external call. rest runs after
// a successful call.
func (t *Translator) closeBranch(branch *externalBranch, rest []boogie.Statement) *boogie.IfStatement {
	then := append(append([]boogie.Statement{}, branch.then...), rest...)

	var failure []boogie.Statement
	switch {
	case branch.do != nil:
		failure = branch.do.catch
	case branch.mode != ast.ExternalCallOptional:
		failure = []boogie.Statement{boogie.Assume(boogie.Bool(false), nil)}
	}
	return &boogie.IfStatement{
		Condition: boogie.Ident(branch.success),
		Then:      then,
		Else:      failure,
		TI:        synthesised(branch.ti.Location, ""),
	}
}

func (t *Translator) statement(s ast.Statement, ctx Context) []boogie.Statement {
	switch s := s.(type) {
	case *ast.ExprStmt:
		var b block
		t.expr(s.Expr, ctx, access{}, &b)
		return b.statements()

	case *ast.ReturnStmt:
		ret := &boogie.ReturnStatement{TI: ti(s.Pos)}
		if s.Value == nil {
			return []boogie.Statement{ret}
		}
		var b block
		value := t.expr(s.Value, ctx, access{}, &b)
		out := append(b.pre, boogie.Assign(boogie.Ident(ctx.proc.returnName), value, ti(s.Value.NodePos())))
		out = append(out, b.post...)
		return append(out, ret)

	case *ast.BecomeStmt:
		index := t.env.Type(ctx.Type).StateIndex(s.State.Name)
		if index < 0 {
			panic(unsupported(s, "%s has no type state %s", ctx.Type, s.State.Name))
		}
		state := normaliser.StateVariableName(ctx.Type)
		ctx.modifies(state, false)
		return []boogie.Statement{boogie.Assign(boogie.Ident(state), boogie.Int(int64(index)), ti(s.Pos))}

	case *ast.EmitStmt:
		log.Debugf("%s: events are not verified", s.Pos)
		return nil

	case *ast.IfStmt:
		var b block
		condition := t.expr(s.Condition, ctx, access{}, &b)
		then := t.statements(s.Body, ctx.withScope())
		var els []boogie.Statement
		if len(s.Else) > 0 {
			els = t.statements(s.Else, ctx.withScope())
		}
		out := append(b.pre, &boogie.IfStatement{Condition: condition, Then: then, Else: els, TI: ti(s.Pos)})
		return append(out, b.post...)

	case *ast.ForStmt:
		return t.forStatement(s, ctx)

	case *ast.DoCatchStmt:
		catch := t.statements(s.Catch, ctx.withScope())
		inner := ctx.withScope()
		inner.do = &doBlock{catch: catch}
		return t.statements(s.Do, inner)
	}
	panic(unsupported(s, "statement cannot be translated"))
}

// forStatement lowers a for loop to a while loop over an index. Ranges iterate
// their bounds; collections iterate positions below their size.
func (t *Translator) forStatement(s *ast.ForStmt, ctx Context) []boogie.Statement {
	inner := ctx.withScope()
	var b block

	index := t.fresh("loop_index_")
	ctx.addLocal(index, index, boogie.IntType())
	i := boogie.Ident(index)
	variable := t.declareLocal(s.Variable, inner, access{})

	var initial, final boogie.Expr
	var element boogie.Expr
	switch iterable := s.Iterable.(type) {
	case *ast.RangeExpr:
		initial = t.expr(iterable.Start, ctx, access{}, &b)
		final = t.expr(iterable.End, ctx, access{}, &b)
		if iterable.Inclusive {
			final = boogie.Add(final, boogie.Int(1))
		}
		element = i

	default:
		typ := t.env.TypeOf(iterable, ctx.semantic()).Underlying()
		if !typ.IsIterable() {
			panic(unsupported(iterable, "cannot iterate over %s", typ))
		}
		var values, size, keys boogie.Expr
		if isCollectionLiteral(iterable) {
			name := t.materialise(iterable, typ, ctx, &b)
			values = boogie.Ident(name)
			size = boogie.Ident(normaliser.ShadowSizePrefix(0) + name)
			keys = boogie.Ident(normaliser.ShadowKeysPrefix(0) + name)
		} else {
			values = t.expr(iterable, ctx, access{}, &b)
			var scratch block
			size = t.expr(iterable, ctx, access{prefix: sizePrefix(0)}, &scratch)
			keys = t.expr(iterable, ctx, access{prefix: keysPrefix(0)}, &scratch)
		}
		initial, final = boogie.Int(0), size
		element = boogie.Read(values, i)
		if typ.Kind == ast.KindDictionary {
			element = boogie.Read(values, boogie.Read(keys, i))
		}
	}

	body := []boogie.Statement{boogie.Assign(variable, element, nil)}
	body = append(body, t.statements(s.Body, inner)...)
	body = append(body, boogie.Assign(i, boogie.Add(i, boogie.Int(1)), nil))

	out := append(b.pre, boogie.Assign(i, initial, nil))
	out = append(out, &boogie.WhileStatement{
		Condition: boogie.LessThan(i, final),
		Body:      body,
		Invariants: []*boogie.ProofObligation{{
			Expr: boogie.LessOrEqual(i, final),
			TI:   synthesised(s.Pos, ""),
		}},
		TI: synthesised(s.Pos, ""),
	})
	return append(out, b.post...)
}
