package parser

import (
	"flint/grammar"
	"flint/internal/ast"
)

func (l *lowerer) expr(e *grammar.Expr) ast.Expr {
	chain := &operatorChain{operands: []ast.Expr{l.unary(e.Left)}}
	for _, op := range e.Ops {
		chain.operators = append(chain.operators, op.Operator)
		chain.operands = append(chain.operands, l.unary(op.Right))
	}
	return chain.climb(1)
}

func (l *lowerer) unary(u *grammar.Unary) ast.Expr {
	operand := l.postfix(u.Value)
	if u.Operator == nil {
		return operand
	}

	pos, end := toPos(u.Pos), toPos(u.EndPos)
	switch *u.Operator {
	case "&":
		return &ast.InoutExpr{Pos: pos, EndPos: end, Expr: operand}
	case "!":
		return &ast.UnaryExpr{Pos: pos, EndPos: end, Op: ast.OpNot, Operand: operand}
	default:
		return &ast.UnaryExpr{Pos: pos, EndPos: end, Op: ast.OpNegate, Operand: operand}
	}
}

// postfix folds member accesses and subscripts left to right, so "a.b[i].c"
// lowers to ((a.b)[i]).c.
func (l *lowerer) postfix(p *grammar.Postfix) ast.Expr {
	expr := l.primary(p.Primary)
	for _, s := range p.Suffixes {
		end := toPos(s.EndPos)
		switch {
		case s.Member != nil:
			expr = &ast.BinaryExpr{
				Pos:    expr.NodePos(),
				EndPos: end,
				Op:     ast.OpDot,
				Lhs:    expr,
				Rhs:    l.reference(s.Member),
			}
		case s.Index != nil:
			expr = &ast.SubscriptExpr{
				Pos:    expr.NodePos(),
				EndPos: end,
				Base:   expr,
				Index:  l.expr(s.Index),
			}
		}
	}
	return expr
}

func (l *lowerer) primary(p *grammar.Primary) ast.Expr {
	pos, end := toPos(p.Pos), toPos(p.EndPos)
	switch {
	case p.External != nil:
		return l.external(p.External)
	case p.Self:
		return &ast.SelfExpr{Pos: pos, EndPos: end}
	case p.Bool != nil:
		return &ast.LiteralExpr{Pos: pos, EndPos: end, Kind: ast.LiteralBool, Value: *p.Bool}
	case p.Address != nil:
		return &ast.LiteralExpr{Pos: pos, EndPos: end, Kind: ast.LiteralAddress, Value: *p.Address}
	case p.Int != nil:
		return &ast.LiteralExpr{Pos: pos, EndPos: end, Kind: ast.LiteralInt, Value: *p.Int}
	case p.String != nil:
		return &ast.LiteralExpr{Pos: pos, EndPos: end, Kind: ast.LiteralString, Value: *p.String}
	case p.Bracket != nil:
		return l.bracket(p.Bracket)
	case p.Paren != nil:
		return l.paren(p.Paren)
	case p.Ref != nil:
		return l.reference(p.Ref)
	}
	l.errorAt(p.Pos, "expected expression")
	return &ast.LiteralExpr{Pos: pos, EndPos: end, Kind: ast.LiteralInt, Value: "0"}
}

func (l *lowerer) reference(r *grammar.Reference) ast.Expr {
	if r.Call == nil {
		return &ast.Identifier{Pos: toPos(r.Pos), EndPos: toPos(r.EndPos), Name: r.Name.Value}
	}
	return &ast.FunctionCall{
		Pos:        toPos(r.Pos),
		EndPos:     toPos(r.EndPos),
		Identifier: ident(r.Name),
		Arguments:  l.args(r.Call.Args),
	}
}

func (l *lowerer) args(args []*grammar.Arg) []*ast.CallArgument {
	out := make([]*ast.CallArgument, 0, len(args))
	for _, a := range args {
		arg := &ast.CallArgument{
			Pos:    toPos(a.Pos),
			EndPos: toPos(a.EndPos),
			Expr:   l.expr(a.Value),
		}
		if a.Label != nil {
			label := ident(a.Label)
			arg.Label = &label
		}
		out = append(out, arg)
	}
	return out
}

func (l *lowerer) external(e *grammar.External) ast.Expr {
	call := &ast.ExternalCall{Pos: toPos(e.Pos), EndPos: toPos(e.EndPos)}
	switch e.Mode {
	case "?":
		call.Mode = ast.ExternalCallOptional
	case "!":
		call.Mode = ast.ExternalCallForced
	default:
		call.Mode = ast.ExternalCallNormal
	}

	target, ok := l.postfix(e.Call).(*ast.BinaryExpr)
	if !ok || target.Op != ast.OpDot {
		l.errorAt(e.Call.Pos, "external call must name a function of an external contract")
		target = &ast.BinaryExpr{Op: ast.OpDot, Lhs: &ast.SelfExpr{}, Rhs: &ast.Identifier{}}
	}
	call.Call = target
	return call
}

func (l *lowerer) paren(p *grammar.Paren) ast.Expr {
	inner := l.expr(p.Inner)
	if p.RangeOp == "" {
		return inner
	}
	return &ast.RangeExpr{
		Pos:       toPos(p.Pos),
		EndPos:    toPos(p.EndPos),
		Start:     inner,
		End:       l.expr(p.End),
		Inclusive: p.RangeOp == "...",
	}
}

func (l *lowerer) bracket(b *grammar.Bracket) ast.Expr {
	pos, end := toPos(b.Pos), toPos(b.EndPos)
	if b.EmptyDict {
		return &ast.DictionaryLiteral{Pos: pos, EndPos: end}
	}

	keyed := 0
	for _, e := range b.Elements {
		if e.Value != nil {
			keyed++
		}
	}

	switch {
	case keyed == 0:
		array := &ast.ArrayLiteral{Pos: pos, EndPos: end}
		for _, e := range b.Elements {
			array.Elements = append(array.Elements, l.expr(e.Key))
		}
		return array
	case keyed == len(b.Elements):
		dict := &ast.DictionaryLiteral{Pos: pos, EndPos: end}
		for _, e := range b.Elements {
			dict.Entries = append(dict.Entries, &ast.DictionaryEntry{Key: l.expr(e.Key), Value: l.expr(e.Value)})
		}
		return dict
	}

	l.errorAt(b.Pos, "literal mixes array elements and dictionary entries")
	return &ast.ArrayLiteral{Pos: pos, EndPos: end}
}
