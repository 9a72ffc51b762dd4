package parser

import (
	"flint/grammar"
	"flint/internal/ast"
)

func (l *lowerer) block(b *grammar.Block) []ast.Statement {
	if b == nil {
		return nil
	}
	stmts := make([]ast.Statement, 0, len(b.Statements))
	for _, s := range b.Statements {
		if stmt := l.statement(s); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (l *lowerer) statement(s *grammar.Statement) ast.Statement {
	pos, end := toPos(s.Pos), toPos(s.EndPos)
	switch {
	case s.Return != nil:
		ret := &ast.ReturnStmt{Pos: pos, EndPos: end}
		if s.Return.Value != nil {
			ret.Value = l.expr(s.Return.Value)
		}
		return ret
	case s.Become != nil:
		return &ast.BecomeStmt{Pos: pos, EndPos: end, State: ident(s.Become.State)}
	case s.Emit != nil:
		return &ast.EmitStmt{Pos: pos, EndPos: end, Call: &ast.FunctionCall{
			Pos:        toPos(s.Emit.Name.Pos),
			EndPos:     end,
			Identifier: ident(s.Emit.Name),
			Arguments:  l.args(s.Emit.Args),
		}}
	case s.If != nil:
		return l.ifStmt(s.If)
	case s.For != nil:
		return &ast.ForStmt{
			Pos:    pos,
			EndPos: end,
			Variable: &ast.VariableDeclaration{
				Pos:        toPos(s.For.Var.Pos),
				EndPos:     toPos(s.For.Type.EndPos),
				Identifier: ident(s.For.Var),
				Type:       l.typ(s.For.Type),
				IsConstant: true,
			},
			Iterable: l.expr(s.For.Iterable),
			Body:     l.block(s.For.Body),
		}
	case s.DoCatch != nil:
		return &ast.DoCatchStmt{
			Pos:    pos,
			EndPos: end,
			Do:     l.block(s.DoCatch.Do),
			Catch:  l.block(s.DoCatch.Catch),
		}
	case s.VarDecl != nil:
		return &ast.ExprStmt{Pos: pos, EndPos: end, Expr: l.variable(s.VarDecl)}
	case s.Expr != nil:
		return &ast.ExprStmt{Pos: pos, EndPos: end, Expr: l.expr(s.Expr)}
	}
	l.errorAt(s.Pos, "empty statement")
	return nil
}

func (l *lowerer) ifStmt(i *grammar.If) *ast.IfStmt {
	stmt := &ast.IfStmt{
		Pos:       toPos(i.Pos),
		EndPos:    toPos(i.EndPos),
		Condition: l.expr(i.Cond),
		Body:      l.block(i.Body),
	}
	switch {
	case i.ElseIf != nil:
		stmt.Else = []ast.Statement{l.ifStmt(i.ElseIf)}
	case i.Else != nil:
		stmt.Else = l.block(i.Else)
	}
	return stmt
}
