package parser

import "flint/internal/ast"

var binaryPrecedence = map[string]int{
	"=": 1, "+=": 1, "-=": 1, "*=": 1, "/=": 1,
	"==>": 2,
	"||":  3,
	"&&":  4,
	"==": 5, "!=": 5, "<": 5, "<=": 5, ">": 5, ">=": 5,
	"+": 6, "-": 6, "&+": 6, "&-": 6,
	"*": 7, "/": 7, "%": 7, "&*": 7,
	"**": 8,
}

var rightAssociative = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true,
	"==>": true,
	"**":  true,
}

// operatorChain is a flat sequence of operands separated by binary operators,
// folded into a tree by precedence climbing.
type operatorChain struct {
	operands  []ast.Expr
	operators []string
	pos       int
}

func (c *operatorChain) climb(minPrec int) ast.Expr {
	lhs := c.operands[c.pos]

	for c.pos < len(c.operators) {
		op := c.operators[c.pos]
		prec := binaryPrecedence[op]
		if prec < minPrec {
			break
		}

		c.pos++
		next := prec + 1
		if rightAssociative[op] {
			next = prec
		}
		rhs := c.climb(next)

		lhs = &ast.BinaryExpr{
			Pos:    lhs.NodePos(),
			EndPos: rhs.NodeEndPos(),
			Op:     ast.BinaryOp(op),
			Lhs:    lhs,
			Rhs:    rhs,
		}
	}

	return lhs
}
