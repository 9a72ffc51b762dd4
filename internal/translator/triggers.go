package translator

import (
	"flint/internal/ast"
	"flint/internal/boogie"
	"flint/internal/normaliser"
	"flint/internal/semantic"
)

// Triggers add bookkeeping to the translation of particular constructs. Each rule
// declares the globals its statements write so the enclosing procedure can list them.

type functionTrigger struct {
	name    string
	applies func(t *Translator, fn *semantic.FunctionInfo) bool
	entry   func(t *Translator, ctx Context) []boogie.Statement
	mutates []string
}

type parameterTrigger struct {
	name    string
	applies func(t *Translator, p *ast.Parameter) bool
	pre     func(t *Translator, value boogie.Expr, p *ast.Parameter) []boogie.Expr
	entry   func(t *Translator, value boogie.Expr, p *ast.Parameter) []boogie.Statement
	mutates func(p *ast.Parameter) []string
}

type assignmentTrigger struct {
	name    string
	applies func(t *Translator, lhsType *ast.Type, ctx Context) bool
	action  func(t *Translator, lhs boogie.Expr) []boogie.Statement
	mutates []string
}

func isWei(typ *ast.Type) bool {
	typ = typ.Underlying()
	return typ.IsUserDefined() && typ.Name == WeiStruct
}

func increase(name string, by boogie.Expr) boogie.Statement {
	return boogie.Assign(boogie.Ident(name), boogie.Add(boogie.Ident(name), by), nil)
}

var functionRules = []functionTrigger{
	{
		name: "contract initialiser resets the Wei accounting",
		applies: func(t *Translator, fn *semantic.FunctionInfo) bool {
			return fn.IsInit() && t.env.IsContract(fn.Owner)
		},
		entry: func(t *Translator, ctx Context) []boogie.Statement {
			var out []boogie.Statement
			for _, name := range []string{totalValue, receivedValue, sentValue} {
				out = append(out, boogie.Assign(boogie.Ident(name), boogie.Int(0), nil))
			}
			return out
		},
		mutates: []string{totalValue, receivedValue, sentValue},
	},
	{
		name: "minting Wei increases the total value",
		applies: func(t *Translator, fn *semantic.FunctionInfo) bool {
			params := fn.ParameterTypes()
			return fn.IsInit() && fn.Owner == WeiStruct && len(params) == 1 && params[0].IsBasic(ast.IntName)
		},
		entry: func(t *Translator, ctx Context) []boogie.Statement {
			amount := ctx.Function.Declaration.Parameters[0].Identifier.Name
			return []boogie.Statement{increase(totalValue, boogie.Ident(ctx.localName(amount)))}
		},
		mutates: []string{totalValue},
	},
}

var parameterRules = []parameterTrigger{
	{
		name: "implicit struct parameters are freshly allocated",
		applies: func(t *Translator, p *ast.Parameter) bool {
			typ := p.Type.Underlying()
			return p.IsImplicit && typ.IsUserDefined() && t.env.IsStruct(typ.Name)
		},
		pre: func(t *Translator, value boogie.Expr, p *ast.Parameter) []boogie.Expr {
			next := normaliser.StructInstanceVariableName(p.Type.Underlying().Name)
			return []boogie.Expr{boogie.Equals(value, boogie.Ident(next))}
		},
		entry: func(t *Translator, value boogie.Expr, p *ast.Parameter) []boogie.Statement {
			next := normaliser.StructInstanceVariableName(p.Type.Underlying().Name)
			return []boogie.Statement{increase(next, boogie.Int(1))}
		},
		mutates: func(p *ast.Parameter) []string {
			return []string{normaliser.StructInstanceVariableName(p.Type.Underlying().Name)}
		},
	},
	{
		name: "received Wei increases the total value",
		applies: func(t *Translator, p *ast.Parameter) bool {
			return p.IsImplicit && isWei(p.Type)
		},
		pre: func(t *Translator, value boogie.Expr, p *ast.Parameter) []boogie.Expr {
			return []boogie.Expr{boogie.GreaterOrEqual(boogie.Read(boogie.Ident(rawValue), value), boogie.Int(0))}
		},
		entry: func(t *Translator, value boogie.Expr, p *ast.Parameter) []boogie.Statement {
			amount := boogie.Read(boogie.Ident(rawValue), value)
			return []boogie.Statement{increase(totalValue, amount), increase(receivedValue, amount)}
		},
		mutates: func(*ast.Parameter) []string { return []string{totalValue, receivedValue} },
	},
}

var assignmentRules = []assignmentTrigger{
	{
		name: "overwriting Wei destroys its value",
		applies: func(t *Translator, lhsType *ast.Type, ctx Context) bool {
			return isWei(lhsType) && !ctx.isInit()
		},
		action: func(t *Translator, lhs boogie.Expr) []boogie.Statement {
			return []boogie.Statement{boogie.Assign(boogie.Ident(totalValue),
				boogie.Subtract(boogie.Ident(totalValue), boogie.Read(boogie.Ident(rawValue), lhs)), nil)}
		},
		mutates: []string{totalValue},
	},
}

// functionEntry returns the statements function triggers run on entry to fn.
func (t *Translator) functionEntry(ctx Context) []boogie.Statement {
	var out []boogie.Statement
	for _, rule := range functionRules {
		if !rule.applies(t, ctx.Function) {
			continue
		}
		log.Debugf("%s: %s", ctx.functionName(), rule.name)
		out = append(out, rule.entry(t, ctx)...)
		for _, m := range rule.mutates {
			ctx.modifies(m, false)
		}
	}
	return out
}

// parameterEntry returns the preconditions and entry statements of parameter p,
// translated as value.
func (t *Translator) parameterEntry(p *ast.Parameter, value boogie.Expr, ctx Context) ([]boogie.Expr, []boogie.Statement) {
	var pre []boogie.Expr
	var entry []boogie.Statement
	for _, rule := range parameterRules {
		if !rule.applies(t, p) {
			continue
		}
		log.Debugf("%s: %s", ctx.functionName(), rule.name)
		pre = append(pre, rule.pre(t, value, p)...)
		entry = append(entry, rule.entry(t, value, p)...)
		for _, m := range rule.mutates(p) {
			ctx.modifies(m, false)
		}
	}
	return pre, entry
}

func (t *Translator) assignmentTriggers(e *ast.BinaryExpr, lhs boogie.Expr, lhsType *ast.Type, ctx Context) []boogie.Statement {
	var out []boogie.Statement
	for _, rule := range assignmentRules {
		if !rule.applies(t, lhsType, ctx) {
			continue
		}
		log.Debugf("%s: %s", e.Pos, rule.name)
		out = append(out, rule.action(t, lhs)...)
		for _, m := range rule.mutates {
			ctx.modifies(m, false)
		}
	}
	return out
}
