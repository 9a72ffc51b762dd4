package translator

import (
	"fmt"
	"strings"

	"flint/internal/ast"
	"flint/internal/boogie"
	"flint/internal/errors"
	"flint/internal/semantic"
)

// holistic builds the procedures checking that spec holds after any sequence of
// calls to the public functions of c, up to the transaction depth. It returns
// them with the name of the entry procedure.
func (t *Translator) holistic(c *semantic.TypeInfo, spec *ast.HolisticSpec) (*boogie.HolisticTest, string) {
	if len(c.Initializers) != 1 {
		panic(errors.NewTranslationError(errors.ErrorHolisticInitializer, spec.Pos,
			"holistic specifications need exactly one initialiser of %s, found %d", c.Name, len(c.Initializers)))
	}
	mainName := t.fresh("Main_")
	suffix := strings.TrimPrefix(mainName, "Main_")
	callableName := "CallableFunctions_" + suffix
	selectName := "SelectFunction_" + suffix

	var public []*boogie.Procedure
	for _, f := range c.Functions {
		if f.Declaration.IsPublic {
			public = append(public, t.procedures[f.NormalisedName()])
		}
	}

	ctx := Context{Type: c.Name, proc: scratchState()}
	var b block
	property := t.expr(spec.Expr, ctx, access{}, &b)

	callable := t.callableFunctions(callableName, public)
	selection := t.selectFunction(selectName, public)
	main := t.holisticEntry(mainName, t.procedures[c.Initializers[0].NormalisedName()], callableName, selectName)
	main.Statements = append(main.Statements, boogie.Assert(property, ti(spec.Pos)))
	main.TI = ti(spec.Pos)

	log.Infof("holistic check %s of %s over %d public functions", mainName, c.Name, len(public))
	return &boogie.HolisticTest{Spec: spec.Pos, Declarations: []boogie.Declaration{callable, selection, main}}, mainName
}

// invocation havocs fresh arguments for proc, assumes its preconditions over them
// and returns them with the renamed preconditions.
func invocation(proc *boogie.Procedure, prefix string, holistic *boogie.Procedure) ([]boogie.Expr, boogie.Expr, []boogie.Statement) {
	renames := make(map[string]string, len(proc.Parameters))
	var args []boogie.Expr
	var statements []boogie.Statement
	for _, p := range proc.Parameters {
		arg := prefix + p.Name
		renames[p.Name] = arg
		args = append(args, boogie.Ident(arg))
		holistic.Variables = append(holistic.Variables, &boogie.VariableDeclaration{Name: arg, RawName: p.RawName, Type: p.Type})
		statements = append(statements, boogie.Havoc(arg, nil))
	}
	var pre []boogie.Expr
	for _, o := range proc.Pre {
		pre = append(pre, boogie.Rename(o.Expr, renames))
	}
	return args, boogie.Conjunction(pre), statements
}

func (t *Translator) callableFunctions(name string, public []*boogie.Procedure) *boogie.Procedure {
	proc := &boogie.Procedure{
		Name:        name,
		ReturnNames: []string{"callable"},
		ReturnTypes: []*boogie.Type{boogie.BoolType()},
		IsHolistic:  true,
	}
	var options []boogie.Expr
	for k, f := range public {
		_, pre, havoc := invocation(f, fmt.Sprintf("arg%d_", k), proc)
		proc.Statements = append(proc.Statements, havoc...)
		options = append(options, pre)
	}
	var result boogie.Expr = boogie.Bool(false)
	if len(options) > 0 {
		result = boogie.Disjunction(options)
	}
	proc.Statements = append(proc.Statements, boogie.Assign(boogie.Ident("callable"), result, nil))
	t.callGraph[name] = nil
	return proc
}

func (t *Translator) selectFunction(name string, public []*boogie.Procedure) *boogie.Procedure {
	proc := &boogie.Procedure{Name: name, IsHolistic: true}
	selector := boogie.Ident("selector")
	proc.Variables = append(proc.Variables, &boogie.VariableDeclaration{Name: "selector", RawName: "selector", Type: boogie.IntType()})
	proc.Statements = append(proc.Statements, boogie.Havoc("selector", nil))
	t.callGraph[name] = nil

	for k, f := range public {
		args, pre, havoc := invocation(f, fmt.Sprintf("arg%d_", k), proc)
		var returns []string
		for i, typ := range f.ReturnTypes {
			ret := fmt.Sprintf("ret%d_%d", k, i)
			proc.Variables = append(proc.Variables, &boogie.VariableDeclaration{Name: ret, RawName: ret, Type: typ})
			returns = append(returns, ret)
		}
		then := append(havoc, boogie.Assume(pre, nil), boogie.Call(returns, f.Name, args, nil))
		proc.Statements = append(proc.Statements, &boogie.IfStatement{
			Condition: boogie.Equals(selector, boogie.Int(int64(k))),
			Then:      then,
		})
		t.addCall(name, f.Name)
	}
	return proc
}

// holisticEntry initialises the contract and then makes up to the transaction
// depth calls while some public function can be called.
func (t *Translator) holisticEntry(name string, init *boogie.Procedure, callableName, selectName string) *boogie.Procedure {
	proc := &boogie.Procedure{Name: name, IsHolistic: true}
	bound, callable := boogie.Ident("bound"), boogie.Ident("callable")
	proc.Variables = append(proc.Variables,
		&boogie.VariableDeclaration{Name: "bound", RawName: "bound", Type: boogie.IntType()},
		&boogie.VariableDeclaration{Name: "callable", RawName: "callable", Type: boogie.BoolType()})

	args, pre, havoc := invocation(init, "init_", proc)
	proc.Statements = append(proc.Statements, boogie.Assign(bound, boogie.Int(int64(t.opts.TransactionDepth)), nil))
	proc.Statements = append(proc.Statements, havoc...)
	proc.Statements = append(proc.Statements,
		boogie.Assume(pre, nil),
		boogie.Call(nil, init.Name, args, nil),
		&boogie.WhileStatement{
			Condition: boogie.GreaterThan(bound, boogie.Int(0)),
			Body: []boogie.Statement{
				boogie.Call([]string{"callable"}, callableName, nil, nil),
				&boogie.IfStatement{Condition: boogie.Not(callable), Then: []boogie.Statement{&boogie.BreakStatement{}}},
				boogie.Call(nil, selectName, nil, nil),
				boogie.Assign(bound, boogie.Subtract(bound, boogie.Int(1)), nil),
			},
		})

	t.callGraph[name] = nil
	for _, callee := range []string{init.Name, callableName, selectName} {
		t.addCall(name, callee)
	}
	return proc
}
