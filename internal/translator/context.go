package translator

import (
	"flint/internal/ast"
	"flint/internal/boogie"
	"flint/internal/normaliser"
	"flint/internal/semantic"
)

// Context locates the Flint code being translated. It is passed by value: nested
// constructs derive a modified copy and never affect their parent.
type Context struct {
	// Type is the contract or struct whose member is being translated.
	Type string
	// Function is nil while translating invariants and holistic specifications.
	Function *semantic.FunctionInfo
	Scope    *semantic.SymbolTable
	// Instance is the receiver of struct members, nil in contract code.
	Instance boogie.Expr

	proc  *procedureState
	bound map[string]boogie.Expr
	do    *doBlock
}

// procedureState is the part of a translation shared by every context of one
// procedure: its declaration under construction and pending control flow.
type procedureState struct {
	proc       *boogie.Procedure
	returnName string
	external   []*externalBranch
}

// doBlock is the catch branch of the enclosing do-catch statement.
type doBlock struct {
	catch []boogie.Statement
}

func newProcedureState(proc *boogie.Procedure) *procedureState {
	return &procedureState{proc: proc}
}

// scratchState collects statements that are discarded, such as those produced by
// calls inside invariants.
func scratchState() *procedureState {
	return newProcedureState(&boogie.Procedure{})
}

func (ctx Context) semantic() semantic.Context {
	return semantic.Context{EnclosingType: ctx.Type, Scope: ctx.Scope}
}

// withScope opens a nested lexical scope.
func (ctx Context) withScope() Context {
	ctx.Scope = semantic.NewSymbolTable(ctx.Scope)
	return ctx
}

// bind maps a placeholder identifier, such as a quantified variable, to an expression.
func (ctx Context) bind(name string, value boogie.Expr) Context {
	bound := make(map[string]boogie.Expr, len(ctx.bound)+1)
	for k, v := range ctx.bound {
		bound[k] = v
	}
	bound[name] = value
	ctx.bound = bound
	return ctx
}

func (ctx Context) functionName() string {
	if ctx.Function == nil {
		return ""
	}
	return ctx.Function.NormalisedName()
}

func (ctx Context) localName(name string) string {
	return normaliser.LocalName(name, ctx.functionName())
}

func (ctx Context) isInit() bool {
	return ctx.Function != nil && ctx.Function.IsInit()
}

// addLocal declares a procedure local unless it already exists.
func (ctx Context) addLocal(name, raw string, typ *boogie.Type) {
	for _, v := range ctx.proc.proc.Variables {
		if v.Name == name {
			return
		}
	}
	ctx.proc.proc.Variables = append(ctx.proc.proc.Variables, &boogie.VariableDeclaration{Name: name, RawName: raw, Type: typ})
}

func (ctx Context) modifies(variable string, userDefined bool) {
	ctx.proc.proc.AddModifies(variable, userDefined)
}

// block collects the statements an expression needs before and after its use.
type block struct {
	pre  []boogie.Statement
	post []boogie.Statement
}

func (b *block) add(o block) {
	b.pre = append(b.pre, o.pre...)
	b.post = append(b.post, o.post...)
}

func (b *block) statements() []boogie.Statement {
	out := make([]boogie.Statement, 0, len(b.pre)+len(b.post))
	out = append(out, b.pre...)
	return append(out, b.post...)
}

// access controls how an identifier or subscript is resolved.
type access struct {
	// prefix selects a shadow variable for the given subscript depth.
	prefix func(depth int) string
	depth  int

	assigned bool
	// property skips local variables, as in "self.x".
	property bool
	// owner and instance resolve a field of another struct value.
	owner    string
	instance boogie.Expr
}

func (a access) deeper() access {
	a.depth++
	return a
}

func (a access) prefixed(name string) string {
	if a.prefix == nil {
		return name
	}
	return a.prefix(a.depth) + name
}

func sizePrefix(shift int) func(int) string {
	return func(depth int) string { return normaliser.ShadowSizePrefix(depth + shift) }
}

func keysPrefix(shift int) func(int) string {
	return func(depth int) string { return normaliser.ShadowKeysPrefix(depth + shift) }
}

func ti(pos ast.Position) *boogie.TranslationInformation {
	return boogie.NewTI(pos)
}

// synthesised marks a check introduced by the translator rather than written by
// the user.
func synthesised(pos ast.Position, msg string) *boogie.TranslationInformation {
	return &boogie.TranslationInformation{Location: pos, FailingMsg: msg}
}
