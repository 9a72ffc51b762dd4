// Package translator lowers a checked Flint module to a verification program.
package translator

import (
	"sort"

	"flint/internal/ast"
	"flint/internal/boogie"
	"flint/internal/errors"
	"flint/internal/normaliser"
	"flint/internal/semantic"
	"flint/internal/stdlib"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("flint.translator")

// Names of the preamble declarations.
const (
	SendProcedure  = "send"
	PowerFunction  = "power"
	WeiStruct      = "Wei"
	WeiRawValue    = "rawValue"
	accountingName = "WeiAccounting"
)

var (
	totalValue    = normaliser.GlobalName("totalValue", WeiStruct)
	receivedValue = normaliser.GlobalName("receivedValue", WeiStruct)
	sentValue     = normaliser.GlobalName("sentValue", WeiStruct)
	rawValue      = normaliser.GlobalName(WeiRawValue, WeiStruct)
)

// Options tune a translation.
type Options struct {
	// Seed makes temporary names reproducible when non-zero.
	Seed int64
	// TransactionDepth bounds the number of calls a holistic check explores.
	TransactionDepth int
}

// Translator converts the module described by an environment.
type Translator struct {
	env   *semantic.Environment
	opts  Options
	names *normaliser.NameGenerator
	taken map[string]bool

	// globals lists the variables of each contract and struct, shadows included.
	globals map[string][]string

	structInvariants   []*boogie.ProofObligation
	contractInvariants map[string][]*boogie.ProofObligation
	globalInvariants   []*boogie.ProofObligation
	sizeAssumptions    []boogie.Statement

	emptyMaps  map[string]*boogie.Type
	procedures map[string]*boogie.Procedure
	callGraph  map[string][]string
}

func New(env *semantic.Environment, opts Options) *Translator {
	if opts.TransactionDepth <= 0 {
		opts.TransactionDepth = 5
	}
	return &Translator{env: env, opts: opts}
}

// Translate produces the program. Constructs without a verification encoding are
// reported as *errors.TranslationError.
func (t *Translator) Translate() (program *boogie.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			terr, ok := r.(*errors.TranslationError)
			if !ok {
				panic(r)
			}
			log.Errorf("translation failed: %s", terr)
			program, err = nil, terr
		}
	}()

	t.names = normaliser.NewNameGenerator(t.opts.Seed)
	t.taken = make(map[string]bool)
	t.globals = make(map[string][]string)
	t.contractInvariants = make(map[string][]*boogie.ProofObligation)
	t.structInvariants = nil
	t.globalInvariants = nil
	t.sizeAssumptions = nil
	t.emptyMaps = make(map[string]*boogie.Type)
	t.procedures = make(map[string]*boogie.Procedure)
	t.callGraph = make(map[string][]string)

	structs := t.env.TypesOfKind(semantic.TypeStruct)
	contracts := t.env.TypesOfKind(semantic.TypeContract)

	decls := t.preamble()
	for _, s := range structs {
		decls = append(decls, t.structVariables(s)...)
	}
	for _, c := range contracts {
		decls = append(decls, t.contractVariables(c)...)
	}
	for _, e := range t.env.TypesOfKind(semantic.TypeEnum) {
		decls = append(decls, t.enumDeclarations(e)...)
	}

	for _, s := range structs {
		t.structInvariants = append(t.structInvariants, t.structInvariantObligations(s)...)
	}
	for _, c := range contracts {
		t.contractInvariants[c.Name] = t.contractInvariantObligations(c)
	}

	for _, s := range structs {
		for _, f := range append(append([]*semantic.FunctionInfo{}, s.Functions...), s.Initializers...) {
			decls = append(decls, t.function(f))
		}
	}
	for _, c := range contracts {
		for _, f := range append(append([]*semantic.FunctionInfo{}, c.Initializers...), c.Functions...) {
			decls = append(decls, t.function(f))
		}
	}
	t.propagateShadowModifies()

	program = &boogie.Program{CallGraph: t.callGraph}
	for _, c := range contracts {
		for _, spec := range c.Holistic {
			test, entry := t.holistic(c, spec)
			program.Holistic = append(program.Holistic, test)
			program.EntryPoints = append(program.EntryPoints, entry)
		}
	}

	program.Declarations = append(t.emptyMapDeclarations(), decls...)
	log.Infof("translated %d declarations, %d holistic checks", len(program.Declarations), len(program.Holistic))
	return program, nil
}

// fresh returns a new temporary identifier starting with prefix.
func (t *Translator) fresh(prefix string) string {
	name := t.names.Fresh(prefix, func(s string) bool { return t.taken[s] })
	t.taken[name] = true
	return name
}

// addCall records an edge of the call graph.
func (t *Translator) addCall(caller, callee string) {
	if caller == "" {
		return
	}
	for _, c := range t.callGraph[caller] {
		if c == callee {
			return
		}
	}
	t.callGraph[caller] = append(t.callGraph[caller], callee)
	sort.Strings(t.callGraph[caller])
}

// preamble declares the Wei accounting variables, the address type, the send
// procedure and the power function.
func (t *Translator) preamble() []boogie.Declaration {
	var decls []boogie.Declaration
	for _, name := range []string{totalValue, receivedValue, sentValue} {
		decls = append(decls, &boogie.VariableDeclaration{Name: name, RawName: name, Type: boogie.IntType()})
	}

	accounting := &boogie.TranslationInformation{
		Location:          ast.Position{Filename: stdlib.AccountingFilename, Line: 2, Column: 3},
		IsUserDirectCause: true,
		TriggerName:       accountingName,
	}
	t.globalInvariants = []*boogie.ProofObligation{{
		Expr: boogie.Equals(boogie.Ident(totalValue), boogie.Subtract(boogie.Ident(receivedValue), boogie.Ident(sentValue))),
		TI:   accounting,
	}}

	decls = append(decls, &boogie.TypeDeclaration{Name: AddressTypeName, Alias: boogie.IntType()})
	decls = append(decls, t.sendProcedure())
	return append(decls, powerDeclarations()...)
}

func (t *Translator) sendProcedure() *boogie.Procedure {
	wei := boogie.Ident("wei")
	raw := boogie.Read(boogie.Ident(rawValue), wei)
	proc := &boogie.Procedure{
		Name: SendProcedure,
		Parameters: []*boogie.Parameter{
			{Name: "address", Type: boogie.UserDefinedType(AddressTypeName)},
			{Name: "wei", Type: boogie.IntType()},
		},
		Post: []*boogie.ProofObligation{{Expr: boogie.Equals(raw, boogie.Int(0))}},
		Statements: []boogie.Statement{
			boogie.Assign(boogie.Ident(sentValue), boogie.Add(boogie.Ident(sentValue), raw), nil),
			boogie.Assign(boogie.Ident(totalValue), boogie.Subtract(boogie.Ident(totalValue), raw), nil),
			boogie.Assign(raw, boogie.Int(0), nil),
		},
		GlobalInvariants: t.globalInvariants,
		Inline:           true,
	}
	for _, v := range []string{rawValue, sentValue, totalValue} {
		proc.AddModifies(v, true)
	}
	t.procedures[proc.Name] = proc
	t.callGraph[proc.Name] = nil
	return proc
}

func powerDeclarations() []boogie.Declaration {
	n, e := boogie.Ident("n"), boogie.Ident("e")
	params := []*boogie.Parameter{{Name: "n", Type: boogie.IntType()}, {Name: "e", Type: boogie.IntType()}}
	power := func(args ...boogie.Expr) boogie.Expr { return boogie.Apply(PowerFunction, args...) }
	half := power(n, boogie.Divide(e, boogie.Int(2)))

	return []boogie.Declaration{
		&boogie.FunctionDeclaration{Name: PowerFunction, Parameters: params, ReturnName: "result", ReturnType: boogie.IntType()},
		&boogie.AxiomDeclaration{Proposition: boogie.Quantify(boogie.Forall, params,
			boogie.Implies(boogie.Equals(e, boogie.Int(0)), boogie.Equals(power(n, e), boogie.Int(1))))},
		&boogie.AxiomDeclaration{Proposition: boogie.Quantify(boogie.Forall, params,
			boogie.Implies(
				boogie.And(boogie.GreaterThan(e, boogie.Int(0)), boogie.Equals(boogie.Modulo(e, boogie.Int(2)), boogie.Int(0))),
				boogie.Equals(power(n, e), boogie.Multiply(half, half))))},
		&boogie.AxiomDeclaration{Proposition: boogie.Quantify(boogie.Forall, params,
			boogie.Implies(
				boogie.And(boogie.GreaterThan(e, boogie.Int(0)), boogie.Equals(boogie.Modulo(e, boogie.Int(2)), boogie.Int(1))),
				boogie.Equals(power(n, e), boogie.Multiply(n, power(n, boogie.Subtract(e, boogie.Int(1)))))))},
	}
}
