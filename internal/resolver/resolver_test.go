package resolver

import (
	"testing"

	"flint/internal/ast"
	"flint/internal/boogie"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func proc(name string, entries ...boogie.ModifiesEntry) *boogie.Procedure {
	return &boogie.Procedure{Name: name, Modifies: entries}
}

func user(v string) boogie.ModifiesEntry   { return boogie.ModifiesEntry{Variable: v, UserDefined: true} }
func shadow(v string) boogie.ModifiesEntry { return boogie.ModifiesEntry{Variable: v} }

func resolvedByName(t *testing.T, program *boogie.ResolvedProgram) map[string]*boogie.ResolvedProcedure {
	t.Helper()
	out := make(map[string]*boogie.ResolvedProcedure)
	for _, p := range boogie.ResolvedProcedures(program.Declarations) {
		out[p.Name] = p
	}
	for _, h := range program.Holistic {
		for _, p := range boogie.ResolvedProcedures(h.Declarations) {
			out[p.Name] = p
		}
	}
	return out
}

func TestUserModifiesPropagateTransitively(t *testing.T) {
	program := &boogie.Program{
		Declarations: []boogie.Declaration{
			proc("a"),
			proc("b", shadow("state_C")),
			proc("c", user("balance_C"), shadow("size_0_list_C")),
		},
		CallGraph: map[string][]string{"a": {"b"}, "b": {"c"}},
	}
	procs := resolvedByName(t, Resolve(program))

	assert.Equal(t, []string{"balance_C"}, procs["a"].Modifies)
	assert.Equal(t, []string{"balance_C", "state_C"}, procs["b"].Modifies)
	assert.Equal(t, []string{"balance_C", "size_0_list_C"}, procs["c"].Modifies)
}

func TestHolisticProceduresInheritEverything(t *testing.T) {
	main := proc("Main_x")
	main.IsHolistic = true
	program := &boogie.Program{
		Declarations: []boogie.Declaration{proc("f", shadow("state_C"), user("x_C"))},
		Holistic:     []*boogie.HolisticTest{{Declarations: []boogie.Declaration{main}}},
		EntryPoints:  []string{"Main_x"},
		CallGraph:    map[string][]string{"Main_x": {"f"}},
	}
	resolved := Resolve(program)
	procs := resolvedByName(t, resolved)

	assert.Equal(t, []string{"state_C", "x_C"}, procs["Main_x"].Modifies)
	assert.Equal(t, []string{"Main_x"}, resolved.EntryPoints)
}

func TestRecursionReachesFixedPoint(t *testing.T) {
	program := &boogie.Program{
		Declarations: []boogie.Declaration{
			proc("even", user("e_C")),
			proc("odd", user("o_C")),
			proc("entry"),
		},
		CallGraph: map[string][]string{"even": {"odd"}, "odd": {"even"}, "entry": {"even"}},
	}
	procs := resolvedByName(t, Resolve(program))

	for _, name := range []string{"even", "odd", "entry"} {
		assert.Equal(t, []string{"e_C", "o_C"}, procs[name].Modifies, name)
	}
}

func TestUnknownCalleesAreIgnored(t *testing.T) {
	program := &boogie.Program{
		Declarations: []boogie.Declaration{proc("f")},
		CallGraph:    map[string][]string{"f": {"missing"}, "ghost": {"f"}},
	}
	procs := resolvedByName(t, Resolve(program))
	assert.Empty(t, procs["f"].Modifies)
}

func TestInvariantFolding(t *testing.T) {
	at := func(line int) *boogie.TranslationInformation {
		return boogie.NewTI(ast.Position{Filename: "bank.flint", Line: line, Column: 3})
	}
	structInv := &boogie.ProofObligation{Expr: boogie.Ident("s"), TI: at(1)}
	contractInv := &boogie.ProofObligation{Expr: boogie.Ident("c"), TI: at(2)}
	globalInv := &boogie.ProofObligation{Expr: boogie.Ident("g"), TI: at(3)}
	twoState := &boogie.ProofObligation{Expr: boogie.Old(boogie.Ident("c")), TI: at(4), TwoState: true}

	withInvariants := func(p *boogie.Procedure) *boogie.Procedure {
		p.Pre = []*boogie.ProofObligation{{Expr: boogie.Ident("pre"), TI: at(9)}}
		p.StructInvariants = []*boogie.ProofObligation{structInv}
		p.ContractInvariants = []*boogie.ProofObligation{contractInv, twoState}
		p.GlobalInvariants = []*boogie.ProofObligation{globalInv}
		return p
	}
	init := withInvariants(proc("init_C"))
	init.IsContractInit = true
	structInit := withInvariants(proc("init_S"))
	structInit.IsStructInit = true

	program := &boogie.Program{Declarations: []boogie.Declaration{withInvariants(proc("f")), init, structInit}}
	procs := resolvedByName(t, Resolve(program))

	exprs := func(list []*boogie.ProofObligation) []string {
		out := make([]string, len(list))
		for i, o := range list {
			out[i] = o.Expr.String()
		}
		return out
	}

	assert.Equal(t, []string{"pre", "s", "c", "g"}, exprs(procs["f"].Pre))
	assert.Equal(t, []string{"s", "c", "old(c)", "g"}, exprs(procs["f"].Post))
	assert.Equal(t, []string{"pre", "s"}, exprs(procs["init_C"].Pre))
	assert.Equal(t, []string{"s", "c", "old(c)", "g"}, exprs(procs["init_C"].Post))
	assert.Equal(t, []string{"pre", "s", "c", "g"}, exprs(procs["init_S"].Pre))

	require.Len(t, procs["f"].Post, 4)
	for _, o := range procs["f"].Post {
		assert.True(t, o.TI.IsInvariant)
	}
	assert.False(t, procs["f"].Pre[0].TI.IsInvariant)
	assert.False(t, contractInv.TI.IsInvariant, "the shared invariant must not be modified")
}
