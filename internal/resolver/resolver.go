// Package resolver completes the modifies clauses of a translated program and folds
// invariants into the contracts of its procedures.
package resolver

import (
	"sort"

	"flint/internal/boogie"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("flint.resolver")

// Resolve returns the printable form of program. Every procedure inherits the user
// declared writes of the procedures it calls, directly or not; holistic procedures
// inherit every write.
func Resolve(program *boogie.Program) *boogie.ResolvedProgram {
	procedures := make(map[string]*boogie.Procedure)
	for _, p := range program.Procedures() {
		procedures[p.Name] = p
	}
	modifies := closeModifies(procedures, program.CallGraph)

	resolve := func(decls []boogie.Declaration) []boogie.Declaration {
		out := make([]boogie.Declaration, len(decls))
		for i, d := range decls {
			if p, ok := d.(*boogie.Procedure); ok {
				out[i] = resolveProcedure(p, modifies[p.Name])
				continue
			}
			out[i] = d
		}
		return out
	}

	resolved := &boogie.ResolvedProgram{
		Declarations: resolve(program.Declarations),
		EntryPoints:  program.EntryPoints,
	}
	for _, h := range program.Holistic {
		resolved.Holistic = append(resolved.Holistic, &boogie.HolisticTest{Spec: h.Spec, Declarations: resolve(h.Declarations)})
	}
	log.Infof("resolved %d procedures", len(procedures))
	return resolved
}

// closeModifies propagates modifies entries from callees to callers until nothing
// changes. A caller is revisited only when one of its callees gained an entry.
func closeModifies(procedures map[string]*boogie.Procedure, callGraph map[string][]string) map[string]map[string]bool {
	modifies := make(map[string]map[string]bool, len(procedures))
	callers := make(map[string][]string)
	names := make([]string, 0, len(procedures))
	for name, p := range procedures {
		names = append(names, name)
		entries := make(map[string]bool, len(p.Modifies))
		for _, m := range p.Modifies {
			entries[m.Variable] = entries[m.Variable] || m.UserDefined
		}
		modifies[name] = entries
	}
	sort.Strings(names)
	for _, caller := range names {
		for _, callee := range callGraph[caller] {
			callers[callee] = append(callers[callee], caller)
		}
	}

	queue := append([]string{}, names...)
	queued := make(map[string]bool, len(names))
	for _, name := range names {
		queued[name] = true
	}
	for len(queue) > 0 {
		callee := queue[0]
		queue = queue[1:]
		queued[callee] = false

		for _, caller := range callers[callee] {
			p, ok := procedures[caller]
			if !ok {
				continue
			}
			if inherit(modifies[caller], modifies[callee], p.IsHolistic) && !queued[caller] {
				queue = append(queue, caller)
				queued[caller] = true
			}
		}
	}
	return modifies
}

// inherit adds the eligible entries of callee to caller and reports whether caller
// changed.
func inherit(caller, callee map[string]bool, holistic bool) bool {
	changed := false
	for variable, user := range callee {
		if !user && !holistic {
			continue
		}
		current, ok := caller[variable]
		if !ok || (user && !current) {
			caller[variable] = current || user
			changed = true
		}
	}
	return changed
}

func resolveProcedure(p *boogie.Procedure, modifies map[string]bool) *boogie.ResolvedProcedure {
	resolved := &boogie.ResolvedProcedure{
		Name:        p.Name,
		ReturnTypes: p.ReturnTypes,
		ReturnNames: p.ReturnNames,
		Parameters:  p.Parameters,
		Pre:         append([]*boogie.ProofObligation{}, p.Pre...),
		Post:        append([]*boogie.ProofObligation{}, p.Post...),
		Statements:  p.Statements,
		Variables:   p.Variables,
		Inline:      p.Inline,
		TI:          p.TI,
	}
	for variable := range modifies {
		resolved.Modifies = append(resolved.Modifies, variable)
	}
	sort.Strings(resolved.Modifies)

	// Struct invariants are also assumed by struct initialisers: instances allocated
	// before the new one must already satisfy them.
	for _, inv := range p.StructInvariants {
		if !inv.TwoState {
			resolved.Pre = append(resolved.Pre, asInvariant(inv))
		}
		resolved.Post = append(resolved.Post, asInvariant(inv))
	}
	for _, inv := range append(append([]*boogie.ProofObligation{}, p.ContractInvariants...), p.GlobalInvariants...) {
		if !inv.TwoState && !p.IsContractInit {
			resolved.Pre = append(resolved.Pre, asInvariant(inv))
		}
		resolved.Post = append(resolved.Post, asInvariant(inv))
	}
	return resolved
}

func asInvariant(o *boogie.ProofObligation) *boogie.ProofObligation {
	if o.TI == nil {
		return o
	}
	ti := *o.TI
	ti.IsInvariant = true
	return &boogie.ProofObligation{Expr: o.Expr, TI: &ti, TwoState: o.TwoState}
}
