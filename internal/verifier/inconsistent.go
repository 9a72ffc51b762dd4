package verifier

import (
	"context"
	"fmt"

	"flint/internal/ast"
	"flint/internal/boogie"
	"flint/internal/errors"
)

// inconsistentAssumptions replaces every procedure body with `assert false`. A
// procedure for which the assertion is not reported verifies trivially, so its
// preconditions contradict each other.
func (v *Verifier) inconsistentAssumptions(ctx context.Context, decls []boogie.Declaration) ([]errors.Diagnostic, error) {
	procedures := make(map[ast.Position]*boogie.ResolvedProcedure)
	var order []ast.Position
	replaced := make([]boogie.Declaration, len(decls))
	for i, d := range decls {
		p, ok := d.(*boogie.ResolvedProcedure)
		if !ok || p.TI == nil {
			replaced[i] = d
			continue
		}
		ti := &boogie.TranslationInformation{Location: p.TI.Location}
		replaced[i] = p.WithStatements([]boogie.Statement{boogie.Assert(boogie.Bool(false), ti)}, nil)
		if _, seen := procedures[p.TI.Location]; !seen {
			order = append(order, p.TI.Location)
		}
		procedures[p.TI.Location] = p
	}

	text, lines := boogie.Print(replaced)
	output, err := v.runBoogie(ctx, text, false)
	if err != nil {
		return nil, err
	}
	failures, err := ParseOutput(output)
	if err != nil {
		return nil, err
	}

	consistent := make(map[ast.Position]bool)
	for _, f := range failures {
		if f.Kind != AssertionFailure {
			log.Warningf("ignoring %s failure in the inconsistency check", f.Kind)
			continue
		}
		ti, ok := lines[f.Line]
		if !ok {
			return nil, fmt.Errorf("%w %d", ErrUnmappedLine, f.Line)
		}
		consistent[ti.Location] = true
	}

	var out []errors.Diagnostic
	for _, pos := range order {
		if consistent[pos] {
			continue
		}
		var causes []ast.Position
		for _, pre := range procedures[pos].Pre {
			if pre.TI != nil {
				causes = append(causes, pre.TI.Location)
			}
		}
		log.Debugf("%s: inconsistent preconditions in %s", pos, procedures[pos].Name)
		out = append(out, errors.InconsistentPreconditions(pos, causes))
	}
	return out, nil
}
