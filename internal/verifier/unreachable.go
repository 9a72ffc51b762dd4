package verifier

import (
	"context"
	"fmt"

	"flint/internal/ast"
	"flint/internal/boogie"
	"flint/internal/errors"

	"golang.org/x/sync/errgroup"
)

// condition identifies one assertion made about a branch condition.
type condition struct {
	location   ast.Position
	alwaysTrue bool
}

// variant is a copy of the program where one branch statement was replaced by an
// assertion about its condition.
type variant struct {
	decls  []boogie.Declaration
	target condition
}

type replacement struct {
	statement boogie.Statement
	target    condition
}

type alternative struct {
	statements []boogie.Statement
	target     condition
}

// unreachableCode verifies, for every user written branch, a variant asserting its
// condition and one asserting the negation. A variant that verifies proves the
// condition constant. Variants are verified concurrently.
func (v *Verifier) unreachableCode(ctx context.Context, decls []boogie.Declaration) ([]errors.Diagnostic, error) {
	variants := unreachableVariants(decls)
	log.Infof("checking %d branch conditions", len(variants))

	constant := make([]bool, len(variants))
	g, gctx := errgroup.WithContext(ctx)
	if v.opts.MaxParallel > 0 {
		g.SetLimit(v.opts.MaxParallel)
	}
	for i, variant := range variants {
		i, variant := i, variant
		g.Go(func() error {
			text, lines := boogie.Print(variant.decls)
			output, err := v.runBoogie(gctx, text, false)
			if err != nil {
				return err
			}
			failures, err := ParseOutput(output)
			if err != nil {
				return err
			}
			reported, err := targetReported(failures, lines, variant.target)
			if err != nil {
				return err
			}
			constant[i] = !reported
			log.Debugf("%s: condition always %t: %t", variant.target.location, variant.target.alwaysTrue, constant[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []errors.Diagnostic
	for i, variant := range variants {
		if constant[i] {
			out = append(out, errors.UnreachableCode(variant.target.location, variant.target.alwaysTrue))
		}
	}
	return out, nil
}

// targetReported reports whether an assertion failure maps to the location of target.
func targetReported(failures []Failure, lines boogie.LineMap, target condition) (bool, error) {
	for _, f := range failures {
		if f.Kind != AssertionFailure {
			continue
		}
		ti, ok := lines[f.Line]
		if !ok {
			return false, fmt.Errorf("%w %d", ErrUnmappedLine, f.Line)
		}
		if ti.Location == target.location {
			return true, nil
		}
	}
	return false, nil
}

func unreachableVariants(decls []boogie.Declaration) []variant {
	var out []variant
	for i, d := range decls {
		p, ok := d.(*boogie.ResolvedProcedure)
		if !ok {
			continue
		}
		for _, alt := range statementAlternatives(p.Statements) {
			copied := append([]boogie.Declaration{}, decls...)
			copied[i] = p.WithStatements(alt.statements, p.Variables)
			out = append(out, variant{decls: copied, target: alt.target})
		}
	}
	return out
}

func statementAlternatives(stmts []boogie.Statement) []alternative {
	var out []alternative
	for i, s := range stmts {
		for _, r := range replacements(s) {
			copied := append([]boogie.Statement{}, stmts...)
			copied[i] = r.statement
			out = append(out, alternative{statements: copied, target: r.target})
		}
	}
	return out
}

func replacements(s boogie.Statement) []replacement {
	var out []replacement
	switch s := s.(type) {
	case *boogie.IfStatement:
		out = conditionChecks(s.Condition, s.TI)
		for _, alt := range statementAlternatives(s.Then) {
			clone := *s
			clone.Then = alt.statements
			out = append(out, replacement{statement: &clone, target: alt.target})
		}
		for _, alt := range statementAlternatives(s.Else) {
			clone := *s
			clone.Else = alt.statements
			out = append(out, replacement{statement: &clone, target: alt.target})
		}
	case *boogie.WhileStatement:
		out = conditionChecks(s.Condition, s.TI)
		for _, alt := range statementAlternatives(s.Body) {
			clone := *s
			clone.Body = alt.statements
			out = append(out, replacement{statement: &clone, target: alt.target})
		}
	}
	return out
}

// conditionChecks asserts cond and its negation in place of a branch written by the
// user. Synthesised branches are not checked.
func conditionChecks(cond boogie.Expr, ti *boogie.TranslationInformation) []replacement {
	if ti == nil || !ti.IsUserDirectCause {
		return nil
	}
	return []replacement{
		{statement: boogie.Assert(cond, ti), target: condition{location: ti.Location, alwaysTrue: true}},
		{statement: boogie.Assert(boogie.Not(cond), ti), target: condition{location: ti.Location, alwaysTrue: false}},
	}
}
