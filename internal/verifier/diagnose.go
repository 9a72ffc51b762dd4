package verifier

import (
	"fmt"

	"flint/internal/ast"
	"flint/internal/boogie"
	"flint/internal/errors"
)

// diagnose maps failures through the line map of the rendered program to
// diagnostics about the source.
func diagnose(failures []Failure, lines boogie.LineMap) ([]errors.Diagnostic, error) {
	lookup := func(line int) (*boogie.TranslationInformation, error) {
		ti, ok := lines[line]
		if !ok {
			log.Errorf("no translation information for line %d", line)
			return nil, fmt.Errorf("%w %d", ErrUnmappedLine, line)
		}
		return ti, nil
	}

	var out []errors.Diagnostic
	for _, f := range failures {
		switch f.Kind {
		case AssertionFailure:
			ti, err := lookup(f.Line)
			if err != nil {
				return nil, err
			}
			out = append(out, assertionDiagnostic(ti))

		case PreconditionFailure, PostconditionFailure:
			site, err := lookup(f.Line)
			if err != nil {
				return nil, err
			}
			clause, err := lookup(f.Related)
			if err != nil {
				return nil, err
			}
			if f.Kind == PreconditionFailure {
				out = append(out, errors.PreconditionFailure(site.Location, clause.Location, clause.IsInvariant, clause.TriggerName))
			} else {
				out = append(out, errors.PostconditionFailure(site.Location, clause.Location, clause.IsInvariant, clause.TriggerName))
			}

		case LoopInvariantEntryFailure:
			ti, err := lookup(f.Line)
			if err != nil {
				return nil, err
			}
			out = append(out, errors.LoopInvariantEntry(ti.FailingMsg, ti.Location))

		case ModifiesFailure, GenericFailure:
			log.Warningf("verifier rejected the generated program: %s", f.Text)
			out = append(out, errors.ToolFailure(f.Text, f.Kind == ModifiesFailure))
		}
	}
	return out, nil
}

func assertionDiagnostic(ti *boogie.TranslationInformation) errors.Diagnostic {
	msg := ti.FailingMsg
	if msg == "" {
		msg = "Could not verify assertion holds"
		if ti.IsExternalCall {
			msg = "Could not verify safe call to external function"
		}
	}
	var related *ast.Position
	if ti.Related != nil {
		related = &ti.Related.Location
	}
	return errors.AssertionFailure(msg, ti.Location, related)
}
