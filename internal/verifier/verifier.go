// Package verifier runs the Boogie verifier and the Symbooglix symbolic executor on
// translated programs and turns what they report into diagnostics about the Flint
// source.
package verifier

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"flint/internal/ast"
	"flint/internal/boogie"
	"flint/internal/errors"
	"flint/internal/stdlib"

	"github.com/Masterminds/semver/v3"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("flint.verifier")

// Options configure the tools and the analyses of a Verifier.
type Options struct {
	BoogiePath     string
	SymbooglixPath string

	// MonoPath runs both tools through mono when set.
	MonoPath   string
	BoogieArgs []string

	HolisticTimeout time.Duration
	SkipHolistic    bool

	CheckInconsistency bool
	CheckUnreachable   bool

	// MaxParallel bounds the verifier processes of the unreachable code analysis.
	// Zero means no bound.
	MaxParallel int

	DumpIR              bool
	PrintVerifierOutput bool
	PrintHolisticStats  bool

	// MinBoogieVersion is compared with the version in the verifier banner.
	MinBoogieVersion string

	// TempDir receives the program files and the symbolic execution results.
	TempDir string

	// Output receives the raw verifier output when PrintVerifierOutput is set.
	Output io.Writer
}

// Result is the outcome of verifying one program.
type Result struct {
	Verified    bool
	Diagnostics []errors.Diagnostic

	// Program is the rendered functional program, kept only when DumpIR is set.
	Program string
}

// Verifier checks translated programs.
type Verifier struct {
	opts   Options
	runner Runner
}

func New(opts Options, runner Runner) *Verifier {
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Verifier{opts: opts, runner: runner}
}

// Verify proves the functional program, then runs the enabled analyses and, if the
// proof succeeded, the holistic checks. Failures of the contract are reported as
// diagnostics; the returned error is reserved for tool failures.
func (v *Verifier) Verify(ctx context.Context, program *boogie.ResolvedProgram) (*Result, error) {
	text, lines := boogie.Print(program.Functional())
	result := &Result{}
	if v.opts.DumpIR {
		result.Program = text
	}

	output, err := v.runBoogie(ctx, text, v.opts.PrintVerifierOutput)
	if err != nil {
		return nil, err
	}
	if d, ok := v.versionWarning(output); ok {
		result.Diagnostics = append(result.Diagnostics, d)
	}

	failures, err := ParseOutput(output)
	if err != nil {
		return nil, err
	}
	diagnostics, err := diagnose(failures, lines)
	if err != nil {
		return nil, err
	}
	result.Diagnostics = append(result.Diagnostics, diagnostics...)
	result.Verified = len(failures) == 0
	log.Infof("functional verification finished with %d failures", len(failures))

	if !hasToolFailure(failures) {
		if v.opts.CheckInconsistency {
			found, err := v.inconsistentAssumptions(ctx, program.Functional())
			if err != nil {
				return nil, err
			}
			result.Diagnostics = append(result.Diagnostics, found...)
		}
		if v.opts.CheckUnreachable {
			found, err := v.unreachableCode(ctx, program.Functional())
			if err != nil {
				return nil, err
			}
			result.Diagnostics = append(result.Diagnostics, found...)
		}
	}

	if result.Verified && !v.opts.SkipHolistic {
		for i, test := range program.Holistic {
			stats, err := v.holistic(ctx, program, i)
			if err != nil {
				return nil, err
			}
			if stats.Verified() {
				continue
			}
			result.Verified = false
			var shown *errors.HolisticStatistics
			if v.opts.PrintHolisticStats {
				shown = &stats
			}
			result.Diagnostics = append(result.Diagnostics, errors.HolisticFailure(test.Spec, shown))
		}
	}

	result.Diagnostics = withoutLibraryWarnings(result.Diagnostics)
	return result, nil
}

// runBoogie verifies program text and returns the verifier output.
func (v *Verifier) runBoogie(ctx context.Context, text string, echo bool) (string, error) {
	path, err := writeProgram(v.opts.TempDir, text)
	if err != nil {
		return "", err
	}
	defer os.Remove(path)

	name, args := v.command(v.opts.BoogiePath, append([]string{path}, v.opts.BoogieArgs...)...)
	log.Debugf("running %s %s", name, strings.Join(args, " "))
	out, err := v.runner.Run(ctx, name, args...)
	if err != nil {
		return "", err
	}
	if echo {
		fmt.Fprintln(v.opts.Output, out.Text)
	}
	if out.ExitCode != 0 {
		log.Errorf("%s exited with status %d", name, out.ExitCode)
		return "", fmt.Errorf("%w: %s exited with status %d\n%s", ErrVerifierExit, name, out.ExitCode, out.Text)
	}
	if strings.TrimSpace(out.Text) == "" {
		log.Errorf("%s printed nothing", name)
		return "", fmt.Errorf("%w: %s printed nothing", ErrMalformedOutput, name)
	}
	return out.Text, nil
}

func (v *Verifier) versionWarning(output string) (errors.Diagnostic, bool) {
	if v.opts.MinBoogieVersion == "" {
		return errors.Diagnostic{}, false
	}
	minimum, err := semver.NewVersion(v.opts.MinBoogieVersion)
	if err != nil {
		log.Warningf("ignoring minimum verifier version %q: %s", v.opts.MinBoogieVersion, err)
		return errors.Diagnostic{}, false
	}
	got, ok := BannerVersion(output)
	if !ok {
		log.Debugf("no version in verifier banner")
		return errors.Diagnostic{}, false
	}
	if !got.LessThan(minimum) {
		return errors.Diagnostic{}, false
	}
	log.Warningf("verifier version %s is older than %s", got, minimum)
	msg := fmt.Sprintf("Boogie %s is older than the supported minimum %s", got, minimum)
	return errors.NewWarning(errors.WarningVerifierVersion, msg, ast.Position{}).Build(), true
}

func hasToolFailure(failures []Failure) bool {
	for _, f := range failures {
		if f.Kind == ModifiesFailure || f.Kind == GenericFailure {
			return true
		}
	}
	return false
}

// withoutLibraryWarnings drops warnings about the standard library, which the user
// cannot act on.
func withoutLibraryWarnings(diagnostics []errors.Diagnostic) []errors.Diagnostic {
	out := diagnostics[:0]
	for _, d := range diagnostics {
		if d.Severity == errors.Warning && stdlib.IsStdlibPosition(d.Location) {
			continue
		}
		out = append(out, d)
	}
	return out
}
