// Package pipeline verifies Flint sources end to end: parsing with the prelude,
// building the environment, translation, modifies resolution and verification.
package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"flint/internal/ast"
	"flint/internal/config"
	"flint/internal/errors"
	"flint/internal/parser"
	"flint/internal/resolver"
	"flint/internal/semantic"
	"flint/internal/stdlib"
	"flint/internal/translator"
	"flint/internal/verifier"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("flint.pipeline")

// Source is the text of one Flint file.
type Source struct {
	Path string
	Text string
}

// ReadSources reads the files at paths.
func ReadSources(paths []string) ([]Source, error) {
	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		sources = append(sources, Source{Path: path, Text: string(data)})
	}
	return sources, nil
}

// Pipeline verifies sources with one configuration.
type Pipeline struct {
	cfg    *config.Config
	runner verifier.Runner

	// Output receives the raw verifier output when the configuration asks for it.
	Output io.Writer
}

// New returns a pipeline running the tools with runner, subprocesses when nil.
func New(cfg *config.Config, runner verifier.Runner) *Pipeline {
	return &Pipeline{cfg: cfg, runner: runner, Output: os.Stdout}
}

// Verify checks sources. Problems in the sources, from syntax errors to failed
// proofs, are diagnostics of the result; the error reports tool failures.
func (p *Pipeline) Verify(ctx context.Context, sources []Source) (*verifier.Result, error) {
	module, diagnostics := parse(sources)
	if len(diagnostics) > 0 {
		return &verifier.Result{Diagnostics: diagnostics}, nil
	}

	env, err := semantic.NewEnvironment(module)
	if err != nil {
		log.Errorf("%s", err)
		d := errors.NewError(errors.ErrorDeclaration, err.Error(), ast.Position{}).Build()
		return &verifier.Result{Diagnostics: []errors.Diagnostic{d}}, nil
	}

	program, err := translator.New(env, p.cfg.TranslatorOptions()).Translate()
	var terr *errors.TranslationError
	if stderrors.As(err, &terr) {
		return &verifier.Result{Diagnostics: []errors.Diagnostic{terr.Diagnostic()}}, nil
	}
	if err != nil {
		return nil, err
	}

	opts := p.cfg.VerifierOptions()
	opts.Output = p.Output
	return verifier.New(opts, p.runner).Verify(ctx, resolver.Resolve(program))
}

// parse parses every source behind the prelude.
func parse(sources []Source) (*ast.Module, []errors.Diagnostic) {
	prelude, errs := parser.ParseSource(stdlib.PreludeFilename, stdlib.Prelude)
	if len(errs) > 0 {
		panic(fmt.Sprintf("pipeline: prelude does not parse: %v", errs))
	}

	modules := []*ast.Module{prelude}
	var diagnostics []errors.Diagnostic
	for _, src := range sources {
		module, errs := parser.ParseSource(src.Path, src.Text)
		for _, e := range errs {
			diagnostics = append(diagnostics, errors.NewError(errors.ErrorSyntax, e.Message, e.Position).Build())
		}
		modules = append(modules, module)
	}
	log.Debugf("parsed %d sources", len(sources))
	return parser.Merge(modules...), diagnostics
}
