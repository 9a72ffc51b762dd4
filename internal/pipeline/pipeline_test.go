package pipeline_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flint/internal/config"
	"flint/internal/errors"
	"flint/internal/pipeline"
	"flint/internal/verifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vaultSource = `contract Vault {
  var total: Int = 0
}

Vault :: (any) {
  public init() {}

  public func check(x: Int) {
    assert(x > 0)
  }
}
`

const banner = "Boogie program verifier version 2.4.1.10503, Copyright (c) 2003-2014, Microsoft."

// scriptedBoogie answers every verifier run with respond applied to the program text.
type scriptedBoogie struct {
	runs    int
	respond func(program string) string
}

func (s *scriptedBoogie) Run(_ context.Context, name string, args ...string) (verifier.Output, error) {
	s.runs++
	data, err := os.ReadFile(args[0])
	if err != nil {
		return verifier.Output{}, err
	}
	return verifier.Output{Text: banner + "\n" + s.respond(string(data)) + "\nBoogie program verifier finished\n"}, nil
}

// assertionAt returns the rendered line of the assertion generated for source line.
func assertionAt(program string, line int) int {
	lines := strings.Split(program, "\n")
	marker := fmt.Sprintf("#MARKER# %d ", line)
	for i := 0; i+1 < len(lines); i++ {
		if strings.Contains(lines[i], marker) && strings.HasPrefix(strings.TrimSpace(lines[i+1]), "assert") {
			return i + 2
		}
	}
	return -1
}

func quietConfig() *config.Config {
	cfg := config.Default()
	cfg.CheckInconsistency = false
	cfg.CheckUnreachable = false
	cfg.Seed = 11
	return cfg
}

func newPipeline(cfg *config.Config, runner verifier.Runner) *pipeline.Pipeline {
	p := pipeline.New(cfg, runner)
	p.Output = io.Discard
	return p
}

func TestVerifiedSource(t *testing.T) {
	runner := &scriptedBoogie{respond: func(string) string { return "" }}
	result, err := newPipeline(quietConfig(), runner).Verify(context.Background(),
		[]pipeline.Source{{Path: "vault.flint", Text: vaultSource}})
	require.NoError(t, err)

	assert.True(t, result.Verified)
	assert.Empty(t, result.Diagnostics)
	assert.Equal(t, 1, runner.runs)
}

func TestFailingAssertionIsReportedAtSource(t *testing.T) {
	runner := &scriptedBoogie{respond: func(program string) string {
		line := assertionAt(program, 9)
		if line < 0 {
			return ""
		}
		return fmt.Sprintf("prog.bpl(%d,5): Error BP5001: This assertion might not hold.", line)
	}}
	result, err := newPipeline(quietConfig(), runner).Verify(context.Background(),
		[]pipeline.Source{{Path: "vault.flint", Text: vaultSource}})
	require.NoError(t, err)

	assert.False(t, result.Verified)
	require.Len(t, result.Diagnostics, 1)
	d := result.Diagnostics[0]
	assert.Equal(t, errors.ErrorAssertionFailure, d.Code)
	assert.Equal(t, "vault.flint", d.Location.Filename)
	assert.Equal(t, 9, d.Location.Line)
}

func TestSyntaxErrorsStopTheRun(t *testing.T) {
	runner := &scriptedBoogie{respond: func(string) string { return "" }}
	result, err := newPipeline(quietConfig(), runner).Verify(context.Background(),
		[]pipeline.Source{{Path: "broken.flint", Text: "contract Broken {\n  var x: = 1\n}\n"}})
	require.NoError(t, err)

	assert.False(t, result.Verified)
	require.NotEmpty(t, result.Diagnostics)
	assert.Equal(t, errors.ErrorSyntax, result.Diagnostics[0].Code)
	assert.Equal(t, "broken.flint", result.Diagnostics[0].Location.Filename)
	assert.Zero(t, runner.runs)
}

func TestTranslationErrorsAreDiagnostics(t *testing.T) {
	src := `contract Vault {
  var total: Int = 0
}

Vault :: (any) {
  public init() {}

  public func run() {
    missing(1)
  }
}
`
	runner := &scriptedBoogie{respond: func(string) string { return "" }}
	result, err := newPipeline(quietConfig(), runner).Verify(context.Background(),
		[]pipeline.Source{{Path: "vault.flint", Text: src}})
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, errors.ErrorUnmatchedCall, result.Diagnostics[0].Code)
	assert.Zero(t, runner.runs)
}

func TestDuplicateDeclarations(t *testing.T) {
	runner := &scriptedBoogie{respond: func(string) string { return "" }}
	result, err := newPipeline(quietConfig(), runner).Verify(context.Background(), []pipeline.Source{
		{Path: "a.flint", Text: "contract Vault {\n}\n"},
		{Path: "b.flint", Text: "contract Vault {\n}\n"},
	})
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, errors.ErrorDeclaration, result.Diagnostics[0].Code)
}

func TestReadSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vault.flint")
	require.NoError(t, os.WriteFile(path, []byte(vaultSource), 0o644))

	sources, err := pipeline.ReadSources([]string{path})
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, vaultSource, sources[0].Text)

	_, err = pipeline.ReadSources([]string{filepath.Join(dir, "missing.flint")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
