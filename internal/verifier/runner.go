package verifier

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
)

// Runner launches an external tool and collects what it printed on standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Output, error)
}

// Output is the captured standard output and exit status of a tool run.
type Output struct {
	Text     string
	ExitCode int
}

// ExecRunner runs tools as subprocesses. Standard error is discarded.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = io.Discard

	err := cmd.Run()
	var exit *exec.ExitError
	if stderrors.As(err, &exit) {
		return Output{Text: stdout.String(), ExitCode: exit.ExitCode()}, nil
	}
	if err != nil {
		return Output{}, fmt.Errorf("running %s: %w", name, err)
	}
	return Output{Text: stdout.String()}, nil
}

// writeProgram stores text in a new file of dir and returns its path. The name is a
// random UUID so concurrent runs never share a file.
func writeProgram(dir, text string) (string, error) {
	path := filepath.Join(dir, uuid.NewString()+".bpl")
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return "", fmt.Errorf("writing verification program: %w", err)
	}
	return path, nil
}

// command returns the executable and arguments launching tool, through mono when a
// mono path is configured.
func (v *Verifier) command(tool string, args ...string) (string, []string) {
	if v.opts.MonoPath == "" {
		return tool, args
	}
	return v.opts.MonoPath, append([]string{tool}, args...)
}
