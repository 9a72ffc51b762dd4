package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flint/internal/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFlagsOverrideConfig(t *testing.T) {
	path := writeFile(t, "flint.yaml", "boogie_path: /opt/boogie/Boogie.exe\nmax_parallel: 2\nseed: 9\n")

	opts := &options{}
	cmd := newRootCommand(opts)
	require.NoError(t, cmd.ParseFlags([]string{
		"--config", path,
		"--parallel", "6",
		"--no-unreachable",
		"--mono", "/usr/bin/mono",
	}))

	cfg, err := loadConfig(cmd, opts)
	require.NoError(t, err)
	assert.Equal(t, "/opt/boogie/Boogie.exe", cfg.BoogiePath)
	assert.Equal(t, "/usr/bin/mono", cfg.MonoPath)
	assert.Equal(t, 6, cfg.MaxParallel)
	assert.False(t, cfg.CheckUnreachable)
	assert.True(t, cfg.CheckInconsistency, "flags that were not given keep the file's value")
	assert.Equal(t, int64(9), cfg.Seed)
}

func TestInvalidFlagsAreRejected(t *testing.T) {
	opts := &options{}
	cmd := newRootCommand(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--config", writeFile(t, "flint.yaml", "{}\n"), "--holistic-timeout", "0"}))

	_, err := loadConfig(cmd, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "holistic_timeout")
}

func TestVerifyPrintsSyntaxErrors(t *testing.T) {
	path := writeFile(t, "broken.flint", "contract Broken {\n  var x: = 1\n}\n")

	var out bytes.Buffer
	err := verify(context.Background(), &out, config.Default(), []string{path})
	assert.ErrorIs(t, err, errNotVerified)
	assert.Contains(t, out.String(), path)
	assert.Contains(t, out.String(), "Verification failed")
}

func TestVerifyNeedsReadableFiles(t *testing.T) {
	var out bytes.Buffer
	err := verify(context.Background(), &out, config.Default(), []string{filepath.Join(t.TempDir(), "missing.flint")})
	require.Error(t, err)
	assert.NotErrorIs(t, err, errNotVerified)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
