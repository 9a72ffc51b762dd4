// Package config holds the settings of a verification run.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"flint/internal/translator"
	"flint/internal/verifier"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no file is named.
const DefaultFile = ".flint-verify.yaml"

// Config is the content of a configuration file. Command line flags override it.
type Config struct {
	BoogiePath     string   `yaml:"boogie_path"`
	SymbooglixPath string   `yaml:"symbooglix_path"`
	MonoPath       string   `yaml:"mono_path"`
	BoogieArgs     []string `yaml:"boogie_args"`

	// HolisticTimeout is in seconds.
	HolisticTimeout  int  `yaml:"holistic_timeout"`
	TransactionDepth int  `yaml:"transaction_depth"`
	SkipHolistic     bool `yaml:"skip_holistic"`

	CheckInconsistency bool `yaml:"check_inconsistency"`
	CheckUnreachable   bool `yaml:"check_unreachable"`
	MaxParallel        int  `yaml:"max_parallel"`

	DumpIR              bool `yaml:"dump_ir"`
	PrintVerifierOutput bool `yaml:"print_verifier_output"`
	PrintHolisticStats  bool `yaml:"print_holistic_stats"`

	Seed             int64  `yaml:"seed"`
	MinBoogieVersion string `yaml:"min_boogie_version"`
}

func Default() *Config {
	return &Config{
		BoogiePath:         "boogie",
		SymbooglixPath:     "symbooglix",
		BoogieArgs:         []string{"/inline:spec", "/loopUnroll:5"},
		HolisticTimeout:    30,
		TransactionDepth:   5,
		CheckInconsistency: true,
		CheckUnreachable:   true,
		MaxParallel:        4,
		MinBoogieVersion:   "2.3.0",
	}
}

// Load reads the file at path over the defaults. An empty path reads DefaultFile,
// whose absence is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	optional := path == ""
	if optional {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if optional && stderrors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings no run could use.
func (c *Config) Validate() error {
	if c.BoogiePath == "" {
		return fmt.Errorf("boogie_path is required")
	}
	if c.HolisticTimeout <= 0 {
		return fmt.Errorf("holistic_timeout must be positive, got %d", c.HolisticTimeout)
	}
	if c.TransactionDepth <= 0 {
		return fmt.Errorf("transaction_depth must be positive, got %d", c.TransactionDepth)
	}
	if c.MaxParallel <= 0 {
		return fmt.Errorf("max_parallel must be positive, got %d", c.MaxParallel)
	}
	if c.MinBoogieVersion != "" {
		if _, err := semver.NewVersion(c.MinBoogieVersion); err != nil {
			return fmt.Errorf("min_boogie_version: %w", err)
		}
	}
	return nil
}

func (c *Config) TranslatorOptions() translator.Options {
	return translator.Options{Seed: c.Seed, TransactionDepth: c.TransactionDepth}
}

func (c *Config) VerifierOptions() verifier.Options {
	return verifier.Options{
		BoogiePath:          c.BoogiePath,
		SymbooglixPath:      c.SymbooglixPath,
		MonoPath:            c.MonoPath,
		BoogieArgs:          c.BoogieArgs,
		HolisticTimeout:     time.Duration(c.HolisticTimeout) * time.Second,
		SkipHolistic:        c.SkipHolistic,
		CheckInconsistency:  c.CheckInconsistency,
		CheckUnreachable:    c.CheckUnreachable,
		MaxParallel:         c.MaxParallel,
		DumpIR:              c.DumpIR,
		PrintVerifierOutput: c.PrintVerifierOutput,
		PrintHolisticStats:  c.PrintHolisticStats,
		MinBoogieVersion:    c.MinBoogieVersion,
	}
}
