// SPDX-License-Identifier: Apache-2.0
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"flint/internal/config"
	"flint/internal/errors"
	"flint/internal/pipeline"
	"flint/internal/stdlib"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("flint.verify")

// errNotVerified reports a run whose diagnostics were already printed.
var errNotVerified = stderrors.New("verification failed")

type options struct {
	configPath string

	boogie     string
	symbooglix string
	mono       string

	dumpIR          bool
	printOutput     bool
	printStats      bool
	skipHolistic    bool
	holisticTimeout int
	depth           int
	noInconsistency bool
	noUnreachable   bool
	parallel        int
	seed            int64

	watch   bool
	verbose int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand(&options{}).ExecuteContext(ctx); err != nil {
		if !stderrors.Is(err, errNotVerified) {
			color.Red("%s", err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flint-verify <file.flint>...",
		Short: "Verify Flint contracts",
		Long: `Translate Flint contracts to Boogie and report the properties the
verifier could not prove at their source locations.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			commonlog.Configure(opts.verbose, nil)

			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if opts.watch {
				return watch(cmd.Context(), cmd.OutOrStdout(), cfg, args)
			}
			return verify(cmd.Context(), cmd.OutOrStdout(), cfg, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "configuration file (default "+config.DefaultFile+" when present)")
	flags.StringVar(&opts.boogie, "boogie", "", "path of the Boogie verifier")
	flags.StringVar(&opts.symbooglix, "symbooglix", "", "path of the Symbooglix symbolic executor")
	flags.StringVar(&opts.mono, "mono", "", "run the verifiers through this mono binary")
	flags.BoolVar(&opts.dumpIR, "dump-ir", false, "print the generated Boogie program")
	flags.BoolVar(&opts.printOutput, "print-output", false, "print the raw verifier output")
	flags.BoolVar(&opts.printStats, "holistic-stats", false, "print run statistics of failed holistic specifications")
	flags.BoolVar(&opts.skipHolistic, "skip-holistic", false, "skip holistic specifications")
	flags.IntVar(&opts.holisticTimeout, "holistic-timeout", 0, "symbolic execution timeout in seconds")
	flags.IntVar(&opts.depth, "transaction-depth", 0, "public calls per holistic run")
	flags.BoolVar(&opts.noInconsistency, "no-inconsistency", false, "skip the inconsistent precondition check")
	flags.BoolVar(&opts.noUnreachable, "no-unreachable", false, "skip the unreachable code check")
	flags.IntVar(&opts.parallel, "parallel", 0, "verifier runs in flight during the unreachable code check")
	flags.Int64Var(&opts.seed, "seed", 0, "seed of generated variable names")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "verify again whenever a file changes")
	flags.CountVarP(&opts.verbose, "verbose", "v", "log verbosity (repeat for more)")

	return cmd
}

// loadConfig reads the configuration file and applies the flags the user set.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("boogie") {
		cfg.BoogiePath = opts.boogie
	}
	if flags.Changed("symbooglix") {
		cfg.SymbooglixPath = opts.symbooglix
	}
	if flags.Changed("mono") {
		cfg.MonoPath = opts.mono
	}
	if flags.Changed("dump-ir") {
		cfg.DumpIR = opts.dumpIR
	}
	if flags.Changed("print-output") {
		cfg.PrintVerifierOutput = opts.printOutput
	}
	if flags.Changed("holistic-stats") {
		cfg.PrintHolisticStats = opts.printStats
	}
	if flags.Changed("skip-holistic") {
		cfg.SkipHolistic = opts.skipHolistic
	}
	if flags.Changed("holistic-timeout") {
		cfg.HolisticTimeout = opts.holisticTimeout
	}
	if flags.Changed("transaction-depth") {
		cfg.TransactionDepth = opts.depth
	}
	if flags.Changed("no-inconsistency") {
		cfg.CheckInconsistency = !opts.noInconsistency
	}
	if flags.Changed("no-unreachable") {
		cfg.CheckUnreachable = !opts.noUnreachable
	}
	if flags.Changed("parallel") {
		cfg.MaxParallel = opts.parallel
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func verify(ctx context.Context, out io.Writer, cfg *config.Config, paths []string) error {
	startTime := time.Now()

	sources, err := pipeline.ReadSources(paths)
	if err != nil {
		return err
	}

	p := pipeline.New(cfg, nil)
	p.Output = out
	result, err := p.Verify(ctx, sources)
	if err != nil {
		return err
	}

	if cfg.DumpIR && result.Program != "" {
		fmt.Fprintln(out, result.Program)
	}

	reporter := errors.NewReporter()
	reporter.AddSource(stdlib.PreludeFilename, stdlib.Prelude)
	for _, src := range sources {
		reporter.AddSource(src.Path, src.Text)
	}
	fmt.Fprint(out, reporter.FormatAll(result.Diagnostics))

	duration := formatDuration(time.Since(startTime))
	if !result.Verified {
		fmt.Fprintln(out, color.RedString("Verification failed after %s", duration))
		return errNotVerified
	}
	fmt.Fprintln(out, color.GreenString("Verified %d file(s) in %s", len(sources), duration))
	return nil
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	default:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	}
}
