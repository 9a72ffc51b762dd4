package verifier

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"flint/internal/boogie"
	"flint/internal/errors"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// terminationCounters is the results file Symbooglix writes to its output directory.
const terminationCounters = "termination_counters.yml"

// holistic explores the i-th holistic check of program by symbolic execution. The
// exit status of the executor is not checked: it exits with 4 on timeout and the
// termination counters are the verdict.
func (v *Verifier) holistic(ctx context.Context, program *boogie.ResolvedProgram, i int) (errors.HolisticStatistics, error) {
	test := program.Holistic[i]
	text, _ := boogie.Print(program.HolisticProgram(test))
	path, err := writeProgram(v.opts.TempDir, text)
	if err != nil {
		return errors.HolisticStatistics{}, err
	}
	defer os.Remove(path)

	outputDir := filepath.Join(v.opts.TempDir, uuid.NewString())
	defer os.RemoveAll(outputDir)

	entry := strings.Join(program.EntryPoints, ",")
	if len(program.EntryPoints) == len(program.Holistic) {
		entry = program.EntryPoints[i]
	}
	timeout := strconv.Itoa(int(v.opts.HolisticTimeout / time.Second))
	name, args := v.command(v.opts.SymbooglixPath, path,
		"--timeout", timeout,
		"--output-dir", outputDir,
		"-e", entry)

	log.Infof("symbolic execution of %s at %s", entry, test.Spec)
	out, err := v.runner.Run(ctx, name, args...)
	if err != nil {
		return errors.HolisticStatistics{}, err
	}
	log.Debugf("%s exited with status %d", name, out.ExitCode)

	stats, err := readTerminationCounters(filepath.Join(outputDir, terminationCounters))
	if err != nil {
		log.Errorf("%s: %s", test.Spec, err)
		return errors.HolisticStatistics{}, err
	}
	log.Infof("%s: %d of %d runs terminated without error", test.Spec, stats.SuccessfulRuns, stats.TotalRuns)
	return stats, nil
}

func readTerminationCounters(path string) (errors.HolisticStatistics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.HolisticStatistics{}, fmt.Errorf("reading symbolic execution results: %w", err)
	}
	var counters map[string]int
	if err := yaml.Unmarshal(data, &counters); err != nil {
		return errors.HolisticStatistics{}, fmt.Errorf("%w: %s: %v", ErrMalformedOutput, path, err)
	}
	if _, ok := counters["TerminatedWithoutError"]; !ok {
		return errors.HolisticStatistics{}, fmt.Errorf("%w: %s has no TerminatedWithoutError counter", ErrMalformedOutput, path)
	}

	stats := errors.HolisticStatistics{SuccessfulRuns: counters["TerminatedWithoutError"]}
	for _, n := range counters {
		stats.TotalRuns += n
	}
	return stats, nil
}
