package verifier

import (
	stderrors "errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	// ErrVerifierExit is returned when a verification tool exits with a non-zero status.
	ErrVerifierExit = stderrors.New("verifier exited with non-zero status")

	// ErrUnmappedLine is returned when the verifier reports a line the renderer never
	// mapped to source.
	ErrUnmappedLine = stderrors.New("no translation information for line")

	// ErrMalformedOutput is returned when the verifier output cannot be parsed.
	ErrMalformedOutput = stderrors.New("malformed verifier output")
)

// FailureKind classifies a failure reported by the verifier.
type FailureKind int

const (
	AssertionFailure FailureKind = iota
	PreconditionFailure
	PostconditionFailure
	LoopInvariantEntryFailure

	// ModifiesFailure and GenericFailure are errors in the generated program itself.
	ModifiesFailure
	GenericFailure
)

func (k FailureKind) String() string {
	switch k {
	case AssertionFailure:
		return "assertion"
	case PreconditionFailure:
		return "precondition"
	case PostconditionFailure:
		return "postcondition"
	case LoopInvariantEntryFailure:
		return "loop invariant entry"
	case ModifiesFailure:
		return "modifies"
	case GenericFailure:
		return "generic"
	}
	return "unknown"
}

// Failure is one failure reported by the verifier, located by lines of the rendered
// program.
type Failure struct {
	Kind FailureKind

	// Line is the failing assertion, the call site of a precondition, the return path
	// of a postcondition or the loop of an invariant.
	Line int

	// Related is the line of the failing pre- or postcondition.
	Related int

	// Text is the raw output line of tool errors.
	Text string
}

var (
	toolErrorPattern  = regexp.MustCompile(`\([0-9]+,[0-9]+\): [eE]rror:`)
	proofErrorPattern = regexp.MustCompile(`\([0-9]+,[0-9]+\): Error BP([0-9]+)`)
	linePattern       = regexp.MustCompile(`\(([0-9]+),[0-9]+\):`)
	versionPattern    = regexp.MustCompile(`version ([0-9]+)\.([0-9]+)(?:\.([0-9]+))?`)
)

// ParseOutput extracts the failures from the text printed by the verifier. The first
// line is the tool banner. Errors in the generated program are returned on their own
// since proof failures are meaningless when the program is rejected.
func ParseOutput(output string) ([]Failure, error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}

	var toolErrors []Failure
	for i, line := range lines {
		match := toolErrorPattern.FindString(line)
		if match == "" {
			continue
		}
		n, err := lineNumber(match)
		if err != nil {
			return nil, err
		}
		text := strings.TrimSpace(line)
		// The modifies clause message may continue on the following line.
		if i+1 < len(lines) && !toolErrorPattern.MatchString(lines[i+1]) && !proofErrorPattern.MatchString(lines[i+1]) {
			if next := strings.TrimSpace(lines[i+1]); strings.Contains(next, "modifies clause") {
				text += " " + next
			}
		}
		kind := GenericFailure
		if strings.Contains(text, "modifies clause") {
			kind = ModifiesFailure
		}
		toolErrors = append(toolErrors, Failure{Kind: kind, Line: n, Text: text})
	}
	if len(toolErrors) > 0 {
		return toolErrors, nil
	}

	type group struct {
		code  int
		lines []string
	}
	var groups []*group
	for _, line := range lines {
		if m := proofErrorPattern.FindStringSubmatch(line); m != nil {
			code, _ := strconv.Atoi(m[1])
			groups = append(groups, &group{code: code})
		}
		if len(groups) > 0 {
			last := groups[len(groups)-1]
			last.lines = append(last.lines, line)
		}
	}

	failures := make([]Failure, 0, len(groups))
	for _, g := range groups {
		f, err := parseFailure(g.code, g.lines)
		if err != nil {
			return nil, err
		}
		failures = append(failures, f)
	}
	return failures, nil
}

func parseFailure(code int, lines []string) (Failure, error) {
	var kind FailureKind
	related := false
	switch code {
	case 5001:
		kind = AssertionFailure
	case 5002:
		kind, related = PreconditionFailure, true
	case 5003:
		kind, related = PostconditionFailure, true
	case 5004:
		kind = LoopInvariantEntryFailure
	default:
		return Failure{}, fmt.Errorf("%w: unknown failure code BP%d", ErrMalformedOutput, code)
	}

	first, err := lineNumber(lines[0])
	if err != nil {
		return Failure{}, err
	}
	f := Failure{Kind: kind, Line: first}
	if related {
		if len(lines) < 2 {
			return Failure{}, fmt.Errorf("%w: BP%d without related location", ErrMalformedOutput, code)
		}
		if f.Related, err = lineNumber(lines[1]); err != nil {
			return Failure{}, err
		}
	}
	return f, nil
}

// lineNumber reads the line of the single "(line,column):" location in text.
func lineNumber(text string) (int, error) {
	matches := linePattern.FindAllStringSubmatch(text, -1)
	if len(matches) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedOutput, text)
	}
	return strconv.Atoi(matches[0][1])
}

// BannerVersion reads the version printed on the first line of the verifier output.
// Boogie prints four components; only the first three are kept.
func BannerVersion(output string) (*semver.Version, bool) {
	banner, _, _ := strings.Cut(strings.TrimSpace(output), "\n")
	m := versionPattern.FindStringSubmatch(banner)
	if m == nil {
		return nil, false
	}
	patch := m[3]
	if patch == "" {
		patch = "0"
	}
	v, err := semver.NewVersion(fmt.Sprintf("%s.%s.%s", m[1], m[2], patch))
	if err != nil {
		return nil, false
	}
	return v, true
}

