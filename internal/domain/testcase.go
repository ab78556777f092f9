package domain

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// DefaultTimeout is the timeout, in seconds, given to a test case unless a pass overrides it
const DefaultTimeout = 15

// ArtifactHeader is the top-level marker every artifact starts with
const ArtifactHeader = "tests:\n"

// ErrExitCodeRange is returned when an observed status cannot be expressed as an exit code
var ErrExitCodeRange = errors.New("exit code out of range")

// ExitCode converts a raw process status into an exit code expectation.
// Statuses outside 0..255 are rejected instead of being truncated.
func ExitCode(status int) (uint8, error) {
	if status < 0 || status > 255 {
		return 0, fmt.Errorf("%w: %d", ErrExitCodeRange, status)
	}
	return uint8(status), nil
}

// TestCase is one generated assertion, or a Skip.
// The zero value is a Test with no name, no binary and exit code 0.
type TestCase struct {
	Name           string   `yaml:"name" json:"name"`
	Binary         string   `yaml:"binary" json:"binary"`
	Args           []string `yaml:"args" json:"args"`
	ExitCode       uint8    `yaml:"exit_code" json:"exit_code"`
	Timeout        int      `yaml:"timeout" json:"timeout"` // seconds
	ExpectedStdout string   `yaml:"stdout,omitempty" json:"stdout,omitempty"`
	ExpectedStderr string   `yaml:"stderr,omitempty" json:"stderr,omitempty"`

	skip bool
}

// Skip returns the abstention marker. It carries no fields and renders nothing.
func Skip() TestCase {
	return TestCase{skip: true}
}

// NewTest creates a Test expecting the given raw status
func NewTest(name, binary string, status int) (TestCase, error) {
	code, err := ExitCode(status)
	if err != nil {
		return TestCase{}, fmt.Errorf("test %q: %w", name, err)
	}
	return TestCase{
		Name:     name,
		Binary:   binary,
		ExitCode: code,
		Timeout:  DefaultTimeout,
	}, nil
}

// IsSkip reports whether the case is a Skip
func (tc TestCase) IsSkip() bool {
	return tc.skip
}

// WithArgs returns a copy of the case with args appended
func (tc TestCase) WithArgs(args ...string) TestCase {
	if tc.skip {
		return tc
	}
	tc.Args = append(slices.Clip(tc.Args), args...)
	return tc
}

// WithTimeout returns a copy of the case with the given timeout in seconds
func (tc TestCase) WithTimeout(seconds int) TestCase {
	if tc.skip {
		return tc
	}
	tc.Timeout = seconds
	return tc
}

// WithStdout returns a copy of the case expecting the given stdout fragment
func (tc TestCase) WithStdout(stdout string) TestCase {
	if tc.skip {
		return tc
	}
	tc.ExpectedStdout = stdout
	return tc
}

// WithStderr returns a copy of the case expecting the given stderr fragment
func (tc TestCase) WithStderr(stderr string) TestCase {
	if tc.skip {
		return tc
	}
	tc.ExpectedStderr = stderr
	return tc
}

// Render writes the case in the artifact schema. Skip renders as "".
func (tc TestCase) Render() string {
	if tc.skip {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  - name: %s\n", quote(tc.Name))
	fmt.Fprintf(&b, "    binary: %s\n", quote(tc.Binary))
	fmt.Fprintf(&b, "    timeout: %d\n", tc.Timeout)
	fmt.Fprintf(&b, "    exit_code: %d\n", tc.ExitCode)
	if tc.ExpectedStdout != "" {
		fmt.Fprintf(&b, "    stdout: %s\n", quote(tc.ExpectedStdout))
	}
	if tc.ExpectedStderr != "" {
		fmt.Fprintf(&b, "    stderr: %s\n", quote(tc.ExpectedStderr))
	}
	b.WriteString("    args:\n")
	for _, arg := range tc.Args {
		fmt.Fprintf(&b, "      - %s\n", quote(arg))
	}
	return b.String()
}

// String implements fmt.Stringer
func (tc TestCase) String() string {
	return tc.Render()
}

// Render concatenates the rendered form of every case, in order
func Render(cases []TestCase) string {
	var b strings.Builder
	for _, tc := range cases {
		b.WriteString(tc.Render())
	}
	return b.String()
}

// quote emits a YAML double-quoted scalar. Go's escape set is a subset of YAML's.
func quote(s string) string {
	return strconv.Quote(s)
}
