package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsa/internal/domain"
)

func init() {
	color.NoColor = true
}

func mustTest(t *testing.T, name, binary string, status int, args ...string) domain.TestCase {
	t.Helper()
	tc, err := domain.NewTest(name, binary, status)
	require.NoError(t, err)
	return tc.WithArgs(args...)
}

func TestFormatter_PrintSummary(t *testing.T) {
	summary := &domain.RunSummary{}
	summary.Meta.Artifact = "out/testsuite.yml"
	summary.Meta.Workers = 4
	summary.Add(domain.InstanceSummary{Instance: "blake3-original", Files: 1, Tests: 1})
	summary.Add(domain.InstanceSummary{Instance: "gccrs-parsing", Files: 10, Tests: 7, Skipped: 2, Errors: 1})

	var buf bytes.Buffer
	NewFormatter(&buf).PrintSummary(summary)
	out := buf.String()

	assert.Contains(t, out, "blake3-original")
	assert.Contains(t, out, "gccrs-parsing")
	assert.Contains(t, out, "out/testsuite.yml")
	assert.Contains(t, out, "1 file(s) could not be adapted")
}

func TestFormatter_PrintSummaryWithoutErrors(t *testing.T) {
	summary := &domain.RunSummary{}
	summary.Meta.Artifact = "out/testsuite.yml"
	summary.Add(domain.InstanceSummary{Instance: "blake3-original", Files: 1, Tests: 1})

	var buf bytes.Buffer
	NewFormatter(&buf).PrintSummary(summary)
	assert.Contains(t, buf.String(), "1 test case(s) written to out/testsuite.yml")
}

func TestFormatter_PrintCaseList(t *testing.T) {
	cases := []domain.TestCase{
		mustTest(t, "Parse `a.rs`", "gccrs", 0, "-fsyntax-only", "a.rs"),
		mustTest(t, "Run rustc on `b.rs`", "rustc", 1, "b.rs"),
		mustTest(t, "Parse `c.rs`", "gccrs", 1, "-fsyntax-only", "c.rs"),
	}

	var buf bytes.Buffer
	NewFormatter(&buf).PrintCaseList(cases, true)
	out := buf.String()

	assert.Contains(t, out, "Found 3 test case(s)")
	assert.Contains(t, out, "├── gccrs (2)")
	assert.Contains(t, out, "└── rustc (1)")
	assert.Contains(t, out, "-fsyntax-only c.rs")
	assert.Less(t, strings.Index(out, "a.rs"), strings.Index(out, "c.rs"))
}

func TestCommandLine(t *testing.T) {
	tc := mustTest(t, "x", "gccrs", 0, "-x", "rust", "with space.rs", "")
	assert.Equal(t, `gccrs -x rust "with space.rs" ""`, commandLine(tc))
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	Info("fetching %s", "blake3-original")
	Warn("compiler %s not found", "gccrs")

	assert.Equal(t, "[info] fetching blake3-original\n[WARN] compiler gccrs not found\n", buf.String())
}
