package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"tsa/internal/domain"
)

// Formatter formats and displays output
type Formatter struct {
	w io.Writer
}

// NewFormatter creates a new Formatter writing to w
func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

// PrintSummary displays the totals of a run and one row per pass instance
func (f *Formatter) PrintSummary(summary *domain.RunSummary) {
	meta := summary.Meta
	cyan := color.New(color.FgCyan)
	white := color.New(color.FgWhite)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	fmt.Fprint(f.w, "\n")
	cyan.Fprintln(f.w, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.w, "║                   Test Generation Statistics                  ║")
	cyan.Fprintln(f.w, "╚═══════════════════════════════════════════════════════════════╝")

	separator := "├─────────────────────────────────┼─────────────────────────────┤"
	row := func(label string, c *color.Color, value any) {
		fmt.Fprintf(f.w, "│ %-31s │ ", label)
		c.Fprintf(f.w, "%-27v", value)
		fmt.Fprintln(f.w, " │")
	}

	fmt.Fprintln(f.w, "┌─────────────────────────────────┬─────────────────────────────┐")
	row("Files", white, meta.TotalFiles)
	fmt.Fprintln(f.w, separator)
	row("Tests", green, meta.TotalTests)
	fmt.Fprintln(f.w, separator)
	row("Skipped", yellow, meta.TotalSkipped)
	fmt.Fprintln(f.w, separator)
	row("Errors", red, meta.TotalErrors)
	fmt.Fprintln(f.w, separator)
	row("Duration", white, fmt.Sprintf("%.2fs", meta.DurationSeconds))
	fmt.Fprintln(f.w, separator)
	row("Workers", white, meta.Workers)
	fmt.Fprintln(f.w, separator)
	row("Artifact", white, meta.Artifact)
	fmt.Fprintln(f.w, "└─────────────────────────────────┴─────────────────────────────┘")

	if len(summary.Instances) > 0 {
		fmt.Fprintln(f.w)
		fmt.Fprintf(f.w, "%-36s %7s %7s %7s %7s\n", "INSTANCE", "FILES", "TESTS", "SKIPPED", "ERRORS")
		for _, inst := range summary.Instances {
			fmt.Fprintf(f.w, "%-36s %7d ", inst.Instance, inst.Files)
			green.Fprintf(f.w, "%7d ", inst.Tests)
			yellow.Fprintf(f.w, "%7d ", inst.Skipped)
			if inst.Errors > 0 {
				red.Fprintf(f.w, "%7d\n", inst.Errors)
			} else {
				fmt.Fprintf(f.w, "%7d\n", inst.Errors)
			}
		}
	}

	fmt.Fprintln(f.w)
	if meta.TotalErrors == 0 {
		green.Fprintf(f.w, "✓ %d test case(s) written to %s\n", meta.TotalTests, meta.Artifact)
	} else {
		red.Fprintf(f.w, "✗ %d file(s) could not be adapted\n", meta.TotalErrors)
	}
}

// PrintCaseList prints the cases of an artifact grouped by the binary they run,
// optionally with their arguments.
func (f *Formatter) PrintCaseList(cases []domain.TestCase, showArgs bool) {
	groups := make(map[string][]domain.TestCase)
	for _, tc := range cases {
		groups[tc.Binary] = append(groups[tc.Binary], tc)
	}

	var binaries []string
	for binary := range groups {
		binaries = append(binaries, binary)
	}
	sort.Strings(binaries)

	color.New(color.FgGreen).Fprintf(f.w, "Found %d test case(s):\n\n", len(cases))

	cyan := color.New(color.FgCyan)
	for i, binary := range binaries {
		isLastBinary := i == len(binaries)-1
		if isLastBinary {
			cyan.Fprintf(f.w, "└── %s (%d)\n", binary, len(groups[binary]))
		} else {
			cyan.Fprintf(f.w, "├── %s (%d)\n", binary, len(groups[binary]))
		}

		indent := "│   "
		if isLastBinary {
			indent = "    "
		}

		for j, tc := range groups[binary] {
			isLastCase := j == len(groups[binary])-1
			branch := "├── "
			if isLastCase {
				branch = "└── "
			}

			fmt.Fprintf(f.w, "%s%s%s %s\n", indent, branch, color.YellowString(tc.Name), exitCodeTag(tc.ExitCode))
			if showArgs && len(tc.Args) > 0 {
				child := "│   "
				if isLastCase {
					child = "    "
				}
				fmt.Fprintf(f.w, "%s%s    %s\n", indent, child, strings.Join(tc.Args, " "))
			}
		}
	}
}

func exitCodeTag(code uint8) string {
	if code == 0 {
		return color.GreenString("[exit %d]", code)
	}
	return color.RedString("[exit %d]", code)
}
