package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// ProgressBar shows how many files of a pass instance were adapted
type ProgressBar struct {
	bar   *progressbar.ProgressBar
	label string
}

// NewProgressBar creates a new progress bar for count files
func NewProgressBar(label string, count int) *ProgressBar {
	p := &ProgressBar{label: label}
	p.bar = progressbar.NewOptions(count,
		progressbar.OptionSetDescription(p.describe(0, 0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return p
}

// Update sets the bar to the number of adapted files and refreshes the counts
func (p *ProgressBar) Update(tests, skipped, errors int) {
	p.bar.Set(tests + skipped + errors)
	p.bar.Describe(p.describe(tests, skipped, errors))
}

func (p *ProgressBar) describe(tests, skipped, errors int) string {
	return color.CyanString("%s: ", p.label) +
		color.GreenString("[tests: %d", tests) +
		" | " +
		color.YellowString("skipped: %d", skipped) +
		" | " +
		color.RedString("errors: %d]", errors)
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	p.bar.Finish()
}
