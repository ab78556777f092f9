package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"tsa/internal/domain"
)

// CaseViewer browses the cases of an artifact in an interactive TUI
type CaseViewer struct{}

// NewCaseViewer creates a new CaseViewer
func NewCaseViewer() *CaseViewer {
	return &CaseViewer{}
}

// View displays the cases, a list on the left and the selected case on the right
func (cv *CaseViewer) View(cases []domain.TestCase) error {
	if len(cases) == 0 {
		color.Yellow("No test cases in artifact")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	for i, tc := range cases {
		list.AddItem(listItemText(i, tc), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	failing := 0
	for _, tc := range cases {
		if tc.ExitCode != 0 {
			failing++
		}
	}

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(fmt.Sprintf(" Test Cases (%d total, %d expecting failure) | Use ↑↓ to navigate, → to view details, ← to go back, Ctrl+C to exit ", len(cases), failing))

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(cases) {
			statsView.SetText(formatCaseStats(cases[index]))
			detailsView.SetText(formatCaseDetails(cases[index]))
		}
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}

func listItemText(index int, tc domain.TestCase) string {
	name := tview.Escape(tc.Name)
	if tc.ExitCode != 0 {
		return fmt.Sprintf("[yellow]%d.[red] %s[white]", index+1, name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, name)
}

// formatCaseStats formats the header line of a case
func formatCaseStats(tc domain.TestCase) string {
	return fmt.Sprintf("[cyan]binary:[white] [yellow]%s[white]  [cyan]exit code:[white] %d  [cyan]timeout:[white] %ds\n",
		tview.Escape(tc.Binary), tc.ExitCode, tc.Timeout)
}

// formatCaseDetails formats a case for display using tview color tags
func formatCaseDetails(tc domain.TestCase) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "[green]Test: %s[white]\n\n", tview.Escape(tc.Name))

	fmt.Fprintf(w, "[yellow]Command:[white]\n%s\n\n", tview.Escape(commandLine(tc)))

	if tc.ExpectedStdout != "" {
		fmt.Fprintf(w, "[yellow]Expected stdout:[white]\n%s\n\n", tview.Escape(tc.ExpectedStdout))
	}
	if tc.ExpectedStderr != "" {
		fmt.Fprintf(w, "[yellow]Expected stderr:[white]\n%s\n\n", tview.Escape(tc.ExpectedStderr))
	}

	if len(tc.Args) > 0 {
		fmt.Fprintf(w, "[yellow]Arguments:[white]\n")
		for i, arg := range tc.Args {
			fmt.Fprintf(w, "  %d\t%s\n", i, tview.Escape(arg))
		}
	}

	w.Flush()
	return builder.String()
}

// commandLine renders the case as a shell-like command line
func commandLine(tc domain.TestCase) string {
	parts := []string{tc.Binary}
	for _, arg := range tc.Args {
		if arg == "" || strings.ContainsAny(arg, " \t\"'") {
			arg = fmt.Sprintf("%q", arg)
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}
