package commands

import (
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"tsa/internal/config"
	"tsa/internal/domain"
	"tsa/internal/storage"
	"tsa/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	storage   storage.Storage
	formatter *ui.Formatter
	showArgs  bool
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	st storage.Storage,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		storage:   st,
		formatter: formatter,
	}
}

// SetShowArgs makes the listing include the arguments of every case
func (lc *ListCommand) SetShowArgs(show bool) {
	lc.showArgs = show
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	cases, err := lc.storage.LoadArtifact(artifactArg(lc.config, args))
	if err != nil {
		return err
	}

	// Filter cases
	cases = filterCases(cases, lc.config.Flags.Filter)

	if len(cases) == 0 {
		color.Yellow("No test cases found")
		return nil
	}

	lc.formatter.PrintCaseList(cases, lc.showArgs)
	return nil
}

// artifactArg returns the artifact named on the command line, or the configured one
func artifactArg(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.ArtifactPath
}

// filterCases keeps the cases whose name contains pattern
func filterCases(cases []domain.TestCase, pattern string) []domain.TestCase {
	if pattern == "" {
		return cases
	}
	var filtered []domain.TestCase
	for _, tc := range cases {
		if strings.Contains(tc.Name, pattern) {
			filtered = append(filtered, tc)
		}
	}
	return filtered
}
