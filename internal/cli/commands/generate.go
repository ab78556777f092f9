package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"tsa/internal/config"
	"tsa/internal/domain"
	"tsa/internal/execution"
	"tsa/internal/passes"
	"tsa/internal/process"
	"tsa/internal/storage"
	"tsa/internal/ui"

	"github.com/spf13/cobra"
)

// GenerateCommand handles the generate command
type GenerateCommand struct {
	config       *config.Config
	runner       *process.Runner
	storage      storage.Storage
	formatter    *ui.Formatter
	showProgress bool
}

// NewGenerateCommand creates a new GenerateCommand
func NewGenerateCommand(
	cfg *config.Config,
	runner *process.Runner,
	st storage.Storage,
	formatter *ui.Formatter,
) *GenerateCommand {
	return &GenerateCommand{
		config:       cfg,
		runner:       runner,
		storage:      st,
		formatter:    formatter,
		showProgress: true,
	}
}

// SetProgress enables or disables the per-instance progress bars
func (gc *GenerateCommand) SetProgress(show bool) {
	gc.showProgress = show
}

// Execute runs the command
func (gc *GenerateCommand) Execute(cmd *cobra.Command, args []string) error {
	summary, err := gc.Generate(cmd.Context())
	if summary != nil {
		gc.formatter.PrintSummary(summary)
	}
	return err
}

// Generate runs every selected pass and writes one artifact holding their
// cases, in selection order. Adapt errors do not stop the run: the artifact
// is still written and the errors are returned joined. A fetch error, or any
// error with fail-fast, aborts before anything is written.
func (gc *GenerateCommand) Generate(ctx context.Context) (*domain.RunSummary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := gc.config

	kinds, err := passes.ParseKinds(cfg.Flags.Passes)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	for _, missing := range cfg.MissingCompilers() {
		ui.Warn("compiler %s does not resolve, generated tests will fail to run", missing)
	}

	env := passes.NewEnv(cfg, gc.runner)
	executor := execution.NewExecutor(env, cfg.Flags.FailFast, gc.showProgress)

	summary := &domain.RunSummary{}
	var body strings.Builder
	var errs []error
	startTime := time.Now()

	for _, kind := range kinds {
		for _, p := range passes.Dispatch(kind, cfg) {
			ui.Info("running %s", p.Name())

			outcome, err := executor.Run(ctx, kind, p)
			if err != nil {
				return nil, err
			}

			body.WriteString(outcome.Rendered)
			summary.Add(outcome.Summary)
			if outcome.Err != nil {
				ui.Error("%d file(s) of %s could not be adapted", outcome.Summary.Errors, p.Name())
				errs = append(errs, outcome.Err)
			}
		}
	}

	if err := gc.storage.SaveArtifact(body.String()); err != nil {
		return nil, err
	}

	duration := time.Since(startTime)
	for _, kind := range kinds {
		summary.Meta.Passes = append(summary.Meta.Passes, kind.String())
	}
	summary.Meta.Duration = duration.String()
	summary.Meta.DurationSeconds = duration.Seconds()
	summary.Meta.Workers = cfg.Jobs
	summary.Meta.Artifact = cfg.ArtifactPath
	summary.Meta.Timestamp = time.Now().Format(time.RFC3339)

	if err := gc.storage.SaveSummary(summary); err != nil {
		errs = append(errs, fmt.Errorf("failed to save summary: %w", err))
	}

	return summary, errors.Join(errs...)
}
