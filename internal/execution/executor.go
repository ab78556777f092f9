package execution

import (
	"context"
	"errors"
	"fmt"

	"tsa/internal/domain"
	"tsa/internal/passes"
	"tsa/internal/ui"
)

// Outcome is what one pass instance produced
type Outcome struct {
	// Rendered is the concatenated text of every non-skipped case, in fetch order
	Rendered string
	Summary  domain.InstanceSummary
	// Err joins the adapt errors of the instance. The cases that were built are
	// still rendered.
	Err error
}

// Executor runs the fetch and adapt phases of pass instances
type Executor struct {
	env          *passes.Env
	failFast     bool
	showProgress bool
}

// NewExecutor creates a new Executor
func NewExecutor(env *passes.Env, failFast, showProgress bool) *Executor {
	return &Executor{
		env:          env,
		failFast:     failFast,
		showProgress: showProgress,
	}
}

// Fetch runs the fetch phase of p. Fetches that mutate shared state get a single job.
func (e *Executor) Fetch(ctx context.Context, p passes.Pass) ([]domain.TestFile, error) {
	env := e.env
	if p.FetchMode() == passes.FetchSequential {
		env = env.WithJobs(1)
	}
	return p.Fetch(ctx, env)
}

// Run fetches and adapts every file of p. The returned error is fatal to the
// run: a failed fetch, or with fail-fast the first adapt error.
func (e *Executor) Run(ctx context.Context, kind passes.Kind, p passes.Pass) (Outcome, error) {
	summary := domain.InstanceSummary{Pass: kind.String(), Instance: p.Name()}

	files, err := e.Fetch(ctx, p)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: fetch: %w", p.Name(), err)
	}
	summary.Files = len(files)

	pool := NewWorkerPool(e.env.Config.Jobs)
	if e.showProgress && len(files) > 0 {
		pool.SetProgress(ui.NewProgressBar(p.Name(), len(files)))
	}

	adapt := func(ctx context.Context, file domain.TestFile) (domain.TestCase, error) {
		return p.Adapt(ctx, e.env, file)
	}

	results, duration, err := pool.ExecuteWithOptions(ctx, files, adapt, e.failFast)
	summary.Duration = duration
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", p.Name(), err)
	}

	var cases []domain.TestCase
	var errs []error
	for _, r := range results {
		switch {
		case r.Error != nil:
			summary.Errors++
			errs = append(errs, fmt.Errorf("%s: %s: %w", p.Name(), r.File.Identity, r.Error))
		case r.Case.IsSkip():
			summary.Skipped++
		default:
			summary.Tests++
			cases = append(cases, r.Case)
		}
	}

	return Outcome{
		Rendered: domain.Render(cases),
		Summary:  summary,
		Err:      errors.Join(errs...),
	}, nil
}
