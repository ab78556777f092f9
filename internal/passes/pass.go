// Package passes contains the strategies that turn test suite files into test cases.
//
// A Pass fetches the files it works on (copying them into a staging tree,
// synthesizing them, or checking out a repository revision) and adapts each
// file into a domain.TestCase, deciding what command to run and which
// outcome to expect.
package passes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tsa/internal/compiler"
	"tsa/internal/config"
	"tsa/internal/discovery"
	"tsa/internal/domain"
	"tsa/internal/process"
	"tsa/internal/repository"
)

// FetchMode tells the executor how a pass may fetch
type FetchMode int

const (
	// FetchParallel fetches may fan out over the discovered entries
	FetchParallel FetchMode = iota
	// FetchSequential fetches write to a shared external path or mutate a shared
	// resource and must run on a single goroutine
	FetchSequential
)

// Pass is one concrete strategy instance
type Pass interface {
	// Name identifies the instance, e.g. "libcore-1.49.0-typecheck"
	Name() string

	// FetchMode reports whether Fetch may run its work in parallel
	FetchMode() FetchMode

	// Fetch discovers and stages the files to adapt
	Fetch(ctx context.Context, env *Env) ([]domain.TestFile, error)

	// Adapt derives the test case for one fetched file
	Adapt(ctx context.Context, env *Env, file domain.TestFile) (domain.TestCase, error)
}

// Env is the read-only run environment shared by every pass
type Env struct {
	Config    *config.Config
	Runner    *process.Runner
	Collector *discovery.Collector
	Filter    *discovery.Filter
	Reference *repository.Repository

	// Jobs is the parallelism available to Fetch
	Jobs int
}

// NewEnv creates the environment for a run
func NewEnv(cfg *config.Config, runner *process.Runner) *Env {
	return &Env{
		Config:    cfg,
		Runner:    runner,
		Collector: discovery.NewCollector(cfg.SourceExtension),
		Filter:    discovery.NewFilter(),
		Reference: repository.Open(cfg.ReferenceRepo, runner),
		Jobs:      cfg.Jobs,
	}
}

// WithJobs returns a copy of the environment with the given fetch parallelism
func (e *Env) WithJobs(jobs int) *Env {
	cp := *e
	cp.Jobs = jobs
	return &cp
}

// Compiler starts an invocation of the configured compiler of the given kind
func (e *Env) Compiler(kind compiler.Kind) *compiler.Invocation {
	binary := e.Config.ReferenceCompiler
	if kind == compiler.Target {
		binary = e.Config.TargetCompiler
	}
	return compiler.New(kind, binary)
}

// Run finalizes the invocation and runs it. A positive timeout bounds the run.
func (e *Env) Run(ctx context.Context, inv *compiler.Invocation, timeout time.Duration) (process.Result, error) {
	cmd, err := inv.Finalize()
	if err != nil {
		return process.Result{}, err
	}
	return e.Runner.Run(ctx, cmd.Spec(), timeout)
}

// collect stages every source file below from into to, keeping identities relative
// to stripPrefix. The configured filter is applied before anything is copied.
func (e *Env) collect(ctx context.Context, from, to, stripPrefix string) ([]domain.TestFile, error) {
	files, err := e.Collector.Plan(from, to, stripPrefix)
	if err != nil {
		return nil, err
	}

	files, err = e.Filter.FilterByPattern(files, e.Config.Flags.Filter)
	if err != nil {
		return nil, err
	}

	if err := e.Collector.Materialize(ctx, files, stripPrefix, e.Jobs); err != nil {
		return nil, err
	}
	return files, nil
}

// newTest finalizes inv and builds a test case running it and expecting status
func newTest(name string, inv *compiler.Invocation, status int) (domain.TestCase, error) {
	cmd, err := inv.Finalize()
	if err != nil {
		return domain.TestCase{}, err
	}

	tc, err := domain.NewTest(name, cmd.Binary(), status)
	if err != nil {
		return domain.TestCase{}, err
	}
	return tc.WithArgs(cmd.Args()...), nil
}

// scratchDir creates a temporary working directory for compiler outputs
func scratchDir() (string, func(), error) {
	dir, err := os.MkdirTemp("", "tsa-*")
	if err != nil {
		return "", nil, fmt.Errorf("create scratch directory: %w", err)
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}

// referenceSuite returns a directory of the reference repository
func referenceSuite(cfg *config.Config, parts ...string) string {
	return filepath.Join(append([]string{cfg.ReferenceRepo}, parts...)...)
}

// targetSuite returns the target compiler's own test corpus
func targetSuite(cfg *config.Config) string {
	return filepath.Join(cfg.TargetRepo, "gcc", "testsuite", "rust")
}
