package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrSpawn is returned when a process cannot be started
var ErrSpawn = errors.New("failed to spawn process")

// waitDelay bounds how long Wait keeps draining I/O after a timed out process is killed
const waitDelay = 2 * time.Second

// Spec describes a process to run
type Spec struct {
	Binary string
	Args   []string
	Env    []string  // KEY=value overrides appended to the current environment
	Dir    string    // Working directory, current directory when empty
	Stdout io.Writer // Discarded when nil
	Stderr io.Writer // Discarded when nil
}

// Result is the outcome of a process run. A non-zero exit code is not an error.
type Result struct {
	ExitCode int // -1 when the process was killed by a signal or timed out
	TimedOut bool
	Duration time.Duration
}

// Success reports whether the process exited with status 0 before its deadline
func (r Result) Success() bool {
	return !r.TimedOut && r.ExitCode == 0
}

// Runner executes processes
type Runner struct{}

// NewRunner creates a new Runner
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes spec and waits for it. A positive timeout bounds the wall clock
// time of the run; on expiry the process is killed and the result is marked
// TimedOut instead of returning an error.
func (r *Runner) Run(ctx context.Context, spec Spec, timeout time.Duration) (Result, error) {
	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	cmd := exec.CommandContext(runCtx, spec.Binary, spec.Args...)

	// Start with current environment
	cmd.Env = append(os.Environ(), spec.Env...)
	cmd.Dir = spec.Dir
	cmd.Stdout = spec.Stdout
	cmd.Stderr = spec.Stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrSpawn, spec.Binary, err)
	}

	err := cmd.Wait()
	result := Result{Duration: time.Since(start)}

	// Only the per-run deadline is a timeout; a done parent is returned as an error
	if timeout > 0 && ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		result.ExitCode = -1
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("wait for %s: %w", spec.Binary, err)
	}

	return result, nil
}

// Output runs spec and returns its trimmed standard output. A non-zero exit
// status is reported as an error including standard error.
func (r *Runner) Output(ctx context.Context, spec Spec) (string, error) {
	var stdout, stderr bytes.Buffer
	spec.Stdout = &stdout
	spec.Stderr = &stderr

	result, err := r.Run(ctx, spec, 0)
	if err != nil {
		return "", err
	}
	if !result.Success() {
		return "", fmt.Errorf("%s %s exited with status %d: %s",
			spec.Binary, strings.Join(spec.Args, " "), result.ExitCode, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(stdout.String()), nil
}
