// Package repository mutates the checked-out revision of a git working copy.
//
// A checkout is a critical section: WithRevision records the current
// revision, checks out the requested one, runs the callback and restores the
// recorded revision on every exit path. Concurrent callers on the same
// Repository are serialized.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"tsa/internal/process"
)

// ErrMutation is returned when a checkout or a restore fails
var ErrMutation = errors.New("repository mutation failed")

// Repository is a git working copy
type Repository struct {
	path   string
	git    string
	runner *process.Runner

	mu sync.Mutex
}

// Open returns a Repository for the working copy at path
func Open(path string, runner *process.Runner) *Repository {
	return &Repository{path: path, git: "git", runner: runner}
}

// Path returns the working copy path
func (r *Repository) Path() string {
	return r.path
}

// Head returns the checked-out branch name, or the commit hash when HEAD is detached
func (r *Repository) Head(ctx context.Context) (string, error) {
	branch, err := r.output(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if branch != "HEAD" {
		return branch, nil
	}
	return r.Commit(ctx)
}

// Commit returns the hash of the checked-out commit
func (r *Repository) Commit(ctx context.Context) (string, error) {
	return r.output(ctx, "rev-parse", "HEAD")
}

// WithRevision checks out rev, runs fn and restores the previous revision,
// whether fn succeeds, fails or panics.
func (r *Repository) WithRevision(ctx context.Context, rev string, fn func() error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	original, err := r.Head(ctx)
	if err != nil {
		return err
	}

	if err := r.checkout(ctx, rev); err != nil {
		// A failed checkout can leave a partial state behind
		return errors.Join(err, r.checkout(context.WithoutCancel(ctx), original))
	}

	defer func() {
		// Restore even when ctx was cancelled mid-copy
		if restoreErr := r.checkout(context.WithoutCancel(ctx), original); restoreErr != nil {
			err = errors.Join(err, restoreErr)
		}
	}()

	return fn()
}

func (r *Repository) checkout(ctx context.Context, rev string) error {
	_, err := r.output(ctx, "checkout", "--quiet", rev)
	return err
}

func (r *Repository) output(ctx context.Context, args ...string) (string, error) {
	out, err := r.runner.Output(ctx, process.Spec{
		Binary: r.git,
		Args:   append([]string{"-C", r.path}, args...),
	})
	if err != nil {
		return "", fmt.Errorf("%w: `git %s`: %v", ErrMutation, strings.Join(args, " "), err)
	}
	return out, nil
}
